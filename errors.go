package selmaGate

import "errors"

var (
	// ErrGateNotReady is returned when a nil or closed Gate is used for an
	// operation that writes state.
	ErrGateNotReady = errors.New("gate not ready")
	// ErrInvalidRecord is returned by Establish when the record cannot be
	// persisted as a live session.
	ErrInvalidRecord = errors.New("invalid session record")
	// ErrStoreRequired is returned by Build when neither a store nor a Redis
	// client was supplied.
	ErrStoreRequired = errors.New("session store required")
	// ErrIdleDisabled is returned by WatchIdle when the idle guard is off.
	ErrIdleDisabled = errors.New("idle guard disabled")
)
