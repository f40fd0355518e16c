package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Store.Get] when the scope holds no record.
var ErrNotFound = errors.New("session not found")

// ErrStoreUnavailable wraps backend failures. It is distinct from
// [ErrNotFound] so callers can deny without destroying state they could not
// read.
var ErrStoreUnavailable = errors.New("session store unavailable")

// DefaultClient is the scope used when the context carries no client ID.
const DefaultClient = "0"

// Store persists the raw session record for the client scope carried in ctx.
// Implementations must serialize access so a Get always observes the latest
// Set or Clear for the same scope.
type Store interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, raw []byte) error
	// Clear removes the record. Clearing an absent record is not an error.
	Clear(ctx context.Context) error
}

type clientContextKey struct{}

// WithClient scopes ctx to one client (one browser, one desktop shell).
func WithClient(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientContextKey{}, clientID)
}

// ClientFromContext returns the client scope of ctx, or [DefaultClient].
func ClientFromContext(ctx context.Context) string {
	if ctx == nil {
		return DefaultClient
	}
	clientID, _ := ctx.Value(clientContextKey{}).(string)
	if clientID == "" {
		return DefaultClient
	}
	return clientID
}

// Read loads and decodes the record for ctx's scope. It returns
// [ErrNotFound], [ErrMalformedRecord], or a wrapped [ErrStoreUnavailable].
func Read(ctx context.Context, store Store) (*Record, error) {
	raw, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(raw)
}

// Write encodes rec and stores it for ctx's scope.
func Write(ctx context.Context, store Store, rec *Record) error {
	raw, err := Encode(rec)
	if err != nil {
		return err
	}
	return store.Set(ctx, raw)
}
