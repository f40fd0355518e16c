package idle

import (
	"sync"
	"time"

	"github.com/MrEthical07/selmaGate/clock"
)

// DefaultTimeout is the inactivity window used when none is configured.
const DefaultTimeout = 10 * time.Minute

// Signal is a kind of user activity.
type Signal uint8

const (
	// SignalPointerMove is pointer movement.
	SignalPointerMove Signal = iota + 1
	// SignalKeyPress is a key press.
	SignalKeyPress
	// SignalClick is a pointer click.
	SignalClick
	// SignalScroll is a scroll.
	SignalScroll
	// SignalRequest is an authenticated request observed by the server.
	SignalRequest
)

func (s Signal) String() string {
	switch s {
	case SignalPointerMove:
		return "pointer_move"
	case SignalKeyPress:
		return "key_press"
	case SignalClick:
		return "click"
	case SignalScroll:
		return "scroll"
	case SignalRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared signals.
func (s Signal) Valid() bool {
	return s >= SignalPointerMove && s <= SignalRequest
}

// State is the lifecycle position of a [Watcher].
type State uint8

const (
	// StateNew is a watcher that has not been started.
	StateNew State = iota
	// StateArmed is a watcher with a pending deadline.
	StateArmed
	// StateExpired is a watcher whose deadline elapsed.
	StateExpired
	// StateStopped is a watcher torn down before expiry.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateArmed:
		return "armed"
	case StateExpired:
		return "expired"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Watcher is one idle-expiry state machine. It is safe for concurrent use.
type Watcher struct {
	clock    clock.Clock
	timeout  time.Duration
	onExpire func()

	mu       sync.Mutex
	state    State
	deadline time.Time
	timer    clock.Timer
	gen      uint64
	done     chan struct{}
}

// New returns an unstarted [Watcher]. A nil clock selects [clock.System];
// timeout <= 0 selects [DefaultTimeout]. onExpire runs at most once, without
// the watcher's lock held.
func New(c clock.Clock, timeout time.Duration, onExpire func()) *Watcher {
	if c == nil {
		c = clock.System()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Watcher{
		clock:    c,
		timeout:  timeout,
		onExpire: onExpire,
		done:     make(chan struct{}),
	}
}

// Start arms the initial deadline. It reports false if the watcher was
// already started.
func (w *Watcher) Start() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateNew {
		return false
	}
	w.state = StateArmed
	w.armLocked()
	return true
}

// Activity pushes the deadline to now+timeout. It reports whether the
// watcher was armed; activity on a new, expired or stopped watcher is ignored.
func (w *Watcher) Activity(sig Signal) bool {
	if !sig.Valid() {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateArmed {
		return false
	}
	w.armLocked()
	return true
}

// Stop cancels the pending timer. Stop is idempotent and does not run the
// expiry callback.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateExpired || w.state == StateStopped {
		return
	}
	w.releaseLocked()
	w.state = StateStopped
	close(w.done)
}

// State returns the current state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Deadline returns the pending deadline, or the zero time when not armed.
func (w *Watcher) Deadline() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateArmed {
		return time.Time{}
	}
	return w.deadline
}

// Timeout returns the inactivity window.
func (w *Watcher) Timeout() time.Duration {
	return w.timeout
}

// Done is closed once the watcher expires or is stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) armLocked() {
	w.releaseLocked()

	w.gen++
	gen := w.gen
	w.deadline = w.clock.Now().Add(w.timeout)
	w.timer = w.clock.AfterFunc(w.timeout, func() { w.fire(gen) })
}

func (w *Watcher) releaseLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// fire runs on the timer goroutine. gen guards against a timer that was
// already running when it was superseded.
func (w *Watcher) fire(gen uint64) {
	w.mu.Lock()
	if w.state != StateArmed || gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.state = StateExpired
	w.timer = nil
	close(w.done)
	onExpire := w.onExpire
	w.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}
