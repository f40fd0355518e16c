package idle

import (
	"sync"
	"time"

	"github.com/MrEthical07/selmaGate/clock"
)

// Tracker owns one [Watcher] per client ID. Expired watchers are dropped, so
// the next Touch after a fresh login arms a new one.
type Tracker struct {
	clock    clock.Clock
	timeout  time.Duration
	onExpire func(clientID string)

	mu       sync.Mutex
	watchers map[string]*Watcher
	closed   bool
}

// NewTracker returns a [Tracker]. onExpire receives the client whose watcher
// expired.
func NewTracker(c clock.Clock, timeout time.Duration, onExpire func(clientID string)) *Tracker {
	if c == nil {
		c = clock.System()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tracker{
		clock:    c,
		timeout:  timeout,
		onExpire: onExpire,
		watchers: make(map[string]*Watcher),
	}
}

// Touch records activity for clientID, arming a watcher if none is live.
func (t *Tracker) Touch(clientID string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	w, ok := t.watchers[clientID]
	if !ok {
		t.startLocked(clientID)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	w.Activity(SignalRequest)
}

// Reset replaces clientID's watcher with a freshly armed one.
func (t *Tracker) Reset(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if w, ok := t.watchers[clientID]; ok {
		w.Stop()
	}
	t.startLocked(clientID)
}

// Forget stops and drops clientID's watcher.
func (t *Tracker) Forget(clientID string) {
	t.mu.Lock()
	w, ok := t.watchers[clientID]
	delete(t.watchers, clientID)
	t.mu.Unlock()

	if ok {
		w.Stop()
	}
}

// Deadline returns clientID's pending deadline.
func (t *Tracker) Deadline(clientID string) (time.Time, bool) {
	t.mu.Lock()
	w, ok := t.watchers[clientID]
	t.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	d := w.Deadline()
	return d, !d.IsZero()
}

// Len returns the number of live watchers.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.watchers)
}

// Close stops every watcher. Later calls to Touch and Reset are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	watchers := t.watchers
	t.watchers = make(map[string]*Watcher)
	t.closed = true
	t.mu.Unlock()

	for _, w := range watchers {
		w.Stop()
	}
}

func (t *Tracker) startLocked(clientID string) {
	var w *Watcher
	w = New(t.clock, t.timeout, func() {
		t.mu.Lock()
		if t.watchers[clientID] == w {
			delete(t.watchers, clientID)
		}
		t.mu.Unlock()

		if t.onExpire != nil {
			t.onExpire(clientID)
		}
	})
	t.watchers[clientID] = w
	w.Start()
}
