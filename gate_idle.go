package selmaGate

import (
	"context"
	"time"

	"github.com/MrEthical07/selmaGate/idle"
	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/session"
)

// WatchIdle starts a single idle watcher for ctx's client, for hosts that
// observe input events directly (a desktop shell or a browser bridge). Feed
// it with [idle.Watcher.Activity] and call [idle.Watcher.Stop] on teardown.
//
// On expiry the client's record is removed and the navigator is asked to
// show the login screen, once.
func (g *Gate) WatchIdle(ctx context.Context) (*idle.Watcher, error) {
	if !g.ready() {
		return nil, ErrGateNotReady
	}
	if !g.config.Idle.Enabled {
		return nil, ErrIdleDisabled
	}

	scope := detach(ctx)
	w := idle.New(g.clock, g.config.Idle.Timeout, func() {
		g.expireIdle(scope)
	})

	g.idleMu.Lock()
	if g.closed.Load() {
		g.idleMu.Unlock()
		return nil, ErrGateNotReady
	}
	if g.watchers == nil {
		g.watchers = make(map[*idle.Watcher]string)
	}
	g.watchers[w] = session.ClientFromContext(scope)
	g.idleMu.Unlock()

	w.Start()
	go g.release(w)
	return w, nil
}

// release drops w from the gate once it has expired or been stopped.
func (g *Gate) release(w *idle.Watcher) {
	<-w.Done()
	g.idleMu.Lock()
	delete(g.watchers, w)
	g.idleMu.Unlock()
}

// forgetIdle stops every idle timer held for clientID. The session is gone,
// so none of them may fire.
func (g *Gate) forgetIdle(clientID string) {
	if g.tracker != nil {
		g.tracker.Forget(clientID)
	}

	g.idleMu.Lock()
	var stale []*idle.Watcher
	for w, owner := range g.watchers {
		if owner == clientID {
			stale = append(stale, w)
		}
	}
	g.idleMu.Unlock()

	for _, w := range stale {
		w.Stop()
	}
}

func (g *Gate) watcherCount() int {
	g.idleMu.Lock()
	defer g.idleMu.Unlock()
	return len(g.watchers)
}

// Touch records server-observed activity for ctx's client. It is a no-op
// when the idle guard is disabled or the gate is closed.
func (g *Gate) Touch(ctx context.Context) {
	if !g.ready() || g.tracker == nil {
		return
	}
	g.tracker.Touch(session.ClientFromContext(ctx))
}

// IdleDeadline returns when ctx's client will be logged out for inactivity.
func (g *Gate) IdleDeadline(ctx context.Context) (time.Time, bool) {
	if g == nil || g.tracker == nil {
		return time.Time{}, false
	}
	return g.tracker.Deadline(session.ClientFromContext(ctx))
}

func (g *Gate) expireClient(clientID string) {
	g.expireIdle(session.WithClient(context.Background(), clientID))
}

func (g *Gate) expireIdle(ctx context.Context) {
	clientID := session.ClientFromContext(ctx)

	if err := g.store.Clear(ctx); err != nil {
		g.metrics.Inc(MetricStoreUnavailable)
		g.logger.WarnContext(ctx, "idle session clear failed",
			logattr.Client(clientID),
			logattr.Error(err),
		)
	} else {
		g.metrics.Inc(MetricSessionCleared)
	}

	g.metrics.Inc(MetricIdleExpired)
	g.logger.InfoContext(ctx, "session idle expired", logattr.Client(clientID))
	g.emit(ctx, AuditEvent{
		EventType: AuditIdleExpired,
		Success:   true,
		Reason:    "idle_timeout",
	})

	g.navigator.RedirectToLogin(ctx, "")
}
