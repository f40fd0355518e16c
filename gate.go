package selmaGate

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/MrEthical07/selmaGate/clock"
	"github.com/MrEthical07/selmaGate/idle"
	"github.com/MrEthical07/selmaGate/internal/audit"
	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/permission"
	"github.com/MrEthical07/selmaGate/session"
)

// Gate evaluates sessions and permissions for the client scope carried in
// each call's context. Build one with [New].
type Gate struct {
	config   Config
	store    session.Store
	registry *permission.Registry

	logger    *slog.Logger
	audit     *audit.Dispatcher
	metrics   *Metrics
	navigator Navigator
	clock     clock.Clock

	tracker *idle.Tracker

	idleMu   sync.Mutex
	watchers map[*idle.Watcher]string

	closed    atomic.Bool
	closeOnce sync.Once
}

// Config returns a copy of the gate's configuration.
func (g *Gate) Config() Config {
	return cloneConfig(g.config)
}

// MetricsSnapshot returns the current counters.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	if g == nil {
		return (*Metrics)(nil).Snapshot()
	}
	return g.metrics.Snapshot()
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (g *Gate) AuditDropped() uint64 {
	if g == nil {
		return 0
	}
	return g.audit.Dropped()
}

// Close stops every idle timer and flushes pending audit events. Checks keep
// working after Close; Establish and idle tracking do not.
func (g *Gate) Close() {
	if g == nil {
		return
	}
	g.closeOnce.Do(func() {
		g.closed.Store(true)
		if g.tracker != nil {
			g.tracker.Close()
		}
		g.idleMu.Lock()
		watchers := g.watchers
		g.watchers = nil
		g.idleMu.Unlock()
		for w := range watchers {
			w.Stop()
		}
		g.audit.Close()
	})
}

func (g *Gate) ready() bool {
	return g != nil && !g.closed.Load()
}

func (g *Gate) emit(ctx context.Context, e AuditEvent) {
	if g.audit == nil {
		return
	}
	if e.ClientID == "" {
		e.ClientID = session.ClientFromContext(ctx)
	}
	g.audit.Emit(ctx, e)
}

// clear removes the record for ctx's scope. Failures are logged and
// otherwise ignored: the caller has already decided to deny.
func (g *Gate) clear(ctx context.Context, reason DenyReason) {
	g.forgetIdle(session.ClientFromContext(ctx))
	if err := g.store.Clear(detach(ctx)); err != nil {
		g.metrics.Inc(MetricStoreUnavailable)
		g.logger.WarnContext(ctx, "session clear failed",
			logattr.Client(session.ClientFromContext(ctx)),
			logattr.Reason(string(reason)),
			logattr.Error(err),
		)
		return
	}

	g.metrics.Inc(MetricSessionCleared)
	g.logger.InfoContext(ctx, "session cleared",
		logattr.Client(session.ClientFromContext(ctx)),
		logattr.Reason(string(reason)),
	)
	g.emit(ctx, AuditEvent{
		EventType: AuditSessionCleared,
		Success:   true,
		Reason:    string(reason),
	})
}
