package test

import (
	"context"
	"net/http"
	"testing"
	"time"

	selmaGate "github.com/MrEthical07/selmaGate"
	"github.com/MrEthical07/selmaGate/idle"
	"github.com/MrEthical07/selmaGate/middleware"
	"github.com/MrEthical07/selmaGate/session"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = selmaGate.New

	var _ *selmaGate.Gate
	var _ selmaGate.Config
	var _ selmaGate.Decision
	var _ selmaGate.Navigator = selmaGate.NavigatorFunc(nil)
	var _ selmaGate.AuditSink
	var _ session.Store = (*session.RedisStore)(nil)
	var _ session.Store = (*session.MemoryStore)(nil)

	var _ error = selmaGate.ErrGateNotReady
	var _ error = selmaGate.ErrInvalidRecord
	var _ error = selmaGate.ErrStoreRequired
	var _ error = selmaGate.ErrIdleDisabled
	var _ error = session.ErrNotFound
	var _ error = session.ErrStoreUnavailable

	var _ func(*selmaGate.Gate) func(http.Handler) http.Handler = middleware.RequireSession
	var _ func(*selmaGate.Gate, string) func(http.Handler) http.Handler = middleware.RequireFeature
	var _ func(*selmaGate.Gate) func(http.Handler) http.Handler = middleware.TrackActivity
	var _ func(string) func(http.Handler) http.Handler = middleware.ClientScope

	var _ func(*selmaGate.Gate, context.Context, string) bool = (*selmaGate.Gate).HasPermission
	var _ func(*selmaGate.Gate, context.Context, string) selmaGate.Decision = (*selmaGate.Gate).CheckNavigation
	var _ func(*selmaGate.Gate, context.Context, *session.Record) error = (*selmaGate.Gate).Establish
	var _ func(*selmaGate.Gate, context.Context) error = (*selmaGate.Gate).Logout
	var _ func(*selmaGate.Gate, context.Context) (*idle.Watcher, error) = (*selmaGate.Gate).WatchIdle
	var _ func(*selmaGate.Gate, context.Context) (time.Time, bool) = (*selmaGate.Gate).IdleDeadline
}
