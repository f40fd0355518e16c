package selmaGate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/selmaGate/clock"
	"github.com/MrEthical07/selmaGate/session"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type navigatorRecorder struct {
	mu      sync.Mutex
	origins []string
	clients []string
}

func (n *navigatorRecorder) RedirectToLogin(ctx context.Context, origin string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.origins = append(n.origins, origin)
	n.clients = append(n.clients, ClientIDFromContext(ctx))
}

func (n *navigatorRecorder) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.origins)
}

func (n *navigatorRecorder) clientAt(i int) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.clients[i]
}

type testGate struct {
	gate  *Gate
	store *session.MemoryStore
	clock *clock.Fake
	nav   *navigatorRecorder
	audit *ChannelSink
}

func newTestGate(t *testing.T, mutate func(*Config)) *testGate {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Idle.Timeout = time.Second
	cfg.Metrics.EnableLatencyHistograms = true
	if mutate != nil {
		mutate(&cfg)
	}

	tg := &testGate{
		store: session.NewMemoryStore(),
		clock: clock.NewFake(testEpoch),
		nav:   &navigatorRecorder{},
		audit: NewChannelSink(256),
	}
	g, err := New().
		WithConfig(cfg).
		WithStore(tg.store).
		WithClock(tg.clock).
		WithNavigator(tg.nav).
		WithAuditSink(tg.audit).
		Build()
	if err != nil {
		t.Fatalf("build gate: %v", err)
	}
	t.Cleanup(g.Close)
	tg.gate = g
	return tg
}

// tokenExpiring returns an unsigned token whose exp is at.
func tokenExpiring(t *testing.T, at time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":"staff-7","exp":%d}`, at.Unix())))
	return header + "." + body + ".c2ln"
}

// putRaw stores a record in the persisted layout. permissions is the inner
// JSON text; an empty string omits the field.
func putRaw(t *testing.T, ctx context.Context, store session.Store, token, role, permissions string) []byte {
	t.Helper()
	data := map[string]any{"role": role}
	if permissions != "" {
		data["permissions"] = permissions
	}
	raw, err := json.Marshal(map[string]any{
		"token":   token,
		"payload": map[string]any{"data": data},
	})
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	if err := store.Set(ctx, raw); err != nil {
		t.Fatalf("store set: %v", err)
	}
	return raw
}

func (tg *testGate) liveToken(t *testing.T) string {
	return tokenExpiring(t, tg.clock.Now().Add(time.Hour))
}

func (tg *testGate) stored(t *testing.T, ctx context.Context) ([]byte, bool) {
	t.Helper()
	raw, err := tg.store.Get(ctx)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (tg *testGate) drainAudit() []AuditEvent {
	tg.gate.Close()
	var out []AuditEvent
	for {
		select {
		case e := <-tg.audit.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}
