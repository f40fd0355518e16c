package selmaGate

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MrEthical07/selmaGate/idle"
	"github.com/MrEthical07/selmaGate/session"
)

type unavailableStore struct {
	clears int
}

func (s *unavailableStore) Get(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("%w: connection refused", session.ErrStoreUnavailable)
}

func (s *unavailableStore) Set(context.Context, []byte) error {
	return fmt.Errorf("%w: connection refused", session.ErrStoreUnavailable)
}

func (s *unavailableStore) Clear(context.Context) error {
	s.clears++
	return fmt.Errorf("%w: connection refused", session.ErrStoreUnavailable)
}

func TestCheckNavigationWithoutSessionRedirects(t *testing.T) {
	tg := newTestGate(t, nil)

	d := tg.gate.CheckNavigation(context.Background(), "/news/12")
	if d.Allow {
		t.Fatalf("allowed without session")
	}
	if d.Reason != ReasonNoSession {
		t.Fatalf("reason = %q", d.Reason)
	}
	if d.RedirectTarget != "/login?next=%2Fnews%2F12" {
		t.Fatalf("redirect = %q", d.RedirectTarget)
	}
}

func TestCheckNavigationExpiredTokenClearsRecord(t *testing.T) {
	tg := newTestGate(t, nil)
	ctx := context.Background()
	putRaw(t, ctx, tg.store, tokenExpiring(t, tg.clock.Now().Add(-time.Second)), "Editor", `{"news":true}`)

	d := tg.gate.CheckNavigation(ctx, "/news")
	if d.Allow || d.Reason != ReasonTokenExpired {
		t.Fatalf("decision = %+v", d)
	}
	if _, ok := tg.stored(t, ctx); ok {
		t.Fatalf("expired record still stored")
	}

	again := tg.gate.CheckNavigation(ctx, "/news")
	if again.Reason != ReasonNoSession {
		t.Fatalf("second check should see absence, got %q", again.Reason)
	}

	snap := tg.gate.MetricsSnapshot()
	if snap.Counters[MetricSessionExpired] != 1 || snap.Counters[MetricSessionCleared] != 1 {
		t.Fatalf("counters = %+v", snap.Counters)
	}
}

func TestCheckNavigationClearStopsIdleTimers(t *testing.T) {
	tg := newTestGate(t, func(c *Config) { c.Idle.Timeout = time.Hour })
	ctx := WithClientID(context.Background(), "desk-1")

	rec, _ := session.NewRecord(tokenExpiring(t, tg.clock.Now().Add(10*time.Minute)), "Editor", nil)
	if err := tg.gate.Establish(ctx, rec); err != nil {
		t.Fatalf("establish: %v", err)
	}
	w, err := tg.gate.WatchIdle(ctx)
	if err != nil {
		t.Fatalf("watch idle: %v", err)
	}

	tg.clock.Advance(11 * time.Minute)
	if d := tg.gate.CheckNavigation(ctx, "/news"); d.Reason != ReasonTokenExpired {
		t.Fatalf("decision = %+v", d)
	}
	if _, ok := tg.gate.IdleDeadline(ctx); ok {
		t.Fatalf("tracker still holds a deadline after the guard cleared the session")
	}
	if w.State() != idle.StateStopped {
		t.Fatalf("watcher state = %s, want stopped", w.State())
	}

	tg.clock.Advance(2 * time.Hour)
	if tg.nav.calls() != 0 {
		t.Fatalf("navigator calls = %d after guard clear", tg.nav.calls())
	}
	snap := tg.gate.MetricsSnapshot()
	if snap.Counters[MetricIdleExpired] != 0 || snap.Counters[MetricSessionCleared] != 1 {
		t.Fatalf("counters = %+v", snap.Counters)
	}
}

func TestCheckNavigationExpiryBoundary(t *testing.T) {
	tg := newTestGate(t, nil)
	ctx := context.Background()
	putRaw(t, ctx, tg.store, tokenExpiring(t, tg.clock.Now()), "Editor", `{}`)

	if d := tg.gate.CheckNavigation(ctx, "/"); d.Allow {
		t.Fatalf("exp == now must deny")
	}
}

func TestCheckNavigationLiveTokenLeavesStorageUntouched(t *testing.T) {
	tg := newTestGate(t, nil)
	ctx := context.Background()
	exp := tg.clock.Now().Add(24 * time.Hour)
	before := putRaw(t, ctx, tg.store, tokenExpiring(t, exp), "Editor", `{"news":true}`)

	for i := 0; i < 3; i++ {
		d := tg.gate.CheckNavigation(ctx, "/news")
		if !d.Allow || d.Reason != ReasonNone || d.RedirectTarget != "" {
			t.Fatalf("decision = %+v", d)
		}
		if !d.ExpiresAt.Equal(exp.Truncate(time.Second)) {
			t.Fatalf("expires at %v, want %v", d.ExpiresAt, exp)
		}
	}

	after, ok := tg.stored(t, ctx)
	if !ok || !bytes.Equal(before, after) {
		t.Fatalf("storage changed by an allowed check")
	}
}

func TestCheckNavigationReevaluatesAsTimePasses(t *testing.T) {
	tg := newTestGate(t, func(c *Config) { c.Idle.Enabled = false })
	ctx := context.Background()
	putRaw(t, ctx, tg.store, tokenExpiring(t, tg.clock.Now().Add(time.Minute)), "Editor", `{}`)

	if d := tg.gate.CheckNavigation(ctx, "/"); !d.Allow {
		t.Fatalf("expected allow before expiry")
	}
	tg.clock.Advance(time.Minute)
	if d := tg.gate.CheckNavigation(ctx, "/"); d.Allow {
		t.Fatalf("expected deny once exp is reached")
	}
}

func TestCheckNavigationMalformedTokenClearsRecord(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b.c", tokenWithoutExp()} {
		tg := newTestGate(t, nil)
		ctx := context.Background()
		putRaw(t, ctx, tg.store, token, "Editor", `{}`)

		d := tg.gate.CheckNavigation(ctx, "/jobs")
		if d.Allow || d.Reason != ReasonMalformedToken {
			t.Fatalf("token %q: decision = %+v", token, d)
		}
		if _, ok := tg.stored(t, ctx); ok {
			t.Fatalf("token %q: record not cleared", token)
		}
	}
}

func tokenWithoutExp() string {
	// {"alg":"none"} . {"sub":"x"} . empty
	return "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0."
}

func TestCheckNavigationMalformedRecordClearsRecord(t *testing.T) {
	tg := newTestGate(t, nil)
	ctx := context.Background()
	if err := tg.store.Set(ctx, []byte(`{"token":`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	d := tg.gate.CheckNavigation(ctx, "/")
	if d.Allow || d.Reason != ReasonMalformedRecord {
		t.Fatalf("decision = %+v", d)
	}
	if _, ok := tg.stored(t, ctx); ok {
		t.Fatalf("malformed record not cleared")
	}
}

func TestCheckNavigationStoreUnavailableDoesNotClear(t *testing.T) {
	store := &unavailableStore{}
	g, err := New().WithStore(store).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer g.Close()

	d := g.CheckNavigation(context.Background(), "/news")
	if d.Allow || d.Reason != ReasonStoreUnavailable {
		t.Fatalf("decision = %+v", d)
	}
	if store.clears != 0 {
		t.Fatalf("store unavailable must not trigger a clear")
	}
}

func TestCheckNavigationAuditsDenials(t *testing.T) {
	tg := newTestGate(t, nil)
	ctx := WithClientID(context.Background(), "kiosk-3")
	putRaw(t, ctx, tg.store, tokenExpiring(t, tg.clock.Now().Add(-time.Hour)), "Editor", `{}`)

	tg.gate.CheckNavigation(ctx, "/events")
	events := tg.drainAudit()

	if len(events) != 2 {
		t.Fatalf("expected clear and denial events, got %+v", events)
	}
	if events[0].EventType != AuditSessionCleared || events[0].Reason != string(ReasonTokenExpired) {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].EventType != AuditNavigationDenied || events[1].Location != "/events" || events[1].ClientID != "kiosk-3" {
		t.Fatalf("unexpected second event %+v", events[1])
	}
	if !events[1].Timestamp.Equal(testEpoch) {
		t.Fatalf("audit timestamp should come from the gate clock, got %v", events[1].Timestamp)
	}
}

func TestLoginURL(t *testing.T) {
	tg := newTestGate(t, nil)

	cases := map[string]string{
		"":                          "/login",
		"/news":                     "/login?next=%2Fnews",
		"/news?page=2#top":          "/login?next=%2Fnews%3Fpage%3D2%23top",
		"https://evil.example/x":    "/login",
		"//evil.example/x":          "/login",
		"/\\evil.example":           "/login",
		"javascript:alert(1)":       "/login",
		"/login":                    "/login",
		"/login?next=%2Fnews":       "/login",
		"/ok\r\nSet-Cookie: x=1":    "/login",
		"relative/path":             "/login",
	}
	for origin, want := range cases {
		if got := tg.gate.LoginURL(origin); got != want {
			t.Fatalf("LoginURL(%q) = %q, want %q", origin, got, want)
		}
	}
}

func TestLoginURLCustomNavigation(t *testing.T) {
	tg := newTestGate(t, func(c *Config) {
		c.Navigation.LoginPath = "/admin/signin?lang=en"
		c.Navigation.ReturnParam = "return_to"
	})
	if got := tg.gate.LoginURL("/pages/4"); got != "/admin/signin?lang=en&return_to=%2Fpages%2F4" {
		t.Fatalf("LoginURL = %q", got)
	}
	if got := tg.gate.LoginURL("/admin/signin"); got != "/admin/signin?lang=en" {
		t.Fatalf("LoginURL self = %q", got)
	}
}
