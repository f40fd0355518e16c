package selmaGate

import (
	"testing"
	"time"
)

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func TestLint_DefaultConfigHasNoWarnings(t *testing.T) {
	cfg := DefaultConfig()
	ws := cfg.Lint()

	if got := ws.BySeverity(LintWarn); len(got) != 0 {
		t.Fatalf("default config should not produce warn-level findings, got %v", got.Codes())
	}
	// Defaults leave audit off and Redis records unbounded.
	codes := ws.Codes()
	if !containsCode(codes, "audit_disabled") || !containsCode(codes, "session_ttl_unbounded") {
		t.Fatalf("expected info findings for defaults, got %v", codes)
	}
}

func TestLint_IdleDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Idle.Enabled = false
	if !containsCode(cfg.Lint().Codes(), "idle_disabled") {
		t.Error("expected idle_disabled warning")
	}
}

func TestLint_IdleTimeoutBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Idle.Timeout = 2 * time.Hour
	if !containsCode(cfg.Lint().Codes(), "idle_timeout_long") {
		t.Error("expected idle_timeout_long warning")
	}

	cfg.Idle.Timeout = 10 * time.Second
	if !containsCode(cfg.Lint().Codes(), "idle_timeout_short") {
		t.Error("expected idle_timeout_short finding")
	}
}

func TestLint_SessionTTLShorterThanIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.TTL = time.Minute
	codes := cfg.Lint().Codes()
	if !containsCode(codes, "session_ttl_shorter_than_idle") {
		t.Error("expected session_ttl_shorter_than_idle finding")
	}
	if containsCode(codes, "session_ttl_unbounded") {
		t.Error("bounded TTL must not report session_ttl_unbounded")
	}
}

func TestLint_AuditBlocking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	ws := cfg.Lint()
	if !containsCode(ws.Codes(), "audit_blocking") {
		t.Error("expected audit_blocking warning")
	}
	if containsCode(ws.Codes(), "audit_disabled") {
		t.Error("enabled audit must not report audit_disabled")
	}
}

func TestLint_LoginPathQuery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Navigation.LoginPath = "/login?lang=en"
	if !containsCode(cfg.Lint().Codes(), "login_path_has_query") {
		t.Error("expected login_path_has_query warning")
	}
}

func TestLint_FeaturesEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Permission.Features = nil
	if !containsCode(cfg.Lint().Codes(), "features_empty") {
		t.Error("expected features_empty finding")
	}
}
