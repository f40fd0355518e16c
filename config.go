package selmaGate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/selmaGate/idle"
	"github.com/MrEthical07/selmaGate/permission"
	"github.com/MrEthical07/selmaGate/session"
)

// Config controls a [Gate]. Start from [DefaultConfig] and override fields.
type Config struct {
	Session    SessionConfig
	Permission PermissionConfig
	Navigation NavigationConfig
	Idle       IdleConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig describes where the session record lives.
type SessionConfig struct {
	// StorageKey is the single key the record is stored under.
	StorageKey string
	// RedisPrefix namespaces Redis keys as <prefix>:<client>:<key>.
	RedisPrefix string
	// TTL bounds how long Redis keeps a record. Zero keeps it until cleared.
	TTL time.Duration
}

/*
====================================
PERMISSION CONFIG
====================================
*/

// PermissionConfig lists the feature vocabulary and decision logging.
type PermissionConfig struct {
	// Features is the ordered vocabulary used by GrantedFeatures. Feature keys
	// outside it are still evaluated by HasPermission.
	Features []string
	// LogDecisions emits an audit event and a debug log per permission check.
	LogDecisions bool
}

/*
====================================
NAVIGATION CONFIG
====================================
*/

// NavigationConfig shapes login redirects.
type NavigationConfig struct {
	// LoginPath is the local path of the login screen.
	LoginPath string
	// ReturnParam is the query parameter carrying the originally requested
	// location.
	ReturnParam string
}

// IdleConfig controls the idle session guard.
type IdleConfig struct {
	Enabled bool
	Timeout time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the dashboard defaults: record under "authUser",
// ten minute idle timeout, login at /login?next=<origin>.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			StorageKey:  session.DefaultStorageKey,
			RedisPrefix: "sg",
		},
		Permission: PermissionConfig{
			Features: permission.DefaultFeatures(),
		},
		Navigation: NavigationConfig{
			LoginPath:   "/login",
			ReturnParam: "next",
		},
		Idle: IdleConfig{
			Enabled: true,
			Timeout: idle.DefaultTimeout,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Permission.Features = append([]string(nil), cfg.Permission.Features...)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first setting that would make the gate misbehave.
func (c *Config) Validate() error {
	// Session
	if strings.TrimSpace(c.Session.StorageKey) == "" {
		return errors.New("Session StorageKey must not be empty")
	}
	if strings.ContainsAny(c.Session.StorageKey, ": ") {
		return errors.New("Session StorageKey must not contain ':' or spaces")
	}
	if strings.TrimSpace(c.Session.RedisPrefix) == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if c.Session.TTL < 0 {
		return errors.New("Session TTL must be >= 0")
	}

	// Permission
	if len(c.Permission.Features) > permission.MaxFeatures {
		return fmt.Errorf("Permission Features must list at most %d entries", permission.MaxFeatures)
	}
	seen := make(map[string]struct{}, len(c.Permission.Features))
	for _, f := range c.Permission.Features {
		if strings.TrimSpace(f) == "" {
			return errors.New("Permission Features must not contain empty keys")
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("Permission Features lists %q twice", f)
		}
		seen[f] = struct{}{}
	}

	// Navigation
	if !strings.HasPrefix(c.Navigation.LoginPath, "/") || strings.HasPrefix(c.Navigation.LoginPath, "//") {
		return errors.New("Navigation LoginPath must be a local absolute path")
	}
	if strings.TrimSpace(c.Navigation.ReturnParam) == "" {
		return errors.New("Navigation ReturnParam must not be empty")
	}

	// Idle
	if c.Idle.Enabled && c.Idle.Timeout <= 0 {
		return errors.New("Idle Timeout must be > 0 when Idle is enabled")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}

/*
====================================
LINT
====================================
*/

// LintSeverity grades a [LintWarning].
type LintSeverity int

const (
	// LintInfo is advisory.
	LintInfo LintSeverity = iota
	// LintWarn flags a setting that weakens the gate.
	LintWarn
)

func (s LintSeverity) String() string {
	if s == LintWarn {
		return "warn"
	}
	return "info"
}

// LintWarning is one finding from [Config.Lint].
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the list of findings from [Config.Lint].
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns the findings at or above min.
func (r LintResult) BySeverity(min LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

const (
	lintIdleLong  = 30 * time.Minute
	lintIdleShort = time.Minute
)

// Lint reports settings that are valid but questionable for a staff
// dashboard. Lint never fails; call [Config.Validate] for hard errors.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, msg string) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: msg})
	}

	if !c.Idle.Enabled {
		add("idle_disabled", LintWarn, "idle guard is disabled; unattended sessions stay open until the token expires")
	} else {
		if c.Idle.Timeout > lintIdleLong {
			add("idle_timeout_long", LintWarn, fmt.Sprintf("idle timeout %s exceeds %s", c.Idle.Timeout, lintIdleLong))
		}
		if c.Idle.Timeout > 0 && c.Idle.Timeout < lintIdleShort {
			add("idle_timeout_short", LintInfo, fmt.Sprintf("idle timeout %s is shorter than %s", c.Idle.Timeout, lintIdleShort))
		}
	}

	if c.Session.TTL == 0 {
		add("session_ttl_unbounded", LintInfo, "Redis keeps records until they are cleared")
	} else if c.Idle.Enabled && c.Session.TTL < c.Idle.Timeout {
		add("session_ttl_shorter_than_idle", LintInfo, "records vanish from Redis before the idle guard fires")
	}

	if !c.Audit.Enabled {
		add("audit_disabled", LintInfo, "audit events are not recorded")
	} else if !c.Audit.DropIfFull {
		add("audit_blocking", LintWarn, "a slow audit sink blocks gate decisions")
	}

	if strings.Contains(c.Navigation.LoginPath, "?") {
		add("login_path_has_query", LintWarn, "LoginPath carries a query; the return parameter is appended separately")
	}

	if len(c.Permission.Features) == 0 {
		add("features_empty", LintInfo, "GrantedFeatures always returns an empty list")
	}

	return ws
}
