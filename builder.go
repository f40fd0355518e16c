package selmaGate

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/selmaGate/clock"
	"github.com/MrEthical07/selmaGate/idle"
	"github.com/MrEthical07/selmaGate/internal/audit"
	"github.com/MrEthical07/selmaGate/internal/logattr"
	"github.com/MrEthical07/selmaGate/permission"
	"github.com/MrEthical07/selmaGate/session"
)

// Builder assembles a [Gate]. A Builder is single use.
type Builder struct {
	config Config
	store  session.Store
	redis  redis.UniversalClient

	logger    *slog.Logger
	auditSink AuditSink
	navigator Navigator
	clock     clock.Clock

	features    []string
	setFeatures bool

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the session store. It takes precedence over WithRedis.
func (b *Builder) WithStore(s session.Store) *Builder {
	b.store = s
	return b
}

// WithRedis stores records in Redis under Config.Session's prefix, key and
// TTL.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithAuditSink sets the audit sink and enables audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.config.Audit.Enabled = true
	}
	return b
}

// WithNavigator sets the redirect performed on idle expiry.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithClock replaces the wall clock and timer source.
func (b *Builder) WithClock(c clock.Clock) *Builder {
	b.clock = c
	return b
}

// WithFeatures replaces Config.Permission.Features.
func (b *Builder) WithFeatures(features ...string) *Builder {
	b.features = append([]string(nil), features...)
	b.setFeatures = true
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready [Gate].
func (b *Builder) Build() (*Gate, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if b.setFeatures {
		cfg.Permission.Features = append([]string(nil), b.features...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- SESSION STORE --------
	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, ErrStoreRequired
		}
		store = session.NewRedisStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.StorageKey, cfg.Session.TTL)
	}

	// -------- FEATURE REGISTRY --------
	registry, err := permission.NewFeatureRegistry(cfg.Permission.Features)
	if err != nil {
		return nil, err
	}

	g := &Gate{
		config:    cfg,
		store:     store,
		registry:  registry,
		logger:    b.logger,
		navigator: b.navigator,
		clock:     b.clock,
	}
	if g.logger == nil {
		g.logger = logattr.Discard()
	}
	if g.navigator == nil {
		g.navigator = noopNavigator{}
	}
	if g.clock == nil {
		g.clock = clock.System()
	}

	g.metrics = NewMetrics(cfg.Metrics)
	g.audit = audit.NewDispatcherWithClock(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink, g.clock.Now)

	if cfg.Idle.Enabled {
		g.tracker = idle.NewTracker(g.clock, cfg.Idle.Timeout, g.expireClient)
	}

	b.built = true

	return g, nil
}
