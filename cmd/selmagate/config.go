package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	selmaGate "github.com/MrEthical07/selmaGate"
)

// envConfig is read from the environment, after an optional .env file.
type envConfig struct {
	RedisAddr   string        `env:"REDIS_ADDR"`
	RedisPrefix string        `env:"SELMAGATE_REDIS_PREFIX" envDefault:"sg"`
	StorageKey  string        `env:"SELMAGATE_STORAGE_KEY" envDefault:"authUser"`
	SessionTTL  time.Duration `env:"SELMAGATE_SESSION_TTL" envDefault:"0s"`
	IdleTimeout time.Duration `env:"SELMAGATE_IDLE_TIMEOUT" envDefault:"10m"`
	LoginPath   string        `env:"SELMAGATE_LOGIN_PATH" envDefault:"/login"`
	SigningKey  string        `env:"SELMAGATE_SIGNING_KEY"`
	TokenTTL    time.Duration `env:"SELMAGATE_TOKEN_TTL" envDefault:"8h"`
	Listen      string        `env:"SELMAGATE_LISTEN" envDefault:":8080"`
	LogLevel    string        `env:"SELMAGATE_LOG_LEVEL" envDefault:"info"`
	AuditLog    bool          `env:"SELMAGATE_AUDIT_LOG" envDefault:"false"`
}

// loadConfig reads envFile when it exists, then the process environment.
func loadConfig(envFile string) (envConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return envConfig{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c envConfig) gateConfig() selmaGate.Config {
	cfg := selmaGate.DefaultConfig()
	cfg.Session.RedisPrefix = c.RedisPrefix
	cfg.Session.StorageKey = c.StorageKey
	cfg.Session.TTL = c.SessionTTL
	cfg.Idle.Timeout = c.IdleTimeout
	cfg.Idle.Enabled = c.IdleTimeout > 0
	cfg.Navigation.LoginPath = c.LoginPath
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func (c envConfig) logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
