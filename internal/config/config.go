package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// #region config
// Config is the server's environment-driven configuration. CLI flags
// override individual fields after Load.
type Config struct {
	// Addr is the gRPC listen address.
	Addr string `env:"DECIDE_ADDR" envDefault:"localhost:50061"`
	// DBPath locates the SQLite decision log. "off" disables it.
	DBPath string `env:"DECIDE_DB" envDefault:"decide_audit.db"`
	// MetricsAddr serves /metrics. "off" disables it.
	MetricsAddr string `env:"DECIDE_METRICS_ADDR" envDefault:":9464"`
	Debug       bool   `env:"DECIDE_DEBUG" envDefault:"false"`
	// BatchLimit bounds concurrent evaluations in one batch.
	BatchLimit int `env:"DECIDE_BATCH_LIMIT" envDefault:"8"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBPath = Optional(cfg.DBPath)
	cfg.MetricsAddr = Optional(cfg.MetricsAddr)
	if cfg.BatchLimit < 1 {
		return Config{}, fmt.Errorf("parse env: DECIDE_BATCH_LIMIT must be >= 1, got %d", cfg.BatchLimit)
	}
	return cfg, nil
}

// Off is the value that switches an optional surface off. An empty variable
// falls back to the default instead.
const Off = "off"

// Optional maps Off to the empty string, which disables the surface.
func Optional(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), Off) {
		return ""
	}
	return v
}

// AuditEnabled reports whether decisions are logged.
func (c Config) AuditEnabled() bool { return c.DBPath != "" }

// MetricsEnabled reports whether /metrics is served.
func (c Config) MetricsEnabled() bool { return c.MetricsAddr != "" }

// #endregion config
