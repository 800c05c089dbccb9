// Package config loads runtime settings from the environment.
// A .env file in the working directory is honoured when present.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DefaultSecretKey is the development signing key. Production refuses to start with it.
const DefaultSecretKey = "dev-secret-key-change-in-production"

const starshipsPath = "starships?expanded=true"

// Config holds all application configuration
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"8008"`

	// Storage. sqlite:// (default) or postgres:// URLs are accepted.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite:///app.db"`

	// Sessions
	SecretKey  string        `env:"SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Upstream catalog
	SWAPIBaseURL            string        `env:"SWAPI_BASE_URL" envDefault:"https://www.swapi.tech/api/"`
	UpstreamTimeout         time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
	UpstreamBreakerFailures uint32        `env:"UPSTREAM_BREAKER_FAILURES" envDefault:"3"`
	SyncHaltOnFailure       bool          `env:"SYNC_HALT_ON_FAILURE" envDefault:"false"`

	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	// Login and registration attempts per client IP. Zero disables throttling.
	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE" envDefault:"20"`
	AuthRateBurst     int `env:"AUTH_RATE_BURST" envDefault:"5"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if strings.TrimSpace(c.SWAPIBaseURL) == "" {
		return errors.New("SWAPI_BASE_URL must not be empty")
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if c.AuthRatePerMinute < 0 || c.AuthRateBurst < 0 {
		return errors.New("AUTH_RATE_PER_MINUTE and AUTH_RATE_BURST must not be negative")
	}
	if c.IsProduction() && (c.SecretKey == "" || c.SecretKey == DefaultSecretKey) {
		return errors.New("SECRET_KEY must be set in production")
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StarshipsEndpoint is the first page of the expanded starship listing.
func (c *Config) StarshipsEndpoint() string {
	base := c.SWAPIBaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + starshipsPath
}
