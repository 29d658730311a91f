// Package config loads runtime configuration from the environment. The
// data mode (mock vs live) is an explicit value handed to the wiring code,
// never a process-wide global.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DataMode selects the provider set.
type DataMode string

const (
	DataModeLive DataMode = "live"
	DataModeMock DataMode = "mock"
)

// Config is the full runtime configuration.
type Config struct {
	DataMode string `envconfig:"DATA_MODE" default:"live"`

	FinnhubAPIKey string `envconfig:"FINNHUB_API_KEY"`
	YahooEnabled  bool   `envconfig:"YAHOO_ENABLED" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	HTTPHost string `envconfig:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

	MoversLimit  int    `envconfig:"MOVERS_LIMIT" default:"10"`
	UniverseFile string `envconfig:"UNIVERSE_FILE"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	switch DataMode(cfg.DataMode) {
	case DataModeLive, DataModeMock:
	default:
		return nil, fmt.Errorf("invalid DATA_MODE %q: must be live or mock", cfg.DataMode)
	}
	return &cfg, nil
}

// Mode returns the parsed data mode.
func (c *Config) Mode() DataMode {
	return DataMode(c.DataMode)
}
