// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings of the service.
//
// DatabaseURL empty selects the in-memory event log and offset store;
// RedisAddr empty selects the in-memory read model and lookup cache. Both are
// meant for local runs and tests, a production deployment sets both.
type Config struct {
	HTTPListenAddr string `env:"HTTP_LISTEN_ADDR" envDefault:":8080"`

	DatabaseURL     string `env:"DATABASE_URL"`
	EventsTableName string `env:"EVENTS_TABLE_NAME" envDefault:"events"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DispatchPollInterval time.Duration `env:"DISPATCH_POLL_INTERVAL" envDefault:"100ms"`
	DispatchBatchSize    int           `env:"DISPATCH_BATCH_SIZE" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config from environment: %w", err)
	}

	return cfg, nil
}
