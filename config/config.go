// Package config loads the service configuration from WALKER_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads .env into the process environment, if present.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every configuration variable.
const EnvPrefix = "WALKER_"

// Config is the root configuration object. Keys are the lowercased variable
// names without the prefix, e.g. WALKER_HTTP_ADDR -> http_addr.
type Config struct {
	HTTPAddr           string        `koanf:"http_addr" validate:"required"`
	CORSAllowedOrigins string        `koanf:"cors_allowed_origins" validate:"required"`
	NATSPort           int           `koanf:"nats_port" validate:"min=1,max=65535"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	LogLevel           string        `koanf:"log_level" validate:"oneof=info error"`
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		HTTPAddr:           ":8000",
		CORSAllowedOrigins: "*",
		NATSPort:           4222,
		ShutdownTimeout:    30 * time.Second,
		LogLevel:           "info",
	}
}

// Load reads WALKER_* variables over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
