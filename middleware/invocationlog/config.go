package invocationlog

import (
	"time"
)

// Config holds invocation log configuration.
type Config struct {
	// InvocationIDHeader is the request header carrying a caller-supplied
	// invocation ID (default: "X-Invocation-ID")
	InvocationIDHeader string

	// Services restricts logging to the named request-reply services.
	// Empty means every request-reply service is wrapped.
	Services map[string]struct{}

	// SlowThreshold logs invocations slower than this at warn level (default: 250ms)
	SlowThreshold time.Duration
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		InvocationIDHeader: "X-Invocation-ID",
		Services:           make(map[string]struct{}),
		SlowThreshold:      250 * time.Millisecond,
	}
}

// Option is a function that modifies Config.
type Option func(*Config)

// WithInvocationIDHeader sets the header name for invocation ID extraction.
func WithInvocationIDHeader(header string) Option {
	return func(c *Config) {
		c.InvocationIDHeader = header
	}
}

// WithServices limits logging to the given service names.
func WithServices(names ...string) Option {
	return func(c *Config) {
		for _, name := range names {
			c.Services[name] = struct{}{}
		}
	}
}

// WithSlowThreshold sets the latency above which invocations log at warn level.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *Config) {
		c.SlowThreshold = d
	}
}
