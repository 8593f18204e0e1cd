package server

import (
	"fmt"
	"time"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:3000"

// Config defines the HTTP listener shared by every transport.
type Config struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Go duration strings, e.g. "10s".
	ShutdownTimeout string `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
	RequestTimeout  string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`

	// Upper bound for a request body carrying a value.
	MaxValueBytes int64 `json:"max_value_bytes,omitempty" yaml:"max_value_bytes,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		ShutdownTimeout: "10s",
		RequestTimeout:  "30s",
		MaxValueBytes:   1 << 20,
	}
}

func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.ShutdownTimeout != "" {
		c.ShutdownTimeout = source.ShutdownTimeout
	}
	if source.RequestTimeout != "" {
		c.RequestTimeout = source.RequestTimeout
	}
	if source.MaxValueBytes > 0 {
		c.MaxValueBytes = source.MaxValueBytes
	}
}

// Timeouts parses ShutdownTimeout and RequestTimeout.
func (c *Config) Timeouts() (shutdown, request time.Duration, err error) {
	if shutdown, err = parsePositive("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return 0, 0, err
	}
	if request, err = parsePositive("request_timeout", c.RequestTimeout); err != nil {
		return 0, 0, err
	}
	return shutdown, request, nil
}

func parsePositive(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, field)
	}
	return d, nil
}
