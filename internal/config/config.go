// Package config defines service configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file named by
// ELO_CONFIG, then ELO_* environment variables.
package config

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/okian/elo/pkg/elo"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// KFactor is the default maximum rating change per pairwise comparison.
	KFactor float64 `koanf:"k_factor"`

	// Strategy is the default team distribution strategy: uniform or weighted.
	Strategy string `koanf:"strategy"`

	// WorkerCount sets the number of batch workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBatchSize caps the number of matches in one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// MaxParticipants caps the number of players in one match.
	MaxParticipants int `koanf:"max_participants"`

	// RateLimitRPS and RateLimitBurst configure the per-client HTTP limiter.
	// A zero RPS disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		KFactor:         elo.DefaultKFactor,
		Strategy:        elo.Uniform.String(),
		WorkerCount:     runtime.NumCPU(),
		MaxBatchSize:    1000,
		MaxParticipants: 256,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case math.IsNaN(c.KFactor) || math.IsInf(c.KFactor, 0) || c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be a positive number, got %v", ErrInvalidConfig, c.KFactor)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive, got %d", ErrInvalidConfig, c.MaxBatchSize)
	case c.MaxParticipants < 2:
		return fmt.Errorf("%w: max_participants must be at least 2, got %d", ErrInvalidConfig, c.MaxParticipants)
	case c.RateLimitRPS < 0:
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst <= 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is on", ErrInvalidConfig)
	}
	if _, err := elo.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
