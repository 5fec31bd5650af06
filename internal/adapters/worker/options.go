package worker

import (
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithName sets the pool name used for worker names and logging.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool and its workers.
func WithLogger(logger logger.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics sets the metrics manager the pool reports to.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pool) {
		if m != nil {
			p.metrics = m
		}
	}
}
