// Package service rates matches for the HTTP API and the batch endpoint.
// It owns the rating defaults, the batch worker pool, and the logging,
// tracing and metrics around every calculation.
package service

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/elo/internal/adapters/worker"
	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default limits.
const (
	defaultMaxBatchSize    = 1000
	defaultMaxParticipants = 256
	poolShutdownTimeout    = 10 * time.Second
	tracerName             = "elo"
)

// Service rates matches using the configured defaults.
type Service struct {
	mu sync.RWMutex

	// Rating defaults
	kFactor  float64
	strategy elo.Strategy

	// Limits
	workerCount     int
	maxBatchSize    int
	maxParticipants int

	// Components
	pool    *worker.Pool
	logger  logger.Logger
	tracer  trace.Tracer
	metrics *metrics.Manager

	// State
	started bool
	cancel  context.CancelFunc

	// Counters for GetStats
	calculations atomic.Int64
	failures     atomic.Int64
	batches      atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer spans are started on.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithKFactor sets the default K-factor. Non-positive values are ignored.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithStrategy sets the default team distribution strategy.
func WithStrategy(strategy elo.Strategy) Option {
	return func(s *Service) {
		s.strategy = strategy
	}
}

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxBatchSize caps the number of matches in one batch.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithMaxParticipants caps the number of participants in one match.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.maxParticipants = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		kFactor:         elo.DefaultKFactor,
		strategy:        elo.Uniform,
		workerCount:     runtime.NumCPU(),
		maxBatchSize:    defaultMaxBatchSize,
		maxParticipants: defaultMaxParticipants,
		tracer:          otel.Tracer(tracerName),
		metrics:         metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the batch worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.pool = worker.NewPool(s.workerCount,
		worker.WithName("batch"),
		worker.WithLogger(s.logger),
		worker.WithMetrics(s.metrics),
	)
	s.pool.Start(poolCtx)
	s.cancel = cancel
	s.started = true

	s.logger.Info(ctx, "rating service started",
		logger.Float64("k_factor", s.kFactor),
		logger.String("strategy", s.strategy.String()),
		logger.Int("workers", s.workerCount),
		logger.Int("max_batch_size", s.maxBatchSize),
		logger.Int("max_participants", s.maxParticipants),
	)
	return nil
}

// Stop drains the worker pool.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), poolShutdownTimeout)
	defer cancel()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "rating service stopped")
}

// log returns the service logger, falling back to the global one before Start.
func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get().Named("service")
	}
	return l
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"started":         s.started,
		"kFactor":         s.kFactor,
		"strategy":        s.strategy.String(),
		"workerCount":     s.workerCount,
		"maxBatchSize":    s.maxBatchSize,
		"maxParticipants": s.maxParticipants,
		"calculations":    s.calculations.Load(),
		"failures":        s.failures.Load(),
		"batches":         s.batches.Load(),
	}
}
