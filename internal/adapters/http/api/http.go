// Package api exposes the rating service over JSON HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/elo/internal/adapters/http/swagger"
	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Calculator is what the handlers need from the rating service.
type Calculator interface {
	Calculate(ctx context.Context, req service.Request) (service.Outcome, error)
	ExpectedScore(ctx context.Context, a, b service.OpponentSpec) (float64, error)
	Batch(ctx context.Context, reqs []service.Request) ([]service.BatchItem, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]any
}

// Server wires HTTP routes for the rating API.
type Server struct {
	calc     Calculator
	stats    StatsProvider
	limiter  *IPRateLimiter
	gatherer prometheus.Gatherer
	metrics  *metrics.Manager
	logger   logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit enables per-client rate limiting. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = NewIPRateLimiter(rps, burst)
		}
	}
}

// WithGatherer sets the registry served at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithMetrics sets the metrics manager HTTP traffic is recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger used for internal failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server.
func NewServer(calc Calculator, stats StatsProvider, opts ...Option) *Server {
	s := &Server{
		calc:     calc,
		stats:    stats,
		gatherer: metrics.GetRegistry(),
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() (http.Handler, error) {
	metricsHandler, err := metrics.Handler(s.gatherer)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(s.metrics))

	r.Get("/healthz", HandleHealth)
	r.Get("/stats", NewStatsHandler(s.stats).HandleStats)
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	if err := swagger.Register(r); err != nil {
		return nil, err
	}

	r.Route("/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimitMiddleware(s.limiter, s.metrics))
		}
		r.Post("/duel", s.handleMatch(service.KindDuel))
		r.Post("/free-for-all", s.handleMatch(service.KindFreeForAll))
		r.Post("/team-match", s.handleMatch(service.KindTeamMatch))
		r.Post("/multi-team-match", s.handleMatch(service.KindMultiTeamMatch))
		r.Post("/expected-score", s.handleExpectedScore)
		r.Post("/batch", s.handleBatch)
	})

	return r, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a JSON body into v, rejecting trailing data.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}
