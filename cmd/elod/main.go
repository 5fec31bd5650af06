// Command elod serves the Elo rating API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/elo/internal/adapters/http/api"
	app "github.com/okian/elo/internal/app"
	"github.com/okian/elo/internal/config"
	"github.com/okian/elo/pkg/elo"
	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "elod:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	log := logger.Named("elod")

	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	handler, err := api.NewServer(svc, svc,
		api.WithLogger(logger.Named("api")),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	).Routes()
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the rating service from configuration.
func newService(cfg *config.Config) (*app.Service, error) {
	strategy, err := elo.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithKFactor(cfg.KFactor),
		app.WithStrategy(strategy),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithMaxBatchSize(cfg.MaxBatchSize),
		app.WithMaxParticipants(cfg.MaxParticipants),
	), nil
}
