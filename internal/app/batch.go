package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/elo/internal/adapters/worker"
	"github.com/okian/elo/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Batch rates independent matches concurrently on the worker pool.
// Items come back in request order; a failing match only sets its own Err.
// The returned error is non-nil only when the batch as a whole is rejected.
func (s *Service) Batch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	s.mu.RLock()
	started, pool, limit := s.started, s.pool, s.maxBatchSize
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}
	if len(reqs) > limit {
		s.metrics.RecordCalculationFailure("batch", Reason(ErrBatchTooLarge))
		return nil, fmt.Errorf("%w: %d matches exceeds limit %d", ErrBatchTooLarge, len(reqs), limit)
	}

	batchID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "elo.batch", trace.WithAttributes(
		attribute.String("elo.batch_id", batchID),
		attribute.Int("elo.batch_size", len(reqs)),
	))
	defer span.End()

	items := make([]BatchItem, len(reqs))
	jobs := make([]worker.Job, len(reqs))
	for i := range reqs {
		jobs[i] = func(ctx context.Context) error {
			out, err := s.Calculate(ctx, reqs[i])
			items[i].Outcome = out
			return err
		}
	}

	failed := 0
	for i, err := range pool.Run(ctx, jobs) {
		if err != nil {
			items[i].Err = err
			failed++
		}
	}

	s.batches.Add(1)
	s.metrics.ObserveBatch(len(reqs), failed)
	span.SetAttributes(attribute.Int("elo.batch_failed", failed))
	s.log().Debug(ctx, "batch rated",
		logger.String("batch_id", batchID),
		logger.Int("size", len(reqs)),
		logger.Int("failed", failed),
	)

	return items, nil
}
