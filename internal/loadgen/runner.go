package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/elo/internal/app"
	"github.com/okian/elo/pkg/logger"
)

const (
	directoryPermission = 0750
	filePermission      = 0600
	progressEvery       = 1000
)

// ErrMismatch is returned when at least one answer differs from the local calculation.
var ErrMismatch = errors.New("loadgen: server answers differ from local calculation")

// Run generates cfg.Matches random matches, submits them to the server and
// verifies every answer.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("loadgen")

	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("matches", cfg.Matches),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Any("seed", cfg.Seed))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	matches := NewGenerator(cfg.Seed).Matches(cfg.Matches)
	stats.Generated = len(matches)

	if cfg.OutputFile != "" {
		if err := saveMatches(cfg.OutputFile, matches); err != nil {
			log.Warn(ctx, "failed to save matches", logger.Error(err))
		}
	}

	submit(ctx, log, cfg, client, matches, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "load run finished",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("mismatched", stats.Mismatched),
		logger.Duration("duration", stats.Duration))

	if stats.Mismatched > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrMismatch, stats.Mismatched, stats.Submitted)
	}
	return stats, nil
}

// chunk is a contiguous slice of matches sent in one request.
type chunk []service.Request

func chunks(matches []service.Request, size int) []chunk {
	if size < 1 {
		size = 1
	}
	out := make([]chunk, 0, (len(matches)+size-1)/size)
	for start := 0; start < len(matches); start += size {
		end := min(start+size, len(matches))
		out = append(out, matches[start:end])
	}
	return out
}

func submit(ctx context.Context, log logger.Logger, cfg *Config, client *httpClient, matches []service.Request, stats *Stats) {
	var submitted, successful, rejected, failed, mismatched int64

	v := newVerifier()
	work := make(chan chunk)
	workers := max(cfg.Workers, 1)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range work {
				var answers []answer
				if len(c) == 1 && cfg.BatchSize <= 1 {
					answers = []answer{client.rate(ctx, c[0])}
				} else {
					answers = client.rateBatch(ctx, c)
				}

				for i, req := range c {
					verdict, detail := v.check(ctx, req, answers[i])
					switch verdict {
					case verdictOK:
						atomic.AddInt64(&successful, 1)
					case verdictRejected:
						atomic.AddInt64(&rejected, 1)
					case verdictFailed:
						atomic.AddInt64(&failed, 1)
						log.Debug(ctx, "match failed", logger.String("kind", string(req.Kind)), logger.String("error", detail))
					case verdictMismatch:
						atomic.AddInt64(&mismatched, 1)
						log.Warn(ctx, "answer mismatch", logger.String("kind", string(req.Kind)), logger.String("detail", detail))
					}
					if n := atomic.AddInt64(&submitted, 1); n%progressEvery == 0 {
						log.Info(ctx, "progress", logger.Int("submitted", int(n)), logger.Int("total", len(matches)))
					}
				}
			}
		}()
	}

loop:
	for _, c := range chunks(matches, cfg.BatchSize) {
		select {
		case work <- c:
		case <-ctx.Done():
			break loop
		}
	}
	close(work)
	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Rejected = int(atomic.LoadInt64(&rejected))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.Mismatched = int(atomic.LoadInt64(&mismatched))
}

// saveMatches writes the generated matches as indented JSON.
func saveMatches(path string, matches []service.Request) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal matches: %w", err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
