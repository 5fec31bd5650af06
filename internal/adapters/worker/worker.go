// Package worker runs independent rating jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/elo/pkg/logger"
	"github.com/okian/elo/pkg/metrics"
)

// Job is a unit of work executed by a pool worker.
type Job func(ctx context.Context) error

type task struct {
	ctx  context.Context //nolint:containedctx // the submitting request's context travels with its job
	job  Job
	errs []error
	idx  int
	wg   *sync.WaitGroup
}

// worker pulls tasks off the pool channel until the pool shuts down.
type worker struct {
	name   string
	pool   *Pool
	logger logger.Logger
	done   chan struct{}
}

func (w *worker) run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pool.shutdown:
			return
		case t := <-w.pool.tasks:
			w.execute(t)
		}
	}
}

func (w *worker) execute(t task) {
	defer t.wg.Done()

	if err := t.ctx.Err(); err != nil {
		w.pool.metrics.RecordJobRejected()
		t.errs[t.idx] = err
		return
	}

	idle := w.pool.metrics.WorkerBusy()
	defer idle()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(t.ctx, "job panicked", logger.Any("panic", r), logger.Int("job", t.idx))
			t.errs[t.idx] = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()

	t.errs[t.idx] = t.job(t.ctx)
}

// Pool fans jobs out to a fixed set of workers.
type Pool struct {
	name    string
	workers []*worker
	tasks   chan task

	started  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}

	logger  logger.Logger
	metrics *metrics.Manager
}

// NewPool creates a pool with workerCount workers. A non-positive count
// falls back to runtime.NumCPU().
func NewPool(workerCount int, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		name:     "worker-pool",
		workers:  make([]*worker, workerCount),
		tasks:    make(chan task),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := range p.workers {
		name := p.name + "-" + strconv.Itoa(i)
		p.workers[i] = &worker{
			name:   name,
			pool:   p,
			logger: p.logger.Named(name),
			done:   make(chan struct{}),
		}
	}
	p.metrics.UpdateWorkerCount(workerCount)

	return p
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers. Workers stop when ctx is done or on Shutdown.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Run executes jobs on the pool and blocks until every job has finished or
// been rejected. The returned slice holds one error per job, in job order.
func (p *Pool) Run(ctx context.Context, jobs []Job) []error {
	errs := make([]error, len(jobs))
	if !p.started.Load() {
		for i := range errs {
			errs[i] = ErrPoolNotStarted
		}
		return errs
	}

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		t := task{ctx: ctx, job: job, errs: errs, idx: i, wg: &wg}
		select {
		case p.tasks <- t:
		case <-p.shutdown:
			p.metrics.RecordJobRejected()
			errs[i] = ErrPoolStopped
			wg.Done()
		case <-ctx.Done():
			p.metrics.RecordJobRejected()
			errs[i] = ctx.Err()
			wg.Done()
		}
	}
	wg.Wait()

	return errs
}

// Shutdown stops the workers and waits for in-flight jobs, bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.shutdown) })
	if !p.started.Load() {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", ctx.Err())
		}
	}
	return nil
}
