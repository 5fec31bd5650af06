package worker

import "errors"

// Sentinel errors returned by the pool.
var (
	ErrPoolNotStarted = errors.New("worker pool not started")
	ErrPoolStopped    = errors.New("worker pool stopped")
	ErrJobPanicked    = errors.New("job panicked")
)
