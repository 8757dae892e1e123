package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dgallion1/shardpdf/internal/analyzer"
)

// TaskFunc renders one chunk. Implementations may block on I/O; the
// scheduler bounds each call with the configured timeout.
type TaskFunc func(ctx context.Context, chunk analyzer.Chunk) error

// Config controls scheduling behavior.
type Config struct {
	Timeout time.Duration // per-task budget; <= 0 falls back to 5 minutes
	Workers int           // pool size; 0 derives a bound from the hardware
}

// Scheduler drives chunk render tasks to terminal outcomes. Both
// implementations return outcomes sorted by chunk index and never let one
// chunk's failure abort its siblings.
type Scheduler interface {
	Run(ctx context.Context, chunks []analyzer.Chunk, render TaskFunc) ([]Outcome, error)
}

// PoolError means the worker pool could not be constructed. Callers degrade
// to sequential execution instead of failing the run.
type PoolError struct {
	Reason string
}

func (e *PoolError) Error() string { return "worker pool: " + e.Reason }

// Select picks the scheduler for a run: sequential when forced, otherwise a
// pool, degrading to sequential if the pool cannot be built.
func Select(cfg Config, forceSequential bool, log *slog.Logger, obs Observer) Scheduler {
	if obs == nil {
		obs = NopObserver{}
	}
	if forceSequential {
		return NewSerial(cfg, log, obs)
	}
	pool, err := NewPool(cfg, log, obs)
	if err != nil {
		log.Warn("worker pool unavailable, falling back to sequential", "error", err)
		return NewSerial(cfg, log, obs)
	}
	return pool
}

const defaultTimeout = 5 * time.Minute

// defaultWorkers is a small multiple of the hardware concurrency, capped to
// keep render tasks from oversubscribing file I/O.
func defaultWorkers() int {
	n := 2 * runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// runTask executes one render under the per-task timeout. A timeout stops
// the wait, not the render: the goroutine delivers into a buffered channel
// and its late result is discarded.
func runTask(ctx context.Context, chunk analyzer.Chunk, render TaskFunc, timeout time.Duration) Outcome {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- invokeRender(taskCtx, chunk, render)
	}()

	select {
	case err := <-done:
		elapsed := time.Since(start)
		if err != nil {
			return Outcome{ChunkIndex: chunk.Index, Status: StatusFailure, Error: err.Error(), Duration: elapsed}
		}
		return Outcome{ChunkIndex: chunk.Index, Status: StatusSuccess, Duration: elapsed}
	case <-taskCtx.Done():
		elapsed := time.Since(start)
		if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return Outcome{
				ChunkIndex: chunk.Index,
				Status:     StatusTimeout,
				Error:      fmt.Sprintf("render exceeded %s budget", timeout),
				Duration:   elapsed,
			}
		}
		return Outcome{ChunkIndex: chunk.Index, Status: StatusFailure, Error: taskCtx.Err().Error(), Duration: elapsed}
	}
}

// invokeRender converts a renderer panic into a Failed outcome's error.
func invokeRender(ctx context.Context, chunk analyzer.Chunk, render TaskFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	return render(ctx, chunk)
}
