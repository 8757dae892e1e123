package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgallion1/shardpdf/internal/analyzer"
)

// PoolScheduler renders chunks concurrently on a bounded worker pool.
type PoolScheduler struct {
	workers int
	timeout time.Duration
	log     *slog.Logger
	obs     Observer
}

// NewPool builds a pool scheduler. A negative worker count is a
// configuration fault and yields a PoolError so the caller can fall back.
func NewPool(cfg Config, log *slog.Logger, obs Observer) (*PoolScheduler, error) {
	if cfg.Workers < 0 {
		return nil, &PoolError{Reason: fmt.Sprintf("invalid worker count %d", cfg.Workers)}
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = defaultWorkers()
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return &PoolScheduler{
		workers: workers,
		timeout: cfg.Timeout,
		log:     log,
		obs:     obs,
	}, nil
}

// Run submits every chunk to the pool and blocks until all reach a terminal
// state. Completion order is arbitrary; the returned slice is re-sorted by
// chunk index.
func (s *PoolScheduler) Run(ctx context.Context, chunks []analyzer.Chunk, render TaskFunc) ([]Outcome, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no chunks to schedule")
	}

	workers := s.workers
	if workers > len(chunks) {
		workers = len(chunks)
	}
	s.log.Debug("starting worker pool", "workers", workers, "chunks", len(chunks))

	results := make(chan Outcome, len(chunks))
	sem := make(chan struct{}, workers)

	for _, chunk := range chunks {
		sem <- struct{}{}
		go func(c analyzer.Chunk) {
			defer func() { <-sem }()
			results <- runTask(ctx, c, render, s.timeout)
		}(chunk)
	}

	outcomes := make([]Outcome, 0, len(chunks))
	for range chunks {
		o := <-results
		s.obs.OnChunkDone(o)
		outcomes = append(outcomes, o)
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].ChunkIndex < outcomes[j].ChunkIndex
	})
	return outcomes, nil
}
