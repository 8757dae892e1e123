package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgallion1/shardpdf/internal/analyzer"
)

// SerialScheduler renders chunks strictly in index order, one at a time.
// Each task is still bounded by the per-task timeout; a timeout aborts only
// that chunk's document.
type SerialScheduler struct {
	timeout time.Duration
	log     *slog.Logger
	obs     Observer
}

func NewSerial(cfg Config, log *slog.Logger, obs Observer) *SerialScheduler {
	if obs == nil {
		obs = NopObserver{}
	}
	return &SerialScheduler{
		timeout: cfg.Timeout,
		log:     log,
		obs:     obs,
	}
}

func (s *SerialScheduler) Run(ctx context.Context, chunks []analyzer.Chunk, render TaskFunc) ([]Outcome, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no chunks to schedule")
	}
	s.log.Debug("running sequentially", "chunks", len(chunks))

	outcomes := make([]Outcome, 0, len(chunks))
	for _, chunk := range chunks {
		o := runTask(ctx, chunk, render, s.timeout)
		s.obs.OnChunkDone(o)
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
