// Package converter wires one conversion run: load, analyze, chunk,
// schedule renders, summarize. Each call is independent; no state survives
// between runs.
package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/shardpdf/internal/analyzer"
	"github.com/dgallion1/shardpdf/internal/config"
	"github.com/dgallion1/shardpdf/internal/jsonval"
	"github.com/dgallion1/shardpdf/internal/pipeline"
	"github.com/dgallion1/shardpdf/internal/render"
)

// Convert runs a full conversion with the renderer implied by cfg.Format.
func Convert(ctx context.Context, cfg config.Config, log *slog.Logger, obs pipeline.Observer) (pipeline.Report, error) {
	r, err := render.ForFormat(cfg.Format, render.Options{Verify: cfg.VerifyOutput})
	if err != nil {
		return pipeline.Report{}, err
	}
	return ConvertWith(ctx, cfg, r, log, obs)
}

// ConvertWith is Convert with an explicit renderer. Fatal errors (load or
// analysis failure, no chunks) abort the run; per-chunk failures land in
// the report instead.
func ConvertWith(ctx context.Context, cfg config.Config, r render.Renderer, log *slog.Logger, obs pipeline.Observer) (pipeline.Report, error) {
	if obs == nil {
		obs = pipeline.NopObserver{}
	}
	start := time.Now()

	doc, err := jsonval.Load(cfg.InputFile)
	if err != nil {
		return pipeline.Report{}, fmt.Errorf("load %s: %w", cfg.InputFile, err)
	}

	an, err := analyzer.Analyze(doc)
	if err != nil {
		return pipeline.Report{}, err
	}
	log.Info("analyzed document",
		"structure", an.StructureType,
		"items", an.TotalItems,
		"complexity", fmt.Sprintf("%.1f", an.Complexity),
	)

	chunks, err := analyzer.CreateChunks(doc, cfg.NumFiles)
	if err != nil {
		return pipeline.Report{}, err
	}
	if len(chunks) == 0 {
		return pipeline.Report{}, errors.New("no chunks produced")
	}
	log.Info("created chunks", "chunks", len(chunks), "requested", cfg.NumFiles)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return pipeline.Report{}, fmt.Errorf("create output dir: %w", err)
	}

	sched := pipeline.Select(
		pipeline.Config{Timeout: cfg.Timeout(), Workers: cfg.Workers},
		cfg.ForceSequential,
		log,
		obs,
	)

	outcomes, err := sched.Run(ctx, chunks, func(ctx context.Context, c analyzer.Chunk) error {
		dest := filepath.Join(cfg.OutputDir, FileName(c.Index, c.TotalChunks, r.Ext()))
		return r.Render(ctx, c, dest)
	})
	if err != nil {
		return pipeline.Report{}, err
	}

	rep := pipeline.Summarize(outcomes, len(chunks), time.Since(start))
	log.Info("conversion finished",
		"produced", rep.ProducedFiles,
		"requested", rep.RequestedFiles,
		"failed", rep.Failed,
		"timed_out", rep.TimedOut,
		"duration_ms", rep.TotalDuration.Milliseconds(),
	)

	if err := WriteSummary(cfg, r.Ext(), rep); err != nil {
		log.Warn("summary write failed", "error", err)
	}
	return rep, nil
}

// FileName encodes chunk position so output files sort in chunk order.
// The displayed index is 1-based.
func FileName(index, total int, ext string) string {
	return fmt.Sprintf("report_%03d_of_%03d.%s", index+1, total, ext)
}
