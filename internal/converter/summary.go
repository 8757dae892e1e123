package converter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/shardpdf/internal/config"
	"github.com/dgallion1/shardpdf/internal/pipeline"
)

const (
	summaryTextName = "conversion_summary.txt"
	summaryJSONName = "conversion_summary.json"
)

// WriteSummary drops both summary artifacts into the output directory: a
// human-readable text report and a machine-readable JSON copy of the
// pipeline report.
func WriteSummary(cfg config.Config, ext string, rep pipeline.Report) error {
	if err := writeTextSummary(cfg, ext, rep); err != nil {
		return err
	}
	return writeJSONSummary(cfg, rep)
}

func writeTextSummary(cfg config.Config, ext string, rep pipeline.Report) error {
	var b strings.Builder
	b.WriteString("JSON to PDF Conversion Summary\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString(fmt.Sprintf("Date: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Duration: %s\n", rep.TotalDuration.Round(time.Millisecond)))
	b.WriteString(fmt.Sprintf("Input: %s\n", cfg.InputFile))
	b.WriteString(fmt.Sprintf("Output directory: %s\n\n", cfg.OutputDir))

	b.WriteString("Results:\n")
	b.WriteString(fmt.Sprintf("  Requested files: %d\n", rep.RequestedFiles))
	b.WriteString(fmt.Sprintf("  Produced files:  %d\n", rep.ProducedFiles))
	if rep.RequestedFiles > 0 {
		rate := float64(rep.ProducedFiles) / float64(rep.RequestedFiles) * 100
		b.WriteString(fmt.Sprintf("  Success rate:    %.1f%%\n", rate))
	}
	b.WriteString(fmt.Sprintf("  Overall success: %v\n\n", rep.OverallSuccess))

	if rep.Failed > 0 || rep.TimedOut > 0 {
		b.WriteString("Failures:\n")
		for _, o := range rep.Outcomes {
			if o.Status == pipeline.StatusSuccess {
				continue
			}
			b.WriteString(fmt.Sprintf("  - chunk %d (%s): %s\n", o.ChunkIndex, o.Status, o.Error))
		}
		b.WriteString("\n")
	}

	b.WriteString("Generated files:\n")
	for _, o := range rep.Outcomes {
		if o.Status != pipeline.StatusSuccess {
			continue
		}
		b.WriteString(fmt.Sprintf("  - %s\n", FileName(o.ChunkIndex, rep.RequestedFiles, ext)))
	}

	path := filepath.Join(cfg.OutputDir, summaryTextName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", summaryTextName, err)
	}
	return nil
}

func writeJSONSummary(cfg config.Config, rep pipeline.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, summaryJSONName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", summaryJSONName, err)
	}
	return nil
}
