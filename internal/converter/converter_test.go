package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/shardpdf/internal/analyzer"
	"github.com/dgallion1/shardpdf/internal/config"
	"github.com/dgallion1/shardpdf/internal/pipeline"
)

// fakeRenderer writes the chunk payload as plain JSON, and can be told to
// fail specific chunk indexes.
type fakeRenderer struct {
	mu     sync.Mutex
	failOn map[int]bool
	calls  []int
}

func (r *fakeRenderer) Ext() string { return "pdf" }

func (r *fakeRenderer) Render(ctx context.Context, chunk analyzer.Chunk, destPath string) error {
	r.mu.Lock()
	r.calls = append(r.calls, chunk.Index)
	fail := r.failOn[chunk.Index]
	r.mu.Unlock()
	if fail {
		return fmt.Errorf("injected failure for chunk %d", chunk.Index)
	}
	data, err := chunk.Payload.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}

func testConfig(t *testing.T, doc string, numFiles int) config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.InputFile = input
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.NumFiles = numFiles
	cfg.TimeoutSeconds = 10
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConvertWith_EndToEnd(t *testing.T) {
	doc := `[1, 2, 3, 4, 5, 6, 7, 8, 9, 10]`
	cfg := testConfig(t, doc, 3)
	r := &fakeRenderer{}

	rep, err := ConvertWith(context.Background(), cfg, r, discardLogger(), nil)
	if err != nil {
		t.Fatalf("ConvertWith: %v", err)
	}

	if !rep.OverallSuccess {
		t.Errorf("OverallSuccess = false, want true")
	}
	if rep.ProducedFiles != 3 {
		t.Errorf("ProducedFiles = %d, want 3", rep.ProducedFiles)
	}

	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("report_%03d_of_003.pdf", i)
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestConvertWith_PartialFailureReported(t *testing.T) {
	cfg := testConfig(t, `[1, 2, 3, 4]`, 2)
	r := &fakeRenderer{failOn: map[int]bool{1: true}}

	rep, err := ConvertWith(context.Background(), cfg, r, discardLogger(), nil)
	if err != nil {
		t.Fatalf("ConvertWith: %v", err)
	}

	if rep.OverallSuccess {
		t.Errorf("OverallSuccess = true despite failed chunk")
	}
	if rep.Failed != 1 || rep.Succeeded != 1 {
		t.Errorf("Failed = %d, Succeeded = %d; want 1 and 1", rep.Failed, rep.Succeeded)
	}
	if rep.Outcomes[1].Status != pipeline.StatusFailure {
		t.Errorf("chunk 1 status = %s, want failure", rep.Outcomes[1].Status)
	}
}

func TestConvertWith_RepairsMalformedInput(t *testing.T) {
	cfg := testConfig(t, `{'name': 'ada', 'active': True,}`, 1)
	r := &fakeRenderer{}

	rep, err := ConvertWith(context.Background(), cfg, r, discardLogger(), nil)
	if err != nil {
		t.Fatalf("ConvertWith: %v", err)
	}
	if !rep.OverallSuccess {
		t.Errorf("repairable input should convert cleanly")
	}
}

func TestConvertWith_UnloadableInputIsFatal(t *testing.T) {
	cfg := config.Default()
	cfg.InputFile = filepath.Join(t.TempDir(), "absent.json")
	cfg.OutputDir = t.TempDir()

	_, err := ConvertWith(context.Background(), cfg, &fakeRenderer{}, discardLogger(), nil)
	if err == nil {
		t.Fatalf("expected fatal error for missing input")
	}
}

func TestConvertWith_WritesSummaryArtifacts(t *testing.T) {
	cfg := testConfig(t, `[1, 2, 3]`, 2)
	r := &fakeRenderer{failOn: map[int]bool{0: true}}

	rep, err := ConvertWith(context.Background(), cfg, r, discardLogger(), nil)
	if err != nil {
		t.Fatalf("ConvertWith: %v", err)
	}

	text, err := os.ReadFile(filepath.Join(cfg.OutputDir, "conversion_summary.txt"))
	if err != nil {
		t.Fatalf("read text summary: %v", err)
	}
	if !strings.Contains(string(text), "Produced files:  1") {
		t.Errorf("text summary missing produced count:\n%s", text)
	}
	if !strings.Contains(string(text), "injected failure") {
		t.Errorf("text summary missing failure detail")
	}

	raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, "conversion_summary.json"))
	if err != nil {
		t.Fatalf("read json summary: %v", err)
	}
	var decoded pipeline.Report
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode json summary: %v", err)
	}
	if decoded.ProducedFiles != rep.ProducedFiles {
		t.Errorf("json summary produced = %d, want %d", decoded.ProducedFiles, rep.ProducedFiles)
	}
}

func TestConvertWith_ObserverSeesEveryChunk(t *testing.T) {
	cfg := testConfig(t, `[1, 2, 3, 4, 5, 6]`, 3)

	var mu sync.Mutex
	var seen []pipeline.Outcome
	obs := observerFunc(func(o pipeline.Outcome) {
		mu.Lock()
		seen = append(seen, o)
		mu.Unlock()
	})

	if _, err := ConvertWith(context.Background(), cfg, &fakeRenderer{}, discardLogger(), obs); err != nil {
		t.Fatalf("ConvertWith: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Errorf("observer saw %d outcomes, want 3", len(seen))
	}
}

type observerFunc func(pipeline.Outcome)

func (f observerFunc) OnChunkDone(o pipeline.Outcome) { f(o) }

func TestFileName(t *testing.T) {
	if got := FileName(0, 40, "pdf"); got != "report_001_of_040.pdf" {
		t.Errorf("FileName = %q", got)
	}
	if got := FileName(11, 12, "docx"); got != "report_012_of_012.docx" {
		t.Errorf("FileName = %q", got)
	}
}
