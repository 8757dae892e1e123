package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/shardpdf/internal/analyzer"
)

// Renderer turns one chunk descriptor into one document at destPath. It
// must be safe for concurrent use as long as each call gets a distinct
// destination.
type Renderer interface {
	Render(ctx context.Context, chunk analyzer.Chunk, destPath string) error
	Ext() string
}

// Options tune renderer construction.
type Options struct {
	// Verify re-opens each produced PDF and checks it has pages.
	Verify bool
}

// ForFormat returns the renderer for an output format name.
func ForFormat(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "pdf":
		return &PDFRenderer{Verify: opts.Verify}, nil
	case "docx":
		return &DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// writeAtomic moves tmp into place at dest, so a reader never observes a
// partially written document (a timed-out task's late write stays on the
// temp name and gets removed).
func writeAtomic(tmp, dest string) error {
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}
