package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/shardpdf/internal/analyzer"
)

// DOCXRenderer produces the same report content as the PDF renderer, as a
// Word document.
type DOCXRenderer struct{}

func (r *DOCXRenderer) Ext() string { return "docx" }

func (r *DOCXRenderer) Render(ctx context.Context, chunk analyzer.Chunk, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText(fmt.Sprintf("JSON Data Chunk %d", chunk.Index+1)).Size("36").Color("2E4057").Bold()
	w.AddParagraph()

	for _, row := range metadataRows(chunk) {
		p := w.AddParagraph()
		p.AddText(row[0] + ": ").Bold()
		p.AddText(row[1])
	}
	w.AddParagraph()

	heading := w.AddParagraph()
	heading.AddText(chunk.Title).Size("28").Color("048A81").Bold()

	for _, sec := range buildSections(chunk) {
		if err := ctx.Err(); err != nil {
			return err
		}
		h := w.AddParagraph()
		h.AddText(sec.Heading).Color("E74C3C").Bold()
		// docx paragraphs cannot hold raw newlines, split the body.
		for _, line := range strings.Split(sec.Body, "\n") {
			body := w.AddParagraph()
			body.AddText(line).Font("Courier New", "", "", "")
		}
	}

	footer := w.AddParagraph().Justification("center")
	footer.AddText(fmt.Sprintf("Chunk %d of %d | %s", chunk.Index+1, chunk.TotalChunks, chunk.Hash)).Size("18").Color("808080")

	tmp := destPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write docx: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close docx: %w", err)
	}
	return writeAtomic(tmp, destPath)
}
