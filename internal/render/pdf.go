package render

import (
	"context"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/dgallion1/shardpdf/internal/analyzer"
)

// PDFRenderer produces one A4 PDF per chunk: a title page with a metadata
// table, then the chunk content as heading+body sections, then a footer
// with the chunk's position.
type PDFRenderer struct {
	Verify bool
}

func (r *PDFRenderer) Ext() string { return "pdf" }

func (r *PDFRenderer) Render(ctx context.Context, chunk analyzer.Chunk, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetAutoPageBreak(true, 20)

	// Title page.
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 22)
	doc.SetTextColor(46, 64, 87)
	doc.CellFormat(0, 14, tr(fmt.Sprintf("JSON Data Chunk %d", chunk.Index+1)), "", 1, "C", false, 0, "")
	doc.Ln(8)

	doc.SetFillColor(248, 249, 250)
	doc.SetTextColor(44, 62, 80)
	for _, row := range metadataRows(chunk) {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(45, 8, tr(row[0]), "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 8, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	// Content pages.
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(4, 138, 129)
	doc.CellFormat(0, 10, tr(chunk.Title), "", 1, "L", false, 0, "")
	doc.Ln(4)

	for _, sec := range buildSections(chunk) {
		// Cancellation is checked between sections: a chunk already being
		// composed finishes its current block.
		if err := ctx.Err(); err != nil {
			return err
		}
		doc.SetFont("Helvetica", "B", 11)
		doc.SetTextColor(231, 76, 60)
		doc.CellFormat(0, 7, tr(sec.Heading), "", 1, "L", false, 0, "")
		doc.SetFont("Courier", "", 9)
		doc.SetTextColor(44, 62, 80)
		doc.MultiCell(0, 4.5, tr(sec.Body), "", "L", false)
		doc.Ln(3)
	}

	// Footer line.
	doc.Ln(8)
	doc.SetFont("Helvetica", "I", 9)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Chunk %d of %d | %s", chunk.Index+1, chunk.TotalChunks, chunk.Hash)), "", 1, "C", false, 0, "")

	if doc.Err() {
		return fmt.Errorf("compose pdf: %w", doc.Error())
	}

	tmp := destPath + ".tmp"
	if err := doc.OutputFileAndClose(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := writeAtomic(tmp, destPath); err != nil {
		return err
	}

	if r.Verify {
		return VerifyPDF(destPath)
	}
	return nil
}
