package render

import (
	"fmt"
	"time"

	"github.com/dgallion1/shardpdf/internal/analyzer"
	"github.com/dgallion1/shardpdf/internal/jsonval"
)

// Formatting limits, kept conservative so a pathological item cannot blow
// up a single output document.
const (
	maxContainerChars = 2000
	maxScalarChars    = 1000
)

// section is one heading+body block of a report, shared by the PDF and
// DOCX renderers.
type section struct {
	Heading string
	Body    string
}

// metadataRows builds the header table shown on every report's title page.
func metadataRows(chunk analyzer.Chunk) [][2]string {
	rows := [][2]string{
		{"Chunk", fmt.Sprintf("%d of %d", chunk.Index+1, chunk.TotalChunks)},
		{"Source type", string(chunk.SourceType)},
		{"Content", chunk.Title},
	}
	if chunk.ItemRange != nil {
		rows = append(rows, [2]string{"Item range", fmt.Sprintf("[%d, %d)", chunk.ItemRange.Start, chunk.ItemRange.End)})
	}
	if chunk.Hash != "" {
		rows = append(rows, [2]string{"Content hash", chunk.Hash})
	}
	rows = append(rows, [2]string{"Generated", time.Now().Format("2006-01-02 15:04:05")})
	return rows
}

// buildSections flattens a chunk payload into heading+body blocks. Array
// items are numbered by their position in the source document, not within
// the chunk.
func buildSections(chunk analyzer.Chunk) []section {
	payload := chunk.Payload
	switch payload.Kind() {
	case jsonval.KindArray:
		offset := 0
		if chunk.ItemRange != nil {
			offset = chunk.ItemRange.Start
		}
		sections := make([]section, 0, payload.Len())
		for i := 0; i < payload.Len(); i++ {
			sections = append(sections, section{
				Heading: fmt.Sprintf("Item %d", offset+i+1),
				Body:    formatValue(payload.At(i)),
			})
		}
		return sections
	case jsonval.KindObject:
		sections := make([]section, 0, payload.Len())
		for i := 0; i < payload.Len(); i++ {
			key := payload.KeyAt(i)
			sections = append(sections, section{
				Heading: "Key: " + truncate(key, 100),
				Body:    formatValue(payload.Field(key)),
			})
		}
		return sections
	default:
		return []section{{
			Heading: "Value",
			Body:    formatValue(payload),
		}}
	}
}

// formatValue pretty-prints a value for report content, bounded in size.
func formatValue(v *jsonval.Value) string {
	if v.Kind() == jsonval.KindScalar {
		return truncate(fmt.Sprintf("%v", v.Scalar()), maxScalarChars)
	}
	pretty, err := v.Indent()
	if err != nil {
		return fmt.Sprintf("error formatting value: %v", err)
	}
	return truncate(pretty, maxContainerChars)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
