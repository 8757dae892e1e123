package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/shardpdf/internal/analyzer"
	"github.com/dgallion1/shardpdf/internal/jsonval"
)

func TestBuildSections_ArrayNumbersFromSourceOffset(t *testing.T) {
	payload := jsonval.NewArray(
		jsonval.NewScalar("a"),
		jsonval.NewScalar("b"),
	)
	chunk := analyzer.Chunk{
		Index:       1,
		TotalChunks: 3,
		ItemRange:   &analyzer.Range{Start: 4, End: 6},
		Payload:     payload,
		SourceType:  analyzer.StructureArray,
	}

	sections := buildSections(chunk)
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Heading != "Item 5" {
		t.Errorf("first heading = %q, want %q", sections[0].Heading, "Item 5")
	}
	if sections[1].Heading != "Item 6" {
		t.Errorf("second heading = %q, want %q", sections[1].Heading, "Item 6")
	}
	if sections[0].Body != "a" {
		t.Errorf("body = %q, want %q", sections[0].Body, "a")
	}
}

func TestBuildSections_ObjectKeysInOrder(t *testing.T) {
	payload := jsonval.NewObject()
	payload.Set("zeta", jsonval.NewScalar(1))
	payload.Set("alpha", jsonval.NewScalar(2))

	sections := buildSections(analyzer.Chunk{Payload: payload, SourceType: analyzer.StructureObject})
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Heading != "Key: zeta" || sections[1].Heading != "Key: alpha" {
		t.Errorf("headings out of source order: %q, %q", sections[0].Heading, sections[1].Heading)
	}
}

func TestBuildSections_Primitive(t *testing.T) {
	sections := buildSections(analyzer.Chunk{
		Payload:    jsonval.NewScalar(42),
		SourceType: analyzer.StructurePrimitive,
	})
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Heading != "Value" {
		t.Errorf("heading = %q, want %q", sections[0].Heading, "Value")
	}
	if sections[0].Body != "42" {
		t.Errorf("body = %q, want %q", sections[0].Body, "42")
	}
}

func TestFormatValue_ContainerIsIndented(t *testing.T) {
	v := jsonval.NewObject()
	v.Set("name", jsonval.NewScalar("ada"))

	got := formatValue(v)
	if !strings.Contains(got, "\"name\"") || !strings.Contains(got, "\n") {
		t.Errorf("expected pretty-printed JSON, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxScalarChars+50)
	got := truncate(long, maxScalarChars)
	if !strings.HasSuffix(got, "... (truncated)") {
		t.Errorf("expected truncation marker, got tail %q", got[len(got)-30:])
	}
	if len(got) >= len(long) {
		t.Errorf("truncate did not shorten the value")
	}

	if truncate("short", 100) != "short" {
		t.Errorf("short values must pass through unchanged")
	}
}

func TestMetadataRows(t *testing.T) {
	chunk := analyzer.Chunk{
		Index:       0,
		TotalChunks: 4,
		ItemRange:   &analyzer.Range{Start: 0, End: 25},
		SourceType:  analyzer.StructureArray,
		Title:       "Items 1 to 25 of 100",
		Hash:        "deadbeef",
	}

	rows := metadataRows(chunk)
	want := map[string]string{
		"Chunk":        "1 of 4",
		"Source type":  "array",
		"Content":      "Items 1 to 25 of 100",
		"Item range":   "[0, 25)",
		"Content hash": "deadbeef",
	}
	seen := map[string]string{}
	for _, row := range rows {
		seen[row[0]] = row[1]
	}
	for label, value := range want {
		if seen[label] != value {
			t.Errorf("row %q = %q, want %q", label, seen[label], value)
		}
	}
	if _, ok := seen["Generated"]; !ok {
		t.Errorf("missing Generated row")
	}
}

func TestMetadataRows_PrimitiveOmitsRange(t *testing.T) {
	rows := metadataRows(analyzer.Chunk{Index: 0, TotalChunks: 1, SourceType: analyzer.StructurePrimitive})
	for _, row := range rows {
		if row[0] == "Item range" || row[0] == "Content hash" {
			t.Errorf("unexpected row %q for primitive chunk", row[0])
		}
	}
}
