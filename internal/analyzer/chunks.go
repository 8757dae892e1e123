package analyzer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/dgallion1/shardpdf/internal/jsonval"
)

// Range is a half-open item interval [Start, End) into the source document.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Chunk describes one renderable slice of the source document. The payload
// keeps the source container kind and iteration order, so a chunk renders
// without needing the whole document.
type Chunk struct {
	Index       int            `json:"index"`
	TotalChunks int            `json:"total_chunks"`
	ItemRange   *Range         `json:"item_range,omitempty"`
	Payload     *jsonval.Value `json:"-"`
	SourceType  StructureType  `json:"source_type"`
	Title       string         `json:"title"`
	Hash        string         `json:"hash"`
}

// CreateChunks partitions a document into at most numChunks descriptors.
//
// A primitive or empty document always yields exactly one chunk. Otherwise
// the effective chunk count is min(numChunks, totalItems) and items are
// spread as evenly as possible: the first totalItems%effective chunks get
// one extra item, so sizes differ by at most 1 and source order is kept.
func CreateChunks(v *jsonval.Value, numChunks int) ([]Chunk, error) {
	an, err := Analyze(v) // also runs the cycle guard
	if err != nil {
		return nil, err
	}

	if numChunks <= 0 {
		numChunks = 1
	}

	if an.StructureType == StructurePrimitive || v.Len() == 0 {
		return []Chunk{{
			Index:       0,
			TotalChunks: 1,
			Payload:     v,
			SourceType:  an.StructureType,
			Title:       wholeDocTitle(an.StructureType),
			Hash:        payloadHash(v),
		}}, nil
	}

	total := an.TotalItems
	effective := numChunks
	if effective > total {
		effective = total
	}
	base := total / effective
	remainder := total % effective

	chunks := make([]Chunk, 0, effective)
	start := 0
	for i := 0; i < effective; i++ {
		size := base
		if i < remainder {
			size++
		}
		end := start + size
		payload := v.Slice(start, end)
		chunks = append(chunks, Chunk{
			Index:       i,
			TotalChunks: effective,
			ItemRange:   &Range{Start: start, End: end},
			Payload:     payload,
			SourceType:  an.StructureType,
			Title:       rangeTitle(an.StructureType, start, end, total),
			Hash:        payloadHash(payload),
		})
		start = end
	}
	return chunks, nil
}

func wholeDocTitle(st StructureType) string {
	if st == StructurePrimitive {
		return "Complete document"
	}
	return fmt.Sprintf("Empty %s", st)
}

func rangeTitle(st StructureType, start, end, total int) string {
	noun := "Items"
	if st == StructureObject {
		noun = "Keys"
	}
	return fmt.Sprintf("%s %d to %d of %d", noun, start+1, end, total)
}

// payloadHash is a short hex digest of the chunk's canonical JSON, carried
// as provenance metadata on the descriptor and in the rendered header.
func payloadHash(v *jsonval.Value) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:4])
}
