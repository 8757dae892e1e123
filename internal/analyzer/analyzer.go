package analyzer

import (
	"encoding/json"

	"github.com/dgallion1/shardpdf/internal/jsonval"
)

// StructureType classifies the root of a parsed document.
type StructureType string

const (
	StructureArray     StructureType = "array"
	StructureObject    StructureType = "object"
	StructurePrimitive StructureType = "primitive"
)

// Analysis is the result of inspecting a document before chunking.
type Analysis struct {
	StructureType StructureType
	TotalItems    int
	Complexity    float64
}

// AnalysisError reports an unrecoverable traversal failure, such as a cycle
// among injected values.
type AnalysisError struct {
	Reason string
}

func (e *AnalysisError) Error() string { return "analysis: " + e.Reason }

// StructureOf maps a value's kind to its structure type.
func StructureOf(v *jsonval.Value) StructureType {
	switch v.Kind() {
	case jsonval.KindArray:
		return StructureArray
	case jsonval.KindObject:
		return StructureObject
	default:
		return StructurePrimitive
	}
}

// Analyze classifies a document and computes its item count and complexity
// score. The score is informational: per-node base cost, amplified by
// nesting depth and by how many distinct value types appear at each level.
func Analyze(v *jsonval.Value) (Analysis, error) {
	score, err := complexity(v, 0, make(map[*jsonval.Value]struct{}))
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		StructureType: StructureOf(v),
		TotalItems:    totalItems(v),
		Complexity:    score,
	}, nil
}

// totalItems is the element count for arrays, key count for objects, and 1
// for primitives.
func totalItems(v *jsonval.Value) int {
	if v.Kind() == jsonval.KindScalar {
		return 1
	}
	return v.Len()
}

// complexity scores a node recursively. A scalar costs 1. A container costs
// the sum of its children at depth+1, scaled by (1 + 0.1*depth) and by
// (1 + 0.05*distinct child types). An empty container therefore scores 0.
// The visited set guards against cycles on the current traversal path.
func complexity(v *jsonval.Value, depth int, visited map[*jsonval.Value]struct{}) (float64, error) {
	if v.Kind() == jsonval.KindScalar {
		return 1, nil
	}

	if _, onPath := visited[v]; onPath {
		return 0, &AnalysisError{Reason: "cycle detected during traversal"}
	}
	visited[v] = struct{}{}
	defer delete(visited, v)

	sum := 0.0
	types := make(map[string]struct{})
	for i := 0; i < v.Len(); i++ {
		var child *jsonval.Value
		if v.Kind() == jsonval.KindArray {
			child = v.At(i)
		} else {
			child = v.Field(v.KeyAt(i))
		}
		types[typeName(child)] = struct{}{}
		childScore, err := complexity(child, depth+1, visited)
		if err != nil {
			return 0, err
		}
		sum += childScore
	}

	return sum * (1 + 0.1*float64(depth)) * (1 + 0.05*float64(len(types))), nil
}

// typeName names a child's value type for the heterogeneity count.
func typeName(v *jsonval.Value) string {
	switch v.Kind() {
	case jsonval.KindArray:
		return "array"
	case jsonval.KindObject:
		return "object"
	}
	switch v.Scalar().(type) {
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	default:
		return "null"
	}
}
