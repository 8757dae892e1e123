package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind classifies a Value as array, object, or scalar.
type Kind int

const (
	KindArray Kind = iota
	KindObject
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "scalar"
	}
}

// Value is a decoded JSON value. Objects keep their keys in source order,
// which encoding/json map decoding would lose.
type Value struct {
	kind   Kind
	elems  []*Value
	keys   []string
	fields map[string]*Value
	scalar any // string, json.Number, bool, or nil
}

// NewArray builds an array value from the given elements.
func NewArray(elems ...*Value) *Value {
	return &Value{kind: KindArray, elems: elems}
}

// NewObject builds an empty object value. Populate it with Set.
func NewObject() *Value {
	return &Value{kind: KindObject, fields: make(map[string]*Value)}
}

// NewScalar wraps a scalar. Accepted types are string, json.Number, bool,
// nil, and the numeric Go types (converted to json.Number).
func NewScalar(v any) *Value {
	switch n := v.(type) {
	case int:
		v = json.Number(fmt.Sprintf("%d", n))
	case int64:
		v = json.Number(fmt.Sprintf("%d", n))
	case float64:
		b, _ := json.Marshal(n)
		v = json.Number(b)
	}
	return &Value{kind: KindScalar, scalar: v}
}

// Kind returns the value's classification.
func (v *Value) Kind() Kind { return v.kind }

// Len returns the element count for arrays, the key count for objects,
// and 0 for scalars.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// At returns the i-th array element.
func (v *Value) At(i int) *Value { return v.elems[i] }

// KeyAt returns the i-th object key in source order.
func (v *Value) KeyAt(i int) string { return v.keys[i] }

// Field returns the object value for key, or nil.
func (v *Value) Field(key string) *Value { return v.fields[key] }

// Scalar returns the underlying scalar value.
func (v *Value) Scalar() any { return v.scalar }

// Set appends or replaces an object field, preserving first-seen key order.
func (v *Value) Set(key string, val *Value) {
	if v.fields == nil {
		v.fields = make(map[string]*Value)
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = val
}

// Append adds an element to an array value.
func (v *Value) Append(elems ...*Value) {
	v.elems = append(v.elems, elems...)
}

// Slice returns a new container of the same kind holding items [start, end)
// in original order. Calling it on a scalar returns the scalar itself.
func (v *Value) Slice(start, end int) *Value {
	switch v.kind {
	case KindArray:
		out := NewArray()
		out.elems = append(out.elems, v.elems[start:end]...)
		return out
	case KindObject:
		out := NewObject()
		for _, key := range v.keys[start:end] {
			out.Set(key, v.fields[key])
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the value with object keys in source order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindArray:
		buf.WriteByte('[')
		for i, el := range v.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := el.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := v.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		sb, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}
		buf.Write(sb)
	}
	return nil
}

// Indent returns the value pretty-printed with two-space indentation.
func (v *Value) Indent() (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
