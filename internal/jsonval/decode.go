package jsonval

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Parse decodes a JSON text into a Value, strictly. Trailing content after
// the top-level value is rejected.
func Parse(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty JSON input")
		}
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing content after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			arr := NewArray()
			for dec.More() {
				el, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(el)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return NewScalar(t), nil
	}
}
