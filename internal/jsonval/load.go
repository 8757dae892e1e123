package jsonval

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// LoadError means the input could not be parsed, even after the repair
// chain ran. Err is the original parser error.
type LoadError struct {
	Err             error
	RepairAttempted bool
}

func (e *LoadError) Error() string {
	if e.RepairAttempted {
		return fmt.Sprintf("invalid JSON (repair attempted): %v", e.Err)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and parses a JSON file, repairing it once if the strict parse
// fails. Read failures surface as wrapped I/O errors; parse failures as
// *LoadError.
func Load(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ParseOrRepair(string(data))
}

// ParseOrRepair parses text strictly, and on failure applies the repair
// chain and re-parses exactly once.
func ParseOrRepair(text string) (*Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &LoadError{Err: errors.New("input is empty")}
	}

	v, err := Parse(text)
	if err == nil {
		return v, nil
	}

	repaired, changed := Repair(text)
	if changed {
		if v, repErr := Parse(repaired); repErr == nil {
			return v, nil
		}
	}
	return nil, &LoadError{Err: err, RepairAttempted: changed}
}
