package jsonval

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeTemp(t, `{"a": 1, "b": [true, null]}`)
	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v.Kind() != KindObject {
		t.Errorf("expected object, got %v", v.Kind())
	}
	if v.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", v.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		t.Error("missing file should be an I/O error, not a LoadError")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTemp(t, "  \n ")
	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoad_MalformedButRepairable(t *testing.T) {
	path := writeTemp(t, `{'users': ['alice', 'bob',], 'active': True,}`)
	v, err := Load(path)
	if err != nil {
		t.Fatalf("expected repair to succeed, got %v", err)
	}
	users := v.Field("users")
	if users == nil || users.Len() != 2 {
		t.Fatalf("unexpected repaired value: %+v", v)
	}
	if active := v.Field("active"); active.Scalar() != true {
		t.Errorf("expected active=true, got %v", active.Scalar())
	}
}

func TestLoad_StructurallyBroken(t *testing.T) {
	path := writeTemp(t, `{"a": [1, 2`)
	_, err := Load(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if loadErr.Err == nil {
		t.Error("LoadError should carry the original parser error")
	}
}

func TestParseOrRepair_UnrepairedFlagFalse(t *testing.T) {
	// Nothing in the repair chain applies, so RepairAttempted stays false.
	_, err := ParseOrRepair(`{"a": [1, 2`)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if loadErr.RepairAttempted {
		t.Error("no repair applied, flag should be false")
	}
}

func TestParseOrRepair_RepairedFlagTrueWhenStillBroken(t *testing.T) {
	_, err := ParseOrRepair(`{'a': [1, 2`)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !loadErr.RepairAttempted {
		t.Error("repair changed the text, flag should be true")
	}
}
