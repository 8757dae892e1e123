package jsonval

import "testing"

func TestRepair_SingleQuotes(t *testing.T) {
	in := `{'name': 'value', 'n': 1}`
	out, changed := Repair(in)
	if !changed {
		t.Fatal("expected repair to change input")
	}
	if out != `{"name": "value", "n": 1}` {
		t.Errorf("unexpected repair output: %s", out)
	}
}

func TestRepair_BarewordTokens(t *testing.T) {
	in := `{"a": True, "b": False, "c": None}`
	out, changed := Repair(in)
	if !changed {
		t.Fatal("expected repair to change input")
	}
	if out != `{"a": true, "b": false, "c": null}` {
		t.Errorf("unexpected repair output: %s", out)
	}
}

func TestRepair_BarewordInsideStringUntouched(t *testing.T) {
	in := `{"note": "True story", "flag": True}`
	out, _ := Repair(in)
	if out != `{"note": "True story", "flag": true}` {
		t.Errorf("string content was rewritten: %s", out)
	}
}

func TestRepair_TrailingCommas(t *testing.T) {
	in := `{"a": [1, 2, 3,], "b": {"x": 1,},}`
	out, changed := Repair(in)
	if !changed {
		t.Fatal("expected repair to change input")
	}
	if out != `{"a": [1, 2, 3], "b": {"x": 1}}` {
		t.Errorf("unexpected repair output: %s", out)
	}
}

func TestRepair_CombinedMalformations(t *testing.T) {
	in := `{'items': [True, None,], 'name': 'x',}`
	out, changed := Repair(in)
	if !changed {
		t.Fatal("expected repair to change input")
	}
	if _, err := Parse(out); err != nil {
		t.Fatalf("repaired text still unparseable: %v\n%s", err, out)
	}
}

func TestRepair_EmbeddedDoubleQuoteInSingleString(t *testing.T) {
	in := `{'quote': 'say "hi"'}`
	out, _ := Repair(in)
	if out != `{"quote": "say \"hi\""}` {
		t.Errorf("unexpected repair output: %s", out)
	}
	if _, err := Parse(out); err != nil {
		t.Fatalf("repaired text unparseable: %v", err)
	}
}

func TestRepair_ValidInputUnchanged(t *testing.T) {
	in := `{"a": [1, 2], "b": "x, y,"}`
	out, changed := Repair(in)
	if changed {
		t.Errorf("valid input was modified: %s", out)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	in := `{'a': True,}`
	once, _ := Repair(in)
	twice, changed := Repair(once)
	if changed {
		t.Errorf("second repair pass changed output: %s -> %s", once, twice)
	}
}
