package jsonval

import (
	"encoding/json"
	"testing"
)

func TestParse_ObjectKeyOrderPreserved(t *testing.T) {
	v, err := Parse(`{"zebra": 1, "apple": 2, "mango": 3}`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"zebra", "apple", "mango"}
	for i, key := range want {
		if got := v.KeyAt(i); got != key {
			t.Errorf("key %d: expected %q, got %q", i, key, got)
		}
	}
}

func TestParse_TrailingContentRejected(t *testing.T) {
	if _, err := Parse(`{"a": 1} {"b": 2}`); err == nil {
		t.Fatal("expected error for trailing content")
	}
}

func TestParse_Scalars(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{`"hello"`, "hello"},
		{`42`, json.Number("42")},
		{`true`, true},
		{`null`, nil},
	}
	for _, tc := range cases {
		v, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%s): %v", tc.in, err)
		}
		if v.Kind() != KindScalar {
			t.Errorf("Parse(%s): expected scalar", tc.in)
		}
		if v.Scalar() != tc.want {
			t.Errorf("Parse(%s): expected %v, got %v", tc.in, tc.want, v.Scalar())
		}
	}
}

func TestMarshalJSON_RoundTripsKeyOrder(t *testing.T) {
	in := `{"z":1,"a":{"m":[1,2,3],"b":null},"k":"v"}`
	v, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != in {
		t.Errorf("round trip changed document:\n in: %s\nout: %s", in, out)
	}
}

func TestMarshalJSON_NumberFormatPreserved(t *testing.T) {
	v, err := Parse(`[1.50, 1e10, 7]`)
	if err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `[1.50,1e10,7]` {
		t.Errorf("number literals rewritten: %s", out)
	}
}

func TestSlice_Object(t *testing.T) {
	v, err := Parse(`{"a":1,"b":2,"c":3,"d":4}`)
	if err != nil {
		t.Fatal(err)
	}
	sub := v.Slice(1, 3)
	if sub.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", sub.Len())
	}
	if sub.KeyAt(0) != "b" || sub.KeyAt(1) != "c" {
		t.Errorf("unexpected keys: %q, %q", sub.KeyAt(0), sub.KeyAt(1))
	}
}

func TestSlice_Array(t *testing.T) {
	v, err := Parse(`[10, 20, 30, 40, 50]`)
	if err != nil {
		t.Fatal(err)
	}
	sub := v.Slice(2, 5)
	if sub.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", sub.Len())
	}
	if sub.At(0).Scalar() != json.Number("30") {
		t.Errorf("unexpected first element: %v", sub.At(0).Scalar())
	}
}
