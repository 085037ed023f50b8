package tabular

import (
	"encoding/json"
	"testing"
)

func TestRowMarshalPreservesOrder(t *testing.T) {
	row := NewRow()
	row.Set("Title", "battery drains")
	row.Set("Problem", "loses 20% per hour")
	row.Set("Module", "Battery")

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Title":"battery drains","Problem":"loses 20% per hour","Module":"Battery"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestRowSetOverwriteKeepsPosition(t *testing.T) {
	row := NewRow()
	row.Set("A", "1")
	row.Set("B", "2")
	row.Set("A", "3")

	keys := row.Keys()
	if len(keys) != 2 || keys[0] != "A" || keys[1] != "B" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if row.Value("A") != "3" {
		t.Fatalf("expected overwrite, got %q", row.Value("A"))
	}
}

func TestDecodeArrayPreservesOrderAndCoercesScalars(t *testing.T) {
	data := []byte(`[{"Module":"Battery","Count":3,"Flag":true,"Note":null}]`)
	rows, err := DecodeArray(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	keys := row.Keys()
	wantKeys := []string{"Module", "Count", "Flag", "Note"}
	for i, k := range wantKeys {
		if keys[i] != k {
			t.Fatalf("key %d = %q, want %q", i, keys[i], k)
		}
	}
	if row.Value("Count") != "3" {
		t.Fatalf("expected number coerced to string, got %q", row.Value("Count"))
	}
	if row.Value("Flag") != "true" {
		t.Fatalf("expected bool coerced to string, got %q", row.Value("Flag"))
	}
	if row.Value("Note") != "" {
		t.Fatalf("expected null to decode as empty string, got %q", row.Value("Note"))
	}
}

func TestDecodeArrayRejectsNonArray(t *testing.T) {
	if _, err := DecodeArray([]byte(`{"a":1}`)); err == nil {
		t.Fatal("expected error for non-array input")
	}
}

func TestDecodeArrayBracketsInsideStrings(t *testing.T) {
	data := []byte(`[{"Title":"[tag][urgent] broken","Note":"see [1]"}]`)
	rows, err := DecodeArray(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rows[0].Value("Title") != "[tag][urgent] broken" {
		t.Fatalf("unexpected title %q", rows[0].Value("Title"))
	}
}

func TestMarshalRowsRoundTrip(t *testing.T) {
	row := NewRow()
	row.Set("A", "1")
	row.Set("B", "x")
	out, err := MarshalRows([]*Row{row})
	if err != nil {
		t.Fatalf("marshal rows: %v", err)
	}
	parsed, err := DecodeArray([]byte(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Value("B") != "x" {
		t.Fatalf("round trip mismatch: %v", parsed)
	}
}
