package extract

import (
	"errors"
	"testing"
)

func TestRecordsWithSurroundingProse(t *testing.T) {
	raw := "Sure, here is the result:\n" +
		`[{"Module":"Battery","Summarized Problem":"Battery drains rapidly, losing about 20% per hour.","Severity":"High"}]` +
		"\nLet me know if you need more."

	rows, err := Records(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	if rows[0].Value("Module") != "Battery" {
		t.Fatalf("unexpected Module %q", rows[0].Value("Module"))
	}
	if rows[0].Value("Severity") != "High" {
		t.Fatalf("unexpected Severity %q", rows[0].Value("Severity"))
	}
}

func TestRecordsBareArray(t *testing.T) {
	rows, err := Records(`[{"Module":"UI"},{"Module":"Network"}]`)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 records, got %d", len(rows))
	}
}

func TestRecordsNoArray(t *testing.T) {
	_, err := Records("I could not produce structured output, sorry.")
	if !errors.Is(err, ErrNoJSONArray) {
		t.Fatalf("expected ErrNoJSONArray, got %v", err)
	}
}

func TestRecordsCloseBeforeOpen(t *testing.T) {
	_, err := Records("] oops [")
	if !errors.Is(err, ErrNoJSONArray) {
		t.Fatalf("expected ErrNoJSONArray, got %v", err)
	}
}

func TestRecordsInvalidJSON(t *testing.T) {
	_, err := Records(`result: [{"Module": Battery}]`)
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestRecordsBracketsInsideStringValues(t *testing.T) {
	raw := `[{"Title":"[CN][dup] screen flickers","Note":"ref [42]"}]`
	rows, err := Records(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rows[0].Value("Title") != "[CN][dup] screen flickers" {
		t.Fatalf("unexpected Title %q", rows[0].Value("Title"))
	}
}

func TestRecordsEmptyArray(t *testing.T) {
	rows, err := Records("here you go: []")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no records, got %d", len(rows))
	}
}
