package sheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"triage-backend/internal/tabular"
)

func buildWorkbook(t *testing.T, sheets []string, rowsBySheet map[string][][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range sheets {
		if i == 0 {
			f.SetSheetName("Sheet1", name)
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, line := range rowsBySheet[name] {
			for c, val := range line {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(name, cell, val); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFirstSheetOnly(t *testing.T) {
	data := buildWorkbook(t, []string{"Issues", "Scratch"}, map[string][][]string{
		"Issues": {
			{"Title", "Problem"},
			{"battery drains", "loses 20% per hour"},
			{"screen flickers", ""},
		},
		"Scratch": {
			{"Other"},
			{"ignored"},
		},
	})

	rows, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Value("Title") != "battery drains" {
		t.Fatalf("row 0 Title = %q", rows[0].Value("Title"))
	}
	if v, ok := rows[1].Get("Problem"); !ok || v != "" {
		t.Fatalf("blank cell should decode to empty string, got %q (present=%v)", v, ok)
	}
}

func TestDecodeEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	if _, err := Decode(bytes.NewReader(buf.Bytes())); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	row1 := tabular.NewRow()
	row1.Set("Title", "t1")
	row1.Set("Problem", "p1")
	row1.Set("Module", "Battery")
	row2 := tabular.NewRow()
	row2.Set("Title", "t2")
	row2.Set("Problem", "")
	row2.Set("Module", "UI")

	data, err := Encode([]*tabular.Row{row1, row2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 rows after round trip, got %d", len(decoded))
	}
	keys := decoded[0].Keys()
	want := []string{"Title", "Problem", "Module"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("column %d = %q, want %q", i, keys[i], k)
		}
	}
	if decoded[1].Value("Module") != "UI" {
		t.Fatalf("row 1 Module = %q", decoded[1].Value("Module"))
	}
}

func TestEncodeColumnUnionFirstSeenOrder(t *testing.T) {
	row1 := tabular.NewRow()
	row1.Set("A", "1")
	row2 := tabular.NewRow()
	row2.Set("A", "2")
	row2.Set("B", "3")

	data, err := Encode([]*tabular.Row{row1, row2})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, ok := decoded[0].Get("B"); !ok || v != "" {
		t.Fatalf("row without B should still carry empty B column, got %q (present=%v)", v, ok)
	}
}
