package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"triage-backend/internal/tabular"
)

// OutputSheetName labels the single sheet written by Encode.
const OutputSheetName = "Results"

// ErrNoSheets means the workbook contains no sheets at all.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrNoHeader means the first sheet has no header row.
var ErrNoHeader = errors.New("first sheet has no header row")

// Decode reads the first sheet of a workbook into rows. The header row
// defines column names; blank cells decode to empty strings so downstream
// string handling never sees an absent value.
func Decode(r io.Reader) ([]*tabular.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, ErrNoHeader
	}

	header := cells[0]
	rows := make([]*tabular.Row, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := tabular.NewRow()
		for i, name := range header {
			if name == "" {
				continue
			}
			val := ""
			if i < len(line) {
				val = line[i]
			}
			row.Set(name, val)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Encode writes rows to a single-sheet workbook. Column order is the union
// of row keys in first-seen order, so AI-derived columns land after the
// source columns.
func Encode(rows []*tabular.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", OutputSheetName)

	columns := unionColumns(rows)
	for i, name := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(OutputSheetName, cell, name); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		_ = f.SetRowStyle(OutputSheetName, 1, 1, headerStyle)
	}

	for r, row := range rows {
		for c, name := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(OutputSheetName, cell, row.Value(name)); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func unionColumns(rows []*tabular.Row) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		for _, k := range row.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}
