package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is an insertion-ordered mapping from column name to string value.
// Row order across a sheet and column order within a row are both
// significant for output, so a plain map is not enough.
type Row struct {
	keys []string
	vals map[string]string
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{vals: make(map[string]string)}
}

// Set stores a value, appending the key to the column order if new.
func (r *Row) Set(key, val string) {
	if r.vals == nil {
		r.vals = make(map[string]string)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = val
}

// Get returns the value and whether the key is present.
func (r *Row) Get(key string) (string, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Value returns the value for key, empty string when absent.
func (r *Row) Value(key string) string {
	return r.vals[key]
}

// Keys returns the column names in insertion order.
func (r *Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.keys)
}

// Clone returns an independent copy of the row.
func (r *Row) Clone() *Row {
	out := NewRow()
	for _, k := range r.keys {
		out.Set(k, r.vals[k])
	}
	return out
}

// MarshalJSON renders the row as a JSON object in column order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object preserving key order. Scalar values are
// coerced to strings; nested values keep their raw JSON text.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return r.decodeObject(dec)
}

func (r *Row) decodeObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	r.keys = nil
	r.vals = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		r.Set(key, rawToString(raw))
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

func rawToString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	// numbers, booleans and nested values keep their JSON text
	return string(trimmed)
}

// DecodeArray parses a JSON array of objects into rows, preserving both
// element order and per-object key order.
func DecodeArray(data []byte) ([]*Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected JSON array, got %v", tok)
	}

	var rows []*Row
	for dec.More() {
		row := NewRow()
		if err := row.decodeObject(dec); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rows, nil
}

// MarshalRows renders rows as a pretty-printed JSON array, the form embedded
// into prompts.
func MarshalRows(rows []*Row) (string, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
