package extract

import (
	"errors"
	"fmt"
	"strings"

	"triage-backend/internal/shared/telemetry"
	"triage-backend/internal/tabular"
)

var (
	// ErrNoJSONArray means the reply carried no recognizable JSON array.
	ErrNoJSONArray = errors.New("no JSON array found in model reply")
	// ErrInvalidJSON means the bracketed slice did not parse.
	ErrInvalidJSON = errors.New("invalid JSON in model reply")
)

const logSnippetLimit = 2000

// Records recovers the JSON array embedded in a free-form model reply and
// parses it into ordered records.
//
// The array is located by slicing from the first '[' to the last ']'. This
// is a deliberate heuristic, not a balanced-bracket parse: it survives
// arbitrary prose before and after the array, but misfires if trailing prose
// itself contains a ']'. Prompts forbid surrounding prose, so in practice
// the last ']' is the array's own close.
func Records(rawText string) ([]*tabular.Row, error) {
	start := strings.Index(rawText, "[")
	end := strings.LastIndex(rawText, "]")
	if start < 0 || end < 0 || end < start {
		return nil, ErrNoJSONArray
	}

	slice := rawText[start : end+1]
	rows, err := tabular.DecodeArray([]byte(slice))
	if err != nil {
		// The offending slice stays server-side; callers get a generic error.
		telemetry.Error("extract.invalid_json", map[string]any{
			"err":     err.Error(),
			"snippet": truncate(slice, logSnippetLimit),
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return rows, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
