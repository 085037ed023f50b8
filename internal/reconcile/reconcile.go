package reconcile

import "triage-backend/internal/tabular"

// Policy selects how AI records are merged back onto source rows.
type Policy string

const (
	// Overlay keeps every original row and copies the AI fields onto it by
	// position, defaulting to empty strings where the AI record is missing
	// or incomplete.
	Overlay Policy = "overlay"
	// Replace trusts the AI records to be complete rows, originals included,
	// and returns them verbatim. Record count is not validated against the
	// input; that risk is accepted.
	Replace Policy = "replace"
)

// Canonical output column names produced by the triage prompt.
const (
	ColModule         = "Module"
	ColSummary        = "Summarized Problem"
	ColSeverity       = "Severity"
	ColSeverityReason = "Severity Reason"
)

// aiFields maps each canonical column to the aliases models actually emit.
// Spacing and casing drift between runs, so lookups try each in order.
var aiFields = []struct {
	canonical string
	aliases   []string
}{
	{ColModule, []string{"Module", "module", "Category", "category"}},
	{ColSummary, []string{"Summarized Problem", "SummarizedProblem", "summarized_problem", "Summary", "summary"}},
	{ColSeverity, []string{"Severity", "severity"}},
	{ColSeverityReason, []string{"Severity Reason", "SeverityReason", "severity_reason", "Severity Rationale", "Reason", "reason"}},
}

// Rows merges aiRecords onto originals under the given policy. Both policies
// are pure: inputs are never mutated.
func Rows(originals, aiRecords []*tabular.Row, policy Policy) []*tabular.Row {
	if policy == Replace {
		out := make([]*tabular.Row, len(aiRecords))
		for i, rec := range aiRecords {
			out[i] = rec.Clone()
		}
		return out
	}
	return overlay(originals, aiRecords)
}

func overlay(originals, aiRecords []*tabular.Row) []*tabular.Row {
	out := make([]*tabular.Row, len(originals))
	for i, orig := range originals {
		merged := orig.Clone()
		var rec *tabular.Row
		if i < len(aiRecords) {
			rec = aiRecords[i]
		}
		for _, field := range aiFields {
			merged.Set(field.canonical, lookup(rec, field.aliases))
		}
		out[i] = merged
	}
	return out
}

func lookup(rec *tabular.Row, aliases []string) string {
	if rec == nil {
		return ""
	}
	for _, alias := range aliases {
		if v, ok := rec.Get(alias); ok {
			return v
		}
	}
	return ""
}
