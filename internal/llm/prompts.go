package llm

import "strings"

// Mode selects the prompt template and downstream reconciliation policy.
type Mode string

const (
	// ModeCustom concatenates the caller's instruction with the payload.
	ModeCustom Mode = "custom"
	// ModeIssueTriage is the structured-extraction workflow for issue sheets.
	ModeIssueTriage Mode = "issue-triage"
)

// ParseMode normalizes a processingType value from the API.
func ParseMode(raw string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "custom":
		return ModeCustom, true
	case "issue-triage", "issue_triage", "triage":
		return ModeIssueTriage, true
	default:
		return "", false
	}
}

// triageInstruction is the fixed instruction block for issue triage. It works
// to maximize the odds of a bare-JSON reply; the extractor still has to
// defend against models that ignore the final constraint.
const triageInstruction = `You are triaging customer-reported product issues from a spreadsheet.

For every input row, produce one JSON object with exactly these keys in this order: "Module", "Summarized Problem", "Severity", "Severity Reason".

Field rules:
- "Module": the product area the issue belongs to, for example Battery, Display, Network, Camera, Audio, System.
- "Summarized Problem": combine the row's title and problem description into one clean English sentence. Remove bracketed annotation tags such as [CN] or [dup]. Translate any non-English fragments into English. When the title and description say the same thing, do not repeat the wording twice.
- "Severity": exactly one of the following labels.
  - "Critical": the device or a core function is unusable, or user data is lost.
  - "High": a major feature fails or degrades badly in everyday use.
  - "Medium": a feature misbehaves but a workaround exists.
  - "Low": cosmetic issues or minor annoyances with no functional impact.
- "Severity Reason": one short sentence justifying the chosen severity in terms of user impact.

Reply with ONLY a JSON array containing one object per input row, preserving the input order. Do not add any explanation, markdown fences, or other text before or after the array.

Input rows:`

// BuildPrompt renders the prompt for the given mode. For tabular requests
// the payload is the pretty-printed JSON array of source rows.
func BuildPrompt(mode Mode, customInstruction, payload string) string {
	switch mode {
	case ModeIssueTriage:
		return triageInstruction + "\n" + payload
	default:
		instruction := strings.TrimSpace(customInstruction)
		if instruction == "" {
			return payload
		}
		return instruction + "\n\n" + payload
	}
}
