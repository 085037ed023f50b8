package llm

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"custom", ModeCustom, true},
		{"", ModeCustom, true},
		{"issue-triage", ModeIssueTriage, true},
		{"ISSUE_TRIAGE", ModeIssueTriage, true},
		{"triage", ModeIssueTriage, true},
		{"summarize-everything", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseMode(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestBuildPromptCustom(t *testing.T) {
	got := BuildPrompt(ModeCustom, "Summarize this", "some payload")
	if got != "Summarize this\n\nsome payload" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestBuildPromptCustomWithoutInstruction(t *testing.T) {
	if got := BuildPrompt(ModeCustom, "   ", "payload only"); got != "payload only" {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func TestBuildPromptTriage(t *testing.T) {
	rows := `[{"Title":"battery drains"}]`
	got := BuildPrompt(ModeIssueTriage, "ignored", rows)

	if !strings.HasSuffix(got, rows) {
		t.Fatal("rows JSON must be the final segment of the prompt")
	}
	for _, required := range []string{
		`"Module", "Summarized Problem", "Severity", "Severity Reason"`,
		`"Critical"`,
		`"High"`,
		`"Medium"`,
		`"Low"`,
		"ONLY a JSON array",
		"preserving the input order",
	} {
		if !strings.Contains(got, required) {
			t.Errorf("prompt missing %q", required)
		}
	}
	if strings.Contains(got, "ignored") {
		t.Error("triage mode must not include the custom instruction")
	}
}
