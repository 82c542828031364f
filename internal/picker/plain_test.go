package picker

import (
	"strings"
	"testing"
)

func TestRunPlainSelect(t *testing.T) {
	var out strings.Builder
	r, err := RunPlain(testCandidates, Options{}, strings.NewReader("2\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Outcome != OutcomeSelected || r.Index != 1 || r.Message != "Implement foo()" {
		t.Errorf("got %+v", r)
	}
	if !strings.Contains(out.String(), "1. Add foo function") {
		t.Error("candidates should be listed with numbers")
	}
}

func TestRunPlainRegenerate(t *testing.T) {
	var out strings.Builder
	r, err := RunPlain(testCandidates, Options{}, strings.NewReader("r\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Outcome != OutcomeRegenerate {
		t.Errorf("outcome = %v, want Regenerate", r.Outcome)
	}
}

func TestRunPlainCancel(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"explicit q", "q\n"},
		{"blank line", "\n"},
		{"EOF", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			r, err := RunPlain(testCandidates, Options{}, strings.NewReader(tt.input), &out)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Outcome != OutcomeCancelled {
				t.Errorf("outcome = %v, want Cancelled", r.Outcome)
			}
		})
	}
}

func TestRunPlainRepromptsOnInvalid(t *testing.T) {
	var out strings.Builder
	r, err := RunPlain(testCandidates, Options{}, strings.NewReader("7\nx\n1\n"), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Outcome != OutcomeSelected || r.Index != 0 {
		t.Errorf("got %+v", r)
	}
	if !strings.Contains(out.String(), "Invalid selection") {
		t.Error("invalid input should be called out")
	}
}
