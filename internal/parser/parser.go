// Package parser extracts candidate commit messages from raw model output.
//
// Format compliance from a generative model is probabilistic: the prompt
// asks for plain one-per-line messages, but models still add numbering,
// bullets, quotes, fences, or a chatty preamble. The parser scrubs all of
// that and tolerates getting back fewer messages than requested — a short
// list is degraded but usable, an empty one is not.
package parser

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoCandidates means no usable message survived filtering.
var ErrNoCandidates = errors.New("no usable commit messages in model response")

// Candidate is a single proposed commit message.
type Candidate struct {
	Text  string
	Index int
}

var (
	enumPrefix   = regexp.MustCompile(`^\d+[.)]\s*`)
	bulletPrefix = regexp.MustCompile(`^[-*•]\s+`)
)

// Parse extracts up to count distinct candidates from raw, each trimmed
// and truncated to maxChars characters. Order is first-seen. Already
// clean input passes through unchanged.
func Parse(raw string, count, maxChars int) ([]Candidate, error) {
	seen := make(map[string]struct{})
	var out []Candidate

	for _, line := range strings.Split(raw, "\n") {
		line = scrub(line)
		if line == "" {
			continue
		}
		line = truncateRunes(line, maxChars)
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, Candidate{Text: line, Index: len(out)})
		if count > 0 && len(out) == count {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrNoCandidates
	}
	return out, nil
}

// Texts returns just the message strings, in order.
func Texts(cands []Candidate) []string {
	texts := make([]string, len(cands))
	for i, c := range cands {
		texts[i] = c.Text
	}
	return texts
}

// scrub normalizes one output line, returning "" for lines that are
// structural artifacts rather than messages.
func scrub(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "```") {
		return ""
	}
	if isInstructionEcho(line) {
		return ""
	}
	line = enumPrefix.ReplaceAllString(line, "")
	line = bulletPrefix.ReplaceAllString(line, "")
	line = stripQuotes(line)
	return strings.TrimSpace(line)
}

// isInstructionEcho detects preamble like "Here are three commit messages:".
func isInstructionEcho(line string) bool {
	if !strings.HasSuffix(line, ":") {
		return false
	}
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "here") || strings.Contains(lower, "commit message")
}

// stripQuotes removes one matching pair of surrounding quotes or backticks.
func stripQuotes(line string) string {
	if len(line) < 2 {
		return line
	}
	first, last := line[0], line[len(line)-1]
	if first != last {
		return line
	}
	switch first {
	case '\'', '"', '`':
		return line[1 : len(line)-1]
	}
	return line
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}
