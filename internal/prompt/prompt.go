// Package prompt builds the bounded inference prompt sent to the backend.
package prompt

import (
	"fmt"
	"strings"

	"github.com/shiyuanpei/aicommit/internal/git"
)

// DefaultDiffLimit is the maximum number of diff bytes embedded in a
// prompt. Local models have small context windows; the earliest hunks
// are assumed to be the most relevant and survive truncation.
const DefaultDiffLimit = 5000

// Prompt is the composed text sent to the inference backend.
// Immutable once built.
type Prompt struct {
	Text          string
	Candidates    int
	MaxChars      int
	DiffTruncated bool
}

// Build composes the instruction header and the (possibly truncated)
// diff into a single prompt requesting candidates distinct single-line
// commit messages of at most maxChars characters each.
//
// The format instructions are load-bearing: the parser has no semantic
// understanding of model output and relies entirely on one-message-per-line.
func Build(cs git.ChangeSet, candidates, maxChars, diffLimit int) Prompt {
	if diffLimit <= 0 {
		diffLimit = DefaultDiffLimit
	}
	cs = cs.Truncate(diffLimit)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d distinct git commit messages describing the diff below.\n", candidates)
	b.WriteString("Each message must summarize the entire diff, not a single hunk.\n")
	fmt.Fprintf(&b, "Each message must be a single line of at most %d characters.\n", maxChars)
	b.WriteString("Write one message per line, with no numbering, no bullets, and no commentary.\n")
	if cs.Truncated {
		b.WriteString("The diff has been truncated; describe what is shown.\n")
	}
	b.WriteString("\nHere is the diff:\n\n")
	b.WriteString(cs.Raw)

	return Prompt{
		Text:          b.String(),
		Candidates:    candidates,
		MaxChars:      maxChars,
		DiffTruncated: cs.Truncated,
	}
}
