// Package pipeline orchestrates one aicommit run: capture the pending
// diff, build a prompt, generate candidates, let the user pick, commit.
// Strictly sequential; every stage fails fast and nothing downstream of
// a failed stage executes.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shiyuanpei/aicommit/internal/backend"
	"github.com/shiyuanpei/aicommit/internal/git"
	"github.com/shiyuanpei/aicommit/internal/metrics"
	"github.com/shiyuanpei/aicommit/internal/parser"
	"github.com/shiyuanpei/aicommit/internal/picker"
	"github.com/shiyuanpei/aicommit/internal/prompt"
)

// ErrCancelled is the terminal outcome when the user declines every
// candidate. It is not a failure: no error text is printed for it and
// it maps to its own exit code.
var ErrCancelled = errors.New("selection cancelled")

// DiffSource captures the pending change set.
type DiffSource interface {
	Diff(ctx context.Context) (git.ChangeSet, error)
}

// Committer creates the commit with the chosen message.
type Committer interface {
	Commit(ctx context.Context, message string) (string, error)
}

// Selector presents candidates and blocks until the user decides.
type Selector interface {
	Select(candidates []string) (picker.Result, error)
}

// Pipeline wires the stages for one run. Recorder may be nil.
type Pipeline struct {
	Source    DiffSource
	Generator backend.Generator
	Selector  Selector
	Committer Committer
	Recorder  *metrics.Recorder

	Candidates int
	MaxChars   int
	DiffLimit  int

	// Out receives user-facing progress lines. Defaults to io.Discard.
	Out io.Writer
}

func (p *Pipeline) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}

// Run executes the pipeline to completion. The selection step may loop:
// a Regenerate outcome re-runs inference with the same prompt (the diff
// has not changed). Selected commits exactly once; Cancelled returns
// ErrCancelled without committing.
func (p *Pipeline) Run(ctx context.Context) error {
	var cs git.ChangeSet
	err := p.Recorder.Observe("diff", func() error {
		var err error
		cs, err = p.Source.Diff(ctx)
		return err
	})
	if err != nil {
		return err
	}

	pr := prompt.Build(cs, p.Candidates, p.MaxChars, p.DiffLimit)
	if pr.DiffTruncated {
		fmt.Fprintln(p.out(), "Note: diff is large, sending a truncated version to the model.")
	}

	for {
		candidates, err := p.generate(ctx, pr)
		if err != nil {
			return err
		}

		result, err := p.Selector.Select(parser.Texts(candidates))
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}

		switch result.Outcome {
		case picker.OutcomeRegenerate:
			continue

		case picker.OutcomeCancelled:
			return ErrCancelled

		case picker.OutcomeSelected:
			var out string
			err := p.Recorder.Observe("commit", func() error {
				var err error
				out, err = p.Committer.Commit(ctx, result.Message)
				return err
			})
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintln(p.out(), out)
			}
			fmt.Fprintf(p.out(), "Committed with message: %s\n", result.Message)
			return nil

		default:
			return fmt.Errorf("unknown selection outcome %d", result.Outcome)
		}
	}
}

// generate runs inference and parsing for one round.
func (p *Pipeline) generate(ctx context.Context, pr prompt.Prompt) ([]parser.Candidate, error) {
	fmt.Fprint(p.out(), "Generating commit messages... ")

	var raw string
	err := p.Recorder.Observe("generate", func() error {
		var err error
		raw, err = p.Generator.Generate(ctx, pr.Text)
		return err
	})
	if err != nil {
		fmt.Fprintln(p.out(), "failed")
		return nil, err
	}
	fmt.Fprintln(p.out(), "done")

	var candidates []parser.Candidate
	err = p.Recorder.Observe("parse", func() error {
		var err error
		candidates, err = parser.Parse(raw, pr.Candidates, pr.MaxChars)
		return err
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
