// Package picker drives the interactive commit-message selection step.
//
// On a terminal it runs a Bubble Tea selector with three input styles:
// fuzzy filtering (default), vim-style j/k navigation, and numeric
// quick-select. On a non-terminal stdin it degrades to a plain numbered
// prompt with the same outcome contract. Cancellation is a normal
// outcome, never an error.
package picker

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Outcome is the terminal state of one selection round.
type Outcome int

const (
	OutcomeSelected Outcome = iota
	OutcomeRegenerate
	OutcomeCancelled
)

// Result is what a selection round produced. Index and Message are only
// meaningful for OutcomeSelected.
type Result struct {
	Outcome Outcome
	Index   int
	Message string
}

// Options selects the presentation mode. Vim and Numeric are mutually
// independent of the state machine; they only change rendering and keys.
type Options struct {
	Vim     bool
	Numeric bool
}

// fuzzy reports whether the live filter input is active. Vim and
// numeric modes reserve the letter/digit keys the filter would consume.
func (o Options) fuzzy() bool { return !o.Vim && !o.Numeric }

// Interactive is the default Selector used by the pipeline.
type Interactive struct {
	Opts Options
}

// Select presents the candidates and blocks until the user picks one,
// asks for regeneration, or cancels.
func (s Interactive) Select(candidates []string) (Result, error) {
	return Run(candidates, s.Opts)
}

// Run dispatches to the TUI or the plain prompt depending on whether
// stdin and stdout are terminals.
func Run(candidates []string, opts Options) (Result, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return RunPlain(candidates, opts, os.Stdin, os.Stdout)
	}

	m := New(candidates, opts)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return Result{}, fmt.Errorf("selector failed: %w", err)
	}
	return final.(Model).Result(), nil
}

// RunPlain is the non-TTY fallback: a numbered list on w and one index
// read from r. EOF or an explicit "q" cancels; "r" regenerates.
func RunPlain(candidates []string, opts Options, r io.Reader, w io.Writer) (Result, error) {
	for i, c := range candidates {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
	fmt.Fprintf(w, "r. %s\n", regenLabel)

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprintf(w, "Select a commit message [1-%d, r, q]: ", len(candidates))
		if !scanner.Scan() {
			return Result{Outcome: OutcomeCancelled}, scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "q", "":
			return Result{Outcome: OutcomeCancelled}, nil
		case "r":
			return Result{Outcome: OutcomeRegenerate}, nil
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(candidates) {
			return Result{Outcome: OutcomeSelected, Index: n - 1, Message: candidates[n-1]}, nil
		}
		fmt.Fprintf(w, "Invalid selection %q.\n", input)
	}
}
