// Package git wraps the git subprocesses aicommit depends on: reading the
// pending diff of a working tree and creating a commit with a chosen message.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Common errors surfaced to the CLI.
var (
	// ErrNoChanges means both the staged and unstaged diffs are empty.
	ErrNoChanges = errors.New("no pending changes to commit")

	// ErrNotARepo means the directory is not inside a git work tree.
	ErrNotARepo = errors.New("not a git repository")
)

// CommitError carries git's own output when a commit is rejected
// (nothing staged, hook failure, etc). The output is surfaced verbatim.
type CommitError struct {
	Output string
	Err    error
}

func (e *CommitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("git commit failed: %v", e.Err)
	}
	return fmt.Sprintf("git commit failed: %s", out)
}

func (e *CommitError) Unwrap() error { return e.Err }

// ChangeSet is the diff of pending changes captured for one run.
type ChangeSet struct {
	Raw       string
	Staged    bool // true if taken from the index, false if from the work tree
	Truncated bool
}

// Len returns the byte length of the raw diff.
func (cs ChangeSet) Len() int { return len(cs.Raw) }

// Truncate returns a copy of the change set cut to at most limit bytes.
// The cut backs off to the previous line boundary so the surviving text
// ends on a whole diff line; the earliest hunks are the ones kept.
func (cs ChangeSet) Truncate(limit int) ChangeSet {
	if limit <= 0 || len(cs.Raw) <= limit {
		return cs
	}
	cut := cs.Raw[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i+1]
	}
	return ChangeSet{Raw: cut, Staged: cs.Staged, Truncated: true}
}

// runner executes a git subcommand and returns stdout, stderr, and the
// process error. It exists so tests can run without a real repository.
type runner func(ctx context.Context, dir string, args ...string) (stdout, stderr string, err error)

func execGit(ctx context.Context, dir string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.String(), errBuf.String(), err
}

// Service provides diff capture and commit execution for one repository.
type Service struct {
	dir string
	run runner
}

// NewService creates a service rooted at dir.
func NewService(dir string) *Service {
	return &Service{dir: dir, run: execGit}
}

// FindProjectRoot returns the root of the git repository containing
// startDir, or ErrNotARepo if there is none.
func FindProjectRoot(startDir string) (string, error) {
	out, stderr, err := execGit(context.Background(), startDir, "rev-parse", "--show-toplevel")
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: %s", ErrNotARepo, msg)
	}
	return strings.TrimSpace(out), nil
}

// Diff captures the pending change set. Staged changes are preferred;
// if the index is clean the unstaged diff is used instead. Returns
// ErrNoChanges when both are empty.
func (s *Service) Diff(ctx context.Context) (ChangeSet, error) {
	staged, stderr, err := s.run(ctx, s.dir, "diff", "--cached")
	if err != nil {
		return ChangeSet{}, diffError(stderr, err)
	}
	if strings.TrimSpace(staged) != "" {
		return ChangeSet{Raw: staged, Staged: true}, nil
	}

	unstaged, stderr, err := s.run(ctx, s.dir, "diff")
	if err != nil {
		return ChangeSet{}, diffError(stderr, err)
	}
	if strings.TrimSpace(unstaged) == "" {
		return ChangeSet{}, ErrNoChanges
	}
	return ChangeSet{Raw: unstaged}, nil
}

// Commit creates a commit with the exact message text. Git's combined
// output is returned for display on success and carried verbatim in a
// CommitError on failure. Never retried: a rejected commit (hook
// failure, empty index) is the user's to resolve.
func (s *Service) Commit(ctx context.Context, message string) (string, error) {
	out, stderr, err := s.run(ctx, s.dir, "commit", "-m", message)
	combined := out + stderr
	if err != nil {
		return "", &CommitError{Output: combined, Err: err}
	}
	return strings.TrimSpace(out), nil
}

func diffError(stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	if strings.Contains(msg, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotARepo, msg)
	}
	if msg == "" {
		return fmt.Errorf("git diff failed: %w", err)
	}
	return fmt.Errorf("git diff failed: %s", msg)
}
