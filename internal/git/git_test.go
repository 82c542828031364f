package git

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner scripts git invocations keyed by subcommand.
type fakeRunner struct {
	calls   []string
	outputs map[string]string
	errs    map[string]error
	stderrs map[string]string
}

func (f *fakeRunner) run(ctx context.Context, dir string, args ...string) (string, string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	return f.outputs[key], f.stderrs[key], f.errs[key]
}

func newFakeService(f *fakeRunner) *Service {
	return &Service{dir: "/repo", run: f.run}
}

func TestDiffPrefersStaged(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{
		"diff --cached": "staged diff\n",
		"diff":          "unstaged diff\n",
	}}
	cs, err := newFakeService(f).Diff(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Raw != "staged diff\n" {
		t.Errorf("expected staged diff, got %q", cs.Raw)
	}
	if !cs.Staged {
		t.Error("Staged should be true")
	}
	if len(f.calls) != 1 {
		t.Errorf("expected 1 git call, got %d", len(f.calls))
	}
}

func TestDiffFallsBackToUnstaged(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{
		"diff --cached": "",
		"diff":          "unstaged diff\n",
	}}
	cs, err := newFakeService(f).Diff(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Raw != "unstaged diff\n" {
		t.Errorf("expected unstaged diff, got %q", cs.Raw)
	}
	if cs.Staged {
		t.Error("Staged should be false for unstaged fallback")
	}
}

func TestDiffNoChanges(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{}}
	_, err := newFakeService(f).Diff(context.Background())
	if !errors.Is(err, ErrNoChanges) {
		t.Errorf("expected ErrNoChanges, got %v", err)
	}
	if len(f.calls) != 2 {
		t.Errorf("expected both diff queries, got %v", f.calls)
	}
}

func TestDiffNotARepo(t *testing.T) {
	f := &fakeRunner{
		errs:    map[string]error{"diff --cached": errors.New("exit status 128")},
		stderrs: map[string]string{"diff --cached": "fatal: not a git repository"},
	}
	_, err := newFakeService(f).Diff(context.Background())
	if !errors.Is(err, ErrNotARepo) {
		t.Errorf("expected ErrNotARepo, got %v", err)
	}
}

func TestCommitSuccess(t *testing.T) {
	f := &fakeRunner{outputs: map[string]string{
		"commit -m Fix parser": "[main abc1234] Fix parser\n",
	}}
	out, err := newFakeService(f).Commit(context.Background(), "Fix parser")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "abc1234") {
		t.Errorf("expected commit output, got %q", out)
	}
}

func TestCommitFailureCarriesOutputVerbatim(t *testing.T) {
	f := &fakeRunner{
		errs:    map[string]error{"commit -m msg": errors.New("exit status 1")},
		stderrs: map[string]string{"commit -m msg": "pre-commit hook rejected: trailing whitespace"},
	}
	_, err := newFakeService(f).Commit(context.Background(), "msg")
	if err == nil {
		t.Fatal("expected error")
	}

	var commitErr *CommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("expected CommitError, got %T", err)
	}
	if !strings.Contains(commitErr.Output, "pre-commit hook rejected: trailing whitespace") {
		t.Errorf("hook output should surface verbatim, got %q", commitErr.Output)
	}
	if len(f.calls) != 1 {
		t.Errorf("commit must not be retried, got %d calls", len(f.calls))
	}
}

func TestChangeSetTruncate(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		limit         int
		wantRaw       string
		wantTruncated bool
	}{
		{
			name:    "under limit unchanged",
			raw:     "short diff\n",
			limit:   100,
			wantRaw: "short diff\n",
		},
		{
			name:          "cuts at line boundary",
			raw:           "line one\nline two\nline three\n",
			limit:         12,
			wantRaw:       "line one\n",
			wantTruncated: true,
		},
		{
			name:    "zero limit unchanged",
			raw:     "anything\n",
			limit:   0,
			wantRaw: "anything\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChangeSet{Raw: tt.raw}.Truncate(tt.limit)
			if got.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.wantRaw)
			}
			if got.Truncated != tt.wantTruncated {
				t.Errorf("Truncated = %v, want %v", got.Truncated, tt.wantTruncated)
			}
		})
	}
}
