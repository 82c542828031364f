package pipeline

import (
	"errors"

	"github.com/shiyuanpei/aicommit/internal/backend"
	"github.com/shiyuanpei/aicommit/internal/git"
	"github.com/shiyuanpei/aicommit/internal/parser"
)

// Exit codes. Cancellation is deliberately distinct from every failure
// class so scripts can tell "the user said no" from "something broke".
const (
	ExitOK           = 0
	ExitError        = 1
	ExitCancelled    = 2
	ExitNoChanges    = 3
	ExitTimeout      = 4
	ExitBackend      = 5
	ExitNoCandidates = 6
	ExitCommitFailed = 7
)

// ExitCode maps a pipeline error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var backendErr *backend.BackendError
	var commitErr *git.CommitError

	switch {
	case errors.Is(err, ErrCancelled):
		return ExitCancelled
	case errors.Is(err, git.ErrNoChanges):
		return ExitNoChanges
	case errors.Is(err, backend.ErrTimeout):
		return ExitTimeout
	case errors.As(err, &backendErr):
		return ExitBackend
	case errors.Is(err, parser.ErrNoCandidates):
		return ExitNoCandidates
	case errors.As(err, &commitErr):
		return ExitCommitFailed
	default:
		return ExitError
	}
}
