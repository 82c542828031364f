// Package backend defines the interface to local LLM inference backends
// and the shared error taxonomy for talking to them. Concrete variants
// live in the ollama and jan subpackages.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// ErrTimeout means an inference request exceeded the configured deadline.
var ErrTimeout = errors.New("inference request timed out")

// Generator is the capability every backend variant provides: send a
// prompt, get raw generated text back. Implementations are stateless
// across calls; the variant is chosen once at startup.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// BackendError reports an unreachable, erroring, or malformed backend.
// StatusCode is zero for transport-level failures.
type BackendError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend: HTTP %d: %s", e.Backend, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s backend: %s", e.Backend, e.Body)
}

// Classify converts a transport error into the taxonomy: deadline and
// net timeouts become ErrTimeout, everything else (connection refused,
// DNS failure) becomes a BackendError for the named variant.
func Classify(backend string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", backend, ErrTimeout)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%s: %w", backend, ErrTimeout)
	}
	// http.Client surfaces its own timeout as a url.Error with a
	// "Client.Timeout exceeded" message rather than a net.Error.
	if strings.Contains(err.Error(), "Client.Timeout exceeded") {
		return fmt.Errorf("%s: %w", backend, ErrTimeout)
	}
	return &BackendError{Backend: backend, Body: err.Error()}
}

// FromResponse builds a BackendError from a non-success HTTP response,
// preferring the backend's own {"error": ...} body when present.
func FromResponse(backend string, resp *http.Response) *BackendError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	return &BackendError{Backend: backend, StatusCode: resp.StatusCode, Body: msg}
}

// NormalizeHost trims a trailing slash and defaults the scheme to http,
// so "localhost:11434" and "http://localhost:11434/" are equivalent.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host
}
