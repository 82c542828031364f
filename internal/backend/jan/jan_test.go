package jan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shiyuanpei/aicommit/internal/backend"
)

func TestGenerateSuccess(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Add foo function"}},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "llama 3.1", time.Second)
	out, err := c.Generate(context.Background(), "describe this diff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Add foo function" {
		t.Errorf("unexpected response %q", out)
	}
	if gotReq.Model != "llama 3.1" {
		t.Errorf("model field = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("expected a single user message, got %+v", gotReq.Messages)
	}
	if gotReq.Messages[0].Content != "describe this diff" {
		t.Errorf("prompt content = %q", gotReq.Messages[0].Content)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	c := New(server.URL, "llama 3.1", time.Second)
	_, err := c.Generate(context.Background(), "p")

	var be *backend.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.Backend != "jan" {
		t.Errorf("Backend = %q", be.Backend)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "llama 3.1", time.Second)
	_, err := c.Generate(context.Background(), "p")

	var be *backend.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if be.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", be.StatusCode)
	}
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	c := New(server.URL, "llama 3.1", 30*time.Millisecond)
	_, err := c.Generate(context.Background(), "p")
	if !errors.Is(err, backend.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	c := New("", "", 0)
	if c.host != DefaultHost {
		t.Errorf("host = %q, want %q", c.host, DefaultHost)
	}
	if c.model != DefaultModel {
		t.Errorf("model = %q, want %q", c.model, DefaultModel)
	}
	if c.Name() != "jan" {
		t.Errorf("Name = %q", c.Name())
	}
}
