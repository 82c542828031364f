// Package ollama implements the backend.Generator interface against a
// local Ollama instance's /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shiyuanpei/aicommit/internal/backend"
)

// Defaults for a stock local Ollama install.
const (
	DefaultHost    = "http://localhost:11434"
	DefaultModel   = "llama3.1"
	DefaultTimeout = 30 * time.Second
)

// Client talks to one Ollama host with one model. Stateless across calls.
type Client struct {
	host   string
	model  string
	client *http.Client
}

// New creates a client for the given host and model. Empty arguments
// fall back to the package defaults.
func New(host, model string, timeout time.Duration) *Client {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		host:   backend.NormalizeHost(host),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name implements backend.Generator.
func (c *Client) Name() string { return "ollama" }

// Model returns the model this client generates with.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements backend.Generator. The raw generated text is
// returned uninspected; parsing it is the caller's concern.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", backend.Classify(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", backend.FromResponse(c.Name(), resp)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &backend.BackendError{
			Backend:    c.Name(),
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("malformed response: %v", err),
		}
	}
	return genResp.Response, nil
}
