// Package jan implements the backend.Generator interface against a local
// Jan AI server, which exposes an OpenAI-style chat completions endpoint.
package jan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shiyuanpei/aicommit/internal/backend"
)

// Defaults for a stock local Jan install.
const (
	DefaultHost    = "http://localhost:1337"
	DefaultModel   = "llama 3.1"
	DefaultTimeout = 30 * time.Second

	// temperature matches Jan's recommended setting for short
	// instruction-following completions.
	temperature = 0.7
)

// Client talks to one Jan host with one model. Stateless across calls.
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
func (c *Client) Name() string { return "jan" }

// Model returns the model this client generates with.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate implements backend.Generator.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/v1/chat/completions", bytes.NewReader(body))
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

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &backend.BackendError{
			Backend:    c.Name(),
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("malformed response: %v", err),
		}
	}
	if len(chatResp.Choices) == 0 {
		return "", &backend.BackendError{
			Backend:    c.Name(),
			StatusCode: resp.StatusCode,
			Body:       "response contained no choices",
		}
	}
	return chatResp.Choices[0].Message.Content, nil
}
