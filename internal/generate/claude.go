// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/notes-to-anki/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const defaultClaudeModel = "claude-sonnet-4-5-20250929"

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *ClaudeBackend) Name() string { return "anthropic:" + c.model() }

func (c *ClaudeBackend) model() string {
	if c.Model == "" {
		return defaultClaudeModel
	}
	return c.Model
}

// Generate calls the Claude API and concatenates the text blocks of the reply.
func (c *ClaudeBackend) Generate(ctx context.Context, r Request) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := claudeRequest{
		Model:     c.model(),
		MaxTokens: 4096,
		System:    r.System,
		Messages: []claudeMessage{
			{Role: "user", Content: r.Prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := claudeAPIURL
	if c.BaseURL != "" {
		url = strings.TrimRight(c.BaseURL, "/") + "/v1/messages"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &httputil.StatusError{Service: "Claude API", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var parts []string
	for _, block := range cResp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return strings.Join(parts, "\n"), nil
}
