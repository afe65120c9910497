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

// openAIBaseURL is the OpenAI API root. Package-level var for test substitution.
var openAIBaseURL = "https://api.openai.com/v1"

const defaultOpenAIModel = "gpt-4"

// OpenAIBackend calls the Chat Completions API. BaseURL may point at any
// OpenAI-compatible server.
type OpenAIBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Name identifies the backend in logs and errors.
func (o *OpenAIBackend) Name() string { return "openai:" + o.model() }

func (o *OpenAIBackend) model() string {
	if o.Model == "" {
		return defaultOpenAIModel
	}
	return o.Model
}

// Generate sends the system and user prompt as one chat completion.
func (o *OpenAIBackend) Generate(ctx context.Context, r Request) (string, error) {
	if o.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	var messages []chatMessage
	if r.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: r.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: r.Prompt})

	bodyBytes, err := json.Marshal(chatRequest{Model: o.model(), Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	base := o.BaseURL
	if base == "" {
		base = openAIBaseURL
	}
	url := strings.TrimRight(base, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &httputil.StatusError{Service: "OpenAI API", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}
