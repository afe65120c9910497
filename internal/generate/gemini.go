// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/notes-to-anki/internal/httputil"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend is a thin wrapper around the official genai client.
type GeminiBackend struct {
	cli   *genai.Client
	model string
}

// NewGeminiBackend creates a genai client for the Gemini API. baseURL and
// client are optional.
func NewGeminiBackend(ctx context.Context, apiKey, model, baseURL string, client *http.Client) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{cli: cli, model: model}, nil
}

func (g *GeminiBackend) Name() string { return "gemini:" + g.model }

// Generate sends the prompt with the system text as the system instruction
// and joins the text parts of the first candidate.
func (g *GeminiBackend) Generate(ctx context.Context, r Request) (string, error) {
	var config *genai.GenerateContentConfig
	if r.System != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: r.System}}},
		}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: r.Prompt}}}},
		config,
	)
	if err != nil {
		// The SDK does not retry rate limits, so a 429 stays transient and
		// is retried by the Generator. Other API errors become StatusErrors.
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code != http.StatusTooManyRequests {
			err = &httputil.StatusError{Service: "Gemini API", StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var parts []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content in Gemini API response")
	}
	return strings.Join(parts, ""), nil
}
