// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/notes-to-anki/pkg/types"
)

// NewBackend builds the backend selected by cfg.Backend. An empty API key is
// an error for every backend.
func NewBackend(ctx context.Context, cfg types.GenerationConfig) (Backend, error) {
	kind, err := types.ParseBackendKind(string(cfg.Backend))
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s backend: %w", kind, ErrMissingAPIKey)
	}

	client := &http.Client{Timeout: cfg.Timeout}

	switch kind {
	case types.BackendAnthropic:
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	case types.BackendGemini:
		return NewGeminiBackend(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL, client)
	default:
		return &OpenAIBackend{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	}
}

// APIKeyName returns the .secrets/ file name holding the key for kind.
func APIKeyName(kind types.BackendKind) string {
	switch kind {
	case types.BackendAnthropic:
		return "anthropic-api-key"
	case types.BackendGemini:
		return "gemini-api-key"
	default:
		return "openai-api-key"
	}
}

// APIKeyEnv returns the conventional environment variable for kind's key.
func APIKeyEnv(kind types.BackendKind) string {
	switch kind {
	case types.BackendAnthropic:
		return "ANTHROPIC_API_KEY"
	case types.BackendGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
