// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by backends that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// BaseURL overrides the backend endpoint (e.g. an OpenAI-compatible proxy).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// BackendKind identifies the Generative AI service used to write cards.
type BackendKind string

const (
	BackendOpenAI    BackendKind = "openai"
	BackendAnthropic BackendKind = "anthropic"
	BackendGemini    BackendKind = "gemini"
)

// ParseBackendKind validates a backend name. The empty string selects OpenAI.
func ParseBackendKind(s string) (BackendKind, error) {
	switch BackendKind(s) {
	case "", BackendOpenAI:
		return BackendOpenAI, nil
	case BackendAnthropic, BackendGemini:
		return BackendKind(s), nil
	}
	return "", fmt.Errorf("unknown backend %q: want openai, anthropic, or gemini", s)
}

// AIConfig holds shared settings for backends that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4"). Empty selects the backend default.
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// GenerationConfig holds settings for the card generation stage.
type GenerationConfig struct {
	AIConfig   `yaml:",inline"`
	HTTPConfig `yaml:",inline"`

	// Backend selects the AI service: openai, anthropic, or gemini.
	Backend BackendKind `json:"backend" yaml:"backend"`

	// CacheSize is the number of raw responses kept in memory, keyed by note
	// content. Zero disables the cache.
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// FailurePolicy decides what a directory run does after a note fails.
type FailurePolicy string

const (
	// FailAbort stops the run at the first failed note.
	FailAbort FailurePolicy = "abort"
	// FailContinue records the failure and moves on to the next note.
	FailContinue FailurePolicy = "continue"
)

// ParseFailurePolicy validates a policy name. The empty string selects FailAbort.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", FailAbort:
		return FailAbort, nil
	case FailContinue:
		return FailContinue, nil
	}
	return "", fmt.Errorf("unknown failure policy %q: want abort or continue", s)
}

// PipelineConfig holds settings for the note traversal and output stage.
type PipelineConfig struct {
	// Extension is the note file extension, including the dot (default ".md").
	Extension string `json:"extension" yaml:"extension"`

	// Exclude lists doublestar globs, relative to the walked root, for notes to skip.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// OnError selects the failure policy for directory runs.
	OnError FailurePolicy `json:"on_error" yaml:"on_error"`

	// Output is the deck file path (default "anki.txt").
	Output string `json:"output" yaml:"output"`
}

// Config groups all stage configurations.
type Config struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Pipeline   PipelineConfig   `json:"pipeline" yaml:"pipeline"`
}
