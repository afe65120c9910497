// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns note text into sanitized flashcard blocks by calling
// a Generative AI backend.
package generate

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/notes-to-anki/internal/httputil"
	"github.com/pdiddy/notes-to-anki/internal/sanitize"
	"github.com/pdiddy/notes-to-anki/pkg/types"
)

const defaultMaxRetries = 3

// ErrMissingAPIKey is returned when a backend is built without credentials.
var ErrMissingAPIKey = errors.New("missing API key")

// Request is one prompt sent to a backend.
type Request struct {
	System string
	Prompt string
}

// Backend abstracts the Generative AI API so tests can supply a mock. Each
// implementation returns the model's raw text for a single request.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// AdapterError wraps a backend failure so callers can tell it apart from a
// successful but empty response.
type AdapterError struct {
	Backend string
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("generating cards with %s: %v", e.Backend, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// Generator renders the card prompt, calls the backend with retries, and
// sanitizes the response.
type Generator struct {
	backend    Backend
	maxRetries int
	cache      *lru.Cache[[sha256.Size]byte, string]
	logger     *slog.Logger
}

// NewGenerator builds a Generator around backend. A nil logger uses
// slog.Default().
func NewGenerator(backend Backend, cfg types.GenerationConfig, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	g := &Generator{
		backend:    backend,
		maxRetries: maxRetries,
		logger:     logger,
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[[sha256.Size]byte, string](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating response cache: %w", err)
		}
		g.cache = cache
	}
	return g, nil
}

// Generate returns the sanitized card block for one note's content. Backend
// failures are returned as *AdapterError.
func (g *Generator) Generate(ctx context.Context, content string) (string, error) {
	key := sha256.Sum256([]byte(content))
	if g.cache != nil {
		if block, ok := g.cache.Get(key); ok {
			g.logger.Debug("response cache hit", "backend", g.backend.Name())
			return block, nil
		}
	}

	prompt, err := renderPrompt(content)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := callWithRetry(ctx, g.backend, Request{System: systemPrompt, Prompt: prompt}, g.maxRetries)
	if err != nil {
		return "", &AdapterError{Backend: g.backend.Name(), Err: err}
	}

	block := sanitize.SanitizeWith(raw, func(r sanitize.Rejection) {
		g.logger.Warn("dropping malformed card line", "line", r.Line)
	}).Block()

	if g.cache != nil {
		g.cache.Add(key, block)
	}
	return block, nil
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the backend with exponential backoff. Missing
// credentials, context cancellation, and 4xx responses are not retried; HTTP
// backends handle 429 themselves through httputil.DoWithRetry.
func callWithRetry(ctx context.Context, backend Backend, req Request, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := backend.Generate(ctx, req)
		if err == nil {
			return raw, nil
		}
		if errors.Is(err, ErrMissingAPIKey) || ctx.Err() != nil {
			return "", err
		}
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.Permanent() {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
