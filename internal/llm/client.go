// Package llm provides a unified interface over the language-model
// backends the pipeline calls (Gemini primary, an OpenAI-compatible
// endpoint as fallback), plus strict JSON extraction from model output.
//
// Every call is treated as potentially failing; callers decide whether a
// failure is absorbed (resolver, relevance filter) or fatal (synthesis).
package llm

import (
	"context"
	"errors"
	"time"
)

// Backend names for configuration and logging.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Common errors returned by LLM backends.
var (
	ErrNoAPIKey      = errors.New("llm: API key not configured")
	ErrRateLimit     = errors.New("llm: rate limit exceeded")
	ErrProviderDown  = errors.New("llm: provider unavailable")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Client is the interface every LLM backend implements. Generate sends a
// single prompt and returns the raw model text; it never retries.
type Client interface {
	// Name returns the backend identifier (e.g., "gemini").
	Name() string

	// Generate sends a prompt and returns the model's text output.
	Generate(ctx context.Context, prompt string) (string, error)

	// Ping checks that the backend is reachable and the API key is valid.
	Ping(ctx context.Context) error
}

// Options holds common generation settings shared by the backends.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOptions returns the generation settings the pipeline runs with:
// low temperature for deterministic structured output.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.1,
		MaxTokens:   4096,
		Timeout:     60 * time.Second,
	}
}
