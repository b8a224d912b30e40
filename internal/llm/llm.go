package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer sends a prompt to a text-completion provider and returns its raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
}

// GenerationConfig holds the sampling parameters of one completion.
type GenerationConfig struct {
	Temperature float32
	TopK        float32
	TopP        float32
}

// DefaultGenerationConfig favours stable, low-variance answers.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{Temperature: 0.2, TopK: 40, TopP: 0.8}
}

// ErrEmptyResponse is returned when the provider replies with no text.
var ErrEmptyResponse = errors.New("empty response from AI model")

// ErrNotConfigured is returned by Unconfigured.
var ErrNotConfigured = errors.New("llm provider not configured")

// Unconfigured stands in for a provider whose credentials are missing in
// development. Every call fails.
type Unconfigured struct {
	Provider string
}

func (u Unconfigured) Complete(ctx context.Context, prompt string, cfg GenerationConfig) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.Provider)
}
