// Package gemini implements llm.Completer on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"cv-matcher/internal/llm"
)

const DefaultModel = "gemini-2.5-flash"

// Options configures the client. BaseURL is only set in tests.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string
}

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete sends prompt as a single user turn.
func (c *Client) Complete(ctx context.Context, prompt string, cfg llm.GenerationConfig) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(cfg.Temperature),
		TopK:        genai.Ptr(cfg.TopK),
		TopP:        genai.Ptr(cfg.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content model=%s: %w", c.model, err)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

var _ llm.Completer = (*Client)(nil)
