package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cv-matcher/internal/llm"
	"cv-matcher/internal/shared/metrics"
	"cv-matcher/internal/shared/telemetry"
)

// ErrCompletion wraps failures of the completion call itself.
var ErrCompletion = errors.New("ai completion failed")

// Extractor asks the completion service for structured data about a resume.
type Extractor struct {
	LLM    llm.Completer
	Config llm.GenerationConfig
}

func NewExtractor(completer llm.Completer) *Extractor {
	return &Extractor{LLM: completer, Config: llm.DefaultGenerationConfig()}
}

// Analyze prompts the model with text and parses its reply. An empty reply
// fails with llm.ErrEmptyResponse; an unparseable one yields Fallback().
func (e *Extractor) Analyze(ctx context.Context, text string) (Result, error) {
	if e == nil || e.LLM == nil {
		return Result{}, errors.New("analysis extractor not configured")
	}
	raw, err := e.LLM.Complete(ctx, llm.BuildResumePrompt(text), e.Config)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	if strings.TrimSpace(raw) == "" {
		return Result{}, llm.ErrEmptyResponse
	}

	res, err := parseObject(raw)
	if err != nil {
		metrics.IncAIFallback()
		telemetry.Warn("analysis.parse_fallback", map[string]any{
			"request_id": telemetry.RequestIDFrom(ctx),
			"err":        err.Error(),
			"reply_len":  len(raw),
		})
		return Fallback(), nil
	}
	return res, nil
}
