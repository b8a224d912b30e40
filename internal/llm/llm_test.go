package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildResumePromptEmbedsText(t *testing.T) {
	prompt := BuildResumePrompt("Senior Go engineer, 8 years, Kubernetes")

	assert.Contains(t, prompt, "Senior Go engineer, 8 years, Kubernetes")
	assert.NotContains(t, prompt, resumeTextPlaceholder)
	for _, field := range []string{`"technicalSkills"`, `"softSkills"`, `"jobPreferences"`, `"resumeScore"`} {
		assert.Contains(t, prompt, field)
	}
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}

func TestBuildResumePromptIsDeterministic(t *testing.T) {
	assert.Equal(t, BuildResumePrompt("same"), BuildResumePrompt("same"))
}

func TestBuildResumePromptKeepsPlaceholderLikeText(t *testing.T) {
	prompt := BuildResumePrompt("uses {{RESUME_TEXT}} literally")
	assert.Equal(t, 1, strings.Count(prompt, "uses {{RESUME_TEXT}} literally"))
}

func TestDefaultGenerationConfig(t *testing.T) {
	cfg := DefaultGenerationConfig()
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-6)
	assert.InDelta(t, 40, cfg.TopK, 1e-6)
	assert.InDelta(t, 0.8, cfg.TopP, 1e-6)
}

func TestUnconfiguredAlwaysFails(t *testing.T) {
	_, err := Unconfigured{Provider: "gemini"}.Complete(context.Background(), "p", DefaultGenerationConfig())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "gemini")
}
