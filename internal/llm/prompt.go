package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/resume.txt
var resumePrompt string

const resumeTextPlaceholder = "{{RESUME_TEXT}}"

// BuildResumePrompt embeds the resume text into the extraction prompt.
func BuildResumePrompt(resumeText string) string {
	return strings.Replace(resumePrompt, resumeTextPlaceholder, resumeText, 1)
}
