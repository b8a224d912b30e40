package analyses

// Result is the structured profile data extracted from one resume.
type Result struct {
	TechnicalSkills []string `json:"technicalSkills"`
	SoftSkills      []string `json:"softSkills"`
	JobPreferences  string   `json:"jobPreferences"`
	ResumeScore     int      `json:"resumeScore"`
}

const (
	fallbackPreferences = "Could not extract preferences"
	defaultScore        = 50
	minScore            = 0
	maxScore            = 100
)

// Fallback is the result used when the AI reply cannot be parsed.
func Fallback() Result {
	return Result{
		TechnicalSkills: []string{},
		SoftSkills:      []string{},
		JobPreferences:  fallbackPreferences,
		ResumeScore:     defaultScore,
	}
}
