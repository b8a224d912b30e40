package analyses

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

var errNoObject = errors.New("no JSON object found in response")

// ParseResult turns a raw AI reply into a Result. It never fails: when the
// reply holds no parseable JSON object it returns Fallback() and false.
func ParseResult(raw string) (Result, bool) {
	res, err := parseObject(raw)
	if err != nil {
		return Fallback(), false
	}
	return res, true
}

func parseObject(raw string) (Result, error) {
	candidate, err := locateObject(stripFences(raw))
	if err != nil {
		return Result{}, err
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return Result{}, err
	}
	if fields == nil {
		return Result{}, errNoObject
	}
	return coerce(fields), nil
}

func stripFences(raw string) string {
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	return strings.TrimSpace(raw)
}

// locateObject returns the text from the first '{' to the last '}'. Prose
// after the object that itself contains a '}' widens the slice and makes it
// unparseable, which then yields the fallback.
func locateObject(s string) (string, error) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", errNoObject
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return "", errNoObject
	}
	return s[start : end+1], nil
}

func coerce(fields map[string]any) Result {
	prefs, _ := fields["jobPreferences"].(string)
	return Result{
		TechnicalSkills: extractStringSlice(fields["technicalSkills"]),
		SoftSkills:      extractStringSlice(fields["softSkills"]),
		JobPreferences:  strings.TrimSpace(prefs),
		ResumeScore:     coerceScore(fields["resumeScore"]),
	}
}

func extractStringSlice(value any) []string {
	raw, ok := value.([]any)
	out := make([]string, 0, len(raw))
	if !ok {
		return out
	}
	for _, item := range raw {
		str, ok := item.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(str); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func coerceScore(value any) int {
	num, ok := value.(float64)
	if !ok {
		return defaultScore
	}
	return int(clampScore(math.Round(num)))
}

func clampScore(value float64) float64 {
	if value < minScore {
		return minScore
	}
	if value > maxScore {
		return maxScore
	}
	return value
}
