package users

import "time"

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	ResumePath      string    `json:"resumePath"`
	TechnicalSkills []string  `json:"technicalSkills"`
	SoftSkills      []string  `json:"softSkills"`
	JobPreferences  string    `json:"jobPreferences"`
	ResumeScore     int       `json:"resumeScore"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ResumeAnalysis is the set of profile fields written together after a
// resume has been analyzed.
type ResumeAnalysis struct {
	ResumePath      string
	TechnicalSkills []string
	SoftSkills      []string
	JobPreferences  string
	ResumeScore     int
}

func (u *User) apply(a ResumeAnalysis) {
	u.ResumePath = a.ResumePath
	u.TechnicalSkills = cloneStrings(a.TechnicalSkills)
	u.SoftSkills = cloneStrings(a.SoftSkills)
	u.JobPreferences = a.JobPreferences
	u.ResumeScore = a.ResumeScore
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
