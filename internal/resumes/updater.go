package resumes

import (
	"context"
	"errors"
	"fmt"

	"cv-matcher/internal/analyses"
	"cv-matcher/internal/documents"
	"cv-matcher/internal/shared/telemetry"
	"cv-matcher/internal/users"
)

// ErrPersistence is returned when the analyzed profile could not be saved.
var ErrPersistence = errors.New("profile persistence failed")

// DocumentRemover deletes stored documents.
type DocumentRemover interface {
	Delete(ctx context.Context, doc documents.Document) error
}

// Updater writes analysis results onto user profiles and removes the stored
// document when a run cannot complete.
type Updater struct {
	Users *users.Service
	Docs  DocumentRemover
}

func NewUpdater(usersSvc *users.Service, docs DocumentRemover) *Updater {
	return &Updater{Users: usersSvc, Docs: docs}
}

// Apply saves the resume path and every analysis field in one write. The
// stored document is deleted if the write fails.
func (u *Updater) Apply(ctx context.Context, userID string, doc documents.Document, res analyses.Result) (users.User, error) {
	user, err := u.Users.SaveResumeAnalysis(ctx, userID, users.ResumeAnalysis{
		ResumePath:      doc.StorageKey,
		TechnicalSkills: res.TechnicalSkills,
		SoftSkills:      res.SoftSkills,
		JobPreferences:  res.JobPreferences,
		ResumeScore:     res.ResumeScore,
	})
	if err != nil {
		return users.User{}, u.Discard(ctx, doc, fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	return user, nil
}

// Discard deletes the stored document and returns cause. A failed delete is
// logged, never returned.
func (u *Updater) Discard(ctx context.Context, doc documents.Document, cause error) error {
	if u.Docs == nil || doc.StorageKey == "" {
		return cause
	}
	if err := u.Docs.Delete(context.WithoutCancel(ctx), doc); err != nil {
		fields := map[string]any{
			"request_id":  telemetry.RequestIDFrom(ctx),
			"storage_key": doc.StorageKey,
			"err":         err.Error(),
		}
		if cause != nil {
			fields["cause"] = cause.Error()
		}
		telemetry.Error("resume.cleanup_failed", fields)
	}
	return cause
}
