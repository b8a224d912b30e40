package resumes

import (
	"context"
	"errors"
	"time"

	"cv-matcher/internal/analyses"
	"cv-matcher/internal/documents"
	"cv-matcher/internal/extract"
	"cv-matcher/internal/llm"
	"cv-matcher/internal/shared/metrics"
	"cv-matcher/internal/shared/telemetry"
	"cv-matcher/internal/taskqueue"
	"cv-matcher/internal/users"
)

// Status is a stage of one upload run.
type Status string

const (
	StatusReceived      Status = "received"
	StatusValidated     Status = "validated"
	StatusStored        Status = "stored"
	StatusTextExtracted Status = "text_extracted"
	StatusAIAnalyzed    Status = "ai_analyzed"
	StatusPersisted     Status = "persisted"
	StatusFailed        Status = "failed"
)

// DocumentStore stores and removes uploaded files.
type DocumentStore interface {
	Store(ctx context.Context, ownerID string, u *documents.Upload) (documents.Document, error)
	DocumentRemover
}

// TextExtractor reads the text of a stored document.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc documents.Document) (string, error)
}

// Analyzer turns resume text into a structured result.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (analyses.Result, error)
}

// Outcome is what a successful upload produced.
type Outcome struct {
	Document documents.Document
	Result   analyses.Result
	Profile  users.User
	Status   Status
}

// Service runs the upload pipeline. Extraction and analysis of every upload
// go through Queue one at a time.
type Service struct {
	Users     *users.Service
	Docs      DocumentStore
	Extractor TextExtractor
	Analyzer  Analyzer
	Queue     *taskqueue.Queue
	Updater   *Updater
}

func NewService(usersSvc *users.Service, docs DocumentStore, extractor TextExtractor, analyzer Analyzer, queue *taskqueue.Queue) *Service {
	return &Service{
		Users:     usersSvc,
		Docs:      docs,
		Extractor: extractor,
		Analyzer:  analyzer,
		Queue:     queue,
		Updater:   NewUpdater(usersSvc, docs),
	}
}

// Upload validates, stores and analyzes a resume, then saves the result on
// the owner's profile. Guest owners get an empty profile on first upload;
// other owners must already exist. On failure the returned Outcome carries
// the last status reached and any stored document has been removed.
func (s *Service) Upload(ctx context.Context, userID string, guest bool, u *documents.Upload) (Outcome, error) {
	start := time.Now()
	metrics.IncResumeReceived()
	s.logStatus(ctx, userID, StatusReceived, nil)

	out, err := s.run(ctx, userID, guest, u)
	metrics.ObservePipelineDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncResumeFailed()
		s.logStatus(ctx, userID, StatusFailed, map[string]any{
			"reason":      Reason(err),
			"last_status": string(out.Status),
			"err":         err.Error(),
		})
		return out, err
	}
	metrics.IncResumeAnalyzed()
	return out, nil
}

func (s *Service) run(ctx context.Context, userID string, guest bool, u *documents.Upload) (Outcome, error) {
	out := Outcome{Status: StatusReceived}
	if err := documents.Validate(u); err != nil {
		return out, err
	}
	out.Status = StatusValidated
	s.logStatus(ctx, userID, StatusValidated, map[string]any{"file_name": u.FileName, "size": u.Size})

	if guest {
		if _, err := s.Users.EnsureGuest(ctx, userID); err != nil {
			return out, err
		}
	} else if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return out, err
	}

	doc, err := s.Docs.Store(ctx, userID, u)
	if err != nil {
		return out, err
	}
	out.Document = doc
	out.Status = StatusStored
	s.logStatus(ctx, userID, StatusStored, map[string]any{"storage_key": doc.StorageKey, "size": doc.SizeBytes})

	res, err := taskqueue.Do(ctx, s.Queue, func(ctx context.Context) (analyses.Result, error) {
		text, err := s.Extractor.ExtractText(ctx, doc)
		if err != nil {
			return analyses.Result{}, err
		}
		s.logStatus(ctx, userID, StatusTextExtracted, map[string]any{"text_len": len(text)})
		return s.Analyzer.Analyze(ctx, text)
	})
	if err != nil {
		return out, s.Updater.Discard(ctx, doc, err)
	}
	out.Result = res
	out.Status = StatusAIAnalyzed
	s.logStatus(ctx, userID, StatusAIAnalyzed, map[string]any{"resume_score": res.ResumeScore})

	profile, err := s.Updater.Apply(ctx, userID, doc, res)
	if err != nil {
		return out, err
	}
	out.Profile = profile
	out.Status = StatusPersisted
	s.logStatus(ctx, userID, StatusPersisted, map[string]any{"storage_key": doc.StorageKey})
	return out, nil
}

func (s *Service) logStatus(ctx context.Context, userID string, status Status, extra map[string]any) {
	fields := map[string]any{
		"request_id": telemetry.RequestIDFrom(ctx),
		"user_id":    userID,
		"status":     string(status),
	}
	for k, v := range extra {
		fields[k] = v
	}
	if status == StatusFailed {
		telemetry.Warn("resume.status", fields)
		return
	}
	telemetry.Info("resume.status", fields)
}

// Reason names the failure class of an upload error.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, documents.ErrValidation):
		return "validation"
	case errors.Is(err, users.ErrNotFound):
		return "not_found"
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, extract.ErrExtraction):
		return "extraction"
	case errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, analyses.ErrCompletion):
		return "ai"
	default:
		return "internal"
	}
}
