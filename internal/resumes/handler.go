package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-matcher/internal/documents"
	"cv-matcher/internal/shared/server/middleware"
	"cv-matcher/internal/shared/server/respond"
)

// Multipart bodies carry headers and boundaries on top of the file itself.
const maxRequestBytes = documents.MaxUploadBytes + 1<<20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the upload route; extra handlers run before it.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	rg.POST("/resume/upload", append(extra, h.upload)...)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, documents.ErrValidation, "file exceeds 5 MB")
			return
		}
		h.fail(c, documents.ErrValidation, "No file uploaded")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, documents.ErrValidation, "unable to read file")
		return
	}
	defer file.Close()

	out, err := h.Svc.Upload(c.Request.Context(), userID, middleware.IsGuest(c), &documents.Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if out.Document.StorageKey != "" {
		c.Set(middleware.DocumentKey, out.Document.StorageKey)
	}
	c.Set(middleware.ResumeStatusKey, string(out.Status))
	if err != nil {
		h.fail(c, err, "")
		return
	}

	saved := out.Profile
	respond.OK(c, gin.H{
		"message":         "Resume analyzed successfully",
		"technicalSkills": nonNil(saved.TechnicalSkills),
		"softSkills":      nonNil(saved.SoftSkills),
		"jobPreferences":  saved.JobPreferences,
		"resumeScore":     saved.ResumeScore,
	})
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	reason := Reason(err)
	c.Set(middleware.FailureReasonKey, reason)
	if message == "" {
		message = err.Error()
	}
	switch reason {
	case "validation":
		respond.Error(c, http.StatusBadRequest, "validation_error", message, nil)
	case "not_found":
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	case "unsupported_format":
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", message, nil)
	case "extraction":
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_error", message, nil)
	case "ai":
		respond.Error(c, http.StatusBadGateway, "ai_error", "resume analysis service failed", nil)
	case "persistence":
		respond.Error(c, http.StatusInternalServerError, "persistence_error", "failed to save analysis", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process resume", nil)
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
