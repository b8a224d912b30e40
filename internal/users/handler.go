package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cv-matcher/internal/shared/server/middleware"
	"cv-matcher/internal/shared/server/respond"
	"cv-matcher/internal/shared/telemetry"
)

// Handler serves the caller's stored profile.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

type profileResponse struct {
	ID              string    `json:"id"`
	Guest           bool      `json:"guest"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	ResumePath      string    `json:"resumePath"`
	TechnicalSkills []string  `json:"technicalSkills"`
	SoftSkills      []string  `json:"softSkills"`
	JobPreferences  string    `json:"jobPreferences"`
	ResumeScore     int       `json:"resumeScore"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newProfileResponse(u User, guest bool) profileResponse {
	return profileResponse{
		ID:              u.ID,
		Guest:           guest,
		Email:           u.Email,
		FullName:        u.FullName,
		ResumePath:      u.ResumePath,
		TechnicalSkills: nonNil(u.TechnicalSkills),
		SoftSkills:      nonNil(u.SoftSkills),
		JobPreferences:  u.JobPreferences,
		ResumeScore:     u.ResumeScore,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "no profile yet, upload a resume first", nil)
		return
	case err != nil:
		telemetry.Error("users.profile_load_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"user_id":    userID,
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		return
	}
	respond.OK(c, newProfileResponse(user, middleware.IsGuest(c)))
}
