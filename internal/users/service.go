package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// EnsureGuest returns the guest's profile, creating an empty one on first use.
func (s *Service) EnsureGuest(ctx context.Context, userID string) (User, error) {
	user, err := s.GetByID(ctx, userID)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return user, err
	}
	if err := s.Repo.Upsert(ctx, User{ID: userID}); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, userID)
}

// SaveResumeAnalysis persists the analysis fields of one user together.
func (s *Service) SaveResumeAnalysis(ctx context.Context, userID string, analysis ResumeAnalysis) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.UpdateResumeAnalysis(ctx, userID, analysis)
}
