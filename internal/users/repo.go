package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// Repo persists user profiles. Upsert only touches identity fields; analysis
// fields change through UpdateResumeAnalysis alone.
type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	// UpdateResumeAnalysis writes every analysis field in one operation and
	// returns the stored profile. Missing users yield ErrNotFound.
	UpdateResumeAnalysis(ctx context.Context, userID string, analysis ResumeAnalysis) (User, error)
}
