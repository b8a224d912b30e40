package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	now := time.Now().UTC()
	if !ok {
		user.CreatedAt = now
		user.TechnicalSkills = cloneStrings(user.TechnicalSkills)
		user.SoftSkills = cloneStrings(user.SoftSkills)
	} else {
		user.CreatedAt = existing.CreatedAt
		user.ResumePath = existing.ResumePath
		user.TechnicalSkills = existing.TechnicalSkills
		user.SoftSkills = existing.SoftSkills
		user.JobPreferences = existing.JobPreferences
		user.ResumeScore = existing.ResumeScore
	}
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return copyUser(user), nil
}

func (r *MemoryRepo) UpdateResumeAnalysis(ctx context.Context, userID string, analysis ResumeAnalysis) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	user.apply(analysis)
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return copyUser(user), nil
}

func copyUser(u User) User {
	u.TechnicalSkills = cloneStrings(u.TechnicalSkills)
	u.SoftSkills = cloneStrings(u.SoftSkills)
	return u
}
