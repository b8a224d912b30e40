package users

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cv-matcher/internal/shared/cache"
	"cv-matcher/internal/shared/telemetry"
)

// CachedRepo serves profile reads from a cache. Analysis updates write the
// returned row through; other writes invalidate. Cache failures degrade to the
// underlying repo.
//
// A read-through fill is dropped when a write for the same user landed while
// the row was being loaded. This only covers writes made by this process;
// writes from other instances become visible once the entry expires.
type CachedRepo struct {
	Repo  Repo
	Cache cache.Cache
	TTL   time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func NewCachedRepo(repo Repo, c cache.Cache, ttl time.Duration) *CachedRepo {
	return &CachedRepo{Repo: repo, Cache: c, TTL: ttl}
}

func cacheKey(userID string) string {
	return "cv-matcher:user:" + userID
}

func (r *CachedRepo) Upsert(ctx context.Context, user User) error {
	if err := r.Repo.Upsert(ctx, user); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bump(user.ID)
	r.invalidate(ctx, user.ID)
	return nil
}

func (r *CachedRepo) GetByID(ctx context.Context, userID string) (User, error) {
	key := cacheKey(userID)
	if data, ok, err := r.Cache.Get(ctx, key); err != nil {
		telemetry.Warn("users.cache.get_failed", map[string]any{"user_id": userID, "err": err.Error()})
	} else if ok {
		var user User
		if err := json.Unmarshal(data, &user); err == nil {
			return user, nil
		}
	}

	gen := r.generation(userID)
	user, err := r.Repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[userID] == gen {
		r.store(ctx, user)
	}
	return user, nil
}

func (r *CachedRepo) UpdateResumeAnalysis(ctx context.Context, userID string, analysis ResumeAnalysis) (User, error) {
	user, err := r.Repo.UpdateResumeAnalysis(ctx, userID, analysis)
	if err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bump(userID)
	if !r.store(ctx, user) {
		r.invalidate(ctx, userID)
	}
	return user, nil
}

func (r *CachedRepo) generation(userID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[userID]
}

// bump must be called with mu held.
func (r *CachedRepo) bump(userID string) {
	if r.gens == nil {
		r.gens = map[string]uint64{}
	}
	r.gens[userID]++
}

func (r *CachedRepo) store(ctx context.Context, user User) bool {
	data, err := json.Marshal(user)
	if err != nil {
		return false
	}
	if err := r.Cache.Set(ctx, cacheKey(user.ID), data, r.TTL); err != nil {
		telemetry.Warn("users.cache.set_failed", map[string]any{"user_id": user.ID, "err": err.Error()})
		return false
	}
	return true
}

func (r *CachedRepo) invalidate(ctx context.Context, userID string) {
	if err := r.Cache.Delete(ctx, cacheKey(userID)); err != nil {
		telemetry.Warn("users.cache.delete_failed", map[string]any{"user_id": userID, "err": err.Error()})
	}
}

var _ Repo = (*CachedRepo)(nil)
