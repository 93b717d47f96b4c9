package redis

import (
	"context"
	"log/slog"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED LEARNER REPOSITORY
// Cache-aside decorator over learner.Repository. Reads go through the cache;
// writes go to the backing store first and then refresh the cache. Cache
// failures are logged and ignored: Redis being down degrades to direct
// database access, never to an error for the caller.
// ══════════════════════════════════════════════════════════════════════════════

// CachedLearnerRepository wraps a learner.Repository with a Redis cache.
type CachedLearnerRepository struct {
	inner learner.Repository
	cache *SessionCache
	log   *slog.Logger
}

// NewCachedLearnerRepository creates the decorator.
func NewCachedLearnerRepository(inner learner.Repository, cache *SessionCache, log *slog.Logger) *CachedLearnerRepository {
	if log == nil {
		log = slog.Default()
	}
	return &CachedLearnerRepository{inner: inner, cache: cache, log: log}
}

// GetByTelegramID returns the learner state, preferring the cache.
func (r *CachedLearnerRepository) GetByTelegramID(ctx context.Context, telegramID learner.TelegramID) (*learner.Entitlements, error) {
	if e, err := r.cache.Get(ctx, telegramID); err == nil {
		return e, nil
	}

	e, err := r.inner.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, e, TTLLearnerCache); err != nil {
		r.log.Warn("learner cache set failed", "telegram_id", telegramID.Int64(), "error", err)
	}
	return e, nil
}

// Create inserts the learner state and primes the cache.
func (r *CachedLearnerRepository) Create(ctx context.Context, e *learner.Entitlements) error {
	if err := r.inner.Create(ctx, e); err != nil {
		return err
	}
	if err := r.cache.Set(ctx, e, TTLLearnerCache); err != nil {
		r.log.Warn("learner cache set failed", "telegram_id", e.TelegramID.Int64(), "error", err)
	}
	return nil
}

// Update saves the learner state and refreshes the cache.
func (r *CachedLearnerRepository) Update(ctx context.Context, e *learner.Entitlements) error {
	if err := r.inner.Update(ctx, e); err != nil {
		return err
	}
	if err := r.cache.Set(ctx, e, TTLLearnerCache); err != nil {
		r.log.Warn("learner cache set failed", "telegram_id", e.TelegramID.Int64(), "error", err)
	}
	return nil
}

// Count delegates to the backing store.
func (r *CachedLearnerRepository) Count(ctx context.Context) (int, error) {
	return r.inner.Count(ctx)
}

// TotalDailyUsed delegates to the backing store.
func (r *CachedLearnerRepository) TotalDailyUsed(ctx context.Context) (int, error) {
	return r.inner.TotalDailyUsed(ctx)
}

// ResetAllDaily resets daily counters and drops all cached learner entries:
// a bulk update cannot refresh entries one by one.
func (r *CachedLearnerRepository) ResetAllDaily(ctx context.Context) (int64, error) {
	affected, err := r.inner.ResetAllDaily(ctx)
	if err != nil {
		return 0, err
	}
	r.invalidateAll(ctx)
	return affected, nil
}

// ResetAllWeekly resets weekly counters and drops all cached learner entries.
func (r *CachedLearnerRepository) ResetAllWeekly(ctx context.Context) (int64, error) {
	affected, err := r.inner.ResetAllWeekly(ctx)
	if err != nil {
		return 0, err
	}
	r.invalidateAll(ctx)
	return affected, nil
}

func (r *CachedLearnerRepository) invalidateAll(ctx context.Context) {
	if err := r.cache.cache.DeleteByPattern(ctx, PrefixLearner+"*"); err != nil {
		r.log.Warn("learner cache flush failed", "error", err)
	}
}
