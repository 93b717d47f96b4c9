package redis

import (
	"context"
	"time"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION CACHE
// ══════════════════════════════════════════════════════════════════════════════

// SessionCache implements learner.Cache on top of the Redis client.
// Entries are stored as JSON snapshots of the entitlement state.
type SessionCache struct {
	cache *Cache
}

// NewSessionCache creates a new SessionCache.
func NewSessionCache(cache *Cache) *SessionCache {
	return &SessionCache{cache: cache}
}

// Get returns the cached learner state or ErrCacheMiss.
func (s *SessionCache) Get(ctx context.Context, telegramID learner.TelegramID) (*learner.Entitlements, error) {
	var snapshot learnerSnapshot
	if err := s.cache.Get(ctx, LearnerKey(telegramID.Int64()), &snapshot); err != nil {
		return nil, err
	}
	return snapshot.toEntity(), nil
}

// Set stores the learner state with the given TTL.
func (s *SessionCache) Set(ctx context.Context, e *learner.Entitlements, ttl time.Duration) error {
	return s.cache.Set(ctx, LearnerKey(e.TelegramID.Int64()), newLearnerSnapshot(e), ttl)
}

// Delete invalidates the cached learner state.
func (s *SessionCache) Delete(ctx context.Context, telegramID learner.TelegramID) error {
	return s.cache.Delete(ctx, LearnerKey(telegramID.Int64()))
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshot DTO
// ─────────────────────────────────────────────────────────────────────────────

// learnerSnapshot is the cache representation of the entitlement state.
// Kept separate from the entity so the cache wire format does not leak
// into the domain's JSON views.
type learnerSnapshot struct {
	ID               string    `json:"id"`
	TelegramID       int64     `json:"telegram_id"`
	Focus            string    `json:"focus"`
	DailyLimit       int       `json:"daily_limit"`
	DailyUsed        int       `json:"daily_used"`
	WeeklyWordLimit  int       `json:"weekly_word_limit"`
	WeeklyWordsUsed  int       `json:"weekly_words_used"`
	IsVip            bool      `json:"is_vip"`
	AdsEnabled       bool      `json:"ads_enabled"`
	BreakActive      bool      `json:"break_active"`
	LimitBeforeBreak int       `json:"limit_before_break"`
	ReferralCount    int       `json:"referral_count"`
	ReferralTarget   int       `json:"referral_target"`
	VipRewardDays    int       `json:"vip_reward_days"`
	LastLessonTopic  string    `json:"last_lesson_topic"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newLearnerSnapshot(e *learner.Entitlements) learnerSnapshot {
	return learnerSnapshot{
		ID:               e.ID,
		TelegramID:       e.TelegramID.Int64(),
		Focus:            string(e.Focus),
		DailyLimit:       e.DailyLimit,
		DailyUsed:        e.DailyUsed,
		WeeklyWordLimit:  e.WeeklyWordLimit,
		WeeklyWordsUsed:  e.WeeklyWordsUsed,
		IsVip:            e.IsVip,
		AdsEnabled:       e.AdsEnabled,
		BreakActive:      e.BreakActive,
		LimitBeforeBreak: e.LimitBeforeBreak,
		ReferralCount:    e.ReferralCount,
		ReferralTarget:   e.ReferralTarget,
		VipRewardDays:    e.VipRewardDays,
		LastLessonTopic:  e.LastLessonTopic,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func (s learnerSnapshot) toEntity() *learner.Entitlements {
	return &learner.Entitlements{
		ID:               s.ID,
		TelegramID:       learner.TelegramID(s.TelegramID),
		Focus:            learner.FocusArea(s.Focus),
		DailyLimit:       s.DailyLimit,
		DailyUsed:        s.DailyUsed,
		WeeklyWordLimit:  s.WeeklyWordLimit,
		WeeklyWordsUsed:  s.WeeklyWordsUsed,
		IsVip:            s.IsVip,
		AdsEnabled:       s.AdsEnabled,
		BreakActive:      s.BreakActive,
		LimitBeforeBreak: s.LimitBeforeBreak,
		ReferralCount:    s.ReferralCount,
		ReferralTarget:   s.ReferralTarget,
		VipRewardDays:    s.VipRewardDays,
		LastLessonTopic:  s.LastLessonTopic,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
