package learner

import (
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN EVENTS
// ══════════════════════════════════════════════════════════════════════════════

// LessonStartedEvent публикуется при успешном старте урока.
type LessonStartedEvent struct {
	shared.BaseEvent
	TelegramID TelegramID
	Topic      string
	DailyUsed  int
	DailyLimit int
}

// NewLessonStartedEvent создаёт событие старта урока.
func NewLessonStartedEvent(e *Entitlements) *LessonStartedEvent {
	return &LessonStartedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventLessonStarted, e.ID),
		TelegramID: e.TelegramID,
		Topic:      e.LastLessonTopic,
		DailyUsed:  e.DailyUsed,
		DailyLimit: e.DailyLimit,
	}
}

// Payload возвращает данные события для сериализации.
func (e *LessonStartedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id": e.TelegramID.Int64(),
		"topic":       e.Topic,
		"daily_used":  e.DailyUsed,
		"daily_limit": e.DailyLimit,
	}
}

// VipActivatedEvent публикуется при активации VIP (оплата или награда).
type VipActivatedEvent struct {
	shared.BaseEvent
	TelegramID TelegramID
	Source     string // "payment" или "referral_reward"
}

// NewVipActivatedEvent создаёт событие активации VIP.
func NewVipActivatedEvent(e *Entitlements, source string) *VipActivatedEvent {
	return &VipActivatedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventVipActivated, e.ID),
		TelegramID: e.TelegramID,
		Source:     source,
	}
}

// Payload возвращает данные события для сериализации.
func (e *VipActivatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id": e.TelegramID.Int64(),
		"source":      e.Source,
	}
}

// BreakScheduledEvent публикуется при планировании перерыва.
type BreakScheduledEvent struct {
	shared.BaseEvent
	TelegramID   TelegramID
	ReducedLimit int
}

// NewBreakScheduledEvent создаёт событие планирования перерыва.
func NewBreakScheduledEvent(e *Entitlements) *BreakScheduledEvent {
	return &BreakScheduledEvent{
		BaseEvent:    shared.NewBaseEvent(shared.EventBreakScheduled, e.ID),
		TelegramID:   e.TelegramID,
		ReducedLimit: e.DailyLimit,
	}
}

// Payload возвращает данные события для сериализации.
func (e *BreakScheduledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id":   e.TelegramID.Int64(),
		"reduced_limit": e.ReducedLimit,
	}
}

// LearningResumedEvent публикуется при завершении перерыва.
type LearningResumedEvent struct {
	shared.BaseEvent
	TelegramID    TelegramID
	RestoredLimit int
}

// NewLearningResumedEvent создаёт событие завершения перерыва.
func NewLearningResumedEvent(e *Entitlements) *LearningResumedEvent {
	return &LearningResumedEvent{
		BaseEvent:     shared.NewBaseEvent(shared.EventLearningResumed, e.ID),
		TelegramID:    e.TelegramID,
		RestoredLimit: e.DailyLimit,
	}
}

// Payload возвращает данные события для сериализации.
func (e *LearningResumedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id":    e.TelegramID.Int64(),
		"restored_limit": e.RestoredLimit,
	}
}

// AdsToggledEvent публикуется при переключении персональной рекламы.
type AdsToggledEvent struct {
	shared.BaseEvent
	TelegramID TelegramID
	Enabled    bool
}

// NewAdsToggledEvent создаёт событие переключения рекламы.
func NewAdsToggledEvent(e *Entitlements) *AdsToggledEvent {
	return &AdsToggledEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventAdsToggled, e.ID),
		TelegramID: e.TelegramID,
		Enabled:    e.AdsEnabled,
	}
}

// Payload возвращает данные события для сериализации.
func (e *AdsToggledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id": e.TelegramID.Int64(),
		"enabled":     e.Enabled,
	}
}

// DailyResetEvent публикуется при ручном сбросе дневных лимитов.
type DailyResetEvent struct {
	shared.BaseEvent
	TelegramID TelegramID
	DailyLimit int
}

// NewDailyResetEvent создаёт событие сброса дневных лимитов.
func NewDailyResetEvent(e *Entitlements) *DailyResetEvent {
	return &DailyResetEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventDailyReset, e.ID),
		TelegramID: e.TelegramID,
		DailyLimit: e.DailyLimit,
	}
}

// Payload возвращает данные события для сериализации.
func (e *DailyResetEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id": e.TelegramID.Int64(),
		"daily_limit": e.DailyLimit,
	}
}

// QuotaRolloverEvent публикуется после планового сброса квот по всем ученикам.
type QuotaRolloverEvent struct {
	shared.BaseEvent
	Affected int64
}

// NewDailyRolloverEvent создаёт событие дневного ролловера.
func NewDailyRolloverEvent(affected int64) *QuotaRolloverEvent {
	return &QuotaRolloverEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventDailyReset, "entitlements"),
		Affected:  affected,
	}
}

// NewWeeklyRolloverEvent создаёт событие недельного ролловера.
func NewWeeklyRolloverEvent(affected int64) *QuotaRolloverEvent {
	return &QuotaRolloverEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventWeeklyReset, "entitlements"),
		Affected:  affected,
	}
}

// Payload возвращает данные события для сериализации.
func (e *QuotaRolloverEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"affected": e.Affected,
	}
}

// ReferralRewardGrantedEvent публикуется при достижении реферальной цели.
type ReferralRewardGrantedEvent struct {
	shared.BaseEvent
	TelegramID TelegramID
	RewardDays int
}

// NewReferralRewardGrantedEvent создаёт событие выдачи награды.
func NewReferralRewardGrantedEvent(e *Entitlements) *ReferralRewardGrantedEvent {
	return &ReferralRewardGrantedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventReferralRewardGranted, e.ID),
		TelegramID: e.TelegramID,
		RewardDays: e.VipRewardDays,
	}
}

// Payload возвращает данные события для сериализации.
func (e *ReferralRewardGrantedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"telegram_id": e.TelegramID.Int64(),
		"reward_days": e.RewardDays,
	}
}
