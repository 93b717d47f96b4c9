package command

import (
	"context"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET LIMITS COMMAND (admin)
// Manual override of the daily rollover for one learner: counters zeroed,
// break cleared, limits recomputed from focus and VIP status.
// ══════════════════════════════════════════════════════════════════════════════

const (
	resetLimitsStatus  = "лимиты сброшены"
	resetLimitsMessage = "Лимиты сброшены, обучение доступно без ограничений на сегодня."
)

// ResetLimitsCommand identifies the learner whose limits are reset.
type ResetLimitsCommand struct {
	TelegramID learner.TelegramID
}

// ResetLimitsResult is the outward response of the admin reset.
type ResetLimitsResult struct {
	Status  string
	Message string
	Summary learner.Summary
}

// ResetLimitsHandler handles ResetLimitsCommand.
type ResetLimitsHandler struct {
	sessions *Sessions
	ads      AdsSwitch
	events   shared.EventPublisher
}

// NewResetLimitsHandler creates the handler.
func NewResetLimitsHandler(sessions *Sessions, ads AdsSwitch, events shared.EventPublisher) *ResetLimitsHandler {
	if events == nil {
		events = shared.NoopPublisher{}
	}
	return &ResetLimitsHandler{sessions: sessions, ads: ads, events: events}
}

// Handle resets the learner's daily state as one unit of work.
func (h *ResetLimitsHandler) Handle(ctx context.Context, cmd ResetLimitsCommand) (*ResetLimitsResult, error) {
	e, err := h.sessions.Mutate(ctx, cmd.TelegramID, func(e *learner.Entitlements) error {
		e.ResetDaily()
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = h.events.Publish(learner.NewDailyResetEvent(e))

	return &ResetLimitsResult{
		Status:  resetLimitsStatus,
		Message: resetLimitsMessage,
		Summary: learner.BuildSummary(e, h.ads.AdsDisabledGlobally()),
	}, nil
}
