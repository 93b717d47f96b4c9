package command

import (
	"context"
	"fmt"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVOKE ACTION COMMAND
// Dispatches named learner actions: ads toggle, VIP purchase, break
// scheduling, break resume and referral progression. Unknown action names
// are a client error; the state stays untouched.
// ══════════════════════════════════════════════════════════════════════════════

// Action names accepted from the client.
const (
	ActionToggleAds      = "toggleAds"
	ActionPayVip         = "payVip"
	ActionScheduleBreak  = "scheduleBreak"
	ActionResumeLearning = "resumeLearning"
	ActionAddReferral    = "addReferral"
)

// Response templates for learner actions.
const (
	msgAdsEnabled  = "Реклама включена. Лимиты остаются базовыми."
	msgAdsDisabled = "Реклама отключена. Доступно больше фокуса на уроках."
	msgVipPaid     = "VIP активирован. Лимиты расширены, реклама отключена."
	msgBreakSet    = "Перерыв запланирован. Напомним, когда стоит вернуться к занятиям."
	msgResumed     = "Перерыв завершён. Лимиты восстановлены."
	msgReward      = "Готово! Вы получили VIP на %d дней."
	msgProgress    = "Приглашено друзей: %d/%d."
)

// InvokeActionCommand names the action to apply for the learner.
type InvokeActionCommand struct {
	TelegramID learner.TelegramID
	Action     string
}

// InvokeActionResult is the outward response of a learner action.
type InvokeActionResult struct {
	Message string
	Summary learner.Summary
}

// InvokeActionHandler handles InvokeActionCommand.
type InvokeActionHandler struct {
	sessions *Sessions
	ads      AdsSwitch
	events   shared.EventPublisher
}

// NewInvokeActionHandler creates the handler.
func NewInvokeActionHandler(sessions *Sessions, ads AdsSwitch, events shared.EventPublisher) *InvokeActionHandler {
	if events == nil {
		events = shared.NoopPublisher{}
	}
	return &InvokeActionHandler{sessions: sessions, ads: ads, events: events}
}

// Handle validates the action name and applies the matching transition.
func (h *InvokeActionHandler) Handle(ctx context.Context, cmd InvokeActionCommand) (*InvokeActionResult, error) {
	switch cmd.Action {
	case ActionToggleAds, ActionPayVip, ActionScheduleBreak, ActionResumeLearning, ActionAddReferral:
	default:
		return nil, fmt.Errorf("%w: %q", learner.ErrUnknownAction, cmd.Action)
	}

	var (
		message string
		event   shared.Event
	)

	e, err := h.sessions.Mutate(ctx, cmd.TelegramID, func(e *learner.Entitlements) error {
		switch cmd.Action {
		case ActionToggleAds:
			if e.ToggleAds() {
				message = msgAdsEnabled
			} else {
				message = msgAdsDisabled
			}
			event = learner.NewAdsToggledEvent(e)
		case ActionPayVip:
			e.PayVip()
			message = msgVipPaid
			event = learner.NewVipActivatedEvent(e, "payment")
		case ActionScheduleBreak:
			e.ScheduleBreak()
			message = msgBreakSet
			event = learner.NewBreakScheduledEvent(e)
		case ActionResumeLearning:
			e.ResumeLearning()
			message = msgResumed
			event = learner.NewLearningResumedEvent(e)
		case ActionAddReferral:
			if e.AddReferral() == learner.ReferralRewardGranted {
				message = fmt.Sprintf(msgReward, e.VipRewardDays)
				event = learner.NewReferralRewardGrantedEvent(e)
			} else {
				message = fmt.Sprintf(msgProgress, e.ReferralCount, e.ReferralTarget)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if event != nil {
		_ = h.events.Publish(event)
	}

	return &InvokeActionResult{
		Message: message,
		Summary: learner.BuildSummary(e, h.ads.AdsDisabledGlobally()),
	}, nil
}
