package command

import (
	"context"

	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE ADS GLOBAL COMMAND (admin)
// Flips the tenant-wide advertising kill switch. The per-learner preference
// is not touched: effective ad visibility is preference AND NOT override.
// ══════════════════════════════════════════════════════════════════════════════

const (
	adsGlobalOnStatus  = "реклама включена"
	adsGlobalOffStatus = "реклама выключена"

	adsGlobalOnMessage  = "Глобальная реклама включена. Пользователи увидят рекламные слоты."
	adsGlobalOffMessage = "Глобальная реклама отключена. Рекламные слоты скрыты."
)

// ToggleAdsGlobalResult is the outward response of the tenant toggle.
type ToggleAdsGlobalResult struct {
	Status  string
	Message string
	Enabled bool
}

// ToggleAdsGlobalHandler handles the tenant-wide ads toggle.
type ToggleAdsGlobalHandler struct {
	ads    AdsSwitch
	events shared.EventPublisher
}

// NewToggleAdsGlobalHandler creates the handler.
func NewToggleAdsGlobalHandler(ads AdsSwitch, events shared.EventPublisher) *ToggleAdsGlobalHandler {
	if events == nil {
		events = shared.NoopPublisher{}
	}
	return &ToggleAdsGlobalHandler{ads: ads, events: events}
}

// Handle flips the kill switch.
func (h *ToggleAdsGlobalHandler) Handle(ctx context.Context) (*ToggleAdsGlobalResult, error) {
	enabled := h.ads.ToggleGlobal()

	result := &ToggleAdsGlobalResult{Enabled: enabled}
	if enabled {
		result.Status = adsGlobalOnStatus
		result.Message = adsGlobalOnMessage
	} else {
		result.Status = adsGlobalOffStatus
		result.Message = adsGlobalOffMessage
	}

	_ = h.events.Publish(NewAdsGlobalToggledEvent(enabled))
	return result, nil
}

// AdsGlobalToggledEvent reports a flip of the tenant kill switch.
type AdsGlobalToggledEvent struct {
	shared.BaseEvent
	Enabled bool
}

// NewAdsGlobalToggledEvent creates the tenant toggle event.
func NewAdsGlobalToggledEvent(enabled bool) *AdsGlobalToggledEvent {
	return &AdsGlobalToggledEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventAdsGlobalToggled, "tenant"),
		Enabled:   enabled,
	}
}

// Payload returns the event data for serialization.
func (e *AdsGlobalToggledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"enabled": e.Enabled}
}
