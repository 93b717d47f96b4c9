package command

import (
	"context"
	"fmt"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET FOCUS COMMAND
// Switches the learner's focus area and recomputes the daily limit.
// Unknown focus areas are rejected loudly instead of being silently ignored:
// a confirmation for a focus that was never applied misleads the learner.
// ══════════════════════════════════════════════════════════════════════════════

const msgFocusSet = "Фокус \"%s\" активирован. Лимит уроков: %d в день."

// SetFocusCommand carries the requested focus area.
type SetFocusCommand struct {
	TelegramID learner.TelegramID
	Focus      string
}

// SetFocusResult is the outward response of the focus intent.
type SetFocusResult struct {
	Message string
	Summary learner.Summary
}

// SetFocusHandler handles SetFocusCommand.
type SetFocusHandler struct {
	sessions *Sessions
	ads      AdsSwitch
}

// NewSetFocusHandler creates the handler.
func NewSetFocusHandler(sessions *Sessions, ads AdsSwitch) *SetFocusHandler {
	return &SetFocusHandler{sessions: sessions, ads: ads}
}

// Handle validates and applies the focus change.
func (h *SetFocusHandler) Handle(ctx context.Context, cmd SetFocusCommand) (*SetFocusResult, error) {
	focus := learner.FocusArea(cmd.Focus)
	if !focus.IsValid() {
		return nil, fmt.Errorf("%w: %q", learner.ErrUnknownFocus, cmd.Focus)
	}

	e, err := h.sessions.Mutate(ctx, cmd.TelegramID, func(e *learner.Entitlements) error {
		return e.SetFocus(focus)
	})
	if err != nil {
		return nil, err
	}

	return &SetFocusResult{
		Message: fmt.Sprintf(msgFocusSet, focus, e.DailyLimit),
		Summary: learner.BuildSummary(e, h.ads.AdsDisabledGlobally()),
	}, nil
}
