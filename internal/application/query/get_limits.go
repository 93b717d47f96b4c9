package query

import (
	"context"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LIMITS QUERY
// Компактный срез квот для виджета лимитов.
// ══════════════════════════════════════════════════════════════════════════════

// GetLimitsQuery содержит параметры запроса лимитов.
type GetLimitsQuery struct {
	// TelegramID - идентификатор ученика.
	TelegramID learner.TelegramID
}

// GetLimitsHandler обрабатывает GetLimitsQuery.
type GetLimitsHandler struct {
	sessions SessionReader
}

// NewGetLimitsHandler создаёт обработчик.
func NewGetLimitsHandler(sessions SessionReader) *GetLimitsHandler {
	return &GetLimitsHandler{sessions: sessions}
}

// Handle возвращает срез квот ученика.
func (h *GetLimitsHandler) Handle(ctx context.Context, q GetLimitsQuery) (learner.LimitsView, error) {
	e, err := h.sessions.Load(ctx, q.TelegramID)
	if err != nil {
		return learner.LimitsView{}, err
	}
	return learner.BuildLimits(e), nil
}
