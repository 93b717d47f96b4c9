package query

import (
	"context"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REFERRAL STATUS QUERY
// Прогресс реферальной программы: приглашено / цель / размер награды.
// ══════════════════════════════════════════════════════════════════════════════

// GetReferralStatusQuery содержит параметры запроса.
type GetReferralStatusQuery struct {
	// TelegramID - идентификатор ученика.
	TelegramID learner.TelegramID
}

// GetReferralStatusHandler обрабатывает GetReferralStatusQuery.
type GetReferralStatusHandler struct {
	sessions SessionReader
}

// NewGetReferralStatusHandler создаёт обработчик.
func NewGetReferralStatusHandler(sessions SessionReader) *GetReferralStatusHandler {
	return &GetReferralStatusHandler{sessions: sessions}
}

// Handle возвращает реферальный статус ученика.
func (h *GetReferralStatusHandler) Handle(ctx context.Context, q GetReferralStatusQuery) (learner.ReferralView, error) {
	e, err := h.sessions.Load(ctx, q.TelegramID)
	if err != nil {
		return learner.ReferralView{}, err
	}
	return learner.BuildReferral(e), nil
}
