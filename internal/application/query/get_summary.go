// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SUMMARY QUERY
// Возвращает сводку состояния ученика: дневной и недельный прогресс,
// VIP-статус, реклама, рефералы. Первый запрос незнакомого ученика
// создаёт состояние с дефолтами нового пользователя.
// ══════════════════════════════════════════════════════════════════════════════

// SessionReader загружает состояние ученика, создавая его при первом
// обращении. Реализуется шлюзом сессий из пакета command.
type SessionReader interface {
	Load(ctx context.Context, id learner.TelegramID) (*learner.Entitlements, error)
}

// AdsState - состояние глобального рекламного переключателя.
type AdsState interface {
	AdsDisabledGlobally() bool
}

// GetSummaryQuery содержит параметры запроса сводки.
type GetSummaryQuery struct {
	// TelegramID - идентификатор ученика.
	TelegramID learner.TelegramID
}

// GetSummaryHandler обрабатывает GetSummaryQuery.
type GetSummaryHandler struct {
	sessions SessionReader
	ads      AdsState
}

// NewGetSummaryHandler создаёт обработчик.
func NewGetSummaryHandler(sessions SessionReader, ads AdsState) *GetSummaryHandler {
	return &GetSummaryHandler{sessions: sessions, ads: ads}
}

// Handle возвращает сводку ученика.
func (h *GetSummaryHandler) Handle(ctx context.Context, q GetSummaryQuery) (learner.Summary, error) {
	e, err := h.sessions.Load(ctx, q.TelegramID)
	if err != nil {
		return learner.Summary{}, err
	}
	return learner.BuildSummary(e, h.ads.AdsDisabledGlobally()), nil
}
