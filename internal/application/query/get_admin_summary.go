package query

import (
	"context"
	"fmt"

	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
	"github.com/deutschflow/deutschflow-hub/internal/domain/directory"
	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ADMIN SUMMARY QUERY
// Операционная сводка для админ-панели: пользователи, уроки за сегодня,
// состояние глобальной рекламы. Retention и конверсия пока статические
// демо-значения каталога.
// ══════════════════════════════════════════════════════════════════════════════

// GetAdminSummaryHandler обрабатывает запрос админ-сводки.
type GetAdminSummaryHandler struct {
	learners learner.Repository
	users    directory.Repository
	ads      AdsState
}

// NewGetAdminSummaryHandler создаёт обработчик.
func NewGetAdminSummaryHandler(learners learner.Repository, users directory.Repository, ads AdsState) *GetAdminSummaryHandler {
	return &GetAdminSummaryHandler{learners: learners, users: users, ads: ads}
}

// Handle возвращает админ-сводку.
func (h *GetAdminSummaryHandler) Handle(ctx context.Context) (catalog.AdminStats, error) {
	userCount, err := h.users.Count(ctx)
	if err != nil {
		return catalog.AdminStats{}, fmt.Errorf("count users: %w", err)
	}

	lessonsToday, err := h.learners.TotalDailyUsed(ctx)
	if err != nil {
		return catalog.AdminStats{}, fmt.Errorf("sum daily lessons: %w", err)
	}

	return catalog.BuildAdminStats(userCount, lessonsToday, !h.ads.AdsDisabledGlobally()), nil
}
