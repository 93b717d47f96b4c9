package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
	"github.com/deutschflow/deutschflow-hub/internal/domain/directory"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Карточка профиля для мини-приложения. Имя и локаль берутся из справочника
// пользователей; уровень, серия и цель - демо-дефолты каталога до тех пор,
// пока не появится настоящая аналитика прогресса.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileDTO - карточка профиля.
type ProfileDTO struct {
	Name   string `json:"name"`
	Level  string `json:"level"`
	Streak int    `json:"streak"`
	Goals  string `json:"goals"`
	Locale string `json:"locale"`
}

// GetProfileQuery содержит параметры запроса профиля.
type GetProfileQuery struct {
	// UserID - непрозрачный идентификатор из справочника. Пустой
	// идентификатор или отсутствующая запись дают гостевой профиль.
	UserID string
}

// GetProfileHandler обрабатывает GetProfileQuery.
type GetProfileHandler struct {
	users directory.Repository
}

// NewGetProfileHandler создаёт обработчик.
func NewGetProfileHandler(users directory.Repository) *GetProfileHandler {
	return &GetProfileHandler{users: users}
}

// Handle возвращает карточку профиля.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (ProfileDTO, error) {
	profile := ProfileDTO{
		Name:   catalog.DefaultProfileName,
		Level:  catalog.DefaultProfileLevel,
		Streak: catalog.DefaultProfileStreak,
		Goals:  catalog.DefaultProfileGoals,
		Locale: catalog.DefaultProfileLocale,
	}

	if q.UserID == "" {
		return profile, nil
	}

	record, err := h.users.GetByID(ctx, q.UserID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return profile, nil
		}
		return ProfileDTO{}, fmt.Errorf("load user record: %w", err)
	}

	profile.Name = record.DisplayName()
	profile.Locale = record.Locale()
	return profile, nil
}
