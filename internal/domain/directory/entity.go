// Package directory содержит модель справочника пользователей мини-приложения.
// Справочник хранит внешние Telegram-профили по непрозрачному идентификатору,
// который выдаёт платформа; policy-движок об этом пакете не знает.
package directory

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrUserNotFound - пользователь не найден в справочнике.
	ErrUserNotFound = errors.New("directory user not found")

	// ErrInvalidUserID - пустой идентификатор пользователя.
	ErrInvalidUserID = errors.New("directory user id is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// UserRecord - запись пользователя в справочнике.
type UserRecord struct {
	// ID - непрозрачный идентификатор от платформы (Telegram user id
	// в строковом виде либо сгенерированный "guest-..." идентификатор).
	ID string `json:"id"`

	// FirstName - имя пользователя.
	FirstName string `json:"first_name"`

	// LastName - фамилия пользователя.
	LastName string `json:"last_name"`

	// Username - @username в Telegram.
	Username string `json:"username"`

	// LanguageCode - код языка клиента (ru, en, de...).
	LanguageCode string `json:"language_code"`

	// LastSeenAt - время последнего визита.
	LastSeenAt time.Time `json:"last_seen"`

	// CreatedAt - время первой регистрации.
	CreatedAt time.Time `json:"-"`

	// UpdatedAt - время последнего обновления записи.
	UpdatedAt time.Time `json:"-"`
}

// NewUserRecord создаёт запись пользователя с нормализацией полей.
// Пустое имя заменяется гостевым, пустой язык - русским.
func NewUserRecord(id, firstName, lastName, username, languageCode string) (*UserRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidUserID
	}

	if strings.TrimSpace(firstName) == "" {
		firstName = "Гость"
	}
	if languageCode == "" {
		languageCode = "ru"
	}

	now := time.Now().UTC()

	return &UserRecord{
		ID:           id,
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		LanguageCode: strings.ToLower(languageCode),
		LastSeenAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Seen отмечает визит пользователя.
func (u *UserRecord) Seen() {
	u.LastSeenAt = time.Now().UTC()
	u.UpdatedAt = u.LastSeenAt
}

// DisplayName возвращает имя для профиля.
func (u *UserRecord) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Гость"
}

// Locale возвращает код языка в верхнем регистре для профиля.
func (u *UserRecord) Locale() string {
	if u.LanguageCode == "" {
		return "RU"
	}
	return strings.ToUpper(u.LanguageCode)
}
