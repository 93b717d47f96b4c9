// Package learner содержит доменную модель ученика DeutschFlow.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package learner

import (
	"errors"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// TelegramID представляет уникальный идентификатор пользователя Telegram.
type TelegramID int64

// IsValid проверяет, что TelegramID положительный.
func (t TelegramID) IsValid() bool {
	return t > 0
}

// Int64 возвращает числовое значение идентификатора.
func (t TelegramID) Int64() int64 {
	return int64(t)
}

// FocusArea представляет учебный трек, задающий базовый дневной лимит уроков.
type FocusArea string

const (
	// FocusTravel - немецкий для путешествий.
	FocusTravel FocusArea = "travel"
	// FocusWork - деловой немецкий.
	FocusWork FocusArea = "work"
	// FocusExam - подготовка к экзаменам (Goethe, TestDaF).
	FocusExam FocusArea = "exam"
	// FocusCulture - язык через культуру и медиа.
	FocusCulture FocusArea = "culture"
)

// focusBaseLimits - базовые дневные лимиты уроков по трекам.
var focusBaseLimits = map[FocusArea]int{
	FocusTravel:  12,
	FocusWork:    10,
	FocusExam:    8,
	FocusCulture: 14,
}

// IsValid проверяет, что фокус-трек известен системе.
func (f FocusArea) IsValid() bool {
	_, ok := focusBaseLimits[f]
	return ok
}

// BaseDailyLimit возвращает базовый дневной лимит уроков для трека.
// Для неизвестного трека возвращается лимит трека по умолчанию.
func (f FocusArea) BaseDailyLimit() int {
	if limit, ok := focusBaseLimits[f]; ok {
		return limit
	}
	return focusBaseLimits[FocusTravel]
}

// String возвращает строковое представление трека.
func (f FocusArea) String() string {
	return string(f)
}

// ══════════════════════════════════════════════════════════════════════════════
// POLICY CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// VipDailyFloor - минимальный дневной лимит уроков для VIP.
	VipDailyFloor = 20

	// BreakMinLimit - нижняя граница лимита во время перерыва.
	BreakMinLimit = 6

	// BreakFactor - множитель снижения лимита при перерыве.
	BreakFactor = 0.6

	// ResumeFloor - минимальный лимит после завершения перерыва.
	ResumeFloor = 12

	// WordsPerLesson - сколько слов недельной квоты расходует один урок.
	WordsPerLesson = 3

	// DefaultWeeklyWordLimit - недельная квота слов по умолчанию.
	DefaultWeeklyWordLimit = 50

	// DefaultReferralTarget - сколько друзей нужно пригласить для награды.
	DefaultReferralTarget = 10

	// DefaultVipRewardDays - сколько дней VIP даётся за реферальную награду.
	DefaultVipRewardDays = 30
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidTelegramID - невалидный Telegram ID.
	ErrInvalidTelegramID = errors.New("invalid telegram id: must be positive")

	// ErrUnknownFocus - неизвестный фокус-трек.
	ErrUnknownFocus = errors.New("unknown focus area")

	// ErrUnknownAction - неизвестное действие пользователя.
	ErrUnknownAction = errors.New("unknown action")

	// ErrLearnerNotFound - ученик не найден.
	ErrLearnerNotFound = errors.New("learner not found")

	// ErrLearnerAlreadyExists - ученик уже существует.
	ErrLearnerAlreadyExists = errors.New("learner already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ENTITLEMENTS
// ══════════════════════════════════════════════════════════════════════════════

// Entitlements - авторитетное состояние квот и привилегий одного ученика.
// Все переходы состояния выполняются методами сущности, см. policy-методы ниже.
type Entitlements struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// TelegramID - идентификатор пользователя в Telegram.
	TelegramID TelegramID

	// Focus - текущий учебный трек.
	Focus FocusArea

	// DailyLimit - сколько уроков доступно сегодня.
	DailyLimit int

	// DailyUsed - сколько уроков уже пройдено сегодня.
	DailyUsed int

	// WeeklyWordLimit - недельная квота новых слов.
	WeeklyWordLimit int

	// WeeklyWordsUsed - сколько слов квоты израсходовано за неделю.
	WeeklyWordsUsed int

	// IsVip - активна ли VIP-подписка.
	IsVip bool

	// AdsEnabled - личная настройка показа рекламы.
	// Итоговая видимость также зависит от глобального переключателя тенанта.
	AdsEnabled bool

	// BreakActive - запланирован ли перерыв в обучении.
	BreakActive bool

	// LimitBeforeBreak - снимок дневного лимита до перерыва.
	// Нужен для симметричного восстановления лимита при возврате.
	LimitBeforeBreak int

	// ReferralCount - сколько друзей приглашено.
	ReferralCount int

	// ReferralTarget - сколько приглашений нужно для награды.
	ReferralTarget int

	// VipRewardDays - сколько дней VIP даётся за реферальную награду.
	VipRewardDays int

	// LastLessonTopic - тема последнего урока (косметика для UI).
	LastLessonTopic string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewEntitlements создаёт состояние нового ученика со стартовыми значениями.
// Стартовые значения повторяют онбординг-профиль продукта: часть дневной
// квоты уже "израсходована" демо-уроками, есть стартовый реферальный прогресс.
func NewEntitlements(id string, telegramID TelegramID) (*Entitlements, error) {
	if id == "" {
		return nil, errors.New("learner id is required")
	}
	if !telegramID.IsValid() {
		return nil, ErrInvalidTelegramID
	}

	now := time.Now().UTC()

	return &Entitlements{
		ID:              id,
		TelegramID:      telegramID,
		Focus:           FocusTravel,
		DailyLimit:      FocusTravel.BaseDailyLimit(),
		DailyUsed:       7,
		WeeklyWordLimit: DefaultWeeklyWordLimit,
		WeeklyWordsUsed: 34,
		IsVip:           false,
		AdsEnabled:      true,
		BreakActive:     false,
		ReferralCount:   3,
		ReferralTarget:  DefaultReferralTarget,
		VipRewardDays:   DefaultVipRewardDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// String возвращает строковое представление для логирования.
func (e *Entitlements) String() string {
	return fmt.Sprintf(
		"Entitlements{ID: %s, TG: %d, Focus: %s, Daily: %d/%d, VIP: %t, Break: %t}",
		e.ID, e.TelegramID, e.Focus, e.DailyUsed, e.DailyLimit, e.IsVip, e.BreakActive,
	)
}

// Clone создаёт копию состояния для безопасной сериализации снапшота.
func (e *Entitlements) Clone() *Entitlements {
	if e == nil {
		return nil
	}

	clone := *e
	return &clone
}

// touch обновляет время последнего изменения.
func (e *Entitlements) touch() {
	e.UpdatedAt = time.Now().UTC()
}
