package learner

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Repository - хранилище состояний учеников, ключ - Telegram ID.
// Policy-движок о механике хранения не знает: он работает только
// с сущностью, загрузку и сохранение выполняет шлюз.
type Repository interface {
	// GetByTelegramID возвращает состояние ученика.
	// Возвращает ErrLearnerNotFound, если записи нет.
	GetByTelegramID(ctx context.Context, telegramID TelegramID) (*Entitlements, error)

	// Create сохраняет состояние нового ученика.
	// Возвращает ErrLearnerAlreadyExists при конфликте.
	Create(ctx context.Context, e *Entitlements) error

	// Update сохраняет изменённое состояние.
	// Возвращает ErrLearnerNotFound, если записи нет.
	Update(ctx context.Context, e *Entitlements) error

	// Count возвращает число зарегистрированных учеников.
	Count(ctx context.Context) (int, error)

	// TotalDailyUsed возвращает суммарное число уроков, начатых сегодня
	// всеми учениками. Используется админ-сводкой.
	TotalDailyUsed(ctx context.Context) (int, error)

	// ResetAllDaily обнуляет дневные счётчики всех учеников.
	// Возвращает число затронутых записей. Используется джобой ролловера.
	ResetAllDaily(ctx context.Context) (int64, error)

	// ResetAllWeekly обнуляет недельные счётчики всех учеников.
	ResetAllWeekly(ctx context.Context) (int64, error)
}

// Cache - кеш состояний учеников поверх Repository (cache-aside).
type Cache interface {
	// Get возвращает состояние из кеша или ошибку промаха.
	Get(ctx context.Context, telegramID TelegramID) (*Entitlements, error)

	// Set кладёт состояние в кеш с указанным TTL.
	Set(ctx context.Context, e *Entitlements, ttl time.Duration) error

	// Delete инвалидирует запись кеша.
	Delete(ctx context.Context, telegramID TelegramID) error
}
