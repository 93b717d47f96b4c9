package directory

import "context"

// Repository - keyed-хранилище справочника пользователей.
// Заменяет плоский файл со списком: upsert по идентификатору,
// синхронная запись до ответа клиенту.
type Repository interface {
	// Upsert создаёт или обновляет запись по идентификатору и
	// возвращает актуальное состояние записи.
	Upsert(ctx context.Context, record *UserRecord) (*UserRecord, error)

	// GetByID возвращает запись пользователя.
	// Возвращает ErrUserNotFound, если записи нет.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// Count возвращает число пользователей в справочнике.
	Count(ctx context.Context) (int, error)
}
