package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deutschflow/deutschflow-hub/internal/domain/directory"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements directory.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Upsert creates or refreshes a user record and returns the stored row.
func (r *UserRepository) Upsert(ctx context.Context, record *directory.UserRecord) (*directory.UserRecord, error) {
	query := `
		INSERT INTO users (id, first_name, last_name, username, language_code, last_seen_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			username = EXCLUDED.username,
			language_code = EXCLUDED.language_code,
			last_seen_at = EXCLUDED.last_seen_at,
			updated_at = NOW()
		RETURNING id, first_name, last_name, username, language_code, last_seen_at, created_at, updated_at
	`

	row := r.conn.QueryRow(ctx, query,
		record.ID,
		record.FirstName,
		record.LastName,
		record.Username,
		record.LanguageCode,
		record.LastSeenAt,
		record.CreatedAt,
		record.UpdatedAt,
	)

	saved, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return saved, nil
}

// GetByID returns a user record by its opaque identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*directory.UserRecord, error) {
	query := `
		SELECT id, first_name, last_name, username, language_code, last_seen_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	record, err := scanUser(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, directory.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return record, nil
}

// Count returns the number of users in the directory.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (*directory.UserRecord, error) {
	var record directory.UserRecord
	err := row.Scan(
		&record.ID,
		&record.FirstName,
		&record.LastName,
		&record.Username,
		&record.LanguageCode,
		&record.LastSeenAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
