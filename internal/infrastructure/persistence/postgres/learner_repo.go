package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LearnerRepository implements learner.Repository for PostgreSQL.
type LearnerRepository struct {
	conn *Connection
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(conn *Connection) *LearnerRepository {
	return &LearnerRepository{conn: conn}
}

const learnerColumns = `
	id, telegram_id, focus, daily_limit, daily_used,
	weekly_word_limit, weekly_words_used, is_vip, ads_enabled,
	break_active, limit_before_break, referral_count, referral_target,
	vip_reward_days, last_lesson_topic, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a new learner state.
func (r *LearnerRepository) Create(ctx context.Context, e *learner.Entitlements) error {
	query := `
		INSERT INTO learner_entitlements (
			id, telegram_id, focus, daily_limit, daily_used,
			weekly_word_limit, weekly_words_used, is_vip, ads_enabled,
			break_active, limit_before_break, referral_count, referral_target,
			vip_reward_days, last_lesson_topic, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		e.TelegramID.Int64(),
		string(e.Focus),
		e.DailyLimit,
		e.DailyUsed,
		e.WeeklyWordLimit,
		e.WeeklyWordsUsed,
		e.IsVip,
		e.AdsEnabled,
		e.BreakActive,
		e.LimitBeforeBreak,
		e.ReferralCount,
		e.ReferralTarget,
		e.VipRewardDays,
		e.LastLessonTopic,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return learner.ErrLearnerAlreadyExists
		}
		return fmt.Errorf("failed to create learner state: %w", err)
	}

	return nil
}

// GetByTelegramID returns the learner state for a Telegram ID.
func (r *LearnerRepository) GetByTelegramID(ctx context.Context, telegramID learner.TelegramID) (*learner.Entitlements, error) {
	query := `SELECT ` + learnerColumns + ` FROM learner_entitlements WHERE telegram_id = $1`

	row := r.conn.QueryRow(ctx, query, telegramID.Int64())
	return r.scanLearner(row)
}

// Update saves a changed learner state.
func (r *LearnerRepository) Update(ctx context.Context, e *learner.Entitlements) error {
	query := `
		UPDATE learner_entitlements SET
			focus = $2,
			daily_limit = $3,
			daily_used = $4,
			weekly_word_limit = $5,
			weekly_words_used = $6,
			is_vip = $7,
			ads_enabled = $8,
			break_active = $9,
			limit_before_break = $10,
			referral_count = $11,
			referral_target = $12,
			vip_reward_days = $13,
			last_lesson_topic = $14,
			updated_at = $15
		WHERE telegram_id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		e.TelegramID.Int64(),
		string(e.Focus),
		e.DailyLimit,
		e.DailyUsed,
		e.WeeklyWordLimit,
		e.WeeklyWordsUsed,
		e.IsVip,
		e.AdsEnabled,
		e.BreakActive,
		e.LimitBeforeBreak,
		e.ReferralCount,
		e.ReferralTarget,
		e.VipRewardDays,
		e.LastLessonTopic,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update learner state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return learner.ErrLearnerNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregates
// ─────────────────────────────────────────────────────────────────────────────

// Count returns the number of registered learners.
func (r *LearnerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM learner_entitlements`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count learners: %w", err)
	}
	return count, nil
}

// TotalDailyUsed returns the sum of lessons started today across all learners.
func (r *LearnerRepository) TotalDailyUsed(ctx context.Context) (int, error) {
	var total int
	err := r.conn.QueryRow(ctx, `SELECT COALESCE(SUM(daily_used), 0) FROM learner_entitlements`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum daily usage: %w", err)
	}
	return total, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Rollovers
// ─────────────────────────────────────────────────────────────────────────────

// resetAllDailyQuery recomputes each learner's daily limit from focus,
// with the VIP floor applied. The CASE branches must stay in sync with
// the base limits in the learner package.
const resetAllDailyQuery = `
	UPDATE learner_entitlements SET
		daily_used = 0,
		break_active = FALSE,
		limit_before_break = 0,
		daily_limit = GREATEST(
			CASE focus
				WHEN 'travel' THEN 12
				WHEN 'work' THEN 10
				WHEN 'exam' THEN 8
				WHEN 'culture' THEN 14
				ELSE 12
			END,
			CASE WHEN is_vip THEN 20 ELSE 0 END
		),
		updated_at = NOW()
`

// ResetAllDaily zeroes daily counters and clears breaks for every learner.
func (r *LearnerRepository) ResetAllDaily(ctx context.Context) (int64, error) {
	tag, err := r.conn.Exec(ctx, resetAllDailyQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to reset daily counters: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ResetAllWeekly zeroes weekly word counters for every learner.
func (r *LearnerRepository) ResetAllWeekly(ctx context.Context) (int64, error) {
	tag, err := r.conn.Exec(ctx, `
		UPDATE learner_entitlements SET weekly_words_used = 0, updated_at = NOW()
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset weekly counters: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *LearnerRepository) scanLearner(row pgx.Row) (*learner.Entitlements, error) {
	var (
		e          learner.Entitlements
		telegramID int64
		focus      string
	)

	err := row.Scan(
		&e.ID,
		&telegramID,
		&focus,
		&e.DailyLimit,
		&e.DailyUsed,
		&e.WeeklyWordLimit,
		&e.WeeklyWordsUsed,
		&e.IsVip,
		&e.AdsEnabled,
		&e.BreakActive,
		&e.LimitBeforeBreak,
		&e.ReferralCount,
		&e.ReferralTarget,
		&e.VipRewardDays,
		&e.LastLessonTopic,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, learner.ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to scan learner state: %w", err)
	}

	e.TelegramID = learner.TelegramID(telegramID)
	e.Focus = learner.FocusArea(focus)
	return &e, nil
}
