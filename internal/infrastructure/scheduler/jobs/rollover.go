// Package jobs contains implementations of scheduled jobs for DeutschFlow Hub.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
	"github.com/deutschflow/deutschflow-hub/pkg/timeutil"
)

// Cron schedules for the rollover jobs. Midnight in the scheduler's timezone;
// the weekly reset fires on Monday.
const (
	DailyRolloverSchedule  = "0 0 * * *"
	WeeklyRolloverSchedule = "0 0 * * 1"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY ROLLOVER JOB
// ══════════════════════════════════════════════════════════════════════════════

// DailyRolloverJob resets the daily lesson counters for every learner.
// The repository recomputes each learner's daily limit from their focus
// (with the VIP floor applied) and clears any scheduled break, so learners
// start the new day at full quota. The resetLimits admin action remains the
// manual per-learner override.
type DailyRolloverJob struct {
	repo    learner.Repository
	events  shared.EventPublisher
	logger  *slog.Logger
	timeout time.Duration

	lastAffected atomic.Int64
}

// NewDailyRolloverJob creates a new daily rollover job.
func NewDailyRolloverJob(
	repo learner.Repository,
	events shared.EventPublisher,
	logger *slog.Logger,
	timeout time.Duration,
) *DailyRolloverJob {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &DailyRolloverJob{
		repo:    repo,
		events:  events,
		logger:  logger,
		timeout: timeout,
	}
}

// Name returns the job name.
func (j *DailyRolloverJob) Name() string {
	return "daily_rollover"
}

// Description returns a human-readable description.
func (j *DailyRolloverJob) Description() string {
	return "Resets daily lesson counters and restores full limits for all learners"
}

// Run executes the daily rollover.
func (j *DailyRolloverJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	affected, err := j.repo.ResetAllDaily(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset daily counters: %w", err)
	}

	j.lastAffected.Store(affected)

	if j.events != nil {
		if err := j.events.Publish(learner.NewDailyRolloverEvent(affected)); err != nil {
			j.logger.Warn("failed to publish daily rollover event", "error", err)
		}
	}

	j.logger.Info("daily rollover completed",
		"learners_reset", affected,
		"next_rollover", j.NextBoundary(timeutil.Now()),
	)
	return nil
}

// NextBoundary returns the next daily rollover boundary after the given
// time: German midnight. The cron schedule must fire at this instant.
func (j *DailyRolloverJob) NextBoundary(after time.Time) time.Time {
	return timeutil.NextMidnight(after)
}

// LastAffected returns how many learners the last run reset.
func (j *DailyRolloverJob) LastAffected() int64 {
	return j.lastAffected.Load()
}

// ══════════════════════════════════════════════════════════════════════════════
// WEEKLY ROLLOVER JOB
// ══════════════════════════════════════════════════════════════════════════════

// WeeklyRolloverJob resets the weekly word counters for every learner.
type WeeklyRolloverJob struct {
	repo    learner.Repository
	events  shared.EventPublisher
	logger  *slog.Logger
	timeout time.Duration

	lastAffected atomic.Int64
}

// NewWeeklyRolloverJob creates a new weekly rollover job.
func NewWeeklyRolloverJob(
	repo learner.Repository,
	events shared.EventPublisher,
	logger *slog.Logger,
	timeout time.Duration,
) *WeeklyRolloverJob {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &WeeklyRolloverJob{
		repo:    repo,
		events:  events,
		logger:  logger,
		timeout: timeout,
	}
}

// Name returns the job name.
func (j *WeeklyRolloverJob) Name() string {
	return "weekly_rollover"
}

// Description returns a human-readable description.
func (j *WeeklyRolloverJob) Description() string {
	return "Resets weekly word counters for all learners"
}

// Run executes the weekly rollover.
func (j *WeeklyRolloverJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	affected, err := j.repo.ResetAllWeekly(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset weekly counters: %w", err)
	}

	j.lastAffected.Store(affected)

	if j.events != nil {
		if err := j.events.Publish(learner.NewWeeklyRolloverEvent(affected)); err != nil {
			j.logger.Warn("failed to publish weekly rollover event", "error", err)
		}
	}

	j.logger.Info("weekly rollover completed",
		"learners_reset", affected,
		"next_rollover", j.NextBoundary(timeutil.Now()),
	)
	return nil
}

// NextBoundary returns the next weekly rollover boundary after the given
// time: Monday midnight in Berlin.
func (j *WeeklyRolloverJob) NextBoundary(after time.Time) time.Time {
	return timeutil.NextWeekStart(after)
}

// LastAffected returns how many learners the last run reset.
func (j *WeeklyRolloverJob) LastAffected() int64 {
	return j.lastAffected.Load()
}
