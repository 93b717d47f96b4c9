package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
	"github.com/deutschflow/deutschflow-hub/pkg/timeutil"
)

type stubRepo struct {
	learner.Repository

	dailyAffected  int64
	weeklyAffected int64
	err            error
}

func (r *stubRepo) ResetAllDaily(_ context.Context) (int64, error) {
	return r.dailyAffected, r.err
}

func (r *stubRepo) ResetAllWeekly(_ context.Context) (int64, error) {
	return r.weeklyAffected, r.err
}

type recordingBus struct {
	events []shared.Event
}

func (b *recordingBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDailyRolloverResetsAndPublishes(t *testing.T) {
	repo := &stubRepo{dailyAffected: 42}
	bus := &recordingBus{}
	job := NewDailyRolloverJob(repo, bus, discardLogger(), time.Minute)

	require.NoError(t, job.Run(context.Background()))

	assert.EqualValues(t, 42, job.LastAffected())
	require.Len(t, bus.events, 1)
	assert.Equal(t, shared.EventDailyReset, bus.events[0].EventType())

	rollover, ok := bus.events[0].(*learner.QuotaRolloverEvent)
	require.True(t, ok)
	assert.EqualValues(t, 42, rollover.Affected)
}

func TestDailyRolloverPropagatesRepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	repo := &stubRepo{err: repoErr}
	bus := &recordingBus{}
	job := NewDailyRolloverJob(repo, bus, discardLogger(), time.Minute)

	err := job.Run(context.Background())

	assert.ErrorIs(t, err, repoErr)
	assert.Empty(t, bus.events)
}

func TestWeeklyRolloverResetsAndPublishes(t *testing.T) {
	repo := &stubRepo{weeklyAffected: 17}
	bus := &recordingBus{}
	job := NewWeeklyRolloverJob(repo, bus, discardLogger(), time.Minute)

	require.NoError(t, job.Run(context.Background()))

	assert.EqualValues(t, 17, job.LastAffected())
	require.Len(t, bus.events, 1)
	assert.Equal(t, shared.EventWeeklyReset, bus.events[0].EventType())
}

func TestRolloverJobsWorkWithoutEventBus(t *testing.T) {
	repo := &stubRepo{dailyAffected: 3, weeklyAffected: 3}

	require.NoError(t, NewDailyRolloverJob(repo, nil, discardLogger(), time.Minute).Run(context.Background()))
	require.NoError(t, NewWeeklyRolloverJob(repo, nil, discardLogger(), time.Minute).Run(context.Background()))
}

func TestRolloverBoundariesAreBerlinMidnights(t *testing.T) {
	repo := &stubRepo{}
	daily := NewDailyRolloverJob(repo, nil, discardLogger(), time.Minute)
	weekly := NewWeeklyRolloverJob(repo, nil, discardLogger(), time.Minute)

	// Wednesday evening in Berlin.
	now := time.Date(2025, 6, 11, 21, 15, 0, 0, timeutil.BerlinTZ)

	next := daily.NextBoundary(now)
	assert.Equal(t, 12, next.Day())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, timeutil.BerlinTZ, next.Location())

	weekStart := weekly.NextBoundary(now)
	assert.Equal(t, time.Monday, weekStart.Weekday())
	assert.Equal(t, 16, weekStart.Day())
	assert.Equal(t, 0, weekStart.Hour())
}

func TestRolloverJobNames(t *testing.T) {
	repo := &stubRepo{}

	daily := NewDailyRolloverJob(repo, nil, nil, 0)
	assert.Equal(t, "daily_rollover", daily.Name())
	assert.NotEmpty(t, daily.Description())

	weekly := NewWeeklyRolloverJob(repo, nil, nil, 0)
	assert.Equal(t, "weekly_rollover", weekly.Name())
	assert.NotEmpty(t, weekly.Description())
}
