package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub job" }

func (j *stubJob) Run(_ context.Context) error {
	j.runs.Add(1)
	return j.err
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	cfg := DefaultSchedulerConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScheduler(cfg)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := newTestScheduler(t)
	job := &stubJob{name: "daily_rollover"}

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	err := s.Register(job, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestRegisterRejectsNil(t *testing.T) {
	s := newTestScheduler(t)

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&stubJob{name: "x"}, nil), ErrNilSchedule)
}

func TestRunNowExecutesJob(t *testing.T) {
	s := newTestScheduler(t)
	job := &stubJob{name: "weekly_rollover"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "weekly_rollover")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.EqualValues(t, 1, job.runs.Load())

	info, err := s.GetJobInfo("weekly_rollover")
	require.NoError(t, err)
	assert.NotNil(t, info.LastResult)
}

func TestRunNowPropagatesJobError(t *testing.T) {
	s := newTestScheduler(t)
	jobErr := errors.New("database unavailable")
	job := &stubJob{name: "daily_rollover", err: jobErr}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "daily_rollover")

	assert.ErrorIs(t, err, jobErr)
	assert.False(t, result.Success)

	snap := s.GetMetrics().Snapshot()
	assert.EqualValues(t, 1, snap.TotalFailures)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStartAndStop(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestDisableJobStopsScheduling(t *testing.T) {
	s := newTestScheduler(t)
	job := &stubJob{name: "daily_rollover"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.DisableJob("daily_rollover"))

	info, err := s.GetJobInfo("daily_rollover")
	require.NoError(t, err)
	assert.False(t, info.Enabled)

	require.NoError(t, s.EnableJob("daily_rollover"))
	info, err = s.GetJobInfo("daily_rollover")
	require.NoError(t, err)
	assert.True(t, info.Enabled)
}

func TestIntervalScheduleNext(t *testing.T) {
	sched := NewIntervalSchedule(30 * time.Minute)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(30*time.Minute), sched.Next(base))
	assert.Equal(t, "@every 30m0s", sched.String())
}

func TestParseCronExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		ok   bool
	}{
		{"daily midnight", "0 0 * * *", true},
		{"weekly monday", "0 0 * * 1", true},
		{"every five minutes", "*/5 * * * *", true},
		{"list and range", "0,30 9-17 * * 1-5", true},
		{"too few fields", "0 0 * *", false},
		{"minute out of range", "61 0 * * *", false},
		{"garbage", "tick tock * * *", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCronExpression(tt.expr)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCronExpressionNext(t *testing.T) {
	// Wednesday 2025-03-12 15:30 UTC
	base := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

	daily := MustParseCronExpression("0 0 * * *")
	next := daily.Next(base)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), next)

	weekly := MustParseCronExpression("0 0 * * 1")
	next = weekly.Next(base)
	assert.Equal(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), next)
	assert.Equal(t, time.Monday, next.Weekday())
}

func TestCronExpressionImplementsSchedule(t *testing.T) {
	var _ Schedule = MustParseCronExpression("0 0 * * *")
}

func TestMustParseCronExpressionPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustParseCronExpression("not a cron")
	})
}
