package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschflow/deutschflow-hub/internal/domain/directory"
	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeSessions struct {
	e   *learner.Entitlements
	err error
}

func (f *fakeSessions) Load(_ context.Context, id learner.TelegramID) (*learner.Entitlements, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.e, nil
}

type fakeAdsState bool

func (f fakeAdsState) AdsDisabledGlobally() bool { return bool(f) }

type fakeUsers struct {
	records map[string]*directory.UserRecord
	count   int
	err     error
}

func (f *fakeUsers) Upsert(_ context.Context, record *directory.UserRecord) (*directory.UserRecord, error) {
	return record, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*directory.UserRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[id]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	return record, nil
}

func (f *fakeUsers) Count(_ context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

type fakeLearners struct {
	learner.Repository
	totalDaily int
}

func (f *fakeLearners) TotalDailyUsed(_ context.Context) (int, error) {
	return f.totalDaily, nil
}

func newStoredEntitlements(t *testing.T) *learner.Entitlements {
	t.Helper()
	e, err := learner.NewEntitlements("test-id", 700100)
	require.NoError(t, err)
	return e
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestGetSummaryHandler_NewUserDefaults(t *testing.T) {
	h := NewGetSummaryHandler(&fakeSessions{e: newStoredEntitlements(t)}, fakeAdsState(false))

	summary, err := h.Handle(context.Background(), GetSummaryQuery{TelegramID: 700100})
	require.NoError(t, err)

	assert.Equal(t, 12, summary.DailyLimit)
	assert.Equal(t, 7, summary.DailyUsed)
	assert.Equal(t, 58, summary.DailyProgress)
	assert.Equal(t, 34, summary.WeeklyWords)
	assert.Equal(t, "Free доступ", summary.VipStatus)
	assert.True(t, summary.AdsEnabled)
}

func TestGetSummaryHandler_GlobalAdsOverride(t *testing.T) {
	h := NewGetSummaryHandler(&fakeSessions{e: newStoredEntitlements(t)}, fakeAdsState(true))

	summary, err := h.Handle(context.Background(), GetSummaryQuery{TelegramID: 700100})
	require.NoError(t, err)

	// Персональная настройка включена, но глобальный выключатель сильнее.
	assert.False(t, summary.AdsEnabled)
}

func TestGetSummaryHandler_PropagatesError(t *testing.T) {
	wantErr := errors.New("storage down")
	h := NewGetSummaryHandler(&fakeSessions{err: wantErr}, fakeAdsState(false))

	_, err := h.Handle(context.Background(), GetSummaryQuery{TelegramID: 700100})
	assert.ErrorIs(t, err, wantErr)
}

func TestGetLimitsHandler(t *testing.T) {
	h := NewGetLimitsHandler(&fakeSessions{e: newStoredEntitlements(t)})

	limits, err := h.Handle(context.Background(), GetLimitsQuery{TelegramID: 700100})
	require.NoError(t, err)

	assert.Equal(t, 7, limits.DailyUsed)
	assert.Equal(t, 12, limits.DailyLimit)
	assert.Equal(t, 50, limits.WeeklyLimit)
	assert.False(t, limits.BreakActive)
}

func TestGetReferralStatusHandler(t *testing.T) {
	h := NewGetReferralStatusHandler(&fakeSessions{e: newStoredEntitlements(t)})

	status, err := h.Handle(context.Background(), GetReferralStatusQuery{TelegramID: 700100})
	require.NoError(t, err)

	assert.Equal(t, 3, status.Referrals)
	assert.Equal(t, 10, status.ReferralTarget)
	assert.Equal(t, 30, status.VipRewardDays)
}

func TestGetProfileHandler_GuestDefaults(t *testing.T) {
	h := NewGetProfileHandler(&fakeUsers{})

	profile, err := h.Handle(context.Background(), GetProfileQuery{})
	require.NoError(t, err)

	assert.Equal(t, "Гость", profile.Name)
	assert.Equal(t, "A2", profile.Level)
	assert.Equal(t, 6, profile.Streak)
	assert.Equal(t, "Разговорная речь", profile.Goals)
	assert.Equal(t, "RU", profile.Locale)
}

func TestGetProfileHandler_UnknownUserFallsBackToGuest(t *testing.T) {
	h := NewGetProfileHandler(&fakeUsers{records: map[string]*directory.UserRecord{}})

	profile, err := h.Handle(context.Background(), GetProfileQuery{UserID: "445566"})
	require.NoError(t, err)
	assert.Equal(t, "Гость", profile.Name)
}

func TestGetProfileHandler_KnownUserOverridesNameAndLocale(t *testing.T) {
	record, err := directory.NewUserRecord("445566", "Anna", "", "anna_de", "de")
	require.NoError(t, err)
	h := NewGetProfileHandler(&fakeUsers{records: map[string]*directory.UserRecord{"445566": record}})

	profile, err := h.Handle(context.Background(), GetProfileQuery{UserID: "445566"})
	require.NoError(t, err)

	assert.Equal(t, "Anna", profile.Name)
	assert.Equal(t, "DE", profile.Locale)
	// Демо-поля каталога не зависят от справочника.
	assert.Equal(t, "A2", profile.Level)
}

func TestGetAdminSummaryHandler(t *testing.T) {
	h := NewGetAdminSummaryHandler(
		&fakeLearners{totalDaily: 41},
		&fakeUsers{count: 812},
		fakeAdsState(false),
	)

	stats, err := h.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 812, stats.ActiveUsers)
	assert.Equal(t, 41, stats.LessonsToday)
	assert.Equal(t, "38%", stats.Retention)
	assert.Equal(t, "7.4%", stats.VipConversion)
	assert.True(t, stats.AdsEnabled)
}
