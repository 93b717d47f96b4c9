package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntitlements(t *testing.T) *Entitlements {
	t.Helper()
	e, err := NewEntitlements("11111111-1111-1111-1111-111111111111", TelegramID(42))
	require.NoError(t, err)
	return e
}

func TestNewEntitlements_Defaults(t *testing.T) {
	e := newTestEntitlements(t)

	assert.Equal(t, FocusTravel, e.Focus)
	assert.Equal(t, 12, e.DailyLimit)
	assert.Equal(t, 7, e.DailyUsed)
	assert.Equal(t, 50, e.WeeklyWordLimit)
	assert.Equal(t, 34, e.WeeklyWordsUsed)
	assert.False(t, e.IsVip)
	assert.True(t, e.AdsEnabled)
	assert.False(t, e.BreakActive)
	assert.Equal(t, 3, e.ReferralCount)
	assert.Equal(t, 10, e.ReferralTarget)
	assert.Equal(t, 30, e.VipRewardDays)
}

func TestNewEntitlements_Validation(t *testing.T) {
	_, err := NewEntitlements("", TelegramID(42))
	assert.Error(t, err)

	_, err = NewEntitlements("id", TelegramID(0))
	assert.ErrorIs(t, err, ErrInvalidTelegramID)

	_, err = NewEntitlements("id", TelegramID(-5))
	assert.ErrorIs(t, err, ErrInvalidTelegramID)
}

func TestStartLesson_IncrementsCounters(t *testing.T) {
	e := newTestEntitlements(t)

	outcome := e.StartLesson("поездке в Мюнхен")

	assert.Equal(t, LessonStarted, outcome)
	assert.Equal(t, 8, e.DailyUsed)
	assert.Equal(t, 37, e.WeeklyWordsUsed)
	assert.Equal(t, "поездке в Мюнхен", e.LastLessonTopic)

	summary := BuildSummary(e, false)
	assert.Equal(t, 67, summary.DailyProgress) // round(8/12*100)
}

func TestStartLesson_RefusalIsIdempotent(t *testing.T) {
	e := newTestEntitlements(t)
	e.DailyUsed = e.DailyLimit

	for i := 0; i < 3; i++ {
		outcome := e.StartLesson("тема")
		assert.Equal(t, LessonLimitReached, outcome)
		assert.Equal(t, e.DailyLimit, e.DailyUsed)
	}
}

func TestStartLesson_BlockedDuringBreak(t *testing.T) {
	e := newTestEntitlements(t)
	e.ScheduleBreak()

	usedBefore := e.DailyUsed
	outcome := e.StartLesson("тема")

	assert.Equal(t, LessonBreakBlocked, outcome)
	assert.Equal(t, usedBefore, e.DailyUsed)
}

func TestStartLesson_WeeklyWordsSaturate(t *testing.T) {
	e := newTestEntitlements(t)
	e.WeeklyWordsUsed = e.WeeklyWordLimit - 1

	outcome := e.StartLesson("тема")

	assert.Equal(t, LessonStarted, outcome)
	assert.Equal(t, e.WeeklyWordLimit, e.WeeklyWordsUsed)
}

func TestSetFocus_KnownAreas(t *testing.T) {
	tests := []struct {
		focus FocusArea
		limit int
	}{
		{FocusTravel, 12},
		{FocusWork, 10},
		{FocusExam, 8},
		{FocusCulture, 14},
	}

	for _, tt := range tests {
		t.Run(string(tt.focus), func(t *testing.T) {
			e := newTestEntitlements(t)
			require.NoError(t, e.SetFocus(tt.focus))
			assert.Equal(t, tt.focus, e.Focus)
			assert.Equal(t, tt.limit, e.DailyLimit)
		})
	}
}

func TestSetFocus_UnknownRejected(t *testing.T) {
	e := newTestEntitlements(t)

	err := e.SetFocus(FocusArea("gaming"))

	assert.ErrorIs(t, err, ErrUnknownFocus)
	assert.Equal(t, FocusTravel, e.Focus)
	assert.Equal(t, 12, e.DailyLimit)
}

func TestSetFocus_IndependentOfHistory(t *testing.T) {
	e := newTestEntitlements(t)

	require.NoError(t, e.SetFocus(FocusTravel))
	require.NoError(t, e.SetFocus(FocusCulture))

	assert.Equal(t, 14, e.DailyLimit)
}

func TestSetFocus_VipFloorWins(t *testing.T) {
	e := newTestEntitlements(t)
	e.PayVip()

	require.NoError(t, e.SetFocus(FocusCulture))

	// VIP-минимум 20 важнее базового лимита 14.
	assert.Equal(t, 20, e.DailyLimit)
}

func TestPayVip_Idempotent(t *testing.T) {
	e := newTestEntitlements(t)

	e.PayVip()
	once := e.Clone()
	e.PayVip()

	assert.True(t, e.IsVip)
	assert.False(t, e.AdsEnabled)
	assert.Equal(t, 20, e.DailyLimit)
	assert.Equal(t, once.DailyLimit, e.DailyLimit)
	assert.Equal(t, once.IsVip, e.IsVip)
	assert.Equal(t, once.AdsEnabled, e.AdsEnabled)
}

func TestToggleAds_Flips(t *testing.T) {
	e := newTestEntitlements(t)

	assert.False(t, e.ToggleAds())
	assert.True(t, e.ToggleAds())
}

func TestScheduleBreak_ReducesLimit(t *testing.T) {
	e := newTestEntitlements(t)
	require.Equal(t, 12, e.DailyLimit)

	e.ScheduleBreak()

	assert.True(t, e.BreakActive)
	assert.Equal(t, 7, e.DailyLimit) // max(6, floor(12*0.6))
	assert.Equal(t, 12, e.LimitBeforeBreak)
}

func TestScheduleBreak_NoCompounding(t *testing.T) {
	e := newTestEntitlements(t)

	e.ScheduleBreak()
	e.ScheduleBreak()
	e.ScheduleBreak()

	assert.Equal(t, 7, e.DailyLimit)
	assert.Equal(t, 12, e.LimitBeforeBreak)
}

func TestScheduleBreak_FloorAtMinimum(t *testing.T) {
	e := newTestEntitlements(t)
	require.NoError(t, e.SetFocus(FocusExam)) // limit 8

	e.ScheduleBreak()

	assert.Equal(t, 6, e.DailyLimit) // max(6, floor(8*0.6)=4)
}

func TestResumeLearning_RestoresSnapshot(t *testing.T) {
	e := newTestEntitlements(t)
	require.NoError(t, e.SetFocus(FocusCulture)) // limit 14

	e.ScheduleBreak()
	require.Equal(t, 8, e.DailyLimit)
	e.ResumeLearning()

	assert.False(t, e.BreakActive)
	assert.Equal(t, 14, e.DailyLimit)
	assert.Zero(t, e.LimitBeforeBreak)
}

func TestResumeLearning_FloorWithoutSnapshot(t *testing.T) {
	e := newTestEntitlements(t)
	e.DailyLimit = 9

	e.ResumeLearning()

	assert.Equal(t, ResumeFloor, e.DailyLimit)
}

func TestResumeLearning_VipFloorApplies(t *testing.T) {
	e := newTestEntitlements(t)
	e.ScheduleBreak()
	e.PayVip() // VIP посреди перерыва поднимает лимит до 20
	e.ResumeLearning()

	assert.GreaterOrEqual(t, e.DailyLimit, VipDailyFloor)
}

func TestAddReferral_Progression(t *testing.T) {
	e := newTestEntitlements(t)
	e.ReferralCount = 5

	outcome := e.AddReferral()

	assert.Equal(t, ReferralProgressed, outcome)
	assert.Equal(t, 6, e.ReferralCount)
	assert.False(t, e.IsVip)
}

func TestAddReferral_RewardGranted(t *testing.T) {
	e := newTestEntitlements(t)
	e.ReferralCount = 9

	outcome := e.AddReferral()

	assert.Equal(t, ReferralRewardGranted, outcome)
	assert.Equal(t, 10, e.ReferralCount)
	assert.True(t, e.IsVip)
	assert.False(t, e.AdsEnabled)
}

func TestAddReferral_Saturates(t *testing.T) {
	e := newTestEntitlements(t)
	e.ReferralCount = 0

	for i := 0; i < e.ReferralTarget; i++ {
		e.AddReferral()
	}
	require.Equal(t, e.ReferralTarget, e.ReferralCount)

	// (target+1)-й вызов: награда снова подтверждается, лимит не превышен.
	outcome := e.AddReferral()
	assert.Equal(t, ReferralRewardGranted, outcome)
	assert.Equal(t, e.ReferralTarget, e.ReferralCount)
	assert.True(t, e.IsVip)
}

func TestResetDaily_ClearsCountersKeepsEntitlements(t *testing.T) {
	e := newTestEntitlements(t)
	e.PayVip()
	e.ReferralCount = 7
	e.ScheduleBreak()

	e.ResetDaily()

	assert.Zero(t, e.DailyUsed)
	assert.Zero(t, e.WeeklyWordsUsed)
	assert.False(t, e.BreakActive)
	assert.Equal(t, 20, e.DailyLimit) // VIP-минимум поверх базового 12
	assert.True(t, e.IsVip)
	assert.False(t, e.AdsEnabled)
	assert.Equal(t, 7, e.ReferralCount)
}

func TestResetDaily_NonVipUsesFocusBase(t *testing.T) {
	e := newTestEntitlements(t)
	require.NoError(t, e.SetFocus(FocusExam))
	e.DailyUsed = 8

	e.ResetDaily()

	assert.Zero(t, e.DailyUsed)
	assert.Equal(t, 8, e.DailyLimit)
}

func TestRollover_DayAndWeek(t *testing.T) {
	e := newTestEntitlements(t)
	e.ScheduleBreak()

	e.RolloverDay()
	assert.Zero(t, e.DailyUsed)
	assert.True(t, e.BreakActive, "ролловер суток не снимает перерыв")
	assert.Equal(t, 34, e.WeeklyWordsUsed, "ролловер суток не трогает неделю")

	e.RolloverWeek()
	assert.Zero(t, e.WeeklyWordsUsed)
}

func TestScenario_BreakThenLessonBlocked(t *testing.T) {
	e := newTestEntitlements(t)

	e.ScheduleBreak()
	require.Equal(t, 7, e.DailyLimit)
	require.True(t, e.BreakActive)

	usedBefore := e.DailyUsed
	assert.Equal(t, LessonBreakBlocked, e.StartLesson("тема"))
	assert.Equal(t, usedBefore, e.DailyUsed)
}
