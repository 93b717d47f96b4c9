package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummary_PercentagesClamped(t *testing.T) {
	e := newTestEntitlements(t)

	// Испорченные извне счётчики не должны выбивать проценты за [0,100].
	e.DailyUsed = 500
	e.WeeklyWordsUsed = -3
	e.ReferralCount = 99

	s := BuildSummary(e, false)

	assert.Equal(t, 100, s.DailyProgress)
	assert.Equal(t, 0, s.WeeklyProgress)
	assert.Equal(t, 100, s.ReferralProgress)
}

func TestBuildSummary_ZeroLimitMeansExhausted(t *testing.T) {
	e := newTestEntitlements(t)
	e.DailyLimit = 0
	e.DailyUsed = 0

	s := BuildSummary(e, false)

	assert.Equal(t, 100, s.DailyProgress)
	assert.True(t, s.DailyLimitHit)
}

func TestBuildSummary_VipStatusLabels(t *testing.T) {
	e := newTestEntitlements(t)

	assert.Equal(t, VipStatusFree, BuildSummary(e, false).VipStatus)

	e.PayVip()
	assert.Equal(t, VipStatusActive, BuildSummary(e, false).VipStatus)
}

func TestBuildSummary_GlobalAdsOverride(t *testing.T) {
	e := newTestEntitlements(t)
	assert.True(t, e.AdsEnabled)

	// Личная настройка включена, но глобальный запрет побеждает.
	s := BuildSummary(e, true)
	assert.False(t, s.AdsEnabled)

	s = BuildSummary(e, false)
	assert.True(t, s.AdsEnabled)
}

func TestBuildSummary_Rounding(t *testing.T) {
	e := newTestEntitlements(t)
	e.DailyLimit = 12
	e.DailyUsed = 8

	s := BuildSummary(e, false)

	assert.Equal(t, 67, s.DailyProgress)
}

func TestBuildLimits(t *testing.T) {
	e := newTestEntitlements(t)
	e.ScheduleBreak()

	v := BuildLimits(e)

	assert.Equal(t, e.DailyUsed, v.DailyUsed)
	assert.Equal(t, e.DailyLimit, v.DailyLimit)
	assert.Equal(t, e.WeeklyWordsUsed, v.WeeklyWords)
	assert.Equal(t, e.WeeklyWordLimit, v.WeeklyLimit)
	assert.True(t, v.BreakActive)
}

func TestBuildReferral(t *testing.T) {
	e := newTestEntitlements(t)

	v := BuildReferral(e)

	assert.Equal(t, 3, v.Referrals)
	assert.Equal(t, 10, v.ReferralTarget)
	assert.Equal(t, 30, v.VipRewardDays)
}
