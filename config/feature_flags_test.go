package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdsKillSwitch(t *testing.T) {
	ff := LoadFeatureFlags()

	// Ads run by default.
	assert.False(t, ff.AdsDisabledGlobally())

	enabled := ff.ToggleGlobal()
	assert.False(t, enabled)
	assert.True(t, ff.AdsDisabledGlobally())

	enabled = ff.ToggleGlobal()
	assert.True(t, enabled)
	assert.False(t, ff.AdsDisabledGlobally())
}

func TestFeatureDefaults(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureLessonsDialog, nil))
	assert.True(t, ff.IsEnabled(FeatureReferralProgram, nil))
	assert.False(t, ff.IsEnabled(FeatureExperimentalStreakFreeze, nil))
	assert.False(t, ff.IsEnabled("no.such.feature", nil))
}

func TestFeatureEnvOverride(t *testing.T) {
	t.Setenv("FEATURE_LESSONS_PODCAST", "false")
	t.Setenv("FEATURE_EXPERIMENTAL_ANALYTICS", "true")

	ff := LoadFeatureFlags()

	assert.False(t, ff.IsEnabled(FeatureLessonsPodcast, nil))
	assert.True(t, ff.IsEnabled(FeatureExperimentalAnalytics, nil))
}

func TestUserOverrideWinsOverRollout(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureLessonsPodcast, 0))

	ctx := &FeatureContext{UserID: 700100}
	assert.False(t, ff.IsEnabled(FeatureLessonsPodcast, ctx))

	ff.SetUserOverride(ctx.UserID, FeatureLessonsPodcast, true)
	assert.True(t, ff.IsEnabled(FeatureLessonsPodcast, ctx))

	ff.ClearUserOverrides(ctx.UserID)
	assert.False(t, ff.IsEnabled(FeatureLessonsPodcast, ctx))
}

func TestRolloutIsConsistentPerUser(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureLessonsPodcast, 50))

	ctx := &FeatureContext{UserID: 42}
	first := ff.IsEnabled(FeatureLessonsPodcast, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureLessonsPodcast, ctx))
	}
}
