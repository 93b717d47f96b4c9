package postgres

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
)

var focusCaseRe = regexp.MustCompile(`WHEN '(\w+)' THEN (\d+)`)
var vipCaseRe = regexp.MustCompile(`WHEN is_vip THEN (\d+)`)
var focusElseRe = regexp.MustCompile(`ELSE (\d+)\s*\n\s*END`)

// The bulk reset recomputes limits in SQL instead of loading every row
// through the domain layer. These tests pin the CASE constants to the
// learner package so the two mappings cannot drift apart.

func TestResetAllDailySQLMatchesFocusLimits(t *testing.T) {
	matches := focusCaseRe.FindAllStringSubmatch(resetAllDailyQuery, -1)
	require.Len(t, matches, 4)

	seen := make(map[learner.FocusArea]int, len(matches))
	for _, m := range matches {
		limit, err := strconv.Atoi(m[2])
		require.NoError(t, err)
		seen[learner.FocusArea(m[1])] = limit
	}

	for _, focus := range []learner.FocusArea{
		learner.FocusTravel,
		learner.FocusWork,
		learner.FocusExam,
		learner.FocusCulture,
	} {
		require.Contains(t, seen, focus)
		assert.Equal(t, focus.BaseDailyLimit(), seen[focus], "focus %s", focus)
	}
}

func TestResetAllDailySQLMatchesVipFloor(t *testing.T) {
	m := vipCaseRe.FindStringSubmatch(resetAllDailyQuery)
	require.Len(t, m, 2)

	floor, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	assert.Equal(t, learner.VipDailyFloor, floor)
}

func TestResetAllDailySQLFallbackIsTravelLimit(t *testing.T) {
	// Unknown focus values fall back to the default track, same as
	// FocusArea.BaseDailyLimit does for unmapped areas.
	m := focusElseRe.FindStringSubmatch(resetAllDailyQuery)
	require.Len(t, m, 2)

	fallback, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	assert.Equal(t, learner.FocusTravel.BaseDailyLimit(), fallback)
}

func TestResetAllDailySQLAgreesWithDomainReset(t *testing.T) {
	matches := focusCaseRe.FindAllStringSubmatch(resetAllDailyQuery, -1)
	require.Len(t, matches, 4)

	vipMatch := vipCaseRe.FindStringSubmatch(resetAllDailyQuery)
	require.Len(t, vipMatch, 2)
	vipFloor, err := strconv.Atoi(vipMatch[1])
	require.NoError(t, err)

	for _, m := range matches {
		base, err := strconv.Atoi(m[2])
		require.NoError(t, err)

		for _, vip := range []bool{false, true} {
			// GREATEST(base, vip_floor) as the UPDATE computes it.
			want := base
			if vip && vipFloor > want {
				want = vipFloor
			}

			e := &learner.Entitlements{Focus: learner.FocusArea(m[1]), IsVip: vip}
			e.ResetDaily()
			assert.Equal(t, want, e.DailyLimit, "focus %s vip %v", m[1], vip)
			assert.Zero(t, e.DailyUsed)
			assert.False(t, e.BreakActive)
		}
	}
}
