package learner

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARY (READ-ONLY VIEW)
// ══════════════════════════════════════════════════════════════════════════════

// VIP-статус отображается одной из двух фиксированных строк.
const (
	VipStatusActive = "VIP активен"
	VipStatusFree   = "Free доступ"
)

// Summary - производное read-only представление состояния для клиента.
type Summary struct {
	DailyLimit       int    `json:"dailyLimit"`
	DailyUsed        int    `json:"dailyUsed"`
	DailyProgress    int    `json:"dailyProgress"`
	DailyLimitHit    bool   `json:"dailyLimitReached"`
	WeeklyWords      int    `json:"weeklyWords"`
	WeeklyLimit      int    `json:"weeklyLimit"`
	WeeklyProgress   int    `json:"weeklyProgress"`
	VipStatus        string `json:"vipStatus"`
	IsVip            bool   `json:"isVip"`
	AdsEnabled       bool   `json:"adsEnabled"`
	Referrals        int    `json:"referrals"`
	ReferralTarget   int    `json:"referralTarget"`
	ReferralProgress int    `json:"referralProgress"`
	BreakActive      bool   `json:"breakActive"`
	LastLessonTopic  string `json:"lastLessonTopic,omitempty"`
}

// BuildSummary строит сводку по состоянию ученика.
// adsDisabledGlobally - глобальный (тенантный) выключатель рекламы:
// итоговая видимость = личная настройка И НЕ глобальный запрет.
// Все проценты ограничены диапазоном [0,100] даже при испорченных
// счётчиках; нулевой лимит трактуется как 100% прогресса.
func BuildSummary(e *Entitlements, adsDisabledGlobally bool) Summary {
	return Summary{
		DailyLimit:       e.DailyLimit,
		DailyUsed:        e.DailyUsed,
		DailyProgress:    progressPercent(e.DailyUsed, e.DailyLimit),
		DailyLimitHit:    e.DailyLimitReached(),
		WeeklyWords:      e.WeeklyWordsUsed,
		WeeklyLimit:      e.WeeklyWordLimit,
		WeeklyProgress:   progressPercent(e.WeeklyWordsUsed, e.WeeklyWordLimit),
		VipStatus:        vipStatusLabel(e.IsVip),
		IsVip:            e.IsVip,
		AdsEnabled:       e.AdsEnabled && !adsDisabledGlobally,
		Referrals:        e.ReferralCount,
		ReferralTarget:   e.ReferralTarget,
		ReferralProgress: progressPercent(e.ReferralCount, e.ReferralTarget),
		BreakActive:      e.BreakActive,
		LastLessonTopic:  e.LastLessonTopic,
	}
}

// LimitsView - компактное представление лимитов ученика.
type LimitsView struct {
	DailyUsed   int  `json:"dailyUsed"`
	DailyLimit  int  `json:"dailyLimit"`
	WeeklyWords int  `json:"weeklyWords"`
	WeeklyLimit int  `json:"weeklyLimit"`
	BreakActive bool `json:"breakActive"`
}

// BuildLimits строит представление лимитов по состоянию ученика.
func BuildLimits(e *Entitlements) LimitsView {
	return LimitsView{
		DailyUsed:   e.DailyUsed,
		DailyLimit:  e.DailyLimit,
		WeeklyWords: e.WeeklyWordsUsed,
		WeeklyLimit: e.WeeklyWordLimit,
		BreakActive: e.BreakActive,
	}
}

// ReferralView - представление реферального прогресса.
type ReferralView struct {
	Referrals      int `json:"referrals"`
	ReferralTarget int `json:"referralTarget"`
	VipRewardDays  int `json:"vipRewardDays"`
}

// BuildReferral строит представление реферального прогресса.
func BuildReferral(e *Entitlements) ReferralView {
	return ReferralView{
		Referrals:      e.ReferralCount,
		ReferralTarget: e.ReferralTarget,
		VipRewardDays:  e.VipRewardDays,
	}
}

// progressPercent считает округлённый процент прогресса с клампом [0,100].
// Нулевой или отрицательный лимит означает исчерпанную квоту: 100%.
func progressPercent(used, limit int) int {
	if limit <= 0 {
		return 100
	}

	pct := int(math.Round(float64(used) / float64(limit) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func vipStatusLabel(isVip bool) string {
	if isVip {
		return VipStatusActive
	}
	return VipStatusFree
}
