package learner

import "math"

// ══════════════════════════════════════════════════════════════════════════════
// OUTCOMES
// ══════════════════════════════════════════════════════════════════════════════

// StartLessonOutcome описывает результат попытки начать урок.
// Отказ по лимиту или перерыву - это не ошибка, а определённый исход.
type StartLessonOutcome string

const (
	// LessonStarted - урок начат, счётчики увеличены.
	LessonStarted StartLessonOutcome = "started"
	// LessonBreakBlocked - урок не начат: активен перерыв.
	LessonBreakBlocked StartLessonOutcome = "break_blocked"
	// LessonLimitReached - урок не начат: дневной лимит исчерпан.
	LessonLimitReached StartLessonOutcome = "limit_reached"
)

// ReferralOutcome описывает результат добавления приглашённого друга.
type ReferralOutcome string

const (
	// ReferralProgressed - счётчик увеличен, до награды ещё далеко.
	ReferralProgressed ReferralOutcome = "progressed"
	// ReferralRewardGranted - цель достигнута, VIP выдан.
	ReferralRewardGranted ReferralOutcome = "reward_granted"
)

// ══════════════════════════════════════════════════════════════════════════════
// POLICY TRANSITIONS
// ══════════════════════════════════════════════════════════════════════════════
//
// Все переходы тотальны: не паникуют и не возвращают частично обновлённое
// состояние. Арифметика счётчиков - насыщающая: значения не выходят за лимиты.

// SetFocus переключает учебный трек и пересчитывает дневной лимит.
// Неизвестный трек отклоняется явно, а не игнорируется молча.
// VIP-минимум лимита имеет приоритет над базовым лимитом трека.
func (e *Entitlements) SetFocus(focus FocusArea) error {
	if !focus.IsValid() {
		return ErrUnknownFocus
	}

	e.Focus = focus
	e.DailyLimit = e.effectiveBaseLimit()
	if e.BreakActive {
		// Во время перерыва трек меняем, но сниженный лимит сохраняем:
		// новый базовый лимит станет снимком для восстановления.
		e.LimitBeforeBreak = e.DailyLimit
		e.DailyLimit = reducedBreakLimit(e.DailyLimit)
	}
	e.touch()
	return nil
}

// StartLesson пытается начать урок с указанной темой.
// Повторные вызовы при исчерпанном лимите идемпотентны: счётчики не меняются.
func (e *Entitlements) StartLesson(topic string) StartLessonOutcome {
	if e.BreakActive {
		return LessonBreakBlocked
	}
	if e.DailyUsed >= e.DailyLimit {
		return LessonLimitReached
	}

	e.DailyUsed = minInt(e.DailyUsed+1, e.DailyLimit)
	e.WeeklyWordsUsed = minInt(e.WeeklyWordsUsed+WordsPerLesson, e.WeeklyWordLimit)
	e.LastLessonTopic = topic
	e.touch()
	return LessonStarted
}

// ToggleAds переключает личную настройку показа рекламы.
// Возвращает новое значение. Всегда успешен.
func (e *Entitlements) ToggleAds() bool {
	e.AdsEnabled = !e.AdsEnabled
	e.touch()
	return e.AdsEnabled
}

// PayVip активирует VIP: расширяет лимит и отключает рекламу.
// Идемпотентен: повторная оплата не меняет состояние сверх первой.
func (e *Entitlements) PayVip() {
	e.IsVip = true
	e.AdsEnabled = false
	e.DailyLimit = maxInt(e.DailyLimit, VipDailyFloor)
	e.touch()
}

// ScheduleBreak планирует перерыв и временно снижает дневной лимит.
// Повторный вызов при активном перерыве - no-op: снижение не компаундится.
func (e *Entitlements) ScheduleBreak() {
	if e.BreakActive {
		return
	}

	e.LimitBeforeBreak = e.DailyLimit
	e.BreakActive = true
	e.DailyLimit = reducedBreakLimit(e.DailyLimit)
	e.touch()
}

// ResumeLearning завершает перерыв и восстанавливает лимит из снимка.
// Восстановленный лимит не опускается ниже ResumeFloor, а для VIP -
// ниже VipDailyFloor.
func (e *Entitlements) ResumeLearning() {
	restored := e.LimitBeforeBreak
	if restored < ResumeFloor {
		restored = ResumeFloor
	}
	if restored < e.DailyLimit {
		restored = e.DailyLimit
	}
	if e.IsVip && restored < VipDailyFloor {
		restored = VipDailyFloor
	}

	e.BreakActive = false
	e.LimitBeforeBreak = 0
	e.DailyLimit = restored
	e.touch()
}

// AddReferral увеличивает счётчик приглашённых друзей.
// Счётчик насыщается на цели; достижение цели выдаёт VIP и отключает
// рекламу. Вызов при уже достигнутой цели снова сообщает о награде,
// не превышая лимит и не меняя состояние (VIP уже активен).
func (e *Entitlements) AddReferral() ReferralOutcome {
	e.ReferralCount = minInt(e.ReferralCount+1, e.ReferralTarget)
	e.touch()

	if e.ReferralCount >= e.ReferralTarget {
		e.IsVip = true
		e.AdsEnabled = false
		e.DailyLimit = maxInt(e.DailyLimit, VipDailyFloor)
		return ReferralRewardGranted
	}
	return ReferralProgressed
}

// ResetDaily обнуляет дневные и недельные счётчики и снимает перерыв.
// Лимит пересчитывается из базового лимита трека с учётом VIP-минимума.
// VIP, реклама и реферальный прогресс не затрагиваются.
func (e *Entitlements) ResetDaily() {
	e.DailyUsed = 0
	e.WeeklyWordsUsed = 0
	e.BreakActive = false
	e.LimitBeforeBreak = 0
	e.DailyLimit = e.effectiveBaseLimit()
	e.touch()
}

// RolloverDay обнуляет дневной счётчик на границе суток.
// В отличие от ResetDaily перерыв и недельная квота сохраняются.
func (e *Entitlements) RolloverDay() {
	e.DailyUsed = 0
	e.touch()
}

// RolloverWeek обнуляет недельный счётчик слов на границе недели.
func (e *Entitlements) RolloverWeek() {
	e.WeeklyWordsUsed = 0
	e.touch()
}

// DailyLimitReached возвращает true, если дневной лимит исчерпан.
// Нулевой лимит считается исчерпанным.
func (e *Entitlements) DailyLimitReached() bool {
	return e.DailyUsed >= e.DailyLimit
}

// effectiveBaseLimit возвращает базовый лимит трека с учётом VIP-минимума.
func (e *Entitlements) effectiveBaseLimit() int {
	base := e.Focus.BaseDailyLimit()
	if e.IsVip {
		base = maxInt(base, VipDailyFloor)
	}
	return base
}

// reducedBreakLimit возвращает сниженный лимит на время перерыва.
func reducedBreakLimit(limit int) int {
	return maxInt(BreakMinLimit, int(math.Floor(float64(limit)*BreakFactor)))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
