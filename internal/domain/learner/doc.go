// Package learner содержит доменную модель ученика DeutschFlow.
//
// Это ядро бизнес-логики сервиса: правила квот, привилегий и переходов
// состояния одного ученика. Пакет определяет:
//
//   - Сущность Entitlements: квоты, VIP, перерыв, реферальный прогресс, реклама
//   - Value Objects: TelegramID, FocusArea
//   - Policy-переходы: SetFocus, StartLesson, PayVip, ScheduleBreak,
//     ResumeLearning, AddReferral, ResetDaily и ролловеры квот
//   - Производные представления: Summary, LimitsView, ReferralView
//   - Доменные события и интерфейсы репозитория/кеша
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейсы хранения реализуются в infrastructure
//  3. Тотальные переходы - ни один policy-метод не паникует; отказ по лимиту
//     или перерыву выражается исходом (Outcome), а не ошибкой
//
// # Инварианты
//
// Счётчики насыщающие: DailyUsed не превышает DailyLimit, ReferralCount не
// превышает ReferralTarget. DailyLimit никогда не опускается ниже базового
// лимита трека с учётом VIP-минимума, кроме активного перерыва. Выдача VIP
// всегда отключает рекламу; обратного автоматического включения нет.
//
// Пример перехода:
//
//	e, _ := NewEntitlements(uuid.New().String(), TelegramID(123456789))
//	switch e.StartLesson("поездке в Мюнхен") {
//	case LessonStarted:
//	    // счётчики увеличены, урок доступен
//	case LessonBreakBlocked, LessonLimitReached:
//	    // определённый отказ, состояние не изменилось
//	}
package learner
