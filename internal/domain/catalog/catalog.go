// Package catalog содержит статическую конфигурацию продукта DeutschFlow:
// тарифы, информационные страницы, режимы обучения, темы уроков и
// рекламных партнёров. Это конфигурация, а не policy-состояние.
package catalog

import (
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrContentNotFound - запрошенная страница не найдена.
	ErrContentNotFound = errors.New("content not found")

	// ErrModeNotFound - запрошенный режим обучения не найден.
	ErrModeNotFound = errors.New("mode not found")

	// ErrModerationItemNotFound - элемент очереди модерации не найден.
	ErrModerationItemNotFound = errors.New("moderation item not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// PRICING
// ══════════════════════════════════════════════════════════════════════════════

// Pricing - прайс VIP-подписки и рекламных слотов.
type Pricing struct {
	VipMonthly float64 `json:"vipMonthly"`
	VipQuarter float64 `json:"vipQuarter"`
	VipYear    float64 `json:"vipYear"`
	AdSlotWeek float64 `json:"adSlotWeek"`
	AdSlotMonth float64 `json:"adSlotMonth"`
	Currency   string  `json:"currency"`
}

// CurrentPricing возвращает актуальный прайс.
func CurrentPricing() Pricing {
	return Pricing{
		VipMonthly: 9.99,
		VipQuarter: 24.99,
		VipYear:    79.99,
		AdSlotWeek: 49.0,
		AdSlotMonth: 179.0,
		Currency:   "USD",
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// INFO PAGES & LEARNING MODES
// ══════════════════════════════════════════════════════════════════════════════

// Page - информационная страница мини-приложения.
type Page struct {
	Key   string `json:"-"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

var infoPages = map[string]Page{
	"support": {
		Key:   "support",
		Title: "Поддержка",
		Text:  "Свяжитесь с нами в Telegram: @deutschflow_support. Среднее время ответа — 5 минут.",
	},
	"terms": {
		Key:   "terms",
		Title: "Условия использования",
		Text:  "Используя сервис, вы принимаете правила хранения данных и AI-оценивания уроков.",
	},
	"privacy": {
		Key:   "privacy",
		Title: "Политика конфиденциальности",
		Text:  "Мы шифруем данные и не передаём их третьим лицам без вашего согласия.",
	},
	"contacts": {
		Key:   "contacts",
		Title: "Контакты",
		Text:  "Email: hello@deutschflow.ai · Telegram: @deutschflow_support · Хостинг: Vertel",
	},
	"recommendations": {
		Key:   "recommendations",
		Title: "Рекомендации DeepSeek",
		Text:  "Сегодня: 15 минут практики речи, 8 карточек слов и 1 диалог с ролью.",
	},
}

// PageByKey возвращает информационную страницу по ключу.
func PageByKey(key string) (Page, error) {
	page, ok := infoPages[key]
	if !ok {
		return Page{}, ErrContentNotFound
	}
	return page, nil
}

var learningModes = map[string]Page{
	"dialog": {
		Key:   "dialog",
		Title: "Диалоговый тренажёр",
		Text:  "Сценарий: заказ в кафе. AI корректирует грамматику и темп речи.",
	},
	"voice": {
		Key:   "voice",
		Title: "DeepSpeak Voice",
		Text:  "Произнесите фразу — получите разбор ударений и точности.",
	},
	"cards": {
		Key:   "cards",
		Title: "Карточки слов",
		Text:  "Подборка 8 слов на день с интервальными повторениями.",
	},
	"podcast": {
		Key:   "podcast",
		Title: "Контекстные подкасты",
		Text:  "AI сгенерирует подкаст и транскрипт по вашим интересам.",
	},
}

// ModeByKey возвращает режим обучения по ключу.
func ModeByKey(key string) (Page, error) {
	mode, ok := learningModes[key]
	if !ok {
		return Page{}, ErrModeNotFound
	}
	return mode, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TOPICS, ADS, PAYMENTS
// ══════════════════════════════════════════════════════════════════════════════

// LessonTopics - фиксированный набор тем уроков.
var LessonTopics = []string{
	"путешествии по Берлину",
	"деловой встрече",
	"разговоре в кафе",
	"покупках в магазине",
	"обсуждении культуры",
}

// AdPartners - партнёры рекламного слота.
var AdPartners = []string{
	"Goethe-Institut · курсы A1–B2 со скидкой 15%",
	"LinguaPro · интенсивы по выходным",
	"Deutsch Club · разговорные клубы онлайн",
}

// AdSlotTitle - заголовок рекламного слота.
const AdSlotTitle = "Рекламный слот"

// AdSlotText форматирует текст рекламного слота для партнёра.
func AdSlotText(partner string) string {
	return fmt.Sprintf("Партнёр недели: %s.", partner)
}

// PaymentsInfo - статус платёжной поверхности.
type PaymentsInfo struct {
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Methods []string `json:"methods"`
}

// CurrentPayments возвращает статус платёжных методов.
func CurrentPayments() PaymentsInfo {
	return PaymentsInfo{
		Title: "Платёжные статусы",
		Text:  "Платежи активны. Выберите удобный способ и продолжайте обучение.",
		Methods: []string{
			"Telegram Payments: активен",
			"Apple Pay: активен",
			"Google Pay: активен",
			"Банковские карты: активны",
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE DEFAULTS & AI FALLBACK
// ══════════════════════════════════════════════════════════════════════════════

// Стартовый профиль ученика до первого синка с Telegram.
const (
	DefaultProfileName   = "Гость"
	DefaultProfileLevel  = "A2"
	DefaultProfileStreak = 6
	DefaultProfileGoals  = "Разговорная речь"
	DefaultProfileLocale = "RU"
)

// FallbackReply возвращает детерминированный ответ AI-помощника,
// когда внешний сервис недоступен или не сконфигурирован.
func FallbackReply(prompt string) string {
	return fmt.Sprintf(
		"Короткий ответ по запросу «%s»:\n1) Пример: Ich bin gestern nach Hause gegangen.\n2) Объяснение: Perfekt = sein/haben + Partizip II.\n3) Мини-задание: составьте 2 своих предложения.",
		prompt,
	)
}
