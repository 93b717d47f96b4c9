package catalog

import (
	"math/rand"
	"sync"
)

// Randomizer выбирает случайную тему урока и рекламного партнёра.
// Источник случайности инжектируется, чтобы тесты могли фиксировать seed.
// Один экземпляр разделяется между HTTP-обработчиками, поэтому доступ
// к генератору сериализуется мьютексом: *rand.Rand небезопасен для
// конкурентного использования.
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer создаёт Randomizer с заданным seed.
func NewRandomizer(seed int64) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewSource(seed))}
}

// LessonTopic возвращает случайную тему урока из фиксированного набора.
func (r *Randomizer) LessonTopic() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return LessonTopics[r.rng.Intn(len(LessonTopics))]
}

// AdPartner возвращает случайного рекламного партнёра.
func (r *Randomizer) AdPartner() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return AdPartners[r.rng.Intn(len(AdPartners))]
}
