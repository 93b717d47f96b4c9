package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageByKey(t *testing.T) {
	page, err := PageByKey("support")
	require.NoError(t, err)
	assert.Equal(t, "Поддержка", page.Title)

	_, err = PageByKey("unknown")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestModeByKey(t *testing.T) {
	mode, err := ModeByKey("dialog")
	require.NoError(t, err)
	assert.Equal(t, "Диалоговый тренажёр", mode.Title)

	_, err = ModeByKey("unknown")
	assert.ErrorIs(t, err, ErrModeNotFound)
}

func TestCurrentPricing(t *testing.T) {
	p := CurrentPricing()

	assert.Equal(t, 9.99, p.VipMonthly)
	assert.Equal(t, 79.99, p.VipYear)
	assert.Equal(t, "USD", p.Currency)
}

func TestRandomizer_Deterministic(t *testing.T) {
	a := NewRandomizer(7)
	b := NewRandomizer(7)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.LessonTopic(), b.LessonTopic())
		assert.Equal(t, a.AdPartner(), b.AdPartner())
	}
}

func TestRandomizer_PicksFromFixedSets(t *testing.T) {
	r := NewRandomizer(42)

	assert.Contains(t, LessonTopics, r.LessonTopic())
	assert.Contains(t, AdPartners, r.AdPartner())
}

func TestRandomizer_ConcurrentAccess(t *testing.T) {
	r := NewRandomizer(42)

	var wg sync.WaitGroup
	results := make(chan string, 8*200)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				results <- r.LessonTopic()
				results <- r.AdPartner()
			}
		}()
	}
	wg.Wait()
	close(results)

	for v := range results {
		if !assert.True(t, contains(LessonTopics, v) || contains(AdPartners, v)) {
			break
		}
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func TestFallbackReply_Deterministic(t *testing.T) {
	reply := FallbackReply("Wie sagt man Hallo?")

	assert.Contains(t, reply, "«Wie sagt man Hallo?»")
	assert.Contains(t, reply, "Partizip II")
	assert.Equal(t, reply, FallbackReply("Wie sagt man Hallo?"))
}

func TestLibrary_AddContent(t *testing.T) {
	lib := NewLibrary()

	item := lib.AddContent("Урок B1: Переезд", "published")
	assert.Equal(t, int64(104), item.ID)

	content := lib.Content()
	require.NotEmpty(t, content)
	assert.Equal(t, item, content[0], "новый элемент встаёт в начало")
}

func TestLibrary_AddContent_Defaults(t *testing.T) {
	lib := NewLibrary()

	item := lib.AddContent("", "")

	assert.Equal(t, "Новый сценарий", item.Title)
	assert.Equal(t, "draft", item.Status)
}

func TestLibrary_ResolveModeration(t *testing.T) {
	lib := NewLibrary()

	item, err := lib.ResolveModeration(2, "")
	require.NoError(t, err)
	assert.Equal(t, "resolved", item.Status)

	item, err = lib.ResolveModeration(1, "rejected")
	require.NoError(t, err)
	assert.Equal(t, "rejected", item.Status)

	_, err = lib.ResolveModeration(999, "resolved")
	assert.ErrorIs(t, err, ErrModerationItemNotFound)
}
