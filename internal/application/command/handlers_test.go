package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
	"github.com/deutschflow/deutschflow-hub/internal/domain/directory"
	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fakes
// ─────────────────────────────────────────────────────────────────────────────

type memoryRepo struct {
	mu    sync.Mutex
	byTID map[learner.TelegramID]*learner.Entitlements
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byTID: make(map[learner.TelegramID]*learner.Entitlements)}
}

func (r *memoryRepo) GetByTelegramID(_ context.Context, id learner.TelegramID) (*learner.Entitlements, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byTID[id]
	if !ok {
		return nil, learner.ErrLearnerNotFound
	}
	return e.Clone(), nil
}

func (r *memoryRepo) Create(_ context.Context, e *learner.Entitlements) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byTID[e.TelegramID]; ok {
		return learner.ErrLearnerAlreadyExists
	}
	r.byTID[e.TelegramID] = e.Clone()
	return nil
}

func (r *memoryRepo) Update(_ context.Context, e *learner.Entitlements) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byTID[e.TelegramID]; !ok {
		return learner.ErrLearnerNotFound
	}
	r.byTID[e.TelegramID] = e.Clone()
	return nil
}

func (r *memoryRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byTID), nil
}

func (r *memoryRepo) TotalDailyUsed(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, e := range r.byTID {
		total += e.DailyUsed
	}
	return total, nil
}

func (r *memoryRepo) ResetAllDaily(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byTID {
		e.RolloverDay()
	}
	return int64(len(r.byTID)), nil
}

func (r *memoryRepo) ResetAllWeekly(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byTID {
		e.RolloverWeek()
	}
	return int64(len(r.byTID)), nil
}

type fakeAds struct {
	disabled bool
}

func (f *fakeAds) AdsDisabledGlobally() bool { return f.disabled }

func (f *fakeAds) ToggleGlobal() bool {
	f.disabled = !f.disabled
	return !f.disabled
}

type fixedTopic string

func (t fixedTopic) LessonTopic() string { return string(t) }

type recordingBus struct {
	events []shared.Event
}

func (b *recordingBus) Publish(event shared.Event) error {
	b.events = append(b.events, event)
	return nil
}

type memoryUsers struct {
	mu      sync.Mutex
	records map[string]*directory.UserRecord
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{records: make(map[string]*directory.UserRecord)}
}

func (r *memoryUsers) Upsert(_ context.Context, record *directory.UserRecord) (*directory.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[record.ID]
	if ok {
		existing.FirstName = record.FirstName
		existing.LastName = record.LastName
		existing.Username = record.Username
		existing.LanguageCode = record.LanguageCode
		existing.Seen()
		copied := *existing
		return &copied, nil
	}
	copied := *record
	r.records[record.ID] = &copied
	result := copied
	return &result, nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*directory.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *memoryUsers) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

type staticAssistant struct {
	text   string
	source string
}

func (a staticAssistant) Ask(context.Context, string) (string, string) { return a.text, a.source }

func newTestSessions() (*Sessions, *memoryRepo) {
	repo := newMemoryRepo()
	return NewSessions(repo, NewLearnerLocks()), repo
}

const testTID = learner.TelegramID(700100)

// ─────────────────────────────────────────────────────────────────────────────
// StartLesson
// ─────────────────────────────────────────────────────────────────────────────

func TestStartLessonHandler_FirstContactCreatesAndStarts(t *testing.T) {
	sessions, repo := newTestSessions()
	bus := &recordingBus{}
	h := NewStartLessonHandler(sessions, fixedTopic("еда"), &fakeAds{}, bus)

	result, err := h.Handle(context.Background(), StartLessonCommand{TelegramID: testTID})
	require.NoError(t, err)

	assert.Equal(t, learner.LessonStarted, result.Outcome)
	assert.Equal(t, "Диалог с DeepSeek", result.Title)
	assert.Equal(t, "Сегодняшняя тема — разговор о еда. Готовы начать?", result.Text)
	assert.Equal(t, 8, result.Summary.DailyUsed)
	assert.Equal(t, 37, result.Summary.WeeklyWords)

	saved, err := repo.GetByTelegramID(context.Background(), testTID)
	require.NoError(t, err)
	assert.Equal(t, 8, saved.DailyUsed)
	assert.Equal(t, "еда", saved.LastLessonTopic)

	require.Len(t, bus.events, 1)
	assert.Equal(t, shared.EventLessonStarted, bus.events[0].EventType())
}

func TestStartLessonHandler_LimitReached(t *testing.T) {
	sessions, repo := newTestSessions()
	h := NewStartLessonHandler(sessions, fixedTopic("еда"), &fakeAds{}, nil)

	e, err := learner.NewEntitlements("test-id", testTID)
	require.NoError(t, err)
	e.DailyUsed = e.DailyLimit
	require.NoError(t, repo.Create(context.Background(), e))

	result, err := h.Handle(context.Background(), StartLessonCommand{TelegramID: testTID})
	require.NoError(t, err)

	assert.Equal(t, learner.LessonLimitReached, result.Outcome)
	assert.Equal(t, "Дневной лимит", result.Title)
	assert.True(t, result.Summary.DailyLimitHit)
}

func TestStartLessonHandler_BlockedDuringBreak(t *testing.T) {
	sessions, repo := newTestSessions()
	h := NewStartLessonHandler(sessions, fixedTopic("еда"), &fakeAds{}, nil)

	e, err := learner.NewEntitlements("test-id", testTID)
	require.NoError(t, err)
	e.ScheduleBreak()
	require.NoError(t, repo.Create(context.Background(), e))

	result, err := h.Handle(context.Background(), StartLessonCommand{TelegramID: testTID})
	require.NoError(t, err)

	assert.Equal(t, learner.LessonBreakBlocked, result.Outcome)
	assert.Equal(t, "Перерыв активен", result.Title)
	// Счётчик не изменился.
	assert.Equal(t, 7, result.Summary.DailyUsed)
}

func TestStartLessonHandler_InvalidTelegramID(t *testing.T) {
	sessions, _ := newTestSessions()
	h := NewStartLessonHandler(sessions, fixedTopic("еда"), &fakeAds{}, nil)

	_, err := h.Handle(context.Background(), StartLessonCommand{TelegramID: 0})
	assert.ErrorIs(t, err, learner.ErrInvalidTelegramID)
}

// ─────────────────────────────────────────────────────────────────────────────
// SetFocus
// ─────────────────────────────────────────────────────────────────────────────

func TestSetFocusHandler_AppliesFocus(t *testing.T) {
	sessions, _ := newTestSessions()
	h := NewSetFocusHandler(sessions, &fakeAds{})

	result, err := h.Handle(context.Background(), SetFocusCommand{TelegramID: testTID, Focus: "culture"})
	require.NoError(t, err)

	assert.Equal(t, "Фокус \"culture\" активирован. Лимит уроков: 14 в день.", result.Message)
	assert.Equal(t, 14, result.Summary.DailyLimit)
}

func TestSetFocusHandler_RejectsUnknownFocus(t *testing.T) {
	sessions, repo := newTestSessions()
	h := NewSetFocusHandler(sessions, &fakeAds{})

	_, err := h.Handle(context.Background(), SetFocusCommand{TelegramID: testTID, Focus: "space"})
	assert.ErrorIs(t, err, learner.ErrUnknownFocus)

	// Отказ не должен создавать состояние.
	_, err = repo.GetByTelegramID(context.Background(), testTID)
	assert.ErrorIs(t, err, learner.ErrLearnerNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// InvokeAction
// ─────────────────────────────────────────────────────────────────────────────

func TestInvokeActionHandler_UnknownActionRejected(t *testing.T) {
	sessions, repo := newTestSessions()
	h := NewInvokeActionHandler(sessions, &fakeAds{}, nil)

	_, err := h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: "selfDestruct"})
	assert.ErrorIs(t, err, learner.ErrUnknownAction)

	_, err = repo.GetByTelegramID(context.Background(), testTID)
	assert.ErrorIs(t, err, learner.ErrLearnerNotFound)
}

func TestInvokeActionHandler_PayVip(t *testing.T) {
	sessions, _ := newTestSessions()
	bus := &recordingBus{}
	h := NewInvokeActionHandler(sessions, &fakeAds{}, bus)

	result, err := h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionPayVip})
	require.NoError(t, err)

	assert.Equal(t, "VIP активирован. Лимиты расширены, реклама отключена.", result.Message)
	assert.True(t, result.Summary.IsVip)
	assert.Equal(t, 20, result.Summary.DailyLimit)
	assert.False(t, result.Summary.AdsEnabled)

	require.Len(t, bus.events, 1)
	assert.Equal(t, shared.EventVipActivated, bus.events[0].EventType())
}

func TestInvokeActionHandler_ToggleAdsTwice(t *testing.T) {
	sessions, _ := newTestSessions()
	h := NewInvokeActionHandler(sessions, &fakeAds{}, nil)

	// Новый пользователь стартует с включённой рекламой.
	result, err := h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionToggleAds})
	require.NoError(t, err)
	assert.Equal(t, "Реклама отключена. Доступно больше фокуса на уроках.", result.Message)
	assert.False(t, result.Summary.AdsEnabled)

	result, err = h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionToggleAds})
	require.NoError(t, err)
	assert.Equal(t, "Реклама включена. Лимиты остаются базовыми.", result.Message)
	assert.True(t, result.Summary.AdsEnabled)
}

func TestInvokeActionHandler_BreakAndResume(t *testing.T) {
	sessions, _ := newTestSessions()
	h := NewInvokeActionHandler(sessions, &fakeAds{}, nil)

	result, err := h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionScheduleBreak})
	require.NoError(t, err)
	assert.True(t, result.Summary.BreakActive)
	assert.Equal(t, 7, result.Summary.DailyLimit)

	result, err = h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionResumeLearning})
	require.NoError(t, err)
	assert.False(t, result.Summary.BreakActive)
	assert.Equal(t, 12, result.Summary.DailyLimit)
	assert.Equal(t, "Перерыв завершён. Лимиты восстановлены.", result.Message)
}

func TestInvokeActionHandler_ReferralProgressAndReward(t *testing.T) {
	sessions, _ := newTestSessions()
	bus := &recordingBus{}
	h := NewInvokeActionHandler(sessions, &fakeAds{}, bus)

	// Демо-состояние: 3/10 приглашённых.
	result, err := h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionAddReferral})
	require.NoError(t, err)
	assert.Equal(t, "Приглашено друзей: 4/10.", result.Message)
	assert.False(t, result.Summary.IsVip)

	for i := 0; i < 5; i++ {
		_, err = h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionAddReferral})
		require.NoError(t, err)
	}

	result, err = h.Handle(context.Background(), InvokeActionCommand{TelegramID: testTID, Action: ActionAddReferral})
	require.NoError(t, err)
	assert.Equal(t, "Готово! Вы получили VIP на 30 дней.", result.Message)
	assert.True(t, result.Summary.IsVip)
	assert.False(t, result.Summary.AdsEnabled)

	last := bus.events[len(bus.events)-1]
	assert.Equal(t, shared.EventReferralRewardGranted, last.EventType())
}

// ─────────────────────────────────────────────────────────────────────────────
// AskAI
// ─────────────────────────────────────────────────────────────────────────────

func TestAskAIHandler_ForwardsToAssistant(t *testing.T) {
	h := NewAskAIHandler(staticAssistant{text: "Hallo!", source: "deepseek"})

	reply, err := h.Handle(context.Background(), AskAICommand{Prompt: "Как сказать привет?"})
	require.NoError(t, err)
	assert.Equal(t, "Hallo!", reply.Text)
	assert.Equal(t, "deepseek", reply.Source)
}

func TestAskAIHandler_RejectsBlankPrompt(t *testing.T) {
	h := NewAskAIHandler(staticAssistant{})

	_, err := h.Handle(context.Background(), AskAICommand{Prompt: "   "})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

// ─────────────────────────────────────────────────────────────────────────────
// UpsertUser
// ─────────────────────────────────────────────────────────────────────────────

func TestUpsertUserHandler_GeneratesGuestID(t *testing.T) {
	users := newMemoryUsers()
	h := NewUpsertUserHandler(users)

	record, err := h.Handle(context.Background(), UpsertUserCommand{})
	require.NoError(t, err)

	assert.True(t, len(record.ID) > len("guest-"))
	assert.Equal(t, "guest-", record.ID[:6])
	assert.Equal(t, "Гость", record.FirstName)
	assert.Equal(t, "ru", record.LanguageCode)
}

func TestUpsertUserHandler_NormalizesFields(t *testing.T) {
	users := newMemoryUsers()
	h := NewUpsertUserHandler(users)

	record, err := h.Handle(context.Background(), UpsertUserCommand{
		ID:           "445566",
		FirstName:    "Anna",
		LanguageCode: "DE",
	})
	require.NoError(t, err)

	assert.Equal(t, "445566", record.ID)
	assert.Equal(t, "Anna", record.FirstName)
	assert.Equal(t, "de", record.LanguageCode)

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// ─────────────────────────────────────────────────────────────────────────────
// Admin commands
// ─────────────────────────────────────────────────────────────────────────────

func TestResetLimitsHandler_ResetsState(t *testing.T) {
	sessions, repo := newTestSessions()
	h := NewResetLimitsHandler(sessions, &fakeAds{}, nil)

	e, err := learner.NewEntitlements("test-id", testTID)
	require.NoError(t, err)
	e.ScheduleBreak()
	require.NoError(t, repo.Create(context.Background(), e))

	result, err := h.Handle(context.Background(), ResetLimitsCommand{TelegramID: testTID})
	require.NoError(t, err)

	assert.Equal(t, "лимиты сброшены", result.Status)
	assert.Equal(t, "Лимиты сброшены, обучение доступно без ограничений на сегодня.", result.Message)
	assert.Equal(t, 0, result.Summary.DailyUsed)
	assert.Equal(t, 0, result.Summary.WeeklyWords)
	assert.False(t, result.Summary.BreakActive)
	assert.Equal(t, 12, result.Summary.DailyLimit)
}

func TestToggleAdsGlobalHandler_FlipsSwitch(t *testing.T) {
	ads := &fakeAds{}
	bus := &recordingBus{}
	h := NewToggleAdsGlobalHandler(ads, bus)

	result, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Enabled)
	assert.Equal(t, "реклама выключена", result.Status)
	assert.Equal(t, "Глобальная реклама отключена. Рекламные слоты скрыты.", result.Message)

	result, err = h.Handle(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Enabled)
	assert.Equal(t, "реклама включена", result.Status)

	require.Len(t, bus.events, 2)
	assert.Equal(t, shared.EventAdsGlobalToggled, bus.events[0].EventType())
}

func TestManageContentHandler_AddAndResolve(t *testing.T) {
	h := NewManageContentHandler(catalog.NewLibrary())

	item, err := h.HandleAddContent(context.Background(), AddContentCommand{Title: "Сценарий: аптека"})
	require.NoError(t, err)
	assert.Equal(t, "Сценарий: аптека", item.Title)
	assert.Equal(t, "draft", item.Status)

	resolved, err := h.HandleResolveModeration(context.Background(), ResolveModerationCommand{ID: 2, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resolved.Status)

	_, err = h.HandleResolveModeration(context.Background(), ResolveModerationCommand{ID: 999})
	assert.True(t, errors.Is(err, catalog.ErrModerationItemNotFound))
}
