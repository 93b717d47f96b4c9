package command

import (
	"context"
	"fmt"

	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// START LESSON COMMAND
// Attempts to start a lesson for the learner. Break and quota refusals are
// defined outcomes, not errors: the caller always gets a fresh summary and a
// human-readable message.
// ══════════════════════════════════════════════════════════════════════════════

// Response templates for the lesson intent.
const (
	lessonStartedTitle = "Диалог с DeepSeek"
	lessonStartedText  = "Сегодняшняя тема — разговор о %s. Готовы начать?"

	lessonBreakTitle = "Перерыв активен"
	lessonBreakText  = "Вы запланировали паузу. Лимиты временно снижены. Вернитесь завтра!"

	lessonLimitTitle = "Дневной лимит"
	lessonLimitText  = "Вы достигли дневного лимита. Завтра лимиты восстановятся."
)

// TopicSource supplies a lesson topic. Backed by the seedable catalog
// randomizer in production and by a fixed value in tests.
type TopicSource interface {
	LessonTopic() string
}

// StartLessonCommand identifies the learner starting a lesson.
type StartLessonCommand struct {
	TelegramID learner.TelegramID
}

// StartLessonResult is the outward response of the lesson intent.
type StartLessonResult struct {
	Outcome learner.StartLessonOutcome
	Title   string
	Text    string
	Summary learner.Summary
}

// StartLessonHandler handles StartLessonCommand.
type StartLessonHandler struct {
	sessions *Sessions
	topics   TopicSource
	ads      AdsSwitch
	events   shared.EventPublisher
}

// NewStartLessonHandler creates the handler.
func NewStartLessonHandler(sessions *Sessions, topics TopicSource, ads AdsSwitch, events shared.EventPublisher) *StartLessonHandler {
	if events == nil {
		events = shared.NoopPublisher{}
	}
	return &StartLessonHandler{sessions: sessions, topics: topics, ads: ads, events: events}
}

// Handle applies the lesson-start transition as one unit of work.
func (h *StartLessonHandler) Handle(ctx context.Context, cmd StartLessonCommand) (*StartLessonResult, error) {
	var outcome learner.StartLessonOutcome

	e, err := h.sessions.Mutate(ctx, cmd.TelegramID, func(e *learner.Entitlements) error {
		outcome = e.StartLesson(h.topics.LessonTopic())
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &StartLessonResult{
		Outcome: outcome,
		Summary: learner.BuildSummary(e, h.ads.AdsDisabledGlobally()),
	}

	switch outcome {
	case learner.LessonStarted:
		result.Title = lessonStartedTitle
		result.Text = fmt.Sprintf(lessonStartedText, e.LastLessonTopic)
		_ = h.events.Publish(learner.NewLessonStartedEvent(e))
	case learner.LessonBreakBlocked:
		result.Title = lessonBreakTitle
		result.Text = lessonBreakText
	case learner.LessonLimitReached:
		result.Title = lessonLimitTitle
		result.Text = lessonLimitText
	}

	return result, nil
}
