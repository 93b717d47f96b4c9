package messaging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschflow/deutschflow-hub/internal/domain/shared"
)

type countingHandler struct {
	mu    sync.Mutex
	seen  []shared.EventType
	fail  bool
	name  string
	calls int
}

func (h *countingHandler) Handle(event shared.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.seen = append(h.seen, event.EventType())
	if h.fail {
		return errors.New("handler failed")
	}
	return nil
}

func (h *countingHandler) Name() string { return h.name }

type testEvent struct {
	shared.BaseEvent
}

func (e *testEvent) Payload() map[string]interface{} {
	return map[string]interface{}{}
}

func newTestEvent(eventType shared.EventType) *testEvent {
	return &testEvent{BaseEvent: shared.NewBaseEvent(eventType, "agg-1")}
}

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false, EnableMetrics: true})
}

func TestInMemoryEventBus_DeliversToTypeHandler(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	h := &countingHandler{name: "lesson"}
	require.NoError(t, bus.Subscribe(shared.EventLessonStarted, h))

	require.NoError(t, bus.Publish(newTestEvent(shared.EventLessonStarted)))
	require.NoError(t, bus.Publish(newTestEvent(shared.EventVipActivated)))

	assert.Equal(t, 1, h.calls)
	assert.Equal(t, []shared.EventType{shared.EventLessonStarted}, h.seen)
}

func TestInMemoryEventBus_GlobalHandlerSeesEverything(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	h := &countingHandler{name: "audit"}
	require.NoError(t, bus.SubscribeAll(h))

	require.NoError(t, bus.Publish(newTestEvent(shared.EventLessonStarted)))
	require.NoError(t, bus.Publish(newTestEvent(shared.EventDailyReset)))

	assert.Equal(t, 2, h.calls)
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventLessonStarted, &countingHandler{name: "bad", fail: true}))

	assert.NoError(t, bus.Publish(newTestEvent(shared.EventLessonStarted)))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalPublished)
	assert.Equal(t, float64(0), snap.HandlerSuccessRate)
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(newTestEvent(shared.EventLessonStarted))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventLessonStarted, &countingHandler{name: "late"})
	assert.ErrorIs(t, err, ErrEventBusClosed)
}
