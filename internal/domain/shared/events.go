// Package shared contains common domain types, errors and events
// that are used across all domain packages. Zero external dependencies.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven parts of the system.
// Each event represents something significant that happened in the domain.
const (
	// Learner lifecycle events
	EventLearnerRegistered EventType = "learner.registered"
	EventLearnerUpdated    EventType = "learner.updated"

	// Lesson and quota events
	EventLessonStarted EventType = "lesson.started"
	EventDailyReset    EventType = "quota.daily_reset"
	EventWeeklyReset   EventType = "quota.weekly_reset"

	// Entitlement events
	EventVipActivated          EventType = "entitlement.vip_activated"
	EventBreakScheduled        EventType = "entitlement.break_scheduled"
	EventLearningResumed       EventType = "entitlement.learning_resumed"
	EventReferralAdded         EventType = "entitlement.referral_added"
	EventReferralRewardGranted EventType = "entitlement.referral_reward_granted"
	EventAdsToggled            EventType = "entitlement.ads_toggled"

	// Tenant events
	EventAdsGlobalToggled EventType = "tenant.ads_global_toggled"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// NewBaseEvent creates a BaseEvent with the current UTC timestamp.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// EventType returns the type of the event.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the aggregate ID.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// EventHandler processes domain events.
type EventHandler interface {
	// Handle processes the event. Errors are logged by the bus, not propagated
	// to the publisher.
	Handle(event Event) error

	// Name returns the handler name for logging.
	Name() string
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc struct {
	HandlerName string
	Fn          func(event Event) error
}

// Handle calls the wrapped function.
func (f EventHandlerFunc) Handle(event Event) error {
	return f.Fn(event)
}

// Name returns the handler name.
func (f EventHandlerFunc) Name() string {
	return f.HandlerName
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event Event) error
}

// EventBus is a publisher with subscription management.
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for one event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for every event.
	SubscribeAll(handler EventHandler) error

	// Close shuts the bus down, draining in-flight handlers.
	Close() error
}

// NoopPublisher discards all events. Used in tests and when the bus is disabled.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(Event) error { return nil }
