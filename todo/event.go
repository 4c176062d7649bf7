package todo

import "context"

// EventType is the type of a domain event.
type EventType string

const (
	// EventItemCreated is published after an item was stored.
	EventItemCreated EventType = "ITEM_CREATED"

	// EventItemDeleted is published after an item was removed.
	EventItemDeleted EventType = "ITEM_DELETED"
)

// Event is an immutable domain event envelope. It is published once per
// successful mutation and may be delivered any number of times, in any order.
type Event struct {
	Type EventType
	Item Item
}

// Publisher emits domain events. Implementations make a single attempt.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, item Item) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, eventType EventType, item Item) error

// Publish calls f(ctx, eventType, item).
func (f PublisherFunc) Publish(ctx context.Context, eventType EventType, item Item) error {
	return f(ctx, eventType, item)
}

// Delta returns the counter delta an event applies: +1 for
// [EventItemCreated], -1 for [EventItemDeleted] and false for anything else.
func (t EventType) Delta() (int64, bool) {
	switch t {
	case EventItemCreated:
		return 1, true
	case EventItemDeleted:
		return -1, true
	default:
		return 0, false
	}
}
