package todo

import (
	"context"
	"log/slog"
	"time"

	"github.com/fargito/todos/internal/keys"
)

// Counter maintains the per-list item count from domain events. Applying an
// event is not idempotent: a duplicate delivery applies its delta twice and
// the count only matches the number of live items under exactly-once
// delivery.
type Counter struct {
	store  Store
	logger *slog.Logger
}

// NewCounter creates a Counter over a store.
func NewCounter(store Store, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Counter{
		store:  store,
		logger: logger,
	}
}

// Apply adds the delta of event to its list's counter. An unknown event type
// or an event without a list id is a validation error and touches nothing.
// Store failures are returned so the delivery can be retried.
func (c *Counter) Apply(ctx context.Context, event Event) error {
	delta, ok := event.Type.Delta()
	if !ok {
		return &Error{Kind: KindValidation, Message: ErrUnknownEventType.Message, Attribute: string(event.Type)}
	}
	if event.Item.ListID == "" {
		return validationError(ErrMissingListID)
	}

	key := keys.Counter(event.Item.ListID)

	start := time.Now()
	if err := c.store.Increment(ctx, key.Partition, key.Sort, delta); err != nil {
		return storageError("unable to update counter", err)
	}
	c.logger.Debug("updated counter",
		"event_type", string(event.Type),
		"list_id", event.Item.ListID,
		"delta", delta,
		"duration", time.Since(start),
	)

	return nil
}
