package todo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/fargito/todos/internal/keys"
)

// Store is the primary store the command handlers and the counter run on.
// Implementations are safe for concurrent use.
type Store interface {
	// Put writes a record, replacing any record under the same key.
	Put(ctx context.Context, pk, sk string, attrs map[string]types.AttributeValue) error

	// DeleteReturningOld removes a record and returns its previous
	// attributes, or a nil map if no record existed.
	DeleteReturningOld(ctx context.Context, pk, sk string) (map[string]types.AttributeValue, error)

	// QueryPrefix returns every record of the partition whose sort key starts
	// with skPrefix, in ascending sort key order.
	QueryPrefix(ctx context.Context, pk, skPrefix string) ([]map[string]types.AttributeValue, error)

	// Increment atomically adds delta to the count attribute of a record,
	// creating it at zero first if absent.
	Increment(ctx context.Context, pk, sk string, delta int64) error
}

// Service implements the create, delete and list commands. It holds no
// mutable state and may be shared across goroutines.
type Service struct {
	store     Store
	publisher Publisher
	newID     IDGenerator
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the ULID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewService creates a Service over a store and a publisher.
func NewService(store Store, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: publisher,
		newID:     NewIDGenerator(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new item in the list and announces it with an
// [EventItemCreated] event. The body must be a JSON object with string
// title and description fields.
func (s *Service) Create(ctx context.Context, listID string, body []byte) (Item, error) {
	if listID == "" {
		return Item{}, validationError(ErrMissingListID)
	}

	title, description, err := decodeCreateBody(body)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:          s.newID(),
		ListID:      listID,
		Title:       title,
		Description: description,
	}
	key := item.Key()

	start := time.Now()
	if err := s.store.Put(ctx, key.Partition, key.Sort, item.Attributes()); err != nil {
		return Item{}, storageError("unable to store item", err)
	}
	s.logger.Debug("stored item",
		"list_id", item.ListID,
		"item_id", item.ID,
		"duration", time.Since(start),
	)

	s.announce(ctx, EventItemCreated, item)
	return item, nil
}

// Delete removes an item and announces it with an [EventItemDeleted] event
// carrying the removed item. Deleting an item the store does not hold is
// reported as [ErrInconsistentState].
func (s *Service) Delete(ctx context.Context, listID, itemID string) error {
	if listID == "" {
		return validationError(ErrMissingListID)
	}
	if itemID == "" {
		return validationError(ErrMissingItemID)
	}

	key := keys.Item(listID, itemID)

	start := time.Now()
	old, err := s.store.DeleteReturningOld(ctx, key.Partition, key.Sort)
	if err != nil {
		return storageError("unable to delete item", err)
	}
	s.logger.Debug("deleted item",
		"list_id", listID,
		"item_id", itemID,
		"duration", time.Since(start),
	)

	if len(old) == 0 {
		return &Error{Kind: KindStorage, Message: ErrInconsistentState.Message}
	}

	item, err := DecodeItem(old)
	if err != nil {
		return &Error{Kind: KindStorage, Message: ErrMalformedRecord.Message, Err: err}
	}

	s.announce(ctx, EventItemDeleted, item)
	return nil
}

// List returns the items of a list in id order, which is creation order.
// Records that cannot be decoded are skipped. The result is never nil.
func (s *Service) List(ctx context.Context, listID string) ([]Item, error) {
	if listID == "" {
		return nil, validationError(ErrMissingListID)
	}

	partition, prefix := keys.ItemScan(listID)

	start := time.Now()
	records, err := s.store.QueryPrefix(ctx, partition, prefix)
	if err != nil {
		return nil, storageError("unable to query items", err)
	}
	s.logger.Debug("queried items",
		"list_id", listID,
		"count", len(records),
		"duration", time.Since(start),
	)

	items := make([]Item, 0, len(records))
	for _, record := range records {
		item, err := DecodeItem(record)
		if err != nil {
			s.logger.Warn("skipping malformed record",
				"list_id", listID,
				"attribute", attributeOf(err),
				"error", err,
			)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// announce makes one attempt to publish an event. The outcome never
// affects the command result.
func (s *Service) announce(ctx context.Context, eventType EventType, item Item) {
	if err := s.publisher.Publish(ctx, eventType, item); err != nil {
		s.logger.Error("failed to publish event",
			"event_type", string(eventType),
			"list_id", item.ListID,
			"item_id", item.ID,
			"error", err,
		)
	}
}

func attributeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Attribute
	}
	return ""
}
