// Package consumer provides Lambda handlers that feed domain events to the
// list counter.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/sync/errgroup"

	"github.com/fargito/todos/bus"
	"github.com/fargito/todos/todo"
)

// DefaultConcurrency bounds how many records of one SQS batch are applied at
// the same time.
const DefaultConcurrency = 10

// Applier applies one domain event. *todo.Counter satisfies it.
type Applier interface {
	Apply(ctx context.Context, event todo.Event) error
}

// Handler processes event deliveries for the counter.
//
// A delivery that can never succeed (undecodable, unknown type, no list id)
// is logged and dropped. Any other failure is reported so the delivery is
// retried.
type Handler struct {
	counter     Applier
	logger      *slog.Logger
	concurrency int
}

// NewHandler creates a new consumer handler. A concurrency below 1 uses
// [DefaultConcurrency].
func NewHandler(counter Applier, logger *slog.Logger, concurrency int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Handler{
		counter:     counter,
		logger:      logger,
		concurrency: concurrency,
	}
}

// HandleEventBridge processes one event delivered by an EventBridge rule.
// Returning an error makes Lambda retry the invocation.
func (h *Handler) HandleEventBridge(ctx context.Context, event events.CloudWatchEvent) error {
	return h.process(ctx, event.ID, event)
}

// HandleSQS processes a batch of queue messages, each carrying one
// EventBridge-shaped event. Records are applied concurrently; the ones that
// failed are reported as batch item failures so only they are redelivered.
// The function must be configured with ReportBatchItemFailures.
func (h *Handler) HandleSQS(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var (
		mu       sync.Mutex
		failures []events.SQSBatchItemFailure
	)

	var g errgroup.Group
	g.SetLimit(h.concurrency)

	for _, record := range event.Records {
		record := record
		g.Go(func() error {
			if err := h.processMessage(ctx, record); err != nil {
				mu.Lock()
				failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		h.logger.Warn("batch partially failed",
			"records", len(event.Records),
			"failed", len(failures),
		)
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func (h *Handler) processMessage(ctx context.Context, record events.SQSMessage) error {
	var envelope events.CloudWatchEvent
	if err := json.Unmarshal([]byte(record.Body), &envelope); err != nil {
		h.logger.Error("dropping undecodable message",
			"message_id", record.MessageId,
			"error", err,
		)
		return nil
	}
	return h.process(ctx, record.MessageId, envelope)
}

// process applies one envelope. Only retryable failures are returned.
func (h *Handler) process(ctx context.Context, messageID string, envelope events.CloudWatchEvent) error {
	event, err := bus.Decode(envelope)
	if err != nil {
		h.logger.Error("dropping undecodable event",
			"message_id", messageID,
			"event_type", envelope.DetailType,
			"error", err,
		)
		return nil
	}

	if err := h.counter.Apply(ctx, event); err != nil {
		if errors.Is(err, todo.ErrValidation) {
			h.logger.Error("dropping invalid event",
				"message_id", messageID,
				"event_type", string(event.Type),
				"list_id", event.Item.ListID,
				"error", err,
			)
			return nil
		}

		h.logger.Error("failed to apply event",
			"message_id", messageID,
			"event_type", string(event.Type),
			"list_id", event.Item.ListID,
			"error", err,
		)
		return err // Will retry, eventually DLQ
	}

	h.logger.Info("applied event",
		"message_id", messageID,
		"event_type", string(event.Type),
		"list_id", event.Item.ListID,
	)
	return nil
}
