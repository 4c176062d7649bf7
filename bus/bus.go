// Package bus publishes todo domain events to AWS.
//
// [EventBridge] puts one entry per event on an event bus. [SQS] sends the
// same event, wrapped in the EventBridge envelope, straight to a queue. Both
// produce the document an EventBridge rule delivers to its targets, so a
// consumer decodes events the same way whichever route they took:
//
//	{
//	  "version": "0",
//	  "id": "...",
//	  "source": "api.todos",
//	  "detail-type": "ITEM_CREATED",
//	  "time": "2024-05-01T12:00:00Z",
//	  "detail": {"id": "...", "list_id": "L1", "title": "...", "description": "..."}
//	}
//
// Publishers make a single attempt. Failures are returned as todo errors of
// kind [todo.KindPublish].
package bus

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/fargito/todos/todo"
)

// DefaultSource is the event source used when none is configured.
const DefaultSource = "api.todos"

// Envelope builds the EventBridge-shaped document for an event.
func Envelope(source string, eventType todo.EventType, item todo.Item, now time.Time) (events.CloudWatchEvent, error) {
	detail, err := json.Marshal(item)
	if err != nil {
		return events.CloudWatchEvent{}, err
	}
	return events.CloudWatchEvent{
		Version:    "0",
		ID:         uuid.NewString(),
		DetailType: string(eventType),
		Source:     source,
		Time:       now.UTC(),
		Resources:  []string{},
		Detail:     detail,
	}, nil
}

// Decode extracts the domain event carried by an envelope.
func Decode(envelope events.CloudWatchEvent) (todo.Event, error) {
	var item todo.Item
	if len(envelope.Detail) > 0 {
		if err := json.Unmarshal(envelope.Detail, &item); err != nil {
			return todo.Event{}, err
		}
	}
	return todo.Event{
		Type: todo.EventType(envelope.DetailType),
		Item: item,
	}, nil
}

func publishError(message string, err error) *todo.Error {
	return &todo.Error{Kind: todo.KindPublish, Message: message, Err: err}
}
