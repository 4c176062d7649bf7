package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	ebtypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/fargito/todos/todo"
)

// EventBridgeAPI is the subset of the EventBridge client the publisher uses.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridge publishes events to an EventBridge bus.
type EventBridge struct {
	client  EventBridgeAPI
	busName string
	source  string
}

// NewEventBridge creates a publisher for the named bus. An empty source
// defaults to [DefaultSource].
func NewEventBridge(client EventBridgeAPI, busName, source string) *EventBridge {
	if source == "" {
		source = DefaultSource
	}
	return &EventBridge{
		client:  client,
		busName: busName,
		source:  source,
	}
}

// Publish puts one entry on the bus. A rejected entry is an error even though
// the call itself succeeded.
func (p *EventBridge) Publish(ctx context.Context, eventType todo.EventType, item todo.Item) error {
	detail, err := json.Marshal(item)
	if err != nil {
		return publishError("unable to encode event", err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []ebtypes.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(p.source),
				DetailType:   aws.String(string(eventType)),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return publishError("unable to publish event", fmt.Errorf("put events on %s: %w", p.busName, err))
	}

	if out.FailedEntryCount > 0 {
		code, message := "unknown", ""
		for _, entry := range out.Entries {
			if entry.ErrorCode != nil {
				code = aws.ToString(entry.ErrorCode)
				message = aws.ToString(entry.ErrorMessage)
				break
			}
		}
		return publishError("unable to publish event", fmt.Errorf("entry rejected by %s: %s: %s", p.busName, code, message))
	}

	return nil
}
