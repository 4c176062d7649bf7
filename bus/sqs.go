package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/fargito/todos/todo"
)

// SQSAPI is the subset of the SQS client the publisher uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQS publishes events directly to a queue.
type SQS struct {
	client   SQSAPI
	queueURL string
	source   string
	now      func() time.Time
}

// NewSQS creates a publisher for the queue. An empty source defaults to
// [DefaultSource].
func NewSQS(client SQSAPI, queueURL, source string) *SQS {
	if source == "" {
		source = DefaultSource
	}
	return &SQS{
		client:   client,
		queueURL: queueURL,
		source:   source,
		now:      time.Now,
	}
}

// Publish sends the enveloped event as one message. The event type is also
// set as a message attribute for queue-side filtering.
func (p *SQS) Publish(ctx context.Context, eventType todo.EventType, item todo.Item) error {
	envelope, err := Envelope(p.source, eventType, item, p.now())
	if err != nil {
		return publishError("unable to encode event", err)
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return publishError("unable to encode event", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"detail-type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(eventType)),
			},
		},
	})
	if err != nil {
		return publishError("unable to publish event", fmt.Errorf("send message to %s: %w", p.queueURL, err))
	}

	return nil
}
