// Package app builds the process context shared by the Lambda binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/fargito/todos/bus"
	"github.com/fargito/todos/store"
	"github.com/fargito/todos/todo"
)

// App is built once per process and is immutable afterwards.
type App struct {
	Config  Config
	Logger  *slog.Logger
	Service *todo.Service
	Counter *todo.Counter
}

// New loads the AWS configuration once and builds the clients for cfg.
func New(ctx context.Context, cfg Config, out io.Writer) (*App, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var publisher todo.Publisher
	switch {
	case cfg.EventBusName != "":
		publisher = bus.NewEventBridge(eventbridge.NewFromConfig(awsCfg), cfg.EventBusName, cfg.EventSource)
	case cfg.EventQueueURL != "":
		publisher = bus.NewSQS(sqs.NewFromConfig(awsCfg), cfg.EventQueueURL, cfg.EventSource)
	}

	return Assemble(cfg, dynamodb.NewFromConfig(awsCfg), publisher, out)
}

// Assemble builds an App from already constructed clients. A nil publisher
// makes every publish fail, which the service logs and ignores.
func Assemble(cfg Config, client store.API, publisher todo.Publisher, out io.Writer) (*App, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(out, level)

	if publisher == nil {
		publisher = todo.PublisherFunc(func(ctx context.Context, eventType todo.EventType, item todo.Item) error {
			return &todo.Error{Kind: todo.KindPublish, Message: "no publisher configured"}
		})
	}

	st := store.New(client, store.Config{
		TableName:       cfg.TableName,
		ConsistentReads: cfg.ConsistentReads,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		Service: todo.NewService(st, publisher, todo.WithLogger(logger)),
		Counter: todo.NewCounter(st, logger),
	}, nil
}

// NewLogger returns a JSON logger writing to out.
func NewLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
