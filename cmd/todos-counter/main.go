// Command todos-counter is the Lambda function maintaining list counters.
//
// It handles EventBridge rule deliveries by default. Set COUNTER_TRIGGER=sqs
// when the function is subscribed to a queue instead.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/fargito/todos/consumer"
	"github.com/fargito/todos/internal/app"
)

func main() {
	cfg, err := app.LoadConfig(".env")
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(false); err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg, os.Stdout)
	if err != nil {
		slog.Error("startup error", "error", err)
		os.Exit(1)
	}

	handler := consumer.NewHandler(a.Counter, a.Logger, cfg.ConsumerConcurrency)

	if cfg.CounterTrigger == app.TriggerSQS {
		lambda.Start(handler.HandleSQS)
		return
	}
	lambda.Start(handler.HandleEventBridge)
}
