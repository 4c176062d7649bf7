// Command todos-api is the Lambda function serving the todo HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/fargito/todos/api"
	"github.com/fargito/todos/internal/app"
)

func main() {
	cfg, err := app.LoadConfig(".env")
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(true); err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg, os.Stdout)
	if err != nil {
		slog.Error("startup error", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(a.Service, a.Logger)
	lambda.Start(handler.Handle)
}
