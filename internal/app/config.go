package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/fargito/todos/bus"
	"github.com/fargito/todos/consumer"
)

// Counter triggers.
const (
	TriggerEventBridge = "eventbridge"
	TriggerSQS         = "sqs"
)

// Config is the process configuration, read from the environment.
type Config struct {
	// TableName is the todo table. Required. (TODOS_TABLE_NAME)
	TableName string

	// ConsistentReads makes list queries strongly consistent. (CONSISTENT_READS)
	ConsistentReads bool

	// EventBusName selects the EventBridge publisher. (EVENT_BUS_NAME)
	EventBusName string

	// EventQueueURL selects the SQS publisher when no bus is set. (EVENT_QUEUE_URL)
	EventQueueURL string

	// EventSource is the source of published events. (EVENT_SOURCE)
	// Default: "api.todos"
	EventSource string

	// LogLevel is one of debug, info, warn or error. (LOG_LEVEL)
	// Default: "info"
	LogLevel string

	// CounterTrigger selects the delivery the counter handles: eventbridge
	// or sqs. (COUNTER_TRIGGER)
	// Default: "eventbridge"
	CounterTrigger string

	// ConsumerConcurrency bounds concurrent records per SQS batch. (CONSUMER_CONCURRENCY)
	// Default: 10
	ConsumerConcurrency int
}

// LoadConfig reads the configuration from the environment. Variables from
// the given .env files are loaded first without overriding the environment;
// missing files are ignored.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Config{
		TableName:           os.Getenv("TODOS_TABLE_NAME"),
		ConsistentReads:     getenvBoolDefault("CONSISTENT_READS", false),
		EventBusName:        os.Getenv("EVENT_BUS_NAME"),
		EventQueueURL:       os.Getenv("EVENT_QUEUE_URL"),
		EventSource:         getenvDefault("EVENT_SOURCE", bus.DefaultSource),
		LogLevel:            getenvDefault("LOG_LEVEL", "info"),
		CounterTrigger:      getenvDefault("COUNTER_TRIGGER", TriggerEventBridge),
		ConsumerConcurrency: consumer.DefaultConcurrency,
	}

	if v := os.Getenv("CONSUMER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("CONSUMER_CONCURRENCY must be an integer: %w", err)
		}
		cfg.ConsumerConcurrency = n
	}

	return cfg, nil
}

// Validate checks the configuration. The API requires a publisher; the
// counter does not.
func (c Config) Validate(requirePublisher bool) error {
	if strings.TrimSpace(c.TableName) == "" {
		return errors.New("TODOS_TABLE_NAME is required")
	}
	if requirePublisher && c.EventBusName == "" && c.EventQueueURL == "" {
		return errors.New("EVENT_BUS_NAME or EVENT_QUEUE_URL is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.CounterTrigger != TriggerEventBridge && c.CounterTrigger != TriggerSQS {
		return fmt.Errorf("COUNTER_TRIGGER %q is not one of eventbridge, sqs", c.CounterTrigger)
	}
	if c.ConsumerConcurrency < 1 {
		return errors.New("CONSUMER_CONCURRENCY must be > 0")
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
