package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/fargito/todos/bus"
	"github.com/fargito/todos/consumer"
	"github.com/fargito/todos/store/memstore"
	"github.com/fargito/todos/todo"
)

var _ consumer.Applier = (*todo.Counter)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(store *memstore.Store) *consumer.Handler {
	return consumer.NewHandler(todo.NewCounter(store, discardLogger()), discardLogger(), 4)
}

func envelope(t *testing.T, eventType todo.EventType, listID string) events.CloudWatchEvent {
	t.Helper()
	e, err := bus.Envelope(bus.DefaultSource, eventType, todo.Item{ID: uuid.NewString(), ListID: listID}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func message(t *testing.T, id string, e events.CloudWatchEvent) events.SQSMessage {
	t.Helper()
	body, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return events.SQSMessage{MessageId: id, Body: string(body)}
}

func TestNewHandler(t *testing.T) {
	// Test with nil counter and logger (should not panic)
	h := consumer.NewHandler(nil, nil, 0)
	if h == nil {
		t.Fatal("expected non-nil Handler")
	}
}

func TestHandleEventBridge(t *testing.T) {
	store := memstore.New()
	h := newHandler(store)
	ctx := context.Background()

	for _, e := range []events.CloudWatchEvent{
		envelope(t, todo.EventItemCreated, "L1"),
		envelope(t, todo.EventItemCreated, "L1"),
		envelope(t, todo.EventItemDeleted, "L1"),
	} {
		if err := h.HandleEventBridge(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if count, _ := store.Count("L1"); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestHandleEventBridge_DropsPoison(t *testing.T) {
	tests := []struct {
		name  string
		event events.CloudWatchEvent
	}{
		{"unknown type", events.CloudWatchEvent{DetailType: "ITEM_RENAMED", Detail: json.RawMessage(`{"list_id":"L1"}`)}},
		{"missing list id", events.CloudWatchEvent{DetailType: "ITEM_CREATED", Detail: json.RawMessage(`{"id":"x"}`)}},
		{"malformed detail", events.CloudWatchEvent{DetailType: "ITEM_CREATED", Detail: json.RawMessage(`"nope"`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()

			if err := newHandler(store).HandleEventBridge(context.Background(), tt.event); err != nil {
				t.Errorf("expected poison event to be dropped, got %v", err)
			}
			if store.Len("ITEM#L1") != 0 {
				t.Error("expected nothing written")
			}
		})
	}
}

func TestHandleEventBridge_StoreFailureRetries(t *testing.T) {
	store := memstore.New()
	store.Fail = func(op memstore.Op, pk, sk string) error { return errors.New("throttled") }

	err := newHandler(store).HandleEventBridge(context.Background(), envelope(t, todo.EventItemCreated, "L1"))
	if !errors.Is(err, todo.ErrStorage) {
		t.Errorf("expected storage error to be returned, got %v", err)
	}
}

func TestHandleSQS(t *testing.T) {
	store := memstore.New()
	h := newHandler(store)

	var records []events.SQSMessage
	for i := 0; i < 25; i++ {
		records = append(records, message(t, fmt.Sprintf("c%d", i), envelope(t, todo.EventItemCreated, "L1")))
	}
	for i := 0; i < 5; i++ {
		records = append(records, message(t, fmt.Sprintf("d%d", i), envelope(t, todo.EventItemDeleted, "L1")))
	}

	resp, err := h.HandleSQS(context.Background(), events.SQSEvent{Records: records})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.BatchItemFailures) != 0 {
		t.Errorf("expected no failures, got %+v", resp.BatchItemFailures)
	}
	if count, _ := store.Count("L1"); count != 20 {
		t.Errorf("expected count 20, got %d", count)
	}
}

func TestHandleSQS_PartialFailure(t *testing.T) {
	store := memstore.New()
	store.Fail = func(op memstore.Op, pk, sk string) error {
		if pk == "ITEM#broken" {
			return errors.New("throttled")
		}
		return nil
	}
	h := newHandler(store)

	resp, err := h.HandleSQS(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		message(t, "ok-1", envelope(t, todo.EventItemCreated, "L1")),
		message(t, "bad-1", envelope(t, todo.EventItemCreated, "broken")),
		message(t, "ok-2", envelope(t, todo.EventItemCreated, "L1")),
		message(t, "bad-2", envelope(t, todo.EventItemDeleted, "broken")),
		{MessageId: "garbage", Body: "not json"},
		message(t, "poison", envelope(t, "ITEM_RENAMED", "L1")),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var failed []string
	for _, f := range resp.BatchItemFailures {
		failed = append(failed, f.ItemIdentifier)
	}
	sort.Strings(failed)
	if len(failed) != 2 || failed[0] != "bad-1" || failed[1] != "bad-2" {
		t.Errorf("expected only retryable records to fail, got %v", failed)
	}

	if count, _ := store.Count("L1"); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestHandleSQS_Empty(t *testing.T) {
	resp, err := newHandler(memstore.New()).HandleSQS(context.Background(), events.SQSEvent{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.BatchItemFailures) != 0 {
		t.Errorf("expected no failures, got %+v", resp.BatchItemFailures)
	}
}

func TestHandleSQS_DuplicateDelivery(t *testing.T) {
	store := memstore.New()
	msg := message(t, "m1", envelope(t, todo.EventItemCreated, "L1"))

	_, _ = newHandler(store).HandleSQS(context.Background(), events.SQSEvent{Records: []events.SQSMessage{msg, msg}})

	if count, _ := store.Count("L1"); count != 2 {
		t.Errorf("expected duplicate to be applied twice, got %d", count)
	}
}
