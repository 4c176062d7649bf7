package todo_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fargito/todos/todo"
)

// recorder is a Publisher that keeps every event it is given.
type recorder struct {
	mu     sync.Mutex
	events []todo.Event
	err    error
}

func (r *recorder) Publish(ctx context.Context, eventType todo.EventType, item todo.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, todo.Event{Type: eventType, Item: item})
	return r.err
}

func (r *recorder) Events() []todo.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]todo.Event(nil), r.events...)
}

// sequence returns an IDGenerator yielding 01, 02, ... in order.
func sequence() todo.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%02d", n)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
