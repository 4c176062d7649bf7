// Package todo implements todo lists on a single-table store.
//
// A list has no record of its own. It is the partition holding its items,
// each keyed by a ULID so that a prefix scan returns items in creation order,
// and a counter record maintained from domain events by [Counter].
//
// # Commands
//
// [Service] implements the three commands:
//
//	svc := todo.NewService(store, publisher, todo.WithLogger(logger))
//	item, err := svc.Create(ctx, "L1", []byte(`{"title":"Buy milk","description":""}`))
//	items, err := svc.List(ctx, "L1")
//	err = svc.Delete(ctx, "L1", item.ID)
//
// The store is authoritative. Create and Delete publish one event after the
// store write succeeds; a failed publish is logged and never fails the
// command, so the counter may drift.
//
// # Errors
//
// Every failure is an [*Error] of a closed [Kind]. Use errors.Is against the
// sentinels to classify one:
//
//   - [ErrValidation] - missing or malformed input, nothing was written
//   - [ErrStorage] - the store failed or held an unexpected record
//   - [ErrPublish] - an event could not be emitted
package todo
