// Package store provides the DynamoDB data access layer of the todo table.
//
// One table holds every list. A list is a partition keyed "ITEM#<list_id>"
// holding its items under "ID#<item_id>" and a derived counter under
// "COUNTER". Keys are built by the internal keys package.
//
// # Operations
//
// [Store] implements the record operations the todo package runs on:
//
//   - [Store.Put] - unconditional point write
//   - [Store.DeleteReturningOld] - point delete returning the old record
//   - [Store.QueryPrefix] - ascending prefix scan within a partition, all pages
//   - [Store.Increment] - atomic "ADD #count :delta", creating the record if absent
//
// and two read helpers, [Store.Get] and [Store.Counter].
//
// # Configuration
//
// The table name defaults to "todos":
//
//	cfg := store.DefaultConfig()
//	cfg.TableName = os.Getenv("TODOS_TABLE_NAME")
//	s := store.New(dynamodb.NewFromConfig(awsCfg), cfg)
//
// # Errors
//
// Client errors are wrapped with the table name. The read helpers return
// [ErrNotFound] for a missing record and [ErrInvalidCounter] for a counter
// without a numeric count.
package store
