package store

import "errors"

var (
	// ErrNotFound is returned by the read helpers when no record exists under the key.
	ErrNotFound = errors.New("store: record not found")

	// ErrInvalidCounter is returned when a counter record's count is not a number.
	ErrInvalidCounter = errors.New("store: invalid counter record")
)
