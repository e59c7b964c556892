package keyValueDb

import "errors"

var (
	// ErrKeyNotFound is returned when a key is not present in the store.
	ErrKeyNotFound = errors.New("key not found")
	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("database is closed")
)
