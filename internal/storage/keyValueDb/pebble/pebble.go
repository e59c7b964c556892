// Package pebble implements the keyValueDb.DB interface on cockroachdb's
// pebble LSM store.
package pebble

import (
	"context"
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/LeJamon/goXahaud/internal/storage/keyValueDb"
)

// Store is a pebble-backed key-value store.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if needed) a pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Read returns the value stored at key.
func (s *Store) Read(_ context.Context, key []byte) ([]byte, error) {
	value, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, keyValueDb.ErrKeyNotFound
		}
		return nil, err
	}
	out := append([]byte(nil), value...)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// Write stores value at key.
func (s *Store) Write(_ context.Context, key, value []byte) error {
	return s.db.Set(key, value, pebble.Sync)
}

// Delete removes the value at key.
func (s *Store) Delete(_ context.Context, key []byte) error {
	return s.db.Delete(key, pebble.Sync)
}

// Batch applies a set of operations atomically.
func (s *Store) Batch(_ context.Context, ops []keyValueDb.BatchOperation) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, op := range ops {
		switch op.Type {
		case keyValueDb.BatchPut:
			if err := batch.Set(op.Key, op.Value, nil); err != nil {
				return err
			}
		case keyValueDb.BatchDelete:
			if err := batch.Delete(op.Key, nil); err != nil {
				return err
			}
		}
	}
	return batch.Commit(pebble.Sync)
}

// Iterator iterates keys in [start, end).
func (s *Store) Iterator(_ context.Context, start, end []byte) (keyValueDb.Iterator, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, err
	}
	return &iterator{iter: iter}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

type iterator struct {
	iter    *pebble.Iterator
	started bool
}

func (it *iterator) Next() bool {
	if !it.started {
		it.started = true
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *iterator) Key() []byte {
	return append([]byte(nil), it.iter.Key()...)
}

func (it *iterator) Value() []byte {
	return append([]byte(nil), it.iter.Value()...)
}

func (it *iterator) Error() error {
	return it.iter.Error()
}

func (it *iterator) Close() error {
	return it.iter.Close()
}
