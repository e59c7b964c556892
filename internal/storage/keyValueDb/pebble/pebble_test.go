package pebble

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXahaud/internal/storage/keyValueDb"
)

func TestStore_ReadWriteDelete(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, []byte("k"), []byte("v")))

	value, err := store.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), value)

	require.NoError(t, store.Delete(ctx, []byte("k")))
	_, err = store.Read(ctx, []byte("k"))
	require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
}

func TestStore_BatchAndIterator(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Batch(ctx, []keyValueDb.BatchOperation{
		{Type: keyValueDb.BatchPut, Key: []byte("a/1"), Value: []byte("one")},
		{Type: keyValueDb.BatchPut, Key: []byte("a/2"), Value: []byte("two")},
		{Type: keyValueDb.BatchPut, Key: []byte("b/1"), Value: []byte("other")},
	}))

	iter, err := store.Iterator(ctx, []byte("a/"), []byte("a/\xff"))
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	require.Equal(t, []string{"a/1", "a/2"}, keys)
}
