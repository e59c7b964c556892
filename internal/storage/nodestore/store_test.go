package nodestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXahaud/internal/core/ledger"
	"github.com/LeJamon/goXahaud/internal/storage/keyValueDb"
	pebbledb "github.com/LeJamon/goXahaud/internal/storage/keyValueDb/pebble"
	"github.com/LeJamon/goXahaud/internal/storage/nodestore"
	"github.com/LeJamon/goXahaud/internal/storage/nodestore/compression"
)

func TestStore_SaveAndLoadLedger(t *testing.T) {
	db, err := pebbledb.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	store := nodestore.New(db, compression.LZ4{})

	l := ledger.New(ledger.Fees{Base: 10, ReserveBase: 150_000, ReserveIncrement: 50_000})
	l.Info = ledger.CloseInfo{Seq: 7, ParentCloseTime: 123_456}
	var k1, k2 [32]byte
	k1[0], k2[0] = 1, 2
	l.Put(k1, []byte("entry one"))
	l.Put(k2, []byte("entry two"))

	ctx := context.Background()
	require.NoError(t, store.SaveLedger(ctx, l))

	restored, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	require.Equal(t, l.Info, restored.Info)
	require.Equal(t, l.Fees, restored.Fees)
	require.Equal(t, 2, restored.EntryCount())

	data, ok := restored.Get(k1)
	require.True(t, ok)
	require.Equal(t, []byte("entry one"), data)
}

func TestStore_LoadEmpty(t *testing.T) {
	db, err := pebbledb.Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	store := nodestore.New(db, nil)
	_, err = store.LoadLedger(context.Background())
	require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
}
