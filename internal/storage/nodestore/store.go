// Package nodestore persists closed-ledger state behind the keyValueDb
// interface, with value compression.
package nodestore

import (
	"context"
	"errors"

	"github.com/ugorji/go/codec"

	"github.com/LeJamon/goXahaud/internal/core/ledger"
	"github.com/LeJamon/goXahaud/internal/storage/keyValueDb"
	"github.com/LeJamon/goXahaud/internal/storage/nodestore/compression"
)

var (
	entryPrefix = []byte("e/")
	metaKey     = []byte("m/ledger")
)

var cborHandle = func() *codec.CborHandle {
	h := new(codec.CborHandle)
	h.Canonical = true
	return h
}()

// ledgerMeta is the persisted close metadata.
type ledgerMeta struct {
	Seq              uint32 `codec:"seq"`
	ParentCloseTime  uint32 `codec:"parentCloseTime"`
	FeeBase          uint64 `codec:"feeBase"`
	ReserveBase      uint64 `codec:"reserveBase"`
	ReserveIncrement uint64 `codec:"reserveIncrement"`
}

// Store persists ledgers into a key-value database.
type Store struct {
	db         keyValueDb.DB
	compressor compression.Compressor
}

// New creates a node store over db. A nil compressor stores values raw.
func New(db keyValueDb.DB, compressor compression.Compressor) *Store {
	if compressor == nil {
		compressor = compression.None{}
	}
	return &Store{db: db, compressor: compressor}
}

// SaveLedger writes the full ledger state and metadata.
func (s *Store) SaveLedger(ctx context.Context, l *ledger.Ledger) error {
	ops := make([]keyValueDb.BatchOperation, 0, l.EntryCount()+1)
	for _, key := range l.Keys() {
		data, _ := l.Get(key)
		compressed, err := s.compressor.Compress(data)
		if err != nil {
			return err
		}
		ops = append(ops, keyValueDb.BatchOperation{
			Type:  keyValueDb.BatchPut,
			Key:   entryKey(key),
			Value: compressed,
		})
	}

	meta := ledgerMeta{
		Seq:              l.Info.Seq,
		ParentCloseTime:  l.Info.ParentCloseTime,
		FeeBase:          l.Fees.Base,
		ReserveBase:      l.Fees.ReserveBase,
		ReserveIncrement: l.Fees.ReserveIncrement,
	}
	var metaData []byte
	if err := codec.NewEncoderBytes(&metaData, cborHandle).Encode(meta); err != nil {
		return err
	}
	ops = append(ops, keyValueDb.BatchOperation{
		Type:  keyValueDb.BatchPut,
		Key:   metaKey,
		Value: metaData,
	})

	return s.db.Batch(ctx, ops)
}

// LoadLedger restores the last saved ledger, or ErrKeyNotFound when the
// store is empty.
func (s *Store) LoadLedger(ctx context.Context) (*ledger.Ledger, error) {
	metaData, err := s.db.Read(ctx, metaKey)
	if err != nil {
		return nil, err
	}
	var meta ledgerMeta
	if err := codec.NewDecoderBytes(metaData, cborHandle).Decode(&meta); err != nil {
		return nil, err
	}

	l := ledger.New(ledger.Fees{
		Base:             meta.FeeBase,
		ReserveBase:      meta.ReserveBase,
		ReserveIncrement: meta.ReserveIncrement,
	})
	l.Info = ledger.CloseInfo{Seq: meta.Seq, ParentCloseTime: meta.ParentCloseTime}

	end := append([]byte(nil), entryPrefix...)
	end[len(end)-1]++
	iter, err := s.db.Iterator(ctx, entryPrefix, end)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.Next() {
		raw := iter.Key()
		if len(raw) != len(entryPrefix)+32 {
			return nil, errors.New("nodestore: malformed entry key")
		}
		var key [32]byte
		copy(key[:], raw[len(entryPrefix):])
		value, err := s.compressor.Decompress(iter.Value())
		if err != nil {
			return nil, err
		}
		l.Put(key, value)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return l, nil
}

func entryKey(key [32]byte) []byte {
	out := make([]byte, 0, len(entryPrefix)+32)
	out = append(out, entryPrefix...)
	return append(out, key[:]...)
}
