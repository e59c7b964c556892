// Package sle holds the serialized ledger entry types and their codecs.
//
// Entries are stored as a 2-byte big-endian entry type tag followed by a
// canonical CBOR body. Canonical mode gives a deterministic field order so
// every replica produces byte-identical state from the same mutations.
package sle

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

var (
	ErrShortEntry    = errors.New("ledger entry too short")
	ErrWrongType     = errors.New("ledger entry has unexpected type")
	ErrUnknownType   = errors.New("unknown ledger entry type")
)

// cborHandle is the shared canonical CBOR handle. Canonical=true sorts map
// keys and fixes integer encodings, which the state determinism invariant
// depends on.
var cborHandle = func() *codec.CborHandle {
	h := new(codec.CborHandle)
	h.Canonical = true
	return h
}()

// Entry is implemented by every ledger entry struct in this package.
type Entry interface {
	EntryType() entry.Type
}

// Serialize encodes an entry as type tag + canonical CBOR body.
func Serialize(e Entry) ([]byte, error) {
	var body []byte
	enc := codec.NewEncoderBytes(&body, cborHandle)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", e.EntryType(), err)
	}
	out := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(out, uint16(e.EntryType()))
	return append(out, body...), nil
}

// EntryTypeOf returns the entry type tag of serialized entry data.
func EntryTypeOf(data []byte) (entry.Type, error) {
	if len(data) < 2 {
		return 0, ErrShortEntry
	}
	return entry.Type(binary.BigEndian.Uint16(data)), nil
}

// deserialize decodes the CBOR body of data into out after checking the
// type tag.
func deserialize(data []byte, want entry.Type, out any) error {
	got, err := EntryTypeOf(data)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrWrongType, got, want)
	}
	dec := codec.NewDecoderBytes(data[2:], cborHandle)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", want, err)
	}
	return nil
}
