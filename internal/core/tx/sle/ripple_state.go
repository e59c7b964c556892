package sle

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

// Trust line flag bits.
const (
	LsfLineFrozen     uint32 = 0x00400000
	LsfLineAuthorized uint32 = 0x00010000
	LsfRequireAuth    uint32 = 0x00040000 // mirrored from the issuer account
)

// RippleState is a trust line held by Account against Issuer for one
// currency. Balance is the holder's balance, never negative. LockedBalance
// is the portion sequestered by payment channels, `0 <= locked <= balance`;
// it is only adjusted through the trust-line engine.
type RippleState struct {
	Account       [20]byte `codec:"account"`
	Issuer        [20]byte `codec:"issuer"`
	Currency      string   `codec:"currency"`
	Balance       Amount   `codec:"balance"`
	LockedBalance Amount   `codec:"lockedBalance"`
	Limit         Amount   `codec:"limit"`
	Flags         uint32   `codec:"flags"`
	LockCount     uint32   `codec:"lockCount"` // number of objects locking funds on this line
}

// EntryType implements Entry.
func (r *RippleState) EntryType() entry.Type {
	return entry.TypeRippleState
}

// SerializeRippleState serializes a trust line entry.
func SerializeRippleState(r *RippleState) ([]byte, error) {
	return Serialize(r)
}

// ParseRippleState parses a trust line entry from its serialized form.
func ParseRippleState(data []byte) (*RippleState, error) {
	r := &RippleState{}
	if err := deserialize(data, entry.TypeRippleState, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Available returns the holder's balance not currently locked.
func (r *RippleState) Available() Amount {
	return r.Balance.Sub(r.LockedBalance)
}

// IsFrozen reports whether the line is frozen.
func (r *RippleState) IsFrozen() bool {
	return r.Flags&LsfLineFrozen != 0
}
