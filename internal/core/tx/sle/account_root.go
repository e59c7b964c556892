package sle

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

// Account root flag bits.
const (
	LsfRequireDestTag uint32 = 0x00020000
	LsfDisallowXRP    uint32 = 0x00080000
	LsfDepositAuth    uint32 = 0x01000000
)

// AccountRoot is the ledger entry holding an account's balance and
// bookkeeping counters.
type AccountRoot struct {
	Account    [20]byte `codec:"account"`
	Balance    uint64   `codec:"balance"` // XRP drops
	Sequence   uint32   `codec:"sequence"`
	OwnerCount uint32   `codec:"ownerCount"`
	Flags      uint32   `codec:"flags"`
}

// EntryType implements Entry.
func (a *AccountRoot) EntryType() entry.Type {
	return entry.TypeAccountRoot
}

// SerializeAccountRoot serializes an account root entry.
func SerializeAccountRoot(a *AccountRoot) ([]byte, error) {
	return Serialize(a)
}

// ParseAccountRoot parses an account root entry from its serialized form.
func ParseAccountRoot(data []byte) (*AccountRoot, error) {
	a := &AccountRoot{}
	if err := deserialize(data, entry.TypeAccountRoot, a); err != nil {
		return nil, err
	}
	return a, nil
}
