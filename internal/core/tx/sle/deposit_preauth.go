package sle

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

// DepositPreauth records that Account has preauthorized Authorize to place
// deposits while lsfDepositAuth is set.
type DepositPreauth struct {
	Account   [20]byte `codec:"account"`
	Authorize [20]byte `codec:"authorize"`
	OwnerNode uint64   `codec:"ownerNode"`
}

// EntryType implements Entry.
func (d *DepositPreauth) EntryType() entry.Type {
	return entry.TypeDepositPreauth
}

// SerializeDepositPreauth serializes a deposit preauthorization entry.
func SerializeDepositPreauth(d *DepositPreauth) ([]byte, error) {
	return Serialize(d)
}

// ParseDepositPreauth parses a deposit preauthorization entry.
func ParseDepositPreauth(data []byte) (*DepositPreauth, error) {
	d := &DepositPreauth{}
	if err := deserialize(data, entry.TypeDepositPreauth, d); err != nil {
		return nil, err
	}
	return d, nil
}
