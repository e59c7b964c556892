package sle

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

// PayChannel is the payment channel ledger entry. Amount is the total
// funded, Balance the cumulative amount already paid out; both share one
// currency fixed at creation.
type PayChannel struct {
	Account         [20]byte `codec:"account"`
	Destination     [20]byte `codec:"destination"`
	Amount          Amount   `codec:"amount"`
	Balance         Amount   `codec:"balance"`
	SettleDelay     uint32   `codec:"settleDelay"`
	PublicKey       []byte   `codec:"publicKey"`
	CancelAfter     uint32   `codec:"cancelAfter,omitempty"` // 0 = unset
	Expiration      uint32   `codec:"expiration,omitempty"`  // 0 = unset
	SourceTag       *uint32  `codec:"sourceTag,omitempty"`
	DestinationTag  *uint32  `codec:"destinationTag,omitempty"`
	OwnerNode       uint64   `codec:"ownerNode"`
	DestinationNode *uint64  `codec:"destinationNode,omitempty"`
}

// EntryType implements Entry.
func (p *PayChannel) EntryType() entry.Type {
	return entry.TypePayChannel
}

// SerializePayChannel serializes a payment channel entry.
func SerializePayChannel(p *PayChannel) ([]byte, error) {
	return Serialize(p)
}

// ParsePayChannel parses a payment channel entry from its serialized form.
func ParsePayChannel(data []byte) (*PayChannel, error) {
	p := &PayChannel{}
	if err := deserialize(data, entry.TypePayChannel, p); err != nil {
		return nil, err
	}
	return p, nil
}
