package paychan

import (
	"fmt"

	"github.com/LeJamon/goXahaud/internal/core/tx"
	paychan "github.com/LeJamon/goXahaud/internal/core/tx/paychan"
	"github.com/LeJamon/goXahaud/internal/testing"
)

type ChannelCreateBuilder struct {
	from           *testing.Account
	to             *testing.Account
	amount         tx.Amount
	settleDelay    uint32
	publicKey      string
	cancelAfter    *uint32
	destinationTag *uint32
	sourceTag      *uint32
	fee            int64
	sequence       *uint32
}

func ChannelCreate(from, to *testing.Account, amount tx.Amount, settleDelay uint32, publicKey string) *ChannelCreateBuilder {
	return &ChannelCreateBuilder{
		from:        from,
		to:          to,
		amount:      amount,
		settleDelay: settleDelay,
		publicKey:   publicKey,
		fee:         10,
	}
}

func (b *ChannelCreateBuilder) CancelAfter(t uint32) *ChannelCreateBuilder {
	b.cancelAfter = &t
	return b
}

func (b *ChannelCreateBuilder) DestTag(tag uint32) *ChannelCreateBuilder {
	b.destinationTag = &tag
	return b
}

func (b *ChannelCreateBuilder) SourceTag(tag uint32) *ChannelCreateBuilder {
	b.sourceTag = &tag
	return b
}

func (b *ChannelCreateBuilder) Fee(f uint64) *ChannelCreateBuilder {
	b.fee = int64(f)
	return b
}

func (b *ChannelCreateBuilder) Sequence(seq uint32) *ChannelCreateBuilder {
	b.sequence = &seq
	return b
}

func (b *ChannelCreateBuilder) Build() *paychan.PaymentChannelCreate {
	c := paychan.NewPaymentChannelCreate(b.from.Address, b.to.Address, b.amount, b.settleDelay, b.publicKey)
	c.Fee = fmt.Sprintf("%d", b.fee)

	if b.cancelAfter != nil {
		c.CancelAfter = b.cancelAfter
	}
	if b.destinationTag != nil {
		c.DestinationTag = b.destinationTag
	}
	if b.sourceTag != nil {
		c.SourceTag = b.sourceTag
	}
	if b.sequence != nil {
		c.SetSequence(*b.sequence)
	}

	return c
}

type ChannelFundBuilder struct {
	funder     *testing.Account
	channelID  string
	amount     tx.Amount
	expiration *uint32
	fee        int64
	sequence   *uint32
}

func ChannelFund(funder *testing.Account, channelID string, amount tx.Amount) *ChannelFundBuilder {
	return &ChannelFundBuilder{
		funder:    funder,
		channelID: channelID,
		amount:    amount,
		fee:       10,
	}
}

func (b *ChannelFundBuilder) Expiration(t uint32) *ChannelFundBuilder {
	b.expiration = &t
	return b
}

func (b *ChannelFundBuilder) Sequence(seq uint32) *ChannelFundBuilder {
	b.sequence = &seq
	return b
}

func (b *ChannelFundBuilder) Build() *paychan.PaymentChannelFund {
	f := paychan.NewPaymentChannelFund(b.funder.Address, b.channelID, b.amount)
	f.Fee = fmt.Sprintf("%d", b.fee)

	if b.expiration != nil {
		f.Expiration = b.expiration
	}
	if b.sequence != nil {
		f.SetSequence(*b.sequence)
	}

	return f
}

type ChannelClaimBuilder struct {
	claimer   *testing.Account
	channelID string
	balance   *tx.Amount
	amount    *tx.Amount
	signature string
	publicKey string
	fee       int64
	sequence  *uint32
	close     bool
	renew     bool
}

func ChannelClaim(claimer *testing.Account, channelID string) *ChannelClaimBuilder {
	return &ChannelClaimBuilder{
		claimer:   claimer,
		channelID: channelID,
		fee:       10,
	}
}

func (b *ChannelClaimBuilder) Balance(a tx.Amount) *ChannelClaimBuilder {
	b.balance = &a
	return b
}

func (b *ChannelClaimBuilder) Amount(a tx.Amount) *ChannelClaimBuilder {
	b.amount = &a
	return b
}

func (b *ChannelClaimBuilder) Signature(sig string) *ChannelClaimBuilder {
	b.signature = sig
	return b
}

func (b *ChannelClaimBuilder) PublicKey(pk string) *ChannelClaimBuilder {
	b.publicKey = pk
	return b
}

func (b *ChannelClaimBuilder) Sequence(seq uint32) *ChannelClaimBuilder {
	b.sequence = &seq
	return b
}

func (b *ChannelClaimBuilder) Close() *ChannelClaimBuilder {
	b.close = true
	return b
}

func (b *ChannelClaimBuilder) Renew() *ChannelClaimBuilder {
	b.renew = true
	return b
}

func (b *ChannelClaimBuilder) Build() *paychan.PaymentChannelClaim {
	c := paychan.NewPaymentChannelClaim(b.claimer.Address, b.channelID)
	c.Fee = fmt.Sprintf("%d", b.fee)

	if b.balance != nil {
		c.Balance = b.balance
	}
	if b.amount != nil {
		c.Amount = b.amount
	}
	if b.signature != "" {
		c.Signature = b.signature
	}
	if b.publicKey != "" {
		c.PublicKey = b.publicKey
	}
	if b.close {
		c.SetClose()
	}
	if b.renew {
		c.SetRenew()
	}
	if b.sequence != nil {
		c.SetSequence(*b.sequence)
	}

	return c
}
