package paychan

import (
	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypePaymentChannelFund, func() tx.Transaction {
		return &PaymentChannelFund{BaseTx: *tx.NewBaseTx(tx.TypePaymentChannelFund, "")}
	})
}

// PaymentChannelFund adds funds to a payment channel and may extend its
// expiration. Only the channel owner may fund.
type PaymentChannelFund struct {
	tx.BaseTx

	// Channel is the channel ID (required)
	Channel string `json:"Channel"`

	// Amount is the amount to add (required)
	Amount tx.Amount `json:"Amount"`

	// Expiration is the new expiration time (optional)
	Expiration *uint32 `json:"Expiration,omitempty"`
}

// NewPaymentChannelFund creates a new PaymentChannelFund transaction
func NewPaymentChannelFund(account, channel string, amount tx.Amount) *PaymentChannelFund {
	return &PaymentChannelFund{
		BaseTx:  *tx.NewBaseTx(tx.TypePaymentChannelFund, account),
		Channel: channel,
		Amount:  amount,
	}
}

// TxType returns the transaction type
func (p *PaymentChannelFund) TxType() tx.Type {
	return tx.TypePaymentChannelFund
}

// Validate validates the PaymentChannelFund transaction
func (p *PaymentChannelFund) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}

	if p.Channel == "" {
		return ErrPayChanChannelRequired
	}
	if _, ok := channelKeyletFromHex(p.Channel); !ok {
		return ErrPayChanChannelInvalid
	}

	if p.Amount.Value == "" {
		return ErrPayChanAmountRequired
	}
	if !p.Amount.IsPositive() {
		return ErrPayChanAmountNotPositive
	}

	return nil
}

// Preflight performs the feature-gated stateless checks.
func (p *PaymentChannelFund) Preflight(ctx *tx.PreflightContext) tx.Result {
	if ctx.Rules != nil && ctx.Rules.Enabled(amendment.FeatureFix1543) &&
		p.GetFlags()&tx.TfUniversalMask != 0 {
		return tx.TemINVALID_FLAG
	}
	return preflightTokenAmount(ctx.Rules, p.Account, p.Amount)
}

// Apply funds the channel, or closes it if it has already expired.
func (p *PaymentChannelFund) Apply(ctx *tx.ApplyContext) tx.Result {
	rules := ctx.Rules()

	channelKeylet, _ := channelKeyletFromHex(p.Channel)
	channel, r := readChannel(ctx.View, channelKeylet)
	if !r.IsSuccess() {
		return r
	}
	if channel == nil {
		return tx.TecNO_ENTRY
	}

	// The channel currency is fixed at creation.
	if !sle.SameIssue(p.Amount, channel.Amount) {
		return tx.TemBAD_CURRENCY
	}

	// Dry run the lock on the owner's line before any mutation.
	var lineKey keylet.Keylet
	if !p.Amount.IsNative() && rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
		lineKey, r = tx.TrustLineKeylet(channel.Account, p.Amount)
		if !r.IsSuccess() {
			return r
		}
		if r := tx.TrustAdjustLockedBalance(ctx.View, lineKey, p.Amount, 1, tx.DryRun); !r.IsSuccess() {
			return r
		}
	}

	// Any touch after expiration closes the channel, whoever sent it.
	closeTime := ctx.Config.ParentCloseTime
	if isExpired(channel, closeTime) {
		return closeChannel(ctx, channelKeylet, channel)
	}

	// Only the owner can add funds or extend.
	if channel.Account != ctx.AccountID {
		return tx.TecNO_PERMISSION
	}

	if p.Expiration != nil {
		minExpiration := closeTime + channel.SettleDelay
		if channel.Expiration != 0 && channel.Expiration < minExpiration {
			minExpiration = channel.Expiration
		}
		if *p.Expiration < minExpiration {
			return tx.TemBAD_EXPIRATION
		}
		channel.Expiration = *p.Expiration
	}

	// Do not allow adding funds if the destination is gone.
	destExists, err := ctx.View.Exists(keylet.Account(channel.Destination))
	if err != nil {
		return tx.TefINTERNAL
	}
	if !destExists {
		return tx.TecNO_DST
	}

	// Check reserve and funds availability.
	reserve := ctx.AccountReserve(ctx.Account.OwnerCount)
	if ctx.Account.Balance < reserve {
		return tx.TecINSUFFICIENT_RESERVE
	}

	if p.Amount.IsNative() {
		amount := uint64(p.Amount.Drops())
		if ctx.Account.Balance < reserve+amount {
			return tx.TecUNFUNDED
		}
		ctx.Account.Balance -= amount
	} else {
		if !rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
			return tx.TefINTERNAL
		}
		if r := tx.TrustAdjustLockedBalance(ctx.View, lineKey, p.Amount, 1, tx.WetRun); !r.IsSuccess() {
			return tx.TefINTERNAL
		}
	}

	channel.Amount = channel.Amount.Add(p.Amount)
	return updateChannel(ctx.View, channelKeylet, channel)
}
