package paychan

import (
	"encoding/hex"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypePaymentChannelCreate, func() tx.Transaction {
		return &PaymentChannelCreate{BaseTx: *tx.NewBaseTx(tx.TypePaymentChannelCreate, "")}
	})
}

// PaymentChannelCreate creates a payment channel sequestering the owner's
// funds for one destination.
type PaymentChannelCreate struct {
	tx.BaseTx

	// Amount is the amount to lock in the channel (required; XRP, or an
	// issued amount when the token amendment is enabled)
	Amount tx.Amount `json:"Amount"`

	// Destination is the account to receive channel payments (required)
	Destination string `json:"Destination"`

	// SettleDelay is the time in seconds everyone but the recipient must
	// wait for a superior claim (required)
	SettleDelay uint32 `json:"SettleDelay"`

	// PublicKey is the key that will sign claims, hex encoded (required)
	PublicKey string `json:"PublicKey"`

	// CancelAfter is the time when the channel expires (optional)
	CancelAfter *uint32 `json:"CancelAfter,omitempty"`

	// DestinationTag is an arbitrary tag for the destination (optional)
	DestinationTag *uint32 `json:"DestinationTag,omitempty"`
}

// NewPaymentChannelCreate creates a new PaymentChannelCreate transaction
func NewPaymentChannelCreate(account, destination string, amount tx.Amount, settleDelay uint32, publicKey string) *PaymentChannelCreate {
	return &PaymentChannelCreate{
		BaseTx:      *tx.NewBaseTx(tx.TypePaymentChannelCreate, account),
		Amount:      amount,
		Destination: destination,
		SettleDelay: settleDelay,
		PublicKey:   publicKey,
	}
}

// TxType returns the transaction type
func (p *PaymentChannelCreate) TxType() tx.Type {
	return tx.TypePaymentChannelCreate
}

// DestinationID exposes the destination account for hook dispatch.
func (p *PaymentChannelCreate) DestinationID() ([20]byte, bool) {
	id, err := sle.DecodeAccountID(p.Destination)
	if err != nil {
		return id, false
	}
	return id, true
}

// Validate validates the PaymentChannelCreate transaction
func (p *PaymentChannelCreate) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}

	if p.Destination == "" {
		return ErrPayChanDestRequired
	}
	if _, err := sle.DecodeAccountID(p.Destination); err != nil {
		return ErrPayChanDestRequired
	}

	if p.Amount.Value == "" {
		return ErrPayChanAmountRequired
	}
	if !p.Amount.IsPositive() {
		return ErrPayChanAmountNotPositive
	}

	if p.Account == p.Destination {
		return ErrPayChanDestIsSrc
	}

	if p.PublicKey == "" {
		return ErrPayChanPublicKeyRequired
	}
	pkBytes, err := hex.DecodeString(p.PublicKey)
	if err != nil || tx.PublicKeyType(pkBytes) == tx.KeyTypeUnknown {
		return ErrPayChanPublicKeyInvalid
	}

	return nil
}

// Preflight performs the feature-gated stateless checks.
func (p *PaymentChannelCreate) Preflight(ctx *tx.PreflightContext) tx.Result {
	if ctx.Rules != nil && ctx.Rules.Enabled(amendment.FeatureFix1543) &&
		p.GetFlags()&tx.TfUniversalMask != 0 {
		return tx.TemINVALID_FLAG
	}
	return preflightTokenAmount(ctx.Rules, p.Account, p.Amount)
}

// Preclaim performs the read-only state checks: reserve headroom, funds or
// a lockable trust-line balance, and destination constraints.
func (p *PaymentChannelCreate) Preclaim(ctx *tx.ApplyContext) tx.Result {
	rules := ctx.Rules()

	reserve := ctx.AccountReserve(ctx.Account.OwnerCount + 1)
	if ctx.PriorBalance < reserve {
		return tx.TecINSUFFICIENT_RESERVE
	}

	destID, err := sle.DecodeAccountID(p.Destination)
	if err != nil {
		return tx.TemMALFORMED
	}

	if p.Amount.IsNative() {
		if ctx.PriorBalance < reserve+uint64(p.Amount.Drops()) {
			return tx.TecUNFUNDED
		}
	} else {
		if !rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
			return tx.TecINTERNAL
		}
		// Any bar to a channel existing between these accounts for this
		// asset?
		if r := tx.TrustTransferAllowed(ctx.View, ctx.AccountID, destID, p.Amount); !r.IsSuccess() {
			return r
		}
		// Can the amount be locked?
		lineKey, r := tx.TrustLineKeylet(ctx.AccountID, p.Amount)
		if !r.IsSuccess() {
			return r
		}
		if r := tx.TrustAdjustLockedBalance(ctx.View, lineKey, p.Amount, 1, tx.DryRun); !r.IsSuccess() {
			return r
		}
	}

	destData, err2 := ctx.View.Read(keylet.Account(destID))
	if err2 != nil {
		return tx.TefINTERNAL
	}
	if destData == nil {
		return tx.TecNO_DST
	}
	dest, err2 := sle.ParseAccountRoot(destData)
	if err2 != nil {
		return tx.TefINTERNAL
	}
	if dest.Flags&sle.LsfRequireDestTag != 0 && p.DestinationTag == nil {
		return tx.TecDST_TAG_NEEDED
	}
	// Obeying lsfDisallowXRP was a bug; DepositAuth removes it.
	if !rules.Enabled(amendment.FeatureDepositAuth) && dest.Flags&sle.LsfDisallowXRP != 0 {
		return tx.TecNO_TARGET
	}

	return tx.TesSUCCESS
}

// Apply creates the channel entry, registers it in the directories and
// sequesters the funds.
func (p *PaymentChannelCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	rules := ctx.Rules()

	destID, err := sle.DecodeAccountID(p.Destination)
	if err != nil {
		return tx.TemMALFORMED
	}

	channelKeylet := keylet.PayChannel(ctx.AccountID, destID, p.SeqProxy())

	channel := &sle.PayChannel{
		Account:     ctx.AccountID,
		Destination: destID,
		Amount:      p.Amount,
		Balance:     p.Amount.Zeroed(),
		SettleDelay: p.SettleDelay,
	}
	channel.PublicKey, _ = hex.DecodeString(p.PublicKey)
	if p.CancelAfter != nil {
		channel.CancelAfter = *p.CancelAfter
	}
	channel.SourceTag = p.SourceTag
	channel.DestinationTag = p.DestinationTag

	// Add the channel to the owner's directory.
	page, err := tx.DirInsert(ctx.View, keylet.OwnerDir(ctx.AccountID), ctx.AccountID, channelKeylet.Key)
	if err != nil {
		return tx.TecDIR_FULL
	}
	channel.OwnerNode = page

	// And to the recipient's directory.
	if rules.Enabled(amendment.FeatureFixPayChanRecipientOwnerDir) {
		dstPage, err := tx.DirInsert(ctx.View, keylet.OwnerDir(destID), destID, channelKeylet.Key)
		if err != nil {
			return tx.TecDIR_FULL
		}
		channel.DestinationNode = &dstPage
	}

	data, err := sle.SerializePayChannel(channel)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Insert(channelKeylet, data); err != nil {
		return tx.TefINTERNAL
	}

	// Deduct the owner's balance or lock the trust-line funds.
	if p.Amount.IsNative() {
		amount := uint64(p.Amount.Drops())
		if ctx.Account.Balance < amount {
			return tx.TecUNFUNDED
		}
		ctx.Account.Balance -= amount
	} else {
		if !rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
			return tx.TefINTERNAL
		}
		lineKey, r := tx.TrustLineKeylet(ctx.AccountID, p.Amount)
		if !r.IsSuccess() {
			return r
		}
		if r := tx.TrustAdjustLockedBalance(ctx.View, lineKey, p.Amount, 1, tx.WetRun); !r.IsSuccess() {
			return tx.TefINTERNAL
		}
	}

	tx.AdjustOwnerCount(ctx.Account, 1)
	return tx.TesSUCCESS
}
