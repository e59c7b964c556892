package paychan

import (
	"bytes"
	"encoding/hex"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypePaymentChannelClaim, func() tx.Transaction {
		return &PaymentChannelClaim{BaseTx: *tx.NewBaseTx(tx.TypePaymentChannelClaim, "")}
	})
}

// PaymentChannelClaim places a claim against a channel, renews it, or
// closes it.
type PaymentChannelClaim struct {
	tx.BaseTx

	// Channel is the channel ID (required)
	Channel string `json:"Channel"`

	// Balance is the total amount delivered after this claim (optional)
	Balance *tx.Amount `json:"Balance,omitempty"`

	// Amount is the amount authorized by the signature; defaults to
	// Balance (optional)
	Amount *tx.Amount `json:"Amount,omitempty"`

	// Signature authorizes Amount (Balance when Amount is absent), signed
	// by the channel key, hex encoded (optional; required when the
	// destination claims)
	Signature string `json:"Signature,omitempty"`

	// PublicKey is the key that made the signature, hex encoded
	// (required when a signature is present)
	PublicKey string `json:"PublicKey,omitempty"`
}

// NewPaymentChannelClaim creates a new PaymentChannelClaim transaction
func NewPaymentChannelClaim(account, channel string) *PaymentChannelClaim {
	return &PaymentChannelClaim{
		BaseTx:  *tx.NewBaseTx(tx.TypePaymentChannelClaim, account),
		Channel: channel,
	}
}

// TxType returns the transaction type
func (p *PaymentChannelClaim) TxType() tx.Type {
	return tx.TypePaymentChannelClaim
}

// SetClose sets the close flag
func (p *PaymentChannelClaim) SetClose() {
	p.SetFlags(p.GetFlags() | tfPayChanClose)
}

// SetRenew sets the renew flag
func (p *PaymentChannelClaim) SetRenew() {
	p.SetFlags(p.GetFlags() | tfPayChanRenew)
}

// IsClose returns true if the close flag is set
func (p *PaymentChannelClaim) IsClose() bool {
	return p.GetFlags()&tfPayChanClose != 0
}

// IsRenew returns true if the renew flag is set
func (p *PaymentChannelClaim) IsRenew() bool {
	return p.GetFlags()&tfPayChanRenew != 0
}

// Validate validates the PaymentChannelClaim transaction
func (p *PaymentChannelClaim) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}

	if p.Channel == "" {
		return ErrPayChanChannelRequired
	}
	if _, ok := channelKeyletFromHex(p.Channel); !ok {
		return ErrPayChanChannelInvalid
	}

	if p.GetFlags()&tfPayChanClose != 0 && p.GetFlags()&tfPayChanRenew != 0 {
		return ErrPayChanCloseAndRenew
	}

	if p.Balance != nil && !p.Balance.IsPositive() {
		return ErrPayChanAmountNotPositive
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return ErrPayChanAmountNotPositive
	}
	if p.Balance != nil && p.Amount != nil {
		if !sle.SameIssue(*p.Balance, *p.Amount) {
			return ErrPayChanBalanceGTAmount
		}
		if p.Balance.Cmp(*p.Amount) > 0 {
			return ErrPayChanBalanceGTAmount
		}
	}

	if p.Signature != "" {
		if p.PublicKey == "" {
			return ErrPayChanSigNeedsKey
		}
		if p.Balance == nil {
			return ErrPayChanSigNeedsBalance
		}
		pkBytes, err := hex.DecodeString(p.PublicKey)
		if err != nil || tx.PublicKeyType(pkBytes) == tx.KeyTypeUnknown {
			return ErrPayChanPublicKeyInvalid
		}
	}

	return nil
}

// Preflight performs the feature-gated checks and verifies the claim
// signature locally.
func (p *PaymentChannelClaim) Preflight(ctx *tx.PreflightContext) tx.Result {
	if ctx.Rules != nil && ctx.Rules.Enabled(amendment.FeatureFix1543) &&
		p.GetFlags()&tfPayChanClaimMask != 0 {
		return tx.TemINVALID_FLAG
	}

	tokensEnabled := ctx.Rules != nil && ctx.Rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens)
	if p.Balance != nil && !p.Balance.IsNative() && !tokensEnabled {
		return tx.TemBAD_AMOUNT
	}
	if p.Amount != nil && !p.Amount.IsNative() && !tokensEnabled {
		return tx.TemBAD_AMOUNT
	}

	if p.Signature != "" {
		authAmt := *p.Balance
		if p.Amount != nil {
			authAmt = *p.Amount
		}
		if p.Balance.Cmp(authAmt) > 0 {
			return tx.TemBAD_AMOUNT
		}

		channelKeylet, _ := channelKeyletFromHex(p.Channel)
		msg, err := tx.SerializePayChanAuthorization(channelKeylet.Key, authAmt)
		if err != nil {
			return tx.TemBAD_AMOUNT
		}
		pk, _ := hex.DecodeString(p.PublicKey)
		sig, err := hex.DecodeString(p.Signature)
		if err != nil || !tx.Verify(pk, msg, sig) {
			return tx.TemBAD_SIGNATURE
		}
	}

	return tx.TesSUCCESS
}

// Apply processes the claim: expiration sweep, balance transfer, renew and
// close handling, in that order.
func (p *PaymentChannelClaim) Apply(ctx *tx.ApplyContext) tx.Result {
	rules := ctx.Rules()

	channelKeylet, _ := channelKeyletFromHex(p.Channel)
	channel, r := readChannel(ctx.View, channelKeylet)
	if !r.IsSuccess() {
		return r
	}
	if channel == nil {
		return tx.TecNO_TARGET
	}

	// Any touch after expiration closes the channel.
	closeTime := ctx.Config.ParentCloseTime
	if isExpired(channel, closeTime) {
		return closeChannel(ctx, channelKeylet, channel)
	}

	isOwner := channel.Account == ctx.AccountID
	isDest := channel.Destination == ctx.AccountID
	if !isOwner && !isDest {
		return tx.TecNO_PERMISSION
	}

	if p.Balance != nil {
		reqBalance := *p.Balance
		if !sle.SameIssue(reqBalance, channel.Amount) {
			return tx.TemBAD_CURRENCY
		}

		// The destination cannot claim without the owner's authorization.
		if isDest && p.Signature == "" {
			return tx.TemBAD_SIGNATURE
		}

		// A provided public key must be the one pinned on the channel.
		if p.PublicKey != "" {
			pk, _ := hex.DecodeString(p.PublicKey)
			if !bytes.Equal(pk, channel.PublicKey) {
				return tx.TemBAD_SIGNER
			}
		}

		if reqBalance.Cmp(channel.Amount) > 0 {
			return tx.TecUNFUNDED_PAYMENT
		}
		if reqBalance.Cmp(channel.Balance) <= 0 {
			// Nothing requested.
			return tx.TecUNFUNDED_PAYMENT
		}

		destKeylet := keylet.Account(channel.Destination)
		destData, err := ctx.View.Read(destKeylet)
		if err != nil {
			return tx.TefINTERNAL
		}
		if destData == nil {
			return tx.TecNO_DST
		}
		dest, err := sle.ParseAccountRoot(destData)
		if err != nil {
			return tx.TefINTERNAL
		}

		// Obeying lsfDisallowXRP was a bug; DepositAuth removes it.
		depositAuth := rules.Enabled(amendment.FeatureDepositAuth)
		if !depositAuth && isOwner && dest.Flags&sle.LsfDisallowXRP != 0 {
			return tx.TecNO_TARGET
		}

		// A destination requiring deposit authorization accepts claims only
		// from itself or a preauthorized depositor.
		if depositAuth && dest.Flags&sle.LsfDepositAuth != 0 && !isDest {
			preauth, err := ctx.View.Exists(keylet.DepositPreauth(channel.Destination, ctx.AccountID))
			if err != nil {
				return tx.TefINTERNAL
			}
			if !preauth {
				return tx.TecNO_PERMISSION
			}
		}

		delta := reqBalance.Sub(channel.Balance)
		if delta.IsNative() {
			if isDest {
				ctx.Account.Balance += uint64(delta.Drops())
			} else {
				dest.Balance += uint64(delta.Drops())
				updated, err := sle.SerializeAccountRoot(dest)
				if err != nil {
					return tx.TefINTERNAL
				}
				if err := ctx.View.Update(destKeylet, updated); err != nil {
					return tx.TefINTERNAL
				}
			}
		} else {
			// Transfer locked tokens to satisfy the claim. No ledger
			// mutation has happened yet, so no dry run is needed.
			if !rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
				return tx.TefINTERNAL
			}
			if r := tx.TrustTransferLockedBalance(ctx.View, ctx.AccountID, channel.Account, channel.Destination, delta, tx.WetRun); !r.IsSuccess() {
				return r
			}
		}

		channel.Balance = reqBalance
	}

	if p.GetFlags()&tfPayChanRenew != 0 {
		// Only the owner may renew.
		if !isOwner {
			return tx.TecNO_PERMISSION
		}
		channel.Expiration = 0
	}

	if p.GetFlags()&tfPayChanClose != 0 {
		// The channel closes immediately if the receiver asks or it is dry.
		if isDest || channel.Balance.Cmp(channel.Amount) == 0 {
			return closeChannel(ctx, channelKeylet, channel)
		}

		// The owner must wait out the settle delay.
		settleExpiration := closeTime + channel.SettleDelay
		if channel.Expiration == 0 || channel.Expiration > settleExpiration {
			channel.Expiration = settleExpiration
		}
	}

	return updateChannel(ctx.View, channelKeylet, channel)
}
