package paychan

import (
	"encoding/hex"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// channelKeyletFromHex turns a transaction's Channel field into a keylet.
func channelKeyletFromHex(channel string) (keylet.Keylet, bool) {
	raw, err := hex.DecodeString(channel)
	if err != nil || len(raw) != 32 {
		return keylet.Keylet{}, false
	}
	var key [32]byte
	copy(key[:], raw)
	return keylet.FromHash(key), true
}

// readChannel loads and parses a payment channel entry; nil if absent.
func readChannel(view tx.LedgerView, k keylet.Keylet) (*sle.PayChannel, tx.Result) {
	data, err := view.Read(k)
	if err != nil {
		return nil, tx.TefINTERNAL
	}
	if data == nil {
		return nil, tx.TesSUCCESS
	}
	channel, err := sle.ParsePayChannel(data)
	if err != nil {
		return nil, tx.TefINTERNAL
	}
	return channel, tx.TesSUCCESS
}

// updateChannel serializes the channel back into the view.
func updateChannel(view tx.LedgerView, k keylet.Keylet, channel *sle.PayChannel) tx.Result {
	data, err := sle.SerializePayChannel(channel)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := view.Update(k, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// isExpired reports whether the channel's cancelAfter or expiration has
// elapsed as of the parent close time. Any transaction that touches the
// channel after that point closes it instead of doing its own work.
func isExpired(channel *sle.PayChannel, closeTime uint32) bool {
	if channel.CancelAfter != 0 && closeTime >= channel.CancelAfter {
		return true
	}
	if channel.Expiration != 0 && closeTime >= channel.Expiration {
		return true
	}
	return false
}

// closeChannel settles and removes a payment channel: the unpaid remainder
// goes back to the owner, both directory references are dropped and the
// entry is erased. Exactly one of (success, entry erased) or (failure,
// entry intact) holds.
func closeChannel(ctx *tx.ApplyContext, channelKey keylet.Keylet, channel *sle.PayChannel) tx.Result {
	view := ctx.View
	rules := ctx.Rules()
	remaining := channel.Amount.Sub(channel.Balance)

	var lineKey keylet.Keylet
	if !remaining.IsNative() {
		if !rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
			return tx.TefINTERNAL
		}
		var r tx.Result
		lineKey, r = tx.TrustLineKeylet(channel.Account, remaining)
		if !r.IsSuccess() {
			return r
		}
		// Dry run the refund before any mutation.
		if r := tx.TrustAdjustLockedBalance(view, lineKey, remaining.Negate(), -1, tx.DryRun); !r.IsSuccess() {
			return r
		}
	}

	// Remove the channel from the owner's directory.
	if !tx.DirRemove(view, keylet.OwnerDir(channel.Account), channel.OwnerNode, channelKey.Key, false) {
		return tx.TefBAD_LEDGER
	}

	// Remove it from the recipient's directory, if tracked there.
	if channel.DestinationNode != nil && rules.Enabled(amendment.FeatureFixPayChanRecipientOwnerDir) {
		if !tx.DirRemove(view, keylet.OwnerDir(channel.Destination), *channel.DestinationNode, channelKey.Key, false) {
			return tx.TefBAD_LEDGER
		}
	}

	// Refund the remainder and release the owner count.
	if channel.Account == ctx.AccountID {
		if remaining.IsNative() {
			ctx.Account.Balance += uint64(remaining.Drops())
		} else {
			if r := tx.TrustAdjustLockedBalance(view, lineKey, remaining.Negate(), -1, tx.WetRun); !r.IsSuccess() {
				return r
			}
		}
		tx.AdjustOwnerCount(ctx.Account, -1)
	} else {
		ownerKeylet := keylet.Account(channel.Account)
		ownerData, err := view.Read(ownerKeylet)
		if err != nil || ownerData == nil {
			return tx.TefINTERNAL
		}
		owner, err := sle.ParseAccountRoot(ownerData)
		if err != nil {
			return tx.TefINTERNAL
		}
		if remaining.IsNative() {
			owner.Balance += uint64(remaining.Drops())
		} else {
			if r := tx.TrustAdjustLockedBalance(view, lineKey, remaining.Negate(), -1, tx.WetRun); !r.IsSuccess() {
				return r
			}
		}
		tx.AdjustOwnerCount(owner, -1)
		updated, err := sle.SerializeAccountRoot(owner)
		if err != nil {
			return tx.TefINTERNAL
		}
		if err := view.Update(ownerKeylet, updated); err != nil {
			return tx.TefINTERNAL
		}
	}

	if err := view.Erase(channelKey); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// preflightTokenAmount applies the shared IOU amount gates: issued amounts
// need the token amendment, a well-formed currency, and an issuer distinct
// from the sender.
func preflightTokenAmount(rules *amendment.Rules, account string, amount tx.Amount) tx.Result {
	if amount.IsNative() {
		return tx.TesSUCCESS
	}
	if rules == nil || !rules.Enabled(amendment.FeaturePaychanAndEscrowForTokens) {
		return tx.TemBAD_AMOUNT
	}
	if len(amount.Currency) != 3 || amount.Currency == "XRP" {
		return tx.TemBAD_CURRENCY
	}
	if _, err := sle.DecodeAccountID(amount.Issuer); err != nil {
		return tx.TemBAD_CURRENCY
	}
	if account == amount.Issuer {
		return tx.TemDST_IS_SRC
	}
	return tx.TesSUCCESS
}
