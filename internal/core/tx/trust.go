package tx

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// Run selects whether a trust-line operation commits its effect (WetRun) or
// only computes the status it would return (DryRun). A DryRun must be
// side-effect-free and report the same terminal status the WetRun would.
type Run int

const (
	DryRun Run = iota
	WetRun
)

// TrustLineKeylet returns the keylet of the line holding an issued amount
// for the given holder.
func TrustLineKeylet(holder [20]byte, amount sle.Amount) (keylet.Keylet, Result) {
	issuerID, err := sle.DecodeAccountID(amount.Issuer)
	if err != nil {
		return keylet.Keylet{}, TemMALFORMED
	}
	return keylet.Line(holder, issuerID, amount.Currency), TesSUCCESS
}

// TrustAdjustLockedBalance adjusts the locked balance on a trust line by
// delta (positive locks funds, negative releases them) and moves the line's
// lock count by ownerDelta. The adjusted locked balance must stay within
// [0, balance].
func TrustAdjustLockedBalance(view LedgerView, lineKey keylet.Keylet, delta sle.Amount, ownerDelta int, mode Run) Result {
	data, err := view.Read(lineKey)
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		return TecNO_LINE
	}
	line, err := sle.ParseRippleState(data)
	if err != nil {
		return TefINTERNAL
	}
	if line.IsFrozen() {
		return TecFROZEN
	}

	newLocked := line.LockedBalance.Add(delta)
	if newLocked.IsNegative() {
		return TecINTERNAL
	}
	if newLocked.Cmp(line.Balance) > 0 {
		return TecUNFUNDED_PAYMENT
	}

	if mode == DryRun {
		return TesSUCCESS
	}

	line.LockedBalance = newLocked
	newCount := int64(line.LockCount) + int64(ownerDelta)
	if newCount < 0 {
		newCount = 0
	}
	line.LockCount = uint32(newCount)

	updated, err := sle.SerializeRippleState(line)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(lineKey, updated); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

// TrustTransferAllowed checks for any bar to issued funds moving between
// src and dst for the given issue: the issuer must exist, and each
// non-issuer party must hold a usable (existing, unfrozen, authorized if
// required) line to the issuer.
func TrustTransferAllowed(view LedgerView, src, dst [20]byte, amount sle.Amount) Result {
	issuerID, err := sle.DecodeAccountID(amount.Issuer)
	if err != nil {
		return TemMALFORMED
	}

	issuerData, err := view.Read(keylet.Account(issuerID))
	if err != nil {
		return TefINTERNAL
	}
	if issuerData == nil {
		return TecNO_TARGET
	}

	for _, acc := range [][20]byte{src, dst} {
		if acc == issuerID {
			continue
		}
		lineData, err := view.Read(keylet.Line(acc, issuerID, amount.Currency))
		if err != nil {
			return TefINTERNAL
		}
		if lineData == nil {
			return TecNO_LINE
		}
		line, err := sle.ParseRippleState(lineData)
		if err != nil {
			return TefINTERNAL
		}
		if line.IsFrozen() {
			return TecFROZEN
		}
		if line.Flags&sle.LsfRequireAuth != 0 && line.Flags&sle.LsfLineAuthorized == 0 {
			return TecNO_AUTH
		}
	}
	return TesSUCCESS
}

// TrustTransferLockedBalance moves a locked amount from srcAcc's line to
// dstAcc's line: the amount leaves srcAcc's locked and total balance and
// arrives as a spendable balance on dstAcc's line. The actor is the account
// driving the transfer (unused by the balance math but part of the
// interface for auditability).
func TrustTransferLockedBalance(view LedgerView, actor [20]byte, srcAcc, dstAcc [20]byte, amount sle.Amount, mode Run) Result {
	issuerID, err := sle.DecodeAccountID(amount.Issuer)
	if err != nil {
		return TemMALFORMED
	}

	srcKey := keylet.Line(srcAcc, issuerID, amount.Currency)
	srcData, err := view.Read(srcKey)
	if err != nil {
		return TefINTERNAL
	}
	if srcData == nil {
		return TecNO_LINE
	}
	srcLine, err := sle.ParseRippleState(srcData)
	if err != nil {
		return TefINTERNAL
	}
	if srcLine.LockedBalance.Cmp(amount) < 0 {
		return TecUNFUNDED_PAYMENT
	}

	// Destination may be the issuer, in which case the tokens are redeemed
	// rather than credited to a line.
	var dstLine *sle.RippleState
	var dstKey keylet.Keylet
	if dstAcc != issuerID {
		dstKey = keylet.Line(dstAcc, issuerID, amount.Currency)
		dstData, err := view.Read(dstKey)
		if err != nil {
			return TefINTERNAL
		}
		if dstData == nil {
			return TecNO_LINE
		}
		dstLine, err = sle.ParseRippleState(dstData)
		if err != nil {
			return TefINTERNAL
		}
		if dstLine.IsFrozen() {
			return TecFROZEN
		}
	}

	if mode == DryRun {
		return TesSUCCESS
	}

	srcLine.LockedBalance = srcLine.LockedBalance.Sub(amount)
	srcLine.Balance = srcLine.Balance.Sub(amount)
	updated, err := sle.SerializeRippleState(srcLine)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(srcKey, updated); err != nil {
		return TefINTERNAL
	}

	if dstLine != nil {
		dstLine.Balance = dstLine.Balance.Add(amount)
		updated, err := sle.SerializeRippleState(dstLine)
		if err != nil {
			return TefINTERNAL
		}
		if err := view.Update(dstKey, updated); err != nil {
			return TefINTERNAL
		}
	}
	return TesSUCCESS
}
