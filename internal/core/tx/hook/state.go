package hook

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// HookStateGranularity is the number of state entries covered by one unit
// of owner count. Frozen: every replica must agree on it.
const HookStateGranularity uint32 = 8

// ComputeHookDataOwnerCount maps a state entry count to owner-count units:
// ceil(n / HookStateGranularity).
func ComputeHookDataOwnerCount(stateCount uint32) uint32 {
	return (stateCount + HookStateGranularity - 1) / HookStateGranularity
}

// SetHookState writes, replaces or (for empty data) deletes one hook state
// entry for account, keeping the hook's state count, the owner directory
// and the owner-count allotment consistent. All account mutations go
// through the view so they survive the post-apply hook phase.
func SetHookState(ctx *tx.ApplyContext, account [20]byte, key [32]byte, data []byte) tx.Result {
	view := ctx.View
	accountKeylet := keylet.Account(account)
	ownerDirKeylet := keylet.OwnerDir(account)
	hookKeylet := keylet.Hook(account)

	accountData, err := view.Read(accountKeylet)
	if err != nil || accountData == nil {
		return tx.TefINTERNAL
	}
	accountRoot, err := sle.ParseAccountRoot(accountData)
	if err != nil {
		return tx.TefINTERNAL
	}

	hookData, err := view.Read(hookKeylet)
	if err != nil || hookData == nil {
		// A state write for a hook that does not exist.
		return tx.TefINTERNAL
	}
	hookEntry, err := sle.ParseHook(hookData)
	if err != nil {
		return tx.TefINTERNAL
	}

	if uint32(len(data)) > hookEntry.HookDataMaxSize {
		return tx.TemHOOK_DATA_TOO_LARGE
	}

	stateCount := hookEntry.HookStateCount
	oldAllotment := ComputeHookDataOwnerCount(stateCount)

	stateKeylet := keylet.HookState(account, key)
	oldStateData, err := view.Read(stateKeylet)
	if err != nil {
		return tx.TefINTERNAL
	}

	if len(data) == 0 {
		// Deleting a non-existent entry is defined as success.
		if oldStateData == nil {
			return tx.TesSUCCESS
		}
		oldState, err := sle.ParseHookState(oldStateData)
		if err != nil {
			return tx.TefINTERNAL
		}
		if !tx.DirRemove(view, ownerDirKeylet, oldState.OwnerNode, stateKeylet.Key, false) {
			return tx.TefBAD_LEDGER
		}
		if err := view.Erase(stateKeylet); err != nil {
			return tx.TefINTERNAL
		}
		if stateCount > 0 {
			stateCount--
		}
		// If removing this entry shrinks the allotment, release a unit.
		if ComputeHookDataOwnerCount(stateCount) < oldAllotment {
			tx.AdjustOwnerCount(accountRoot, -1)
		}
		hookEntry.HookStateCount = stateCount
		return writeHookAndAccount(view, hookKeylet, hookEntry, accountKeylet, accountRoot)
	}

	newState := &sle.HookState{Key: key, HookData: append([]byte(nil), data...)}

	if oldStateData != nil {
		// Simple blob replacement: the directory reference and counters
		// are untouched.
		oldState, err := sle.ParseHookState(oldStateData)
		if err != nil {
			return tx.TefINTERNAL
		}
		newState.OwnerNode = oldState.OwnerNode
		if err := view.Erase(stateKeylet); err != nil {
			return tx.TefINTERNAL
		}
		serialized, err := sle.SerializeHookState(newState)
		if err != nil {
			return tx.TefINTERNAL
		}
		if err := view.Insert(stateKeylet, serialized); err != nil {
			return tx.TefINTERNAL
		}
		return tx.TesSUCCESS
	}

	stateCount++
	if ComputeHookDataOwnerCount(stateCount) > oldAllotment {
		// The hook used up its allotment; charge another owner-count unit,
		// reserve permitting.
		newOwnerCount := accountRoot.OwnerCount + 1
		if accountRoot.Balance < ctx.AccountReserve(newOwnerCount) {
			return tx.TecINSUFFICIENT_RESERVE
		}
		tx.AdjustOwnerCount(accountRoot, 1)
	}
	hookEntry.HookStateCount = stateCount

	page, err := tx.DirInsert(view, ownerDirKeylet, account, stateKeylet.Key)
	if err != nil {
		return tx.TecDIR_FULL
	}
	newState.OwnerNode = page

	serialized, err := sle.SerializeHookState(newState)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := view.Insert(stateKeylet, serialized); err != nil {
		return tx.TefINTERNAL
	}

	return writeHookAndAccount(view, hookKeylet, hookEntry, accountKeylet, accountRoot)
}

func writeHookAndAccount(view tx.LedgerView, hookKeylet keylet.Keylet, hookEntry *sle.Hook, accountKeylet keylet.Keylet, accountRoot *sle.AccountRoot) tx.Result {
	hookData, err := sle.SerializeHook(hookEntry)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := view.Update(hookKeylet, hookData); err != nil {
		return tx.TefINTERNAL
	}
	accountData, err := sle.SerializeAccountRoot(accountRoot)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := view.Update(accountKeylet, accountData); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
