package hook

import (
	"encoding/hex"
	"errors"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/hooks"
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

func init() {
	tx.Register(tx.TypeSetHook, func() tx.Transaction {
		return &SetHook{BaseTx: *tx.NewBaseTx(tx.TypeSetHook, "")}
	})
}

// DefaultHookDataMaxSize bounds a single hook state blob; a consensus
// parameter recorded on the hook entry at install time.
const DefaultHookDataMaxSize uint32 = 128

var ErrSetHookBadCode = errors.New("temMALFORMED: CreateCode is not valid hex")

// SetHook installs, replaces or removes the hook on the sending account.
// An empty CreateCode with no installed hook bulk-destroys the account's
// hook state instead.
type SetHook struct {
	tx.BaseTx

	// CreateCode is the hook's WASM program, hex encoded. Empty means
	// delete.
	CreateCode string `json:"CreateCode"`

	// HookOn is the bitmask of transaction types the hook fires on.
	HookOn uint64 `json:"HookOn"`
}

// NewSetHook creates a new SetHook transaction
func NewSetHook(account, createCode string, hookOn uint64) *SetHook {
	return &SetHook{
		BaseTx:     *tx.NewBaseTx(tx.TypeSetHook, account),
		CreateCode: createCode,
		HookOn:     hookOn,
	}
}

// TxType returns the transaction type
func (s *SetHook) TxType() tx.Type {
	return tx.TypeSetHook
}

// Validate validates the SetHook transaction
func (s *SetHook) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if _, err := hex.DecodeString(s.CreateCode); err != nil {
		return ErrSetHookBadCode
	}
	return nil
}

// Preflight gates on the Hooks amendment and validates the code blob in
// the sandbox. Instantiation failure is temMALFORMED.
func (s *SetHook) Preflight(ctx *tx.PreflightContext) tx.Result {
	if ctx.Rules == nil || !ctx.Rules.Enabled(amendment.FeatureHooks) {
		return tx.TemDISABLED
	}
	if s.CreateCode != "" {
		code, _ := hex.DecodeString(s.CreateCode)
		if err := hooks.DefaultRuntime().ValidateCode(code); err != nil {
			return tx.TemMALFORMED
		}
	}
	return tx.TesSUCCESS
}

// Apply installs, replaces or removes the hook, keeping the reserve
// accounting in step.
func (s *SetHook) Apply(ctx *tx.ApplyContext) tx.Result {
	code, _ := hex.DecodeString(s.CreateCode)

	hookKeylet := keylet.Hook(ctx.AccountID)
	ownerDirKeylet := keylet.OwnerDir(ctx.AccountID)

	// This may be a create or a replace. Any old hook is removed first:
	// that may reduce the reserve, so it happens before the reserve check.
	oldHookData, err := ctx.View.Read(hookKeylet)
	if err != nil {
		return tx.TefINTERNAL
	}
	var oldHook *sle.Hook
	if oldHookData != nil {
		oldHook, err = sle.ParseHook(oldHookData)
		if err != nil {
			return tx.TefINTERNAL
		}
	}

	// State count and reserve units survive a replacement.
	var stateCount, previousReserveUnits uint32
	if oldHook != nil {
		stateCount = oldHook.HookStateCount
		previousReserveUnits = oldHook.HookReserveCount
	}
	newReserveUnits := hookReserveUnits(len(code), DefaultHookDataMaxSize)

	if len(code) == 0 && oldHook == nil {
		// Destroying the state data of a previously removed hook.
		return destroyEntireHookState(ctx, ownerDirKeylet)
	}

	if oldHook != nil {
		if !tx.DirRemove(ctx.View, ownerDirKeylet, oldHook.OwnerNode, hookKeylet.Key, false) {
			return tx.TefBAD_LEDGER
		}
		if err := ctx.View.Erase(hookKeylet); err != nil {
			return tx.TefINTERNAL
		}
	}

	addedOwnerCount := int(newReserveUnits) - int(previousReserveUnits)

	newCount := int(ctx.Account.OwnerCount) + addedOwnerCount
	if newCount < 0 {
		newCount = 0
	}
	if ctx.PriorBalance < ctx.AccountReserve(uint32(newCount)) {
		return tx.TecINSUFFICIENT_RESERVE
	}

	if len(code) > 0 {
		newHook := &sle.Hook{
			Account:          ctx.AccountID,
			CreateCode:       code,
			HookOn:           s.HookOn,
			HookStateCount:   stateCount,
			HookReserveCount: newReserveUnits,
			HookDataMaxSize:  DefaultHookDataMaxSize,
		}

		page, err := tx.DirInsert(ctx.View, ownerDirKeylet, ctx.AccountID, hookKeylet.Key)
		if err != nil {
			return tx.TecDIR_FULL
		}
		newHook.OwnerNode = page

		data, err := sle.SerializeHook(newHook)
		if err != nil {
			return tx.TefINTERNAL
		}
		if err := ctx.View.Insert(hookKeylet, data); err != nil {
			return tx.TefINTERNAL
		}
	}

	tx.AdjustOwnerCount(ctx.Account, addedOwnerCount)
	return tx.TesSUCCESS
}

// destroyEntireHookState erases every HookState entry in the account's
// directory. The iterator snapshots each page before acting, so removing
// the entry under the cursor is safe.
func destroyEntireHookState(ctx *tx.ApplyContext, ownerDirKeylet keylet.Keylet) tx.Result {
	if tx.DirIsEmpty(ctx.View, ownerDirKeylet) {
		return tx.TesSUCCESS
	}

	removed := uint32(0)
	it, itemKey, ok := tx.CdirFirst(ctx.View, ownerDirKeylet)
	for ok {
		itemKeylet := keylet.FromHash(itemKey)
		data, err := ctx.View.Read(itemKeylet)
		if err != nil {
			return tx.TefINTERNAL
		}
		if data == nil {
			// Directory node has an index to an object that is missing.
			return tx.TefBAD_LEDGER
		}
		entryType, err := sle.EntryTypeOf(data)
		if err != nil {
			return tx.TefINTERNAL
		}
		if entryType == entry.TypeHookState {
			state, err := sle.ParseHookState(data)
			if err != nil {
				return tx.TefINTERNAL
			}
			if !tx.DirRemove(ctx.View, ownerDirKeylet, state.OwnerNode, itemKeylet.Key, false) {
				return tx.TefBAD_LEDGER
			}
			if err := ctx.View.Erase(itemKeylet); err != nil {
				return tx.TefINTERNAL
			}
			removed++
		}
		itemKey, ok = it.Next()
	}

	// Release the owner-count allotment the destroyed states consumed.
	tx.AdjustOwnerCount(ctx.Account, -int(ComputeHookDataOwnerCount(removed)))
	return tx.TesSUCCESS
}

// hookReserveUnits is ceil(codeLen / (5 * blobMax)).
func hookReserveUnits(codeLen int, blobMax uint32) uint32 {
	if codeLen == 0 {
		return 0
	}
	unit := 5 * int(blobMax)
	return uint32((codeLen + unit - 1) / unit)
}
