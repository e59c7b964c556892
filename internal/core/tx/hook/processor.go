package hook

import (
	"errors"

	"github.com/LeJamon/goXahaud/internal/core/hooks"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

func init() {
	tx.RegisterHookProcessor(Process)
}

// ledgerStateReader serves get_state misses from the staged view.
type ledgerStateReader struct {
	view    tx.LedgerView
	account [20]byte
}

func (r ledgerStateReader) GetHookState(key [32]byte) ([]byte, bool) {
	data, err := r.view.Read(keylet.HookState(r.account, key))
	if err != nil || data == nil {
		return nil, false
	}
	state, err := sle.ParseHookState(data)
	if err != nil {
		return nil, false
	}
	return state.HookData, true
}

// Process runs the hook installed on account against the current
// transaction. On ACCEPT the change buffer is committed in ascending key
// order; on REJECT or ROLLBACK the transaction fails with terNO_AUTH.
func Process(ctx *tx.ApplyContext, account [20]byte, hookEntry *sle.Hook, _ tx.Transaction) tx.Result {
	result, err := hooks.DefaultRuntime().Execute(hooks.Params{
		Code:         hookEntry.CreateCode,
		MaxStateSize: hookEntry.HookDataMaxSize,
		State:        ledgerStateReader{view: ctx.View, account: account},
	})
	if err != nil {
		if errors.Is(err, hooks.ErrMalformed) {
			return tx.TemMALFORMED
		}
		return tx.TefINTERNAL
	}

	if result.ExitType != hooks.ExitAccept {
		return tx.TerNO_AUTH
	}

	for _, key := range result.Changes.ModifiedKeys() {
		data, _ := result.Changes.Get(key)
		if r := SetHookState(ctx, account, key, data); !r.IsSuccess() {
			return r
		}
	}
	return tx.TesSUCCESS
}
