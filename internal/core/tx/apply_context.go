package tx

import (
	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// EngineConfig holds the engine parameters derived from the ledger being
// built: reserves, base fee, deterministic close time and amendment rules.
type EngineConfig struct {
	BaseFee          uint64
	ReserveBase      uint64
	ReserveIncrement uint64
	LedgerSeq        uint32
	ParentCloseTime  uint32
	Rules            *amendment.Rules
}

// PreflightContext carries what a stateless preflight may consult: the
// amendment rules, nothing else.
type PreflightContext struct {
	Rules *amendment.Rules
}

// ApplyContext provides all the state and helpers needed to preclaim and
// apply a transaction.
type ApplyContext struct {
	// View provides read/write access to staged ledger state.
	View LedgerView

	// Account is the source account. Mutations to it are written back by
	// the engine after Apply returns.
	Account *sle.AccountRoot

	// AccountID is the decoded source account ID.
	AccountID [20]byte

	// PriorBalance is the source balance before the fee was deducted. The
	// PaymentChannelCreate and SetHook reserve checks measure against it;
	// the other reserve checks use the balance after the fee.
	PriorBalance uint64

	// Config holds engine configuration (reserves, close time, rules).
	Config EngineConfig

	// TxHash is the hash of the current transaction.
	TxHash [32]byte
}

// AccountReserve calculates the total reserve required for an account with
// the given owner count.
func (ctx *ApplyContext) AccountReserve(ownerCount uint32) uint64 {
	return ctx.Config.ReserveBase + uint64(ownerCount)*ctx.Config.ReserveIncrement
}

// Rules returns the amendment rules, defaulting to all supported
// amendments enabled if unset.
func (ctx *ApplyContext) Rules() *amendment.Rules {
	if ctx.Config.Rules != nil {
		return ctx.Config.Rules
	}
	return amendment.AllSupportedRules()
}

// AdjustOwnerCount moves an account's owner count by delta, clamping at
// zero on the way down.
func AdjustOwnerCount(account *sle.AccountRoot, delta int) {
	n := int64(account.OwnerCount) + int64(delta)
	if n < 0 {
		n = 0
	}
	account.OwnerCount = uint32(n)
}
