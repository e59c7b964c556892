package tx

import (
	"strconv"
	"strings"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
	crypto "github.com/LeJamon/goXahaud/internal/crypto/common"
)

// HookProcessor runs the hook installed on account against the transaction
// being applied, committing accepted state changes into ctx.View. It is
// registered by the hook transaction package so the engine stays decoupled
// from the WASM runtime.
type HookProcessor func(ctx *ApplyContext, account [20]byte, hookEntry *sle.Hook, t Transaction) Result

var hookProcessor HookProcessor

// RegisterHookProcessor installs the hook execution callback.
func RegisterHookProcessor(p HookProcessor) {
	hookProcessor = p
}

// Destinationer is implemented by transaction types that implicate a
// destination account, so its hook can be consulted too.
type Destinationer interface {
	DestinationID() ([20]byte, bool)
}

// Engine applies transactions sequentially against a single mutable ledger.
type Engine struct {
	ledger *ledger.Ledger
	config EngineConfig
}

// NewEngine creates an engine over the given ledger.
func NewEngine(l *ledger.Ledger, config EngineConfig) *Engine {
	config.ReserveBase = l.Fees.ReserveBase
	config.ReserveIncrement = l.Fees.ReserveIncrement
	if config.BaseFee == 0 {
		config.BaseFee = l.Fees.Base
	}
	config.LedgerSeq = l.Info.Seq
	config.ParentCloseTime = l.Info.ParentCloseTime
	return &Engine{ledger: l, config: config}
}

// Ledger returns the ledger the engine applies against.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Apply runs the full transactor lifecycle for one transaction: preflight,
// preclaim, doApply, hook execution, and commit. Either every staged change
// lands (tesSUCCESS), only the fee lands (tec), or nothing lands.
func (e *Engine) Apply(t Transaction) Result {
	// --- preflight: purely syntactic, no ledger reads ---
	if err := t.Validate(); err != nil {
		return ResultFromError(err)
	}
	rules := e.config.Rules
	if pf, ok := t.(Preflighter); ok {
		if r := pf.Preflight(&PreflightContext{Rules: rules}); !r.IsSuccess() {
			return r
		}
	}

	accountID, err := sle.DecodeAccountID(t.GetCommon().Account)
	if err != nil {
		return TemMALFORMED
	}

	feeView := NewApplyView(e.ledger)

	accountData, err := feeView.Read(keylet.Account(accountID))
	if err != nil {
		return TefINTERNAL
	}
	if accountData == nil {
		return TerNO_ACCOUNT
	}
	account, err := sle.ParseAccountRoot(accountData)
	if err != nil {
		return TefINTERNAL
	}

	// --- fee and sequence ---
	fee, ok := parseFee(t.GetCommon().Fee)
	if !ok || fee < e.config.BaseFee {
		return TelINSUF_FEE_P
	}
	if account.Balance < fee {
		return TerINSUF_FEE_B
	}
	if t.GetCommon().TicketSequence == nil {
		seq := t.GetCommon().GetSequence()
		if seq < account.Sequence {
			return TefPAST_SEQ
		}
		if seq > account.Sequence {
			return TerPRE_SEQ
		}
	}

	priorBalance := account.Balance
	account.Balance -= fee
	account.Sequence++
	if r := storeAccount(feeView, account); !r.IsSuccess() {
		return r
	}

	ctx := &ApplyContext{
		Account:      account,
		AccountID:    accountID,
		PriorBalance: priorBalance,
		Config:       e.config,
		TxHash:       txHash(t),
	}

	// --- preclaim: read-only state validation ---
	ctx.View = feeView
	if pc, ok := t.(Preclaimer); ok {
		if r := pc.Preclaim(ctx); !r.IsSuccess() {
			if r.IsTec() {
				feeView.Commit(e.ledger)
			}
			return r
		}
	}

	// --- doApply: staged mutations on a nested view ---
	appliable, ok := t.(Appliable)
	if !ok {
		return TemMALFORMED
	}
	txnView := NewApplyView(feeView)
	ctx.View = txnView

	result := appliable.Apply(ctx)
	if result.IsSuccess() {
		if r := storeAccount(txnView, ctx.Account); !r.IsSuccess() {
			result = r
		}
	}

	// --- hooks: may veto before the final commit ---
	if result.IsSuccess() && hookProcessor != nil &&
		ctx.Rules().Enabled(amendment.FeatureHooks) {
		result = e.runHooks(ctx, t)
	}

	switch {
	case result.IsSuccess():
		txnView.Commit(feeView)
		feeView.Commit(e.ledger)
	case result.IsTec():
		// Fee only; every other staged change is dropped.
		txnView.Discard()
		feeView.Commit(e.ledger)
	default:
		txnView.Discard()
		feeView.Discard()
	}
	return result
}

// runHooks executes the hooks of the implicated accounts, source first,
// then a distinct destination. A non-success from any hook vetoes the
// transaction.
func (e *Engine) runHooks(ctx *ApplyContext, t Transaction) Result {
	accounts := [][20]byte{ctx.AccountID}
	if d, ok := t.(Destinationer); ok {
		if dst, present := d.DestinationID(); present && dst != ctx.AccountID {
			accounts = append(accounts, dst)
		}
	}
	for _, acc := range accounts {
		hookData, err := ctx.View.Read(keylet.Hook(acc))
		if err != nil {
			return TefINTERNAL
		}
		if hookData == nil {
			continue
		}
		hookEntry, err := sle.ParseHook(hookData)
		if err != nil {
			return TefINTERNAL
		}
		if hookEntry.HookOn&t.TxType().HookOnBit() == 0 {
			continue
		}
		if r := hookProcessor(ctx, acc, hookEntry, t); !r.IsSuccess() {
			return r
		}
	}
	return TesSUCCESS
}

// storeAccount serializes an account root back into the view.
func storeAccount(view LedgerView, account *sle.AccountRoot) Result {
	data, err := sle.SerializeAccountRoot(account)
	if err != nil {
		return TefINTERNAL
	}
	if err := view.Update(keylet.Account(account.Account), data); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}

func parseFee(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// txHash derives a deterministic per-transaction hash from the signing
// account and effective sequence.
func txHash(t Transaction) [32]byte {
	c := t.GetCommon()
	var buf []byte
	buf = append(buf, byte(t.TxType()>>8), byte(t.TxType()))
	buf = append(buf, []byte(c.Account)...)
	seq := c.SeqProxy()
	buf = append(buf, byte(seq>>24), byte(seq>>16), byte(seq>>8), byte(seq))
	return crypto.Sha512Half(buf)
}

// resultNames maps the error prefix convention ("temBAD_AMOUNT: ...") used
// by Validate to result codes.
var resultNames = map[string]Result{
	"temMALFORMED":           TemMALFORMED,
	"temBAD_AMOUNT":          TemBAD_AMOUNT,
	"temBAD_CURRENCY":        TemBAD_CURRENCY,
	"temBAD_EXPIRATION":      TemBAD_EXPIRATION,
	"temBAD_FEE":             TemBAD_FEE,
	"temBAD_SIGNATURE":       TemBAD_SIGNATURE,
	"temBAD_SIGNER":          TemBAD_SIGNER,
	"temDST_IS_SRC":          TemDST_IS_SRC,
	"temDST_NEEDED":          TemDST_NEEDED,
	"temINVALID":             TemINVALID,
	"temINVALID_FLAG":        TemINVALID_FLAG,
	"temDISABLED":            TemDISABLED,
	"temHOOK_DATA_TOO_LARGE": TemHOOK_DATA_TOO_LARGE,
}

// ResultFromError maps a preflight validation error to its result code.
// Unrecognized errors are temMALFORMED.
func ResultFromError(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, ':'); i > 0 {
		if r, ok := resultNames[msg[:i]]; ok {
			return r
		}
	}
	return TemMALFORMED
}
