// Package testing provides the in-memory ledger environment and account
// fixtures used by the transactor test suites.
package testing

import (
	"encoding/hex"
	"strings"
	gotesting "testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	_ "github.com/LeJamon/goXahaud/internal/core/tx/all"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
	crypto "github.com/LeJamon/goXahaud/internal/crypto/common"
)

// XRP converts whole XRP to drops.
func XRP(x int64) int64 {
	return x * 1_000_000
}

// Account is a deterministic test identity: the secp256k1 key is derived
// from the name so test runs are reproducible.
type Account struct {
	Name    string
	ID      [20]byte
	Address string
	priv    *btcec.PrivateKey
	pub     []byte
}

// NewAccount derives a test account from a name.
func NewAccount(name string) *Account {
	seed := crypto.Sha512Half([]byte("account:" + name))
	priv, pub := btcec.PrivKeyFromBytes(seed[:])
	pubBytes := pub.SerializeCompressed()
	id := crypto.AccountIDFromPublicKey(pubBytes)
	address, _ := sle.EncodeAccountID(id)
	return &Account{
		Name:    name,
		ID:      id,
		Address: address,
		priv:    priv,
		pub:     pubBytes,
	}
}

// PublicKeyHex returns the account's compressed public key, hex encoded as
// transactions carry it.
func (a *Account) PublicKeyHex() string {
	return strings.ToUpper(hex.EncodeToString(a.pub))
}

// SignClaim signs a channel claim authorization for the given amount.
func (a *Account) SignClaim(channelID [32]byte, amount tx.Amount) string {
	msg, err := tx.SerializePayChanAuthorization(channelID, amount)
	if err != nil {
		panic(err)
	}
	digest := crypto.Sha512Half(msg)
	sig := btcecdsa.Sign(a.priv, digest[:])
	return strings.ToUpper(hex.EncodeToString(sig.Serialize()))
}

// Env is a single-ledger test environment.
type Env struct {
	t      *gotesting.T
	Ledger *ledger.Ledger
	rules  *amendment.Rules
}

// Option customizes a test environment.
type Option func(*Env)

// WithFeatures replaces the enabled amendment set.
func WithFeatures(names ...string) Option {
	return func(e *Env) {
		b := amendment.NewRulesBuilder()
		for _, n := range names {
			b.EnableByName(n)
		}
		e.rules = b.Build()
	}
}

// WithoutFeature removes one amendment from the default all-supported set.
func WithoutFeature(id [32]byte) Option {
	return func(e *Env) {
		e.rules = amendment.NewRulesBuilder().
			FromRules(e.rules).
			Disable(id).
			Build()
	}
}

// NewTestEnv creates an environment with the standard test fee schedule:
// base fee 10, reserve 150000 + 50000 per owned object.
func NewTestEnv(t *gotesting.T, opts ...Option) *Env {
	t.Helper()
	l := ledger.New(ledger.Fees{
		Base:             10,
		ReserveBase:      150_000,
		ReserveIncrement: 50_000,
	})
	l.Info = ledger.CloseInfo{Seq: 3, ParentCloseTime: 1_000_000}
	env := &Env{
		t:      t,
		Ledger: l,
		rules:  amendment.AllSupportedRules(),
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Fund creates an account root holding the given drops.
func (e *Env) Fund(account *Account, drops uint64) {
	e.t.Helper()
	root := &sle.AccountRoot{
		Account:  account.ID,
		Balance:  drops,
		Sequence: 1,
	}
	e.putAccount(root)
}

// SetAccountFlags replaces an account's flag bits.
func (e *Env) SetAccountFlags(account *Account, flags uint32) {
	e.t.Helper()
	root := e.AccountRoot(account)
	root.Flags = flags
	e.putAccount(root)
}

func (e *Env) putAccount(root *sle.AccountRoot) {
	data, err := sle.SerializeAccountRoot(root)
	if err != nil {
		e.t.Fatalf("failed to serialize account: %v", err)
	}
	e.Ledger.Put(keylet.Account(root.Account).Key, data)
}

// AccountRoot reads an account's root entry, failing the test if absent.
func (e *Env) AccountRoot(account *Account) *sle.AccountRoot {
	e.t.Helper()
	data, ok := e.Ledger.Get(keylet.Account(account.ID).Key)
	if !ok {
		e.t.Fatalf("account %s does not exist", account.Name)
	}
	root, err := sle.ParseAccountRoot(data)
	if err != nil {
		e.t.Fatalf("failed to parse account: %v", err)
	}
	return root
}

// Balance returns an account's XRP balance in drops.
func (e *Env) Balance(account *Account) uint64 {
	return e.AccountRoot(account).Balance
}

// OwnerCount returns an account's owner count.
func (e *Env) OwnerCount(account *Account) uint32 {
	return e.AccountRoot(account).OwnerCount
}

// Seq returns the next sequence number for an account.
func (e *Env) Seq(account *Account) uint32 {
	return e.AccountRoot(account).Sequence
}

// SetTrustLine installs a trust line between holder and issuer with the
// given balance; the locked balance starts at zero.
func (e *Env) SetTrustLine(holder, issuer *Account, currency, balance string) {
	e.t.Helper()
	line := &sle.RippleState{
		Account:       holder.ID,
		Issuer:        issuer.ID,
		Currency:      currency,
		Balance:       sle.NewIssuedAmount(balance, currency, issuer.Address),
		LockedBalance: sle.NewIssuedAmount("0", currency, issuer.Address),
		Limit:         sle.NewIssuedAmount("1000000000", currency, issuer.Address),
	}
	data, err := sle.SerializeRippleState(line)
	if err != nil {
		e.t.Fatalf("failed to serialize trust line: %v", err)
	}
	e.Ledger.Put(keylet.Line(holder.ID, issuer.ID, currency).Key, data)
}

// TrustLine reads the trust line between holder and issuer, failing the
// test if absent.
func (e *Env) TrustLine(holder, issuer *Account, currency string) *sle.RippleState {
	e.t.Helper()
	data, ok := e.Ledger.Get(keylet.Line(holder.ID, issuer.ID, currency).Key)
	if !ok {
		e.t.Fatalf("trust line %s/%s does not exist", holder.Name, currency)
	}
	line, err := sle.ParseRippleState(data)
	if err != nil {
		e.t.Fatalf("failed to parse trust line: %v", err)
	}
	return line
}

// CloseTime returns the deterministic parent close time.
func (e *Env) CloseTime() uint32 {
	return e.Ledger.Info.ParentCloseTime
}

// AdvanceTime moves the parent close time forward.
func (e *Env) AdvanceTime(seconds uint32) {
	e.Ledger.Info.ParentCloseTime += seconds
}

// Submit applies a transaction, filling in the fee and sequence if the
// caller has not.
func (e *Env) Submit(t tx.Transaction) tx.Result {
	e.t.Helper()
	common := t.GetCommon()
	if common.Fee == "" {
		common.Fee = "10"
	}
	if common.Sequence == nil && common.TicketSequence == nil {
		id, err := sle.DecodeAccountID(common.Account)
		if err == nil {
			if data, ok := e.Ledger.Get(keylet.Account(id).Key); ok {
				if root, err := sle.ParseAccountRoot(data); err == nil {
					common.SetSequence(root.Sequence)
				}
			}
		}
	}
	engine := tx.NewEngine(e.Ledger, tx.EngineConfig{Rules: e.rules})
	return engine.Apply(t)
}

// RequireSuccess fails the test unless the result is tesSUCCESS.
func RequireSuccess(t *gotesting.T, r tx.Result) {
	t.Helper()
	if !r.IsSuccess() {
		t.Fatalf("expected tesSUCCESS, got %s", r)
	}
}
