package tx

import (
	"errors"

	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// Common errors
var (
	ErrMissingRequiredField = errors.New("temMALFORMED: missing required field")
	ErrInvalidAccount       = errors.New("temMALFORMED: Account is invalid")
	ErrInvalidFlags         = errors.New("temINVALID_FLAG: invalid flags")
)

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks the transaction syntactically. It may not read ledger
	// state or amendment rules.
	Validate() error
}

// Preflighter is implemented by transaction types with feature-gated or
// cryptographic preflight checks beyond Validate. Still stateless: no
// ledger reads.
type Preflighter interface {
	Preflight(ctx *PreflightContext) Result
}

// Preclaimer is implemented by transaction types with read-only ledger
// checks that run before doApply.
type Preclaimer interface {
	Preclaim(ctx *ApplyContext) Result
}

// Appliable is implemented by transaction types that can apply themselves
// to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Amount is an alias for sle.Amount — either XRP drops or an issued amount.
type Amount = sle.Amount

// NewXRPAmount creates an XRP amount in drops
func NewXRPAmount(drops int64) Amount {
	return sle.NewXRPAmountFromInt(drops)
}

// NewIssuedAmount creates an issued currency amount from a decimal value
// string.
func NewIssuedAmount(value, currency, issuer string) Amount {
	return sle.NewIssuedAmount(value, currency, issuer)
}

// Common contains fields common to all transaction types
type Common struct {
	// Required fields
	Account         string `json:"Account"`
	TransactionType string `json:"TransactionType"`

	// Fee in drops (required for submission)
	Fee string `json:"Fee,omitempty"`

	// Sequence number
	Sequence *uint32 `json:"Sequence,omitempty"`

	// Optional common fields
	Flags              *uint32 `json:"Flags,omitempty"`
	LastLedgerSequence *uint32 `json:"LastLedgerSequence,omitempty"`
	SourceTag          *uint32 `json:"SourceTag,omitempty"`
	TicketSequence     *uint32 `json:"TicketSequence,omitempty"`
}

// Validate validates the common fields
func (c *Common) Validate() error {
	if c.Account == "" {
		return errors.New("temMALFORMED: Account is required")
	}
	if c.TransactionType == "" {
		return errors.New("temMALFORMED: TransactionType is required")
	}
	if _, err := sle.DecodeAccountID(c.Account); err != nil {
		return ErrInvalidAccount
	}
	return nil
}

// SetFlags sets the flags field
func (c *Common) SetFlags(flags uint32) {
	c.Flags = &flags
}

// GetFlags returns the flags value (0 if not set)
func (c *Common) GetFlags() uint32 {
	if c.Flags == nil {
		return 0
	}
	return *c.Flags
}

// SetSequence sets the sequence number
func (c *Common) SetSequence(seq uint32) {
	c.Sequence = &seq
}

// GetSequence returns the sequence number (0 if not set)
func (c *Common) GetSequence() uint32 {
	if c.Sequence == nil {
		return 0
	}
	return *c.Sequence
}

// SeqProxy returns the effective sequence value for this transaction.
// Ticket-based transactions use the ticket sequence.
func (c *Common) SeqProxy() uint32 {
	if c.TicketSequence != nil {
		return *c.TicketSequence
	}
	if c.Sequence != nil {
		return *c.Sequence
	}
	return 0
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account string) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}
