package tx

import (
	"errors"
	"sort"

	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

var (
	ErrEntryExists   = errors.New("ledger entry already exists")
	ErrEntryMissing  = errors.New("ledger entry does not exist")
	ErrEntryTypeMism = errors.New("ledger entry type mismatch")
)

// LedgerView provides read/write access to ledger state. Read returns
// (nil, nil) when the entry is absent.
type LedgerView interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
}

// Backend is the read side an ApplyView overlays. Both *ledger.Ledger and
// *ApplyView implement it, so views nest.
type Backend interface {
	Get(key [32]byte) ([]byte, bool)
}

// Sink is the commit target of an ApplyView.
type Sink interface {
	Put(key [32]byte, data []byte)
	Delete(key [32]byte)
}

// ApplyView is an in-memory overlay over a pre-state. All transactor
// mutations are staged here and either committed as a whole or dropped.
type ApplyView struct {
	base    Backend
	staged  map[[32]byte][]byte
	deleted map[[32]byte]bool
}

// NewApplyView creates an overlay over base.
func NewApplyView(base Backend) *ApplyView {
	return &ApplyView{
		base:    base,
		staged:  make(map[[32]byte][]byte),
		deleted: make(map[[32]byte]bool),
	}
}

// Get implements Backend, observing the overlay first.
func (v *ApplyView) Get(key [32]byte) ([]byte, bool) {
	if v.deleted[key] {
		return nil, false
	}
	if data, ok := v.staged[key]; ok {
		return data, true
	}
	return v.base.Get(key)
}

// checkType verifies a stored entry matches the keylet's expected type.
func checkType(k keylet.Keylet, data []byte) error {
	if k.Type == entry.TypeAny {
		return nil
	}
	got, err := sle.EntryTypeOf(data)
	if err != nil {
		return err
	}
	if got != k.Type {
		return ErrEntryTypeMism
	}
	return nil
}

// Read reads a ledger entry; (nil, nil) if absent.
func (v *ApplyView) Read(k keylet.Keylet) ([]byte, error) {
	data, ok := v.Get(k.Key)
	if !ok {
		return nil, nil
	}
	if err := checkType(k, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Exists checks if an entry exists.
func (v *ApplyView) Exists(k keylet.Keylet) (bool, error) {
	data, ok := v.Get(k.Key)
	if !ok {
		return false, nil
	}
	if err := checkType(k, data); err != nil {
		return false, err
	}
	return true, nil
}

// Insert adds a new entry; the entry must not already exist.
func (v *ApplyView) Insert(k keylet.Keylet, data []byte) error {
	if _, ok := v.Get(k.Key); ok {
		return ErrEntryExists
	}
	delete(v.deleted, k.Key)
	v.staged[k.Key] = data
	return nil
}

// Update modifies an existing entry.
func (v *ApplyView) Update(k keylet.Keylet, data []byte) error {
	if _, ok := v.Get(k.Key); !ok {
		return ErrEntryMissing
	}
	v.staged[k.Key] = data
	return nil
}

// Erase removes an existing entry.
func (v *ApplyView) Erase(k keylet.Keylet) error {
	if _, ok := v.Get(k.Key); !ok {
		return ErrEntryMissing
	}
	delete(v.staged, k.Key)
	v.deleted[k.Key] = true
	return nil
}

// Commit flushes all staged changes into the sink in deterministic key
// order and resets the overlay.
func (v *ApplyView) Commit(sink Sink) {
	keys := make([][32]byte, 0, len(v.staged)+len(v.deleted))
	for k := range v.staged {
		keys = append(keys, k)
	}
	for k := range v.deleted {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return compareKeys(keys[i], keys[j]) < 0
	})
	for _, k := range keys {
		if v.deleted[k] {
			sink.Delete(k)
		} else {
			sink.Put(k, v.staged[k])
		}
	}
	v.Discard()
}

// Put implements Sink so a nested view can commit into its parent.
func (v *ApplyView) Put(key [32]byte, data []byte) {
	delete(v.deleted, key)
	v.staged[key] = data
}

// Delete implements Sink so a nested view can commit into its parent.
func (v *ApplyView) Delete(key [32]byte) {
	delete(v.staged, key)
	v.deleted[key] = true
}

// Discard drops all staged changes.
func (v *ApplyView) Discard() {
	v.staged = make(map[[32]byte][]byte)
	v.deleted = make(map[[32]byte]bool)
}

// Dirty reports whether the overlay holds any staged change.
func (v *ApplyView) Dirty() bool {
	return len(v.staged) > 0 || len(v.deleted) > 0
}

func compareKeys(a, b [32]byte) int {
	for i := 0; i < 32; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
