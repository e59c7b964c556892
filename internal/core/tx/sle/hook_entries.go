package sle

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

// Hook is the ledger entry holding an account's installed hook program and
// its reserve bookkeeping.
type Hook struct {
	Account          [20]byte `codec:"account"`
	CreateCode       []byte   `codec:"createCode"`
	HookOn           uint64   `codec:"hookOn"`
	HookStateCount   uint32   `codec:"hookStateCount"`
	HookReserveCount uint32   `codec:"hookReserveCount"`
	HookDataMaxSize  uint32   `codec:"hookDataMaxSize"`
	OwnerNode        uint64   `codec:"ownerNode"`
}

// EntryType implements Entry.
func (h *Hook) EntryType() entry.Type {
	return entry.TypeHook
}

// SerializeHook serializes a hook entry.
func SerializeHook(h *Hook) ([]byte, error) {
	return Serialize(h)
}

// ParseHook parses a hook entry from its serialized form.
func ParseHook(data []byte) (*Hook, error) {
	h := &Hook{}
	if err := deserialize(data, entry.TypeHook, h); err != nil {
		return nil, err
	}
	return h, nil
}

// HookState is a single key->blob state entry owned by an account's hook.
type HookState struct {
	Key       [32]byte `codec:"key"`
	HookData  []byte   `codec:"hookData"`
	OwnerNode uint64   `codec:"ownerNode"`
}

// EntryType implements Entry.
func (s *HookState) EntryType() entry.Type {
	return entry.TypeHookState
}

// SerializeHookState serializes a hook state entry.
func SerializeHookState(s *HookState) ([]byte, error) {
	return Serialize(s)
}

// ParseHookState parses a hook state entry from its serialized form.
func ParseHookState(data []byte) (*HookState, error) {
	s := &HookState{}
	if err := deserialize(data, entry.TypeHookState, s); err != nil {
		return nil, err
	}
	return s, nil
}
