// Package ledger holds the in-memory closed-ledger state that transactors
// apply against.
package ledger

// CloseInfo carries the deterministic time and sequence information of the
// ledger being built. ParentCloseTime is the only time source transactors
// may consult.
type CloseInfo struct {
	Seq             uint32
	ParentCloseTime uint32
}

// Fees holds the fee and reserve schedule in force for a ledger.
type Fees struct {
	Base             uint64
	ReserveBase      uint64
	ReserveIncrement uint64
}

// AccountReserve returns the reserve an account with the given owner count
// must retain. Monotonic in ownerCount.
func (f Fees) AccountReserve(ownerCount uint32) uint64 {
	return f.ReserveBase + uint64(ownerCount)*f.ReserveIncrement
}

// Ledger is a flat key -> serialized entry mapping plus close metadata.
type Ledger struct {
	entries map[[32]byte][]byte
	Info    CloseInfo
	Fees    Fees
}

// New creates an empty ledger with the given fee schedule.
func New(fees Fees) *Ledger {
	return &Ledger{
		entries: make(map[[32]byte][]byte),
		Fees:    fees,
	}
}

// Get returns the serialized entry at key, if present.
func (l *Ledger) Get(key [32]byte) ([]byte, bool) {
	data, ok := l.entries[key]
	return data, ok
}

// Put stores the serialized entry at key.
func (l *Ledger) Put(key [32]byte, data []byte) {
	l.entries[key] = data
}

// Delete removes the entry at key.
func (l *Ledger) Delete(key [32]byte) {
	delete(l.entries, key)
}

// EntryCount returns the number of entries in the ledger.
func (l *Ledger) EntryCount() int {
	return len(l.entries)
}

// Keys returns all entry keys. Order is unspecified; callers that need
// determinism must sort.
func (l *Ledger) Keys() [][32]byte {
	out := make([][32]byte, 0, len(l.entries))
	for k := range l.entries {
		out = append(out, k)
	}
	return out
}
