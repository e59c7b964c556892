package hooks

import "sort"

type bufEntry struct {
	modified bool
	data     []byte
}

// ChangeBuffer stages hook state writes for one invocation. Reads that miss
// the buffer but hit the ledger are cached unmodified; only modified
// entries are committed, in ascending key order.
type ChangeBuffer struct {
	entries map[[32]byte]bufEntry
}

// NewChangeBuffer creates an empty change buffer.
func NewChangeBuffer() *ChangeBuffer {
	return &ChangeBuffer{entries: make(map[[32]byte]bufEntry)}
}

// Set stages data under key and marks it modified. Empty data stages a
// deletion.
func (b *ChangeBuffer) Set(key [32]byte, data []byte) {
	b.entries[key] = bufEntry{modified: true, data: append([]byte(nil), data...)}
}

// Cache stores data under key without marking it modified.
func (b *ChangeBuffer) Cache(key [32]byte, data []byte) {
	b.entries[key] = bufEntry{data: append([]byte(nil), data...)}
}

// Get returns the staged or cached data under key.
func (b *ChangeBuffer) Get(key [32]byte) ([]byte, bool) {
	e, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Len returns the number of buffered entries.
func (b *ChangeBuffer) Len() int {
	return len(b.entries)
}

// ModifiedKeys returns the keys of modified entries in ascending order, the
// deterministic commit order.
func (b *ChangeBuffer) ModifiedKeys() [][32]byte {
	keys := make([][32]byte, 0, len(b.entries))
	for k, e := range b.entries {
		if e.modified {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, c := keys[i], keys[j]
		for n := 0; n < 32; n++ {
			if a[n] != c[n] {
				return a[n] < c[n]
			}
		}
		return false
	})
	return keys
}
