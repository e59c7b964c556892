package sle

import (
	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
)

// DirNodeMaxEntries is the maximum number of keylets per directory page.
const DirNodeMaxEntries = 32

// DirectoryNode is one page of an owner directory. Page 0 is the root; the
// root's IndexPrevious points at the last page so appends are O(1).
type DirectoryNode struct {
	Owner         [20]byte   `codec:"owner"`
	RootIndex     [32]byte   `codec:"rootIndex"`
	Indexes       [][32]byte `codec:"indexes"`
	IndexNext     uint64     `codec:"indexNext,omitempty"`
	IndexPrevious uint64     `codec:"indexPrevious,omitempty"`
}

// EntryType implements Entry.
func (d *DirectoryNode) EntryType() entry.Type {
	return entry.TypeDirectoryNode
}

// SerializeDirectoryNode serializes a directory page.
func SerializeDirectoryNode(d *DirectoryNode) ([]byte, error) {
	return Serialize(d)
}

// ParseDirectoryNode parses a directory page from its serialized form.
func ParseDirectoryNode(data []byte) (*DirectoryNode, error) {
	d := &DirectoryNode{}
	if err := deserialize(data, entry.TypeDirectoryNode, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Contains reports whether the page references the given keylet key.
func (d *DirectoryNode) Contains(key [32]byte) bool {
	for _, idx := range d.Indexes {
		if idx == key {
			return true
		}
	}
	return false
}

// Remove deletes the given keylet key from the page, reporting whether it
// was present.
func (d *DirectoryNode) Remove(key [32]byte) bool {
	for i, idx := range d.Indexes {
		if idx == key {
			d.Indexes = append(d.Indexes[:i], d.Indexes[i+1:]...)
			return true
		}
	}
	return false
}
