package tx

import (
	"errors"

	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// dirMaxPages bounds the number of pages in one directory.
const dirMaxPages uint64 = 1 << 20

var ErrDirectoryFull = errors.New("directory is full")

// DirInsert adds an item to an owner directory, creating pages as needed.
// Returns the page number holding the item; the caller stores it on the
// owned entry as the removal hint.
func DirInsert(view LedgerView, root keylet.Keylet, owner [20]byte, itemKey [32]byte) (uint64, error) {
	rootData, err := view.Read(root)
	if err != nil {
		return 0, err
	}

	if rootData == nil {
		node := &sle.DirectoryNode{
			Owner:     owner,
			RootIndex: root.Key,
			Indexes:   [][32]byte{itemKey},
		}
		data, err := sle.SerializeDirectoryNode(node)
		if err != nil {
			return 0, err
		}
		return 0, view.Insert(root, data)
	}

	rootNode, err := sle.ParseDirectoryNode(rootData)
	if err != nil {
		return 0, err
	}

	lastPage := rootNode.IndexPrevious
	if lastPage == 0 {
		// Root is the only page.
		if len(rootNode.Indexes) < sle.DirNodeMaxEntries {
			rootNode.Indexes = append(rootNode.Indexes, itemKey)
			return 0, writeDirNode(view, root, rootNode)
		}
		// Overflow into page 1.
		newNode := &sle.DirectoryNode{
			Owner:     owner,
			RootIndex: root.Key,
			Indexes:   [][32]byte{itemKey},
		}
		newData, err := sle.SerializeDirectoryNode(newNode)
		if err != nil {
			return 0, err
		}
		if err := view.Insert(keylet.DirPage(root.Key, 1), newData); err != nil {
			return 0, err
		}
		rootNode.IndexNext = 1
		rootNode.IndexPrevious = 1
		return 1, writeDirNode(view, root, rootNode)
	}

	lastKeylet := keylet.DirPage(root.Key, lastPage)
	lastData, err := view.Read(lastKeylet)
	if err != nil {
		return 0, err
	}
	if lastData == nil {
		return 0, ErrEntryMissing
	}
	lastNode, err := sle.ParseDirectoryNode(lastData)
	if err != nil {
		return 0, err
	}

	if len(lastNode.Indexes) < sle.DirNodeMaxEntries {
		lastNode.Indexes = append(lastNode.Indexes, itemKey)
		return lastPage, writeDirNode(view, lastKeylet, lastNode)
	}

	newPage := lastPage + 1
	if newPage >= dirMaxPages {
		return 0, ErrDirectoryFull
	}
	newNode := &sle.DirectoryNode{
		Owner:         owner,
		RootIndex:     root.Key,
		Indexes:       [][32]byte{itemKey},
		IndexPrevious: lastPage,
	}
	newData, err := sle.SerializeDirectoryNode(newNode)
	if err != nil {
		return 0, err
	}
	if err := view.Insert(keylet.DirPage(root.Key, newPage), newData); err != nil {
		return 0, err
	}
	lastNode.IndexNext = newPage
	if err := writeDirNode(view, lastKeylet, lastNode); err != nil {
		return 0, err
	}
	rootNode.IndexPrevious = newPage
	return newPage, writeDirNode(view, root, rootNode)
}

// DirRemove removes an item from the directory page the hint points at.
// Empty non-root pages are unlinked and erased; the empty root is erased
// unless keepRoot is set or other pages remain. Returns false if the item
// was not found where the hint said it would be.
func DirRemove(view LedgerView, root keylet.Keylet, page uint64, itemKey [32]byte, keepRoot bool) bool {
	nodeKeylet := root
	if page != 0 {
		nodeKeylet = keylet.DirPage(root.Key, page)
	}
	data, err := view.Read(nodeKeylet)
	if err != nil || data == nil {
		return false
	}
	node, err := sle.ParseDirectoryNode(data)
	if err != nil {
		return false
	}
	if !node.Remove(itemKey) {
		return false
	}

	if page == 0 {
		if len(node.Indexes) == 0 && node.IndexNext == 0 && !keepRoot {
			return view.Erase(root) == nil
		}
		return writeDirNode(view, root, node) == nil
	}

	if len(node.Indexes) > 0 {
		return writeDirNode(view, nodeKeylet, node) == nil
	}

	// Unlink the now-empty page.
	if !unlinkDirPage(view, root, page, node) {
		return false
	}
	if view.Erase(nodeKeylet) != nil {
		return false
	}

	// The root may now be empty and last.
	if keepRoot {
		return true
	}
	rootData, err := view.Read(root)
	if err != nil || rootData == nil {
		return false
	}
	rootNode, err := sle.ParseDirectoryNode(rootData)
	if err != nil {
		return false
	}
	if len(rootNode.Indexes) == 0 && rootNode.IndexNext == 0 {
		return view.Erase(root) == nil
	}
	return true
}

// unlinkDirPage splices page out of the directory's page chain.
func unlinkDirPage(view LedgerView, root keylet.Keylet, page uint64, node *sle.DirectoryNode) bool {
	prev, next := node.IndexPrevious, node.IndexNext

	prevKeylet := root
	if prev != 0 {
		prevKeylet = keylet.DirPage(root.Key, prev)
	}
	prevData, err := view.Read(prevKeylet)
	if err != nil || prevData == nil {
		return false
	}
	prevNode, err := sle.ParseDirectoryNode(prevData)
	if err != nil {
		return false
	}
	prevNode.IndexNext = next

	if prev == 0 && next == 0 {
		// Root becomes the only page again.
		prevNode.IndexPrevious = 0
		return writeDirNode(view, prevKeylet, prevNode) == nil
	}
	if err := writeDirNode(view, prevKeylet, prevNode); err != nil {
		return false
	}

	if next != 0 {
		nextKeylet := keylet.DirPage(root.Key, next)
		nextData, err := view.Read(nextKeylet)
		if err != nil || nextData == nil {
			return false
		}
		nextNode, err := sle.ParseDirectoryNode(nextData)
		if err != nil {
			return false
		}
		nextNode.IndexPrevious = prev
		if err := writeDirNode(view, nextKeylet, nextNode); err != nil {
			return false
		}
		return true
	}

	// Removed the last page: the root's back-pointer moves to prev.
	rootData, err := view.Read(root)
	if err != nil || rootData == nil {
		return false
	}
	rootNode, err := sle.ParseDirectoryNode(rootData)
	if err != nil {
		return false
	}
	rootNode.IndexPrevious = prev
	return writeDirNode(view, root, rootNode) == nil
}

// DirIsEmpty reports whether the directory has no entries.
func DirIsEmpty(view LedgerView, root keylet.Keylet) bool {
	data, err := view.Read(root)
	if err != nil || data == nil {
		return true
	}
	node, err := sle.ParseDirectoryNode(data)
	if err != nil {
		return true
	}
	return len(node.Indexes) == 0 && node.IndexNext == 0
}

// DirIter walks a directory's entries. Each page's contents and next-page
// link are snapshotted when the page is entered, so removing the entry the
// cursor is on is safe.
type DirIter struct {
	view     LedgerView
	root     keylet.Keylet
	indexes  [][32]byte
	pos      int
	nextPage uint64
	started  bool
	done     bool
}

// CdirFirst starts iterating a directory and returns the first entry.
func CdirFirst(view LedgerView, root keylet.Keylet) (*DirIter, [32]byte, bool) {
	it := &DirIter{view: view, root: root}
	key, ok := it.Next()
	return it, key, ok
}

// Next returns the next directory entry, advancing the cursor.
func (it *DirIter) Next() ([32]byte, bool) {
	var zero [32]byte
	for {
		if it.done {
			return zero, false
		}
		if it.pos < len(it.indexes) {
			key := it.indexes[it.pos]
			it.pos++
			return key, true
		}
		// Move to the next page (the root on the first call).
		var pageKeylet keylet.Keylet
		if !it.started {
			it.started = true
			pageKeylet = it.root
		} else if it.nextPage != 0 {
			pageKeylet = keylet.DirPage(it.root.Key, it.nextPage)
		} else {
			it.done = true
			return zero, false
		}
		data, err := it.view.Read(pageKeylet)
		if err != nil || data == nil {
			it.done = true
			return zero, false
		}
		node, err := sle.ParseDirectoryNode(data)
		if err != nil {
			it.done = true
			return zero, false
		}
		it.indexes = append([][32]byte(nil), node.Indexes...)
		it.pos = 0
		it.nextPage = node.IndexNext
	}
}

func writeDirNode(view LedgerView, k keylet.Keylet, node *sle.DirectoryNode) error {
	data, err := sle.SerializeDirectoryNode(node)
	if err != nil {
		return err
	}
	return view.Update(k, data)
}
