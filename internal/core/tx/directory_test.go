package tx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXahaud/internal/core/ledger"
	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

func itemKey(n int) [32]byte {
	var k [32]byte
	k[0] = byte(n >> 8)
	k[1] = byte(n)
	k[2] = 0xaa
	return k
}

func newDirView() (*ApplyView, keylet.Keylet, [20]byte) {
	l := ledger.New(ledger.Fees{})
	var owner [20]byte
	owner[0] = 0x42
	return NewApplyView(l), keylet.OwnerDir(owner), owner
}

func TestDirInsert_FirstEntryCreatesRoot(t *testing.T) {
	view, root, owner := newDirView()

	page, err := DirInsert(view, root, owner, itemKey(1))
	require.NoError(t, err)
	require.Equal(t, uint64(0), page)

	data, err := view.Read(root)
	require.NoError(t, err)
	require.NotNil(t, data)
	node, err := sle.ParseDirectoryNode(data)
	require.NoError(t, err)
	require.Equal(t, owner, node.Owner)
	require.True(t, node.Contains(itemKey(1)))
}

func TestDirInsert_OverflowsIntoPages(t *testing.T) {
	view, root, owner := newDirView()

	// Fill the root page and push one more.
	for i := 0; i < sle.DirNodeMaxEntries; i++ {
		page, err := DirInsert(view, root, owner, itemKey(i))
		require.NoError(t, err)
		require.Equal(t, uint64(0), page)
	}
	page, err := DirInsert(view, root, owner, itemKey(sle.DirNodeMaxEntries))
	require.NoError(t, err)
	require.Equal(t, uint64(1), page)

	rootData, err := view.Read(root)
	require.NoError(t, err)
	rootNode, err := sle.ParseDirectoryNode(rootData)
	require.NoError(t, err)
	require.Equal(t, uint64(1), rootNode.IndexNext)
	require.Equal(t, uint64(1), rootNode.IndexPrevious)

	// The iterator sees every entry across pages.
	count := 0
	it, _, ok := CdirFirst(view, root)
	for ok {
		count++
		_, ok = it.Next()
	}
	require.Equal(t, sle.DirNodeMaxEntries+1, count)
}

func TestDirRemove_ByHint(t *testing.T) {
	view, root, owner := newDirView()

	for i := 0; i < sle.DirNodeMaxEntries+2; i++ {
		_, err := DirInsert(view, root, owner, itemKey(i))
		require.NoError(t, err)
	}

	// Remove one entry from page 1 via its hint.
	require.True(t, DirRemove(view, root, 1, itemKey(sle.DirNodeMaxEntries), false))

	// Wrong hint fails.
	require.False(t, DirRemove(view, root, 1, itemKey(0), false))

	// Remove the last page-1 entry: the page unlinks and the root points
	// at itself again.
	require.True(t, DirRemove(view, root, 1, itemKey(sle.DirNodeMaxEntries+1), false))
	rootData, err := view.Read(root)
	require.NoError(t, err)
	rootNode, err := sle.ParseDirectoryNode(rootData)
	require.NoError(t, err)
	require.Zero(t, rootNode.IndexNext)
	require.Zero(t, rootNode.IndexPrevious)
}

func TestDirRemove_LastEntryErasesRoot(t *testing.T) {
	view, root, owner := newDirView()

	_, err := DirInsert(view, root, owner, itemKey(1))
	require.NoError(t, err)
	require.True(t, DirRemove(view, root, 0, itemKey(1), false))

	exists, err := view.Exists(root)
	require.NoError(t, err)
	require.False(t, exists)
	require.True(t, DirIsEmpty(view, root))
}

func TestDirRemove_KeepRoot(t *testing.T) {
	view, root, owner := newDirView()

	_, err := DirInsert(view, root, owner, itemKey(1))
	require.NoError(t, err)
	require.True(t, DirRemove(view, root, 0, itemKey(1), true))

	exists, err := view.Exists(root)
	require.NoError(t, err)
	require.True(t, exists, "keepRoot retains the empty root page")
}

func TestDirIter_RemovalOfCurrentEntryIsSafe(t *testing.T) {
	view, root, owner := newDirView()

	const total = 40 // spans two pages
	pages := make(map[[32]byte]uint64, total)
	for i := 0; i < total; i++ {
		page, err := DirInsert(view, root, owner, itemKey(i))
		require.NoError(t, err)
		pages[itemKey(i)] = page
	}

	// Remove every entry while iterating, acting on the current item.
	seen := 0
	it, key, ok := CdirFirst(view, root)
	for ok {
		require.True(t, DirRemove(view, root, pages[key], key, false))
		seen++
		key, ok = it.Next()
	}
	require.Equal(t, total, seen)
	require.True(t, DirIsEmpty(view, root))
}
