package hooks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXahaud/internal/core/hooks"
	testwasm "github.com/LeJamon/goXahaud/internal/testing/wasm"
)

type mapState map[[32]byte][]byte

func (m mapState) GetHookState(key [32]byte) ([]byte, bool) {
	data, ok := m[key]
	return data, ok
}

func stateKey(b byte) [32]byte {
	var k [32]byte
	k[0] = b
	return k
}

func TestRuntime_AcceptCommitsChanges(t *testing.T) {
	key := stateKey(0x01)
	payload := []byte("sixteen byte val")

	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.SetStateAcceptModule(key, payload),
		MaxStateSize: 128,
	})
	require.NoError(t, err)
	require.Equal(t, hooks.ExitAccept, result.ExitType)

	keys := result.Changes.ModifiedKeys()
	require.Len(t, keys, 1)
	require.Equal(t, key, keys[0])
	data, ok := result.Changes.Get(key)
	require.True(t, ok)
	require.Equal(t, payload, data)
}

func TestRuntime_RejectDiscardsChanges(t *testing.T) {
	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.RejectModule(),
		MaxStateSize: 128,
	})
	require.NoError(t, err)
	require.Equal(t, hooks.ExitReject, result.ExitType)
	require.Zero(t, result.Changes.Len())
}

func TestRuntime_RollbackExplicit(t *testing.T) {
	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.RollbackModule(),
		MaxStateSize: 128,
	})
	require.NoError(t, err)
	require.Equal(t, hooks.ExitRollback, result.ExitType)
}

func TestRuntime_ReturnWithoutExitIsRollback(t *testing.T) {
	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.ReturnOnlyModule(),
		MaxStateSize: 128,
	})
	require.NoError(t, err)
	require.Equal(t, hooks.ExitRollback, result.ExitType)
	require.Zero(t, result.Changes.Len())
}

func TestRuntime_BadImportIsMalformed(t *testing.T) {
	err := hooks.NewRuntime().ValidateCode(testwasm.BadImportModule())
	require.ErrorIs(t, err, hooks.ErrMalformed)

	err = hooks.NewRuntime().ValidateCode([]byte{0xde, 0xad})
	require.ErrorIs(t, err, hooks.ErrMalformed)
}

func TestRuntime_GetStateFromLedger(t *testing.T) {
	key := stateKey(0x07)
	ledgerData := []byte("hello from disk!")

	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.GetStateAcceptModule(key),
		MaxStateSize: 128,
		State:        mapState{key: ledgerData},
	})
	require.NoError(t, err)
	require.Equal(t, hooks.ExitAccept, result.ExitType)
	// The exit code carries get_state's return: the copied length.
	require.Equal(t, int64(len(ledgerData)), result.ExitCode)
}

func TestRuntime_GetStateMissing(t *testing.T) {
	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.GetStateAcceptModule(stateKey(0x08)),
		MaxStateSize: 128,
		State:        mapState{},
	})
	require.NoError(t, err)
	require.Equal(t, hooks.CodeDoesntExist, result.ExitCode)
}

func TestRuntime_SetStateTooBigIsRefused(t *testing.T) {
	big := make([]byte, 64)
	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.SetStateAcceptModule(stateKey(0x09), big),
		MaxStateSize: 32,
	})
	require.NoError(t, err)
	// The guest ignored TOO_BIG and accepted, but nothing was staged.
	require.Equal(t, hooks.ExitAccept, result.ExitType)
	require.Zero(t, result.Changes.Len())
}

func TestRuntime_FuelExhaustionRollsBack(t *testing.T) {
	result, err := hooks.NewRuntime().Execute(hooks.Params{
		Code:         testwasm.BurnForeverModule(),
		MaxStateSize: 128,
		Fuel:         4096,
	})
	require.NoError(t, err)
	require.Equal(t, hooks.ExitRollback, result.ExitType)
	require.Equal(t, "fuel exhausted", result.Reason)
	require.Zero(t, result.Changes.Len())
}

func TestChangeBuffer_ModifiedKeysSorted(t *testing.T) {
	buf := hooks.NewChangeBuffer()
	buf.Set(stateKey(0x03), []byte("c"))
	buf.Set(stateKey(0x01), []byte("a"))
	buf.Cache(stateKey(0x02), []byte("cached"))
	buf.Set(stateKey(0x04), []byte("d"))

	keys := buf.ModifiedKeys()
	require.Len(t, keys, 3, "cached entries are not committed")
	require.Equal(t, stateKey(0x01), keys[0])
	require.Equal(t, stateKey(0x03), keys[1])
	require.Equal(t, stateKey(0x04), keys[2])
}

func TestChangeBuffer_SetThenGet(t *testing.T) {
	buf := hooks.NewChangeBuffer()
	key := stateKey(0x0a)
	buf.Set(key, []byte("value"))

	data, ok := buf.Get(key)
	require.True(t, ok)
	require.Equal(t, []byte("value"), data)

	// An empty write stages a deletion but still serves reads.
	buf.Set(key, nil)
	data, ok = buf.Get(key)
	require.True(t, ok)
	require.Empty(t, data)
}
