package paychan

import (
	"encoding/hex"
	"strings"
	gotesting "testing"

	"github.com/LeJamon/goXahaud/internal/core/ledger/keylet"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
	"github.com/LeJamon/goXahaud/internal/testing"
)

// ChannelKey returns the keylet key of the channel a create transaction
// with the given sequence produces.
func ChannelKey(owner, dst *testing.Account, sequence uint32) [32]byte {
	return keylet.PayChannel(owner.ID, dst.ID, sequence).Key
}

// ChannelID renders a channel key the way transactions carry it.
func ChannelID(key [32]byte) string {
	return strings.ToUpper(hex.EncodeToString(key[:]))
}

// ReadChannel loads a channel entry from the environment's ledger, or nil
// if it does not exist.
func ReadChannel(t *gotesting.T, env *testing.Env, key [32]byte) *sle.PayChannel {
	t.Helper()
	data, ok := env.Ledger.Get(key)
	if !ok {
		return nil
	}
	channel, err := sle.ParsePayChannel(data)
	if err != nil {
		t.Fatalf("failed to parse channel: %v", err)
	}
	return channel
}
