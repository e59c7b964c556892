package tx

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
	crypto "github.com/LeJamon/goXahaud/internal/crypto/common"
)

func TestSerializePayChanAuthorization_XRP(t *testing.T) {
	var channelID [32]byte
	channelID[0] = 0xab

	msg, err := SerializePayChanAuthorization(channelID, NewXRPAmount(40_000))
	require.NoError(t, err)

	require.Equal(t, []byte{'C', 'L', 'M', 0x00}, msg[:4])
	require.Equal(t, channelID[:], msg[4:36])
	require.Equal(t, uint64(40_000), binary.BigEndian.Uint64(msg[36:44]))
	require.Len(t, msg, 44)
}

func TestSerializePayChanAuthorization_IOU(t *testing.T) {
	var channelID [32]byte
	channelID[31] = 0x01

	issuer := NewAccountForTest(t)
	msg, err := SerializePayChanAuthorization(channelID, NewIssuedAmount("100", "USD", issuer))
	require.NoError(t, err)

	// prefix + channel + value + currency + issuer
	require.Len(t, msg, 4+32+8+20+20)
	// The currency code sits at bytes 12-14 of its 160-bit form.
	currency := msg[44:64]
	require.Equal(t, byte('U'), currency[12])
	require.Equal(t, byte('S'), currency[13])
	require.Equal(t, byte('D'), currency[14])
}

// NewAccountForTest returns a valid classic address for test issuers.
func NewAccountForTest(t *testing.T) string {
	t.Helper()
	var id [20]byte
	id[0] = 0x99
	address, err := sle.EncodeAccountID(id)
	require.NoError(t, err)
	return address
}

func TestVerify_Secp256k1RoundTrip(t *testing.T) {
	seed := crypto.Sha512Half([]byte("signature-test"))
	priv, pub := btcec.PrivKeyFromBytes(seed[:])
	pubBytes := pub.SerializeCompressed()

	var channelID [32]byte
	msg, err := SerializePayChanAuthorization(channelID, NewXRPAmount(1000))
	require.NoError(t, err)

	digest := crypto.Sha512Half(msg)
	sig := btcecdsa.Sign(priv, digest[:]).Serialize()

	require.Equal(t, KeyTypeSecp256k1, PublicKeyType(pubBytes))
	require.True(t, Verify(pubBytes, msg, sig))

	// A flipped byte breaks verification.
	bad := append([]byte(nil), msg...)
	bad[10] ^= 0x01
	require.False(t, Verify(pubBytes, bad, sig))
}

func TestVerify_Ed25519RoundTrip(t *testing.T) {
	seed := crypto.Sha512Half([]byte("ed25519-test"))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	prefixed := append([]byte{0xED}, pub...)

	var channelID [32]byte
	msg, err := SerializePayChanAuthorization(channelID, NewXRPAmount(1000))
	require.NoError(t, err)

	sig := ed25519.Sign(priv, msg)

	require.Equal(t, KeyTypeEd25519, PublicKeyType(prefixed))
	require.True(t, Verify(prefixed, msg, sig))
	require.False(t, Verify(prefixed, msg[:len(msg)-1], sig))
}

func TestPublicKeyType_Unknown(t *testing.T) {
	require.Equal(t, KeyTypeUnknown, PublicKeyType(nil))
	require.Equal(t, KeyTypeUnknown, PublicKeyType(make([]byte, 33)))
	require.Equal(t, KeyTypeUnknown, PublicKeyType(make([]byte, 20)))
}
