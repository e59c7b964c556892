package tx

import (
	"encoding/binary"

	ed25519provider "github.com/LeJamon/goXahaud/internal/crypto/algorithms/ed25519"
	secp256k1provider "github.com/LeJamon/goXahaud/internal/crypto/algorithms/secp256k1"
	"github.com/LeJamon/goXahaud/internal/core/tx/sle"
)

// KeyType identifies the curve a public key belongs to.
type KeyType int

const (
	KeyTypeUnknown KeyType = iota
	KeyTypeSecp256k1
	KeyTypeEd25519
)

// PublicKeyType returns the curve of a prefixed public key, or
// KeyTypeUnknown if the key is not recognizable.
func PublicKeyType(publicKey []byte) KeyType {
	if len(publicKey) != 33 {
		return KeyTypeUnknown
	}
	switch publicKey[0] {
	case 0x02, 0x03:
		return KeyTypeSecp256k1
	case 0xED:
		return KeyTypeEd25519
	default:
		return KeyTypeUnknown
	}
}

// claimPrefix starts every channel claim authorization message.
var claimPrefix = []byte{'C', 'L', 'M', 0x00}

// SerializePayChanAuthorization builds the claim authorization message:
// "CLM\0" followed by the 256-bit channel ID and the encoded authorized
// amount. XRP amounts encode as a big-endian 64-bit drops integer; issued
// amounts as the canonical 64-bit value followed by the 160-bit currency
// and the issuer account ID.
func SerializePayChanAuthorization(channelID [32]byte, amount sle.Amount) ([]byte, error) {
	msg := make([]byte, 0, 4+32+8+40)
	msg = append(msg, claimPrefix...)
	msg = append(msg, channelID[:]...)

	if amount.IsNative() {
		var drops [8]byte
		binary.BigEndian.PutUint64(drops[:], uint64(amount.Drops()))
		return append(msg, drops[:]...), nil
	}

	canonical, err := amount.CanonicalIssued()
	if err != nil {
		return nil, err
	}
	var value [8]byte
	binary.BigEndian.PutUint64(value[:], canonical)
	msg = append(msg, value[:]...)

	currency := currencyTo160(amount.Currency)
	msg = append(msg, currency[:]...)

	issuerID, err := sle.DecodeAccountID(amount.Issuer)
	if err != nil {
		return nil, err
	}
	return append(msg, issuerID[:]...), nil
}

// Verify checks a claim signature over msg with the canonical-signature
// requirement always on.
func Verify(publicKey, msg, signature []byte) bool {
	switch PublicKeyType(publicKey) {
	case KeyTypeSecp256k1:
		return secp256k1provider.NewSECP256K1Provider().VerifySignature(msg, publicKey, signature)
	case KeyTypeEd25519:
		return ed25519provider.NewED25519Provider().VerifySignature(msg, publicKey, signature)
	default:
		return false
	}
}

// currencyTo160 expands a currency code into its 160-bit form: standard
// 3-character codes sit at bytes 12-14.
func currencyTo160(currency string) [20]byte {
	var out [20]byte
	if len(currency) == 3 {
		out[12] = currency[0]
		out[13] = currency[1]
		out[14] = currency[2]
	}
	return out
}
