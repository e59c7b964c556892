package crypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDFromPublicKey derives the 160-bit account ID from a prefixed
// public key: RIPEMD160(SHA256(pubkey)).
func AccountIDFromPublicKey(pubKey []byte) [20]byte {
	sha := sha256.Sum256(pubKey)
	h := ripemd160.New()
	h.Write(sha[:])
	var id [20]byte
	copy(id[:], h.Sum(nil))
	return id
}
