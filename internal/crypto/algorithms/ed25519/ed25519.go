package ed25519

import (
	"crypto/ed25519"
)

// PrefixED25519 identifies ED25519 public keys on the ledger (0xED followed
// by the 32-byte key).
const PrefixED25519 byte = 0xED

// ED25519SignatureProvider implements signature verification using the
// ED25519 algorithm. ED25519 signs the full message, not a digest.
type ED25519SignatureProvider struct{}

func NewED25519Provider() *ED25519SignatureProvider {
	return &ED25519SignatureProvider{}
}

// VerifySignature verifies an ED25519 signature over message. The public key
// must be the 33-byte prefixed form (0xED + 32 bytes).
func (p *ED25519SignatureProvider) VerifySignature(message, publicKey, signature []byte) bool {
	if len(publicKey) != 33 || publicKey[0] != PrefixED25519 {
		return false
	}
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey[1:]), message, signature)
}
