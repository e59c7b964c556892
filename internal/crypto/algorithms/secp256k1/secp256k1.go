package secp256k1

import (
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	internalCrypto "github.com/LeJamon/goXahaud/internal/crypto/common"
)

// Common error definitions
var (
	ErrInvalidPublicKey = errors.New("invalid public key format")
	ErrInvalidSignature = errors.New("invalid signature format")
)

// halfOrder is N/2 of the secp256k1 group order, used for the fully
// canonical (low-S) signature check.
var halfOrder = new(big.Int).Rsh(secp256k1.S256().N, 1)

// SECP256K1SignatureProvider implements signature verification using the
// secp256k1 curve. Messages are hashed with SHA-512Half before verification.
type SECP256K1SignatureProvider struct{}

func NewSECP256K1Provider() *SECP256K1SignatureProvider {
	return &SECP256K1SignatureProvider{}
}

// VerifySignature verifies a DER-encoded secp256k1 signature over
// Sha512Half(message). Only fully canonical signatures (strict DER, low S)
// are accepted.
func (p *SECP256K1SignatureProvider) VerifySignature(message, publicKey, signature []byte) bool {
	pk, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}

	r, s, err := parseDERSignature(signature)
	if err != nil {
		return false
	}

	// Enforce fully canonical: S must be in the lower half of the order.
	if s.Cmp(halfOrder) > 0 {
		return false
	}

	var rs, ss secp256k1.ModNScalar
	if overflow := rs.SetByteSlice(r.Bytes()); overflow {
		return false
	}
	if overflow := ss.SetByteSlice(s.Bytes()); overflow {
		return false
	}

	digest := internalCrypto.Sha512Half(message)
	return ecdsa.NewSignature(&rs, &ss).Verify(digest[:], pk)
}

// parseDERSignature extracts (R, S) from a strict DER ECDSA signature:
// SEQUENCE { INTEGER r, INTEGER s }.
func parseDERSignature(sig []byte) (*big.Int, *big.Int, error) {
	if len(sig) < 8 || sig[0] != 0x30 {
		return nil, nil, ErrInvalidSignature
	}
	if int(sig[1]) != len(sig)-2 {
		return nil, nil, ErrInvalidSignature
	}

	r, rest, err := parseDERInteger(sig[2:])
	if err != nil {
		return nil, nil, err
	}
	s, rest, err := parseDERInteger(rest)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) != 0 {
		return nil, nil, ErrInvalidSignature
	}

	n := secp256k1.S256().N
	if r.Sign() <= 0 || s.Sign() <= 0 || r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return nil, nil, ErrInvalidSignature
	}
	return r, s, nil
}

func parseDERInteger(b []byte) (*big.Int, []byte, error) {
	if len(b) < 2 || b[0] != 0x02 {
		return nil, nil, ErrInvalidSignature
	}
	l := int(b[1])
	if l == 0 || len(b) < 2+l {
		return nil, nil, ErrInvalidSignature
	}
	body := b[2 : 2+l]
	// Strict DER: no negative integers, no superfluous leading zero.
	if body[0]&0x80 != 0 {
		return nil, nil, ErrInvalidSignature
	}
	if l > 1 && body[0] == 0x00 && body[1]&0x80 == 0 {
		return nil, nil, ErrInvalidSignature
	}
	return new(big.Int).SetBytes(body), b[2+l:], nil
}
