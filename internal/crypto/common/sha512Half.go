package crypto

import "crypto/sha512"

// Returns the first 32 bytes of a sha512 hash of a message
func Sha512Half(msg []byte) [32]byte {
	h := sha512.Sum512(msg)
	var result [32]byte
	copy(result[:], h[:32])
	return result
}

// Sha512HalfConcat hashes the concatenation of the given byte slices and
// returns the first 32 bytes. Used for keylet derivation where the input is
// a space prefix followed by the keylet components.
func Sha512HalfConcat(parts ...[]byte) [32]byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	sum := h.Sum(nil)
	var result [32]byte
	copy(result[:], sum[:32])
	return result
}
