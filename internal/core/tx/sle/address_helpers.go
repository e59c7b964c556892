package sle

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"math/big"
)

// The base58 dictionary used for classic addresses.
const addressAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// Classic addresses carry a one-byte account prefix before the 160-bit ID.
const accountAddressPrefix byte = 0x00

var (
	ErrInvalidAddress  = errors.New("invalid classic address")
	ErrInvalidChecksum = errors.New("invalid address checksum")
)

// EncodeAccountID encodes a 160-bit account ID as a classic address.
func EncodeAccountID(accountID [20]byte) (string, error) {
	payload := make([]byte, 0, 25)
	payload = append(payload, accountAddressPrefix)
	payload = append(payload, accountID[:]...)
	check := checksum(payload)
	payload = append(payload, check[:]...)
	return base58Encode(payload), nil
}

// DecodeAccountID decodes a classic address into a 160-bit account ID.
func DecodeAccountID(address string) ([20]byte, error) {
	var id [20]byte
	decoded, err := base58Decode(address)
	if err != nil {
		return id, err
	}
	if len(decoded) != 25 || decoded[0] != accountAddressPrefix {
		return id, ErrInvalidAddress
	}
	body, check := decoded[:21], decoded[21:]
	expected := checksum(body)
	if !bytes.Equal(check, expected[:]) {
		return id, ErrInvalidChecksum
	}
	copy(id[:], body[1:])
	return id, nil
}

// checksum is the first four bytes of a double SHA-256.
func checksum(payload []byte) [4]byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	var out [4]byte
	copy(out[:], second[:4])
	return out
}

var base58Radix = big.NewInt(58)

func base58Encode(input []byte) string {
	num := new(big.Int).SetBytes(input)
	mod := new(big.Int)
	var out []byte
	for num.Sign() > 0 {
		num.DivMod(num, base58Radix, mod)
		out = append(out, addressAlphabet[mod.Int64()])
	}
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, addressAlphabet[0])
	}
	// Reverse.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func base58Decode(input string) ([]byte, error) {
	num := new(big.Int)
	for _, c := range []byte(input) {
		idx := bytes.IndexByte([]byte(addressAlphabet), c)
		if idx < 0 {
			return nil, ErrInvalidAddress
		}
		num.Mul(num, base58Radix)
		num.Add(num, big.NewInt(int64(idx)))
	}
	decoded := num.Bytes()
	// Restore leading zero bytes.
	leading := 0
	for i := 0; i < len(input) && input[i] == addressAlphabet[0]; i++ {
		leading++
	}
	out := make([]byte, leading+len(decoded))
	copy(out[leading:], decoded)
	return out, nil
}
