package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goXahaud/internal/core/ledger/entry"
	crypto "github.com/LeJamon/goXahaud/internal/crypto/common"
)

// Space identifiers for keylet generation.
// These correspond to the LedgerNameSpace enum in rippled.
const (
	spaceAccount    uint16 = 'a' // Account root
	spaceDirNode    uint16 = 'd' // Directory node
	spaceRippleDir  uint16 = 'r' // Trust line
	spaceOwnerDir   uint16 = 'O' // Owner directory
	spaceEscrow     uint16 = 'u' // Escrow / payment channel
	spaceFees       uint16 = 'e' // Fee settings (singleton)
	spaceAmendments uint16 = 'f' // Amendments (singleton)
	spaceDepPreauth uint16 = 'p' // Deposit preauthorization
	spaceHook       uint16 = 'H' // Hook
	spaceHookState  uint16 = 'v' // Hook state
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512HalfConcat(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(accountID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// Fees returns the keylet for the singleton fee settings entry.
func Fees() Keylet {
	return Keylet{
		Type: entry.TypeFeeSettings,
		Key:  indexHash(spaceFees),
	}
}

// Amendments returns the keylet for the singleton amendments entry.
func Amendments() Keylet {
	return Keylet{
		Type: entry.TypeAmendments,
		Key:  indexHash(spaceAmendments),
	}
}

// OwnerDir returns the keylet for the root page of an owner directory.
func OwnerDir(accountID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeDirectoryNode,
		Key:  indexHash(spaceOwnerDir, accountID[:]),
	}
}

// DirPage returns the keylet for a specific page of a directory whose root
// key is rootKey. Page 0 is the root itself.
func DirPage(rootKey [32]byte, page uint64) Keylet {
	if page == 0 {
		return Keylet{
			Type: entry.TypeDirectoryNode,
			Key:  rootKey,
		}
	}
	pageBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(pageBytes, page)
	return Keylet{
		Type: entry.TypeDirectoryNode,
		Key:  indexHash(spaceDirNode, rootKey[:], pageBytes),
	}
}

// PayChannel returns the keylet for a payment channel.
func PayChannel(srcAccountID, dstAccountID [20]byte, sequence uint32) Keylet {
	seqBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(seqBytes, sequence)
	return Keylet{
		Type: entry.TypePayChannel,
		Key:  indexHash(spaceEscrow, srcAccountID[:], dstAccountID[:], seqBytes),
	}
}

// Hook returns the keylet for an account's hook entry.
func Hook(accountID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeHook,
		Key:  indexHash(spaceHook, accountID[:]),
	}
}

// HookState returns the keylet for a hook state entry owned by accountID.
func HookState(accountID [20]byte, key [32]byte) Keylet {
	return Keylet{
		Type: entry.TypeHookState,
		Key:  indexHash(spaceHookState, accountID[:], key[:]),
	}
}

// DepositPreauth returns the keylet for a deposit preauthorization entry.
func DepositPreauth(owner, authorized [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeDepositPreauth,
		Key:  indexHash(spaceDepPreauth, owner[:], authorized[:]),
	}
}

// Line returns the keylet for a trust line (RippleState) between two
// accounts. The currency is a 3-character code or a 40-character hex string.
func Line(account1, account2 [20]byte, currency string) Keylet {
	var low, high [20]byte
	if compareAccountIDs(account1, account2) < 0 {
		low, high = account1, account2
	} else {
		low, high = account2, account1
	}

	currencyBytes := currencyToBytes(currency)

	return Keylet{
		Type: entry.TypeRippleState,
		Key:  indexHash(spaceRippleDir, low[:], high[:], currencyBytes[:]),
	}
}

// FromHash constructs a keylet addressing a raw 256-bit key whose type is
// checked by the caller (e.g. a channel ID supplied in a transaction).
func FromHash(key [32]byte) Keylet {
	return Keylet{Type: entry.TypeAny, Key: key}
}

// compareAccountIDs compares two account IDs lexicographically.
func compareAccountIDs(a, b [20]byte) int {
	for i := 0; i < 20; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// currencyToBytes converts a currency code to its 20-byte representation.
// Standard 3-character codes are placed at bytes 12-14; hex strings are
// decoded directly.
func currencyToBytes(currency string) [20]byte {
	var result [20]byte

	if len(currency) == 3 {
		result[12] = currency[0]
		result[13] = currency[1]
		result[14] = currency[2]
	} else if len(currency) == 40 {
		for i := 0; i < 20; i++ {
			result[i] = hexToByte(currency[i*2], currency[i*2+1])
		}
	}

	return result
}

func hexToByte(high, low byte) byte {
	return hexNibble(high)<<4 | hexNibble(low)
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
