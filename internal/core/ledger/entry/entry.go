// Package entry defines the ledger entry type identifiers.
package entry

// Type identifies the kind of a ledger entry.
type Type uint16

const (
	TypeAccountRoot   Type = 0x0061 // 'a'
	TypeDirectoryNode Type = 0x0064 // 'd'
	TypeRippleState   Type = 0x0072 // 'r'
	TypePayChannel    Type = 0x0078 // 'x'
	TypeHook          Type = 0x0048 // 'H'
	TypeHookState     Type = 0x0076 // 'v'
	TypeDepositPreauth Type = 0x0070 // 'p'
	TypeFeeSettings   Type = 0x0073 // 's'
	TypeAmendments    Type = 0x0066 // 'f'

	// TypeAny matches any entry type when constructing a keylet from a raw
	// 256-bit key (e.g. a channel ID supplied in a transaction).
	TypeAny Type = 0
)

// String returns the canonical name of the entry type.
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeDirectoryNode:
		return "DirectoryNode"
	case TypeRippleState:
		return "RippleState"
	case TypePayChannel:
		return "PayChannel"
	case TypeHook:
		return "Hook"
	case TypeHookState:
		return "HookState"
	case TypeDepositPreauth:
		return "DepositPreauth"
	case TypeFeeSettings:
		return "FeeSettings"
	case TypeAmendments:
		return "Amendments"
	default:
		return "Unknown"
	}
}
