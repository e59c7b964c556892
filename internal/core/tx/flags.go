package tx

// Universal transaction flags.
const (
	// TfFullyCanonicalSig requires a fully canonical signature.
	TfFullyCanonicalSig uint32 = 0x80000000

	// TfUniversal is the set of flags valid on every transaction type.
	TfUniversal uint32 = TfFullyCanonicalSig

	// TfUniversalMask is every bit outside the universal set.
	TfUniversalMask uint32 = ^TfUniversal
)
