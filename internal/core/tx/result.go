package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organized by category: tes, tec, tef, tel, tem,
// ter. The numbering follows the protocol's canonical values.
const (
	// tesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec codes (100-199): transaction claimed a fee but performed no other
	// state change.
	TecCLAIM                Result = 100
	TecUNFUNDED_PAYMENT     Result = 104
	TecDIR_FULL             Result = 121
	TecNO_DST               Result = 124
	TecUNFUNDED             Result = 129
	TecNO_AUTH              Result = 134
	TecNO_LINE              Result = 135
	TecFROZEN               Result = 137
	TecNO_TARGET            Result = 138
	TecNO_PERMISSION        Result = 139
	TecNO_ENTRY             Result = 140
	TecINSUFFICIENT_RESERVE Result = 141
	TecDST_TAG_NEEDED       Result = 143
	TecINTERNAL             Result = 144
	TecHOOK_REJECTED        Result = 153

	// tef codes (-199 to -100): failure, not applied.
	TefFAILURE    Result = -199
	TefBAD_LEDGER Result = -195
	TefINTERNAL   Result = -192
	TefPAST_SEQ   Result = -190

	// tel codes (-399 to -300): local error.
	TelLOCAL_ERROR Result = -399
	TelINSUF_FEE_P Result = -394

	// tem codes (-299 to -200): malformed transaction.
	TemMALFORMED           Result = -299
	TemBAD_AMOUNT          Result = -298
	TemBAD_CURRENCY        Result = -297
	TemBAD_EXPIRATION      Result = -296
	TemBAD_FEE             Result = -295
	TemBAD_SIGNATURE       Result = -282
	TemDST_IS_SRC          Result = -279
	TemDST_NEEDED          Result = -278
	TemINVALID             Result = -277
	TemINVALID_FLAG        Result = -276
	TemDISABLED            Result = -273
	TemBAD_SIGNER          Result = -272
	TemHOOK_DATA_TOO_LARGE Result = -262

	// ter codes (-99 to -1): retry later.
	TerRETRY       Result = -99
	TerINSUF_FEE_B Result = -97
	TerNO_ACCOUNT  Result = -96
	TerNO_AUTH     Result = -95
	TerPRE_SEQ     Result = -92
)

// String returns the string representation of the result code
func (r Result) String() string {
	switch r {
	case TesSUCCESS:
		return "tesSUCCESS"
	case TecCLAIM:
		return "tecCLAIM"
	case TecUNFUNDED_PAYMENT:
		return "tecUNFUNDED_PAYMENT"
	case TecDIR_FULL:
		return "tecDIR_FULL"
	case TecNO_DST:
		return "tecNO_DST"
	case TecUNFUNDED:
		return "tecUNFUNDED"
	case TecNO_AUTH:
		return "tecNO_AUTH"
	case TecNO_LINE:
		return "tecNO_LINE"
	case TecFROZEN:
		return "tecFROZEN"
	case TecNO_TARGET:
		return "tecNO_TARGET"
	case TecNO_PERMISSION:
		return "tecNO_PERMISSION"
	case TecNO_ENTRY:
		return "tecNO_ENTRY"
	case TecINSUFFICIENT_RESERVE:
		return "tecINSUFFICIENT_RESERVE"
	case TecDST_TAG_NEEDED:
		return "tecDST_TAG_NEEDED"
	case TecINTERNAL:
		return "tecINTERNAL"
	case TecHOOK_REJECTED:
		return "tecHOOK_REJECTED"
	case TefFAILURE:
		return "tefFAILURE"
	case TefBAD_LEDGER:
		return "tefBAD_LEDGER"
	case TefINTERNAL:
		return "tefINTERNAL"
	case TefPAST_SEQ:
		return "tefPAST_SEQ"
	case TelLOCAL_ERROR:
		return "telLOCAL_ERROR"
	case TelINSUF_FEE_P:
		return "telINSUF_FEE_P"
	case TemMALFORMED:
		return "temMALFORMED"
	case TemBAD_AMOUNT:
		return "temBAD_AMOUNT"
	case TemBAD_CURRENCY:
		return "temBAD_CURRENCY"
	case TemBAD_EXPIRATION:
		return "temBAD_EXPIRATION"
	case TemBAD_FEE:
		return "temBAD_FEE"
	case TemBAD_SIGNATURE:
		return "temBAD_SIGNATURE"
	case TemDST_IS_SRC:
		return "temDST_IS_SRC"
	case TemDST_NEEDED:
		return "temDST_NEEDED"
	case TemINVALID:
		return "temINVALID"
	case TemINVALID_FLAG:
		return "temINVALID_FLAG"
	case TemDISABLED:
		return "temDISABLED"
	case TemBAD_SIGNER:
		return "temBAD_SIGNER"
	case TemHOOK_DATA_TOO_LARGE:
		return "temHOOK_DATA_TOO_LARGE"
	case TerRETRY:
		return "terRETRY"
	case TerINSUF_FEE_B:
		return "terINSUF_FEE_B"
	case TerNO_ACCOUNT:
		return "terNO_ACCOUNT"
	case TerNO_AUTH:
		return "terNO_AUTH"
	case TerPRE_SEQ:
		return "terPRE_SEQ"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (claimed cost) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTel returns true if this is a tel (local error) code
func (r Result) IsTel() bool {
	return r >= -399 && r <= -300
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// ShouldRetry returns true if the transaction should be retried later
func (r Result) ShouldRetry() bool {
	return r.IsTer()
}

// IsApplied returns true if the transaction was applied to the ledger.
// This is true for tesSUCCESS and all tec codes.
func (r Result) IsApplied() bool {
	return r.IsSuccess() || r.IsTec()
}
