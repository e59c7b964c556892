package sle

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// Amount represents either native XRP (drops, as a decimal integer string)
// or an issued currency amount (decimal value string plus currency/issuer).
type Amount struct {
	Value    string `codec:"value"`
	Currency string `codec:"currency,omitempty"`
	Issuer   string `codec:"issuer,omitempty"`
}

// IOU mantissa/exponent limits, matching the canonical 64-bit issued amount
// representation: mantissa in [1e15, 1e16), exponent in [-96, 80].
const (
	minMantissa uint64 = 1000000000000000
	maxMantissa uint64 = 9999999999999999
	minExponent int    = -96
	maxExponent int    = 80
)

var (
	ErrBadAmountValue    = errors.New("invalid amount value")
	ErrAmountRange       = errors.New("amount out of range")
	ErrIssueMismatch     = errors.New("amounts have different currency or issuer")
)

// NewXRPAmountFromInt creates an XRP amount in drops.
func NewXRPAmountFromInt(drops int64) Amount {
	return Amount{Value: strconv.FormatInt(drops, 10)}
}

// NewIssuedAmount creates an issued currency amount from a decimal value
// string, e.g. NewIssuedAmount("100", "USD", issuerAddress).
func NewIssuedAmount(value, currency, issuer string) Amount {
	return Amount{Value: value, Currency: currency, Issuer: issuer}
}

// IsNative returns true if the amount is XRP.
func (a Amount) IsNative() bool {
	return a.Currency == "" || a.Currency == "XRP"
}

// IsZero returns true for an unset or zero amount.
func (a Amount) IsZero() bool {
	if a.Value == "" {
		return true
	}
	if a.IsNative() {
		return a.Drops() == 0
	}
	_, mant, _, err := parseIOUValue(a.Value)
	return err == nil && mant == 0
}

// Drops returns the XRP amount in drops, or 0 if the value is not parseable.
func (a Amount) Drops() int64 {
	v, err := strconv.ParseInt(a.Value, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	if a.IsNative() {
		return a.Drops() > 0
	}
	neg, mant, _, err := parseIOUValue(a.Value)
	return err == nil && !neg && mant > 0
}

// IsNegative reports whether the amount is strictly less than zero.
func (a Amount) IsNegative() bool {
	if a.IsNative() {
		return a.Drops() < 0
	}
	neg, mant, _, err := parseIOUValue(a.Value)
	return err == nil && neg && mant > 0
}

// SameIssue reports whether two amounts share a currency and issuer.
// Two native amounts always share the XRP issue.
func SameIssue(a, b Amount) bool {
	if a.IsNative() != b.IsNative() {
		return false
	}
	if a.IsNative() {
		return true
	}
	return a.Currency == b.Currency && a.Issuer == b.Issuer
}

// Zeroed returns a zero amount of the same issue.
func (a Amount) Zeroed() Amount {
	return Amount{Value: "0", Currency: a.Currency, Issuer: a.Issuer}
}

// Negate returns the arithmetic negation of the amount.
func (a Amount) Negate() Amount {
	if a.IsNative() {
		return Amount{Value: strconv.FormatInt(-a.Drops(), 10)}
	}
	v := strings.TrimSpace(a.Value)
	if strings.HasPrefix(v, "-") {
		v = v[1:]
	} else if !a.IsZero() {
		v = "-" + v
	}
	return Amount{Value: v, Currency: a.Currency, Issuer: a.Issuer}
}

// Cmp compares two amounts of the same issue: -1 if a < b, 0 if equal,
// 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	if a.IsNative() && b.IsNative() {
		ad, bd := a.Drops(), b.Drops()
		switch {
		case ad < bd:
			return -1
		case ad > bd:
			return 1
		default:
			return 0
		}
	}
	return new(big.Int).Sub(a.scaled(), b.scaled()).Sign()
}

// Add returns a + b for amounts of the same issue.
func (a Amount) Add(b Amount) Amount {
	if a.IsNative() && b.IsNative() {
		return NewXRPAmountFromInt(a.Drops() + b.Drops())
	}
	return iouFromScaled(new(big.Int).Add(a.scaled(), b.scaled()), a.Currency, a.Issuer)
}

// Sub returns a - b for amounts of the same issue.
func (a Amount) Sub(b Amount) Amount {
	if a.IsNative() && b.IsNative() {
		return NewXRPAmountFromInt(a.Drops() - b.Drops())
	}
	return iouFromScaled(new(big.Int).Sub(a.scaled(), b.scaled()), a.Currency, a.Issuer)
}

// scaledExponent is the fixed exponent used for exact big-integer IOU
// arithmetic. All finite IOU values scale into it without loss.
const scaledExponent = minExponent - 16

// scaled returns the IOU value as value * 10^-scaledExponent.
func (a Amount) scaled() *big.Int {
	neg, mant, exp, err := parseIOUValue(a.Value)
	if err != nil || mant == 0 {
		return new(big.Int)
	}
	v := new(big.Int).SetUint64(mant)
	shift := exp - scaledExponent
	v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil))
	if neg {
		v.Neg(v)
	}
	return v
}

// iouFromScaled renormalizes a scaled big integer back into a decimal
// value string.
func iouFromScaled(v *big.Int, currency, issuer string) Amount {
	if v.Sign() == 0 {
		return Amount{Value: "0", Currency: currency, Issuer: issuer}
	}
	neg := v.Sign() < 0
	abs := new(big.Int).Abs(v)

	digits := abs.String()
	exp := scaledExponent
	// Truncate to 16 significant digits, shifting the exponent.
	if len(digits) > 16 {
		exp += len(digits) - 16
		digits = digits[:16]
	}
	mant, _ := strconv.ParseUint(digits, 10, 64)
	for mant != 0 && mant < minMantissa {
		mant *= 10
		exp--
	}
	return Amount{Value: formatIOUValue(neg, mant, exp), Currency: currency, Issuer: issuer}
}

// parseIOUValue parses a decimal value string into a normalized
// (sign, mantissa, exponent) triple with mantissa in [1e15, 1e16) or zero.
func parseIOUValue(s string) (neg bool, mant uint64, exp int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, 0, 0, ErrBadAmountValue
	}
	if s[0] == '-' {
		neg = true
		s = s[1:]
	} else if s[0] == '+' {
		s = s[1:]
	}

	// Split exponent part.
	expPart := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		expPart, err = strconv.Atoi(s[i+1:])
		if err != nil {
			return false, 0, 0, ErrBadAmountValue
		}
		s = s[:i]
	}

	// Remove the decimal point, adjusting the exponent.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		expPart -= len(frac)
		s = s[:i] + frac
	}
	if s == "" {
		return false, 0, 0, ErrBadAmountValue
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false, 0, 0, ErrBadAmountValue
		}
	}

	s = strings.TrimLeft(s, "0")
	if s == "" {
		return false, 0, 0, nil // zero
	}

	// Keep at most 16 significant digits.
	if len(s) > 16 {
		expPart += len(s) - 16
		s = s[:16]
	}
	mant, err = strconv.ParseUint(s, 10, 64)
	if err != nil {
		return false, 0, 0, ErrBadAmountValue
	}
	for mant < minMantissa {
		mant *= 10
		expPart--
	}
	if expPart < minExponent || expPart > maxExponent {
		return false, 0, 0, ErrAmountRange
	}
	return neg, mant, expPart, nil
}

// formatIOUValue renders a normalized triple as a plain decimal string.
func formatIOUValue(neg bool, mant uint64, exp int) string {
	if mant == 0 {
		return "0"
	}
	digits := strconv.FormatUint(mant, 10)
	// Strip trailing zeros into the exponent for a minimal rendering.
	for len(digits) > 1 && digits[len(digits)-1] == '0' {
		digits = digits[:len(digits)-1]
		exp++
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	switch {
	case exp >= 0:
		sb.WriteString(digits)
		sb.WriteString(strings.Repeat("0", exp))
	case -exp < len(digits):
		sb.WriteString(digits[:len(digits)+exp])
		sb.WriteByte('.')
		sb.WriteString(digits[len(digits)+exp:])
	default:
		sb.WriteString("0.")
		sb.WriteString(strings.Repeat("0", -exp-len(digits)))
		sb.WriteString(digits)
	}
	return sb.String()
}

// CanonicalIssued returns the canonical 64-bit representation of an issued
// amount: bit 63 set (not native), bit 62 the sign (1 = positive), the
// exponent biased by 97 in bits 54-61 and the mantissa in bits 0-53.
func (a Amount) CanonicalIssued() (uint64, error) {
	neg, mant, exp, err := parseIOUValue(a.Value)
	if err != nil {
		return 0, err
	}
	if mant == 0 {
		return 1 << 63, nil
	}
	out := uint64(1) << 63
	if !neg {
		out |= 1 << 62
	}
	out |= uint64(exp+97) << 54
	out |= mant
	return out, nil
}
