package xmlvalue

import (
	"fmt"
	"math/big"
	"strings"
)

// decimalPrecision is the number of significant digits Div truncates
// its quotient to, per spec.md section 4.2.
const decimalPrecision = 28

// Decimal is an arbitrary-precision decimal: significand * 10^exponent,
// normalized so the significand is never divisible by ten unless it is
// exactly zero (in which case exponent is also normalized to zero).
type Decimal struct {
	Significand Integer
	Exponent    int
}

// ParseDecimal parses the canonical lexical form of xsd:decimal: an
// optional sign, digits, an optional '.', and more digits, with at least
// one digit present overall.
func ParseDecimal(s string) (Decimal, error) {
	if s == "" {
		return Decimal{}, fmt.Errorf("xmlvalue: empty decimal")
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		sig, err := ParseInteger(s)
		if err != nil {
			return Decimal{}, fmt.Errorf("xmlvalue: invalid decimal %q: %w", s, err)
		}
		return normalizeDecimal(sig, 0), nil
	}
	if strings.IndexByte(s[dot+1:], '.') >= 0 {
		return Decimal{}, fmt.Errorf("xmlvalue: multiple decimal points in %q", s)
	}
	before, after := s[:dot], s[dot+1:]
	negative := false
	trimmed := before
	if trimmed != "" && (trimmed[0] == '-' || trimmed[0] == '+') {
		negative = trimmed[0] == '-'
		trimmed = trimmed[1:]
	}
	if trimmed == "" && after == "" {
		return Decimal{}, fmt.Errorf("xmlvalue: no digits in %q", s)
	}
	for _, c := range trimmed + after {
		if c < '0' || c > '9' {
			return Decimal{}, fmt.Errorf("xmlvalue: invalid character in %q", s)
		}
	}
	digits := trimmed + after
	if digits == "" {
		return Decimal{}, fmt.Errorf("xmlvalue: no digits in %q", s)
	}
	sigStr := digits
	if negative {
		sigStr = "-" + digits
	}
	sig, err := ParseInteger(sigStr)
	if err != nil {
		return Decimal{}, fmt.Errorf("xmlvalue: invalid decimal %q: %w", s, err)
	}
	return normalizeDecimal(sig, -len(after)), nil
}

func normalizeDecimal(sig Integer, exp int) Decimal {
	if sig.IsZero() {
		return Decimal{Significand: ZeroInteger, Exponent: 0}
	}
	ten := NewIntegerFromInt64(10)
	for !sig.IsZero() {
		rem := sig.Mod(ten)
		if !rem.IsZero() {
			break
		}
		sig = sig.Div(ten)
		exp++
	}
	return Decimal{Significand: sig, Exponent: exp}
}

// String renders the canonical lexical form, always including a decimal
// point (e.g. "3.0", not "3").
func (d Decimal) String() string {
	if d.Significand.IsZero() {
		return "0.0"
	}
	digits := d.Significand.big().String()
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	sign := ""
	if negative {
		sign = "-"
	}
	if d.Exponent >= 0 {
		return sign + digits + strings.Repeat("0", d.Exponent) + ".0"
	}
	places := -d.Exponent
	if len(digits) <= places {
		return sign + "0." + strings.Repeat("0", places-len(digits)) + digits
	}
	intPart := digits[:len(digits)-places]
	fracPart := digits[len(digits)-places:]
	return sign + intPart + "." + fracPart
}

// IsZero reports whether the value is exactly zero.
func (d Decimal) IsZero() bool {
	return d.Significand.IsZero()
}

func pow10(n int) Integer {
	result := NewIntegerFromInt64(1)
	ten := NewIntegerFromInt64(10)
	for i := 0; i < n; i++ {
		result = result.Mul(ten)
	}
	return result
}

// align brings a and b to a common (the smaller) exponent.
func align(a, b Decimal) (sigA, sigB Integer, exp int) {
	if a.Exponent == b.Exponent {
		return a.Significand, b.Significand, a.Exponent
	}
	if a.Exponent < b.Exponent {
		return a.Significand, b.Significand.Mul(pow10(b.Exponent - a.Exponent)), a.Exponent
	}
	return a.Significand.Mul(pow10(a.Exponent - b.Exponent)), b.Significand, b.Exponent
}

// Add returns d + other.
func (d Decimal) Add(other Decimal) Decimal {
	sigA, sigB, exp := align(d, other)
	return normalizeDecimal(sigA.Add(sigB), exp)
}

// Sub returns d - other.
func (d Decimal) Sub(other Decimal) Decimal {
	sigA, sigB, exp := align(d, other)
	return normalizeDecimal(sigA.Sub(sigB), exp)
}

// Mul returns d * other.
func (d Decimal) Mul(other Decimal) Decimal {
	return normalizeDecimal(d.Significand.Mul(other.Significand), d.Exponent+other.Exponent)
}

// Div returns d / other, truncated to decimalPrecision significant
// digits. It panics if other is zero.
func (d Decimal) Div(other Decimal) Decimal {
	if other.IsZero() {
		panic("xmlvalue: division by zero")
	}
	// Scale the dividend up so the integer division below retains at
	// least decimalPrecision significant digits, drop any digits beyond
	// that, then fold the scale into the result's exponent.
	scale := decimalPrecision + len(new(big.Int).Abs(other.Significand.big()).String())
	scaledNum := d.Significand.Mul(pow10(scale))
	quotient := scaledNum.Div(other.Significand)
	exp := d.Exponent - other.Exponent - scale
	if extra := len(new(big.Int).Abs(quotient.big()).String()) - decimalPrecision; extra > 0 {
		quotient = quotient.Div(pow10(extra))
		exp += extra
	}
	return normalizeDecimal(quotient, exp)
}

// Cmp returns -1, 0, or 1 after aligning exponents.
func (d Decimal) Cmp(other Decimal) int {
	sigA, sigB, _ := align(d, other)
	return sigA.Cmp(sigB)
}

// Equal reports exact value equality (post-normalization, so "1.0" and
// "1.00" compare equal).
func (d Decimal) Equal(other Decimal) bool {
	return d.Cmp(other) == 0
}
