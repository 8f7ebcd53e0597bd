// Package xmlvalue implements the arbitrary-precision numeric and
// date/time value types used as XSD's built-in datatypes: integer,
// decimal, date, time, dateTime, and the three duration flavors.
//
// Every type here is immutable and exposes a lexical round-trip
// property: Parse(Format(v)) == v for any v obtained from Parse. Parsing
// rejects out-of-range components rather than silently clamping them.
//
// The unbounded-magnitude storage underneath Integer and Decimal is
// math/big.Int. No arbitrary-precision decimal library appears anywhere
// in this project's reference corpus, and big.Int is the standard
// library's own answer to "unbounded integer arithmetic" -- reimplementing
// limb storage by hand here would just be a worse copy of math/big.
package xmlvalue

import (
	"fmt"
	"math/big"
)

// Integer is an arbitrary-precision, arbitrary-sign integer value, as
// used by xsd:integer and its restricted subtypes.
type Integer struct {
	v *big.Int
}

// ZeroInteger is the additive identity.
var ZeroInteger = Integer{v: big.NewInt(0)}

// NewIntegerFromInt64 builds an Integer from a native int64.
func NewIntegerFromInt64(n int64) Integer {
	return Integer{v: big.NewInt(n)}
}

// ParseInteger parses the canonical lexical form of xsd:integer: an
// optional sign followed by one or more decimal digits.
func ParseInteger(s string) (Integer, error) {
	if s == "" {
		return Integer{}, fmt.Errorf("xmlvalue: empty integer")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, fmt.Errorf("xmlvalue: invalid integer %q", s)
	}
	return Integer{v: v}, nil
}

func (i Integer) big() *big.Int {
	if i.v == nil {
		return big.NewInt(0)
	}
	return i.v
}

// String renders the canonical lexical form.
func (i Integer) String() string {
	return i.big().String()
}

// IsZero reports whether the value is exactly zero.
func (i Integer) IsZero() bool {
	return i.big().Sign() == 0
}

// Sign returns -1, 0, or 1.
func (i Integer) Sign() int {
	return i.big().Sign()
}

// Cmp returns -1, 0, or 1 per the usual comparison contract.
func (i Integer) Cmp(other Integer) int {
	return i.big().Cmp(other.big())
}

// Add returns i + other.
func (i Integer) Add(other Integer) Integer {
	return Integer{v: new(big.Int).Add(i.big(), other.big())}
}

// Sub returns i - other.
func (i Integer) Sub(other Integer) Integer {
	return Integer{v: new(big.Int).Sub(i.big(), other.big())}
}

// Mul returns i * other.
func (i Integer) Mul(other Integer) Integer {
	return Integer{v: new(big.Int).Mul(i.big(), other.big())}
}

// Div returns the truncated quotient i / other. It panics if other is
// zero, mirroring math/big's own division contract.
func (i Integer) Div(other Integer) Integer {
	return Integer{v: new(big.Int).Quo(i.big(), other.big())}
}

// Mod returns the truncated remainder of i / other.
func (i Integer) Mod(other Integer) Integer {
	return Integer{v: new(big.Int).Rem(i.big(), other.big())}
}

// Int64 returns the value truncated to an int64, along with whether the
// conversion was exact.
func (i Integer) Int64() (int64, bool) {
	return i.big().Int64(), i.big().IsInt64()
}
