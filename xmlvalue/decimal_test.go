package xmlvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalRoundTrip(t *testing.T) {
	tests := []string{
		"0.0", "1.0", "-1.0", "3.14", "100.0", "0.001", "-0.5",
		"12345678901234567890.123456789",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDecimal(in)
			require.NoError(t, err)
			d2, err := ParseDecimal(d.String())
			require.NoError(t, err)
			assert.True(t, d.Equal(d2))
		})
	}
}

func TestDecimalNormalizesTrailingZeros(t *testing.T) {
	a, err := ParseDecimal("1.00")
	require.NoError(t, err)
	b, err := ParseDecimal("1.0")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, "1.0", a.String())
}

func TestDecimalArithmetic(t *testing.T) {
	a, _ := ParseDecimal("1.1")
	b, _ := ParseDecimal("2.25")
	sum := a.Add(b)
	want, _ := ParseDecimal("3.35")
	assert.True(t, sum.Equal(want), "got %s", sum)

	diff := b.Sub(a)
	wantDiff, _ := ParseDecimal("1.15")
	assert.True(t, diff.Equal(wantDiff), "got %s", diff)

	prod := a.Mul(b)
	wantProd, _ := ParseDecimal("2.475")
	assert.True(t, prod.Equal(wantProd), "got %s", prod)
}

func TestDecimalRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "1.2.3", "abc", "."} {
		_, err := ParseDecimal(in)
		assert.Error(t, err, in)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	a, err := ParseInteger("123456789012345678901234567890")
	require.NoError(t, err)
	b := NewIntegerFromInt64(2)
	sum := a.Add(b)
	assert.Equal(t, "123456789012345678901234567892", sum.String())
}
