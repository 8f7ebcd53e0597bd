package xpathexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateValueComparison(t *testing.T) {
	got, ok := Translate("$value > 0", "value")
	assert.True(t, ok)
	assert.Equal(t, "(value > 0)", got)
}

func TestTranslateEqualityMapsToGoEquals(t *testing.T) {
	got, ok := Translate("@status = 'active'", "value.")
	assert.True(t, ok)
	assert.Equal(t, `(value.status == "active")`, got)
}

func TestTranslateAndOr(t *testing.T) {
	got, ok := Translate("@a = 1 and @b = 2 or @c = 3", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(((value.a == 1) && (value.b == 2)) || (value.c == 3))", got)
}

func TestTranslateNot(t *testing.T) {
	got, ok := Translate("not(@a = 1)", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(!(value.a == 1))", got)
}

func TestTranslateParenthesized(t *testing.T) {
	got, ok := Translate("(@a = 1 or @b = 2) and @c = 3", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(((value.a == 1) || (value.b == 2)) && (value.c == 3))", got)
}

func TestTranslateFieldReference(t *testing.T) {
	got, ok := Translate("price", "value.")
	assert.True(t, ok)
	assert.Equal(t, "value.price", got)
}

func TestTranslatePath(t *testing.T) {
	got, ok := Translate("a/b/c", "value.")
	assert.True(t, ok)
	assert.Equal(t, "value.a.b.c", got)
}

func TestTranslateCount(t *testing.T) {
	got, ok := Translate("count(items) > 0", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(len(value.items) > 0)", got)
}

func TestTranslateStringLength(t *testing.T) {
	got, ok := Translate("string-length(@name) != 0", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(len(value.name) != 0)", got)
}

func TestTranslateContains(t *testing.T) {
	got, ok := Translate(`contains(@name, "x")`, "value.")
	assert.True(t, ok)
	assert.Equal(t, `strings.Contains(value.name, "x")`, got)
}

func TestTranslateStartsWith(t *testing.T) {
	got, ok := Translate(`starts-with(@code, 'AB')`, "value.")
	assert.True(t, ok)
	assert.Equal(t, `strings.HasPrefix(value.code, "AB")`, got)
}

func TestTranslateTrueFalseLiterals(t *testing.T) {
	got, ok := Translate("true() or false()", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(true || false)", got)
}

func TestTranslateNumberLiteral(t *testing.T) {
	got, ok := Translate("@price >= 1.5", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(value.price >= 1.5)", got)
}

func TestTranslateComparisonOperators(t *testing.T) {
	cases := map[string]string{
		"@a >= 1": "(value.a >= 1)",
		"@a <= 1": "(value.a <= 1)",
		"@a != 1": "(value.a != 1)",
		"@a > 1":  "(value.a > 1)",
		"@a < 1":  "(value.a < 1)",
	}
	for in, want := range cases {
		got, ok := Translate(in, "value.")
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestTranslateFunctionCallRejectsUnknownName(t *testing.T) {
	_, ok := Translate("local-name(@a) = 'x'", "value.")
	assert.False(t, ok)
}

func TestTranslateFunctionCallRejectsWrongArity(t *testing.T) {
	_, ok := Translate("contains(@a)", "value.")
	assert.False(t, ok)
}

func TestTranslateRejectsNamespacePrefixedName(t *testing.T) {
	_, ok := Translate("foo:bar = 1", "value.")
	assert.False(t, ok)
}

func TestTranslateRejectsPredicate(t *testing.T) {
	_, ok := Translate("items[1] = 1", "value.")
	assert.False(t, ok)
}

func TestTranslateRejectsTrailingJunk(t *testing.T) {
	_, ok := Translate("@a = 1 )", "value.")
	assert.False(t, ok)
}

func TestTranslateRejectsEmptyExpression(t *testing.T) {
	_, ok := Translate("", "value.")
	assert.False(t, ok)
}

func TestTranslateRejectsUnterminatedString(t *testing.T) {
	_, ok := Translate(`@a = "unterminated`, "value.")
	assert.False(t, ok)
}

func TestTranslateOnlyDollarValueSupportedAfterDollar(t *testing.T) {
	_, ok := Translate("$other = 1", "value.")
	assert.False(t, ok)
}

func TestTranslateNestedFunctionInArgument(t *testing.T) {
	got, ok := Translate("count(a) > string-length(@b)", "value.")
	assert.True(t, ok)
	assert.Equal(t, "(len(value.a) > len(value.b))", got)
}
