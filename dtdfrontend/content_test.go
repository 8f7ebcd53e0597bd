package dtdfrontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentSpecChildren(t *testing.T) {
	kind, mixed, p, err := parseContentSpec("(a, (b|c)+, d?)")
	require.NoError(t, err)
	assert.Equal(t, ContentChildren, kind)
	assert.Nil(t, mixed)
	require.Len(t, p.Children, 3)

	assert.Equal(t, "a", p.Children[0].Name)
	assert.Equal(t, QuantOne, p.Children[0].Quant)

	nested := p.Children[1]
	assert.Empty(t, nested.Name)
	assert.True(t, nested.Choice)
	assert.Equal(t, QuantPlus, nested.Quant)
	require.Len(t, nested.Children, 2)
	assert.Equal(t, "b", nested.Children[0].Name)
	assert.Equal(t, "c", nested.Children[1].Name)

	assert.Equal(t, "d", p.Children[2].Name)
	assert.Equal(t, QuantOptional, p.Children[2].Quant)
}

func TestParseContentSpecMixed(t *testing.T) {
	kind, mixed, p, err := parseContentSpec("(#PCDATA|a|b)*")
	require.NoError(t, err)
	assert.Equal(t, ContentMixedDTD, kind)
	assert.Nil(t, p)
	assert.Equal(t, []string{"a", "b"}, mixed)
}

func TestParseContentSpecPureText(t *testing.T) {
	kind, mixed, p, err := parseContentSpec("(#PCDATA)")
	require.NoError(t, err)
	assert.Equal(t, ContentMixedDTD, kind)
	assert.Nil(t, p)
	assert.Empty(t, mixed)
}

func TestParseContentSpecRejectsMixedSeparators(t *testing.T) {
	_, _, _, err := parseContentSpec("(a,b|c)")
	assert.Error(t, err)
}

func TestParseContentSpecRejectsTrailingGarbage(t *testing.T) {
	_, _, _, err := parseContentSpec("(a,b) extra")
	assert.Error(t, err)
}
