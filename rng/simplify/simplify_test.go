package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xb.dev/xb/rng"
)

func TestSimplifyMixedBecomesInterleaveWithText(t *testing.T) {
	g := &rng.Grammar{Start: &rng.Pattern{Kind: rng.KindMixed, Patterns: []*rng.Pattern{{Kind: rng.KindText}}}}
	out, err := Simplify(g, nil, nil)
	require.NoError(t, err)
	require.Equal(t, rng.KindInterleave, out.Start.Kind)
	require.Len(t, out.Start.Patterns, 2)
	assert.Equal(t, rng.KindText, out.Start.Patterns[1].Kind)
}

func TestSimplifyOptionalBecomesChoiceWithEmpty(t *testing.T) {
	g := &rng.Grammar{Start: &rng.Pattern{Kind: rng.KindOptional, Body: &rng.Pattern{Kind: rng.KindText}}}
	out, err := Simplify(g, nil, nil)
	require.NoError(t, err)
	require.Equal(t, rng.KindChoice, out.Start.Kind)
	require.Len(t, out.Start.Patterns, 2)
	assert.Equal(t, rng.KindText, out.Start.Patterns[0].Kind)
	assert.Equal(t, rng.KindEmpty, out.Start.Patterns[1].Kind)
}

func TestSimplifyZeroOrMoreBecomesChoiceOfOneOrMoreAndEmpty(t *testing.T) {
	g := &rng.Grammar{Start: &rng.Pattern{Kind: rng.KindZeroOrMore, Body: &rng.Pattern{Kind: rng.KindText}}}
	out, err := Simplify(g, nil, nil)
	require.NoError(t, err)
	require.Equal(t, rng.KindChoice, out.Start.Kind)
	require.Len(t, out.Start.Patterns, 2)
	require.Equal(t, rng.KindOneOrMore, out.Start.Patterns[0].Kind)
	assert.Equal(t, rng.KindText, out.Start.Patterns[0].Body.Kind)
	assert.Equal(t, rng.KindEmpty, out.Start.Patterns[1].Kind)
}

func TestSimplifyNotAllowedPropagation(t *testing.T) {
	na := &rng.Pattern{Kind: rng.KindNotAllowed}

	group := &rng.Pattern{Kind: rng.KindGroup, Patterns: []*rng.Pattern{na, {Kind: rng.KindText}}}
	out, err := Simplify(&rng.Grammar{Start: group}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rng.KindNotAllowed, out.Start.Kind)

	oneOrMore := &rng.Pattern{Kind: rng.KindOneOrMore, Body: na}
	out, err = Simplify(&rng.Grammar{Start: oneOrMore}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rng.KindNotAllowed, out.Start.Kind)

	choice := &rng.Pattern{Kind: rng.KindChoice, Patterns: []*rng.Pattern{na, {Kind: rng.KindText}}}
	out, err = Simplify(&rng.Grammar{Start: choice}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rng.KindText, out.Start.Kind)

	attr := &rng.Pattern{Kind: rng.KindAttribute, Patterns: []*rng.Pattern{na}}
	out, err = Simplify(&rng.Grammar{Start: attr}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rng.KindNotAllowed, out.Start.Kind)

	list := &rng.Pattern{Kind: rng.KindList, Body: na}
	out, err = Simplify(&rng.Grammar{Start: list}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rng.KindNotAllowed, out.Start.Kind)
}

func TestSimplifyElementWithNotAllowedBodyIsPreserved(t *testing.T) {
	el := &rng.Pattern{Kind: rng.KindElement, NameClass: rng.NameClass{Kind: rng.NCSpecificName, Name: "x"},
		Patterns: []*rng.Pattern{{Kind: rng.KindNotAllowed}}}
	out, err := Simplify(&rng.Grammar{Start: el}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, rng.KindElement, out.Start.Kind)
	assert.Equal(t, rng.KindNotAllowed, out.Start.Patterns[0].Kind)
}

func defineGrammar(start *rng.Pattern, defs map[string]*rng.Define) *rng.Grammar {
	g := &rng.Grammar{Start: start, Defines: defs}
	for name := range defs {
		g.DefineOrder = append(g.DefineOrder, name)
	}
	return g
}

func TestSimplifyCombineChoiceMergesDefines(t *testing.T) {
	g := defineGrammar(&rng.Pattern{Kind: rng.KindRef, RefName: "x"}, map[string]*rng.Define{
		"x": {
			Name:     "x",
			Combine:  rng.CombineChoice,
			Bodies:   []*rng.Pattern{{Kind: rng.KindText}, {Kind: rng.KindEmpty}},
			Combines: []rng.Combine{rng.CombineChoice, rng.CombineChoice},
		},
	})

	out, err := Simplify(g, nil, nil)
	require.NoError(t, err)
	d := out.Defines["x"]
	require.NotNil(t, d)
	require.Len(t, d.Bodies, 1)
	assert.Equal(t, rng.KindChoice, d.Bodies[0].Kind)
	require.Len(t, d.Bodies[0].Patterns, 2)
}

func TestSimplifyMixedCombineMethodsIsFatal(t *testing.T) {
	g := defineGrammar(&rng.Pattern{Kind: rng.KindRef, RefName: "x"}, map[string]*rng.Define{
		"x": {
			Name:     "x",
			Bodies:   []*rng.Pattern{{Kind: rng.KindText}, {Kind: rng.KindEmpty}},
			Combines: []rng.Combine{rng.CombineChoice, rng.CombineInterleave},
		},
	})

	_, err := Simplify(g, nil, nil)
	require.Error(t, err)
	var combineErr *CombineError
	require.ErrorAs(t, err, &combineErr)
}

func TestSimplifyEliminatesUnreachableDefines(t *testing.T) {
	g := defineGrammar(&rng.Pattern{Kind: rng.KindRef, RefName: "used"}, map[string]*rng.Define{
		"used":   {Name: "used", Bodies: []*rng.Pattern{{Kind: rng.KindText}}, Combines: []rng.Combine{rng.CombineNone}},
		"unused": {Name: "unused", Bodies: []*rng.Pattern{{Kind: rng.KindEmpty}}, Combines: []rng.Combine{rng.CombineNone}},
	})

	out, err := Simplify(g, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, out.Defines, "used")
	assert.NotContains(t, out.Defines, "unused")
}
