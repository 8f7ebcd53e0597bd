package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xb.dev/xb/im"
	"xb.dev/xb/rng"
	"xb.dev/xb/rng/simplify"
)

func name(local string) rng.NameClass {
	return rng.NameClass{Kind: rng.NCSpecificName, Name: local}
}

func simplifyOrFail(t *testing.T, g *rng.Grammar) *rng.Grammar {
	t.Helper()
	out, err := simplify.Simplify(g, nil, nil)
	require.NoError(t, err)
	return out
}

func TestToSchemaSimpleElementBecomesTextType(t *testing.T) {
	el := &rng.Pattern{Kind: rng.KindElement, NameClass: name("title"),
		Patterns: []*rng.Pattern{{Kind: rng.KindText}}}
	g := simplifyOrFail(t, &rng.Grammar{Start: el, Defines: map[string]*rng.Define{}})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)

	titleQN := im.QName{Space: "urn:test", Local: "title"}
	require.Contains(t, schema.Elements, titleQN)
	assert.Equal(t, im.QName{Space: "urn:test", Local: "titleType"}, schema.Elements[titleQN].Type)

	ct := schema.ComplexTypes[im.QName{Space: "urn:test", Local: "titleType"}]
	require.NotNil(t, ct)
	assert.Equal(t, im.ContentSimple, ct.Content.Kind)
	assert.Equal(t, im.QName{Space: im.XSDNamespace, Local: "string"}, ct.Content.SimpleBase)
}

func TestToSchemaElementWithAttributeAndChild(t *testing.T) {
	// book: group(attribute(id, text), element(title, text))
	el := &rng.Pattern{
		Kind:      rng.KindElement,
		NameClass: name("book"),
		Patterns: []*rng.Pattern{{
			Kind: rng.KindGroup,
			Patterns: []*rng.Pattern{
				{Kind: rng.KindAttribute, NameClass: name("id"), Patterns: []*rng.Pattern{{Kind: rng.KindText}}},
				{Kind: rng.KindElement, NameClass: name("title"), Patterns: []*rng.Pattern{{Kind: rng.KindText}}},
			},
		}},
	}
	g := simplifyOrFail(t, &rng.Grammar{Start: el, Defines: map[string]*rng.Define{}})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)

	bookQN := im.QName{Space: "urn:test", Local: "book"}
	ct := schema.ComplexTypes[im.QName{Space: "urn:test", Local: "bookType"}]
	require.NotNil(t, ct)
	require.Len(t, ct.Attributes, 1)
	assert.Equal(t, "id", ct.Attributes[0].Name.Local)
	assert.True(t, ct.Attributes[0].Required)

	require.Equal(t, im.ContentElementOnly, ct.Content.Kind)
	require.NotNil(t, ct.Content.ModelGroup)
	require.Len(t, ct.Content.ModelGroup.Particles, 1)
	particle := ct.Content.ModelGroup.Particles[0]
	assert.Equal(t, im.TermElementRef, particle.Term.Kind)
	assert.Equal(t, im.QName{Space: "urn:test", Local: "title"}, particle.Term.ElementRef)

	assert.Contains(t, schema.Elements, bookQN)
	assert.Contains(t, schema.Elements, im.QName{Space: "urn:test", Local: "title"})
}

func TestToSchemaOneOrMoreBecomesUnboundedParticle(t *testing.T) {
	el := &rng.Pattern{
		Kind:      rng.KindElement,
		NameClass: name("items"),
		Patterns: []*rng.Pattern{{
			Kind: rng.KindOneOrMore,
			Body: &rng.Pattern{Kind: rng.KindElement, NameClass: name("item"), Patterns: []*rng.Pattern{{Kind: rng.KindText}}},
		}},
	}
	g := simplifyOrFail(t, &rng.Grammar{Start: el, Defines: map[string]*rng.Define{}})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)

	ct := schema.ComplexTypes[im.QName{Space: "urn:test", Local: "itemsType"}]
	require.NotNil(t, ct)
	require.Len(t, ct.Content.ModelGroup.Particles, 1)
	p := ct.Content.ModelGroup.Particles[0]
	assert.Equal(t, 1, p.MinOccurs)
	assert.Equal(t, im.Unbounded, p.MaxOccurs)
}

func TestToSchemaOptionalAttributeIsNotRequired(t *testing.T) {
	el := &rng.Pattern{
		Kind:      rng.KindElement,
		NameClass: name("note"),
		Patterns: []*rng.Pattern{{
			Kind: rng.KindOptional,
			Body: &rng.Pattern{Kind: rng.KindAttribute, NameClass: name("lang"), Patterns: []*rng.Pattern{{Kind: rng.KindText}}},
		}},
	}
	g := simplifyOrFail(t, &rng.Grammar{Start: el, Defines: map[string]*rng.Define{}})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)

	ct := schema.ComplexTypes[im.QName{Space: "urn:test", Local: "noteType"}]
	require.NotNil(t, ct)
	require.Len(t, ct.Attributes, 1)
	assert.False(t, ct.Attributes[0].Required)
	assert.Equal(t, im.ContentEmpty, ct.Content.Kind)
}

func TestToSchemaMixedContentSetsMixedFlag(t *testing.T) {
	el := &rng.Pattern{
		Kind:      rng.KindElement,
		NameClass: name("para"),
		Patterns: []*rng.Pattern{{
			Kind: rng.KindMixed,
			Patterns: []*rng.Pattern{{
				Kind: rng.KindZeroOrMore,
				Body: &rng.Pattern{Kind: rng.KindElement, NameClass: name("b"), Patterns: []*rng.Pattern{{Kind: rng.KindText}}},
			}},
		}},
	}
	g := simplifyOrFail(t, &rng.Grammar{Start: el, Defines: map[string]*rng.Define{}})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)

	ct := schema.ComplexTypes[im.QName{Space: "urn:test", Local: "paraType"}]
	require.NotNil(t, ct)
	assert.True(t, ct.Mixed)
	assert.Equal(t, im.ContentMixed, ct.Content.Kind)
}

func TestToSchemaValueChoiceBecomesEnumeration(t *testing.T) {
	el := &rng.Pattern{
		Kind:      rng.KindElement,
		NameClass: name("status"),
		Patterns: []*rng.Pattern{{
			Kind: rng.KindChoice,
			Patterns: []*rng.Pattern{
				{Kind: rng.KindValue, Value: "open"},
				{Kind: rng.KindValue, Value: "closed"},
			},
		}},
	}
	g := simplifyOrFail(t, &rng.Grammar{Start: el, Defines: map[string]*rng.Define{}})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)

	ct := schema.ComplexTypes[im.QName{Space: "urn:test", Local: "statusType"}]
	require.NotNil(t, ct)
	assert.Equal(t, im.ContentSimple, ct.Content.Kind)
	assert.Equal(t, []string{"open", "closed"}, ct.Content.SimpleFacets.Enumeration)
}

func TestToSchemaRefThroughDefineResolvesToElement(t *testing.T) {
	g := simplifyOrFail(t, &rng.Grammar{
		Start: &rng.Pattern{Kind: rng.KindRef, RefName: "book"},
		Defines: map[string]*rng.Define{
			"book": {Name: "book", Bodies: []*rng.Pattern{{
				Kind: rng.KindElement, NameClass: name("book"),
				Patterns: []*rng.Pattern{{Kind: rng.KindText}},
			}}},
		},
		DefineOrder: []string{"book"},
	})

	schema, err := ToSchema(g, "urn:test")
	require.NoError(t, err)
	assert.Contains(t, schema.Elements, im.QName{Space: "urn:test", Local: "book"})
}
