package im

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringType() QName { return QName{Space: XSDNamespace, Local: "string"} }

func TestResolveSucceedsOnWellFormedSet(t *testing.T) {
	schema := NewSchema("urn:test")
	schema.AddSimpleType(NewSimpleType(SimpleType{
		Name: QName{Space: "urn:test", Local: "Side"}, Variety: Atomic, Base: stringType(),
		Facets: FacetSet{Enumeration: []string{"Buy", "Sell"}},
	}))
	schema.AddElement(&Element{Name: QName{Space: "urn:test", Local: "side"}, Type: QName{Space: "urn:test", Local: "Side"}})

	set := NewSet()
	set.AddSchema(schema)
	require.NoError(t, set.Resolve())
	assert.True(t, set.Resolved())
}

func TestResolveDetectsDuplicateName(t *testing.T) {
	schema := NewSchema("urn:test")
	name := QName{Space: "urn:test", Local: "Widget"}
	schema.AddSimpleType(NewSimpleType(SimpleType{Name: name, Variety: Atomic, Base: stringType()}))
	// Force a duplicate registration by appending directly to Order, as a
	// second top-level declaration with the same name would.
	schema.ComplexTypes[name] = &ComplexType{Name: name}
	schema.ComplexTypeOrder = append(schema.ComplexTypeOrder, name)

	set := NewSet()
	set.AddSchema(schema)
	err := set.Resolve()
	require.Error(t, err)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, name, dup.Name)
}

func TestResolveDetectsUnresolvedReference(t *testing.T) {
	schema := NewSchema("urn:test")
	schema.AddElement(&Element{
		Name: QName{Space: "urn:test", Local: "widget"},
		Type: QName{Space: "urn:test", Local: "DoesNotExist"},
	})

	set := NewSet()
	set.AddSchema(schema)
	err := set.Resolve()
	require.Error(t, err)
	var unresolved *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, KindType, unresolved.Kind)
}

func TestMutationResetsResolvedFlag(t *testing.T) {
	set := NewSet()
	set.AddSchema(NewSchema("urn:test"))
	require.NoError(t, set.Resolve())
	assert.True(t, set.Resolved())

	set.AddSchema(NewSchema("urn:test2"))
	assert.False(t, set.Resolved())
}
