package xsdfrontend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xb.dev/xb/im"
	"xb.dev/xb/xmlevent"
)

func parseString(t *testing.T, doc string) *im.Schema {
	t.Helper()
	s, err := Parse(xmlevent.NewReader(strings.NewReader(doc)))
	require.NoError(t, err)
	return s
}

func TestParseSimpleTypeEnumeration(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<simpleType name="Side">
			<restriction base="string">
				<enumeration value="Buy"/>
				<enumeration value="Sell"/>
			</restriction>
		</simpleType>
	</schema>`
	s := parseString(t, doc)
	st := s.SimpleTypes[im.QName{Space: "urn:test", Local: "Side"}]
	require.NotNil(t, st)
	assert.Equal(t, im.Atomic, st.Variety)
	assert.Equal(t, im.QName{Space: NS, Local: "string"}, st.Base)
	assert.Equal(t, []string{"Buy", "Sell"}, st.Facets.Enumeration)
}

func TestParseComplexTypeSequence(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<complexType name="Order">
			<sequence>
				<element name="id" type="string"/>
				<element name="qty" type="int" minOccurs="0" maxOccurs="unbounded"/>
			</sequence>
			<attribute name="rev" type="int" use="required"/>
		</complexType>
	</schema>`
	s := parseString(t, doc)
	ct := s.ComplexTypes[im.QName{Space: "urn:test", Local: "Order"}]
	require.NotNil(t, ct)
	require.Equal(t, im.ContentElementOnly, ct.Content.Kind)
	require.NotNil(t, ct.Content.ModelGroup)
	assert.Equal(t, im.Sequence, ct.Content.ModelGroup.Compositor)
	require.Len(t, ct.Content.ModelGroup.Particles, 2)

	first := ct.Content.ModelGroup.Particles[0]
	assert.Equal(t, im.TermElement, first.Term.Kind)
	assert.Equal(t, "id", first.Term.Element.Name.Local)
	assert.Equal(t, 1, first.MinOccurs)
	assert.Equal(t, 1, first.MaxOccurs)

	second := ct.Content.ModelGroup.Particles[1]
	assert.Equal(t, 0, second.MinOccurs)
	assert.Equal(t, im.Unbounded, second.MaxOccurs)

	require.Len(t, ct.Attributes, 1)
	assert.Equal(t, "rev", ct.Attributes[0].Name.Local)
	assert.True(t, ct.Attributes[0].Required)
}

func TestParseComplexContentExtension(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" xmlns:tns="urn:test" targetNamespace="urn:test">
		<complexType name="Base">
			<sequence><element name="a" type="string"/></sequence>
		</complexType>
		<complexType name="Derived">
			<complexContent>
				<extension base="tns:Base">
					<sequence><element name="b" type="string"/></sequence>
				</extension>
			</complexContent>
		</complexType>
	</schema>`
	s := parseString(t, doc)
	derived := s.ComplexTypes[im.QName{Space: "urn:test", Local: "Derived"}]
	require.NotNil(t, derived)
	require.NotNil(t, derived.Content.ComplexBase)
	assert.Equal(t, im.QName{Space: "urn:test", Local: "Base"}, *derived.Content.ComplexBase)
	assert.Equal(t, im.Extension, derived.Content.ComplexDerivation)
	require.Len(t, derived.Content.ModelGroup.Particles, 1)
}

func TestParseSimpleContentExtension(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<complexType name="Money">
			<simpleContent>
				<extension base="decimal">
					<attribute name="currency" type="string"/>
				</extension>
			</simpleContent>
		</complexType>
	</schema>`
	s := parseString(t, doc)
	ct := s.ComplexTypes[im.QName{Space: "urn:test", Local: "Money"}]
	require.NotNil(t, ct)
	require.Equal(t, im.ContentSimple, ct.Content.Kind)
	assert.Equal(t, im.QName{Space: NS, Local: "decimal"}, ct.Content.SimpleBase)
	require.Len(t, ct.Attributes, 1)
	assert.Equal(t, "currency", ct.Attributes[0].Name.Local)
}

func TestParseElementRefAndGroupRef(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" xmlns:tns="urn:test" targetNamespace="urn:test">
		<element name="widget" type="string"/>
		<group name="Common">
			<sequence><element ref="tns:widget"/></sequence>
		</group>
		<complexType name="Holder">
			<sequence>
				<group ref="tns:Common"/>
			</sequence>
		</complexType>
	</schema>`
	s := parseString(t, doc)
	group := s.ModelGroups[im.QName{Space: "urn:test", Local: "Common"}]
	require.NotNil(t, group)
	require.Len(t, group.Particles, 1)
	assert.Equal(t, im.TermElementRef, group.Particles[0].Term.Kind)
	assert.Equal(t, im.QName{Space: "urn:test", Local: "widget"}, group.Particles[0].Term.ElementRef)

	holder := s.ComplexTypes[im.QName{Space: "urn:test", Local: "Holder"}]
	require.NotNil(t, holder)
	particle := holder.Content.ModelGroup.Particles[0]
	assert.Equal(t, im.TermGroupRef, particle.Term.Kind)
	assert.Equal(t, im.QName{Space: "urn:test", Local: "Common"}, particle.Term.GroupRef)
}

func TestParseWildcardAndAssertion(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<complexType name="Extensible">
			<sequence>
				<any namespace="##other" processContents="lax"/>
			</sequence>
			<anyAttribute namespace="##any"/>
			<assert test="count(*) gt 0"/>
		</complexType>
	</schema>`
	s := parseString(t, doc)
	ct := s.ComplexTypes[im.QName{Space: "urn:test", Local: "Extensible"}]
	require.NotNil(t, ct)
	particle := ct.Content.ModelGroup.Particles[0]
	require.Equal(t, im.TermWildcard, particle.Term.Kind)
	assert.Equal(t, im.NSOther, particle.Term.Wildcard.NSConstraint)
	assert.Equal(t, im.ProcessLax, particle.Term.Wildcard.Process)
	require.NotNil(t, ct.AttributeWildcard)
	assert.Equal(t, im.NSAny, ct.AttributeWildcard.NSConstraint)
	require.Len(t, ct.Assertions, 1)
	assert.Equal(t, "count(*) gt 0", ct.Assertions[0])
}

func TestParseRejectsUnknownXSDElement(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<bogus/>
	</schema>`
	_, err := Parse(xmlevent.NewReader(strings.NewReader(doc)))
	require.Error(t, err)
	var unsupported *UnsupportedConstructError
	require.ErrorAs(t, err, &unsupported)
}

func TestParseIgnoresForeignNamespaceContent(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<annotation><documentation xmlns="urn:foreign">anything goes here</documentation></annotation>
		<element name="widget" type="string"/>
	</schema>`
	s := parseString(t, doc)
	assert.Contains(t, s.ElementOrder, im.QName{Space: "urn:test", Local: "widget"})
}

func TestParseImportAndInclude(t *testing.T) {
	const doc = `<schema xmlns="http://www.w3.org/2001/XMLSchema" targetNamespace="urn:test">
		<import namespace="urn:other" schemaLocation="other.xsd"/>
		<include schemaLocation="more.xsd"/>
	</schema>`
	s := parseString(t, doc)
	require.Len(t, s.Imports, 1)
	assert.Equal(t, "urn:other", s.Imports[0].Namespace)
	assert.Equal(t, "other.xsd", s.Imports[0].URL)
	require.Len(t, s.Includes, 1)
	assert.Equal(t, "more.xsd", s.Includes[0].URL)
}
