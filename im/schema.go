package im

// Location records an import or include reference to another schema
// document, as it appeared in the source (schemaLocation, href, etc).
type Location struct {
	Namespace string // import's namespace; empty for include
	URL       string
}

// OpenContentDefault is a schema-wide default open content policy
// (XSD 1.1's <xs:defaultOpenContent>).
type OpenContentDefault struct {
	AppliesToEmpty bool
	Mode           ProcessContents
	Wildcard       Wildcard
}

// Schema is a flat container scoped to a single target namespace. It owns
// every simple type, complex type, top-level element, top-level
// attribute, named model group, and named attribute group declared
// directly in one schema document.
//
// The *Order slices record registration order so that code generation
// can visit declarations in the order they were written, independent of
// Go map iteration order (see spec.md section 4.3's stability
// requirement).
type Schema struct {
	TargetNS string

	SimpleTypes      map[QName]*SimpleType
	SimpleTypeOrder  []QName
	ComplexTypes     map[QName]*ComplexType
	ComplexTypeOrder []QName
	Elements         map[QName]*Element
	ElementOrder     []QName
	Attributes       map[QName]*Element
	AttributeOrder   []QName
	ModelGroups      map[QName]*ModelGroup
	ModelGroupOrder  []QName
	AttrGroups       map[QName][]AttributeUse
	AttrGroupOrder   []QName

	Imports  []Location
	Includes []Location

	OpenContent *OpenContentDefault
}

// NewSchema returns an empty Schema scoped to targetNS with all maps
// initialized.
func NewSchema(targetNS string) *Schema {
	return &Schema{
		TargetNS:     targetNS,
		SimpleTypes:  make(map[QName]*SimpleType),
		ComplexTypes: make(map[QName]*ComplexType),
		Elements:     make(map[QName]*Element),
		Attributes:   make(map[QName]*Element),
		ModelGroups:  make(map[QName]*ModelGroup),
		AttrGroups:   make(map[QName][]AttributeUse),
	}
}

// AddSimpleType registers a top-level simple type, preserving insertion
// order. A duplicate name silently overwrites in the map but is still
// appended to Order; duplicate detection across the whole set is the
// resolver's job (section 4.9), not this method's.
func (s *Schema) AddSimpleType(t *SimpleType) {
	s.SimpleTypeOrder = append(s.SimpleTypeOrder, t.Name)
	s.SimpleTypes[t.Name] = t
}

// AddComplexType registers a top-level complex type.
func (s *Schema) AddComplexType(t *ComplexType) {
	s.ComplexTypeOrder = append(s.ComplexTypeOrder, t.Name)
	s.ComplexTypes[t.Name] = t
}

// AddElement registers a top-level element.
func (s *Schema) AddElement(e *Element) {
	s.ElementOrder = append(s.ElementOrder, e.Name)
	s.Elements[e.Name] = e
}

// AddAttribute registers a top-level attribute declaration (represented
// as an Element for field reuse; top-level attributes share every field
// Element needs except content-model placement).
func (s *Schema) AddAttribute(a *Element) {
	s.AttributeOrder = append(s.AttributeOrder, a.Name)
	s.Attributes[a.Name] = a
}

// AddModelGroup registers a named (top-level) model group definition.
func (s *Schema) AddModelGroup(name QName, g *ModelGroup) {
	s.ModelGroupOrder = append(s.ModelGroupOrder, name)
	s.ModelGroups[name] = g
}

// AddAttrGroup registers a named attribute group definition.
func (s *Schema) AddAttrGroup(name QName, attrs []AttributeUse) {
	s.AttrGroupOrder = append(s.AttrGroupOrder, name)
	s.AttrGroups[name] = attrs
}
