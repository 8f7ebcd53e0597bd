package im

// TypeAlternative is one branch of an XSD 1.1 conditional type
// assignment. A TypeAlternative with a nil Test is the default branch.
type TypeAlternative struct {
	Test *string
	Type QName
}

func (t TypeAlternative) equal(other TypeAlternative) bool {
	return equalStrPtr(t.Test, other.Test) && t.Type == other.Type
}

// Element is a top-level or inline element declaration.
type Element struct {
	Name              QName
	Type              QName
	Nillable          bool
	Abstract          bool
	Default           *string
	Fixed             *string
	SubstitutionGroup *QName
	TypeAlternatives  []TypeAlternative
}

// Equal reports deep structural equality.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Name != other.Name || e.Type != other.Type ||
		e.Nillable != other.Nillable || e.Abstract != other.Abstract {
		return false
	}
	if !equalStrPtr(e.Default, other.Default) || !equalStrPtr(e.Fixed, other.Fixed) {
		return false
	}
	if (e.SubstitutionGroup == nil) != (other.SubstitutionGroup == nil) {
		return false
	}
	if e.SubstitutionGroup != nil && *e.SubstitutionGroup != *other.SubstitutionGroup {
		return false
	}
	if len(e.TypeAlternatives) != len(other.TypeAlternatives) {
		return false
	}
	for i := range e.TypeAlternatives {
		if !e.TypeAlternatives[i].equal(other.TypeAlternatives[i]) {
			return false
		}
	}
	return true
}

// AttributeUse describes an attribute as it is used within a complex
// type: its name, type, and whether it is required. Default and Fixed
// are mutually exclusive.
type AttributeUse struct {
	Name     QName
	Type     QName
	Required bool
	Default  *string
	Fixed    *string
}

// NewAttributeUse validates the Default/Fixed exclusivity invariant.
func NewAttributeUse(a AttributeUse) AttributeUse {
	if a.Default != nil && a.Fixed != nil {
		panic("im: attribute use " + a.Name.String() + " sets both default and fixed")
	}
	return a
}

// Equal reports deep structural equality.
func (a AttributeUse) Equal(other AttributeUse) bool {
	return a.Name == other.Name && a.Type == other.Type &&
		a.Required == other.Required &&
		equalStrPtr(a.Default, other.Default) &&
		equalStrPtr(a.Fixed, other.Fixed)
}

// NSConstraint tags the three kinds of wildcard namespace constraint.
type NSConstraint int

const (
	NSAny NSConstraint = iota
	NSOther
	NSEnumerated
)

// ProcessContents governs how strictly a wildcard's matches must be
// declared.
type ProcessContents int

const (
	ProcessStrict ProcessContents = iota
	ProcessLax
	ProcessSkip
)

// Wildcard is an open placeholder accepting elements or attributes from
// a constrained set of namespaces.
type Wildcard struct {
	NSConstraint NSConstraint
	Namespaces   []string
	Process      ProcessContents
}

// Equal reports deep structural equality.
func (w *Wildcard) Equal(other *Wildcard) bool {
	if w == nil || other == nil {
		return w == other
	}
	if w.NSConstraint != other.NSConstraint || w.Process != other.Process {
		return false
	}
	if len(w.Namespaces) != len(other.Namespaces) {
		return false
	}
	for i := range w.Namespaces {
		if w.Namespaces[i] != other.Namespaces[i] {
			return false
		}
	}
	return true
}

// ComplexType describes an element's permitted attributes and content.
type ComplexType struct {
	Name                QName
	Abstract            bool
	Mixed               bool
	Content             ContentType
	Attributes          []AttributeUse
	AttributeGroupRefs  []QName
	AttributeWildcard   *Wildcard
	Assertions          []string
}

// Equal reports deep structural equality.
func (c *ComplexType) Equal(other *ComplexType) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Name != other.Name || c.Abstract != other.Abstract || c.Mixed != other.Mixed {
		return false
	}
	if !c.Content.Equal(other.Content) {
		return false
	}
	if len(c.Attributes) != len(other.Attributes) {
		return false
	}
	for i := range c.Attributes {
		if !c.Attributes[i].Equal(other.Attributes[i]) {
			return false
		}
	}
	if len(c.AttributeGroupRefs) != len(other.AttributeGroupRefs) {
		return false
	}
	for i := range c.AttributeGroupRefs {
		if c.AttributeGroupRefs[i] != other.AttributeGroupRefs[i] {
			return false
		}
	}
	if !c.AttributeWildcard.Equal(other.AttributeWildcard) {
		return false
	}
	if len(c.Assertions) != len(other.Assertions) {
		return false
	}
	for i := range c.Assertions {
		if c.Assertions[i] != other.Assertions[i] {
			return false
		}
	}
	return true
}
