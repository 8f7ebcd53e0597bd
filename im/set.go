package im

// Set is a sequence of schemas, plus a "resolved" flag that Resolve sets
// on success. Any method that mutates the Set's contents after
// resolution resets the flag, so that stale lookups are never served
// from an out-of-date registration.
type Set struct {
	Schemas []*Schema

	resolved bool

	types      map[QName]Kind
	elements   map[QName]Kind
	attrs      map[QName]Kind
	groups     map[QName]Kind
	attrGroups map[QName]Kind
}

// NewSet returns an empty, unresolved Set.
func NewSet() *Set {
	return &Set{}
}

// AddSchema appends a schema to the Set and resets the resolved flag,
// since the newly added schema's references have not yet been checked.
func (s *Set) AddSchema(schema *Schema) {
	s.Schemas = append(s.Schemas, schema)
	s.resolved = false
}

// Resolved reports whether Resolve has succeeded since the last
// mutation.
func (s *Set) Resolved() bool {
	return s.resolved
}

// Resolve implements the two-phase algorithm from spec.md section 4.9:
// first Register every declared name into five disjoint tables,
// detecting duplicates; then Check every reference against those tables
// plus the closed built-in set, detecting unresolved references.
//
// Resolve stops at the first error, per spec.md section 7's
// point-of-failure error model.
func (s *Set) Resolve() error {
	s.resolved = false

	types := make(map[QName]Kind)
	elements := make(map[QName]Kind)
	attrs := make(map[QName]Kind)
	groups := make(map[QName]Kind)
	attrGroups := make(map[QName]Kind)

	for _, schema := range s.Schemas {
		for _, name := range schema.SimpleTypeOrder {
			if err := register(types, name, KindType); err != nil {
				return err
			}
		}
		for _, name := range schema.ComplexTypeOrder {
			if err := register(types, name, KindType); err != nil {
				return err
			}
		}
		for _, name := range schema.ElementOrder {
			if err := register(elements, name, KindElement); err != nil {
				return err
			}
		}
		for _, name := range schema.AttributeOrder {
			if err := register(attrs, name, KindAttribute); err != nil {
				return err
			}
		}
		for _, name := range schema.ModelGroupOrder {
			if err := register(groups, name, KindModelGroup); err != nil {
				return err
			}
		}
		for _, name := range schema.AttrGroupOrder {
			if err := register(attrGroups, name, KindAttrGroup); err != nil {
				return err
			}
		}
	}

	s.types, s.elements, s.attrs, s.groups, s.attrGroups =
		types, elements, attrs, groups, attrGroups

	for _, schema := range s.Schemas {
		if err := s.checkSchema(schema); err != nil {
			return err
		}
	}

	s.resolved = true
	return nil
}

func register(table map[QName]Kind, name QName, kind Kind) error {
	if _, ok := table[name]; ok {
		return &DuplicateNameError{Kind: kind, Name: name}
	}
	table[name] = kind
	return nil
}

func (s *Set) checkType(name QName) error {
	if IsBuiltin(name) {
		return nil
	}
	if _, ok := s.types[name]; ok {
		return nil
	}
	return &UnresolvedReferenceError{Kind: KindType, Name: name}
}

func (s *Set) checkSchema(schema *Schema) error {
	for _, name := range schema.SimpleTypeOrder {
		st := schema.SimpleTypes[name]
		if err := s.checkType(st.Base); err != nil {
			return err
		}
		if st.Item != nil {
			if err := s.checkType(*st.Item); err != nil {
				return err
			}
		}
		for _, m := range st.Members {
			if err := s.checkType(m); err != nil {
				return err
			}
		}
	}
	for _, name := range schema.ComplexTypeOrder {
		ct := schema.ComplexTypes[name]
		if err := s.checkComplexType(ct); err != nil {
			return err
		}
	}
	for _, name := range schema.ElementOrder {
		el := schema.Elements[name]
		if err := s.checkType(el.Type); err != nil {
			return err
		}
		for _, alt := range el.TypeAlternatives {
			if err := s.checkType(alt.Type); err != nil {
				return err
			}
		}
	}
	for _, name := range schema.AttributeOrder {
		if err := s.checkType(schema.Attributes[name].Type); err != nil {
			return err
		}
	}
	for _, name := range schema.ModelGroupOrder {
		if err := s.checkModelGroup(schema.ModelGroups[name]); err != nil {
			return err
		}
	}
	for _, name := range schema.AttrGroupOrder {
		for _, a := range schema.AttrGroups[name] {
			if err := s.checkType(a.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Set) checkComplexType(ct *ComplexType) error {
	for _, a := range ct.Attributes {
		if err := s.checkType(a.Type); err != nil {
			return err
		}
	}
	for _, ref := range ct.AttributeGroupRefs {
		if _, ok := s.attrGroups[ref]; !ok {
			return &UnresolvedReferenceError{Kind: KindAttrGroup, Name: ref}
		}
	}
	if ct.Content.Kind == ContentSimple {
		if err := s.checkType(ct.Content.SimpleBase); err != nil {
			return err
		}
	}
	if ct.Content.ComplexBase != nil {
		if err := s.checkType(*ct.Content.ComplexBase); err != nil {
			return err
		}
	}
	return s.checkModelGroup(ct.Content.ModelGroup)
}

func (s *Set) checkModelGroup(mg *ModelGroup) error {
	if mg == nil {
		return nil
	}
	for _, p := range mg.Particles {
		switch p.Term.Kind {
		case TermElement:
			if err := s.checkType(p.Term.Element.Type); err != nil {
				return err
			}
		case TermElementRef:
			if _, ok := s.elements[p.Term.ElementRef]; !ok {
				return &UnresolvedReferenceError{Kind: KindElement, Name: p.Term.ElementRef}
			}
		case TermGroupRef:
			if _, ok := s.groups[p.Term.GroupRef]; !ok {
				return &UnresolvedReferenceError{Kind: KindModelGroup, Name: p.Term.GroupRef}
			}
		case TermModelGroup:
			if err := s.checkModelGroup(p.Term.Group); err != nil {
				return err
			}
		case TermWildcard:
			// Wildcards carry no reference to check.
		}
	}
	return nil
}

// FindType looks up a top-level simple or complex type by name across
// every schema in the set, in schema-registration order. It returns nil
// if no matching type is registered -- including for built-ins, which
// have no backing declaration to return.
func (s *Set) FindType(name QName) Type {
	for _, schema := range s.Schemas {
		if t, ok := schema.SimpleTypes[name]; ok {
			return t
		}
		if t, ok := schema.ComplexTypes[name]; ok {
			return t
		}
	}
	return nil
}

// FindElement looks up a top-level element by name across every schema
// in the set, in schema-registration order.
func (s *Set) FindElement(name QName) *Element {
	for _, schema := range s.Schemas {
		if e, ok := schema.Elements[name]; ok {
			return e
		}
	}
	return nil
}

// FindModelGroup looks up a named top-level model group definition by
// name across every schema in the set, in schema-registration order.
func (s *Set) FindModelGroup(name QName) *ModelGroup {
	for _, schema := range s.Schemas {
		if g, ok := schema.ModelGroups[name]; ok {
			return g
		}
	}
	return nil
}

// FindAttrGroup looks up a named top-level attribute group definition
// by name across every schema in the set, in schema-registration order.
func (s *Set) FindAttrGroup(name QName) []AttributeUse {
	for _, schema := range s.Schemas {
		if a, ok := schema.AttrGroups[name]; ok {
			return a
		}
	}
	return nil
}

// Type is implemented by *SimpleType and *ComplexType so that FindType
// can return either.
type Type interface {
	isType()
}

func (*SimpleType) isType()  {}
func (*ComplexType) isType() {}
