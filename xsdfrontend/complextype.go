package xsdfrontend

import (
	"fmt"
	"strconv"

	"xb.dev/xb/im"
)

func atoiStrict(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("xsdfrontend: invalid integer %q: %w", s, err)
	}
	return n, nil
}

// parseComplexType parses the <complexType> the reader is positioned on.
// XSD's complexContent/simpleContent wrappers are optional shorthand: a
// complexType with a bare sequence/choice/all/group as its content is
// equivalent to one that derives by extension from xs:anyType, so both
// forms are folded into the same ContentElementOnly/ContentMixed
// handling below.
func (p *parser) parseComplexType(name im.QName) (*im.ComplexType, error) {
	abstract := p.boolAttr("abstract")
	mixed := p.boolAttr("mixed")

	var (
		modelGroup   *im.ModelGroup
		attrs        []im.AttributeUse
		groupRefs    []im.QName
		wildcard     *im.Wildcard
		assertions   []string
		contentKind  = im.ContentEmpty
		complexBase  *im.QName
		derivation   = im.Extension
		simpleBase   im.QName
		simpleFacets im.FacetSet
	)

	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "simpleContent":
			base, derive, facets, extraAttrs, extraGroups, err := p.parseSimpleContent()
			if err != nil {
				return err
			}
			contentKind = im.ContentSimple
			simpleBase, derivation, simpleFacets = base, derive, facets
			attrs = append(attrs, extraAttrs...)
			groupRefs = append(groupRefs, extraGroups...)
			return nil
		case "complexContent":
			if p.boolAttr("mixed") {
				mixed = true
			}
			base, derive, mg, extraAttrs, extraGroups, wc, err := p.parseComplexContent()
			if err != nil {
				return err
			}
			complexBase = &base
			derivation = derive
			if mg != nil {
				modelGroup = mg
				contentKind = im.ContentElementOnly
			}
			attrs = append(attrs, extraAttrs...)
			groupRefs = append(groupRefs, extraGroups...)
			if wc != nil {
				wildcard = wc
			}
			return nil
		case "sequence":
			g, err := p.parseModelGroupChildren(im.Sequence)
			if err != nil {
				return err
			}
			modelGroup, contentKind = g, im.ContentElementOnly
			return nil
		case "choice":
			g, err := p.parseModelGroupChildren(im.Choice)
			if err != nil {
				return err
			}
			modelGroup, contentKind = g, im.ContentElementOnly
			return nil
		case "all":
			g, err := p.parseModelGroupChildren(im.All)
			if err != nil {
				return err
			}
			modelGroup, contentKind = g, im.ContentElementOnly
			return nil
		case "group":
			ref, _ := p.attr("ref")
			q, _ := p.r.ResolveQName(ref)
			if err := p.skip(); err != nil {
				return err
			}
			modelGroup = singleGroupRefModelGroup(q)
			contentKind = im.ContentElementOnly
			return nil
		case "attribute":
			a, err := p.parseAttributeUse()
			if err != nil {
				return err
			}
			attrs = append(attrs, a)
			return nil
		case "attributeGroup":
			ref, _ := p.attr("ref")
			q, _ := p.r.ResolveQName(ref)
			groupRefs = append(groupRefs, q)
			return p.skip()
		case "anyAttribute":
			w, err := p.parseWildcard()
			if err != nil {
				return err
			}
			wildcard = w
			return nil
		case "assert":
			test, _ := p.attr("test")
			assertions = append(assertions, test)
			return p.skip()
		case "openContent", "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	if err != nil {
		return nil, err
	}

	ct := &im.ComplexType{
		Name:               name,
		Abstract:           abstract,
		Mixed:              mixed,
		Attributes:         attrs,
		AttributeGroupRefs: groupRefs,
		AttributeWildcard:  wildcard,
		Assertions:         assertions,
	}

	switch contentKind {
	case im.ContentSimple:
		ct.Content = im.ContentType{
			Kind: im.ContentSimple, SimpleBase: simpleBase,
			SimpleDerivation: derivation, SimpleFacets: simpleFacets,
		}
	case im.ContentElementOnly:
		kind := im.ContentElementOnly
		if mixed {
			kind = im.ContentMixed
		}
		ct.Content = im.ContentType{
			Kind: kind, ComplexBase: complexBase,
			ComplexDerivation: derivation, ModelGroup: modelGroup,
		}
	default:
		if mixed {
			ct.Content = im.ContentType{
				Kind: im.ContentMixed, ComplexBase: complexBase,
				ComplexDerivation: derivation,
				ModelGroup:        &im.ModelGroup{Compositor: im.Sequence},
			}
		} else {
			ct.Content = im.ContentType{Kind: im.ContentEmpty}
		}
	}
	return ct, nil
}

func singleGroupRefModelGroup(ref im.QName) *im.ModelGroup {
	return &im.ModelGroup{
		Compositor: im.Sequence,
		Particles: []im.Particle{{
			Term:      im.Term{Kind: im.TermGroupRef, GroupRef: ref},
			MinOccurs: 1, MaxOccurs: 1,
		}},
	}
}

// parseSimpleContent parses a <simpleContent> wrapper: exactly one of
// <restriction> or <extension>, each naming a simple base type and
// optionally adding attributes.
func (p *parser) parseSimpleContent() (base im.QName, derive im.Derivation, facets im.FacetSet, attrs []im.AttributeUse, groupRefs []im.QName, err error) {
	err = p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "restriction":
			derive = im.Restriction
		case "extension":
			derive = im.Extension
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
		base, facets, attrs, groupRefs, err = p.parseSimpleContentBody()
		return err
	})
	return
}

func (p *parser) parseSimpleContentBody() (im.QName, im.FacetSet, []im.AttributeUse, []im.QName, error) {
	var base im.QName
	if b, ok := p.attr("base"); ok {
		base, _ = p.r.ResolveQName(b)
	}
	var facets im.FacetSet
	var attrs []im.AttributeUse
	var groupRefs []im.QName
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "attribute":
			a, err := p.parseAttributeUse()
			if err != nil {
				return err
			}
			attrs = append(attrs, a)
			return nil
		case "attributeGroup":
			ref, _ := p.attr("ref")
			q, _ := p.r.ResolveQName(ref)
			groupRefs = append(groupRefs, q)
			return p.skip()
		case "annotation":
			return p.skip()
		default:
			return p.parseFacet(child, &facets)
		}
	})
	return base, facets, attrs, groupRefs, err
}

// parseComplexContent parses a <complexContent> wrapper: exactly one of
// <restriction> or <extension>, each naming a complex base type and
// refining its content model and attribute set.
func (p *parser) parseComplexContent() (base im.QName, derive im.Derivation, mg *im.ModelGroup, attrs []im.AttributeUse, groupRefs []im.QName, wildcard *im.Wildcard, err error) {
	err = p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "restriction":
			derive = im.Restriction
		case "extension":
			derive = im.Extension
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
		base, mg, attrs, groupRefs, wildcard, err = p.parseComplexContentBody()
		return err
	})
	return
}

func (p *parser) parseComplexContentBody() (im.QName, *im.ModelGroup, []im.AttributeUse, []im.QName, *im.Wildcard, error) {
	var base im.QName
	if b, ok := p.attr("base"); ok {
		base, _ = p.r.ResolveQName(b)
	}
	var mg *im.ModelGroup
	var attrs []im.AttributeUse
	var groupRefs []im.QName
	var wildcard *im.Wildcard
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "sequence":
			g, err := p.parseModelGroupChildren(im.Sequence)
			if err != nil {
				return err
			}
			mg = g
			return nil
		case "choice":
			g, err := p.parseModelGroupChildren(im.Choice)
			if err != nil {
				return err
			}
			mg = g
			return nil
		case "all":
			g, err := p.parseModelGroupChildren(im.All)
			if err != nil {
				return err
			}
			mg = g
			return nil
		case "group":
			ref, _ := p.attr("ref")
			q, _ := p.r.ResolveQName(ref)
			if err := p.skip(); err != nil {
				return err
			}
			mg = singleGroupRefModelGroup(q)
			return nil
		case "attribute":
			a, err := p.parseAttributeUse()
			if err != nil {
				return err
			}
			attrs = append(attrs, a)
			return nil
		case "attributeGroup":
			ref, _ := p.attr("ref")
			q, _ := p.r.ResolveQName(ref)
			groupRefs = append(groupRefs, q)
			return p.skip()
		case "anyAttribute":
			w, err := p.parseWildcard()
			if err != nil {
				return err
			}
			wildcard = w
			return nil
		case "openContent", "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	return base, mg, attrs, groupRefs, wildcard, err
}

// parseAttributeUse parses an <attribute> appearing within a complex
// type's content (as opposed to a top-level declaration, which
// parseAttributeDecl handles).
func (p *parser) parseAttributeUse() (im.AttributeUse, error) {
	required := p.attrUseRequired()
	def, hasDef := p.attr("default")
	fixed, hasFixed := p.attr("fixed")

	if ref, ok := p.attr("ref"); ok {
		q, _ := p.r.ResolveQName(ref)
		use := im.AttributeUse{Name: q, Type: qn("anySimpleType"), Required: required}
		if hasDef {
			use.Default = im.StrPtr(def)
		} else if hasFixed {
			use.Fixed = im.StrPtr(fixed)
		}
		return im.NewAttributeUse(use), p.skip()
	}

	name, _ := p.attr("name")
	typ, hasType := p.attr("type")
	use := im.AttributeUse{Name: im.QName{Space: p.schema.TargetNS, Local: name}, Required: required}
	if hasDef {
		use.Default = im.StrPtr(def)
	} else if hasFixed {
		use.Fixed = im.StrPtr(fixed)
	}

	var inlineType im.QName
	haveInline := false
	err := p.childLoop(func(child im.QName) error {
		if child.Space == NS && child.Local == "simpleType" {
			st, err := p.parseSimpleType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(st)
			inlineType, haveInline = st.Name, true
			return nil
		}
		return p.skip()
	})
	if err != nil {
		return im.AttributeUse{}, err
	}
	switch {
	case haveInline:
		use.Type = inlineType
	case hasType:
		use.Type, _ = p.r.ResolveQName(typ)
	default:
		use.Type = qn("anySimpleType")
	}
	return im.NewAttributeUse(use), nil
}

func (p *parser) attrUseRequired() bool {
	v, ok := p.attr("use")
	return ok && v == "required"
}

// parseWildcard parses an <any> or <anyAttribute> element.
func (p *parser) parseWildcard() (*im.Wildcard, error) {
	w := &im.Wildcard{NSConstraint: im.NSAny, Process: im.ProcessStrict}
	if ns, ok := p.attr("namespace"); ok {
		switch ns {
		case "##any", "":
			w.NSConstraint = im.NSAny
		case "##other":
			w.NSConstraint = im.NSOther
		default:
			w.NSConstraint = im.NSEnumerated
			w.Namespaces = splitWS(ns)
		}
	}
	if pc, ok := p.attr("processContents"); ok {
		switch pc {
		case "strict":
			w.Process = im.ProcessStrict
		case "lax":
			w.Process = im.ProcessLax
		case "skip":
			w.Process = im.ProcessSkip
		}
	}
	return w, p.skip()
}

// parseNamedGroup parses a top-level <group name="...">, a reusable
// model group definition.
func (p *parser) parseNamedGroup() error {
	name, _ := p.attr("name")
	qname := im.QName{Space: p.schema.TargetNS, Local: name}
	var mg *im.ModelGroup
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "sequence":
			g, err := p.parseModelGroupChildren(im.Sequence)
			mg = g
			return err
		case "choice":
			g, err := p.parseModelGroupChildren(im.Choice)
			mg = g
			return err
		case "all":
			g, err := p.parseModelGroupChildren(im.All)
			mg = g
			return err
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	if err != nil {
		return err
	}
	if mg == nil {
		mg = &im.ModelGroup{Compositor: im.Sequence}
	}
	p.schema.AddModelGroup(qname, mg)
	return nil
}

// parseNamedAttrGroup parses a top-level <attributeGroup name="...">.
func (p *parser) parseNamedAttrGroup() error {
	name, _ := p.attr("name")
	qname := im.QName{Space: p.schema.TargetNS, Local: name}
	var attrs []im.AttributeUse
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "attribute":
			a, err := p.parseAttributeUse()
			if err != nil {
				return err
			}
			attrs = append(attrs, a)
			return nil
		case "attributeGroup", "anyAttribute":
			// Nested group refs / wildcards inside a named attribute
			// group are rare in practice; fold them in as a plain skip
			// since im.Schema's AttrGroups entry is a flat []AttributeUse
			// (see spec.md section 3.2) with no wildcard slot of its own.
			return p.skip()
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	if err != nil {
		return err
	}
	p.schema.AddAttrGroup(qname, attrs)
	return nil
}

// parseModelGroupChildren parses the particles inside a sequence, choice,
// or all element the reader is positioned on.
func (p *parser) parseModelGroupChildren(compositor im.Compositor) (*im.ModelGroup, error) {
	mg := &im.ModelGroup{Compositor: compositor}
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		if child.Local == "annotation" {
			return p.skip()
		}
		particle, err := p.parseParticle(child)
		if err != nil {
			return err
		}
		mg.Particles = append(mg.Particles, particle)
		return nil
	})
	return mg, err
}

// parseParticle parses one particle (element, group ref, nested model
// group, or wildcard) inside a sequence/choice/all.
func (p *parser) parseParticle(child im.QName) (im.Particle, error) {
	min, max, err := p.occurs()
	if err != nil {
		return im.Particle{}, err
	}
	var term im.Term
	switch child.Local {
	case "element":
		if ref, ok := p.attr("ref"); ok {
			q, _ := p.r.ResolveQName(ref)
			term = im.Term{Kind: im.TermElementRef, ElementRef: q}
			if err := p.skip(); err != nil {
				return im.Particle{}, err
			}
		} else {
			el, err := p.parseElementDecl()
			if err != nil {
				return im.Particle{}, err
			}
			term = im.Term{Kind: im.TermElement, Element: el}
		}
	case "group":
		ref, _ := p.attr("ref")
		q, _ := p.r.ResolveQName(ref)
		term = im.Term{Kind: im.TermGroupRef, GroupRef: q}
		if err := p.skip(); err != nil {
			return im.Particle{}, err
		}
	case "choice", "sequence":
		compositor := im.Sequence
		if child.Local == "choice" {
			compositor = im.Choice
		}
		mg, err := p.parseModelGroupChildren(compositor)
		if err != nil {
			return im.Particle{}, err
		}
		term = im.Term{Kind: im.TermModelGroup, Group: mg}
	case "any":
		w, err := p.parseWildcard()
		if err != nil {
			return im.Particle{}, err
		}
		term = im.Term{Kind: im.TermWildcard, Wildcard: w}
	default:
		return im.Particle{}, &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
	}
	return im.Particle{Term: term, MinOccurs: min, MaxOccurs: max}, nil
}

func (p *parser) occurs() (min, max int, err error) {
	min, max = 1, 1
	if v, ok := p.attr("minOccurs"); ok {
		if n, e := atoiStrict(v); e == nil {
			min = n
		} else {
			return 0, 0, e
		}
	}
	if v, ok := p.attr("maxOccurs"); ok {
		if v == "unbounded" {
			max = im.Unbounded
		} else if n, e := atoiStrict(v); e == nil {
			max = n
		} else {
			return 0, 0, e
		}
	}
	return min, max, nil
}

// parseDefaultOpenContent parses the schema-wide <defaultOpenContent>.
func (p *parser) parseDefaultOpenContent() (*im.OpenContentDefault, error) {
	oc := &im.OpenContentDefault{AppliesToEmpty: p.boolAttr("appliesToEmpty")}
	mode, _ := p.attr("mode")
	if mode == "suffix" {
		oc.Mode = im.ProcessStrict
	} else {
		oc.Mode = im.ProcessLax
	}
	err := p.childLoop(func(child im.QName) error {
		if child.Space == NS && child.Local == "any" {
			w, err := p.parseWildcard()
			if err != nil {
				return err
			}
			oc.Wildcard = *w
			return nil
		}
		return p.skip()
	})
	return oc, err
}
