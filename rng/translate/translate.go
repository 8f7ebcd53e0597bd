// Package translate lowers a simplified RELAX NG grammar into the
// intermediate model, per spec.md section 4.8.
package translate

import (
	"fmt"

	"xb.dev/xb/im"
	"xb.dev/xb/rng"
)

const xsdDatatypeLibrary = "http://www.w3.org/2001/XMLSchema-datatypes"

// ToSchema lowers a simplified (post rng/simplify.Simplify) grammar
// into a schema scoped to targetNS. The grammar's start pattern names
// the document's top-level element(s): a bare element, or a choice
// between several, each becoming a top-level element plus a complex
// type named "<local>Type".
func ToSchema(g *rng.Grammar, targetNS string) (*im.Schema, error) {
	tr := &translator{schema: im.NewSchema(targetNS), registered: make(map[im.QName]bool)}
	tops, err := tr.collectTopElements(g.Start, g.Defines, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	for _, el := range tops {
		if _, err := tr.translateElement(el, g.Defines); err != nil {
			return nil, err
		}
	}
	return tr.schema, nil
}

type translator struct {
	schema     *im.Schema
	registered map[im.QName]bool
}

// collectTopElements walks choice/ref nodes until it finds the set of
// element() patterns the start pattern can produce at the document
// root.
func (tr *translator) collectTopElements(p *rng.Pattern, defines map[string]*rng.Define, seen map[string]bool) ([]*rng.Pattern, error) {
	if p == nil {
		return nil, nil
	}
	switch p.Kind {
	case rng.KindElement:
		return []*rng.Pattern{p}, nil
	case rng.KindChoice:
		var out []*rng.Pattern
		for _, c := range p.Patterns {
			els, err := tr.collectTopElements(c, defines, seen)
			if err != nil {
				return nil, err
			}
			out = append(out, els...)
		}
		return out, nil
	case rng.KindRef:
		if seen[p.RefName] {
			return nil, nil
		}
		seen[p.RefName] = true
		d, ok := defines[p.RefName]
		if !ok || len(d.Bodies) == 0 {
			return nil, fmt.Errorf("translate: unresolved define %q", p.RefName)
		}
		return tr.collectTopElements(d.Bodies[0], defines, seen)
	default:
		return nil, fmt.Errorf("translate: unsupported top-level pattern %s", p.Kind)
	}
}

// translateElement registers el's complex type and top-level element,
// returning the element's QName. Already-registered elements (reached
// again through a second ref) are not rebuilt.
func (tr *translator) translateElement(el *rng.Pattern, defines map[string]*rng.Define) (im.QName, error) {
	if el.NameClass.Kind != rng.NCSpecificName {
		return im.QName{}, fmt.Errorf("translate: element name class %v is not a specific name", el.NameClass.Kind)
	}
	qn := im.QName{Space: el.NameClass.NS, Local: el.NameClass.Name}
	if tr.registered[qn] {
		return qn, nil
	}
	tr.registered[qn] = true

	var body *rng.Pattern
	if len(el.Patterns) > 0 {
		body = el.Patterns[0]
	}

	content, attrs, err := tr.translateBody(body, defines)
	if err != nil {
		return im.QName{}, err
	}

	ct := &im.ComplexType{
		Name:       im.QName{Space: qn.Space, Local: qn.Local + "Type"},
		Mixed:      content.Kind == im.ContentMixed,
		Content:    content,
		Attributes: attrs,
	}
	tr.schema.AddComplexType(ct)
	tr.schema.AddElement(&im.Element{Name: qn, Type: ct.Name})
	return qn, nil
}

// translateBody splits a (post-attribute-extraction) content pattern
// into its content type and its attribute uses, and classifies the
// remaining content as empty, simple, element-only, or mixed.
func (tr *translator) translateBody(body *rng.Pattern, defines map[string]*rng.Define) (im.ContentType, []im.AttributeUse, error) {
	content, attrs, err := tr.extractAttributes(body, defines)
	if err != nil {
		return im.ContentType{}, nil, err
	}
	if content == nil {
		return im.ContentType{Kind: im.ContentEmpty}, attrs, nil
	}

	hasElement, hasText := tr.classify(content, defines, make(map[string]bool))
	switch {
	case !hasElement && !hasText:
		return im.ContentType{Kind: im.ContentEmpty}, attrs, nil
	case !hasElement:
		base, facets, err := tr.translateSimpleContent(content)
		if err != nil {
			return im.ContentType{}, nil, err
		}
		return im.ContentType{Kind: im.ContentSimple, SimpleBase: base, SimpleFacets: facets}, attrs, nil
	default:
		group, err := tr.contentModelGroup(content, defines)
		if err != nil {
			return im.ContentType{}, nil, err
		}
		kind := im.ContentElementOnly
		if hasText {
			kind = im.ContentMixed
		}
		return im.ContentType{Kind: kind, ModelGroup: group}, attrs, nil
	}
}

// extractAttributes removes attribute() patterns from p's tree,
// returning the remaining content pattern (nil if nothing remains) and
// every attribute use found.
func (tr *translator) extractAttributes(p *rng.Pattern, defines map[string]*rng.Define) (*rng.Pattern, []im.AttributeUse, error) {
	if p == nil {
		return nil, nil, nil
	}
	switch p.Kind {
	case rng.KindAttribute:
		use, err := tr.translateAttribute(p, true)
		if err != nil {
			return nil, nil, err
		}
		return nil, []im.AttributeUse{use}, nil
	case rng.KindChoice:
		// An optional attribute is simplified to choice(attribute(...), empty).
		if len(p.Patterns) == 2 && p.Patterns[0].Kind == rng.KindAttribute && p.Patterns[1].Kind == rng.KindEmpty {
			use, err := tr.translateAttribute(p.Patterns[0], false)
			if err != nil {
				return nil, nil, err
			}
			return nil, []im.AttributeUse{use}, nil
		}
		if len(p.Patterns) == 2 && p.Patterns[1].Kind == rng.KindAttribute && p.Patterns[0].Kind == rng.KindEmpty {
			use, err := tr.translateAttribute(p.Patterns[1], false)
			if err != nil {
				return nil, nil, err
			}
			return nil, []im.AttributeUse{use}, nil
		}
		return tr.extractFromChildren(p, defines)
	case rng.KindGroup, rng.KindInterleave:
		return tr.extractFromChildren(p, defines)
	case rng.KindOneOrMore:
		inner, attrs, err := tr.extractAttributes(p.Body, defines)
		if err != nil {
			return nil, nil, err
		}
		if inner == nil {
			return nil, attrs, nil
		}
		return &rng.Pattern{Kind: rng.KindOneOrMore, Body: inner}, attrs, nil
	default:
		return p, nil, nil
	}
}

func (tr *translator) extractFromChildren(p *rng.Pattern, defines map[string]*rng.Define) (*rng.Pattern, []im.AttributeUse, error) {
	var kept []*rng.Pattern
	var attrs []im.AttributeUse
	for _, c := range p.Patterns {
		rest, a, err := tr.extractAttributes(c, defines)
		if err != nil {
			return nil, nil, err
		}
		attrs = append(attrs, a...)
		if rest != nil {
			kept = append(kept, rest)
		}
	}
	switch len(kept) {
	case 0:
		return nil, attrs, nil
	case 1:
		return kept[0], attrs, nil
	default:
		return &rng.Pattern{Kind: p.Kind, Patterns: kept}, attrs, nil
	}
}

func (tr *translator) translateAttribute(p *rng.Pattern, required bool) (im.AttributeUse, error) {
	if p.NameClass.Kind != rng.NCSpecificName {
		return im.AttributeUse{}, fmt.Errorf("translate: attribute name class %v is not a specific name", p.NameClass.Kind)
	}
	var body *rng.Pattern
	if len(p.Patterns) > 0 {
		body = p.Patterns[0]
	}
	typ := im.QName{Space: im.XSDNamespace, Local: "string"}
	if body != nil {
		if t, _, err := tr.translateSimpleContent(body); err == nil {
			typ = t
		}
	}
	return im.NewAttributeUse(im.AttributeUse{
		Name:     im.QName{Space: p.NameClass.NS, Local: p.NameClass.Name},
		Type:     typ,
		Required: required,
	}), nil
}

// classify reports whether content (anywhere reachable without
// crossing into element bodies) contains an element/ref-to-element
// term and/or bare text, driving the content_kind decision of spec.md
// section 4.8: purely text lowers to simple; any element child forces
// element_only; interleave(_, text) (the image of mixed) forces mixed.
func (tr *translator) classify(p *rng.Pattern, defines map[string]*rng.Define, seen map[string]bool) (hasElement, hasText bool) {
	if p == nil {
		return false, false
	}
	switch p.Kind {
	case rng.KindElement:
		return true, false
	case rng.KindText:
		return false, true
	case rng.KindData, rng.KindValue, rng.KindEmpty, rng.KindNotAllowed:
		return false, false
	case rng.KindRef:
		if seen[p.RefName] {
			return true, false // conservative: treat unresolved recursion as element-bearing
		}
		seen[p.RefName] = true
		d, ok := defines[p.RefName]
		if !ok || len(d.Bodies) == 0 {
			return false, false
		}
		return tr.classify(d.Bodies[0], defines, seen)
	case rng.KindOneOrMore:
		return tr.classify(p.Body, defines, seen)
	default: // group, interleave, choice
		for _, c := range p.Patterns {
			e, t := tr.classify(c, defines, seen)
			hasElement = hasElement || e
			hasText = hasText || t
		}
		return hasElement, hasText
	}
}

// contentModelGroup builds the element-bearing content's model group.
// p may be a bare element/ref/oneOrMore (wrapped here as a singleton
// sequence) or already a group/interleave/choice.
func (tr *translator) contentModelGroup(p *rng.Pattern, defines map[string]*rng.Define) (*im.ModelGroup, error) {
	switch p.Kind {
	case rng.KindGroup, rng.KindInterleave, rng.KindChoice:
		compositor := im.Sequence
		switch p.Kind {
		case rng.KindInterleave:
			compositor = im.Interleave
		case rng.KindChoice:
			compositor = im.Choice
		}
		group := &im.ModelGroup{Compositor: compositor}
		for _, c := range p.Patterns {
			if c.Kind == rng.KindText {
				continue // already folded into Mixed at the ContentType level
			}
			particle, err := tr.toParticle(c, defines)
			if err != nil {
				return nil, err
			}
			group.Particles = append(group.Particles, particle)
		}
		return group, nil
	case rng.KindText:
		return &im.ModelGroup{Compositor: im.Sequence}, nil
	default:
		particle, err := tr.toParticle(p, defines)
		if err != nil {
			return nil, err
		}
		return &im.ModelGroup{Compositor: im.Sequence, Particles: []im.Particle{particle}}, nil
	}
}

// optionalParticle builds the particle for the non-empty branch of a
// simplified optional(p)/zeroOrMore(q) choice. body is that branch's
// pattern directly (not yet turned into a particle).
func (tr *translator) optionalParticle(body *rng.Pattern, defines map[string]*rng.Define) (im.Particle, error) {
	if body.Kind == rng.KindOneOrMore {
		inner, err := tr.toParticle(body.Body, defines)
		if err != nil {
			return im.Particle{}, err
		}
		inner.MinOccurs, inner.MaxOccurs = 0, im.Unbounded
		return inner, nil
	}
	inner, err := tr.toParticle(body, defines)
	if err != nil {
		return im.Particle{}, err
	}
	inner.MinOccurs, inner.MaxOccurs = 0, 1
	return inner, nil
}

// toParticle lowers one content-model child into a particle, unwrapping
// the simplified forms of oneOrMore ({1,unbounded}) and optional
// (choice(p, empty), {0,1}) into occurrence ranges rather than nested
// terms, per spec.md section 4.8.
func (tr *translator) toParticle(p *rng.Pattern, defines map[string]*rng.Define) (im.Particle, error) {
	switch p.Kind {
	case rng.KindOneOrMore:
		inner, err := tr.toParticle(p.Body, defines)
		if err != nil {
			return im.Particle{}, err
		}
		inner.MinOccurs, inner.MaxOccurs = 1, im.Unbounded
		return inner, nil
	case rng.KindChoice:
		// choice(p, empty) is the simplified image of optional(p); when p
		// is itself oneOrMore(q) it is instead the image of zeroOrMore(q)
		// (rule 3: zeroOrMore(q) => choice(oneOrMore(q), empty)), which
		// must lower to {0, unbounded} of q rather than {0,1} of oneOrMore(q).
		if len(p.Patterns) == 2 && p.Patterns[1].Kind == rng.KindEmpty {
			return tr.optionalParticle(p.Patterns[0], defines)
		}
		if len(p.Patterns) == 2 && p.Patterns[0].Kind == rng.KindEmpty {
			return tr.optionalParticle(p.Patterns[1], defines)
		}
		group, err := tr.contentModelGroup(p, defines)
		if err != nil {
			return im.Particle{}, err
		}
		return im.Particle{Term: im.Term{Kind: im.TermModelGroup, Group: group}, MinOccurs: 1, MaxOccurs: 1}, nil
	case rng.KindGroup, rng.KindInterleave:
		group, err := tr.contentModelGroup(p, defines)
		if err != nil {
			return im.Particle{}, err
		}
		return im.Particle{Term: im.Term{Kind: im.TermModelGroup, Group: group}, MinOccurs: 1, MaxOccurs: 1}, nil
	case rng.KindElement:
		qn, err := tr.translateElement(p, defines)
		if err != nil {
			return im.Particle{}, err
		}
		return im.Particle{Term: im.Term{Kind: im.TermElementRef, ElementRef: qn}, MinOccurs: 1, MaxOccurs: 1}, nil
	case rng.KindRef:
		d, ok := defines[p.RefName]
		if !ok || len(d.Bodies) == 0 {
			return im.Particle{}, fmt.Errorf("translate: unresolved define %q", p.RefName)
		}
		target := d.Bodies[0]
		if target.Kind == rng.KindElement {
			qn, err := tr.translateElement(target, defines)
			if err != nil {
				return im.Particle{}, err
			}
			return im.Particle{Term: im.Term{Kind: im.TermElementRef, ElementRef: qn}, MinOccurs: 1, MaxOccurs: 1}, nil
		}
		return tr.toParticle(target, defines)
	case rng.KindEmpty, rng.KindNotAllowed:
		return im.Particle{Term: im.Term{Kind: im.TermModelGroup, Group: &im.ModelGroup{Compositor: im.Sequence}}, MinOccurs: 0, MaxOccurs: 0}, nil
	default:
		return im.Particle{}, fmt.Errorf("translate: unsupported content particle %s", p.Kind)
	}
}

// translateSimpleContent lowers a purely-textual pattern (data, value,
// text, or a choice among them) into a simple type base plus facets.
func (tr *translator) translateSimpleContent(p *rng.Pattern) (im.QName, im.FacetSet, error) {
	switch p.Kind {
	case rng.KindText:
		return im.QName{Space: im.XSDNamespace, Local: "string"}, im.FacetSet{}, nil
	case rng.KindData:
		return tr.dataTypeName(p), im.FacetSet{}, nil
	case rng.KindValue:
		base := tr.dataTypeName(p)
		return base, im.FacetSet{Enumeration: []string{p.Value}}, nil
	case rng.KindChoice:
		var values []string
		base := im.QName{Space: im.XSDNamespace, Local: "string"}
		for i, c := range p.Patterns {
			if c.Kind != rng.KindValue {
				return im.QName{}, im.FacetSet{}, fmt.Errorf("translate: unsupported simple-content choice member %s", c.Kind)
			}
			if i == 0 {
				base = tr.dataTypeName(c)
			}
			values = append(values, c.Value)
		}
		return base, im.FacetSet{Enumeration: values}, nil
	default:
		return im.QName{}, im.FacetSet{}, fmt.Errorf("translate: unsupported simple content %s", p.Kind)
	}
}

func (tr *translator) dataTypeName(p *rng.Pattern) im.QName {
	if p.DataLibrary == "" || p.DataLibrary == xsdDatatypeLibrary {
		if p.DataType != "" {
			return im.QName{Space: im.XSDNamespace, Local: p.DataType}
		}
	}
	// A non-XSD datatype library is a translation miss: degrade to
	// xs:string rather than fail the whole schema.
	return im.QName{Space: im.XSDNamespace, Local: "string"}
}
