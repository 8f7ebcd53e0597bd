// Package xsdfrontend drives an xmlevent.Reader over one XSD document and
// produces an *im.Schema, generalizing aqwari.net/xml/xsd/parse.go's
// decoder loop from a namespace-indexed xsd.Type map to im records.
package xsdfrontend

import (
	"fmt"
	"regexp"
	"strconv"

	"xb.dev/xb/im"
	"xb.dev/xb/xmlevent"
)

// NS is the XML Schema namespace the frontend's state machine is keyed
// on.
const NS = im.XSDNamespace

func qn(local string) im.QName { return im.QName{Space: NS, Local: local} }

type parser struct {
	r       xmlevent.Reader
	schema  *im.Schema
	anonSeq int
}

// Parse reads a single <schema> document from r and returns its
// intermediate-model record. Parse does not fetch <import>/<include>
// targets; see the crawler package for that.
func Parse(r xmlevent.Reader) (*im.Schema, error) {
	p := &parser{r: r}
	if !r.Advance() {
		if err := r.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("xsdfrontend: empty document")
	}
	if r.NodeType() != xmlevent.Start || r.Name() != qn("schema") {
		return nil, &UnsupportedConstructError{Name: r.Name(), Depth: r.Depth()}
	}
	tns, _ := p.attr("targetNamespace")
	p.schema = im.NewSchema(tns)
	if err := p.parseSchemaBody(); err != nil {
		return nil, &ParseError{Pos: xmlevent.Pos(r), Err: err}
	}
	return p.schema, nil
}

func (p *parser) attr(local string) (string, bool) {
	return p.r.AttrValueByName("", local)
}

func (p *parser) boolAttr(local string) bool {
	v, ok := p.attr(local)
	return ok && (v == "true" || v == "1")
}

// anonName synthesizes a name for an anonymous type, the same "_anon1",
// "_anon2", ... naming scheme aqwari.net/xml/xsd/parse.go's
// nameAnonymousTypes uses, minus that function's element-name-derived
// hashing: insertion order alone is a sufficient disambiguator here since
// im.Schema keys types by QName rather than position in a merged
// document set.
func (p *parser) anonName() im.QName {
	p.anonSeq++
	return im.QName{Space: p.schema.TargetNS, Local: fmt.Sprintf("_anon%d", p.anonSeq)}
}

// childLoop invokes fn once per Start event that is a direct child of
// whatever element the reader is currently positioned on (which must
// have been entered by a Start event the caller already consumed). fn
// must leave the reader positioned at its own subtree's End event before
// returning; childLoop itself stops once it observes the container's own
// End event, leaving the reader positioned there.
func (p *parser) childLoop(fn func(name im.QName) error) error {
	depth := p.r.Depth()
	for p.r.Advance() {
		switch p.r.NodeType() {
		case xmlevent.End:
			if p.r.Depth() == depth {
				return nil
			}
		case xmlevent.Start:
			if err := fn(p.r.Name()); err != nil {
				return err
			}
		}
	}
	return p.r.Err()
}

// skip discards the subtree rooted at the element the reader is
// currently positioned on, leaving it positioned at that element's own
// End event.
func (p *parser) skip() error {
	return p.childLoop(func(im.QName) error { return p.skip() })
}

func (p *parser) parseSchemaBody() error {
	return p.childLoop(func(name im.QName) error {
		if name.Space != NS {
			return p.skip()
		}
		switch name.Local {
		case "element":
			el, err := p.parseElementDecl()
			if err != nil {
				return err
			}
			p.schema.AddElement(el)
			return nil
		case "attribute":
			a, err := p.parseAttributeDecl()
			if err != nil {
				return err
			}
			p.schema.AddAttribute(a)
			return nil
		case "simpleType":
			localName, _ := p.attr("name")
			st, err := p.parseSimpleType(im.QName{Space: p.schema.TargetNS, Local: localName})
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(st)
			return nil
		case "complexType":
			localName, _ := p.attr("name")
			ct, err := p.parseComplexType(im.QName{Space: p.schema.TargetNS, Local: localName})
			if err != nil {
				return err
			}
			p.schema.AddComplexType(ct)
			return nil
		case "group":
			return p.parseNamedGroup()
		case "attributeGroup":
			return p.parseNamedAttrGroup()
		case "import":
			ns, _ := p.attr("namespace")
			loc, _ := p.attr("schemaLocation")
			p.schema.Imports = append(p.schema.Imports, im.Location{Namespace: ns, URL: loc})
			return p.skip()
		case "include":
			loc, _ := p.attr("schemaLocation")
			p.schema.Includes = append(p.schema.Includes, im.Location{URL: loc})
			return p.skip()
		case "defaultOpenContent":
			oc, err := p.parseDefaultOpenContent()
			if err != nil {
				return err
			}
			p.schema.OpenContent = oc
			return nil
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: name, Depth: p.r.Depth()}
		}
	})
}

// parseElementDecl parses an <element> the reader is positioned on,
// whether top-level or a particle term. Occurrence attributes, if any,
// are ignored here; callers building particles read minOccurs/maxOccurs
// off the same start tag before descending.
func (p *parser) parseElementDecl() (*im.Element, error) {
	name, _ := p.attr("name")
	typ, hasType := p.attr("type")
	nillable := p.boolAttr("nillable")
	abstract := p.boolAttr("abstract")
	def, hasDef := p.attr("default")
	fixed, hasFixed := p.attr("fixed")

	el := &im.Element{
		Name:     im.QName{Space: p.schema.TargetNS, Local: name},
		Nillable: nillable,
		Abstract: abstract,
	}
	if hasDef {
		el.Default = im.StrPtr(def)
	}
	if hasFixed {
		el.Fixed = im.StrPtr(fixed)
	}
	if s, ok := p.attr("substitutionGroup"); ok {
		q, _ := p.r.ResolveQName(s)
		el.SubstitutionGroup = &q
	}

	var inlineType im.QName
	haveInline := false

	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "simpleType":
			st, err := p.parseSimpleType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(st)
			inlineType, haveInline = st.Name, true
			return nil
		case "complexType":
			ct, err := p.parseComplexType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddComplexType(ct)
			inlineType, haveInline = ct.Name, true
			return nil
		case "alternative":
			alt, err := p.parseAlternative()
			if err != nil {
				return err
			}
			el.TypeAlternatives = append(el.TypeAlternatives, alt)
			return nil
		case "annotation", "key", "keyref", "unique":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	if err != nil {
		return nil, err
	}

	switch {
	case haveInline:
		el.Type = inlineType
	case hasType:
		el.Type, _ = p.r.ResolveQName(typ)
	default:
		el.Type = qn("anyType")
	}
	return el, nil
}

func (p *parser) parseAlternative() (im.TypeAlternative, error) {
	var alt im.TypeAlternative
	if test, ok := p.attr("test"); ok {
		alt.Test = im.StrPtr(test)
	}
	if typ, ok := p.attr("type"); ok {
		alt.Type, _ = p.r.ResolveQName(typ)
	}
	return alt, p.skip()
}

// parseAttributeDecl parses a top-level <attribute>, represented as an
// *im.Element per spec.md section 3.2's note that attribute declarations
// share every field element declarations need except content-model
// placement.
func (p *parser) parseAttributeDecl() (*im.Element, error) {
	name, _ := p.attr("name")
	typ, hasType := p.attr("type")
	def, hasDef := p.attr("default")
	fixed, hasFixed := p.attr("fixed")

	el := &im.Element{Name: im.QName{Space: p.schema.TargetNS, Local: name}}
	if hasDef {
		el.Default = im.StrPtr(def)
	}
	if hasFixed {
		el.Fixed = im.StrPtr(fixed)
	}

	var inlineType im.QName
	haveInline := false
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "simpleType":
			st, err := p.parseSimpleType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(st)
			inlineType, haveInline = st.Name, true
			return nil
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	if err != nil {
		return nil, err
	}
	switch {
	case haveInline:
		el.Type = inlineType
	case hasType:
		el.Type, _ = p.r.ResolveQName(typ)
	default:
		el.Type = qn("anySimpleType")
	}
	return el, nil
}

// parseSimpleType parses the <simpleType> the reader is positioned on,
// dispatching on its single restriction/list/union child.
func (p *parser) parseSimpleType(name im.QName) (*im.SimpleType, error) {
	var result *im.SimpleType
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "restriction":
			base, facets, err := p.parseRestrictionFacets()
			if err != nil {
				return err
			}
			result = im.NewSimpleType(im.SimpleType{Name: name, Variety: im.Atomic, Base: base, Facets: facets})
			return nil
		case "list":
			item, err := p.parseListBody(name)
			if err != nil {
				return err
			}
			result = im.NewSimpleType(im.SimpleType{Name: name, Variety: im.List, Item: &item})
			return nil
		case "union":
			members, err := p.parseUnionBody(name)
			if err != nil {
				return err
			}
			result = im.NewSimpleType(im.SimpleType{Name: name, Variety: im.Union, Members: members})
			return nil
		case "annotation":
			return p.skip()
		default:
			return &UnsupportedConstructError{Name: child, Depth: p.r.Depth()}
		}
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("xsdfrontend: simpleType %s has no restriction/list/union", name)
	}
	return result, nil
}

// parseRestrictionFacets parses a <restriction> whose parent is a
// <simpleType>: a base (by reference or inline simpleType) plus zero or
// more facet elements.
func (p *parser) parseRestrictionFacets() (im.QName, im.FacetSet, error) {
	var base im.QName
	if b, ok := p.attr("base"); ok {
		base, _ = p.r.ResolveQName(b)
	}
	var facets im.FacetSet
	err := p.childLoop(func(child im.QName) error {
		if child.Space != NS {
			return p.skip()
		}
		switch child.Local {
		case "simpleType":
			inline, err := p.parseSimpleType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(inline)
			base = inline.Name
			return nil
		case "annotation":
			return p.skip()
		default:
			return p.parseFacet(child, &facets)
		}
	})
	if err != nil {
		return im.QName{}, im.FacetSet{}, err
	}
	return base, facets, nil
}

var facetNames = map[string]bool{
	"enumeration": true, "pattern": true,
	"minInclusive": true, "maxInclusive": true,
	"minExclusive": true, "maxExclusive": true,
	"length": true, "minLength": true, "maxLength": true,
	"totalDigits": true, "fractionDigits": true,
	"whiteSpace": true,
}

func (p *parser) parseFacet(name im.QName, facets *im.FacetSet) error {
	if !facetNames[name.Local] {
		return &UnsupportedConstructError{Name: name, Depth: p.r.Depth()}
	}
	value, _ := p.attr("value")
	switch name.Local {
	case "enumeration":
		facets.Enumeration = append(facets.Enumeration, value)
	case "pattern":
		re, err := regexp.Compile(value)
		if err != nil {
			return fmt.Errorf("xsdfrontend: invalid pattern facet %q: %w", value, err)
		}
		facets.Pattern = re
	case "minInclusive":
		facets.MinInclusive = im.StrPtr(value)
	case "maxInclusive":
		facets.MaxInclusive = im.StrPtr(value)
	case "minExclusive":
		facets.MinExclusive = im.StrPtr(value)
	case "maxExclusive":
		facets.MaxExclusive = im.StrPtr(value)
	case "length":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("xsdfrontend: invalid length facet %q: %w", value, err)
		}
		facets.Length = im.IntPtr(n)
	case "minLength":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("xsdfrontend: invalid minLength facet %q: %w", value, err)
		}
		facets.MinLength = im.IntPtr(n)
	case "maxLength":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("xsdfrontend: invalid maxLength facet %q: %w", value, err)
		}
		facets.MaxLength = im.IntPtr(n)
	case "totalDigits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("xsdfrontend: invalid totalDigits facet %q: %w", value, err)
		}
		facets.TotalDigits = im.IntPtr(n)
	case "fractionDigits":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("xsdfrontend: invalid fractionDigits facet %q: %w", value, err)
		}
		facets.FractionDigits = im.IntPtr(n)
	case "whiteSpace":
		// Not part of im.FacetSet: whiteSpace governs lexical
		// normalization, not validation, and every XSD datatype binding
		// already fixes it implicitly.
	}
	return p.skip()
}

func (p *parser) parseListBody(name im.QName) (im.QName, error) {
	if itemType, ok := p.attr("itemType"); ok {
		item, _ := p.r.ResolveQName(itemType)
		return item, p.skip()
	}
	var item im.QName
	err := p.childLoop(func(child im.QName) error {
		if child.Space == NS && child.Local == "simpleType" {
			inline, err := p.parseSimpleType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(inline)
			item = inline.Name
			return nil
		}
		return p.skip()
	})
	return item, err
}

func (p *parser) parseUnionBody(name im.QName) ([]im.QName, error) {
	var members []im.QName
	if memberTypes, ok := p.attr("memberTypes"); ok {
		for _, tok := range splitWS(memberTypes) {
			q, _ := p.r.ResolveQName(tok)
			members = append(members, q)
		}
	}
	err := p.childLoop(func(child im.QName) error {
		if child.Space == NS && child.Local == "simpleType" {
			inline, err := p.parseSimpleType(p.anonName())
			if err != nil {
				return err
			}
			p.schema.AddSimpleType(inline)
			members = append(members, inline.Name)
			return nil
		}
		return p.skip()
	})
	return members, err
}

func splitWS(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
