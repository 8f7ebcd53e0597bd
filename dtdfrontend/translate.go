package dtdfrontend

import (
	"xb.dev/xb/im"
)

var stringType = im.QName{Space: im.XSDNamespace, Local: "string"}

// dtdAttBuiltins maps the DTD attribute type tags that correspond
// directly to an XSD built-in datatype. ENUMERATION and NOTATION are
// handled separately since they synthesize a named simple type instead.
var dtdAttBuiltins = map[AttType]string{
	AttCDATA:    "string",
	AttID:       "ID",
	AttIDREF:    "IDREF",
	AttIDREFS:   "IDREFS",
	AttNMTOKEN:  "NMTOKEN",
	AttNMTOKENS: "NMTOKENS",
	AttENTITY:   "ENTITY",
	AttENTITIES: "ENTITIES",
	AttNOTATION: "NOTATION",
}

// Translate lowers a parsed DTD into the intermediate model, following
// spec.md section 4.8's mapping: each element declaration becomes a
// top-level element referring to a complex type named "<elem>Type";
// pure (#PCDATA) elements with no attributes collapse directly to
// xs:string instead of an empty wrapper type; enumeration (and
// NOTATION) attributes synthesize a restricted simple type named
// "<attr>Type"; unknown child elements in a content model resolve to
// xs:string; multiple ATTLISTs for one element have already been
// merged in declaration order by Document.addAttDefs.
func Translate(doc *Document) *im.Schema {
	schema := im.NewSchema("")

	for _, name := range doc.ElementOrder {
		decl := doc.Elements[name]
		attDefs := doc.AttLists[name]
		qn := im.QName{Local: name}

		if decl.Kind == ContentMixedDTD && len(decl.Mixed) == 0 && len(attDefs) == 0 {
			schema.AddElement(&im.Element{Name: qn, Type: stringType})
			continue
		}

		ct := &im.ComplexType{Name: im.QName{Local: name + "Type"}}
		switch decl.Kind {
		case ContentEmptyDTD:
			ct.Content = im.ContentType{Kind: im.ContentEmpty}
		case ContentAny:
			ct.Content = anyContentType()
		case ContentMixedDTD:
			ct.Mixed = true
			ct.Content = mixedContentType(decl.Mixed)
		case ContentChildren:
			ct.Content = childrenContentType(decl.Content, doc)
		}

		for _, def := range attDefs {
			use, synth := translateAttDef(name, def)
			if synth != nil {
				schema.AddSimpleType(synth)
			}
			ct.Attributes = append(ct.Attributes, use)
		}

		schema.AddComplexType(ct)
		schema.AddElement(&im.Element{Name: qn, Type: ct.Name})
	}
	return schema
}

func anyContentType() im.ContentType {
	return im.ContentType{
		Kind: im.ContentMixed,
		ModelGroup: &im.ModelGroup{
			Compositor: im.Sequence,
			Particles: []im.Particle{{
				Term:      im.Term{Kind: im.TermWildcard, Wildcard: &im.Wildcard{NSConstraint: im.NSAny, Process: im.ProcessLax}},
				MinOccurs: 0,
				MaxOccurs: im.Unbounded,
			}},
		},
	}
}

func mixedContentType(names []string) im.ContentType {
	group := &im.ModelGroup{Compositor: im.Choice}
	for _, n := range names {
		group.Particles = append(group.Particles, im.Particle{
			Term:      im.Term{Kind: im.TermElementRef, ElementRef: im.QName{Local: n}},
			MinOccurs: 0,
			MaxOccurs: im.Unbounded,
		})
	}
	return im.ContentType{Kind: im.ContentMixed, ModelGroup: group}
}

func childrenContentType(top *Particle, doc *Document) im.ContentType {
	group := translateGroup(top, doc)
	min, max := quantRange(top.Quant)
	if min != 1 || max != 1 {
		group = &im.ModelGroup{
			Compositor: im.Sequence,
			Particles: []im.Particle{{
				Term:      im.Term{Kind: im.TermModelGroup, Group: group},
				MinOccurs: min,
				MaxOccurs: max,
			}},
		}
	}
	return im.ContentType{Kind: im.ContentElementOnly, ModelGroup: group}
}

// translateGroup lowers one DTD particle group (a "," or "|" separated
// list of items) into a model group, recursing into nested groups. The
// group's own quantifier is applied by the caller, since im.ModelGroup
// carries no occurrence range of its own.
func translateGroup(p *Particle, doc *Document) *im.ModelGroup {
	compositor := im.Sequence
	if p.Choice {
		compositor = im.Choice
	}
	group := &im.ModelGroup{Compositor: compositor}
	for _, child := range p.Children {
		group.Particles = append(group.Particles, translateParticle(child, doc))
	}
	return group
}

func translateParticle(p *Particle, doc *Document) im.Particle {
	min, max := quantRange(p.Quant)
	if p.Children != nil {
		return im.Particle{
			Term:      im.Term{Kind: im.TermModelGroup, Group: translateGroup(p, doc)},
			MinOccurs: min,
			MaxOccurs: max,
		}
	}
	if _, declared := doc.Elements[p.Name]; declared {
		return im.Particle{
			Term:      im.Term{Kind: im.TermElementRef, ElementRef: im.QName{Local: p.Name}},
			MinOccurs: min,
			MaxOccurs: max,
		}
	}
	// Unknown child element: translation miss, degrade to an inline
	// xs:string element rather than failing the whole document.
	return im.Particle{
		Term:      im.Term{Kind: im.TermElement, Element: &im.Element{Name: im.QName{Local: p.Name}, Type: stringType}},
		MinOccurs: min,
		MaxOccurs: max,
	}
}

func quantRange(q Quant) (min, max int) {
	switch q {
	case QuantOptional:
		return 0, 1
	case QuantStar:
		return 0, im.Unbounded
	case QuantPlus:
		return 1, im.Unbounded
	default:
		return 1, 1
	}
}

func translateAttDef(elemName string, def AttDef) (im.AttributeUse, *im.SimpleType) {
	var typeName im.QName
	var synth *im.SimpleType

	if def.Type == AttENUMERATION || def.Type == AttNOTATION {
		typeName = im.QName{Local: def.Name + "Type"}
		base := stringType
		if def.Type == AttNOTATION {
			base = im.QName{Space: im.XSDNamespace, Local: "NOTATION"}
		}
		synth = im.NewSimpleType(im.SimpleType{
			Name:    typeName,
			Variety: im.Atomic,
			Base:    base,
			Facets:  im.FacetSet{Enumeration: def.Enumeration},
		})
	} else {
		typeName = im.QName{Space: im.XSDNamespace, Local: dtdAttBuiltins[def.Type]}
	}

	var defaultVal, fixedVal *string
	switch def.Default {
	case DefaultFixed:
		v := def.Value
		fixedVal = &v
	case DefaultValue:
		v := def.Value
		defaultVal = &v
	}

	use := im.NewAttributeUse(im.AttributeUse{
		Name:     im.QName{Local: def.Name},
		Type:     typeName,
		Required: def.Default == DefaultRequired,
		Default:  defaultVal,
		Fixed:    fixedVal,
	})
	return use, synth
}
