package codegen

import (
	"go/ast"

	"xb.dev/xb/im"
	"xb.dev/xb/internal/gen"
)

// maxGroupDepth bounds named-group-reference flattening (see
// collectFields) so that a self-referential named group -- a legal but
// unusual RELAX NG/XSD pattern -- degrades to a placeholder field
// instead of recursing forever.
const maxGroupDepth = 8

// genComplexType lowers one top-level complex type into a Go struct:
// one field per attribute and per content-model particle, per spec.md
// section 4.13's third bullet. Optional particles/attributes take a
// pointer field (the option wrapper); repeating particles take a slice
// field (the sequence wrapper).
func genComplexType(cfg *Config, currentPkg string, ct *im.ComplexType, set *im.Set, reg map[im.QName]typeInfo) (decls []ast.Decl, imports []string, err error) {
	info := reg[ct.Name]
	var fields []ast.Expr

	for _, a := range ct.Attributes {
		typ, imp, ok := resolveType(cfg, currentPkg, a.Type, reg)
		if !ok {
			return nil, nil, &Error{Name: ct.Name, Msg: "attribute " + a.Name.Local + " has unknown type " + a.Type.String()}
		}
		if imp != "" {
			imports = append(imports, imp)
		}
		expr, err := goExpr(typ)
		if err != nil {
			return nil, nil, &Error{Name: ct.Name, Msg: err.Error()}
		}
		if !a.Required {
			expr = &ast.StarExpr{X: expr}
		}
		tag := `xml:"` + a.Name.Local + `,attr"`
		fields = append(fields, ast.NewIdent(ExportedIdent(a.Name.Local)), expr, gen.String(tag))
	}

	switch ct.Content.Kind {
	case im.ContentSimple:
		typ, imp, ok := resolveType(cfg, currentPkg, ct.Content.SimpleBase, reg)
		if !ok {
			return nil, nil, &Error{Name: ct.Name, Msg: "simple content base " + ct.Content.SimpleBase.String() + " has unknown type"}
		}
		if imp != "" {
			imports = append(imports, imp)
		}
		expr, err := goExpr(typ)
		if err != nil {
			return nil, nil, &Error{Name: ct.Name, Msg: err.Error()}
		}
		fields = append(fields, ast.NewIdent("Value"), expr, gen.String(`xml:",chardata"`))
	case im.ContentMixed:
		more, imps, err := collectFields(cfg, currentPkg, set, ct.Content.ModelGroup, reg, nil, 0)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, more...)
		imports = append(imports, imps...)
		fields = append(fields, ast.NewIdent("CharData"), ast.NewIdent("string"), gen.String(`xml:",chardata"`))
	case im.ContentElementOnly:
		more, imps, err := collectFields(cfg, currentPkg, set, ct.Content.ModelGroup, reg, nil, 0)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, more...)
		imports = append(imports, imps...)
	}

	if ct.AttributeWildcard != nil {
		fields = append(fields, ast.NewIdent("AnyAttr"), &ast.ArrayType{Elt: ast.NewIdent("xml.Attr")}, gen.String(`xml:",any,attr"`))
		imports = append(imports, "encoding/xml")
	}

	expr := gen.Struct(fields...)
	decls = append(decls, gen.TypeDecl(ast.NewIdent(info.goName), expr))

	if !cfg.suppressEqual {
		eq, err := genEqualMethod(info.goName, ct)
		if err != nil {
			return nil, nil, err
		}
		decls = append(decls, eq)
		imports = append(imports, "reflect")
	}
	return decls, imports, nil
}

// collectFields flattens a model group's particles into struct fields.
// Every compositor (sequence, choice, all, interleave) lowers to the
// same flat field list: Go has no sum-type struct fields, so a choice
// particle is represented the same way an optional one is -- a pointer
// field that is nil when that branch was not taken. This is a
// deliberate simplification; recovering
// mutual-exclusivity would require a oneof wrapper type this compiler
// does not generate.
func collectFields(cfg *Config, currentPkg string, set *im.Set, mg *im.ModelGroup, reg map[im.QName]typeInfo, seenGroups map[im.QName]bool, depth int) ([]ast.Expr, []string, error) {
	if mg == nil {
		return nil, nil, nil
	}
	var fields []ast.Expr
	var imports []string
	optional := mg.Compositor == im.Choice

	addField := func(localName string, elemType im.QName, min, max int) error {
		typ, imp, ok := resolveType(cfg, currentPkg, elemType, reg)
		if !ok {
			return &Error{Name: elemType, Msg: "element " + localName + " has unknown type"}
		}
		if imp != "" {
			imports = append(imports, imp)
		}
		expr, err := goExpr(typ)
		if err != nil {
			return err
		}
		repeated := max == im.Unbounded || max > 1
		if repeated {
			expr = &ast.ArrayType{Elt: expr}
		} else if optional || min == 0 {
			expr = &ast.StarExpr{X: expr}
		}
		tag := `xml:"` + localName + `"`
		fields = append(fields, ast.NewIdent(ExportedIdent(localName)), expr, gen.String(tag))
		return nil
	}

	for _, p := range mg.Particles {
		switch p.Term.Kind {
		case im.TermElement:
			el := p.Term.Element
			if err := addField(el.Name.Local, el.Type, p.MinOccurs, p.MaxOccurs); err != nil {
				return nil, nil, err
			}
		case im.TermElementRef:
			el := set.FindElement(p.Term.ElementRef)
			if el == nil {
				return nil, nil, &Error{Name: p.Term.ElementRef, Msg: "element reference does not resolve"}
			}
			if err := addField(p.Term.ElementRef.Local, el.Type, p.MinOccurs, p.MaxOccurs); err != nil {
				return nil, nil, err
			}
		case im.TermGroupRef:
			ref := p.Term.GroupRef
			if seenGroups[ref] || depth >= maxGroupDepth {
				fields = append(fields, ast.NewIdent(ExportedIdent(ref.Local)), ast.NewIdent("string"), gen.String(`xml:",innerxml"`))
				continue
			}
			g := set.FindModelGroup(ref)
			if g == nil {
				return nil, nil, &Error{Name: ref, Msg: "group reference does not resolve"}
			}
			nextSeen := make(map[im.QName]bool, len(seenGroups)+1)
			for k := range seenGroups {
				nextSeen[k] = true
			}
			nextSeen[ref] = true
			more, imps, err := collectFields(cfg, currentPkg, set, g, reg, nextSeen, depth+1)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, more...)
			imports = append(imports, imps...)
		case im.TermModelGroup:
			more, imps, err := collectFields(cfg, currentPkg, set, p.Term.Group, reg, seenGroups, depth+1)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, more...)
			imports = append(imports, imps...)
		case im.TermWildcard:
			name := "Any"
			repeated := p.MaxOccurs == im.Unbounded || p.MaxOccurs > 1
			var expr ast.Expr = ast.NewIdent("string")
			if repeated {
				name = "AnyItems"
				expr = &ast.ArrayType{Elt: ast.NewIdent("string")}
			}
			fields = append(fields, ast.NewIdent(name), expr, gen.String(`xml:",any"`))
		}
	}
	return fields, imports, nil
}

// goExpr parses a (possibly package-qualified) Go type name into an
// ast.Expr, so that field types built from resolveType's string result
// compose correctly with array/pointer wrapping.
func goExpr(typ string) (ast.Expr, error) {
	fl, err := gen.FieldList("_ " + typ)
	if err != nil {
		return nil, err
	}
	return fl.List[0].Type, nil
}
