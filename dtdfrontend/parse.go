package dtdfrontend

import (
	"fmt"
	"io"
	"strings"
)

// Parse reads a DTD (or the internal subset of a document carrying one)
// from r and returns its declaration set. Parameter-entity references
// are expanded textually before content-particle and attribute-list
// parsing, per spec.md section 4.5; they are never expanded inside
// attribute default values.
func Parse(r io.Reader) (*Document, error) {
	decls, err := scanDecls(r)
	if err != nil {
		return nil, err
	}
	pe := peEntities(decls)
	doc := newDocument()

	for _, d := range decls {
		switch d.keyword {
		case "ELEMENT":
			body, err := expandPE(d.body, pe)
			if err != nil {
				return nil, err
			}
			el, err := parseElementDecl(body)
			if err != nil {
				return nil, err
			}
			doc.addElement(el)
		case "ATTLIST":
			body, err := expandPE(d.body, pe)
			if err != nil {
				return nil, err
			}
			elem, defs, err := parseAttListDecl(body)
			if err != nil {
				return nil, err
			}
			doc.addAttDefs(elem, defs)
		case "ENTITY":
			body := strings.TrimSpace(d.body)
			if strings.HasPrefix(body, "%") {
				continue // parameter entity, already collected
			}
			name, rest := splitName(body)
			if value, ok := parseEntityValue(rest); ok {
				doc.Entities[name] = value
			}
		case "NOTATION":
			// Notations are not part of the intermediate model; DTD
			// NOTATION-typed attributes keep their enumerated values
			// without needing the notation's own declaration.
		}
	}
	return doc, nil
}

func parseElementDecl(body string) (*ElementDecl, error) {
	name, rest := splitName(strings.TrimSpace(body))
	if name == "" {
		return nil, fmt.Errorf("dtdfrontend: ELEMENT declaration missing name: %q", body)
	}
	kind, mixed, content, err := parseContentSpec(rest)
	if err != nil {
		return nil, fmt.Errorf("dtdfrontend: element %s: %w", name, err)
	}
	return &ElementDecl{Name: name, Kind: kind, Mixed: mixed, Content: content}, nil
}

func parseAttListDecl(body string) (string, []AttDef, error) {
	elem, rest := splitName(strings.TrimSpace(body))
	if elem == "" {
		return "", nil, fmt.Errorf("dtdfrontend: ATTLIST declaration missing element name: %q", body)
	}
	var defs []AttDef
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			break
		}
		def, remainder, err := parseAttDef(rest)
		if err != nil {
			return "", nil, fmt.Errorf("dtdfrontend: ATTLIST %s: %w", elem, err)
		}
		defs = append(defs, def)
		rest = remainder
	}
	return elem, defs, nil
}

// parseAttDef parses one "AttName AttType DefaultDecl" triple from the
// front of s, returning the remainder.
func parseAttDef(s string) (AttDef, string, error) {
	name, rest := splitName(s)
	rest = strings.TrimSpace(rest)

	var def AttDef
	def.Name = name

	switch {
	case strings.HasPrefix(rest, "("):
		// Enumeration: "(a|b|c)"
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return def, "", fmt.Errorf("unterminated enumeration in attribute %s", name)
		}
		def.Type = AttENUMERATION
		for _, tok := range strings.Split(rest[1:end], "|") {
			def.Enumeration = append(def.Enumeration, strings.TrimSpace(tok))
		}
		rest = strings.TrimSpace(rest[end+1:])
	case strings.HasPrefix(rest, "NOTATION"):
		rest = strings.TrimSpace(rest[len("NOTATION"):])
		if !strings.HasPrefix(rest, "(") {
			return def, "", fmt.Errorf("expected '(' after NOTATION in attribute %s", name)
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return def, "", fmt.Errorf("unterminated NOTATION enumeration in attribute %s", name)
		}
		def.Type = AttNOTATION
		for _, tok := range strings.Split(rest[1:end], "|") {
			def.Enumeration = append(def.Enumeration, strings.TrimSpace(tok))
		}
		rest = strings.TrimSpace(rest[end+1:])
	default:
		kw, remainder := splitKeyword(rest)
		t, ok := attTypeKeywords[kw]
		if !ok {
			return def, "", fmt.Errorf("unknown attribute type %q in attribute %s", kw, name)
		}
		def.Type = t
		rest = remainder
	}

	rest = strings.TrimSpace(rest)
	switch {
	case strings.HasPrefix(rest, "#REQUIRED"):
		def.Default = DefaultRequired
		rest = rest[len("#REQUIRED"):]
	case strings.HasPrefix(rest, "#IMPLIED"):
		def.Default = DefaultImplied
		rest = rest[len("#IMPLIED"):]
	case strings.HasPrefix(rest, "#FIXED"):
		rest = strings.TrimSpace(rest[len("#FIXED"):])
		v, remainder, err := readQuoted(rest)
		if err != nil {
			return def, "", fmt.Errorf("attribute %s: %w", name, err)
		}
		def.Default, def.Value = DefaultFixed, v
		rest = remainder
	default:
		v, remainder, err := readQuoted(rest)
		if err != nil {
			return def, "", fmt.Errorf("attribute %s: %w", name, err)
		}
		def.Default, def.Value = DefaultValue, v
		rest = remainder
	}
	return def, rest, nil
}

var attTypeKeywords = map[string]AttType{
	"CDATA":    AttCDATA,
	"ID":       AttID,
	"IDREF":    AttIDREF,
	"IDREFS":   AttIDREFS,
	"NMTOKEN":  AttNMTOKEN,
	"NMTOKENS": AttNMTOKENS,
	"ENTITY":   AttENTITY,
	"ENTITIES": AttENTITIES,
}

func readQuoted(s string) (value, rest string, err error) {
	if s == "" || (s[0] != '\'' && s[0] != '"') {
		return "", "", fmt.Errorf("expected quoted value at %q", s)
	}
	q := s[0]
	end := strings.IndexByte(s[1:], q)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated quoted value")
	}
	return s[1 : end+1], s[end+2:], nil
}
