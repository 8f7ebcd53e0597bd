// Package compact implements a hand-written tokenizer and
// recursive-descent parser for RELAX NG compact syntax, per spec.md
// section 4.6. It produces the same rng.Grammar/rng.Pattern tree the
// XML-syntax parser (rng.ParseXML) builds, and is contractually required
// to produce the same set of define names for the same logical schema.
package compact

import (
	"fmt"
	"strings"

	"xb.dev/xb/rng"
)

// Parse parses RELAX NG compact syntax source into a Grammar.
func Parse(src []byte) (*rng.Grammar, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, nsMap: map[string]string{}, datatypeMap: map[string]string{}}
	if err := p.parsePreamble(); err != nil {
		return nil, err
	}
	return p.parseTop()
}

type parser struct {
	toks []token
	pos  int

	defaultNS   string
	nsMap       map[string]string
	datatypeMap map[string]string
}

func (p *parser) peek() token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token{kind: tokEOF}
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset < len(p.toks) {
		return p.toks[p.pos+offset]
	}
	return token{kind: tokEOF}
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) atKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokIdent && t.text == kw
}

func (p *parser) atPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return fmt.Errorf("compact: expected %q, got %q", s, p.peek().text)
	}
	p.next()
	return nil
}

func (p *parser) expectIdent() (string, error) {
	if p.peek().kind != tokIdent {
		return "", fmt.Errorf("compact: expected identifier, got %q", p.peek().text)
	}
	return p.next().text, nil
}

func (p *parser) expectString() (string, error) {
	if p.peek().kind != tokString {
		return "", fmt.Errorf("compact: expected string literal, got %q", p.peek().text)
	}
	return p.next().text, nil
}

// parsePreamble consumes the leading run of "default namespace",
// "namespace", and "datatypes" declarations.
func (p *parser) parsePreamble() error {
	for {
		switch {
		case p.atKeyword("default"):
			p.next()
			if _, err := p.expectKeyword("namespace"); err != nil {
				return err
			}
			prefix := ""
			if p.peek().kind == tokIdent {
				prefix = p.next().text
			}
			if err := p.expectPunct("="); err != nil {
				return err
			}
			uri, err := p.expectString()
			if err != nil {
				return err
			}
			p.defaultNS = uri
			if prefix != "" {
				p.nsMap[prefix] = uri
			}
		case p.atKeyword("namespace"):
			p.next()
			prefix, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.expectPunct("="); err != nil {
				return err
			}
			uri, err := p.expectString()
			if err != nil {
				return err
			}
			p.nsMap[prefix] = uri
		case p.atKeyword("datatypes"):
			p.next()
			prefix, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.expectPunct("="); err != nil {
				return err
			}
			uri, err := p.expectString()
			if err != nil {
				return err
			}
			p.datatypeMap[prefix] = uri
		default:
			return nil
		}
	}
}

func (p *parser) expectKeyword(kw string) (string, error) {
	if !p.atKeyword(kw) {
		return "", fmt.Errorf("compact: expected %q, got %q", kw, p.peek().text)
	}
	return p.next().text, nil
}

// parseTop parses the grammar body: either a sequence of start/define
// (and div/include) declarations, or, when the source has no such
// declarations, a single bare pattern standing for "start = pattern".
func (p *parser) parseTop() (*rng.Grammar, error) {
	g := &rng.Grammar{Defines: make(map[string]*rng.Define)}
	if p.peek().kind == tokEOF {
		return g, nil
	}
	if p.looksLikeDecl() {
		if err := p.parseGrammarContent(g, ""); err != nil {
			return nil, err
		}
		return g, nil
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	g.Start = pat
	return g, nil
}

// looksLikeDecl reports whether the upcoming tokens are "ident ('='|
// '|='|'&=')", i.e. a start or define declaration rather than a bare
// pattern.
func (p *parser) looksLikeDecl() bool {
	if p.peek().kind != tokIdent {
		return false
	}
	next := p.peekAt(1)
	return next.kind == tokPunct && (next.text == "=" || next.text == "|=" || next.text == "&=")
}

// parseGrammarContent parses start/define/div/include declarations until
// EOF (closeTok == "") or the given closing punctuation is reached
// (inside a nested "grammar { ... }" or "div { ... }" block).
func (p *parser) parseGrammarContent(g *rng.Grammar, closeTok string) error {
	var startBodies []*rng.Pattern
	var startCombines []rng.Combine

	for {
		if closeTok != "" && p.atPunct(closeTok) {
			break
		}
		if p.peek().kind == tokEOF {
			break
		}
		switch {
		case p.atKeyword("div"):
			p.next()
			if err := p.expectPunct("{"); err != nil {
				return err
			}
			sub := &rng.Grammar{Defines: make(map[string]*rng.Define)}
			if err := p.parseGrammarContent(sub, "}"); err != nil {
				return err
			}
			if err := p.expectPunct("}"); err != nil {
				return err
			}
			mergeGrammar(g, sub)
			continue
		case p.atKeyword("include"):
			p.next()
			if _, err := p.expectString(); err != nil {
				return err
			}
			if p.atPunct("{") {
				p.next()
				sub := &rng.Grammar{Defines: make(map[string]*rng.Define)}
				if err := p.parseGrammarContent(sub, "}"); err != nil {
					return err
				}
				if err := p.expectPunct("}"); err != nil {
					return err
				}
				mergeGrammar(g, sub)
			}
			continue
		}

		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		combine := rng.CombineNone
		switch {
		case p.atPunct("="):
			p.next()
		case p.atPunct("|="):
			p.next()
			combine = rng.CombineChoice
		case p.atPunct("&="):
			p.next()
			combine = rng.CombineInterleave
		default:
			return fmt.Errorf("compact: expected '=', '|=', or '&=' after %q", name)
		}
		body, err := p.parsePattern()
		if err != nil {
			return err
		}
		if name == "start" {
			startBodies = append(startBodies, body)
			startCombines = append(startCombines, combine)
		} else {
			addDefine(g, name, combine, body)
		}
	}

	switch len(startBodies) {
	case 0:
	case 1:
		g.Start = startBodies[0]
	default:
		kind := rng.KindChoice
		for _, c := range startCombines {
			if c == rng.CombineInterleave {
				kind = rng.KindInterleave
			}
		}
		g.Start = &rng.Pattern{Kind: kind, Patterns: startBodies}
	}
	return nil
}

// addDefine mirrors rng's own (unexported) Grammar.addDefine: this
// parser lives in a sibling package and builds Grammar/Define values
// through their exported fields directly rather than duplicating state
// across a package boundary.
func addDefine(g *rng.Grammar, name string, combine rng.Combine, body *rng.Pattern) {
	d, ok := g.Defines[name]
	if !ok {
		d = &rng.Define{Name: name}
		g.Defines[name] = d
		g.DefineOrder = append(g.DefineOrder, name)
	}
	if combine != rng.CombineNone {
		d.Combine = combine
	}
	d.Bodies = append(d.Bodies, body)
	d.Combines = append(d.Combines, combine)
}

// mergeGrammar folds src's start pattern and defines into dst, as a
// "div"/"include" block does.
func mergeGrammar(dst, src *rng.Grammar) {
	if dst.Start == nil && src.Start != nil {
		dst.Start = src.Start
	}
	for _, name := range src.DefineOrder {
		d := src.Defines[name]
		for i, b := range d.Bodies {
			c := rng.CombineNone
			if i < len(d.Combines) {
				c = d.Combines[i]
			}
			addDefine(dst, name, c, b)
		}
	}
}

// parsePattern parses one full pattern (the "|" precedence level, the
// loosest of the three binary combinators).
func (p *parser) parsePattern() (*rng.Pattern, error) {
	return p.parseChoice()
}

func (p *parser) parseChoice() (*rng.Pattern, error) {
	first, err := p.parseInterleave()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("|") {
		return first, nil
	}
	patterns := []*rng.Pattern{first}
	for p.atPunct("|") {
		p.next()
		next, err := p.parseInterleave()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, next)
	}
	return &rng.Pattern{Kind: rng.KindChoice, Patterns: patterns}, nil
}

func (p *parser) parseInterleave() (*rng.Pattern, error) {
	first, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	if !p.atPunct("&") {
		return first, nil
	}
	patterns := []*rng.Pattern{first}
	for p.atPunct("&") {
		p.next()
		next, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, next)
	}
	return &rng.Pattern{Kind: rng.KindInterleave, Patterns: patterns}, nil
}

func (p *parser) parseGroup() (*rng.Pattern, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.atPunct(",") {
		return first, nil
	}
	patterns := []*rng.Pattern{first}
	for p.atPunct(",") {
		p.next()
		next, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, next)
	}
	return &rng.Pattern{Kind: rng.KindGroup, Patterns: patterns}, nil
}

func (p *parser) parsePostfix() (*rng.Pattern, error) {
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch {
	case p.atPunct("?"):
		p.next()
		return &rng.Pattern{Kind: rng.KindOptional, Body: prim}, nil
	case p.atPunct("*"):
		p.next()
		return &rng.Pattern{Kind: rng.KindZeroOrMore, Body: prim}, nil
	case p.atPunct("+"):
		p.next()
		return &rng.Pattern{Kind: rng.KindOneOrMore, Body: prim}, nil
	}
	return prim, nil
}

func (p *parser) parsePrimary() (*rng.Pattern, error) {
	switch {
	case p.atPunct("("):
		p.next()
		inner, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	case p.atKeyword("element"):
		p.next()
		nc, err := p.parseNameClass()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		body, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindElement, NameClass: nc, Patterns: []*rng.Pattern{body}}, nil
	case p.atKeyword("attribute"):
		p.next()
		nc, err := p.parseNameClass()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		body, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindAttribute, NameClass: nc, Patterns: []*rng.Pattern{body}}, nil
	case p.atKeyword("list"):
		p.next()
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		body, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindList, Body: body}, nil
	case p.atKeyword("mixed"):
		p.next()
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		body, err := p.parseChoice()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindMixed, Patterns: []*rng.Pattern{body}}, nil
	case p.atKeyword("empty"):
		p.next()
		return &rng.Pattern{Kind: rng.KindEmpty}, nil
	case p.atKeyword("text"):
		p.next()
		return &rng.Pattern{Kind: rng.KindText}, nil
	case p.atKeyword("notAllowed"):
		p.next()
		return &rng.Pattern{Kind: rng.KindNotAllowed}, nil
	case p.atKeyword("external"):
		p.next()
		href, err := p.expectString()
		if err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindExternalRef, Href: href}, nil
	case p.atKeyword("parent"):
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindParentRef, RefName: name}, nil
	case p.atKeyword("grammar"):
		p.next()
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		sub := &rng.Grammar{Defines: make(map[string]*rng.Define)}
		if err := p.parseGrammarContent(sub, "}"); err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return &rng.Pattern{Kind: rng.KindGrammar, Grammar: sub}, nil
	case p.peek().kind == tokString:
		tok := p.next()
		return &rng.Pattern{Kind: rng.KindValue, Value: tok.text}, nil
	case p.peek().kind == tokIdent:
		name := p.next().text
		switch {
		case p.peek().kind == tokString:
			tok := p.next()
			lib, typ := p.resolveDatatype(name)
			return &rng.Pattern{Kind: rng.KindValue, DataLibrary: lib, DataType: typ, Value: tok.text}, nil
		case p.atPunct("{"):
			p.next()
			params, err := p.parseDataParams()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("}"); err != nil {
				return nil, err
			}
			lib, typ := p.resolveDatatype(name)
			data := &rng.Pattern{Kind: rng.KindData, DataLibrary: lib, DataType: typ, Params: params}
			if p.atPunct("-") {
				p.next()
				except, err := p.parsePostfix()
				if err != nil {
					return nil, err
				}
				data.Except = except
			}
			return data, nil
		default:
			return &rng.Pattern{Kind: rng.KindRef, RefName: name}, nil
		}
	default:
		return nil, fmt.Errorf("compact: unexpected token %q", p.peek().text)
	}
}

// parseDataParams parses a brace-delimited run of "name stringLiteral"
// pairs, optionally comma-separated.
func (p *parser) parseDataParams() ([]rng.Param, error) {
	var params []rng.Param
	for !p.atPunct("}") {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		value, err := p.expectString()
		if err != nil {
			return nil, err
		}
		params = append(params, rng.Param{Name: name, Value: value})
		if p.atPunct(",") {
			p.next()
		}
	}
	return params, nil
}

// resolveDatatype splits a possibly-prefixed datatype name ("xsd:int")
// into its datatype library URI (via the "datatypes" preamble map) and
// local type name. An unprefixed name resolves to the empty (built-in
// RELAX NG datatype) library.
func (p *parser) resolveDatatype(name string) (library, typ string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		prefix, local := name[:i], name[i+1:]
		return p.datatypeMap[prefix], local
	}
	return "", name
}

// parseNameClass parses an element/attribute name class: a qualified
// name, "*", "prefix:*", or a parenthesized choice of name classes.
// Except clauses ("name - name") are supported on "*" and "prefix:*"
// only, matching the shapes the XML-syntax parser itself builds.
func (p *parser) parseNameClass() (rng.NameClass, error) {
	switch {
	case p.atPunct("*"):
		p.next()
		nc := rng.NameClass{Kind: rng.NCAnyName}
		if p.atPunct("-") {
			p.next()
			exc, err := p.parseNameClass()
			if err != nil {
				return rng.NameClass{}, err
			}
			nc.Except = &exc
		}
		return nc, nil
	case p.atPunct("("):
		p.next()
		first, err := p.parseNameClass()
		if err != nil {
			return rng.NameClass{}, err
		}
		choices := []rng.NameClass{first}
		for p.atPunct("|") {
			p.next()
			next, err := p.parseNameClass()
			if err != nil {
				return rng.NameClass{}, err
			}
			choices = append(choices, next)
		}
		if err := p.expectPunct(")"); err != nil {
			return rng.NameClass{}, err
		}
		if len(choices) == 1 {
			return choices[0], nil
		}
		return rng.NameClass{Kind: rng.NCChoice, Choices: choices}, nil
	case p.peek().kind == tokIdent:
		name := p.next().text
		if i := strings.IndexByte(name, ':'); i >= 0 {
			prefix, local := name[:i], name[i+1:]
			if local == "" && p.atPunct("*") {
				p.next()
				local = "*"
			}
			ns := p.nsMap[prefix]
			if local == "*" {
				nc := rng.NameClass{Kind: rng.NCNsName, NS: ns}
				if p.atPunct("-") {
					p.next()
					exc, err := p.parseNameClass()
					if err != nil {
						return rng.NameClass{}, err
					}
					nc.Except = &exc
				}
				return nc, nil
			}
			return rng.NameClass{Kind: rng.NCSpecificName, NS: ns, Name: local}, nil
		}
		return rng.NameClass{Kind: rng.NCSpecificName, NS: p.defaultNS, Name: name}, nil
	default:
		return rng.NameClass{}, fmt.Errorf("compact: expected a name class, got %q", p.peek().text)
	}
}
