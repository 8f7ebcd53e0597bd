package rng

import (
	"fmt"

	"xb.dev/xb/im"
	"xb.dev/xb/xmlevent"
)

// NS is the RELAX NG structure namespace.
const NS = "http://relaxng.org/ns/structure/1.0"

// ParseError wraps an underlying error with the position it occurred at.
type ParseError struct {
	Pos string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("rng: %s: %v", e.Pos, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedConstructError reports an element in the RELAX NG namespace
// that the walker does not recognize.
type UnsupportedConstructError struct {
	Name  im.QName
	Depth int
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("rng: unsupported element %s at depth %d", e.Name, e.Depth)
}

type xmlParser struct {
	r  xmlevent.Reader
	ns string // current default datatypeLibrary / ns scope, tracked via attribute inheritance only for the element we're on
}

// ParseXML builds a Grammar from a RELAX NG document in XML syntax. If
// the document element is <grammar>, its defines and start pattern are
// read directly; otherwise the document element is a single pattern,
// which is wrapped as the start pattern of an implicit grammar with no
// defines, matching the simplifier's own "implicit grammar" rule.
func ParseXML(r xmlevent.Reader) (*Grammar, error) {
	p := &xmlParser{r: r}
	for r.Advance() {
		if r.NodeType() != xmlevent.Start {
			continue
		}
		name := r.Name()
		if name.Space != NS {
			return nil, &ParseError{Pos: xmlevent.Pos(r), Err: fmt.Errorf("document element %s is not in the RELAX NG namespace", name)}
		}
		if name.Local == "grammar" {
			g, err := p.parseGrammarBody()
			if err != nil {
				return nil, &ParseError{Pos: xmlevent.Pos(r), Err: err}
			}
			return g, nil
		}
		pat, err := p.parsePattern(name)
		if err != nil {
			return nil, &ParseError{Pos: xmlevent.Pos(r), Err: err}
		}
		g := newGrammar()
		g.Start = pat
		return g, nil
	}
	return nil, &ParseError{Pos: xmlevent.Pos(r), Err: fmt.Errorf("empty document")}
}

func (p *xmlParser) attr(local string) (string, bool) {
	for i := 0; i < p.r.NumAttr(); i++ {
		n := p.r.AttrName(i)
		if n.Local == local && (n.Space == "" || n.Space == NS) {
			return p.r.AttrValue(i), true
		}
	}
	return "", false
}

// childLoop drains the reader from just after a Start event to its
// matching End event, invoking fn once per direct child Start event. fn
// must itself leave the reader positioned at its own End event before
// returning.
func (p *xmlParser) childLoop(fn func(name im.QName) error) error {
	depth := p.r.Depth()
	for p.r.Advance() {
		switch p.r.NodeType() {
		case xmlevent.Start:
			if err := fn(p.r.Name()); err != nil {
				return err
			}
		case xmlevent.End:
			if p.r.Depth() == depth {
				return nil
			}
		}
	}
	return p.r.Err()
}

func (p *xmlParser) skip() error {
	return p.childLoop(func(im.QName) error { return p.skip() })
}

// textContent drains an already-opened element to its own End event,
// concatenating any Text events found directly inside it and skipping
// any nested element subtrees. Used for leaf elements whose payload is
// character data (<name>, <param>, <value>).
func (p *xmlParser) textContent() (string, error) {
	depth := p.r.Depth()
	var text string
	for p.r.Advance() {
		switch p.r.NodeType() {
		case xmlevent.Text:
			text += p.r.Text()
		case xmlevent.Start:
			if err := p.skip(); err != nil {
				return "", err
			}
		case xmlevent.End:
			if p.r.Depth() == depth {
				return text, nil
			}
		}
	}
	return "", p.r.Err()
}

func (p *xmlParser) parseGrammarBody() (*Grammar, error) {
	g := newGrammar()
	err := p.childLoop(func(name im.QName) error {
		if name.Space != NS {
			return p.skip()
		}
		switch name.Local {
		case "start":
			combine := combineOf(p)
			pat, err := p.parseSingleChildPattern()
			if err != nil {
				return err
			}
			if g.Start == nil {
				g.Start = pat
			} else if combine == CombineChoice {
				g.Start = &Pattern{Kind: KindChoice, Patterns: []*Pattern{g.Start, pat}}
			} else {
				g.Start = &Pattern{Kind: KindInterleave, Patterns: []*Pattern{g.Start, pat}}
			}
			return nil
		case "define":
			defName, _ := p.attr("name")
			combine := combineOf(p)
			pat, err := p.parseSingleChildPattern()
			if err != nil {
				return err
			}
			g.addDefine(defName, combine, pat)
			return nil
		case "div", "include":
			sub, err := p.parseGrammarBody()
			if err != nil {
				return err
			}
			mergeGrammar(g, sub)
			return nil
		default:
			return p.skip()
		}
	})
	return g, err
}

func mergeGrammar(dst, src *Grammar) {
	if dst.Start == nil {
		dst.Start = src.Start
	}
	for _, name := range src.DefineOrder {
		d := src.Defines[name]
		for _, body := range d.Bodies {
			dst.addDefine(name, d.Combine, body)
		}
	}
}

func combineOf(p *xmlParser) Combine {
	switch v, _ := p.attr("combine"); v {
	case "choice":
		return CombineChoice
	case "interleave":
		return CombineInterleave
	default:
		return CombineNone
	}
}

// parseSingleChildPattern parses the (possibly single, possibly
// implicitly-grouped) pattern children of an element that itself carries
// exactly one logical pattern, such as <start> or <define>. Multiple
// child patterns are treated as an implicit group, per RELAX NG's own
// grouping convention for container elements.
func (p *xmlParser) parseSingleChildPattern() (*Pattern, error) {
	var patterns []*Pattern
	err := p.childLoop(func(name im.QName) error {
		if name.Space != NS {
			return p.skip()
		}
		pat, err := p.parsePattern(name)
		if err != nil {
			return err
		}
		patterns = append(patterns, pat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch len(patterns) {
	case 0:
		return &Pattern{Kind: KindEmpty}, nil
	case 1:
		return patterns[0], nil
	default:
		return &Pattern{Kind: KindGroup, Patterns: patterns}, nil
	}
}

// parsePattern dispatches on the already-opened element name, returning
// its pattern. The reader must be left at the element's own End event.
func (p *xmlParser) parsePattern(name im.QName) (*Pattern, error) {
	switch name.Local {
	case "element":
		nc, err := p.parseNameClassAttrOrChild()
		if err != nil {
			return nil, err
		}
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindElement, NameClass: nc, Patterns: []*Pattern{body}}, nil
	case "attribute":
		nc, err := p.parseNameClassAttrOrChild()
		if err != nil {
			return nil, err
		}
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindAttribute, NameClass: nc, Patterns: []*Pattern{body}}, nil
	case "group":
		return p.parseChildren(KindGroup)
	case "interleave":
		return p.parseChildren(KindInterleave)
	case "choice":
		return p.parseChildren(KindChoice)
	case "mixed":
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindMixed, Patterns: []*Pattern{body}}, nil
	case "optional":
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindOptional, Body: body}, nil
	case "zeroOrMore":
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindZeroOrMore, Body: body}, nil
	case "oneOrMore":
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindOneOrMore, Body: body}, nil
	case "list":
		body, err := p.parseSingleChildPattern()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindList, Body: body}, nil
	case "ref":
		n, _ := p.attr("name")
		if err := p.skip(); err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindRef, RefName: n}, nil
	case "parentRef":
		n, _ := p.attr("name")
		if err := p.skip(); err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindParentRef, RefName: n}, nil
	case "empty":
		return &Pattern{Kind: KindEmpty}, p.skip()
	case "text":
		return &Pattern{Kind: KindText}, p.skip()
	case "notAllowed":
		return &Pattern{Kind: KindNotAllowed}, p.skip()
	case "data":
		return p.parseData()
	case "value":
		return p.parseValue()
	case "externalRef":
		href, _ := p.attr("href")
		ns, _ := p.attr("ns")
		if err := p.skip(); err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindExternalRef, Href: href, NS: ns}, nil
	case "grammar":
		g, err := p.parseGrammarBody()
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindGrammar, Grammar: g}, nil
	default:
		depth := p.r.Depth()
		_ = p.skip()
		return nil, &UnsupportedConstructError{Name: name, Depth: depth}
	}
}

func (p *xmlParser) parseChildren(kind Kind) (*Pattern, error) {
	var patterns []*Pattern
	err := p.childLoop(func(name im.QName) error {
		if name.Space != NS {
			return p.skip()
		}
		pat, err := p.parsePattern(name)
		if err != nil {
			return err
		}
		patterns = append(patterns, pat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Pattern{Kind: kind, Patterns: patterns}, nil
}

func (p *xmlParser) parseData() (*Pattern, error) {
	lib, _ := p.attr("datatypeLibrary")
	typ, _ := p.attr("type")
	pat := &Pattern{Kind: KindData, DataLibrary: lib, DataType: typ}
	err := p.childLoop(func(name im.QName) error {
		if name.Space != NS {
			return p.skip()
		}
		switch name.Local {
		case "param":
			n, _ := p.attr("name")
			val, err := p.textContent()
			if err != nil {
				return err
			}
			pat.Params = append(pat.Params, Param{Name: n, Value: val})
			return nil
		case "except":
			ex, err := p.parseSingleChildPattern()
			if err != nil {
				return err
			}
			pat.Except = ex
			return nil
		default:
			return p.skip()
		}
	})
	return pat, err
}

func (p *xmlParser) parseValue() (*Pattern, error) {
	lib, _ := p.attr("datatypeLibrary")
	typ, _ := p.attr("type")
	text, err := p.textContent()
	return &Pattern{Kind: KindValue, DataLibrary: lib, DataType: typ, Value: text}, err
}

// parseNameClassAttrOrChild reads the name class for an element or
// attribute pattern, either from its "name" attribute (with "ns" giving
// the namespace) or from a nested name-class child element.
func (p *xmlParser) parseNameClassAttrOrChild() (NameClass, error) {
	if n, ok := p.attr("name"); ok {
		ns, _ := p.attr("ns")
		return NameClass{Kind: NCSpecificName, NS: ns, Name: n}, nil
	}
	var nc NameClass
	found := false
	err := p.childLoop(func(name im.QName) error {
		if found || name.Space != NS {
			return p.skip()
		}
		parsed, err := p.parseNameClass(name)
		if err != nil {
			return err
		}
		nc = parsed
		found = true
		return nil
	})
	return nc, err
}

func (p *xmlParser) parseNameClass(name im.QName) (NameClass, error) {
	switch name.Local {
	case "name":
		ns, _ := p.attr("ns")
		local, err := p.textContent()
		if err != nil {
			return NameClass{}, err
		}
		return NameClass{Kind: NCSpecificName, NS: ns, Name: local}, nil
	case "anyName":
		nc := NameClass{Kind: NCAnyName}
		err := p.childLoop(func(n im.QName) error {
			if n.Local != "except" {
				return p.skip()
			}
			ex, err := p.parseExceptNameClass()
			if err != nil {
				return err
			}
			nc.Except = ex
			return nil
		})
		return nc, err
	case "nsName":
		ns, _ := p.attr("ns")
		nc := NameClass{Kind: NCNsName, NS: ns}
		err := p.childLoop(func(n im.QName) error {
			if n.Local != "except" {
				return p.skip()
			}
			ex, err := p.parseExceptNameClass()
			if err != nil {
				return err
			}
			nc.Except = ex
			return nil
		})
		return nc, err
	case "choice":
		var choices []NameClass
		err := p.childLoop(func(n im.QName) error {
			if n.Space != NS {
				return p.skip()
			}
			c, err := p.parseNameClass(n)
			if err != nil {
				return err
			}
			choices = append(choices, c)
			return nil
		})
		return NameClass{Kind: NCChoice, Choices: choices}, err
	default:
		depth := p.r.Depth()
		_ = p.skip()
		return NameClass{}, &UnsupportedConstructError{Name: name, Depth: depth}
	}
}

func (p *xmlParser) parseExceptNameClass() (*NameClass, error) {
	var nc *NameClass
	err := p.childLoop(func(n im.QName) error {
		if nc != nil || n.Space != NS {
			return p.skip()
		}
		parsed, err := p.parseNameClass(n)
		if err != nil {
			return err
		}
		nc = &parsed
		return nil
	})
	return nc, err
}
