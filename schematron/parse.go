// Package schematron parses Schematron documents and overlays their
// assertions onto a resolved im.Set, per spec.md section 4.10.
package schematron

import (
	"fmt"
	"strings"

	"xb.dev/xb/xmlevent"
)

// NS is the Schematron namespace this parser recognizes.
const NS = "http://purl.oclc.org/dml/schematron"

// Check is one assert or report test inside a rule.
type Check struct {
	IsAssert    bool
	Test        string
	Message     string
	Diagnostics string
}

// Rule binds a context expression to a sequence of checks.
type Rule struct {
	Context string
	Checks  []Check
}

// Pattern groups rules under an optional id/name.
type Pattern struct {
	ID    string
	Name  string
	Rules []Rule
}

// NamespaceBinding is one <ns prefix="..." uri="..."/> declaration.
type NamespaceBinding struct {
	Prefix string
	URI    string
}

// Phase lists the pattern ids active under a named phase.
type Phase struct {
	ID             string
	ActivePatterns []string
}

// Schema is a parsed Schematron document.
type Schema struct {
	Title      string
	Namespaces []NamespaceBinding
	Patterns   []Pattern
	Phases     []Phase
}

// ParseError wraps an underlying error with the position it occurred
// at, matching the rest of the frontends' error style.
type ParseError struct {
	Pos string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("schematron: %s: %v", e.Pos, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a Schematron document from r. The root element must be
// <schema> in the Schematron namespace; unrecognized child elements
// (including <diagnostics>, not yet modeled) are skipped along with
// their subtrees rather than rejected, so this parser tolerates
// extensions it does not understand.
func Parse(r xmlevent.Reader) (*Schema, error) {
	for r.Advance() {
		if r.NodeType() != xmlevent.Start {
			continue
		}
		if !isSchElement(r, "schema") {
			return nil, &ParseError{Pos: xmlevent.Pos(r), Err: fmt.Errorf("expected <schema> root element, got %s", r.Name())}
		}
		return parseSchema(r)
	}
	return nil, &ParseError{Pos: xmlevent.Pos(r), Err: fmt.Errorf("empty document")}
}

func isSchElement(r xmlevent.Reader, local string) bool {
	n := r.Name()
	return n.Space == NS && n.Local == local
}

func optAttr(r xmlevent.Reader, local string) string {
	v, _ := r.AttrValueByName("", local)
	return v
}

// skipWSText advances until the next non-whitespace-only event,
// mirroring the reference parser's read_skip_ws: whitespace-only text
// between structural events carries no schema information.
func skipWSText(r xmlevent.Reader) bool {
	for r.Advance() {
		if r.NodeType() == xmlevent.Text && strings.TrimSpace(r.Text()) == "" {
			continue
		}
		return true
	}
	return false
}

// readTextContent concatenates all text under the current element and
// consumes through its matching end tag.
func readTextContent(r xmlevent.Reader) string {
	var b strings.Builder
	depth := r.Depth()
	for r.Advance() {
		if r.NodeType() == xmlevent.End && r.Depth() == depth {
			return b.String()
		}
		if r.NodeType() == xmlevent.Text {
			b.WriteString(r.Text())
		}
	}
	return b.String()
}

// skipElement discards the current element's subtree through its
// matching end tag.
func skipElement(r xmlevent.Reader) {
	depth := r.Depth()
	for r.Advance() {
		if r.NodeType() == xmlevent.End && r.Depth() == depth {
			return
		}
	}
}

func parseSchema(r xmlevent.Reader) (*Schema, error) {
	sch := &Schema{}
	rootDepth := r.Depth()
	for skipWSText(r) {
		if r.NodeType() == xmlevent.End && r.Depth() == rootDepth {
			return sch, nil
		}
		if r.NodeType() != xmlevent.Start {
			continue
		}
		switch {
		case isSchElement(r, "title"):
			sch.Title = readTextContent(r)
		case isSchElement(r, "ns"):
			sch.Namespaces = append(sch.Namespaces, NamespaceBinding{
				Prefix: optAttr(r, "prefix"),
				URI:    optAttr(r, "uri"),
			})
			skipElement(r)
		case isSchElement(r, "pattern"):
			p, err := parsePattern(r)
			if err != nil {
				return nil, err
			}
			sch.Patterns = append(sch.Patterns, p)
		case isSchElement(r, "phase"):
			sch.Phases = append(sch.Phases, parsePhase(r))
		default:
			skipElement(r)
		}
	}
	return sch, nil
}

func parsePattern(r xmlevent.Reader) (Pattern, error) {
	p := Pattern{ID: optAttr(r, "id"), Name: optAttr(r, "name")}
	depth := r.Depth()
	for skipWSText(r) {
		if r.NodeType() == xmlevent.End && r.Depth() == depth {
			return p, nil
		}
		if r.NodeType() != xmlevent.Start {
			continue
		}
		if isSchElement(r, "rule") {
			p.Rules = append(p.Rules, parseRule(r))
		} else {
			skipElement(r)
		}
	}
	return p, nil
}

func parseRule(r xmlevent.Reader) Rule {
	rule := Rule{Context: optAttr(r, "context")}
	depth := r.Depth()
	for skipWSText(r) {
		if r.NodeType() == xmlevent.End && r.Depth() == depth {
			return rule
		}
		if r.NodeType() != xmlevent.Start {
			continue
		}
		switch {
		case isSchElement(r, "assert"):
			rule.Checks = append(rule.Checks, parseAssertOrReport(r, true))
		case isSchElement(r, "report"):
			rule.Checks = append(rule.Checks, parseAssertOrReport(r, false))
		default:
			skipElement(r)
		}
	}
	return rule
}

func parseAssertOrReport(r xmlevent.Reader, isAssert bool) Check {
	c := Check{
		IsAssert:    isAssert,
		Test:        optAttr(r, "test"),
		Diagnostics: optAttr(r, "diagnostics"),
	}
	c.Message = readTextContent(r)
	return c
}

func parsePhase(r xmlevent.Reader) Phase {
	ph := Phase{ID: optAttr(r, "id")}
	depth := r.Depth()
	for skipWSText(r) {
		if r.NodeType() == xmlevent.End && r.Depth() == depth {
			return ph
		}
		if r.NodeType() != xmlevent.Start {
			continue
		}
		if isSchElement(r, "active") {
			ph.ActivePatterns = append(ph.ActivePatterns, optAttr(r, "pattern"))
			skipElement(r)
		} else {
			skipElement(r)
		}
	}
	return ph
}
