// Package xmlevent defines the abstract pull-mode XML event stream that
// every frontend (XSD, DTD, RELAX NG, Schematron) consumes, plus a
// concrete implementation over encoding/xml.
//
// The contract (spec.md section 4.1): a run of character data, entity
// references included, is delivered as a single text event; text split
// by a comment, processing instruction or CDATA section boundary is not
// merged and arrives as consecutive text events; entity expansion happens
// under the reader; namespace bindings are resolved so Name and
// attribute names carry fully expanded URIs, never bare prefixes. Depth
// is 1 at the document root and increments per open tag; an element's
// End event reports the same depth as its own Start event, so callers
// can recognize "back to the depth an element started at" as that
// element closing.
package xmlevent

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"xb.dev/xb/im"
)

// NodeType tags the three events a Reader can produce.
type NodeType int

const (
	Start NodeType = iota
	End
	Text
)

func (t NodeType) String() string {
	switch t {
	case Start:
		return "start"
	case End:
		return "end"
	case Text:
		return "text"
	default:
		return "invalid"
	}
}

// Reader is the abstract pull-mode XML event stream every frontend
// consumes. Implementations need not be backed by encoding/xml -- the
// frontends only depend on this interface.
type Reader interface {
	// Advance moves to the next event, returning false at end of
	// document or on error (see Err).
	Advance() bool
	// NodeType reports the kind of the current event.
	NodeType() NodeType
	// Name returns the fully namespace-resolved name of the current
	// start or end element. It is meaningless for Text events.
	Name() im.QName
	// NumAttr returns the number of attributes on the current start
	// element.
	NumAttr() int
	// AttrName returns the resolved name of the i'th attribute.
	AttrName(i int) im.QName
	// AttrValue returns the value of the i'th attribute.
	AttrValue(i int) string
	// AttrValueByName looks up an attribute by resolved name. If space
	// is empty, only the local name is matched.
	AttrValueByName(space, local string) (string, bool)
	// Text returns the character data of the current Text event, with
	// entity references expanded.
	Text() string
	// Depth returns the nesting depth of the current event; 1 at the
	// document root.
	Depth() int
	// Err returns the first error encountered, if Advance returned
	// false because of one.
	Err() error
	// ResolveQName resolves a namespace-prefixed string found inside an
	// attribute value (an XSD "type", "base", or "ref" attribute, for
	// instance) using the namespace bindings in scope at the current
	// event. Unlike Name and AttrName, these values are never resolved
	// automatically by an XML parser, since it has no way to know an
	// attribute's content is itself a QName. The bool result is false
	// when qname carries a prefix with no matching binding in scope.
	ResolveQName(qname string) (im.QName, bool)
}

// nsBinding is one xmlns or xmlns:prefix declaration.
type nsBinding struct {
	prefix, uri string
}

// reader is the concrete Reader implementation over encoding/xml.
type reader struct {
	dec   *xml.Decoder
	depth int
	// closing defers the depth decrement for an End event to the start
	// of the next Advance call, so that Depth() reports the same value
	// for an element's Start and End events (the value every childLoop
	// depth-match in the frontends relies on), rather than the End
	// event already reflecting the pop back to the parent's depth.
	closing bool

	nodeType NodeType
	name     im.QName
	attrs    []xml.Attr
	text     string
	err      error

	// nsStack[i] holds the bindings pushed when a start tag took depth
	// to i+1; popped when that element's end tag is seen. Mirrors
	// aqwari.net/xml/xmltree's Scope.pushNS, generalized to a stack
	// instead of a single flat, ever-growing slice, since xmlevent is a
	// streaming reader with no tree to walk back over later.
	nsStack [][]nsBinding
}

// NewReader wraps r as a Reader. Non-UTF-8 encodings declared in the XML
// prolog are decoded via golang.org/x/net/html/charset, the same
// delegation encoding/xml's own documentation recommends for
// non-UTF-8/US-ASCII input.
func NewReader(r io.Reader) Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	return &reader{dec: dec}
}

func (rd *reader) Advance() bool {
	if rd.closing {
		rd.depth--
		rd.closing = false
	}
	tok, err := rd.dec.Token()
	if err != nil {
		if err != io.EOF {
			rd.err = err
		}
		return false
	}
	switch t := tok.(type) {
	case xml.StartElement:
		rd.depth++
		rd.nodeType = Start
		rd.name = im.QName{Space: t.Name.Space, Local: t.Name.Local}
		rd.attrs = t.Attr
		rd.nsStack = append(rd.nsStack, bindingsOf(t.Attr))
	case xml.EndElement:
		rd.nodeType = End
		rd.name = im.QName{Space: t.Name.Space, Local: t.Name.Local}
		// The decrement is deferred (see rd.closing) so Depth() here
		// still reports this element's own depth, matching its Start.
		rd.closing = true
		if len(rd.nsStack) > 0 {
			rd.nsStack = rd.nsStack[:len(rd.nsStack)-1]
		}
	case xml.CharData:
		rd.nodeType = Text
		rd.text = string(t)
	default:
		// Comments, processing instructions, directives: skip silently
		// and advance again, since they carry no schema information.
		return rd.Advance()
	}
	return true
}

func (rd *reader) NodeType() NodeType { return rd.nodeType }
func (rd *reader) Name() im.QName     { return rd.name }
func (rd *reader) NumAttr() int       { return len(rd.attrs) }

func (rd *reader) AttrName(i int) im.QName {
	a := rd.attrs[i]
	return im.QName{Space: a.Name.Space, Local: a.Name.Local}
}

func (rd *reader) AttrValue(i int) string {
	return rd.attrs[i].Value
}

func (rd *reader) AttrValueByName(space, local string) (string, bool) {
	for _, a := range rd.attrs {
		if a.Name.Local != local {
			continue
		}
		if space == "" || space == a.Name.Space {
			return a.Value, true
		}
	}
	return "", false
}

func (rd *reader) Text() string { return rd.text }
func (rd *reader) Depth() int   { return rd.depth }
func (rd *reader) Err() error   { return rd.err }

func bindingsOf(attrs []xml.Attr) []nsBinding {
	var out []nsBinding
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			out = append(out, nsBinding{prefix: a.Name.Local, uri: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			out = append(out, nsBinding{prefix: "", uri: a.Value})
		}
	}
	return out
}

func (rd *reader) ResolveQName(qname string) (im.QName, bool) {
	prefix, local := "", qname
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		prefix, local = qname[:i], qname[i+1:]
	}
	for i := len(rd.nsStack) - 1; i >= 0; i-- {
		bindings := rd.nsStack[i]
		for j := len(bindings) - 1; j >= 0; j-- {
			if bindings[j].prefix == prefix {
				return im.QName{Space: bindings[j].uri, Local: local}, true
			}
		}
	}
	if prefix == "" {
		return im.QName{Local: local}, true
	}
	return im.QName{Local: local}, false
}

// Pos returns a short human-readable position descriptor for the current
// event, suitable for error messages (spec.md section 7 requires every
// parse error to carry source position when available).
func Pos(r Reader) string {
	return fmt.Sprintf("depth %d", r.Depth())
}
