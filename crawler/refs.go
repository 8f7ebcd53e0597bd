package crawler

import (
	"strings"

	"xb.dev/xb/im"
	"xb.dev/xb/rng"
	"xb.dev/xb/xmlevent"
)

// extractReferences scans an already-fetched document for downstream
// schema references without running a full frontend parse, per
// spec.md section 4.12: XSD contributes imports[].schemaLocation and
// includes[].schemaLocation, RELAX NG contributes externalRef.href and
// grammar.include.href. This mirrors the teacher's xsd.Imports, which
// likewise walks a parsed tree collecting schemaLocation attributes
// from <import>/<include> rather than building a full *xsd.Schema --
// generalized here to a streaming xmlevent.Reader scan that recognizes
// both vocabularies in one pass, since a fetched document's schema
// language isn't known in advance.
func extractReferences(content string) []string {
	var refs []string
	r := xmlevent.NewReader(strings.NewReader(content))
	for r.Advance() {
		if r.NodeType() != xmlevent.Start {
			continue
		}
		name := r.Name()
		switch {
		case name.Space == im.XSDNamespace && (name.Local == "import" || name.Local == "include"):
			if loc, ok := r.AttrValueByName("", "schemaLocation"); ok && loc != "" {
				refs = append(refs, loc)
			}
		case name.Space == rng.NS && name.Local == "externalRef":
			if href, ok := r.AttrValueByName("", "href"); ok && href != "" {
				refs = append(refs, href)
			}
		case name.Space == rng.NS && name.Local == "include":
			if href, ok := r.AttrValueByName("", "href"); ok && href != "" {
				refs = append(refs, href)
			}
		}
	}
	return refs
}
