package schematron

import (
	"strings"

	"xb.dev/xb/im"
)

// Outcome reports how many rules were matched against a top-level
// element and how many could not be resolved.
type Outcome struct {
	Matched   int
	Unmatched int
	Warnings  []string
}

// resolvedContext is a rule's context expression reduced to a
// namespace URI plus local element name.
type resolvedContext struct {
	ns, local string
	valid     bool
}

// resolveContext implements spec.md section 4.10's context resolution:
// only simple element names ("local" or "prefix:local") are supported.
// A context expression containing "/", "[", or "::" names a path,
// predicate, or axis step and is rejected outright; an unbound prefix
// is likewise rejected, since it cannot be mapped to a namespace URI.
func resolveContext(context string, nsMap map[string]string) resolvedContext {
	if strings.ContainsAny(context, "/[") || strings.Contains(context, "::") {
		return resolvedContext{}
	}
	if colon := strings.IndexByte(context, ':'); colon >= 0 {
		prefix, local := context[:colon], context[colon+1:]
		uri, ok := nsMap[prefix]
		if !ok {
			return resolvedContext{}
		}
		return resolvedContext{ns: uri, local: local, valid: true}
	}
	return resolvedContext{ns: "", local: context, valid: true}
}

// Apply overlays sch's assertions onto set, appending a generated
// assertion string to the im.ComplexType backing each rule's resolved
// context element. A report check is transformed into an assertion by
// negating its test, since a report fires when its condition holds
// true while a validating assertion must hold for every valid
// instance. Rules whose context cannot be resolved -- an unsupported
// expression shape, or a reference to an element with no matching
// complex type -- are never fatal: they increment Outcome.Unmatched
// and append a warning.
func Apply(set *im.Set, sch *Schema) (Outcome, error) {
	var out Outcome

	nsMap := make(map[string]string, len(sch.Namespaces))
	for _, ns := range sch.Namespaces {
		nsMap[ns.Prefix] = ns.URI
	}

	for _, pattern := range sch.Patterns {
		for _, rule := range pattern.Rules {
			ctx := resolveContext(rule.Context, nsMap)
			if !ctx.valid {
				out.Unmatched++
				out.Warnings = append(out.Warnings, "unsupported context expression: "+rule.Context)
				continue
			}

			ct := findComplexType(set, im.NewQName(ctx.ns, ctx.local))
			if ct == nil {
				out.Unmatched++
				out.Warnings = append(out.Warnings, "no matching element for context: "+rule.Context)
				continue
			}

			out.Matched++
			for _, check := range rule.Checks {
				test := check.Test
				if !check.IsAssert {
					test = "not(" + test + ")"
				}
				ct.Assertions = append(ct.Assertions, test)
			}
		}
	}

	return out, nil
}

// findComplexType locates the complex type backing a top-level
// element's declaration.
func findComplexType(set *im.Set, name im.QName) *im.ComplexType {
	el := set.FindElement(name)
	if el == nil {
		return nil
	}
	ct, ok := set.FindType(el.Type).(*im.ComplexType)
	if !ok {
		return nil
	}
	return ct
}
