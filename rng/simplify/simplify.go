// Package simplify implements the RELAX NG fixed-point rewrite engine of
// spec.md section 4.7: a bottom-up rule set applied to a Grammar until
// no rule fires, collapsing every pattern down to the reduced variant
// set the IM translator consumes (group, interleave, choice, oneOrMore,
// attribute, element, ref, empty, text, notAllowed, data, value, list,
// grammar).
package simplify

import (
	"fmt"

	"xb.dev/xb/rng"
)

// Resolver fetches the source text an externalRef's href names. A nil
// Resolver leaves externalRef patterns in place, per spec.md section
// 4.7 rule 7.
type Resolver func(href string) (string, error)

// CombineError reports that a grammar mixed combine methods for one
// define name, which spec.md section 4.7 rule 5 treats as fatal.
type CombineError struct {
	Name string
}

func (e *CombineError) Error() string {
	return fmt.Sprintf("simplify: define %q mixes combine methods", e.Name)
}

// Simplify rewrites g in place, bottom-up, until no rule applies, and
// returns the simplified grammar. resolve may be nil.
//
// parse, a callback from compact/XML source text to a *rng.Grammar, is
// used to expand an externalRef's fetched text into a pattern; when
// resolve is nil or parse is nil, externalRef patterns are left as-is.
func Simplify(g *rng.Grammar, resolve Resolver, parse func(src string) (*rng.Grammar, error)) (*rng.Grammar, error) {
	if err := mergeCombines(g); err != nil {
		return nil, err
	}
	if resolve != nil && parse != nil {
		if err := resolveExternalRefs(g, resolve, parse); err != nil {
			return nil, err
		}
	}

	for name, d := range g.Defines {
		body, err := rewriteFixedPoint(combineBodies(d))
		if err != nil {
			return nil, err
		}
		g.Defines[name] = &rng.Define{Name: name, Bodies: []*rng.Pattern{body}}
	}
	if g.Start != nil {
		start, err := rewriteFixedPoint(g.Start)
		if err != nil {
			return nil, err
		}
		g.Start = start
	}
	eliminateUnreachable(g)
	return g, nil
}

// combineBodies merges a define's (possibly several) declared bodies
// into one pattern according to its combine method.
func combineBodies(d *rng.Define) *rng.Pattern {
	if len(d.Bodies) == 1 {
		return d.Bodies[0]
	}
	kind := rng.KindChoice
	if d.Combine == rng.CombineInterleave {
		kind = rng.KindInterleave
	}
	return &rng.Pattern{Kind: kind, Patterns: append([]*rng.Pattern(nil), d.Bodies...)}
}

// mergeCombines validates that every multiply-declared define name uses
// one consistent combine method. A single combine-less declaration, or
// a single combine method used consistently, is fine; a name declared
// more than once with CombineNone is also a fatal ambiguity since
// RELAX NG requires duplicate defines to name a combine method.
func mergeCombines(g *rng.Grammar) error {
	for name, d := range g.Defines {
		if len(d.Bodies) <= 1 {
			continue
		}
		seen := rng.CombineNone
		for _, c := range d.Combines {
			if c == rng.CombineNone {
				return &CombineError{Name: name}
			}
			if seen == rng.CombineNone {
				seen = c
			} else if seen != c {
				return &CombineError{Name: name}
			}
		}
	}
	return nil
}

func resolveExternalRefs(g *rng.Grammar, resolve Resolver, parse func(string) (*rng.Grammar, error)) error {
	var walkErr error
	var walk func(p *rng.Pattern) *rng.Pattern
	walk = func(p *rng.Pattern) *rng.Pattern {
		if p == nil || walkErr != nil {
			return p
		}
		switch p.Kind {
		case rng.KindExternalRef:
			src, err := resolve(p.Href)
			if err != nil {
				walkErr = err
				return p
			}
			sub, err := parse(src)
			if err != nil {
				walkErr = err
				return p
			}
			if err := resolveExternalRefs(sub, resolve, parse); err != nil {
				walkErr = err
				return p
			}
			if sub.Start != nil {
				return sub.Start
			}
			return &rng.Pattern{Kind: rng.KindEmpty}
		case rng.KindGrammar:
			resolveExternalRefs(p.Grammar, resolve, parse)
			return p
		}
		p.Body = walk(p.Body)
		p.Except = walk(p.Except)
		for i, c := range p.Patterns {
			p.Patterns[i] = walk(c)
		}
		return p
	}
	g.Start = walk(g.Start)
	for name, d := range g.Defines {
		for i, b := range d.Bodies {
			d.Bodies[i] = walk(b)
		}
		g.Defines[name] = d
	}
	return walkErr
}

// recursionLimit bounds the fixed-point loop as a belt-and-suspenders
// measure; every rule strictly reduces either pattern count or nesting
// depth, so well-founded input always converges long before this,
// the same defensive role xmltree.recursionLimit plays against
// malformed/cyclic input in the teacher's tree walker.
const recursionLimit = 3000

// rewriteFixedPoint applies every rewrite rule bottom-up, repeating
// until a full pass makes no change.
func rewriteFixedPoint(p *rng.Pattern) (*rng.Pattern, error) {
	for i := 0; i < recursionLimit; i++ {
		next, changed := rewritePass(p)
		if !changed {
			return next, nil
		}
		p = next
	}
	return nil, fmt.Errorf("simplify: rewrite did not converge after %d passes", recursionLimit)
}

func rewritePass(p *rng.Pattern) (*rng.Pattern, bool) {
	if p == nil {
		return nil, false
	}
	changed := false

	if p.Body != nil {
		b, c := rewritePass(p.Body)
		p.Body, changed = b, changed || c
	}
	if p.Except != nil {
		e, c := rewritePass(p.Except)
		p.Except, changed = e, changed || c
	}
	for i, child := range p.Patterns {
		c2, c := rewritePass(child)
		p.Patterns[i], changed = c2, changed || c
	}

	switch p.Kind {
	case rng.KindMixed:
		// mixed(p) => interleave(p, text)
		return &rng.Pattern{Kind: rng.KindInterleave, Patterns: []*rng.Pattern{p.Patterns[0], {Kind: rng.KindText}}}, true
	case rng.KindOptional:
		// optional(p) => choice(p, empty)
		return &rng.Pattern{Kind: rng.KindChoice, Patterns: []*rng.Pattern{p.Body, {Kind: rng.KindEmpty}}}, true
	case rng.KindZeroOrMore:
		// zeroOrMore(p) => choice(oneOrMore(p), empty)
		return &rng.Pattern{Kind: rng.KindChoice, Patterns: []*rng.Pattern{
			{Kind: rng.KindOneOrMore, Body: p.Body},
			{Kind: rng.KindEmpty},
		}}, true
	case rng.KindGroup, rng.KindInterleave:
		for _, c := range p.Patterns {
			if c.Kind == rng.KindNotAllowed {
				return &rng.Pattern{Kind: rng.KindNotAllowed}, true
			}
		}
	case rng.KindOneOrMore:
		if p.Body != nil && p.Body.Kind == rng.KindNotAllowed {
			return &rng.Pattern{Kind: rng.KindNotAllowed}, true
		}
	case rng.KindChoice:
		var kept []*rng.Pattern
		dropped := false
		for _, c := range p.Patterns {
			if c.Kind == rng.KindNotAllowed {
				dropped = true
				continue
			}
			kept = append(kept, c)
		}
		if dropped {
			switch len(kept) {
			case 0:
				return &rng.Pattern{Kind: rng.KindNotAllowed}, true
			case 1:
				return kept[0], true
			default:
				return &rng.Pattern{Kind: rng.KindChoice, Patterns: kept}, true
			}
		}
	case rng.KindAttribute:
		if len(p.Patterns) == 1 && p.Patterns[0].Kind == rng.KindNotAllowed {
			return &rng.Pattern{Kind: rng.KindNotAllowed}, true
		}
	case rng.KindList:
		if p.Body != nil && p.Body.Kind == rng.KindNotAllowed {
			return &rng.Pattern{Kind: rng.KindNotAllowed}, true
		}
	}
	return p, changed
}

// eliminateUnreachable discards defines that are not transitively
// reachable from g.Start through ref edges.
func eliminateUnreachable(g *rng.Grammar) {
	reachable := make(map[string]bool)
	var mark func(p *rng.Pattern)
	mark = func(p *rng.Pattern) {
		if p == nil {
			return
		}
		if p.Kind == rng.KindRef {
			if reachable[p.RefName] {
				return
			}
			reachable[p.RefName] = true
			if d, ok := g.Defines[p.RefName]; ok {
				for _, b := range d.Bodies {
					mark(b)
				}
			}
			return
		}
		mark(p.Body)
		mark(p.Except)
		for _, c := range p.Patterns {
			mark(c)
		}
	}
	mark(g.Start)

	var order []string
	for _, name := range g.DefineOrder {
		if reachable[name] {
			order = append(order, name)
		} else {
			delete(g.Defines, name)
		}
	}
	g.DefineOrder = order
}
