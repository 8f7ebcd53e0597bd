package codegen

import (
	"sort"

	"xb.dev/xb/im"
	"xb.dev/xb/internal/dependency"
)

// packageOrder returns the Go import paths of every package set will
// generate into, ordered so that a package whose declarations reference
// another package's types always comes after it -- the dependency order
// spec.md section 4.13 requires of emitted namespaces. It is computed
// with internal/dependency.Graph.Flatten, the same topological-sort
// helper the teacher's xsdgen/wsdlgen used to order generated files.
//
// Packages in the graph come out in Flatten's order, which takes its
// targets in sorted import-path order. Packages with no cross-package
// reference in either direction are not in the graph; they follow in
// set.Schemas registration order.
func packageOrder(cfg *Config, set *im.Set) []string {
	var graph dependency.Graph
	seen := make(map[string]bool)
	var order []string
	addTarget := func(pkgPath string) {
		if !seen[pkgPath] {
			seen[pkgPath] = true
			order = append(order, pkgPath)
		}
	}

	for _, schema := range set.Schemas {
		pkgPath := cfg.packagePathFor(schema.TargetNS)
		addTarget(pkgPath)
		for _, dep := range schemaDependencies(schema) {
			if dep.Space == schema.TargetNS {
				continue
			}
			depPkg := cfg.packagePathFor(dep.Space)
			if depPkg == pkgPath {
				continue
			}
			graph.Add(pkgPath, depPkg)
		}
	}

	var flattened []string
	graph.Flatten(func(pkgPath string) {
		if seen[pkgPath] {
			flattened = append(flattened, pkgPath)
		}
	})
	// Flatten only ever visits targets reachable from an Add call. Any
	// package with no cross-package reference in either direction never
	// appears in the graph at all, so fall back to registration order
	// for those, appended after the dependency-sorted prefix.
	inFlattened := make(map[string]bool, len(flattened))
	for _, p := range flattened {
		inFlattened[p] = true
	}
	for _, p := range order {
		if !inFlattened[p] {
			flattened = append(flattened, p)
		}
	}
	return flattened
}

// schemaDependencies collects every top-level-type QName schema's
// complex types, simple types, and elements reference, so that
// packageOrder can tell which of those references cross a namespace
// (and therefore a Go package) boundary. The result is deduplicated and
// sorted by im.QNameList's order so that packageOrder builds the same
// dependency.Graph edges regardless of Go map iteration order.
func schemaDependencies(schema *im.Schema) []im.QName {
	seen := make(map[im.QName]bool)
	var deps im.QNameList
	add := func(name im.QName) {
		if !im.IsBuiltin(name) && !seen[name] {
			seen[name] = true
			deps = append(deps, name)
		}
	}

	for _, name := range schema.SimpleTypeOrder {
		st := schema.SimpleTypes[name]
		add(st.Base)
		if st.Item != nil {
			add(*st.Item)
		}
		for _, m := range st.Members {
			add(m)
		}
	}
	for _, name := range schema.ComplexTypeOrder {
		collectComplexTypeDeps(schema.ComplexTypes[name], add)
	}
	for _, name := range schema.ElementOrder {
		el := schema.Elements[name]
		add(el.Type)
		for _, alt := range el.TypeAlternatives {
			add(alt.Type)
		}
	}
	for _, name := range schema.AttrGroupOrder {
		for _, a := range schema.AttrGroups[name] {
			add(a.Type)
		}
	}
	sort.Sort(deps)
	return deps
}

func collectComplexTypeDeps(ct *im.ComplexType, add func(im.QName)) {
	for _, a := range ct.Attributes {
		add(a.Type)
	}
	if ct.Content.Kind == im.ContentSimple {
		add(ct.Content.SimpleBase)
	}
	if ct.Content.ComplexBase != nil {
		add(*ct.Content.ComplexBase)
	}
	collectModelGroupDeps(ct.Content.ModelGroup, add)
}

func collectModelGroupDeps(mg *im.ModelGroup, add func(im.QName)) {
	if mg == nil {
		return
	}
	for _, p := range mg.Particles {
		switch p.Term.Kind {
		case im.TermElement:
			add(p.Term.Element.Type)
		case im.TermElementRef:
			add(p.Term.ElementRef)
		case im.TermGroupRef:
			add(p.Term.GroupRef)
		case im.TermModelGroup:
			collectModelGroupDeps(p.Term.Group, add)
		}
	}
}
