package codegen

import (
	"fmt"
	"go/ast"
	"sort"

	"xb.dev/xb/im"
)

// Generate lowers a resolved im.Set into Go source, per spec.md section
// 4.13. set.Resolve must have succeeded already -- Generate trusts every
// reference it walks, the same "resolver safety" invariant spec.md
// section 8 requires of every downstream consumer.
func (cfg *Config) Generate(set *im.Set) (*Output, error) {
	if !set.Resolved() {
		return nil, fmt.Errorf("codegen: cannot generate from an unresolved schema set")
	}

	reg, err := buildRegistry(cfg, set)
	if err != nil {
		return nil, err
	}

	byPkg := make(map[string][]*im.Schema)
	for _, schema := range set.Schemas {
		pkgPath := cfg.packagePathFor(schema.TargetNS)
		byPkg[pkgPath] = append(byPkg[pkgPath], schema)
	}

	var out Output
	for _, pkgPath := range packageOrder(cfg, set) {
		for _, schema := range byPkg[pkgPath] {
			files, err := cfg.generateSchema(schema, set, reg)
			if err != nil {
				return nil, err
			}
			out.Files = append(out.Files, files...)
		}
	}
	return &out, nil
}

func (cfg *Config) generateSchema(schema *im.Schema, set *im.Set, reg map[im.QName]typeInfo) ([]File, error) {
	pkgPath := cfg.packagePathFor(schema.TargetNS)
	pkgName := PackageNameFromPath(pkgPath)

	var aliases, enums, structs, funcs []ast.Decl
	var allImports []string

	if cfg.mode == ModeSingleFile && !cfg.suppressEqual {
		revert := cfg.Option(SuppressEqual())
		defer cfg.Option(revert)
	}

	for _, name := range schema.SimpleTypeOrder {
		kind, decls, imps, err := genSimpleType(cfg, pkgPath, schema.SimpleTypes[name], reg)
		if err != nil {
			return nil, err
		}
		allImports = append(allImports, imps...)
		if kind == "enum" {
			enums = append(enums, decls...)
		} else {
			aliases = append(aliases, decls...)
		}
	}
	for _, name := range schema.ComplexTypeOrder {
		decls, imps, err := genComplexType(cfg, pkgPath, schema.ComplexTypes[name], set, reg)
		if err != nil {
			return nil, err
		}
		structs = append(structs, decls...)
		allImports = append(allImports, imps...)
	}
	if cfg.mode != ModeSingleFile {
		for _, name := range schema.ElementOrder {
			decls, imps, err := genElement(cfg, pkgPath, schema.Elements[name], reg)
			if err != nil {
				return nil, err
			}
			funcs = append(funcs, decls...)
			allImports = append(allImports, imps...)
		}
	}

	ordered := make([]ast.Decl, 0, len(aliases)+len(enums)+len(structs)+len(funcs))
	ordered = append(ordered, aliases...)
	ordered = append(ordered, enums...)
	ordered = append(ordered, structs...)
	ordered = append(ordered, funcs...)

	switch cfg.mode {
	case ModeListOutputs:
		return []File{{Name: outputPath(pkgPath, pkgName, "")}}, nil
	case ModeFilePerType:
		return cfg.renderFilePerType(schema, pkgPath, pkgName, reg, set)
	default:
		name := outputPath(pkgPath, pkgName, "")
		src, err := assembleFile(pkgName, schemaDoc(schema), allImports, ordered)
		if err != nil {
			return nil, err
		}
		return []File{{Name: name, Source: src}}, nil
	}
}

func schemaDoc(schema *im.Schema) string {
	if schema.TargetNS == "" {
		return "Package " + PackageNameFromPath("schema") + " was generated from a no-namespace schema."
	}
	return "Package generated from schema targetNamespace " + schema.TargetNS + "."
}

func outputPath(pkgPath, pkgName, suffix string) string {
	if suffix == "" {
		return pkgPath + "/" + pkgName + "_gen.go"
	}
	return pkgPath + "/" + suffix
}

// renderFilePerType implements ModeFilePerType: one file per generated
// type plus one umbrella file documenting what was generated, per
// spec.md section 4.13's third output mode.
func (cfg *Config) renderFilePerType(schema *im.Schema, pkgPath, pkgName string, reg map[im.QName]typeInfo, set *im.Set) ([]File, error) {
	var files []File
	var typeNames []string

	for _, name := range schema.SimpleTypeOrder {
		kind, decls, imps, err := genSimpleType(cfg, pkgPath, schema.SimpleTypes[name], reg)
		if err != nil {
			return nil, err
		}
		goName := reg[name].goName
		typeNames = append(typeNames, goName)
		doc := "Type " + goName + " (" + kind + ") generated from " + name.String() + "."
		src, err := assembleFile(pkgName, doc, imps, decls)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: outputPath(pkgPath, pkgName, goName+"_gen.go"), Source: src})
	}
	for _, name := range schema.ComplexTypeOrder {
		decls, imps, err := genComplexType(cfg, pkgPath, schema.ComplexTypes[name], set, reg)
		if err != nil {
			return nil, err
		}
		goName := reg[name].goName
		typeNames = append(typeNames, goName)
		doc := "Type " + goName + " generated from " + name.String() + "."
		src, err := assembleFile(pkgName, doc, imps, decls)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: outputPath(pkgPath, pkgName, goName+"_gen.go"), Source: src})
	}
	for _, name := range schema.ElementOrder {
		decls, imps, err := genElement(cfg, pkgPath, schema.Elements[name], reg)
		if err != nil {
			return nil, err
		}
		goName := ExportedIdent(name.Local)
		doc := "Parse/Serialize functions for element " + name.String() + "."
		src, err := assembleFile(pkgName, doc, imps, decls)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: outputPath(pkgPath, pkgName, goName+"_element_gen.go"), Source: src})
	}

	sort.Strings(typeNames)
	umbrella := "Package " + pkgName + " was generated from schema targetNamespace " + schema.TargetNS + ".\n" +
		"It declares: " + joinOr(typeNames, "(none)") + "."
	src, err := assembleFile(pkgName, umbrella, nil, nil)
	if err != nil {
		return nil, err
	}
	files = append(files, File{Name: outputPath(pkgPath, pkgName, "doc_gen.go"), Source: src})
	return files, nil
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}
