package codegen

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"xb.dev/xb/internal/gen"
)

// declSource renders a single declaration back to Go source text, so
// that fragments built via gen.Declarations (each parsed under its own
// throwaway token.FileSet) can be concatenated into one file-wide
// source blob instead of stitched together as ast.Decl values carrying
// positions from unrelated file sets.
func declSource(d ast.Decl) (string, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, token.NewFileSet(), d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// isStdlib reports whether an import path is part of the standard
// library, by the same convention the toolchain itself uses: stdlib
// import paths never contain a dot in their first path segment.
func isStdlib(path string) bool {
	first := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}

// assembleFile concatenates a package's declarations (and the imports
// they require) into one formatted Go source file, sorting imports
// into the "system" and "local" buckets spec.md section 4.13 names --
// golang.org/x/tools/imports groups them identically once the explicit
// import block below gives it something to work from, matching
// xsdgen/cli.go's own format.Node + imports.Process rendering pipeline.
func assembleFile(pkgName string, doc string, imports []string, decls []ast.Decl) ([]byte, error) {
	seen := make(map[string]bool)
	var stdlib, local []string
	for _, imp := range imports {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		if isStdlib(imp) {
			stdlib = append(stdlib, imp)
		} else {
			local = append(local, imp)
		}
	}
	sort.Strings(stdlib)
	sort.Strings(local)

	var buf bytes.Buffer
	if doc != "" {
		for _, line := range strings.Split(strings.TrimRight(doc, "\n"), "\n") {
			buf.WriteString("// " + line + "\n")
		}
	}
	buf.WriteString("package " + pkgName + "\n\n")
	if len(stdlib) > 0 || len(local) > 0 {
		buf.WriteString("import (\n")
		for _, imp := range stdlib {
			buf.WriteString("\t\"" + imp + "\"\n")
		}
		if len(stdlib) > 0 && len(local) > 0 {
			buf.WriteString("\n")
		}
		for _, imp := range local {
			buf.WriteString("\t\"" + imp + "\"\n")
		}
		buf.WriteString(")\n\n")
	}
	for _, d := range decls {
		src, err := declSource(d)
		if err != nil {
			return nil, err
		}
		buf.WriteString(src)
		buf.WriteString("\n\n")
	}

	file, err := parser.ParseFile(token.NewFileSet(), "", buf.Bytes(), parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return gen.FormattedSource(file)
}
