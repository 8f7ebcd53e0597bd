package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"text/template"

	"xb.dev/xb/im"
	"xb.dev/xb/internal/gen"
)

// genSimpleType lowers one top-level simple type into either an
// enumeration (when FacetSet.Enumeration is non-empty, per spec.md
// section 4.13's first bullet and the scenario 1 end-to-end test) or a
// type alias to its base's mapped Go type (second bullet). imports
// collects any additional import paths the returned declarations need.
func genSimpleType(cfg *Config, currentPkg string, st *im.SimpleType, reg map[im.QName]typeInfo) (kind string, decls []ast.Decl, imports []string, err error) {
	info := reg[st.Name]
	if len(st.Facets.Enumeration) > 0 {
		decls, imports, err = genEnum(info.goName, st, reg)
		return "enum", decls, imports, err
	}
	baseType, baseImp, ok := resolveType(cfg, currentPkg, st.Base, reg)
	if !ok {
		return "", nil, nil, &Error{Name: st.Name, Msg: "base type " + st.Base.String() + " is not a known XSD built-in or declared type"}
	}
	if baseImp != "" {
		imports = append(imports, baseImp)
	}
	src := fmt.Sprintf("type %s = %s\n", info.goName, baseType)
	d, err := gen.Declarations(src)
	if err != nil {
		return "", nil, nil, err
	}
	return "alias", d, imports, nil
}

var enumTmpl = template.Must(template.New("enum").Funcs(template.FuncMap{
	"goident": func(s string) string { return GoIdent(s) },
}).Parse(`
type {{.Type}} int

const (
{{range $i, $m := .Members}}	{{$.Type}}{{$m.GoName}}{{if eq $i 0}} {{$.Type}} = iota + 1{{end}}
{{end}})

var {{.Lower}}Names = map[{{.Type}}]string{
{{range .Members}}	{{$.Type}}{{.GoName}}: {{printf "%q" .Value}},
{{end}}}

var {{.Lower}}Values = map[string]{{.Type}}{
{{range .Members}}	{{printf "%q" .Value}}: {{$.Type}}{{.GoName}},
{{end}}}

// String returns the XML lexical value {{.Type}} was parsed from, or
// "" for a zero value that was never assigned via Parse{{.Type}}.
func (v {{.Type}}) String() string { return {{.Lower}}Names[v] }

// Parse{{.Type}} converts an XML lexical value into its {{.Type}}
// member, failing loudly on any value outside the enumeration.
func Parse{{.Type}}(s string) ({{.Type}}, error) {
	v, ok := {{.Lower}}Values[s]
	if !ok {
		return 0, fmt.Errorf("{{.Type}}: unknown value %q", s)
	}
	return v, nil
}
`))

type enumMember struct {
	GoName string
	Value  string
}

func genEnum(typeName string, st *im.SimpleType, reg map[im.QName]typeInfo) ([]ast.Decl, []string, error) {
	members := make([]enumMember, 0, len(st.Facets.Enumeration))
	seen := make(map[string]string)
	for _, v := range st.Facets.Enumeration {
		goName := ExportedIdent(v)
		if other, ok := seen[goName]; ok && other != v {
			return nil, nil, &Error{Name: st.Name, Msg: "enumeration values " + other + " and " + v + " collide after normalization"}
		}
		seen[goName] = v
		members = append(members, enumMember{GoName: goName, Value: v})
	}
	var buf bytes.Buffer
	if err := enumTmpl.Execute(&buf, struct {
		Type    string
		Lower   string
		Members []enumMember
	}{Type: typeName, Lower: GoIdent(typeName), Members: members}); err != nil {
		return nil, nil, err
	}
	decls, err := gen.Declarations(buf.String())
	if err != nil {
		return nil, nil, fmt.Errorf("codegen: internal error building enum %s: %w", typeName, err)
	}
	return decls, []string{"fmt"}, nil
}
