package codegen

import (
	"fmt"
	"go/ast"

	"xb.dev/xb/im"
	"xb.dev/xb/internal/gen"
)

// genEqualMethod builds a structural-equality predicate for a generated
// complex type, following the same "nil receiver or nil argument compare
// as pointers, otherwise compare structurally" shape every Equal method
// in package im already uses (SimpleType.Equal, Element.Equal,
// Wildcard.Equal). reflect.DeepEqual stands in for the field-by-field
// comparison those Equal methods hand-write, since a generated struct's
// field set is only known at generation time -- emitting it via
// reflect keeps this method correct for every shape genComplexType
// produces without hand-tracking each field here too.
func genEqualMethod(goName string, ct *im.ComplexType) (ast.Decl, error) {
	src := fmt.Sprintf(`
func (v *%s) Equal(other *%s) bool {
	if v == nil || other == nil {
		return v == other
	}
	return reflect.DeepEqual(v, other)
}
`, goName, goName)
	decls, err := gen.Declarations(src)
	if err != nil {
		return nil, fmt.Errorf("codegen: internal error building Equal for %s: %w", goName, err)
	}
	return decls[0], nil
}
