package codegen

import (
	"fmt"

	"xb.dev/xb/im"
)

// Error reports a spec.md section 7 codegen error: a type-map reference
// to an unknown XSD type, a name collision after snake-case
// normalization, or an unsupported facet combination. The offending
// QName is always attached, per section 7's "all errors include the
// responsible QName".
type Error struct {
	Name im.QName
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("codegen: %s: %s", e.Name, e.Msg)
}
