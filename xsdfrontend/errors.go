package xsdfrontend

import (
	"fmt"

	"xb.dev/xb/im"
)

// UnsupportedConstructError reports an element in the XSD namespace that
// the frontend's state machine does not recognize. Unknown elements
// outside the XSD namespace are open content and are skipped silently;
// this error is reserved for the closed vocabulary spec.md section 4.4
// enumerates.
type UnsupportedConstructError struct {
	Name  im.QName
	Depth int
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("xsdfrontend: unsupported element %s at depth %d", e.Name, e.Depth)
}

// ParseError wraps an underlying error with the position it occurred at.
type ParseError struct {
	Pos string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("xsdfrontend: %s: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
