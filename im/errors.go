package im

import "fmt"

// Kind identifies which of the resolver's five disjoint tables a name
// belongs to.
type Kind int

const (
	KindType Kind = iota
	KindElement
	KindAttribute
	KindModelGroup
	KindAttrGroup
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindModelGroup:
		return "model group"
	case KindAttrGroup:
		return "attribute group"
	default:
		return "unknown"
	}
}

// DuplicateNameError reports that a name was registered more than once
// within the same Kind, across a Set's schemas.
type DuplicateNameError struct {
	Kind Kind
	Name QName
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("im: duplicate %s %s", e.Kind, e.Name)
}

// UnresolvedReferenceError reports that a reference did not resolve to
// either a built-in datatype or a declared component of the expected
// Kind.
type UnresolvedReferenceError struct {
	Kind Kind
	Name QName
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("im: unresolved %s reference %s", e.Kind, e.Name)
}
