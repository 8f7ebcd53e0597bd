package im

import "fmt"

// Variety distinguishes the three kinds of simple type derivation.
type Variety int

const (
	Atomic Variety = iota
	List
	Union
)

func (v Variety) String() string {
	switch v {
	case Atomic:
		return "atomic"
	case List:
		return "list"
	case Union:
		return "union"
	default:
		return "invalid"
	}
}

// SimpleType is a type whose values have no element or attribute
// structure: it is either atomic, a whitespace-separated list of another
// simple type, or a union of several member types.
//
// Invariants (enforced by NewSimpleType):
//
//	Variety == List  => Item != nil
//	Variety == Union => len(Members) > 0
//	Variety == Atomic => Item == nil && len(Members) == 0
type SimpleType struct {
	Name    QName
	Variety Variety
	Base    QName
	Facets  FacetSet
	Item    *QName
	Members []QName
}

// NewSimpleType constructs a SimpleType, panicking if the variety
// invariants are violated. A violated invariant here indicates a bug in
// the calling frontend, not a malformed input document -- malformed
// input is rejected earlier, during parsing.
func NewSimpleType(st SimpleType) *SimpleType {
	switch st.Variety {
	case List:
		if st.Item == nil {
			panic(fmt.Sprintf("im: list simple type %s has no item type", st.Name))
		}
	case Union:
		if len(st.Members) == 0 {
			panic(fmt.Sprintf("im: union simple type %s has no member types", st.Name))
		}
	case Atomic:
		if st.Item != nil || len(st.Members) != 0 {
			panic(fmt.Sprintf("im: atomic simple type %s carries list/union fields", st.Name))
		}
	default:
		panic(fmt.Sprintf("im: unknown variety %d for simple type %s", st.Variety, st.Name))
	}
	return &st
}

// Equal reports deep structural equality between two simple types.
func (s *SimpleType) Equal(other *SimpleType) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Name != other.Name || s.Variety != other.Variety || s.Base != other.Base {
		return false
	}
	if !s.Facets.Equal(other.Facets) {
		return false
	}
	if (s.Item == nil) != (other.Item == nil) {
		return false
	}
	if s.Item != nil && *s.Item != *other.Item {
		return false
	}
	if len(s.Members) != len(other.Members) {
		return false
	}
	for i := range s.Members {
		if s.Members[i] != other.Members[i] {
			return false
		}
	}
	return true
}
