// Package rng implements the RELAX NG pattern model: the tagged-variant
// AST of spec.md section 3.3, shared by the XML-syntax parser, the
// compact-syntax parser, the simplifier, and the IM translator.
package rng

// Kind tags the variant of a Pattern.
type Kind int

const (
	KindElement Kind = iota
	KindAttribute
	KindGroup
	KindInterleave
	KindChoice
	KindOneOrMore
	KindZeroOrMore
	KindOptional
	KindMixed
	KindRef
	KindParentRef
	KindEmpty
	KindText
	KindNotAllowed
	KindData
	KindValue
	KindList
	KindExternalRef
	KindGrammar
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindGroup:
		return "group"
	case KindInterleave:
		return "interleave"
	case KindChoice:
		return "choice"
	case KindOneOrMore:
		return "oneOrMore"
	case KindZeroOrMore:
		return "zeroOrMore"
	case KindOptional:
		return "optional"
	case KindMixed:
		return "mixed"
	case KindRef:
		return "ref"
	case KindParentRef:
		return "parentRef"
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNotAllowed:
		return "notAllowed"
	case KindData:
		return "data"
	case KindValue:
		return "value"
	case KindList:
		return "list"
	case KindExternalRef:
		return "externalRef"
	case KindGrammar:
		return "grammar"
	default:
		return "invalid"
	}
}

// Param is a single datatype library parameter, e.g. <param name="...">.
type Param struct {
	Name  string
	Value string
}

// Pattern is one node of the RELAX NG pattern tree. Go has no native
// tagged union, so every variant shares this struct; Kind selects which
// of the remaining fields are meaningful. Children are owned exclusively
// by their parent; back references (Ref/ParentRef) use names, never
// pointers, so the tree carries no cycles.
type Pattern struct {
	Kind Kind

	NameClass NameClass // KindElement, KindAttribute

	Patterns []*Pattern // KindGroup, KindInterleave, KindChoice, KindMixed (1), KindElement/Attribute body (1)
	Body     *Pattern   // KindOneOrMore, KindZeroOrMore, KindOptional, KindList

	RefName string // KindRef, KindParentRef

	DataLibrary string  // KindData, KindValue
	DataType    string  // KindData, KindValue
	Params      []Param // KindData
	Except      *Pattern // KindData: the <except> pattern, if any

	Value string // KindValue

	Href string // KindExternalRef
	NS   string // KindExternalRef

	Grammar *Grammar // KindGrammar
}

// Grammar is a RELAX NG <grammar> element: a start pattern plus a table
// of named defines, each of which may have been declared more than once
// with a combine method (merged by the simplifier, section 4.7 rule 5).
type Grammar struct {
	Start   *Pattern
	Defines map[string]*Define

	// DefineOrder preserves declaration order for deterministic
	// diagnostics and re-emission, independent of map iteration order.
	DefineOrder []string
}

// Combine is the method used to merge multiple <define> elements sharing
// one name.
type Combine int

const (
	CombineNone Combine = iota
	CombineChoice
	CombineInterleave
)

// Define is one (possibly multiply-declared) named pattern inside a
// grammar. Combine is the combine method last observed across its
// occurrences; Combines records one entry per Bodies entry so the
// simplifier can detect a schema that mixes combine methods for one
// name, which spec.md section 4.7 rule 5 treats as a fatal error.
type Define struct {
	Name     string
	Combine  Combine
	Bodies   []*Pattern // one per <define> occurrence sharing Name; merged by the simplifier
	Combines []Combine
}

func newGrammar() *Grammar {
	return &Grammar{Defines: make(map[string]*Define)}
}

func (g *Grammar) addDefine(name string, combine Combine, body *Pattern) {
	d, ok := g.Defines[name]
	if !ok {
		d = &Define{Name: name}
		g.Defines[name] = d
		g.DefineOrder = append(g.DefineOrder, name)
	}
	if combine != CombineNone {
		d.Combine = combine
	}
	d.Bodies = append(d.Bodies, body)
	d.Combines = append(d.Combines, combine)
}

// NameClassKind tags the variant of a NameClass.
type NameClassKind int

const (
	NCSpecificName NameClassKind = iota
	NCAnyName
	NCNsName
	NCChoice
)

// NameClass is the RELAX NG name-class variant: a single qualified name,
// any name (optionally excepting a nested class), every name in one
// namespace (ditto), or a choice of several name classes.
type NameClass struct {
	Kind NameClassKind

	NS   string // NCSpecificName, NCNsName
	Name string // NCSpecificName

	Except *NameClass // NCAnyName, NCNsName

	Choices []NameClass // NCChoice
}
