package im

// XSDNamespace is the namespace URI of the W3C XML Schema built-in
// datatypes.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// builtinNames is the closed set of 48 XSD datatype local names that the
// resolver (section 4.9) accepts without requiring a declaration.
//
// This is the same catalog aqwari.net/xml/xsd's Builtin enum draws from,
// trimmed to the primitive and derived datatypes named in spec.md
// section 4.2/4.9 (the xsd package's own AnyType/AnySimpleType stand-ins
// are folded into "anyType"/"anySimpleType" below).
var builtinNames = []string{
	"anyType", "anySimpleType",
	"string", "boolean", "decimal", "float", "double",
	"duration", "dateTime", "time", "date",
	"gYearMonth", "gYear", "gMonthDay", "gDay", "gMonth",
	"hexBinary", "base64Binary", "anyURI", "QName", "NOTATION",
	"normalizedString", "token", "language",
	"NMTOKEN", "NMTOKENS", "Name", "NCName",
	"ID", "IDREF", "IDREFS", "ENTITY", "ENTITIES",
	"integer", "nonPositiveInteger", "negativeInteger",
	"long", "int", "short", "byte",
	"nonNegativeInteger", "unsignedLong", "unsignedInt",
	"unsignedShort", "unsignedByte", "positiveInteger",
	// XSD 1.1 duration refinements used by spec.md section 4.2.
	"yearMonthDuration", "dayTimeDuration",
}

// Builtins is the set of built-in QName values recognized by the
// resolver, in the xsd namespace.
var Builtins = func() map[QName]bool {
	m := make(map[QName]bool, len(builtinNames))
	for _, n := range builtinNames {
		m[QName{Space: XSDNamespace, Local: n}] = true
	}
	return m
}()

// IsBuiltin reports whether name is one of the 48 recognized built-in
// XSD datatypes.
func IsBuiltin(name QName) bool {
	return Builtins[name]
}
