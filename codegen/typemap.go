package codegen

import (
	"fmt"

	"xb.dev/xb/im"
	"xb.dev/xb/xmlevent"
)

// TypeMapping names the Go type a well-known XSD datatype lowers to,
// plus the import it requires (empty for predeclared types).
type TypeMapping struct {
	GoType string
	Import string
}

// TypeMap maps XSD built-in datatype QNames (always in im.XSDNamespace)
// to their generated Go representation.
type TypeMap map[im.QName]TypeMapping

// clone returns an independent copy, so that loading overrides into a
// TypeMap never mutates a caller's shared default table.
func (m TypeMap) clone() TypeMap {
	out := make(TypeMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func xsdName(local string) im.QName {
	return im.QName{Space: im.XSDNamespace, Local: local}
}

// DefaultTypeMap returns the built-in XSD-datatype-to-Go-type table that
// codegen.Generate uses when no override file replaces an entry. It is a
// pure factory -- spec.md section 9's "no module-level state" note --
// generalizing xsdgen/builtin.go's builtinTbl from a fixed []ast.Expr
// array keyed by aqwari.net/xml/xsd.Builtin to a map keyed by im.QName,
// since this compiler's IM carries QNames rather than an enum.
func DefaultTypeMap() TypeMap {
	str := TypeMapping{GoType: "string"}
	strSlice := TypeMapping{GoType: "[]string"}
	byteSlice := TypeMapping{GoType: "[]byte"}
	return TypeMap{
		xsdName("anyType"):       str,
		xsdName("anySimpleType"): str,
		xsdName("string"):        str,
		xsdName("normalizedString"): str,
		xsdName("token"):         str,
		xsdName("language"):      str,
		xsdName("Name"):          str,
		xsdName("NCName"):        str,
		xsdName("ID"):            str,
		xsdName("IDREF"):         str,
		xsdName("ENTITY"):        str,
		xsdName("NMTOKEN"):       str,
		xsdName("anyURI"):        str,
		xsdName("IDREFS"):        strSlice,
		xsdName("ENTITIES"):      strSlice,
		xsdName("NMTOKENS"):      strSlice,
		xsdName("NOTATION"):      strSlice,

		xsdName("boolean"): {GoType: "bool"},

		xsdName("float"):  {GoType: "float32"},
		xsdName("double"): {GoType: "float64"},

		xsdName("byte"):               {GoType: "int8"},
		xsdName("unsignedByte"):       {GoType: "uint8"},
		xsdName("short"):              {GoType: "int16"},
		xsdName("unsignedShort"):      {GoType: "uint16"},
		xsdName("int"):                {GoType: "int32"},
		xsdName("unsignedInt"):        {GoType: "uint32"},
		xsdName("long"):                {GoType: "int64"},
		xsdName("unsignedLong"):        {GoType: "uint64"},
		xsdName("integer"):             {GoType: "xmlvalue.Integer", Import: "xb.dev/xb/xmlvalue"},
		xsdName("nonPositiveInteger"):  {GoType: "xmlvalue.Integer", Import: "xb.dev/xb/xmlvalue"},
		xsdName("negativeInteger"):     {GoType: "xmlvalue.Integer", Import: "xb.dev/xb/xmlvalue"},
		xsdName("nonNegativeInteger"):  {GoType: "xmlvalue.Integer", Import: "xb.dev/xb/xmlvalue"},
		xsdName("positiveInteger"):     {GoType: "xmlvalue.Integer", Import: "xb.dev/xb/xmlvalue"},
		xsdName("decimal"):             {GoType: "xmlvalue.Decimal", Import: "xb.dev/xb/xmlvalue"},

		xsdName("duration"):          {GoType: "xmlvalue.Duration", Import: "xb.dev/xb/xmlvalue"},
		xsdName("yearMonthDuration"): {GoType: "xmlvalue.YearMonthDuration", Import: "xb.dev/xb/xmlvalue"},
		xsdName("dayTimeDuration"):   {GoType: "xmlvalue.DayTimeDuration", Import: "xb.dev/xb/xmlvalue"},
		xsdName("dateTime"):          {GoType: "xmlvalue.DateTime", Import: "xb.dev/xb/xmlvalue"},
		xsdName("date"):              {GoType: "xmlvalue.Date", Import: "xb.dev/xb/xmlvalue"},
		xsdName("time"):              {GoType: "xmlvalue.Time", Import: "xb.dev/xb/xmlvalue"},
		xsdName("gYearMonth"):        {GoType: "xmlvalue.GYearMonth", Import: "xb.dev/xb/xmlvalue"},
		xsdName("gYear"):             {GoType: "xmlvalue.GYear", Import: "xb.dev/xb/xmlvalue"},
		xsdName("gMonthDay"):         {GoType: "xmlvalue.GMonthDay", Import: "xb.dev/xb/xmlvalue"},
		xsdName("gDay"):              {GoType: "xmlvalue.GDay", Import: "xb.dev/xb/xmlvalue"},
		xsdName("gMonth"):            {GoType: "xmlvalue.GMonth", Import: "xb.dev/xb/xmlvalue"},

		xsdName("hexBinary"):   byteSlice,
		xsdName("base64Binary"): byteSlice,

		xsdName("QName"): {GoType: "im.QName", Import: "xb.dev/xb/im"},
	}
}

// TypeMapNS is the namespace of the type-map override document format
// described in spec.md section 6.
const TypeMapNS = "http://xb.dev/typemap"

// LoadTypeMapOverrides parses a <typemap> override document in the
// TypeMapNS namespace and returns a new TypeMap with base's entries
// replaced by any matching "mapping" element. The root element must be
// <typemap>; an "xsd-type" attribute naming a local not present in base
// is rejected, per spec.md section 6's "unknown xsd-type is rejected".
func LoadTypeMapOverrides(r xmlevent.Reader, base TypeMap) (TypeMap, error) {
	out := base.clone()
	if !r.Advance() || r.NodeType() != xmlevent.Start {
		return nil, fmt.Errorf("codegen: empty typemap document")
	}
	if r.Name() != (im.QName{Space: TypeMapNS, Local: "typemap"}) {
		return nil, fmt.Errorf("codegen: typemap root must be {%s}typemap, got %s", TypeMapNS, r.Name())
	}
	rootDepth := r.Depth()
	for r.Advance() {
		if r.NodeType() == xmlevent.End && r.Depth() == rootDepth {
			break
		}
		if r.NodeType() != xmlevent.Start {
			continue
		}
		if r.Name().Local != "mapping" {
			continue
		}
		xsdType, _ := r.AttrValueByName("", "xsd-type")
		goType, _ := r.AttrValueByName("", "cpp-type")
		goImport, _ := r.AttrValueByName("", "cpp-header")
		name := xsdName(xsdType)
		if _, ok := out[name]; !ok {
			return nil, fmt.Errorf("codegen: typemap override names unknown xsd-type %q", xsdType)
		}
		out[name] = TypeMapping{GoType: goType, Import: goImport}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
