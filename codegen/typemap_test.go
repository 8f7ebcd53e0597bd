package codegen

import (
	"strings"
	"testing"

	"xb.dev/xb/xmlevent"
)

func TestDefaultTypeMapCoversGregorianTypesDistinctly(t *testing.T) {
	tm := DefaultTypeMap()
	seen := make(map[string]bool)
	for _, local := range []string{"gYear", "gYearMonth", "gMonth", "gMonthDay", "gDay"} {
		m, ok := tm[xsdName(local)]
		if !ok {
			t.Fatalf("DefaultTypeMap missing entry for xsd:%s", local)
		}
		if seen[m.GoType] {
			t.Errorf("xsd:%s reuses Go type %s already claimed by another gregorian type", local, m.GoType)
		}
		seen[m.GoType] = true
	}
}

func TestLoadTypeMapOverridesReplacesEntry(t *testing.T) {
	doc := `<typemap xmlns="http://xb.dev/typemap">
	<mapping xsd-type="string" cpp-type="CustomString" cpp-header="example.com/custom"/>
</typemap>`
	tm, err := LoadTypeMapOverrides(xmlevent.NewReader(strings.NewReader(doc)), DefaultTypeMap())
	if err != nil {
		t.Fatalf("LoadTypeMapOverrides: %v", err)
	}
	got := tm[xsdName("string")]
	if got.GoType != "CustomString" || got.Import != "example.com/custom" {
		t.Errorf("override did not take effect, got %+v", got)
	}
}

func TestLoadTypeMapOverridesRejectsUnknownType(t *testing.T) {
	doc := `<typemap xmlns="http://xb.dev/typemap">
	<mapping xsd-type="notAType" cpp-type="X"/>
</typemap>`
	_, err := LoadTypeMapOverrides(xmlevent.NewReader(strings.NewReader(doc)), DefaultTypeMap())
	if err == nil {
		t.Fatal("expected an error for an unknown xsd-type override, got nil")
	}
}
