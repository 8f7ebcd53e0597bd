package codegen

import (
	"bytes"
	"testing"

	"xb.dev/xb/im"
)

const testNS = "http://example.com/catalog"

func xs(local string) im.QName { return xsdName(local) }
func ns(local string) im.QName { return im.QName{Space: testNS, Local: local} }

func buildCatalogSet(t *testing.T) *im.Set {
	t.Helper()
	schema := im.NewSchema(testNS)

	schema.AddSimpleType(im.NewSimpleType(im.SimpleType{
		Name: ns("Status"),
		Base: xs("string"),
		Facets: im.FacetSet{
			Enumeration: []string{"active", "retired"},
		},
	}))

	bookType := &im.ComplexType{
		Name: ns("Book"),
		Content: im.ContentType{
			Kind: im.ContentElementOnly,
			ModelGroup: &im.ModelGroup{
				Compositor: im.Sequence,
				Particles: []im.Particle{
					{
						Term: im.Term{Kind: im.TermElement, Element: &im.Element{
							Name: im.QName{Local: "title"}, Type: xs("string"),
						}},
						MinOccurs: 1, MaxOccurs: 1,
					},
					{
						Term: im.Term{Kind: im.TermElement, Element: &im.Element{
							Name: im.QName{Local: "author"}, Type: xs("string"),
						}},
						MinOccurs: 0, MaxOccurs: im.Unbounded,
					},
				},
			},
		},
		Attributes: []im.AttributeUse{
			{Name: im.QName{Local: "status"}, Type: ns("Status"), Required: true},
		},
	}
	schema.AddComplexType(bookType)
	schema.AddElement(&im.Element{Name: ns("book"), Type: ns("Book")})

	set := im.NewSet()
	set.AddSchema(schema)
	if err := set.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return set
}

func TestGenerateProducesEnumAndStruct(t *testing.T) {
	set := buildCatalogSet(t)
	cfg := NewConfig()
	out, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out.Files) != 1 {
		t.Fatalf("expected one file in ModePairedFiles, got %d", len(out.Files))
	}
	src := string(out.Files[0].Source)
	for _, want := range []string{"type Status int", "type Book struct", "func ParseBook", "func SerializeBook", "func (v *Book) Equal"} {
		if !bytes.Contains([]byte(src), []byte(want)) {
			t.Errorf("generated source missing %q\n--- source ---\n%s", want, src)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	set := buildCatalogSet(t)
	cfg := NewConfig()
	first, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate (first): %v", err)
	}
	second, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate (second): %v", err)
	}
	if len(first.Files) != len(second.Files) {
		t.Fatalf("file count differs between runs: %d vs %d", len(first.Files), len(second.Files))
	}
	for i := range first.Files {
		if first.Files[i].Name != second.Files[i].Name {
			t.Errorf("file %d name differs: %q vs %q", i, first.Files[i].Name, second.Files[i].Name)
		}
		if !bytes.Equal(first.Files[i].Source, second.Files[i].Source) {
			t.Errorf("file %d source differs between runs", i)
		}
	}
}

func TestGenerateSuppressEqual(t *testing.T) {
	set := buildCatalogSet(t)
	cfg := NewConfig(SuppressEqual())
	out, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Contains(out.Files[0].Source, []byte("func (v *Book) Equal")) {
		t.Errorf("SuppressEqual option did not suppress the generated Equal method")
	}
}

func TestGenerateListOutputsWritesNoSource(t *testing.T) {
	set := buildCatalogSet(t)
	cfg := NewConfig(OutputMode(ModeListOutputs))
	out, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, f := range out.Files {
		if f.Source != nil {
			t.Errorf("ModeListOutputs file %s carries non-nil Source", f.Name)
		}
	}
}

func TestGenerateFilePerTypeEmitsOneFilePerTypePlusUmbrella(t *testing.T) {
	set := buildCatalogSet(t)
	cfg := NewConfig(OutputMode(ModeFilePerType))
	out, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Status enum, Book struct, book element, doc umbrella = 4 files.
	if len(out.Files) != 4 {
		t.Fatalf("expected 4 files in ModeFilePerType, got %d: %v", len(out.Files), fileNames(out))
	}
}

func TestNamespaceOptionOverridesPackagePath(t *testing.T) {
	set := buildCatalogSet(t)
	cfg := NewConfig(Namespace(testNS, "mycorp/catalog"))
	out, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Files[0].Name != "mycorp/catalog/catalog_gen.go" {
		t.Errorf("Namespace override not honored, got file name %q", out.Files[0].Name)
	}
}

func TestGenerateRejectsUnresolvedSet(t *testing.T) {
	set := im.NewSet()
	set.AddSchema(im.NewSchema(testNS))
	cfg := NewConfig()
	if _, err := cfg.Generate(set); err == nil {
		t.Fatal("expected Generate to reject an unresolved Set")
	}
}

func fileNames(out *Output) []string {
	var names []string
	for _, f := range out.Files {
		names = append(names, f.Name)
	}
	return names
}
