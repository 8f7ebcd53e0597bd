package codegen

import (
	"testing"

	"xb.dev/xb/im"
)

const (
	depBaseNS  = "http://example.com/base"
	depOrderNS = "http://example.com/order"
)

// buildCrossNamespaceSet returns two schemas where depOrderNS's Order
// complex type references depBaseNS's Money type across a namespace
// boundary. Schemas are registered in dependent-first order (Order
// added before Money) so that a naive registration-order emission
// would get the dependency backwards.
func buildCrossNamespaceSet(t *testing.T) *im.Set {
	t.Helper()

	orderSchema := im.NewSchema(depOrderNS)
	orderType := &im.ComplexType{
		Name: im.QName{Space: depOrderNS, Local: "Order"},
		Content: im.ContentType{Kind: im.ContentEmpty},
		Attributes: []im.AttributeUse{
			{Name: im.QName{Local: "total"}, Type: im.QName{Space: depBaseNS, Local: "Money"}, Required: true},
		},
	}
	orderSchema.AddComplexType(orderType)
	orderSchema.AddElement(&im.Element{Name: im.QName{Space: depOrderNS, Local: "order"}, Type: orderType.Name})

	baseSchema := im.NewSchema(depBaseNS)
	baseSchema.AddSimpleType(im.NewSimpleType(im.SimpleType{
		Name: im.QName{Space: depBaseNS, Local: "Money"},
		Base: xsdName("decimal"),
	}))

	set := im.NewSet()
	set.AddSchema(orderSchema)
	set.AddSchema(baseSchema)
	if err := set.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return set
}

func TestPackageOrderPlacesDependencyBeforeDependent(t *testing.T) {
	set := buildCrossNamespaceSet(t)
	cfg := NewConfig()

	order := packageOrder(cfg, set)
	basePkg := cfg.packagePathFor(depBaseNS)
	orderPkg := cfg.packagePathFor(depOrderNS)

	baseIdx, orderIdx := -1, -1
	for i, p := range order {
		switch p {
		case basePkg:
			baseIdx = i
		case orderPkg:
			orderIdx = i
		}
	}
	if baseIdx == -1 || orderIdx == -1 {
		t.Fatalf("packageOrder missing a package: %v", order)
	}
	if baseIdx > orderIdx {
		t.Errorf("expected %q (dependency) before %q (dependent), got order %v", basePkg, orderPkg, order)
	}
}

func TestGenerateEmitsFilesInDependencyOrder(t *testing.T) {
	set := buildCrossNamespaceSet(t)
	cfg := NewConfig()

	out, err := cfg.Generate(set)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(out.Files))
	}

	basePkg := cfg.packagePathFor(depBaseNS)
	orderPkg := cfg.packagePathFor(depOrderNS)
	baseIdx, orderIdx := -1, -1
	for i, f := range out.Files {
		switch {
		case len(f.Name) >= len(basePkg) && f.Name[:len(basePkg)] == basePkg:
			baseIdx = i
		case len(f.Name) >= len(orderPkg) && f.Name[:len(orderPkg)] == orderPkg:
			orderIdx = i
		}
	}
	if baseIdx == -1 || orderIdx == -1 {
		t.Fatalf("could not find both packages among generated files: %+v", out.Files)
	}
	if baseIdx > orderIdx {
		t.Errorf("expected %s's file before %s's file, got files %v", basePkg, orderPkg, out.Files)
	}
}
