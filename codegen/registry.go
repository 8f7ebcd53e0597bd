package codegen

import (
	"xb.dev/xb/im"
)

// typeInfo records where a top-level simple or complex type landed once
// Generate has assigned it a Go package and identifier.
type typeInfo struct {
	pkgPath string // Go import path of the package the type lives in
	pkgName string // last segment of pkgPath, used as the package clause/import alias
	goName  string // exported Go identifier within that package
}

// buildRegistry assigns every top-level simple and complex type across
// set a package (via cfg.packagePathFor(schema.TargetNS)) and an
// exported Go identifier (via ExportedIdent), detecting the name
// collisions spec.md section 7 calls out as a codegen error: two
// distinct XSD/RNG/DTD names in the same schema normalizing to the same
// Go identifier.
func buildRegistry(cfg *Config, set *im.Set) (map[im.QName]typeInfo, error) {
	reg := make(map[im.QName]typeInfo)
	for _, schema := range set.Schemas {
		pkgPath := cfg.packagePathFor(schema.TargetNS)
		pkgName := PackageNameFromPath(pkgPath)
		used := make(map[string]im.QName)
		assign := func(name im.QName) error {
			goName := ExportedIdent(name.Local)
			if other, ok := used[goName]; ok && other != name {
				return &Error{Name: name, Msg: "name collision with " + other.String() + " after snake-case normalization"}
			}
			used[goName] = name
			reg[name] = typeInfo{pkgPath: pkgPath, pkgName: pkgName, goName: goName}
			return nil
		}
		for _, name := range schema.SimpleTypeOrder {
			if err := assign(name); err != nil {
				return nil, err
			}
		}
		for _, name := range schema.ComplexTypeOrder {
			if err := assign(name); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}
