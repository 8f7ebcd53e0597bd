package codegen

import "xb.dev/xb/im"

// resolveType returns the Go type expression for name as referenced
// from a file in currentPkg, plus the import path that expression
// requires (empty if none). found is false only when name is an XSD
// built-in absent from the Config's type map, per spec.md section 7's
// "type map references unknown XSD type" codegen error.
func resolveType(cfg *Config, currentPkg string, name im.QName, reg map[im.QName]typeInfo) (goType, imp string, found bool) {
	if info, ok := reg[name]; ok {
		if info.pkgPath == currentPkg {
			return info.goName, "", true
		}
		return info.pkgName + "." + info.goName, info.pkgPath, true
	}
	if m, ok := cfg.typeMap[name]; ok {
		return m.GoType, m.Import, true
	}
	return "", "", false
}
