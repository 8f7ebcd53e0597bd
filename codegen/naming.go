package codegen

import (
	"strings"
	"unicode"

	"xb.dev/xb/internal/gen"
)

// SnakeCase rewrites an XSD, RELAX NG, or DTD identifier into
// snake_case, per spec.md section 4.13's naming rules: "FooBar" becomes
// "foo_bar", "HTMLParser" becomes "html_parser" (a run of capitals
// followed by a lowercase letter breaks before the last capital, not
// before every one), and "-"/"." separators become "_".
func SnakeCase(name string) string {
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				prevUpper := unicode.IsUpper(runes[i-1])
				if prevLower || (nextLower && prevUpper) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// GoIdent turns an XSD/RNG/DTD local name into a legal, non-reserved Go
// identifier: snake_case, a leading underscore if the result would
// otherwise start with a digit, and a trailing underscore if the result
// collides with a Go keyword (gen.Sanitize already implements the
// keyword-escape step; our "target keywords" are exactly Go's, since
// our target language is Go).
func GoIdent(name string) string {
	s := SnakeCase(name)
	if s == "" {
		s = "_"
	}
	if unicode.IsDigit(rune(s[0])) {
		s = "_" + s
	}
	return gen.Sanitize(s)
}

// ExportedIdent is GoIdent's result turned into an exported (capitalized)
// identifier, for type and field names that must be visible outside the
// generated package.
func ExportedIdent(name string) string {
	s := GoIdent(name)
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	out := b.String()
	if out == "" {
		return "X"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

// DerivePackagePath auto-derives a Go import path from a namespace URI,
// per spec.md section 4.13: strip the scheme, a leading "www.", or a
// "urn:" prefix, then split what remains on "/", ":", and "." into path
// segments.
func DerivePackagePath(uri string) string {
	s := uri
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	} else if strings.HasPrefix(s, "urn:") {
		s = s[len("urn:"):]
	}
	s = strings.TrimPrefix(s, "www.")
	segs := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ':' || r == '.'
	})
	if len(segs) == 0 {
		return "schema"
	}
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if id := GoIdent(seg); id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return "schema"
	}
	return strings.Join(out, "/")
}

// PackageNameFromPath returns the Go package identifier for an import
// path derived by DerivePackagePath or supplied via a -n override: its
// final path segment.
func PackageNameFromPath(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
