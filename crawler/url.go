package crawler

import "strings"

// mergeURL resolves ref against base per spec.md section 4.12: an
// absolute URL (has a scheme) or a "/"-prefixed path bypasses merging
// entirely; otherwise ref is merged against base's directory and the
// merged path's "." and ".." segments are collapsed at "/" boundaries,
// the same normal-path algorithm RFC 3986 section 5.2.4 describes.
func mergeURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if hasScheme(ref) {
		return ref
	}

	scheme, authority, path := splitURL(base)

	if strings.HasPrefix(ref, "/") {
		return join(scheme, authority, collapseDotSegments(ref))
	}

	dir := path
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		dir = dir[:i+1]
	} else {
		dir = ""
	}
	return join(scheme, authority, collapseDotSegments(dir+ref))
}

// hasScheme reports whether s begins with "scheme:", per RFC 3986's
// ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":" production.
func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for j := 0; j < i; j++ {
		c := s[j]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// splitURL breaks a "scheme://authority/path" URL into its three
// parts. A base URL with no "//" authority marker (a bare file path)
// reports an empty scheme and authority.
func splitURL(u string) (scheme, authority, path string) {
	rest := u
	if i := strings.IndexByte(u, ':'); i >= 0 && hasScheme(u) {
		scheme, rest = u[:i], u[i+1:]
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			authority, rest = rest[:i], rest[i:]
		} else {
			authority, rest = rest, ""
		}
	}
	return scheme, authority, rest
}

func join(scheme, authority, path string) string {
	var b strings.Builder
	if scheme != "" {
		b.WriteString(scheme)
		b.WriteByte(':')
	}
	if authority != "" || scheme != "" {
		b.WriteString("//")
		b.WriteString(authority)
	}
	b.WriteString(path)
	return b.String()
}

// collapseDotSegments implements RFC 3986 section 5.2.4's remove_dot_segments
// algorithm: "." segments are dropped, ".." segments pop the preceding
// segment, both collapsing at "/" boundaries.
func collapseDotSegments(path string) string {
	if path == "" {
		return path
	}
	segments := strings.Split(path, "/")
	var out []string
	for i, seg := range segments {
		switch seg {
		case ".":
			// drop, but preserve a trailing slash by treating a final
			// empty segment specially below
			if i == len(segments)-1 {
				out = append(out, "")
			}
		case "..":
			if len(out) > 0 && out[len(out)-1] != "" {
				out = out[:len(out)-1]
			}
			if i == len(segments)-1 {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
