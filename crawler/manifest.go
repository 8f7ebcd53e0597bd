package crawler

import (
	"encoding/json"
	"io"
	"strings"
	"time"
)

// ManifestEntry is one fetched schema's record in a Manifest.
type ManifestEntry struct {
	URL       string `json:"url"`
	LocalPath string `json:"path"`
	Size      int    `json:"size"`
}

// Manifest records the result of a crawl, per spec.md section 4.12's
// JSON manifest format.
type Manifest struct {
	Root    string          `json:"root"`
	Fetched string          `json:"fetched"`
	Schemas []ManifestEntry `json:"schemas"`
}

// BuildManifest derives local file paths for fetched, by computing the
// longest common directory prefix across every fetched URL's path and
// emitting each entry's remaining path relative to it, then assembles
// the JSON manifest spec.md section 4.12 names. fetchedAt is taken as
// a parameter, since the clock is never read from inside this package.
func BuildManifest(root string, fetched []Fetched, fetchedAt time.Time) Manifest {
	prefix := commonDirPrefix(fetched)

	m := Manifest{
		Root:    root,
		Fetched: fetchedAt.UTC().Format(time.RFC3339),
		Schemas: make([]ManifestEntry, len(fetched)),
	}
	for i, f := range fetched {
		_, _, path := splitURL(f.SourceURL)
		local := strings.TrimPrefix(path, prefix)
		local = strings.TrimPrefix(local, "/")
		if local == "" {
			local = localNameOf(path)
		}
		m.Schemas[i] = ManifestEntry{
			URL:       f.SourceURL,
			LocalPath: local,
			Size:      len(f.Content),
		}
	}
	return m
}

// commonDirPrefix returns the longest directory prefix ("/a/b/")
// shared by every fetched document's URL path.
func commonDirPrefix(fetched []Fetched) string {
	if len(fetched) == 0 {
		return ""
	}
	_, _, first := splitURL(fetched[0].SourceURL)
	prefix := dirOf(first)
	for _, f := range fetched[1:] {
		_, _, p := splitURL(f.SourceURL)
		prefix = commonPrefix(prefix, dirOf(p))
	}
	if i := strings.LastIndexByte(prefix, '/'); i >= 0 {
		prefix = prefix[:i+1]
	} else {
		prefix = ""
	}
	return prefix
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i+1]
	}
	return ""
}

func localNameOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// WriteManifest encodes m as indented JSON to w.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
