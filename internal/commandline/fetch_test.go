package commandline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xb.dev/xb/crawler"
)

func TestRunFetchMirrorsSchemaAndWritesManifest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/root.xsd", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<schema xmlns="http://www.w3.org/2001/XMLSchema"/>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "mirror")
	manifestPath := filepath.Join(dir, "manifest.json")

	code := Run([]string{"fetch", srv.URL + "/root.xsd", "-o", outDir, "--manifest", manifestPath})
	require.Equal(t, ExitOK, code)

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	var m crawler.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	require.Len(t, m.Schemas, 1)

	mirrored, err := os.ReadFile(filepath.Join(outDir, m.Schemas[0].LocalPath))
	require.NoError(t, err)
	assert.Contains(t, string(mirrored), "<schema")
}

func TestRunFetchUnreachableHostIsIOError(t *testing.T) {
	code := Run([]string{"fetch", "http://127.0.0.1:1/does-not-exist.xsd"})
	assert.Equal(t, ExitIO, code)
}
