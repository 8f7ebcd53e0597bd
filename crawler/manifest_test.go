package crawler

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifestDerivesCommonPrefix(t *testing.T) {
	fetched := []Fetched{
		{SourceURL: "http://example.com/schemas/a.xsd", Content: "1234"},
		{SourceURL: "http://example.com/schemas/common/b.xsd", Content: "567"},
	}
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := BuildManifest("http://example.com/schemas/a.xsd", fetched, ts)

	assert.Equal(t, "http://example.com/schemas/a.xsd", m.Root)
	assert.Equal(t, "2026-01-02T03:04:05Z", m.Fetched)
	require.Len(t, m.Schemas, 2)
	assert.Equal(t, "a.xsd", m.Schemas[0].LocalPath)
	assert.Equal(t, 4, m.Schemas[0].Size)
	assert.Equal(t, "common/b.xsd", m.Schemas[1].LocalPath)
	assert.Equal(t, 3, m.Schemas[1].Size)
}

func TestWriteManifestEncodesJSON(t *testing.T) {
	m := Manifest{
		Root:    "a.xsd",
		Fetched: "2026-01-02T03:04:05Z",
		Schemas: []ManifestEntry{{URL: "a.xsd", LocalPath: "a.xsd", Size: 10}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, m))

	var decoded Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m, decoded)
}
