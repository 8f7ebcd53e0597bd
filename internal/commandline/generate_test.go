package commandline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o666))
}

const catalogXSD = `<?xml version="1.0"?>
<schema xmlns="http://www.w3.org/2001/XMLSchema"
        targetNamespace="http://example.com/catalog"
        xmlns:tns="http://example.com/catalog">
  <simpleType name="Status">
    <restriction base="string">
      <enumeration value="active"/>
      <enumeration value="retired"/>
    </restriction>
  </simpleType>
  <complexType name="Book">
    <sequence>
      <element name="title" type="string"/>
    </sequence>
    <attribute name="status" type="tns:Status" use="required"/>
  </complexType>
  <element name="book" type="tns:Book"/>
</schema>`

func TestRunGenerateWritesGoSource(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.xsd")
	writeFile(t, schemaPath, catalogXSD)

	outDir := filepath.Join(dir, "out")
	code := Run([]string{"generate", schemaPath, "-o", outDir})
	assert.Equal(t, ExitOK, code)

	matches, err := filepath.Glob(filepath.Join(outDir, "*", "*", "*", "*.go"))
	require.NoError(t, err)
	assert.NotEmpty(t, matches, "expected at least one generated .go file under %s", outDir)
}

func TestRunGenerateListOutputsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.xsd")
	writeFile(t, schemaPath, catalogXSD)

	outDir := filepath.Join(dir, "out")
	code := Run([]string{"generate", schemaPath, "-o", outDir, "--list-outputs"})
	assert.Equal(t, ExitOK, code)

	_, err := os.Stat(outDir)
	assert.True(t, os.IsNotExist(err), "--list-outputs must not create the output directory")
}

func TestRunGenerateNamespaceOverride(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.xsd")
	writeFile(t, schemaPath, catalogXSD)

	outDir := filepath.Join(dir, "out")
	code := Run([]string{"generate", schemaPath, "-o", outDir, "-n", "http://example.com/catalog=mycorp/catalog"})
	assert.Equal(t, ExitOK, code)

	_, err := os.Stat(filepath.Join(outDir, "mycorp", "catalog"))
	assert.NoError(t, err)
}

func TestRunGenerateHeaderOnlyAndFilePerTypeConflict(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "catalog.xsd")
	writeFile(t, schemaPath, catalogXSD)

	code := Run([]string{"generate", schemaPath, "--header-only", "--file-per-type"})
	assert.Equal(t, ExitUsage, code)
}
