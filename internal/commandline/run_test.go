package commandline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeConstructors(t *testing.T) {
	cases := []struct {
		build func(string, ...interface{}) error
		code  int
	}{
		{Usagef, ExitUsage},
		{IOErrorf, ExitIO},
		{ParseErrorf, ExitParse},
		{CodegenErrorf, ExitCodegen},
	}
	for _, c := range cases {
		err := c.build("boom %d", 42)
		var exitErr *ExitError
		assert.True(t, asExitError(err, &exitErr))
		assert.Equal(t, c.code, exitErr.Code)
		assert.Equal(t, "boom 42", exitErr.Err.Error())
	}
}

func TestAsExitErrorUnwrapsWrappedErrors(t *testing.T) {
	base := Usagef("bad flag")
	wrapped := fmt.Errorf("generate: %w", base)

	var exitErr *ExitError
	assert.True(t, asExitError(wrapped, &exitErr))
	assert.Equal(t, ExitUsage, exitErr.Code)
}

func TestAsExitErrorFalseForPlainError(t *testing.T) {
	var exitErr *ExitError
	assert.False(t, asExitError(errors.New("plain"), &exitErr))
}

func TestRunUnknownSubcommandIsUsageError(t *testing.T) {
	code := Run([]string{"bogus-subcommand"})
	assert.Equal(t, ExitUsage, code)
}

func TestRunGenerateMissingArgsIsUsageError(t *testing.T) {
	code := Run([]string{"generate"})
	assert.Equal(t, ExitUsage, code)
}

func TestRunGenerateUnreadableFileIsIOError(t *testing.T) {
	code := Run([]string{"generate", "/nonexistent/path/does-not-exist.xsd"})
	assert.Equal(t, ExitIO, code)
}

func TestRunGenerateUnknownExtensionIsUsageError(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/schema.unknown"
	writeFile(t, path, "not a schema")
	code := Run([]string{"generate", path})
	assert.Equal(t, ExitUsage, code)
}
