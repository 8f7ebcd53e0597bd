package commandline

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes per spec.md section 6: 0 OK, 1 usage error, 2 I/O error,
// 3 parse error, 4 codegen error.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitIO      = 2
	ExitParse   = 3
	ExitCodegen = 4
)

// ExitError pairs an error with the exit code it should produce, so
// that a subcommand's RunE can report both a human-readable message and
// which of spec.md section 6's four failure classes occurred.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Usagef, IOErrorf, ParseErrorf, and CodegenErrorf build an *ExitError
// for each of spec.md section 6's non-zero exit codes.
func Usagef(format string, v ...interface{}) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, v...)}
}
func IOErrorf(format string, v ...interface{}) error {
	return &ExitError{Code: ExitIO, Err: fmt.Errorf(format, v...)}
}
func ParseErrorf(format string, v ...interface{}) error {
	return &ExitError{Code: ExitParse, Err: fmt.Errorf(format, v...)}
}
func CodegenErrorf(format string, v ...interface{}) error {
	return &ExitError{Code: ExitCodegen, Err: fmt.Errorf(format, v...)}
}

// Run builds the xb root command (generate, fetch) and executes it
// against args, returning the process exit code cmd/xb/main.go should
// pass to os.Exit. Errors that were not wrapped in an *ExitError by a
// subcommand are treated as usage errors, since cobra itself only
// rejects malformed flags/arguments before a RunE ever runs.
func Run(args []string) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true
	root.SilenceUsage = true

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(os.Stderr, "xb: %v\n", err)
	var exitErr *ExitError
	if ok := asExitError(err, &exitErr); ok {
		return exitErr.Code
	}
	return ExitUsage
}

func asExitError(err error, target **ExitError) bool {
	for err != nil {
		if e, ok := err.(*ExitError); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "xb",
		Short:         "xb compiles XSD, RELAX NG, and DTD schemas into typed Go data bindings",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newGenerateCommand())
	root.AddCommand(newFetchCommand())
	return root
}
