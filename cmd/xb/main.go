// Command xb compiles XSD, RELAX NG, and DTD schemas into typed Go
// data bindings, and fetches a schema's transitive imports/includes
// over HTTP. See spec.md section 6 for the command-line interface.
package main

import (
	"os"

	"xb.dev/xb/internal/commandline"
)

func main() {
	os.Exit(commandline.Run(os.Args[1:]))
}
