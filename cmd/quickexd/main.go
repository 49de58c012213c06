/*
Command quickexd runs the quickex escrow engine as a single process node
backed by a local database.

Every command opens the state stored in the home directory, executes at most
one transaction and closes the state again.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iov-one/quickex/errors"
)

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		os.Exit(reportError(os.Stderr, err, debug))
	}
}

// reportError writes err the way it may be shown to the operator and
// returns the process exit code. Registered failures exit with 2, internal
// ones with 1.
func reportError(w io.Writer, err error, debug bool) int {
	code, log := errors.Report(err, debug)
	fmt.Fprintf(w, "Error: %s (code %d)\n", log, code)
	if code == 1 {
		return 1
	}
	return 2
}
