// Command solipr is the command-line entrypoint for the engine: a thin
// wrapper around internal/cli's cobra command tree.
package main

import (
	"fmt"
	"os"

	"github.com/solipr/engine/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
