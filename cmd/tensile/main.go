// Command tensile runs dispatch conformance scenarios and inspects the
// dispatch log.
package main

import (
	"fmt"
	"os"

	"github.com/tensile-ml/tensile/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
