// Command mapfcbs runs the conflict-based search engine: solve a single
// instance, serve the HTTP API, or batch-benchmark a directory of
// instances into a results CSV.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "mapfcbs",
		Short: "Multi-agent conflict-based search",
	}
	root.AddCommand(newSolveCmd(), newServeCmd(), newBenchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
