// Command simrec manages the saved-recordings list.
package main

import (
	"fmt"
	"os"

	"github.com/maxter/simrec/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
