// Command ftsearch compiles and runs full-text searches.
package main

import (
	"os"

	"github.com/roach88/ftsearch/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	os.Exit(cli.GetExitCode(err))
}
