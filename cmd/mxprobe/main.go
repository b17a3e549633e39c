package main

import (
	"fmt"
	"os"

	"github.com/optimode/mxprobe/cmd/mxprobe/commands"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	root := commands.NewRootCmd(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
