// Package main is the entry point for the nihil CLI, a minimalist
// manager for penetration-testing Docker containers. All functionality
// lives in the internal/cli package; main only injects build metadata
// and hands control to cobra.
package main

import (
	"github.com/thenullpigeons/nihil/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
