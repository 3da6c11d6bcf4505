// Package main is the entry point for the sapling CLI.
package main

import (
	"errors"
	"os"

	"github.com/sapling-lang/sapling/internal/cli"
	"github.com/sapling-lang/sapling/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, cli.ErrFindings) {
			return cli.ExitFindings
		}
		logging.Default().Error("command failed", "error", err)
		return cli.ExitInternalError
	}
	return cli.ExitSuccess
}
