// Package main is the entry point for the chzner CLI.
//
// chzner provisions a fixed-size ClickHouse cluster on Hetzner Cloud. Every
// node gets a static private address and a bootstrap script that installs
// ClickHouse and configures it with a topology listing all of its peers.
//
// Commands: init, plan, render, apply, destroy, version, completion.
//
// For detailed usage information, run:
//
//	chzner --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/chzner/cmd/chzner/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
