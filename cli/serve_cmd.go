package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/credo-hq/credo/server"
)

// runServe implements the "credo serve" command: expose the rule registry,
// bundler, and assessment pipeline as MCP tools on stdio.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	var (
		rulesDir     string
		allowedPaths string
	)

	fs.StringVar(&rulesDir, "rules", "rules", "rule card directory")
	fs.StringVar(&allowedPaths, "allowed-paths", "", "comma-separated list of allowed workspace paths")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	srv := server.New(version, rulesDir, splitCSV(allowedPaths))
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "error: MCP server failed: %v\n", err)
		return 2
	}
	return 0
}
