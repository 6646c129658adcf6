// Package main is the entry point for the credo CLI.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the exit code.
// 0 = clean, 1 = compliance gaps or invalid rule cards detected, 2 = error.
func run(args []string) int {
	fs := flag.NewFlagSet("credo", flag.ContinueOnError)

	var versionFlag bool
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: credo <command> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  assess <path>            Assess a codebase against SSDF practices\n")
		fmt.Fprintf(os.Stderr, "  bundle <topic> <language> Compile a rule bundle for a topic/language pair\n")
		fmt.Fprintf(os.Stderr, "  rules                    List and inspect rule cards\n")
		fmt.Fprintf(os.Stderr, "  watch                    Recompile bundles when rule cards change\n")
		fmt.Fprintf(os.Stderr, "  show <path>              Browse practice scores interactively\n")
		fmt.Fprintf(os.Stderr, "  serve                    Start MCP server on stdio\n")
		fmt.Fprintf(os.Stderr, "  version                  Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		fmt.Printf("credo %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fs.Usage()
		return 2
	}

	command := remaining[0]
	switch command {
	case "assess":
		return runAssess(remaining[1:])
	case "bundle":
		return runBundle(remaining[1:])
	case "rules":
		return runRules(remaining[1:])
	case "watch":
		return runWatch(remaining[1:])
	case "show":
		return runShow(remaining[1:])
	case "serve":
		return runServe(remaining[1:])
	case "version":
		fmt.Printf("credo %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintln(os.Stderr, "Usage: credo <command> [flags]")
		return 2
	}
}
