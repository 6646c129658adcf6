package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/credo-hq/credo/core/bundle"
	"github.com/credo-hq/credo/core/rulecard"
)

// runBundle implements the "credo bundle" command: compile the rule bundle
// for one topic/language pair and print or write the artifact.
func runBundle(args []string) int {
	fs := flag.NewFlagSet("bundle", flag.ContinueOnError)

	var (
		rulesDir string
		output   string
		quiet    bool
	)

	fs.StringVar(&rulesDir, "rules", "rules", "rule card directory")
	fs.StringVar(&output, "output", "", "write the bundle to this file instead of stdout")
	fs.BoolVar(&quiet, "quiet", false, "suppress warnings")
	fs.BoolVar(&quiet, "q", false, "suppress warnings (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: credo bundle <topic> <language> [flags]")
		return 2
	}
	topic, language := fs.Arg(0), fs.Arg(1)

	set, loadReport, err := rulecard.Load(rulesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading rule cards: %v\n", err)
		return 2
	}
	if !quiet {
		for _, f := range loadReport.Failures {
			fmt.Fprintf(os.Stderr, "warning: skipped rule card %s: %v\n", f.Path, f.Err)
		}
	}

	b, err := bundle.Compile(topic, language, set)
	if err != nil {
		var insufficient *bundle.InsufficientRulesError
		if errors.As(err, &insufficient) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: compiling bundle: %v\n", err)
		return 2
	}

	if b.Thin() && !quiet {
		fmt.Fprintf(os.Stderr, "warning: bundle %s is thin: %d rules, %d wanted\n",
			b.BundleID, len(b.Rules), bundle.MinRules)
	}

	data, err := b.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: serializing bundle: %v\n", err)
		return 2
	}

	if output == "" {
		fmt.Println(string(data))
		return 0
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", output, err)
		return 2
	}
	if !quiet {
		fmt.Printf("[bundle] wrote %s (%d rules, hash %.12s)\n", output, len(b.Rules), b.ContentHash)
	}
	return 0
}
