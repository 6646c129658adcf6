package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/credo-hq/credo/cli/tui"
	"github.com/credo-hq/credo/core"
	"github.com/credo-hq/credo/core/report"
	"github.com/credo-hq/credo/core/score"
)

// runShow implements the "credo show" command: browse practice scores in an
// interactive TUI, falling back to JSON when stdout is not a terminal.
func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)

	var (
		input      string
		rulesDir   string
		language   string
		statusFlag string
		jsonOutput bool
	)

	fs.StringVar(&input, "input", "", "path to a compliance.json report (default: run an assessment)")
	fs.StringVar(&rulesDir, "rules", "", "rule card directory (default: rules.dir from .credo.yaml)")
	fs.StringVar(&language, "language", "python", "target codebase language")
	fs.StringVar(&statusFlag, "status", "", "filter by status: compliant,partial,non_compliant,incomplete,not_applicable (comma-separated)")
	fs.BoolVar(&jsonOutput, "json", false, "output JSON instead of TUI")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var scores []score.PracticeScore

	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: reading %s: %v\n", input, err)
			return 2
		}
		var rpt report.JSONReport
		if err := json.Unmarshal(data, &rpt); err != nil {
			fmt.Fprintf(os.Stderr, "error: parsing %s: %v\n", input, err)
			return 2
		}
		scores = rpt.Report.Practices
	} else {
		target := "."
		if fs.NArg() > 0 {
			target = fs.Arg(0)
		}

		fmt.Printf("credo %s — assessing %s (%s)\n", version, target, language)
		result, err := core.RunAssessment(context.Background(), core.AssessmentRequest{
			Language:  language,
			CodePaths: []string{target},
		}, core.AssessOptions{
			RulesPath:      rulesDir,
			DefaultSignals: score.Signals{TestsRun: true},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: assessment failed: %v\n", err)
			return 2
		}
		scores = result.Scores
	}

	scores = filterByStatus(scores, splitCSV(statusFlag))

	if jsonOutput || !isTerminal() {
		data, err := json.MarshalIndent(report.Render(scores), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: marshalling JSON: %v\n", err)
			return 2
		}
		fmt.Println(string(data))
		return 0
	}

	m := tui.New(scores)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
		return 2
	}
	return 0
}

// filterByStatus keeps scores whose status is in the requested set. An empty
// set keeps everything.
func filterByStatus(scores []score.PracticeScore, statuses []string) []score.PracticeScore {
	if len(statuses) == 0 {
		return scores
	}
	want := make(map[score.Status]bool, len(statuses))
	for _, s := range statuses {
		want[score.Status(s)] = true
	}
	var out []score.PracticeScore
	for _, ps := range scores {
		if want[ps.Status] {
			out = append(out, ps)
		}
	}
	return out
}

// isTerminal returns true if stdout is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
