package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/credo-hq/credo/core/report"
	"github.com/credo-hq/credo/core/score"
)

func TestRunAssess_UnsupportedLanguage(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	code := runAssess([]string{"-quiet", "-language", "cobol", "-output", outDir, dir})
	if code != 0 {
		t.Fatalf("expected exit code 0 for an unsupported language, got %d", code)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "compliance.json"))
	if err != nil {
		t.Fatalf("reading compliance report: %v", err)
	}

	var rpt report.JSONReport
	if err := json.Unmarshal(data, &rpt); err != nil {
		t.Fatalf("parsing compliance report: %v", err)
	}
	if len(rpt.Report.Practices) == 0 {
		t.Fatal("expected practices in the report")
	}
	for _, ps := range rpt.Report.Practices {
		if ps.Status != score.StatusNotApplicable {
			t.Fatalf("practice %s: expected not_applicable, got %s", ps.PracticeID, ps.Status)
		}
	}
}

func TestRunAssess_UnknownPractice(t *testing.T) {
	dir := t.TempDir()

	code := runAssess([]string{"-quiet", "-language", "cobol", "-practices", "XX.1", "-output", dir, dir})
	if code != 2 {
		t.Fatalf("expected exit code 2 for an unknown practice, got %d", code)
	}
}

func TestFormatScore(t *testing.T) {
	if got := formatScore(nil); got != "-" {
		t.Fatalf("formatScore(nil) = %q, want %q", got, "-")
	}
	n := 87
	if got := formatScore(&n); got != "87" {
		t.Fatalf("formatScore(87) = %q, want %q", got, "87")
	}
}
