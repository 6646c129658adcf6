package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/credo-hq/credo/core/report"
	"github.com/credo-hq/credo/core/score"
)

func writeReport(t *testing.T, scores []score.PracticeScore) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compliance.json")
	r := report.NewJSONReporter("test")
	if err := r.WriteToFile(scores, path); err != nil {
		t.Fatalf("writing report: %v", err)
	}
	return path
}

func intPtr(v int) *int { return &v }

func TestRunShow_FromReportFile(t *testing.T) {
	path := writeReport(t, []score.PracticeScore{
		{PracticeID: "PS.1", Score: intPtr(100), Status: score.StatusCompliant},
		{PracticeID: "PW.5", Score: intPtr(72), Status: score.StatusPartial},
	})

	code := runShow([]string{"-input", path, "-json"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunShow_StatusFilter(t *testing.T) {
	path := writeReport(t, []score.PracticeScore{
		{PracticeID: "PS.1", Score: intPtr(100), Status: score.StatusCompliant},
		{PracticeID: "PW.5", Score: intPtr(40), Status: score.StatusNonCompliant},
	})

	code := runShow([]string{"-input", path, "-status", "non_compliant", "-json"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestRunShow_MissingInput(t *testing.T) {
	code := runShow([]string{"-input", "/nonexistent/compliance.json", "-json"})
	if code != 2 {
		t.Fatalf("expected exit code 2 for a missing input file, got %d", code)
	}
}

func TestRunShow_MalformedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	code := runShow([]string{"-input", path, "-json"})
	if code != 2 {
		t.Fatalf("expected exit code 2 for malformed input, got %d", code)
	}
}

func TestFilterByStatus(t *testing.T) {
	scores := []score.PracticeScore{
		{PracticeID: "PS.1", Status: score.StatusCompliant},
		{PracticeID: "PW.4", Status: score.StatusNonCompliant},
		{PracticeID: "PW.5", Status: score.StatusPartial},
	}

	got := filterByStatus(scores, []string{"non_compliant", "partial"})
	if len(got) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(got))
	}
	if got[0].PracticeID != "PW.4" || got[1].PracticeID != "PW.5" {
		t.Fatalf("unexpected filter result: %v", got)
	}

	if got := filterByStatus(scores, nil); len(got) != 3 {
		t.Fatalf("empty filter must keep everything, got %d", len(got))
	}
}
