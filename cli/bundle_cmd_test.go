package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/credo-hq/credo/core/bundle"
)

func TestRunBundle_MissingArgs(t *testing.T) {
	code := runBundle([]string{})
	if code != 2 {
		t.Fatalf("expected exit code 2 without topic and language, got %d", code)
	}
}

func TestRunBundle_MissingRulesDir(t *testing.T) {
	code := runBundle([]string{"-rules", "/nonexistent/rules/abc123", "API", "python"})
	if code != 2 {
		t.Fatalf("expected exit code 2 for missing rules dir, got %d", code)
	}
}

func TestRunBundle_WritesArtifact(t *testing.T) {
	rulesDir := writeRulesDir(t, 6)
	out := filepath.Join(t.TempDir(), "bundle.json")

	code := runBundle([]string{"-quiet", "-rules", rulesDir, "-output", out, "API", "python"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading bundle artifact: %v", err)
	}
	var b bundle.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("parsing bundle artifact: %v", err)
	}
	if b.BundleID != "api-python" {
		t.Fatalf("bundle ID = %q, want %q", b.BundleID, "api-python")
	}
	if len(b.Rules) != 6 {
		t.Fatalf("expected 6 rules, got %d", len(b.Rules))
	}
	if b.ContentHash == "" {
		t.Fatal("expected a content hash")
	}
}

func TestRunBundle_NoApplicableRules(t *testing.T) {
	rulesDir := writeRulesDir(t, 6)

	code := runBundle([]string{"-quiet", "-rules", rulesDir, "NOPE", "python"})
	if code != 1 {
		t.Fatalf("expected exit code 1 for a topic with no rules, got %d", code)
	}
}
