package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/credo-hq/credo/core/bundle"
)

func TestResolveBundlePairs_Flag(t *testing.T) {
	pairs, err := resolveBundlePairs("API:python, SQL:go")
	if err != nil {
		t.Fatalf("resolveBundlePairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].topic != "API" || pairs[0].language != "python" {
		t.Fatalf("unexpected first pair: %+v", pairs[0])
	}
	if pairs[1].topic != "SQL" || pairs[1].language != "go" {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
}

func TestResolveBundlePairs_InvalidSpec(t *testing.T) {
	if _, err := resolveBundlePairs("API"); err == nil {
		t.Fatal("expected error for a spec without a language")
	}
	if _, err := resolveBundlePairs("API:"); err == nil {
		t.Fatal("expected error for a spec with an empty language")
	}
}

func TestRunWatch_NoBundlesConfigured(t *testing.T) {
	// No -bundles flag and no .credo.yaml in the working directory.
	rulesDir := writeRulesDir(t, 6)

	code := runWatch([]string{"-rules", rulesDir})
	if code != 2 {
		t.Fatalf("expected exit code 2 without configured bundles, got %d", code)
	}
}

func TestCompileBundles_WritesArtifacts(t *testing.T) {
	rulesDir := writeRulesDir(t, 6)
	outDir := filepath.Join(t.TempDir(), "bundles")

	cache := bundle.NewCache()
	compileBundles(cache, rulesDir, outDir, []bundlePair{{topic: "API", language: "python"}})

	if _, err := os.Stat(filepath.Join(outDir, "api-python.json")); err != nil {
		t.Fatalf("expected bundle artifact: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 cached bundle, got %d", cache.Len())
	}
}

func TestIsRuleCardFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"rules/secrets-api-001.yaml", true},
		{"rules/secrets-api-001.YML", true},
		{"rules/readme.md", false},
		{"rules/card.json", false},
	}
	for _, tt := range tests {
		if got := isRuleCardFile(tt.path); got != tt.want {
			t.Fatalf("isRuleCardFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
