package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/credo-hq/credo/core/score"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".credo.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return dir
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("a missing config must not be an error: %v", err)
	}
	if cfg.Rules.Dir != "" || len(cfg.Scan.Tools) != 0 {
		t.Fatal("expected a zero-value config")
	}

	scorer, err := cfg.Scorer()
	if err != nil {
		t.Fatalf("zero config must yield the default scorer: %v", err)
	}
	if scorer == nil {
		t.Fatal("expected a scorer")
	}
}

func TestLoadConfig_Full(t *testing.T) {
	dir := writeConfig(t, `rules:
  dir: rules/
scan:
  tools: [bandit, trufflehog]
  timeout: 45s
  launch_per_min: 10
scoring:
  weights:
    vulnerability_impact: 0.5
    pattern_compliance: 0.2
    test_coverage: 0.2
    process_compliance: 0.1
  thresholds:
    compliant: 95
    partial: 75
output:
  format: json
  directory: reports/
bundles:
  - topic: api
    language: python
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Rules.Dir != "rules/" {
		t.Fatalf("unexpected rules dir %q", cfg.Rules.Dir)
	}
	if len(cfg.Scan.Tools) != 2 || cfg.Scan.Tools[0] != "bandit" {
		t.Fatalf("unexpected tools %v", cfg.Scan.Tools)
	}
	if cfg.Scan.LaunchPerMin != 10 {
		t.Fatalf("unexpected launch rate %d", cfg.Scan.LaunchPerMin)
	}
	if len(cfg.Bundles) != 1 || cfg.Bundles[0].Topic != "api" {
		t.Fatalf("unexpected bundles %v", cfg.Bundles)
	}

	timeout, err := cfg.ScanTimeout(2 * time.Minute)
	if err != nil {
		t.Fatalf("ScanTimeout: %v", err)
	}
	if timeout != 45*time.Second {
		t.Fatalf("expected 45s timeout, got %s", timeout)
	}

	if _, err := cfg.Scorer(); err != nil {
		t.Fatalf("valid overrides must build a scorer: %v", err)
	}
	if cfg.Scoring.Thresholds.Compliant != 95 {
		t.Fatalf("unexpected compliant threshold %d", cfg.Scoring.Thresholds.Compliant)
	}
}

func TestConfig_InvalidWeightOverride(t *testing.T) {
	dir := writeConfig(t, `scoring:
  weights:
    vulnerability_impact: 0.9
    pattern_compliance: 0.9
    test_coverage: 0.1
    process_compliance: 0.1
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := cfg.Scorer(); err == nil {
		t.Fatal("weights not summing to 1.0 must be rejected")
	}
}

func TestConfig_MalformedTimeout(t *testing.T) {
	dir := writeConfig(t, `scan:
  timeout: soon
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := cfg.ScanTimeout(time.Minute); err == nil {
		t.Fatal("a malformed timeout must be an error, not a silent default")
	}
}

func TestConfig_MalformedYAML(t *testing.T) {
	dir := writeConfig(t, "scan: [not: a: map")
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestConfig_DefaultScorerMatchesPackageDefaults(t *testing.T) {
	cfg := &Config{}
	scorer, err := cfg.Scorer()
	if err != nil {
		t.Fatalf("Scorer: %v", err)
	}
	def := score.Default()
	got := scorer.Score("PW.4", nil, nil, score.Signals{TestsRun: true})
	want := def.Score("PW.4", nil, nil, score.Signals{TestsRun: true})
	if *got.Score != *want.Score || got.Status != want.Status {
		t.Fatal("config-default scorer must match package defaults")
	}
}
