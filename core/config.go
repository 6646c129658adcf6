// Package core provides the shared assessment pipeline for credo.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/credo-hq/credo/core/score"
)

// Config holds project-level configuration loaded from .credo.yaml.
type Config struct {
	Rules   RulesSettings   `yaml:"rules"`
	Scan    ScanSettings    `yaml:"scan"`
	Scoring ScoringSettings `yaml:"scoring"`
	Output  OutputSettings  `yaml:"output"`
	Bundles []BundleSpec    `yaml:"bundles"`
}

// RulesSettings locates the rule card sources.
type RulesSettings struct {
	Dir string `yaml:"dir"`
}

// ScanSettings controls which tools run and how invocations are bounded.
type ScanSettings struct {
	Tools        []string `yaml:"tools"`
	Timeout      string   `yaml:"timeout"`        // e.g. "2m", "45s"
	LaunchPerMin int      `yaml:"launch_per_min"` // 0 = unlimited
	Exclude      []string `yaml:"exclude"`
}

// ScoringSettings overrides the scorer's weights and thresholds. Zero values
// fall back to the defaults.
type ScoringSettings struct {
	Weights    *score.Weights    `yaml:"weights"`
	Thresholds *score.Thresholds `yaml:"thresholds"`
}

// OutputSettings controls default report format and directory.
type OutputSettings struct {
	Format    string `yaml:"format"`
	Directory string `yaml:"directory"`
}

// BundleSpec names one topic/language pair to compile at build time.
type BundleSpec struct {
	Topic    string `yaml:"topic"`
	Language string `yaml:"language"`
}

// LoadConfig reads .credo.yaml from root and returns the parsed config. If
// the file does not exist, a zero-value Config is returned with no error.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ".credo.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// Scorer builds a scorer from the config, falling back to default weights
// and thresholds where the config is silent. Invalid overrides are rejected.
func (c *Config) Scorer() (*score.Scorer, error) {
	weights := score.DefaultWeights()
	if c.Scoring.Weights != nil {
		weights = *c.Scoring.Weights
	}
	thresholds := score.DefaultThresholds()
	if c.Scoring.Thresholds != nil {
		thresholds = *c.Scoring.Thresholds
	}
	return score.New(weights, thresholds)
}

// ScanTimeout parses the configured tool timeout, or returns the fallback
// when unset. A malformed duration is an error rather than a silent default.
func (c *Config) ScanTimeout(fallback time.Duration) (time.Duration, error) {
	if c.Scan.Timeout == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(c.Scan.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing scan timeout %q: %w", c.Scan.Timeout, err)
	}
	return d, nil
}
