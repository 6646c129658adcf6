package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestRun_VersionFlag(t *testing.T) {
	code := run([]string{"--version"})
	if code != 0 {
		t.Fatalf("expected exit code 0 for --version, got %d", code)
	}
}

func TestRun_VersionCommand(t *testing.T) {
	code := run([]string{"version"})
	if code != 0 {
		t.Fatalf("expected exit code 0 for version command, got %d", code)
	}
}

func TestRun_NoArgs(t *testing.T) {
	code := run([]string{})
	if code != 2 {
		t.Fatalf("expected exit code 2 for no args, got %d", code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code := run([]string{"invalid"})
	if code != 2 {
		t.Fatalf("expected exit code 2 for unknown command, got %d", code)
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{" a , ,b ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := splitCSV(tt.input)
		if len(got) != len(tt.want) {
			t.Fatalf("splitCSV(%q) = %v, want %v", tt.input, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("splitCSV(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	}
}

// writeRulesDir writes n valid SECRETS-API cards and returns the directory.
func writeRulesDir(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 1; i <= n; i++ {
		card := fmt.Sprintf(`id: SECRETS-API-%03d
title: Keep API credentials out of source %d
severity: high
requirement: API credentials must come from a secret store.
refs:
  cwe: [CWE-798]
`, i, i)
		name := fmt.Sprintf("secrets-api-%03d.yaml", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(card), 0o644); err != nil {
			t.Fatalf("writing rule card: %v", err)
		}
	}
	return dir
}
