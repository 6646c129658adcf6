package scanner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/credo-hq/credo/core/normalize"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests use POSIX shell helpers")
	}
}

func TestRun_UnknownTool(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(context.Background(), "snyk", ".")
	var ute *normalize.UnsupportedToolError
	if !errors.As(err, &ute) {
		t.Fatalf("expected UnsupportedToolError, got %v", err)
	}
}

func TestRun_CapturesStdout(t *testing.T) {
	requireUnix(t)
	r := NewRunner(WithCommand("bandit", "sh", "-c", `printf '{"results": []}'`))
	out, err := r.Run(context.Background(), "bandit", ".")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(string(out), `"results"`) {
		t.Fatalf("expected report on stdout, got %q", out)
	}
}

func TestRun_NonZeroExitWithReportIsSuccess(t *testing.T) {
	requireUnix(t)
	// Bandit and semgrep exit 1 when findings exist; the report is still
	// the result.
	r := NewRunner(WithCommand("semgrep", "sh", "-c", `printf '{"results": [1]}'; exit 1`))
	out, err := r.Run(context.Background(), "semgrep", ".")
	if err != nil {
		t.Fatalf("expected non-zero exit with output to succeed, got %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected the report to be returned")
	}
}

func TestRun_NonZeroExitWithoutReportFails(t *testing.T) {
	requireUnix(t)
	r := NewRunner(WithCommand("bandit", "sh", "-c", `echo broken >&2; exit 2`))
	if _, err := r.Run(context.Background(), "bandit", "."); err == nil {
		t.Fatal("expected an error for a failed invocation with no report")
	}
}

func TestRun_Timeout(t *testing.T) {
	requireUnix(t)
	r := NewRunner(
		WithTimeout(50*time.Millisecond),
		WithCommand("trufflehog", "sh", "-c", "sleep 5"),
	)
	_, err := r.Run(context.Background(), "trufflehog", ".")
	var ste *ScanTimeoutError
	if !errors.As(err, &ste) {
		t.Fatalf("expected ScanTimeoutError, got %v", err)
	}
	if ste.Tool != "trufflehog" {
		t.Fatalf("expected error to carry the tool name, got %q", ste.Tool)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	r := NewRunner(WithCommand("bandit", "credo-definitely-not-installed"))
	if _, err := r.Run(context.Background(), "bandit", "."); err == nil {
		t.Fatal("expected an error when the tool binary is absent")
	}
}

func TestNewRunner_DefaultCommandsCoverAdapters(t *testing.T) {
	r := NewRunner()
	for _, tool := range normalize.Supported() {
		if _, ok := r.commands[tool]; !ok {
			t.Errorf("no default command for supported tool %q", tool)
		}
	}
}
