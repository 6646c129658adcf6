// Package scanner invokes external scanning tools and captures their raw
// reports for normalization. Tool execution is the only blocking operation
// in the pipeline: every invocation is bounded by a timeout, and a timeout
// is a normal, contained failure rather than a fatal one.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/credo-hq/credo/core/normalize"
)

// DefaultTimeout bounds a single tool invocation unless overridden.
const DefaultTimeout = 2 * time.Minute

// ScanTimeoutError reports a tool invocation that exceeded its deadline. The
// affected practices degrade to incomplete; the run continues.
type ScanTimeoutError struct {
	Tool    string
	Timeout time.Duration
}

func (e *ScanTimeoutError) Error() string {
	return fmt.Sprintf("scanner %s timed out after %s", e.Tool, e.Timeout)
}

// command describes how to invoke one tool against a target path. The target
// is appended as the final argument.
type command struct {
	bin  string
	args []string
}

// defaultCommands maps tool names to their JSON-report invocations.
var defaultCommands = map[string]command{
	"bandit":      {bin: "bandit", args: []string{"-f", "json", "-q", "-r"}},
	"semgrep":     {bin: "semgrep", args: []string{"scan", "--json", "--quiet"}},
	"trufflehog":  {bin: "trufflehog", args: []string{"filesystem", "--json", "--no-update"}},
	"osv-scanner": {bin: "osv-scanner", args: []string{"--format", "json", "-r"}},
}

// Runner executes scanner tools with timeout enforcement and launch rate
// limiting. Construct with NewRunner; the zero value is not usable.
type Runner struct {
	timeout  time.Duration
	limiter  *rate.Limiter
	log      *zap.Logger
	commands map[string]command
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-invocation deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLaunchRate limits tool launches to n per minute. Zero means unlimited.
func WithLaunchRate(perMin int) Option {
	return func(r *Runner) {
		if perMin > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
		}
	}
}

// WithLogger sets the structured logger. The default is a no-op logger so
// library use stays quiet.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithCommand overrides the invocation for a tool. The target path is still
// appended as the final argument.
func WithCommand(tool, bin string, args ...string) Option {
	return func(r *Runner) { r.commands[tool] = command{bin: bin, args: args} }
}

// NewRunner returns a Runner with the default tool command table.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout:  DefaultTimeout,
		log:      zap.NewNop(),
		commands: make(map[string]command, len(defaultCommands)),
	}
	for tool, cmd := range defaultCommands {
		r.commands[tool] = cmd
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run invokes the named tool against the target path and returns its raw
// stdout. A non-zero exit with report output is success: scanners signal
// "findings present" through their exit code. Deadline overruns return a
// ScanTimeoutError; unknown tools return an UnsupportedToolError.
func (r *Runner) Run(ctx context.Context, tool, target string) ([]byte, error) {
	spec, ok := r.commands[tool]
	if !ok {
		return nil, &normalize.UnsupportedToolError{Tool: tool}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for launch slot: %w", err)
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, spec.args...), target)
	cmd := exec.CommandContext(runCtx, spec.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		r.log.Warn("scanner timed out",
			zap.String("tool", tool),
			zap.Duration("timeout", r.timeout),
		)
		return nil, &ScanTimeoutError{Tool: tool, Timeout: r.timeout}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			// Scanners exit non-zero when findings exist; the report on
			// stdout is still the result.
			r.log.Debug("scanner exited non-zero with report",
				zap.String("tool", tool),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.Duration("elapsed", elapsed),
			)
			return stdout.Bytes(), nil
		}
		return nil, fmt.Errorf("running %s: %w (stderr: %s)", tool, err, stderr.String())
	}

	r.log.Debug("scanner completed",
		zap.String("tool", tool),
		zap.Duration("elapsed", elapsed),
		zap.Int("report_bytes", stdout.Len()),
	)
	return stdout.Bytes(), nil
}
