package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/credo-hq/credo/core/findings"
	"github.com/credo-hq/credo/core/normalize"
	"github.com/credo-hq/credo/core/rulecard"
	"github.com/credo-hq/credo/core/scanner"
	"github.com/credo-hq/credo/core/score"
	"github.com/credo-hq/credo/core/taxonomy"
)

// supportedLanguages maps an assessment language to the tools that can cover
// it. A language outside this table makes every practice not_applicable.
var supportedLanguages = map[string][]string{
	"python":     {"bandit", "semgrep", "trufflehog", "osv-scanner"},
	"go":         {"semgrep", "trufflehog", "osv-scanner"},
	"javascript": {"semgrep", "trufflehog", "osv-scanner"},
	"typescript": {"semgrep", "trufflehog", "osv-scanner"},
	"java":       {"semgrep", "trufflehog", "osv-scanner"},
}

// toolCoverage maps a tool to the practices whose assessment depends on its
// report. When every covering tool for a practice fails, the practice
// degrades to incomplete instead of being silently scored on partial data.
var toolCoverage = map[string][]string{
	"bandit":      {"PW.5", "PW.7", "PW.9", "PS.1"},
	"semgrep":     {"PW.5", "PW.7", "PW.9", "PS.1"},
	"trufflehog":  {"PS.1"},
	"osv-scanner": {"PW.4", "RV.1"},
}

// AssessmentRequest is the boundary input for one assessment run.
type AssessmentRequest struct {
	// PracticeIDs selects the practices to assess. Empty means the whole
	// taxonomy.
	PracticeIDs []string `json:"practice_ids,omitempty"`

	// Language of the target codebase, e.g. "python".
	Language string `json:"language"`

	// CodePaths are the roots to scan. An empty list means no input was
	// found: every practice scores 0 / non_compliant.
	CodePaths []string `json:"code_paths"`

	// Context carries free-form caller metadata; it does not affect
	// scoring.
	Context map[string]string `json:"context,omitempty"`
}

// ValidationResult is the boundary output for one practice.
type ValidationResult struct {
	PracticeID        string             `json:"practice_id"`
	Language          string             `json:"language"`
	TechnicalFindings []findings.Finding `json:"technical_findings"`
	ComplianceScore   *int               `json:"compliance_score"`
	Status            score.Status       `json:"status"`
	Recommendations   []string           `json:"recommendations"`
}

// ToolFailure records one scanner tool whose contribution is absent from the
// run, and why.
type ToolFailure struct {
	Tool     string `json:"tool"`
	Reason   string `json:"reason"`
	TimedOut bool   `json:"timed_out"`
}

// AssessmentResult holds the complete output of an assessment pipeline run.
type AssessmentResult struct {
	Scores       []score.PracticeScore
	Results      []ValidationResult
	Findings     *findings.FindingSet
	Summary      score.Summary
	ToolFailures []ToolFailure
	LoadReport   *rulecard.LoadReport
	Rules        *rulecard.Set
}

// AssessOptions holds optional parameters for RunAssessment. The zero value
// applies project config and defaults.
type AssessOptions struct {
	// RulesPath overrides the rule card source location. CLI flags take
	// precedence over .credo.yaml config values.
	RulesPath string

	// Tools overrides the tool list. Defaults to the language's table.
	Tools []string

	// Timeout bounds each tool invocation.
	Timeout time.Duration

	// Signals supplies per-practice non-finding inputs (pattern coverage,
	// test results, documented procedures). A practice with no entry uses
	// DefaultSignals.
	Signals map[string]score.Signals

	// DefaultSignals applies to practices with no Signals entry. The zero
	// value (no tests run) makes such practices incomplete, which keeps
	// "not assessed" distinct from "assessed and compliant".
	DefaultSignals score.Signals

	// Concurrency bounds parallel practice scoring. Defaults to 4.
	Concurrency int

	// Logger receives pipeline progress. Defaults to a no-op logger.
	Logger *zap.Logger

	// Runner overrides the scanner runner, mainly for tests.
	Runner *scanner.Runner
}

// RunAssessment executes the full assessment pipeline: load rule cards, run
// the language's scanner tools, normalize their reports, score every
// requested practice, and aggregate the results.
//
// Tool failures are contained: an unsupported or timed-out tool
// reduces coverage and degrades only the practices it covers; only the
// inability to load any rules or resolve a practice is fatal. Practice
// scores are published as they complete, so cancelling the context stops
// further scoring without corrupting finished scores.
func RunAssessment(ctx context.Context, req AssessmentRequest, opts AssessOptions) (*AssessmentResult, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	root := "."
	if len(req.CodePaths) > 0 {
		root = req.CodePaths[0]
	}
	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scorer, err := cfg.Scorer()
	if err != nil {
		return nil, fmt.Errorf("configuring scorer: %w", err)
	}

	// Phase 1: load the rule registry. CLI flag > config > none.
	rulesPath := opts.RulesPath
	if rulesPath == "" {
		rulesPath = cfg.Rules.Dir
	}
	var ruleSet *rulecard.Set
	var loadReport *rulecard.LoadReport
	if rulesPath != "" {
		ruleSet, loadReport, err = rulecard.Load(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("loading rule cards: %w", err)
		}
		for _, f := range loadReport.Failures {
			log.Warn("rule card skipped", zap.String("path", f.Path), zap.Error(f.Err))
		}
	} else {
		ruleSet = rulecard.NewSet()
		loadReport = &rulecard.LoadReport{}
	}

	// Phase 2: resolve the requested practices. Unknown IDs are caller
	// errors, surfaced immediately.
	practices, err := resolvePractices(req.PracticeIDs)
	if err != nil {
		return nil, err
	}

	language := strings.ToLower(req.Language)
	languageTools, languageSupported := supportedLanguages[language]

	// Phase 3: run scanners and normalize their reports.
	allFindings := findings.NewFindingSet()
	var toolFailures []ToolFailure
	failedTools := make(map[string]bool)
	ranTools := make(map[string]bool)

	if languageSupported && len(req.CodePaths) > 0 {
		tools := opts.Tools
		if tools == nil {
			tools = cfg.Scan.Tools
		}
		if tools == nil {
			tools = languageTools
		}

		runner := opts.Runner
		if runner == nil {
			var runnerOpts []scanner.Option
			timeout := opts.Timeout
			if timeout == 0 {
				timeout, err = cfg.ScanTimeout(scanner.DefaultTimeout)
				if err != nil {
					return nil, err
				}
			}
			runnerOpts = append(runnerOpts, scanner.WithTimeout(timeout), scanner.WithLogger(log))
			if cfg.Scan.LaunchPerMin > 0 {
				runnerOpts = append(runnerOpts, scanner.WithLaunchRate(cfg.Scan.LaunchPerMin))
			}
			runner = scanner.NewRunner(runnerOpts...)
		}

		for _, tool := range tools {
			failure, findingsFromTool := runTool(ctx, runner, tool, req.CodePaths, log)
			if failure != nil {
				toolFailures = append(toolFailures, *failure)
				failedTools[tool] = true
				continue
			}
			ranTools[tool] = true
			for _, f := range findingsFromTool {
				allFindings.Add(f)
			}
		}
	}

	allFindings.Deduplicate()
	allFindings.SortDeterministic()

	// Phase 4: score practices concurrently. Each score is published on
	// completion; a cancelled context stops the remaining practices only.
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var mu sync.Mutex
	scored := make(map[string]score.PracticeScore, len(practices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, practice := range practices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			ps := scoreOnePractice(scorer, practice, allFindings, ruleSet, sig(req, opts, practice, languageSupported, failedTools, ranTools))

			mu.Lock()
			scored[practice.ID] = ps
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()

	// Phase 5: aggregate whatever completed, in taxonomy order.
	var scores []score.PracticeScore
	for _, practice := range practices {
		if ps, ok := scored[practice.ID]; ok {
			scores = append(scores, ps)
		}
	}

	result := &AssessmentResult{
		Scores:       scores,
		Results:      validationResults(scores, language),
		Findings:     allFindings,
		Summary:      score.Aggregate(scores),
		ToolFailures: toolFailures,
		LoadReport:   loadReport,
		Rules:        ruleSet,
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return result, err
	}
	return result, nil
}

// runTool invokes one scanner against every code path and normalizes the
// combined output. A nil failure means the tool contributed.
func runTool(ctx context.Context, runner *scanner.Runner, tool string, codePaths []string, log *zap.Logger) (*ToolFailure, []findings.Finding) {
	var out []findings.Finding
	for _, path := range codePaths {
		raw, err := runner.Run(ctx, tool, path)
		if err != nil {
			var ste *scanner.ScanTimeoutError
			var ute *normalize.UnsupportedToolError
			switch {
			case errors.As(err, &ste):
				log.Warn("tool timed out, coverage reduced", zap.String("tool", tool))
				return &ToolFailure{Tool: tool, Reason: err.Error(), TimedOut: true}, nil
			case errors.As(err, &ute):
				log.Warn("tool unsupported, coverage reduced", zap.String("tool", tool))
				return &ToolFailure{Tool: tool, Reason: err.Error()}, nil
			default:
				log.Warn("tool failed, coverage reduced", zap.String("tool", tool), zap.Error(err))
				return &ToolFailure{Tool: tool, Reason: err.Error()}, nil
			}
		}
		normalized, err := normalize.Normalize(raw, tool)
		if err != nil {
			log.Warn("report unparseable, coverage reduced", zap.String("tool", tool), zap.Error(err))
			return &ToolFailure{Tool: tool, Reason: err.Error()}, nil
		}
		out = append(out, normalized...)
	}
	return nil, out
}

// sig builds the scoring signals for one practice, applying the sentinel
// conditions: unsupported language, absent input, and lost tool coverage.
func sig(req AssessmentRequest, opts AssessOptions, practice taxonomy.Practice, languageSupported bool, failedTools, ranTools map[string]bool) score.Signals {
	s, ok := opts.Signals[practice.ID]
	if !ok {
		s = opts.DefaultSignals
	}

	if !languageSupported {
		s.LanguageUnsupported = true
		return s
	}
	if len(req.CodePaths) == 0 {
		s.NoInput = true
		return s
	}

	// A practice whose covering tools all failed cannot be assessed from
	// findings; degrade it to incomplete via a null test component.
	covering, failed := 0, 0
	for tool, practiceIDs := range toolCoverage {
		for _, id := range practiceIDs {
			if id != practice.ID {
				continue
			}
			if ranTools[tool] {
				covering++
			} else if failedTools[tool] {
				failed++
			}
		}
	}
	if covering == 0 && failed > 0 {
		s.TestsRun = false
	}
	return s
}

// scoreOnePractice matches rule cards to the practice's expected categories
// and scores it.
func scoreOnePractice(scorer *score.Scorer, practice taxonomy.Practice, fs *findings.FindingSet, ruleSet *rulecard.Set, s score.Signals) score.PracticeScore {
	matched := ruleSet.Filter(func(c rulecard.Card) bool {
		for _, category := range practice.RuleCategories {
			if strings.EqualFold(c.Domain(), category) {
				return true
			}
		}
		return false
	})
	return scorer.Score(practice.ID, fs.Findings(), matched, s)
}

// resolvePractices maps requested practice IDs to descriptors, defaulting to
// the whole taxonomy, and rejects unknown IDs.
func resolvePractices(ids []string) ([]taxonomy.Practice, error) {
	if len(ids) == 0 {
		return taxonomy.All(), nil
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	out := make([]taxonomy.Practice, 0, len(sorted))
	for _, id := range sorted {
		p, err := taxonomy.Resolve(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// validationResults projects practice scores onto the boundary response
// shape.
func validationResults(scores []score.PracticeScore, language string) []ValidationResult {
	out := make([]ValidationResult, 0, len(scores))
	for _, ps := range scores {
		out = append(out, ValidationResult{
			PracticeID:        ps.PracticeID,
			Language:          language,
			TechnicalFindings: ps.ContributingFindings,
			ComplianceScore:   ps.Score,
			Status:            ps.Status,
			Recommendations:   ps.Recommendations,
		})
	}
	return out
}
