// Package score implements the compliance scorer: it turns normalized
// findings, matched rule cards, and assessment signals into per-practice
// compliance scores. Scoring is a pure function of its inputs, so identical
// inputs always produce identical PracticeScore values and results can be
// verified against golden outputs.
package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/credo-hq/credo/core/findings"
	"github.com/credo-hq/credo/core/rulecard"
)

// Status classifies a practice score against the configured thresholds.
type Status string

// Practice status values. Compliant, partial, and non_compliant are pure
// functions of the score; not_applicable and incomplete are sentinels that
// bypass scoring.
const (
	StatusCompliant     Status = "compliant"
	StatusPartial       Status = "partial"
	StatusNonCompliant  Status = "non_compliant"
	StatusNotApplicable Status = "not_applicable"
	StatusIncomplete    Status = "incomplete"
)

// Severity penalties for the linear vulnerability score. The formula is
// deliberately linear with no cross-category floor; tuning the shape is a
// configuration concern, not a scoring one.
const (
	penaltyCritical = 20
	penaltyHigh     = 10
	penaltyMedium   = 5
	penaltyLow      = 1
)

// Weights are the component weights of the final practice score. They must
// sum to 1.0.
type Weights struct {
	Vulnerability float64 `yaml:"vulnerability_impact" json:"vulnerability_impact"`
	Pattern       float64 `yaml:"pattern_compliance" json:"pattern_compliance"`
	Test          float64 `yaml:"test_coverage" json:"test_coverage"`
	Process       float64 `yaml:"process_compliance" json:"process_compliance"`
}

// DefaultWeights returns the standard 0.4/0.3/0.2/0.1 component weighting.
func DefaultWeights() Weights {
	return Weights{Vulnerability: 0.4, Pattern: 0.3, Test: 0.2, Process: 0.1}
}

// Validate checks that the weights sum to 1.0 (within a small tolerance) and
// that no component is negative.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"vulnerability_impact": w.Vulnerability,
		"pattern_compliance":   w.Pattern,
		"test_coverage":        w.Test,
		"process_compliance":   w.Process,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative", name)
		}
	}
	sum := w.Vulnerability + w.Pattern + w.Test + w.Process
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %g", sum)
	}
	return nil
}

// Thresholds are the status cut-offs applied to a non-null final score.
type Thresholds struct {
	Compliant int `yaml:"compliant" json:"compliant"`
	Partial   int `yaml:"partial" json:"partial"`
}

// DefaultThresholds returns the standard 90/70 status cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Compliant: 90, Partial: 70}
}

// Validate checks that the thresholds are ordered and within range.
func (t Thresholds) Validate() error {
	if t.Compliant <= t.Partial {
		return fmt.Errorf("compliant threshold (%d) must exceed partial threshold (%d)", t.Compliant, t.Partial)
	}
	if t.Partial < 0 || t.Compliant > 100 {
		return fmt.Errorf("thresholds must lie within [0,100]")
	}
	return nil
}

// Signals carry the non-finding assessment inputs for one practice: secure
// pattern coverage, security test results, and documented procedures, plus
// the two sentinel conditions that bypass scoring entirely.
type Signals struct {
	// PatternsObserved / PatternsExpected feed the pattern compliance
	// component. Zero expected patterns is vacuously compliant.
	PatternsObserved int
	PatternsExpected int

	// TestsRun indicates whether security tests were executed for the
	// practice. When false the test component is null and the practice is
	// incomplete.
	TestsRun     bool
	TestsPassing int
	TestsTotal   int

	// ProceduresDocumented / ProceduresRequired feed the process component.
	ProceduresDocumented int
	ProceduresRequired   int

	// NoInput marks that no code or input was found for the practice's
	// scope. The practice scores 0 / non_compliant with a recommendation
	// to verify input paths.
	NoInput bool

	// LanguageUnsupported marks that the target language or tooling is not
	// supported. The practice is not_applicable and excluded from
	// aggregation.
	LanguageUnsupported bool
}

// PracticeScore is the scorer output for one practice. Once produced it is
// immutable; the report generator only reads it.
type PracticeScore struct {
	PracticeID           string             `json:"practice_id"`
	Score                *int               `json:"score"` // nil renders as null
	Status               Status             `json:"status"`
	ContributingFindings []findings.Finding `json:"contributing_findings,omitempty"`
	Recommendations      []string           `json:"recommendations,omitempty"`
}

// Scorer computes practice scores under a fixed weight and threshold
// configuration. The zero value is not usable; construct with New.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
}

// New returns a Scorer with the given configuration. Invalid weights or
// thresholds are rejected.
func New(w Weights, t Thresholds) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w, thresholds: t}, nil
}

// Default returns a Scorer with the standard weights and thresholds.
func Default() *Scorer {
	s, err := New(DefaultWeights(), DefaultThresholds())
	if err != nil {
		panic(err) // defaults are always valid
	}
	return s
}

// Score computes the compliance score for one practice. Only findings whose
// NISTImpact equals practiceID contribute to the vulnerability component;
// matched rule cards contribute recommendations for uncovered requirements.
// The function is pure: it never mutates its inputs and has no side effects.
func (s *Scorer) Score(practiceID string, all []findings.Finding, matched []rulecard.Card, sig Signals) PracticeScore {
	ps := PracticeScore{PracticeID: practiceID}

	if sig.LanguageUnsupported {
		ps.Status = StatusNotApplicable
		ps.Recommendations = []string{
			"Target language or tooling is unsupported; fall back to manual review for " + practiceID + ".",
		}
		return ps
	}

	if sig.NoInput {
		zero := 0
		ps.Score = &zero
		ps.Status = StatusNonCompliant
		ps.Recommendations = []string{
			"No code or input was found in scope for " + practiceID + "; verify the configured input paths.",
		}
		return ps
	}

	contributing := filterByPractice(all, practiceID)
	ps.ContributingFindings = contributing

	vulnScore := vulnerabilityScore(contributing)
	patternScore := ratioScore(sig.PatternsObserved, sig.PatternsExpected)
	processScore := ratioScore(sig.ProceduresDocumented, sig.ProceduresRequired)

	if !sig.TestsRun {
		// A null component propagates: no final score, practice incomplete.
		ps.Status = StatusIncomplete
		ps.Recommendations = append(recommendations(contributing, matched),
			"Run the security test suite for "+practiceID+" to complete the assessment.")
		return ps
	}
	testScore := ratioScore(sig.TestsPassing, sig.TestsTotal)

	final := int(math.Round(s.weights.Vulnerability*vulnScore +
		s.weights.Pattern*patternScore +
		s.weights.Test*testScore +
		s.weights.Process*processScore))

	ps.Score = &final
	switch {
	case final >= s.thresholds.Compliant:
		ps.Status = StatusCompliant
	case final >= s.thresholds.Partial:
		ps.Status = StatusPartial
	default:
		ps.Status = StatusNonCompliant
	}
	ps.Recommendations = recommendations(contributing, matched)
	return ps
}

// vulnerabilityScore applies the linear severity penalty formula:
// 100 - (critical*20 + high*10 + medium*5 + low*1), floored at 0. Info
// findings carry no penalty.
func vulnerabilityScore(contributing []findings.Finding) float64 {
	penalty := 0
	for _, f := range contributing {
		switch f.Severity {
		case findings.SeverityCritical:
			penalty += penaltyCritical * f.Count
		case findings.SeverityHigh:
			penalty += penaltyHigh * f.Count
		case findings.SeverityMedium:
			penalty += penaltyMedium * f.Count
		case findings.SeverityLow:
			penalty += penaltyLow * f.Count
		}
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return float64(score)
}

// ratioScore maps observed/expected onto [0,100]. Zero expected is vacuously
// compliant.
func ratioScore(observed, expected int) float64 {
	if expected <= 0 {
		return 100
	}
	score := 100 * float64(observed) / float64(expected)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// recommendations derives an ordered, deduplicated recommendation list from
// finding remediations plus, when findings are present, the guidance of
// matched rule cards ordered by severity then ID.
func recommendations(contributing []findings.Finding, matched []rulecard.Card) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(rec string) {
		if rec == "" {
			return
		}
		key := strings.Join(strings.Fields(strings.ToLower(rec)), " ")
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, rec)
	}

	for _, f := range contributing {
		add(f.Remediation)
	}

	if len(contributing) > 0 {
		cards := make([]rulecard.Card, len(matched))
		copy(cards, matched)
		sort.Slice(cards, func(i, j int) bool {
			if findings.Rank(cards[i].Severity) != findings.Rank(cards[j].Severity) {
				return findings.Rank(cards[i].Severity) < findings.Rank(cards[j].Severity)
			}
			return cards[i].ID < cards[j].ID
		})
		for _, c := range cards {
			add(fmt.Sprintf("Apply %s: %s", c.ID, c.Title))
		}
	}
	return out
}

func filterByPractice(all []findings.Finding, practiceID string) []findings.Finding {
	var out []findings.Finding
	for _, f := range all {
		if f.NISTImpact == practiceID {
			out = append(out, f)
		}
	}
	return out
}
