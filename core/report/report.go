// Package report renders scorer output into a structured compliance report.
// Rendering is a pure transformation over practice scores; the JSONReporter
// produces deterministic output suitable for CI pipelines and downstream
// tooling (aside from the generation timestamp).
package report

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/credo-hq/credo/core/findings"
	"github.com/credo-hq/credo/core/score"
	"github.com/credo-hq/credo/core/taxonomy"
)

// Meta contains metadata about the report itself, including schema version,
// generation timestamp, and tool identification.
type Meta struct {
	SchemaVersion string `json:"schema_version"`
	GeneratedAt   string `json:"generated_at"`
	ToolName      string `json:"tool_name"`
	ToolVersion   string `json:"tool_version"`
}

// Gap is one unresolved practice in the executive summary: anything that was
// assessed below the compliant band, or could not be fully assessed.
type Gap struct {
	PracticeID   string            `json:"practice_id"`
	PracticeName string            `json:"practice_name,omitempty"`
	Score        *int              `json:"score"`
	Status       score.Status      `json:"status"`
	TopSeverity  findings.Severity `json:"top_severity,omitempty"`
}

// Report is the rendered compliance report: the phase-weighted summary, the
// per-practice scores in taxonomy order, the sorted gap list, and the
// deduplicated recommendation list.
type Report struct {
	Summary         score.Summary         `json:"summary"`
	Practices       []score.PracticeScore `json:"practices"`
	Gaps            []Gap                 `json:"gaps"`
	Recommendations []string              `json:"recommendations"`
}

// Render builds a Report from practice scores. It never mutates its input:
// practices are reordered into taxonomy order in a copy, gaps are sorted by
// ascending score (unscored gaps last) then by descending severity of their
// contributing findings, and recommendations are deduplicated by normalized
// text across all practices.
func Render(scores []score.PracticeScore) Report {
	ordered := orderByTaxonomy(scores)

	var gaps []Gap
	var recs []string
	seen := make(map[string]bool)

	for _, ps := range ordered {
		for _, rec := range ps.Recommendations {
			key := strings.Join(strings.Fields(strings.ToLower(rec)), " ")
			if rec == "" || seen[key] {
				continue
			}
			seen[key] = true
			recs = append(recs, rec)
		}

		if ps.Status == score.StatusCompliant || ps.Status == score.StatusNotApplicable {
			continue
		}
		gap := Gap{
			PracticeID:  ps.PracticeID,
			Score:       ps.Score,
			Status:      ps.Status,
			TopSeverity: topSeverity(ps.ContributingFindings),
		}
		if p, err := taxonomy.Resolve(ps.PracticeID); err == nil {
			gap.PracticeName = p.Name
		}
		gaps = append(gaps, gap)
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		a, b := gaps[i], gaps[j]
		// Unscored gaps (failed to assess) sort after scored ones.
		switch {
		case a.Score == nil && b.Score != nil:
			return false
		case a.Score != nil && b.Score == nil:
			return true
		case a.Score != nil && b.Score != nil && *a.Score != *b.Score:
			return *a.Score < *b.Score
		}
		return findings.Rank(a.TopSeverity) < findings.Rank(b.TopSeverity)
	})

	if recs == nil {
		recs = []string{}
	}
	if gaps == nil {
		gaps = []Gap{}
	}

	return Report{
		Summary:         score.Aggregate(ordered),
		Practices:       ordered,
		Gaps:            gaps,
		Recommendations: recs,
	}
}

// orderByTaxonomy returns a copy of scores in taxonomy order; scores for
// practices outside the taxonomy keep their relative input order at the end.
func orderByTaxonomy(scores []score.PracticeScore) []score.PracticeScore {
	rank := make(map[string]int)
	for i, p := range taxonomy.All() {
		rank[p.ID] = i
	}
	out := make([]score.PracticeScore, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iOK := rank[out[i].PracticeID]
		rj, jOK := rank[out[j].PracticeID]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		default:
			return false
		}
	})
	return out
}

// topSeverity returns the most severe severity among the findings, or empty
// when there are none.
func topSeverity(fs []findings.Finding) findings.Severity {
	var top findings.Severity
	for _, f := range fs {
		if top == "" || findings.Rank(f.Severity) < findings.Rank(top) {
			top = f.Severity
		}
	}
	return top
}

// JSONReport is the top-level structure serialized to JSON. It pairs report
// metadata with the rendered compliance report.
type JSONReport struct {
	Meta   Meta   `json:"meta"`
	Report Report `json:"report"`
}

// JSONReporter produces deterministic JSON output from practice scores.
type JSONReporter struct {
	ToolVersion string
}

// NewJSONReporter returns a JSONReporter configured with the given tool
// version string. The version is embedded in the report metadata.
func NewJSONReporter(version string) *JSONReporter {
	return &JSONReporter{ToolVersion: version}
}

// Generate renders the scores and serializes the result to pretty-printed
// JSON with 2-space indentation. The output is stable across runs given the
// same input scores (aside from the GeneratedAt timestamp).
func (r *JSONReporter) Generate(scores []score.PracticeScore) ([]byte, error) {
	out := JSONReport{
		Meta: Meta{
			SchemaVersion: "1.0.0",
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			ToolName:      "credo",
			ToolVersion:   r.ToolVersion,
		},
		Report: Render(scores),
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteToFile generates the JSON report and writes it to the specified path
// with 0644 permissions. Parent directories must already exist.
func (r *JSONReporter) WriteToFile(scores []score.PracticeScore, path string) error {
	data, err := r.Generate(scores)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
