// Package findings defines the canonical normalized finding model shared by
// all credo tool adapters and the compliance scorer. Every scanner report is
// converted into Finding values which are collected into a FindingSet for
// deduplication, sorting, and downstream consumption by the scorer and the
// report generator.
package findings

import (
	"sort"
)

// Severity indicates how critical a finding is. The values are ordered from
// most to least severe. Info findings carry no scoring weight.
type Severity string

// Severity level constants ordered from most to least severe.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRank orders severities for sorting. Lower rank = more severe.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Rank returns the sort rank of a severity. Unknown severities rank last.
func Rank(s Severity) int {
	r, ok := severityRank[s]
	if !ok {
		return len(severityRank)
	}
	return r
}

// Valid reports whether s is one of the recognised severity values.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Finding is a single normalized observation produced by a tool adapter. It
// is the canonical unit of input for the compliance scorer.
type Finding struct {
	// FindingType classifies the issue, e.g. "sql_injection" or
	// "hardcoded_secret".
	FindingType string `json:"finding_type"`

	// Severity drives the scoring weight of the finding.
	Severity Severity `json:"severity"`

	// Count is the number of occurrences collapsed into this finding.
	// Always at least 1.
	Count int `json:"count"`

	// Locations lists where the issue was observed, as "path:line" strings
	// in the order the source tool reported them.
	Locations []string `json:"locations"`

	// SourceTool names the adapter that produced the finding, e.g. "bandit".
	SourceTool string `json:"source_tool"`

	// NISTImpact is the SSDF practice identifier the finding counts
	// against, e.g. "PW.4".
	NISTImpact string `json:"nist_impact"`

	// Remediation is short guidance on how to address the issue.
	Remediation string `json:"remediation,omitempty"`

	// Fingerprint is a stable digest used for deduplication. Computed on
	// Add when empty.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// FindingSet is an ordered, deduplicated collection of findings. It is the
// primary data structure passed between pipeline stages.
type FindingSet struct {
	items []Finding
}

// NewFindingSet returns an empty FindingSet ready for use.
func NewFindingSet() *FindingSet {
	return &FindingSet{}
}

// Add appends a finding to the set. A Count below 1 is normalised to 1, and
// an empty Fingerprint is computed from the finding's identity fields so that
// every finding in the set is always fingerprintable.
func (fs *FindingSet) Add(f Finding) {
	if f.Count < 1 {
		f.Count = 1
	}
	if f.Fingerprint == "" {
		f.Fingerprint = ComputeFingerprint(f.FindingType, f.SourceTool, f.Locations)
	}
	fs.items = append(fs.items, f)
}

// Deduplicate merges findings that share the same Fingerprint, keeping the
// first occurrence and summing occurrence counts. Call this after all
// adapters have contributed and before scoring.
func (fs *FindingSet) Deduplicate() {
	seen := make(map[string]int, len(fs.items))
	unique := make([]Finding, 0, len(fs.items))
	for _, f := range fs.items {
		if idx, exists := seen[f.Fingerprint]; exists {
			unique[idx].Count += f.Count
			continue
		}
		seen[f.Fingerprint] = len(unique)
		unique = append(unique, f)
	}
	fs.items = unique
}

// SortDeterministic orders findings by first location, then severity
// descending, then finding type. This guarantees stable, reproducible output
// regardless of the order in which adapters emit their results.
func (fs *FindingSet) SortDeterministic() {
	sort.SliceStable(fs.items, func(i, j int) bool {
		a, b := fs.items[i], fs.items[j]
		la, lb := firstLocation(a), firstLocation(b)
		if la != lb {
			return la < lb
		}
		if Rank(a.Severity) != Rank(b.Severity) {
			return Rank(a.Severity) < Rank(b.Severity)
		}
		return a.FindingType < b.FindingType
	})
}

// ByPractice returns the findings whose NISTImpact equals practiceID, in set
// order. The returned slice is freshly allocated.
func (fs *FindingSet) ByPractice(practiceID string) []Finding {
	var out []Finding
	for _, f := range fs.items {
		if f.NISTImpact == practiceID {
			out = append(out, f)
		}
	}
	return out
}

// Findings returns the current slice of findings. The caller must not modify
// the returned slice.
func (fs *FindingSet) Findings() []Finding {
	return fs.items
}

// Len returns the number of findings in the set.
func (fs *FindingSet) Len() int {
	return len(fs.items)
}

func firstLocation(f Finding) string {
	if len(f.Locations) == 0 {
		return ""
	}
	return f.Locations[0]
}
