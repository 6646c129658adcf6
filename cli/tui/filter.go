package tui

import (
	"strings"

	"github.com/credo-hq/credo/core/score"
)

// statusOrder defines the cycle order for the status filter toggle.
var statusOrder = []score.Status{
	score.StatusNonCompliant,
	score.StatusPartial,
	score.StatusCompliant,
	score.StatusIncomplete,
	score.StatusNotApplicable,
}

// filterState tracks the active filter configuration.
type filterState struct {
	statusIdx int    // -1 = all, 0..4 = specific status
	search    string // free-text search query
	searching bool   // true when search input is active
}

func newFilterState() filterState {
	return filterState{statusIdx: -1}
}

// cycleStatus advances the status filter to the next value.
func (f *filterState) cycleStatus() {
	f.statusIdx++
	if f.statusIdx >= len(statusOrder) {
		f.statusIdx = -1
	}
}

// activeStatus returns the current status filter, or "all".
func (f *filterState) activeStatus() string {
	if f.statusIdx < 0 {
		return "all"
	}
	return string(statusOrder[f.statusIdx])
}

// matchesScore returns true if the practice score passes all active filters.
func (f *filterState) matchesScore(ps score.PracticeScore, name string) bool {
	if f.statusIdx >= 0 {
		if ps.Status != statusOrder[f.statusIdx] {
			return false
		}
	}

	if f.search != "" {
		q := strings.ToLower(f.search)
		if strings.Contains(strings.ToLower(ps.PracticeID), q) ||
			strings.Contains(strings.ToLower(name), q) {
			return true
		}
		for _, finding := range ps.ContributingFindings {
			if strings.Contains(strings.ToLower(finding.FindingType), q) {
				return true
			}
		}
		for _, rec := range ps.Recommendations {
			if strings.Contains(strings.ToLower(rec), q) {
				return true
			}
		}
		return false
	}

	return true
}

// filterScores returns practice scores that pass the active filters.
func (f *filterState) filterScores(all []score.PracticeScore, names map[string]string) []score.PracticeScore {
	var result []score.PracticeScore
	for _, ps := range all {
		if f.matchesScore(ps, names[ps.PracticeID]) {
			result = append(result, ps)
		}
	}
	return result
}
