package score

import (
	"math"

	"github.com/credo-hq/credo/core/taxonomy"
)

// Summary is the cross-practice aggregation of an assessment run.
type Summary struct {
	// Overall is the phase-weighted combined score, or nil when no
	// practice in either phase produced a score.
	Overall *int `json:"overall_score"`

	// Planning and Implementation are the unweighted means of each
	// phase's non-null practice scores, rounded. A phase with no scored
	// practices is nil and its weight is redistributed to the other.
	Planning       *int `json:"planning_score"`
	Implementation *int `json:"implementation_score"`
}

// Aggregate combines per-practice scores into a phase-weighted overall
// summary. Practices with null scores (not_applicable, incomplete) are
// excluded from their phase mean; practices outside the taxonomy are
// ignored. Planning weighs 0.3 and implementation 0.7; when one phase has no
// scored practices its weight shifts entirely to the other.
func Aggregate(scores []PracticeScore) Summary {
	var planning, implementation []float64
	for _, ps := range scores {
		if ps.Score == nil {
			continue
		}
		p, err := taxonomy.Resolve(ps.PracticeID)
		if err != nil {
			continue
		}
		switch p.Phase {
		case taxonomy.PhasePlanning:
			planning = append(planning, float64(*ps.Score))
		case taxonomy.PhaseImplementation:
			implementation = append(implementation, float64(*ps.Score))
		}
	}

	var out Summary
	planMean, planOK := mean(planning)
	implMean, implOK := mean(implementation)
	if planOK {
		out.Planning = roundPtr(planMean)
	}
	if implOK {
		out.Implementation = roundPtr(implMean)
	}

	switch {
	case planOK && implOK:
		out.Overall = roundPtr(planMean*taxonomy.PlanningWeight + implMean*taxonomy.ImplementationWeight)
	case planOK:
		out.Overall = roundPtr(planMean)
	case implOK:
		out.Overall = roundPtr(implMean)
	}
	return out
}

func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func roundPtr(v float64) *int {
	r := int(math.Round(v))
	return &r
}
