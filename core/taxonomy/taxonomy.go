// Package taxonomy provides the static NIST SSDF practice taxonomy used by
// the compliance scorer and the bundler. Practices are grouped into a
// planning phase (PO.*, PS.*) and an implementation phase (PW.*, RV.*); the
// taxonomy is loaded once per process and never mutated.
package taxonomy

import "fmt"

// Phase identifies which lifecycle phase a practice belongs to. Phase
// membership drives the weighting of cross-practice aggregation.
type Phase string

// Lifecycle phases.
const (
	PhasePlanning       Phase = "planning"
	PhaseImplementation Phase = "implementation"
)

// Phase weights for the overall compliance score.
const (
	PlanningWeight       = 0.3
	ImplementationWeight = 0.7
)

// Practice is one node of the compliance taxonomy, e.g. NIST SSDF "PW.4".
type Practice struct {
	ID             string   `json:"practice_id"`
	Name           string   `json:"name"`
	Phase          Phase    `json:"phase"`
	SubPractices   []string `json:"sub_practices"`
	RuleCategories []string `json:"expected_rule_categories,omitempty"`
}

// UnknownPracticeError reports a practice identifier that is not part of the
// taxonomy.
type UnknownPracticeError struct {
	ID string
}

func (e *UnknownPracticeError) Error() string {
	return fmt.Sprintf("unknown practice %q", e.ID)
}

// Resolve returns the descriptor for the given top-level practice ID, or an
// UnknownPracticeError when the ID is not part of the taxonomy.
func Resolve(practiceID string) (Practice, error) {
	for _, p := range ssdfPractices() {
		if p.ID == practiceID {
			return p, nil
		}
	}
	return Practice{}, &UnknownPracticeError{ID: practiceID}
}

// Children returns the ordered sub-practice identifiers of a practice, or an
// UnknownPracticeError when the ID is not part of the taxonomy.
func Children(practiceID string) ([]string, error) {
	p, err := Resolve(practiceID)
	if err != nil {
		return nil, err
	}
	return p.SubPractices, nil
}

// Parent returns the top-level practice that owns the given sub-practice ID.
// Every sub-practice belongs to exactly one parent.
func Parent(subPracticeID string) (Practice, error) {
	for _, p := range ssdfPractices() {
		for _, sub := range p.SubPractices {
			if sub == subPracticeID {
				return p, nil
			}
		}
	}
	return Practice{}, &UnknownPracticeError{ID: subPracticeID}
}

// All returns every practice in taxonomy order: planning families first
// (PO.*, PS.*), then implementation families (PW.*, RV.*).
func All() []Practice {
	return ssdfPractices()
}

// ByPhase returns the practices belonging to the given phase, in taxonomy
// order.
func ByPhase(phase Phase) []Practice {
	var out []Practice
	for _, p := range ssdfPractices() {
		if p.Phase == phase {
			out = append(out, p)
		}
	}
	return out
}
