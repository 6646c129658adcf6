// Package normalize converts heterogeneous scanner tool reports into the
// canonical finding model. Each supported tool has a dedicated adapter that
// understands its report schema; adapters are looked up by tool name so the
// orchestrator can degrade gracefully when a report from an unknown tool
// shows up.
package normalize

import (
	"fmt"
	"sort"

	"github.com/credo-hq/credo/core/findings"
)

// Adapter converts one tool's raw report bytes into normalized findings.
type Adapter interface {
	// Tool returns the tool identifier the adapter handles, e.g. "bandit".
	Tool() string

	// Normalize parses a raw report and returns findings in deterministic
	// order. Identical input always produces an identical sequence.
	Normalize(raw []byte) ([]findings.Finding, error)
}

// UnsupportedToolError reports a tool name with no registered adapter. The
// caller treats that tool's contribution as absent and continues with
// reduced coverage.
type UnsupportedToolError struct {
	Tool string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("no adapter for tool %q", e.Tool)
}

// adapters is the static registry of supported tool adapters.
var adapters = map[string]Adapter{
	"bandit":      banditAdapter{},
	"trufflehog":  trufflehogAdapter{},
	"semgrep":     semgrepAdapter{},
	"osv-scanner": osvAdapter{},
}

// Supported returns the registered tool names in sorted order.
func Supported() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the adapter for the given tool name.
func Lookup(tool string) (Adapter, error) {
	a, ok := adapters[tool]
	if !ok {
		return nil, &UnsupportedToolError{Tool: tool}
	}
	return a, nil
}

// Normalize converts a raw tool report into normalized findings using the
// adapter registered for the tool. Unknown tool names return an
// UnsupportedToolError and no findings; findings are never fabricated.
func Normalize(raw []byte, tool string) ([]findings.Finding, error) {
	a, err := Lookup(tool)
	if err != nil {
		return nil, err
	}
	return a.Normalize(raw)
}

// classification maps a tool detector to the normalized finding taxonomy.
type classification struct {
	Type        string
	Practice    string
	Remediation string
}

// occurrence is a single raw hit inside a tool report before grouping.
type occurrence struct {
	class    classification
	severity findings.Severity
	location string
}

// group collapses raw occurrences into one Finding per finding type. The
// finding severity is the highest severity observed for the type, the count
// is the number of occurrences, and locations are sorted. The resulting
// findings are ordered by first location, then severity descending, then
// finding type, which makes normalization deterministic for identical input.
func group(tool string, occs []occurrence) []findings.Finding {
	byType := make(map[string]*findings.Finding)
	var order []string
	for _, o := range occs {
		f, ok := byType[o.class.Type]
		if !ok {
			f = &findings.Finding{
				FindingType: o.class.Type,
				Severity:    o.severity,
				SourceTool:  tool,
				NISTImpact:  o.class.Practice,
				Remediation: o.class.Remediation,
			}
			byType[o.class.Type] = f
			order = append(order, o.class.Type)
		}
		f.Count++
		if o.location != "" {
			f.Locations = append(f.Locations, o.location)
		}
		if findings.Rank(o.severity) < findings.Rank(f.Severity) {
			f.Severity = o.severity
		}
	}

	out := make([]findings.Finding, 0, len(order))
	for _, typ := range order {
		f := byType[typ]
		sort.Strings(f.Locations)
		out = append(out, *f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		la, lb := "", ""
		if len(a.Locations) > 0 {
			la = a.Locations[0]
		}
		if len(b.Locations) > 0 {
			lb = b.Locations[0]
		}
		if la != lb {
			return la < lb
		}
		if findings.Rank(a.Severity) != findings.Rank(b.Severity) {
			return findings.Rank(a.Severity) < findings.Rank(b.Severity)
		}
		return a.FindingType < b.FindingType
	})
	return out
}
