package normalize

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/credo-hq/credo/core/findings"
)

// semgrepJSON is the subset of the Semgrep JSON report schema we consume.
type semgrepJSON struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
		} `json:"start"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"` // INFO|WARNING|ERROR
		} `json:"extra"`
	} `json:"results"`
}

// semgrepClasses classifies check ID fragments into the normalized taxonomy.
// The first fragment found in the check ID wins; order matters.
var semgrepClasses = []struct {
	fragment string
	class    classification
}{
	{"sql", classification{"sql_injection", "PW.5", "Use parameterized queries instead of string-built SQL."}},
	{"command-injection", classification{"command_injection", "PW.5", "Pass argument vectors; never interpolate input into shells."}},
	{"xss", classification{"xss", "PW.5", "Encode output and use a templating engine with auto-escaping."}},
	{"path-traversal", classification{"path_traversal", "PW.5", "Canonicalize and validate paths against an allowlist root."}},
	{"crypto", classification{"weak_crypto", "PW.5", "Use modern, vetted cryptographic primitives."}},
	{"secret", classification{"hardcoded_secret", "PS.1", "Move credentials to a secret manager."}},
	{"tls", classification{"tls_misconfiguration", "PW.9", "Enable TLS verification and modern protocol versions."}},
}

type semgrepAdapter struct{}

func (semgrepAdapter) Tool() string { return "semgrep" }

func (semgrepAdapter) Normalize(raw []byte) ([]findings.Finding, error) {
	var doc semgrepJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing semgrep report: %w", err)
	}

	occs := make([]occurrence, 0, len(doc.Results))
	for _, r := range doc.Results {
		occs = append(occs, occurrence{
			class:    semgrepClassify(r.CheckID, r.Extra.Message),
			severity: semgrepSeverity(r.Extra.Severity),
			location: fmt.Sprintf("%s:%d", filepath.ToSlash(r.Path), r.Start.Line),
		})
	}
	return group("semgrep", occs), nil
}

func semgrepClassify(checkID, message string) classification {
	lowered := strings.ToLower(checkID)
	for _, entry := range semgrepClasses {
		if strings.Contains(lowered, entry.fragment) {
			return entry.class
		}
	}
	// Fall back to the last check ID segment, e.g.
	// "python.lang.security.audit.eval-detected" -> "eval-detected".
	segments := strings.Split(checkID, ".")
	return classification{
		Type:        strings.ReplaceAll(segments[len(segments)-1], "-", "_"),
		Practice:    "PW.7",
		Remediation: message,
	}
}

func semgrepSeverity(s string) findings.Severity {
	switch strings.ToUpper(s) {
	case "ERROR":
		return findings.SeverityHigh
	case "WARNING":
		return findings.SeverityMedium
	case "INFO":
		return findings.SeverityLow
	default:
		return findings.SeverityInfo
	}
}
