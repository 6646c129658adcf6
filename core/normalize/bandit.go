package normalize

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/credo-hq/credo/core/findings"
)

// banditJSON is the subset of the Bandit JSON report schema we consume.
type banditJSON struct {
	Results []struct {
		Filename   string `json:"filename"`
		LineNumber int    `json:"line_number"`
		TestID     string `json:"test_id"`
		TestName   string `json:"test_name"`
		IssueText  string `json:"issue_text"`
		Severity   string `json:"issue_severity"` // LOW|MEDIUM|HIGH
		Confidence string `json:"issue_confidence"`
	} `json:"results"`
}

// banditRules classifies Bandit test IDs into the normalized taxonomy.
// Unlisted test IDs fall back to the test name with a PW.5 impact.
var banditRules = map[string]classification{
	"B105": {"hardcoded_secret", "PS.1", "Move credentials to a secret manager or environment configuration."},
	"B106": {"hardcoded_secret", "PS.1", "Move credentials to a secret manager or environment configuration."},
	"B107": {"hardcoded_secret", "PS.1", "Move credentials to a secret manager or environment configuration."},
	"B301": {"unsafe_deserialization", "PW.5", "Replace pickle with a safe serialization format such as JSON."},
	"B303": {"weak_hash", "PW.5", "Use SHA-256 or stronger instead of MD5/SHA-1."},
	"B324": {"weak_hash", "PW.5", "Use SHA-256 or stronger instead of MD5/SHA-1."},
	"B501": {"tls_verification_disabled", "PW.9", "Enable certificate verification on all TLS clients."},
	"B602": {"command_injection", "PW.5", "Avoid shell=True; pass argument vectors to subprocess."},
	"B605": {"command_injection", "PW.5", "Avoid os.system with interpolated input."},
	"B608": {"sql_injection", "PW.5", "Use parameterized queries instead of string-built SQL."},
}

type banditAdapter struct{}

func (banditAdapter) Tool() string { return "bandit" }

func (banditAdapter) Normalize(raw []byte) ([]findings.Finding, error) {
	var doc banditJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing bandit report: %w", err)
	}

	occs := make([]occurrence, 0, len(doc.Results))
	for _, r := range doc.Results {
		class, ok := banditRules[r.TestID]
		if !ok {
			class = classification{
				Type:        strings.ToLower(r.TestName),
				Practice:    "PW.5",
				Remediation: r.IssueText,
			}
		}
		occs = append(occs, occurrence{
			class:    class,
			severity: banditSeverity(r.Severity),
			location: fmt.Sprintf("%s:%d", filepath.ToSlash(r.Filename), r.LineNumber),
		})
	}
	return group("bandit", occs), nil
}

// banditSeverity maps Bandit's LOW/MEDIUM/HIGH levels onto the canonical
// severity scale.
func banditSeverity(s string) findings.Severity {
	switch strings.ToUpper(s) {
	case "HIGH":
		return findings.SeverityHigh
	case "MEDIUM":
		return findings.SeverityMedium
	case "LOW":
		return findings.SeverityLow
	default:
		return findings.SeverityInfo
	}
}
