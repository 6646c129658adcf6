package normalize

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/credo-hq/credo/core/findings"
)

// osvJSON is the subset of the osv-scanner JSON report schema we consume.
type osvJSON struct {
	Results []struct {
		Source struct {
			Path string `json:"path"`
		} `json:"source"`
		Packages []struct {
			Package struct {
				Name      string `json:"name"`
				Version   string `json:"version"`
				Ecosystem string `json:"ecosystem"`
			} `json:"package"`
			Vulnerabilities []struct {
				ID               string `json:"id"`
				Summary          string `json:"summary"`
				DatabaseSpecific struct {
					Severity string `json:"severity"`
				} `json:"database_specific"`
			} `json:"vulnerabilities"`
		} `json:"packages"`
	} `json:"results"`
}

type osvAdapter struct{}

func (osvAdapter) Tool() string { return "osv-scanner" }

// Normalize converts an osv-scanner report into one finding per vulnerable
// package. Dependency vulnerabilities count against PW.4 (reuse well-secured
// software); the location records the manifest that pulled the package in.
func (osvAdapter) Normalize(raw []byte) ([]findings.Finding, error) {
	var doc osvJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing osv-scanner report: %w", err)
	}

	var occs []occurrence
	for _, res := range doc.Results {
		manifest := filepath.ToSlash(res.Source.Path)
		for _, pkg := range res.Packages {
			for _, vuln := range pkg.Vulnerabilities {
				occs = append(occs, occurrence{
					class: classification{
						Type:     "vulnerable_dependency_" + strings.ToLower(pkg.Package.Name),
						Practice: "PW.4",
						Remediation: fmt.Sprintf("Upgrade %s (%s) past the range affected by %s.",
							pkg.Package.Name, pkg.Package.Version, vuln.ID),
					},
					severity: osvSeverity(vuln.DatabaseSpecific.Severity),
					location: manifest,
				})
			}
		}
	}
	return group("osv-scanner", occs), nil
}

func osvSeverity(s string) findings.Severity {
	switch strings.ToUpper(s) {
	case "CRITICAL":
		return findings.SeverityCritical
	case "HIGH":
		return findings.SeverityHigh
	case "MODERATE", "MEDIUM":
		return findings.SeverityMedium
	case "LOW":
		return findings.SeverityLow
	default:
		return findings.SeverityMedium
	}
}
