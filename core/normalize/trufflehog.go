package normalize

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/credo-hq/credo/core/findings"
)

// trufflehogLine is one NDJSON line of a TruffleHog filesystem scan report.
type trufflehogLine struct {
	SourceMetadata struct {
		Data struct {
			Filesystem struct {
				File string `json:"file"`
				Line int    `json:"line"`
			} `json:"Filesystem"`
		} `json:"Data"`
	} `json:"SourceMetadata"`
	DetectorName string `json:"DetectorName"`
	Verified     bool   `json:"Verified"`
}

type trufflehogAdapter struct{}

func (trufflehogAdapter) Tool() string { return "trufflehog" }

// Normalize parses TruffleHog's newline-delimited JSON output. Every secret
// counts against PS.1 (protect all forms of code); verified secrets are
// critical, unverified ones high.
func (trufflehogAdapter) Normalize(raw []byte) ([]findings.Finding, error) {
	var occs []occurrence

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec trufflehogLine
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing trufflehog report line %d: %w", lineNo, err)
		}

		severity := findings.SeverityHigh
		typ := "hardcoded_secret"
		remediation := "Rotate the credential and load it from a secret manager."
		if rec.Verified {
			severity = findings.SeverityCritical
			typ = "verified_secret"
			remediation = "Revoke the live credential immediately, then rotate and remove it from source."
		}

		fsMeta := rec.SourceMetadata.Data.Filesystem
		location := filepath.ToSlash(fsMeta.File)
		if fsMeta.Line > 0 {
			location = fmt.Sprintf("%s:%d", location, fsMeta.Line)
		}

		occs = append(occs, occurrence{
			class: classification{
				Type:        typ + detectorSuffix(rec.DetectorName),
				Practice:    "PS.1",
				Remediation: remediation,
			},
			severity: severity,
			location: location,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trufflehog report: %w", err)
	}
	return group("trufflehog", occs), nil
}

// detectorSuffix appends the detector name so that secrets from different
// providers stay distinguishable after grouping.
func detectorSuffix(detector string) string {
	if detector == "" {
		return ""
	}
	return "_" + strings.ToLower(detector)
}
