package rulecard

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/credo-hq/credo/core/findings"
)

// idPattern is the required DOMAIN-TOPIC-NNN card identifier format.
var idPattern = regexp.MustCompile(`^[A-Z0-9]+-[A-Z0-9]+-\d{3}$`)

// validSeverities is the set of recognised card severity values. Cards do
// not use the "info" level; that is reserved for normalized findings.
var validSeverities = map[findings.Severity]bool{
	findings.SeverityCritical: true,
	findings.SeverityHigh:     true,
	findings.SeverityMedium:   true,
	findings.SeverityLow:      true,
}

// LoadFailure records one rule card source file that could not be loaded.
type LoadFailure struct {
	Path string
	Err  error
}

// LoadReport collects the per-file failures of a load. A non-empty report
// does not mean the load failed: valid cards from other files still
// registered.
type LoadReport struct {
	Failures []LoadFailure
}

// Failed reports whether any file failed to load.
func (r *LoadReport) Failed() bool {
	return len(r.Failures) > 0
}

// Load reads rule cards from the given paths. Each path may be a single YAML
// file (one card per file) or a directory, which is walked recursively with
// files visited in lexicographic order so that repeated loads of the same
// sources yield structurally equal sets.
//
// Malformed or schema-invalid files are recorded in the LoadReport and
// skipped; the remaining cards still load. Two exceptions are structural and
// fail the whole load: an unreadable input path, and a duplicate card ID
// across the load, which registers neither card.
func Load(paths ...string) (*Set, *LoadReport, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("rule card path %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walking rule card directory %s: %w", p, err)
		}
	}
	sort.Strings(files)

	set := NewSet()
	report := &LoadReport{}
	origin := make(map[string]string) // card ID -> first file that defined it

	for _, path := range files {
		card, err := loadFile(path)
		if err != nil {
			report.Failures = append(report.Failures, LoadFailure{Path: path, Err: err})
			continue
		}
		if first, dup := origin[card.ID]; dup {
			return nil, nil, &SchemaError{
				Path:   path,
				CardID: card.ID,
				Reason: fmt.Sprintf("duplicate ID, first defined in %s", first),
			}
		}
		origin[card.ID] = path
		set.add(card)
	}

	return set, report, nil
}

// loadFile reads and validates a single rule card file.
func loadFile(path string) (Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Card{}, &ParseError{Path: path, Err: err}
	}

	var card Card
	if err := yaml.Unmarshal(data, &card); err != nil {
		return Card{}, &ParseError{Path: path, Err: err}
	}

	if err := validate(path, card); err != nil {
		return Card{}, err
	}
	return card, nil
}

// validate checks that a card satisfies all mandatory schema constraints.
func validate(path string, c Card) error {
	schemaErr := func(reason string) error {
		return &SchemaError{Path: path, CardID: c.ID, Reason: reason}
	}

	if c.ID == "" {
		return schemaErr("missing required field: id")
	}
	if !idPattern.MatchString(c.ID) {
		return schemaErr("id must match DOMAIN-TOPIC-NNN")
	}
	if c.Title == "" {
		return schemaErr("missing required field: title")
	}
	if !validSeverities[c.Severity] {
		return schemaErr(fmt.Sprintf("invalid severity %q", c.Severity))
	}
	if c.Requirement == "" {
		return schemaErr("missing required field: requirement")
	}
	if len(c.Refs) == 0 {
		return schemaErr("at least one refs entry is required")
	}
	for standard, codes := range c.Refs {
		if len(codes) == 0 {
			return schemaErr(fmt.Sprintf("refs entry %q has no codes", standard))
		}
	}
	return nil
}
