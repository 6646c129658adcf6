package rulecard

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/credo-hq/credo/core/findings"
)

// writeCard writes a rule card YAML file into dir and returns its path.
func writeCard(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const secretsCard = `id: SECRETS-API-001
title: No hardcoded API credentials
severity: critical
scope: all
requirement: API credentials must come from a secret manager, never source.
do:
  - Load credentials from the environment or a vault client.
dont:
  - Commit API keys, even in test fixtures.
detect:
  trufflehog: [generic-api-key]
  bandit: [B105]
verify:
  - Grep history for revoked keys.
refs:
  cwe: [CWE-798]
`

const sqlCard = `id: INJECT-SQL-001
title: Parameterize SQL statements
severity: high
scope: python
requirement: All SQL must use bound parameters.
detect:
  bandit: [B608]
  semgrep: [python.lang.security.audit.formatted-sql-query]
refs:
  cwe: [CWE-89]
  owasp: [A03:2021]
`

// ---------------------------------------------------------------------------
// Card tests
// ---------------------------------------------------------------------------

func TestCard_DomainAndTopic(t *testing.T) {
	c := Card{ID: "SECRETS-API-001"}
	if c.Domain() != "SECRETS" {
		t.Fatalf("expected domain SECRETS, got %s", c.Domain())
	}
	if c.Topic() != "API" {
		t.Fatalf("expected topic API, got %s", c.Topic())
	}

	malformed := Card{ID: "WHAT"}
	if malformed.Domain() != "" || malformed.Topic() != "" {
		t.Fatal("malformed ID must yield empty domain and topic")
	}
}

func TestCard_AppliesTo(t *testing.T) {
	tests := []struct {
		scope    string
		language string
		want     bool
	}{
		{"", "python", true},
		{"all", "go", true},
		{"python", "python", true},
		{"Python", "python", true},
		{"python", "go", false},
	}
	for _, tt := range tests {
		c := Card{Scope: tt.scope}
		if got := c.AppliesTo(tt.language); got != tt.want {
			t.Errorf("scope %q / language %q: got %v want %v", tt.scope, tt.language, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Load tests
// ---------------------------------------------------------------------------

func TestLoad_SingleCard_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "secrets-api-001.yaml", secretsCard)

	set, report, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if report.Failed() {
		t.Fatalf("unexpected load failures: %v", report.Failures)
	}

	card, err := set.Lookup("SECRETS-API-001")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if card.Severity != findings.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", card.Severity)
	}
	if got := card.Refs["cwe"]; len(got) != 1 || got[0] != "CWE-798" {
		t.Fatalf("expected cwe ref CWE-798, got %v", got)
	}

	_, err = set.Lookup("NOPE")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for missing card, got %v", err)
	}
	if nf.ID != "NOPE" {
		t.Fatalf("expected NotFoundError ID NOPE, got %s", nf.ID)
	}
}

func TestLoad_FileThenIDOrder(t *testing.T) {
	dir := t.TempDir()
	// Written out of lexicographic order on purpose.
	writeCard(t, dir, "z-inject.yaml", sqlCard)
	writeCard(t, dir, "a-secrets.yaml", secretsCard)

	set, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	all := set.Filter(func(Card) bool { return true })
	if len(all) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(all))
	}
	if all[0].ID != "SECRETS-API-001" || all[1].ID != "INJECT-SQL-001" {
		t.Fatalf("expected file-order SECRETS-API-001, INJECT-SQL-001, got %s, %s", all[0].ID, all[1].ID)
	}
	for _, c := range all {
		if !set.Has(c.ID) {
			t.Fatalf("lookup must succeed for every loaded ID, missing %s", c.ID)
		}
	}
}

func TestLoad_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "secrets.yaml", secretsCard)
	writeCard(t, dir, "sql.yaml", sqlCard)

	first, _, err := Load(dir)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, _, err := Load(dir)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !reflect.DeepEqual(first.Cards(), second.Cards()) {
		t.Fatal("loading the same inputs twice must yield structurally equal sets")
	}
}

func TestLoad_DuplicateID_FailsAtomically(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "one.yaml", secretsCard)
	writeCard(t, dir, "two.yaml", secretsCard)

	set, _, err := Load(dir)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError for duplicate ID, got %v", err)
	}
	if se.CardID != "SECRETS-API-001" {
		t.Fatalf("expected duplicate SECRETS-API-001, got %s", se.CardID)
	}
	if set != nil {
		t.Fatal("duplicate ID must not register either card")
	}
}

func TestLoad_InvalidCards_ContainedInReport(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "good.yaml", secretsCard)
	writeCard(t, dir, "no-refs.yaml", `id: CRYPTO-HASH-001
title: Use modern hashes
severity: medium
requirement: Use SHA-256 or better.
`)
	writeCard(t, dir, "bad-severity.yaml", `id: CRYPTO-HASH-002
title: No MD5
severity: apocalyptic
requirement: Never use MD5.
refs:
  cwe: [CWE-327]
`)
	writeCard(t, dir, "garbage.yaml", "{{{not yaml")

	set, report, err := Load(dir)
	if err != nil {
		t.Fatalf("per-file failures must not fail the load: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected only the valid card to register, got %d", set.Len())
	}
	if len(report.Failures) != 3 {
		t.Fatalf("expected 3 recorded failures, got %d", len(report.Failures))
	}

	var schemaErrs, parseErrs int
	for _, f := range report.Failures {
		var se *SchemaError
		var pe *ParseError
		switch {
		case errors.As(f.Err, &se):
			schemaErrs++
		case errors.As(f.Err, &pe):
			parseErrs++
		}
	}
	if schemaErrs != 2 || parseErrs != 1 {
		t.Fatalf("expected 2 schema + 1 parse failure, got %d + %d", schemaErrs, parseErrs)
	}
}

func TestLoad_MissingPath_Fatal(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected a fatal error for an unreadable input path")
	}
}

func TestValidate_IDFormat(t *testing.T) {
	bad := []string{"", "secrets-api-001", "SECRETS-001", "SECRETS-API-1", "SECRETS API 001"}
	for _, id := range bad {
		c := Card{
			ID:          id,
			Title:       "t",
			Severity:    findings.SeverityLow,
			Requirement: "r",
			Refs:        map[string][]string{"cwe": {"CWE-1"}},
		}
		if err := validate("x.yaml", c); err == nil {
			t.Errorf("expected id %q to be rejected", id)
		}
	}
}

func TestFilter_Pure(t *testing.T) {
	dir := t.TempDir()
	writeCard(t, dir, "secrets.yaml", secretsCard)
	writeCard(t, dir, "sql.yaml", sqlCard)

	set, _, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	crit := set.Filter(func(c Card) bool { return c.Severity == findings.SeverityCritical })
	if len(crit) != 1 || crit[0].ID != "SECRETS-API-001" {
		t.Fatalf("unexpected filter result: %v", crit)
	}
	if set.Len() != 2 {
		t.Fatal("Filter must not mutate the set")
	}
}
