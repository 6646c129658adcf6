package findings

import (
	"testing"
)

// ---------------------------------------------------------------------------
// Severity tests
// ---------------------------------------------------------------------------

func TestSeverity_Valid(t *testing.T) {
	valid := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Severity("severe").Valid() {
		t.Error("expected 'severe' to be invalid")
	}
}

func TestRank_Ordering(t *testing.T) {
	if !(Rank(SeverityCritical) < Rank(SeverityHigh) &&
		Rank(SeverityHigh) < Rank(SeverityMedium) &&
		Rank(SeverityMedium) < Rank(SeverityLow) &&
		Rank(SeverityLow) < Rank(SeverityInfo)) {
		t.Fatal("severity ranks are not strictly ordered from critical to info")
	}
	if Rank(Severity("bogus")) <= Rank(SeverityInfo) {
		t.Fatal("unknown severity must rank after info")
	}
}

// ---------------------------------------------------------------------------
// FindingSet tests
// ---------------------------------------------------------------------------

func TestFindingSet_Add_NormalisesCountAndFingerprint(t *testing.T) {
	fs := NewFindingSet()
	fs.Add(Finding{
		FindingType: "sql_injection",
		Severity:    SeverityHigh,
		SourceTool:  "bandit",
		Locations:   []string{"app/db.py:42"},
	})

	got := fs.Findings()[0]
	if got.Count != 1 {
		t.Fatalf("expected count normalised to 1, got %d", got.Count)
	}
	if got.Fingerprint == "" {
		t.Fatal("expected a computed fingerprint")
	}

	want := ComputeFingerprint("sql_injection", "bandit", []string{"app/db.py:42"})
	if got.Fingerprint != want {
		t.Fatalf("fingerprint mismatch: got %s want %s", got.Fingerprint, want)
	}
}

func TestFindingSet_Deduplicate_MergesCounts(t *testing.T) {
	fs := NewFindingSet()
	f := Finding{
		FindingType: "hardcoded_secret",
		Severity:    SeverityCritical,
		Count:       2,
		SourceTool:  "trufflehog",
		Locations:   []string{"config.py:7"},
		NISTImpact:  "PS.1",
	}
	fs.Add(f)
	fs.Add(f)
	fs.Add(Finding{
		FindingType: "hardcoded_secret",
		Severity:    SeverityCritical,
		SourceTool:  "trufflehog",
		Locations:   []string{"other.py:1"},
		NISTImpact:  "PS.1",
	})

	fs.Deduplicate()

	if fs.Len() != 2 {
		t.Fatalf("expected 2 findings after dedupe, got %d", fs.Len())
	}
	if fs.Findings()[0].Count != 4 {
		t.Fatalf("expected merged count 4, got %d", fs.Findings()[0].Count)
	}
}

func TestFindingSet_SortDeterministic(t *testing.T) {
	build := func() *FindingSet {
		fs := NewFindingSet()
		fs.Add(Finding{FindingType: "weak_hash", Severity: SeverityMedium, Locations: []string{"b.py:3"}})
		fs.Add(Finding{FindingType: "sql_injection", Severity: SeverityHigh, Locations: []string{"a.py:9"}})
		fs.Add(Finding{FindingType: "hardcoded_secret", Severity: SeverityCritical, Locations: []string{"a.py:9"}})
		return fs
	}

	fs := build()
	fs.SortDeterministic()

	got := fs.Findings()
	if got[0].FindingType != "hardcoded_secret" {
		t.Fatalf("expected critical finding at a.py:9 first, got %s", got[0].FindingType)
	}
	if got[1].FindingType != "sql_injection" {
		t.Fatalf("expected high finding at a.py:9 second, got %s", got[1].FindingType)
	}
	if got[2].FindingType != "weak_hash" {
		t.Fatalf("expected b.py:3 finding last, got %s", got[2].FindingType)
	}

	// Sorting again, or sorting an identically built set, is stable.
	other := build()
	other.SortDeterministic()
	for i := range got {
		if got[i].FindingType != other.Findings()[i].FindingType {
			t.Fatalf("sort not deterministic at index %d", i)
		}
	}
}

func TestFindingSet_ByPractice(t *testing.T) {
	fs := NewFindingSet()
	fs.Add(Finding{FindingType: "sql_injection", Severity: SeverityHigh, NISTImpact: "PW.4"})
	fs.Add(Finding{FindingType: "hardcoded_secret", Severity: SeverityCritical, NISTImpact: "PS.1"})
	fs.Add(Finding{FindingType: "xss", Severity: SeverityMedium, NISTImpact: "PW.4"})

	got := fs.ByPractice("PW.4")
	if len(got) != 2 {
		t.Fatalf("expected 2 findings for PW.4, got %d", len(got))
	}
	if got[0].FindingType != "sql_injection" || got[1].FindingType != "xss" {
		t.Fatal("ByPractice must preserve set order")
	}

	if got := fs.ByPractice("RV.1"); len(got) != 0 {
		t.Fatalf("expected no findings for RV.1, got %d", len(got))
	}
}

func TestComputeFingerprint_Stable(t *testing.T) {
	a := ComputeFingerprint("sql_injection", "bandit", []string{"a.py:1", "b.py:2"})
	b := ComputeFingerprint("sql_injection", "bandit", []string{"a.py:1", "b.py:2"})
	if a != b {
		t.Fatal("fingerprint must be stable for identical inputs")
	}
	c := ComputeFingerprint("sql_injection", "bandit", []string{"a.py:1"})
	if a == c {
		t.Fatal("fingerprint must differ for different locations")
	}
}
