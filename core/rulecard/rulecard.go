// Package rulecard implements the YAML-backed rule registry for credo. Rule
// cards are loaded from per-card YAML files, validated against a strict
// schema, and held immutable for the lifetime of the process. Downstream
// consumers (the bundler and the compliance scorer) only ever hold read
// references into a Set.
package rulecard

import (
	"strings"

	"github.com/credo-hq/credo/core/findings"
)

// Card is a single security requirement loaded from YAML. The ID follows the
// DOMAIN-TOPIC-NNN convention (e.g. "SECRETS-API-001") and is globally unique
// across the registry.
type Card struct {
	ID          string              `yaml:"id" json:"id"`
	Title       string              `yaml:"title" json:"title"`
	Severity    findings.Severity   `yaml:"severity" json:"severity"`
	Scope       string              `yaml:"scope" json:"scope,omitempty"`
	Requirement string              `yaml:"requirement" json:"requirement"`
	Do          []string            `yaml:"do" json:"do,omitempty"`
	Dont        []string            `yaml:"dont" json:"dont,omitempty"`
	Detect      map[string][]string `yaml:"detect" json:"detect,omitempty"`
	Verify      []string            `yaml:"verify" json:"verify,omitempty"`
	Refs        map[string][]string `yaml:"refs" json:"refs"`
}

// Domain returns the DOMAIN segment of the card ID, e.g. "SECRETS" for
// "SECRETS-API-001". Empty when the ID does not follow the convention.
func (c Card) Domain() string {
	parts := strings.SplitN(c.ID, "-", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[0]
}

// Topic returns the TOPIC segment of the card ID, e.g. "API" for
// "SECRETS-API-001". Empty when the ID does not follow the convention.
func (c Card) Topic() string {
	parts := strings.SplitN(c.ID, "-", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// AppliesTo reports whether the card is applicable to the given language. A
// card with an empty scope or scope "all" applies to every language;
// otherwise the scope must match the language case-insensitively.
func (c Card) AppliesTo(language string) bool {
	if c.Scope == "" || strings.EqualFold(c.Scope, "all") {
		return true
	}
	return strings.EqualFold(c.Scope, language)
}

// Detectors returns the detector identifiers the card maps to for the given
// tool, or nil when the card has no mapping for it.
func (c Card) Detectors(tool string) []string {
	if c.Detect == nil {
		return nil
	}
	return c.Detect[tool]
}

// Set is an ordered, immutable collection of rule cards with fast lookup by
// ID. Insertion order is file load order; the loader visits files in
// lexicographic path order so a Set built from the same sources is always
// structurally equal.
type Set struct {
	cards []Card
	byID  map[string]int
}

// NewSet returns an initialised, empty Set.
func NewSet() *Set {
	return &Set{byID: make(map[string]int)}
}

// add appends a card to the set. The loader is the only writer; callers
// outside this package observe the set as read-only.
func (s *Set) add(c Card) {
	s.byID[c.ID] = len(s.cards)
	s.cards = append(s.cards, c)
}

// Cards returns all cards in insertion order. The caller must not modify the
// returned slice.
func (s *Set) Cards() []Card {
	return s.cards
}

// Len returns the number of cards in the set.
func (s *Set) Len() int {
	return len(s.cards)
}

// Lookup returns the card with the given ID, or a NotFoundError when no such
// card exists in the set.
func (s *Set) Lookup(id string) (Card, error) {
	idx, ok := s.byID[id]
	if !ok {
		return Card{}, &NotFoundError{ID: id}
	}
	return s.cards[idx], nil
}

// Has reports whether a card with the given ID exists in the set.
func (s *Set) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Filter returns the cards satisfying pred, preserving insertion order. The
// query is pure: it never mutates the set and repeated calls with the same
// predicate return equal results.
func (s *Set) Filter(pred func(Card) bool) []Card {
	out := make([]Card, 0, len(s.cards))
	for _, c := range s.cards {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}
