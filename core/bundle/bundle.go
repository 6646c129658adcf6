// Package bundle compiles deterministic agent bundles: size-bounded,
// severity-ordered subsets of the rule registry for one topic and language
// pair. A bundle is a pure function of (topic, language, rule set content),
// so recompiling against unchanged sources yields a byte-identical artifact.
package bundle

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/credo-hq/credo/core/findings"
	"github.com/credo-hq/credo/core/rulecard"
)

// Bundle size bounds. Selection stops at MaxRules; bundles smaller than
// MinRules are valid but flagged to the caller via Thin.
const (
	MinRules = 6
	MaxRules = 12
)

// Bundle is a compiled subset of rule cards for one topic and language pair,
// consumed read-only by downstream guidance agents.
type Bundle struct {
	BundleID    string   `json:"bundle_id"`
	Topic       string   `json:"topic"`
	Language    string   `json:"language"`
	Rules       []string `json:"rules"`
	ContentHash string   `json:"content_hash"`
}

// Thin reports whether the bundle holds fewer than MinRules rules, meaning
// the registry has thin coverage for the topic and the bundle should be
// supplemented with more cards.
func (b Bundle) Thin() bool {
	return len(b.Rules) < MinRules
}

// Marshal serializes the bundle artifact deterministically.
func (b Bundle) Marshal() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// InsufficientRulesError reports a topic/language pair with no applicable
// rules at all. It is fatal to compiling that pair only.
type InsufficientRulesError struct {
	Topic    string
	Language string
}

func (e *InsufficientRulesError) Error() string {
	return fmt.Sprintf("no applicable rules for topic %q, language %q", e.Topic, e.Language)
}

// Compile selects the bundle for the given topic and language from the rule
// set. Applicable cards are those whose ID topic segment matches the topic
// (case-insensitive) and whose scope covers the language. Selection prefers
// higher severity, breaking ties by ID ascending, and caps at MaxRules.
func Compile(topic, language string, set *rulecard.Set) (Bundle, error) {
	applicable := set.Filter(func(c rulecard.Card) bool {
		return strings.EqualFold(c.Topic(), topic) && c.AppliesTo(language)
	})
	if len(applicable) == 0 {
		return Bundle{}, &InsufficientRulesError{Topic: topic, Language: language}
	}

	sort.Slice(applicable, func(i, j int) bool {
		ri, rj := findings.Rank(applicable[i].Severity), findings.Rank(applicable[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return applicable[i].ID < applicable[j].ID
	})
	if len(applicable) > MaxRules {
		applicable = applicable[:MaxRules]
	}

	ids := make([]string, len(applicable))
	for i, c := range applicable {
		ids[i] = c.ID
	}

	return Bundle{
		BundleID:    bundleID(topic, language),
		Topic:       strings.ToLower(topic),
		Language:    strings.ToLower(language),
		Rules:       ids,
		ContentHash: HashSet(set),
	}, nil
}

// HashSet computes the content hash of a rule set: a SHA-256 digest over the
// canonical JSON of every card in insertion order. Any change to any card
// changes the hash, which invalidates cached bundles.
func HashSet(set *rulecard.Set) string {
	h := sha256.New()
	for _, c := range set.Cards() {
		// Card maps are serialized with sorted keys by encoding/json, so
		// the digest is stable for structurally equal sets.
		data, err := json.Marshal(c)
		if err != nil {
			continue
		}
		h.Write(data)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func bundleID(topic, language string) string {
	return strings.ToLower(topic) + "-" + strings.ToLower(language)
}

// Cache memoizes compiled bundles keyed by (topic, language, content hash).
// A recompile against an unchanged rule set is served from memory; a changed
// hash naturally misses, so invalidation is free. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Bundle
}

// NewCache returns an empty bundle cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Bundle)}
}

// Compile returns the cached bundle for (topic, language) under the set's
// current content hash, compiling and caching on miss.
func (c *Cache) Compile(topic, language string, set *rulecard.Set) (Bundle, error) {
	key := bundleID(topic, language) + "@" + HashSet(set)

	c.mu.RLock()
	b, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	b, err := Compile(topic, language, set)
	if err != nil {
		return Bundle{}, err
	}

	c.mu.Lock()
	c.entries[key] = b
	c.mu.Unlock()
	return b, nil
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
