// Package matcher resolves a free-text grocery-list entry to at most one catalog
// entry of a store.
package matcher

import (
	"strings"
	"unicode/utf8"

	"shopsaver-api/internal/models"
)

// Matcher picks the catalog entry a requested name refers to.
type Matcher interface {
	// Prepare returns a copy of catalog with NormalizedName filled in, so that
	// repeated Match calls on the same catalog skip normalization.
	Prepare(catalog []models.CatalogEntry) []models.CatalogEntry
	// Match returns the chosen entry, or false when nothing matches.
	Match(requested string, catalog []models.CatalogEntry) (models.CatalogEntry, bool)
}

// Config tunes a TextMatcher.
type Config struct {
	Normalize         NormalizeFunc
	EnableFuzzy       bool
	FuzzyEditDistance int
}

// TextMatcher matches on normalized names: an exact match wins, then a substring
// match in either direction whose length is closest to the request, then (when
// enabled) a token-wise fuzzy match. Ties go to the smallest item code.
type TextMatcher struct {
	normalize   NormalizeFunc
	enableFuzzy bool
	maxEdit     int
}

// NewTextMatcher creates a matcher with the given configuration.
func NewTextMatcher(cfg Config) *TextMatcher {
	normalize := cfg.Normalize
	if normalize == nil {
		normalize = Normalize
	}

	maxEdit := cfg.FuzzyEditDistance
	if maxEdit <= 0 {
		maxEdit = 1
	}

	return &TextMatcher{
		normalize:   normalize,
		enableFuzzy: cfg.EnableFuzzy,
		maxEdit:     maxEdit,
	}
}

func (m *TextMatcher) Prepare(catalog []models.CatalogEntry) []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(catalog))
	for i, e := range catalog {
		e.NormalizedName = m.normalize(e.ItemName)
		out[i] = e
	}
	return out
}

// candidate is the best entry seen so far for one matching tier.
type candidate struct {
	entry   models.CatalogEntry
	found   bool
	edits   int
	lenDiff int
}

func (c *candidate) offer(e models.CatalogEntry, edits, lenDiff int) {
	if !c.found ||
		edits < c.edits ||
		(edits == c.edits && lenDiff < c.lenDiff) ||
		(edits == c.edits && lenDiff == c.lenDiff && e.ItemCode < c.entry.ItemCode) {
		c.entry, c.found, c.edits, c.lenDiff = e, true, edits, lenDiff
	}
}

func (m *TextMatcher) Match(requested string, catalog []models.CatalogEntry) (models.CatalogEntry, bool) {
	query := m.normalize(requested)
	if query == "" {
		return models.CatalogEntry{}, false
	}
	queryLen := utf8.RuneCountInString(query)

	var exact, substring, fuzzy candidate
	for _, e := range catalog {
		name := e.NormalizedName
		if name == "" {
			name = m.normalize(e.ItemName)
		}
		if name == "" {
			continue
		}

		lenDiff := abs(utf8.RuneCountInString(name) - queryLen)
		switch {
		case name == query:
			exact.offer(e, 0, 0)
		case strings.Contains(name, query) || strings.Contains(query, name):
			substring.offer(e, 0, lenDiff)
		case m.enableFuzzy && !exact.found && !substring.found:
			if edits, ok := tokenDistance(query, name, m.maxEdit); ok {
				fuzzy.offer(e, edits, lenDiff)
			}
		}
	}

	for _, c := range []candidate{exact, substring, fuzzy} {
		if c.found {
			return c.entry, true
		}
	}
	return models.CatalogEntry{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
