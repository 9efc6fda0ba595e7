package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeFunc maps a free-text name to its comparable form.
type NormalizeFunc func(string) string

// Normalize trims, lowercases, collapses internal whitespace and strips combining
// marks (Latin accents, Hebrew niqqud).
func Normalize(s string) string {
	// transform chains carry state, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
