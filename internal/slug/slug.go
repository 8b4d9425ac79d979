// Package slug derives canonical URL-safe identifiers from free text.
// Slugs are the dedup key for tags: two raw strings that normalize to
// the same slug are the same tag.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining
// marks, so "café" contributes "cafe" to a slug.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts raw text into a lowercase slug: accents are folded to
// ASCII, runs of anything that is not a letter or digit become a single
// dash, and leading/trailing dashes are dropped. Text with no usable
// characters yields the empty string, which callers treat as "skip".
func Make(raw string) string {
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			pendingDash = true
			continue
		}
		if pendingDash && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingDash = false
		b.WriteRune(r)
	}
	return b.String()
}

// Humanize turns a slug back into display text: separators become
// spaces and the first letter is capitalized. Humanize(Make(x)) is the
// canonical display form of a tag.
func Humanize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(words) == 0 {
		return ""
	}

	joined := strings.Join(words, " ")
	r := []rune(joined)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
