package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes characters and drops combining marks, then removes
// anything left outside ASCII. OCR output for Spanish documents mixes
// accented and unaccented spellings of the same words; folding both sides
// to plain ASCII makes indicator matching insensitive to that.
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// Normalize lowercases text and strips diacritics to their base ASCII letters
func Normalize(s string) string {
	s = strings.ToLower(s)
	out, _, err := transform.String(asciiFold, s)
	if err != nil {
		// Transformer cannot fail on valid UTF-8; fall back to the lowercased input
		return s
	}
	return out
}
