// Package normalize converts text into the comparison-stable form used on
// both sides of every match: indexed content, filenames, and query patterns.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
// This turns "ü" into "u" and "Kimün" into "Kimun".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical comparison form of text: lowercased,
// diacritics stripped, and every run of non-word-forming runes collapsed
// into a single space. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		// transform.String only fails on malformed input; fall back to the
		// raw text so normalization never fails.
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// Words normalizes text and splits it into its normalized words.
func Words(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// WordSet normalizes text into a set of unique normalized words.
func WordSet(text string) map[string]struct{} {
	words := Words(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Pattern normalizes a query pattern while preserving '*' wildcards.
// Each literal segment between wildcards is normalized independently so
// the pattern stays comparable with normalized candidates.
func Pattern(text string) string {
	if !strings.Contains(text, "*") {
		return Normalize(text)
	}
	segments := strings.Split(text, "*")
	for i, seg := range segments {
		segments[i] = Normalize(seg)
	}
	return strings.Join(segments, "*")
}
