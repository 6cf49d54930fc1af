package match

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// separatorRunes are stripped from normalized text: whitespace, common
// punctuation, and the bracket/quote characters of both Latin and CJK
// scripts. Catalogs disagree wildly on these, so comparison ignores them.
const separatorRunes = "-_.()[]（）【】·,，'\"/"

// Normalize canonicalizes free text for comparison: NFKC unicode
// normalization, trimming, lower-casing, and removal of separator and
// punctuation runes. It is idempotent and pure.
//
// Normalized strings are for equality and containment checks only; display
// and tagging always use the original text.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '　' {
			return -1
		}
		if strings.ContainsRune(separatorRunes, r) {
			return -1
		}
		return r
	}, s)
}

// SameTitle reports whether two titles refer to the same song: their
// normalized forms are equal, or one contains the other. Containment handles
// catalog titles that carry extra qualifiers like "(Live)" or "(周杰伦版)".
//
// The containment rule is deliberately permissive and is the most
// false-positive-prone part of matching: short titles like "海" will match
// inside longer unrelated ones. Treat it as a tunable, not a law.
func SameTitle(expected, actual string) bool {
	a, b := Normalize(expected), Normalize(actual)
	if a == "" || b == "" {
		return a == b
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// artistSeparators split a multi-artist query field like "周杰伦/费玉清".
var artistSeparators = []string{"/", ",", "，", "&", "、"}

// Widen returns alternate query strings to retry a weak search with: the
// title alone, and the title with only the first listed artist when the
// artist field names several. The literal "title artist" query is not
// included; callers issue that first.
func Widen(title, artist string) []string {
	var alternates []string
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)

	if first := firstArtist(artist); first != "" && first != artist {
		alternates = append(alternates, title+" "+first)
	}
	if artist != "" {
		alternates = append(alternates, title)
	}
	return alternates
}

func firstArtist(artist string) string {
	for _, sep := range artistSeparators {
		if i := strings.Index(artist, sep); i >= 0 {
			return strings.TrimSpace(artist[:i])
		}
	}
	return artist
}
