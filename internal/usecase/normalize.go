package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a free-text ingredient name so it can be used as
// a join key between pantry items and provider ingredient mentions.
// "  Red  Onion " and "red onion!" both become "red onion". The result is
// idempotent and may be empty.
func NormalizeName(raw string) string {
	s := foldRunes(strings.TrimSpace(raw))
	s = nonAlphanumericRegex.ReplaceAllString(s, "")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeNames applies NormalizeName to every element
func NormalizeNames(raw []string) []string {
	out := make([]string, len(raw))
	for i, r := range raw {
		out[i] = NormalizeName(r)
	}
	return out
}

// foldRunes lowercases A-Z and turns every Unicode space into ' ', since the
// regexp \s class is ASCII-only. Other runes are left for the filter to drop.
func foldRunes(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case unicode.IsSpace(r):
			return ' '
		}
		return r
	}, s)
}
