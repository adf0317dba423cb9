package utils

import (
	"regexp"
	"strings"
)

// nonNameChars matches everything except Hangul syllables, Hangul jamo,
// Hangul compatibility jamo and ASCII alphanumerics.
var nonNameChars = regexp.MustCompile(`[^\x{AC00}-\x{D7A3}\x{1100}-\x{11FF}\x{3130}-\x{318F}a-zA-Z0-9]`)

// NormalizeName strips spaces, punctuation, fullwidth symbols and middle dots
// so that names published by different sources can be compared.
func NormalizeName(name string) string {
	return nonNameChars.ReplaceAllString(name, "")
}

// NamesMatch reports whether either normalized name contains the other.
// Names that normalize to the empty string never match.
func NamesMatch(query, candidate string) bool {
	q := NormalizeName(query)
	c := NormalizeName(candidate)
	if q == "" || c == "" {
		return false
	}
	return strings.Contains(c, q) || strings.Contains(q, c)
}

// FindBestMatch returns the index of the first candidate matching query, or -1.
// Candidate order decides ties; there is no scoring between several matches.
func FindBestMatch(query string, candidates []string) int {
	for i, candidate := range candidates {
		if NamesMatch(query, candidate) {
			return i
		}
	}
	return -1
}
