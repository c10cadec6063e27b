// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jmlr

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// equalAlphanumeric compares two strings on their ASCII letters and digits
// only, case-insensitively and after NFKD decomposition (so "Classiﬁcation"
// equals "Classification"). Titles are reconstructed from spans by matching
// against the PDF file name this way, since punctuation and spacing differ
// between the two.
func equalAlphanumeric(a, b string) bool {
	return alphanumeric(a) == alphanumeric(b)
}

func alphanumeric(s string) string {
	s = strings.ToLower(norm.NFKD.String(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripMarkers removes trailing footnote markers from an author name.
func stripMarkers(name string) string {
	return strings.TrimRight(strings.TrimSpace(name), "*† ")
}

// validAffiliationGlyph reports whether a single-character affiliation
// line is plausible. Anything outside letters, digits, and common address
// punctuation indicates a misparsed footnote symbol.
func validAffiliationGlyph(s string) bool {
	if len([]rune(s)) != 1 {
		return true
	}
	r := []rune(s)[0]
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', ',', '.', '-', '&', '(', ')', '/':
		return true
	}
	return false
}
