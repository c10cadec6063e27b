// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jmlr implements the first-page layout heuristics that recover
// publication metadata (header dates, title, editor, keywords, authors and
// affiliations) from JMLR papers.
package jmlr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// headerRe matches the JMLR running header, e.g.
//
//	Journal of Machine Learning Research 21 (2020) 1-37
//	Submitted 9/18; Revised 12/19; Published 9/20
//
// The header may arrive as one concatenated string with no separator
// between the page range and "Submitted".
var headerRe = regexp.MustCompile(`(?i)^\s*Journal of Machine Learning Research\s*(?:volume\s*)?(\d+\s*)?\((\d{4})\)\s*(\d+)\s*[-–]\s*(\d+)\s*[\r\n]*Submitted\s*(\d{1,2}/\d{1,2})\s*[,;]?\s*(?:Revised\s*:?\s*((?:\d{1,2}/\d{1,2}\s*)?(?:&\s*\d{1,2}/\d{1,2}\s*)*);)?\s*Published\s*(\d{1,2}/\d{1,2}\s*)?$`)

// Header holds the fields recovered from the running header line.
type Header struct {
	Volume   int
	Year     int
	NumPages int

	// Submitted, Revised, and Published are normalized to "yyyy.mm".
	// Revised is empty when the header omits it.
	Submitted string
	Revised   string
	Published string
}

// ParseHeader extracts header fields. The second return value is false
// when the text does not match the JMLR header format.
func ParseHeader(text string) (Header, bool) {
	m := headerRe.FindStringSubmatch(text)
	if m == nil {
		return Header{}, false
	}

	var h Header
	h.Volume, _ = strconv.Atoi(strings.TrimSpace(m[1]))
	h.Year, _ = strconv.Atoi(m[2])

	start, errS := strconv.Atoi(m[3])
	end, errE := strconv.Atoi(m[4])
	if errS == nil && errE == nil {
		h.NumPages = end - start + 1
	}

	h.Submitted = expandMonthYear(m[5])
	h.Revised = expandMonthYear(firstRevision(m[6]))
	h.Published = expandMonthYear(m[7])
	return h, true
}

// IsHeader reports whether text matches the JMLR running header format.
func IsHeader(text string) bool {
	return headerRe.MatchString(text)
}

// firstRevision keeps the first date of a multi-revision list like
// "12/19 & 3/20".
func firstRevision(s string) string {
	if i := strings.IndexByte(s, '&'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// expandMonthYear converts a header date like "9/20" to "2020.09". The
// two-digit year is pinned to the 1990s when it is 90 or above, otherwise
// to the 2000s (JMLR started publishing in 2000).
func expandMonthYear(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	month, errM := strconv.Atoi(strings.TrimSpace(parts[0]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errM != nil || errY != nil {
		return ""
	}
	century := 2000
	if year >= 90 {
		century = 1900
	}
	return fmt.Sprintf("%04d.%02d", century+year, month)
}
