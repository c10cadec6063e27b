// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jmlr

import "fmt"

// Rejection reasons. Papers whose first page does not fit the expected
// layout are recorded with one of these and skipped, not aborted on.
const (
	ReasonNoTitle          = "cannot find title"
	ReasonIDFormat         = "id format"
	ReasonNoEditor         = "no editor"
	ReasonNoAuthors        = "no authors"
	ReasonNotAligned       = "authors not aligned"
	ReasonEmailLocation    = "email location not valid"
	ReasonEmptyAffiliation = "empty author affiliation"
	ReasonStrayGlyph       = "stray glyph in affiliation"
)

// ParseError reports that a paper's first page could not be analyzed,
// carrying the best-known title for failure bookkeeping.
type ParseError struct {
	Title  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %s", e.Title, e.Reason)
}

func rejection(title, reason string) *ParseError {
	return &ParseError{Title: title, Reason: reason}
}
