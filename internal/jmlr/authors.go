// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jmlr

import (
	"regexp"
	"strings"

	"github.com/fmlinfra/jmlr-pipeline/internal/pdftext"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

// alignTolerance is the maximum left-edge drift (points) between author
// lines that still counts as a left-aligned author column.
const alignTolerance = 5.0

// idMarkerRe matches author lines of the "id format" layout, where authors
// carry numeric or symbolic affiliation markers ("1,2", "*,†") instead of
// inline affiliation blocks. That layout is rejected.
var idMarkerRe = regexp.MustCompile(`^(?:\s*\d+\s*$|\s*(?:\d+|[*†♢♯♭‡∗])(?:\s*,\s*(?:\d+|[*†♢♯♭‡∗]))*\s*,?\s*$)`)

// soloSymbolRe matches a lone footnote symbol, which is not an id marker.
var soloSymbolRe = regexp.MustCompile(`^\s*[*†♢♯♭‡∗]\s*$`)

func isIDMarker(s string) bool {
	return idMarkerRe.MatchString(s) && !soloSymbolRe.MatchString(s)
}

// looksLikeIDFormat accumulates span text after the title until it forms
// an id marker. Finding one means the paper uses the id layout.
func looksLikeIDFormat(start int, spans []pdftext.Span) bool {
	var b strings.Builder
	for i := start + 1; i < len(spans); i++ {
		b.WriteString(spans[i].Text)
		if isIDMarker(b.String()) {
			return true
		}
	}
	return false
}

// emailRe matches an email token within an author line. JMLR sets the
// email right-aligned on the author's row, so line assembly merges it into
// the author span.
var emailRe = regexp.MustCompile(`\S+@\S+`)

// splitEmail separates an author line into the name part and the email
// part. The email is empty when the line carries none.
func splitEmail(line string) (name, email string) {
	loc := emailRe.FindStringIndex(line)
	if loc == nil {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:loc[0]]), strings.TrimSpace(line[loc[0]:loc[1]])
}

// editorIndex returns the index of the "Editor:" span, or -1.
func editorIndex(spans []pdftext.Span) int {
	for i, s := range spans {
		if strings.HasPrefix(strings.TrimSpace(s.Text), "Editor") {
			return i
		}
	}
	return -1
}

// authorIndexes returns the spans between first and editorIdx that share
// the first author line's font and size. In the normal layout every author
// name is set in the same small-caps face, so font identity separates
// author rows from affiliation rows.
func authorIndexes(first, editorIdx int, spans []pdftext.Span) []int {
	var idx []int
	for i := first; i < editorIdx; i++ {
		if spans[i].Font == spans[first].Font && spans[i].Size == spans[first].Size {
			idx = append(idx, i)
		}
	}
	return idx
}

// authorsAligned checks that all author lines start within alignTolerance
// of the first author's left edge.
func authorsAligned(idx []int, spans []pdftext.Span) bool {
	for _, i := range idx {
		if abs(spans[i].X0-spans[idx[0]].X0) > alignTolerance {
			return false
		}
	}
	return true
}

// everyAuthorHasEmail checks that each author row carries an email, either
// merged into the author span or in a span sharing the row.
func everyAuthorHasEmail(idx []int, spans []pdftext.Span) bool {
	for _, a := range idx {
		if _, email := splitEmail(spans[a].Text); email != "" {
			continue
		}
		found := false
		for j := a + 1; j < len(spans) && spans[a].Y1 > spans[j].Y0; j++ {
			if strings.Contains(spans[j].Text, "@") {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// analyzeAuthors extracts authors and their affiliation blocks from the
// normal layout: author rows in a shared face, each followed by its
// affiliation lines, terminated by the editor line. Authors with an empty
// block inherit the next author's affiliation, matching the convention of
// listing a shared affiliation once under the last of its authors.
func analyzeAuthors(first int, spans []pdftext.Span, title string) ([]types.Author, string, error) {
	editorIdx := editorIndex(spans)
	if editorIdx < 0 {
		return nil, "", rejection(title, ReasonNoEditor)
	}

	idx := authorIndexes(first, editorIdx, spans)
	if len(idx) == 0 {
		return nil, "", rejection(title, ReasonNoAuthors)
	}
	if !authorsAligned(idx, spans) {
		return nil, "", rejection(title, ReasonNotAligned)
	}
	if !everyAuthorHasEmail(idx, spans) {
		return nil, "", rejection(title, ReasonEmailLocation)
	}

	var authors []types.Author
	for i, a := range idx {
		name, _ := splitEmail(spans[a].Text)
		authors = append(authors, types.Author{Name: stripMarkers(name)})

		// Skip spans still on the author's visual row (email column).
		line := a + 1
		for line < len(spans) && spans[line].Y0 < spans[a].Y1 {
			line++
		}

		// Collect affiliation lines until the next author or the editor.
		for line < len(spans) && line != editorIdx &&
			(i == len(idx)-1 || line != idx[i+1]) {
			text := spans[line].Text
			if !validAffiliationGlyph(text) {
				return nil, "", rejection(title, ReasonStrayGlyph)
			}
			authors[len(authors)-1].Affiliation = append(authors[len(authors)-1].Affiliation, text)
			line++
		}
	}

	if len(authors) == 0 {
		return nil, "", rejection(title, ReasonNoAuthors)
	}
	if len(authors[len(authors)-1].Affiliation) == 0 {
		return nil, "", rejection(title, ReasonEmptyAffiliation)
	}
	for i := len(authors) - 2; i >= 0; i-- {
		if len(authors[i].Affiliation) == 0 {
			authors[i].Affiliation = authors[i+1].Affiliation
		}
	}

	editor := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(spans[editorIdx].Text), "Editor:"))
	return authors, editor, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
