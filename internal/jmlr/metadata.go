// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jmlr

import (
	"path/filepath"
	"strings"

	"github.com/fmlinfra/jmlr-pipeline/internal/pdftext"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

// ExtractMetadata analyzes the first-page spans of a paper whose PDF is
// named pdfName (without extension; JMLR archives name each PDF after the
// paper title) and returns its metadata. Spans must already be cut at the
// abstract.
//
// Failures return a *ParseError carrying the rejection reason; callers
// record them and continue with the next paper.
func ExtractMetadata(pdfName string, spans []pdftext.Span) (*types.Paper, error) {
	if len(spans) == 0 {
		return nil, rejection(pdfName, ReasonNoTitle)
	}

	// Accumulate spans until the running header matches; papers missing
	// the header start from the top.
	line := 0
	headerText := spans[0].Text
	for !IsHeader(headerText) && line+1 < len(spans) {
		line++
		headerText += spans[line].Text
	}
	line++
	header, hasHeader := ParseHeader(headerText)
	if line >= len(spans) {
		line = 0
	}

	// Reconstruct the title by accumulating spans until the text matches
	// the PDF file name.
	title := spans[line].Text
	for line+1 < len(spans) && !equalAlphanumeric(title, pdfName) {
		line++
		title += spans[line].Text
	}
	if line >= len(spans)-1 {
		return nil, rejection(pdfName, ReasonNoTitle)
	}

	// Step past any spans still on the title's rows.
	titleLine := line
	line++
	for line < len(spans) && spans[line].Y0 < spans[titleLine].Y1 {
		line++
	}
	if line >= len(spans) {
		return nil, rejection(pdfName, ReasonNoAuthors)
	}

	if looksLikeIDFormat(line, spans) {
		return nil, rejection(pdfName, ReasonIDFormat)
	}

	authors, editor, err := analyzeAuthors(line, spans, pdfName)
	if err != nil {
		return nil, err
	}

	paper := &types.Paper{
		ID:      Slug(pdfName),
		Title:   pdfName,
		Authors: authors,
		Editor:  editor,
	}
	if hasHeader {
		paper.Volume = header.Volume
		paper.Year = header.Year
		paper.NumPages = header.NumPages
		paper.Submitted = header.Submitted
		paper.Revised = header.Revised
		paper.Published = header.Published
	}
	return paper, nil
}

// ParseFile extracts metadata from the PDF at path: author analysis on the
// pre-abstract spans, editor and keyword lookup over the full first page
// with a second-page fallback for keywords.
func ParseFile(path string) (*types.Paper, error) {
	full, err := pdftext.PageSpans(path, 1)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	paper, err := ExtractMetadata(name, pdftext.CutAtAbstract(full))
	if err != nil {
		return nil, err
	}

	if paper.Editor == "" {
		paper.Editor, _ = FindEditor(full)
	}
	paper.Keywords, _ = FindKeywords(full, func() ([]pdftext.Span, error) {
		return pdftext.PageSpans(path, 2)
	})
	paper.PDFPath = path
	return paper, nil
}

// Slug derives a filesystem- and database-friendly identifier from a
// paper title.
func Slug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
