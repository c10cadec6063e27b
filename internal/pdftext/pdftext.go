// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts positioned text lines from PDF pages. It reads
// character fragments with font metadata and assembles them into line
// spans ordered top-to-bottom, the unit the metadata heuristics operate on.
package pdftext

import (
	"fmt"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// letterHeight is the fallback page height (US Letter, points) when the
// page carries no MediaBox. JMLR pages are letter format.
const letterHeight = 792.0

// Span is one assembled text line with its dominant font and bounding box.
// Coordinates are top-down: Y0 is the top edge, Y1 the bottom edge, so
// sorting by Y0 yields reading order.
type Span struct {
	Text string
	Font string
	Size float64
	X0   float64
	Y0   float64
	X1   float64
	Y1   float64
}

// CutAtAbstract truncates spans at the line reading "Abstract". Everything
// after it belongs to the paper body: editor and keyword lookups search
// the full page, author analysis uses the cut.
func CutAtAbstract(spans []Span) []Span {
	for i, s := range spans {
		if strings.EqualFold(strings.TrimSpace(s.Text), "abstract") {
			return spans[:i]
		}
	}
	return spans
}

// PageSpans reads page pageNum (1-based) of the PDF at path and returns
// all of its line spans in reading order.
func PageSpans(path string, pageNum int) ([]Span, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	if pageNum < 1 || pageNum > reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range in %s (%d pages)", pageNum, path, reader.NumPage())
	}

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d of %s has no content", pageNum, path)
	}

	content := page.Content()
	if len(content.Text) == 0 {
		return nil, fmt.Errorf("no text extracted from page %d of %s", pageNum, path)
	}

	return assembleSpans(content.Text, pageHeight(page)), nil
}

// pageHeight reads the MediaBox height, falling back to US Letter.
func pageHeight(page pdflib.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return letterHeight
	}
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if h <= 0 {
		return letterHeight
	}
	return h
}

// assembleSpans groups character fragments into lines. Fragments share a
// line when their baselines agree within a small tolerance; a horizontal
// gap wider than a fraction of the font size becomes a space.
func assembleSpans(texts []pdflib.Text, height float64) []Span {
	const baselineTol = 2.0

	frags := make([]pdflib.Text, len(texts))
	copy(frags, texts)

	// Top-to-bottom (descending PDF Y), then left-to-right.
	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y > frags[j].Y
		}
		return frags[i].X < frags[j].X
	})

	var spans []Span
	var line []pdflib.Text
	flush := func() {
		if len(line) == 0 {
			return
		}
		spans = append(spans, buildSpan(line, height))
		line = nil
	}

	for _, t := range frags {
		if len(line) > 0 && abs(line[0].Y-t.Y) > baselineTol {
			flush()
		}
		line = append(line, t)
	}
	flush()

	return spans
}

// buildSpan concatenates a line's fragments into one span, inserting
// spaces at gaps the text stream does not carry explicitly. Fragments are
// re-sorted by X because baseline jitter can perturb the global sort.
func buildSpan(line []pdflib.Text, height float64) Span {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var b strings.Builder
	first := line[0]

	x1 := first.X
	for i, t := range line {
		if i > 0 {
			prev := line[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > spaceThreshold(prev.FontSize) && !strings.HasSuffix(b.String(), " ") && t.S != " " {
				b.WriteString(" ")
			}
		}
		b.WriteString(t.S)
		if end := t.X + t.W; end > x1 {
			x1 = end
		}
	}

	return Span{
		Text: Normalize(b.String()),
		Font: first.Font,
		Size: first.FontSize,
		X0:   first.X,
		Y0:   height - first.Y - first.FontSize,
		X1:   x1,
		Y1:   height - first.Y,
	}
}

func spaceThreshold(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1.0
	}
	return fontSize * 0.25
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
