// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jmlr

import (
	"regexp"
	"strings"

	"github.com/fmlinfra/jmlr-pipeline/internal/pdftext"
)

// Sanity bounds for the editor and keyword lookups. Matches outside these
// lengths are misfires on body text.
const (
	minEditorLen   = 5
	maxEditorLen   = 100
	minKeywordsLen = 8
	maxKeywordsLen = 1000
)

var (
	editorLabelRe   = regexp.MustCompile(`(?i)Editor`)
	keywordsLabelRe = regexp.MustCompile(`(?i)Keywords?`)
)

// searchSpans returns the text of the first span matching re, starting at
// the match.
func searchSpans(spans []pdftext.Span, re *regexp.Regexp) string {
	for _, s := range spans {
		if loc := re.FindStringIndex(s.Text); loc != nil {
			return s.Text[loc[0]:]
		}
	}
	return ""
}

// stripLabel removes a "Label:" prefix when present.
func stripLabel(s string) string {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}

// FindEditor searches the first-page spans for the handling editor. The
// bool is false when no plausible editor line exists.
func FindEditor(spans []pdftext.Span) (string, bool) {
	match := searchSpans(spans, editorLabelRe)
	if len(match) < minEditorLen || len(match) > maxEditorLen {
		return "", false
	}
	return stripLabel(match), true
}

// FindKeywords searches the first-page spans for the keyword list, falling
// back to the second page (where the abstract runs long) via secondPage.
// Keywords are split on commas or semicolons, lowercased, and trimmed.
func FindKeywords(spans []pdftext.Span, secondPage func() ([]pdftext.Span, error)) ([]string, bool) {
	match := searchSpans(spans, keywordsLabelRe)
	if match == "" && secondPage != nil {
		if more, err := secondPage(); err == nil {
			match = searchSpans(more, keywordsLabelRe)
		}
	}
	if len(match) < minKeywordsLen || len(match) > maxKeywordsLen {
		return nil, false
	}
	return SplitKeywords(stripLabel(match)), true
}

// SplitKeywords splits a keyword line on commas (or semicolons when no
// comma is present), lowercasing and trimming each entry.
func SplitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	sep := ","
	if !strings.Contains(s, ",") && strings.Contains(s, ";") {
		sep = ";"
	}
	var out []string
	for _, kw := range strings.Split(s, sep) {
		kw = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(kw, "\n", " ")))
		kw = strings.TrimSuffix(kw, ".")
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
