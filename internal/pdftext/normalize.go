// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	crlfRe   = regexp.MustCompile(`\r\n`)
	crRe     = regexp.MustCompile(`\r`)
	vtRe     = regexp.MustCompile(`\v`)
	spacesRe = regexp.MustCompile(`[^\S \n]+`)
)

// Normalize canonicalizes extracted text: NFKD decomposition (so ligatures
// like "ﬁ" become "fi"), whitespace other than space and newline collapsed
// to single spaces, and every line trimmed.
func Normalize(text string) string {
	text = norm.NFKD.String(text)
	text = crlfRe.ReplaceAllString(text, "\n")
	text = crRe.ReplaceAllString(text, "\n")
	text = vtRe.ReplaceAllString(text, "\n")
	text = spacesRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
