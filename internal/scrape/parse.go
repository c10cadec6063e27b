// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const siteBase = "https://jmlr.org"

// mlossMarker appears in the citation line of Machine Learning Open Source
// Software track entries.
const mlossMarker = "Machine Learning Open Source Software Paper"

var (
	volumeHeadingRe = regexp.MustCompile(`Volume\s+(\d+)`)

	// citationRe matches "(issue):start-end, year" with either an ASCII
	// hyphen or a typographic dash in the page range.
	citationRe = regexp.MustCompile(`\((\d+)\):(\d+)[-\x{2013}\x{2212}](\d+),\s*(\d{4})`)
)

// ParseVolume parses a JMLR volume index page. Each paper is a <dl> block:
// the <dt> holds the title, the <dd> holds a <b> author list, the citation
// line, and the abs/pdf/bib links.
func ParseVolume(r io.Reader) (*types.VolumeManifest, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	manifest := &types.VolumeManifest{}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "h1", "h2":
			if manifest.Volume == 0 {
				if m := volumeHeadingRe.FindStringSubmatch(nodeText(n)); m != nil {
					manifest.Volume, _ = strconv.Atoi(m[1])
				}
			}
		case "dl":
			entries := parseEntryList(n)
			manifest.Papers = append(manifest.Papers, entries...)
		}
	})

	if manifest.Volume == 0 {
		return nil, fmt.Errorf("no volume heading found")
	}
	if len(manifest.Papers) == 0 {
		return nil, fmt.Errorf("no paper entries found")
	}
	return manifest, nil
}

// parseEntryList walks one <dl>, pairing each <dt> title with the <dd>
// that follows it. A single <dl> can hold the whole volume.
func parseEntryList(dl *html.Node) []types.ManifestEntry {
	var entries []types.ManifestEntry
	var title string
	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			title = strings.TrimSpace(nodeText(c))
		case "dd":
			if title == "" {
				continue
			}
			entries = append(entries, parseEntry(title, c))
			title = ""
		}
	}
	return entries
}

func parseEntry(title string, dd *html.Node) types.ManifestEntry {
	entry := types.ManifestEntry{Title: title}

	text := nodeText(dd)
	entry.IsMLOSS = strings.Contains(text, mlossMarker)
	if m := citationRe.FindStringSubmatch(text); m != nil {
		entry.Issue, _ = strconv.Atoi(m[1])
		entry.PageStart, _ = strconv.Atoi(m[2])
		entry.PageEnd, _ = strconv.Atoi(m[3])
		entry.Year, _ = strconv.Atoi(m[4])
	}

	walk(dd, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "b":
			if entry.Authors == nil {
				entry.Authors = splitAuthors(nodeText(n))
			}
		case "a":
			href := attr(n, "href")
			if href == "" {
				return
			}
			switch strings.ToLower(strings.TrimSpace(nodeText(n))) {
			case "abs":
				entry.URLAbs = absoluteURL(href)
			case "pdf":
				entry.URLPDF = absoluteURL(href)
			case "bib":
				entry.URLBib = absoluteURL(href)
			}
		}
	})
	return entry
}

func splitAuthors(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return siteBase + href
}

// walk applies fn to n and every descendant in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
