// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ManifestEntry is one paper listed on a JMLR volume index page.
type ManifestEntry struct {
	Title   string   `yaml:"title"`
	Authors []string `yaml:"authors"`

	// Issue and page range within the volume.
	Issue     int `yaml:"issue"`
	PageStart int `yaml:"page_start"`
	PageEnd   int `yaml:"page_end"`

	// Year is the publication year printed in the entry's citation line.
	Year int `yaml:"year"`

	// IsMLOSS marks Machine Learning Open Source Software track papers.
	IsMLOSS bool `yaml:"is_mloss"`

	URLAbs string `yaml:"url_abs"`
	URLPDF string `yaml:"url_pdf"`
	URLBib string `yaml:"url_bib"`
}

// VolumeManifest is the on-disk record of a scraped JMLR volume. The
// researcher can scrape once and re-run downstream stages from the file
// without re-fetching the index page.
type VolumeManifest struct {
	Volume    int             `yaml:"volume"`
	SourceURL string          `yaml:"source_url"`
	ScrapedAt time.Time       `yaml:"scraped_at"`
	Papers    []ManifestEntry `yaml:"papers"`
}

// MainTrack returns the entries not flagged as MLOSS.
func (m *VolumeManifest) MainTrack() []ManifestEntry {
	var out []ManifestEntry
	for _, p := range m.Papers {
		if !p.IsMLOSS {
			out = append(out, p)
		}
	}
	return out
}

// MLOSSTrack returns the entries flagged as MLOSS.
func (m *VolumeManifest) MLOSSTrack() []ManifestEntry {
	var out []ManifestEntry
	for _, p := range m.Papers {
		if p.IsMLOSS {
			out = append(out, p)
		}
	}
	return out
}
