// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author is one paper author with the affiliation lines printed beneath
// the name on the first page.
type Author struct {
	// Name is the author name with footnote markers (*, †) stripped.
	Name string `json:"name" yaml:"name"`

	// Affiliation lists the affiliation lines in page order. Authors that
	// share an affiliation block with the following author carry a copy
	// of that author's lines.
	Affiliation []string `json:"affiliation" yaml:"affiliation"`
}

// Paper holds the metadata extracted from a JMLR paper's first page.
type Paper struct {
	// ID is a slug derived from the paper title.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, reconstructed from the title spans.
	Title string `json:"title" yaml:"title"`

	// Volume is the JMLR volume number (e.g. 21).
	Volume int `json:"volume" yaml:"volume"`

	// Year is the publication year from the header line.
	Year int `json:"year" yaml:"year"`

	// Track is "main_track" or "software_track".
	Track string `json:"track,omitempty" yaml:"track,omitempty"`

	// NumPages is the page count derived from the header's page range.
	NumPages int `json:"n_pages,omitempty" yaml:"n_pages,omitempty"`

	// Submitted, Revised, and Published are "yyyy.mm" dates from the
	// header line; empty when the header omits them.
	Submitted string `json:"submitted,omitempty" yaml:"submitted,omitempty"`
	Revised   string `json:"revised,omitempty" yaml:"revised,omitempty"`
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	// Editor is the handling editor named on the first page.
	Editor string `json:"editor,omitempty" yaml:"editor,omitempty"`

	// Keywords lists the paper keywords, lowercased and trimmed.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Authors lists the paper authors in page order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Institution is the canonical institution name normalized from the
	// first author's affiliation; empty until normalization runs.
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`

	// Region is the ISO 3166-1 alpha-2 code of the institution's country;
	// empty until normalization runs.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// PDFPath is the local filesystem path of the source PDF.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
}

// FirstAffiliation returns the first author's affiliation lines, or nil
// when the paper has no authors.
func (p *Paper) FirstAffiliation() []string {
	if len(p.Authors) == 0 {
		return nil
	}
	return p.Authors[0].Affiliation
}
