// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

var csvHeader = []string{
	"id", "title", "volume", "year", "track", "n_pages",
	"submitted", "revised", "published", "editor",
	"keywords", "authors", "first_affiliation",
	"institution", "region", "pdf_path",
}

// ExportCSV writes stored papers for the given year (all years when zero)
// to indexDir/jmlr_<year>_metadata.csv and returns the file path.
func (s *Store) ExportCSV(ctx context.Context, year int) (string, error) {
	papers, err := s.Papers(ctx, year)
	if err != nil {
		return "", err
	}

	label := "all"
	if year != 0 {
		label = strconv.Itoa(year)
	}
	path := filepath.Join(s.indexDir, fmt.Sprintf("jmlr_%s_metadata.csv", label))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range papers {
		names := make([]string, len(p.Authors))
		for i, a := range p.Authors {
			names[i] = a.Name
		}
		record := []string{
			p.ID, p.Title,
			strconv.Itoa(p.Volume), strconv.Itoa(p.Year),
			p.Track, strconv.Itoa(p.NumPages),
			p.Submitted, p.Revised, p.Published, p.Editor,
			strings.Join(p.Keywords, "; "),
			strings.Join(names, "; "),
			strings.Join(p.FirstAffiliation(), ", "),
			p.Institution, p.Region,
			p.PDFPath,
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return "", fmt.Errorf("writing CSV record for %s: %w", p.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// ExportYAML writes stored papers for the given year (all years when zero)
// to indexDir/jmlr_<year>_metadata.yaml and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, year int) (string, error) {
	papers, err := s.Papers(ctx, year)
	if err != nil {
		return "", err
	}

	label := "all"
	if year != 0 {
		label = strconv.Itoa(year)
	}
	path := filepath.Join(s.indexDir, fmt.Sprintf("jmlr_%s_metadata.yaml", label))

	data, err := yaml.Marshal(papers)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
