// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract indexes paper metadata parsed from PDFs.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/fmlinfra/jmlr-pipeline/internal/jmlr"
	"github.com/fmlinfra/jmlr-pipeline/internal/store"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

// Parser extracts metadata from one PDF.
type Parser interface {
	Parse(path string) (*types.Paper, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(path string) (*types.Paper, error)

// Parse calls f.
func (f ParserFunc) Parse(path string) (*types.Paper, error) {
	return f(path)
}

// Result summarizes an extraction run.
type Result struct {
	Indexed  int
	Rejected int
	Failed   int
}

// Total returns the number of PDFs considered.
func (r Result) Total() int {
	return r.Indexed + r.Rejected + r.Failed
}

// HasFailures reports whether any PDF failed outside normal rejection.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Dir parses every *.pdf directly under cfg.InputDir and upserts the
// results into the store. Papers rejected by the layout heuristics are
// recorded in the failures table; both rejections and hard failures are
// reported on w and do not stop the run.
func Dir(ctx context.Context, p Parser, s *store.Store, cfg types.ExtractConfig, w io.Writer) (Result, error) {
	matches, err := filepath.Glob(filepath.Join(cfg.InputDir, "*.pdf"))
	if err != nil {
		return Result{}, fmt.Errorf("globbing %s: %w", cfg.InputDir, err)
	}
	sort.Strings(matches)

	var result Result
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		paper, err := p.Parse(path)
		if err != nil {
			var pe *jmlr.ParseError
			if errors.As(err, &pe) {
				if rerr := s.RecordFailure(ctx, pe.Title, pe.Reason); rerr != nil {
					return result, rerr
				}
				result.Rejected++
				fmt.Fprintf(w, "rejected:  %s (%s)\n", path, pe.Reason)
				continue
			}
			result.Failed++
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			continue
		}

		if cfg.Volume != 0 {
			paper.Volume = cfg.Volume
		}
		if cfg.Year != 0 {
			paper.Year = cfg.Year
		}
		if cfg.Track != "" {
			paper.Track = cfg.Track
		}

		if err := s.UpsertPaper(ctx, paper); err != nil {
			return result, err
		}
		result.Indexed++
		fmt.Fprintf(w, "indexed:   %s\n", path)
	}

	fmt.Fprintf(w, "Extract summary: %d indexed, %d rejected, %d failed\n",
		result.Indexed, result.Rejected, result.Failed)
	return result, nil
}
