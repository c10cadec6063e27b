// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives a metadata processor over every PDF in a directory
// and assembles a single combined report.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNoInputFiles is returned when the input directory contains no PDFs.
// It is the only fatal condition of a batch run; per-file processing
// failures are logged and skipped.
var ErrNoInputFiles = errors.New("no input files matched")

// Processor extracts metadata from one PDF, writing its textual output to
// stdout. Different backends (external script, native parser) implement
// this interface.
type Processor interface {
	Process(pdfPath string, stdout io.Writer) error
}

// Result holds the outcome of a batch run.
type Result struct {
	Processed int
	Failed    int
}

// Total returns the total number of files handled.
func (r Result) Total() int {
	return r.Processed + r.Failed
}

// HasFailures reports whether any files failed processing.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run enumerates inputDir/*.pdf (non-recursive, in enumeration order) and
// feeds each file through p. The combined artifact at outputPath is
// truncated at the start of the run, then receives a banner line per file
// followed by the processor's standard output. Per-file status goes to
// status, never into the artifact.
//
// A file whose processor fails is reported and skipped; the batch
// continues. The artifact keeps that file's banner with no content
// beneath it. Run returns ErrNoInputFiles when the directory yields no
// matches, leaving the artifact empty.
func Run(p Processor, inputDir, outputPath string, status io.Writer) (Result, error) {
	matches, err := filepath.Glob(filepath.Join(inputDir, "*.pdf"))
	if err != nil {
		return Result{}, fmt.Errorf("scanning %s: %w", inputDir, err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return Result{}, fmt.Errorf("creating output artifact %s: %w", outputPath, err)
	}
	defer out.Close()

	if len(matches) == 0 {
		fmt.Fprintf(status, "no PDF files found in %s\n", inputDir)
		return Result{}, fmt.Errorf("%w: %s/*.pdf", ErrNoInputFiles, inputDir)
	}

	var result Result
	for _, path := range matches {
		if _, err := fmt.Fprintf(out, "\n\n=== Processing %s ===\n\n", path); err != nil {
			return result, fmt.Errorf("writing banner for %s: %w", path, err)
		}

		if err := p.Process(path, out); err != nil {
			fmt.Fprintf(status, "failed:    %s (%v)\n", path, err)
			result.Failed++
			continue
		}

		fmt.Fprintf(status, "processed: %s\n", path)
		result.Processed++
	}

	if err := out.Close(); err != nil {
		return result, fmt.Errorf("closing output artifact: %w", err)
	}

	fmt.Fprintf(status, "\nAll %d file(s) processed: %d ok, %d failed\n",
		result.Total(), result.Processed, result.Failed)
	return result, nil
}
