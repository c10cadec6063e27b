// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/fmlinfra/jmlr-pipeline/internal/command"
	"github.com/fmlinfra/jmlr-pipeline/internal/jmlr"
)

// ScriptProcessor runs the external Python extraction script for each PDF.
// The script writes extracted metadata to its standard output and signals
// failure through its exit status; its error stream is discarded by the
// runner.
type ScriptProcessor struct {
	Runner command.Runner
	Script string
}

// NewScriptProcessor creates a processor for the given interpreter and
// script. It verifies that the script exists before returning.
func NewScriptProcessor(r command.Runner, script string) (*ScriptProcessor, error) {
	if err := r.ScriptExists(script); err != nil {
		return nil, fmt.Errorf("script not usable with %s: %w", r.Name(), err)
	}
	return &ScriptProcessor{Runner: r, Script: script}, nil
}

func (s *ScriptProcessor) Process(pdfPath string, stdout io.Writer) error {
	return s.Runner.Run(s.Script, pdfPath, stdout)
}

// NativeProcessor parses PDFs in-process and writes the extracted metadata
// as a YAML document to stdout.
type NativeProcessor struct{}

func (NativeProcessor) Process(pdfPath string, stdout io.Writer) error {
	paper, err := jmlr.ParseFile(pdfPath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %s: %w", pdfPath, err)
	}
	if _, err := stdout.Write(data); err != nil {
		return fmt.Errorf("writing metadata for %s: %w", pdfPath, err)
	}
	return nil
}
