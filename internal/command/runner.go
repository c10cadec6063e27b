// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package command implements Python interpreter detection and external
// extraction script execution.
package command

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	binPython3 = "python3"
	binPython  = "python"
)

// Runner invokes the external extraction script on a single PDF file.
// The script's standard output is captured; its error stream is discarded.
type Runner interface {
	// Name returns the interpreter name ("python3" or "python").
	Name() string

	// Available reports whether the interpreter binary exists on PATH and
	// responds to a version query.
	Available() bool

	// ScriptExists checks that the extraction script is present on disk.
	// Returns nil when the script is found, or an error describing the failure.
	ScriptExists(path string) error

	// Run executes the script against pdfPath, writing the script's
	// standard output to stdout. A non-zero script exit status is
	// returned as an error.
	Run(script, pdfPath string, stdout io.Writer) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCaptured(name string, args []string, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCaptured(name string, args []string, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	// Stderr is left nil so the script's diagnostics go to /dev/null and
	// never reach the combined artifact.
	return cmd.Run()
}

// runner implements Runner for a specific interpreter binary. python3 and
// python share the same logic; they differ only in binary name.
type runner struct {
	bin  string
	exec executor
}

func (r *runner) Name() string { return r.bin }

func (r *runner) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "--version") == nil
}

func (r *runner) ScriptExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("extraction script %s not found: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("extraction script %s is a directory", path)
	}
	return nil
}

func (r *runner) Run(script, pdfPath string, stdout io.Writer) error {
	args := []string{script, "--pdf_path", pdfPath}
	if err := r.exec.RunCaptured(r.bin, args, stdout); err != nil {
		return fmt.Errorf("running %s %s on %s: %w", r.bin, script, pdfPath, err)
	}
	return nil
}

func newPython3Runner(exec executor) *runner {
	return &runner{bin: binPython3, exec: exec}
}

func newPythonRunner(exec executor) *runner {
	return &runner{bin: binPython, exec: exec}
}

var defaultExec = &osExecutor{}

// DetectInterpreter tries python3 first, falls back to python. Returns an
// error if neither interpreter is available.
func DetectInterpreter() (Runner, error) {
	return detectInterpreter(defaultExec)
}

func detectInterpreter(exec executor) (Runner, error) {
	py3 := newPython3Runner(exec)
	if py3.Available() {
		return py3, nil
	}

	py := newPythonRunner(exec)
	if py.Available() {
		return py, nil
	}

	return nil, fmt.Errorf(
		"no Python interpreter available: neither %s nor %s found or operational",
		binPython3, binPython,
	)
}
