// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package command

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins   map[string]bool // binary -> whether LookPath succeeds
	runnableCmds    map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runCapturedFunc func(name string, args []string, stdout io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunCaptured(name string, args []string, stdout io.Writer) error {
	if m.runCapturedFunc != nil {
		return m.runCapturedFunc(name, args, stdout)
	}
	return nil
}

func TestDetectInterpreter(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "python3 available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"python3": true},
				runnableCmds:  map[string]bool{"python3 --version": true},
			},
			wantName: "python3",
		},
		{
			name: "python fallback when python3 missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"python": true},
				runnableCmds:  map[string]bool{"python --version": true},
			},
			wantName: "python",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "python3 on PATH but version query fails, python works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"python3": true, "python": true},
				runnableCmds:  map[string]bool{"python --version": true},
			},
			wantName: "python",
		},
		{
			name: "both available, python3 preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"python3": true, "python": true},
				runnableCmds:  map[string]bool{"python3 --version": true, "python --version": true},
			},
			wantName: "python3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := detectInterpreter(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no Python interpreter available") {
					t.Errorf("error should mention no interpreter available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Name() != tt.wantName {
				t.Errorf("got interpreter %q, want %q", r.Name(), tt.wantName)
			}
		})
	}
}

func TestScriptExists(t *testing.T) {
	exec := &mockExecutor{}
	r := newPython3Runner(exec)

	dir := t.TempDir()
	script := filepath.Join(dir, "proc_jmlr.py")
	if err := os.WriteFile(script, []byte("print()"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.ScriptExists(script); err != nil {
		t.Errorf("unexpected error for existing script: %v", err)
	}
	if err := r.ScriptExists(filepath.Join(dir, "missing.py")); err == nil {
		t.Error("expected error for missing script")
	}
	if err := r.ScriptExists(dir); err == nil {
		t.Error("expected error when script path is a directory")
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		mkRunner func(*mockExecutor) Runner
		capFunc  func(string, []string, io.Writer) error
		wantOut  string
		wantErr  bool
	}{
		{
			name:     "python3 run captures stdout",
			mkRunner: func(e *mockExecutor) Runner { return newPython3Runner(e) },
			capFunc: func(name string, args []string, stdout io.Writer) error {
				if name != "python3" {
					return errors.New("expected python3 binary")
				}
				if len(args) != 3 || args[1] != "--pdf_path" {
					return errors.New("expected [script --pdf_path file] arguments")
				}
				_, _ = stdout.Write([]byte("extracted metadata"))
				return nil
			},
			wantOut: "extracted metadata",
		},
		{
			name:     "script failure returns wrapped error",
			mkRunner: func(e *mockExecutor) Runner { return newPython3Runner(e) },
			capFunc: func(string, []string, io.Writer) error {
				return errors.New("exit status 1")
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{runCapturedFunc: tt.capFunc}
			r := tt.mkRunner(exec)
			var out bytes.Buffer
			err := r.Run("proc_jmlr.py", "paper.pdf", &out)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.String(); got != tt.wantOut {
				t.Errorf("got output %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestRunnerName(t *testing.T) {
	exec := &mockExecutor{}
	if got := newPython3Runner(exec).Name(); got != "python3" {
		t.Errorf("python3 runner name = %q", got)
	}
	if got := newPythonRunner(exec).Name(); got != "python" {
		t.Errorf("python runner name = %q", got)
	}
}
