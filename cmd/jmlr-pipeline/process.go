package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmlinfra/jmlr-pipeline/internal/batch"
	"github.com/fmlinfra/jmlr-pipeline/internal/command"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the metadata processor over a directory of PDFs",
	Long: `Process feeds every *.pdf directly under input-dir through the
extraction backend and concatenates the per-file output into a single
artifact, one banner line per file. The artifact is truncated at the
start of each run.

A file that fails to process is reported and skipped; the run still
succeeds. The only fatal condition is an input directory with no PDFs.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("input-dir", ".", "directory scanned (non-recursively) for *.pdf files")
	processCmd.Flags().String("output", "combined_output.txt", "combined output artifact")
	processCmd.Flags().String("backend", "script", "processing backend: script or native")
	processCmd.Flags().String("script", "proc_jmlr.py", "extraction script run per PDF (script backend)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input-dir")
	output, _ := cmd.Flags().GetString("output")
	backend, _ := cmd.Flags().GetString("backend")
	script, _ := cmd.Flags().GetString("script")

	cfg := types.ProcessConfig{
		InputDir:   inputDir,
		OutputPath: output,
		Backend:    types.ProcessBackend(backend),
		ScriptPath: script,
	}

	processor, err := buildProcessor(cfg)
	if err != nil {
		return err
	}

	// Per-file failures are reported by Run and do not fail the command.
	_, err = batch.Run(processor, cfg.InputDir, cfg.OutputPath, os.Stdout)
	return err
}

func buildProcessor(cfg types.ProcessConfig) (batch.Processor, error) {
	switch cfg.Backend {
	case types.BackendScript:
		runner, err := command.DetectInterpreter()
		if err != nil {
			return nil, err
		}
		return batch.NewScriptProcessor(runner, cfg.ScriptPath)
	case types.BackendNative:
		return batch.NativeProcessor{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want script or native)", cfg.Backend)
	}
}
