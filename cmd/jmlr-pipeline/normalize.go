package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmlinfra/jmlr-pipeline/internal/normalize"
	"github.com/fmlinfra/jmlr-pipeline/internal/store"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize author affiliations with an LLM",
	Long: `Normalize sends each paper's first-author affiliation to an
OpenAI-compatible chat API and stores the canonical institution name and
its ISO 3166-1 alpha-2 country code back in the index. Papers already
normalized are skipped, so the command can resume an interrupted run.

The API key is read from --api-key or .secrets/dashscope-api-key.`,
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().String("index-dir", "index", "directory for the metadata database")
	normalizeCmd.Flags().String("base-url", "", "OpenAI-compatible API root (default DashScope)")
	normalizeCmd.Flags().String("model", "", "model identifier (default qwen-plus)")
	normalizeCmd.Flags().String("api-key", "", "API key (default: .secrets/dashscope-api-key)")
	normalizeCmd.Flags().Int("max-retries", 0, "retry attempts for rate-limited API calls (default 5)")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	baseURL, _ := cmd.Flags().GetString("base-url")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	cfg := types.NormalizeConfig{
		AIConfig: types.AIConfig{
			BaseURL:    baseURL,
			Model:      model,
			APIKey:     secretDefault("dashscope-api-key", apiKey),
			MaxRetries: maxRetries,
		},
		IndexDir: indexDir,
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key: pass --api-key or create .secrets/dashscope-api-key")
	}

	s, err := store.Open(cfg.IndexDir)
	if err != nil {
		return err
	}
	defer s.Close()

	backend := &normalize.ChatBackend{
		Config: cfg.AIConfig,
		Client: http.DefaultClient,
	}

	result, err := normalize.Papers(cmd.Context(), backend, s, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed normalization", result.Failed)
	}
	return nil
}
