package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmlinfra/jmlr-pipeline/internal/fetch"
	"github.com/fmlinfra/jmlr-pipeline/internal/scrape"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const defaultDelay = 1 * time.Second

var fetchCmd = &cobra.Command{
	Use:   "fetch [manifest-files...]",
	Short: "Download the PDFs listed in volume manifests",
	Long: `Fetch downloads every PDF listed in the given volume manifests into
papers-dir/v<NN>/main_track/ and papers-dir/v<NN>/software_track/.
Existing files are kept, oversized files are skipped, and individual
download failures do not stop the run.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().String("papers-dir", "papers", "base directory for downloaded PDFs")
	fetchCmd.Flags().Int("max-size-mb", 0, "skip PDFs larger than this many MB (default 100)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more manifest files")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}
	papersDir, _ := cmd.Flags().GetString("papers-dir")
	maxSizeMB, _ := cmd.Flags().GetInt("max-size-mb")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		DownloadDelay: delay,
		PapersDir:     papersDir,
		MaxFileSizeMB: maxSizeMB,
	}
	client := &http.Client{Timeout: cfg.Timeout}

	failed := 0
	for _, path := range args {
		m, err := scrape.ReadManifest(path)
		if err != nil {
			return err
		}
		result, err := fetch.DownloadVolume(cmd.Context(), client, m, cfg, os.Stdout)
		if err != nil {
			return err
		}
		failed += result.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d PDF(s) failed to download", failed)
	}
	return nil
}
