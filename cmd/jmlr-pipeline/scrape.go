package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmlinfra/jmlr-pipeline/internal/scrape"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "jmlr-pipeline/0.1"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [volume-urls...]",
	Short: "Scrape JMLR volume index pages into manifests",
	Long: `Scrape downloads each volume index page (e.g.
https://jmlr.org/papers/v21/), caches the HTML, and parses the paper
listing into a YAML manifest: title, authors, citation line, track, and
the abs/pdf/bib links. Downstream stages read the manifest instead of
re-fetching the page.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	scrapeCmd.Flags().String("cache-dir", "cache", "directory for cached volume HTML pages")
	scrapeCmd.Flags().String("manifest-dir", "manifests", "directory for volume manifests")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more volume index URLs")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	manifestDir, _ := cmd.Flags().GetString("manifest-dir")

	cfg := types.ScrapeConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		CacheDir:    cacheDir,
		ManifestDir: manifestDir,
	}
	client := &http.Client{Timeout: cfg.Timeout}

	for _, url := range args {
		if _, err := scrape.ScrapeVolume(cmd.Context(), client, url, cfg, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}
