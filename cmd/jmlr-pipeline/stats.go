package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/fmlinfra/jmlr-pipeline/internal/stats"
	"github.com/fmlinfra/jmlr-pipeline/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report statistics over the metadata index",
	Long: `Stats reads the SQLite index and prints per-editor paper counts with
mean and median review times, the most frequent keywords, and track
totals from the volume manifests.`,
	RunE: runStats,
}

var countCmd = &cobra.Command{
	Use:   "count [pdf-dirs...]",
	Short: "Count papers in the index and PDFs on disk",
	RunE:  runCount,
}

func init() {
	statsCmd.Flags().String("index-dir", "index", "directory for the metadata database")
	statsCmd.Flags().String("manifest-dir", "manifests", "directory holding volume manifests")
	statsCmd.Flags().Int("year", 0, "restrict to one publication year (0 for all)")
	statsCmd.Flags().Int("top-keywords", 20, "number of keywords to list")

	countCmd.Flags().String("index-dir", "index", "directory for the metadata database")
	countCmd.Flags().Int("year", 0, "restrict to one publication year (0 for all)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(countCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	manifestDir, _ := cmd.Flags().GetString("manifest-dir")
	year, _ := cmd.Flags().GetInt("year")
	topN, _ := cmd.Flags().GetInt("top-keywords")

	s, err := store.Open(indexDir)
	if err != nil {
		return err
	}
	defer s.Close()

	papers, err := s.Papers(cmd.Context(), year)
	if err != nil {
		return err
	}

	report := struct {
		Editors  []stats.EditorSummary `yaml:"editors"`
		Keywords []stats.KeywordCount  `yaml:"keywords"`
	}{
		Editors:  stats.ByEditor(papers),
		Keywords: stats.TopKeywords(stats.KeywordCounts(papers), topN),
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	os.Stdout.Write(data)

	tc, err := stats.ManifestCounts(manifestDir)
	if err != nil {
		return err
	}
	if tc.Volumes > 0 {
		fmt.Printf("manifests: %d volume(s), %d papers (%d main, %d software)\n",
			tc.Volumes, tc.Total, tc.Main, tc.Software)
	}
	return nil
}

func runCount(cmd *cobra.Command, args []string) error {
	indexDir, _ := cmd.Flags().GetString("index-dir")
	year, _ := cmd.Flags().GetInt("year")

	s, err := store.Open(indexDir)
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := s.Counts(cmd.Context(), year)
	if err != nil {
		return err
	}
	if c.Total > 0 {
		fmt.Printf("indexed: %d papers (%d main %.1f%%, %d software %.1f%%)\n",
			c.Total,
			c.Main, 100*float64(c.Main)/float64(c.Total),
			c.Software, 100*float64(c.Software)/float64(c.Total))
	} else {
		fmt.Println("indexed: 0 papers")
	}

	for _, dir := range args {
		n, err := stats.CountPDFs(dir)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d PDF(s)\n", dir, n)
	}
	return nil
}
