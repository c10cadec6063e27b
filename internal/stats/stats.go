// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes aggregate statistics over extracted paper
// metadata and volume manifests.
package stats

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fmlinfra/jmlr-pipeline/internal/scrape"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

// ReviewMonths returns the whole months elapsed between two "yyyy.mm"
// dates, typically submission and publication.
func ReviewMonths(from, to string) (int, error) {
	fy, fm, err := parseMonthYear(from)
	if err != nil {
		return 0, err
	}
	ty, tm, err := parseMonthYear(to)
	if err != nil {
		return 0, err
	}
	months := (ty-fy)*12 + (tm - fm)
	if months < 0 {
		return 0, fmt.Errorf("negative interval from %s to %s", from, to)
	}
	return months, nil
}

func parseMonthYear(s string) (year, month int, err error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed date %q, want yyyy.mm", s)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed year in %q", s)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed month in %q", s)
	}
	return year, month, nil
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// Median returns the median, averaging the two middle values for even
// lengths, or 0 for an empty slice.
func Median(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// EditorSummary aggregates the papers handled by one editor.
type EditorSummary struct {
	Editor             string  `yaml:"editor"`
	Papers             int     `yaml:"papers"`
	MeanReviewMonths   float64 `yaml:"mean_review_months"`
	MedianReviewMonths float64 `yaml:"median_review_months"`
}

// ByEditor groups papers by handling editor and computes per-editor review
// times from the submitted/published dates. Papers without an editor or
// with unparseable dates contribute to the count but not the averages.
// Results are ordered by paper count descending, then editor name.
func ByEditor(papers []types.Paper) []EditorSummary {
	counts := make(map[string]int)
	months := make(map[string][]int)
	for _, p := range papers {
		if p.Editor == "" {
			continue
		}
		counts[p.Editor]++
		if p.Submitted == "" || p.Published == "" {
			continue
		}
		if m, err := ReviewMonths(p.Submitted, p.Published); err == nil {
			months[p.Editor] = append(months[p.Editor], m)
		}
	}

	out := make([]EditorSummary, 0, len(counts))
	for editor, n := range counts {
		out = append(out, EditorSummary{
			Editor:             editor,
			Papers:             n,
			MeanReviewMonths:   Mean(months[editor]),
			MedianReviewMonths: Median(months[editor]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Papers != out[j].Papers {
			return out[i].Papers > out[j].Papers
		}
		return out[i].Editor < out[j].Editor
	})
	return out
}

// KeywordCount is one keyword with its occurrence count.
type KeywordCount struct {
	Keyword string `yaml:"keyword"`
	Count   int    `yaml:"count"`
}

// KeywordCounts tallies keyword occurrences across papers.
func KeywordCounts(papers []types.Paper) map[string]int {
	counts := make(map[string]int)
	for _, p := range papers {
		for _, kw := range p.Keywords {
			counts[kw]++
		}
	}
	return counts
}

// TopKeywords returns the n most frequent keywords, ordered by count
// descending then keyword. Non-positive n returns all.
func TopKeywords(counts map[string]int, n int) []KeywordCount {
	out := make([]KeywordCount, 0, len(counts))
	for kw, c := range counts {
		out = append(out, KeywordCount{Keyword: kw, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CountPDFs returns the number of *.pdf files directly under dir.
func CountPDFs(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return 0, fmt.Errorf("globbing %s: %w", dir, err)
	}
	return len(matches), nil
}

// TrackCounts tallies manifest entries across all jmlr_v*.yaml manifests
// in dir.
type TrackCounts struct {
	Volumes  int
	Total    int
	Main     int
	Software int
}

// ManifestCounts reads every volume manifest in dir and sums the per-track
// paper counts.
func ManifestCounts(dir string) (TrackCounts, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "jmlr_v*.yaml"))
	if err != nil {
		return TrackCounts{}, fmt.Errorf("globbing %s: %w", dir, err)
	}

	var tc TrackCounts
	for _, path := range matches {
		m, err := scrape.ReadManifest(path)
		if err != nil {
			return TrackCounts{}, err
		}
		tc.Volumes++
		tc.Total += len(m.Papers)
		tc.Main += len(m.MainTrack())
		tc.Software += len(m.MLOSSTrack())
	}
	return tc, nil
}
