// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePaper() *types.Paper {
	return &types.Paper{
		ID:        "optimal-transport-for-structured-data",
		Title:     "Optimal Transport for Structured Data",
		Volume:    21,
		Year:      2020,
		Track:     "main_track",
		NumPages:  37,
		Submitted: "2018.09",
		Revised:   "2019.12",
		Published: "2020.09",
		Editor:    "Carol White",
		Keywords:  []string{"optimal transport", "sinkhorn"},
		Authors: []types.Author{
			{Name: "Alice Smith", Affiliation: []string{"MIT"}},
			{Name: "Bob Jones", Affiliation: []string{"Stanford University"}},
		},
		PDFPath: "/papers/v21/main_track/optimal-transport.pdf",
	}
}

func TestUpsertAndQueryPaper(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := samplePaper()
	require.NoError(t, s.UpsertPaper(ctx, p))

	papers, err := s.Papers(ctx, 2020)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, *p, papers[0])

	// Upsert with the same ID replaces the record.
	p.Editor = "New Editor"
	require.NoError(t, s.UpsertPaper(ctx, p))
	papers, err = s.Papers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "New Editor", papers[0].Editor)
}

func TestUpsertPaperNoID(t *testing.T) {
	s := openTestStore(t)
	err := s.UpsertPaper(context.Background(), &types.Paper{Title: "No ID"})
	assert.Error(t, err)
}

func TestPapersYearFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := samplePaper()
	require.NoError(t, s.UpsertPaper(ctx, p))
	other := samplePaper()
	other.ID = "kernel-methods-revisited"
	other.Year = 2022
	require.NoError(t, s.UpsertPaper(ctx, other))

	papers, err := s.Papers(ctx, 2022)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "kernel-methods-revisited", papers[0].ID)

	papers, err = s.Papers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, papers, 2)
}

func TestSetNormalization(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := samplePaper()
	require.NoError(t, s.UpsertPaper(ctx, p))
	require.NoError(t, s.SetNormalization(ctx, p.ID, "Massachusetts Institute of Technology", "US"))

	papers, err := s.Papers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Massachusetts Institute of Technology", papers[0].Institution)
	assert.Equal(t, "US", papers[0].Region)

	assert.Error(t, s.SetNormalization(ctx, "missing-id", "X", "YY"))
}

func TestFailures(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordFailure(ctx, "Broken Paper", "cannot find title"))
	require.NoError(t, s.RecordFailure(ctx, "Another Paper", "no editor"))
	// Second failure for the same title replaces the reason.
	require.NoError(t, s.RecordFailure(ctx, "Broken Paper", "id format"))

	failures, err := s.Failures(ctx)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, Failure{Title: "Another Paper", Reason: "no editor"}, failures[0])
	assert.Equal(t, Failure{Title: "Broken Paper", Reason: "id format"}, failures[1])
}

func TestCounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	main := samplePaper()
	require.NoError(t, s.UpsertPaper(ctx, main))

	software := samplePaper()
	software.ID = "torchkit"
	software.Track = "software_track"
	require.NoError(t, s.UpsertPaper(ctx, software))

	old := samplePaper()
	old.ID = "older-paper"
	old.Year = 2019
	require.NoError(t, s.UpsertPaper(ctx, old))

	c, err := s.Counts(ctx, 2020)
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 2, Main: 1, Software: 1}, c)

	c, err = s.Counts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, Counts{Total: 3, Main: 2, Software: 1}, c)
}

func TestExportCSV(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertPaper(ctx, samplePaper()))

	path, err := s.ExportCSV(ctx, 2020)
	require.NoError(t, err)
	assert.Contains(t, path, "jmlr_2020_metadata.csv")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])

	row := records[1]
	assert.Equal(t, "optimal-transport-for-structured-data", row[0])
	assert.Equal(t, "21", row[2])
	assert.Equal(t, "optimal transport; sinkhorn", row[10])
	assert.Equal(t, "Alice Smith; Bob Jones", row[11])
	assert.Equal(t, "MIT", row[12])
}

func TestExportYAML(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertPaper(ctx, samplePaper()))

	path, err := s.ExportYAML(ctx, 0)
	require.NoError(t, err)
	assert.Contains(t, path, "jmlr_all_metadata.yaml")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Optimal Transport for Structured Data")
	assert.Contains(t, string(data), "editor: Carol White")
}
