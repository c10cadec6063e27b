// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmlinfra/jmlr-pipeline/internal/jmlr"
	"github.com/fmlinfra/jmlr-pipeline/internal/store"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

func writePDFs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0o644))
	}
}

func TestDir(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	inputDir := t.TempDir()
	writePDFs(t, inputDir, "good-paper.pdf", "rejected-paper.pdf", "broken.pdf")

	parser := ParserFunc(func(path string) (*types.Paper, error) {
		switch filepath.Base(path) {
		case "good-paper.pdf":
			return &types.Paper{
				ID: "good-paper", Title: "Good Paper", Year: 2019,
				Authors: []types.Author{{Name: "A"}},
			}, nil
		case "rejected-paper.pdf":
			return nil, &jmlr.ParseError{Title: "rejected-paper", Reason: jmlr.ReasonNoEditor}
		default:
			return nil, errors.New("truncated file")
		}
	})

	cfg := types.ExtractConfig{
		InputDir: inputDir,
		Volume:   21,
		Year:     2020,
		Track:    "main_track",
	}

	var status strings.Builder
	result, err := Dir(context.Background(), parser, s, cfg, &status)
	require.NoError(t, err)
	assert.Equal(t, Result{Indexed: 1, Rejected: 1, Failed: 1}, result)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	assert.Contains(t, status.String(), "Extract summary: 1 indexed, 1 rejected, 1 failed")

	// Config overrides annotate the stored record.
	papers, err := s.Papers(context.Background(), 2020)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "good-paper", papers[0].ID)
	assert.Equal(t, 21, papers[0].Volume)
	assert.Equal(t, "main_track", papers[0].Track)

	failures, err := s.Failures(context.Background())
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, store.Failure{Title: "rejected-paper", Reason: jmlr.ReasonNoEditor}, failures[0])
}

func TestDirEmpty(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	var status strings.Builder
	result, err := Dir(context.Background(), ParserFunc(func(string) (*types.Paper, error) {
		t.Fatal("parser should not run")
		return nil, nil
	}), s, types.ExtractConfig{InputDir: t.TempDir()}, &status)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}
