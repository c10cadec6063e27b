// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmlinfra/jmlr-pipeline/internal/store"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

// cannedBackend replies based on which system prompt it receives.
type cannedBackend struct {
	institutionReply string
	regionReply      string
	err              error
}

func (c *cannedBackend) Complete(ctx context.Context, system, user string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	if strings.Contains(system, "canonicalize") {
		return c.institutionReply, nil
	}
	return c.regionReply, nil
}

func TestInstitution(t *testing.T) {
	b := &cannedBackend{institutionReply: "institution: Massachusetts Institute of Technology"}
	got, err := Institution(context.Background(), b, []string{"Department of EECS", "MIT, Cambridge, MA"})
	require.NoError(t, err)
	assert.Equal(t, "Massachusetts Institute of Technology", got)
}

func TestInstitutionUnknown(t *testing.T) {
	b := &cannedBackend{institutionReply: "institution: Unknown"}
	_, err := Institution(context.Background(), b, []string{"somewhere"})
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestInstitutionMalformed(t *testing.T) {
	b := &cannedBackend{institutionReply: "I could not parse that."}
	_, err := Institution(context.Background(), b, []string{"somewhere"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknown)
}

func TestRegion(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantName string
		wantCode string
		wantErr  bool
	}{
		{name: "single word country", reply: "region: Switzerland CH", wantName: "Switzerland", wantCode: "CH"},
		{name: "multi word country", reply: "region: United States US", wantName: "United States", wantCode: "US"},
		{name: "unknown", reply: "region: Unknown", wantErr: true},
		{name: "missing code", reply: "region: Switzerland", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &cannedBackend{regionReply: tt.reply}
			name, code, err := Region(context.Background(), b, "ETH Zurich")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestPapers(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	pending := &types.Paper{
		ID: "pending", Title: "Pending", Year: 2020,
		Authors: []types.Author{{Name: "A", Affiliation: []string{"ETH Zurich, Switzerland"}}},
	}
	done := &types.Paper{
		ID: "done", Title: "Done", Year: 2020,
		Authors:     []types.Author{{Name: "B", Affiliation: []string{"MIT"}}},
		Institution: "Massachusetts Institute of Technology", Region: "US",
	}
	bare := &types.Paper{ID: "bare", Title: "Bare", Year: 2020}
	for _, p := range []*types.Paper{pending, done, bare} {
		require.NoError(t, s.UpsertPaper(ctx, p))
	}

	b := &cannedBackend{
		institutionReply: "institution: ETH Zurich",
		regionReply:      "region: Switzerland CH",
	}

	var status strings.Builder
	result, err := Papers(ctx, b, s, &status)
	require.NoError(t, err)
	assert.Equal(t, Result{Normalized: 1, Skipped: 2, Failed: 0}, result)
	assert.Contains(t, status.String(), "normalized: pending (ETH Zurich, CH)")
	assert.Contains(t, status.String(), "Normalize summary: 1 normalized, 2 skipped, 0 failed")

	papers, err := s.Papers(ctx, 0)
	require.NoError(t, err)
	for _, p := range papers {
		if p.ID == "pending" {
			assert.Equal(t, "ETH Zurich", p.Institution)
			assert.Equal(t, "CH", p.Region)
		}
	}
}

func TestPapersBackendFailure(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	p := &types.Paper{
		ID: "p1", Title: "P1", Year: 2020,
		Authors: []types.Author{{Name: "A", Affiliation: []string{"Somewhere"}}},
	}
	require.NoError(t, s.UpsertPaper(ctx, p))

	b := &cannedBackend{err: errors.New("backend down")}
	var status strings.Builder
	result, err := Papers(ctx, b, s, &status)
	require.NoError(t, err)
	assert.Equal(t, Result{Failed: 1}, result)
	assert.True(t, result.HasFailures())
	assert.Contains(t, status.String(), "backend down")
}

func TestChatBackendComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "qwen-plus", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "institution: ETH Zurich"}},
			},
		})
	}))
	defer srv.Close()

	b := &ChatBackend{
		Config: types.AIConfig{BaseURL: srv.URL, APIKey: "test-key"},
		Client: srv.Client(),
	}
	reply, err := b.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "institution: ETH Zurich", reply)
}

func TestChatBackendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	b := &ChatBackend{
		Config: types.AIConfig{BaseURL: srv.URL, APIKey: "wrong"},
		Client: srv.Client(),
	}
	_, err := b.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
