// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the PDFs listed in a volume manifest.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fmlinfra/jmlr-pipeline/internal/httputil"
	"github.com/fmlinfra/jmlr-pipeline/internal/jmlr"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

const (
	defaultMaxFileSizeMB = 100
	defaultDownloadDelay = time.Second

	// MainTrackDir and SoftwareTrackDir separate regular papers from
	// Machine Learning Open Source Software entries.
	MainTrackDir     = "main_track"
	SoftwareTrackDir = "software_track"
)

// Result summarizes a manifest download run.
type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the number of entries considered.
func (r Result) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any entry failed to download.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// DownloadVolume fetches every PDF in the manifest into
// PapersDir/v<NN>/<track>/. Existing non-empty files are skipped, as are
// files whose advertised size exceeds the configured limit. Individual
// failures are reported on w and do not stop the run.
func DownloadVolume(ctx context.Context, client *http.Client, m *types.VolumeManifest, cfg types.FetchConfig, w io.Writer) (Result, error) {
	maxBytes := int64(cfg.MaxFileSizeMB)
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileSizeMB
	}
	maxBytes *= 1 << 20

	delay := cfg.DownloadDelay
	if delay <= 0 {
		delay = defaultDownloadDelay
	}

	var result Result
	for i, entry := range m.Papers {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		track := MainTrackDir
		if entry.IsMLOSS {
			track = SoftwareTrackDir
		}
		dir := filepath.Join(cfg.PapersDir, fmt.Sprintf("v%d", m.Volume), track)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, fmt.Errorf("creating %s: %w", dir, err)
		}
		dest := filepath.Join(dir, jmlr.Slug(entry.Title)+".pdf")

		if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
			result.Skipped++
			fmt.Fprintf(w, "skipped:    %s (exists)\n", dest)
			continue
		}
		if entry.URLPDF == "" {
			result.Failed++
			fmt.Fprintf(w, "failed:     %s (no PDF link)\n", entry.Title)
			continue
		}

		// Space out requests after the first network access.
		if i > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}

		size, err := contentLength(ctx, client, entry.URLPDF, cfg.UserAgent)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:     %s (%v)\n", entry.Title, err)
			continue
		}
		if size == 0 {
			result.Failed++
			fmt.Fprintf(w, "failed:     %s (zero-length PDF)\n", entry.Title)
			continue
		}
		if size > maxBytes {
			result.Skipped++
			fmt.Fprintf(w, "skipped:    %s (%d MB exceeds limit)\n", entry.Title, size>>20)
			continue
		}

		n, err := downloadFile(ctx, client, entry.URLPDF, cfg.UserAgent, dest)
		if err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:     %s (%v)\n", entry.Title, err)
			continue
		}
		result.Downloaded++
		fmt.Fprintf(w, "downloaded: %s (%d KB)\n", dest, n>>10)
	}

	fmt.Fprintf(w, "Download summary: %d downloaded, %d skipped, %d failed\n",
		result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}

// contentLength issues a HEAD request and returns the advertised size. A
// missing Content-Length header reports -1.
func contentLength(ctx context.Context, client *http.Client, url, userAgent string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HEAD returned HTTP %d", resp.StatusCode)
	}
	return resp.ContentLength, nil
}

// downloadFile streams the PDF to a temp file in the destination directory
// and renames it into place, so a partial download never looks complete.
func downloadFile(ctx context.Context, client *http.Client, url, userAgent, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("GET returned HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*.tmp")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()

	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, copyErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, closeErr
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	return n, nil
}
