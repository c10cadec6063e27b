// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape harvests JMLR volume index pages into volume manifests.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/fmlinfra/jmlr-pipeline/internal/httputil"
	"github.com/fmlinfra/jmlr-pipeline/pkg/types"
)

var volumeURLRe = regexp.MustCompile(`v(\d+)/?$`)

// VolumeFromURL extracts the volume number from a URL like
// https://jmlr.org/papers/v26/.
func VolumeFromURL(url string) (int, error) {
	m := volumeURLRe.FindStringSubmatch(url)
	if m == nil {
		return 0, fmt.Errorf("cannot extract volume number from URL %q", url)
	}
	var v int
	fmt.Sscanf(m[1], "%d", &v)
	return v, nil
}

// FetchVolumeHTML downloads the volume index page to
// cacheDir/jmlr_v<NN>.html and returns the local path. A non-empty cached
// copy is reused without a network request.
func FetchVolumeHTML(ctx context.Context, client *http.Client, url string, cfg types.ScrapeConfig) (string, error) {
	volume, err := VolumeFromURL(url)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	localPath := filepath.Join(cfg.CacheDir, fmt.Sprintf("jmlr_v%d.html", volume))

	if info, err := os.Stat(localPath); err == nil && info.Size() > 0 {
		return localPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmp, err := os.CreateTemp(cfg.CacheDir, ".scrape-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing cache file: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing cache file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming cache file: %w", err)
	}
	return localPath, nil
}

// ScrapeVolume fetches and parses one volume index page, writing the
// manifest to cfg.ManifestDir/jmlr_v<NN>.yaml. It returns the parsed
// manifest.
func ScrapeVolume(ctx context.Context, client *http.Client, url string, cfg types.ScrapeConfig, w io.Writer) (*types.VolumeManifest, error) {
	htmlPath, err := FetchVolumeHTML(ctx, client, url, cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("opening cached page %s: %w", htmlPath, err)
	}
	defer f.Close()

	manifest, err := ParseVolume(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", htmlPath, err)
	}
	manifest.SourceURL = url
	manifest.ScrapedAt = time.Now().UTC()

	if err := WriteManifest(manifest, cfg.ManifestDir); err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "scraped: v%d (%d papers, %d MLOSS)\n",
		manifest.Volume, len(manifest.Papers), len(manifest.MLOSSTrack()))
	return manifest, nil
}

// WriteManifest saves a volume manifest as YAML under dir.
func WriteManifest(m *types.VolumeManifest, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("jmlr_v%d.yaml", m.Volume))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a volume manifest from a YAML file.
func ReadManifest(path string) (*types.VolumeManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m types.VolumeManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
