// Package imagecache downloads remote wallpapers into a local cache.
package imagecache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	httputil "github.com/jmylchreest/wallhue/internal/util/http"
)

// CacheOptions configures where and how a remote image is cached.
type CacheOptions struct {
	// CacheDir holds cached images. Empty means DefaultCacheDir.
	CacheDir string

	// Filename overrides the name derived from the URL.
	Filename string

	// AllowOverwrite re-downloads even when a cached copy exists.
	AllowOverwrite bool

	// Timeout for the download. Zero uses the fetcher default.
	Timeout time.Duration
}

// DefaultCacheDir returns $XDG_CACHE_HOME/wallhue/wallpapers or its
// platform equivalent.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "wallhue", "wallpapers"), nil
	}
	return filepath.Join(cacheDir, "wallhue", "wallpapers"), nil
}

// generateFilename derives a stable name from the URL hash and its
// extension, defaulting to .jpg.
func generateFilename(url string) string {
	hash := sha256.Sum256([]byte(url))
	hashStr := fmt.Sprintf("%x", hash[:16])

	path := url
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || len(ext) > 5 || strings.Contains(ext, "/") {
		ext = ".jpg"
	}

	return hashStr + ext
}

// CachedPath returns where url would be stored under opts without touching
// the network.
func CachedPath(url string, opts CacheOptions) (string, error) {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		defaultDir, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		cacheDir = defaultDir
	}
	filename := opts.Filename
	if filename == "" {
		filename = generateFilename(url)
	}
	return filepath.Join(cacheDir, filename), nil
}

// DownloadAndCache fetches url into the cache and returns the local path.
// An existing cached copy is reused unless AllowOverwrite is set. The body
// must decode as a registered image format.
func DownloadAndCache(ctx context.Context, url string, opts CacheOptions) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	cachedPath, err := CachedPath(url, opts)
	if err != nil {
		return "", err
	}

	if !opts.AllowOverwrite {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(cachedPath), 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{
		Timeout: opts.Timeout,
		Headers: map[string]string{"Accept": "image/*"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("downloaded content is not a supported image: %w", err)
	}

	// Write then rename so a partial download never looks cached.
	tmp, err := os.CreateTemp(filepath.Dir(cachedPath), ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { // #nosec G302 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to set cache file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), cachedPath); err != nil {
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}

	return cachedPath, nil
}
