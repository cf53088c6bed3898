// Package image loads wallpapers from local files, directories and URLs.
package image

import (
	"context"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/wallhue/internal/util/imagecache"
)

// Wallpaper is a decoded image together with the local path it was read
// from. For remote images Path is the cached copy.
type Wallpaper struct {
	Image  image.Image
	Path   string
	Format string
}

// Loader loads wallpapers.
type Loader interface {
	Load(ctx context.Context, path string) (*Wallpaper, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes the image at path.
func (l *FileLoader) Load(_ context.Context, path string) (*Wallpaper, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Wallpaper{Image: img, Path: path, Format: format}, nil
}

// SmartLoader loads local files, picks a random image from directories and
// downloads remote URLs into the image cache.
type SmartLoader struct {
	fileLoader *FileLoader
	cache      imagecache.CacheOptions
	logger     hclog.Logger
}

// NewSmartLoader creates a SmartLoader. cache controls where remote images
// are stored; the zero value uses the default cache directory.
func NewSmartLoader(cache imagecache.CacheOptions, logger hclog.Logger) *SmartLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SmartLoader{
		fileLoader: NewFileLoader(),
		cache:      cache,
		logger:     logger,
	}
}

// Load resolves path and decodes the selected image.
func (l *SmartLoader) Load(ctx context.Context, path string) (*Wallpaper, error) {
	if isURL(path) {
		l.logger.Debug("downloading wallpaper", "url", path)
		cached, err := imagecache.DownloadAndCache(ctx, path, l.cache)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		path = cached
	}

	resolved, err := ResolveImagePath(path)
	if err != nil {
		return nil, err
	}
	if resolved != path {
		l.logger.Debug("selected wallpaper from directory", "dir", path, "image", resolved)
	}

	wp, err := l.fileLoader.Load(ctx, resolved)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded wallpaper", "path", wp.Path, "format", wp.Format,
		"width", wp.Image.Bounds().Dx(), "height", wp.Image.Bounds().Dy())
	return wp, nil
}

// ValidateImagePath checks that path is a URL, a directory, or a decodable
// image file. URLs are only checked for their scheme.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if isURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// SupportedImageExtensions returns the file extensions picked up when
// scanning directories.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

func isImageFile(path string) bool {
	return slices.Contains(SupportedImageExtensions(), strings.ToLower(filepath.Ext(path)))
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ScanDirectoryForImages returns the image files directly inside dirPath,
// following symlinks but not recursing.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Stat follows symlinks; broken links are skipped.
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}
	return imageFiles, nil
}

// SelectRandomImage picks one path uniformly at random.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(imagePaths))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return imagePaths[idx.Int64()], nil
}

// ResolveImagePath returns path unchanged for files and URLs, and a random
// image from the directory otherwise.
func ResolveImagePath(path string) (string, error) {
	if isURL(path) {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return "", err
	}
	return SelectRandomImage(imageFiles)
}
