package image

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/jmylchreest/wallhue/internal/util/imagecache"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := range 6 {
		for x := range 8 {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestFileLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.png")
	writePNG(t, path, color.NRGBA{R: 255, A: 255})

	wp, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if wp.Format != "png" || wp.Path != path {
		t.Errorf("Load() = format %q path %q", wp.Format, wp.Path)
	}
	if b := wp.Image.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("bounds = %v", b)
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty", "", "cannot be empty"},
		{"missing", filepath.Join(dir, "nope.png"), "not found"},
		{"directory", dir, "is a directory"},
		{"undecodable", garbage, "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileLoader().Load(context.Background(), tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestScanDirectoryForImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "b.PNG"), color.NRGBA{G: 255, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ScanDirectoryForImages(dir)
	if err != nil {
		t.Fatalf("ScanDirectoryForImages() error: %v", err)
	}
	slices.Sort(got)
	want := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.PNG")}
	if !slices.Equal(got, want) {
		t.Errorf("ScanDirectoryForImages() = %v, want %v", got, want)
	}

	if _, err := ScanDirectoryForImages(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestResolveImagePath(t *testing.T) {
	dir := t.TempDir()
	only := filepath.Join(dir, "only.png")
	writePNG(t, only, color.NRGBA{B: 255, A: 255})

	for _, path := range []string{only, dir} {
		got, err := ResolveImagePath(path)
		if err != nil {
			t.Fatalf("ResolveImagePath(%q) error: %v", path, err)
		}
		if got != only {
			t.Errorf("ResolveImagePath(%q) = %q, want %q", path, got, only)
		}
	}

	if got, _ := ResolveImagePath("https://example.com/a.png"); got != "https://example.com/a.png" {
		t.Errorf("URL not passed through: %q", got)
	}
}

func TestSelectRandomImage(t *testing.T) {
	if _, err := SelectRandomImage(nil); err == nil {
		t.Error("expected error for empty list")
	}
	paths := []string{"a", "b", "c"}
	for range 20 {
		got, err := SelectRandomImage(paths)
		if err != nil || !slices.Contains(paths, got) {
			t.Fatalf("SelectRandomImage() = %q, %v", got, err)
		}
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, color.NRGBA{A: 255})
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"image", good, false},
		{"directory", dir, false},
		{"url", "https://example.com/wall.jpg", false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "missing.png"), true},
		{"invalid", bad, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestSmartLoaderURL(t *testing.T) {
	src := filepath.Join(t.TempDir(), "remote.png")
	writePNG(t, src, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	body, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	loader := NewSmartLoader(imagecache.CacheOptions{CacheDir: cacheDir}, nil)
	wp, err := loader.Load(context.Background(), srv.URL+"/remote.png")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if filepath.Dir(wp.Path) != cacheDir {
		t.Errorf("wallpaper path %q not inside cache %q", wp.Path, cacheDir)
	}
	if wp.Format != "png" {
		t.Errorf("format = %q", wp.Format)
	}
}

func TestSmartLoaderDirectory(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "one.png"), color.NRGBA{R: 255, A: 255})

	wp, err := NewSmartLoader(imagecache.CacheOptions{}, nil).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if filepath.Base(wp.Path) != "one.png" {
		t.Errorf("Path = %q", wp.Path)
	}
}
