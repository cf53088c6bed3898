package colour

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// splitImage returns a w x h opaque image, left half red and right half blue.
func splitImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.NRGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// gradientImage returns a photo-like image with smoothly varying colour.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + 180*x/w),
				G: uint8(30 + 150*y/h),
				B: uint8(200 - 120*x/w),
				A: 255,
			})
		}
	}
	return img
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.ColorCount != 16 || opts.PrefersDark != nil {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if math.Abs(opts.ContrastRatio-3.0) > 0.001 || math.Abs(opts.BackgroundIntensity-0.6) > 0.001 {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr string
	}{
		{"zero count", func(o *Options) { o.ColorCount = 0 }, "colour count"},
		{"huge count", func(o *Options) { o.ColorCount = 300 }, "colour count"},
		{"low contrast", func(o *Options) { o.ContrastRatio = 1.0 }, "contrast ratio"},
		{"high contrast", func(o *Options) { o.ContrastRatio = 5.0 }, "contrast ratio"},
		{"low intensity", func(o *Options) { o.BackgroundIntensity = 0.1 }, "background intensity"},
		{"high intensity", func(o *Options) { o.BackgroundIntensity = 1.0 }, "background intensity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := opts.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExtractTinySplitImage(t *testing.T) {
	// A 4x4 image is sampled at a single pixel with a stride of 4.
	opts := DefaultOptions()
	opts.ColorCount = 3

	s, err := NewExtractor(WithSeed(1)).ExtractImage(splitImage(4, 4), "split.png", opts)
	if err != nil {
		t.Fatalf("ExtractImage() error: %v", err)
	}
	if !s.IsDark {
		t.Error("red-only centroids should give a dark scheme")
	}
	red := NewRGB(1, 0, 0)
	if want := red.Darkened(opts.BackgroundIntensity); s.Colors[0] != want {
		t.Errorf("colors[0] = %v, want %v", s.Colors[0], want)
	}
	if s.Wallpaper != "split.png" {
		t.Errorf("Wallpaper = %q", s.Wallpaper)
	}
}

func TestExtractRedBlue(t *testing.T) {
	img := splitImage(40, 40)
	opts := DefaultOptions()
	opts.ColorCount = 3

	samples, _, err := DefaultSampler().Sample(NewImageBitmap(img))
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	centroids := KMeans(samples, opts.ColorCount, newTestRand(11))
	if len(centroids) != 3 {
		t.Fatalf("got %d centroids, want 3", len(centroids))
	}
	red, blue := NewRGB(1, 0, 0), NewRGB(0, 0, 1)
	var sawRed, sawBlue bool
	for _, c := range centroids {
		sawRed = sawRed || c.DistanceSquared(red) < 0.01
		sawBlue = sawBlue || c.DistanceSquared(blue) < 0.01
	}
	if !sawRed || !sawBlue {
		t.Errorf("centroids %v missing red or blue", centroids)
	}

	s, err := NewExtractor(WithSeed(11)).ExtractImage(img, "split.png", opts)
	if err != nil {
		t.Fatalf("ExtractImage() error: %v", err)
	}
	// Mean luminance is at most (0.299 + 0.299 + 0.114) / 3.
	if !s.IsDark {
		t.Error("expected dark scheme")
	}
	// Blue is the darkest centroid.
	if want := blue.Darkened(opts.BackgroundIntensity); s.Colors[0].DistanceSquared(want) > 1e-9 {
		t.Errorf("colors[0] = %v, want %v", s.Colors[0], want)
	}
	if s.Cursor.DistanceSquared(blue) > 1e-9 {
		t.Errorf("cursor = %v, want darkest saturated centroid %v", s.Cursor, blue)
	}
	if len(s.Colors) != SchemeSize {
		t.Errorf("got %d colours, want %d", len(s.Colors), SchemeSize)
	}
}

func TestExtractDeterministicWithSeed(t *testing.T) {
	img := gradientImage(320, 240)
	a, err := NewExtractor(WithSeed(42)).ExtractImage(img, "g", DefaultOptions())
	if err != nil {
		t.Fatalf("ExtractImage() error: %v", err)
	}
	b, err := NewExtractor(WithSeed(42)).ExtractImage(img, "g", DefaultOptions())
	if err != nil {
		t.Fatalf("ExtractImage() error: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different schemes:\n%s", diff)
	}
}

func TestExtractErrors(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(solidBitmap{}, "empty", DefaultOptions())
	var inputErr *InputError
	if !errors.As(err, &inputErr) || !errors.Is(err, ErrNoValidPixels) {
		t.Errorf("Extract(empty) error = %v, want InputError wrapping ErrNoValidPixels", err)
	}

	if _, err := e.ExtractImage(nil, "nil", DefaultOptions()); !errors.As(err, &inputErr) {
		t.Errorf("ExtractImage(nil) error = %v, want InputError", err)
	}

	bad := DefaultOptions()
	bad.ColorCount = 0
	if _, err := e.ExtractImage(gradientImage(10, 10), "bad", bad); err == nil {
		t.Error("expected error for invalid options")
	}
}

func TestExtractConcurrent(t *testing.T) {
	e := NewExtractor()
	img := gradientImage(200, 150)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := e.ExtractImage(img, "concurrent", DefaultOptions())
			if err == nil && len(s.Colors) != SchemeSize {
				err = errors.New("incomplete scheme")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent extract: %v", err)
		}
	}
}
