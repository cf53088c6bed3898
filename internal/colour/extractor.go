package colour

import (
	"cmp"
	"fmt"
	"image"
	"math/rand/v2"
	"slices"

	"github.com/hashicorp/go-hclog"
)

// Option bounds.
const (
	MinColorCount              = 1
	MaxColorCount              = 256
	MinContrastRatio           = 1.5
	MaxContrastRatio           = 4.5
	MinBackgroundIntensity     = 0.3
	MaxBackgroundIntensity     = 0.9
	DefaultColorCount          = 16
	DefaultContrastRatio       = 3.0
	DefaultBackgroundIntensity = 0.6
)

// Options controls clustering and scheme synthesis.
type Options struct {
	// ColorCount is the number of clusters extracted from the image.
	ColorCount int
	// PrefersDark forces a dark (true) or light (false) scheme; nil detects
	// it from the image.
	PrefersDark *bool
	// ContrastRatio sets how aggressively accents are corrected, 1.5-4.5.
	ContrastRatio float64
	// BackgroundIntensity sets how far the background is pushed towards
	// black or white, 0.3-0.9.
	BackgroundIntensity float64
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		ColorCount:          DefaultColorCount,
		ContrastRatio:       DefaultContrastRatio,
		BackgroundIntensity: DefaultBackgroundIntensity,
	}
}

// Validate reports the first option outside its domain.
func (o Options) Validate() error {
	if o.ColorCount < MinColorCount || o.ColorCount > MaxColorCount {
		return fmt.Errorf("colour count must be between %d and %d, got %d", MinColorCount, MaxColorCount, o.ColorCount)
	}
	if o.ContrastRatio < MinContrastRatio || o.ContrastRatio > MaxContrastRatio {
		return fmt.Errorf("contrast ratio must be between %.1f and %.1f, got %g", MinContrastRatio, MaxContrastRatio, o.ContrastRatio)
	}
	if o.BackgroundIntensity < MinBackgroundIntensity || o.BackgroundIntensity > MaxBackgroundIntensity {
		return fmt.Errorf("background intensity must be between %.1f and %.1f, got %g", MinBackgroundIntensity, MaxBackgroundIntensity, o.BackgroundIntensity)
	}
	return nil
}

// InputError reports an image that cannot produce a palette.
type InputError struct {
	Op  string
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Extractor runs the sample, cluster and synthesise pipeline.
// An Extractor without a fixed random source is safe for concurrent use.
type Extractor struct {
	sampler Sampler
	logger  hclog.Logger
	rng     *rand.Rand
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for debug output.
func WithLogger(logger hclog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRand fixes the random source used for k-means++ seeding. A
// *rand.Rand is not safe for concurrent use, so neither is the Extractor.
func WithRand(rng *rand.Rand) ExtractorOption {
	return func(e *Extractor) {
		e.rng = rng
	}
}

// WithSeed is shorthand for WithRand with a PCG source.
func WithSeed(seed uint64) ExtractorOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithSampler replaces the default sampler.
func WithSampler(s Sampler) ExtractorOption {
	return func(e *Extractor) {
		e.sampler = s
	}
}

// NewExtractor creates an Extractor with the default sampler.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		sampler: DefaultSampler(),
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractImage is Extract for a decoded Go image.
func (e *Extractor) ExtractImage(img image.Image, wallpaper string, opts Options) (*Scheme, error) {
	if img == nil {
		return nil, &InputError{Op: "extract", Err: fmt.Errorf("image cannot be nil")}
	}
	return e.Extract(NewImageBitmap(img), wallpaper, opts)
}

// Extract builds a scheme from bitmap. wallpaper is carried into the
// scheme unchanged. The only failure on valid options is an image with no
// usable pixels, reported as an *InputError wrapping ErrNoValidPixels.
func (e *Extractor) Extract(bitmap Bitmap, wallpaper string, opts Options) (*Scheme, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	samples, unfiltered, err := e.sampler.Sample(bitmap)
	if err != nil {
		return nil, &InputError{Op: "sample", Err: err}
	}
	e.logger.Debug("sampled image", "wallpaper", wallpaper, "samples", len(samples), "unfiltered", unfiltered)

	centroids := KMeans(samples, opts.ColorCount, e.random())
	slices.SortStableFunc(centroids, func(a, b RGB) int {
		return cmp.Compare(a.Luminance(), b.Luminance())
	})
	e.logger.Debug("clustered samples", "k", opts.ColorCount, "centroids", len(centroids))

	scheme := GenerateScheme(wallpaper, centroids, opts)
	e.logger.Debug("generated scheme", "dark", scheme.IsDark, "background", scheme.Background.Hex(), "cursor", scheme.Cursor.Hex())
	return scheme, nil
}

// random returns the fixed source, or a fresh per-call generator seeded
// from the runtime's concurrency-safe global source.
func (e *Extractor) random() *rand.Rand {
	if e.rng != nil {
		return e.rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
