package colour

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ErrNoValidPixels is returned when an image yields no samples at all.
var ErrNoValidPixels = errors.New("no valid pixels found in image")

// Bitmap is the minimal view of a decoded image the sampler needs.
// Channels are 8-bit and not alpha-premultiplied.
type Bitmap interface {
	Width() int
	Height() int
	PixelAt(x, y int) (r, g, b, a uint8)
}

// ImageBitmap adapts an image.Image to Bitmap.
type ImageBitmap struct {
	img image.Image
}

// NewImageBitmap wraps img. Coordinates passed to PixelAt are relative to
// the image bounds' origin.
func NewImageBitmap(img image.Image) *ImageBitmap {
	return &ImageBitmap{img: img}
}

// Width returns the image width in pixels.
func (b *ImageBitmap) Width() int { return b.img.Bounds().Dx() }

// Height returns the image height in pixels.
func (b *ImageBitmap) Height() int { return b.img.Bounds().Dy() }

// PixelAt returns the non-premultiplied RGBA value at (x, y).
func (b *ImageBitmap) PixelAt(x, y int) (uint8, uint8, uint8, uint8) {
	origin := b.img.Bounds().Min
	if n, ok := b.img.(*image.NRGBA); ok {
		c := n.NRGBAAt(origin.X+x, origin.Y+y)
		return c.R, c.G, c.B, c.A
	}
	c := color.NRGBAModel.Convert(b.img.At(origin.X+x, origin.Y+y)).(color.NRGBA)
	return c.R, c.G, c.B, c.A
}

// Image returns the wrapped image.
func (b *ImageBitmap) Image() image.Image { return b.img }

// Sampler downsizes an image and extracts a filtered list of sample colours.
type Sampler struct {
	// MaxDimension bounds the longer edge before sampling.
	MaxDimension int
	// Step is the row and column stride.
	Step int
	// AlphaThreshold rejects pixels with a lower alpha in the filtered pass.
	AlphaThreshold uint8
	// MinBrightness and MaxBrightness form an exclusive window on (r+g+b)/3.
	MinBrightness float64
	MaxBrightness float64
	// MinSamples is the filtered-pass count below which the raw grid is used.
	MinSamples int
}

// DefaultSampler returns the sampler used by the extraction pipeline.
func DefaultSampler() Sampler {
	return Sampler{
		MaxDimension:   200,
		Step:           4,
		AlphaThreshold: 200,
		MinBrightness:  0.08,
		MaxBrightness:  0.92,
		MinSamples:     100,
	}
}

// Sample resizes src if needed and returns the sampled colours in row-major
// order. unfiltered reports whether the filtered pass produced too few
// samples and the raw stride grid was used instead.
func (s Sampler) Sample(src Bitmap) (samples []RGB, unfiltered bool, err error) {
	if src == nil || src.Width() <= 0 || src.Height() <= 0 {
		return nil, false, ErrNoValidPixels
	}

	bm := s.resize(src)
	step := max(s.Step, 1)
	w, h := bm.Width(), bm.Height()

	samples = make([]RGB, 0, (w/step+1)*(h/step+1))
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			r, g, b, a := bm.PixelAt(x, y)
			if a < s.AlphaThreshold {
				continue
			}
			c := FromUint8(r, g, b)
			brightness := (c.R + c.G + c.B) / 3
			if brightness > s.MinBrightness && brightness < s.MaxBrightness {
				samples = append(samples, c)
			}
		}
	}

	if len(samples) < s.MinSamples {
		unfiltered = true
		samples = samples[:0]
		for y := 0; y < h; y += step {
			for x := 0; x < w; x += step {
				r, g, b, _ := bm.PixelAt(x, y)
				samples = append(samples, FromUint8(r, g, b))
			}
		}
	}

	if len(samples) == 0 {
		return nil, unfiltered, ErrNoValidPixels
	}
	return samples, unfiltered, nil
}

// resize scales src so its longer edge equals MaxDimension, preserving the
// aspect ratio. Bitmaps already within bounds are returned unchanged.
func (s Sampler) resize(src Bitmap) Bitmap {
	w, h := src.Width(), src.Height()
	if s.MaxDimension <= 0 || (w <= s.MaxDimension && h <= s.MaxDimension) {
		return src
	}

	scale := float64(s.MaxDimension) / float64(max(w, h))
	nw, nh := s.MaxDimension, s.MaxDimension
	if w > h {
		nh = max(int(float64(h)*scale), 1)
	} else if h > w {
		nw = max(int(float64(w)*scale), 1)
	}

	return NewImageBitmap(imaging.Resize(toImage(src), nw, nh, imaging.Linear))
}

// toImage returns the underlying image for ImageBitmap values and copies
// any other Bitmap into an NRGBA image.
func toImage(src Bitmap) image.Image {
	if ib, ok := src.(*ImageBitmap); ok {
		return ib.img
	}
	w, h := src.Width(), src.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			r, g, b, a := src.PixelAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}
