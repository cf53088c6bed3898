// Package colour extracts colour palettes from images and turns them into
// 16-colour terminal schemes.
package colour

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a colour with floating-point channels in the range [0, 1].
// Values are immutable: every transform returns a new RGB.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// NewRGB creates a colour, clamping each channel to [0, 1].
func NewRGB(r, g, b float64) RGB {
	return RGB{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

// FromUint8 creates a colour from 8-bit channel values.
func FromUint8(r, g, b uint8) RGB {
	return RGB{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (RGB, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return NewRGB(c.R, c.G, c.B), nil
}

// Luminance returns the perceived brightness using ITU-R BT.601 weights.
func (c RGB) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Saturation returns the HSV saturation, 0 for black.
func (c RGB) Saturation() float64 {
	_, s, _ := c.toColorful().Hsv()
	return s
}

// Hue returns the HSV hue in degrees [0, 360). Greys have hue 0.
func (c RGB) Hue() float64 {
	h, _, _ := c.toColorful().Hsv()
	return h
}

// DistanceSquared returns the squared Euclidean distance in RGB space.
func (c RGB) DistanceSquared(other RGB) float64 {
	dr := c.R - other.R
	dg := c.G - other.G
	db := c.B - other.B
	return dr*dr + dg*dg + db*db
}

// Lightened moves each channel towards 1 by amount (0-1).
func (c RGB) Lightened(amount float64) RGB {
	return NewRGB(
		c.R+(1-c.R)*amount,
		c.G+(1-c.G)*amount,
		c.B+(1-c.B)*amount,
	)
}

// Darkened scales each channel towards 0 by amount (0-1).
func (c RGB) Darkened(amount float64) RGB {
	return NewRGB(
		c.R*(1-amount),
		c.G*(1-amount),
		c.B*(1-amount),
	)
}

// Saturated pushes each channel away from the colour's luminance by factor.
// A factor below 1 desaturates.
func (c RGB) Saturated(factor float64) RGB {
	grey := c.Luminance()
	return NewRGB(
		grey+(c.R-grey)*factor,
		grey+(c.G-grey)*factor,
		grey+(c.B-grey)*factor,
	)
}

// Uint8 returns the channels as 8-bit values. Channels are truncated, not
// rounded, so 0.5 becomes 127.
func (c RGB) Uint8() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.Uint8()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xffff
}

// Hex returns the colour as "#RRGGBB".
func (c RGB) Hex() string {
	return "#" + c.HexStrip()
}

// HexStrip returns the colour as "RRGGBB".
func (c RGB) HexStrip() string {
	r, g, b := c.Uint8()
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

// RGBString returns "r, g, b" with 0-255 channels.
func (c RGB) RGBString() string {
	r, g, b := c.Uint8()
	return fmt.Sprintf("%d, %d, %d", r, g, b)
}

// RGBAString returns "r g b a" as floats, the form Xcode themes expect.
func (c RGB) RGBAString(alpha float64) string {
	return fmt.Sprintf("%.6f %.6f %.6f %.2f", c.R, c.G, c.B, alpha)
}

// XRGBAString returns the X resources form "rr/gg/bb/ff".
func (c RGB) XRGBAString() string {
	r, g, b := c.Uint8()
	return fmt.Sprintf("%02x/%02x/%02x/ff", r, g, b)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

// UnmarshalJSON requires all three channels to be present.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var raw struct {
		R *float64 `json:"r"`
		G *float64 `json:"g"`
		B *float64 `json:"b"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.R == nil || raw.G == nil || raw.B == nil {
		return fmt.Errorf("colour %s must have r, g and b channels", data)
	}
	*c = RGB{R: *raw.R, G: *raw.G, B: *raw.B}
	return nil
}

func (c RGB) inRange() bool {
	return c.R >= 0 && c.R <= 1 && c.G >= 0 && c.G <= 1 && c.B >= 0 && c.B <= 1
}

func (c RGB) channels() [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

func (c RGB) toColorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// byteEpsilon keeps values like 127/255 from truncating to 126 after the
// round trip through float division.
const byteEpsilon = 1e-9

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + byteEpsilon)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
