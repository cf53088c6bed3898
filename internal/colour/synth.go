package colour

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

const (
	accentCount         = 6
	accentMinSaturation = 0.2
	accentBoostBelow    = 0.4
	accentBoostFactor   = 1.5
	cursorMinSaturation = 0.3
	brightBackground    = 0.15
	brightLighten       = 0.15
	brightSaturateDark  = 1.2
	brightSaturateLight = 1.1
)

var (
	darkFallbackBackground  = RGB{R: 0.1, G: 0.1, B: 0.1}
	darkForeground          = RGB{R: 0.9, G: 0.9, B: 0.9}
	lightFallbackBackground = RGB{R: 0.95, G: 0.95, B: 0.95}
	lightForeground         = RGB{R: 0.1, G: 0.1, B: 0.1}

	// defaultAccents pads the accent slots, in ANSI order.
	defaultAccents = [accentCount]RGB{
		{R: 0.8, G: 0.2, B: 0.2}, // red
		{R: 0.2, G: 0.8, B: 0.2}, // green
		{R: 0.8, G: 0.8, B: 0.2}, // yellow
		{R: 0.2, G: 0.4, B: 0.8}, // blue
		{R: 0.8, G: 0.2, B: 0.8}, // magenta
		{R: 0.2, G: 0.8, B: 0.8}, // cyan
	}
)

// GenerateScheme builds a 16-colour scheme from centroids sorted by
// ascending luminance.
func GenerateScheme(wallpaper string, centroids []RGB, opts Options) *Scheme {
	isDark := decideDark(centroids, opts.PrefersDark)

	var background, foreground RGB
	if isDark {
		background = darkFallbackBackground
		if len(centroids) > 0 {
			background = centroids[0].Darkened(opts.BackgroundIntensity)
		}
		foreground = darkForeground
	} else {
		background = lightFallbackBackground
		if len(centroids) > 0 {
			background = centroids[len(centroids)-1].Lightened(opts.BackgroundIntensity)
		}
		foreground = lightForeground
	}

	accents := selectAccents(centroids, accentCount, isDark, opts.ContrastRatio)

	colors := make([]RGB, 0, SchemeSize)
	colors = append(colors, background)
	colors = append(colors, accents...)
	colors = append(colors, foreground)
	colors = append(colors, background.Lightened(brightBackground))
	for _, c := range accents {
		if isDark {
			colors = append(colors, c.Saturated(brightSaturateDark).Lightened(brightLighten))
		} else {
			colors = append(colors, c.Saturated(brightSaturateLight))
		}
	}
	colors = append(colors, foreground)

	cursor := lo.FindOrElse(centroids, foreground, func(c RGB) bool {
		return c.Saturation() > cursorMinSaturation
	})

	return NewScheme(wallpaper, isDark, background, foreground, cursor, colors)
}

// decideDark honours an explicit preference, otherwise picks dark when the
// mean centroid luminance is below one half.
func decideDark(centroids []RGB, prefersDark *bool) bool {
	if prefersDark != nil {
		return *prefersDark
	}
	if len(centroids) == 0 {
		return true
	}
	mean := lo.SumBy(centroids, RGB.Luminance) / float64(len(centroids))
	return mean < 0.5
}

// contrastAdjustments holds the luminance thresholds and correction amounts
// derived from a contrast ratio.
type contrastAdjustments struct {
	darkThreshold   float64
	darkAdjustment  float64
	lightThreshold  float64
	lightAdjustment float64
}

// newContrastAdjustments maps a contrast ratio in [1.5, 4.5] linearly onto
// the adjustment parameters. Higher ratios correct more aggressively.
func newContrastAdjustments(ratio float64) contrastAdjustments {
	t := clamp01((ratio - MinContrastRatio) / (MaxContrastRatio - MinContrastRatio))
	return contrastAdjustments{
		darkThreshold:   0.15 + 0.30*t,
		darkAdjustment:  0.10 + 0.25*t,
		lightThreshold:  0.85 - 0.30*t,
		lightAdjustment: 0.20 + 0.30*t,
	}
}

// apply corrects c so it stays legible against the scheme background.
func (a contrastAdjustments) apply(c RGB, isDark bool) RGB {
	if isDark && c.Luminance() < a.darkThreshold {
		return c.Lightened(a.darkAdjustment)
	}
	if !isDark && c.Luminance() > a.lightThreshold {
		return c.Darkened(a.lightAdjustment)
	}
	return c
}

// selectAccents picks count accent colours spread across the hue wheel,
// padding with defaultAccents when the image is short on variety.
func selectAccents(centroids []RGB, count int, isDark bool, contrastRatio float64) []RGB {
	if count <= 0 {
		return nil
	}

	candidates := lo.Filter(centroids, func(c RGB, _ int) bool {
		return c.Saturation() > accentMinSaturation
	})
	if len(candidates) < count {
		candidates = slices.Clone(centroids)
	}
	slices.SortStableFunc(candidates, func(a, b RGB) int {
		return cmp.Compare(a.Hue(), b.Hue())
	})

	adjust := newContrastAdjustments(contrastRatio)
	step := max(len(candidates)/count, 1)

	selected := make([]RGB, 0, count)
	for i := 0; i < min(len(candidates), count*step); i += step {
		c := candidates[i]
		if c.Saturation() < accentBoostBelow {
			c = c.Saturated(accentBoostFactor)
		}
		selected = append(selected, adjust.apply(c, isDark))
	}

	for len(selected) < count {
		selected = append(selected, defaultAccents[len(selected)%len(defaultAccents)])
	}
	return selected[:count]
}
