package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/wallhue/internal/colour"
	"github.com/jmylchreest/wallhue/internal/config"
	"github.com/jmylchreest/wallhue/internal/image"
	"github.com/jmylchreest/wallhue/internal/util/imagecache"
)

// extractionFlags are shared by commands that generate a scheme.
type extractionFlags struct {
	count      int
	dark       bool
	light      bool
	contrast   float64
	background float64
	alpha      int
	seed       uint64
}

// flagSet returns the extraction flags as a set that commands merge in.
func (f *extractionFlags) flagSet() *pflag.FlagSet {
	defaults := colour.DefaultOptions()

	fs := pflag.NewFlagSet("extraction", pflag.ContinueOnError)
	fs.IntVarP(&f.count, "count", "c", defaults.ColorCount,
		fmt.Sprintf("number of colours to cluster (%d-%d)", colour.MinColorCount, colour.MaxColorCount))
	fs.BoolVar(&f.dark, "dark", false, "force a dark scheme")
	fs.BoolVar(&f.light, "light", false, "force a light scheme")
	fs.Float64Var(&f.contrast, "contrast", defaults.ContrastRatio,
		fmt.Sprintf("accent contrast ratio (%.1f-%.1f)", colour.MinContrastRatio, colour.MaxContrastRatio))
	fs.Float64Var(&f.background, "background", defaults.BackgroundIntensity,
		fmt.Sprintf("background intensity (%.1f-%.1f)", colour.MinBackgroundIntensity, colour.MaxBackgroundIntensity))
	fs.IntVar(&f.alpha, "alpha", 100, "background opacity for exported variables (0-100)")
	fs.Uint64Var(&f.seed, "seed", 0, "seed for deterministic clustering")
	return fs
}

// apply overlays explicitly set flags on cfg and validates the result.
func (f *extractionFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if f.dark && f.light {
		return fmt.Errorf("--dark and --light are mutually exclusive")
	}
	if fs.Changed("count") {
		cfg.Colours.ColorCount = f.count
	}
	if fs.Changed("contrast") {
		cfg.Colours.ContrastRatio = f.contrast
	}
	if fs.Changed("background") {
		cfg.Colours.BackgroundIntensity = f.background
	}
	if fs.Changed("alpha") {
		cfg.Alpha = f.alpha
	}
	switch {
	case f.dark:
		dark := true
		cfg.Colours.PrefersDark = &dark
	case f.light:
		dark := false
		cfg.Colours.PrefersDark = &dark
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// extract loads the wallpaper at path and generates its scheme.
func (a *app) extract(ctx context.Context, fs *pflag.FlagSet, flags *extractionFlags, path string) (*colour.Scheme, error) {
	cfg := *a.cfg
	if err := flags.apply(fs, &cfg); err != nil {
		return nil, err
	}

	if err := image.ValidateImagePath(path); err != nil {
		return nil, &colour.InputError{Op: "load", Err: err}
	}

	cache := imagecache.CacheOptions{}
	if cfg.Output.Dir != "" {
		cache.CacheDir = filepath.Join(cfg.Output.Dir, "wallpapers")
	}
	wp, err := image.NewSmartLoader(cache, a.logger).Load(ctx, path)
	if err != nil {
		return nil, &colour.InputError{Op: "load", Err: err}
	}

	wallpaper := wp.Path
	if abs, err := filepath.Abs(wallpaper); err == nil {
		wallpaper = abs
	}

	opts := []colour.ExtractorOption{colour.WithLogger(a.logger)}
	if fs.Changed("seed") {
		opts = append(opts, colour.WithSeed(flags.seed))
	}
	scheme, err := colour.NewExtractor(opts...).ExtractImage(wp.Image, wallpaper, cfg.Colours)
	if err != nil {
		return nil, err
	}
	return scheme.WithAlpha(cfg.Alpha), nil
}
