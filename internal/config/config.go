// Package config loads wallhue settings from an HCL file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"

	"github.com/jmylchreest/wallhue/internal/colour"
	"github.com/jmylchreest/wallhue/internal/logging"
	"github.com/jmylchreest/wallhue/internal/schemecache"
)

// Environment variables read by Load.
const (
	EnvConfig              = "WALLHUE_CONFIG"
	EnvColourCount         = "WALLHUE_COLOUR_COUNT"
	EnvPreferDark          = "WALLHUE_PREFER_DARK"
	EnvContrast            = "WALLHUE_CONTRAST"
	EnvBackgroundIntensity = "WALLHUE_BACKGROUND_INTENSITY"
	EnvCacheDir            = "WALLHUE_CACHE_DIR"
	EnvLogLevel            = "WALLHUE_LOG_LEVEL"
)

// Config is the resolved configuration.
type Config struct {
	Colours colour.Options
	Alpha   int
	Output  Output
	Logging Logging

	// Path is the file that was loaded, empty when none was found.
	Path string
}

// Output controls where `wallhue save` writes.
type Output struct {
	Dir     string
	Formats []string
}

// Logging mirrors logging.Options without the CLI overrides.
type Logging struct {
	Level string
	File  string
}

// Default returns the built-in configuration.
func Default() *Config {
	formats := make([]string, 0, len(schemecache.AllFormats()))
	for _, f := range schemecache.AllFormats() {
		formats = append(formats, string(f))
	}
	dir, err := schemecache.DefaultDir()
	if err != nil {
		dir = ""
	}
	return &Config{
		Colours: colour.DefaultOptions(),
		Alpha:   100,
		Output:  Output{Dir: dir, Formats: formats},
		Logging: Logging{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wallhue/config.hcl.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "wallhue", "config.hcl"), nil
}

// Load builds the configuration from defaults, then the config file, then
// the environment. An explicit path (argument or WALLHUE_CONFIG) must
// exist; the default path may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path, explicit = os.LookupEnv(EnvConfig)
		explicit = explicit && path != ""
	}
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		src, err := os.ReadFile(path) // #nosec G304 - User-specified config path, intended to be read
		switch {
		case err == nil:
			if err := cfg.decode(src, path); err != nil {
				return nil, err
			}
			cfg.Path = path
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs error
	if err := c.Colours.Validate(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Alpha < 0 || c.Alpha > 100 {
		errs = multierr.Append(errs, fmt.Errorf("alpha must be between 0 and 100, got %d", c.Alpha))
	}
	if _, err := schemecache.ParseFormats(c.Output.Formats); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

type fileConfig struct {
	Colours *coloursBlock `hcl:"colours,block"`
	Output  *outputBlock  `hcl:"output,block"`
	Logging *loggingBlock `hcl:"logging,block"`
}

type coloursBlock struct {
	Count               *int     `hcl:"count,optional"`
	PreferDark          *bool    `hcl:"prefer_dark,optional"`
	ContrastRatio       *float64 `hcl:"contrast_ratio,optional"`
	BackgroundIntensity *float64 `hcl:"background_intensity,optional"`
	Alpha               *int     `hcl:"alpha,optional"`
}

type outputBlock struct {
	Dir     *string  `hcl:"dir,optional"`
	Formats []string `hcl:"formats,optional"`
}

type loggingBlock struct {
	Level *string `hcl:"level,optional"`
	File  *string `hcl:"file,optional"`
}

func (c *Config) decode(src []byte, filename string) error {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return fmt.Errorf("parsing config: %s", diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &fc); diags.HasErrors() {
		return fmt.Errorf("decoding config: %s", diags.Error())
	}

	if b := fc.Colours; b != nil {
		if b.Count != nil {
			c.Colours.ColorCount = *b.Count
		}
		if b.PreferDark != nil {
			dark := *b.PreferDark
			c.Colours.PrefersDark = &dark
		}
		if b.ContrastRatio != nil {
			c.Colours.ContrastRatio = *b.ContrastRatio
		}
		if b.BackgroundIntensity != nil {
			c.Colours.BackgroundIntensity = *b.BackgroundIntensity
		}
		if b.Alpha != nil {
			c.Alpha = *b.Alpha
		}
	}
	if b := fc.Output; b != nil {
		if b.Dir != nil {
			c.Output.Dir = ExpandHome(*b.Dir)
		}
		if b.Formats != nil {
			c.Output.Formats = b.Formats
		}
	}
	if b := fc.Logging; b != nil {
		if b.Level != nil {
			c.Logging.Level = *b.Level
		}
		if b.File != nil {
			c.Logging.File = ExpandHome(*b.File)
		}
	}
	return nil
}

// evalContext exposes the process environment as env.NAME.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}

	env := cty.MapValEmpty(cty.String)
	if len(vars) > 0 {
		env = cty.MapVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs error

	if v, ok := lookup(EnvColourCount); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvColourCount, err))
		} else {
			c.Colours.ColorCount = n
		}
	}
	if v, ok := lookup(EnvPreferDark); ok && v != "" {
		dark, err := ParsePreference(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvPreferDark, err))
		} else {
			c.Colours.PrefersDark = dark
		}
	}
	if v, ok := lookup(EnvContrast); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvContrast, err))
		} else {
			c.Colours.ContrastRatio = f
		}
	}
	if v, ok := lookup(EnvBackgroundIntensity); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvBackgroundIntensity, err))
		} else {
			c.Colours.BackgroundIntensity = f
		}
	}
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.Output.Dir = ExpandHome(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}

	return errs
}

// ParsePreference maps dark/light/auto (or a boolean) to a PrefersDark value.
func ParsePreference(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return nil, nil
	case "dark":
		dark := true
		return &dark, nil
	case "light":
		dark := false
		return &dark, nil
	}
	dark, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid preference %q: must be dark, light, auto or a boolean", s)
	}
	return &dark, nil
}

// ExpandHome replaces a leading ~ with the user home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
