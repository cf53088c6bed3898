// Package schemecache stores generated schemes on disk in the layout
// expected by pywal consumers: colors.json, colors.sh, colors.css and
// colors.
package schemecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/jmylchreest/wallhue/internal/colour"
)

// Format is an on-disk scheme encoding.
type Format string

// Supported formats.
const (
	FormatJSON   Format = "json"
	FormatShell  Format = "shell"
	FormatCSS    Format = "css"
	FormatColors Format = "colors"
)

// AllFormats returns every supported format in write order.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatShell, FormatCSS, FormatColors}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatShell, FormatCSS, FormatColors:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q: must be one of json, shell, css, colors", s)
}

// ParseFormats validates a list of names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var (
		formats []Format
		errs    error
	)
	seen := make(map[Format]bool, len(names))
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, errs
}

// Filename returns the cache file name for f.
func (f Format) Filename() string {
	switch f {
	case FormatJSON:
		return "colors.json"
	case FormatShell:
		return "colors.sh"
	case FormatCSS:
		return "colors.css"
	case FormatColors:
		return "colors"
	}
	return ""
}

// Encode renders s in format f with a trailing newline.
func Encode(s *colour.Scheme, f Format) ([]byte, error) {
	var text string
	switch f {
	case FormatJSON:
		data, err := s.ToJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode scheme as JSON: %w", err)
		}
		text = string(data)
	case FormatShell:
		text = s.ToShell()
	case FormatCSS:
		text = s.ToCSS()
	case FormatColors:
		text = s.ToColorsList()
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	return []byte(text + "\n"), nil
}

// DefaultDir returns $XDG_CACHE_HOME/wallhue or its platform equivalent.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "wallhue"), nil
	}
	return filepath.Join(cacheDir, "wallhue"), nil
}

// Save writes s into dir once per format and returns the paths written.
// Every format is attempted; failures are combined into one error.
func Save(dir string, s *colour.Scheme, formats []Format) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("scheme cannot be nil")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to save invalid scheme: %w", err)
	}
	if len(formats) == 0 {
		formats = AllFormats()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	var (
		written []string
		errs    error
	)
	for _, f := range formats {
		data, err := Encode(s, f)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		path := filepath.Join(dir, f.Filename())
		if err := writeFile(path, data); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to write %s: %w", path, err))
			continue
		}
		written = append(written, path)
	}
	return written, errs
}

// Load reads a scheme from a colors.json file, or from the colors.json
// inside path when path is a directory.
func Load(path string) (*colour.Scheme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access scheme: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FormatJSON.Filename())
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified scheme path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme: %w", err)
	}
	s, err := colour.SchemeFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { // #nosec G302 - Scheme files are read by other programs
		return err
	}
	return os.Rename(tmp.Name(), path)
}
