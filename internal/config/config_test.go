package config

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// isolate points every config source at an empty temporary location.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, name := range []string{EnvConfig, EnvColourCount, EnvPreferDark, EnvContrast, EnvBackgroundIntensity, EnvCacheDir, EnvLogLevel} {
		t.Setenv(name, "")
	}
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty when no file exists", cfg.Path)
	}
	if cfg.Colours.ColorCount != 16 || cfg.Colours.PrefersDark != nil || cfg.Alpha != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if want := filepath.Join(dir, "cache", "wallhue"); cfg.Output.Dir != want {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, want)
	}
	if !slices.Equal(cfg.Output.Formats, []string{"json", "shell", "css", "colors"}) {
		t.Errorf("Output.Formats = %v", cfg.Output.Formats)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("WALLHUE_TEST_LOGDIR", "/var/log/wallhue")
	writeConfig(t, filepath.Join(dir, "wallhue", "config.hcl"), `
colours {
  count                = 8
  prefer_dark          = false
  contrast_ratio       = 4.0
  background_intensity = 0.5
  alpha                = 85
}

output {
  dir     = "/tmp/schemes"
  formats = ["json", "css"]
}

logging {
  level = "debug"
  file  = "${env.WALLHUE_TEST_LOGDIR}/wallhue.log"
}
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path == "" {
		t.Error("Path not recorded")
	}
	if cfg.Colours.ColorCount != 8 || cfg.Alpha != 85 {
		t.Errorf("colours = %+v alpha %d", cfg.Colours, cfg.Alpha)
	}
	if cfg.Colours.PrefersDark == nil || *cfg.Colours.PrefersDark {
		t.Errorf("PrefersDark = %v, want false", cfg.Colours.PrefersDark)
	}
	if math.Abs(cfg.Colours.ContrastRatio-4.0) > 1e-9 || math.Abs(cfg.Colours.BackgroundIntensity-0.5) > 1e-9 {
		t.Errorf("colours = %+v", cfg.Colours)
	}
	if cfg.Output.Dir != "/tmp/schemes" || !slices.Equal(cfg.Output.Formats, []string{"json", "css"}) {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "/var/log/wallhue/wallhue.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "partial.hcl")
	writeConfig(t, path, "colours {\n  count = 4\n}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Colours.ColorCount != 4 {
		t.Errorf("ColorCount = %d", cfg.Colours.ColorCount)
	}
	if math.Abs(cfg.Colours.ContrastRatio-3.0) > 1e-9 || cfg.Alpha != 100 || cfg.Logging.Level != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.hcl")
	writeConfig(t, path, "colours {\n  count = 4\n  prefer_dark = true\n}\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvColourCount, "12")
	t.Setenv(EnvPreferDark, "light")
	t.Setenv(EnvContrast, "2.5")
	t.Setenv(EnvBackgroundIntensity, "0.4")
	t.Setenv(EnvCacheDir, "/srv/cache")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Colours.ColorCount != 12 {
		t.Errorf("ColorCount = %d, want 12", cfg.Colours.ColorCount)
	}
	if cfg.Colours.PrefersDark == nil || *cfg.Colours.PrefersDark {
		t.Error("PrefersDark should be false from environment")
	}
	if math.Abs(cfg.Colours.ContrastRatio-2.5) > 1e-9 || math.Abs(cfg.Colours.BackgroundIntensity-0.4) > 1e-9 {
		t.Errorf("colours = %+v", cfg.Colours)
	}
	if cfg.Output.Dir != "/srv/cache" || cfg.Logging.Level != "warn" {
		t.Errorf("output %+v logging %+v", cfg.Output, cfg.Logging)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"unknown attribute", "colours {\n  palette = 3\n}\n", nil, "Unsupported argument"},
		{"unknown block", "theme {\n}\n", nil, "Unsupported block type"},
		{"wrong type", "colours {\n  count = \"many\"\n}\n", nil, "decoding config"},
		{"syntax", "colours {\n", nil, "parsing config"},
		{"bad env count", "", map[string]string{EnvColourCount: "lots"}, EnvColourCount},
		{"bad env preference", "", map[string]string{EnvPreferDark: "dusk"}, EnvPreferDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "config.hcl")
			writeConfig(t, path, tt.content)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.hcl")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Colours.ColorCount = 0
	cfg.Alpha = 120
	cfg.Output.Formats = []string{"yaml"}
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"colour count", "alpha", "yaml", "loud"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q: %v", want, err)
		}
	}
}

func TestParsePreference(t *testing.T) {
	tests := []struct {
		in      string
		want    *bool
		wantErr bool
	}{
		{"auto", nil, false},
		{"dark", ptr(true), false},
		{"LIGHT", ptr(false), false},
		{"true", ptr(true), false},
		{"0", ptr(false), false},
		{"dusk", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePreference(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePreference(%q) error = %v", tt.in, err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParsePreference(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/walls"); got != filepath.Join(home, "walls") {
		t.Errorf("ExpandHome(~/walls) = %q", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Errorf("ExpandHome(/abs) = %q", got)
	}
}

func ptr[T any](v T) *T { return &v }
