package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemeSize is the number of terminal colours in a scheme.
const SchemeSize = 16

// Scheme is a complete terminal colour scheme. Colors follows the pywal
// layout: 0 background, 1-6 accents, 7 foreground, 8 lightened background,
// 9-14 bright accents, 15 foreground.
type Scheme struct {
	Wallpaper  string `json:"wallpaper"`
	IsDark     bool   `json:"is_dark"`
	Alpha      int    `json:"alpha"`
	Background RGB    `json:"background"`
	Foreground RGB    `json:"foreground"`
	Cursor     RGB    `json:"cursor"`
	Colors     []RGB  `json:"colors"`
}

// NewScheme creates a scheme with full opacity. colors is copied.
func NewScheme(wallpaper string, isDark bool, background, foreground, cursor RGB, colors []RGB) *Scheme {
	return &Scheme{
		Wallpaper:  wallpaper,
		IsDark:     isDark,
		Alpha:      100,
		Background: background,
		Foreground: foreground,
		Cursor:     cursor,
		Colors:     append([]RGB(nil), colors...),
	}
}

// WithAlpha returns a copy of the scheme with the given opacity percentage,
// clamped to 0-100.
func (s *Scheme) WithAlpha(alpha int) *Scheme {
	out := *s
	out.Colors = append([]RGB(nil), s.Colors...)
	out.Alpha = min(max(alpha, 0), 100)
	return &out
}

// Color returns terminal colour i, or false if i is out of range.
func (s *Scheme) Color(i int) (RGB, bool) {
	if i < 0 || i >= len(s.Colors) {
		return RGB{}, false
	}
	return s.Colors[i], true
}

// Validate checks the scheme has the full set of terminal colours, a
// sensible alpha and every channel within [0, 1].
func (s *Scheme) Validate() error {
	if len(s.Colors) != SchemeSize {
		return fmt.Errorf("scheme must have %d colours, got %d", SchemeSize, len(s.Colors))
	}
	if s.Alpha < 0 || s.Alpha > 100 {
		return fmt.Errorf("alpha must be between 0 and 100, got %d", s.Alpha)
	}
	specials := []struct {
		name string
		c    RGB
	}{
		{"background", s.Background},
		{"foreground", s.Foreground},
		{"cursor", s.Cursor},
	}
	for _, sp := range specials {
		if !sp.c.inRange() {
			return fmt.Errorf("%s has channels outside [0, 1]: %v", sp.name, sp.c.channels())
		}
	}
	for i, c := range s.Colors {
		if !c.inRange() {
			return fmt.Errorf("color%d has channels outside [0, 1]: %v", i, c.channels())
		}
	}
	return nil
}

// ToJSON encodes the scheme as indented JSON.
func (s *Scheme) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// schemeJSON mirrors Scheme with pointers so absent keys can be told apart
// from zero values.
type schemeJSON struct {
	Wallpaper  *string `json:"wallpaper"`
	IsDark     *bool   `json:"is_dark"`
	Alpha      *int    `json:"alpha"`
	Background *RGB    `json:"background"`
	Foreground *RGB    `json:"foreground"`
	Cursor     *RGB    `json:"cursor"`
	Colors     []RGB   `json:"colors"`
}

// SchemeFromJSON decodes and validates a scheme produced by ToJSON. Every
// key is required except alpha, which defaults to 100.
func SchemeFromJSON(data []byte) (*Scheme, error) {
	var raw schemeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode scheme: %w", err)
	}

	var missing []string
	if raw.Wallpaper == nil {
		missing = append(missing, "wallpaper")
	}
	if raw.IsDark == nil {
		missing = append(missing, "is_dark")
	}
	if raw.Background == nil {
		missing = append(missing, "background")
	}
	if raw.Foreground == nil {
		missing = append(missing, "foreground")
	}
	if raw.Cursor == nil {
		missing = append(missing, "cursor")
	}
	if raw.Colors == nil {
		missing = append(missing, "colors")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("invalid scheme: missing %s", strings.Join(missing, ", "))
	}

	s := &Scheme{
		Wallpaper:  *raw.Wallpaper,
		IsDark:     *raw.IsDark,
		Alpha:      100,
		Background: *raw.Background,
		Foreground: *raw.Foreground,
		Cursor:     *raw.Cursor,
		Colors:     raw.Colors,
	}
	if raw.Alpha != nil {
		s.Alpha = *raw.Alpha
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheme: %w", err)
	}
	return s, nil
}
