package colour

import (
	"fmt"
	"strconv"
	"strings"
)

// ToShell returns pywal-compatible shell variable assignments.
func (s *Scheme) ToShell() string {
	var b strings.Builder
	fmt.Fprintf(&b, "wallpaper=%s\n", shellQuote(s.Wallpaper))
	fmt.Fprintf(&b, "background='%s'\n", s.Background.Hex())
	fmt.Fprintf(&b, "foreground='%s'\n", s.Foreground.Hex())
	fmt.Fprintf(&b, "cursor='%s'\n", s.Cursor.Hex())
	for i, c := range s.Colors {
		fmt.Fprintf(&b, "color%d='%s'\n", i, c.Hex())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// shellQuote wraps v in single quotes, closing and reopening the quote
// around any embedded single quote.
func shellQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// ToCSS returns the scheme as CSS custom properties on :root.
func (s *Scheme) ToCSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	fmt.Fprintf(&b, "  --background: %s;\n", s.Background.Hex())
	fmt.Fprintf(&b, "  --foreground: %s;\n", s.Foreground.Hex())
	fmt.Fprintf(&b, "  --cursor: %s;\n", s.Cursor.Hex())
	for i, c := range s.Colors {
		fmt.Fprintf(&b, "  --color%d: %s;\n", i, c.Hex())
	}
	b.WriteString("}")
	return b.String()
}

// ToColorsList returns one hex colour per line, the format of pywal's
// plain "colors" cache file.
func (s *Scheme) ToColorsList() string {
	lines := make([]string, len(s.Colors))
	for i, c := range s.Colors {
		lines[i] = c.Hex()
	}
	return strings.Join(lines, "\n")
}

// Variables returns the placeholder values template renderers substitute,
// keyed by name ("background", "color3.rgb", "cursor.strip", ...).
func (s *Scheme) Variables() map[string]string {
	vars := map[string]string{
		"wallpaper":            s.Wallpaper,
		"alpha":                strconv.Itoa(s.Alpha),
		"background.alpha":     strconv.Itoa(s.Alpha),
		"background.alpha_dec": fmt.Sprintf("%.2f", float64(s.Alpha)/100),
	}

	special := map[string]RGB{
		"background": s.Background,
		"foreground": s.Foreground,
		"cursor":     s.Cursor,
	}
	for name, c := range special {
		vars[name] = c.Hex()
		vars[name+".strip"] = c.HexStrip()
		vars[name+".rgb"] = c.RGBString()
		vars[name+".rgba"] = c.RGBAString(1.0)
		addComponents(vars, name, c)
	}

	for i, c := range s.Colors {
		name := "color" + strconv.Itoa(i)
		vars[name] = c.Hex()
		vars[name+".strip"] = c.HexStrip()
		vars[name+".rgb"] = c.RGBString()
		vars[name+".xrgba"] = c.XRGBAString()
		vars[name+".rgba"] = c.RGBAString(1.0)
		vars[name+".rgba_25"] = c.RGBAString(0.25)
		addComponents(vars, name, c)
	}

	return vars
}

func addComponents(vars map[string]string, name string, c RGB) {
	vars[name+".r"] = fmt.Sprintf("%.10f", c.R)
	vars[name+".g"] = fmt.Sprintf("%.10f", c.G)
	vars[name+".b"] = fmt.Sprintf("%.10f", c.B)
}
