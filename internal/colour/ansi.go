package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// ColourPreview returns a solid block of width spaces painted with c.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return bg(c) + strings.Repeat(" ", width) + ansiReset
}

// ColourPreviewWithText returns a colour block with centred text drawn in
// black or white, whichever reads better on c.
func ColourPreviewWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	text = centre(text, width)
	textColour := RGB{R: 1, G: 1, B: 1}
	if c.Luminance() > 0.5 {
		textColour = RGB{}
	}
	return bg(c) + fg(textColour) + text + ansiReset
}

// FormatColourWithLabel formats a colour with a label and preview.
func FormatColourWithLabel(c RGB, label string, width int) string {
	return fmt.Sprintf("%s  %-12s %s", ColourPreview(c, width), label, c.Hex())
}

// Preview renders the scheme for a truecolour terminal: the special colours
// with labels, then the 16 terminal colours in two rows of eight.
func (s *Scheme) Preview() string {
	var b strings.Builder
	b.WriteString(FormatColourWithLabel(s.Background, "background", 4) + "\n")
	b.WriteString(FormatColourWithLabel(s.Foreground, "foreground", 4) + "\n")
	b.WriteString(FormatColourWithLabel(s.Cursor, "cursor", 4) + "\n\n")

	for row := 0; row*8 < len(s.Colors); row++ {
		for i := row * 8; i < min(row*8+8, len(s.Colors)); i++ {
			b.WriteString(ColourPreviewWithText(s.Colors[i], fmt.Sprintf("%d", i), 5))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// PlainPreview is Preview without escape codes, for pipes and dumb terminals.
func (s *Scheme) PlainPreview() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %s\n", "background", s.Background.Hex())
	fmt.Fprintf(&b, "%-12s %s\n", "foreground", s.Foreground.Hex())
	fmt.Fprintf(&b, "%-12s %s\n\n", "cursor", s.Cursor.Hex())
	for i, c := range s.Colors {
		fmt.Fprintf(&b, "color%-7d %s\n", i, c.Hex())
	}
	return b.String()
}

func bg(c RGB) string {
	r, g, b := c.Uint8()
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, r, g, b, ansiSuffix)
}

func fg(c RGB) string {
	r, g, b := c.Uint8()
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, r, g, b, ansiSuffix)
}

// centre pads or truncates text to exactly width characters.
func centre(text string, width int) string {
	if len(text) >= width {
		return text[:width]
	}
	pad := (width - len(text)) / 2
	return strings.Repeat(" ", pad) + text + strings.Repeat(" ", width-len(text)-pad)
}
