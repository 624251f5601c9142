// Package style defines the fixed visual vocabulary shared by the chart
// renderer and the document assembler: the report palette and the sheet that
// maps style tags to text and box attributes.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// Colors
// ════════════════════════════════════════════════════════════════════

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex parses "#rrggbb" or "rrggbb".
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is Hex for package-level literals.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA returns the color with the given alpha (0-1).
func (c Color) NRGBA(alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

// Palette is the report color scheme.
type Palette struct {
	Primary   Color // dark navy: titles, table headers
	Accent    Color // blue: subheadings, rules
	Highlight Color // red: risks, negatives
	Green     Color // positives
	Orange    Color
	Purple    Color
	LightBg   Color
	Muted     Color // neutral bars
	Text      Color
	Subtle    Color
	Source    Color
	Faint     Color
	Grid      Color
	White     Color
}

// DefaultPalette returns the navy/blue palette used by every report.
func DefaultPalette() Palette {
	return Palette{
		Primary:   MustHex("#1a365d"),
		Accent:    MustHex("#2b6cb0"),
		Highlight: MustHex("#e53e3e"),
		Green:     MustHex("#38a169"),
		Orange:    MustHex("#dd6b20"),
		Purple:    MustHex("#805ad5"),
		LightBg:   MustHex("#f7fafc"),
		Muted:     MustHex("#a0aec0"),
		Text:      MustHex("#2d3748"),
		Subtle:    MustHex("#4a5568"),
		Source:    MustHex("#718096"),
		Faint:     MustHex("#a0aec0"),
		Grid:      MustHex("#cbd5e0"),
		White:     MustHex("#ffffff"),
	}
}

// Series returns the default cycle for chart series without explicit colors.
func (p Palette) Series() []Color {
	return []Color{p.Accent, p.Highlight, p.Green, p.Orange, p.Purple, p.Primary}
}

// Named resolves a palette role name ("primary", "accent", ...) or a hex
// literal.
func (p Palette) Named(name string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "primary":
		return p.Primary, nil
	case "accent":
		return p.Accent, nil
	case "highlight", "red":
		return p.Highlight, nil
	case "green":
		return p.Green, nil
	case "orange":
		return p.Orange, nil
	case "purple":
		return p.Purple, nil
	case "muted", "grey", "gray":
		return p.Muted, nil
	case "text":
		return p.Text, nil
	}
	return Hex(name)
}
