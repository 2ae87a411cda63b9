package scene

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Color is an opaque RGB color
type Color struct {
	R, G, B uint8
}

// RGB creates a color from its channels
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Common colors
var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
)

// RGBA converts to an image/color value with the given opacity in [0,1]
func (c Color) RGBA(opacity float64) color.RGBA {
	a := clampChannel(opacity * 255)
	// image/color expects premultiplied alpha
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * float64(a) / 255)),
		G: uint8(math.Round(float64(c.G) * float64(a) / 255)),
		B: uint8(math.Round(float64(c.B) * float64(a) / 255)),
		A: a,
	}
}

// Hex formats the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// ParseColor parses #rgb or #rrggbb
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{R: r * 17, G: g * 17, B: b * 17}, nil
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return Color{R: r, G: g, B: b}, nil
	default:
		return Color{}, fmt.Errorf("invalid color %q: expected #rgb or #rrggbb", s)
	}
}

func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
