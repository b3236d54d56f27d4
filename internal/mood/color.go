package mood

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a palette entry. It marshals as a #rrggbb string.
type Color struct {
	colorful.Color
}

// MustHex parses a #rrggbb literal and panics on malformed input. It is meant
// for the preset table.
func MustHex(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseColor parses #rgb or #rrggbb.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalidSpec, s, err)
	}
	return Color{c}, nil
}

// HSL builds a color from hue in degrees and saturation/lightness in [0, 1].
func HSL(h, s, l float64) Color {
	return Color{colorful.Hsl(h, s, l)}
}

// NRGBA returns the color with the given opacity in [0, 1].
func (c Color) NRGBA(alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: unit8(alpha)}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func unit8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
