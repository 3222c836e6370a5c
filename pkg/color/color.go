// Package color provides the RGBA colour type used by themes, widget styles
// and primitives.
package color

import (
	"fmt"
	stdcolor "image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied RGBA colour with components in [0, 1].
type Color [4]float32

var (
	White     = Color{1, 1, 1, 1}
	Black     = Color{0, 0, 0, 1}
	Red       = Color{1, 0, 0, 1}
	Green     = Color{0, 1, 0, 1}
	Blue      = Color{0, 0, 1, 1}
	Gray      = Color{0.5, 0.5, 0.5, 1}
	LightGray = Color{0.83, 0.84, 0.81, 1}
	DarkGray  = Color{0.08, 0.10, 0.12, 1}
	Charcoal  = Color{0.2, 0.22, 0.24, 1}
)

// WithAlpha returns the colour with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Alpha returns the alpha component.
func (c Color) Alpha() float32 { return c[3] }

// Highlighted returns a lighter variant used for hovered elements.
func (c Color) Highlighted() Color { return c.shiftLightness(0.1) }

// Clicked returns a darker variant used for pressed elements.
func (c Color) Clicked() Color { return c.shiftLightness(-0.1) }

func (c Color) shiftLightness(delta float64) Color {
	h, s, l := c.colorful().Hsl()
	l = min(max(l+delta, 0), 1)
	return fromColorful(colorful.Hsl(h, s, l).Clamped(), c[3])
}

// Blend linearly interpolates (in Lab space) from c towards o by t.
func (c Color) Blend(o Color, t float64) Color {
	a := c[3] + (o[3]-c[3])*float32(t)
	return fromColorful(c.colorful().BlendLab(o.colorful(), t).Clamped(), a)
}

// NRGBA converts to the standard library colour type.
func (c Color) NRGBA() stdcolor.NRGBA {
	return stdcolor.NRGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: to8(c[3])}
}

// Hex formats the colour as #rrggbb, or #rrggbbaa when not fully opaque.
func (c Color) Hex() string {
	s := c.HexRGB()
	if c[3] < 1 {
		s += fmt.Sprintf("%02x", to8(c[3]))
	}
	return s
}

// HexRGB formats the colour as #rrggbb, ignoring alpha.
func (c Color) HexRGB() string { return c.colorful().Hex() }

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// MarshalText implements encoding.TextMarshaler so colours round-trip
// through TOML and JSON as hex strings.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := Hex(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Hex parses #rgb, #rrggbb and #rrggbbaa colour strings.
func Hex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := float32(1)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse alpha of %q: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return fromColorful(c, alpha), nil
}

// MustHex is like Hex but panics on malformed input. It is intended for
// package-level palette definitions.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
}

func fromColorful(c colorful.Color, a float32) Color {
	return Color{float32(c.R), float32(c.G), float32(c.B), a}
}

func to8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}
