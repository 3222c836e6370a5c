// Package theme holds the default styling consulted when a widget's style
// leaves a field unset.
//
// A [Theme] has a set of base values (colours, font sizes, line thickness)
// and optional per-kind overrides in [Theme.Widgets]. Style getters resolve a
// field in this order: the widget's own style, the override for its kind,
// then the base value.
//
// Themes are stored as TOML:
//
//	name = "light"
//	background_color = "#f0f0f0"
//	line_cap = "round"
//
//	[widgets.Rectangle]
//	color = "#3366cc"
package theme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canopy/pkg/color"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/widget"
)

// ErrUnknownLineCap is returned when decoding a line cap name that is not
// "flat" or "round".
var ErrUnknownLineCap = errors.New("unknown line cap")

// LineCap is the end style of lines and outlines.
type LineCap uint8

const (
	CapFlat LineCap = iota
	CapRound
)

// String implements fmt.Stringer.
func (c LineCap) String() string {
	if c == CapRound {
		return "round"
	}
	return "flat"
}

// MarshalText implements encoding.TextMarshaler.
func (c LineCap) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *LineCap) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "flat":
		*c = CapFlat
	case "round":
		*c = CapRound
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLineCap, b)
	}
	return nil
}

// WidgetDefaults overrides base theme values for one widget kind. Nil fields
// fall through to the base value.
type WidgetDefaults struct {
	Color       *color.Color `toml:"color,omitempty"`
	FrameColor  *color.Color `toml:"frame_color,omitempty"`
	Frame       *float64     `toml:"frame,omitempty"`
	Thickness   *float64     `toml:"thickness,omitempty"`
	Cap         *LineCap     `toml:"cap,omitempty"`
	FontSize    *uint32      `toml:"font_size,omitempty"`
	LineSpacing *float64     `toml:"line_spacing,omitempty"`
	TextColor   *color.Color `toml:"text_color,omitempty"`
}

// Theme is the styling context of a toolkit instance.
type Theme struct {
	Name string `toml:"name"`

	BackgroundColor color.Color `toml:"background_color"`
	ShapeColor      color.Color `toml:"shape_color"`
	BorderColor     color.Color `toml:"border_color"`
	BorderWidth     float64     `toml:"border_width"`
	LabelColor      color.Color `toml:"label_color"`

	// Font names a font of the font map; empty means the first font.
	Font           string  `toml:"font,omitempty"`
	FontSizeLarge  uint32  `toml:"font_size_large"`
	FontSizeMedium uint32  `toml:"font_size_medium"`
	FontSizeSmall  uint32  `toml:"font_size_small"`
	LineSpacing    float64 `toml:"line_spacing"`

	LineThickness float64 `toml:"line_thickness"`
	LineCap       LineCap `toml:"line_cap"`

	ScrollbarColor     color.Color `toml:"scrollbar_color"`
	ScrollbarThickness float64     `toml:"scrollbar_thickness"`

	// Widgets holds per-kind overrides keyed by kind name.
	Widgets map[string]WidgetDefaults `toml:"widgets,omitempty"`
}

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Name:               "default",
		BackgroundColor:    color.DarkGray,
		ShapeColor:         color.Charcoal,
		BorderColor:        color.Black,
		BorderWidth:        1,
		LabelColor:         color.White,
		FontSizeLarge:      26,
		FontSizeMedium:     18,
		FontSizeSmall:      12,
		LineSpacing:        1,
		LineThickness:      1,
		LineCap:            CapFlat,
		ScrollbarColor:     color.White.WithAlpha(0.4),
		ScrollbarThickness: 10,
	}
}

// For returns the overrides registered for kind. The zero value is returned
// when there are none.
func (t *Theme) For(kind widget.Kind) WidgetDefaults {
	if t == nil || t.Widgets == nil {
		return WidgetDefaults{}
	}
	return t.Widgets[string(kind)]
}

// Parse decodes a TOML theme on top of [Default]; keys left out keep their
// default values. Unknown keys are rejected.
func Parse(data []byte) (*Theme, error) {
	t := Default()
	md, err := toml.Decode(string(data), t)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTheme, err, "decode theme")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, cerrors.New(cerrors.ErrCodeInvalidTheme, "unknown theme keys: %s", strings.Join(keys, ", "))
	}
	return t, nil
}

// Load reads and parses the theme file at path.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "theme %s", path)
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTheme, err, "read theme %s", path)
	}
	return Parse(data)
}

// Encode writes t as TOML.
func (t *Theme) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(t)
}

// String returns the TOML encoding of t.
func (t *Theme) String() string {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return fmt.Sprintf("theme %q: %v", t.Name, err)
	}
	return buf.String()
}
