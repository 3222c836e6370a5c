// Package scene reads declarative widget scenes from TOML and sets them on a
// [ui.Ui], standing in for a widget layer.
//
// A scene lists its widgets in declaration order; a widget may only name
// widgets declared before it as its parent or relative_to target:
//
//	[window]
//	width = 400
//	height = 300
//
//	[[widget]]
//	name = "list"
//	kind = "Rectangle"
//	w = 200
//	h = 200
//	crop_kids = true
//	[widget.scroll.vertical]
//	offset = 20
//	max_offset = 100
//	total_length = 600
//	[widget.style]
//	color = "#333333"
//
//	[[widget]]
//	name = "item"
//	kind = "Text"
//	parent = "list"
//	y = 80
//	w = 180
//	h = 20
//	[widget.state]
//	text = "first"
//
// Image widgets show files declared in [[image]] tables (id and path),
// decoded by [Scene.LoadImages].
//
// Positions are window coordinates of the widget's centre, before scrolling
// is applied.
package scene

import (
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canopy/pkg/color"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

// DefaultWindow is used when the scene has no [window] table.
var DefaultWindow = Window{Width: 640, Height: 480}

// Scene is a parsed scene file.
type Scene struct {
	Window  Window      `toml:"window"`
	Capture Capture     `toml:"capture"`
	Widgets []Widget    `toml:"widget"`
	Images  []ImageFile `toml:"image"`

	ids   map[string]widget.ID
	names map[widget.ID]string
}

// Window is the size of the window the scene is drawn in.
type Window struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Dim returns the window dimensions.
func (w Window) Dim() geom.Dimensions { return geom.Dimensions{w.Width, w.Height} }

// Capture names the widgets capturing the mouse and the keyboard.
type Capture struct {
	Mouse    string `toml:"mouse,omitempty"`
	Keyboard string `toml:"keyboard,omitempty"`
}

// Widget is one [[widget]] entry.
type Widget struct {
	Name       string      `toml:"name"`
	Kind       widget.Kind `toml:"kind"`
	Parent     string      `toml:"parent,omitempty"`
	RelativeTo string      `toml:"relative_to,omitempty"`

	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
	W     float64 `toml:"w"`
	H     float64 `toml:"h"`
	Depth float64 `toml:"depth,omitempty"`

	CropKids bool    `toml:"crop_kids,omitempty"`
	KidPad   float64 `toml:"kid_pad,omitempty"`
	// Floating is the last-interacted stamp of an overlay; zero means the
	// widget is not floating.
	Floating uint64  `toml:"floating,omitempty"`
	Scroll   *Scroll `toml:"scroll,omitempty"`

	Style Style `toml:"style"`
	State State `toml:"state"`
}

// Rect returns the declared rectangle.
func (w *Widget) Rect() geom.Rect {
	return geom.RectFromXYDim(geom.Point{w.X, w.Y}, geom.Dimensions{w.W, w.H})
}

// Scroll makes a widget scrollable.
type Scroll struct {
	Vertical   *Bar    `toml:"vertical,omitempty"`
	Horizontal *Bar    `toml:"horizontal,omitempty"`
	Thickness  float64 `toml:"thickness,omitempty"`
}

// Bar is the state of one scroll axis.
type Bar struct {
	Offset      float64 `toml:"offset"`
	MaxOffset   float64 `toml:"max_offset"`
	TotalLength float64 `toml:"total_length"`
}

// Style holds the style keys of every kind; each kind reads the ones it
// knows.
type Style struct {
	Color       *color.Color   `toml:"color,omitempty"`
	Outline     bool           `toml:"outline,omitempty"`
	Thickness   *float64       `toml:"thickness,omitempty"`
	Cap         *theme.LineCap `toml:"cap,omitempty"`
	Frame       *float64       `toml:"frame,omitempty"`
	FrameColor  *color.Color   `toml:"frame_color,omitempty"`
	FontSize    *uint32        `toml:"font_size,omitempty"`
	LineSpacing *float64       `toml:"line_spacing,omitempty"`
	Align       *text.Align    `toml:"align,omitempty"`
	Wrap        bool           `toml:"wrap,omitempty"`
	Font        string         `toml:"font,omitempty"`
}

// State holds the state keys of every kind.
type State struct {
	Text       string       `toml:"text,omitempty"`
	Points     []geom.Point `toml:"points,omitempty"`
	Start      *geom.Point  `toml:"start,omitempty"`
	End        *geom.Point  `toml:"end,omitempty"`
	Resolution int          `toml:"resolution,omitempty"`
	Image      uint32       `toml:"image,omitempty"`
	// SrcRect is x, y, width and height in image pixels from the top-left.
	SrcRect *[4]float64 `toml:"src_rect,omitempty"`
}

// Parse decodes and validates a TOML scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidScene, err, "decode scene")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, cerrors.New(cerrors.ErrCodeInvalidScene, "unknown scene keys: %s", strings.Join(keys, ", "))
	}
	if s.Window == (Window{}) {
		s.Window = DefaultWindow
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "read scene %s", path)
	}
	return Parse(data)
}

// Validate checks names, kinds, references and kind-specific state.
func (s *Scene) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidScene, "window must have a positive size, got %vx%v", s.Window.Width, s.Window.Height)
	}

	seen := make(map[string]bool, len(s.Widgets))
	for i := range s.Widgets {
		w := &s.Widgets[i]
		if err := cerrors.ValidateWidgetName(w.Name); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidScene, err, "widget %d", i)
		}
		if seen[w.Name] {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "duplicate widget %q", w.Name)
		}
		if !slices.Contains(primitive.Kinds, w.Kind) && w.Kind != widget.KindEmpty {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "widget %q: unknown kind %q", w.Name, w.Kind)
		}
		for _, ref := range []string{w.Parent, w.RelativeTo} {
			if ref != "" && !seen[ref] {
				return cerrors.New(cerrors.ErrCodeInvalidScene, "widget %q refers to %q, which is not declared before it", w.Name, ref)
			}
		}
		if w.W < 0 || w.H < 0 {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "widget %q has negative size", w.Name)
		}
		if err := w.validateState(); err != nil {
			return err
		}
		seen[w.Name] = true
	}

	for _, name := range []string{s.Capture.Mouse, s.Capture.Keyboard} {
		if name != "" && !seen[name] {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "capture names unknown widget %q", name)
		}
	}
	return s.validateImages()
}

func (w *Widget) validateState() error {
	switch w.Kind {
	case primitive.KindPolygon:
		if len(w.State.Points) < 3 {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "polygon %q needs at least 3 points", w.Name)
		}
	case primitive.KindPointPath:
		if len(w.State.Points) < 2 {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "point path %q needs at least 2 points", w.Name)
		}
	case primitive.KindLine:
		if w.State.Start == nil || w.State.End == nil {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "line %q needs start and end", w.Name)
		}
	case primitive.KindOval:
		if w.State.Resolution < 0 {
			return cerrors.New(cerrors.ErrCodeInvalidScene, "oval %q has negative resolution", w.Name)
		}
	}
	return nil
}

// ID returns the widget id bound to name by [Scene.Apply].
func (s *Scene) ID(name string) (widget.ID, bool) {
	id, ok := s.ids[name]
	return id, ok
}

// Name returns the scene name of a widget id bound by [Scene.Apply], or the
// id's string form when it is not a scene widget.
func (s *Scene) Name(id widget.ID) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return id.String()
}
