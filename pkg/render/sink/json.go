package sink

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	frameID string
}

// WithFrameID records id as the frame identifier instead of a random UUID.
func WithFrameID(id string) JSONOption { return func(r *jsonRenderer) { r.frameID = id } }

type jsonOutput struct {
	Frame      string          `json:"frame"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Primitives []jsonPrimitive `json:"primitives"`
}

type jsonPrimitive struct {
	Widget    uint32       `json:"widget"`
	Kind      string       `json:"kind"`
	Rect      jsonRect     `json:"rect"`
	Scissor   jsonRect     `json:"scissor"`
	Color     string       `json:"color,omitempty"`
	Points    [][2]float64 `json:"points,omitempty"`
	Thickness float64      `json:"thickness,omitempty"`
	Cap       string       `json:"cap,omitempty"`
	Image     *uint32      `json:"image,omitempty"`
	Tint      string       `json:"tint,omitempty"`
	Text      string       `json:"text,omitempty"`
	Glyphs    int          `json:"glyphs,omitempty"`
	FontSize  uint32       `json:"font_size,omitempty"`
}

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RenderJSON exports every primitive of src as a pretty-printed JSON
// document. Rectangles are given by centre and dimensions in the toolkit's
// centre-origin, y-up space.
func RenderJSON(src Source, size geom.Dimensions, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.frameID == "" {
		r.frameID = uuid.NewString()
	}

	out := jsonOutput{
		Frame:      r.frameID,
		Width:      size[0],
		Height:     size[1],
		Primitives: []jsonPrimitive{},
	}
	for p, ok := src.Next(); ok; p, ok = src.Next() {
		out.Primitives = append(out.Primitives, toJSON(p))
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSON(p render.Primitive) jsonPrimitive {
	jp := jsonPrimitive{
		Widget:  uint32(p.ID),
		Kind:    p.Kind.String(),
		Rect:    rectJSON(p.Rect),
		Scissor: rectJSON(p.Scissor),
	}
	switch p.Kind {
	case render.KindRectangle:
		jp.Color = p.Color.Hex()
	case render.KindPolygon:
		jp.Color = p.Color.Hex()
		jp.Points = pointsJSON(p.Points)
	case render.KindLines:
		jp.Color = p.Color.Hex()
		jp.Points = pointsJSON(p.Points)
		jp.Thickness = p.Thickness
		jp.Cap = p.Cap.String()
	case render.KindImage:
		id := uint32(p.Image)
		jp.Image = &id
		if p.Tint != nil {
			jp.Tint = p.Tint.Hex()
		}
	case render.KindText:
		jp.Color = p.Color.Hex()
		runes := make([]rune, len(p.Glyphs))
		for i, g := range p.Glyphs {
			runes[i] = g.Rune
		}
		jp.Text = string(runes)
		jp.Glyphs = len(p.Glyphs)
		jp.FontSize = p.FontSize
	}
	return jp
}

func rectJSON(r geom.Rect) jsonRect {
	x, y, w, h := r.XYWH()
	return jsonRect{X: x, Y: y, W: w, H: h}
}

func pointsJSON(pts []geom.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = p
	}
	return out
}
