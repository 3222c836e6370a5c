// Package primitive defines the widget kinds the extractor knows how to draw
// and the state and style payloads each of them caches.
//
// A widget of one of these kinds stores a [graph.UniqueState] built from the
// kind's state and style types, for example:
//
//	g.CachePostUpdate(widget.PostUpdate{
//	    ID:    id,
//	    State: primitive.Rectangle{Style: primitive.Fill(color.Red)},
//	})
//
// Style fields are optional. Their getters fall back to the theme's override
// for the kind and then to the theme's base value.
package primitive

import (
	"math"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Kinds recognized by the primitive extractor.
const (
	KindRectangle       widget.Kind = "Rectangle"
	KindFramedRectangle widget.Kind = "FramedRectangle"
	KindOval            widget.Kind = "Oval"
	KindPolygon         widget.Kind = "Polygon"
	KindLine            widget.Kind = "Line"
	KindPointPath       widget.Kind = "PointPath"
	KindText            widget.Kind = "Text"
	KindImage           widget.Kind = "Image"
)

// Kinds lists every primitive kind.
var Kinds = []widget.Kind{
	KindRectangle, KindFramedRectangle, KindOval, KindPolygon,
	KindLine, KindPointPath, KindText, KindImage,
}

// OvalResolution is the default number of segments used to tessellate an
// oval.
const OvalResolution = 50

type (
	RectangleState struct{}
	OvalState      struct {
		// Resolution is the number of segments; zero means OvalResolution.
		Resolution int
	}
	PolygonState   struct{ Points []geom.Point }
	LineState      struct{ Start, End geom.Point }
	PointPathState struct{ Points []geom.Point }
)

// Payloads cached by each kind.
type (
	Rectangle       = graph.UniqueState[RectangleState, ShapeStyle]
	FramedRectangle = graph.UniqueState[RectangleState, FramedStyle]
	Oval            = graph.UniqueState[OvalState, ShapeStyle]
	Polygon         = graph.UniqueState[PolygonState, ShapeStyle]
	Line            = graph.UniqueState[LineState, LineStyle]
	PointPath       = graph.UniqueState[PointPathState, LineStyle]
)

// LineStyle styles lines, point paths and shape outlines.
type LineStyle struct {
	Color     *color.Color
	Thickness *float64
	Cap       *theme.LineCap
}

// GetColor resolves the line colour.
func (s LineStyle) GetColor(th *theme.Theme, kind widget.Kind) color.Color {
	if s.Color != nil {
		return *s.Color
	}
	if c := th.For(kind).Color; c != nil {
		return *c
	}
	return th.ShapeColor
}

// GetThickness resolves the line thickness.
func (s LineStyle) GetThickness(th *theme.Theme, kind widget.Kind) geom.Scalar {
	if s.Thickness != nil {
		return *s.Thickness
	}
	if t := th.For(kind).Thickness; t != nil {
		return *t
	}
	return th.LineThickness
}

// GetCap resolves the line cap.
func (s LineStyle) GetCap(th *theme.Theme, kind widget.Kind) theme.LineCap {
	if s.Cap != nil {
		return *s.Cap
	}
	if c := th.For(kind).Cap; c != nil {
		return *c
	}
	return th.LineCap
}

// ShapeStyle either fills a shape or outlines it. A non-nil Outline wins.
type ShapeStyle struct {
	Outline *LineStyle
	Color   *color.Color
}

// Fill returns a style filling the shape with c.
func Fill(c color.Color) ShapeStyle { return ShapeStyle{Color: &c} }

// Outline returns a style drawing the shape's outline with ls.
func Outline(ls LineStyle) ShapeStyle { return ShapeStyle{Outline: &ls} }

// GetColor resolves the fill or outline colour.
func (s ShapeStyle) GetColor(th *theme.Theme, kind widget.Kind) color.Color {
	if s.Outline != nil {
		return s.Outline.GetColor(th, kind)
	}
	if s.Color != nil {
		return *s.Color
	}
	if c := th.For(kind).Color; c != nil {
		return *c
	}
	return th.ShapeColor
}

// FramedStyle styles a framed rectangle.
type FramedStyle struct {
	Color      *color.Color
	Frame      *float64
	FrameColor *color.Color
}

// GetColor resolves the inner colour.
func (s FramedStyle) GetColor(th *theme.Theme, kind widget.Kind) color.Color {
	if s.Color != nil {
		return *s.Color
	}
	if c := th.For(kind).Color; c != nil {
		return *c
	}
	return th.ShapeColor
}

// GetFrame resolves the frame width.
func (s FramedStyle) GetFrame(th *theme.Theme, kind widget.Kind) geom.Scalar {
	if s.Frame != nil {
		return *s.Frame
	}
	if f := th.For(kind).Frame; f != nil {
		return *f
	}
	return th.BorderWidth
}

// GetFrameColor resolves the frame colour.
func (s FramedStyle) GetFrameColor(th *theme.Theme, kind widget.Kind) color.Color {
	if s.FrameColor != nil {
		return *s.FrameColor
	}
	if c := th.For(kind).FrameColor; c != nil {
		return *c
	}
	return th.BorderColor
}

// RectangleOutline appends the closed outline of r to dst, starting and
// ending at the bottom-left corner.
func RectangleOutline(dst []geom.Point, r geom.Rect) []geom.Point {
	l, rt, b, t := r.LRBT()
	return append(dst,
		geom.Point{l, b},
		geom.Point{l, t},
		geom.Point{rt, t},
		geom.Point{rt, b},
		geom.Point{l, b},
	)
}

// OvalPoints appends resolution+1 points around the ellipse inscribed in r
// to dst. The last point repeats the first.
func OvalPoints(dst []geom.Point, r geom.Rect, resolution int) []geom.Point {
	if resolution <= 0 {
		resolution = OvalResolution
	}
	x, y, w, h := r.XYWH()
	hw, hh := w/2, h/2
	step := 2 * math.Pi / geom.Scalar(resolution)
	for i := 0; i <= resolution; i++ {
		t := step * geom.Scalar(i)
		dst = append(dst, geom.Point{x + hw*math.Cos(t), y + hh*math.Sin(t)})
	}
	return dst
}
