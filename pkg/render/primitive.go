package render

import (
	"slices"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Kind is the drawable variant of a [Primitive].
type Kind uint8

const (
	// KindRectangle is a filled axis-aligned rectangle covering Rect.
	KindRectangle Kind = iota
	// KindPolygon is a filled polygon through Points.
	KindPolygon
	// KindLines is a poly-line through Points with Thickness and Cap.
	KindLines
	// KindImage draws Image into Rect, optionally tinted and cropped to
	// SrcRect.
	KindImage
	// KindText is a run of positioned Glyphs in Font at FontSize.
	KindText
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindPolygon:
		return "polygon"
	case KindLines:
		return "lines"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Primitive is one drawable unit. Fields beyond Kind, ID, Scissor and Rect
// are only meaningful for the kinds that name them.
type Primitive struct {
	Kind Kind
	// ID is the widget the primitive was produced for.
	ID widget.ID
	// Scissor is the clip rectangle to apply while drawing.
	Scissor geom.Rect
	// Rect is the widget's bounding rectangle, or the part drawn for
	// multi-primitive widgets such as frames and scrollbars.
	Rect geom.Rect

	Color color.Color

	Points    []geom.Point
	Thickness geom.Scalar
	Cap       theme.LineCap

	Image   primitive.ImageID
	Tint    *color.Color
	SrcRect *geom.Rect

	Glyphs   []text.PositionedGlyph
	Font     text.FontID
	FontSize uint32
}

// Clone returns a copy of p that does not share the extractor's buffers.
func (p Primitive) Clone() Primitive {
	p.Points = slices.Clone(p.Points)
	p.Glyphs = slices.Clone(p.Glyphs)
	return p
}
