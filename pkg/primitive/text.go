package primitive

import (
	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

type (
	TextState struct {
		String    string
		LineInfos []text.LineInfo
	}
	ImageState struct {
		Image ImageID
		// SrcRect selects a region of the source image, in image pixels.
		SrcRect *geom.Rect
	}
)

// ImageID refers to an image held by the rendering backend.
type ImageID uint32

// Payloads cached by the text and image kinds.
type (
	Text  = graph.UniqueState[TextState, TextStyle]
	Image = graph.UniqueState[ImageState, ImageStyle]
)

// TextStyle styles a block of text.
type TextStyle struct {
	Color       *color.Color
	FontSize    *uint32
	FontID      *text.FontID
	LineSpacing *float64
	Align       *text.Align
	// Wrap breaks lines at the widget's width.
	Wrap bool
}

// GetColor resolves the text colour.
func (s TextStyle) GetColor(th *theme.Theme, kind widget.Kind) color.Color {
	if s.Color != nil {
		return *s.Color
	}
	if c := th.For(kind).TextColor; c != nil {
		return *c
	}
	return th.LabelColor
}

// GetFontSize resolves the font size in pixels.
func (s TextStyle) GetFontSize(th *theme.Theme, kind widget.Kind) uint32 {
	if s.FontSize != nil {
		return *s.FontSize
	}
	if f := th.For(kind).FontSize; f != nil {
		return *f
	}
	return th.FontSizeMedium
}

// GetLineSpacing resolves the spacing between lines in pixels.
func (s TextStyle) GetLineSpacing(th *theme.Theme, kind widget.Kind) geom.Scalar {
	if s.LineSpacing != nil {
		return *s.LineSpacing
	}
	if l := th.For(kind).LineSpacing; l != nil {
		return *l
	}
	return th.LineSpacing
}

// GetAlign resolves the horizontal alignment of lines.
func (s TextStyle) GetAlign() text.Align {
	if s.Align != nil {
		return *s.Align
	}
	return text.AlignStart
}

// GetFontID resolves the font: the style's font, the theme's named font,
// then the first font of the map. It reports false when none is available.
func (s TextStyle) GetFontID(th *theme.Theme, fonts *text.Map) (text.FontID, bool) {
	if s.FontID != nil {
		return *s.FontID, true
	}
	if th != nil && th.Font != "" && fonts != nil {
		if id, ok := fonts.Lookup(th.Font); ok {
			return id, true
		}
	}
	return fonts.First()
}

// NewText lays out s within width and returns the payload of a text widget.
// width is only used when style.Wrap is set.
func NewText(s string, style TextStyle, th *theme.Theme, fonts *text.Map, width geom.Scalar) (Text, error) {
	id, ok := style.GetFontID(th, fonts)
	if !ok {
		return Text{}, text.ErrUnknownFont
	}
	face, err := fonts.Face(id, style.GetFontSize(th, KindText))
	if err != nil {
		return Text{}, err
	}
	if !style.Wrap {
		width = 0
	}
	return Text{
		State: TextState{String: s, LineInfos: text.Lines(face, s, width)},
		Style: style,
	}, nil
}

// ImageStyle tints an image.
type ImageStyle struct {
	Color *color.Color
}
