package text

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/canopy/pkg/geom"
)

// Align positions a line within its bounds along one axis.
type Align uint8

const (
	AlignStart Align = iota
	AlignMiddle
	AlignEnd
)

// String implements fmt.Stringer.
func (a Align) String() string {
	switch a {
	case AlignMiddle:
		return "middle"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText accepts start/left, middle/center and end/right.
func (a *Align) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "start", "left":
		*a = AlignStart
	case "middle", "center", "centre":
		*a = AlignMiddle
	case "end", "right":
		*a = AlignEnd
	default:
		return fmt.Errorf("unknown alignment %q", b)
	}
	return nil
}

// LineInfo describes one laid out line as the byte range s[Start:End] of the
// source string and its advance width in pixels.
type LineInfo struct {
	Start, End int
	Width      geom.Scalar
}

// Text returns the line's slice of s.
func (l LineInfo) Text(s string) string { return s[l.Start:l.End] }

// Lines breaks s at newlines and, when maxWidth is positive, wraps each line
// at the last space that keeps it within maxWidth. Words wider than
// maxWidth are broken between characters.
func Lines(face font.Face, s string, maxWidth geom.Scalar) []LineInfo {
	var out []LineInfo
	for start := 0; start <= len(s); {
		end, next := len(s), len(s)+1
		if nl := strings.IndexByte(s[start:], '\n'); nl >= 0 {
			end = start + nl
			next = end + 1
		}
		out = wrap(out, face, s, start, end, maxWidth)
		start = next
	}
	return out
}

func wrap(out []LineInfo, face font.Face, s string, start, end int, maxWidth geom.Scalar) []LineInfo {
	limit := fixed.Int26_6(maxWidth * 64)
	lineStart := start
	var width fixed.Int26_6
	brk, brkWidth := -1, fixed.Int26_6(0)
	prev := rune(-1)

	for i, r := range s[start:end] {
		i += start
		adv, _ := face.GlyphAdvance(r)
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		if r == ' ' {
			brk, brkWidth = i, width
		}
		if maxWidth > 0 && r != ' ' && i > lineStart && width+adv > limit {
			if brk > lineStart {
				out = append(out, LineInfo{Start: lineStart, End: brk, Width: toScalar(brkWidth)})
				lineStart = brk + 1
				width = font.MeasureString(face, s[lineStart:i])
			} else {
				out = append(out, LineInfo{Start: lineStart, End: i, Width: toScalar(width)})
				lineStart = i
				width = 0
			}
			brk = -1
			adv, _ = face.GlyphAdvance(r)
		}
		width += adv
		prev = r
	}
	return append(out, LineInfo{Start: lineStart, End: end, Width: toScalar(width)})
}

// LineRects appends one rectangle per line to dst. Lines are fontSize high,
// stacked downwards from the top of bounds with lineSpacing pixels between
// them, and aligned horizontally within bounds by xAlign.
func LineRects(dst []geom.Rect, infos []LineInfo, fontSize uint32, lineSpacing geom.Scalar, bounds geom.Rect, xAlign Align) []geom.Rect {
	h := geom.Scalar(fontSize)
	top := bounds.Top()
	l, r := bounds.Left(), bounds.Right()
	for _, info := range infos {
		var x0 geom.Scalar
		switch xAlign {
		case AlignMiddle:
			x0 = (l+r)/2 - info.Width/2
		case AlignEnd:
			x0 = r - info.Width
		default:
			x0 = l
		}
		dst = append(dst, geom.Rect{
			X: geom.Range{Start: x0, End: x0 + info.Width},
			Y: geom.Range{Start: top - h, End: top},
		})
		top -= h + lineSpacing
	}
	return dst
}

// PositionedGlyph is a glyph placed on its baseline origin in centre-origin,
// y-up coordinates.
type PositionedGlyph struct {
	Rune    rune
	Pos     geom.Point
	Advance geom.Scalar
}

// Layout appends the glyphs of line to dst, starting at the top-left corner
// origin of the line's rectangle.
func Layout(dst []PositionedGlyph, face font.Face, line string, origin geom.Point) []PositionedGlyph {
	baseline := origin[1] - toScalar(face.Metrics().Ascent)
	var x fixed.Int26_6
	prev := rune(-1)
	for _, r := range line {
		if prev >= 0 {
			x += face.Kern(prev, r)
		}
		adv, _ := face.GlyphAdvance(r)
		dst = append(dst, PositionedGlyph{
			Rune:    r,
			Pos:     geom.Point{origin[0] + toScalar(x), baseline},
			Advance: toScalar(adv),
		})
		x += adv
		prev = r
	}
	return dst
}

func toScalar(v fixed.Int26_6) geom.Scalar { return geom.Scalar(v) / 64 }
