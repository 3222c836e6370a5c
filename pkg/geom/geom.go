// Package geom provides the 2D value types shared by the widget graph, the
// primitive extractor and the render sinks.
//
// All coordinates use a centre-origin, y-up space: the point (0, 0) is the
// middle of the window, x grows to the right and y grows upwards. Sinks that
// target image space (y-down, top-left origin) convert with [Rect.ToImage]
// and [Point.ToImage].
package geom

import "math"

// Scalar is the numeric type used for every coordinate and length.
type Scalar = float64

// Point is an (x, y) position.
type Point [2]Scalar

// Dimensions is a (width, height) pair.
type Dimensions [2]Scalar

// Add returns p translated by o.
func (p Point) Add(o Point) Point { return Point{p[0] + o[0], p[1] + o[1]} }

// Sub returns p minus o.
func (p Point) Sub(o Point) Point { return Point{p[0] - o[0], p[1] - o[1]} }

// ToImage converts p into top-left-origin, y-down coordinates for a canvas
// of the given dimensions.
func (p Point) ToImage(canvas Dimensions) Point {
	return Point{p[0] + canvas[0]/2, canvas[1]/2 - p[1]}
}

// Range is a one dimensional interval. Start may be greater than End; use
// [Range.Undirected] to normalise.
type Range struct {
	Start, End Scalar
}

// RangeFromPosLen returns the range of the given length centred on pos.
func RangeFromPosLen(pos, length Scalar) Range {
	half := length / 2
	return Range{Start: pos - half, End: pos + half}
}

// Undirected returns the range with Start <= End.
func (r Range) Undirected() Range {
	if r.Start > r.End {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Len returns the absolute length of the range.
func (r Range) Len() Scalar { return math.Abs(r.End - r.Start) }

// Middle returns the centre of the range.
func (r Range) Middle() Scalar { return (r.Start + r.End) / 2 }

// Contains reports whether v lies within the range (inclusive).
func (r Range) Contains(v Scalar) bool {
	u := r.Undirected()
	return v >= u.Start && v <= u.End
}

// Overlap returns the intersection of two ranges. The second result is false
// when the ranges do not overlap.
func (r Range) Overlap(o Range) (Range, bool) {
	a, b := r.Undirected(), o.Undirected()
	start := math.Max(a.Start, b.Start)
	end := math.Min(a.End, b.End)
	if end < start {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Pad shrinks the range by pad at both ends, never past its middle.
func (r Range) Pad(pad Scalar) Range {
	u := r.Undirected()
	if u.Len() < pad*2 {
		m := u.Middle()
		return Range{Start: m, End: m}
	}
	return Range{Start: u.Start + pad, End: u.End - pad}
}

// Rect is an axis-aligned rectangle described by its x and y ranges.
type Rect struct {
	X, Y Range
}

// RectFromXYDim returns the rectangle centred on xy with the given dimensions.
func RectFromXYDim(xy Point, dim Dimensions) Rect {
	return Rect{
		X: RangeFromPosLen(xy[0], dim[0]),
		Y: RangeFromPosLen(xy[1], dim[1]),
	}
}

// RectFromCorners returns the rectangle spanning the two corners.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X: Range{Start: a[0], End: b[0]}.Undirected(),
		Y: Range{Start: a[1], End: b[1]}.Undirected(),
	}
}

// XY returns the centre of the rectangle.
func (r Rect) XY() Point { return Point{r.X.Middle(), r.Y.Middle()} }

// Dim returns the width and height.
func (r Rect) Dim() Dimensions { return Dimensions{r.X.Len(), r.Y.Len()} }

// W returns the width.
func (r Rect) W() Scalar { return r.X.Len() }

// H returns the height.
func (r Rect) H() Scalar { return r.Y.Len() }

// Left returns the minimum x.
func (r Rect) Left() Scalar { return r.X.Undirected().Start }

// Right returns the maximum x.
func (r Rect) Right() Scalar { return r.X.Undirected().End }

// Bottom returns the minimum y.
func (r Rect) Bottom() Scalar { return r.Y.Undirected().Start }

// Top returns the maximum y.
func (r Rect) Top() Scalar { return r.Y.Undirected().End }

// LRBT returns left, right, bottom and top edges.
func (r Rect) LRBT() (l, rt, b, t Scalar) {
	return r.Left(), r.Right(), r.Bottom(), r.Top()
}

// XYWH returns centre x, centre y, width and height.
func (r Rect) XYWH() (x, y, w, h Scalar) {
	xy, dim := r.XY(), r.Dim()
	return xy[0], xy[1], dim[0], dim[1]
}

// IsOver reports whether p lies within the rectangle (edges included).
func (r Rect) IsOver(p Point) bool {
	return r.X.Contains(p[0]) && r.Y.Contains(p[1])
}

// Overlap returns the intersection of two rectangles. The second result is
// false when they do not intersect.
func (r Rect) Overlap(o Rect) (Rect, bool) {
	x, ok := r.X.Overlap(o.X)
	if !ok {
		return Rect{}, false
	}
	y, ok := r.Y.Overlap(o.Y)
	if !ok {
		return Rect{}, false
	}
	return Rect{X: x, Y: y}, true
}

// Pad shrinks the rectangle by pad on every side.
func (r Rect) Pad(pad Scalar) Rect {
	return Rect{X: r.X.Pad(pad), Y: r.Y.Pad(pad)}
}

// Shift translates the rectangle by the given offset.
func (r Rect) Shift(by Point) Rect {
	return Rect{
		X: Range{Start: r.X.Start + by[0], End: r.X.End + by[0]},
		Y: Range{Start: r.Y.Start + by[1], End: r.Y.End + by[1]},
	}
}

// IsEmpty reports whether the rectangle has zero area.
func (r Rect) IsEmpty() bool { return r.W() == 0 || r.H() == 0 }

// ToImage converts the rectangle into image space for a canvas of the given
// dimensions and returns its top-left corner, width and height.
func (r Rect) ToImage(canvas Dimensions) (x, y, w, h Scalar) {
	tl := Point{r.Left(), r.Top()}.ToImage(canvas)
	return tl[0], tl[1], r.W(), r.H()
}
