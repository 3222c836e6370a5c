package widget

import "github.com/matzehuels/canopy/pkg/geom"

// ScrollBar is the state of one scroll axis.
type ScrollBar struct {
	// Offset is the current scroll position in [0, MaxOffset].
	Offset geom.Scalar
	// MaxOffset is the scroll position at the end of the content.
	MaxOffset geom.Scalar
	// TotalLength is the length of the scrolled content along this axis.
	TotalLength geom.Scalar
}

// Fraction returns Offset/MaxOffset, or 0 when the bar cannot scroll.
func (b ScrollBar) Fraction() geom.Scalar {
	if b.MaxOffset == 0 {
		return 0
	}
	return b.Offset / b.MaxOffset
}

// ScrollState marks a widget as a scroll region. A nil axis does not scroll.
type ScrollState struct {
	Vertical   *ScrollBar
	Horizontal *ScrollBar
	// Thickness is the width of the scrollbar tracks.
	Thickness geom.Scalar
}

// VerticalRects returns the track and handle of the vertical bar, which runs
// along the right edge of the kid area.
func (s *ScrollState) VerticalRects(kid geom.Rect) (track, handle geom.Rect, ok bool) {
	if s == nil || s.Vertical == nil {
		return geom.Rect{}, geom.Rect{}, false
	}
	l, r, b, t := kid.LRBT()
	track = geom.RectFromCorners(geom.Point{max(r-s.Thickness, l), b}, geom.Point{r, t})

	length := handleLength(kid.H(), s.Vertical.TotalLength)
	top := t - s.Vertical.Fraction()*(kid.H()-length)
	handle = geom.Rect{
		X: track.X,
		Y: geom.Range{Start: top - length, End: top},
	}
	return track, handle, true
}

// HorizontalRects returns the track and handle of the horizontal bar, which
// runs along the bottom edge of the kid area.
func (s *ScrollState) HorizontalRects(kid geom.Rect) (track, handle geom.Rect, ok bool) {
	if s == nil || s.Horizontal == nil {
		return geom.Rect{}, geom.Rect{}, false
	}
	l, r, b, t := kid.LRBT()
	track = geom.RectFromCorners(geom.Point{l, b}, geom.Point{r, min(b+s.Thickness, t)})

	length := handleLength(kid.W(), s.Horizontal.TotalLength)
	left := l + s.Horizontal.Fraction()*(kid.W()-length)
	handle = geom.Rect{
		X: geom.Range{Start: left, End: left + length},
		Y: track.Y,
	}
	return track, handle, true
}

// IsOverScrollbar reports whether p lies on either scrollbar track of a
// widget with the given scroll state and kid area.
func IsOverScrollbar(s *ScrollState, kid geom.Rect, p geom.Point) bool {
	if track, _, ok := s.VerticalRects(kid); ok && track.IsOver(p) {
		return true
	}
	if track, _, ok := s.HorizontalRects(kid); ok && track.IsOver(p) {
		return true
	}
	return false
}

func handleLength(visible, total geom.Scalar) geom.Scalar {
	if total <= visible || total <= 0 {
		return visible
	}
	return visible * visible / total
}
