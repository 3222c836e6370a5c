package graph

import (
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/widget"
)

// PickWidget returns the frontmost widget under p according to the current
// draw order. Scrollbar entries hit when p is over one of their tracks and
// resolve to the owning widget.
func (g *Graph) PickWidget(p geom.Point) (widget.ID, bool) {
	for i := len(g.order) - 1; i >= 0; i-- {
		v := g.order[i]
		c, ok := g.WidgetAt(v.Node)
		if !ok {
			continue
		}
		switch v.Kind {
		case VisitWidget:
			if c.Rect.IsOver(p) {
				return v.ID, true
			}
		case VisitScrollbar:
			if c.Scrolling != nil && widget.IsOverScrollbar(c.Scrolling, c.KidArea.Rect, p) {
				return v.ID, true
			}
		}
	}
	return 0, false
}

// PickTopScrollable returns the frontmost scrollable widget whose rectangle
// contains p.
func (g *Graph) PickTopScrollable(p geom.Point) (widget.ID, bool) {
	for i := len(g.order) - 1; i >= 0; i-- {
		v := g.order[i]
		if v.Kind != VisitWidget {
			continue
		}
		if c, ok := g.WidgetAt(v.Node); ok && c.Scrolling != nil && c.Rect.IsOver(p) {
			return v.ID, true
		}
	}
	return 0, false
}

// Bounds are the edges of a bounding box relative to a target point.
type Bounds struct {
	Top, Bottom, Left, Right geom.Scalar
}

func (b Bounds) union(o Bounds) Bounds {
	return Bounds{
		Top:    max(b.Top, o.Top),
		Bottom: min(b.Bottom, o.Bottom),
		Left:   min(b.Left, o.Left),
		Right:  max(b.Right, o.Right),
	}
}

// BoundingBox folds the rectangles of id's widget subtree into one box,
// expressed relative to target. When target is nil the centre of id's
// rectangle (or kid area, with useKidArea) is used. With includeSelf false
// only descendants count, and the result is false if there are none.
// Placeholder nodes and their subtrees are ignored.
func (g *Graph) BoundingBox(id widget.ID, includeSelf bool, target *geom.Point, useKidArea bool) (Bounds, bool) {
	slot, ok := g.ids[id]
	if !ok {
		return Bounds{}, false
	}
	c, ok := g.container(slot)
	if !ok {
		return Bounds{}, false
	}

	self := c.Rect
	if useKidArea {
		self = c.KidArea.Rect
	}
	origin := self.XY()
	if target != nil {
		origin = *target
	}
	relative := func(r geom.Rect) Bounds {
		s := r.Shift(geom.Point{-origin[0], -origin[1]})
		return Bounds{Top: s.Top(), Bottom: s.Bottom(), Left: s.Left(), Right: s.Right()}
	}

	var out Bounds
	found := false
	if includeSelf {
		out, found = relative(self), true
	}

	g.stack = append(g.stack[:0], g.nodes[slot].out[EdgeChild]...)
	for len(g.stack) > 0 {
		n := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]
		kid, ok := g.container(n)
		if !ok {
			continue
		}
		b := relative(kid.Rect)
		if found {
			out = out.union(b)
		} else {
			out, found = b, true
		}
		g.stack = append(g.stack, g.nodes[n].out[EdgeChild]...)
	}
	return out, found
}

// VisibleArea returns the part of the widget's rectangle left after cropping
// by the kid areas of every ancestor that crops its children. The second
// result is false when nothing is left.
func (g *Graph) VisibleArea(idx NodeIndex) (geom.Rect, bool) {
	slot, ok := g.slot(idx)
	if !ok {
		return geom.Rect{}, false
	}
	c, ok := g.container(slot)
	if !ok {
		return geom.Rect{}, false
	}
	area := c.Rect
	for p := g.nodes[slot].in[EdgeChild]; p != noNode; p = g.nodes[p].in[EdgeChild] {
		pc, ok := g.container(p)
		if !ok || !pc.CropKids {
			continue
		}
		if area, ok = area.Overlap(pc.KidArea.Rect); !ok {
			return geom.Rect{}, false
		}
	}
	return area, true
}
