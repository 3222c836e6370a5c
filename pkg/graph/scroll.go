package graph

import (
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/widget"
)

// ScrollOffset returns the offset at which the widget must be drawn to
// account for every scrollable ancestor. Unknown ids yield the zero offset.
//
// For each ancestor step the walk stops early if the widget is positioned,
// directly or through a chain of relative positions, against a sibling
// under the same parent: that sibling's position already includes the
// parent's scroll. Otherwise a scrollable parent contributes
// fraction × (total length − visible kid-area length) per axis; vertical
// scroll is added to y and horizontal scroll is subtracted from x.
func (g *Graph) ScrollOffset(id widget.ID) geom.Point {
	var offset geom.Point
	slot, ok := g.ids[id]
	if !ok {
		return offset
	}

	for {
		parent := g.nodes[slot].in[EdgeChild]
		if parent == noNode {
			return offset
		}

		for rel := g.nodes[slot].in[EdgeRelativePosition]; rel != noNode; rel = g.nodes[rel].in[EdgeRelativePosition] {
			if g.nodes[rel].in[EdgeChild] == parent {
				return offset
			}
		}

		slot = parent
		c, ok := g.container(slot)
		if !ok || c.Scrolling == nil {
			continue
		}
		kid := c.KidArea.Rect
		if bar := c.Scrolling.Vertical; bar != nil {
			offset[1] += bar.Fraction() * (bar.TotalLength - kid.H())
		}
		if bar := c.Scrolling.Horizontal; bar != nil {
			offset[0] -= bar.Fraction() * (bar.TotalLength - kid.W())
		}
	}
}
