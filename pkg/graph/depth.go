package graph

import (
	"cmp"
	"slices"
	"time"

	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/widget"
)

// VisitKind is the variant of a [Visitable].
type VisitKind uint8

const (
	// VisitWidget draws or hit-tests the widget itself.
	VisitWidget VisitKind = iota
	// VisitScrollbar draws or hit-tests the scrollbars of a scrollable
	// widget. It follows the widget's last non-floating descendant.
	VisitScrollbar
)

// String implements fmt.Stringer.
func (k VisitKind) String() string {
	if k == VisitScrollbar {
		return "scrollbar"
	}
	return "widget"
}

// Visitable is one entry of the draw order.
type Visitable struct {
	Kind VisitKind
	Node NodeIndex
	ID   widget.ID
}

type frame struct {
	slot       int32
	start, end int // kids[start:end] are the sorted children
	next       int
}

// DepthOrder returns the order computed by the last call to
// [Graph.UpdateDepthOrder]. The slice is reused by the next update.
func (g *Graph) DepthOrder() []Visitable { return g.order }

// UpdateDepthOrder rebuilds the draw order from the widgets cached in the
// current cycle.
//
// Starting at the root, each widget cached this cycle is appended before its
// children; nodes not cached this cycle end their branch. Siblings are
// visited in descending depth, except that the mouse and keyboard capturing
// widgets always come last among their siblings. A scrollable widget is
// followed by a [VisitScrollbar] entry once its subtree is done. Floating
// widgets are set aside and visited after the main tree, least recently
// interacted first.
func (g *Graph) UpdateDepthOrder(mouse, keyboard *widget.ID) {
	start := time.Now()
	capMouse, capKeyboard := g.captured(mouse), g.captured(keyboard)

	g.order = g.order[:0]
	g.floating = g.floating[:0]

	g.visitByDepth(rootSlot, capMouse, capKeyboard)

	slices.SortStableFunc(g.floating, func(a, b int32) int {
		return cmp.Compare(g.nodes[a].container.Floating.LastInteracted, g.nodes[b].container.Floating.LastInteracted)
	})
	// Floating widgets nested in floating subtrees are appended while
	// draining and visited in discovery order.
	for i := 0; i < len(g.floating); i++ {
		g.visitByDepth(g.floating[i], capMouse, capKeyboard)
	}

	floating := len(g.floating)
	g.floating = g.floating[:0]
	elapsed := time.Since(start)
	observability.Frame().OnDepthOrder(len(g.order), floating, elapsed)
	g.logger.Debug("depth order updated", "entries", len(g.order), "floating", floating, "took", elapsed)
}

func (g *Graph) captured(id *widget.ID) int32 {
	if id == nil {
		return noNode
	}
	if slot, ok := g.ids[*id]; ok {
		return slot
	}
	return noNode
}

// visitByDepth walks the subtree at start with an explicit stack.
func (g *Graph) visitByDepth(start, capMouse, capKeyboard int32) {
	if !g.enter(start, capMouse, capKeyboard) {
		return
	}
	for len(g.frames) > 0 {
		top := len(g.frames) - 1
		f := &g.frames[top]
		if f.next == f.end {
			slot := f.slot
			g.kids = g.kids[:f.start]
			g.frames = g.frames[:top]
			if c, ok := g.container(slot); ok && c.Scrolling != nil {
				g.order = append(g.order, Visitable{Kind: VisitScrollbar, Node: g.index(slot), ID: g.nodes[slot].id})
			}
			continue
		}
		kid := g.kids[f.next]
		f.next++
		if c, ok := g.container(kid); ok && c.Floating != nil {
			g.floating = append(g.floating, kid)
			continue
		}
		g.enter(kid, capMouse, capKeyboard)
	}
}

// enter records slot in the order and pushes a frame for its sorted
// children. It reports false when the branch ends at slot.
func (g *Graph) enter(slot, capMouse, capKeyboard int32) bool {
	n := &g.nodes[slot]
	switch {
	case n.kind == NodeRoot:
	case n.kind == NodeWidget && n.container.IsUpdated:
		g.order = append(g.order, Visitable{Kind: VisitWidget, Node: g.index(slot), ID: n.id})
	default:
		return false
	}

	start := len(g.kids)
	g.kids = append(g.kids, n.out[EdgeChild]...)
	slices.SortStableFunc(g.kids[start:], func(a, b int32) int {
		ca := a == capMouse || a == capKeyboard
		cb := b == capMouse || b == capKeyboard
		if ca != cb {
			if ca {
				return 1
			}
			return -1
		}
		return cmp.Compare(g.depth(b), g.depth(a))
	})
	g.frames = append(g.frames, frame{slot: slot, start: start, end: len(g.kids), next: start})
	return true
}

func (g *Graph) depth(slot int32) float64 {
	if c, ok := g.container(slot); ok {
		return c.Depth
	}
	return 0
}
