package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/widget"
)

// EdgeKind is the variant of an edge.
type EdgeKind uint8

const (
	// EdgeChild connects a parent to one of its children.
	EdgeChild EdgeKind = iota
	// EdgeRelativePosition connects a positioning target to a widget that was
	// positioned against it.
	EdgeRelativePosition
)

// String implements fmt.Stringer.
func (k EdgeKind) String() string {
	if k == EdgeRelativePosition {
		return "relative_position"
	}
	return "child"
}

// Edge is a directed edge between two nodes.
type Edge struct {
	From, To NodeIndex
	Kind     EdgeKind
}

// Edges returns a snapshot of every edge, grouped by source node in slot
// order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for from := range g.nodes {
		for k := range edgeKinds {
			for _, to := range g.nodes[from].out[k] {
				edges = append(edges, Edge{
					From: g.index(int32(from)),
					To:   g.index(to),
					Kind: EdgeKind(k),
				})
			}
		}
	}
	return edges
}

// Parent returns the widget id of id's parent. The second result is false
// when id is unknown, has no parent, or is parented directly to the root or
// to an unregistered placeholder.
func (g *Graph) Parent(id widget.ID) (widget.ID, bool) {
	slot, ok := g.ids[id]
	if !ok {
		return 0, false
	}
	p := g.nodes[slot].in[EdgeChild]
	if p == noNode || !g.nodes[p].hasID {
		return 0, false
	}
	return g.nodes[p].id, true
}

// ParentIndex returns the handle of idx's parent node, which may be the root.
func (g *Graph) ParentIndex(idx NodeIndex) (NodeIndex, bool) {
	slot, ok := g.slot(idx)
	if !ok {
		return NodeIndex{}, false
	}
	p := g.nodes[slot].in[EdgeChild]
	if p == noNode {
		return NodeIndex{}, false
	}
	return g.index(p), true
}

// RelativeTarget returns the id of the widget that id was positioned against.
func (g *Graph) RelativeTarget(id widget.ID) (widget.ID, bool) {
	slot, ok := g.ids[id]
	if !ok {
		return 0, false
	}
	t := g.nodes[slot].in[EdgeRelativePosition]
	if t == noNode || !g.nodes[t].hasID {
		return 0, false
	}
	return g.nodes[t].id, true
}

// Children returns the ids of id's children in insertion order.
func (g *Graph) Children(id widget.ID) []widget.ID {
	slot, ok := g.ids[id]
	if !ok {
		return nil
	}
	return g.childIDs(slot)
}

// RootChildren returns the ids of the root's children in insertion order.
func (g *Graph) RootChildren() []widget.ID { return g.childIDs(rootSlot) }

func (g *Graph) childIDs(slot int32) []widget.ID {
	kids := g.nodes[slot].out[EdgeChild]
	ids := make([]widget.ID, 0, len(kids))
	for _, k := range kids {
		if g.nodes[k].hasID {
			ids = append(ids, g.nodes[k].id)
		}
	}
	return ids
}

// IsAncestor reports whether anc is a strict ancestor of idx along child
// edges.
func (g *Graph) IsAncestor(anc, idx NodeIndex) bool {
	a, ok := g.slot(anc)
	if !ok {
		return false
	}
	n, ok := g.slot(idx)
	if !ok {
		return false
	}
	return g.isAncestor(a, n)
}

func (g *Graph) isAncestor(anc, slot int32) bool {
	for p := g.nodes[slot].in[EdgeChild]; p != noNode; p = g.nodes[p].in[EdgeChild] {
		if p == anc {
			return true
		}
	}
	return false
}

// setEdge makes a→b the only incoming edge of kind k on b. An existing edge
// of the same kind from another node is removed first. If a→b would close a
// cycle it is not added and an error wrapping ErrCycle is returned.
func (g *Graph) setEdge(a, b int32, k EdgeKind) error {
	existing := g.nodes[b].in[k]
	if existing == a {
		return nil
	}
	if existing != noNode {
		g.unlink(existing, b, k)
	}
	if g.reachable(b, a) {
		from, to := g.label(a), g.label(b)
		g.logger.Warn("edge rejected: would create a cycle", "edge", k, "from", from, "to", to)
		observability.Graph().OnEdgeRejected(k.String(), from, to)
		return fmt.Errorf("%w: %s edge %s -> %s", ErrCycle, k, from, to)
	}
	g.nodes[a].out[k] = append(g.nodes[a].out[k], b)
	g.nodes[b].in[k] = a
	return nil
}

// removeIncoming drops b's incoming edge of kind k, if any.
func (g *Graph) removeIncoming(b int32, k EdgeKind) {
	if a := g.nodes[b].in[k]; a != noNode {
		g.unlink(a, b, k)
	}
}

func (g *Graph) unlink(a, b int32, k EdgeKind) {
	out := g.nodes[a].out[k]
	if i := slices.Index(out, b); i >= 0 {
		g.nodes[a].out[k] = slices.Delete(out, i, i+1)
	}
	g.nodes[b].in[k] = noNode
}

// reachable reports whether target can be reached from start by following
// edges of either kind. A node reaches itself.
func (g *Graph) reachable(start, target int32) bool {
	if start == target {
		return true
	}
	g.epoch++
	g.stack = append(g.stack[:0], start)
	g.marks[start] = g.epoch
	for len(g.stack) > 0 {
		n := g.stack[len(g.stack)-1]
		g.stack = g.stack[:len(g.stack)-1]
		for k := range edgeKinds {
			for _, next := range g.nodes[n].out[k] {
				if next == target {
					return true
				}
				if g.marks[next] != g.epoch {
					g.marks[next] = g.epoch
					g.stack = append(g.stack, next)
				}
			}
		}
	}
	return false
}
