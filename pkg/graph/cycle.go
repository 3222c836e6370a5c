package graph

import (
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/widget"
)

// ResetCycle begins a new update cycle. Every widget's IsUpdated flag moves
// into WasPreviouslyUpdated and is cleared; widgets that were not cached in
// the cycle just ended age by one.
func (g *Graph) ResetCycle() {
	for i := range g.nodes {
		c, ok := g.container(int32(i))
		if !ok {
			continue
		}
		if !c.IsUpdated {
			c.idle++
		}
		c.WasPreviouslyUpdated = c.IsUpdated
		c.IsUpdated = false
	}
}

// HaveAnyChanged reports whether a redraw is needed: a widget cached in this
// or the previous cycle has a new representation since the last extraction,
// or a widget cached in the previous cycle was not cached in this one.
// Widgets gone for more than one cycle are ignored, whatever their flags.
func (g *Graph) HaveAnyChanged() bool {
	for i := range g.nodes {
		c, ok := g.container(int32(i))
		if !ok || (!c.IsUpdated && !c.WasPreviouslyUpdated) {
			continue
		}
		if c.RepresentationChanged || !c.IsUpdated {
			return true
		}
	}
	return false
}

// MarkDrawn clears the RepresentationChanged flag of every widget, including
// widgets left out of the depth order. The extractor calls it once a frame
// has been fully extracted.
func (g *Graph) MarkDrawn() {
	for i := range g.nodes {
		if c, ok := g.container(int32(i)); ok {
			c.RepresentationChanged = false
		}
	}
}

// Stale returns the ids of widgets cached in the previous cycle but not in
// the current one.
func (g *Graph) Stale() []widget.ID {
	var ids []widget.ID
	for i := range g.nodes {
		c, ok := g.container(int32(i))
		if ok && !c.IsUpdated && c.WasPreviouslyUpdated {
			ids = append(ids, g.nodes[i].id)
		}
	}
	return ids
}

// ReleaseStale turns widgets that have not been cached for more than
// maxIdle cycles back into placeholders. Their payloads and representations
// are dropped; ids and edges are kept, so setting the widget again restores
// it in place. Handles to released nodes become stale. It returns the number
// of widgets released.
func (g *Graph) ReleaseStale(maxIdle int) int {
	released := 0
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.kind != NodeWidget || n.container.idle <= maxIdle {
			continue
		}
		n.kind = NodePlaceholder
		n.container = nil
		n.gen++
		released++
	}
	if released > 0 {
		g.logger.Debug("released stale widgets", "count", released, "max_idle", maxIdle)
		observability.Graph().OnStaleReleased(released)
	}
	return released
}

// Validate checks that incoming and outgoing edge lists agree and that the
// graph is acyclic across both edge kinds, using depth-first search with
// white/gray/black colouring.
func (g *Graph) Validate() error {
	if err := g.validateEdgeConsistency(); err != nil {
		return err
	}
	return g.detectCycles()
}

func (g *Graph) validateEdgeConsistency() error {
	for from := range g.nodes {
		for k := range edgeKinds {
			for _, to := range g.nodes[from].out[k] {
				if int(to) >= len(g.nodes) || g.nodes[to].in[k] != int32(from) {
					return ErrInvalidEdge
				}
			}
		}
	}
	if g.nodes[rootSlot].in[EdgeChild] != noNode {
		return ErrInvalidEdge
	}
	return nil
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]uint8, len(g.nodes))
	var hasCycle bool

	var dfs func(n int32)
	dfs = func(n int32) {
		color[n] = gray
		for k := range edgeKinds {
			for _, next := range g.nodes[n].out[k] {
				switch color[next] {
				case white:
					dfs(next)
				case gray:
					hasCycle = true
				}
				if hasCycle {
					return
				}
			}
		}
		color[n] = black
	}

	for n := range g.nodes {
		if color[n] == white {
			dfs(int32(n))
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
