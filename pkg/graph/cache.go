package graph

import (
	"errors"
	"fmt"

	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/widget"
)

// UniqueState is the state and style payload of a widget kind. Containers
// store it type-erased; [StateOf] reads it back.
type UniqueState[S, St any] struct {
	State S
	Style St
}

// StateOf returns the payload cached in c as a UniqueState[S, St].
// It returns [ErrNoState] when nothing was cached and [ErrStateType] when
// the payload has a different type.
func StateOf[S, St any](c *Container) (UniqueState[S, St], error) {
	var zero UniqueState[S, St]
	if c == nil || c.State == nil {
		return zero, ErrNoState
	}
	u, ok := c.State.(UniqueState[S, St])
	if !ok {
		return zero, fmt.Errorf("%w: have %T, want %T", ErrStateType, c.State, zero)
	}
	return u, nil
}

// CachePreUpdate caches the layout and interaction data of a widget and
// links it into the graph.
//
// The node for pre.ID is created if needed, or transmuted in place if it is
// a placeholder. Its child edge is set from pre.Parent (the root when nil),
// reserving a placeholder for a parent not seen yet. Its relative-position
// edge is set from pre.RelativeTo, or removed when that is nil.
//
// If pre.ID already holds a widget of another kind the call returns an
// error wrapping [ErrKindMismatch] and changes nothing, unless the cached
// kind is [widget.KindEmpty]. Edges that would close a cycle are skipped and
// reported as errors wrapping [ErrCycle]; everything else still takes effect.
func (g *Graph) CachePreUpdate(pre widget.PreUpdate) error {
	slot, ok := g.ids[pre.ID]
	if ok {
		n := &g.nodes[slot]
		switch n.kind {
		case NodeWidget:
			if c := n.container; c.Kind != pre.Kind && c.Kind != widget.KindEmpty {
				g.logger.Error("widget kind mismatch", "id", pre.ID, "cached", c.Kind, "requested", pre.Kind)
				observability.Graph().OnKindMismatch(pre.ID.String(), string(c.Kind), string(pre.Kind))
				return fmt.Errorf("%w: %s cached as %q, set as %q", ErrKindMismatch, pre.ID, c.Kind, pre.Kind)
			}
		case NodePlaceholder:
			n.kind = NodeWidget
			n.container = &Container{}
		}
	} else {
		slot = g.addNode(NodeWidget)
		g.nodes[slot].container = &Container{}
		g.register(pre.ID, slot)
	}

	parent := rootSlot
	if pre.Parent != nil {
		parent = g.resolve(*pre.Parent)
	}

	var errs []error
	if err := g.setEdge(parent, slot, EdgeChild); err != nil {
		errs = append(errs, err)
	}

	c := g.nodes[slot].container
	c.Kind = pre.Kind
	c.Rect = pre.Rect
	c.Depth = pre.Depth
	c.Drag = pre.Drag
	c.KidArea = pre.KidArea
	c.CropKids = pre.CropKids
	c.Floating = pre.Floating
	c.Scrolling = pre.Scrolling
	c.IsUpdated = true
	c.idle = 0

	if pre.RelativeTo != nil {
		target := g.resolve(*pre.RelativeTo)
		if err := g.setEdge(target, slot, EdgeRelativePosition); err != nil {
			errs = append(errs, err)
		}
	} else {
		g.removeIncoming(slot, EdgeRelativePosition)
	}
	return errors.Join(errs...)
}

// CachePostUpdate stores the payload produced by a widget's update and, when
// post.Representation is non-nil, replaces the cached representation and
// marks it changed.
//
// It panics unless [Graph.CachePreUpdate] was called for post.ID in the
// current cycle.
func (g *Graph) CachePostUpdate(post widget.PostUpdate) {
	c, ok := g.Widget(post.ID)
	if !ok || !c.IsUpdated {
		panic(fmt.Sprintf("graph: post-update of %s without a pre-update this cycle", post.ID))
	}
	c.State = post.State
	if post.Representation != nil {
		c.Representation = post.Representation
		c.RepresentationChanged = true
	}
}
