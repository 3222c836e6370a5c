package graph

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/widget"
)

var (
	// ErrKindMismatch is returned by [Graph.CachePreUpdate] when the id was
	// previously cached for a widget of a different kind. Nothing is mutated.
	ErrKindMismatch = errors.New("widget kind mismatch")

	// ErrCycle is returned when setting an edge would close a cycle. The edge
	// is not added; the rest of the operation still takes effect.
	ErrCycle = errors.New("edge would create a cycle")

	// ErrUnknownWidget is the panic value wrapped by [Graph.MustWidget] when no
	// widget is cached under the id.
	ErrUnknownWidget = errors.New("unknown widget")

	// ErrNoState is returned by [StateOf] when the container has no payload.
	ErrNoState = errors.New("widget has no cached state")

	// ErrStateType is returned by [StateOf] when the payload has another type.
	ErrStateType = errors.New("cached state has a different type")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is found.
	// Insertion checks make this unreachable through the public API.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrInvalidEdge is returned by [Graph.Validate] when the incoming and
	// outgoing edge lists disagree. This indicates graph corruption.
	ErrInvalidEdge = errors.New("inconsistent edge")
)

// NodeKind is the variant of a graph node.
type NodeKind uint8

const (
	// NodeRoot is the single permanent root. It has no parent.
	NodeRoot NodeKind = iota
	// NodeWidget is an instantiated widget with a [Container].
	NodeWidget
	// NodePlaceholder reserves a slot for a widget referenced before it was
	// set. It is transmuted in place when the widget is set.
	NodePlaceholder
)

// String implements fmt.Stringer.
func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeWidget:
		return "widget"
	default:
		return "placeholder"
	}
}

// NodeIndex is a generation-checked handle to a graph node. A handle becomes
// stale when its widget is released back into a placeholder.
type NodeIndex struct {
	Slot uint32
	Gen  uint32
}

// Container is the cached record of a widget.
type Container struct {
	Kind widget.Kind
	// State is the type-erased state and style payload; see [StateOf].
	State any

	Rect      geom.Rect
	Depth     geom.Scalar
	Drag      widget.DragState
	KidArea   widget.KidArea
	CropKids  bool
	Floating  *widget.Floating
	Scrolling *widget.ScrollState

	// Representation is the last drawable computed by the widget, if any.
	Representation any
	// RepresentationChanged is set when a new representation is cached and
	// cleared when the container is visited by an extraction pass.
	RepresentationChanged bool

	// IsUpdated is set when the widget is cached during the current cycle.
	IsUpdated bool
	// WasPreviouslyUpdated is the value IsUpdated had in the previous cycle.
	WasPreviouslyUpdated bool

	idle int
}

const (
	rootSlot  int32 = 0
	noNode    int32 = -1
	edgeKinds       = 2
)

type node struct {
	kind      NodeKind
	gen       uint32
	container *Container
	id        widget.ID
	hasID     bool
	in        [edgeKinds]int32
	out       [edgeKinds][]int32
}

// Graph is the retained widget graph. The zero value is not usable; use New.
type Graph struct {
	nodes  []node
	ids    map[widget.ID]int32
	nextID widget.ID

	order    []Visitable
	floating []int32
	frames   []frame
	kids     []int32

	marks []uint32
	epoch uint32
	stack []int32

	logger *log.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for rejected edges and cycle diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithCapacity preallocates room for n nodes.
func WithCapacity(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.nodes = make([]node, 0, n)
			g.ids = make(map[widget.ID]int32, n)
		}
	}
}

// New creates a graph holding only the root node.
func New(opts ...Option) *Graph {
	g := &Graph{
		ids:    make(map[widget.ID]int32),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.addNode(NodeRoot)
	return g
}

// Root returns the handle of the root node.
func (g *Graph) Root() NodeIndex { return g.index(rootSlot) }

// AddPlaceholder inserts an empty placeholder node. The placeholder is not
// registered under any widget id; see [Generator] for that.
func (g *Graph) AddPlaceholder() NodeIndex {
	return g.index(g.addNode(NodePlaceholder))
}

// NodeCount returns the number of nodes, root included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// WidgetCount returns the number of instantiated widget nodes.
func (g *Graph) WidgetCount() int {
	n := 0
	for i := range g.nodes {
		if g.nodes[i].kind == NodeWidget {
			n++
		}
	}
	return n
}

// Kind returns the variant of the node at idx. The second result is false
// when idx is out of range or stale.
func (g *Graph) Kind(idx NodeIndex) (NodeKind, bool) {
	slot, ok := g.slot(idx)
	if !ok {
		return 0, false
	}
	return g.nodes[slot].kind, true
}

// Index returns the node registered for id.
func (g *Graph) Index(id widget.ID) (NodeIndex, bool) {
	slot, ok := g.ids[id]
	if !ok {
		return NodeIndex{}, false
	}
	return g.index(slot), true
}

// IDOf returns the widget id registered for idx. The root and unregistered
// placeholders have none.
func (g *Graph) IDOf(idx NodeIndex) (widget.ID, bool) {
	slot, ok := g.slot(idx)
	if !ok || !g.nodes[slot].hasID {
		return 0, false
	}
	return g.nodes[slot].id, true
}

// Widget returns the container cached for id. The second result is false
// when id is unknown or still a placeholder.
func (g *Graph) Widget(id widget.ID) (*Container, bool) {
	slot, ok := g.ids[id]
	if !ok {
		return nil, false
	}
	return g.container(slot)
}

// WidgetAt is like [Graph.Widget] but addresses the node by handle.
func (g *Graph) WidgetAt(idx NodeIndex) (*Container, bool) {
	slot, ok := g.slot(idx)
	if !ok {
		return nil, false
	}
	return g.container(slot)
}

// MustWidget is like [Graph.Widget] but panics when no widget is cached for
// id. Use it only where presence is already established.
func (g *Graph) MustWidget(id widget.ID) *Container {
	c, ok := g.Widget(id)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnknownWidget, id))
	}
	return c
}

// IDs returns every registered widget id in slot order.
func (g *Graph) IDs() []widget.ID {
	ids := make([]widget.ID, 0, len(g.ids))
	for i := range g.nodes {
		if g.nodes[i].hasID {
			ids = append(ids, g.nodes[i].id)
		}
	}
	return ids
}

func (g *Graph) addNode(kind NodeKind) int32 {
	g.nodes = append(g.nodes, node{
		kind: kind,
		in:   [edgeKinds]int32{noNode, noNode},
	})
	g.marks = append(g.marks, 0)
	return int32(len(g.nodes) - 1)
}

// register maps id to slot and keeps the id allocator ahead of every id seen.
func (g *Graph) register(id widget.ID, slot int32) {
	g.ids[id] = slot
	g.nodes[slot].id = id
	g.nodes[slot].hasID = true
	if id >= g.nextID {
		g.nextID = id + 1
	}
}

// resolve returns the slot for id, reserving a placeholder if it is new.
func (g *Graph) resolve(id widget.ID) int32 {
	if slot, ok := g.ids[id]; ok {
		return slot
	}
	slot := g.addNode(NodePlaceholder)
	g.register(id, slot)
	return slot
}

func (g *Graph) index(slot int32) NodeIndex {
	return NodeIndex{Slot: uint32(slot), Gen: g.nodes[slot].gen}
}

func (g *Graph) slot(idx NodeIndex) (int32, bool) {
	if int(idx.Slot) >= len(g.nodes) || g.nodes[idx.Slot].gen != idx.Gen {
		return noNode, false
	}
	return int32(idx.Slot), true
}

func (g *Graph) container(slot int32) (*Container, bool) {
	n := &g.nodes[slot]
	if n.kind != NodeWidget {
		return nil, false
	}
	return n.container, true
}

func (g *Graph) label(slot int32) string {
	n := &g.nodes[slot]
	switch {
	case n.kind == NodeRoot:
		return "root"
	case n.hasID:
		return n.id.String()
	default:
		return fmt.Sprintf("placeholder@%d", slot)
	}
}
