// Package widget defines the records exchanged between the widget layer and
// the widget graph: identifiers, kind tags, interaction metadata and the
// pre/post update payloads cached once per cycle.
package widget

import (
	"strconv"

	"github.com/matzehuels/canopy/pkg/geom"
)

// ID identifies a widget instance. IDs are issued densely from zero by a
// [Generator] and must be reused for the same widget on every cycle.
type ID uint32

// Ref returns a pointer to a copy of id, for the optional parent and
// relative-position fields of [PreUpdate].
func (id ID) Ref() *ID { return &id }

// String implements fmt.Stringer.
func (id ID) String() string { return "#" + strconv.FormatUint(uint64(id), 10) }

// Generator issues fresh widget ids.
type Generator interface {
	Next() ID
}

// Kind is the static type tag of a widget. Setting a widget under an id that
// was previously cached with a different kind is a caller error.
type Kind string

// KindEmpty marks a container whose kind has not been decided yet. It may be
// replaced by any other kind without a mismatch.
const KindEmpty Kind = "EMPTY"

// DragPhase is the mouse interaction phase of a widget.
type DragPhase uint8

const (
	DragNormal DragPhase = iota
	DragHighlighted
	DragClicked
)

// String implements fmt.Stringer.
func (p DragPhase) String() string {
	switch p {
	case DragHighlighted:
		return "highlighted"
	case DragClicked:
		return "clicked"
	default:
		return "normal"
	}
}

// DragState is the drag state cached for a widget.
type DragState struct {
	Phase DragPhase
	// Origin is where the press began. Only meaningful while Phase is
	// DragClicked.
	Origin geom.Point
}

// KidArea is the region of a widget that holds its children.
type KidArea struct {
	Rect geom.Rect
	Pad  geom.Scalar
}

// Floating marks a widget as an overlay drawn after the main tree.
type Floating struct {
	// LastInteracted is a monotonically increasing stamp; overlays with a
	// larger stamp are drawn on top.
	LastInteracted uint64
}

// PreUpdate is the layout and interaction data cached for a widget before
// its update logic runs.
type PreUpdate struct {
	ID   ID
	Kind Kind

	// Parent defaults to the root when nil.
	Parent *ID
	// RelativeTo names the widget this one was positioned against, if any.
	RelativeTo *ID

	Rect      geom.Rect
	Depth     geom.Scalar
	Drag      DragState
	KidArea   KidArea
	CropKids  bool
	Floating  *Floating
	Scrolling *ScrollState
}

// PostUpdate carries the state produced by a widget's update logic.
type PostUpdate struct {
	ID ID
	// State is the widget's state and style payload. It is stored as is and
	// read back with a type assertion by the kind's consumer.
	State any
	// Representation is an optional freshly computed drawable. When non-nil
	// it replaces the cached one and marks the container as changed.
	Representation any
}
