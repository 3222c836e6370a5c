package graph

import "github.com/matzehuels/canopy/pkg/widget"

// Generator issues widget ids backed by placeholder nodes. Each id should be
// generated once and reused on every cycle.
type Generator struct {
	g *Graph
}

var _ widget.Generator = (*Generator)(nil)

// NewGenerator returns a generator issuing ids in g.
func NewGenerator(g *Graph) *Generator { return &Generator{g: g} }

// Next reserves a placeholder and returns the fresh id registered for it.
// Ids continue after the largest id the graph has seen.
func (gen *Generator) Next() widget.ID {
	g := gen.g
	slot, _ := g.slot(g.AddPlaceholder())
	id := g.nextID
	g.register(id, slot)
	return id
}
