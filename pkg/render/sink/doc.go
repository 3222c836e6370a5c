// Package sink provides rendering backends for extracted primitives.
//
// # Overview
//
// A "sink" consumes the primitives of one frame from a [Source] (normally a
// [render.Extractor]) and produces a final output format:
//
//   - SVG: one element per primitive, clipped by its scissor rectangle
//   - PNG: a raster image drawn with fogleman/gg
//   - JSON: a description of every primitive for external tools and tests
//
// Sinks draw primitives in the order they are yielded, so later primitives
// cover earlier ones. Coordinates are converted from the toolkit's
// centre-origin, y-up space into image space for a canvas of the window's
// dimensions.
//
// # Usage
//
//	ex := render.New(g, th, fonts, glyphs, window)
//	svg := sink.RenderSVG(ex, window.Dim(), sink.WithBackground(th.BackgroundColor))
//
// Each Render function consumes its source; build a new extractor for every
// output.
//
// [render.Extractor]: github.com/matzehuels/canopy/pkg/render.Extractor
package sink

import "github.com/matzehuels/canopy/pkg/render"

// Source yields the primitives of one frame. [render.Extractor] implements
// it.
type Source interface {
	Next() (render.Primitive, bool)
}

// Slice is a Source over an already collected list of primitives.
type Slice []render.Primitive

// Next implements Source.
func (s *Slice) Next() (render.Primitive, bool) {
	if len(*s) == 0 {
		return render.Primitive{}, false
	}
	p := (*s)[0]
	*s = (*s)[1:]
	return p, true
}
