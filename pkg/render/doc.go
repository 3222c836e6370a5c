// Package render turns the widget graph's draw order into a stream of
// drawable primitives.
//
// # Overview
//
// An [Extractor] walks [graph.Graph.DepthOrder] once, front to back, and
// yields one or more [Primitive] values per visible widget. Each primitive
// carries its kind-specific payload, the widget's rectangle, and the scissor
// rectangle the backend must clip it to. Backends live in the [sink]
// subpackage (SVG, PNG, JSON); a node-link view of the graph itself lives in
// [nodelink].
//
//	ex := render.New(g, theme.Default(), fonts, glyphs, window)
//	ex.Draw(func(p render.Primitive) {
//	    // hand p to the backend
//	})
//
// # Clipping
//
// Widgets that crop their children push the overlap of their kid area with
// the current scissor onto a crop stack. The entry is popped as soon as the
// walk leaves that widget's subtree. Widgets whose rectangle misses the
// window, or that are fully cropped by an ancestor, produce nothing.
//
// # Lifetimes
//
// The extractor is single pass: once exhausted it yields nothing more. The
// Points and Glyphs slices of a primitive alias buffers reused for the next
// widget; consumers that keep primitives must [Primitive.Clone] them.
//
// [sink]: github.com/matzehuels/canopy/pkg/render/sink
// [nodelink]: github.com/matzehuels/canopy/pkg/render/nodelink
package render
