// Package nodelink draws the widget graph itself as a node-link diagram,
// for debugging parent and positioning relationships.
//
// # Usage
//
// Convert a graph to DOT, then render it with Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Diagram
//
// Child edges are solid arrows from parent to child. Relative-position
// edges are dashed blue arrows from the positioning target to the widget
// positioned against it. Placeholders are dashed grey boxes, and widgets
// not set in the current cycle are drawn with grey text.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering.
package nodelink
