// Package pkg provides the core libraries of canopy, the retained-state core
// of an immediate-mode style GUI toolkit.
//
// # Overview
//
// Widgets are declared anew on every update cycle, but canopy keeps their
// state between cycles in a widget graph. After each cycle the graph yields a
// draw order, and the extractor turns that order into a stream of drawable
// primitives. The pkg directory is organized into four main areas:
//
//  1. [graph] and [widget] - The retained widget graph and the values widgets
//     hand to it
//  2. [primitive], [render] and [render/sink] - Drawable primitives, their
//     extraction and output backends
//  3. [ui] and [scene] - The toolkit instance driving update cycles, and
//     declarative TOML scenes standing in for a widget layer
//  4. [cache], [observability], [errors] - Infrastructure shared by the CLI
//
// # Architecture
//
// The data flow of one frame:
//
//	widget declarations (or a [scene])
//	         ↓
//	    [ui] Begin / SetWidget / End
//	         ↓
//	    [graph] containers, edges and depth order
//	         ↓
//	    [render] primitive extraction (scissors, scroll bars, text layout)
//	         ↓
//	    [render/sink] SVG / PNG / JSON output
//
// # Quick Start
//
//	u := ui.New(ui.WithWindow(geom.Dimensions{400, 300}))
//	panel := u.NewID()
//
//	u.Begin()
//	_ = u.SetWidget(
//	    widget.PreUpdate{ID: panel, Kind: primitive.KindRectangle, Rect: u.Window()},
//	    widget.PostUpdate{State: primitive.Rectangle{Style: primitive.Fill(color.Gray)}},
//	)
//	u.End()
//
//	if ex, ok := u.DrawIfChanged(); ok {
//	    svg := sink.RenderSVG(ex, u.Window().Dim())
//	    _ = os.WriteFile("frame.svg", svg, 0o644)
//	}
//
// # Main Packages
//
// [geom] - Centre-origin, y-up points, ranges, rectangles and dimensions.
//
// [color] - RGBA colours with hex parsing and highlight variants.
//
// [widget] - Widget ids, kinds, the pre- and post-update values a widget
// hands to the graph each cycle, scroll state and id lists.
//
// [graph] - The widget graph: an identifier map from ids to nodes, parent and
// relative-position edges that never form a cycle, the depth order visitor,
// and the scroll offset resolver.
//
// [theme] - Default colours, sizes and per-kind overrides, read from TOML.
//
// [text] - Font maps, line breaking and glyph layout on golang.org/x/image.
//
// [primitive] - The built-in primitive widget kinds and their states.
//
// [render] - The extractor yielding the primitives of a frame.
//
// [render/sink] - SVG, PNG and JSON backends.
//
// [render/nodelink] - Graphviz diagrams of the widget graph.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/graph/...              # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include the redis cache tests
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/geom
// [color]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/color
// [widget]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/widget
// [graph]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/graph
// [theme]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/theme
// [text]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/text
// [primitive]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/primitive
// [render]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/render/nodelink
// [ui]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/ui
// [scene]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/scene
// [cache]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/canopy/pkg/errors
package pkg
