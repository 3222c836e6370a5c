package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the kind, rectangle, depth and flags of each widget to
	// its label.
	Detailed bool
	// Name labels widgets. When nil, ids are shown.
	Name func(widget.ID) string
}

// ToDOT converts a widget graph to Graphviz DOT format.
func ToDOT(g *graph.Graph, opts Options) string {
	name := opts.Name
	if name == nil {
		name = widget.ID.String
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	edges := g.Edges()
	for _, idx := range nodes(g, edges) {
		attrs := fmtAttrs(g, idx, name, opts.Detailed)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(idx), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s", nodeName(e.From), nodeName(e.To))
		if e.Kind == graph.EdgeRelativePosition {
			buf.WriteString(" [style=dashed, color=blue, constraint=false]")
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodes returns the root, every registered node and every edge endpoint in
// slot order.
func nodes(g *graph.Graph, edges []graph.Edge) []graph.NodeIndex {
	set := map[graph.NodeIndex]bool{g.Root(): true}
	for _, id := range g.IDs() {
		if idx, ok := g.Index(id); ok {
			set[idx] = true
		}
	}
	for _, e := range edges {
		set[e.From] = true
		set[e.To] = true
	}
	out := make([]graph.NodeIndex, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	slices.SortFunc(out, func(a, b graph.NodeIndex) int { return int(a.Slot) - int(b.Slot) })
	return out
}

func nodeName(idx graph.NodeIndex) string { return "n" + strconv.FormatUint(uint64(idx.Slot), 10) }

func fmtAttrs(g *graph.Graph, idx graph.NodeIndex, name func(widget.ID) string, detailed bool) []string {
	kind, _ := g.Kind(idx)
	id, hasID := g.IDOf(idx)

	switch kind {
	case graph.NodeRoot:
		return []string{`label="root"`, "shape=circle", "fillcolor=black", "fontcolor=white"}
	case graph.NodePlaceholder:
		label := "placeholder"
		if hasID {
			label = name(id)
		}
		return []string{fmt.Sprintf("label=%q", label), `style="rounded,filled,dashed"`, "fillcolor=lightgrey"}
	}

	c, _ := g.WidgetAt(idx)
	label := name(id)
	if detailed {
		label += "\n" + fmtDetails(c)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !c.IsUpdated {
		attrs = append(attrs, "fontcolor=grey")
	}
	if c.Floating != nil {
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

func fmtDetails(c *graph.Container) string {
	x, y, w, h := c.Rect.XYWH()
	parts := []string{
		string(c.Kind),
		fmt.Sprintf("xy: %g,%g  wh: %gx%g", x, y, w, h),
	}
	if c.Depth != 0 {
		parts = append(parts, fmt.Sprintf("depth: %g", c.Depth))
	}
	var flags []string
	if c.CropKids {
		flags = append(flags, "crop")
	}
	if c.Scrolling != nil {
		flags = append(flags, "scroll")
	}
	if c.Floating != nil {
		flags = append(flags, fmt.Sprintf("floating@%d", c.Floating.LastInteracted))
	}
	if len(flags) > 0 {
		parts = append(parts, strings.Join(flags, " "))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	data, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
