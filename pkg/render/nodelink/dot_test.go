package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/widget"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	r := geom.RectFromXYDim(geom.Point{0, 0}, geom.Dimensions{10, 20})
	for _, pre := range []widget.PreUpdate{
		{ID: 0, Kind: "Rectangle", Rect: r, CropKids: true},
		{ID: 1, Kind: "Text", Parent: widget.ID(0).Ref(), Rect: r},
		{ID: 2, Kind: "Oval", RelativeTo: widget.ID(1).Ref(), Rect: r, Floating: &widget.Floating{LastInteracted: 3}},
	} {
		if err := g.CachePreUpdate(pre); err != nil {
			t.Fatal(err)
		}
	}
	g.AddPlaceholder()
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	for _, want := range []string{
		`n0 [label="root", shape=circle`,
		`n1 [label="#0"];`,
		`n3 [label="#2", fillcolor=lightyellow];`,
		"n0 -> n1;",
		"n1 -> n2;",
		"n0 -> n3;",
		"n2 -> n3 [style=dashed, color=blue, constraint=false];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	// The anonymous placeholder has no edges and no id.
	if strings.Contains(dot, "n4") {
		t.Errorf("unreferenced placeholder drawn\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := testGraph(t)
	names := map[widget.ID]string{0: "panel", 1: "label", 2: "popup"}
	dot := ToDOT(g, Options{Detailed: true, Name: func(id widget.ID) string { return names[id] }})

	for _, want := range []string{
		`label="panel\nRectangle\nxy: 0,0  wh: 10x20\ncrop"`,
		`floating@3`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// Widgets not set this cycle are greyed out.
	g.ResetCycle()
	if dot := ToDOT(g, Options{}); !strings.Contains(dot, `n1 [label="#0", fontcolor=grey];`) {
		t.Errorf("stale widget not greyed\n%s", dot)
	}
}

func TestToDOTPlaceholder(t *testing.T) {
	g := graph.New()
	// Referencing an unset parent reserves a placeholder for it.
	if err := g.CachePreUpdate(widget.PreUpdate{ID: 1, Kind: "Rectangle", Parent: widget.ID(7).Ref()}); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `[label="#7", style="rounded,filled,dashed", fillcolor=lightgrey];`) {
		t.Errorf("placeholder not drawn\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(testGraph(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("unexpected SVG header: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="1pt" viewBox="0.00 0.00 62.00 116.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s", got)
	}
}
