package render

import (
	"testing"
	"time"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

var window = rect(0, 0, 400, 400)

func rect(x, y, w, h geom.Scalar) geom.Rect {
	return geom.RectFromXYDim(geom.Point{x, y}, geom.Dimensions{w, h})
}

func set(t *testing.T, g *graph.Graph, pre widget.PreUpdate, state any) {
	t.Helper()
	if pre.Kind == "" {
		pre.Kind = primitive.KindRectangle
	}
	if err := g.CachePreUpdate(pre); err != nil {
		t.Fatalf("CachePreUpdate(%s): %v", pre.ID, err)
	}
	if state == nil {
		state = primitive.Rectangle{Style: primitive.Fill(color.Red)}
	}
	g.CachePostUpdate(widget.PostUpdate{ID: pre.ID, State: state, Representation: pre.Rect})
}

func collect(e *Extractor) []Primitive {
	var out []Primitive
	e.Draw(func(p Primitive) { out = append(out, p.Clone()) })
	return out
}

func TestExtractCropping(t *testing.T) {
	g := graph.New()
	canvas := rect(0, 0, 100, 100)
	set(t, g, widget.PreUpdate{ID: 1, Rect: canvas, CropKids: true, KidArea: widget.KidArea{Rect: canvas}}, nil)
	set(t, g, widget.PreUpdate{ID: 2, Parent: widget.ID(1).Ref(), Rect: rect(0, 0, 20, 20)}, nil)
	set(t, g, widget.PreUpdate{ID: 3, Parent: widget.ID(1).Ref(), Rect: rect(80, 0, 20, 20)}, nil)
	set(t, g, widget.PreUpdate{ID: 4, Rect: rect(150, 150, 10, 10)}, nil)
	set(t, g, widget.PreUpdate{ID: 5, Rect: rect(500, 0, 10, 10)}, nil)
	g.UpdateDepthOrder(nil, nil)

	prims := collect(New(g, nil, nil, nil, window))

	want := []struct {
		id      widget.ID
		scissor geom.Rect
	}{
		{1, window},
		{2, canvas},
		{4, window},
	}
	if len(prims) != len(want) {
		t.Fatalf("got %d primitives, want %d: %+v", len(prims), len(want), prims)
	}
	for i, w := range want {
		if prims[i].ID != w.id {
			t.Errorf("primitive %d id = %s, want %s", i, prims[i].ID, w.id)
		}
		if prims[i].Scissor != w.scissor {
			t.Errorf("primitive %d scissor = %+v, want %+v", i, prims[i].Scissor, w.scissor)
		}
		if prims[i].Kind != KindRectangle || prims[i].Color != color.Red {
			t.Errorf("primitive %d = %v %v, want red rectangle", i, prims[i].Kind, prims[i].Color)
		}
	}
}

func TestExtractNestedCropIntersects(t *testing.T) {
	g := graph.New()
	outer := rect(0, 0, 100, 100)
	inner := rect(40, 0, 60, 60)
	set(t, g, widget.PreUpdate{ID: 1, Rect: outer, CropKids: true, KidArea: widget.KidArea{Rect: outer}}, nil)
	set(t, g, widget.PreUpdate{ID: 2, Parent: widget.ID(1).Ref(), Rect: inner, CropKids: true, KidArea: widget.KidArea{Rect: inner}}, nil)
	set(t, g, widget.PreUpdate{ID: 3, Parent: widget.ID(2).Ref(), Rect: rect(40, 0, 10, 10)}, nil)
	g.UpdateDepthOrder(nil, nil)

	prims := collect(New(g, nil, nil, nil, window))
	if len(prims) != 3 {
		t.Fatalf("got %d primitives, want 3", len(prims))
	}
	want, _ := inner.Overlap(outer)
	if prims[2].Scissor != want {
		t.Errorf("nested scissor = %+v, want %+v", prims[2].Scissor, want)
	}
}

func TestExtractShapes(t *testing.T) {
	outline := primitive.Outline(primitive.LineStyle{})
	frame := 5.0
	tests := []struct {
		name   string
		kind   widget.Kind
		state  any
		kinds  []Kind
		points int
	}{
		{"FilledRectangle", primitive.KindRectangle, primitive.Rectangle{}, []Kind{KindRectangle}, 0},
		{"OutlinedRectangle", primitive.KindRectangle, primitive.Rectangle{Style: outline}, []Kind{KindLines}, 5},
		{"Framed", primitive.KindFramedRectangle, primitive.FramedRectangle{Style: primitive.FramedStyle{Frame: &frame}}, []Kind{KindRectangle, KindRectangle}, 0},
		{"Oval", primitive.KindOval, primitive.Oval{}, []Kind{KindPolygon}, primitive.OvalResolution + 1},
		{"OvalOutline", primitive.KindOval, primitive.Oval{Style: outline}, []Kind{KindLines}, primitive.OvalResolution + 1},
		{"Polygon", primitive.KindPolygon, primitive.Polygon{State: primitive.PolygonState{Points: []geom.Point{{0, 0}, {10, 0}, {0, 10}}}}, []Kind{KindPolygon}, 3},
		{"Line", primitive.KindLine, primitive.Line{State: primitive.LineState{Start: geom.Point{-5, 0}, End: geom.Point{5, 0}}}, []Kind{KindLines}, 2},
		{"PointPath", primitive.KindPointPath, primitive.PointPath{State: primitive.PointPathState{Points: []geom.Point{{0, 0}, {1, 1}, {2, 0}, {3, 1}}}}, []Kind{KindLines}, 4},
		{"Image", primitive.KindImage, primitive.Image{State: primitive.ImageState{Image: 7}}, []Kind{KindImage}, 0},
		{"UnknownKind", "Slider", struct{}{}, nil, 0},
		{"WrongPayload", primitive.KindOval, primitive.Rectangle{}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New()
			set(t, g, widget.PreUpdate{ID: 1, Kind: tt.kind, Rect: rect(0, 0, 40, 20)}, tt.state)
			g.UpdateDepthOrder(nil, nil)

			prims := collect(New(g, theme.Default(), nil, nil, window))
			if len(prims) != len(tt.kinds) {
				t.Fatalf("got %d primitives, want %d", len(prims), len(tt.kinds))
			}
			for i, k := range tt.kinds {
				if prims[i].Kind != k {
					t.Errorf("primitive %d kind = %v, want %v", i, prims[i].Kind, k)
				}
			}
			if len(prims) > 0 && len(prims[0].Points) != tt.points {
				t.Errorf("points = %d, want %d", len(prims[0].Points), tt.points)
			}
		})
	}
}

func TestExtractFramedRectangle(t *testing.T) {
	g := graph.New()
	r := rect(0, 0, 40, 20)
	frame := 2.0
	set(t, g, widget.PreUpdate{ID: 1, Kind: primitive.KindFramedRectangle, Rect: r},
		primitive.FramedRectangle{Style: primitive.FramedStyle{Frame: &frame, FrameColor: &color.Black, Color: &color.White}})
	g.UpdateDepthOrder(nil, nil)

	prims := collect(New(g, nil, nil, nil, window))
	if len(prims) != 2 {
		t.Fatalf("got %d primitives, want 2", len(prims))
	}
	if prims[0].Rect != r || prims[0].Color != color.Black {
		t.Errorf("frame = %+v %v", prims[0].Rect, prims[0].Color)
	}
	if prims[1].Rect != r.Pad(2) || prims[1].Color != color.White {
		t.Errorf("inner = %+v %v", prims[1].Rect, prims[1].Color)
	}

	zero := 0.0
	g.ResetCycle()
	set(t, g, widget.PreUpdate{ID: 1, Kind: primitive.KindFramedRectangle, Rect: r},
		primitive.FramedRectangle{Style: primitive.FramedStyle{Frame: &zero}})
	g.UpdateDepthOrder(nil, nil)
	if prims := collect(New(g, nil, nil, nil, window)); len(prims) != 1 {
		t.Errorf("zero frame: got %d primitives, want 1", len(prims))
	}
}

func TestExtractScrollbar(t *testing.T) {
	g := graph.New()
	canvas := rect(0, 0, 100, 100)
	set(t, g, widget.PreUpdate{
		ID: 1, Rect: canvas, CropKids: true,
		KidArea: widget.KidArea{Rect: canvas},
		Scrolling: &widget.ScrollState{
			Vertical:  &widget.ScrollBar{Offset: 0.5, MaxOffset: 1, TotalLength: 200},
			Thickness: 10,
		},
	}, nil)
	set(t, g, widget.PreUpdate{ID: 2, Parent: widget.ID(1).Ref(), Rect: rect(0, 0, 20, 20)}, nil)
	g.UpdateDepthOrder(nil, nil)

	prims := collect(New(g, nil, nil, nil, window))
	if len(prims) != 4 {
		t.Fatalf("got %d primitives, want 4", len(prims))
	}
	track, handle := prims[2], prims[3]
	if track.ID != 1 || handle.ID != 1 {
		t.Errorf("scrollbar ids = %s, %s, want #1", track.ID, handle.ID)
	}
	if track.Scissor != window {
		t.Errorf("scrollbar scissor = %+v, want the window", track.Scissor)
	}
	if want := geom.RectFromCorners(geom.Point{40, -50}, geom.Point{50, 50}); track.Rect != want {
		t.Errorf("track = %+v, want %+v", track.Rect, want)
	}
	if handle.Rect.Top() != 25 || handle.Rect.Bottom() != -25 {
		t.Errorf("handle y = [%v, %v], want [-25, 25]", handle.Rect.Bottom(), handle.Rect.Top())
	}
}

func TestExtractText(t *testing.T) {
	fonts, err := text.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	defer fonts.Close()
	th := theme.Default()
	payload, err := primitive.NewText("hi\nyo", primitive.TextStyle{}, th, fonts, 0)
	if err != nil {
		t.Fatal(err)
	}

	g := graph.New()
	r := rect(0, 0, 100, 60)
	set(t, g, widget.PreUpdate{ID: 1, Kind: primitive.KindText, Rect: r}, payload)
	g.UpdateDepthOrder(nil, nil)

	glyphs := text.NewGlyphCache()
	prims := collect(New(g, th, fonts, glyphs, window))
	if len(prims) != 1 || prims[0].Kind != KindText {
		t.Fatalf("got %+v, want one text primitive", prims)
	}
	p := prims[0]
	if len(p.Glyphs) != 4 {
		t.Errorf("glyphs = %d, want 4", len(p.Glyphs))
	}
	if p.Glyphs[0].Pos[0] != r.Left() {
		t.Errorf("first glyph x = %v, want %v", p.Glyphs[0].Pos[0], r.Left())
	}
	if p.Glyphs[2].Pos[1] >= p.Glyphs[0].Pos[1] {
		t.Error("second line is not below the first")
	}
	if p.Color != th.LabelColor || p.FontSize != th.FontSizeMedium {
		t.Errorf("text style = %v size %d", p.Color, p.FontSize)
	}
	if glyphs.Queued() != 4 {
		t.Errorf("queued glyphs = %d, want 4", glyphs.Queued())
	}

	// Without fonts the text widget is skipped.
	if prims := collect(New(g, th, nil, nil, window)); len(prims) != 0 {
		t.Errorf("got %d primitives without fonts", len(prims))
	}
}

func TestExtractSinglePass(t *testing.T) {
	g := graph.New()
	set(t, g, widget.PreUpdate{ID: 1, Rect: rect(0, 0, 10, 10)}, nil)
	set(t, g, widget.PreUpdate{ID: 2, Rect: rect(20, 0, 10, 10)}, nil)
	g.UpdateDepthOrder(nil, nil)

	e := New(g, nil, nil, nil, window)
	for range e.All() {
		break
	}
	if _, ok := e.Next(); !ok {
		t.Fatal("breaking out of All consumed the whole frame")
	}
	if _, ok := e.Next(); ok {
		t.Fatal("extractor yielded past the end")
	}
	if _, ok := e.Next(); ok {
		t.Fatal("exhausted extractor restarted")
	}
}

func TestExtractClearsRepresentationChanged(t *testing.T) {
	g := graph.New()
	set(t, g, widget.PreUpdate{ID: 1, Rect: rect(0, 0, 10, 10)}, nil)
	set(t, g, widget.PreUpdate{ID: 2, Rect: rect(1000, 0, 10, 10)}, nil)
	g.UpdateDepthOrder(nil, nil)

	if !g.HaveAnyChanged() {
		t.Fatal("fresh widgets not reported as changed")
	}
	collect(New(g, nil, nil, nil, window))
	if g.HaveAnyChanged() {
		t.Error("changes still reported after extraction")
	}
}

type recordingFrameHooks struct {
	observability.NoopFrameHooks
	primitives, skipped int
}

func (h *recordingFrameHooks) OnExtract(primitives, skipped int, _ time.Duration) {
	h.primitives, h.skipped = primitives, skipped
}

func TestExtractHook(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingFrameHooks{}
	observability.SetFrameHooks(hooks)

	g := graph.New()
	set(t, g, widget.PreUpdate{ID: 1, Rect: rect(0, 0, 10, 10)}, nil)
	set(t, g, widget.PreUpdate{ID: 2, Rect: rect(1000, 0, 10, 10)}, nil)
	g.UpdateDepthOrder(nil, nil)
	collect(New(g, nil, nil, nil, window))

	if hooks.primitives != 1 || hooks.skipped != 1 {
		t.Errorf("OnExtract(%d, %d), want (1, 1)", hooks.primitives, hooks.skipped)
	}
}
