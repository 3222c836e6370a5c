package primitive

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/image/font"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
)

func ptr[T any](v T) *T { return &v }

func TestStyleResolution(t *testing.T) {
	th := theme.Default()
	th.Widgets = map[string]theme.WidgetDefaults{
		string(KindRectangle): {Color: ptr(color.Blue)},
		string(KindLine):      {Thickness: ptr(5.0)},
	}

	tests := []struct {
		name string
		got  color.Color
		want color.Color
	}{
		{"StyleWins", Fill(color.Red).GetColor(th, KindRectangle), color.Red},
		{"KindOverride", ShapeStyle{}.GetColor(th, KindRectangle), color.Blue},
		{"ThemeBase", ShapeStyle{}.GetColor(th, KindOval), th.ShapeColor},
		{"OutlineUsesLineColor", Outline(LineStyle{Color: ptr(color.Green)}).GetColor(th, KindOval), color.Green},
		{"FrameColorBase", FramedStyle{}.GetFrameColor(th, KindFramedRectangle), th.BorderColor},
		{"TextColorBase", TextStyle{}.GetColor(th, KindText), th.LabelColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if got := (LineStyle{}).GetThickness(th, KindLine); got != 5 {
		t.Errorf("line thickness = %v, want 5", got)
	}
	if got := (LineStyle{}).GetThickness(th, KindPointPath); got != th.LineThickness {
		t.Errorf("point path thickness = %v, want %v", got, th.LineThickness)
	}
	if got := (FramedStyle{Frame: ptr(0.0)}).GetFrame(th, KindFramedRectangle); got != 0 {
		t.Errorf("explicit zero frame = %v", got)
	}
	if got := (TextStyle{}).GetFontSize(th, KindText); got != th.FontSizeMedium {
		t.Errorf("font size = %d, want %d", got, th.FontSizeMedium)
	}
}

func TestRectangleOutline(t *testing.T) {
	r := geom.RectFromXYDim(geom.Point{0, 0}, geom.Dimensions{4, 2})
	got := RectangleOutline(nil, r)
	want := []geom.Point{{-2, -1}, {-2, 1}, {2, 1}, {2, -1}, {-2, -1}}
	if len(got) != len(want) {
		t.Fatalf("got %d points", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOvalPoints(t *testing.T) {
	r := geom.RectFromXYDim(geom.Point{10, 0}, geom.Dimensions{20, 10})
	pts := OvalPoints(nil, r, 0)
	if len(pts) != OvalResolution+1 {
		t.Fatalf("got %d points, want %d", len(pts), OvalResolution+1)
	}
	if pts[0] != (geom.Point{20, 0}) {
		t.Errorf("first point = %v, want [20 0]", pts[0])
	}
	last := pts[len(pts)-1]
	if math.Abs(last[0]-20) > 1e-9 || math.Abs(last[1]) > 1e-9 {
		t.Errorf("last point = %v, want the first", last)
	}
	for i, p := range pts {
		dx, dy := (p[0]-10)/10, p[1]/5
		if math.Abs(dx*dx+dy*dy-1) > 1e-9 {
			t.Errorf("point %d = %v is off the ellipse", i, p)
		}
	}
}

func TestNewText(t *testing.T) {
	fonts, err := text.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	defer fonts.Close()
	th := theme.Default()
	face, err := fonts.Face(0, th.FontSizeMedium)
	if err != nil {
		t.Fatal(err)
	}
	width := float64(font.MeasureString(face, "three"))/64 + 1

	payload, err := NewText("one two three", TextStyle{Wrap: true}, th, fonts, width)
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	if n := len(payload.State.LineInfos); n != 3 {
		t.Errorf("wrapped into %d lines, want 3", n)
	}

	payload, err = NewText("one two three", TextStyle{}, th, fonts, width)
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	if n := len(payload.State.LineInfos); n != 1 {
		t.Errorf("unwrapped text has %d lines, want 1", n)
	}

	// The payload reads back through the graph's typed accessor.
	c := &graph.Container{State: payload}
	if _, err := graph.StateOf[TextState, TextStyle](c); err != nil {
		t.Errorf("StateOf: %v", err)
	}
	if _, err := graph.StateOf[RectangleState, ShapeStyle](c); !errors.Is(err, graph.ErrStateType) {
		t.Errorf("StateOf wrong type error = %v", err)
	}

	if _, err := NewText("x", TextStyle{}, th, text.NewMap(), 0); !errors.Is(err, text.ErrUnknownFont) {
		t.Errorf("empty font map error = %v, want ErrUnknownFont", err)
	}
}

func TestGetFontIDFromTheme(t *testing.T) {
	fonts, err := text.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	th := theme.Default()
	th.Font = "mono"
	mono, _ := fonts.Lookup("mono")

	if id, ok := (TextStyle{}).GetFontID(th, fonts); !ok || id != mono {
		t.Errorf("GetFontID = %d, %v, want %d", id, ok, mono)
	}
	bold, _ := fonts.Lookup("bold")
	if id, _ := (TextStyle{FontID: &bold}).GetFontID(th, fonts); id != bold {
		t.Errorf("style font ignored: got %d", id)
	}
}
