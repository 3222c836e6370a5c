package sink

import (
	"bytes"
	"encoding/json"
	"image"
	stdcolor "image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/render"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

var window = geom.RectFromXYDim(geom.Point{0, 0}, geom.Dimensions{100, 100})

// scene builds a cropping red canvas holding a blue child that overflows
// its right edge, and a green triangle outside the canvas.
func scene(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	canvas := geom.RectFromXYDim(geom.Point{0, 0}, geom.Dimensions{40, 40})
	set := func(pre widget.PreUpdate, state any) {
		if err := g.CachePreUpdate(pre); err != nil {
			t.Fatal(err)
		}
		g.CachePostUpdate(widget.PostUpdate{ID: pre.ID, State: state})
	}
	set(widget.PreUpdate{ID: 1, Kind: primitive.KindRectangle, Rect: canvas, CropKids: true, KidArea: widget.KidArea{Rect: canvas}},
		primitive.Rectangle{Style: primitive.Fill(color.Red)})
	set(widget.PreUpdate{ID: 2, Kind: primitive.KindRectangle, Parent: widget.ID(1).Ref(), Rect: geom.RectFromXYDim(geom.Point{20, 0}, geom.Dimensions{40, 10})},
		primitive.Rectangle{Style: primitive.Fill(color.Blue)})
	set(widget.PreUpdate{ID: 3, Kind: primitive.KindPolygon, Rect: geom.RectFromCorners(geom.Point{-50, -50}, geom.Point{-30, -30})},
		primitive.Polygon{State: primitive.PolygonState{Points: []geom.Point{{-50, -50}, {-30, -50}, {-40, -30}}}, Style: primitive.Fill(color.Green)})
	set(widget.PreUpdate{ID: 4, Kind: primitive.KindLine, Rect: geom.RectFromCorners(geom.Point{30, 30}, geom.Point{40, 40})},
		primitive.Line{State: primitive.LineState{Start: geom.Point{30, 30}, End: geom.Point{40, 40}}})
	g.UpdateDepthOrder(nil, nil)
	return g
}

func extractor(g *graph.Graph) *render.Extractor {
	return render.New(g, theme.Default(), nil, nil, window)
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(extractor(scene(t)), window.Dim(), WithBackground(color.Black)))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.0 100.0"`) {
		t.Errorf("unexpected header: %.80s", svg)
	}
	// The window and the canvas kid area are the only two scissors.
	if n := strings.Count(svg, "<clipPath"); n != 2 {
		t.Errorf("clipPaths = %d, want 2", n)
	}
	for _, want := range []string{
		`<rect x="30" y="30" width="40" height="40" fill="#ff0000" fill-opacity="1" clip-path="url(#clip0)" data-widget="1"/>`,
		`<clipPath id="clip1"><rect x="30" y="30" width="40" height="40"/></clipPath>`,
		`clip-path="url(#clip1)" data-widget="2"`,
		`<polygon points="0,100 20,100 10,80" fill="#00ff00"`,
		`<polyline points="80,20 90,10" fill="none"`,
		`stroke-linecap="butt"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %s\n%s", want, svg)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(extractor(scene(t)), window.Dim(), WithPNGBackground(color.Black))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("size = %v, want 100x100", b)
	}

	tests := []struct {
		name string
		x, y int
		want stdcolor.NRGBA
	}{
		{"Canvas", 40, 40, color.Red.NRGBA()},
		{"ChildInsideCrop", 60, 50, color.Blue.NRGBA()},
		{"ChildCroppedAway", 80, 50, color.Black.NRGBA()},
		{"Triangle", 10, 97, color.Green.NRGBA()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stdcolor.NRGBAModel.Convert(img.At(tt.x, tt.y)).(stdcolor.NRGBA)
			if got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if _, err := RenderPNG(extractor(scene(t)), window.Dim(), WithScale(0)); err == nil {
		t.Error("zero scale accepted")
	}
}

func TestRenderPNGScale(t *testing.T) {
	data, err := RenderPNG(extractor(scene(t)), window.Dim(), WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("size = %v, want 200x200", b)
	}
}

func TestRenderPNGImageTint(t *testing.T) {
	white := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range white.Pix {
		white.Pix[i] = 0xff
	}
	images := map[primitive.ImageID]image.Image{1: white}
	ptr := func(c color.Color) *color.Color { return &c }

	tests := []struct {
		name string
		tint *color.Color
		want stdcolor.NRGBA
	}{
		{"Untinted", nil, color.White.NRGBA()},
		{"White", ptr(color.White), color.White.NRGBA()},
		{"Red", ptr(color.Red), color.Red.NRGBA()},
		{"Gray", ptr(color.Color{0.5, 0.5, 0.5, 1}), stdcolor.NRGBA{128, 128, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Slice{{Kind: render.KindImage, ID: 1, Scissor: window, Rect: window, Image: 1, Tint: tt.tint}}
			data, err := RenderPNG(&src, window.Dim(), WithPNGBackground(color.Black), WithImages(images))
			if err != nil {
				t.Fatal(err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatal(err)
			}
			got := stdcolor.NRGBAModel.Convert(img.At(50, 50)).(stdcolor.NRGBA)
			if got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(extractor(scene(t)), window.Dim(), WithFrameID("frame-1"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Frame != "frame-1" || out.Width != 100 {
		t.Errorf("header = %q %v", out.Frame, out.Width)
	}

	var kinds []string
	for _, p := range out.Primitives {
		kinds = append(kinds, p.Kind)
	}
	if got, want := strings.Join(kinds, ","), "rectangle,rectangle,polygon,lines"; got != want {
		t.Errorf("kinds = %s, want %s", got, want)
	}
	if child := out.Primitives[1]; child.Widget != 2 || child.Scissor != (jsonRect{X: 0, Y: 0, W: 40, H: 40}) {
		t.Errorf("child = %+v", child)
	}
	if line := out.Primitives[3]; line.Cap != "flat" || len(line.Points) != 2 {
		t.Errorf("line = %+v", line)
	}
}

func TestRenderJSONRandomFrameID(t *testing.T) {
	a, err := RenderJSON(&Slice{}, window.Dim())
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderJSON(&Slice{}, window.Dim())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("frame ids are not unique")
	}
	if !bytes.Contains(a, []byte(`"primitives": []`)) {
		t.Errorf("empty frame = %s", a)
	}
}
