package sink

import (
	"bytes"
	"fmt"
	"image"
	stdcolor "image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/render"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	background *color.Color
	fonts      *text.Map
	images     map[primitive.ImageID]image.Image
}

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGBackground fills the canvas with c before drawing.
func WithPNGBackground(c color.Color) PNGOption {
	return func(r *pngRenderer) { r.background = &c }
}

// WithFonts supplies the font map text primitives were laid out with.
// Without it text is not drawn.
func WithFonts(m *text.Map) PNGOption {
	return func(r *pngRenderer) { r.fonts = m }
}

// WithImages supplies the images referenced by image primitives.
func WithImages(images map[primitive.ImageID]image.Image) PNGOption {
	return func(r *pngRenderer) { r.images = images }
}

// RenderPNG rasterizes every primitive of src onto a canvas of the given
// size.
func RenderPNG(src Source, size geom.Dimensions, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", r.scale)
	}

	w := int(math.Ceil(size[0] * r.scale))
	h := int(math.Ceil(size[1] * r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %vx%v", size[0], size[1])
	}
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	if r.background != nil {
		dc.SetColor(r.background.NRGBA())
		dc.Clear()
	}

	for p, ok := src.Next(); ok; p, ok = src.Next() {
		dc.Push()
		x, y, sw, sh := p.Scissor.ToImage(size)
		dc.DrawRectangle(x, y, sw, sh)
		dc.Clip()
		if err := r.primitive(dc, p, size); err != nil {
			return nil, err
		}
		// Pop keeps the current mask.
		dc.ResetClip()
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) primitive(dc *gg.Context, p render.Primitive, size geom.Dimensions) error {
	switch p.Kind {
	case render.KindRectangle:
		x, y, w, h := p.Rect.ToImage(size)
		dc.DrawRectangle(x, y, w, h)
		dc.SetColor(p.Color.NRGBA())
		dc.Fill()

	case render.KindPolygon:
		path(dc, p.Points, size)
		dc.ClosePath()
		dc.SetColor(p.Color.NRGBA())
		dc.Fill()

	case render.KindLines:
		path(dc, p.Points, size)
		dc.SetColor(p.Color.NRGBA())
		dc.SetLineWidth(p.Thickness)
		if p.Cap == theme.CapRound {
			dc.SetLineCap(gg.LineCapRound)
		} else {
			dc.SetLineCap(gg.LineCapButt)
		}
		dc.Stroke()

	case render.KindImage:
		img, ok := r.images[p.Image]
		if !ok {
			return nil
		}
		if p.SrcRect != nil {
			img = crop(img, *p.SrcRect)
		}
		if p.Tint != nil {
			img = tint(img, *p.Tint)
		}
		b := img.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return nil
		}
		x, y, w, h := p.Rect.ToImage(size)
		dc.Push()
		dc.Translate(x, y)
		dc.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
		dc.DrawImage(img, -b.Min.X, -b.Min.Y)
		dc.Pop()

	case render.KindText:
		if r.fonts == nil {
			return nil
		}
		face, err := r.fonts.Face(p.Font, p.FontSize)
		if err != nil {
			return fmt.Errorf("text of widget %s: %w", p.ID, err)
		}
		dc.SetFontFace(face)
		dc.SetColor(p.Color.NRGBA())
		for _, g := range p.Glyphs {
			pt := g.Pos.ToImage(size)
			dc.DrawString(string(g.Rune), pt[0], pt[1])
		}
	}
	return nil
}

func path(dc *gg.Context, pts []geom.Point, size geom.Dimensions) {
	dc.NewSubPath()
	for i, p := range pts {
		q := p.ToImage(size)
		if i == 0 {
			dc.MoveTo(q[0], q[1])
		} else {
			dc.LineTo(q[0], q[1])
		}
	}
}

// crop returns the part of img selected by src, given in image pixels with
// the origin at the top-left corner.
func crop(img image.Image, src geom.Rect) image.Image {
	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return img
	}
	b := img.Bounds()
	rect := image.Rect(
		b.Min.X+int(src.Left()), b.Min.Y+int(src.Bottom()),
		b.Min.X+int(src.Right()), b.Min.Y+int(src.Top()),
	)
	return sub.SubImage(rect)
}

// tint multiplies every pixel of img by c, channel by channel.
func tint(img image.Image, c color.Color) image.Image {
	if c == color.White {
		return img
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := stdcolor.NRGBAModel.Convert(img.At(x, y)).(stdcolor.NRGBA)
			out.SetNRGBA(x, y, stdcolor.NRGBA{
				R: mul8(px.R, c[0]),
				G: mul8(px.G, c[1]),
				B: mul8(px.B, c[2]),
				A: mul8(px.A, c[3]),
			})
		}
	}
	return out
}

func mul8(v uint8, f float32) uint8 {
	f = min(max(f, 0), 1)
	return uint8(math.Round(float64(v) * float64(f)))
}
