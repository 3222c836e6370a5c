package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/canopy/pkg/color"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/render"
	"github.com/matzehuels/canopy/pkg/theme"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background *color.Color
	fontFamily string
	images     map[primitive.ImageID]string
}

// WithBackground fills the canvas with c before drawing.
func WithBackground(c color.Color) SVGOption {
	return func(r *svgRenderer) { r.background = &c }
}

// WithFontFamily sets the font-family of text elements (default sans-serif).
func WithFontFamily(f string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = f }
}

// WithImageURLs maps image ids to URLs for <image> elements. Images without
// a URL are drawn as an outlined placeholder.
func WithImageURLs(urls map[primitive.ImageID]string) SVGOption {
	return func(r *svgRenderer) { r.images = urls }
}

// RenderSVG draws every primitive of src onto an SVG canvas of the given
// size.
func RenderSVG(src Source, size geom.Dimensions, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		size[0], size[1], size[0], size[1])
	if r.background != nil {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" %s/>`+"\n", fill(*r.background))
	}

	clips := make(map[geom.Rect]int)
	for p, ok := src.Next(); ok; p, ok = src.Next() {
		id, seen := clips[p.Scissor]
		if !seen {
			id = len(clips)
			clips[p.Scissor] = id
			x, y, w, h := p.Scissor.ToImage(size)
			fmt.Fprintf(&buf, `  <clipPath id="clip%d"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
				id, num(x), num(y), num(w), num(h))
		}
		r.primitive(&buf, p, size, id)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) primitive(buf *bytes.Buffer, p render.Primitive, size geom.Dimensions, clip int) {
	attrs := fmt.Sprintf(`clip-path="url(#clip%d)" data-widget="%d"`, clip, p.ID)
	switch p.Kind {
	case render.KindRectangle:
		x, y, w, h := p.Rect.ToImage(size)
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" %s %s/>`+"\n",
			num(x), num(y), num(w), num(h), fill(p.Color), attrs)

	case render.KindPolygon:
		fmt.Fprintf(buf, `  <polygon points="%s" %s %s/>`+"\n", points(p.Points, size), fill(p.Color), attrs)

	case render.KindLines:
		fmt.Fprintf(buf, `  <polyline points="%s" fill="none" %s stroke-width="%s" stroke-linecap="%s" %s/>`+"\n",
			points(p.Points, size), stroke(p.Color), num(p.Thickness), linecap(p.Cap), attrs)

	case render.KindImage:
		x, y, w, h := p.Rect.ToImage(size)
		if url, ok := r.images[p.Image]; ok {
			fmt.Fprintf(buf, `  <image href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="none" %s/>`+"\n",
				escape(url), num(x), num(y), num(w), num(h), attrs)
			return
		}
		fmt.Fprintf(buf, `  <rect class="image" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#808080" data-image="%d" %s/>`+"\n",
			num(x), num(y), num(w), num(h), p.Image, attrs)

	case render.KindText:
		if len(p.Glyphs) == 0 {
			return
		}
		var xs, ys, s bytes.Buffer
		for i, g := range p.Glyphs {
			pt := g.Pos.ToImage(size)
			if i > 0 {
				xs.WriteByte(' ')
				ys.WriteByte(' ')
			}
			xs.WriteString(num(pt[0]))
			ys.WriteString(num(pt[1]))
			s.WriteRune(g.Rune)
		}
		fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="%s" font-size="%d" %s %s>%s</text>`+"\n",
			xs.String(), ys.String(), escape(r.fontFamily), p.FontSize, fill(p.Color), attrs, escape(s.String()))
	}
}

func points(pts []geom.Point, size geom.Dimensions) string {
	var b bytes.Buffer
	for i, p := range pts {
		q := p.ToImage(size)
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(num(q[0]))
		b.WriteByte(',')
		b.WriteString(num(q[1]))
	}
	return b.String()
}

func fill(c color.Color) string {
	return fmt.Sprintf(`fill="%s" fill-opacity="%s"`, c.HexRGB(), opacity(c))
}

func stroke(c color.Color) string {
	return fmt.Sprintf(`stroke="%s" stroke-opacity="%s"`, c.HexRGB(), opacity(c))
}

func linecap(c theme.LineCap) string {
	if c == theme.CapRound {
		return "round"
	}
	return "butt"
}

func opacity(c color.Color) string { return strconv.FormatFloat(float64(c.Alpha()), 'f', -1, 32) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
