package render

import (
	"iter"
	"time"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

type cropEntry struct {
	node    graph.NodeIndex
	scissor geom.Rect
}

// Extractor yields the primitives of one frame. It is not safe for
// concurrent use, and the graph must not be mutated while it is in use.
type Extractor struct {
	g      *graph.Graph
	theme  *theme.Theme
	fonts  *text.Map
	glyphs *text.GlyphCache
	window geom.Rect

	order []graph.Visitable
	next  int
	crop  []cropEntry

	pending []Primitive
	head    int

	points    []geom.Point
	glyphBuf  []text.PositionedGlyph
	lineRects []geom.Rect

	emitted, skipped int
	started          time.Time
	done             bool
}

// New returns an extractor over g's current draw order. A nil theme means
// [theme.Default]; fonts and glyphs may be nil, in which case text widgets
// are skipped and no glyphs are queued.
func New(g *graph.Graph, th *theme.Theme, fonts *text.Map, glyphs *text.GlyphCache, window geom.Rect) *Extractor {
	if th == nil {
		th = theme.Default()
	}
	return &Extractor{
		g:       g,
		theme:   th,
		fonts:   fonts,
		glyphs:  glyphs,
		window:  window,
		order:   g.DepthOrder(),
		started: time.Now(),
	}
}

// Next returns the next primitive. It reports false once the draw order is
// exhausted, and on every call after that.
func (e *Extractor) Next() (Primitive, bool) {
	for {
		if e.head < len(e.pending) {
			p := e.pending[e.head]
			e.head++
			e.emitted++
			return p, true
		}
		if e.next >= len(e.order) {
			e.finish()
			return Primitive{}, false
		}
		e.pending, e.head = e.pending[:0], 0
		v := e.order[e.next]
		e.next++
		e.visit(v)
	}
}

// Draw passes every remaining primitive to fn.
func (e *Extractor) Draw(fn func(Primitive)) {
	for p, ok := e.Next(); ok; p, ok = e.Next() {
		fn(p)
	}
}

// All returns the remaining primitives as an iterator. Breaking out of the
// loop leaves the rest of the frame unconsumed.
func (e *Extractor) All() iter.Seq[Primitive] {
	return func(yield func(Primitive) bool) {
		for p, ok := e.Next(); ok; p, ok = e.Next() {
			if !yield(p) {
				return
			}
		}
	}
}

func (e *Extractor) finish() {
	if e.done {
		return
	}
	e.done = true
	e.g.MarkDrawn()
	observability.Frame().OnExtract(e.emitted, e.skipped, time.Since(e.started))
}

// scissorFor pops crop entries that do not belong to an ancestor of node
// and returns the scissor in effect for it.
func (e *Extractor) scissorFor(node graph.NodeIndex) geom.Rect {
	for len(e.crop) > 0 && !e.g.IsAncestor(e.crop[len(e.crop)-1].node, node) {
		e.crop = e.crop[:len(e.crop)-1]
	}
	if len(e.crop) == 0 {
		return e.window
	}
	return e.crop[len(e.crop)-1].scissor
}

func (e *Extractor) visible(node graph.NodeIndex, rect geom.Rect) bool {
	if _, ok := rect.Overlap(e.window); !ok {
		return false
	}
	_, ok := e.g.VisibleArea(node)
	return ok
}

func (e *Extractor) visit(v graph.Visitable) {
	c, ok := e.g.WidgetAt(v.Node)
	if !ok {
		e.skipped++
		return
	}
	scissor := e.scissorFor(v.Node)

	if v.Kind == graph.VisitScrollbar {
		if e.visible(v.Node, c.Rect) {
			e.scrollbars(v, c, scissor)
		}
		return
	}

	if c.CropKids {
		kids, ok := c.KidArea.Rect.Overlap(scissor)
		if !ok {
			kids = geom.Rect{}
		}
		e.crop = append(e.crop, cropEntry{node: v.Node, scissor: kids})
	}
	c.RepresentationChanged = false

	if !e.visible(v.Node, c.Rect) {
		e.skipped++
		return
	}
	base := Primitive{ID: v.ID, Scissor: scissor, Rect: c.Rect}
	if !e.widget(base, c) {
		e.skipped++
	}
}

// widget emits the primitives of a recognized kind and reports whether
// anything was emitted.
func (e *Extractor) widget(p Primitive, c *graph.Container) bool {
	th := e.theme
	e.points = e.points[:0]

	switch c.Kind {
	case primitive.KindRectangle:
		u, err := graph.StateOf[primitive.RectangleState, primitive.ShapeStyle](c)
		if err != nil {
			return false
		}
		if u.Style.Outline != nil {
			e.points = primitive.RectangleOutline(e.points, p.Rect)
		}
		e.shape(p, u.Style, c.Kind, e.points, true)

	case primitive.KindFramedRectangle:
		u, err := graph.StateOf[primitive.RectangleState, primitive.FramedStyle](c)
		if err != nil {
			return false
		}
		if frame := u.Style.GetFrame(th, c.Kind); frame > 0 {
			outer := p
			outer.Kind = KindRectangle
			outer.Color = u.Style.GetFrameColor(th, c.Kind)
			e.emit(outer)
			p.Rect = p.Rect.Pad(frame)
		}
		p.Kind = KindRectangle
		p.Color = u.Style.GetColor(th, c.Kind)
		e.emit(p)

	case primitive.KindOval:
		u, err := graph.StateOf[primitive.OvalState, primitive.ShapeStyle](c)
		if err != nil {
			return false
		}
		e.points = primitive.OvalPoints(e.points, p.Rect, u.State.Resolution)
		e.shape(p, u.Style, c.Kind, e.points, false)

	case primitive.KindPolygon:
		u, err := graph.StateOf[primitive.PolygonState, primitive.ShapeStyle](c)
		if err != nil {
			return false
		}
		e.shape(p, u.Style, c.Kind, u.State.Points, false)

	case primitive.KindLine:
		u, err := graph.StateOf[primitive.LineState, primitive.LineStyle](c)
		if err != nil {
			return false
		}
		e.points = append(e.points, u.State.Start, u.State.End)
		e.lines(p, u.Style, c.Kind, e.points)

	case primitive.KindPointPath:
		u, err := graph.StateOf[primitive.PointPathState, primitive.LineStyle](c)
		if err != nil {
			return false
		}
		e.lines(p, u.Style, c.Kind, u.State.Points)

	case primitive.KindText:
		u, err := graph.StateOf[primitive.TextState, primitive.TextStyle](c)
		if err != nil {
			return false
		}
		return e.text(p, u, c)

	case primitive.KindImage:
		u, err := graph.StateOf[primitive.ImageState, primitive.ImageStyle](c)
		if err != nil {
			return false
		}
		p.Kind = KindImage
		p.Image = u.State.Image
		p.SrcRect = u.State.SrcRect
		p.Tint = u.Style.Color
		e.emit(p)

	default:
		return false
	}
	return true
}

// shape emits a filled shape, or its outline when the style has one.
// Rectangles fill as a rectangle rather than a polygon.
func (e *Extractor) shape(p Primitive, style primitive.ShapeStyle, kind widget.Kind, points []geom.Point, isRect bool) {
	if style.Outline != nil {
		e.lines(p, *style.Outline, kind, points)
		return
	}
	p.Color = style.GetColor(e.theme, kind)
	if isRect {
		p.Kind = KindRectangle
	} else {
		p.Kind = KindPolygon
		p.Points = points
	}
	e.emit(p)
}

func (e *Extractor) lines(p Primitive, style primitive.LineStyle, kind widget.Kind, points []geom.Point) {
	p.Kind = KindLines
	p.Color = style.GetColor(e.theme, kind)
	p.Thickness = style.GetThickness(e.theme, kind)
	p.Cap = style.GetCap(e.theme, kind)
	p.Points = points
	e.emit(p)
}

func (e *Extractor) text(p Primitive, u primitive.Text, c *graph.Container) bool {
	if e.fonts == nil {
		return false
	}
	th, style := e.theme, u.Style
	id, ok := style.GetFontID(th, e.fonts)
	if !ok {
		return false
	}
	size := style.GetFontSize(th, c.Kind)
	face, err := e.fonts.Face(id, size)
	if err != nil {
		return false
	}

	infos := u.State.LineInfos
	e.lineRects = text.LineRects(e.lineRects[:0], infos, size, style.GetLineSpacing(th, c.Kind), p.Rect, style.GetAlign())
	e.glyphBuf = e.glyphBuf[:0]
	for i, info := range infos {
		r := e.lineRects[i]
		e.glyphBuf = text.Layout(e.glyphBuf, face, info.Text(u.State.String), geom.Point{r.Left(), r.Top()})
	}
	if e.glyphs != nil {
		e.glyphs.Queue(id, size, e.glyphBuf)
	}

	p.Kind = KindText
	p.Color = style.GetColor(th, c.Kind)
	p.Glyphs = e.glyphBuf
	p.Font = id
	p.FontSize = size
	e.emit(p)
	return true
}

// scrollbars emits a track and a handle for each scroll axis of the widget.
func (e *Extractor) scrollbars(v graph.Visitable, c *graph.Container, scissor geom.Rect) {
	s := c.Scrolling
	kid := c.KidArea.Rect
	track := e.theme.ScrollbarColor.WithAlpha(e.theme.ScrollbarColor.Alpha() / 2)
	handle := e.theme.ScrollbarColor

	add := func(t, h geom.Rect) {
		e.emit(Primitive{Kind: KindRectangle, ID: v.ID, Scissor: scissor, Rect: t, Color: track})
		e.emit(Primitive{Kind: KindRectangle, ID: v.ID, Scissor: scissor, Rect: h, Color: handle})
	}
	if t, h, ok := s.VerticalRects(kid); ok {
		add(t, h)
	}
	if t, h, ok := s.HorizontalRects(kid); ok {
		add(t, h)
	}
}

func (e *Extractor) emit(p Primitive) { e.pending = append(e.pending, p) }
