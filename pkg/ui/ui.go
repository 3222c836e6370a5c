// Package ui ties the widget graph, theme and fonts into one toolkit
// instance driven in update cycles.
//
// A cycle looks like this:
//
//	u.Begin()
//	for each widget {
//	    u.SetWidget(pre, post)
//	}
//	u.End()
//	if ex, ok := u.DrawIfChanged(); ok {
//	    sink.RenderSVG(ex, u.Window().Dim())
//	}
//
// Widget ids should be issued once with [Ui.NewID] (or a [widget.List]) and
// reused on every cycle.
//
// A Ui is not safe for concurrent use.
package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/render"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/theme"
	"github.com/matzehuels/canopy/pkg/widget"
)

// DefaultWindow is the window size used when none is configured.
var DefaultWindow = geom.Dimensions{640, 480}

// Ui is a toolkit instance.
type Ui struct {
	id     uuid.UUID
	logger *log.Logger

	graph  *graph.Graph
	gen    *graph.Generator
	theme  *theme.Theme
	fonts  *text.Map
	glyphs *text.GlyphCache
	window geom.Rect

	staleAfter int
	capacity   int

	mouse, keyboard *widget.ID
	clock           uint64
	cycle           uint64
	inCycle         bool
}

// Option configures a Ui.
type Option func(*Ui)

// WithLogger sets the logger. Without it the instance logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(u *Ui) {
		if l != nil {
			u.logger = l
		}
	}
}

// WithTheme sets the theme. A nil theme keeps [theme.Default].
func WithTheme(th *theme.Theme) Option {
	return func(u *Ui) {
		if th != nil {
			u.theme = th
		}
	}
}

// WithFonts sets the font map used by text widgets.
func WithFonts(m *text.Map) Option { return func(u *Ui) { u.fonts = m } }

// WithWindow sets the window size.
func WithWindow(dim geom.Dimensions) Option {
	return func(u *Ui) { u.window = geom.RectFromXYDim(geom.Point{}, dim) }
}

// WithStaleRelease makes every [Ui.Begin] release widgets that have not been
// set for more than n cycles. See [graph.Graph.ReleaseStale].
func WithStaleRelease(n int) Option { return func(u *Ui) { u.staleAfter = n } }

// WithCapacity preallocates room for n widgets.
func WithCapacity(n int) Option { return func(u *Ui) { u.capacity = n } }

// New creates a toolkit instance.
func New(opts ...Option) *Ui {
	u := &Ui{
		id:         uuid.New(),
		logger:     log.New(io.Discard),
		theme:      theme.Default(),
		glyphs:     text.NewGlyphCache(),
		window:     geom.RectFromXYDim(geom.Point{}, DefaultWindow),
		staleAfter: -1,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.logger = u.logger.With("ui", u.id.String()[:8])
	u.graph = graph.New(graph.WithLogger(u.logger), graph.WithCapacity(u.capacity))
	u.gen = graph.NewGenerator(u.graph)
	return u
}

// ID returns the instance id.
func (u *Ui) ID() uuid.UUID { return u.id }

// Graph returns the widget graph.
func (u *Ui) Graph() *graph.Graph { return u.graph }

// Theme returns the theme.
func (u *Ui) Theme() *theme.Theme { return u.theme }

// Fonts returns the font map, which may be nil.
func (u *Ui) Fonts() *text.Map { return u.fonts }

// GlyphCache returns the queue of glyphs used by the last extraction.
func (u *Ui) GlyphCache() *text.GlyphCache { return u.glyphs }

// Window returns the window rectangle, centred on the origin.
func (u *Ui) Window() geom.Rect { return u.window }

// SetWindow resizes the window.
func (u *Ui) SetWindow(dim geom.Dimensions) {
	u.window = geom.RectFromXYDim(geom.Point{}, dim)
}

// Cycle returns the number of cycles begun.
func (u *Ui) Cycle() uint64 { return u.cycle }

// NewID issues a fresh widget id.
func (u *Ui) NewID() widget.ID { return u.gen.Next() }

// Generator returns the id generator, for use with [widget.List].
func (u *Ui) Generator() widget.Generator { return u.gen }

// Begin starts an update cycle.
func (u *Ui) Begin() {
	if u.inCycle {
		u.logger.Warn("cycle begun twice without End", "cycle", u.cycle)
	}
	u.inCycle = true
	u.cycle++
	u.graph.ResetCycle()
	if u.staleAfter >= 0 {
		u.graph.ReleaseStale(u.staleAfter)
	}
}

// SetWidget caches a widget for the current cycle.
//
// A kind mismatch aborts the call and returns an error wrapping
// [graph.ErrKindMismatch]. Rejected edges are reported as errors wrapping
// [graph.ErrCycle], but the widget is still cached.
func (u *Ui) SetWidget(pre widget.PreUpdate, post widget.PostUpdate) error {
	if !u.inCycle {
		return fmt.Errorf("set %s: %w", pre.ID, ErrNoCycle)
	}
	if s := pre.Scrolling; s != nil && s.Thickness == 0 {
		filled := *s
		filled.Thickness = u.theme.ScrollbarThickness
		pre.Scrolling = &filled
	}

	err := u.graph.CachePreUpdate(pre)
	if errors.Is(err, graph.ErrKindMismatch) {
		return err
	}
	post.ID = pre.ID
	u.graph.CachePostUpdate(post)
	return err
}

// End finishes the cycle and rebuilds the draw order.
func (u *Ui) End() {
	if !u.inCycle {
		u.logger.Warn("End without Begin", "cycle", u.cycle)
	}
	u.inCycle = false
	u.graph.UpdateDepthOrder(u.mouse, u.keyboard)
}

// SetMouseCapture makes id the widget capturing the mouse, or clears the
// capture when id is nil. Captured widgets are drawn last among their
// siblings from the next [Ui.End].
func (u *Ui) SetMouseCapture(id *widget.ID) { u.mouse = id }

// SetKeyboardCapture is the keyboard counterpart of [Ui.SetMouseCapture].
func (u *Ui) SetKeyboardCapture(id *widget.ID) { u.keyboard = id }

// Capture returns the current mouse and keyboard captures.
func (u *Ui) Capture() (mouse, keyboard *widget.ID) { return u.mouse, u.keyboard }

// Interact returns the next interaction stamp for [widget.Floating]. Each
// call returns a larger value than the last.
func (u *Ui) Interact() uint64 {
	u.clock++
	return u.clock
}

// ScrollOffset returns the offset at which widget id must be drawn to
// account for its scrolling ancestors.
func (u *Ui) ScrollOffset(id widget.ID) geom.Point { return u.graph.ScrollOffset(id) }

// Draw clears the glyph queue and returns an extractor over the current
// draw order.
func (u *Ui) Draw() *render.Extractor {
	u.glyphs.Clear()
	return render.New(u.graph, u.theme, u.fonts, u.glyphs, u.window)
}

// DrawIfChanged is like [Ui.Draw] but reports false, without extracting,
// when nothing changed since the last extraction.
func (u *Ui) DrawIfChanged() (*render.Extractor, bool) {
	if !u.graph.HaveAnyChanged() {
		return nil, false
	}
	return u.Draw(), true
}

// ErrNoCycle is returned by [Ui.SetWidget] outside Begin/End.
var ErrNoCycle = errors.New("no update cycle in progress")
