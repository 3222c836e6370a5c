package scene

import (
	"errors"
	"reflect"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/graph"
	"github.com/matzehuels/canopy/pkg/primitive"
	"github.com/matzehuels/canopy/pkg/text"
	"github.com/matzehuels/canopy/pkg/ui"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Apply sets every widget of the scene on u in one update cycle and sizes
// u's window to the scene's.
//
// Names are bound to ids on the first call and reused afterwards, so
// applying the scene again updates the same widgets. Widgets are set in
// declaration order and then shifted by the scroll offset of their
// scrolling ancestors.
//
// Widgets that fail to build are skipped. A kind mismatch skips the widget
// and reports an error coded [cerrors.ErrCodeKindMismatch]; rejected edges
// are reported with [cerrors.ErrCodeCycle]. All errors are joined.
func (s *Scene) Apply(u *ui.Ui) error {
	if s.ids == nil {
		s.ids = make(map[string]widget.ID, len(s.Widgets))
		s.names = make(map[widget.ID]string, len(s.Widgets))
	}
	for _, w := range s.Widgets {
		if _, ok := s.ids[w.Name]; !ok {
			id := u.NewID()
			s.ids[w.Name] = id
			s.names[id] = w.Name
		}
	}

	u.SetWindow(s.Window.Dim())
	u.SetMouseCapture(s.ref(s.Capture.Mouse))
	u.SetKeyboardCapture(s.ref(s.Capture.Keyboard))

	var errs []error
	u.Begin()
	set := func(w *Widget, offset geom.Point) {
		if err := s.set(u, w, offset); err != nil {
			errs = append(errs, err)
		}
	}
	// Offsets come from the edges of the previous cycle first, then are
	// corrected once this cycle's edges are in place.
	used := make([]geom.Point, len(s.Widgets))
	for i := range s.Widgets {
		w := &s.Widgets[i]
		if w.Parent != "" {
			used[i] = u.ScrollOffset(s.ids[w.Name])
		}
		set(w, used[i])
	}
	for i := range s.Widgets {
		w := &s.Widgets[i]
		if w.Parent == "" {
			continue
		}
		if off := u.ScrollOffset(s.ids[w.Name]); off != used[i] {
			set(w, off)
		}
	}
	u.End()
	return errors.Join(errs...)
}

func (s *Scene) ref(name string) *widget.ID {
	if name == "" {
		return nil
	}
	id, ok := s.ids[name]
	if !ok {
		return nil
	}
	return &id
}

func (s *Scene) set(u *ui.Ui, w *Widget, offset geom.Point) error {
	pre := s.preUpdate(w, offset)
	state, err := w.payload(u, pre.Rect, offset)
	if err != nil {
		return err
	}

	post := widget.PostUpdate{State: state}
	if c, ok := u.Graph().Widget(pre.ID); !ok || c.Rect != pre.Rect || !reflect.DeepEqual(c.State, state) {
		post.Representation = state
	}

	err = u.SetWidget(pre, post)
	switch {
	case errors.Is(err, graph.ErrKindMismatch):
		return cerrors.Wrap(cerrors.ErrCodeKindMismatch, err, "widget %q", w.Name)
	case errors.Is(err, graph.ErrCycle):
		return cerrors.Wrap(cerrors.ErrCodeCycle, err, "widget %q", w.Name)
	case err != nil:
		return cerrors.Wrap(cerrors.ErrCodeInternal, err, "widget %q", w.Name)
	}
	return nil
}

func (s *Scene) preUpdate(w *Widget, offset geom.Point) widget.PreUpdate {
	rect := w.Rect().Shift(offset)
	pre := widget.PreUpdate{
		ID:         s.ids[w.Name],
		Kind:       w.Kind,
		Parent:     s.ref(w.Parent),
		RelativeTo: s.ref(w.RelativeTo),
		Rect:       rect,
		Depth:      w.Depth,
		KidArea:    widget.KidArea{Rect: rect.Pad(w.KidPad), Pad: w.KidPad},
		CropKids:   w.CropKids,
	}
	if w.Floating > 0 {
		pre.Floating = &widget.Floating{LastInteracted: w.Floating}
	}
	if sc := w.Scroll; sc != nil {
		pre.Scrolling = &widget.ScrollState{
			Vertical:   sc.Vertical.bar(),
			Horizontal: sc.Horizontal.bar(),
			Thickness:  sc.Thickness,
		}
	}
	return pre
}

func (b *Bar) bar() *widget.ScrollBar {
	if b == nil {
		return nil
	}
	return &widget.ScrollBar{Offset: b.Offset, MaxOffset: b.MaxOffset, TotalLength: b.TotalLength}
}

// payload builds the kind's cached state. Point coordinates are shifted
// along with the rectangle.
func (w *Widget) payload(u *ui.Ui, rect geom.Rect, offset geom.Point) (any, error) {
	st := w.Style
	line := primitive.LineStyle{Color: st.Color, Thickness: st.Thickness, Cap: st.Cap}
	shape := primitive.ShapeStyle{Color: st.Color}
	if st.Outline {
		shape = primitive.Outline(line)
	}

	switch w.Kind {
	case primitive.KindRectangle:
		return primitive.Rectangle{Style: shape}, nil
	case primitive.KindFramedRectangle:
		return primitive.FramedRectangle{Style: primitive.FramedStyle{Color: st.Color, Frame: st.Frame, FrameColor: st.FrameColor}}, nil
	case primitive.KindOval:
		return primitive.Oval{State: primitive.OvalState{Resolution: w.State.Resolution}, Style: shape}, nil
	case primitive.KindPolygon:
		return primitive.Polygon{State: primitive.PolygonState{Points: shift(w.State.Points, offset)}, Style: shape}, nil
	case primitive.KindLine:
		return primitive.Line{
			State: primitive.LineState{Start: w.State.Start.Add(offset), End: w.State.End.Add(offset)},
			Style: line,
		}, nil
	case primitive.KindPointPath:
		return primitive.PointPath{State: primitive.PointPathState{Points: shift(w.State.Points, offset)}, Style: line}, nil
	case primitive.KindText:
		return w.text(u, rect)
	case primitive.KindImage:
		img := primitive.Image{State: primitive.ImageState{Image: primitive.ImageID(w.State.Image)}, Style: primitive.ImageStyle{Color: st.Color}}
		if r := w.State.SrcRect; r != nil {
			src := geom.Rect{X: geom.Range{Start: r[0], End: r[0] + r[2]}, Y: geom.Range{Start: r[1], End: r[1] + r[3]}}
			img.State.SrcRect = &src
		}
		return img, nil
	}
	return nil, nil
}

func (w *Widget) text(u *ui.Ui, rect geom.Rect) (any, error) {
	st := w.Style
	style := primitive.TextStyle{
		Color:       st.Color,
		FontSize:    st.FontSize,
		LineSpacing: st.LineSpacing,
		Align:       st.Align,
		Wrap:        st.Wrap,
	}
	fonts := u.Fonts()
	if fonts == nil {
		// Kept without layout; the extractor skips text without a font map.
		return primitive.Text{State: primitive.TextState{String: w.State.Text}, Style: style}, nil
	}
	if st.Font != "" {
		id, ok := fonts.Lookup(st.Font)
		if !ok {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidScene, text.ErrUnknownFont, "widget %q: font %q", w.Name, st.Font)
		}
		style.FontID = &id
	}
	t, err := primitive.NewText(w.State.Text, style, u.Theme(), fonts, rect.W())
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidScene, err, "widget %q", w.Name)
	}
	return t, nil
}

func shift(pts []geom.Point, by geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(by)
	}
	return out
}
