package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font"

	"github.com/matzehuels/canopy/pkg/geom"
)

func defaultFace(t *testing.T, size uint32) (*Map, font.Face) {
	t.Helper()
	m, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	face, err := m.Face(0, size)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	return m, face
}

func TestMap(t *testing.T) {
	m, face := defaultFace(t, 14)

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	if id, ok := m.Lookup("mono"); !ok || m.Name(id) != "mono" {
		t.Errorf("Lookup(mono) = %d, %v", id, ok)
	}
	if id, ok := m.First(); !ok || id != 0 {
		t.Errorf("First = %d, %v", id, ok)
	}
	again, err := m.Face(0, 14)
	if err != nil || again != face {
		t.Errorf("Face not cached: %v", err)
	}
	if _, err := m.Face(9, 14); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("Face(9) error = %v, want ErrUnknownFont", err)
	}
	if _, ok := NewMap().First(); ok {
		t.Error("empty map has a first font")
	}
}

func TestLines(t *testing.T) {
	_, face := defaultFace(t, 12)
	w := func(s string) geom.Scalar { return toScalar(font.MeasureString(face, s)) }

	t.Run("Newlines", func(t *testing.T) {
		s := "hello\nworld\n"
		got := Lines(face, s, 0)
		want := []string{"hello", "world", ""}
		if len(got) != len(want) {
			t.Fatalf("got %d lines, want %d", len(got), len(want))
		}
		for i, l := range got {
			if l.Text(s) != want[i] {
				t.Errorf("line %d = %q, want %q", i, l.Text(s), want[i])
			}
		}
		if got[0].Width != w("hello") {
			t.Errorf("width = %v, want %v", got[0].Width, w("hello"))
		}
	})

	t.Run("Empty", func(t *testing.T) {
		got := Lines(face, "", 100)
		if len(got) != 1 || got[0] != (LineInfo{}) {
			t.Errorf("Lines(\"\") = %+v", got)
		}
	})

	t.Run("WrapAtSpace", func(t *testing.T) {
		s := "hello world"
		got := Lines(face, s, max(w("hello"), w("world"))+1)
		if len(got) != 2 {
			t.Fatalf("got %d lines, want 2: %+v", len(got), got)
		}
		if got[0].Text(s) != "hello" || got[1].Text(s) != "world" {
			t.Errorf("lines = %q, %q", got[0].Text(s), got[1].Text(s))
		}
	})

	t.Run("BreakLongWord", func(t *testing.T) {
		got := Lines(face, "abc", 1)
		if len(got) != 3 {
			t.Fatalf("got %d lines, want 3: %+v", len(got), got)
		}
	})
}

func TestLineRects(t *testing.T) {
	infos := []LineInfo{{Width: 10}, {Width: 20}}
	bounds := geom.RectFromXYDim(geom.Point{0, 0}, geom.Dimensions{100, 100})

	tests := []struct {
		align Align
		left  [2]geom.Scalar
	}{
		{AlignStart, [2]geom.Scalar{-50, -50}},
		{AlignMiddle, [2]geom.Scalar{-5, -10}},
		{AlignEnd, [2]geom.Scalar{40, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			rects := LineRects(nil, infos, 10, 2, bounds, tt.align)
			if len(rects) != 2 {
				t.Fatalf("got %d rects", len(rects))
			}
			if rects[0].Top() != 50 || rects[0].Bottom() != 40 {
				t.Errorf("line 0 y = [%v, %v], want [40, 50]", rects[0].Bottom(), rects[0].Top())
			}
			if rects[1].Top() != 38 || rects[1].Bottom() != 28 {
				t.Errorf("line 1 y = [%v, %v], want [28, 38]", rects[1].Bottom(), rects[1].Top())
			}
			for i, r := range rects {
				if r.Left() != tt.left[i] {
					t.Errorf("line %d left = %v, want %v", i, r.Left(), tt.left[i])
				}
			}
		})
	}
}

func TestLayout(t *testing.T) {
	_, face := defaultFace(t, 16)
	origin := geom.Point{-20, 30}
	glyphs := Layout(nil, face, "abc", origin)
	if len(glyphs) != 3 {
		t.Fatalf("got %d glyphs", len(glyphs))
	}
	if glyphs[0].Pos[0] != origin[0] {
		t.Errorf("first glyph x = %v, want %v", glyphs[0].Pos[0], origin[0])
	}
	baseline := origin[1] - toScalar(face.Metrics().Ascent)
	for i, g := range glyphs {
		if g.Pos[1] != baseline {
			t.Errorf("glyph %d baseline = %v, want %v", i, g.Pos[1], baseline)
		}
		if i > 0 && g.Pos[0] <= glyphs[i-1].Pos[0] {
			t.Errorf("glyph %d does not advance", i)
		}
	}
}

func TestGlyphCache(t *testing.T) {
	c := NewGlyphCache()
	run := []PositionedGlyph{{Rune: 'a'}, {Rune: 'b'}, {Rune: 'a'}}
	c.Queue(0, 12, run)
	c.Queue(0, 14, run[:1])

	if c.Queued() != 4 {
		t.Errorf("Queued = %d, want 4", c.Queued())
	}
	want := []GlyphKey{{0, 12, 'a'}, {0, 12, 'b'}, {0, 14, 'a'}}
	got := c.UniqueGlyphs()
	if len(got) != len(want) {
		t.Fatalf("UniqueGlyphs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("glyph %d = %v, want %v", i, got[i], want[i])
		}
	}

	c.Clear()
	if c.Queued() != 0 || len(c.UniqueGlyphs()) != 0 {
		t.Error("Clear left glyphs queued")
	}
}

func TestAlignUnmarshal(t *testing.T) {
	var a Align
	if err := a.UnmarshalText([]byte("center")); err != nil || a != AlignMiddle {
		t.Errorf("center = %v, %v", a, err)
	}
	if err := a.UnmarshalText([]byte("justify")); err == nil {
		t.Error("justify accepted")
	}
}
