package theme

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matzehuels/canopy/pkg/color"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

func TestLoad(t *testing.T) {
	th, err := Load(filepath.Join("testdata", "light.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if th.Name != "light" {
		t.Errorf("Name = %q, want light", th.Name)
	}
	if th.LineCap != CapRound {
		t.Errorf("LineCap = %v, want round", th.LineCap)
	}
	if th.LineThickness != 2 {
		t.Errorf("LineThickness = %v, want 2", th.LineThickness)
	}
	// Keys left out keep their defaults.
	if th.FontSizeMedium != Default().FontSizeMedium {
		t.Errorf("FontSizeMedium = %d, want default %d", th.FontSizeMedium, Default().FontSizeMedium)
	}

	rect := th.For("Rectangle")
	if rect.Color == nil || *rect.Color != color.MustHex("#3366cc") {
		t.Errorf("Rectangle color = %v, want #3366cc", rect.Color)
	}
	line := th.For("Line")
	if line.Thickness == nil || *line.Thickness != 4 {
		t.Errorf("Line thickness = %v, want 4", line.Thickness)
	}
	if line.Cap == nil || *line.Cap != CapFlat {
		t.Errorf("Line cap = %v, want flat", line.Cap)
	}
	if got := th.For("Oval"); got.Color != nil {
		t.Errorf("Oval override = %+v, want none", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code cerrors.Code
	}{
		{"BadSyntax", "name = ", cerrors.ErrCodeInvalidTheme},
		{"UnknownKey", "colour = \"#fff\"", cerrors.ErrCodeInvalidTheme},
		{"BadColor", "label_color = \"#zz0000\"", cerrors.ErrCodeInvalidTheme},
		{"BadCap", "line_cap = \"square\"", cerrors.ErrCodeInvalidTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !cerrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", cerrors.GetCode(err), tt.code)
			}
		})
	}

	_, err := Load(filepath.Join("testdata", "missing.toml"))
	if !cerrors.Is(err, cerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %s, want %s", cerrors.GetCode(err), cerrors.ErrCodeFileNotFound)
	}
}

func TestLineCapUnmarshal(t *testing.T) {
	var c LineCap
	if err := c.UnmarshalText([]byte("Round")); err != nil || c != CapRound {
		t.Errorf("UnmarshalText(Round) = %v, %v", c, err)
	}
	if err := c.UnmarshalText([]byte("butt")); !errors.Is(err, ErrUnknownLineCap) {
		t.Errorf("UnmarshalText(butt) error = %v, want ErrUnknownLineCap", err)
	}
}

func TestEncodeDecodes(t *testing.T) {
	th := Default()
	thick := 3.0
	th.Widgets = map[string]WidgetDefaults{"Line": {Thickness: &thick}}

	var buf bytes.Buffer
	if err := th.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(Encode()): %v\n%s", err, buf.String())
	}
	if got.ScrollbarColor != th.ScrollbarColor {
		t.Errorf("ScrollbarColor = %v, want %v", got.ScrollbarColor, th.ScrollbarColor)
	}
	if l := got.For("Line"); l.Thickness == nil || *l.Thickness != 3 {
		t.Errorf("Line thickness = %v, want 3", l.Thickness)
	}
}

func TestForNilTheme(t *testing.T) {
	var th *Theme
	if got := th.For("Rectangle"); got != (WidgetDefaults{}) {
		t.Errorf("For on nil theme = %+v", got)
	}
}
