// Package text is the font catalogue used by the primitive extractor: a map
// of loaded fonts with cached faces, line breaking, line placement, glyph
// layout and the glyph cache queue that backends rasterize from.
package text

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ErrUnknownFont is returned when a font id or name is not in the map.
var ErrUnknownFont = errors.New("unknown font")

// FontID identifies a font within a [Map].
type FontID uint32

// Map holds the fonts available to text widgets. Faces are created lazily
// per (font, size) and cached until Close.
type Map struct {
	fonts  []*opentype.Font
	names  []string
	byName map[string]FontID

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	id   FontID
	size uint32
}

// NewMap returns an empty font map.
func NewMap() *Map {
	return &Map{
		byName: make(map[string]FontID),
		faces:  make(map[faceKey]font.Face),
	}
}

// LoadDefault returns a map with the Go fonts registered as "regular",
// "bold" and "mono". The first of them is the fallback font.
func LoadDefault() (*Map, error) {
	m := NewMap()
	for _, f := range []struct {
		name string
		ttf  []byte
	}{
		{"regular", goregular.TTF},
		{"bold", gobold.TTF},
		{"mono", gomono.TTF},
	} {
		if _, err := m.InsertBytes(f.name, f.ttf); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Insert adds a parsed font under name and returns its id. Inserting a name
// again replaces the lookup by name but keeps the older id valid.
func (m *Map) Insert(name string, f *opentype.Font) FontID {
	id := FontID(len(m.fonts))
	m.fonts = append(m.fonts, f)
	m.names = append(m.names, name)
	m.byName[name] = id
	return id
}

// InsertBytes parses TrueType or OpenType data and inserts the font.
func (m *Map) InsertBytes(name string, data []byte) (FontID, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("parse font %q: %w", name, err)
	}
	return m.Insert(name, f), nil
}

// Get returns the font with the given id.
func (m *Map) Get(id FontID) (*opentype.Font, bool) {
	if int(id) >= len(m.fonts) {
		return nil, false
	}
	return m.fonts[id], true
}

// Lookup returns the id registered under name.
func (m *Map) Lookup(name string) (FontID, bool) {
	id, ok := m.byName[name]
	return id, ok
}

// Name returns the name the font was inserted with.
func (m *Map) Name(id FontID) string {
	if int(id) >= len(m.names) {
		return ""
	}
	return m.names[id]
}

// IDs returns every font id in insertion order.
func (m *Map) IDs() []FontID {
	ids := make([]FontID, len(m.fonts))
	for i := range ids {
		ids[i] = FontID(i)
	}
	return ids
}

// First returns the first inserted font, the fallback when neither a style
// nor the theme names one.
func (m *Map) First() (FontID, bool) {
	if m == nil || len(m.fonts) == 0 {
		return 0, false
	}
	return 0, true
}

// Len returns the number of fonts.
func (m *Map) Len() int { return len(m.fonts) }

// Face returns a face for the font at the given pixel size.
func (m *Map) Face(id FontID, size uint32) (font.Face, error) {
	f, ok := m.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFont, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := faceKey{id: id, size: size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %q size %d: %w", m.Name(id), size, err)
	}
	m.faces[key] = face
	return face, nil
}

// Close releases every cached face.
func (m *Map) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for k, face := range m.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.faces, k)
	}
	return errors.Join(errs...)
}
