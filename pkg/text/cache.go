package text

// GlyphKey identifies a glyph image: one rune of one font at one size.
type GlyphKey struct {
	Font FontID
	Size uint32
	Rune rune
}

// GlyphCache collects the glyphs queued during an extraction pass so a
// backend can rasterize each distinct glyph once before drawing text.
type GlyphCache struct {
	queued int
	seen   map[GlyphKey]struct{}
	unique []GlyphKey
}

// NewGlyphCache returns an empty cache.
func NewGlyphCache() *GlyphCache {
	return &GlyphCache{seen: make(map[GlyphKey]struct{})}
}

// Queue records the glyphs of a run set in font at size.
func (c *GlyphCache) Queue(font FontID, size uint32, glyphs []PositionedGlyph) {
	for _, g := range glyphs {
		c.queued++
		k := GlyphKey{Font: font, Size: size, Rune: g.Rune}
		if _, ok := c.seen[k]; ok {
			continue
		}
		c.seen[k] = struct{}{}
		c.unique = append(c.unique, k)
	}
}

// Queued returns how many glyphs were queued since the last Clear.
func (c *GlyphCache) Queued() int { return c.queued }

// UniqueGlyphs returns the distinct glyphs queued since the last Clear, in
// first-queued order.
func (c *GlyphCache) UniqueGlyphs() []GlyphKey { return c.unique }

// Clear empties the queue.
func (c *GlyphCache) Clear() {
	c.queued = 0
	clear(c.seen)
	c.unique = c.unique[:0]
}
