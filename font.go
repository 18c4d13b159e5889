package triptych

import (
	"golang.org/x/image/font/basicfont"
)

// FontAtlas describes a fixed-cell bitmap font uploaded as a single-column
// texture: glyph i occupies rows [i*CellH, (i+1)*CellH).
type FontAtlas struct {
	TextureID uint32
	CellW     float32 // Glyph width in texels
	CellH     float32 // Glyph height in texels
	Advance   float32 // Horizontal pen advance per rune

	ranges   []basicfont.Range
	glyphs   int
	fallback int
}

// BasicFace returns the bitmap face the reader draws text with.
func BasicFace() *basicfont.Face {
	return basicfont.Face7x13
}

// NewFontAtlas describes face as stored in texture textureID. The texture
// must hold face.Mask unchanged.
func NewFontAtlas(textureID uint32, face *basicfont.Face) *FontAtlas {
	a := &FontAtlas{
		TextureID: textureID,
		CellW:     float32(face.Width),
		CellH:     float32(face.Height),
		Advance:   float32(face.Advance),
		ranges:    face.Ranges,
		glyphs:    face.Mask.Bounds().Dy() / face.Height,
	}
	a.fallback, _ = a.index('?')
	return a
}

// LineHeight returns the height of a text line at scale.
func (a *FontAtlas) LineHeight(scale float32) float32 {
	return a.CellH * scale
}

// MeasureText returns the width of a single line of text at scale.
func (a *FontAtlas) MeasureText(text string, scale float32) float32 {
	n := 0
	for range text {
		n++
	}
	return float32(n) * a.Advance * scale
}

// index returns the glyph index of r.
func (a *FontAtlas) index(r rune) (int, bool) {
	for _, rng := range a.ranges {
		if r >= rng.Low && r < rng.High {
			return int(r-rng.Low) + rng.Offset, true
		}
	}
	return 0, false
}

// glyphRows returns the vertical texture coordinates of r's cell.
func (a *FontAtlas) glyphRows(r rune) (v0, v1 float32) {
	i, ok := a.index(unicodeFallback(r))
	if !ok {
		i = a.fallback
	}
	n := float32(max(a.glyphs, 1))
	return float32(i) / n, float32(i+1) / n
}

// unicodeFallback maps typographic punctuation common in books to the ASCII
// glyphs of the bitmap font.
func unicodeFallback(r rune) rune {
	if r >= 32 && r < 127 {
		return r
	}
	switch r {
	case '‘', '’', '‚', '′':
		return '\''
	case '“', '”', '„', '″', '«', '»':
		return '"'
	case '–', '—', '‒', '−':
		return '-'
	case '…':
		return '.'
	case '\u00a0', '\u2002', '\u2003', '\u2009', '\u202f':
		return ' '
	case '•', '·':
		return '*'
	case '→', '▶':
		return '>'
	case '←', '◀':
		return '<'
	default:
		return r
	}
}
