package pages

import (
	"github.com/go-theft-auto/triptych"
)

// Line is one laid out line of a column.
type Line struct {
	Text    string
	Heading bool
}

// Layout holds the metrics text is flowed with.
type Layout struct {
	Viewport     triptych.Vec2
	Margin       float32
	Advance      float32 // Pen advance per rune
	LineHeight   float32
	FooterHeight float32 // Reserved below the text block for the caption
}

// footerGap separates the text block from the caption.
const footerGap = triptych.SpaceMD

// NewLayout derives layout metrics for viewport from the atlas and style.
func NewLayout(viewport triptych.Vec2, atlas *triptych.FontAtlas, style triptych.Style) Layout {
	return Layout{
		Viewport:     viewport,
		Margin:       style.PageMargin,
		Advance:      atlas.Advance * style.FontScale,
		LineHeight:   style.LineHeight(atlas),
		FooterHeight: atlas.LineHeight(1) + footerGap,
	}
}

// TextWidth returns the width available to a line.
func (l Layout) TextWidth() float32 {
	return l.Viewport.X - 2*l.Margin
}

// LinesPerColumn returns how many lines fit in one column, at least one.
func (l Layout) LinesPerColumn() int {
	if l.LineHeight <= 0 {
		return 1
	}
	return max(1, int((l.Viewport.Y-2*l.Margin-l.FooterHeight)/l.LineHeight))
}

// Flow wraps blocks into lines and splits them into viewport-sized
// columns. There is always at least one column.
func (l Layout) Flow(blocks []Block) [][]Line {
	var lines []Line
	for i, b := range blocks {
		if i > 0 {
			lines = append(lines, Line{})
		}
		for _, text := range triptych.WrapText(b.Text, l.TextWidth(), l.Advance) {
			lines = append(lines, Line{Text: text, Heading: b.Kind == Heading})
		}
	}

	per := l.LinesPerColumn()
	var columns [][]Line
	for len(lines) > 0 {
		// A column never starts with a paragraph gap.
		if lines[0].Text == "" {
			lines = lines[1:]
			continue
		}
		n := min(per, len(lines))
		columns = append(columns, lines[:n:n])
		lines = lines[n:]
	}
	if len(columns) == 0 {
		columns = [][]Line{nil}
	}
	return columns
}
