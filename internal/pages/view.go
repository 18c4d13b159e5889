package pages

import (
	"fmt"

	"github.com/go-theft-auto/triptych"
)

// progressHeight is the height of the reading progress bar.
const progressHeight float32 = 3

// PageView shows one chapter as a strip of columns, one viewport wide
// each. Only the active column is visible in the view's slot; its content
// extent is the full strip.
type PageView struct {
	index     int
	pageCount int
	chapter   *Chapter
	err       error

	atlas  *triptych.FontAtlas
	style  triptych.Style
	layout Layout

	columns [][]Line
	column  int
	frame   triptych.Rect

	detached bool
	onDetach func(*PageView)
}

func newPageView(index, pageCount int, ch *Chapter, err error, atlas *triptych.FontAtlas, style triptych.Style, viewport triptych.Vec2) *PageView {
	v := &PageView{
		index:     index,
		pageCount: pageCount,
		chapter:   ch,
		err:       err,
		atlas:     atlas,
		style:     style,
	}
	v.reflow(viewport)
	return v
}

// Index returns the page index the view shows.
func (v *PageView) Index() int { return v.index }

// Chapter returns the chapter, or nil if loading failed.
func (v *PageView) Chapter() *Chapter { return v.chapter }

// Err returns the load error shown in place of the chapter.
func (v *PageView) Err() error { return v.err }

// Frame returns the slot last assigned by the manager.
func (v *PageView) Frame() triptych.Rect { return v.frame }

// Columns returns the number of columns.
func (v *PageView) Columns() int { return len(v.columns) }

// Column returns the active column.
func (v *PageView) Column() int { return v.column }

// Lines returns the lines of column i.
func (v *PageView) Lines(i int) []Line {
	if i < 0 || i >= len(v.columns) {
		return nil
	}
	return v.columns[i]
}

// Detached reports whether the view has left the window.
func (v *PageView) Detached() bool { return v.detached }

// Size returns the content extent: one viewport per column.
func (v *PageView) Size() triptych.Vec2 {
	vp := v.layout.Viewport
	return triptych.Vec2{X: vp.X * float32(len(v.columns)), Y: vp.Y}
}

// SetFrame places the view. A frame of a new size reflows the text.
func (v *PageView) SetFrame(frame triptych.Rect) {
	v.frame = frame
	if frame.Size() != v.layout.Viewport {
		v.reflow(frame.Size())
	}
}

// Detach is called when the view leaves the window.
func (v *PageView) Detach() {
	v.detached = true
	if v.onDetach != nil {
		v.onDetach(v)
	}
}

// ScrollToEdge shows the first or last column.
func (v *PageView) ScrollToEdge(edge triptych.Edge) {
	if edge == triptych.EdgeEnd {
		v.column = len(v.columns) - 1
	} else {
		v.column = 0
	}
}

// NextColumn advances one column. Returns false at the last column.
func (v *PageView) NextColumn() bool {
	if v.column+1 >= len(v.columns) {
		return false
	}
	v.column++
	return true
}

// PrevColumn goes back one column. Returns false at the first column.
func (v *PageView) PrevColumn() bool {
	if v.column == 0 {
		return false
	}
	v.column--
	return true
}

// SetStyle applies a new style and reflows.
func (v *PageView) SetStyle(style triptych.Style) {
	v.style = style
	v.reflow(v.layout.Viewport)
}

// reflow lays the chapter out for viewport, keeping the reading position
// at the same fraction of the chapter.
func (v *PageView) reflow(viewport triptych.Vec2) {
	oldCount := len(v.columns)
	atEnd := oldCount > 1 && v.column == oldCount-1

	v.layout = NewLayout(viewport, v.atlas, v.style)
	var blocks []Block
	if v.err != nil {
		blocks = []Block{
			{Kind: Heading, Text: "This chapter could not be opened."},
			{Kind: Paragraph, Text: v.err.Error()},
		}
	} else if v.chapter != nil {
		blocks = v.chapter.Blocks
	}
	v.columns = v.layout.Flow(blocks)

	switch {
	case atEnd:
		v.column = len(v.columns) - 1
	case oldCount > 0:
		v.column = min(v.column*len(v.columns)/oldCount, len(v.columns)-1)
	default:
		v.column = 0
	}
}

// Caption returns the footer text: chapter id and column position.
func (v *PageView) Caption() string {
	id := fmt.Sprintf("#%d", v.index+1)
	if v.chapter != nil && v.chapter.ID != "" {
		id = v.chapter.ID
	}
	return fmt.Sprintf("%s  %d/%d", id, v.column+1, len(v.columns))
}

// Progress returns the reading position through the whole book in [0, 1].
func (v *PageView) Progress() float32 {
	if v.pageCount <= 0 {
		return 0
	}
	within := float32(v.column+1) / float32(len(v.columns))
	return (float32(v.index) + within) / float32(v.pageCount)
}

// Draw paints the active column into bounds.
func (v *PageView) Draw(c *triptych.Canvas, bounds triptych.Rect) {
	dl := c.DrawList
	s := v.style
	l := v.layout

	dl.AddRect(bounds.X, bounds.Y, bounds.W, bounds.H, s.PageColor)
	if s.EdgeWidth > 0 {
		dl.AddRect(bounds.X, bounds.Y, s.EdgeWidth, bounds.H, s.CaptionColor)
	}

	x := bounds.X + l.Margin
	y := bounds.Y + l.Margin
	for _, line := range v.Lines(v.column) {
		color := s.TextColor
		if line.Heading {
			color = s.AccentColor
		}
		dl.AddText(x, y, line.Text, color, v.atlas, s.FontScale)
		y += l.LineHeight
	}

	// Footer: caption above a progress bar along the bottom edge.
	footerY := bounds.Y + bounds.H - l.Margin/2 - v.atlas.LineHeight(1)
	caption := triptych.TruncateText(v.Caption(), l.TextWidth(), v.atlas.Advance)
	dl.AddText(x, footerY, caption, s.CaptionColor, v.atlas, 1)

	barY := bounds.Y + bounds.H - progressHeight
	dl.AddRect(bounds.X, barY, bounds.W*v.Progress(), progressHeight, s.AccentColor)
}
