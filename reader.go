package triptych

// Renderer is the interface for rendering frame draw data.
type Renderer interface {
	Render(dl *DrawList) error
	FontTextureID() uint32
	Resize(width, height int)
}

// Canvas is what a view draws into during a frame.
type Canvas struct {
	DrawList    *DrawList
	Atlas       *FontAtlas
	Style       Style
	DisplaySize Vec2
}

// Text draws a line of body text at x, y with the style's font scale.
func (c *Canvas) Text(x, y float32, text string, color uint32) {
	c.DrawList.AddText(x, y, text, color, c.Atlas, c.Style.FontScale)
}

// Drawer is implemented by views that paint themselves. bounds is the
// view's slot on screen; it is already shifted by the surface offset and
// may lie partly outside the display.
type Drawer interface {
	Draw(c *Canvas, bounds Rect)
}

// Reader drives a Manager frame by frame: it feeds input through the
// gesture recognizer, advances surface animation and draws the
// materialized views.
type Reader struct {
	renderer Renderer
	manager  *Manager
	drag     *PageDrag
	style    Style
	atlas    *FontAtlas
	notices  Notices

	canvas      *Canvas
	displaySize Vec2
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStyle sets the reader style.
func WithStyle(style Style) ReaderOption {
	return func(r *Reader) { r.style = style }
}

// WithDragConfig sets the gesture parameters.
func WithDragConfig(cfg DragConfig) ReaderOption {
	return func(r *Reader) { r.drag.Config = cfg }
}

// NewReader creates a frame driver for m drawing through renderer.
func NewReader(renderer Renderer, m *Manager, opts ...ReaderOption) *Reader {
	r := &Reader{
		renderer: renderer,
		manager:  m,
		drag:     NewPageDrag(),
		style:    DefaultStyle(),
		atlas:    NewFontAtlas(renderer.FontTextureID(), BasicFace()),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Manager returns the driven manager.
func (r *Reader) Manager() *Manager { return r.manager }

// Drag returns the gesture recognizer.
func (r *Reader) Drag() *PageDrag { return r.drag }

// Atlas returns the font atlas used for text.
func (r *Reader) Atlas() *FontAtlas { return r.atlas }

// Style returns the current style.
func (r *Reader) Style() Style { return r.style }

// SetStyle sets the style used from the next frame on.
func (r *Reader) SetStyle(style Style) { r.style = style }

// Notify shows message over the pages for a few seconds.
func (r *Reader) Notify(message string, level NoticeLevel) {
	r.notices.Push(message, level)
}

// Notices returns the notices on screen.
func (r *Reader) Notices() []Notice { return r.notices.Active() }

// Begin starts a frame: resizes on a display change, processes input and
// advances animation. Returns the canvas views are drawn into by End.
func (r *Reader) Begin(input *InputState, displaySize Vec2, deltaTime float32) *Canvas {
	if displaySize != r.displaySize {
		r.displaySize = displaySize
		r.renderer.Resize(int(displaySize.X), int(displaySize.Y))
		r.manager.OnSizeChanged(displaySize)
	} else if r.manager.Window() == nil {
		r.manager.Layout()
	}

	r.drag.Update(r.manager, input, deltaTime)
	r.manager.Surface().Update(deltaTime)
	r.notices.Update(deltaTime)

	r.canvas = &Canvas{
		DrawList:    AcquireDrawList(),
		Atlas:       r.atlas,
		Style:       r.style,
		DisplaySize: displaySize,
	}
	return r.canvas
}

// End draws the visible views and notices and renders the frame.
func (r *Reader) End() error {
	c := r.canvas
	if c == nil {
		return nil
	}
	r.canvas = nil
	defer ReleaseDrawList(c.DrawList)

	r.drawViews(c)
	r.notices.draw(c)
	return r.renderer.Render(c.DrawList)
}

// drawViews paints every view whose slot intersects the display.
func (r *Reader) drawViews(c *Canvas) {
	dl := c.DrawList
	screen := Rect{W: c.DisplaySize.X, H: c.DisplaySize.Y}
	dl.AddRect(0, 0, screen.W, screen.H, c.Style.BackgroundColor)

	vp := r.manager.ViewportSize()
	offset := r.manager.Offset()
	for slot, v := range r.manager.Views() {
		d, ok := v.(Drawer)
		if !ok {
			continue
		}
		bounds := Rect{X: float32(slot)*vp.X - offset, Y: 0, W: vp.X, H: vp.Y}
		if !bounds.Intersects(screen) {
			continue
		}
		dl.PushClipRect(bounds.X, bounds.Y, bounds.X+bounds.W, bounds.Y+bounds.H)
		d.Draw(c, bounds)
		dl.PopClipRect()
	}
}
