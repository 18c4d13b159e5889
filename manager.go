package triptych

import (
	"errors"
	"fmt"
	"log/slog"
)

// Precondition errors returned by New.
var (
	ErrInvalidPageCount = errors.New("triptych: page count must be at least 1")
	ErrIndexOutOfRange  = errors.New("triptych: initial index out of range")
)

// Provider produces page views on demand.
// PageView is never called with an out-of-range index and never twice for
// the same index within one window computation.
type Provider interface {
	PageView(m *Manager, index int, edge Edge) View
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(m *Manager, index int, edge Edge) View

// PageView calls f.
func (f ProviderFunc) PageView(m *Manager, index int, edge Edge) View {
	return f(m, index, edge)
}

// ClampMode restricts scrolling to one direction for the rest of a gesture.
type ClampMode int

const (
	ClampNone     ClampMode = iota // No restriction yet
	ClampPrevious                  // Cannot move past the center toward the next page
	ClampNext                      // Cannot move past the center toward the previous page
)

func (c ClampMode) String() string {
	switch c {
	case ClampNone:
		return "none"
	case ClampPrevious:
		return "previous"
	case ClampNext:
		return "next"
	default:
		return fmt.Sprintf("ClampMode(%d)", int(c))
	}
}

// Phase is the gesture state of the manager.
type Phase int

const (
	PhaseIdle     Phase = iota // No gesture in progress
	PhaseDragging              // Pointer is down
	PhaseSettling              // Released, decelerating toward a page
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Manager keeps the window of materialized page views around the current
// index and reconciles scroll events into index changes.
//
// A Manager is not safe for concurrent use. All methods must be called from
// the goroutine that owns the UI.
type Manager struct {
	pageCount int
	index     int
	window    Window
	clamp     ClampMode
	phase     Phase

	provider Provider
	surface  *Surface
	logger   *slog.Logger

	// Window computations run one at a time. Events arriving while one is in
	// progress (from inside a provider call) are replayed afterwards.
	busy    bool
	pending []func()
}

// New creates a manager for pageCount pages starting at initialIndex.
func New(pageCount, initialIndex int, opts ...Option) (*Manager, error) {
	if pageCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageCount, pageCount)
	}
	if initialIndex < 0 || initialIndex >= pageCount {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, initialIndex, pageCount)
	}

	m := &Manager{
		pageCount: pageCount,
		index:     initialIndex,
		surface:   NewSurface(),
		logger:    defaultLogger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// PageCount returns the fixed number of pages.
func (m *Manager) PageCount() int { return m.pageCount }

// Index returns the committed page index.
func (m *Manager) Index() int { return m.index }

// Window returns the current window, or nil before the first layout.
func (m *Manager) Window() Window { return m.window }

// Clamp returns the scroll clamp of the gesture in progress.
func (m *Manager) Clamp() ClampMode { return m.clamp }

// Phase returns the gesture phase.
func (m *Manager) Phase() Phase { return m.phase }

// Surface returns the paging surface.
func (m *Manager) Surface() *Surface { return m.surface }

// Offset returns the surface's horizontal offset.
func (m *Manager) Offset() float32 { return m.surface.Offset() }

// ContentSize returns the surface's scrollable extent.
func (m *Manager) ContentSize() Vec2 { return m.surface.ContentSize() }

// ViewportSize returns the visible size. Providers use it to size views.
func (m *Manager) ViewportSize() Vec2 { return m.surface.Viewport() }

// Views returns the materialized views left to right.
func (m *Manager) Views() []View {
	if m.window == nil {
		return nil
	}
	return m.window.Views()
}

// Indices returns the page index of each materialized view, left to right.
func (m *Manager) Indices() []int {
	if m.window == nil {
		return nil
	}
	return m.window.Indices(m.index)
}

// CurrentView returns the view of the committed page, or nil.
func (m *Manager) CurrentView() View {
	if m.window == nil {
		return nil
	}
	return m.window.Views()[m.currentSlot()]
}

// SetProvider attaches a content provider. If no window exists yet one is
// built for the current index and laid out.
func (m *Manager) SetProvider(p Provider) {
	m.serialize(func() {
		m.provider = p
		if m.window == nil && p != nil {
			m.layout()
		}
	})
}

// OnSizeChanged handles a new viewport size with a layout pass.
func (m *Manager) OnSizeChanged(size Vec2) {
	m.serialize(func() {
		m.surface.setViewport(size)
		m.layout()
	})
}

// Layout runs a layout pass, building the window first if needed.
func (m *Manager) Layout() {
	m.serialize(m.layout)
}

// OnDragBegin marks the start of a drag. A new gesture starts with no
// clamp. Pressing while the surface is still settling catches the previous
// gesture instead of starting one, so its clamp stays in force until the
// surface settles; otherwise a fling could be caught and pushed past the
// center toward a second page.
func (m *Manager) OnDragBegin() {
	if m.phase == PhaseIdle {
		m.clamp = ClampNone
	}
	m.phase = PhaseDragging
	if m.surface.Animating() {
		m.surface.SetOffset(m.surface.Offset())
	}
}

// OnDragEnd marks the release of a drag; the surface is decelerating.
func (m *Manager) OnDragEnd() {
	m.phase = PhaseSettling
}

// OnScroll moves the surface to x, applying the clamp of the gesture in
// progress. Returns the offset actually applied.
//
// Clamping is only active while three slots are live: once the offset has
// moved to one side of the center slot, it cannot cross back past the
// center for the rest of the gesture, so one fling cannot skip two pages.
func (m *Manager) OnScroll(x float32) float32 {
	x = m.surface.SetOffset(x)
	if m.window == nil || m.window.Len() != 3 {
		return x
	}

	w := m.surface.Viewport().X
	switch m.clamp {
	case ClampNone:
		if x < w {
			m.clamp = ClampPrevious
		} else if x > w {
			m.clamp = ClampNext
		}
		if m.clamp != ClampNone {
			m.logger.Debug("scroll clamped", "mode", m.clamp, "offset", x)
		}
	case ClampPrevious:
		x = m.surface.SetOffset(min(x, w))
	case ClampNext:
		x = m.surface.SetOffset(max(x, w))
	}
	return x
}

// OnSettleAt commits the page the surface came to rest on. The index moves
// by at most one.
func (m *Manager) OnSettleAt(x float32) {
	m.serialize(func() { m.settle(x) })
}

func (m *Manager) settle(x float32) {
	m.clamp = ClampNone
	m.phase = PhaseIdle

	if m.pageCount == 1 || m.window == nil || m.provider == nil {
		return
	}
	w := m.surface.Viewport().X
	if w <= 0 {
		return
	}

	slots := m.window.Len()
	pageOffset := roundHalfAway(x / w)
	if pageOffset < 0 || pageOffset >= slots {
		m.logger.Warn("settle offset outside window",
			"offset", x,
			"pageOffset", pageOffset,
			"slots", slots,
			"index", m.index)
		m.layout()
		return
	}

	prevIndex, prevWindow := m.index, m.window
	switch pageOffset {
	case 0:
		if m.index > 0 {
			m.index--
		}
	case 1:
		if m.index == 0 {
			m.index++
		}
	case 2:
		m.index++
	}

	m.logger.Debug("settled",
		"offset", x,
		"pageOffset", pageOffset,
		"from", prevIndex,
		"to", m.index)

	m.rebuild(prevWindow, prevIndex)
	m.layout()

	// The rest offset may sit off a page boundary. Keep what is on screen in
	// place under the new layout, then animate onto the boundary.
	boundary := float32(pageOffset) * w
	if x != boundary {
		target := m.surface.Offset()
		m.surface.SetOffset(target + (x - boundary))
		m.surface.AnimateTo(target)
	}
}

// serialize runs op now, or after the operation in progress completes.
// Operations queued behind one that panics are discarded with it.
func (m *Manager) serialize(op func()) {
	if m.busy {
		m.pending = append(m.pending, op)
		return
	}

	m.busy = true
	defer func() {
		m.busy = false
		m.pending = nil
	}()

	op()
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]
		next()
	}
}

// rebuild recomputes the window for the current index, reusing views of
// prior and detaching those that fall out of it.
func (m *Manager) rebuild(prior Window, priorIndex int) {
	if m.provider == nil {
		return
	}

	next := ComputeWindow(m.pageCount, m.index, prior, priorIndex, m.resolve)
	if prior != nil {
		detachDropped(prior, priorIndex, next, m.index)
	}
	m.window = next

	m.logger.Debug("window rebuilt",
		"index", m.index,
		"slots", next.Len(),
		"pages", next.Indices(m.index))
}

// resolve asks the provider for a view and checks it against the viewport.
func (m *Manager) resolve(index int, edge Edge) View {
	v := m.provider.PageView(m, index, edge)
	if v == nil {
		panic(fmt.Sprintf("triptych: provider returned no view for page %d", index))
	}
	m.checkSize(index, v)
	m.logger.Debug("page view resolved", "index", index, "edge", edge)
	return v
}

// checkSize panics if a sized view is not the viewport's height and a
// positive multiple of its width.
func (m *Manager) checkSize(index int, v View) {
	sizer, ok := v.(Sizer)
	if !ok {
		return
	}
	vp := m.surface.Viewport()
	if vp.Empty() {
		return
	}

	size := sizer.Size()
	ratio := size.X / vp.X
	columns := roundHalfAway(ratio)
	if size.Y != vp.Y || columns < 1 || abs32(ratio-float32(columns)) > 1e-3 {
		panic(fmt.Sprintf("triptych: page %d view is %gx%g, want height %g and width a multiple of %g",
			index, size.X, size.Y, vp.Y, vp.X))
	}
}

// layout sizes the surface to the window, frames each view in its slot and
// scrolls the current page into view.
func (m *Manager) layout() {
	if m.window == nil {
		m.rebuild(nil, m.index)
	}

	vp := m.surface.Viewport()
	if m.window == nil {
		m.surface.setContentSize(vp)
		return
	}

	views := m.window.Views()
	m.surface.setContentSize(Vec2{X: vp.X * float32(len(views)), Y: vp.Y})
	for slot, v := range views {
		v.SetFrame(Rect{X: float32(slot) * vp.X, Y: 0, W: vp.X, H: vp.Y})
	}
	m.surface.SetOffset(float32(m.currentSlot()) * vp.X)
}

// currentSlot returns the slot holding the current page.
func (m *Manager) currentSlot() int {
	switch m.window.(type) {
	case Pair:
		return m.index
	case Triple:
		return min(1, m.index)
	default:
		return 0
	}
}

// detachDropped notifies views of prev whose page is not in next.
func detachDropped(prev Window, prevIndex int, next Window, nextIndex int) {
	kept := make(map[int]bool, 3)
	for _, idx := range next.Indices(nextIndex) {
		kept[idx] = true
	}

	views := prev.Views()
	for slot, idx := range prev.Indices(prevIndex) {
		if kept[idx] {
			continue
		}
		if d, ok := views[slot].(Detacher); ok {
			d.Detach()
		}
	}
}
