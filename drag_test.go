package triptych

import "testing"

const frameTime = 1.0 / 60

// dragFrame runs one frame with the pointer at x.
func dragFrame(pd *PageDrag, m *Manager, in *InputState, x float32, down bool, dt float32) {
	in.Reset()
	in.SetMousePos(x, 50)
	in.SetMouseButton(MouseButtonLeft, down)
	pd.Update(m, in, dt)
	m.Surface().Update(dt)
}

// runUntilIdle runs frames without input until the gesture and any
// correction animation are finished.
func runUntilIdle(t *testing.T, pd *PageDrag, m *Manager, in *InputState) {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if !pd.IsSettling() && !m.Surface().Animating() {
			return
		}
		in.Reset()
		pd.Update(m, in, frameTime)
		m.Surface().Update(frameTime)
	}
	t.Fatal("gesture did not come to rest")
}

func newDragManager(t *testing.T, index int) *Manager {
	t.Helper()
	m, err := New(6, index, WithViewport(Vec2{X: 100, Y: 100}), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	m.SetProvider(&pageProvider{})
	return m
}

func TestPageDrag_FlingToNextPage(t *testing.T) {
	m := newDragManager(t, 2)
	pd := NewPageDrag()
	in := NewInputState()

	dragFrame(pd, m, in, 300, true, frameTime)
	if !pd.IsDragging() || m.Phase() != PhaseDragging {
		t.Fatal("Expected drag to start on press")
	}

	dragFrame(pd, m, in, 260, true, frameTime)
	if m.Offset() != 140 {
		t.Errorf("Expected offset 140 while dragging, got %v", m.Offset())
	}
	if m.Clamp() != ClampNext {
		t.Errorf("Expected clamp toward next, got %v", m.Clamp())
	}

	dragFrame(pd, m, in, 260, false, frameTime)
	if pd.IsDragging() || !pd.IsSettling() || m.Phase() != PhaseSettling {
		t.Fatal("Expected release to start settling")
	}

	runUntilIdle(t, pd, m, in)

	if m.Index() != 3 {
		t.Errorf("Expected page 3, got %d", m.Index())
	}
	if m.Offset() != 100 || m.Phase() != PhaseIdle {
		t.Errorf("Expected idle at offset 100, got %v at %v", m.Phase(), m.Offset())
	}
}

func TestPageDrag_SlowDragSnapsBack(t *testing.T) {
	m := newDragManager(t, 2)
	pd := NewPageDrag()
	in := NewInputState()

	dragFrame(pd, m, in, 300, true, frameTime)
	dragFrame(pd, m, in, 280, true, 0.5) // 40 px/s
	dragFrame(pd, m, in, 280, false, 0.5)

	runUntilIdle(t, pd, m, in)

	if m.Index() != 2 {
		t.Errorf("Expected to stay on page 2, got %d", m.Index())
	}
	if m.Offset() != 100 {
		t.Errorf("Expected offset 100, got %v", m.Offset())
	}
}

func TestPageDrag_FlingNeverSkipsPages(t *testing.T) {
	m := newDragManager(t, 2)
	pd := NewPageDrag()
	in := NewInputState()

	dragFrame(pd, m, in, 400, true, frameTime)
	dragFrame(pd, m, in, 150, true, frameTime)
	if m.Offset() != 200 {
		t.Errorf("Expected drag held at the last slot, got %v", m.Offset())
	}
	dragFrame(pd, m, in, 150, false, frameTime)

	runUntilIdle(t, pd, m, in)

	if m.Index() != 3 {
		t.Errorf("Expected exactly one page forward, got %d", m.Index())
	}
}

func TestPageDrag_FlingToPreviousPage(t *testing.T) {
	m := newDragManager(t, 2)
	pd := NewPageDrag()
	in := NewInputState()

	dragFrame(pd, m, in, 100, true, frameTime)
	dragFrame(pd, m, in, 130, true, frameTime)
	dragFrame(pd, m, in, 130, false, frameTime)

	runUntilIdle(t, pd, m, in)

	if m.Index() != 1 {
		t.Errorf("Expected page 1, got %d", m.Index())
	}
}

func TestPageDrag_Keys(t *testing.T) {
	m := newDragManager(t, 2)
	pd := NewPageDrag()
	in := NewInputState()

	in.SetKey(KeyRight, true)
	pd.Update(m, in, frameTime)
	if !pd.IsSettling() {
		t.Fatal("Expected right arrow to start a page turn")
	}
	in.SetKey(KeyRight, false)
	runUntilIdle(t, pd, m, in)
	if m.Index() != 3 {
		t.Errorf("Expected page 3 after right arrow, got %d", m.Index())
	}

	in.Reset()
	in.SetKey(KeyLeft, true)
	pd.Update(m, in, frameTime)
	in.SetKey(KeyLeft, false)
	runUntilIdle(t, pd, m, in)
	if m.Index() != 2 {
		t.Errorf("Expected page 2 after left arrow, got %d", m.Index())
	}
}

func TestPageDrag_KeyAtFirstPageIsNoop(t *testing.T) {
	m := newDragManager(t, 0)
	pd := NewPageDrag()
	in := NewInputState()

	in.SetKey(KeyLeft, true)
	pd.Update(m, in, frameTime)

	if pd.IsSettling() || m.Phase() != PhaseIdle {
		t.Error("Expected no page turn before the first page")
	}
}

func TestPageDrag_IgnoresInputWithoutWindow(t *testing.T) {
	m, err := New(6, 2)
	if err != nil {
		t.Fatal(err)
	}
	pd := NewPageDrag()
	in := NewInputState()

	in.SetMouseButton(MouseButtonLeft, true)
	pd.Update(m, in, frameTime)
	if pd.IsDragging() || m.Phase() != PhaseIdle {
		t.Error("Expected no drag before layout")
	}
}
