package triptych

// DragState tracks the state of a drag operation.
type DragState struct {
	Active      bool    // Currently being dragged
	StartX      float32 // Pointer X when drag started
	StartOffset float32 // Surface offset when drag started
	LastX       float32 // Pointer X on the previous frame
}

// Reset clears the drag state.
func (d *DragState) Reset() {
	d.Active = false
	d.StartX = 0
	d.StartOffset = 0
	d.LastX = 0
}

// DragConfig configures how a release turns into a target page.
type DragConfig struct {
	// FlingVelocity is the offset speed (px/s) above which a release moves to
	// the next page in the direction of motion instead of the nearest one.
	FlingVelocity float32
	// DecelerationSpeed is the convergence rate of the release animation.
	DecelerationSpeed float32
}

// DefaultDragConfig returns a sensible default configuration.
func DefaultDragConfig() DragConfig {
	return DragConfig{
		FlingVelocity:     600,
		DecelerationSpeed: 12,
	}
}

// PageDrag turns pointer and keyboard input into the scroll events of a
// Manager: OnDragBegin, OnScroll while dragging and decelerating, OnDragEnd
// on release and OnSettleAt when the surface comes to rest.
type PageDrag struct {
	Config DragConfig

	dragState DragState
	velocity  float32 // Offset velocity in px/s, positive toward later pages

	settling bool
	targetX  float32
}

// NewPageDrag creates a gesture recognizer with default settings.
func NewPageDrag() *PageDrag {
	return &PageDrag{Config: DefaultDragConfig()}
}

// IsDragging returns true while the pointer is held.
func (pd *PageDrag) IsDragging() bool {
	return pd.dragState.Active
}

// IsSettling returns true while a release animation is running.
func (pd *PageDrag) IsSettling() bool {
	return pd.settling
}

// Update processes one frame of input. Call it once per frame before drawing.
func (pd *PageDrag) Update(m *Manager, input *InputState, deltaTime float32) {
	if input == nil || m.Window() == nil {
		return
	}
	surface := m.Surface()
	w := surface.Viewport().X
	if w <= 0 {
		return
	}

	// Start drag on press, catching a running deceleration if needed.
	if !pd.dragState.Active && input.MouseClicked(MouseButtonLeft) {
		pd.dragState = DragState{
			Active:      true,
			StartX:      input.MouseX,
			StartOffset: surface.Offset(),
			LastX:       input.MouseX,
		}
		pd.velocity = 0
		pd.settling = false
		m.OnDragBegin()
		return
	}

	if pd.dragState.Active {
		if input.MouseDown(MouseButtonLeft) {
			x := pd.dragState.StartOffset - (input.MouseX - pd.dragState.StartX)
			if deltaTime > 0 {
				pd.velocity = (pd.dragState.LastX - input.MouseX) / deltaTime
			}
			pd.dragState.LastX = input.MouseX
			m.OnScroll(x)
			return
		}

		// Released: pick a page within one step of where the drag began.
		startSlot, _ := surface.PageBoundary(pd.dragState.StartOffset)
		pd.dragState.Reset()
		pd.release(m, startSlot)
		return
	}

	if !pd.settling && m.Phase() == PhaseIdle {
		switch {
		case input.KeyPressed(KeyRight):
			pd.step(m, 1)
		case input.KeyPressed(KeyLeft):
			pd.step(m, -1)
		}
	}

	if pd.settling {
		pd.decelerate(m, deltaTime)
	}
}

// release starts the deceleration toward the page chosen by position and
// velocity.
func (pd *PageDrag) release(m *Manager, startSlot int) {
	surface := m.Surface()
	w := surface.Viewport().X
	pos := surface.Offset() / w

	target := roundHalfAway(pos)
	if pd.velocity > pd.Config.FlingVelocity {
		target = int(pos) + 1
	} else if pd.velocity < -pd.Config.FlingVelocity {
		target = int(pos)
	}
	target = max(target, startSlot-1)
	target = min(target, startSlot+1)

	pd.targetX = clamp(float32(target)*w, 0, surface.MaxOffset())
	pd.settling = true
	m.OnDragEnd()
}

// step animates one page toward dir without a pointer.
func (pd *PageDrag) step(m *Manager, dir int) {
	surface := m.Surface()
	w := surface.Viewport().X
	slot, _ := surface.PageBoundary(surface.Offset())
	target := clamp(float32(slot+dir)*w, 0, surface.MaxOffset())
	if target == surface.Offset() {
		return
	}
	m.OnDragBegin()
	m.OnDragEnd()
	pd.targetX = target
	pd.settling = true
}

// decelerate moves the surface toward the release target and settles when
// it arrives or when the scroll clamp stops it.
func (pd *PageDrag) decelerate(m *Manager, deltaTime float32) {
	if deltaTime <= 0 {
		return
	}
	current := m.Surface().Offset()
	diff := pd.targetX - current

	if abs32(diff) < snapThreshold {
		pd.finish(m, current)
		return
	}

	step := diff * deltaTime * pd.Config.DecelerationSpeed
	if abs32(step) > abs32(diff) {
		step = diff
	}
	applied := m.OnScroll(current + step)
	if applied == current {
		// Held by the clamp or the surface edge.
		pd.finish(m, applied)
	}
}

func (pd *PageDrag) finish(m *Manager, x float32) {
	pd.settling = false
	pd.velocity = 0
	m.OnSettleAt(x)
}
