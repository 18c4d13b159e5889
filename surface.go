package triptych

// Surface is a horizontally scrolling, one-page-per-viewport container.
// Offsets never leave [0, ContentWidth-ViewportWidth]: there is no overscroll.
type Surface struct {
	viewport    Vec2
	contentSize Vec2
	offsetX     float32

	// Animated correction toward a page boundary.
	targetX   float32
	animating bool
	snapSpeed float32
}

// Default snapping parameters.
const (
	DefaultSnapSpeed = 15.0 // Higher = faster convergence
	snapThreshold    = 0.5  // Stop animating when this close
)

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{snapSpeed: DefaultSnapSpeed}
}

// Viewport returns the visible size.
func (s *Surface) Viewport() Vec2 { return s.viewport }

// ContentSize returns the scrollable extent.
func (s *Surface) ContentSize() Vec2 { return s.contentSize }

// Offset returns the horizontal scroll offset.
func (s *Surface) Offset() float32 { return s.offsetX }

// Animating reports whether a boundary correction is in progress.
func (s *Surface) Animating() bool { return s.animating }

// SetSnapSpeed sets the convergence rate of animated corrections.
func (s *Surface) SetSnapSpeed(speed float32) {
	if speed > 0 {
		s.snapSpeed = speed
	}
}

// MaxOffset returns the largest valid offset.
func (s *Surface) MaxOffset() float32 {
	return max(0, s.contentSize.X-s.viewport.X)
}

// setViewport updates the visible size and re-clamps the offset.
func (s *Surface) setViewport(size Vec2) {
	s.viewport = size
	s.offsetX = clamp(s.offsetX, 0, s.MaxOffset())
}

// setContentSize updates the scrollable extent and re-clamps the offset.
func (s *Surface) setContentSize(size Vec2) {
	s.contentSize = size
	s.offsetX = clamp(s.offsetX, 0, s.MaxOffset())
}

// SetOffset moves the surface immediately and cancels any animation.
// Returns the offset actually applied.
func (s *Surface) SetOffset(x float32) float32 {
	s.animating = false
	s.offsetX = clamp(x, 0, s.MaxOffset())
	return s.offsetX
}

// AnimateTo starts a smooth move toward x. Progress is made by Update.
func (s *Surface) AnimateTo(x float32) {
	s.targetX = clamp(x, 0, s.MaxOffset())
	s.animating = s.targetX != s.offsetX
}

// Update interpolates an animated move toward its target.
// Call this each frame with the frame's delta time.
// Returns true if still animating.
func (s *Surface) Update(deltaTime float32) bool {
	if !s.animating {
		return false
	}

	diff := s.targetX - s.offsetX
	if abs32(diff) < snapThreshold {
		s.offsetX = s.targetX
		s.animating = false
		return false
	}

	step := diff * deltaTime * s.snapSpeed
	if abs32(step) > abs32(diff) {
		step = diff
	}
	s.offsetX += step
	return true
}

// PageBoundary returns the page slot nearest to x and that slot's offset.
func (s *Surface) PageBoundary(x float32) (slot int, offset float32) {
	w := s.viewport.X
	if w <= 0 {
		return 0, 0
	}
	slot = roundHalfAway(x / w)
	return slot, float32(slot) * w
}

// OnBoundary reports whether x is an exact multiple of the viewport width.
func (s *Surface) OnBoundary(x float32) bool {
	_, boundary := s.PageBoundary(x)
	return x == boundary
}
