package triptych

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key is one of the keys the reader reacts to. Backends map physical keys
// onto these.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyEscape
	KeyCount
)

// pressState tracks a button or key across frames.
type pressState struct {
	down     bool
	pressed  bool // went down this frame
	released bool // went up this frame
}

func (e *pressState) set(down bool) {
	switch {
	case down && !e.down:
		e.pressed = true
	case !down && e.down:
		e.released = true
	}
	e.down = down
}

func (e *pressState) endFrame() {
	e.pressed, e.released = false, false
}

// InputState is the pointer and keyboard snapshot for one frame. A backend
// fills it between Reset calls.
type InputState struct {
	MouseX, MouseY float32

	buttons [MouseButtonCount]pressState
	keys    [KeyCount]pressState
}

func NewInputState() *InputState {
	return &InputState{}
}

// Reset forgets this frame's presses and releases. Held state carries over.
func (s *InputState) Reset() {
	for i := range s.buttons {
		s.buttons[i].endFrame()
	}
	for i := range s.keys {
		s.keys[i].endFrame()
	}
}

func (s *InputState) SetMousePos(x, y float32) {
	s.MouseX, s.MouseY = x, y
}

// SetMouseButton records the button's state. Unknown buttons are ignored.
func (s *InputState) SetMouseButton(b MouseButton, down bool) {
	if e := s.button(b); e != nil {
		e.set(down)
	}
}

// SetKey records the key's state. KeyNone and unknown keys are ignored.
func (s *InputState) SetKey(k Key, down bool) {
	if k == KeyNone {
		return
	}
	if e := s.key(k); e != nil {
		e.set(down)
	}
}

func (s *InputState) MouseDown(b MouseButton) bool {
	e := s.button(b)
	return e != nil && e.down
}

func (s *InputState) MouseClicked(b MouseButton) bool {
	e := s.button(b)
	return e != nil && e.pressed
}

func (s *InputState) MouseReleased(b MouseButton) bool {
	e := s.button(b)
	return e != nil && e.released
}

func (s *InputState) KeyDown(k Key) bool {
	e := s.key(k)
	return e != nil && e.down
}

// KeyPressed reports whether k went down during this frame.
func (s *InputState) KeyPressed(k Key) bool {
	e := s.key(k)
	return e != nil && e.pressed
}

func (s *InputState) button(b MouseButton) *pressState {
	if b < 0 || b >= MouseButtonCount {
		return nil
	}
	return &s.buttons[b]
}

func (s *InputState) key(k Key) *pressState {
	if k < 0 || k >= KeyCount {
		return nil
	}
	return &s.keys[k]
}

var keyNames = [KeyCount]string{
	KeyNone:     "--",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyPageUp:   "PgUp",
	KeyPageDown: "PgDn",
	KeyEscape:   "Esc",
}

// KeyName returns a short label for k, or "?" if k is unknown.
func KeyName(k Key) string {
	if k < 0 || k >= KeyCount {
		return "?"
	}
	return keyNames[k]
}
