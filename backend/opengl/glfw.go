package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/triptych"
)

var keyMap = map[glfw.Key]triptych.Key{
	glfw.KeyLeft:      triptych.KeyLeft,
	glfw.KeyA:         triptych.KeyLeft,
	glfw.KeyBackspace: triptych.KeyLeft,
	glfw.KeyRight:     triptych.KeyRight,
	glfw.KeyD:         triptych.KeyRight,
	glfw.KeySpace:     triptych.KeyRight,
	glfw.KeyPageUp:    triptych.KeyPageUp,
	glfw.KeyUp:        triptych.KeyPageUp,
	glfw.KeyPageDown:  triptych.KeyPageDown,
	glfw.KeyDown:      triptych.KeyPageDown,
	glfw.KeyEscape:    triptych.KeyEscape,
	glfw.KeyQ:         triptych.KeyEscape,
}

// WindowInput collects a GLFW window's events into a triptych.InputState.
type WindowInput struct {
	window *glfw.Window
	state  *triptych.InputState
}

// AttachInput installs key, button and cursor callbacks on window.
func AttachInput(window *glfw.Window) *WindowInput {
	in := &WindowInput{window: window, state: triptych.NewInputState()}
	window.SetKeyCallback(in.onKey)
	window.SetMouseButtonCallback(in.onButton)
	window.SetCursorPosCallback(in.onCursor)
	return in
}

// NextFrame starts a new frame of input. Call glfw.PollEvents right after so
// this frame's events land in the returned state.
func (in *WindowInput) NextFrame() *triptych.InputState {
	in.state.Reset()
	in.onCursor(in.window, 0, 0)
	return in.state
}

func (in *WindowInput) State() *triptych.InputState {
	return in.state
}

func (in *WindowInput) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	k := glfwKey(key)
	if k == triptych.KeyNone {
		return
	}
	switch action {
	case glfw.Repeat:
		// A held key keeps turning pages.
		in.state.SetKey(k, false)
		fallthrough
	case glfw.Press:
		in.state.SetKey(k, true)
	case glfw.Release:
		in.state.SetKey(k, false)
	}
}

func (in *WindowInput) onButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if b := glfwMouseButton(button); b >= 0 && action != glfw.Repeat {
		in.state.SetMouseButton(b, action == glfw.Press)
	}
}

// onCursor ignores its coordinates and reads the cursor from the window, so
// it doubles as a per-frame refresh.
func (in *WindowInput) onCursor(w *glfw.Window, _, _ float64) {
	x, y := w.GetCursorPos()
	in.state.SetMousePos(float32(x), float32(y))
}

func glfwKey(key glfw.Key) triptych.Key {
	return keyMap[key] // zero value is KeyNone
}

// glfwMouseButton returns -1 for buttons the reader does not use.
func glfwMouseButton(button glfw.MouseButton) triptych.MouseButton {
	if button < glfw.MouseButtonLeft || button > glfw.MouseButtonMiddle {
		return -1
	}
	// GLFW orders left, right, middle just like triptych.
	return triptych.MouseButton(button - glfw.MouseButtonLeft)
}
