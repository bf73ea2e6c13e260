package glimpse

import "github.com/oliverbestmann/rtcylinder/scene"

type MouseButton uint32

const MouseButtonPrimary MouseButton = 0

type MouseState struct {
	CursorX, CursorY float32

	// movement since last tick
	DeltaX, DeltaY float32

	// scroll distance since last tick
	ScrollX, ScrollY float32

	Pressed map[MouseButton]bool

	// mouse buttons that were just clicked after the last call to nextTick()
	JustPressed map[MouseButton]bool

	// mouse buttons that were just released after the last call to nextTick()
	JustReleased map[MouseButton]bool

	hasPosition bool
}

func (m *MouseState) press(button MouseButton) {
	setTrue(&m.Pressed, button)
	setTrue(&m.JustPressed, button)
}

func (m *MouseState) release(button MouseButton) {
	setFalse(&m.Pressed, button)
	setTrue(&m.JustReleased, button)
}

func (m *MouseState) position(x, y float32) {
	if m.hasPosition {
		m.DeltaX += x - m.CursorX
		m.DeltaY += y - m.CursorY
	}

	m.CursorX = x
	m.CursorY = y
	m.hasPosition = true
}

func (m *MouseState) scroll(dx, dy float32) {
	m.ScrollX += dx
	m.ScrollY += dy
}

func (m *MouseState) nextTick() {
	clear(m.JustPressed)
	clear(m.JustReleased)

	m.DeltaX, m.DeltaY = 0, 0
	m.ScrollX, m.ScrollY = 0, 0
}

type InputState struct {
	Mouse MouseState
}

func (s *InputState) nextTick() {
	s.Mouse.nextTick()
}

// Pointer converts the state to the input consumed by camera controls.
func (s *InputState) Pointer() scene.PointerInput {
	return scene.PointerInput{
		DeltaX:   float64(s.Mouse.DeltaX),
		DeltaY:   float64(s.Mouse.DeltaY),
		Dragging: s.Mouse.Pressed[MouseButtonPrimary],
		Wheel:    float64(s.Mouse.ScrollY),
	}
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = true
}

func setFalse[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = false
}
