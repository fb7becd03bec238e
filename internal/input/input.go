package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer action, not a physical key.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionBoost
	ActionToggleWireframe
	ActionToggleProfiling
	ActionRadiusUp
	ActionRadiusDown
	ActionRelease
	ActionCount // sentinel for array sizing
)

// Manager maps physical keys to actions and tracks per-frame edges. Key
// events may arrive from GLFW callbacks; queries come from the frame loop.
type Manager struct {
	mu sync.RWMutex

	keyToActions map[glfw.Key][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	mouseX, mouseY float64
	mouseDX        float64
	mouseDY        float64
	mouseSeen      bool
}

// NewManager returns a manager with WASD fly bindings.
func NewManager() *Manager {
	m := &Manager{keyToActions: make(map[glfw.Key][]Action)}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeyUp, ActionMoveForward)
	m.BindKey(glfw.KeyDown, ActionMoveBackward)
	m.BindKey(glfw.KeyLeft, ActionMoveLeft)
	m.BindKey(glfw.KeyRight, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionMoveUp)
	m.BindKey(glfw.KeyLeftShift, ActionMoveDown)
	m.BindKey(glfw.KeyLeftControl, ActionBoost)
	m.BindKey(glfw.KeyF, ActionToggleWireframe)
	m.BindKey(glfw.KeyV, ActionToggleProfiling)
	m.BindKey(glfw.KeyEqual, ActionRadiusUp)
	m.BindKey(glfw.KeyMinus, ActionRadiusDown)
	m.BindKey(glfw.KeyEscape, ActionRelease)

	return m
}

// BindKey adds a binding; one key may drive several actions and several
// keys may drive one action.
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes every binding of key.
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKeyEvent records a key transition. Edges are latched until PostUpdate.
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, ok := m.keyToActions[key]
	if !ok {
		return
	}
	pressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range actions {
		if pressed && !m.current[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.current[act] {
			m.justReleased[act] = true
		}
		m.current[act] = pressed
	}
}

// HandleCursor accumulates mouse movement. The first sample only sets the
// reference position.
func (m *Manager) HandleCursor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mouseSeen {
		m.mouseDX += x - m.mouseX
		m.mouseDY += y - m.mouseY
	}
	m.mouseX, m.mouseY = x, y
	m.mouseSeen = true
}

// ResetCursor forgets the reference position, e.g. after the cursor was
// released and recaptured.
func (m *Manager) ResetCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouseSeen = false
	m.mouseDX, m.mouseDY = 0, 0
}

// MouseDelta returns the movement accumulated this frame.
func (m *Manager) MouseDelta() (dx, dy float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mouseDX, m.mouseDY
}

// Attach installs the key and cursor callbacks on window.
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		m.HandleCursor(x, y)
	})
}

// PostUpdate clears this frame's edges and mouse movement. Call it once at
// the end of every frame.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
	m.mouseDX, m.mouseDY = 0, 0
}

// IsActive reports whether the action is held.
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current[action]
}

// JustPressed reports whether the action went down this frame.
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

// JustReleased reports whether the action went up this frame.
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}

// Axis returns -1, 0 or 1 from a pair of opposing actions.
func (m *Manager) Axis(negative, positive Action) float32 {
	var v float32
	if m.IsActive(positive) {
		v++
	}
	if m.IsActive(negative) {
		v--
	}
	return v
}
