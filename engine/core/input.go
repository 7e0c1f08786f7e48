package core

import "sync"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_PAUSE     KeyCode = 0x13
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_A         KeyCode = 0x41
	KEY_Z         KeyCode = 0x5A
	KEY_F1        KeyCode = 0x70
	KEY_F12       KeyCode = 0x7B

	KEYS_MAX_KEYS KeyCode = 0xFF
)

// Mouse state structure
type MouseState struct {
	X       int32
	Y       int32
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// Input holds current and previous states for keyboard and mouse. The
// platform layer feeds it from window callbacks; the engine loop calls
// Update once per tick after everything that reads input this frame.
type Input struct {
	mu               sync.RWMutex
	events           *EventBus
	keyboardCurrent  KeyboardState
	keyboardPrevious KeyboardState
	mouseCurrent     MouseState
	mousePrevious    MouseState
}

func NewInput(events *EventBus) *Input {
	return &Input{events: events}
}

func (in *Input) Update() {
	in.mu.Lock()
	defer in.mu.Unlock()

	// Copy current states to previous states.
	in.keyboardPrevious = in.keyboardCurrent
	in.mousePrevious = in.mouseCurrent
}

// keyboard input
func (in *Input) IsKeyDown(key KeyCode) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keyboardCurrent.Keys[key]
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keyboardPrevious.Keys[key]
}

// KeyPressed reports a key that went down this tick.
func (in *Input) KeyPressed(key KeyCode) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.keyboardCurrent.Keys[key] && !in.keyboardPrevious.Keys[key]
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	in.mu.Lock()
	// Only handle this if the state actually changed.
	if key >= KEYS_MAX_KEYS || in.keyboardCurrent.Keys[key] == pressed {
		in.mu.Unlock()
		return
	}
	in.keyboardCurrent.Keys[key] = pressed
	in.mu.Unlock()

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	// Fire off an event for immediate processing.
	if in.events != nil {
		in.events.Fire(code, in, EventContext{Data: key})
	}
}

// mouse input
func (in *Input) IsButtonDown(button Button) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mouseCurrent.Buttons[button]
}

func (in *Input) MousePosition() (int32, int32) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.mouseCurrent.X, in.mouseCurrent.Y
}

func (in *Input) ProcessButton(button Button, pressed bool) {
	in.mu.Lock()
	if button >= BUTTON_MAX_BUTTONS || in.mouseCurrent.Buttons[button] == pressed {
		in.mu.Unlock()
		return
	}
	in.mouseCurrent.Buttons[button] = pressed
	in.mu.Unlock()

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	if in.events != nil {
		in.events.Fire(code, in, EventContext{Data: button})
	}
}

func (in *Input) ProcessMouseMove(x, y int32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.mouseCurrent.X = x
	in.mouseCurrent.Y = y
}
