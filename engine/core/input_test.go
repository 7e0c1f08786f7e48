package core

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestKeyStateAcrossTicks(t *testing.T) {
	in := NewInput(nil)

	in.ProcessKey(KEY_SPACE, true)
	assert.T(t, in.IsKeyDown(KEY_SPACE))
	assert.T(t, in.KeyPressed(KEY_SPACE))
	assert.T(t, !in.WasKeyDown(KEY_SPACE))

	in.Update()
	assert.T(t, in.IsKeyDown(KEY_SPACE))
	assert.T(t, in.WasKeyDown(KEY_SPACE))
	assert.T(t, !in.KeyPressed(KEY_SPACE))

	in.ProcessKey(KEY_SPACE, false)
	assert.T(t, !in.IsKeyDown(KEY_SPACE))
}

func TestInputFiresEventsOnChangeOnly(t *testing.T) {
	events := NewEventBus()
	in := NewInput(events)

	var pressed []KeyCode
	var buttons []Button
	events.Register(EVENT_CODE_KEY_PRESSED, t, func(_ SystemEventCode, _, _ interface{}, ctx EventContext) bool {
		pressed = append(pressed, ctx.Data.(KeyCode))
		return true
	})
	events.Register(EVENT_CODE_BUTTON_RELEASED, t, func(_ SystemEventCode, _, _ interface{}, ctx EventContext) bool {
		buttons = append(buttons, ctx.Data.(Button))
		return true
	})

	in.ProcessKey(KEY_A, true)
	in.ProcessKey(KEY_A, true)
	in.ProcessButton(BUTTON_LEFT, true)
	in.ProcessButton(BUTTON_LEFT, false)
	in.ProcessButton(BUTTON_MAX_BUTTONS, true)

	assert.Equal(t, []KeyCode{KEY_A}, pressed)
	assert.Equal(t, []Button{BUTTON_LEFT}, buttons)
}

func TestMousePosition(t *testing.T) {
	in := NewInput(nil)
	in.ProcessMouseMove(12, -3)
	x, y := in.MousePosition()
	assert.Equal(t, int32(12), x)
	assert.Equal(t, int32(-3), y)
}
