package core

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestEventBusRegisterFireUnregister(t *testing.T) {
	eb := NewEventBus()
	var got []string
	first, second := &struct{ n int }{1}, &struct{ n int }{2}

	assert.T(t, eb.Register(EVENT_CODE_RESOURCE_LOADED, first, func(code SystemEventCode, sender, l interface{}, ctx EventContext) bool {
		got = append(got, "first:"+ctx.Name)
		return false
	}))
	assert.T(t, eb.Register(EVENT_CODE_RESOURCE_LOADED, second, func(code SystemEventCode, sender, l interface{}, ctx EventContext) bool {
		got = append(got, "second:"+ctx.Name)
		return true
	}))
	// duplicate listener
	assert.T(t, !eb.Register(EVENT_CODE_RESOURCE_LOADED, first, func(SystemEventCode, interface{}, interface{}, EventContext) bool { return false }))

	assert.T(t, eb.Fire(EVENT_CODE_RESOURCE_LOADED, nil, EventContext{Name: "tex"}))
	assert.Equal(t, []string{"first:tex", "second:tex"}, got)

	assert.T(t, eb.Unregister(EVENT_CODE_RESOURCE_LOADED, second))
	assert.T(t, !eb.Unregister(EVENT_CODE_RESOURCE_LOADED, second))
	got = nil
	assert.T(t, !eb.Fire(EVENT_CODE_RESOURCE_LOADED, nil, EventContext{Name: "a"}))
	assert.Equal(t, []string{"first:a"}, got)
}

func TestEventBusFireWithoutListeners(t *testing.T) {
	eb := NewEventBus()
	assert.T(t, !eb.Fire(EVENT_CODE_SCENE_LOADED, nil, EventContext{}))
}
