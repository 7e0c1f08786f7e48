package engine

import (
	"github.com/spaghettifunk/gameengine/engine/core"
)

// Name is the application name from the configuration.
func (e *Engine) Name() string {
	return e.config.Application.Name
}

// Quit stops the main loop after the current tick. Safe from any goroutine.
func (e *Engine) Quit() {
	if e.isRunning.Load() {
		core.LogInfo("Quit requested, stopping after this tick.")
	}
	e.isRunning.Store(false)
}

func (e *Engine) IsRunning() bool {
	return e.isRunning.Load()
}

// GetFramebufferSize returns the width and height (in this order)
// of the application framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.Quit()
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	keyCode, ok := context.Data.(core.KeyCode)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", code)
		return false
	}
	if code == core.EVENT_CODE_KEY_PRESSED && keyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{Name: "escape"})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender, listener interface{}, context core.EventContext) bool {
	size, ok := context.Data.([2]uint32)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", code)
		return false
	}
	width, height := size[0], size[1]
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
	} else if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	return false
}
