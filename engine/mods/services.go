package mods

import (
	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/gameengine/engine/core"
	"github.com/spaghettifunk/gameengine/engine/files"
	"github.com/spaghettifunk/gameengine/engine/localization"
	"github.com/spaghettifunk/gameengine/engine/resources"
	"github.com/spaghettifunk/gameengine/engine/scene"
	"github.com/spaghettifunk/gameengine/engine/settings"
)

// Application is the host running the mods.
type Application interface {
	Name() string
	// Quit asks the main loop to stop after the current tick.
	Quit()
}

// Window is the part of the platform window mods may query.
type Window interface {
	ShouldClose() bool
	FramebufferSize() (int, int)
}

// Services are the engine handles a mod may use. The engine builds them
// once; every mod receives a copy with its own logger.
type Services struct {
	Application  Application
	Log          *log.Logger
	Files        *files.Manager
	Settings     *settings.Manager
	Resources    *resources.Manager
	Localization *localization.Manager
	// Window is nil when running headless.
	Window  Window
	Input   *core.Input
	Time    *core.Clock
	Metrics *core.Metrics
	Scene   *scene.Manager
	Events  *core.EventBus
	Mods    *Manager
}

func (s *Services) forMod(id string) *Services {
	clone := *s
	clone.Log = core.NewLogger(id)
	return &clone
}

// Load queues a resource on behalf of owner. owner must be an installed
// mod; relative paths are resolved inside its directory.
func Load[R any, P resources.Parameters](s *Services, owner Mod, identifier string, params P, priority int, global bool) error {
	if owner == nil || s.Mods == nil || s.Mods.Mod(owner.ID()) != owner {
		core.LogError("failed to load resource '%s': %s", identifier, resources.ErrUnknownOwner)
		return resources.ErrUnknownOwner
	}
	return resources.LoadFromMod[R](s.Resources, owner, identifier, params, priority, global)
}
