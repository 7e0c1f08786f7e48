package engine

import "github.com/spaghettifunk/gameengine/engine/mods"

// Game is the host application. Everything here is optional; the
// interesting parts of a game live in its mods.
type Game struct {
	// Opener finds mod packages. Defaults to Go plugins only.
	Opener       mods.PackageOpener
	FnInitialize Initialize
	FnUpdate     Update
	FnShutdown   Shutdown
}

// Initialize runs after every mod was loaded and initialized.
type Initialize func(services *mods.Services) error
type Update func(deltaTime float64) error
type Shutdown func() error
