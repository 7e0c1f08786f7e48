// Package testbed holds the mods bundled with GameApp.
package testbed

import "github.com/spaghettifunk/gameengine/engine/mods"

// Register serves the bundled mods from opener, keyed by their directory in mods/.
func Register(opener *mods.StaticOpener) {
	opener.RegisterFactory("gameapp", NewGameApp)
	opener.RegisterFactory("testgame", NewTestGame)
}
