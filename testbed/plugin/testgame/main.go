// Builds the testgame mod as a plugin:
//
//	go build -buildmode=plugin -o mods/testgame/mod.so ./testbed/plugin/testgame
package main

import (
	"github.com/spaghettifunk/gameengine/engine/mods"
	"github.com/spaghettifunk/gameengine/testbed"
)

func NewMod() mods.Mod {
	return testbed.NewTestGame()
}

func main() {}
