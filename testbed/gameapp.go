package testbed

import (
	"github.com/spaghettifunk/gameengine/engine/mods"
	"github.com/spaghettifunk/gameengine/engine/resources/loaders"
)

const UIFont = "ui-font"

// GameApp is the host's own mod. It owns what every other mod can rely on.
type GameApp struct {
	mods.Base
}

func NewGameApp() mods.Mod {
	return &GameApp{Base: mods.Base{ModID: "gameapp"}}
}

func (g *GameApp) OnLoad(s *mods.Services) error {
	if err := g.Base.OnLoad(s); err != nil {
		return err
	}
	s.Log.Info(s.Localization.Translate("gameapp:title"))
	// the UI font is needed before anything else can draw text
	return mods.Load[*loaders.TextureAtlas](s, g, UIFont, loaders.NewFontParams("go-mono", 16, ""), 10, true)
}
