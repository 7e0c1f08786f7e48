package testbed

import (
	"github.com/spaghettifunk/gameengine/engine/mods"
	"github.com/spaghettifunk/gameengine/engine/resources"
	"github.com/spaghettifunk/gameengine/engine/resources/loaders"
)

const (
	Intro = "testgame-intro"
	Tiles = "testgame-tiles"
)

// TestGame is the demo mod: it queues its resources and opens a scene.
type TestGame struct {
	mods.Base
}

func NewTestGame() mods.Mod {
	return &TestGame{Base: mods.Base{ModID: "testgame", ModPriority: 1}}
}

func (tg *TestGame) OnLoad(s *mods.Services) error {
	if err := tg.Base.OnLoad(s); err != nil {
		return err
	}
	return mods.Load[string](s, tg, Intro, loaders.NewTextParams(loaders.TextEncodingUTF8, "data/intro.txt"), 1, true)
}

func (tg *TestGame) Initialize() error {
	return tg.Services().Scene.Load(&playground{mod: tg})
}

func (tg *TestGame) Shutdown() error {
	s := tg.Services()
	s.Settings.For(tg.ID()).Set("last_scene", "playground")
	return nil
}

// playground is a scene whose tile atlas is dropped when the scene changes.
type playground struct {
	mod     *TestGame
	intro   string
	tiles   *loaders.TextureAtlas
	elapsed float64
}

func (p *playground) Name() string {
	return "playground"
}

func (p *playground) OnEnter() error {
	s := p.mod.Services()
	return mods.Load[*loaders.TextureAtlas](s, p.mod, Tiles,
		loaders.NewAtlasParams(loaders.TextureRepeatClampToEdge, loaders.TextureFilterModeNearest, "textures/tiles.png", "textures/tiles.atlas"),
		5, false)
}

func (p *playground) Update(delta float64) error {
	p.elapsed += delta
	s := p.mod.Services()
	if p.intro == "" {
		if r, ok := resources.TryGet[string](s.Resources, Intro, false); ok {
			p.intro = r.Data
			s.Log.Info(p.intro)
		}
	}
	if p.tiles != nil {
		return nil
	}
	if r, ok := resources.TryGet[*loaders.TextureAtlas](s.Resources, Tiles, false); ok && r.Data != nil {
		p.tiles = r.Data
		s.Log.Info(s.Localization.Translate("testgame:playground.ready"), "tiles", len(p.tiles.Regions), "after", p.elapsed)
	}
	return nil
}

func (p *playground) OnExit() {
	p.tiles = nil
}
