package engine

import (
	"errors"
	"time"

	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"

	"github.com/spaghettifunk/gameengine/engine/config"
	"github.com/spaghettifunk/gameengine/engine/core"
	"github.com/spaghettifunk/gameengine/engine/files"
	"github.com/spaghettifunk/gameengine/engine/localization"
	"github.com/spaghettifunk/gameengine/engine/mods"
	"github.com/spaghettifunk/gameengine/engine/platform"
	"github.com/spaghettifunk/gameengine/engine/resources"
	"github.com/spaghettifunk/gameengine/engine/resources/loaders"
	"github.com/spaghettifunk/gameengine/engine/scene"
	"github.com/spaghettifunk/gameengine/engine/settings"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

var ErrWrongStage = errors.New("engine is not in the right stage for this call")

type Engine struct {
	currentStage Stage
	config       *config.Config
	gameInstance *Game
	isRunning    xnsyncutil.AtomicBool
	isSuspended  bool
	width        uint32
	height       uint32

	platform     *platform.Platform
	events       *core.EventBus
	input        *core.Input
	clock        *core.Clock
	metrics      *core.Metrics
	files        *files.Manager
	settings     *settings.Manager
	resources    *resources.Manager
	watcher      *resources.Watcher
	localization *localization.Manager
	scene        *scene.Manager
	mods         *mods.Manager
	services     *mods.Services
}

// New boots the engine: every service is created here, once, and shared
// with the mods through Services.
func New(cfg *config.Config, g *Game) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		g = &Game{}
	}
	core.SetLogLevel(cfg.LogLevel)

	e := &Engine{
		currentStage: EngineStageBooting,
		config:       cfg,
		gameInstance: g,
		width:        cfg.Application.StartWidth,
		height:       cfg.Application.StartHeight,
		events:       core.NewEventBus(),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}
	e.input = core.NewInput(e.events)
	if !cfg.Application.Headless {
		e.platform = platform.New(e.input, e.events)
	}
	e.files = files.NewManager(cfg.Mods.Root)
	e.settings = settings.NewManager(cfg.SettingsDir)
	e.resources = resources.NewManager(resources.ManagerConfig{Events: e.events})
	e.localization = localization.NewManager(cfg.Language, e.events)
	e.scene = scene.NewManager(e.resources, e.events)

	opener := g.Opener
	if opener == nil {
		opener = mods.PluginOpener{}
	}
	if !cfg.Mods.Plugins {
		opener = withoutPlugins(opener)
	}
	e.mods = mods.NewManager(opener, e.files, cfg.Mods.BaseMod)

	e.services = &mods.Services{
		Application:  e,
		Log:          core.Logger(),
		Files:        e.files,
		Settings:     e.settings,
		Resources:    e.resources,
		Localization: e.localization,
		Input:        e.input,
		Time:         e.clock,
		Metrics:      e.metrics,
		Scene:        e.scene,
		Events:       e.events,
		Mods:         e.mods,
	}
	if e.platform != nil {
		e.services.Window = e.platform
	}
	e.mods.Bind(e.services)

	e.currentStage = EngineStageBootComplete
	core.LogInfo("Engine booted for '%s'.", cfg.Application.Name)
	return e, nil
}

// withoutPlugins drops PluginOpener from the chain when plugins are disabled.
func withoutPlugins(o mods.PackageOpener) mods.PackageOpener {
	switch v := o.(type) {
	case mods.PluginOpener:
		return mods.MultiOpener{}
	case mods.MultiOpener:
		var kept mods.MultiOpener
		for _, inner := range v {
			if _, ok := inner.(mods.PluginOpener); !ok {
				kept = append(kept, inner)
			}
		}
		return kept
	}
	return o
}

func (e *Engine) Services() *mods.Services {
	return e.services
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return ErrWrongStage
	}
	e.currentStage = EngineStageInitializing

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	if e.platform != nil {
		app := e.config.Application
		if err := e.platform.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
			return err
		}
	}

	loaders.RegisterBuiltins(e.resources)

	if e.config.HotReload {
		w, err := resources.NewWatcher(e.resources, e.events)
		if err != nil {
			core.LogWarn("hot reload unavailable: %s", err)
		} else {
			e.watcher = w
			e.watcher.Start()
		}
	}

	if err := e.mods.LoadMods(); err != nil {
		return err
	}
	if e.mods.Base() == nil {
		core.LogWarn("base mod '%s' is not loaded", e.config.Mods.BaseMod)
	}
	if err := e.mods.InitializeMods(); err != nil {
		core.LogWarn("some mods failed to initialize: %s", err)
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e.services); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run ticks at the configured rate until Quit is called or the window closes.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return ErrWrongStage
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	ticker := time.NewTicker(time.Second / time.Duration(e.config.TickRate))
	defer ticker.Stop()

	for e.isRunning.Load() {
		if e.platform != nil {
			e.platform.PumpMessages()
			if e.platform.ShouldClose() {
				e.Quit()
				break
			}
		}

		if !e.isSuspended {
			if err := e.Tick(); err != nil {
				core.LogError("Game update failed, shutting down: %s", err)
				e.Quit()
				return err
			}
		}
		<-ticker.C
	}
	return nil
}

// Tick advances the engine by one frame. The resource queue advances by
// exactly one task per tick.
func (e *Engine) Tick() error {
	frameStart := time.Now()
	e.clock.Update()
	delta := e.clock.Delta().Seconds()

	e.resources.ContinueLoading()
	e.scene.Update(delta)

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return err
		}
	}

	e.metrics.Update(time.Since(frameStart).Seconds())

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	// As a safety, input is the last thing to be updated before
	// this frame ends.
	e.input.Update()
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown || e.currentStage == EngineStageUninitialized {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.mods.Shutdown())
	if e.watcher != nil {
		errs = append(errs, e.watcher.Close())
	}
	e.scene.Unload()
	errs = append(errs, e.resources.Shutdown())

	e.events.Unregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	e.events.Unregister(core.EVENT_CODE_KEY_PRESSED, e)
	e.events.Unregister(core.EVENT_CODE_RESIZED, e)

	if e.platform != nil {
		errs = append(errs, e.platform.Shutdown())
	}
	e.clock.Stop()

	core.LogInfo("Engine shut down.")
	return errors.Join(errs...)
}
