/*
GameApp hosts the engine and the bundled mods. Mods found as mod.so
plugins in the mods directory take precedence over the bundled ones.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/gameengine/engine"
	"github.com/spaghettifunk/gameengine/engine/config"
	"github.com/spaghettifunk/gameengine/engine/core"
	"github.com/spaghettifunk/gameengine/engine/mods"
	"github.com/spaghettifunk/gameengine/testbed"
)

func main() {
	configPath := flag.String("config", config.DefaultFile, "engine configuration file")
	plugins := flag.Bool("plugins", false, "also load mods from mod.so plugins")
	headless := flag.Bool("headless", false, "run without a window")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("failed to load configuration: %+v", err)
	}
	if *plugins {
		cfg.Mods.Plugins = true
	}
	if *headless {
		cfg.Application.Headless = true
	}

	bundled := mods.NewStaticOpener()
	testbed.Register(bundled)

	e, err := engine.New(cfg, &engine.Game{
		Opener: mods.MultiOpener{mods.PluginOpener{}, bundled},
	})
	if err != nil {
		core.LogFatal("failed to boot the engine: %s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("failed to initialize the engine: %+v", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		// capture sigterm and other system call here
		<-sigCh
		e.Quit()
	}()

	// run engine
	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
