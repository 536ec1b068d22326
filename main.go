/*
j3dview opens a J3D model, or the first model inside an archive, and orbits
a camera around it.

	j3dview [config.toml|config.yaml] [model.bmd|model.bdl|scene.arc|scene.szs]
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/j3dview/engine"
	"github.com/spaghettifunk/j3dview/engine/config"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/renderer"
	"github.com/spaghettifunk/j3dview/testbed"
)

func main() {
	configPath := config.DefaultPath
	if len(os.Args) > 1 && os.Args[1] != "" {
		configPath = os.Args[1]
	}
	var modelPath string
	if len(os.Args) > 2 {
		modelPath = os.Args[2]
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		core.LogFatal("Could not load config: %s", err.Error())
	}

	game, err := testbed.NewViewerGame(cfg, modelPath)
	if err != nil {
		core.LogFatal(err.Error())
	}

	// the native J3D renderer is not linked into this build
	engine, err := engine.New(game.Game, cfg, renderer.NewHeadlessEngine())
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := engine.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		engine.Stop()
	}()

	// run engine
	if err := engine.Run(); err != nil {
		core.LogError(err.Error())
	}
	if err := engine.Shutdown(); err != nil {
		core.LogFatal(err.Error())
	}
}
