package engine

import (
	"github.com/spaghettifunk/j3dview/engine/config"
	"github.com/spaghettifunk/j3dview/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name       string
	LogLevel   core.LogLevel
	ClearColor [4]float32
	// Model opened right after initialization, if any.
	InitialPath string
}

// NewApplicationConfig takes the window settings from the viewer config.
func NewApplicationConfig(cfg *config.Config) (*ApplicationConfig, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		StartPosX:   cfg.Window.X,
		StartPosY:   cfg.Window.Y,
		StartWidth:  cfg.Window.Width,
		StartHeight: cfg.Window.Height,
		Name:        cfg.Window.Title,
		LogLevel:    level,
		ClearColor:  cfg.ClearColor,
	}, nil
}
