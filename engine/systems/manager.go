package systems

import (
	"github.com/spaghettifunk/j3dview/engine/assets"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/renderer"
)

type SystemManagerConfig struct {
	MaxCameraCount uint16
	CameraPose     CameraPose
	Workers        int
	JobQueueSize   int
	// Start the file watcher used for hot reloading.
	Watch bool
}

// SystemManager owns the render engine and every subsystem built around it.
type SystemManager struct {
	Engine       renderer.RenderEngine
	CameraSystem *CameraSystem
	JobSystem    *JobSystem
	// nil when watching is disabled.
	AssetManager *assets.AssetManager
}

func NewSystemManager(engine renderer.RenderEngine, config SystemManagerConfig) (*SystemManager, error) {
	if err := engine.Init(); err != nil {
		return nil, err
	}
	sm := &SystemManager{Engine: engine}

	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: config.MaxCameraCount,
		Pose:           config.CameraPose,
	})
	if err != nil {
		sm.Shutdown()
		return nil, err
	}
	sm.CameraSystem = cs

	js, err := NewJobSystem(config.Workers, config.JobQueueSize)
	if err != nil {
		sm.Shutdown()
		return nil, err
	}
	sm.JobSystem = js

	if config.Watch {
		am, err := assets.NewAssetManager()
		if err != nil {
			core.LogWarn("File watching disabled: %s", err.Error())
		} else {
			sm.AssetManager = am
		}
	}
	return sm, nil
}

// Update runs once per frame on the render loop.
func (sm *SystemManager) Update() {
	sm.JobSystem.Update()
}

func (sm *SystemManager) Shutdown() error {
	if sm.AssetManager != nil {
		if err := sm.AssetManager.Close(); err != nil {
			return err
		}
	}
	if sm.JobSystem != nil {
		if err := sm.JobSystem.Shutdown(); err != nil {
			return err
		}
	}
	if sm.CameraSystem != nil {
		if err := sm.CameraSystem.Shutdown(); err != nil {
			return err
		}
	}
	sm.Engine.Cleanup()
	return nil
}
