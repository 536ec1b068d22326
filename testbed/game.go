package testbed

import (
	"fmt"

	"github.com/spaghettifunk/j3dview/engine"
	"github.com/spaghettifunk/j3dview/engine/config"
	"github.com/spaghettifunk/j3dview/engine/core"
)

// ViewerGame is the J3D model viewer demo: the orbit camera and file handling
// live in the engine, the game adds the debug keys on top.
type ViewerGame struct {
	*engine.Game
	config *config.Config
}

type gameState struct {
	width  uint32
	height uint32

	statsTimer float64
}

const statsInterval = 1.0

func NewViewerGame(cfg *config.Config, initialPath string) (*ViewerGame, error) {
	appConfig, err := engine.NewApplicationConfig(cfg)
	if err != nil {
		return nil, err
	}
	appConfig.InitialPath = initialPath

	g := &ViewerGame{
		Game: &engine.Game{
			ApplicationConfig: appConfig,
			State: &gameState{
				width:  appConfig.StartWidth,
				height: appConfig.StartHeight,
			},
		},
		config: cfg,
	}

	g.FnBoot = g.Boot
	g.FnInitialize = g.Initialize
	g.FnUpdate = g.Update
	g.FnRender = g.Render
	g.FnOnResize = g.OnResize
	g.FnShutdown = g.Shutdown

	return g, nil
}

func (g *ViewerGame) Boot() error {
	core.LogInfo("booting j3dview...")
	return nil
}

func (g *ViewerGame) Initialize() error {
	if g.SystemManager == nil || g.Session == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}

	core.EventRegister(core.EVENT_CODE_KEY_RELEASED, g.onKey)

	core.LogInfo("W/S pitch, A/D yaw, Q/E zoom, Shift+Q/E raise/lower target, wheel zooms.")
	core.LogInfo("Space plays/pauses the animation, R resets the camera, P prints the camera pose.")
	core.LogInfo("Drop a .bmd, .bdl, .arc or .szs onto the window to open it, a .brk to animate it.")
	return nil
}

func (g *ViewerGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.statsTimer += deltaTime
	return nil
}

func (g *ViewerGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	if state.statsTimer < statsInterval {
		return nil
	}
	state.statsTimer = 0

	camera := g.Session.Camera()
	pos := camera.Position()
	core.LogDebug("Frame %5.1fms Eye=[%8.2f %8.2f %8.2f] Distance=%.2f Pitch=%.1f Yaw=%.1f Anim=%.1f/%.0f",
		deltaTime*1000,
		pos.X, pos.Y, pos.Z,
		camera.Distance(), camera.Pitch(), camera.Yaw(),
		g.Session.Player().Frame(), g.Session.Player().Length(),
	)
	return nil
}

func (g *ViewerGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *ViewerGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_KEY_RELEASED, g.onKey)
	return nil
}

func (g *ViewerGame) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return
	}
	switch ke.KeyCode {
	case core.KEY_SPACE:
		g.Session.Player().Toggle()
	case core.KEY_R:
		pose := g.config.Camera
		if err := g.Session.Camera().Reset(pose.Distance, pose.Pitch, pose.Yaw, pose.TargetVec()); err != nil {
			core.LogError(err.Error())
		}
	case core.KEY_P:
		camera := g.Session.Camera()
		pos := camera.Position()
		target := camera.Target()
		core.LogInfo("Eye=[%.2f, %.2f, %.2f] Target=[%.2f, %.2f, %.2f] Distance=%.2f Pitch=%.2f Yaw=%.2f",
			pos.X, pos.Y, pos.Z, target.X, target.Y, target.Z,
			camera.Distance(), camera.Pitch(), camera.Yaw())
	}
}
