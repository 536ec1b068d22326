package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/j3dview/engine/config"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/platform"
	"github.com/spaghettifunk/j3dview/engine/renderer"
	"github.com/spaghettifunk/j3dview/engine/systems"
	"github.com/spaghettifunk/j3dview/engine/viewer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *config.Config
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	renderEngine  renderer.RenderEngine
	systemManager *systems.SystemManager
	session       *viewer.Session
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
}

func New(g *Game, cfg *config.Config, renderEngine renderer.RenderEngine) (*Engine, error) {
	if g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game has no application config")
	}
	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		platform:     platform.New(),
		renderEngine: renderEngine,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)

	if e.gameInstance.FnBoot != nil {
		if err := e.gameInstance.FnBoot(); err != nil {
			return err
		}
	}

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_BUTTON_PRESSED, e.onButton)
	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, e.onMouseWheel)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_FILE_DROPPED, e.onFileDropped)

	appConfig := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(appConfig.Name,
		appConfig.StartPosX,
		appConfig.StartPosY,
		appConfig.StartWidth,
		appConfig.StartHeight); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	// initialize subsystems
	sm, err := viewer.NewSystemManager(e.renderEngine, e.config)
	if err != nil {
		return err
	}
	e.systemManager = sm

	session, err := viewer.NewSession(e.config, sm)
	if err != nil {
		return err
	}
	e.session = session

	e.gameInstance.SystemManager = sm
	e.gameInstance.Session = session
	if err := e.gameInstance.FnInitialize(); err != nil {
		core.LogError("Game failed to initialize.")
		return err
	}

	if appConfig.InitialPath != "" {
		if err := session.OpenPath(appConfig.InitialPath); err != nil {
			core.LogError(err.Error())
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
		}

		if !e.isSuspended {
			e.clock.Update()

			var currentTime float64 = e.clock.Elapsed()
			var delta float64 = (currentTime - e.lastTime)
			var frameStartTime float64 = platform.GetAbsoluteTime()

			if err := e.session.Controller().Update(core.Keyboard()); err != nil {
				core.LogError(err.Error())
			}
			if _, err := e.session.ReloadIfChanged(); err != nil {
				core.LogError(err.Error())
			}
			e.systemManager.Update()

			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down.")
				e.isRunning.Store(false)
				break
			}

			width, height := e.platform.BeginFrame(e.gameInstance.ApplicationConfig.ClearColor)
			if err := e.session.Frame(float32(delta), width, height); err != nil {
				core.LogError("Frame failed: %s", err.Error())
			}

			if err := e.gameInstance.FnRender(delta); err != nil {
				core.LogError("Game render failed, shutting down.")
				e.isRunning.Store(false)
				break
			}
			e.platform.SwapBuffers()

			var frameEndTime float64 = platform.GetAbsoluteTime()
			e.metrics.Update(frameEndTime - frameStartTime)

			core.InputUpdate(delta)

			e.lastTime = currentTime
		}
	}

	return nil
}

// Stop asks the main loop to exit after the current frame. Safe to call from
// any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	if e.session != nil {
		if err := e.session.Close(); err != nil {
			return err
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	return nil
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

// Metrics exposes the frame timing of the main loop.
func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
			e.isRunning.Store(false)
		}
	}
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if context.Type == core.EVENT_CODE_KEY_PRESSED && ke.KeyCode == core.KEY_ESCAPE {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
	}
}

func (e *Engine) onButton(context core.EventContext) {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if me.Button != core.BUTTON_LEFT || e.session == nil {
		return
	}
	x, y := me.PosX, me.PosY
	res, err := e.session.Pick(int(x), int(y))
	if err != nil {
		core.LogError("Pick failed: %s", err.Error())
		return
	}
	core.LogDebug("Pick at (%d, %d): hit=%t", x, y, res.Hit)
}

func (e *Engine) onMouseWheel(context core.EventContext) {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if e.session == nil {
		return
	}
	if err := e.session.Controller().Scroll(me.Scroll); err != nil {
		core.LogError(err.Error())
	}
}

func (e *Engine) onFileDropped(context core.EventContext) {
	de, ok := context.Data.(*core.DropEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if e.session == nil {
		return
	}
	for _, path := range de.Paths {
		if err := e.session.OpenPathAsync(path); err != nil {
			core.LogError(err.Error())
		}
	}
}

func (e *Engine) onResized(context core.EventContext) {
	if context.Type == core.EVENT_CODE_RESIZED {
		se, ok := context.Data.(*core.SystemEvent)
		if !ok {
			core.LogError("wrong event associated with the event type `%d`", context.Type)
			return
		}

		width := se.WindowWidth
		height := se.WindowHeight

		if width != e.width || height != e.height {
			e.width = width
			e.height = height

			core.LogDebug("Window resize: %d, %d", width, height)

			if width == 0 || height == 0 {
				core.LogInfo("Window minimized, suspending application.")
				e.isSuspended = true
				return
			} else {
				if e.isSuspended {
					core.LogInfo("Window restored, resuming application.")
					e.isSuspended = false
				}
				if err := e.gameInstance.FnOnResize(width, height); err != nil {
					core.LogError(err.Error())
				}
			}
		}
	}
}
