package viewer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/j3dview/engine/assets"
	"github.com/spaghettifunk/j3dview/engine/config"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/spaghettifunk/j3dview/engine/renderer"
	"github.com/spaghettifunk/j3dview/engine/renderer/components"
	"github.com/spaghettifunk/j3dview/engine/systems"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file")
	ErrNoModel         = errors.New("no model loaded")
)

// Session is one model on screen: the engine, the orbit camera looking at it,
// its lights and the color animation playing on it.
type Session struct {
	config     *config.Config
	systems    *systems.SystemManager
	engine     renderer.RenderEngine
	camera     *components.OrbitCamera
	controller *Controller
	player     *Player
	layout     math.MatrixLayout
	projection math.Mat4

	model     renderer.ModelInstance
	modelPath string
	animPath  string
}

// NewSystemManager starts the subsystems a Session needs on top of engine.
func NewSystemManager(engine renderer.RenderEngine, cfg *config.Config) (*systems.SystemManager, error) {
	return systems.NewSystemManager(engine, systems.SystemManagerConfig{
		MaxCameraCount: 16,
		CameraPose: systems.CameraPose{
			Distance: cfg.Camera.Distance,
			Pitch:    cfg.Camera.Pitch,
			Yaw:      cfg.Camera.Yaw,
			Target:   cfg.Camera.TargetVec(),
		},
		Workers:      2,
		JobQueueSize: 8,
		Watch:        cfg.Watch,
	})
}

func NewSession(cfg *config.Config, sm *systems.SystemManager) (*Session, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	camera := sm.CameraSystem.GetDefault()
	return &Session{
		config:  cfg,
		systems: sm,
		engine:  sm.Engine,
		camera:  camera,
		controller: NewController(camera, ControllerConfig{
			RotateSpeed: cfg.Camera.RotateSpeed,
			ZoomSpeed:   cfg.Camera.ZoomSpeed,
			PanSpeed:    cfg.Camera.PanSpeed,
			ScrollSpeed: cfg.Camera.ScrollSpeed,
		}),
		player:     NewPlayer(cfg.Animation.FrameRate, cfg.Animation.Loop),
		layout:     layout,
		projection: math.NewMat4Identity(),
	}, nil
}

func (s *Session) Camera() *components.OrbitCamera { return s.camera }
func (s *Session) Controller() *Controller         { return s.controller }
func (s *Session) Player() *Player                 { return s.player }
func (s *Session) Model() renderer.ModelInstance   { return s.model }
func (s *Session) ModelPath() string               { return s.modelPath }
func (s *Session) Projection() math.Mat4           { return s.projection }

// OpenPath loads a model file, or the first model inside an archive, and
// makes it the current model. A .brk path is attached to the current model.
func (s *Session) OpenPath(path string) error {
	abs, kind, err := resolveSource(path)
	if err != nil {
		return err
	}

	var model renderer.ModelInstance
	switch kind {
	case assets.SourceModel:
		model, err = s.engine.LoadModelFile(abs)
	case assets.SourceArchive:
		var data []byte
		if data, err = readArchiveModel(abs); err == nil {
			model, err = s.engine.LoadModelData(data)
		}
	case assets.SourceAnimation:
		return s.AttachAnimation(abs)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", abs, err)
	}
	s.setModel(model, abs)
	return nil
}

// OpenPathAsync reads the file on the job system and loads it on a later
// SystemManager.Update. Failures are logged.
func (s *Session) OpenPathAsync(path string) error {
	abs, kind, err := resolveSource(path)
	if err != nil {
		return err
	}
	return s.systems.JobSystem.Submit(systems.JobTask{
		Name: "open " + abs,
		Run: func() (interface{}, error) {
			if kind == assets.SourceArchive {
				return readArchiveModel(abs)
			}
			return os.ReadFile(abs)
		},
		OnComplete: func(result interface{}) {
			if err := s.openData(abs, kind, result.([]byte)); err != nil {
				core.LogError("Could not open %s: %s", abs, err.Error())
			}
		},
		OnFailure: func(err error) {
			core.LogError("Could not read %s: %s", abs, err.Error())
		},
	})
}

func (s *Session) openData(abs string, kind assets.SourceKind, data []byte) error {
	if kind == assets.SourceAnimation {
		return s.attachAnimationData(abs, data)
	}
	model, err := s.engine.LoadModelData(data)
	if err != nil {
		return err
	}
	s.setModel(model, abs)
	return nil
}

func resolveSource(path string) (string, assets.SourceKind, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", assets.SourceUnknown, err
	}
	kind, err := assets.Detect(abs)
	if err != nil {
		return "", assets.SourceUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFile, err.Error())
	}
	if kind == assets.SourceUnknown {
		return "", kind, fmt.Errorf("%w: %s", ErrUnsupportedFile, abs)
	}
	return abs, kind, nil
}

func readArchiveModel(path string) ([]byte, error) {
	archive, err := assets.OpenArchive(path)
	if err != nil {
		return nil, err
	}
	entry, err := assets.FindModel(archive)
	if err != nil {
		return nil, err
	}
	core.LogDebug("Found model %s in %s", entry.Path, path)
	return archive.ReadFile(entry.Path)
}

func (s *Session) setModel(model renderer.ModelInstance, path string) {
	if s.modelPath != path {
		s.unwatch(s.modelPath)
		s.watch(path)
	}
	s.model = model
	s.modelPath = path
	s.player.Detach()
	s.unwatch(s.animPath)
	s.animPath = ""

	for _, l := range s.config.Lights {
		if err := model.SetLight(l.Light(), l.Slot); err != nil {
			core.LogWarn("Skipping light %d: %s", l.Slot, err.Error())
		}
	}
	core.LogInfo("Opened %s", path)
}

// AttachAnimation loads a .brk file and plays it on the current model.
func (s *Session) AttachAnimation(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("attach animation: %w", err)
	}
	return s.attachAnimationData(abs, data)
}

func (s *Session) attachAnimationData(abs string, data []byte) error {
	if s.model == nil {
		return ErrNoModel
	}
	if assets.Sniff(data) != assets.SourceAnimation {
		return fmt.Errorf("%w: %s is not a color animation", ErrUnsupportedFile, abs)
	}
	anim, err := s.engine.LoadColorAnimation(data)
	if err != nil {
		return fmt.Errorf("attach animation %s: %w", abs, err)
	}
	s.model.AttachColorAnimation(anim)
	s.player.Attach(anim)
	if s.animPath != abs {
		s.unwatch(s.animPath)
		s.watch(abs)
	}
	s.animPath = abs
	return nil
}

// Frame draws one frame at the given framebuffer size.
func (s *Session) Frame(deltaTime float32, width, height uint32) error {
	s.player.Advance(deltaTime)
	if width == 0 || height == 0 {
		// minimized
		return nil
	}

	aspect := float32(width) / float32(height)
	s.projection = math.NewMat4Perspective(
		math.DegToRad(s.config.Projection.FOV), aspect,
		s.config.Projection.Near, s.config.Projection.Far,
	)
	view := s.camera.ViewMatrix()
	if err := s.engine.SetCamera(s.projection.Floats(s.layout), view.Floats(s.layout)); err != nil {
		return err
	}
	if s.model != nil {
		s.model.Render()
	}
	return s.engine.Render(deltaTime, s.camera.Position())
}

// Pick reports whether the current model is under the given framebuffer
// coordinate.
func (s *Session) Pick(x, y int) (renderer.PickResult, error) {
	res, err := s.engine.Pick(x, y)
	if err != nil {
		return res, err
	}
	if res.Hit && s.model != nil && res.ModelID == s.model.ID() {
		core.LogInfo("Picked %s", filepath.Base(s.modelPath))
	}
	return res, nil
}

// ReloadIfChanged drains pending file notifications and reopens the model,
// and its animation, when either changed on disk. It never blocks.
func (s *Session) ReloadIfChanged() (bool, error) {
	am := s.systems.AssetManager
	if am == nil || s.modelPath == "" {
		return false, nil
	}

	modelChanged, animChanged := false, false
drain:
	for {
		select {
		case c, ok := <-am.Changes():
			if !ok {
				break drain
			}
			switch c.Path {
			case s.modelPath:
				modelChanged = true
			case s.animPath:
				animChanged = true
			}
		default:
			break drain
		}
	}
	if !modelChanged && !animChanged {
		return false, nil
	}

	animPath, frame, playing := s.animPath, s.player.Frame(), s.player.Playing()
	if modelChanged {
		core.LogInfo("Reloading %s", s.modelPath)
		if err := s.OpenPath(s.modelPath); err != nil {
			return false, err
		}
	}
	if animPath != "" {
		if err := s.AttachAnimation(animPath); err != nil {
			return true, err
		}
		s.player.SetFrame(frame)
		if !playing {
			s.player.Pause()
		}
	}
	return true, nil
}

func (s *Session) watch(path string) {
	if s.systems.AssetManager == nil || path == "" {
		return
	}
	if err := s.systems.AssetManager.Watch(path); err != nil {
		core.LogWarn("Not watching %s: %s", path, err.Error())
	}
}

func (s *Session) unwatch(path string) {
	if s.systems.AssetManager == nil || path == "" {
		return
	}
	if err := s.systems.AssetManager.Unwatch(path); err != nil {
		core.LogWarn("Unwatch %s: %s", path, err.Error())
	}
}

// Close drops the current model and animation.
func (s *Session) Close() error {
	s.unwatch(s.modelPath)
	s.unwatch(s.animPath)
	s.player.Detach()
	s.model = nil
	s.modelPath = ""
	s.animPath = ""
	return nil
}
