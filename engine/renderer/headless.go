package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
)

// HeadlessEngine is a RenderEngine that keeps everything in memory and draws
// nothing. It is used when no native engine is linked in, and by tests.
type HeadlessEngine struct {
	initialized bool

	models     map[uuid.UUID]*headlessModel
	batch      []*headlessModel
	lastBatch  []uuid.UUID
	projection [16]float32
	view       [16]float32
	eye        math.Vec3
	frames     uint64
	picks      map[[2]int]uuid.UUID
}

var _ RenderEngine = (*HeadlessEngine)(nil)

func NewHeadlessEngine() *HeadlessEngine {
	return &HeadlessEngine{}
}

func (e *HeadlessEngine) Init() error {
	if e.initialized {
		return nil
	}
	e.models = make(map[uuid.UUID]*headlessModel)
	e.picks = make(map[[2]int]uuid.UUID)
	e.initialized = true
	core.LogInfo("Headless render engine initialized.")
	return nil
}

func (e *HeadlessEngine) Cleanup() {
	if !e.initialized {
		return
	}
	e.models = nil
	e.batch = nil
	e.lastBatch = nil
	e.picks = nil
	e.initialized = false
}

func (e *HeadlessEngine) LoadModelFile(path string) (ModelInstance, error) {
	if !e.initialized {
		return nil, fmt.Errorf("load model %s: %w", path, core.ErrNotInitialized)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, err
	}
	return e.LoadModelData(data)
}

func (e *HeadlessEngine) LoadModelData(data []byte) (ModelInstance, error) {
	if !e.initialized {
		return nil, fmt.Errorf("load model: %w", core.ErrNotInitialized)
	}
	if len(data) == 0 {
		return nil, ErrEmptyModelData
	}
	m := &headlessModel{
		id:     uuid.New(),
		engine: e,
		size:   len(data),
		scale:  math.NewVec3(1, 1, 1),
	}
	e.models[m.id] = m
	core.LogDebug("Loaded model %s (%d bytes).", m.id, m.size)
	return m, nil
}

func (e *HeadlessEngine) LoadColorAnimation(data []byte) (ColorAnimation, error) {
	if !e.initialized {
		return nil, fmt.Errorf("load animation: %w", core.ErrNotInitialized)
	}
	if len(data) == 0 {
		return nil, ErrEmptyModelData
	}
	return &headlessAnimation{
		id:     uuid.New(),
		length: float32(brkDuration(data)),
	}, nil
}

func (e *HeadlessEngine) SetCamera(projection, view [16]float32) error {
	if !e.initialized {
		return core.ErrNotInitialized
	}
	e.projection = projection
	e.view = view
	return nil
}

func (e *HeadlessEngine) Render(deltaTime float32, eye math.Vec3) error {
	if !e.initialized {
		return core.ErrNotInitialized
	}
	e.eye = eye
	e.lastBatch = e.lastBatch[:0]
	for _, m := range e.batch {
		e.lastBatch = append(e.lastBatch, m.id)
	}
	e.batch = e.batch[:0]
	e.frames++
	return nil
}

func (e *HeadlessEngine) Pick(x, y int) (PickResult, error) {
	if !e.initialized {
		return PickResult{}, core.ErrNotInitialized
	}
	id, ok := e.picks[[2]int{x, y}]
	if !ok {
		return PickResult{}, nil
	}
	// only models drawn in the last frame can be under the cursor
	for _, drawn := range e.lastBatch {
		if drawn == id {
			return PickResult{Hit: true, ModelID: id}, nil
		}
	}
	return PickResult{}, nil
}

// SetPickTarget makes Pick(x, y) report the model, as long as it was drawn
// in the last frame.
func (e *HeadlessEngine) SetPickTarget(x, y int, id uuid.UUID) {
	if e.picks != nil {
		e.picks[[2]int{x, y}] = id
	}
}

// Camera returns the matrices from the last SetCamera call.
func (e *HeadlessEngine) Camera() (projection, view [16]float32) {
	return e.projection, e.view
}

// Eye returns the camera position passed to the last Render.
func (e *HeadlessEngine) Eye() math.Vec3 {
	return e.eye
}

// Frames counts Render calls.
func (e *HeadlessEngine) Frames() uint64 {
	return e.frames
}

// LastBatch lists the models drawn by the last Render, in queue order.
func (e *HeadlessEngine) LastBatch() []uuid.UUID {
	return append([]uuid.UUID(nil), e.lastBatch...)
}

// Model returns a loaded model by id.
func (e *HeadlessEngine) Model(id uuid.UUID) (ModelInstance, bool) {
	m, ok := e.models[id]
	return m, ok
}

type headlessModel struct {
	id     uuid.UUID
	engine *HeadlessEngine
	size   int

	lights      [MaxLights]*Light
	translation math.Vec3
	rotation    math.Vec3
	scale       math.Vec3
	animation   ColorAnimation
}

func (m *headlessModel) ID() uuid.UUID {
	return m.id
}

func (m *headlessModel) Render() {
	m.engine.batch = append(m.engine.batch, m)
}

func (m *headlessModel) SetLight(light Light, index int) error {
	if index < 0 || index >= MaxLights {
		return fmt.Errorf("%w: %d", ErrInvalidLightIndex, index)
	}
	m.lights[index] = &light
	return nil
}

// Light returns the light in slot index, if one was set.
func (m *headlessModel) Light(index int) (Light, bool) {
	if index < 0 || index >= MaxLights || m.lights[index] == nil {
		return Light{}, false
	}
	return *m.lights[index], true
}

func (m *headlessModel) SetTranslation(t math.Vec3) { m.translation = t }
func (m *headlessModel) SetRotation(r math.Vec3)    { m.rotation = r }
func (m *headlessModel) SetScale(s math.Vec3)       { m.scale = s }

func (m *headlessModel) AttachColorAnimation(anim ColorAnimation) {
	m.animation = anim
}

func (m *headlessModel) ColorAnimation() ColorAnimation {
	return m.animation
}

type headlessAnimation struct {
	id     uuid.UUID
	frame  float32
	length float32
}

func (a *headlessAnimation) ID() uuid.UUID          { return a.id }
func (a *headlessAnimation) SetFrame(frame float32) { a.frame = frame }
func (a *headlessAnimation) Frame() float32         { return a.frame }
func (a *headlessAnimation) Length() float32        { return a.length }

// brkDuration reads the frame count of the TRK1 block of a .brk file, which
// starts right after the 32 byte file header. Anything unexpected yields 0.
func brkDuration(data []byte) uint16 {
	const (
		headerSize     = 0x20
		durationOffset = 0x0A
	)
	if len(data) < headerSize+durationOffset+2 || string(data[headerSize:headerSize+4]) != "TRK1" {
		return 0
	}
	return binary.BigEndian.Uint16(data[headerSize+durationOffset:])
}
