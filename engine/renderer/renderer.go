package renderer

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spaghettifunk/j3dview/engine/math"
)

/** @brief The number of light slots a model exposes. */
const MaxLights = 8

var (
	ErrInvalidLightIndex = errors.New("light index out of range")
	ErrEmptyModelData    = errors.New("model data is empty")
	ErrModelNotFound     = errors.New("model file not found")
)

/**
 * @brief The render engine the viewer drives. Model decoding, materials,
 * skinning, picking buffers and GPU resources all live behind it.
 */
type RenderEngine interface {
	// Init prepares the engine against the current GL context.
	Init() error
	// Cleanup releases everything created since Init.
	Cleanup()
	LoadModelFile(path string) (ModelInstance, error)
	LoadModelData(data []byte) (ModelInstance, error)
	LoadColorAnimation(data []byte) (ColorAnimation, error)
	// SetCamera uploads projection and view, already flattened in the
	// layout the engine expects.
	SetCamera(projection, view [16]float32) error
	// Render draws every model queued since the last call and empties the queue.
	Render(deltaTime float32, eye math.Vec3) error
	// Pick returns the model under the given framebuffer pixel.
	Pick(x, y int) (PickResult, error)
}

// ModelInstance is a loaded model placed in the scene.
type ModelInstance interface {
	ID() uuid.UUID
	// Render queues the model for the next RenderEngine.Render.
	Render()
	SetLight(light Light, index int) error
	SetTranslation(t math.Vec3)
	SetRotation(r math.Vec3)
	SetScale(s math.Vec3)
	AttachColorAnimation(anim ColorAnimation)
	ColorAnimation() ColorAnimation
}

// ColorAnimation animates TEV register colours (.brk).
type ColorAnimation interface {
	ID() uuid.UUID
	SetFrame(frame float32)
	Frame() float32
	// Length is the duration in frames.
	Length() float32
}

/** @brief A light as the J3D shaders see it. */
type Light struct {
	Position  math.Vec3
	Direction math.Vec3
	Color     math.Vec4
	// Angle attenuation coefficients.
	AngleAtten math.Vec3
	// Distance attenuation coefficients.
	DistAtten math.Vec3
	// When set the light position is taken relative to the camera.
	FollowCamera bool
}

type PickResult struct {
	Hit     bool
	ModelID uuid.UUID
}
