package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/spaghettifunk/j3dview/engine/renderer/components"
)

const InvalidIDUint16 uint16 = 65535

var ErrNoFreeCameraSlot = errors.New("no free camera slot")

/** @brief The starting pose of every camera handed out by the system. */
type CameraPose struct {
	Distance float32
	Pitch    float32
	Yaw      float32
	Target   math.Vec3
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/** @brief The maximum number of named cameras, the default one excluded. */
	MaxCameraCount uint16
	/** @brief Pose used for the default camera and for new named cameras. */
	Pose CameraPose
}

type cameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *components.OrbitCamera
}

type CameraSystem struct {
	Config  *CameraSystemConfig
	Lookup  map[string]uint16
	Cameras []*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.OrbitCamera
}

/**
 * @brief Initializes the camera system and creates the default camera
 * from the configured pose.
 *
 * @param config The configuration for this system.
 * @return The system, or an error if the config is unusable.
 */
func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 || config.MaxCameraCount == InvalidIDUint16 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be in (0, %d)", InvalidIDUint16)
		core.LogError(err.Error())
		return nil, err
	}
	defaultCamera, err := newCamera(config.Pose)
	if err != nil {
		core.LogError("func NewCameraSystem - invalid default pose: %s", err.Error())
		return nil, err
	}
	cs := &CameraSystem{
		Config:        config,
		Cameras:       make([]*cameraLookup, config.MaxCameraCount),
		Lookup:        make(map[string]uint16, config.MaxCameraCount),
		DefaultCamera: defaultCamera,
	}
	// Invalidate all cameras in the array.
	for i := uint16(0); i < cs.Config.MaxCameraCount; i++ {
		cs.Cameras[i] = &cameraLookup{
			ID:             InvalidIDUint16,
			ReferenceCount: 0,
		}
	}
	return cs, nil
}

func newCamera(pose CameraPose) (*components.OrbitCamera, error) {
	return components.NewOrbitCamera(pose.Distance, pose.Pitch, pose.Yaw, pose.Target)
}

func (cs *CameraSystem) Shutdown() error {
	for name := range cs.Lookup {
		delete(cs.Lookup, name)
	}
	for _, c := range cs.Cameras {
		c.ID = InvalidIDUint16
		c.ReferenceCount = 0
		c.Camera = nil
	}
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created with the configured pose. Internal reference counter is incremented.
 *
 * @param name The name of the camera to acquire.
 * @return The camera, or an error if every slot is taken.
 */
func (cs *CameraSystem) Acquire(name string) (*components.OrbitCamera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	id, ok := cs.Lookup[name]
	if !ok || id == InvalidIDUint16 {
		// Find free slot
		id = InvalidIDUint16
		for i := uint16(0); i < cs.Config.MaxCameraCount; i++ {
			if cs.Cameras[i].ID == InvalidIDUint16 {
				id = i
				break
			}
		}
		if id == InvalidIDUint16 {
			err := fmt.Errorf("func CameraSystemAcquire '%s': %w, adjust camera system config to allow more", name, ErrNoFreeCameraSlot)
			core.LogError(err.Error())
			return nil, err
		}

		core.LogDebug("Creating new camera named '%s'...", name)
		camera, err := newCamera(cs.Config.Pose)
		if err != nil {
			return nil, err
		}
		cs.Cameras[id].Camera = camera
		cs.Cameras[id].ID = id

		// Update the hashtable.
		cs.Lookup[name] = id
	}
	cs.Cameras[id].ReferenceCount++
	return cs.Cameras[id].Camera, nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped
 * and the slot is usable by a new camera.
 *
 * @param name The name of the camera to release.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	id, ok := cs.Lookup[name]
	if !ok || id == InvalidIDUint16 {
		core.LogWarn("CameraSystemRelease failed lookup for '%s'. Nothing was done.", name)
		return
	}
	cs.Cameras[id].ReferenceCount--
	if cs.Cameras[id].ReferenceCount < 1 {
		cs.Cameras[id].Camera = nil
		cs.Cameras[id].ID = InvalidIDUint16
		delete(cs.Lookup, name)
	}
}

// ReferenceCount reports how many holders a named camera has.
func (cs *CameraSystem) ReferenceCount(name string) uint16 {
	id, ok := cs.Lookup[name]
	if !ok || id == InvalidIDUint16 {
		return 0
	}
	return cs.Cameras[id].ReferenceCount
}

/**
 * @brief Gets the default camera.
 */
func (cs *CameraSystem) GetDefault() *components.OrbitCamera {
	return cs.DefaultCamera
}
