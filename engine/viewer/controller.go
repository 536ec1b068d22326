package viewer

import (
	"errors"

	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/renderer/components"
)

// KeyState answers whether a key is currently held.
type KeyState interface {
	IsKeyDown(key core.KeyCode) bool
}

type ControllerConfig struct {
	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32
	ScrollSpeed float32
}

// Controller maps held keys to camera moves, once per frame:
//
//	W/S        pitch up/down
//	A/D        yaw left/right
//	Q/E        zoom in/out
//	Shift+Q/E  move the target up/down
type Controller struct {
	camera *components.OrbitCamera
	config ControllerConfig
}

func NewController(camera *components.OrbitCamera, config ControllerConfig) *Controller {
	return &Controller{camera: camera, config: config}
}

func (c *Controller) Camera() *components.OrbitCamera {
	return c.camera
}

func (c *Controller) SetCamera(camera *components.OrbitCamera) {
	c.camera = camera
}

func (c *Controller) Update(keys KeyState) error {
	if c.camera == nil {
		return nil
	}
	var errs []error
	if keys.IsKeyDown(core.KEY_W) {
		errs = append(errs, c.camera.Rotate(c.config.RotateSpeed, 0))
	}
	if keys.IsKeyDown(core.KEY_S) {
		errs = append(errs, c.camera.Rotate(-c.config.RotateSpeed, 0))
	}
	if keys.IsKeyDown(core.KEY_A) {
		errs = append(errs, c.camera.Rotate(0, c.config.RotateSpeed))
	}
	if keys.IsKeyDown(core.KEY_D) {
		errs = append(errs, c.camera.Rotate(0, -c.config.RotateSpeed))
	}

	shift := keys.IsKeyDown(core.KEY_SHIFT)
	if keys.IsKeyDown(core.KEY_Q) {
		if shift {
			errs = append(errs, c.camera.Pan(c.config.PanSpeed))
		} else {
			errs = append(errs, c.camera.Zoom(c.config.ZoomSpeed))
		}
	}
	if keys.IsKeyDown(core.KEY_E) {
		if shift {
			errs = append(errs, c.camera.Pan(-c.config.PanSpeed))
		} else {
			errs = append(errs, c.camera.Zoom(-c.config.ZoomSpeed))
		}
	}
	return errors.Join(errs...)
}

// Scroll zooms by whole wheel notches; scrolling up moves closer.
func (c *Controller) Scroll(notches float32) error {
	if c.camera == nil {
		return nil
	}
	return c.camera.Zoom(notches * c.config.ScrollSpeed)
}
