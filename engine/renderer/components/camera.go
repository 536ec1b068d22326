package components

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/spaghettifunk/j3dview/engine/math"
)

const (
	/** @brief The name of the default camera. */
	DEFAULT_CAMERA_NAME string = "default"

	/** @brief The closest the eye can get to the target. */
	MinDistance float32 = 0.001
	/**
	 * @brief Pitch limit in degrees. At exactly ±90 the view direction is
	 * parallel to the world up vector and the look-at basis collapses.
	 */
	MaxPitch float32 = 89.0
)

var (
	ErrDegenerateDistance = errors.New("camera distance must be a positive finite number")
	ErrInvalidAngle       = errors.New("camera angles must be finite")
	ErrInvalidTarget      = errors.New("camera target must have finite components")
)

/**
 * @brief A camera orbiting a target point. The pose is described by a
 * distance from the target and two angles in degrees; position and view
 * matrix are derived from them after every change and are never set directly.
 *
 * Yaw 0 looks from +Z towards the target, increasing yaw moves the eye
 * towards +X. Positive pitch lifts the eye above the target's horizontal plane.
 */
type OrbitCamera struct {
	distance float32
	pitch    float32
	yaw      float32
	target   math.Vec3

	position   math.Vec3
	viewMatrix math.Mat4
}

// NewOrbitCamera validates the initial pose and computes position and view.
func NewOrbitCamera(distance, pitch, yaw float32, target math.Vec3) (*OrbitCamera, error) {
	c := &OrbitCamera{}
	if err := c.Reset(distance, pitch, yaw, target); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset replaces the whole pose. On error the camera is left untouched.
func (c *OrbitCamera) Reset(distance, pitch, yaw float32, target math.Vec3) error {
	if !math.IsFinite(distance) || distance <= 0 {
		return fmt.Errorf("%w: got %v", ErrDegenerateDistance, distance)
	}
	if !math.IsFinite(pitch) || !math.IsFinite(yaw) {
		return fmt.Errorf("%w: pitch=%v yaw=%v", ErrInvalidAngle, pitch, yaw)
	}
	if !target.IsFinite() {
		return fmt.Errorf("%w: %+v", ErrInvalidTarget, target)
	}
	c.distance = distance
	c.pitch = pitch
	c.yaw = yaw
	c.target = target
	c.recompute()
	return nil
}

// Rotate adds the deltas (degrees) to pitch and yaw.
func (c *OrbitCamera) Rotate(deltaPitch, deltaYaw float32) error {
	pitch, yaw := c.pitch+deltaPitch, c.yaw+deltaYaw
	if !math.IsFinite(pitch) || !math.IsFinite(yaw) {
		return fmt.Errorf("%w: rotate by (%v, %v)", ErrInvalidAngle, deltaPitch, deltaYaw)
	}
	c.pitch = pitch
	c.yaw = yaw
	c.recompute()
	return nil
}

// Zoom moves the eye towards the target by delta; a negative delta moves it
// away. The distance never drops below MinDistance.
func (c *OrbitCamera) Zoom(delta float32) error {
	distance := c.distance - delta
	if !math.IsFinite(distance) {
		return fmt.Errorf("%w: zoom by %v", ErrDegenerateDistance, delta)
	}
	c.distance = distance
	c.recompute()
	return nil
}

// SetTarget moves the orbit centre. The eye keeps its distance and angles.
func (c *OrbitCamera) SetTarget(target math.Vec3) error {
	if !target.IsFinite() {
		return fmt.Errorf("%w: %+v", ErrInvalidTarget, target)
	}
	c.target = target
	c.recompute()
	return nil
}

// Pan shifts the target along the world vertical axis.
func (c *OrbitCamera) Pan(deltaY float32) error {
	return c.SetTarget(c.target.Add(math.NewVec3(0, deltaY, 0)))
}

func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return c.viewMatrix
}

func (c *OrbitCamera) Position() math.Vec3 {
	return c.position
}

func (c *OrbitCamera) Target() math.Vec3 {
	return c.target
}

func (c *OrbitCamera) Distance() float32 {
	return c.distance
}

func (c *OrbitCamera) Pitch() float32 {
	return c.pitch
}

func (c *OrbitCamera) Yaw() float32 {
	return c.yaw
}

// Forward is the unit vector from the eye towards the target.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.viewMatrix.Forward()
}

// recompute normalises the pose and rebuilds position and view matrix.
// Every mutator ends here.
func (c *OrbitCamera) recompute() {
	c.clampPose()

	pitch := math.DegToRad(c.pitch)
	yaw := math.DegToRad(c.yaw)
	cosPitch := math32.Cos(pitch)

	offset := math.NewVec3(
		cosPitch*math32.Sin(yaw),
		math32.Sin(pitch),
		cosPitch*math32.Cos(yaw),
	)

	c.position = c.target.Add(offset.MulScalar(c.distance))
	c.viewMatrix = math.NewMat4LookAt(c.position, c.target, math.NewVec3Up())
}

// clampPose keeps the inputs of recompute inside the range where the
// look-at basis is well defined.
func (c *OrbitCamera) clampPose() {
	if c.distance < MinDistance {
		c.distance = MinDistance
	}
	c.pitch = math.Clamp(c.pitch, -MaxPitch, MaxPitch)
	c.yaw = math.WrapDegrees(c.yaw)
}
