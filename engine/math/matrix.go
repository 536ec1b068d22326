package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func NewMat4Identity() Mat4 {
	return Mat4{Data: mgl32.Ident4()}
}

// NewMat4FromFloats wraps 16 floats given in the provided layout.
func NewMat4FromFloats(data [16]float32, layout MatrixLayout) Mat4 {
	m := Mat4{Data: data}
	if layout == MatrixLayoutRowMajor {
		return m.Transposed()
	}
	return m
}

/**
 * @brief Returns the result of multiplying mt by other (mt * other), so
 * other is applied first when transforming a point.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	return Mat4{Data: mgl32.Mat4(mt.Data).Mul4(mgl32.Mat4(other.Data))}
}

/**
 * @brief Creates and returns a perspective matrix. Typically used to render 3d scenes.
 *
 * @param fov_radians The vertical field of view in radians.
 * @param aspect_ratio The aspect ratio.
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 * @return A new perspective matrix.
 */
func NewMat4Perspective(fov_radians, aspect_ratio, near_clip, far_clip float32) Mat4 {
	return Mat4{Data: mgl32.Perspective(fov_radians, aspect_ratio, near_clip, far_clip)}
}

/**
 * @brief Creates and returns a look-at matrix, or a matrix looking
 * at target from the perspective of position.
 *
 * The function is total: when position and target coincide the camera
 * looks down -Z, and when the view direction is parallel to up the
 * world -Z axis is used as up instead.
 *
 * @param position The position of the matrix.
 * @param target The position to "look at".
 * @param up The up vector.
 * @return A matrix looking at target from the perspective of position.
 */
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	forward := target.Sub(position)
	if forward.LengthSquared() < K_FLOAT_EPSILON {
		forward = NewVec3Forward()
		target = position.Add(forward)
	}
	forward = forward.Normalize()

	if up.LengthSquared() < K_FLOAT_EPSILON || forward.Cross(up.Normalize()).LengthSquared() < K_FLOAT_EPSILON {
		up = NewVec3Forward()
		if forward.Cross(up).LengthSquared() < K_FLOAT_EPSILON {
			up = NewVec3Up()
		}
	}

	return Mat4{Data: mgl32.LookAtV(position.mgl(), target.mgl(), up.mgl())}
}

/**
 * @brief Returns a transposed copy of the provided matrix (rows->colums)
 */
func (mt Mat4) Transposed() Mat4 {
	return Mat4{Data: mgl32.Mat4(mt.Data).Transpose()}
}

/**
 * @brief Creates and returns an inverse of the provided matrix. A singular
 * matrix yields the zero matrix.
 */
func (mt Mat4) Inverse() Mat4 {
	return Mat4{Data: mgl32.Mat4(mt.Data).Inv()}
}

// Floats flattens the matrix in the requested layout.
func (mt Mat4) Floats(layout MatrixLayout) [16]float32 {
	if layout == MatrixLayoutRowMajor {
		return mt.Transposed().Data
	}
	return mt.Data
}

// IsFinite reports whether every element is a finite number.
func (mt Mat4) IsFinite() bool {
	for _, f := range mt.Data {
		if !IsFinite(f) {
			return false
		}
	}
	return true
}

/**
 * @brief Returns a forward vector relative to the provided view matrix.
 */
func (mt Mat4) Forward() Vec3 {
	return Vec3{-mt.Data[2], -mt.Data[6], -mt.Data[10]}.Normalize()
}

/**
 * @brief Returns a backward vector relative to the provided view matrix.
 */
func (mt Mat4) Backward() Vec3 {
	return Vec3{mt.Data[2], mt.Data[6], mt.Data[10]}.Normalize()
}

/**
 * @brief Returns a upward vector relative to the provided view matrix.
 */
func (mt Mat4) Up() Vec3 {
	return Vec3{mt.Data[1], mt.Data[5], mt.Data[9]}.Normalize()
}

/**
 * @brief Returns a right vector relative to the provided view matrix.
 */
func (mt Mat4) Right() Vec3 {
	return Vec3{mt.Data[0], mt.Data[4], mt.Data[8]}.Normalize()
}

/**
 * @brief Returns a left vector relative to the provided view matrix.
 */
func (mt Mat4) Left() Vec3 {
	return mt.Right().MulScalar(-1)
}
