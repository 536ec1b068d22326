package math

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/**
 * @brief a 4x4 matrix stored in column-major order, the same order
 * OpenGL and glm expect: element (row r, column c) is Data[c*4+r].
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

// MatrixLayout selects how a Mat4 is flattened when it leaves the engine.
type MatrixLayout uint8

const (
	// Columns are written one after the other. This is the in-memory layout.
	MatrixLayoutColumnMajor MatrixLayout = iota
	// Rows are written one after the other (the transpose of the in-memory layout).
	MatrixLayoutRowMajor
)
