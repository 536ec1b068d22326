package math

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
	K_FLOAT_EPSILON float32 = 1.192092896e-07
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

/**
 * @brief Converts provided degrees to radians.
 *
 * @param degrees The degrees to be converted.
 * @return The amount in radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

/**
 * @brief Converts provided radians to degrees.
 *
 * @param radians The radians to be converted.
 * @return The amount in degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * K_RAD2DEG_MULTIPLIER
}

// WrapDegrees maps an angle into [0, 360).
func WrapDegrees(degrees float32) float32 {
	w := math32.Mod(degrees, 360)
	if w < 0 {
		w += 360
	}
	// -tiny + 360 rounds to exactly 360 in float32
	if w >= 360 {
		w = 0
	}
	return w
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// ParseMatrixLayout accepts "column_major" or "row_major" (case insensitive,
// dashes allowed). An empty string selects column-major.
func ParseMatrixLayout(s string) (MatrixLayout, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "", "column_major", "column":
		return MatrixLayoutColumnMajor, nil
	case "row_major", "row":
		return MatrixLayoutRowMajor, nil
	default:
		return MatrixLayoutColumnMajor, fmt.Errorf("unknown matrix layout %q", s)
	}
}

func (l MatrixLayout) String() string {
	switch l {
	case MatrixLayoutColumnMajor:
		return "column_major"
	case MatrixLayoutRowMajor:
		return "row_major"
	default:
		return fmt.Sprintf("MatrixLayout(%d)", uint8(l))
	}
}
