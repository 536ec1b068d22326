package math

import (
	m "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-5)

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.Truef(t, want.Compare(got, tol), "want %+v, got %+v", want, got)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(7, 0, 5))
	assert.Equal(t, 0, Clamp(-3, 0, 5))
	assert.Equal(t, float32(2.5), Clamp(float32(2.5), 0, 5))
}

func TestWrapDegrees(t *testing.T) {
	cases := map[float32]float32{
		0:    0,
		90:   90,
		360:  0,
		450:  90,
		-90:  270,
		-720: 0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, WrapDegrees(in), 1e-4, "wrap(%v)", in)
	}
	w := WrapDegrees(-1e-6)
	assert.True(t, w >= 0 && w < 360)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(float32(m.NaN())))
	assert.False(t, IsFinite(float32(m.Inf(1))))
	assert.False(t, NewVec3(0, float32(m.Inf(-1)), 0).IsFinite())
}

func TestNormalizeZeroVector(t *testing.T) {
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalize())
	assertVec3(t, NewVec3(0, 1, 0), NewVec3(0, 3, 0).Normalize())
}

func TestLookAtDefaultAxes(t *testing.T) {
	view := NewMat4LookAt(NewVec3(0, 0, 10), NewVec3Zero(), NewVec3Up())

	assertVec3(t, NewVec3(0, 0, -1), view.Forward())
	assertVec3(t, NewVec3(1, 0, 0), view.Right())
	assertVec3(t, NewVec3(0, 1, 0), view.Up())
	// the target ends up straight ahead of the eye
	assertVec3(t, NewVec3(0, 0, -10), NewVec3Zero().Transform(view))
	// the eye is the origin of view space
	assertVec3(t, NewVec3Zero(), NewVec3(0, 0, 10).Transform(view))
}

func TestLookAtIsOrthonormal(t *testing.T) {
	view := NewMat4LookAt(NewVec3(3, 7, -2), NewVec3(-1, 0.5, 4), NewVec3Up())
	r, u, b := view.Right(), view.Up(), view.Backward()

	assert.InDelta(t, 0, r.Dot(u), 1e-5)
	assert.InDelta(t, 0, r.Dot(b), 1e-5)
	assert.InDelta(t, 0, u.Dot(b), 1e-5)
	assertVec3(t, b, r.Cross(u))
}

func TestLookAtDegenerateInputsStayFinite(t *testing.T) {
	eye := NewVec3(1, 2, 3)

	same := NewMat4LookAt(eye, eye, NewVec3Up())
	require.True(t, same.IsFinite())
	assertVec3(t, NewVec3(0, 0, -1), same.Forward())

	above := NewMat4LookAt(NewVec3(0, 10, 0), NewVec3Zero(), NewVec3Up())
	require.True(t, above.IsFinite())
	assertVec3(t, NewVec3(0, -1, 0), above.Forward())

	below := NewMat4LookAt(NewVec3(0, -10, 0), NewVec3Zero(), NewVec3Up())
	require.True(t, below.IsFinite())
	assertVec3(t, NewVec3(0, 1, 0), below.Forward())
}

func TestInverseOfLookAt(t *testing.T) {
	view := NewMat4LookAt(NewVec3(4, 5, 6), NewVec3(0, 1, 0), NewVec3Up())
	id := view.Mul(view.Inverse())
	for i, f := range NewMat4Identity().Data {
		assert.InDelta(t, f, id.Data[i], 1e-4, "element %d", i)
	}
	// the inverse maps the view-space origin back to the eye
	assertVec3(t, NewVec3(4, 5, 6), NewVec3Zero().Transform(view.Inverse()))
}

func TestPerspective(t *testing.T) {
	p := NewMat4Perspective(DegToRad(90), 2, 1, 101)
	assert.InDelta(t, 0.5, p.Data[0], 1e-5)
	assert.InDelta(t, 1, p.Data[5], 1e-5)
	assert.InDelta(t, -1, p.Data[11], 1e-6)
	assert.InDelta(t, -102.0/100.0, p.Data[10], 1e-5)
}

func TestFloatsLayout(t *testing.T) {
	view := NewMat4LookAt(NewVec3(1, 2, 3), NewVec3Zero(), NewVec3Up())
	col := view.Floats(MatrixLayoutColumnMajor)
	row := view.Floats(MatrixLayoutRowMajor)

	assert.Equal(t, view.Data, col)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, col[c*4+r], row[r*4+c])
		}
	}
	assert.Equal(t, view, NewMat4FromFloats(row, MatrixLayoutRowMajor))
}

func TestParseMatrixLayout(t *testing.T) {
	l, err := ParseMatrixLayout("Row-Major")
	require.NoError(t, err)
	assert.Equal(t, MatrixLayoutRowMajor, l)

	l, err = ParseMatrixLayout("")
	require.NoError(t, err)
	assert.Equal(t, MatrixLayoutColumnMajor, l)
	assert.Equal(t, "column_major", l.String())

	_, err = ParseMatrixLayout("diagonal")
	assert.Error(t, err)
}
