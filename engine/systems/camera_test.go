package systems

import (
	"io"
	"testing"

	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/spaghettifunk/j3dview/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystem(t *testing.T, max uint16) *CameraSystem {
	t.Helper()
	core.SetLogOutput(io.Discard)
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: max,
		Pose:           CameraPose{Distance: 1000, Pitch: 30, Yaw: 45},
	})
	require.NoError(t, err)
	return cs
}

func TestNewCameraSystemRejectsBadConfig(t *testing.T) {
	core.SetLogOutput(io.Discard)
	_, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 0, Pose: CameraPose{Distance: 1}})
	assert.Error(t, err)

	_, err = NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 4, Pose: CameraPose{Distance: 0}})
	assert.ErrorIs(t, err, components.ErrDegenerateDistance)
}

func TestDefaultCamera(t *testing.T) {
	cs := newSystem(t, 2)
	def := cs.GetDefault()
	require.NotNil(t, def)
	assert.Equal(t, float32(1000), def.Distance())

	got, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, def, got)

	cs.Release(components.DEFAULT_CAMERA_NAME)
	assert.Same(t, def, cs.GetDefault())
}

func TestAcquireRelease(t *testing.T) {
	cs := newSystem(t, 2)

	a, err := cs.Acquire("preview")
	require.NoError(t, err)
	again, err := cs.Acquire("preview")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, uint16(2), cs.ReferenceCount("preview"))

	require.NoError(t, a.Zoom(100))

	cs.Release("preview")
	assert.Equal(t, uint16(1), cs.ReferenceCount("preview"))
	cs.Release("preview")
	assert.Zero(t, cs.ReferenceCount("preview"))

	fresh, err := cs.Acquire("preview")
	require.NoError(t, err)
	assert.NotSame(t, a, fresh)
	assert.Equal(t, float32(1000), fresh.Distance(), "a released camera starts over from the configured pose")
	assert.Equal(t, math.NewVec3Zero(), fresh.Target())
}

func TestAcquireRunsOutOfSlots(t *testing.T) {
	cs := newSystem(t, 2)
	_, err := cs.Acquire("one")
	require.NoError(t, err)
	_, err = cs.Acquire("two")
	require.NoError(t, err)

	_, err = cs.Acquire("three")
	assert.ErrorIs(t, err, ErrNoFreeCameraSlot)

	cs.Release("one")
	_, err = cs.Acquire("three")
	assert.NoError(t, err)
}

func TestReleaseUnknownIsNoop(t *testing.T) {
	cs := newSystem(t, 1)
	cs.Release("nobody")
	_, err := cs.Acquire("someone")
	assert.NoError(t, err)
}

func TestShutdown(t *testing.T) {
	cs := newSystem(t, 1)
	_, err := cs.Acquire("someone")
	require.NoError(t, err)

	require.NoError(t, cs.Shutdown())
	assert.Zero(t, cs.ReferenceCount("someone"))
	assert.NotNil(t, cs.GetDefault())
}
