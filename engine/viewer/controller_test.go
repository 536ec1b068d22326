package viewer

import (
	"testing"

	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/spaghettifunk/j3dview/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keys map[core.KeyCode]bool

func (k keys) IsKeyDown(key core.KeyCode) bool { return k[key] }

func newController(t *testing.T) *Controller {
	t.Helper()
	camera, err := components.NewOrbitCamera(1000, 30, 45, math.NewVec3Zero())
	require.NoError(t, err)
	return NewController(camera, ControllerConfig{RotateSpeed: 1, ZoomSpeed: 5, PanSpeed: 1, ScrollSpeed: 50})
}

func TestControllerBindings(t *testing.T) {
	tests := []struct {
		name     string
		held     keys
		pitch    float32
		yaw      float32
		distance float32
		targetY  float32
	}{
		{"nothing", keys{}, 30, 45, 1000, 0},
		{"W pitches up", keys{core.KEY_W: true}, 31, 45, 1000, 0},
		{"S pitches down", keys{core.KEY_S: true}, 29, 45, 1000, 0},
		{"A yaws left", keys{core.KEY_A: true}, 30, 46, 1000, 0},
		{"D yaws right", keys{core.KEY_D: true}, 30, 44, 1000, 0},
		{"Q zooms in", keys{core.KEY_Q: true}, 30, 45, 995, 0},
		{"E zooms out", keys{core.KEY_E: true}, 30, 45, 1005, 0},
		{"Shift+Q raises target", keys{core.KEY_Q: true, core.KEY_SHIFT: true}, 30, 45, 1000, 1},
		{"Shift+E lowers target", keys{core.KEY_E: true, core.KEY_SHIFT: true}, 30, 45, 1000, -1},
		{"W and S cancel", keys{core.KEY_W: true, core.KEY_S: true}, 30, 45, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t)
			require.NoError(t, c.Update(tt.held))

			cam := c.Camera()
			assert.InDelta(t, tt.pitch, cam.Pitch(), 1e-4)
			assert.InDelta(t, tt.yaw, cam.Yaw(), 1e-4)
			assert.InDelta(t, tt.distance, cam.Distance(), 1e-3)
			assert.InDelta(t, tt.targetY, cam.Target().Y, 1e-4)
		})
	}
}

func TestControllerHeldKeyRepeatsEveryFrame(t *testing.T) {
	c := newController(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Update(keys{core.KEY_A: true}))
	}
	assert.InDelta(t, 55, c.Camera().Yaw(), 1e-3)
}

func TestControllerScroll(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.Scroll(2))
	assert.InDelta(t, 900, c.Camera().Distance(), 1e-3)
	require.NoError(t, c.Scroll(-1))
	assert.InDelta(t, 950, c.Camera().Distance(), 1e-3)
}

func TestControllerWithoutCamera(t *testing.T) {
	c := NewController(nil, ControllerConfig{RotateSpeed: 1})
	assert.NoError(t, c.Update(keys{core.KEY_W: true}))
	assert.NoError(t, c.Scroll(1))
}
