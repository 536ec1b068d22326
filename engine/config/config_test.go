package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, float32(1000), cfg.Camera.Distance)
	assert.Equal(t, float32(30), cfg.Camera.Pitch)
	assert.Equal(t, float32(45), cfg.Camera.Yaw)
	assert.Equal(t, float32(45), cfg.Projection.FOV)
	assert.Len(t, cfg.Lights, 8)

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, math.MatrixLayoutColumnMajor, layout)

	sun := cfg.Lights[1].Light()
	assert.Equal(t, math.NewVec3(1, -0.868448, 0.239316), sun.Direction)
	assert.Equal(t, math.NewVec4(1, 1, 1, 1), sun.Color)
}

func TestLoadTOMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "viewer.toml", `
log_level = "debug"
matrix_layout = "row_major"

[camera]
distance = 250.0
target = [0.0, 50.0, 0.0]

[projection]
far = 5000.0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, float32(250), cfg.Camera.Distance)
	assert.Equal(t, math.NewVec3(0, 50, 0), cfg.Camera.TargetVec())
	assert.Equal(t, float32(5000), cfg.Projection.Far)
	// untouched keys keep their defaults
	assert.Equal(t, float32(30), cfg.Camera.Pitch)
	assert.Equal(t, float32(0.1), cfg.Projection.Near)
	assert.Len(t, cfg.Lights, 8)

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, math.MatrixLayoutRowMajor, layout)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelDebug, level)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "viewer.yaml", `
window:
  width: 640
  height: 480
lights:
  - slot: 0
    color: [1, 0, 0, 1]
    follow_camera: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(640), cfg.Window.Width)
	assert.Equal(t, "J3DUltra Test", cfg.Window.Title)
	require.Len(t, cfg.Lights, 1)
	assert.True(t, cfg.Lights[0].FollowCamera)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, cfg.Lights[0].Color)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "viewer.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"unknown extension", "viewer.ini", "x=1", ErrUnsupportedFormat},
		{"zero distance", "viewer.toml", "[camera]\ndistance = 0.0", ErrInvalidConfig},
		{"near beyond far", "viewer.toml", "[projection]\nnear = 10.0\nfar = 1.0", ErrInvalidConfig},
		{"fov", "viewer.yaml", "projection:\n  fov: 180", ErrInvalidConfig},
		{"layout", "viewer.toml", `matrix_layout = "diagonal"`, ErrInvalidConfig},
		{"log level", "viewer.toml", `log_level = "loud"`, ErrInvalidConfig},
		{"light slot", "viewer.yaml", "lights:\n  - slot: 8", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoadUnknownKey(t *testing.T) {
	_, err := Load(writeFile(t, "viewer.toml", "[camera]\nroll = 4.0"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	core.SetLogOutput(io.Discard)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(writeFile(t, "viewer.toml", "[camera]\ndistance = -1.0"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResolvePathExpandsHome(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := ResolvePath("~/.config/j3dview/viewer.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "j3dview", "viewer.toml"), path)

	require.NoError(t, os.MkdirAll(filepath.Join(home, "cfg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "cfg", "v.toml"), []byte("watch = false"), 0o644))
	cfg, err := Load("~/cfg/v.toml")
	require.NoError(t, err)
	assert.False(t, cfg.Watch)
}
