package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/j3dview/engine/core"
	"github.com/spaghettifunk/j3dview/engine/math"
	"github.com/spaghettifunk/j3dview/engine/renderer"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the viewer looks for its configuration when none is given.
const DefaultPath = "~/.config/j3dview/viewer.toml"

var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalidConfig     = errors.New("invalid config")
)

type Config struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// column_major (glm/OpenGL) or row_major.
	MatrixLayout string `toml:"matrix_layout" yaml:"matrix_layout"`
	// Reload the model when its file changes on disk.
	Watch      bool             `toml:"watch" yaml:"watch"`
	ClearColor [4]float32       `toml:"clear_color" yaml:"clear_color"`
	Window     WindowConfig     `toml:"window" yaml:"window"`
	Camera     CameraConfig     `toml:"camera" yaml:"camera"`
	Projection ProjectionConfig `toml:"projection" yaml:"projection"`
	Animation  AnimationConfig  `toml:"animation" yaml:"animation"`
	Lights     []LightConfig    `toml:"lights" yaml:"lights"`
}

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	X      uint32 `toml:"x" yaml:"x"`
	Y      uint32 `toml:"y" yaml:"y"`
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
}

type CameraConfig struct {
	Distance float32    `toml:"distance" yaml:"distance"`
	Pitch    float32    `toml:"pitch" yaml:"pitch"`
	Yaw      float32    `toml:"yaw" yaml:"yaw"`
	Target   [3]float32 `toml:"target" yaml:"target"`
	// Degrees per frame while a rotate key is held.
	RotateSpeed float32 `toml:"rotate_speed" yaml:"rotate_speed"`
	// Distance per frame while a zoom key is held.
	ZoomSpeed float32 `toml:"zoom_speed" yaml:"zoom_speed"`
	// Target units per frame while Shift and a zoom key are held.
	PanSpeed float32 `toml:"pan_speed" yaml:"pan_speed"`
	// Distance per mouse wheel notch.
	ScrollSpeed float32 `toml:"scroll_speed" yaml:"scroll_speed"`
}

type ProjectionConfig struct {
	FOV  float32 `toml:"fov" yaml:"fov"`
	Near float32 `toml:"near" yaml:"near"`
	Far  float32 `toml:"far" yaml:"far"`
}

type AnimationConfig struct {
	FrameRate float32 `toml:"frame_rate" yaml:"frame_rate"`
	Loop      bool    `toml:"loop" yaml:"loop"`
}

type LightConfig struct {
	Slot         int        `toml:"slot" yaml:"slot"`
	Position     [3]float32 `toml:"position" yaml:"position"`
	Direction    [3]float32 `toml:"direction" yaml:"direction"`
	Color        [4]float32 `toml:"color" yaml:"color"`
	AngleAtten   [3]float32 `toml:"angle_atten" yaml:"angle_atten"`
	DistAtten    [3]float32 `toml:"dist_atten" yaml:"dist_atten"`
	FollowCamera bool       `toml:"follow_camera" yaml:"follow_camera"`
}

// Default returns the configuration the viewer runs with when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		MatrixLayout: math.MatrixLayoutColumnMajor.String(),
		Watch:        true,
		ClearColor:   [4]float32{0.25, 0.3, 0.4, 1.0},
		Window: WindowConfig{
			Title:  "J3DUltra Test",
			X:      100,
			Y:      100,
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			Distance:    1000,
			Pitch:       30,
			Yaw:         45,
			RotateSpeed: 1,
			ZoomSpeed:   5,
			PanSpeed:    1,
			ScrollSpeed: 50,
		},
		Projection: ProjectionConfig{
			FOV:  45,
			Near: 0.1,
			Far:  100000,
		},
		Animation: AnimationConfig{
			FrameRate: 30,
			Loop:      true,
		},
		Lights: DefaultLights(),
	}
}

// DefaultLights is a white light in every slot plus one directional light in slot 1.
func DefaultLights() []LightConfig {
	lights := make([]LightConfig, 0, renderer.MaxLights)
	for slot := 0; slot < renderer.MaxLights; slot++ {
		l := LightConfig{
			Slot:       slot,
			Color:      [4]float32{1, 1, 1, 1},
			AngleAtten: [3]float32{1, 1, 1},
			DistAtten:  [3]float32{1, 1, 1},
		}
		if slot == 1 {
			l.Direction = [3]float32{1, -0.868448, 0.239316}
		}
		lights = append(lights, l)
	}
	return lights
}

// ResolvePath expands a leading ~ to the user's home directory.
func ResolvePath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Clean(expanded), nil
}

// Load reads a TOML or YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", resolved, err)
	}

	cfg := Default()
	cfg.Lights = nil
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, resolved)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", resolved, err)
	}
	if len(cfg.Lights) == 0 {
		cfg.Lights = DefaultLights()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", resolved, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogInfo("No config at %s, using defaults.", path)
		return Default(), nil
	}
	return cfg, err
}

// Validate checks every value the viewer would otherwise choke on at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width == 0 || c.Window.Height == 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if !math.IsFinite(c.Camera.Distance) || c.Camera.Distance <= 0 {
		errs = append(errs, fmt.Errorf("camera distance must be positive, got %v", c.Camera.Distance))
	}
	if !math.IsFinite(c.Camera.Pitch) || !math.IsFinite(c.Camera.Yaw) || !c.Camera.TargetVec().IsFinite() {
		errs = append(errs, errors.New("camera pose must be finite"))
	}
	if c.Projection.FOV <= 0 || c.Projection.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov must be in (0, 180), got %v", c.Projection.FOV))
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("clip planes must satisfy 0 < near < far, got near=%v far=%v", c.Projection.Near, c.Projection.Far))
	}
	if c.Animation.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("animation frame rate must not be negative, got %v", c.Animation.FrameRate))
	}
	if _, err := c.Layout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Lights) > renderer.MaxLights {
		errs = append(errs, fmt.Errorf("at most %d lights, got %d", renderer.MaxLights, len(c.Lights)))
	}
	for _, l := range c.Lights {
		if l.Slot < 0 || l.Slot >= renderer.MaxLights {
			errs = append(errs, fmt.Errorf("light slot %d out of range", l.Slot))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *Config) Layout() (math.MatrixLayout, error) {
	return math.ParseMatrixLayout(c.MatrixLayout)
}

func (c *Config) Level() (core.LogLevel, error) {
	return core.ParseLogLevel(c.LogLevel)
}

func (c CameraConfig) TargetVec() math.Vec3 {
	return math.NewVec3FromSlice(c.Target[:])
}

// Light converts the entry to what the render engine takes.
func (l LightConfig) Light() renderer.Light {
	return renderer.Light{
		Position:     math.NewVec3FromSlice(l.Position[:]),
		Direction:    math.NewVec3FromSlice(l.Direction[:]),
		Color:        math.NewVec4FromSlice(l.Color[:]),
		AngleAtten:   math.NewVec3FromSlice(l.AngleAtten[:]),
		DistAtten:    math.NewVec3FromSlice(l.DistAtten[:]),
		FollowCamera: l.FollowCamera,
	}
}
