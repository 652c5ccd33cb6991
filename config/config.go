// Package config provides configuration loading and access for the renderer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen" toml:"screen"`
	Camera    CameraConfig    `yaml:"camera" toml:"camera"`
	Particles ParticlesConfig `yaml:"particles" toml:"particles"`
	Spawn     SpawnConfig     `yaml:"spawn" toml:"spawn"`
	World     WorldConfig     `yaml:"world" toml:"world"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
	Headless  HeadlessConfig  `yaml:"headless" toml:"headless"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	TargetFPS int    `yaml:"target_fps" toml:"target_fps"` // 0 = uncapped
	Title     string `yaml:"title" toml:"title"`
}

// CameraConfig holds the initial orthographic view.
type CameraConfig struct {
	Width        float64 `yaml:"width" toml:"width"`                 // Visible world units horizontally
	Height       float64 `yaml:"height" toml:"height"`               // Visible world units vertically
	ZoomStep     float64 `yaml:"zoom_step" toml:"zoom_step"`         // World units added/removed per wheel notch
	ZoomDuration float64 `yaml:"zoom_duration" toml:"zoom_duration"` // Seconds to ease between zoom levels (0 = instant)
}

// ParticlesConfig holds particle store and motion parameters.
type ParticlesConfig struct {
	Max          int     `yaml:"max" toml:"max"`                       // Hard store capacity
	Speed        float64 `yaml:"speed" toml:"speed"`                   // World units per second along a direction
	QuadHalfSize float64 `yaml:"quad_half_size" toml:"quad_half_size"` // Half extent of the rendered quad
}

// SpawnConfig holds spawner parameters.
type SpawnConfig struct {
	Interval     float64 `yaml:"interval" toml:"interval"`           // Minimum seconds between batches
	NormalizeFan bool    `yaml:"normalize_fan" toml:"normalize_fan"` // Normalize fan-out table to unit length
}

// WorldConfig holds the reflecting boundary, centered at the origin.
type WorldConfig struct {
	HalfWidth  float64 `yaml:"half_width" toml:"half_width"`
	HalfHeight float64 `yaml:"half_height" toml:"half_height"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window" toml:"stats_window"`     // Seconds per stats window
	TitleInterval float64 `yaml:"title_interval" toml:"title_interval"` // Seconds between window title refreshes
	PerfWindow    int     `yaml:"perf_window" toml:"perf_window"`       // Frames averaged by the perf collector
}

// HeadlessConfig holds parameters for runs without a window.
type HeadlessConfig struct {
	DT      float64 `yaml:"dt" toml:"dt"`             // Fixed frame delta in seconds
	CursorX float64 `yaml:"cursor_x" toml:"cursor_x"` // Scripted cursor, screen pixels
	CursorY float64 `yaml:"cursor_y" toml:"cursor_y"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Speed32        float32 // Particles.Speed as float32
	Interval32     float32 // Spawn.Interval as float32
	HalfWidth32    float32 // World.HalfWidth as float32
	HalfHeight32   float32 // World.HalfHeight as float32
	QuadHalfSize32 float32 // Particles.QuadHalfSize as float32
	HeadlessDT32   float32 // Headless.DT as float32
	ScreenW32      float32 // Screen.Width as float32
	ScreenH32      float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// The format is chosen by file extension. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Decode into the same struct so only fields present in the file are overwritten
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Particles.Max <= 0:
		return fmt.Errorf("particles.max must be positive, got %d", c.Particles.Max)
	case c.Particles.Speed < 0:
		return fmt.Errorf("particles.speed must not be negative, got %g", c.Particles.Speed)
	case c.Spawn.Interval < 0:
		return fmt.Errorf("spawn.interval must not be negative, got %g", c.Spawn.Interval)
	case c.World.HalfWidth <= 0 || c.World.HalfHeight <= 0:
		return fmt.Errorf("world half extents must be positive, got %gx%g", c.World.HalfWidth, c.World.HalfHeight)
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return fmt.Errorf("camera extents must be positive, got %gx%g", c.Camera.Width, c.Camera.Height)
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Speed32 = float32(c.Particles.Speed)
	c.Derived.Interval32 = float32(c.Spawn.Interval)
	c.Derived.HalfWidth32 = float32(c.World.HalfWidth)
	c.Derived.HalfHeight32 = float32(c.World.HalfHeight)
	c.Derived.QuadHalfSize32 = float32(c.Particles.QuadHalfSize)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Headless delta defaults to one 60 Hz frame
	if c.Headless.DT <= 0 {
		c.Headless.DT = 1.0 / 60.0
	}
	c.Derived.HeadlessDT32 = float32(c.Headless.DT)

	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
