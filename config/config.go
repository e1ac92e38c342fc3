// Package config provides configuration loading and access for the flow field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/perlinflow/palette"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig marks configuration values that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Stick sizing policies.
const (
	StickInterpolated = "interpolated"
	StickFixed        = "fixed"
)

// Nearest-neighbour locators.
const (
	LocatorBrute  = "brute"
	LocatorKDTree = "kdtree"
)

// Noise generators.
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
)

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Colors     ColorsConfig     `yaml:"colors"`
	Simulation SimulationConfig `yaml:"simulation"`
	Noise      NoiseConfig      `yaml:"noise"`
	Layout     LayoutConfig     `yaml:"layout"`
	Flow       FlowConfig       `yaml:"flow"`
	Resize     ResizeConfig     `yaml:"resize"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the desktop host.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	HighDPI   bool   `yaml:"high_dpi"`
}

// ColorsConfig is the host-provided colour payload.
type ColorsConfig struct {
	Background     string  `yaml:"background_color"` // #RRGGBB
	Particle       string  `yaml:"particle_color"`   // #RRGGBB
	StickIntensity float64 `yaml:"stick_intensity"`  // Stick colour = particle colour * this
}

// SimulationConfig holds particle motion parameters.
type SimulationConfig struct {
	ParticleCount  int     `yaml:"particle_count"`
	Speed          float64 `yaml:"speed"`            // Step length in particle sizes per tick
	Jitter         float64 `yaml:"jitter"`           // Half-width of the noise sampling jitter
	TimeScale      float64 `yaml:"time_scale"`       // Noise time = tick / time_scale
	TickIntervalMS int     `yaml:"tick_interval_ms"` // Delay between ticks (0 = no delay)
	Seed           int64   `yaml:"seed"`             // RNG seed for particles (0 = time-based)
}

// NoiseConfig selects and tunes the noise generator.
type NoiseConfig struct {
	Kind    string  `yaml:"kind"` // perlin | simplex
	Seed    int64   `yaml:"seed"` // 0 = time-based
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Octaves int     `yaml:"octaves"`
}

// LayoutConfig holds the two presentation profiles.
type LayoutConfig struct {
	Breakpoint float64       `yaml:"breakpoint"` // css px; narrower viewports use the compact profile
	Compact    ProfileConfig `yaml:"compact"`
	Expanded   ProfileConfig `yaml:"expanded"`
}

// ProfileConfig is one bundle of layout constants.
type ProfileConfig struct {
	ParticleSize float64 `yaml:"particle_size"`
	GridSize     float64 `yaml:"grid_size"` // Lattice columns across the viewport
}

// FlowConfig holds flow-indicator stick parameters.
type FlowConfig struct {
	StickMode         string  `yaml:"stick_mode"`     // interpolated | fixed
	FixedFraction     float64 `yaml:"fixed_fraction"` // Stick length / unit size in fixed mode
	RippleUnits       float64 `yaml:"ripple_units"`   // Ripple range in unit sizes
	MinStick          float64 `yaml:"min_stick"`      // Floor for interpolated sticks (px)
	LineWidth         float64 `yaml:"line_width"`
	Locator           string  `yaml:"locator"`            // brute | kdtree
	ParallelThreshold int     `yaml:"parallel_threshold"` // lattice points * particles before rows go parallel
}

// ResizeConfig holds resize handling parameters.
type ResizeConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow    int    `yaml:"perf_window"`    // Ticks averaged per perf sample
	StatsInterval int    `yaml:"stats_interval"` // Ticks between logged stats (0 = never)
	OutputDir     string `yaml:"output_dir"`     // CSV output directory (empty = disabled)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Background   color.RGBA
	Particle     color.RGBA
	Stick        color.RGBA
	TickInterval time.Duration
	Debounce     time.Duration
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults. Panics if they are broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Validate re-checks values and recomputes Derived after fields are edited in place.
func (c *Config) Validate() error {
	return c.computeDerived()
}

// computeDerived validates the loaded values and fills Derived.
func (c *Config) computeDerived() error {
	bg, err := palette.ParseHex(c.Colors.Background)
	if err != nil {
		return fmt.Errorf("%w: background_color: %w", ErrInvalidConfig, err)
	}
	fg, err := palette.ParseHex(c.Colors.Particle)
	if err != nil {
		return fmt.Errorf("%w: particle_color: %w", ErrInvalidConfig, err)
	}
	c.Derived.Background = bg
	c.Derived.Particle = fg
	c.Derived.Stick = palette.ScaleIntensity(fg, c.Colors.StickIntensity)

	switch c.Flow.StickMode {
	case StickInterpolated, StickFixed:
	default:
		return fmt.Errorf("%w: flow.stick_mode %q", ErrInvalidConfig, c.Flow.StickMode)
	}
	switch c.Flow.Locator {
	case LocatorBrute, LocatorKDTree:
	default:
		return fmt.Errorf("%w: flow.locator %q", ErrInvalidConfig, c.Flow.Locator)
	}
	switch c.Noise.Kind {
	case NoisePerlin, NoiseSimplex:
	default:
		return fmt.Errorf("%w: noise.kind %q", ErrInvalidConfig, c.Noise.Kind)
	}

	if c.Simulation.ParticleCount < 0 {
		return fmt.Errorf("%w: simulation.particle_count %d", ErrInvalidConfig, c.Simulation.ParticleCount)
	}
	if c.Simulation.TimeScale <= 0 {
		return fmt.Errorf("%w: simulation.time_scale must be positive", ErrInvalidConfig)
	}
	if c.Layout.Compact.GridSize <= 0 || c.Layout.Expanded.GridSize <= 0 {
		return fmt.Errorf("%w: layout grid_size must be positive", ErrInvalidConfig)
	}

	c.Derived.TickInterval = time.Duration(c.Simulation.TickIntervalMS) * time.Millisecond
	c.Derived.Debounce = time.Duration(c.Resize.DebounceMS) * time.Millisecond
	return nil
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
