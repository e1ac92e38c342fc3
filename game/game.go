// Package game drives the flow field: it owns the shared state, ticks it on a
// timer and rebuilds it when the viewport changes.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/pthm-cable/perlinflow/config"
	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
	"github.com/pthm-cable/perlinflow/telemetry"
)

// ErrNoDisplay is returned when the loop is started without a display.
var ErrNoDisplay = errors.New("no display")

// ErrEmptyViewport is returned when a viewport has no drawable area.
var ErrEmptyViewport = errors.New("empty viewport")

// Options configures a Game.
type Options struct {
	Policy            systems.LayoutPolicy
	Motion            systems.MotionParams
	Noise             *systems.NoiseField
	Locator           systems.Locator
	ParallelThreshold int
	Stick             renderer.StickPolicy
	Colors            renderer.Colors
	Seed              int64 // particle RNG seed (0 = time based)

	PerfWindow    int
	StatsInterval int
	Output        *telemetry.OutputManager // optional CSV output
}

// OptionsFromConfig builds options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	noise, err := systems.NewNoiseField(systems.NoiseOptions{
		Kind:    cfg.Noise.Kind,
		Seed:    seedOrNow(cfg.Noise.Seed),
		Alpha:   cfg.Noise.Alpha,
		Beta:    cfg.Noise.Beta,
		Octaves: cfg.Noise.Octaves,
	})
	if err != nil {
		return Options{}, fmt.Errorf("noise: %w", err)
	}

	var locator systems.Locator
	switch cfg.Flow.Locator {
	case config.LocatorKDTree:
		locator = &systems.KDTreeLocator{}
	default:
		locator = &systems.BruteLocator{}
	}

	return Options{
		Policy: systems.LayoutPolicy{
			Breakpoint:    cfg.Layout.Breakpoint,
			Compact:       systems.ProfileSpec{ParticleSize: cfg.Layout.Compact.ParticleSize, GridSize: cfg.Layout.Compact.GridSize},
			Expanded:      systems.ProfileSpec{ParticleSize: cfg.Layout.Expanded.ParticleSize, GridSize: cfg.Layout.Expanded.GridSize},
			ParticleCount: cfg.Simulation.ParticleCount,
			RippleUnits:   cfg.Flow.RippleUnits,
		},
		Motion: systems.MotionParams{
			Speed:     cfg.Simulation.Speed,
			Jitter:    cfg.Simulation.Jitter,
			TimeScale: cfg.Simulation.TimeScale,
		},
		Noise:             noise,
		Locator:           locator,
		ParallelThreshold: cfg.Flow.ParallelThreshold,
		Stick: renderer.StickPolicy{
			Mode:          renderer.StickMode(cfg.Flow.StickMode),
			FixedFraction: cfg.Flow.FixedFraction,
			MinLength:     cfg.Flow.MinStick,
			LineWidth:     cfg.Flow.LineWidth,
		},
		Colors: renderer.Colors{
			Background: cfg.Derived.Background,
			Particle:   cfg.Derived.Particle,
			Stick:      cfg.Derived.Stick,
		},
		Seed:          cfg.Simulation.Seed,
		PerfWindow:    cfg.Telemetry.PerfWindow,
		StatsInterval: cfg.Telemetry.StatsInterval,
	}, nil
}

func seedOrNow(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// Game holds the layout, the particles and the tick counter behind one mutex.
// Resize and Tick never interleave.
type Game struct {
	mu sync.Mutex

	policy    systems.LayoutPolicy
	layout    systems.LayoutParameters
	particles *systems.ParticleSet
	flow      *systems.FlowGrid
	scene     *renderer.SceneRenderer
	colors    renderer.Colors
	samples   []systems.FlowSample

	tick    int
	resizes int
	paused  bool

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
}

// New creates a game laid out for the initial viewport.
func New(opts Options, vp systems.Viewport) (*Game, error) {
	if opts.Noise == nil {
		return nil, errors.New("game: nil noise field")
	}

	g := &Game{
		policy:    opts.Policy,
		particles: systems.NewParticleSet(opts.Noise, rand.New(rand.NewSource(seedOrNow(opts.Seed))), opts.Motion),
		flow:      systems.NewFlowGrid(opts.Locator, opts.ParallelThreshold),
		scene:     renderer.NewSceneRenderer(opts.Stick),
		colors:    opts.Colors,
		perf:      telemetry.NewPerfCollector(opts.PerfWindow),
		collector: telemetry.NewCollector(opts.StatsInterval),
		output:    opts.Output,
	}

	if err := g.Resize(vp); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// Resize recomputes the layout for vp, replaces every particle and restarts
// the tick counter.
func (g *Game) Resize(vp systems.Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrEmptyViewport, vp.Width, vp.Height)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.layout = systems.ComputeLayout(vp, g.policy)
	g.particles.Regenerate(g.layout.Width, g.layout.Height, g.layout.ParticleCount)
	g.samples = nil
	g.tick = 0
	g.resizes++
	g.perf.Reset()
	g.collector.RecordResize()

	slog.Info("canvas resized",
		"width", g.layout.Width,
		"height", g.layout.Height,
		"profile", g.layout.Profile,
		"rows", g.layout.HorizontalGridCount,
		"cols", g.layout.VerticalGridCount,
	)
	return nil
}

// Tick advances the particles, recomputes the flow lattice and draws a frame.
// When paused the last state is redrawn without advancing.
func (g *Game) Tick(s renderer.Surface) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.perf.StartTick()

	if !g.paused || g.samples == nil {
		if !g.paused {
			g.tick++
			g.perf.StartPhase(telemetry.PhaseAdvance)
			g.particles.Advance(g.layout.Width, g.layout.Height, g.layout.ParticleSize, g.tick)
		}
		g.perf.StartPhase(telemetry.PhaseFlow)
		g.samples = g.flow.Recompute(g.particles.Particles(), g.layout.Geometry())
	}

	g.perf.StartPhase(telemetry.PhaseRender)
	err := g.scene.Render(s, g.particles.Particles(), g.samples, g.layout, g.colors)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndTick()

	if err != nil {
		return fmt.Errorf("tick %d: %w", g.tick, err)
	}
	return nil
}

// flushTelemetry logs and writes stats when a window is due. Caller holds mu.
func (g *Game) flushTelemetry() {
	tick := int64(g.tick)
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.particles.Particles(), g.samples)
	perfStats := g.perf.Stats()
	stats.LogStats()
	perfStats.LogStats()

	if err := g.output.WriteField(stats); err != nil {
		slog.Error("failed to write field stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// RecordFrame records display refresh timing.
func (g *Game) RecordFrame() {
	g.mu.Lock()
	g.perf.RecordFrame()
	g.mu.Unlock()
}

// SetStickMode switches stick sizing.
func (g *Game) SetStickMode(mode renderer.StickMode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scene.SetStickMode(mode)
}

// ToggleStickMode flips between interpolated and fixed sticks.
func (g *Game) ToggleStickMode() renderer.StickMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	next := renderer.StickFixed
	if g.scene.Policy().Mode == renderer.StickFixed {
		next = renderer.StickInterpolated
	}
	_ = g.scene.SetStickMode(next)
	return next
}

// SetPaused freezes or resumes particle motion.
func (g *Game) SetPaused(paused bool) {
	g.mu.Lock()
	g.paused = paused
	g.mu.Unlock()
}

// TogglePaused flips the paused state and returns the new one.
func (g *Game) TogglePaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = !g.paused
	return g.paused
}

// Status is the scalar part of the game state.
type Status struct {
	Tick      int
	Resizes   int
	Paused    bool
	StickMode renderer.StickMode
	Layout    systems.LayoutParameters
	Perf      telemetry.PerfStats
}

// Snapshot is a consistent copy of the game state.
type Snapshot struct {
	Status
	Particles []systems.Particle
	Samples   []systems.FlowSample
}

// Status returns the current scalar state.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status()
}

func (g *Game) status() Status {
	return Status{
		Tick:      g.tick,
		Resizes:   g.resizes,
		Paused:    g.paused,
		StickMode: g.scene.Policy().Mode,
		Layout:    g.layout,
		Perf:      g.perf.Stats(),
	}
}

// Snapshot copies the current state including particles and flow samples.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		Status:    g.status(),
		Particles: append([]systems.Particle(nil), g.particles.Particles()...),
		Samples:   append([]systems.FlowSample(nil), g.samples...),
	}
}

// PerfDurations returns recent tick durations, oldest first.
func (g *Game) PerfDurations() []time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perf.Durations()
}

// Close stops the flow workers.
func (g *Game) Close() {
	g.flow.Close()
}
