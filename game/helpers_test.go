package game

import (
	"context"
	"image/color"
	"sync"

	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
)

// countingSurface counts the primitives of each frame.
type countingSurface struct {
	mu      sync.Mutex
	frames  int
	lines   int
	circles int
	depth   int
	endErr  error
}

func (s *countingSurface) BeginFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines, s.circles = 0, 0
}
func (s *countingSurface) Fill(color.RGBA)        {}
func (s *countingSurface) Push()                  { s.depth++ }
func (s *countingSurface) Pop()                   { s.depth-- }
func (s *countingSurface) Translate(x, y float64) {}
func (s *countingSurface) Rotate(float64)         {}
func (s *countingSurface) StrokeLine(float64, float64, color.RGBA) {
	s.mu.Lock()
	s.lines++
	s.mu.Unlock()
}
func (s *countingSurface) FillCircle(float64, color.RGBA) {
	s.mu.Lock()
	s.circles++
	s.mu.Unlock()
}
func (s *countingSurface) EndFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	return s.endErr
}

func (s *countingSurface) counts() (frames, lines, circles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames, s.lines, s.circles
}

// scriptedDisplay closes after limit refreshes and runs onRefresh before each.
type scriptedDisplay struct {
	vp        systems.Viewport
	surface   renderer.Surface
	limit     int
	refreshes int
	onRefresh func(n int)
}

func (d *scriptedDisplay) Viewport() systems.Viewport { return d.vp }
func (d *scriptedDisplay) Surface() renderer.Surface  { return d.surface }
func (d *scriptedDisplay) Refresh(ctx context.Context) (bool, error) {
	d.refreshes++
	if d.onRefresh != nil {
		d.onRefresh(d.refreshes)
	}
	return d.limit <= 0 || d.refreshes < d.limit, nil
}

func testOptions() Options {
	noise, err := systems.NewNoiseField(systems.NoiseOptions{Kind: "perlin", Seed: 7, Alpha: 2, Beta: 2, Octaves: 3})
	if err != nil {
		panic(err)
	}
	return Options{
		Policy:  systems.DefaultLayoutPolicy,
		Motion:  systems.DefaultMotion,
		Noise:   noise,
		Locator: &systems.BruteLocator{},
		Stick:   renderer.DefaultStickPolicy,
		Colors: renderer.Colors{
			Background: color.RGBA{16, 20, 24, 255},
			Particle:   color.RGBA{240, 198, 116, 255},
			Stick:      color.RGBA{120, 99, 58, 255},
		},
		Seed:       42,
		PerfWindow: 10,
	}
}
