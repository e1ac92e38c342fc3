package systems

import (
	"math"
)

// GridGeometry describes the lattice of flow-indicator sample points.
type GridGeometry struct {
	UnitSize    float64 // spacing between lattice points
	Rows        int     // horizontal grid count
	Cols        int     // vertical grid count
	RippleRange float64 // distance sum at which sticks shrink to their floor
}

// Points returns the number of lattice points.
func (g GridGeometry) Points() int {
	return g.Rows * g.Cols
}

// FlowSample is the interpolated flow at one lattice point.
type FlowSample struct {
	X, Y  float64 `inspect:"label,fmt:%.1f"`
	Angle float64 `inspect:"angle"`
	Ratio float64 `inspect:"bar,max:1"` // (d0+d1) / RippleRange
}

// Locator finds the two particles nearest to a point.
// Nearest2 must be safe to call concurrently after Prepare returns.
type Locator interface {
	Prepare(particles []Particle)
	Nearest2(x, y float64) (i0, i1 int, d0, d1 float64)
}

// FlowGrid recomputes the flow angle at every lattice point each tick.
type FlowGrid struct {
	locator           Locator
	parallelThreshold int
	pool              *rowPool
	samples           []FlowSample
}

// NewFlowGrid creates a flow grid. Rows are computed in parallel once
// lattice points * particles exceeds parallelThreshold (0 = never).
func NewFlowGrid(locator Locator, parallelThreshold int) *FlowGrid {
	if locator == nil {
		locator = &BruteLocator{}
	}
	return &FlowGrid{
		locator:           locator,
		parallelThreshold: parallelThreshold,
	}
}

// Recompute returns one sample per lattice point in row-major order.
// The returned slice is reused by the next call.
func (g *FlowGrid) Recompute(particles []Particle, geom GridGeometry) []FlowSample {
	n := geom.Points()
	if n <= 0 {
		g.samples = g.samples[:0]
		return g.samples
	}
	if cap(g.samples) < n {
		g.samples = make([]FlowSample, n)
	}
	g.samples = g.samples[:n]

	g.locator.Prepare(particles)

	computeRow := func(row int) {
		y := float64(row) * geom.UnitSize
		base := row * geom.Cols
		for col := 0; col < geom.Cols; col++ {
			x := float64(col) * geom.UnitSize
			g.samples[base+col] = g.sampleAt(particles, x, y, geom.RippleRange)
		}
	}

	if g.parallelThreshold > 0 && n*len(particles) > g.parallelThreshold && geom.Rows > 1 {
		if g.pool == nil {
			g.pool = newRowPool()
		}
		g.pool.run(geom.Rows, computeRow)
	} else {
		for row := 0; row < geom.Rows; row++ {
			computeRow(row)
		}
	}
	return g.samples
}

// sampleAt blends the angles of the two nearest particles, weighting each by
// the other's distance so the nearer one dominates.
func (g *FlowGrid) sampleAt(particles []Particle, x, y, ripple float64) FlowSample {
	s := FlowSample{X: x, Y: y, Ratio: 1}
	if len(particles) == 0 {
		return s
	}

	i0, i1, d0, d1 := g.locator.Nearest2(x, y)
	total := d0 + d1
	if total > 0 {
		w0 := d1 / total
		w1 := 1 - w0
		s.Angle = particles[i0].Angle*w0 + particles[i1].Angle*w1
	}
	if ripple > 0 {
		s.Ratio = total / ripple
	} else {
		s.Ratio = 0
	}
	return s
}

// Close stops the worker pool, if one was started.
func (g *FlowGrid) Close() {
	if g.pool != nil {
		g.pool.stop()
		g.pool = nil
	}
}

// BruteLocator scans every particle for every query.
type BruteLocator struct {
	particles []Particle
}

// Prepare records the particles to scan.
func (l *BruteLocator) Prepare(particles []Particle) {
	l.particles = particles
}

// Nearest2 returns the two nearest particles. Ties keep the first one seen.
// With a single particle both results refer to it.
func (l *BruteLocator) Nearest2(x, y float64) (i0, i1 int, d0, d1 float64) {
	i0, i1 = -1, -1
	d0, d1 = math.MaxFloat64, math.MaxFloat64

	for i := range l.particles {
		p := &l.particles[i]
		dist := math.Hypot(p.X-x, p.Y-y)

		if dist < d0 {
			i1, d1 = i0, d0
			i0, d0 = i, dist
		} else if dist < d1 {
			i1, d1 = i, dist
		}
	}

	if i1 < 0 {
		i1, d1 = i0, d0
	}
	return i0, i1, d0, d1
}
