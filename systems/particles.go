package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/perlinflow/components"
)

// Particle is a flat copy of one particle's state.
type Particle struct {
	X, Y  float64 `inspect:"label,fmt:%.1f"` // device pixels
	Angle float64 `inspect:"angle"`          // radians
}

// MotionParams holds the constants of particle motion.
type MotionParams struct {
	Speed     float64 // step length in particle sizes per tick
	Jitter    float64 // half-width of the uniform jitter on noise coordinates
	TimeScale float64 // noise time = tick / TimeScale
}

// DefaultMotion matches the shipped defaults.
var DefaultMotion = MotionParams{Speed: 3, Jitter: 0.1, TimeScale: 100}

// ParticleSet owns every particle and moves them through the noise field.
type ParticleSet struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Heading]
	filter *ecs.Filter2[components.Position, components.Heading]

	noise  *NoiseField
	rng    *rand.Rand
	motion MotionParams

	count    int
	snapshot []Particle
	scratch  []ecs.Entity
}

// NewParticleSet creates an empty particle set.
func NewParticleSet(noise *NoiseField, rng *rand.Rand, motion MotionParams) *ParticleSet {
	world := ecs.NewWorld()
	if motion.TimeScale <= 0 {
		motion.TimeScale = DefaultMotion.TimeScale
	}
	return &ParticleSet{
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Heading](world),
		filter: ecs.NewFilter2[components.Position, components.Heading](world),
		noise:  noise,
		rng:    rng,
		motion: motion,
	}
}

// Len returns the number of particles.
func (s *ParticleSet) Len() int {
	return s.count
}

// Regenerate replaces every particle with a fresh one placed uniformly in
// [0,width)x[0,height) with a heading in [0, 2π).
func (s *ParticleSet) Regenerate(width, height float64, count int) {
	// Collect first; the query must finish before entities are removed
	s.scratch = s.scratch[:0]
	query := s.filter.Query()
	for query.Next() {
		s.scratch = append(s.scratch, query.Entity())
	}
	for _, e := range s.scratch {
		s.mapper.Remove(e)
	}

	for i := 0; i < count; i++ {
		pos := components.Position{
			X: s.rng.Float64() * width,
			Y: s.rng.Float64() * height,
		}
		heading := components.Heading{Angle: s.rng.Float64() * twoPi}
		s.mapper.NewEntity(&pos, &heading)
	}
	s.count = count
}

// Advance moves every particle one tick along the noise field and wraps it
// around the screen edges. Each axis wraps on its own.
func (s *ParticleSet) Advance(width, height, particleSize float64, tick int) {
	if s.count < 1 {
		return
	}

	t := float64(tick) / s.motion.TimeScale
	step := s.motion.Speed * particleSize

	query := s.filter.Query()
	for query.Next() {
		pos, heading := query.Get()

		// Fresh jitter per particle per tick, otherwise particles sharing a
		// normalised position lock into the same heading
		jx := s.jitter()
		jy := s.jitter()
		angle := s.noise.AngleAt(pos.X/width+jx, pos.Y/height+jy, t)

		heading.Angle = angle
		pos.X += step * math.Cos(angle)
		pos.Y += step * math.Sin(angle)
		pos.X = wrapAxis(pos.X, width, particleSize)
		pos.Y = wrapAxis(pos.Y, height, particleSize)
	}
}

func (s *ParticleSet) jitter() float64 {
	if s.motion.Jitter == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.motion.Jitter
}

// wrapAxis teleports a coordinate that left [-margin, dim+margin] to the opposite edge.
func wrapAxis(v, dim, margin float64) float64 {
	if v < -margin {
		return dim + margin
	}
	if v > dim+margin {
		return -margin
	}
	return v
}

// Particles returns the particles in iteration order. The returned slice is
// reused by the next call.
func (s *ParticleSet) Particles() []Particle {
	s.snapshot = s.snapshot[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, heading := query.Get()
		s.snapshot = append(s.snapshot, Particle{X: pos.X, Y: pos.Y, Angle: heading.Angle})
	}
	return s.snapshot
}
