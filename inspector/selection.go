package inspector

import (
	"math"

	"github.com/pthm-cable/perlinflow/systems"
)

// Selection remembers one particle by index. Particle identity is its slot,
// so a regeneration on resize keeps the slot but not the particle.
type Selection struct {
	index int
	ok    bool
}

// Detail is everything shown for the selected particle.
type Detail struct {
	Index     int
	Particle  systems.Particle
	Sample    systems.FlowSample
	HasSample bool
}

// Pick selects the particle nearest (x, y) within radius, measuring across
// the wrap of a width x height canvas. A miss leaves the selection unchanged.
func (s *Selection) Pick(particles []systems.Particle, x, y, width, height, radius float64) bool {
	best, bestD := -1, radius*radius
	for i, p := range particles {
		dx := wrapDelta(p.X-x, width)
		dy := wrapDelta(p.Y-y, height)
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return false
	}
	s.index, s.ok = best, true
	return true
}

// Clear drops the selection.
func (s *Selection) Clear() { s.ok = false }

// Selected returns the selected slot.
func (s *Selection) Selected() (int, bool) { return s.index, s.ok }

// Resolve looks the selection up in the current frame. The selection is
// cleared if its slot no longer exists.
func (s *Selection) Resolve(particles []systems.Particle, samples []systems.FlowSample) (Detail, bool) {
	if !s.ok {
		return Detail{}, false
	}
	if s.index >= len(particles) {
		s.Clear()
		return Detail{}, false
	}

	d := Detail{Index: s.index, Particle: particles[s.index]}
	if i, ok := NearestSample(samples, d.Particle.X, d.Particle.Y); ok {
		d.Sample, d.HasSample = samples[i], true
	}
	return d, true
}

// NearestSample returns the lattice sample closest to (x, y).
func NearestSample(samples []systems.FlowSample, x, y float64) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i, s := range samples {
		dx, dy := s.X-x, s.Y-y
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

func wrapDelta(d, size float64) float64 {
	if size <= 0 {
		return d
	}
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}
