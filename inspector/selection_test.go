package inspector

import (
	"testing"

	"github.com/pthm-cable/perlinflow/systems"
)

func TestPickNearestWithinRadius(t *testing.T) {
	particles := []systems.Particle{{X: 10, Y: 10}, {X: 50, Y: 50}, {X: 54, Y: 50}}

	var s Selection
	if !s.Pick(particles, 53, 50, 100, 100, 5) {
		t.Fatal("expected a hit")
	}
	if i, ok := s.Selected(); !ok || i != 2 {
		t.Errorf("expected particle 2, got %d (%v)", i, ok)
	}
}

func TestPickMissKeepsSelection(t *testing.T) {
	particles := []systems.Particle{{X: 10, Y: 10}}

	var s Selection
	s.Pick(particles, 10, 10, 100, 100, 5)
	if s.Pick(particles, 70, 70, 100, 100, 5) {
		t.Fatal("expected a miss")
	}
	if i, ok := s.Selected(); !ok || i != 0 {
		t.Errorf("expected selection kept, got %d (%v)", i, ok)
	}
}

func TestPickAcrossWrap(t *testing.T) {
	particles := []systems.Particle{{X: 1, Y: 50}, {X: 90, Y: 50}}

	var s Selection
	if !s.Pick(particles, 98, 50, 100, 100, 5) {
		t.Fatal("expected wrapped hit")
	}
	if i, _ := s.Selected(); i != 0 {
		t.Errorf("expected particle 0 across the edge, got %d", i)
	}
}

func TestResolve(t *testing.T) {
	particles := []systems.Particle{{X: 12, Y: 9, Angle: 1}}
	samples := []systems.FlowSample{
		{X: 0, Y: 0, Ratio: 0.9},
		{X: 10, Y: 10, Ratio: 0.2},
		{X: 20, Y: 20, Ratio: 0.5},
	}

	var s Selection
	if _, ok := s.Resolve(particles, samples); ok {
		t.Fatal("expected no detail without a selection")
	}

	s.Pick(particles, 12, 9, 100, 100, 3)
	d, ok := s.Resolve(particles, samples)
	if !ok {
		t.Fatal("expected detail")
	}
	if d.Index != 0 || d.Particle.Angle != 1 {
		t.Errorf("unexpected particle %+v", d)
	}
	if !d.HasSample || d.Sample.Ratio != 0.2 {
		t.Errorf("expected nearest sample at (10,10), got %+v", d.Sample)
	}

	// Samples are recomputed lazily after a resize.
	d, ok = s.Resolve(particles, nil)
	if !ok || d.HasSample {
		t.Errorf("expected particle without sample, got %+v (%v)", d, ok)
	}
}

func TestResolveClearsStaleSlot(t *testing.T) {
	var s Selection
	s.Pick([]systems.Particle{{}, {X: 5}}, 5, 0, 10, 10, 1)

	if _, ok := s.Resolve([]systems.Particle{{}}, nil); ok {
		t.Fatal("expected stale slot to resolve to nothing")
	}
	if _, ok := s.Selected(); ok {
		t.Error("expected selection cleared")
	}
}
