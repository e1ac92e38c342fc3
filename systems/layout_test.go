package systems

import (
	"math"
	"testing"
)

func TestLayoutBreakpoint(t *testing.T) {
	p := DefaultLayoutPolicy

	below := p.Compute(Viewport{Width: 767, Height: 600, DPR: 1})
	at := p.Compute(Viewport{Width: 768, Height: 600, DPR: 1})

	if below.Profile != ProfileCompact {
		t.Errorf("expected compact at 767, got %s", below.Profile)
	}
	if at.Profile != ProfileExpanded {
		t.Errorf("expected expanded at 768, got %s", at.Profile)
	}
	if below.ParticleSize != 6.5 || below.GridSize != 15 {
		t.Errorf("unexpected compact constants %v/%v", below.ParticleSize, below.GridSize)
	}
	if at.ParticleSize != 3.5 || at.GridSize != 50 {
		t.Errorf("unexpected expanded constants %v/%v", at.ParticleSize, at.GridSize)
	}
}

func TestLayoutUsesLogicalWidthForProfile(t *testing.T) {
	// 700 css px at 2x is 1400 device px, still compact
	l := DefaultLayoutPolicy.Compute(Viewport{Width: 700, Height: 500, DPR: 2})
	if l.Profile != ProfileCompact {
		t.Errorf("expected compact, got %s", l.Profile)
	}
	if l.Width != 1400 || l.Height != 1000 {
		t.Errorf("expected 1400x1000 device px, got %vx%v", l.Width, l.Height)
	}
}

func TestLayoutGridCounts(t *testing.T) {
	l := DefaultLayoutPolicy.Compute(Viewport{Width: 1024, Height: 768, DPR: 1})

	if math.Abs(l.UnitSize-20.48) > 1e-12 {
		t.Errorf("expected unit size 20.48, got %v", l.UnitSize)
	}
	if l.VerticalGridCount != 50 {
		t.Errorf("expected 50 columns, got %d", l.VerticalGridCount)
	}
	if l.HorizontalGridCount != 38 { // ceil(768/20.48) = ceil(37.5)
		t.Errorf("expected 38 rows, got %d", l.HorizontalGridCount)
	}
	if l.ParticleCount != 150 {
		t.Errorf("expected 150 particles, got %d", l.ParticleCount)
	}
	if math.Abs(l.RippleRange-8*20.48) > 1e-9 {
		t.Errorf("expected ripple range %v, got %v", 8*20.48, l.RippleRange)
	}

	g := l.Geometry()
	if g.Rows != 38 || g.Cols != 50 || g.Points() != 1900 {
		t.Errorf("unexpected geometry %+v", g)
	}
}

func TestLayoutIsPure(t *testing.T) {
	vp := Viewport{Width: 1333, Height: 777, DPR: 1.5}
	a := ComputeLayout(vp, DefaultLayoutPolicy)
	for i := 0; i < 10; i++ {
		if b := DefaultLayoutPolicy.Compute(vp); b != a {
			t.Fatalf("call %d differs: %+v vs %+v", i, b, a)
		}
	}
}

func TestLayoutResizeScenario(t *testing.T) {
	big := DefaultLayoutPolicy.Compute(Viewport{Width: 1024, Height: 768, DPR: 1})
	small := DefaultLayoutPolicy.Compute(Viewport{Width: 400, Height: 300, DPR: 1})

	if big.Profile != ProfileExpanded || small.Profile != ProfileCompact {
		t.Fatalf("expected expanded -> compact, got %s -> %s", big.Profile, small.Profile)
	}
	if big.ParticleCount != small.ParticleCount {
		t.Errorf("particle count changed across resize: %d -> %d", big.ParticleCount, small.ParticleCount)
	}
	// 400/15 = 26.67 unit; cols = 15, rows = ceil(300/26.67) = 12
	if small.VerticalGridCount != 15 || small.HorizontalGridCount != 12 {
		t.Errorf("expected 12x15 lattice, got %dx%d", small.HorizontalGridCount, small.VerticalGridCount)
	}
}

func TestLayoutZeroViewport(t *testing.T) {
	l := DefaultLayoutPolicy.Compute(Viewport{})
	if l.HorizontalGridCount != 0 || l.VerticalGridCount != 0 {
		t.Errorf("expected empty lattice, got %dx%d", l.HorizontalGridCount, l.VerticalGridCount)
	}
}
