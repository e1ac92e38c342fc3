package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/perlinflow/systems"
)

func TestHeadingStatsAligned(t *testing.T) {
	mean, align := HeadingStats([]float64{1, 1, 1, 1})
	if math.Abs(mean-1) > 1e-9 {
		t.Errorf("expected mean 1, got %v", mean)
	}
	if math.Abs(align-1) > 1e-9 {
		t.Errorf("expected alignment 1, got %v", align)
	}
}

func TestHeadingStatsWrapsAroundZero(t *testing.T) {
	// Headings either side of zero average to zero, not π.
	mean, _ := HeadingStats([]float64{0.1, 2*math.Pi - 0.1})
	if math.Min(mean, 2*math.Pi-mean) > 1e-9 {
		t.Errorf("expected mean near 0, got %v", mean)
	}
}

func TestHeadingStatsOpposed(t *testing.T) {
	_, align := HeadingStats([]float64{0, math.Pi})
	if align > 1e-9 {
		t.Errorf("expected zero alignment for opposed headings, got %v", align)
	}
}

func TestHeadingStatsEmpty(t *testing.T) {
	mean, align := HeadingStats(nil)
	if mean != 0 || align != 0 {
		t.Errorf("expected zeros, got %v %v", mean, align)
	}
}

func TestRatioStats(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3, 6, 10, 8, 9, 7}
	mean, std, p10, p50, p90 := RatioStats(values)

	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("expected mean 5.5, got %v", mean)
	}
	if std <= 0 {
		t.Errorf("expected positive std, got %v", std)
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("unexpected percentiles %v %v %v", p10, p50, p90)
	}
	if !(p10 <= p50 && p50 <= p90) {
		t.Error("percentiles out of order")
	}
}

func TestRatioStatsSingleValue(t *testing.T) {
	mean, std, p10, p50, p90 := RatioStats([]float64{0.4})
	if mean != 0.4 || std != 0 || p10 != 0.4 || p50 != 0.4 || p90 != 0.4 {
		t.Errorf("unexpected stats %v %v %v %v %v", mean, std, p10, p50, p90)
	}
}

func TestComputeFieldStats(t *testing.T) {
	particles := []systems.Particle{{Angle: 0.5}, {Angle: 0.5}}
	samples := []systems.FlowSample{{Ratio: 0.2}, {Ratio: 1}, {Ratio: 1.5}, {Ratio: 0.3}}

	s := ComputeFieldStats(12, particles, samples)

	if s.Tick != 12 || s.Particles != 2 || s.Points != 4 {
		t.Errorf("unexpected counts %+v", s)
	}
	if math.Abs(s.HeadingMean-0.5) > 1e-9 {
		t.Errorf("expected heading mean 0.5, got %v", s.HeadingMean)
	}
	if s.Saturated != 0.5 {
		t.Errorf("expected half the sticks saturated, got %v", s.Saturated)
	}
}

func TestCollectorSchedule(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(5) {
		t.Error("flush due too early")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush at tick 10")
	}

	c.RecordResize()
	s := c.Flush(10, nil, nil)
	if s.Resizes != 1 {
		t.Errorf("expected 1 resize in window, got %d", s.Resizes)
	}
	if c.ShouldFlush(15) {
		t.Error("flush due before the next interval")
	}

	// Resize restarts the tick counter and the schedule with it.
	c.RecordResize()
	if c.ShouldFlush(3) {
		t.Error("flush due right after resize")
	}
	if !c.ShouldFlush(10) {
		t.Error("expected flush 10 ticks after resize")
	}
	if s := c.Flush(10, nil, nil); s.Resizes != 1 {
		t.Errorf("expected resize count reset per window, got %d", s.Resizes)
	}
}

func TestCollectorDisabled(t *testing.T) {
	c := NewCollector(0)
	if c.ShouldFlush(1_000_000) {
		t.Error("disabled collector should never flush")
	}
}
