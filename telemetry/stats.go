package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/perlinflow/systems"
)

// FieldStats summarises the particle field and flow lattice at one tick.
type FieldStats struct {
	Tick      int64 `csv:"tick"`
	Particles int   `csv:"particles"`
	Points    int   `csv:"points"`
	Resizes   int   `csv:"resizes"`

	// Heading distribution of particles (radians)
	HeadingMean      float64 `csv:"heading_mean"`
	HeadingAlignment float64 `csv:"heading_alignment"` // mean resultant length in [0, 1]

	// Flow sample ratio distribution
	RatioMean float64 `csv:"ratio_mean"`
	RatioStd  float64 `csv:"ratio_std"`
	RatioP10  float64 `csv:"ratio_p10"`
	RatioP50  float64 `csv:"ratio_p50"`
	RatioP90  float64 `csv:"ratio_p90"`

	// Share of lattice points whose sticks are at the minimum length
	Saturated float64 `csv:"saturated"`
}

// HeadingStats returns the circular mean of the angles in [0, 2π) and the
// mean resultant length.
func HeadingStats(angles []float64) (mean, alignment float64) {
	if len(angles) == 0 {
		return 0, 0
	}
	mean = systems.NormalizeAngle(stat.CircularMean(angles, nil))

	var sx, sy float64
	for _, a := range angles {
		sx += math.Cos(a)
		sy += math.Sin(a)
	}
	alignment = math.Hypot(sx, sy) / float64(len(angles))
	return mean, alignment
}

// RatioStats returns mean, standard deviation and the 10th, 50th and 90th
// percentiles. values is sorted in place.
func RatioStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sort.Float64s(values)
	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	p10 = stat.Quantile(0.1, stat.Empirical, values, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, values, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	return mean, std, p10, p50, p90
}

// ComputeFieldStats summarises particles and samples.
func ComputeFieldStats(tick int64, particles []systems.Particle, samples []systems.FlowSample) FieldStats {
	s := FieldStats{
		Tick:      tick,
		Particles: len(particles),
		Points:    len(samples),
	}

	angles := make([]float64, len(particles))
	for i, p := range particles {
		angles[i] = p.Angle
	}
	s.HeadingMean, s.HeadingAlignment = HeadingStats(angles)

	ratios := make([]float64, len(samples))
	saturated := 0
	for i, fs := range samples {
		ratios[i] = fs.Ratio
		if fs.Ratio >= 1 {
			saturated++
		}
	}
	s.RatioMean, s.RatioStd, s.RatioP10, s.RatioP50, s.RatioP90 = RatioStats(ratios)
	if len(samples) > 0 {
		s.Saturated = float64(saturated) / float64(len(samples))
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FieldStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Tick),
		slog.Int("particles", s.Particles),
		slog.Int("points", s.Points),
		slog.Int("resizes", s.Resizes),
		slog.Float64("heading_mean", s.HeadingMean),
		slog.Float64("heading_alignment", s.HeadingAlignment),
		slog.Float64("ratio_mean", s.RatioMean),
		slog.Float64("ratio_p50", s.RatioP50),
		slog.Float64("saturated", s.Saturated),
	)
}

// LogStats logs the stats at info level.
func (s FieldStats) LogStats() {
	slog.Info("field", "stats", s)
}
