package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/pthm-cable/perlinflow/game"
	"github.com/pthm-cable/perlinflow/telemetry"
)

// benchReport formats a summary table and a plot of tick durations.
func benchReport(s game.Status, durations []time.Duration, wall time.Duration) string {
	var b strings.Builder
	l := s.Layout

	fmt.Fprintf(&b, "canvas     %.0fx%.0f (%s)\n", l.Width, l.Height, l.Profile)
	fmt.Fprintf(&b, "lattice    %dx%d = %d points\n", l.HorizontalGridCount, l.VerticalGridCount, l.HorizontalGridCount*l.VerticalGridCount)
	fmt.Fprintf(&b, "particles  %d\n", l.ParticleCount)
	fmt.Fprintf(&b, "ticks      %d in %s\n", len(durations), wall.Round(time.Millisecond))
	fmt.Fprintf(&b, "avg        %s (min %s, max %s)\n",
		s.Perf.AvgTickDuration.Round(time.Microsecond),
		s.Perf.MinTickDuration.Round(time.Microsecond),
		s.Perf.MaxTickDuration.Round(time.Microsecond),
	)
	for _, phase := range []string{telemetry.PhaseAdvance, telemetry.PhaseFlow, telemetry.PhaseRender, telemetry.PhaseTelemetry} {
		fmt.Fprintf(&b, "  %-10s %5.1f%%\n", phase, s.Perf.PhasePct[phase])
	}

	if len(durations) > 1 {
		data := make([]float64, len(durations))
		for i, d := range durations {
			data[i] = float64(d.Microseconds())
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("tick duration (us)"),
		)
		b.WriteString("\n" + graph + "\n")
	}
	return b.String()
}
