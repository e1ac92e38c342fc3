package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one tick.
const (
	PhaseAdvance   = "advance"
	PhaseFlow      = "flow"
	PhaseRender    = "render"
	PhaseTelemetry = "telemetry"
)

var phaseOrder = []string{PhaseAdvance, PhaseFlow, PhaseRender, PhaseTelemetry}

// span is the time one tick spent in a named phase.
type span struct {
	phase string
	d     time.Duration
}

// tickRecord is one finished tick in the window.
type tickRecord struct {
	total time.Duration
	spans []span
}

// PerfCollector times tick phases over a rolling window of ticks.
//
// Window totals are kept incrementally: a tick is added to them when it is
// recorded and subtracted again when it falls out of the ring.
type PerfCollector struct {
	ring []tickRecord
	head int // next slot to overwrite
	n    int

	total      time.Duration
	phaseTotal map[string]time.Duration
	phaseTicks map[string]int

	// tick in progress
	started time.Time
	mark    time.Time
	phase   string
	spans   []span

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:       make([]tickRecord, windowSize),
		phaseTotal: make(map[string]time.Duration),
		phaseTicks: make(map[string]int),
	}
}

// Reset empties the window, e.g. after a resize changes the workload.
// A tick in progress is abandoned.
func (p *PerfCollector) Reset() {
	p.head, p.n = 0, 0
	p.total = 0
	clear(p.phaseTotal)
	clear(p.phaseTicks)
	p.phase = ""
	p.spans = p.spans[:0]
}

// oldest returns the ring slot of the oldest retained tick.
func (p *PerfCollector) oldest() int {
	return (p.head - p.n + len(p.ring)) % len(p.ring)
}

// Durations returns the recorded tick durations, oldest first.
func (p *PerfCollector) Durations() []time.Duration {
	out := make([]time.Duration, p.n)
	for i, at := 0, p.oldest(); i < p.n; i++ {
		out[i] = p.ring[(at+i)%len(p.ring)].total
	}
	return out
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.started = time.Now()
	p.phase = ""
	p.spans = p.spans[:0]
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.mark = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase == "" {
		return
	}
	d := now.Sub(p.mark)
	for i := range p.spans {
		if p.spans[i].phase == p.phase {
			p.spans[i].d += d
			p.phase = ""
			return
		}
	}
	p.spans = append(p.spans, span{p.phase, d})
	p.phase = ""
}

// EndTick closes the running phase and records the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	if p.n == len(p.ring) {
		p.evict(p.ring[p.head])
	} else {
		p.n++
	}

	// reuse the evicted slot's span slice
	rec := &p.ring[p.head]
	rec.total = now.Sub(p.started)
	rec.spans = append(rec.spans[:0], p.spans...)
	p.head = (p.head + 1) % len(p.ring)

	p.total += rec.total
	for _, s := range rec.spans {
		p.phaseTotal[s.phase] += s.d
		p.phaseTicks[s.phase]++
	}
}

func (p *PerfCollector) evict(rec tickRecord) {
	p.total -= rec.total
	for _, s := range rec.spans {
		p.phaseTotal[s.phase] -= s.d
		if p.phaseTicks[s.phase]--; p.phaseTicks[s.phase] == 0 {
			delete(p.phaseTicks, s.phase)
			delete(p.phaseTotal, s.phase)
		}
	}
}

// RecordFrame records the time since the previous display refresh.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase mean over every tick in the window, and its share of the mean tick.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Display hosts only.
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.phaseTotal)),
		PhasePct:      make(map[string]float64, len(p.phaseTotal)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.n == 0 {
		return s
	}

	at := p.oldest()
	s.MinTickDuration = p.ring[at].total
	for i := 0; i < p.n; i++ {
		d := p.ring[(at+i)%len(p.ring)].total
		s.MinTickDuration = min(s.MinTickDuration, d)
		s.MaxTickDuration = max(s.MaxTickDuration, d)
	}

	s.AvgTickDuration = p.total / time.Duration(p.n)
	for phase, sum := range p.phaseTotal {
		avg := sum / time.Duration(p.n)
		s.PhaseAvg[phase] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[phase] = 100 * float64(avg) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5+len(phaseOrder))
	attrs = append(attrs,
		slog.Duration("avg_tick", s.AvgTickDuration),
		slog.Duration("min_tick", s.MinTickDuration),
		slog.Duration("max_tick", s.MaxTickDuration),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	)
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the stats at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	AdvancePct   float64 `csv:"advance_pct"`
	FlowPct      float64 `csv:"flow_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		AdvancePct:   s.PhasePct[PhaseAdvance],
		FlowPct:      s.PhasePct[PhaseFlow],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
