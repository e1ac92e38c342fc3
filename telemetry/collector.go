package telemetry

import "github.com/pthm-cable/perlinflow/systems"

// Collector decides when field stats are due and counts events between flushes.
type Collector struct {
	interval  int64
	lastFlush int64
	resizes   int
}

// NewCollector creates a collector flushing every interval ticks. An
// interval below 1 disables flushing.
func NewCollector(interval int) *Collector {
	return &Collector{interval: int64(interval)}
}

// RecordResize counts a layout change. Ticks restart from zero after a
// resize, so the flush schedule restarts too.
func (c *Collector) RecordResize() {
	c.resizes++
	c.lastFlush = 0
}

// ShouldFlush reports whether stats are due at tick.
func (c *Collector) ShouldFlush(tick int64) bool {
	if c.interval < 1 {
		return false
	}
	return tick-c.lastFlush >= c.interval
}

// Flush computes stats for the current state and starts a new window.
func (c *Collector) Flush(tick int64, particles []systems.Particle, samples []systems.FlowSample) FieldStats {
	s := ComputeFieldStats(tick, particles, samples)
	s.Resizes = c.resizes
	c.resizes = 0
	c.lastFlush = tick
	return s
}
