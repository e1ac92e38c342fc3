package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/perlinflow/systems"
)

// Debouncer coalesces bursts of viewport changes. Each Trigger restarts the
// delay; only the last viewport of a burst reaches fn, on the timer's goroutine.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(systems.Viewport)
	timer   *time.Timer
	pending systems.Viewport
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer. A delay of zero calls fn synchronously.
func NewDebouncer(delay time.Duration, fn func(systems.Viewport)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// ResizeDebouncer debounces Game.Resize, logging rejected viewports.
func ResizeDebouncer(g *Game, delay time.Duration) *Debouncer {
	return NewDebouncer(delay, func(vp systems.Viewport) {
		if err := g.Resize(vp); err != nil {
			logResizeError(vp, err)
		}
	})
}

// Trigger schedules fn(vp) after the delay, cancelling any pending call.
func (d *Debouncer) Trigger(vp systems.Viewport) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn(vp)
		return
	}

	d.pending = vp
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		// superseded by a later Trigger
		d.mu.Unlock()
		return
	}
	vp := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(vp)
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func logResizeError(vp systems.Viewport, err error) {
	slog.Warn("resize rejected", "width", vp.Width, "height", vp.Height, "error", err)
}
