package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
)

// Display is the host a loop draws into.
type Display interface {
	// Viewport returns the current drawing area.
	Viewport() systems.Viewport
	// Surface returns the surface for the next frame.
	Surface() renderer.Surface
	// Refresh presents the frame and blocks until the host is ready for
	// another. It returns false once the host has closed.
	Refresh(ctx context.Context) (bool, error)
}

// Loop ticks a game on a fixed delay and hands each frame to a display.
type Loop struct {
	game     *Game
	interval atomic.Int64
}

// NewLoop creates a loop. An interval of zero ticks as fast as the display refreshes.
func NewLoop(g *Game, interval time.Duration) *Loop {
	l := &Loop{game: g}
	l.SetInterval(interval)
	return l
}

// SetInterval changes the delay before each tick. Safe to call while running.
func (l *Loop) SetInterval(d time.Duration) {
	l.interval.Store(int64(max(d, 0)))
}

// Interval returns the delay before each tick.
func (l *Loop) Interval() time.Duration {
	return time.Duration(l.interval.Load())
}

// Run waits, ticks and refreshes until ctx is cancelled or the display
// closes. Draw failures are logged and do not stop the loop.
func (l *Loop) Run(ctx context.Context, d Display) error {
	if d == nil {
		return ErrNoDisplay
	}

	for {
		if !l.wait(ctx) {
			return nil
		}

		if err := l.game.Tick(d.Surface()); err != nil {
			slog.Warn("draw failed", "error", err)
		}

		open, err := d.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh display: %w", err)
		}
		l.game.RecordFrame()
		if !open {
			slog.Info("display closed")
			return nil
		}
	}
}

// wait blocks for one interval. It returns false if ctx ends first.
func (l *Loop) wait(ctx context.Context) bool {
	interval := l.Interval()
	if interval <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
