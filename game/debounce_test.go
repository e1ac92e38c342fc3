package game

import (
	"sync"
	"testing"
	"time"

	"github.com/pthm-cable/perlinflow/systems"
)

type callRecorder struct {
	mu    sync.Mutex
	calls []systems.Viewport
}

func (r *callRecorder) record(vp systems.Viewport) {
	r.mu.Lock()
	r.calls = append(r.calls, vp)
	r.mu.Unlock()
}

func (r *callRecorder) snapshot() []systems.Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]systems.Viewport(nil), r.calls...)
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	rec := &callRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)
	defer d.Stop()

	for w := 100.0; w <= 500; w += 100 {
		d.Trigger(systems.Viewport{Width: w, Height: 100, DPR: 1})
	}
	if !d.Pending() {
		t.Error("expected a pending call")
	}

	time.Sleep(150 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Width != 500 {
		t.Errorf("expected the last viewport, got width %v", calls[0].Width)
	}
	if d.Pending() {
		t.Error("expected nothing pending after firing")
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	rec := &callRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger(systems.Viewport{Width: 1})
	time.Sleep(100 * time.Millisecond)
	d.Trigger(systems.Viewport{Width: 2})
	time.Sleep(100 * time.Millisecond)

	calls := rec.snapshot()
	if len(calls) != 2 || calls[0].Width != 1 || calls[1].Width != 2 {
		t.Errorf("expected two calls in order, got %+v", calls)
	}
}

func TestDebouncerTrailingEdge(t *testing.T) {
	rec := &callRecorder{}
	d := NewDebouncer(80*time.Millisecond, rec.record)
	defer d.Stop()

	d.Trigger(systems.Viewport{Width: 1})
	time.Sleep(20 * time.Millisecond)
	if n := len(rec.snapshot()); n != 0 {
		t.Fatalf("expected no call before the delay, got %d", n)
	}
	time.Sleep(200 * time.Millisecond)
	if n := len(rec.snapshot()); n != 1 {
		t.Fatalf("expected 1 call after the delay, got %d", n)
	}
}

func TestDebouncerZeroDelayIsSynchronous(t *testing.T) {
	rec := &callRecorder{}
	d := NewDebouncer(0, rec.record)

	d.Trigger(systems.Viewport{Width: 7})

	if calls := rec.snapshot(); len(calls) != 1 || calls[0].Width != 7 {
		t.Errorf("expected an immediate call, got %+v", calls)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	rec := &callRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger(systems.Viewport{Width: 1})
	d.Stop()
	d.Trigger(systems.Viewport{Width: 2})
	time.Sleep(80 * time.Millisecond)

	if n := len(rec.snapshot()); n != 0 {
		t.Errorf("expected no calls after Stop, got %d", n)
	}
}

func TestResizeDebouncerLogsRejectedViewport(t *testing.T) {
	g, err := New(testOptions(), systems.Viewport{Width: 800, Height: 600, DPR: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	d := ResizeDebouncer(g, 0)
	d.Trigger(systems.Viewport{Width: 0, Height: 0})

	if s := g.Status(); s.Resizes != 1 || s.Layout.Width != 800 {
		t.Errorf("rejected viewport changed the layout: %+v", s.Layout)
	}

	d.Trigger(systems.Viewport{Width: 500, Height: 400, DPR: 1})
	if s := g.Status(); s.Resizes != 2 || s.Layout.Width != 500 {
		t.Errorf("expected resize to 500 wide, got %+v", s.Layout)
	}
}
