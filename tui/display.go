package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthm-cable/perlinflow/game"
	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
)

// Display runs a bubbletea program and feeds it braille frames. Terminal
// resizes go through the debouncer like window resizes do.
type Display struct {
	game    *game.Game
	resize  *game.Debouncer
	program *tea.Program
	surface *renderer.BrailleSurface

	mu      sync.Mutex
	cols    int
	rows    int
	resized bool

	done chan struct{}
	err  error
}

// NewDisplay creates a terminal display with an initial cell size.
func NewDisplay(g *game.Game, resize *game.Debouncer, colors renderer.Colors, cols, rows int, opts ...tea.ProgramOption) *Display {
	d := &Display{
		game:    g,
		resize:  resize,
		surface: renderer.NewBrailleSurface(cols, rows),
		cols:    cols,
		rows:    rows,
		done:    make(chan struct{}),
	}

	m := newModel(colors)
	m.onResize = d.handleResize
	m.onTogglePause = func() { g.TogglePaused() }
	m.onToggleStick = func() { g.ToggleStickMode() }

	d.program = tea.NewProgram(m, opts...)
	return d
}

// ViewportFor maps a braille grid to a viewport: one device pixel per dot.
func ViewportFor(cols, rows int) systems.Viewport {
	return systems.Viewport{Width: float64(cols * 2), Height: float64(rows * 4), DPR: 1}
}

// Start runs the program in the background.
func (d *Display) Start() {
	go func() {
		_, err := d.program.Run()
		d.err = err
		close(d.done)
	}()
}

func (d *Display) handleResize(cols, rows int) {
	d.mu.Lock()
	if cols == d.cols && rows == d.rows {
		d.mu.Unlock()
		return
	}
	d.cols, d.rows = cols, rows
	d.resized = true
	d.mu.Unlock()

	d.resize.Trigger(ViewportFor(cols, rows))
}

func (d *Display) Viewport() systems.Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ViewportFor(d.cols, d.rows)
}

// Surface resizes the grid to the terminal and scales the current layout
// onto it, so frames drawn before a debounced resize lands still fit.
func (d *Display) Surface() renderer.Surface {
	d.mu.Lock()
	if d.resized {
		d.surface.Resize(d.cols, d.rows)
		d.resized = false
	}
	d.mu.Unlock()

	l := d.game.Status().Layout
	d.surface.FitTo(l.Width, l.Height)
	return d.surface
}

// Refresh hands the frame to the program. It returns false once the
// program has exited.
func (d *Display) Refresh(ctx context.Context) (bool, error) {
	select {
	case <-d.done:
		return false, d.err
	case <-ctx.Done():
		d.program.Quit()
		<-d.done
		return false, nil
	default:
	}

	d.program.Send(frameMsg{canvas: d.surface.String(), status: d.game.Status()})
	return true, nil
}

// Wait blocks until the program exits.
func (d *Display) Wait() error {
	<-d.done
	return d.err
}
