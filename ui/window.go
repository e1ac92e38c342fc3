package ui

import (
	"context"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/perlinflow/camera"
	"github.com/pthm-cable/perlinflow/game"
	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
	"github.com/pthm-cable/perlinflow/telemetry"
)

// WindowOptions configures the raylib window.
type WindowOptions struct {
	Width, Height int
	Title         string
	TargetFPS     int
	Resizable     bool
	HighDPI       bool
}

// OpenWindow creates the raylib window. Call from the main goroutine with the
// OS thread locked; close it with rl.CloseWindow.
func OpenWindow(opts WindowOptions) {
	var flags uint32
	if opts.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if opts.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	if flags != 0 {
		rl.SetConfigFlags(flags)
	}
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	// Escape clears the inspector selection; Q quits.
	rl.SetExitKey(0)
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}
}

const controlsLegend = "[Space] Pause  [S] Sticks  [H] HUD  [C] Controls  [Wheel] Zoom  [RMB] Pan  [R] Reset view  [Click] Inspect  [F11] Fullscreen  [Q] Quit"

// WindowDisplay presents frames in the raylib window and feeds window
// resizes to a debouncer.
type WindowDisplay struct {
	game   *game.Game
	loop   *game.Loop
	resize *game.Debouncer
	title  string

	camera   *camera.Camera
	surface  *RaylibSurface
	hud      *HUD
	perf     *PerfPanel
	controls *ControlPanel
	inspect  *InspectorPanel
	colors   renderer.Colors
	showHUD  bool

	// last is read by the overlay while the game lock is held, so it is
	// refreshed outside Tick.
	last    game.Snapshot
	actions ControlActions
}

// NewWindowDisplay creates a display for an open window.
func NewWindowDisplay(g *game.Game, loop *game.Loop, resize *game.Debouncer, colors renderer.Colors, title string) *WindowDisplay {
	vp := ScreenViewport()
	cam := camera.New(float32(vp.Width), float32(vp.Height), float32(vp.Width), float32(vp.Height))
	d := &WindowDisplay{
		game:     g,
		loop:     loop,
		resize:   resize,
		title:    title,
		camera:   cam,
		surface:  NewRaylibSurface(cam),
		hud:      NewHUD(),
		perf:     NewPerfPanel(10, 130, 240),
		controls: NewControlPanel(0, 10, 220),
		inspect:  NewInspectorPanel(0, 0),
		colors:   colors,
		showHUD:  true,
		last:     g.Snapshot(),
	}
	d.actions.TickIntervalMS = d.tickIntervalMS()
	d.surface.Overlay = d.drawOverlay
	d.syncCanvas()
	return d
}

// Close releases GPU resources. Call before closing the window.
func (d *WindowDisplay) Close() {
	d.surface.Unload()
}

// Viewport returns the window size in screen units and its DPI scale.
func (d *WindowDisplay) Viewport() systems.Viewport { return ScreenViewport() }

// ScreenViewport reads the current window size. The window must be open.
func ScreenViewport() systems.Viewport {
	dpr := float64(rl.GetWindowScaleDPI().X)
	if dpr <= 0 {
		dpr = 1
	}
	return systems.Viewport{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
		DPR:    dpr,
	}
}

func (d *WindowDisplay) Surface() renderer.Surface { return d.surface }

// Refresh handles input and resize events. EndDrawing has already paced the
// frame to the target FPS.
func (d *WindowDisplay) Refresh(ctx context.Context) (bool, error) {
	if rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyQ) || ctx.Err() != nil {
		return false, nil
	}

	d.handleInput()
	d.applyActions()

	if rl.IsWindowResized() {
		d.resize.Trigger(d.Viewport())
	}

	d.last = d.game.Snapshot()
	d.syncCanvas()
	return true, nil
}

// syncCanvas matches the offscreen texture and camera to the current layout.
func (d *WindowDisplay) syncCanvas() {
	l := d.last.Layout
	dpr := d.Viewport().DPR
	d.surface.SetCanvasSize(int32(math.Ceil(l.Width)), int32(math.Ceil(l.Height)))
	d.camera.Resize(
		float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()),
		float32(l.Width/dpr), float32(l.Height/dpr),
	)
	d.controls.SetPosition(int32(rl.GetScreenWidth())-230, 10)
	d.inspect.SetPosition(int32(rl.GetScreenWidth())-inspectorWidth-10, int32(rl.GetScreenHeight())-260)
}

func (d *WindowDisplay) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		d.actions.TogglePause = true
	}
	if rl.IsKeyPressed(rl.KeyS) {
		d.actions.ToggleStickMode = true
	}
	if rl.IsKeyPressed(rl.KeyH) {
		d.showHUD = !d.showHUD
	}
	if rl.IsKeyPressed(rl.KeyC) {
		d.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		d.camera.Reset()
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		d.camera.ZoomAt(m.X, m.Y, float32(math.Pow(1.1, float64(wheel))))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		d.camera.Pan(-delta.X, -delta.Y)
	}
	if !d.controls.Contains(rl.GetMousePosition()) {
		d.inspect.HandleInput(d.last, d.camera, d.Viewport().DPR)
	}
}

func (d *WindowDisplay) applyActions() {
	a := d.actions
	if a.ToggleStickMode {
		d.game.ToggleStickMode()
	}
	if a.TogglePause {
		d.game.TogglePaused()
	}
	if a.TickIntervalMS != d.tickIntervalMS() {
		d.loop.SetInterval(msDuration(a.TickIntervalMS))
	}
	d.actions = ControlActions{TickIntervalMS: d.tickIntervalMS()}
}

func (d *WindowDisplay) tickIntervalMS() float32 {
	return float32(d.loop.Interval().Milliseconds())
}

// drawOverlay runs inside the frame, after the scene.
func (d *WindowDisplay) drawOverlay() {
	if !d.showHUD {
		return
	}
	s := d.last
	d.inspect.Draw(s, d.camera, d.Viewport().DPR)
	d.hud.Draw(HUDData{
		Title:     d.title,
		Tick:      s.Tick,
		Particles: len(s.Particles),
		Rows:      s.Layout.HorizontalGridCount,
		Cols:      s.Layout.VerticalGridCount,
		Profile:   string(s.Layout.Profile),
		Width:     s.Layout.Width,
		Height:    s.Layout.Height,
		UnitSize:  s.Layout.UnitSize,
		StickMode: string(s.StickMode),
		Zoom:      d.camera.Zoom,
		Paused:    s.Paused,
		FPS:       rl.GetFPS(),
		Perf:      s.Perf,
	})
	d.perf.Draw(s.Perf, []string{telemetry.PhaseAdvance, telemetry.PhaseFlow, telemetry.PhaseRender})
	d.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	requested := d.controls.Draw(ControlState{
		StickMode:      string(s.StickMode),
		Paused:         s.Paused,
		TickIntervalMS: d.tickIntervalMS(),
		Background:     d.colors.Background,
		Particle:       d.colors.Particle,
		Stick:          d.colors.Stick,
	})
	d.actions.ToggleStickMode = d.actions.ToggleStickMode || requested.ToggleStickMode
	d.actions.TogglePause = d.actions.TogglePause || requested.TogglePause
	d.actions.TickIntervalMS = requested.TickIntervalMS
}
