package ui

import (
	"fmt"
	"image/color"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is what the control panel shows.
type ControlState struct {
	StickMode      string
	Paused         bool
	TickIntervalMS float32
	Background     color.RGBA
	Particle       color.RGBA
	Stick          color.RGBA
}

// ControlActions are the user's requests from one frame of the panel.
type ControlActions struct {
	ToggleStickMode bool
	TogglePause     bool
	TickIntervalMS  float32
}

// Changed reports whether anything was requested relative to state.
func (a ControlActions) Changed(state ControlState) bool {
	return a.ToggleStickMode || a.TogglePause || a.TickIntervalMS != state.TickIntervalMS
}

// MaxTickIntervalMS bounds the tick interval slider.
const MaxTickIntervalMS = 250

// ControlPanel renders the right-side control panel with raygui widgets.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlPanel creates a new control panel.
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlPanel) Contains(p rl.Vector2) bool {
	return c.IsVisible() &&
		p.X >= float32(c.x) && p.X <= float32(c.x+c.width) &&
		p.Y >= float32(c.y) && p.Y <= float32(c.y+c.Height())
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel's drawn height.
func (c *ControlPanel) Height() int32 {
	return 210
}

// Draw renders the panel and returns the requested actions.
func (c *ControlPanel) Draw(state ControlState) ControlActions {
	actions := ControlActions{TickIntervalMS: state.TickIntervalMS}
	if !c.visible {
		return actions
	}

	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := float32(c.x + pad)
	y := c.y + pad
	inner := float32(c.width - pad*2)

	y = r.DrawSectionHeader(c.x+pad, y, "Controls")

	stickLabel := fmt.Sprintf("Sticks: %s", state.StickMode)
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, stickLabel) {
		actions.ToggleStickMode = true
	}
	y += 30

	pauseLabel := "Pause"
	if state.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, pauseLabel) {
		actions.TogglePause = true
	}
	y += 34

	rl.DrawText(fmt.Sprintf("Tick interval: %.0f ms", state.TickIntervalMS), c.x+pad, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	actions.TickIntervalMS = gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: float32(y), Width: inner - 50, Height: 16},
		"0", fmt.Sprint(MaxTickIntervalMS),
		state.TickIntervalMS, 0, MaxTickIntervalMS,
	)
	y += 26

	y = r.DrawColorSwatch(c.x+pad, y, "background", state.Background)
	y = r.DrawColorSwatch(c.x+pad, y, "particle", state.Particle)
	r.DrawColorSwatch(c.x+pad, y, "stick", state.Stick)

	return actions
}

func msDuration(ms float32) time.Duration {
	return time.Duration(float64(ms) * float64(time.Millisecond))
}
