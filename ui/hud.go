package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/perlinflow/telemetry"
)

// HUDData holds the data shown in the heads-up display.
type HUDData struct {
	Title         string
	Tick          int
	Particles     int
	Rows, Cols    int
	Profile       string
	Width, Height float64
	UnitSize      float64
	StickMode     string
	Zoom          float32
	Paused        bool
	FPS           int32
	Perf          telemetry.PerfStats
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Lines returns the HUD text, one entry per line.
func (h *HUD) Lines(data HUDData) []string {
	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	return []string{
		data.Title,
		fmt.Sprintf("Particles: %d | Lattice: %dx%d | Unit: %.1fpx", data.Particles, data.Rows, data.Cols, data.UnitSize),
		fmt.Sprintf("Canvas: %.0fx%.0f (%s) | Sticks: %s | Zoom: %.2fx", data.Width, data.Height, data.Profile, data.StickMode, data.Zoom),
		fmt.Sprintf("Tick: %d | FPS: %d | Tick time: %s", data.Tick, data.FPS, data.Perf.AvgTickDuration.Round(time.Microsecond)),
		status,
	}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	lines := h.Lines(data)
	y := int32(10)
	for i, line := range lines {
		size, c := int32(16), rl.LightGray
		switch {
		case i == 0:
			size, c = 20, rl.White
		case i == len(lines)-1:
			c = rl.Yellow
		}
		rl.DrawText(line, 10, y, size, c)
		y += size + 4
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	r := p.renderer
	pad := r.Theme.Padding
	height := pad*2 + r.Theme.LineHeight*int32(len(phases)+2) + 2*int32(len(phases))
	r.DrawPanel(p.x, p.y, p.width, height)

	x, y := p.x+pad, p.y+pad
	y = r.DrawSectionHeader(x, y, "Tick Phases")
	y = r.DrawLabelValue(x, y, "avg", stats.AvgTickDuration.Round(time.Microsecond).String())
	for _, phase := range phases {
		y = r.DrawBar(x, y, phase, stats.PhasePct[phase], p.width-pad*2)
	}
}
