package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/perlinflow/camera"
	"github.com/pthm-cable/perlinflow/game"
	"github.com/pthm-cable/perlinflow/inspector"
)

const (
	inspectorWidth = 240
	pickRadius     = 8 // screen units
)

var (
	colorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	colorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	colorHighlight   = rl.Color{R: 255, G: 255, B: 255, A: 200}
)

// InspectorPanel shows the particle under the last click and the flow at the
// lattice point nearest to it.
type InspectorPanel struct {
	r   *Renderer
	sel inspector.Selection
	x   int32
	y   int32
}

// NewInspectorPanel creates a panel anchored at (x, y).
func NewInspectorPanel(x, y int32) *InspectorPanel {
	return &InspectorPanel{r: NewRenderer(), x: x, y: y}
}

// SetPosition moves the panel.
func (p *InspectorPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// HandleInput selects on left click and clears on Escape.
func (p *InspectorPanel) HandleInput(s game.Snapshot, cam *camera.Camera, dpr float64) {
	if rl.IsKeyPressed(rl.KeyEscape) {
		p.sel.Clear()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	m := rl.GetMousePosition()
	if p.contains(m) {
		return
	}

	wx, wy := cam.ScreenToWorld(m.X, m.Y)
	radius := pickRadius / float64(cam.Zoom) * dpr
	p.sel.Pick(s.Particles, float64(wx)*dpr, float64(wy)*dpr, s.Layout.Width, s.Layout.Height, radius)
}

func (p *InspectorPanel) contains(m rl.Vector2) bool {
	_, ok := p.sel.Selected()
	return ok && m.X >= float32(p.x) && m.X <= float32(p.x+inspectorWidth) && m.Y >= float32(p.y)
}

// Draw highlights the selection and renders its fields.
func (p *InspectorPanel) Draw(s game.Snapshot, cam *camera.Camera, dpr float64) {
	d, ok := p.sel.Resolve(s.Particles, s.Samples)
	if !ok {
		return
	}

	sx, sy := cam.WorldToScreen(float32(d.Particle.X/dpr), float32(d.Particle.Y/dpr))
	radius := float32(s.Layout.ParticleSize/2/dpr)*cam.Zoom + 4
	rl.DrawCircleLines(int32(sx), int32(sy), radius, colorHighlight)

	fields := inspector.ExtractFields(d.Particle)
	var sampleFields []inspector.Field
	if d.HasSample {
		sampleFields = inspector.ExtractFields(d.Sample)
	}

	th := p.r.Theme
	height := th.Padding*3 + th.LineHeight*2 + p.fieldsHeight(fields) + p.fieldsHeight(sampleFields)
	if d.HasSample {
		height += th.LineHeight
	}
	p.r.DrawPanel(p.x, p.y, inspectorWidth, height)

	x := p.x + th.Padding
	y := p.y + th.Padding
	y = p.r.DrawSectionHeader(x, y, fmt.Sprintf("PARTICLE %d", d.Index))
	for _, f := range fields {
		y = p.drawField(x, y, f)
	}

	if d.HasSample {
		y += th.Padding
		y = p.r.DrawSectionHeader(x, y, "NEAREST FLOW")
		for _, f := range sampleFields {
			y = p.drawField(x, y, f)
		}
	}
}

func (p *InspectorPanel) fieldsHeight(fields []inspector.Field) int32 {
	var h int32
	for _, f := range fields {
		if f.Widget == inspector.WidgetAngle {
			h += angleSize + 4
		} else {
			h += p.r.Theme.LineHeight + 2
		}
	}
	return h
}

func (p *InspectorPanel) drawField(x, y int32, f inspector.Field) int32 {
	switch f.Widget {
	case inspector.WidgetBar:
		if v, ok := inspector.FloatValue(f.Value); ok {
			return p.r.DrawBar(x, y, f.Name, v/inspector.Max(f.Options)*100, inspectorWidth-2*p.r.Theme.Padding)
		}
	case inspector.WidgetAngle:
		if v, ok := inspector.FloatValue(f.Value); ok {
			return p.drawAngle(x, y, f.Name, v)
		}
	}
	return p.r.DrawLabelValue(x, y, f.Name, inspector.FormatValue(f.Value, f.Options["fmt"])) + 2
}

const angleSize = 32

// drawAngle renders a compass needle for a heading in radians.
func (p *InspectorPanel) drawAngle(x, y int32, name string, radians float64) int32 {
	th := p.r.Theme
	cx := x + th.LabelWidth + angleSize/2
	cy := y + angleSize/2

	rl.DrawText(name+":", x, cy-th.FontSize/2, th.FontSize, th.LabelColor)
	rl.DrawCircle(cx, cy, angleSize/2, colorAngleBg)
	rl.DrawCircleLines(cx, cy, angleSize/2, th.PanelBorder)

	needle := float64(angleSize/2 - 3)
	end := rl.NewVector2(
		float32(float64(cx)+needle*math.Cos(radians)),
		float32(float64(cy)+needle*math.Sin(radians)),
	)
	rl.DrawLineEx(rl.NewVector2(float32(cx), float32(cy)), end, 2, colorAngleNeedle)

	rl.DrawText(fmt.Sprintf("%.0f deg", radians*180/math.Pi), cx+angleSize/2+6, cy-th.FontSize/2, th.FontSize, th.ValueColor)
	return y + angleSize + 4
}
