// Noise preview tool - interactive view of the heading field with sliders.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/perlinflow/config"
	"github.com/pthm-cable/perlinflow/palette"
	"github.com/pthm-cable/perlinflow/systems"
	"github.com/pthm-cable/perlinflow/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
	arrowCells   = 16
)

// previewParams holds the tunable noise parameters.
type previewParams struct {
	Simplex   bool
	Alpha     float32
	Beta      float32
	Octaves   int
	Seed      int64
	TimeScale float32
}

func defaultParams() previewParams {
	cfg := config.Default()
	return previewParams{
		Simplex:   cfg.Noise.Kind == config.NoiseSimplex,
		Alpha:     float32(cfg.Noise.Alpha),
		Beta:      float32(cfg.Noise.Beta),
		Octaves:   cfg.Noise.Octaves,
		Seed:      12345,
		TimeScale: float32(cfg.Simulation.TimeScale),
	}
}

func (p previewParams) kind() string {
	if p.Simplex {
		return config.NoiseSimplex
	}
	return config.NoisePerlin
}

func (p previewParams) field() (*systems.NoiseField, error) {
	return systems.NewNoiseField(systems.NoiseOptions{
		Kind:    p.kind(),
		Seed:    p.Seed,
		Alpha:   float64(p.Alpha),
		Beta:    float64(p.Beta),
		Octaves: p.Octaves,
	})
}

func (p previewParams) yaml() string {
	return fmt.Sprintf(`noise:
  kind: %s
  alpha: %.2f
  beta: %.2f
  octaves: %d
simulation:
  time_scale: %.0f`,
		p.kind(), p.Alpha, p.Beta, p.Octaves, p.TimeScale)
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Noise Heading Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	field, err := params.field()
	if err != nil {
		slog.Error("noise field", "error", err)
		os.Exit(1)
	}

	angles := make([]float64, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var tick float32
	animating := false
	needsRegen := true

	for !rl.WindowShouldClose() {
		if animating {
			tick++
			needsRegen = true
		}

		if needsRegen {
			sampleAngles(angles, field, float64(tick/params.TimeScale))
			updateTexture(texture, angles)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		drawArrows(field, float64(tick/params.TimeScale))
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		mean, alignment := telemetry.HeadingStats(angles)
		rl.DrawText(fmt.Sprintf("Mean heading: %.0f deg  Alignment: %.3f", mean*180/math.Pi, alignment), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Tick: %.0f  t = %.3f", tick, tick/params.TimeScale), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		next := params
		panelY = slider(panelX, panelY, "Alpha (octave weight falloff)", "1.0", "4.0", &next.Alpha, 1, 4, "%.2f")
		panelY = slider(panelX, panelY, "Beta (octave frequency multiplier)", "1.0", "4.0", &next.Beta, 1, 4, "%.2f")

		octaves := float32(next.Octaves)
		panelY = slider(panelX, panelY, "Octaves", "1", "8", &octaves, 1, 8, "%.0f")
		next.Octaves = int(octaves)

		panelY = slider(panelX, panelY, "Time scale (ticks per noise unit)", "10", "1000", &next.TimeScale, 10, 1000, "%.0f")

		seed := float32(next.Seed)
		panelY = slider(panelX, panelY, "Seed", "0", "99999", &seed, 0, 99999, "%.0f")
		next.Seed = int64(seed)

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(next.Simplex, "Use Perlin", "Use Simplex")) {
			next.Simplex = !next.Simplex
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			tick = 0
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			next.Seed = int64(rl.GetRandomValue(0, 99999))
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			next = defaultParams()
			tick = 0
		}
		panelY += 55

		if next != params {
			// Rebuild only on generator changes; time scale just resamples.
			if next.Simplex != params.Simplex || next.Alpha != params.Alpha || next.Beta != params.Beta ||
				next.Octaves != params.Octaves || next.Seed != params.Seed {
				if f, err := next.field(); err == nil {
					field = f
				} else {
					slog.Warn("noise field", "error", err)
				}
			}
			params = next
			needsRegen = true
		}

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(params.yaml(), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(params.yaml())
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bound to v and returns the next row's y.
func slider(x, y float32, label, minText, maxText string, v *float32, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(y), 14, rl.Gray)
	y += 18
	*v = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(panelWidth - 80), Height: 20},
		minText, maxText,
		*v, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, *v), int32(x+float32(panelWidth-70)), int32(y+2), 16, rl.DarkGray)
	return y + 35
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// sampleAngles fills the grid with headings over the unit square, the same
// normalised coordinates particles sample at.
func sampleAngles(angles []float64, field *systems.NoiseField, t float64) {
	for y := 0; y < gridSize; y++ {
		v := (float64(y) + 0.5) / gridSize
		for x := 0; x < gridSize; x++ {
			u := (float64(x) + 0.5) / gridSize
			angles[y*gridSize+x] = field.AngleAt(u, v, t)
		}
	}
}

func drawArrows(field *systems.NoiseField, t float64) {
	cell := float32(previewSize) / arrowCells
	for y := 0; y < arrowCells; y++ {
		for x := 0; x < arrowCells; x++ {
			u := (float64(x) + 0.5) / arrowCells
			v := (float64(y) + 0.5) / arrowCells
			a := field.AngleAt(u, v, t)

			cx := 10 + (float32(x)+0.5)*cell
			cy := 10 + (float32(y)+0.5)*cell
			length := cell * 0.4
			ex := cx + length*float32(math.Cos(a))
			ey := cy + length*float32(math.Sin(a))
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: ex, Y: ey}, 1.5, rl.Black)
			rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, 2, rl.Black)
		}
	}
}

// updateTexture colours each cell by its heading on the hue wheel.
func updateTexture(texture rl.Texture2D, angles []float64) {
	pixels := make([]color.RGBA, len(angles))
	for i, a := range angles {
		pixels[i] = palette.Heading(a, 0.55, 0.95)
	}
	rl.UpdateTexture(texture, pixels)
}
