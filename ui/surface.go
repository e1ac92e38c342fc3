package ui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/perlinflow/camera"
)

// RaylibSurface implements renderer.Surface with the rlgl matrix stack. The
// scene is drawn in device pixels into an offscreen texture, which is then
// tiled onto the window through the camera so panning wraps like the particles.
type RaylibSurface struct {
	Camera *camera.Camera
	// Overlay is drawn in screen space after the scene, before the frame is presented.
	Overlay func()

	target     rl.RenderTexture2D
	targetW    int32
	targetH    int32
	background rl.Color
}

// NewRaylibSurface creates a window surface viewed through cam.
func NewRaylibSurface(cam *camera.Camera) *RaylibSurface {
	return &RaylibSurface{Camera: cam, background: rl.Black}
}

// SetCanvasSize sizes the offscreen texture in device pixels.
func (s *RaylibSurface) SetCanvasSize(w, h int32) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == s.targetW && h == s.targetH {
		return
	}
	s.Unload()
	s.target = rl.LoadRenderTexture(w, h)
	s.targetW, s.targetH = w, h
}

// Unload frees the offscreen texture.
func (s *RaylibSurface) Unload() {
	if s.targetW == 0 {
		return
	}
	rl.UnloadRenderTexture(s.target)
	s.targetW, s.targetH = 0, 0
}

func (s *RaylibSurface) BeginFrame() {
	if s.targetW == 0 {
		s.SetCanvasSize(int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight()))
	}
	rl.BeginTextureMode(s.target)
	rl.PushMatrix()
}

func (s *RaylibSurface) Fill(c color.RGBA) {
	s.background = rlColor(c)
	rl.ClearBackground(s.background)
}

func (s *RaylibSurface) Push() { rl.PushMatrix() }
func (s *RaylibSurface) Pop()  { rl.PopMatrix() }

func (s *RaylibSurface) Translate(x, y float64) {
	rl.Translatef(float32(x), float32(y), 0)
}

func (s *RaylibSurface) Rotate(angle float64) {
	rl.Rotatef(float32(angle*180/math.Pi), 0, 0, 1)
}

func (s *RaylibSurface) StrokeLine(length, width float64, c color.RGBA) {
	rl.DrawLineEx(rl.Vector2{}, rl.NewVector2(float32(length), 0), float32(width), rlColor(c))
}

func (s *RaylibSurface) FillCircle(radius float64, c color.RGBA) {
	rl.DrawCircleV(rl.Vector2{}, float32(radius), rlColor(c))
}

func (s *RaylibSurface) EndFrame() error {
	rl.PopMatrix()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(s.background)

	// Render textures are stored bottom-up, hence the negative source height.
	src := rl.NewRectangle(0, 0, float32(s.targetW), -float32(s.targetH))
	for _, t := range s.Camera.Tiles() {
		dst := rl.NewRectangle(t.X, t.Y, t.W, t.H)
		rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
	}

	if s.Overlay != nil {
		s.Overlay()
	}
	rl.EndDrawing()
	return nil
}

func rlColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
