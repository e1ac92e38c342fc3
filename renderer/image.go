package renderer

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/fogleman/gg"
)

// ImageSurface draws into an in-memory image. When Pattern is set each
// finished frame is written as a PNG named by fmt.Sprintf(Pattern, frame).
type ImageSurface struct {
	dc      *gg.Context
	Dir     string
	Pattern string
	frame   int
}

// NewImageSurface creates a surface of the given pixel size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{dc: gg.NewContext(width, height)}
}

// Resize replaces the backing image.
func (s *ImageSurface) Resize(width, height int) {
	s.dc = gg.NewContext(width, height)
}

func (s *ImageSurface) BeginFrame() {
	s.dc.Identity()
}

func (s *ImageSurface) Fill(c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *ImageSurface) Push() { s.dc.Push() }
func (s *ImageSurface) Pop()  { s.dc.Pop() }

func (s *ImageSurface) Translate(x, y float64) { s.dc.Translate(x, y) }
func (s *ImageSurface) Rotate(angle float64)   { s.dc.Rotate(angle) }

func (s *ImageSurface) StrokeLine(length, width float64, c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(0, 0, length, 0)
	s.dc.Stroke()
}

func (s *ImageSurface) FillCircle(radius float64, c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.DrawCircle(0, 0, radius)
	s.dc.Fill()
}

// EndFrame writes the frame when a pattern is configured.
func (s *ImageSurface) EndFrame() error {
	defer func() { s.frame++ }()
	if s.Pattern == "" {
		return nil
	}
	path := filepath.Join(s.Dir, fmt.Sprintf(s.Pattern, s.frame))
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save frame %d: %w", s.frame, err)
	}
	return nil
}

// Frames returns how many frames have been finished.
func (s *ImageSurface) Frames() int {
	return s.frame
}

// Image returns the current image.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}
