// Package renderer draws the flow scene onto pluggable surfaces.
package renderer

import "image/color"

// Surface is a 2D drawing target with a canvas-style transform stack.
// Translate and Rotate compose onto the current transform; Push and Pop
// save and restore it. Angles are in radians.
type Surface interface {
	BeginFrame()
	Fill(c color.RGBA)
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64)
	// StrokeLine strokes a segment from the origin to (length, 0).
	StrokeLine(length, width float64, c color.RGBA)
	// FillCircle fills a circle centred on the origin.
	FillCircle(radius float64, c color.RGBA)
	EndFrame() error
}
