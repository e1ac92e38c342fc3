// Package camera pans and zooms the window over the wrapping flow canvas.
package camera

import "math"

// Camera maps canvas coordinates to screen coordinates. The canvas wraps at
// its edges the way particles do, so any pan position shows a seamless view.
type Camera struct {
	// Position is the camera center in canvas coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Canvas dimensions in screen units
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// Tile is the screen-space rectangle one copy of the canvas is drawn into.
type Tile struct {
	X, Y, W, H float32
}

// New creates a camera centered on the canvas with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		Zoom:    1.0,
		MaxZoom: 4.0,
	}
	c.Resize(viewportW, viewportH, worldW, worldH)
	c.Reset()
	return c
}

// WorldToScreen converts canvas coordinates to screen coordinates, taking
// the shortest way around the wrap.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to canvas coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	wx = mod(c.X+dx, c.WorldW)
	wy = mod(c.Y+dy, c.WorldH)
	return wx, wy
}

// Tiles returns the placements of the canvas needed to cover the viewport.
// Tiles are ordered row by row from the top left.
func (c *Camera) Tiles() []Tile {
	tw := c.WorldW * c.Zoom
	th := c.WorldH * c.Zoom
	if tw <= 0 || th <= 0 {
		return nil
	}

	// Screen position of the canvas origin, shifted left/up until it is
	// at or before the viewport edge.
	x0 := firstTile(c.ViewportW/2-c.X*c.Zoom, tw)
	y0 := firstTile(c.ViewportH/2-c.Y*c.Zoom, th)

	var tiles []Tile
	for y := y0; y < c.ViewportH; y += th {
		for x := x0; x < c.ViewportW; x += tw {
			tiles = append(tiles, Tile{X: x, Y: y, W: tw, H: th})
		}
	}
	return tiles
}

// Resize updates viewport and canvas dimensions and recalculates zoom
// constraints. The camera keeps its relative position on the canvas.
func (c *Camera) Resize(viewportW, viewportH, worldW, worldH float32) {
	if c.WorldW > 0 && c.WorldH > 0 && (worldW != c.WorldW || worldH != c.WorldH) {
		c.X = c.X / c.WorldW * worldW
		c.Y = c.Y / c.WorldH * worldH
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.WorldW = worldW
	c.WorldH = worldH

	c.MinZoom = 1
	if worldW > 0 && worldH > 0 {
		c.MinZoom = max(viewportW/worldW, viewportH/worldH)
	}
	if c.MinZoom > c.MaxZoom {
		c.MinZoom = c.MaxZoom
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around canvas boundaries.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.WorldW)
	c.Y = mod(c.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the canvas point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.ZoomBy(factor)
	ax, ay := c.ScreenToWorld(sx, sy)
	c.X = mod(c.X+toroidalDelta(wx, ax, c.WorldW), c.WorldW)
	c.Y = mod(c.Y+toroidalDelta(wy, ay, c.WorldH), c.WorldH)
}

// Reset returns the camera to the canvas center at 1:1.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(1.0)
}

// firstTile returns the tile origin congruent to origin that lies in (-size, 0].
func firstTile(origin, size float32) float32 {
	m := mod(origin, size)
	if m > 0 {
		m -= size
	}
	return m
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	if m <= 0 {
		return 0
	}
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
