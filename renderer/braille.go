package renderer

import (
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

const brailleBlank = 0x2800

// Braille dots per cell:
// 1 4
// 2 5
// 3 6
// 7 8
var brailleDots = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// BrailleSurface rasterises onto a grid of braille cells, each 2x4 dots.
// Colour is ignored; the terminal host styles the whole block.
type BrailleSurface struct {
	cols, rows int
	cells      [][]rune

	base   gg.Matrix
	matrix gg.Matrix
	stack  []gg.Matrix
}

// NewBrailleSurface creates a surface of cols x rows terminal cells.
func NewBrailleSurface(cols, rows int) *BrailleSurface {
	s := &BrailleSurface{base: gg.Identity()}
	s.Resize(cols, rows)
	return s
}

// Resize changes the cell grid and clears it.
func (s *BrailleSurface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([][]rune, s.rows)
	for i := range s.cells {
		s.cells[i] = make([]rune, s.cols)
	}
	s.clear()
}

// FitTo scales scene coordinates so a width x height scene fills the grid.
func (s *BrailleSurface) FitTo(width, height float64) {
	if width <= 0 || height <= 0 {
		s.base = gg.Identity()
		return
	}
	s.base = gg.Scale(float64(s.cols*2)/width, float64(s.rows*4)/height)
}

// Dots returns the grid size in dots.
func (s *BrailleSurface) Dots() (int, int) {
	return s.cols * 2, s.rows * 4
}

func (s *BrailleSurface) BeginFrame() {
	s.matrix = s.base
	s.stack = s.stack[:0]
}

// Fill clears every dot.
func (s *BrailleSurface) Fill(color.RGBA) {
	s.clear()
}

func (s *BrailleSurface) Push() {
	s.stack = append(s.stack, s.matrix)
}

func (s *BrailleSurface) Pop() {
	if n := len(s.stack); n > 0 {
		s.matrix = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *BrailleSurface) Translate(x, y float64) { s.matrix = s.matrix.Translate(x, y) }
func (s *BrailleSurface) Rotate(angle float64)   { s.matrix = s.matrix.Rotate(angle) }

func (s *BrailleSurface) StrokeLine(length, _ float64, _ color.RGBA) {
	x0, y0 := s.matrix.TransformPoint(0, 0)
	x1, y1 := s.matrix.TransformPoint(length, 0)
	s.line(dot(x0), dot(y0), dot(x1), dot(y1))
}

// FillCircle sets the dots inside the circle, or the centre dot when the
// circle is smaller than one dot.
func (s *BrailleSurface) FillCircle(radius float64, _ color.RGBA) {
	cx, cy := s.matrix.TransformPoint(0, 0)
	ex, ey := s.matrix.TransformVector(radius, 0)
	r := math.Hypot(ex, ey)
	if r < 1 {
		s.Set(dot(cx), dot(cy))
		return
	}
	for y := dot(cy - r); y <= dot(cy+r); y++ {
		for x := dot(cx - r); x <= dot(cx+r); x++ {
			if math.Hypot(float64(x)-cx, float64(y)-cy) <= r {
				s.Set(x, y)
			}
		}
	}
}

func (s *BrailleSurface) EndFrame() error {
	return nil
}

// Set sets the dot at (x, y). Out of range dots are ignored.
func (s *BrailleSurface) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= s.cols || row >= s.rows {
		return
	}
	s.cells[row][col] |= brailleDots[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is set.
func (s *BrailleSurface) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= s.cols || y/4 >= s.rows {
		return false
	}
	return s.cells[y/4][x/2]&brailleDots[y%4][x%2] != 0
}

func (s *BrailleSurface) String() string {
	var b strings.Builder
	for i, row := range s.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func (s *BrailleSurface) clear() {
	for _, row := range s.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// line draws with Bresenham's algorithm.
func (s *BrailleSurface) line(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		s.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func dot(v float64) int {
	return int(math.Floor(v))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
