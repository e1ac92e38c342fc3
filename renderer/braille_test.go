package renderer

import (
	"image/color"
	"math"
	"strings"
	"testing"
)

func TestBrailleSetAndString(t *testing.T) {
	s := NewBrailleSurface(2, 1)
	s.Set(0, 0)
	s.Set(3, 3)
	s.Set(-1, 0)
	s.Set(4, 0) // out of range

	got := s.String()
	want := string([]rune{0x2800 | 0x1, 0x2800 | 0x80})
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBrailleFillClears(t *testing.T) {
	s := NewBrailleSurface(3, 2)
	s.Set(1, 1)
	s.Fill(color.RGBA{})

	for _, r := range strings.ReplaceAll(s.String(), "\n", "") {
		if r != brailleBlank {
			t.Fatalf("expected blank cells, got %q", s.String())
		}
	}
}

func TestBrailleStrokeFollowsTransform(t *testing.T) {
	s := NewBrailleSurface(10, 5) // 20 x 20 dots
	s.BeginFrame()

	s.Push()
	s.Translate(2, 3)
	s.StrokeLine(5, 1, color.RGBA{})
	s.Pop()

	for x := 2; x <= 7; x++ {
		if !s.IsSet(x, 3) {
			t.Errorf("expected dot (%d, 3) set", x)
		}
	}
	if s.IsSet(8, 3) || s.IsSet(2, 4) {
		t.Error("line overran its extent")
	}

	s.Push()
	s.Translate(15, 2)
	s.Rotate(math.Pi / 2)
	s.StrokeLine(6, 1, color.RGBA{})
	s.Pop()

	for y := 2; y <= 7; y++ {
		if !s.IsSet(15, y) && !s.IsSet(14, y) {
			t.Errorf("expected rotated stroke to cover row %d near x=15", y)
		}
	}
}

func TestBrailleFitToScales(t *testing.T) {
	s := NewBrailleSurface(10, 5) // 20 x 20 dots
	s.FitTo(200, 200)
	s.BeginFrame()

	s.Push()
	s.Translate(100, 100)
	s.FillCircle(1, color.RGBA{})
	s.Pop()

	if !s.IsSet(10, 10) {
		t.Errorf("expected scaled centre dot set:\n%s", s.String())
	}
	w, h := s.Dots()
	if w != 20 || h != 20 {
		t.Errorf("expected 20x20 dots, got %dx%d", w, h)
	}
}

func TestBrailleFillCircleDisc(t *testing.T) {
	s := NewBrailleSurface(10, 5)
	s.BeginFrame()
	s.Push()
	s.Translate(10, 10)
	s.FillCircle(3, color.RGBA{})
	s.Pop()

	for _, p := range [][2]int{{10, 10}, {13, 10}, {7, 10}, {10, 13}, {10, 7}} {
		if !s.IsSet(p[0], p[1]) {
			t.Errorf("expected dot %v inside disc", p)
		}
	}
	if s.IsSet(14, 10) || s.IsSet(13, 13) {
		t.Error("dot outside disc was set")
	}
}

func TestBraillePopOnEmptyStack(t *testing.T) {
	s := NewBrailleSurface(2, 2)
	s.BeginFrame()
	s.Pop()
	s.StrokeLine(1, 1, color.RGBA{})
	if !s.IsSet(0, 0) {
		t.Error("expected identity transform after unbalanced pop")
	}
}
