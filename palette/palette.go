// Package palette converts the host's hex colour strings into drawable colours.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned for colour strings that are not #RRGGBB.
var ErrInvalidHex = errors.New("invalid hex colour")

// ParseHex parses a #RRGGBB string into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHex is like ParseHex but panics on error.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a colour as lowercase #rrggbb, ignoring alpha.
func Hex(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// ScaleIntensity multiplies each channel by intensity, truncating toward zero
// and clamping to [0, 255]. Alpha is preserved.
func ScaleIntensity(c color.RGBA, intensity float64) color.RGBA {
	return color.RGBA{
		R: scaleChannel(c.R, intensity),
		G: scaleChannel(c.G, intensity),
		B: scaleChannel(c.B, intensity),
		A: c.A,
	}
}

// ScaleHex is ScaleIntensity for hex strings.
func ScaleHex(s string, intensity float64) (string, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return Hex(ScaleIntensity(c, intensity)), nil
}

func scaleChannel(v uint8, intensity float64) uint8 {
	scaled := math.Trunc(float64(v) * intensity)
	if math.IsNaN(scaled) || scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

// Heading maps an angle in radians onto the hue wheel, 0 rad = red.
func Heading(angle, saturation, value float64) color.RGBA {
	deg := math.Mod(angle*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	r, g, b := colorful.Hsv(deg, saturation, value).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
