package systems

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

const twoPi = 2 * math.Pi

// NoiseSampler produces coherent 3D noise, roughly in [-1, 1].
type NoiseSampler interface {
	Noise3D(x, y, z float64) float64
}

// NoiseOptions selects and tunes the noise generator.
type NoiseOptions struct {
	Kind    string // "perlin" or "simplex"
	Seed    int64
	Alpha   float64 // perlin: weight falloff between octaves
	Beta    float64 // perlin: frequency multiplier between octaves
	Octaves int
}

// NoiseField maps a point in (x, y, time) to a heading angle.
type NoiseField struct {
	sampler NoiseSampler
}

// NewNoiseField builds a noise field from options.
func NewNoiseField(opts NoiseOptions) (*NoiseField, error) {
	switch opts.Kind {
	case "", "perlin":
		octaves := opts.Octaves
		if octaves < 1 {
			octaves = 1
		}
		return NewNoiseFieldFrom(perlin.NewPerlin(opts.Alpha, opts.Beta, int32(octaves), opts.Seed)), nil
	case "simplex":
		return NewNoiseFieldFrom(simplexSampler{noise: opensimplex.New(opts.Seed)}), nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", opts.Kind)
	}
}

// NewNoiseFieldFrom wraps an existing sampler.
func NewNoiseFieldFrom(s NoiseSampler) *NoiseField {
	return &NoiseField{sampler: s}
}

// Sample returns the raw noise value at (x, y, t).
func (f *NoiseField) Sample(x, y, t float64) float64 {
	return f.sampler.Noise3D(x, y, t)
}

// AngleAt returns the heading at (x, y, t) in [0, 2π).
func (f *NoiseField) AngleAt(x, y, t float64) float64 {
	return NormalizeAngle(f.Sample(x, y, t) * twoPi)
}

// NormalizeAngle wraps a to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

type simplexSampler struct {
	noise opensimplex.Noise
}

func (s simplexSampler) Noise3D(x, y, z float64) float64 {
	return s.noise.Eval3(x, y, z)
}
