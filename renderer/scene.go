package renderer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/perlinflow/systems"
)

// StickMode selects how flow indicator sticks are sized.
type StickMode string

const (
	// StickInterpolated shrinks sticks as the two nearest particles get farther away.
	StickInterpolated StickMode = "interpolated"
	// StickFixed draws every stick at a fixed fraction of the unit size.
	StickFixed StickMode = "fixed"
)

// Colors are the scene's three paint colours.
type Colors struct {
	Background color.RGBA
	Particle   color.RGBA
	Stick      color.RGBA
}

// StickPolicy sizes flow sticks.
type StickPolicy struct {
	Mode          StickMode
	FixedFraction float64
	MinLength     float64
	LineWidth     float64
}

// DefaultStickPolicy matches the shipped defaults.
var DefaultStickPolicy = StickPolicy{
	Mode:          StickInterpolated,
	FixedFraction: 0.5,
	MinLength:     2,
	LineWidth:     1,
}

// Length returns the stick length for a lattice point.
func (p StickPolicy) Length(unitSize, ratio float64) float64 {
	if p.Mode == StickFixed {
		return p.FixedFraction * unitSize
	}
	v := unitSize + (p.MinLength-unitSize)*ratio
	// never longer than a unit, even when a unit is shorter than MinLength
	return math.Min(unitSize, math.Max(p.MinLength, v))
}

// SceneRenderer draws background, sticks and particles, in that order.
type SceneRenderer struct {
	policy StickPolicy
}

// NewSceneRenderer creates a renderer with the given stick policy.
func NewSceneRenderer(policy StickPolicy) *SceneRenderer {
	if policy.LineWidth <= 0 {
		policy.LineWidth = 1
	}
	return &SceneRenderer{policy: policy}
}

// Policy returns the current stick policy.
func (r *SceneRenderer) Policy() StickPolicy {
	return r.policy
}

// SetStickMode switches the stick sizing mode.
func (r *SceneRenderer) SetStickMode(mode StickMode) error {
	switch mode {
	case StickInterpolated, StickFixed:
		r.policy.Mode = mode
		return nil
	}
	return fmt.Errorf("unknown stick mode %q", mode)
}

// Render draws one frame.
func (r *SceneRenderer) Render(s Surface, particles []systems.Particle, samples []systems.FlowSample, layout systems.LayoutParameters, colors Colors) error {
	s.BeginFrame()
	s.Fill(colors.Background)

	for _, fs := range samples {
		s.Push()
		s.Translate(fs.X, fs.Y)
		s.Rotate(fs.Angle)
		s.StrokeLine(r.policy.Length(layout.UnitSize, fs.Ratio), r.policy.LineWidth, colors.Stick)
		s.Pop()
	}

	radius := layout.ParticleSize / 2
	for _, p := range particles {
		s.Push()
		s.Translate(p.X, p.Y)
		s.Rotate(p.Angle)
		s.FillCircle(radius, colors.Particle)
		s.Pop()
	}

	if err := s.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	return nil
}
