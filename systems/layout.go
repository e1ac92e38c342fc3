package systems

import "math"

// Profile names a bundle of layout constants.
type Profile string

const (
	ProfileCompact  Profile = "compact"
	ProfileExpanded Profile = "expanded"
)

// Viewport is the host's drawing area in logical (css) pixels.
type Viewport struct {
	Width, Height float64
	DPR           float64 // device pixels per logical pixel
}

// ProfileSpec holds the constants of one profile.
type ProfileSpec struct {
	ParticleSize float64
	GridSize     float64 // lattice columns across the viewport
}

// LayoutPolicy selects a profile by viewport width.
type LayoutPolicy struct {
	Breakpoint    float64 // logical px; narrower viewports are compact
	Compact       ProfileSpec
	Expanded      ProfileSpec
	ParticleCount int
	RippleUnits   float64 // ripple range in unit sizes
}

// DefaultLayoutPolicy matches the shipped defaults.
var DefaultLayoutPolicy = LayoutPolicy{
	Breakpoint:    768,
	Compact:       ProfileSpec{ParticleSize: 6.5, GridSize: 15},
	Expanded:      ProfileSpec{ParticleSize: 3.5, GridSize: 50},
	ParticleCount: 150,
	RippleUnits:   8,
}

// LayoutParameters is everything derived from the viewport, fixed until the next resize.
type LayoutParameters struct {
	Profile             Profile
	Width, Height       float64 // device pixels, rounded to two decimals
	UnitSize            float64
	ParticleSize        float64
	GridSize            float64
	HorizontalGridCount int // rows
	VerticalGridCount   int // columns
	ParticleCount       int
	RippleRange         float64
}

// Geometry returns the lattice this layout describes.
func (l LayoutParameters) Geometry() GridGeometry {
	return GridGeometry{
		UnitSize:    l.UnitSize,
		Rows:        l.HorizontalGridCount,
		Cols:        l.VerticalGridCount,
		RippleRange: l.RippleRange,
	}
}

// ComputeLayout derives layout parameters from a viewport under the given policy.
func ComputeLayout(vp Viewport, p LayoutPolicy) LayoutParameters {
	return p.Compute(vp)
}

// Compute derives layout parameters from a viewport. It is a pure function.
func (p LayoutPolicy) Compute(vp Viewport) LayoutParameters {
	dpr := vp.DPR
	if dpr <= 0 {
		dpr = 1
	}

	profile, spec := ProfileExpanded, p.Expanded
	if vp.Width < p.Breakpoint {
		profile, spec = ProfileCompact, p.Compact
	}

	width := vp.Width * dpr
	height := vp.Height * dpr
	unit := width / spec.GridSize

	var rows, cols int
	if unit > 0 {
		rows = int(math.Ceil(height / unit))
		cols = int(math.Ceil(width / unit))
	}

	return LayoutParameters{
		Profile:             profile,
		Width:               roundHundredths(width),
		Height:              roundHundredths(height),
		UnitSize:            unit,
		ParticleSize:        spec.ParticleSize,
		GridSize:            spec.GridSize,
		HorizontalGridCount: rows,
		VerticalGridCount:   cols,
		ParticleCount:       p.ParticleCount,
		RippleRange:         p.RippleUnits * unit,
	}
}

func roundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}
