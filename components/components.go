// Package components defines ECS components for the flow field.
package components

// Position is a particle's location in device pixels.
type Position struct {
	X, Y float64
}

// Heading is a particle's direction of travel in radians.
type Heading struct {
	Angle float64
}
