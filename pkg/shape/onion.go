package shape

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// Onion is a stack of concentric spherical shells. Shell i spans
// [sum(Thickness[:i]), sum(Thickness[:i+1])], is sampled at Density[i] and
// has type i+1. The innermost shell is a solid core.
type Onion struct {
	Thickness []float64
	Density   []float64
}

// NewOnion checks that thickness and density describe the same shells.
func NewOnion(thickness, density []float64) (Onion, error) {
	if len(thickness) != len(density) {
		return Onion{}, errors.New(errors.ErrCodeInvalidInput,
			"onion has %d thicknesses but %d densities", len(thickness), len(density))
	}
	for i, t := range thickness {
		if err := errors.ValidatePositive("shell thickness", t); err != nil {
			return Onion{}, err
		}
		if err := errors.ValidateNonNegative("shell density", density[i]); err != nil {
			return Onion{}, err
		}
	}
	return Onion{Thickness: thickness, Density: density}, nil
}

// Radius returns the outer radius of the onion.
func (o Onion) Radius() float64 {
	var r float64
	for _, t := range o.Thickness {
		r += t
	}
	return r
}

// Sample implements Sampler.
func (o Onion) Sample(rng *rand.Rand, center r3.Vec) []Point {
	var out []Point
	var inner float64
	for i, t := range o.Thickness {
		shell := Sphere(o.Density[i], inner+t, inner, i+1)
		out = append(out, shell.Sample(rng, center)...)
		inner += t
	}
	return out
}
