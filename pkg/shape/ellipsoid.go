package shape

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ellipsoid is a solid or hollow axis-aligned ellipsoid. Points p are kept
// when sum((p/Outer)²) <= 1 and sum((p/Inner)²) >= 1. A zero Inner.X makes
// the ellipsoid solid.
type Ellipsoid struct {
	Density float64
	Outer   r3.Vec // semi-axes of the outer surface
	Inner   r3.Vec // semi-axes of the cavity
	Type    int
}

// Sphere returns a spherical shell between inner and outer radius. inner 0
// gives a solid ball.
func Sphere(density, outer, inner float64, typ int) Ellipsoid {
	return Ellipsoid{
		Density: density,
		Outer:   r3.Vec{X: outer, Y: outer, Z: outer},
		Inner:   r3.Vec{X: inner, Y: inner, Z: inner},
		Type:    typ,
	}
}

// Sample implements Sampler.
func (e Ellipsoid) Sample(rng *rand.Rand, center r3.Vec) []Point {
	maxR := math.Max(e.Outer.X, math.Max(e.Outer.Y, e.Outer.Z))
	n := int(e.Density * math.Pow(2*maxR, 3))
	half := r3.Vec{X: maxR, Y: maxR, Z: maxR}
	solid := e.Inner.X == 0

	var out []Point
	for range n {
		p := uniformIn(rng, half)
		if scaledNorm2(p, e.Outer) > 1 {
			continue
		}
		if !solid && scaledNorm2(p, e.Inner) < 1 {
			continue
		}
		out = append(out, Point{Pos: r3.Add(p, center), Type: e.Type})
	}
	return out
}

func scaledNorm2(p, axes r3.Vec) float64 {
	x, y, z := p.X/axes.X, p.Y/axes.Y, p.Z/axes.Z
	return x*x + y*y + z*z
}
