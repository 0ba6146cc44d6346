package shape

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/geom"
)

var (
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Cylinder is a solid cylinder centered on the origin. It is sampled along
// +z, then rotated about y by Polar and about z by Azimuth, so its axis points
// along the direction with those spherical angles.
type Cylinder struct {
	Density float64
	Length  float64
	Radius  float64
	Polar   float64
	Azimuth float64
	Type    int
}

// Between returns a cylinder spanning a to b.
func Between(a, b r3.Vec, radius, density float64, typ int) Cylinder {
	d := r3.Sub(b, a)
	polar, azimuth := geom.Orientation(d)
	return Cylinder{
		Density: density,
		Length:  r3.Norm(d),
		Radius:  radius,
		Polar:   polar,
		Azimuth: azimuth,
		Type:    typ,
	}
}

// Sample implements Sampler.
func (c Cylinder) Sample(rng *rand.Rand, center r3.Vec) []Point {
	n := int(c.Density * (2 * c.Radius) * (2 * c.Radius) * c.Length)
	half := r3.Vec{X: c.Radius, Y: c.Radius, Z: c.Length / 2}
	rotY := r3.NewRotation(c.Polar, axisY)
	rotZ := r3.NewRotation(c.Azimuth, axisZ)
	r2 := c.Radius * c.Radius

	var out []Point
	for range n {
		p := uniformIn(rng, half)
		if p.X*p.X+p.Y*p.Y > r2 {
			continue
		}
		p = rotZ.Rotate(rotY.Rotate(p))
		out = append(out, Point{Pos: r3.Add(p, center), Type: c.Type})
	}
	return out
}
