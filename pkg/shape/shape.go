// Package shape samples point clouds of simple solids.
//
// Every sampler draws uniformly from its bounding box and keeps the points
// that fall inside the solid, so the number of points scales with Density
// times the bounding volume. Samplers take the caller's generator and a
// center offset that is added to every point.
package shape

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a sampled position with an optional particle type. Type 0 means
// the point carries no type of its own.
type Point struct {
	Pos  r3.Vec
	Type int
}

// Sampler produces a point cloud around center.
type Sampler interface {
	Sample(rng *rand.Rand, center r3.Vec) []Point
}

// Positions strips the types from pts.
func Positions(pts []Point) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = p.Pos
	}
	return out
}

// Translate adds offset to every point in place.
func Translate(pts []Point, offset r3.Vec) {
	for i := range pts {
		pts[i].Pos = r3.Add(pts[i].Pos, offset)
	}
}

func uniformIn(rng *rand.Rand, half r3.Vec) r3.Vec {
	return r3.Vec{
		X: (2*rng.Float64() - 1) * half.X,
		Y: (2*rng.Float64() - 1) * half.Y,
		Z: (2*rng.Float64() - 1) * half.Z,
	}
}
