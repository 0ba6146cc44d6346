package geom

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the squared-length threshold below which a segment is treated as
// a single point and a linear system as singular.
const Epsilon = 1e-12

// =============================================================================
// Point / Segment
// =============================================================================

// ClosestOnSegment projects p onto the segment a-b and returns the closest
// point together with its clamped line parameter t in [0, 1], where t=0 is a
// and t=1 is b. A degenerate segment returns a with t=0.
func ClosestOnSegment(p, a, b r3.Vec) (r3.Vec, float64) {
	ab := r3.Sub(b, a)
	den := r3.Norm2(ab)
	if den <= Epsilon {
		return a, 0
	}
	t := clamp01(r3.Dot(r3.Sub(p, a), ab) / den)
	return r3.Add(a, r3.Scale(t, ab)), t
}

// PointSegmentDistance returns the Euclidean distance from p to the segment a-b
// and the closest point on the segment.
func PointSegmentDistance(p, a, b r3.Vec) (float64, r3.Vec) {
	c, _ := ClosestOnSegment(p, a, b)
	return r3.Norm(r3.Sub(p, c)), c
}

// =============================================================================
// Segment / Segment
// =============================================================================

// ClosestBetweenSegments returns the closest points c1 on p1-q1 and c2 on
// p2-q2, together with their line parameters s and t.
func ClosestBetweenSegments(p1, q1, p2, q2 r3.Vec) (c1, c2 r3.Vec, s, t float64) {
	d1 := r3.Sub(q1, p1)
	d2 := r3.Sub(q2, p2)
	r := r3.Sub(p1, p2)
	a := r3.Dot(d1, d1)
	e := r3.Dot(d2, d2)
	f := r3.Dot(d2, r)

	switch {
	case a <= Epsilon && e <= Epsilon:
		s, t = 0, 0
	case a <= Epsilon:
		s = 0
		t = clamp01(f / e)
	default:
		c := r3.Dot(d1, r)
		if e <= Epsilon {
			t = 0
			s = clamp01(-c / a)
			break
		}
		b := r3.Dot(d1, d2)
		denom := a*e - b*b
		if denom > Epsilon {
			s = clamp01((b*f - c*e) / denom)
		} else {
			s = 0
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}

	c1 = r3.Add(p1, r3.Scale(s, d1))
	c2 = r3.Add(p2, r3.Scale(t, d2))
	return c1, c2, s, t
}

// SegmentSegmentDistance returns the minimum distance between segments p1-q1
// and p2-q2 and the pair of points realising it.
func SegmentSegmentDistance(p1, q1, p2, q2 r3.Vec) (float64, r3.Vec, r3.Vec) {
	c1, c2, _, _ := ClosestBetweenSegments(p1, q1, p2, q2)
	return r3.Norm(r3.Sub(c1, c2)), c1, c2
}

// =============================================================================
// Spherical coordinates
// =============================================================================

// Spherical is a point in spherical coordinates: radius R, polar angle from
// the +z axis, and azimuth in the xy-plane measured from +x.
type Spherical struct {
	R       float64
	Polar   float64
	Azimuth float64
}

// Cartesian converts s to a Cartesian offset.
func (s Spherical) Cartesian() r3.Vec {
	sp, cp := math.Sincos(s.Polar)
	sa, ca := math.Sincos(s.Azimuth)
	return r3.Vec{X: s.R * sp * ca, Y: s.R * sp * sa, Z: s.R * cp}
}

// ToSpherical converts a Cartesian offset to spherical coordinates.
// The zero vector maps to the zero value.
func ToSpherical(v r3.Vec) Spherical {
	r := r3.Norm(v)
	if r == 0 {
		return Spherical{}
	}
	polar, azimuth := Orientation(v)
	return Spherical{R: r, Polar: polar, Azimuth: azimuth}
}

// Orientation returns the polar and azimuthal angles of direction v.
// Samplers use these to rotate a z-aligned primitive onto v.
func Orientation(v r3.Vec) (polar, azimuth float64) {
	r := r3.Norm(v)
	if r == 0 {
		return 0, 0
	}
	cosPolar := math.Max(-1, math.Min(1, v.Z/r))
	return math.Acos(cosPolar), math.Atan2(v.Y, v.X)
}

// SphereIntersectionCircle returns the point at angle t on the circle where
// the sphere (c1, r1) meets the sphere (c2, r2), relative to c1.
//
// ok is false when the circle does not exist: d <= |r1-r2| (nested or
// concentric) or d >= r1+r2 (disjoint or touching).
func SphereIntersectionCircle(t, r1, r2 float64, c1, c2 r3.Vec) (Spherical, bool) {
	axis := r3.Sub(c2, c1)
	d := r3.Norm(axis)
	if d <= math.Abs(r1-r2) || d >= r1+r2 {
		return Spherical{}, false
	}

	u := r3.Scale(1/d, axis)
	a := (d*d + r1*r1 - r2*r2) / (2 * d)
	h := math.Sqrt(math.Max(0, r1*r1-a*a))

	v, w := perpendicularBasis(u)
	st, ct := math.Sincos(t)
	offset := r3.Add(r3.Scale(a, u), r3.Scale(h, r3.Add(r3.Scale(ct, v), r3.Scale(st, w))))
	return ToSpherical(offset), true
}

// perpendicularBasis returns two unit vectors orthogonal to unit vector u and
// to each other.
func perpendicularBasis(u r3.Vec) (r3.Vec, r3.Vec) {
	helper := r3.Vec{X: 1}
	if math.Abs(u.X) > 0.9 {
		helper = r3.Vec{Y: 1}
	}
	v := r3.Unit(r3.Cross(u, helper))
	return v, r3.Cross(u, v)
}

// =============================================================================
// Random directions
// =============================================================================

// RandomUnit returns a direction drawn uniformly from the unit sphere.
func RandomUnit(rng *rand.Rand) r3.Vec {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	rho := math.Sqrt(1 - z*z)
	s, c := math.Sincos(phi)
	return r3.Vec{X: rho * c, Y: rho * s, Z: z}
}

// RandomInCube returns a point drawn uniformly from [min, max]^3.
func RandomInCube(rng *rand.Rand, min, max float64) r3.Vec {
	span := max - min
	return r3.Vec{
		X: min + rng.Float64()*span,
		Y: min + rng.Float64()*span,
		Z: min + rng.Float64()*span,
	}
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
