package geom

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func vec(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

func TestPointSegmentDistance(t *testing.T) {
	tests := []struct {
		name        string
		p, a, b     r3.Vec
		wantDist    float64
		wantClosest r3.Vec
	}{
		{"interior projection", vec(1, 1, 0), vec(0, 0, 0), vec(2, 0, 0), 1, vec(1, 0, 0)},
		{"clamped to a", vec(-3, 4, 0), vec(0, 0, 0), vec(2, 0, 0), 5, vec(0, 0, 0)},
		{"clamped to b", vec(5, 0, 4), vec(0, 0, 0), vec(2, 0, 0), 5, vec(2, 0, 0)},
		{"on segment", vec(0.5, 0, 0), vec(0, 0, 0), vec(1, 0, 0), 0, vec(0.5, 0, 0)},
		{"degenerate segment", vec(0, 3, 4), vec(0, 0, 0), vec(0, 0, 0), 5, vec(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := PointSegmentDistance(tt.p, tt.a, tt.b)
			assert.InDelta(t, tt.wantDist, d, 1e-12)
			assert.InDelta(t, tt.wantClosest.X, c.X, 1e-12)
			assert.InDelta(t, tt.wantClosest.Y, c.Y, 1e-12)
			assert.InDelta(t, tt.wantClosest.Z, c.Z, 1e-12)
		})
	}
}

func TestClosestOnSegmentParameter(t *testing.T) {
	_, tp := ClosestOnSegment(vec(3, 1, 0), vec(0, 0, 0), vec(4, 0, 0))
	assert.InDelta(t, 0.75, tp, 1e-12)

	_, tp = ClosestOnSegment(vec(-1, 0, 0), vec(0, 0, 0), vec(4, 0, 0))
	assert.Equal(t, 0.0, tp)

	_, tp = ClosestOnSegment(vec(9, 0, 0), vec(0, 0, 0), vec(4, 0, 0))
	assert.Equal(t, 1.0, tp)
}

func TestSegmentSegmentDistance(t *testing.T) {
	tests := []struct {
		name           string
		p1, q1, p2, q2 r3.Vec
		want           float64
	}{
		{"crossing", vec(-1, 0, 0), vec(1, 0, 0), vec(0, -1, 0), vec(0, 1, 0), 0},
		{"skew", vec(-1, 0, 0), vec(1, 0, 0), vec(0, -1, 2), vec(0, 1, 2), 2},
		{"parallel offset", vec(0, 0, 0), vec(4, 0, 0), vec(0, 3, 0), vec(4, 3, 0), 3},
		{"collinear gap", vec(0, 0, 0), vec(1, 0, 0), vec(3, 0, 0), vec(5, 0, 0), 2},
		{"endpoint to interior", vec(0, 0, 0), vec(0, 0, 1), vec(-1, 2, 3), vec(1, 2, 3), math.Sqrt(4 + 4)},
		{"both degenerate", vec(0, 0, 0), vec(0, 0, 0), vec(3, 4, 0), vec(3, 4, 0), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c1, c2 := SegmentSegmentDistance(tt.p1, tt.q1, tt.p2, tt.q2)
			assert.InDelta(t, tt.want, d, 1e-9)
			assert.InDelta(t, d, r3.Norm(r3.Sub(c1, c2)), 1e-12)
		})
	}
}

func TestSegmentSegmentParallelCascade(t *testing.T) {
	// Parallel overlapping segments: s is pinned to 0, so the first
	// segment's start point is the reported closest point.
	c1, c2, s, tp := ClosestBetweenSegments(vec(0, 0, 0), vec(4, 0, 0), vec(-1, 1, 0), vec(3, 1, 0))
	assert.Equal(t, 0.0, s)
	assert.Equal(t, vec(0, 0, 0), c1)
	assert.Equal(t, 0.25, tp)
	assert.Equal(t, vec(0, 1, 0), c2)

	// Clamping t to 0 re-derives s from the near endpoint of the second segment.
	c1, c2, s, tp = ClosestBetweenSegments(vec(0, 0, 0), vec(4, 0, 0), vec(1, 1, 0), vec(3, 1, 0))
	assert.Equal(t, 0.0, tp)
	assert.Equal(t, 0.25, s)
	assert.Equal(t, vec(1, 0, 0), c1)
	assert.Equal(t, vec(1, 1, 0), c2)

	// Clamping t to 1 re-derives s from the far endpoint.
	c1, c2, s, tp = ClosestBetweenSegments(vec(0, 0, 0), vec(4, 0, 0), vec(-3, 1, 0), vec(-1, 1, 0))
	assert.Equal(t, 1.0, tp)
	assert.Equal(t, 0.0, s)
	assert.Equal(t, vec(-1, 1, 0), c2)
	assert.Equal(t, vec(0, 0, 0), c1)
}

func TestSegmentSegmentAgreesWithPointSegment(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7^0xdeadbeef))
	for i := 0; i < 200; i++ {
		p := RandomInCube(rng, -10, 10)
		a := RandomInCube(rng, -10, 10)
		b := RandomInCube(rng, -10, 10)

		want, _ := PointSegmentDistance(p, a, b)
		got, _, _ := SegmentSegmentDistance(p, p, a, b)
		require.InDelta(t, want, got, 1e-9, "point as first segment")

		got, _, _ = SegmentSegmentDistance(a, b, p, p)
		require.InDelta(t, want, got, 1e-9, "point as second segment")
	}
}

func TestSphereIntersectionCircle(t *testing.T) {
	c1 := vec(0, 0, 0)
	c2 := vec(6, 0, 0)

	for _, angle := range []float64{0, 0.5, math.Pi / 2, math.Pi, 4} {
		s, ok := SphereIntersectionCircle(angle, 5, 5, c1, c2)
		require.True(t, ok)
		assert.InDelta(t, 5.0, s.R, 1e-9)

		p := r3.Add(c1, s.Cartesian())
		assert.InDelta(t, 5.0, r3.Norm(r3.Sub(p, c2)), 1e-9, "point must also lie on the second sphere")
		assert.InDelta(t, 3.0, p.X, 1e-9)
	}
}

func TestSphereIntersectionCircleNoCircle(t *testing.T) {
	tests := []struct {
		name   string
		r1, r2 float64
		c2     r3.Vec
		wantOK bool
	}{
		{"intersecting", 5, 5, vec(6, 0, 0), true},
		{"disjoint", 2, 2, vec(6, 0, 0), false},
		{"touching outside", 3, 3, vec(6, 0, 0), false},
		{"nested", 10, 2, vec(1, 0, 0), false},
		{"touching inside", 5, 3, vec(2, 0, 0), false},
		{"concentric", 5, 5, vec(0, 0, 0), false},
		{"offset axis", 4, 3, vec(0, 2, 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := SphereIntersectionCircle(1.0, tt.r1, tt.r2, vec(0, 0, 0), tt.c2)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.r1, s.R, 1e-9)
			}
		})
	}
}

func TestOrientation(t *testing.T) {
	polar, azimuth := Orientation(vec(0, 0, 3))
	assert.InDelta(t, 0, polar, 1e-12)
	assert.InDelta(t, 0, azimuth, 1e-12)

	polar, azimuth = Orientation(vec(0, 2, 0))
	assert.InDelta(t, math.Pi/2, polar, 1e-12)
	assert.InDelta(t, math.Pi/2, azimuth, 1e-12)

	s := Spherical{R: 2, Polar: 1.1, Azimuth: -2.3}
	back := ToSpherical(s.Cartesian())
	assert.InDelta(t, s.R, back.R, 1e-12)
	assert.InDelta(t, s.Polar, back.Polar, 1e-12)
	assert.InDelta(t, s.Azimuth, back.Azimuth, 1e-12)
}

func TestRandomUnit(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		assert.InDelta(t, 1.0, r3.Norm(RandomUnit(rng)), 1e-12)
	}
}
