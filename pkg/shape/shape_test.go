package shape

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/geom"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func TestSphereSolid(t *testing.T) {
	center := r3.Vec{X: 10, Y: -5, Z: 2}
	pts := Sphere(1, 4, 0, 3).Sample(newRNG(1), center)

	// Expected count is density * (4/3)πr³ ≈ 268.
	assert.InDelta(t, 268, len(pts), 60)
	for _, p := range pts {
		require.LessOrEqual(t, r3.Norm(r3.Sub(p.Pos, center)), 4.0)
		require.Equal(t, 3, p.Type)
	}
}

func TestSphereShell(t *testing.T) {
	pts := Sphere(2, 5, 4, 1).Sample(newRNG(2), r3.Vec{})
	require.NotEmpty(t, pts)
	for _, p := range pts {
		d := r3.Norm(p.Pos)
		require.GreaterOrEqual(t, d, 4.0)
		require.LessOrEqual(t, d, 5.0)
	}
}

func TestEllipsoidAxes(t *testing.T) {
	e := Ellipsoid{Density: 1, Outer: r3.Vec{X: 6, Y: 2, Z: 2}}
	pts := e.Sample(newRNG(3), r3.Vec{})
	require.NotEmpty(t, pts)
	for _, p := range pts {
		require.LessOrEqual(t, math.Abs(p.Pos.Y), 2.0)
		require.LessOrEqual(t, math.Abs(p.Pos.Z), 2.0)
		require.LessOrEqual(t, scaledNorm2(p.Pos, e.Outer), 1.0)
	}
}

func TestCylinderOrientation(t *testing.T) {
	a := r3.Vec{X: 1, Y: 2, Z: 3}
	b := r3.Vec{X: 9, Y: -4, Z: 7}
	c := Between(a, b, 1.5, 2, 2)
	mid := r3.Scale(0.5, r3.Add(a, b))
	pts := c.Sample(newRNG(4), mid)
	require.NotEmpty(t, pts)

	for _, p := range pts {
		d, closest := geom.PointSegmentDistance(p.Pos, a, b)
		require.LessOrEqual(t, d, 1.5+1e-9, "point outside the cylinder radius")
		// Points project inside the segment, so the closest point is interior
		// or an end cap.
		require.LessOrEqual(t, r3.Norm(r3.Sub(closest, mid)), c.Length/2+1e-9)
		require.Equal(t, 2, p.Type)
	}
}

func TestCylinderZeroAngles(t *testing.T) {
	c := Cylinder{Density: 5, Length: 4, Radius: 1}
	for _, p := range c.Sample(newRNG(5), r3.Vec{}) {
		require.LessOrEqual(t, math.Abs(p.Pos.Z), 2.0)
		require.LessOrEqual(t, math.Hypot(p.Pos.X, p.Pos.Y), 1.0)
	}
}

func TestOnion(t *testing.T) {
	o, err := NewOnion([]float64{3, 2, 1}, []float64{0.5, 0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, 6.0, o.Radius())

	pts := o.Sample(newRNG(6), r3.Vec{})
	bounds := map[int][2]float64{1: {0, 3}, 2: {3, 5}, 3: {5, 6}}
	seen := map[int]bool{}
	for _, p := range pts {
		b, ok := bounds[p.Type]
		require.True(t, ok, "unexpected type %d", p.Type)
		d := r3.Norm(p.Pos)
		require.GreaterOrEqual(t, d, b[0])
		require.LessOrEqual(t, d, b[1])
		seen[p.Type] = true
	}
	assert.Len(t, seen, 3)

	_, err = NewOnion([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = NewOnion([]float64{0}, []float64{1})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestPatchCenters(t *testing.T) {
	s, err := NewPatchShell(10, ScalarArea(20), 6, 0.3)
	require.NoError(t, err)

	centers := s.Centers()
	require.Len(t, centers, 6)
	for i, c := range centers {
		assert.Equal(t, 10.0, c.R)
		assert.InDelta(t, math.Acos(1-2*(float64(i)+0.5)/6), c.Polar, 1e-12)
	}
	assert.Less(t, centers[0].Polar, centers[5].Polar)
}

func TestPatchShellOnSphere(t *testing.T) {
	s, err := NewPatchShell(12, PerPatch([]float64{300, 200, 900}), 3, 0.3)
	require.NoError(t, err)
	center := r3.Vec{X: 1, Y: 1, Z: 1}

	pts := s.Sample(newRNG(7), center)
	// n = int(sqrt(0.3*Y)) azimuths per row, rows = next power of two >= n.
	want := 9*16 + 7*8 + 16*16
	assert.Len(t, pts, want)
	for _, p := range pts {
		require.InDelta(t, 12, r3.Norm(r3.Sub(p.Pos, center)), 1e-9)
		require.Equal(t, 0, p.Type)
	}
}

func TestPatchCapExtent(t *testing.T) {
	s := PatchShell{Radius: 5, Density: 1}
	const area = 40.0
	pts := s.patch(newRNG(8), area, geom.Spherical{R: 5}, nil)
	require.NotEmpty(t, pts)

	p := area / (2 * math.Pi * 25)
	maxPolar := math.Acos(1-p) / 2
	for _, pt := range pts {
		polar, _ := geom.Orientation(pt.Pos)
		require.LessOrEqual(t, polar, maxPolar+1e-9)
	}
}

func TestNewPatchShellRejects(t *testing.T) {
	_, err := NewPatchShell(0, ScalarArea(1), 1, 1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = NewPatchShell(1, PerPatch([]float64{1}), 2, 1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = NewPatchShell(1, ScalarArea(100), 1, 1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestTranslateAndPositions(t *testing.T) {
	pts := []Point{{Pos: r3.Vec{X: 1}}, {Pos: r3.Vec{Y: 1}, Type: 2}}
	Translate(pts, r3.Vec{Z: 3})
	assert.Equal(t, []r3.Vec{{X: 1, Z: 3}, {Y: 1, Z: 3}}, Positions(pts))
}
