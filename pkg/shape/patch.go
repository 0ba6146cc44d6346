package shape

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/geom"
)

// PatchArea is the surface area of the patches of a [PatchShell]: either one
// value for all patches or one value per patch.
type PatchArea struct {
	scalar   float64
	perPatch []float64
}

// ScalarArea gives every patch area a.
func ScalarArea(a float64) PatchArea { return PatchArea{scalar: a} }

// PerPatch gives patch i the area areas[i].
func PerPatch(areas []float64) PatchArea { return PatchArea{perPatch: areas} }

// At returns the area of patch i.
func (a PatchArea) At(i int) float64 {
	if a.perPatch != nil {
		return a.perPatch[i]
	}
	return a.scalar
}

// PatchShell scatters Count circular patches over a sphere of radius Radius.
// Patch centers follow a Fibonacci spiral, the whole arrangement is then
// rotated at random.
type PatchShell struct {
	Radius  float64
	Area    PatchArea
	Count   int
	Density float64
}

// NewPatchShell validates the patch configuration.
func NewPatchShell(radius float64, area PatchArea, count int, density float64) (PatchShell, error) {
	if err := errors.ValidatePositive("patch shell radius", radius); err != nil {
		return PatchShell{}, err
	}
	if count < 0 {
		return PatchShell{}, errors.New(errors.ErrCodeInvalidInput, "patch count must not be negative, got %d", count)
	}
	if area.perPatch != nil && len(area.perPatch) != count {
		return PatchShell{}, errors.New(errors.ErrCodeInvalidInput,
			"got %d patch areas for %d patches", len(area.perPatch), count)
	}
	sphere := 4 * math.Pi * radius * radius
	for i := range count {
		a := area.At(i)
		if a < 0 || a > sphere {
			return PatchShell{}, errors.New(errors.ErrCodeInvalidInput,
				"patch %d area %v outside [0, %v]", i, a, sphere)
		}
	}
	return PatchShell{Radius: radius, Area: area, Count: count, Density: density}, nil
}

// Centers returns the Fibonacci spiral patch centers in spherical
// coordinates.
func (s PatchShell) Centers() []geom.Spherical {
	golden := (1 + math.Sqrt(5)) / 2
	out := make([]geom.Spherical, s.Count)
	for i := range out {
		idx := float64(i) + 0.5
		out[i] = geom.Spherical{
			R:       s.Radius,
			Polar:   math.Acos(1 - 2*idx/float64(s.Count)),
			Azimuth: 2 * math.Pi * idx / golden,
		}
	}
	return out
}

// Sample implements Sampler. Patch points have no type.
func (s PatchShell) Sample(rng *rand.Rand, center r3.Vec) []Point {
	var out []Point
	for i, c := range s.Centers() {
		out = s.patch(rng, s.Area.At(i), c, out)
	}

	rot := randomRotation(rng)
	for i := range out {
		out[i].Pos = r3.Add(rot.Rotate(out[i].Pos), center)
	}
	return out
}

// patch samples one cap of the given area around c and appends it to out.
// Polar angles are stratified over rows, azimuths are uniform.
func (s PatchShell) patch(rng *rand.Rand, area float64, c geom.Spherical, out []Point) []Point {
	n := int(math.Sqrt(s.Density * area))
	if n < 1 {
		return out
	}
	rows := 1 << int(math.Ceil(math.Log2(float64(n))))

	p := area / (2 * math.Pi * s.Radius * s.Radius)
	spread := 1 - math.Cos(math.Acos(1-p)/2)

	rotY := r3.NewRotation(c.Polar, axisY)
	rotZ := r3.NewRotation(c.Azimuth, axisZ)
	for row := range rows {
		v := (float64(row) + rng.Float64()) / float64(rows)
		polar := math.Acos(1 - v*spread)
		for range n {
			local := geom.Spherical{R: s.Radius, Polar: polar, Azimuth: 2 * math.Pi * rng.Float64()}
			out = append(out, Point{Pos: rotZ.Rotate(rotY.Rotate(local.Cartesian()))})
		}
	}
	return out
}

// randomRotation draws a rotation uniformly from SO(3).
func randomRotation(rng *rand.Rand) r3.Rotation {
	u1, u2, u3 := rng.Float64(), 2*math.Pi*rng.Float64(), 2*math.Pi*rng.Float64()
	a, b := math.Sqrt(1-u1), math.Sqrt(u1)
	return r3.Rotation(quat.Number{
		Real: b * math.Cos(u3),
		Imag: a * math.Sin(u2),
		Jmag: a * math.Cos(u2),
		Kmag: b * math.Sin(u3),
	})
}
