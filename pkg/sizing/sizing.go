// Package sizing draws particle dimensions from log-normal distributions and
// fills a box up to a target volume fraction.
//
// Means and standard deviations are given in linear space and converted to
// the parameters of the underlying normal with [LogNormalParams]. Draws come
// from gonum's distuv.LogNormal seeded by the caller's generator.
package sizing

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// Dist produces positive random sizes.
type Dist interface {
	Rand() float64
}

// LogNormalParams converts a linear mean and standard deviation to the mu and
// sigma of the underlying normal distribution.
func LogNormalParams(mean, std float64) (mu, sigma float64) {
	sigma = math.Sqrt(math.Log(1 + (std/mean)*(std/mean)))
	mu = math.Log(mean) - sigma*sigma/2
	return mu, sigma
}

// Constant always returns the same size.
type Constant float64

// Rand implements Dist.
func (c Constant) Rand() float64 { return float64(c) }

// NewLogNormal returns a log-normal distribution with the given linear mean
// and standard deviation. A zero std yields [Constant](mean).
func NewLogNormal(mean, std float64, rng *rand.Rand) (Dist, error) {
	if err := errors.ValidatePositive("mean", mean); err != nil {
		return nil, err
	}
	if err := errors.ValidateNonNegative("standard deviation", std); err != nil {
		return nil, err
	}
	if std == 0 {
		return Constant(mean), nil
	}
	mu, sigma := LogNormalParams(mean, std)
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: rng}, nil
}

// Draw returns n samples of d.
func Draw(d Dist, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

// SphereVolume returns the volume of a sphere of radius r.
func SphereVolume(r float64) float64 {
	return 4.0 / 3.0 * math.Pi * r * r * r
}

// CoreShell is a two-layer sphere.
type CoreShell struct {
	Core  float64 `json:"core"`  // inner radius
	Outer float64 `json:"outer"` // core + shell thickness
}

// FillCoreShell draws core/shell spheres until the next one would push the
// total outer volume past boxLen³·fraction.
func FillCoreShell(boxLen, fraction float64, core, thickness Dist) ([]CoreShell, error) {
	target, err := targetVolume(boxLen, fraction)
	if err != nil {
		return nil, err
	}

	var out []CoreShell
	var total float64
	for {
		c := core.Rand()
		s := CoreShell{Core: c, Outer: c + thickness.Rand()}
		v := SphereVolume(s.Outer)
		if total+v > target {
			return out, nil
		}
		total += v
		out = append(out, s)
	}
}

// FillLayers draws one thickness per layer for each particle until the next
// particle's total radius would push the volume past boxLen³·fraction.
func FillLayers(boxLen, fraction float64, layers []Dist) ([][]float64, error) {
	target, err := targetVolume(boxLen, fraction)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one layer is required")
	}

	var out [][]float64
	var total float64
	for {
		t := make([]float64, len(layers))
		var r float64
		for k, d := range layers {
			t[k] = d.Rand()
			r += t[k]
		}
		v := SphereVolume(r)
		if total+v > target {
			return out, nil
		}
		total += v
		out = append(out, t)
	}
}

// Sum returns the sum of xs.
func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// MaxTotal returns the largest row sum.
func MaxTotal(rows [][]float64) float64 {
	var m float64
	for _, r := range rows {
		m = math.Max(m, Sum(r))
	}
	return m
}

func targetVolume(boxLen, fraction float64) (float64, error) {
	if err := errors.ValidatePositive("box length", boxLen); err != nil {
		return 0, err
	}
	if err := errors.ValidateFraction("volume fraction", fraction); err != nil {
		return 0, err
	}
	return boxLen * boxLen * boxLen * fraction, nil
}
