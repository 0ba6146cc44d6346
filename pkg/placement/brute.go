package placement

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// BruteForce checks every candidate against all accepted points.
type BruteForce struct{}

// Name implements Strategy.
func (BruteForce) Name() string { return NameBrute }

// Place implements Strategy.
func (BruteForce) Place(rng *rand.Rand, req Request) ([]r3.Vec, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		return []r3.Vec{}, nil
	}

	var accepted []r3.Vec
	conflicts := func(p r3.Vec, i int) bool {
		for j, q := range accepted {
			if r3.Norm(r3.Sub(p, q)) <= req.Separation.Between(i, j) {
				return true
			}
		}
		return false
	}
	accept := func(p r3.Vec, _ int) { accepted = append(accepted, p) }

	return sampleLoop(NameBrute, rng, req, conflicts, accept), nil
}
