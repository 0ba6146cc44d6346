package placement

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/grid"
)

// Grid checks candidates against a uniform bucket grid whose cells are at
// least as wide as the largest pair separation.
type Grid struct{}

// Name implements Strategy.
func (Grid) Name() string { return NameGrid }

// Place implements Strategy.
func (Grid) Place(rng *rand.Rand, req Request) ([]r3.Vec, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		return []r3.Vec{}, nil
	}

	minL := req.Separation.Max()
	if minL <= 0 {
		minL = req.Max - req.Min
	}
	g, err := grid.New(req.Min, req.Max, minL)
	if err != nil {
		return nil, err
	}

	var conflicts func(p r3.Vec, i int) bool
	var accept func(p r3.Vec, i int)
	if sep := req.Separation; sep.IsPerPoint() {
		radii := sep.Radii()
		conflicts = func(p r3.Vec, i int) bool { return g.OverlapsRadius(p, radii[i]) }
		accept = func(p r3.Vec, i int) { g.InsertRadius(p, radii[i]) }
	} else {
		d := sep.Max()
		conflicts = func(p r3.Vec, _ int) bool { return g.Overlaps(p, d) }
		accept = func(p r3.Vec, _ int) { g.Insert(p) }
	}

	return sampleLoop(NameGrid, rng, req, conflicts, accept), nil
}
