package placement

import (
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/observability"
)

// Strategy names accepted by [ByName].
const (
	NameBrute = "brute"
	NameGrid  = "grid"
	NameANN   = "ann"
)

// DefaultStrategy is used when no strategy name is given.
const DefaultStrategy = NameGrid

// Names lists the strategies known to [ByName].
var Names = []string{NameBrute, NameGrid, NameANN}

// Strategy places a set of mutually separated points.
type Strategy interface {
	// Place returns exactly req.Count points satisfying req.Separation.
	// All randomness is drawn from rng.
	Place(rng *rand.Rand, req Request) ([]r3.Vec, error)

	// Name returns the identifier used by ByName.
	Name() string
}

// Request describes one placement call.
type Request struct {
	Count      int        // number of points to place
	Min        float64    // lower domain bound on every axis
	Max        float64    // upper domain bound on every axis
	Separation Separation // pairwise clearance
}

// Validate checks the request for configuration errors.
func (r Request) Validate() error {
	if r.Count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "point count must not be negative, got %d", r.Count)
	}
	if err := errors.ValidateDomain(r.Min, r.Max); err != nil {
		return err
	}
	return r.Separation.validate(r.Count, r.Max-r.Min)
}

// candidate maps a draw u from the unit cube into the sampling sub-domain of
// point i.
func (r Request) candidate(u r3.Vec, i int) r3.Vec {
	m := r.Separation.Margin(i)
	lo := r.Min + m
	span := r.Max - m - lo
	return r3.Vec{X: lo + u.X*span, Y: lo + u.Y*span, Z: lo + u.Z*span}
}

func unitDraw(rng *rand.Rand) r3.Vec {
	return r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
}

// ByName returns the strategy registered under name. An empty name selects
// [DefaultStrategy].
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameBrute:
		return BruteForce{}, nil
	case NameGrid, "":
		return Grid{}, nil
	case NameANN:
		return ANN{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy,
		"unknown placement strategy %q (valid: %s)", name, strings.Join(Names, ", "))
}

// IsValidName reports whether name selects a known strategy.
func IsValidName(name string) bool {
	return name == "" || slices.Contains(Names, strings.ToLower(name))
}

// sampleLoop runs the shared rejection loop: draw a candidate for the next
// slot, ask conflicts, and on success hand it to accept.
func sampleLoop(name string, rng *rand.Rand, req Request,
	conflicts func(p r3.Vec, i int) bool, accept func(p r3.Vec, i int)) []r3.Vec {

	start := time.Now()
	observability.Placement().OnPlacementStart(name, req.Count)

	pts := make([]r3.Vec, 0, req.Count)
	attempts := 0
	for len(pts) < req.Count {
		i := len(pts)
		p := req.candidate(unitDraw(rng), i)
		attempts++
		if conflicts(p, i) {
			continue
		}
		accept(p, i)
		pts = append(pts, p)
	}

	observability.Placement().OnPlacementComplete(name, req.Count, attempts, time.Since(start))
	return pts
}
