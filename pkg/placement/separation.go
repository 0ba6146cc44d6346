package placement

import (
	"fmt"
	"math"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// Separation is the pairwise clearance requirement of a placement request.
// The zero value is a uniform separation of 0.
type Separation struct {
	perPoint  bool
	dist      float64
	radii     []float64
	maxRadius float64
}

// Uniform requires every pair of points to be farther apart than d.
func Uniform(d float64) Separation {
	return Separation{dist: d}
}

// PerPoint assigns each point an exclusion radius. Points i and j must be
// farther apart than radii[i]+radii[j]. The slice is not copied.
func PerPoint(radii []float64) Separation {
	var m float64
	for _, r := range radii {
		m = math.Max(m, r)
	}
	return Separation{perPoint: true, radii: radii, maxRadius: m}
}

// IsPerPoint reports whether s carries per-point radii.
func (s Separation) IsPerPoint() bool { return s.perPoint }

// Radii returns the per-point radii, or nil for a uniform separation.
func (s Separation) Radii() []float64 { return s.radii }

// Between returns the required clearance between points i and j.
func (s Separation) Between(i, j int) float64 {
	if s.perPoint {
		return s.radii[i] + s.radii[j]
	}
	return s.dist
}

// Margin returns how far point i must stay from the domain faces.
func (s Separation) Margin(i int) float64 {
	if s.perPoint {
		return s.radii[i]
	}
	return 0
}

// Max returns the largest clearance any pair can require.
func (s Separation) Max() float64 {
	if s.perPoint {
		return 2 * s.maxRadius
	}
	return s.dist
}

// reach bounds Between(i, j) over all j.
func (s Separation) reach(i int) float64 {
	if s.perPoint {
		return s.radii[i] + s.maxRadius
	}
	return s.dist
}

func (s Separation) String() string {
	if s.perPoint {
		return fmt.Sprintf("per-point(%d radii, max %.3g)", len(s.radii), s.maxRadius)
	}
	return fmt.Sprintf("uniform(%.3g)", s.dist)
}

func (s Separation) validate(count int, span float64) error {
	if !s.perPoint {
		return errors.ValidateNonNegative("separation", s.dist)
	}
	if len(s.radii) != count {
		return errors.New(errors.ErrCodeInvalidInput,
			"per-point separation has %d radii for %d points", len(s.radii), count)
	}
	for i, r := range s.radii {
		if r < 0 || math.IsNaN(r) {
			return errors.New(errors.ErrCodeInvalidInput, "radius %d must not be negative, got %v", i, r)
		}
		if 2*r >= span {
			return errors.New(errors.ErrCodeInvalidInput,
				"radius %d (%v) leaves no room in a domain of width %v", i, r, span)
		}
	}
	return nil
}
