package network

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/geom"
)

// Branch is an edge of the layout with its rest length.
type Branch struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Target float64 `json:"target"`
}

func (b Branch) String() string {
	return fmt.Sprintf("%d-%d (%.3g)", b.From, b.To, b.Target)
}

// Shares reports whether b and o have an endpoint in common.
func (b Branch) Shares(o Branch) bool {
	return b.From == o.From || b.From == o.To || b.To == o.From || b.To == o.To
}

// Has reports whether node i is an endpoint of b.
func (b Branch) Has(i int) bool { return b.From == i || b.To == i }

// Branches lists every edge once as From < To, ordered by From then To.
// Target lengths are zero.
func (g Graph) Branches() []Branch {
	var out []Branch
	for i := range g.Len() {
		for _, j := range g[i] {
			if i < j {
				out = append(out, Branch{From: i, To: j})
			}
		}
	}
	return out
}

// WithTargets returns a copy of branches with Target set from lengths.
func WithTargets(branches []Branch, lengths []float64) ([]Branch, error) {
	if len(lengths) != len(branches) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d lengths for %d branches", len(lengths), len(branches))
	}
	out := make([]Branch, len(branches))
	for k, b := range branches {
		if err := errors.ValidatePositive("branch length", lengths[k]); err != nil {
			return nil, err
		}
		b.Target = lengths[k]
		out[k] = b
	}
	return out, nil
}

// SeedLayout places the nodes of g for relaxation.
//
// Node 0 sits at the origin. Nodes are reached breadth first; a new node that
// already has two placed neighbours is put on the circle where the spheres of
// the two branch target lengths intersect, otherwise it is put at the target
// length from its parent in a random direction. The random direction is also
// used when the two spheres do not intersect; fallbacks counts those cases.
//
// radii are the node exclusion radii; a random direction is redrawn a few
// times if it would put the node inside an already placed one.
func SeedLayout(g Graph, branches []Branch, radii []float64, rng *rand.Rand) (pos []r3.Vec, fallbacks int, err error) {
	n := g.Len()
	if len(radii) != n {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "got %d radii for %d nodes", len(radii), n)
	}
	if n == 0 {
		return []r3.Vec{}, 0, nil
	}

	target := make(map[[2]int]float64, len(branches))
	for _, b := range branches {
		target[[2]int{b.From, b.To}] = b.Target
		target[[2]int{b.To, b.From}] = b.Target
	}
	length := func(i, j int) float64 {
		if t, ok := target[[2]int{i, j}]; ok && t > 0 {
			return t
		}
		return radii[i] + radii[j]
	}

	pos = make([]r3.Vec, n)
	placed := make([]bool, n)
	placed[0] = true
	queue := []int{0}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.Neighbors(cur) {
			if placed[nb] {
				continue
			}

			other := -1
			for _, cand := range g.Neighbors(nb) {
				if cand != cur && placed[cand] {
					other = cand
					break
				}
			}

			if other >= 0 {
				angle := 2 * math.Pi * rng.Float64()
				s, ok := geom.SphereIntersectionCircle(angle, length(cur, nb), length(other, nb), pos[cur], pos[other])
				if ok {
					pos[nb] = r3.Add(pos[cur], s.Cartesian())
					placed[nb] = true
					queue = append(queue, nb)
					continue
				}
				fallbacks++
			}

			pos[nb] = randomOffset(rng, pos, placed, radii, cur, nb, length(cur, nb))
			placed[nb] = true
			queue = append(queue, nb)
		}
	}
	return pos, fallbacks, nil
}

// seedRetries bounds the redraws of a random direction.
const seedRetries = 16

func randomOffset(rng *rand.Rand, pos []r3.Vec, placed []bool, radii []float64, parent, node int, dist float64) r3.Vec {
	var p r3.Vec
	for range seedRetries {
		p = r3.Add(pos[parent], r3.Scale(dist, geom.RandomUnit(rng)))
		if !overlapsPlaced(p, pos, placed, radii, node) {
			return p
		}
	}
	return p
}

func overlapsPlaced(p r3.Vec, pos []r3.Vec, placed []bool, radii []float64, node int) bool {
	for j, q := range pos {
		if placed[j] && r3.Norm(r3.Sub(p, q)) < radii[node]+radii[j] {
			return true
		}
	}
	return false
}
