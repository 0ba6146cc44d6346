// Package grid provides a uniform bucket grid over a cubic domain for
// constant-time rejection tests during random placement.
//
// The domain [min, max]^3 is cut into NumCells^3 cubes of side
// CellSize = (max-min)/NumCells with NumCells = floor((max-min)/minL), so
// CellSize >= minL always holds. Any stored point within CellSize of a
// candidate therefore lies in the candidate's own cell or one of its 26
// neighbours; cells on the domain boundary only look inward.
//
// Correctness depends on the caller: every clearance passed to [Grid.Overlaps]
// or [Grid.OverlapsRadius] must not exceed CellSize. Sizing minL to the
// largest required separation satisfies this by construction.
package grid

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// Item is a stored point with an optional exclusion radius.
type Item struct {
	Pos    r3.Vec
	Radius float64
}

// Grid is a cubic bucket index. It is not safe for concurrent use.
type Grid struct {
	min      float64
	max      float64
	cellSize float64
	numCells int
	cells    [][]Item
	count    int
}

// New constructs an empty grid over [minPt, maxPt]^3 whose cells are at
// least minL wide.
func New(minPt, maxPt, minL float64) (*Grid, error) {
	if err := errors.ValidateDomain(minPt, maxPt); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("grid cell length", minL); err != nil {
		return nil, err
	}

	span := maxPt - minPt
	n := max(int(math.Floor(span/minL)), 1)

	return &Grid{
		min:      minPt,
		max:      maxPt,
		cellSize: span / float64(n),
		numCells: n,
		cells:    make([][]Item, n*n*n),
	}, nil
}

// NumCells returns the number of cells along each axis.
func (g *Grid) NumCells() int { return g.numCells }

// CellSize returns the side length of one cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Len returns the number of stored points.
func (g *Grid) Len() int { return g.count }

// CellOf returns the integer cell coordinates of p. Coordinates outside the
// domain (including points exactly on the max face) are clamped to the
// nearest boundary cell.
func (g *Grid) CellOf(p r3.Vec) (i, j, k int) {
	return g.axisCell(p.X), g.axisCell(p.Y), g.axisCell(p.Z)
}

func (g *Grid) axisCell(v float64) int {
	c := int(math.Floor((v - g.min) / g.cellSize))
	if c < 0 {
		return 0
	}
	if c >= g.numCells {
		return g.numCells - 1
	}
	return c
}

func (g *Grid) index(i, j, k int) int {
	return (i*g.numCells+j)*g.numCells + k
}

// Insert stores p with zero radius.
func (g *Grid) Insert(p r3.Vec) {
	g.InsertRadius(p, 0)
}

// InsertRadius stores p with exclusion radius r.
func (g *Grid) InsertRadius(p r3.Vec, r float64) {
	idx := g.index(g.CellOf(p))
	g.cells[idx] = append(g.cells[idx], Item{Pos: p, Radius: r})
	g.count++
}

// Overlaps reports whether any stored point lies within dist of p.
func (g *Grid) Overlaps(p r3.Vec, dist float64) bool {
	return g.any(p, func(it Item) bool {
		return r3.Norm(r3.Sub(it.Pos, p)) <= dist
	})
}

// OverlapsRadius reports whether p, with exclusion radius r, conflicts with a
// stored point: |p-q| <= r + q.Radius.
func (g *Grid) OverlapsRadius(p r3.Vec, r float64) bool {
	return g.any(p, func(it Item) bool {
		return r3.Norm(r3.Sub(it.Pos, p)) <= r+it.Radius
	})
}

// any scans the neighbourhood of p and stops at the first item for which
// conflict returns true.
func (g *Grid) any(p r3.Vec, conflict func(Item) bool) bool {
	ci, cj, ck := g.CellOf(p)
	last := g.numCells - 1
	for i := max(ci-1, 0); i <= min(ci+1, last); i++ {
		for j := max(cj-1, 0); j <= min(cj+1, last); j++ {
			for k := max(ck-1, 0); k <= min(ck+1, last); k++ {
				for _, it := range g.cells[g.index(i, j, k)] {
					if conflict(it) {
						return true
					}
				}
			}
		}
	}
	return false
}

// Neighbors calls fn for every stored item in the neighbourhood of p.
// Iteration stops early when fn returns false.
func (g *Grid) Neighbors(p r3.Vec, fn func(Item) bool) {
	g.any(p, func(it Item) bool { return !fn(it) })
}
