package placement

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// kmeansIterations is the number of Lloyd rounds used to train the coarse
// quantizer.
const kmeansIterations = 10

// boundSlack absorbs rounding in the triangle-inequality list bound.
const boundSlack = 1e-9

// =============================================================================
// Centroid lookup
// =============================================================================

// centroidIndex answers nearest-centroid queries through a k-d tree.
// kdtree.New reorders its input, so tree points are mapped back to list ids
// by coordinate.
type centroidIndex struct {
	tree   *kdtree.Tree
	lookup map[[3]float64]int
}

func newCentroidIndex(centroids []r3.Vec) *centroidIndex {
	pts := make(kdtree.Points, 0, len(centroids))
	lookup := make(map[[3]float64]int, len(centroids))
	for i, c := range centroids {
		key := [3]float64{c.X, c.Y, c.Z}
		if _, dup := lookup[key]; dup {
			continue
		}
		lookup[key] = i
		pts = append(pts, kdtree.Point{c.X, c.Y, c.Z})
	}
	return &centroidIndex{tree: kdtree.New(pts, false), lookup: lookup}
}

func (ci *centroidIndex) id(c kdtree.Comparable) int {
	p := c.(kdtree.Point)
	return ci.lookup[[3]float64{p[0], p[1], p[2]}]
}

// nearest returns the list id of the centroid closest to p.
func (ci *centroidIndex) nearest(p r3.Vec) int {
	c, _ := ci.tree.Nearest(kdtree.Point{p.X, p.Y, p.Z})
	return ci.id(c)
}

// nearestN returns up to n list ids ordered by increasing centroid distance.
func (ci *centroidIndex) nearestN(p r3.Vec, n int) []int {
	keep := kdtree.NewNKeeper(n)
	ci.tree.NearestSet(keep, kdtree.Point{p.X, p.Y, p.Z})

	found := make([]kdtree.ComparableDist, 0, n)
	for _, cd := range keep.Heap {
		if cd.Comparable != nil {
			found = append(found, cd)
		}
	}
	slices.SortFunc(found, func(a, b kdtree.ComparableDist) int { return cmp.Compare(a.Dist, b.Dist) })

	ids := make([]int, len(found))
	for k, cd := range found {
		ids[k] = ci.id(cd.Comparable)
	}
	return ids
}

// =============================================================================
// Inverted file index
// =============================================================================

type ivfEntry struct {
	pos r3.Vec
	id  int
}

// ivfIndex partitions accepted points into lists keyed by their nearest
// centroid. Each list tracks its covering radius so whole lists can be ruled
// out with the triangle inequality.
type ivfIndex struct {
	centroids []r3.Vec
	quant     *centroidIndex
	lists     [][]ivfEntry
	radius    []float64
	probes    int
	size      int
}

// trainIVF fits nlist centroids to samples uniform points of [lo, hi]^3.
func trainIVF(rng *rand.Rand, lo, hi float64, nlist, samples, probes int) *ivfIndex {
	train := make([]r3.Vec, samples)
	for i := range train {
		u := unitDraw(rng)
		train[i] = r3.Add(r3.Vec{X: lo, Y: lo, Z: lo}, r3.Scale(hi-lo, u))
	}

	centroids := make([]r3.Vec, nlist)
	copy(centroids, train[:nlist])

	sums := make([]r3.Vec, nlist)
	counts := make([]int, nlist)
	for range kmeansIterations {
		quant := newCentroidIndex(centroids)
		clear(sums)
		clear(counts)
		for _, p := range train {
			c := quant.nearest(p)
			sums[c] = r3.Add(sums[c], p)
			counts[c]++
		}
		for c := range centroids {
			if counts[c] > 0 {
				centroids[c] = r3.Scale(1/float64(counts[c]), sums[c])
			}
		}
	}

	return &ivfIndex{
		centroids: centroids,
		quant:     newCentroidIndex(centroids),
		lists:     make([][]ivfEntry, nlist),
		radius:    make([]float64, nlist),
		probes:    min(probes, nlist),
	}
}

// add stores p under point id.
func (x *ivfIndex) add(p r3.Vec, id int) {
	l := x.quant.nearest(p)
	x.lists[l] = append(x.lists[l], ivfEntry{pos: p, id: id})
	x.radius[l] = math.Max(x.radius[l], r3.Norm(r3.Sub(p, x.centroids[l])))
	x.size++
}

// conflicts reports whether p, placed as point i, violates the separation
// against any stored entry. The probed lists are scanned first as a cheap
// approximate filter; a candidate that passes is confirmed against every
// other list that could still hold a point within reach.
func (x *ivfIndex) conflicts(p r3.Vec, i int, sep Separation) bool {
	if x.size == 0 {
		return false
	}

	probed := x.quant.nearestN(p, x.probes)
	for _, l := range probed {
		if x.scan(l, p, i, sep) {
			return true
		}
	}

	reach := sep.reach(i)
	for l, c := range x.centroids {
		if len(x.lists[l]) == 0 || slices.Contains(probed, l) {
			continue
		}
		if r3.Norm(r3.Sub(p, c))-x.radius[l] > reach+boundSlack {
			continue
		}
		if x.scan(l, p, i, sep) {
			return true
		}
	}
	return false
}

func (x *ivfIndex) scan(l int, p r3.Vec, i int, sep Separation) bool {
	for _, e := range x.lists[l] {
		if r3.Norm(r3.Sub(p, e.pos)) <= sep.Between(i, e.id) {
			return true
		}
	}
	return false
}
