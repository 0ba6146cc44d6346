// Package placement generates random, mutually separated point sets inside a
// cubic domain.
//
// # Overview
//
// Every strategy solves the same problem: draw exactly Count points from
// [Min, Max]^3 such that each pair (i, j) is strictly farther apart than
// [Separation.Between](i, j). Candidates are produced by rejection sampling;
// a candidate that lies within the required separation of an accepted point
// is discarded and a new one drawn.
//
// # Separation
//
// A [Separation] is either [Uniform] (one minimum distance for all pairs) or
// [PerPoint] (exclusion radii, so pair i, j must clear radii[i]+radii[j]).
// With per-point radii, point i is also sampled from the shrunken domain
// [Min+radii[i], Max-radii[i]] so the object it represents stays inside.
//
// # Strategies
//
//   - [BruteForce] scans all accepted points for each candidate. O(N²); used
//     as a reference oracle and for small N.
//   - [Grid] delegates conflict checks to a uniform bucket grid
//     (see package grid) sized to the largest pair separation.
//   - [ANN] keeps accepted points in an inverted-file index whose coarse
//     quantizer is trained by k-means and queried through a k-d tree.
//     Candidates are drawn in batches and prefiltered by an approximate
//     probe of the nearest lists; survivors are confirmed exactly.
//
// # Termination
//
// There is no internal attempt limit. Requesting more points than the domain
// can physically hold at the given separation never returns; choosing a
// feasible density is the caller's responsibility.
//
// # Usage
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
//	pts, err := placement.Grid{}.Place(rng, placement.Request{
//	    Count:      50,
//	    Min:        -100,
//	    Max:        100,
//	    Separation: placement.Uniform(10),
//	})
package placement
