// Package relax untangles node/branch layouts with a force-directed update.
//
// Each iteration starts from zero forces and accumulates, already scaled by
// the learning rate:
//
//  1. Spring (Spring variant): each branch pulls or pushes its endpoints
//     toward the target length.
//  2. Walls (Confined variant): nodes within [WallRange] of a box face are
//     pushed inward in proportion to the penetration depth.
//  3. Node-node: pairs closer than ri+rj+[Clearance] repel.
//  4. Node-branch: a node closer to a foreign branch than r+cyl+Clearance is
//     pushed away; the reaction is split onto the branch endpoints by the
//     position of the closest point along the segment.
//  5. Branch-branch: branches without a shared endpoint closer than
//     2*cyl+Clearance repel, half of the force per branch, split onto the
//     endpoints the same way.
//
// Node 0 is the anchor: its force is discarded every iteration. Positions are
// then moved by their forces. A run stops early once the largest applied force
// is below the threshold; otherwise it returns the last layout of the budget.
// Non-convergence is not an error.
package relax

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/geom"
	"github.com/matzehuels/pointpack/pkg/network"
	"github.com/matzehuels/pointpack/pkg/observability"
)

// jitterScale is the size of the random nudge applied to coincident points.
const jitterScale = 1e-6

// Result is the outcome of a relaxation run.
type Result struct {
	Positions  []r3.Vec `json:"positions"`
	Iterations int      `json:"iterations"` // iterations performed; the converging one is counted
	Converged  bool     `json:"converged"`
	MaxForce   float64  `json:"max_force"` // largest force applied in the last iteration
}

// Run relaxes a copy of positions. radii has one entry per node and branches
// index into positions. The input slice is not modified.
func Run(positions []r3.Vec, radii []float64, branches []network.Branch, opts Options, rng *rand.Rand) (Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if err := validateInput(positions, radii, branches); err != nil {
		return Result{}, err
	}

	r := &relaxer{
		pos:      append([]r3.Vec(nil), positions...),
		force:    make([]r3.Vec, len(positions)),
		radii:    radii,
		branches: branches,
		opts:     opts,
		rng:      rng,
	}
	return r.run(), nil
}

func validateInput(positions []r3.Vec, radii []float64, branches []network.Branch) error {
	n := len(positions)
	if len(radii) != n {
		return errors.New(errors.ErrCodeInvalidInput, "got %d radii for %d nodes", len(radii), n)
	}
	for k, b := range branches {
		if b.From < 0 || b.From >= n || b.To < 0 || b.To >= n {
			return errors.New(errors.ErrCodeInvalidInput, "branch %d (%v) references a missing node", k, b)
		}
		if b.From == b.To {
			return errors.New(errors.ErrCodeInvalidInput, "branch %d is a self loop on node %d", k, b.From)
		}
	}
	return nil
}

type relaxer struct {
	pos      []r3.Vec
	force    []r3.Vec
	radii    []float64
	branches []network.Branch
	opts     Options
	rng      *rand.Rand
}

func (r *relaxer) run() Result {
	logger := r.opts.Logger
	start := time.Now()
	observability.Relax().OnRelaxStart(len(r.pos), len(r.branches), r.opts.Iterations)

	res := Result{}
	for it := range r.opts.Iterations {
		maxF := r.step()
		res.Iterations = it + 1
		res.MaxForce = maxF

		if r.opts.LogEvery > 0 && (it+1)%r.opts.LogEvery == 0 {
			logger.Debug("relax", "iteration", it+1, "max_force", maxF)
		}
		if maxF < r.opts.ForceStopThreshold {
			res.Converged = true
			break
		}
	}
	res.Positions = r.pos

	logger.Debug("relax finished", "iterations", res.Iterations, "converged", res.Converged, "max_force", res.MaxForce)
	observability.Relax().OnRelaxComplete(res.Iterations, res.Converged, res.MaxForce, time.Since(start))
	return res
}

// step performs one iteration and returns the largest applied force.
func (r *relaxer) step() float64 {
	clear(r.force)

	switch r.opts.Variant {
	case Spring:
		r.springs()
	case Confined:
		r.walls()
	}
	r.nodeNode()
	r.nodeBranch()
	r.branchBranch()

	if len(r.force) > 0 {
		r.force[0] = r3.Vec{}
	}

	var maxF float64
	for i, f := range r.force {
		r.pos[i] = r3.Add(r.pos[i], f)
		maxF = math.Max(maxF, r3.Norm(f))
	}
	return maxF
}

// =============================================================================
// Force terms
// =============================================================================

func (r *relaxer) springs() {
	lr := r.opts.LearningRate
	for _, b := range r.branches {
		d := r3.Sub(r.pos[b.To], r.pos[b.From])
		dir, length := r.direction(d)
		f := r3.Scale(lr*(length-b.Target), dir)
		r.force[b.From] = r3.Add(r.force[b.From], f)
		r.force[b.To] = r3.Sub(r.force[b.To], f)
	}
}

func (r *relaxer) walls() {
	k := r.opts.LearningRate * r.opts.RepulsionStrength
	inner := r.opts.BoxLength/2 - WallRange
	push := func(v float64) float64 {
		switch {
		case v > inner:
			return -k * (v - inner)
		case v < -inner:
			return k * (-inner - v)
		}
		return 0
	}
	for i, p := range r.pos {
		r.force[i] = r3.Add(r.force[i], r3.Vec{X: push(p.X), Y: push(p.Y), Z: push(p.Z)})
	}
}

func (r *relaxer) nodeNode() {
	k := r.opts.LearningRate * r.opts.RepulsionStrength
	for i := range r.pos {
		for j := i + 1; j < len(r.pos); j++ {
			threshold := r.radii[i] + r.radii[j] + Clearance
			d := r3.Sub(r.pos[i], r.pos[j])
			if r3.Norm(d) >= threshold {
				continue
			}
			dir, dist := r.direction(d)
			f := r3.Scale(k*(threshold-dist), dir)
			r.force[i] = r3.Add(r.force[i], f)
			r.force[j] = r3.Sub(r.force[j], f)
		}
	}
}

func (r *relaxer) nodeBranch() {
	k := r.opts.LearningRate * r.opts.RepulsionStrength
	cyl := r.opts.CylinderRadius
	for i, p := range r.pos {
		for _, b := range r.branches {
			if b.Has(i) {
				continue
			}
			c, t := geom.ClosestOnSegment(p, r.pos[b.From], r.pos[b.To])
			threshold := r.radii[i] + cyl + Clearance
			d := r3.Sub(p, c)
			if r3.Norm(d) >= threshold {
				continue
			}
			dir, dist := r.direction(d)
			f := r3.Scale(k*(threshold-dist), dir)
			r.force[i] = r3.Add(r.force[i], f)
			r.force[b.From] = r3.Sub(r.force[b.From], r3.Scale(1-t, f))
			r.force[b.To] = r3.Sub(r.force[b.To], r3.Scale(t, f))
		}
	}
}

func (r *relaxer) branchBranch() {
	k := r.opts.LearningRate * r.opts.RepulsionStrength
	threshold := 2*r.opts.CylinderRadius + Clearance
	for x, b1 := range r.branches {
		for _, b2 := range r.branches[x+1:] {
			if b1.Shares(b2) {
				continue
			}
			c1, c2, s, t := geom.ClosestBetweenSegments(r.pos[b1.From], r.pos[b1.To], r.pos[b2.From], r.pos[b2.To])
			d := r3.Sub(c1, c2)
			if r3.Norm(d) >= threshold {
				continue
			}
			dir, dist := r.direction(d)
			half := r3.Scale(0.5*k*(threshold-dist), dir)
			r.force[b1.From] = r3.Add(r.force[b1.From], r3.Scale(1-s, half))
			r.force[b1.To] = r3.Add(r.force[b1.To], r3.Scale(s, half))
			r.force[b2.From] = r3.Sub(r.force[b2.From], r3.Scale(1-t, half))
			r.force[b2.To] = r3.Sub(r.force[b2.To], r3.Scale(t, half))
		}
	}
}

// direction returns the unit vector and length of d. A vanishing d is nudged
// by a random perturbation first.
func (r *relaxer) direction(d r3.Vec) (r3.Vec, float64) {
	if r3.Norm2(d) <= geom.Epsilon {
		d = r3.Add(d, r3.Scale(jitterScale, geom.RandomUnit(r.rng)))
	}
	n := r3.Norm(d)
	return r3.Scale(1/n, d), n
}
