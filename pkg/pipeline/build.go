package pipeline

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/geom"
	"github.com/matzehuels/pointpack/pkg/network"
	"github.com/matzehuels/pointpack/pkg/placement"
	"github.com/matzehuels/pointpack/pkg/relax"
	"github.com/matzehuels/pointpack/pkg/scene"
	"github.com/matzehuels/pointpack/pkg/sizing"
)

// Stream offsets keep the build and sample stages on independent random
// sequences, so a cached scene samples exactly like a fresh one.
const (
	buildStream  = 0
	sampleStream = 1
)

func newRNG(seed, stream uint64) *rand.Rand {
	s := seed + stream*0x9e3779b97f4a7c15
	return rand.New(rand.NewPCG(s, s^0xdeadbeef))
}

// Build computes a scene without consulting any cache. opts must have had
// SetDefaults and Validate applied.
func Build(ctx context.Context, opts Options) (*scene.Scene, error) {
	rng := newRNG(opts.Seed, buildStream)
	s := scene.New(opts.Kind, opts.BoxLength, opts.Seed)
	if opts.Kind != scene.KindNetwork {
		s.Strategy = opts.Strategy
	}

	var err error
	switch opts.Kind {
	case scene.KindSpheres:
		err = buildSpheres(ctx, rng, s, opts)
	case scene.KindOnions, scene.KindPatchy:
		err = buildOnions(ctx, rng, s, opts)
	case scene.KindNetwork:
		err = buildNetwork(ctx, rng, s, opts)
	default:
		err = fmt.Errorf("unsupported kind %q", opts.Kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// strategy resolves the placement strategy, carrying the ANN tuning.
func strategy(opts Options) (placement.Strategy, error) {
	st, err := placement.ByName(opts.Strategy)
	if err != nil {
		return nil, err
	}
	if _, ok := st.(placement.ANN); ok {
		return opts.ANN, nil
	}
	return st, nil
}

// buildSpheres draws core/shell radii until the volume fraction is reached,
// then places the centers with per-particle clearance.
func buildSpheres(ctx context.Context, rng *rand.Rand, s *scene.Scene, opts Options) error {
	sp := opts.Spheres
	core, err := sizing.NewLogNormal(sp.CoreMean, sp.CoreStd, rng)
	if err != nil {
		return fmt.Errorf("core radius: %w", err)
	}
	thickStd := math.Sqrt(sp.OuterStd*sp.OuterStd - sp.CoreStd*sp.CoreStd)
	thick, err := sizing.NewLogNormal(sp.OuterMean-sp.CoreMean, thickStd, rng)
	if err != nil {
		return fmt.Errorf("shell thickness: %w", err)
	}

	spheres, err := sizing.FillCoreShell(opts.BoxLength, opts.Fraction, core, thick)
	if err != nil {
		return err
	}
	opts.Logger.Debug("sized spheres", "count", len(spheres))
	if err := ctx.Err(); err != nil {
		return err
	}

	radii := make([]float64, len(spheres))
	for i, sh := range spheres {
		radii[i] = sh.Outer
	}
	half := opts.BoxLength / 2
	centers, err := place(rng, opts, placement.Request{
		Count:      len(spheres),
		Min:        -half,
		Max:        half,
		Separation: placement.PerPoint(radii),
	})
	if err != nil {
		return err
	}

	s.Particles = make([]scene.Particle, len(spheres))
	for i, sh := range spheres {
		s.Particles[i] = scene.Particle{Center: centers[i], Layers: []float64{sh.Core, sh.Outer - sh.Core}}
	}
	return nil
}

// buildOnions draws shell thicknesses until the volume fraction is reached
// and places centers at twice the largest outer radius in a domain shrunk by
// that radius.
func buildOnions(ctx context.Context, rng *rand.Rand, s *scene.Scene, opts Options) error {
	on := opts.Onions
	layers := make([]sizing.Dist, len(on.ThicknessMean))
	for k := range layers {
		d, err := sizing.NewLogNormal(on.ThicknessMean[k], on.ThicknessStd[k], rng)
		if err != nil {
			return fmt.Errorf("shell %d thickness: %w", k, err)
		}
		layers[k] = d
	}

	rows, err := sizing.FillLayers(opts.BoxLength, opts.Fraction, layers)
	if err != nil {
		return err
	}
	opts.Logger.Debug("sized onions", "count", len(rows), "shells", len(layers))
	if err := ctx.Err(); err != nil {
		return err
	}

	maxR := sizing.MaxTotal(rows)
	half := opts.BoxLength / 2
	centers, err := place(rng, opts, placement.Request{
		Count:      len(rows),
		Min:        -half + maxR,
		Max:        half - maxR,
		Separation: placement.Uniform(2 * maxR),
	})
	if err != nil {
		return err
	}

	s.Particles = make([]scene.Particle, len(rows))
	for i, row := range rows {
		s.Particles[i] = scene.Particle{Center: centers[i], Layers: row}
	}
	return nil
}

func place(rng *rand.Rand, opts Options, req placement.Request) ([]r3.Vec, error) {
	st, err := strategy(opts)
	if err != nil {
		return nil, err
	}
	pts, err := st.Place(rng, req)
	if err != nil {
		return nil, fmt.Errorf("place %d centers (%s): %w", req.Count, st.Name(), err)
	}
	opts.Logger.Debug("placed centers", "count", len(pts), "strategy", st.Name(), "separation", req.Separation)
	return pts, nil
}

// Graph returns the topology a network scene with opts would use. It draws
// from the same stream as Build, so the result matches the scene's branches.
func Graph(opts Options) (network.Graph, error) {
	opts.Kind = scene.KindNetwork
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return network.Build(opts.Network.Nodes, opts.Network.PerNode, newRNG(opts.Seed, buildStream))
}

// buildNetwork builds a regular graph, gives every branch a target length of
// its free length plus both node radii, seeds the layout and relaxes it.
// The confined variant starts from uniform positions in the box instead.
func buildNetwork(ctx context.Context, rng *rand.Rand, s *scene.Scene, opts Options) error {
	nw := opts.Network

	g, err := network.Build(nw.Nodes, nw.PerNode, rng)
	if err != nil {
		return err
	}
	radiusDist, err := sizing.NewLogNormal(nw.RadiusMean, nw.RadiusStd, rng)
	if err != nil {
		return fmt.Errorf("node radius: %w", err)
	}
	radii := sizing.Draw(radiusDist, nw.Nodes)

	branches := g.Branches()
	lengthDist, err := sizing.NewLogNormal(nw.BranchMean, nw.BranchStd, rng)
	if err != nil {
		return fmt.Errorf("branch length: %w", err)
	}
	lengths := sizing.Draw(lengthDist, len(branches))
	for k, b := range branches {
		lengths[k] += radii[b.From] + radii[b.To]
	}
	branches, err = network.WithTargets(branches, lengths)
	if err != nil {
		return err
	}

	var initial []r3.Vec
	fallbacks := 0
	if nw.Relax.Variant == relax.Confined {
		half := opts.BoxLength / 2
		initial = make([]r3.Vec, nw.Nodes)
		for i := range initial {
			initial[i] = geom.RandomInCube(rng, -half, half)
		}
	} else {
		initial, fallbacks, err = network.SeedLayout(g, branches, radii, rng)
		if err != nil {
			return err
		}
		if fallbacks > 0 {
			opts.Logger.Debug("seed layout used random directions", "fallbacks", fallbacks)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := relax.Run(initial, radii, branches, nw.Relax, rng)
	if err != nil {
		return fmt.Errorf("relax: %w", err)
	}
	if !res.Converged {
		opts.Logger.Warn("relaxation did not converge", "iterations", res.Iterations, "max_force", res.MaxForce)
	}

	s.Nodes = make([]scene.Node, nw.Nodes)
	for i := range s.Nodes {
		s.Nodes[i] = scene.Node{Pos: res.Positions[i], Radius: radii[i]}
	}
	s.Branches = branches
	s.Relax = &scene.RelaxSummary{
		Iterations: res.Iterations,
		Converged:  res.Converged,
		MaxForce:   res.MaxForce,
		Fallbacks:  fallbacks,
	}
	return nil
}
