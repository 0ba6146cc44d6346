package pipeline

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/dump"
	"github.com/matzehuels/pointpack/pkg/scene"
	"github.com/matzehuels/pointpack/pkg/shape"
)

// minBranchLength is the shortest branch that still gets a cylinder.
const minBranchLength = 1e-6

// Sample fills the objects of s with points. The groups are, by kind:
//
//	spheres: [cores, shells]
//	onions:  [shells typed by layer]
//	patchy:  [shells typed by layer, patches]
//	network: [nodes, branch cylinders]
func Sample(ctx context.Context, s *scene.Scene, opts Options) ([]dump.Group, error) {
	rng := newRNG(s.Seed, sampleStream)

	switch s.Kind {
	case scene.KindSpheres:
		var cores, shells dump.Group
		for i, p := range s.Particles {
			if err := checkEvery(ctx, i); err != nil {
				return nil, err
			}
			core, outer := p.Layers[0], p.Radius()
			cores = append(cores, shape.Sphere(opts.Spheres.CoreDensity, core, 0, 0).Sample(rng, p.Center)...)
			shells = append(shells, shape.Sphere(opts.Spheres.ShellDensity, outer, core, 0).Sample(rng, p.Center)...)
		}
		return []dump.Group{cores, shells}, nil

	case scene.KindOnions, scene.KindPatchy:
		var shells, patches dump.Group
		for i, p := range s.Particles {
			if err := checkEvery(ctx, i); err != nil {
				return nil, err
			}
			onion, err := shape.NewOnion(p.Layers, opts.Onions.Density)
			if err != nil {
				return nil, fmt.Errorf("particle %d: %w", i, err)
			}
			shells = append(shells, onion.Sample(rng, p.Center)...)

			if s.Kind == scene.KindPatchy {
				ps, err := patchShell(onion.Radius(), opts.Patches)
				if err != nil {
					return nil, fmt.Errorf("particle %d: %w", i, err)
				}
				patches = append(patches, ps.Sample(rng, p.Center)...)
			}
		}
		if s.Kind == scene.KindOnions {
			return []dump.Group{shells}, nil
		}
		return []dump.Group{shells, patches}, nil

	case scene.KindNetwork:
		nw := opts.Network
		var nodes, cylinders dump.Group
		for i, n := range s.Nodes {
			if err := checkEvery(ctx, i); err != nil {
				return nil, err
			}
			nodes = append(nodes, shape.Sphere(nw.Density, n.Radius, 0, 0).Sample(rng, n.Pos)...)
		}
		for _, b := range s.Branches {
			a, c := s.Nodes[b.From].Pos, s.Nodes[b.To].Pos
			if r3.Norm(r3.Sub(c, a)) < minBranchLength {
				continue
			}
			cyl := shape.Between(a, c, nw.CylinderRadius, nw.Density, 0)
			mid := r3.Scale(0.5, r3.Add(a, c))
			cylinders = append(cylinders, cyl.Sample(rng, mid)...)
		}
		return []dump.Group{nodes, cylinders}, nil
	}
	return nil, fmt.Errorf("unsupported kind %q", s.Kind)
}

func patchShell(radius float64, p PatchOptions) (shape.PatchShell, error) {
	area := shape.ScalarArea(p.Area)
	if len(p.Areas) > 0 {
		area = shape.PerPatch(p.Areas)
	}
	return shape.NewPatchShell(radius, area, p.Count, p.Density)
}

// checkEvery polls ctx once per 64 objects.
func checkEvery(ctx context.Context, i int) error {
	if i%64 != 0 {
		return nil
	}
	return ctx.Err()
}
