// Package pkg provides the libraries behind pointpack, a generator of
// synthetic 3D point clouds for particle and network simulations.
//
// # Overview
//
// pointpack fills a cubic box with non-overlapping particles (solid spheres
// with a shell, multi-shell onions, onions with surface patches) or lays out
// a branched network of spherical nodes joined by cylinders. Every object is
// then sampled into points, and the points are written as a LAMMPS-style dump
// file that OVITO and similar tools read directly.
//
// # Architecture
//
// The typical data flow:
//
//	Options (flags / TOML)
//	         ↓
//	    [sizing] draw radii and shell thicknesses to a volume fraction
//	         ↓
//	    [placement] place centers with [grid] or ANN overlap checks
//	         ↓              (network: [network] graph → [relax] layout)
//	    [scene] record objects, cached by [cache]
//	         ↓
//	    [shape] sample every object into points
//	         ↓
//	    [dump] write the point groups
//
// [pipeline] runs the whole chain and is the single entry point used by the
// CLI.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Kind: scene.KindOnions, Seed: 7})
//	if err != nil {
//	    return err
//	}
//	err = dump.WriteFile("onions.dump", res.Groups, res.Scene.BoxLength)
//
// # Main Packages
//
// ## Geometry
//
// [geom] - Point/segment distances, spherical coordinates, sphere
// intersection circles and random directions on gonum's r3 vectors.
//
// [grid] - Uniform cell grid for overlap queries against placed points,
// with per-point radii.
//
// [shape] - Samplers for ellipsoids and spherical shells, cylinders, onions
// and patch shells.
//
// ## Layout
//
// [sizing] - Log-normal size distributions and volume-fraction filling.
//
// [placement] - Sequential random placement with brute-force, grid and
// inverted-file ANN strategies.
//
// [network] - Connected regular graphs, branches with target lengths and
// breadth-first seed layouts.
//
// [relax] - Force-directed relaxation with springs or box confinement plus
// node, branch and branch-branch repulsion.
//
// ## Infrastructure
//
// [scene] - Serializable record of a built layout.
//
// [cache] - Scene cache with null, file and Redis backends.
//
// [pipeline] - Build → sample orchestration with option defaults, TOML
// config loading and caching.
//
// [dump] - Dump file writer.
//
// [errors] - Coded errors and input validation helpers.
//
// [observability] - Hooks for placement, relaxation and cache events.
//
// [buildinfo] - Version information.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test ./pkg/placement/...          # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/geom
// [grid]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/grid
// [shape]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/shape
// [sizing]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/sizing
// [placement]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/placement
// [network]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/network
// [relax]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/relax
// [scene]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/scene
// [cache]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/pipeline
// [dump]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/dump
// [errors]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pointpack/pkg/buildinfo
package pkg
