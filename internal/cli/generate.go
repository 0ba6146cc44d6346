package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointpack/pkg/dump"
	"github.com/matzehuels/pointpack/pkg/pipeline"
	"github.com/matzehuels/pointpack/pkg/placement"
	"github.com/matzehuels/pointpack/pkg/relax"
	"github.com/matzehuels/pointpack/pkg/scene"
)

type kindInfo struct {
	kind  scene.Kind
	short string
	long  string
}

var kinds = []kindInfo{
	{scene.KindSpheres, "Pack core/shell spheres into a box",
		"Draws core radii and shell thicknesses from log-normal distributions until the target volume fraction is reached, places the spheres without overlap and samples core and shell as two point groups."},
	{scene.KindOnions, "Pack multi-shell onions into a box",
		"Draws one thickness per shell for each onion until the target volume fraction is reached, places the onions without overlap and samples every shell as its own point type."},
	{scene.KindPatchy, "Pack onions with surface patches into a box",
		"Like onions, with patches spread over the outer surface of every particle in a random orientation."},
	{scene.KindNetwork, "Lay out a branched network of nodes",
		"Builds a connected regular graph, relaxes node positions under spring and repulsion forces and samples nodes as spheres and branches as cylinders."},
}

// generateFlags collects every flag of the generate commands. Values only
// override the config file when the flag was set explicitly.
type generateFlags struct {
	config    string
	output    string
	scenePath string
	refresh   bool
	cache     cacheFlags

	opts pipeline.Options
}

// generateCommand creates the command that builds and samples one kind.
func (c *CLI) generateCommand(k kindInfo) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   string(k.kind),
		Short: k.short,
		Long:  k.long,
		Example: fmt.Sprintf(`  %[1]s %[2]s
  %[1]s %[2]s --seed 7 --box 400 -o out/%[2]s.dump
  %[1]s %[2]s --config %[2]s.toml --scene out/%[2]s.json`, appName, k.kind),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.resolve(cmd, k.kind)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd, f, opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "TOML config file (flags override its values)")
	fl.StringVarP(&f.output, "output", "o", string(k.kind)+".dump", "dump file to write")
	fl.StringVar(&f.scenePath, "scene", "", "also write the scene as JSON to this path")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute the scene even if it is cached")
	f.cache.register(cmd)

	o := &f.opts
	fl.Uint64Var(&o.Seed, "seed", pipeline.DefaultSeed, "random seed")
	fl.Float64Var(&o.BoxLength, "box", 0, "box side length (default per kind)")

	switch k.kind {
	case scene.KindSpheres:
		registerPacking(cmd, o)
		fl.Float64Var(&o.Spheres.OuterMean, "outer-mean", pipeline.DefaultOuterMean, "outer radius mean")
		fl.Float64Var(&o.Spheres.OuterStd, "outer-std", pipeline.DefaultOuterStd, "outer radius standard deviation")
		fl.Float64Var(&o.Spheres.CoreMean, "core-mean", pipeline.DefaultCoreMean, "core radius mean")
		fl.Float64Var(&o.Spheres.CoreStd, "core-std", pipeline.DefaultCoreStd, "core radius standard deviation")
		fl.Float64Var(&o.Spheres.CoreDensity, "core-density", pipeline.DefaultCoreDensity, "core points per unit volume")
		fl.Float64Var(&o.Spheres.ShellDensity, "shell-density", pipeline.DefaultShellDensity, "shell points per unit volume")
	case scene.KindOnions, scene.KindPatchy:
		registerPacking(cmd, o)
		fl.Float64SliceVar(&o.Onions.ThicknessMean, "thickness-mean", pipeline.DefaultThicknessMean, "shell thickness means, inside out")
		fl.Float64SliceVar(&o.Onions.ThicknessStd, "thickness-std", pipeline.DefaultThicknessStd, "shell thickness standard deviations")
		fl.Float64SliceVar(&o.Onions.Density, "density", pipeline.DefaultShellDensities, "shell points per unit volume")
		if k.kind == scene.KindPatchy {
			fl.Float64SliceVar(&o.Patches.Areas, "patch-areas", pipeline.DefaultPatchAreas, "area of every patch")
			fl.Float64Var(&o.Patches.Area, "patch-area", 0, "area shared by all patches (use with --patch-count)")
			fl.IntVar(&o.Patches.Count, "patch-count", 0, "number of patches of --patch-area")
			fl.Float64Var(&o.Patches.Density, "patch-density", pipeline.DefaultPatchDensity, "patch points per unit area")
		}
	case scene.KindNetwork:
		nw := &o.Network
		fl.IntVar(&nw.Nodes, "nodes", pipeline.DefaultNodes, "number of nodes")
		fl.IntVar(&nw.PerNode, "per-node", pipeline.DefaultPerNode, "branches per node")
		fl.Float64Var(&nw.RadiusMean, "radius-mean", pipeline.DefaultRadiusMean, "node radius mean")
		fl.Float64Var(&nw.RadiusStd, "radius-std", pipeline.DefaultRadiusStd, "node radius standard deviation")
		fl.Float64Var(&nw.BranchMean, "branch-mean", pipeline.DefaultBranchMean, "free branch length mean")
		fl.Float64Var(&nw.BranchStd, "branch-std", 0, "free branch length standard deviation")
		fl.Float64Var(&nw.CylinderRadius, "cylinder-radius", pipeline.DefaultCylinderRadius, "branch radius")
		fl.Float64Var(&nw.Density, "density", pipeline.DefaultNodeDensity, "points per unit volume")

		r := &nw.Relax
		fl.StringVar((*string)(&r.Variant), "variant", string(relax.Spring), "relaxation: spring or confined")
		fl.IntVar(&r.Iterations, "iterations", pipeline.DefaultNetworkIterations, "maximum relaxation iterations")
		fl.Float64Var(&r.LearningRate, "learning-rate", pipeline.DefaultNetworkRate, "step size per iteration")
		fl.Float64Var(&r.RepulsionStrength, "repulsion", pipeline.DefaultNetworkRepulsion, "repulsion strength")
		fl.Float64Var(&r.ForceStopThreshold, "threshold", relax.DefaultForceStopThreshold, "stop when the largest force drops below this")
		_ = cmd.RegisterFlagCompletionFunc("variant", cobra.FixedCompletions(
			[]string{string(relax.Spring), string(relax.Confined)}, cobra.ShellCompDirectiveNoFileComp))
	}

	return cmd
}

// registerPacking adds the flags shared by the particle kinds.
func registerPacking(cmd *cobra.Command, o *pipeline.Options) {
	fl := cmd.Flags()
	fl.Float64Var(&o.Fraction, "fraction", 0, "target volume fraction (default per kind)")
	fl.StringVar(&o.Strategy, "strategy", "", "placement strategy: brute, grid or ann (default "+placement.DefaultStrategy+")")
	fl.IntVar(&o.ANN.BatchSize, "ann-batch", 0, "ann: candidates per batch")
	fl.IntVar(&o.ANN.Lists, "ann-lists", 0, "ann: number of inverted lists")
	fl.IntVar(&o.ANN.Probes, "ann-probes", 0, "ann: lists scanned by the prefilter")
	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(placement.Names, cobra.ShellCompDirectiveNoFileComp))
}

// resolve loads the config file, if any, and overlays explicitly set flags.
// Without a config file the flag values, defaults included, are used as is.
func (f *generateFlags) resolve(cmd *cobra.Command, kind scene.Kind) (pipeline.Options, error) {
	if f.config == "" {
		opts := f.opts
		opts.Kind = kind
		opts.Refresh = f.refresh
		return opts, nil
	}

	opts, err := pipeline.LoadOptions(f.config)
	if err != nil {
		return opts, err
	}
	if opts.Kind != "" && opts.Kind != kind {
		return opts, fmt.Errorf("%s: config is for %q, not %q", f.config, opts.Kind, kind)
	}
	opts.Kind = kind
	opts.Refresh = f.refresh

	changed := cmd.Flags().Changed
	for name, apply := range overrides {
		if changed(name) {
			apply(&opts, &f.opts)
		}
	}
	return opts, nil
}

// overrides copies one flag-bound field from src into dst.
var overrides = map[string]func(dst, src *pipeline.Options){
	"seed":     func(d, s *pipeline.Options) { d.Seed = s.Seed },
	"box":      func(d, s *pipeline.Options) { d.BoxLength = s.BoxLength },
	"fraction": func(d, s *pipeline.Options) { d.Fraction = s.Fraction },
	"strategy": func(d, s *pipeline.Options) { d.Strategy = s.Strategy },

	"ann-batch":  func(d, s *pipeline.Options) { d.ANN.BatchSize = s.ANN.BatchSize },
	"ann-lists":  func(d, s *pipeline.Options) { d.ANN.Lists = s.ANN.Lists },
	"ann-probes": func(d, s *pipeline.Options) { d.ANN.Probes = s.ANN.Probes },

	"outer-mean":    func(d, s *pipeline.Options) { d.Spheres.OuterMean = s.Spheres.OuterMean },
	"outer-std":     func(d, s *pipeline.Options) { d.Spheres.OuterStd = s.Spheres.OuterStd },
	"core-mean":     func(d, s *pipeline.Options) { d.Spheres.CoreMean = s.Spheres.CoreMean },
	"core-std":      func(d, s *pipeline.Options) { d.Spheres.CoreStd = s.Spheres.CoreStd },
	"core-density":  func(d, s *pipeline.Options) { d.Spheres.CoreDensity = s.Spheres.CoreDensity },
	"shell-density": func(d, s *pipeline.Options) { d.Spheres.ShellDensity = s.Spheres.ShellDensity },

	"thickness-mean": func(d, s *pipeline.Options) { d.Onions.ThicknessMean = s.Onions.ThicknessMean },
	"thickness-std":  func(d, s *pipeline.Options) { d.Onions.ThicknessStd = s.Onions.ThicknessStd },
	"patch-areas":    func(d, s *pipeline.Options) { d.Patches.Areas = s.Patches.Areas },
	"patch-area":     func(d, s *pipeline.Options) { d.Patches.Area = s.Patches.Area },
	"patch-count":    func(d, s *pipeline.Options) { d.Patches.Count = s.Patches.Count },
	"patch-density":  func(d, s *pipeline.Options) { d.Patches.Density = s.Patches.Density },

	// "density" is bound to the onion densities or the network density
	// depending on the command; copying both is harmless.
	"density": func(d, s *pipeline.Options) {
		d.Onions.Density = s.Onions.Density
		d.Network.Density = s.Network.Density
	},

	"nodes":           func(d, s *pipeline.Options) { d.Network.Nodes = s.Network.Nodes },
	"per-node":        func(d, s *pipeline.Options) { d.Network.PerNode = s.Network.PerNode },
	"radius-mean":     func(d, s *pipeline.Options) { d.Network.RadiusMean = s.Network.RadiusMean },
	"radius-std":      func(d, s *pipeline.Options) { d.Network.RadiusStd = s.Network.RadiusStd },
	"branch-mean":     func(d, s *pipeline.Options) { d.Network.BranchMean = s.Network.BranchMean },
	"branch-std":      func(d, s *pipeline.Options) { d.Network.BranchStd = s.Network.BranchStd },
	"cylinder-radius": func(d, s *pipeline.Options) { d.Network.CylinderRadius = s.Network.CylinderRadius },
	"variant":         func(d, s *pipeline.Options) { d.Network.Relax.Variant = s.Network.Relax.Variant },
	"iterations":      func(d, s *pipeline.Options) { d.Network.Relax.Iterations = s.Network.Relax.Iterations },
	"learning-rate":   func(d, s *pipeline.Options) { d.Network.Relax.LearningRate = s.Network.Relax.LearningRate },
	"repulsion":       func(d, s *pipeline.Options) { d.Network.Relax.RepulsionStrength = s.Network.Relax.RepulsionStrength },
	"threshold":       func(d, s *pipeline.Options) { d.Network.Relax.ForceStopThreshold = s.Network.Relax.ForceStopThreshold },
}

func (c *CLI) runGenerate(cmd *cobra.Command, f generateFlags, opts pipeline.Options) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, f.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s scene...", opts.Kind))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.Stop()
		if spinner.Cancelled() {
			printWarning("Interrupted")
		}
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated %s", opts.Kind))
	printStats(res.Stats, res.CacheInfo.SceneHit)
	if rs := res.Scene.Relax; rs != nil && !rs.Converged {
		printWarning("Relaxation stopped after %d iterations (max force %.3g)", rs.Iterations, rs.MaxForce)
	}

	prog := newProgress(c.Logger)
	if err := dump.WriteFile(f.output, res.Groups, res.Scene.BoxLength); err != nil {
		return err
	}
	prog.done("wrote dump file")
	printFile(f.output)

	if f.scenePath != "" {
		if err := scene.WriteFile(res.Scene, f.scenePath); err != nil {
			return err
		}
		printFile(f.scenePath)
	}
	printNextStep("Inspect", "ovito "+f.output)
	return nil
}
