// Package pipeline turns layout options into a scene and the scene into
// point groups ready for the dump writer.
//
// This package is the single entry point used by the CLI. Centralizing the
// kind-specific recipes here keeps defaults and caching consistent.
//
// # Stages
//
//  1. Build: draw particle sizes, place centers (or lay out and relax a
//     network) and record the result as a [scene.Scene]. Cached.
//  2. Sample: fill every particle, node and branch with points.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{Kind: scene.KindOnions}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = dump.WriteFile("out.dump", result.Groups, result.Scene.BoxLength)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointpack/pkg/cache"
	"github.com/matzehuels/pointpack/pkg/dump"
	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/network"
	"github.com/matzehuels/pointpack/pkg/placement"
	"github.com/matzehuels/pointpack/pkg/relax"
	"github.com/matzehuels/pointpack/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultSeed is the default random seed for reproducibility.
const DefaultSeed = uint64(42)

// DefaultKind is used when Options.Kind is empty.
const DefaultKind = scene.KindSpheres

// Box and volume fraction defaults per kind.
var (
	defaultBox = map[scene.Kind]float64{
		scene.KindSpheres: 1000,
		scene.KindOnions:  800,
		scene.KindPatchy:  800,
		scene.KindNetwork: 200,
	}
	defaultFraction = map[scene.Kind]float64{
		scene.KindSpheres: 0.1,
		scene.KindOnions:  0.05,
		scene.KindPatchy:  0.05,
	}
)

// Core/shell sphere defaults. The shell thickness mean is OuterMean-CoreMean
// and its deviation sqrt(OuterStd²-CoreStd²).
const (
	DefaultOuterMean    = 30.0
	DefaultOuterStd     = 5.0
	DefaultCoreMean     = 20.0
	DefaultCoreStd      = 3.0
	DefaultCoreDensity  = 0.1
	DefaultShellDensity = 0.05
)

// Onion defaults, one entry per shell from the inside out.
var (
	DefaultThicknessMean  = []float64{10, 7, 6, 5, 4}
	DefaultThicknessStd   = []float64{1.5, 1.2, 0.5, 0.8, 1.0}
	DefaultShellDensities = []float64{0, 0.05, 0.1, 0.03, 0.2}
)

// Patch defaults.
var DefaultPatchAreas = []float64{300, 200, 900, 1500, 200, 3000}

const DefaultPatchDensity = 0.3

// Network defaults.
const (
	DefaultNodes          = 10
	DefaultPerNode        = 3
	DefaultRadiusMean     = 5.0
	DefaultRadiusStd      = 0.5
	DefaultBranchMean     = 2.0
	DefaultCylinderRadius = 3.0
	DefaultNodeDensity    = 0.4

	DefaultNetworkIterations = 20000
	DefaultNetworkRate       = 0.005
	DefaultNetworkRepulsion  = 7.6
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It decodes from TOML config files and
// JSON; zero values select the per-kind defaults.
type Options struct {
	Kind      scene.Kind `json:"kind" toml:"kind"`
	Seed      uint64     `json:"seed,omitempty" toml:"seed"`
	BoxLength float64    `json:"box_length,omitempty" toml:"box_length"`
	Fraction  float64    `json:"fraction,omitempty" toml:"fraction"` // target volume fraction of particles
	Strategy  string     `json:"strategy,omitempty" toml:"strategy"`

	ANN     placement.ANN  `json:"ann" toml:"ann"`
	Spheres SpheresOptions `json:"spheres" toml:"spheres"`
	Onions  OnionOptions   `json:"onions" toml:"onions"`
	Patches PatchOptions   `json:"patches" toml:"patches"`
	Network NetworkOptions `json:"network" toml:"network"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-" toml:"-"` // ignore cached scenes
	Logger  *log.Logger `json:"-" toml:"-"`
}

// SpheresOptions describe core/shell spheres. Radii are log-normal.
type SpheresOptions struct {
	OuterMean    float64 `json:"outer_mean,omitempty" toml:"outer_mean"`
	OuterStd     float64 `json:"outer_std,omitempty" toml:"outer_std"`
	CoreMean     float64 `json:"core_mean,omitempty" toml:"core_mean"`
	CoreStd      float64 `json:"core_std,omitempty" toml:"core_std"`
	CoreDensity  float64 `json:"core_density,omitempty" toml:"core_density"`
	ShellDensity float64 `json:"shell_density,omitempty" toml:"shell_density"`
}

// OnionOptions describe the shells of onions and patchy particles.
type OnionOptions struct {
	ThicknessMean []float64 `json:"thickness_mean,omitempty" toml:"thickness_mean"`
	ThicknessStd  []float64 `json:"thickness_std,omitempty" toml:"thickness_std"`
	Density       []float64 `json:"density,omitempty" toml:"density"`
}

// PatchOptions describe the patches on patchy particles. Either give one
// area per patch in Areas, or a single Area with Count.
type PatchOptions struct {
	Areas   []float64 `json:"areas,omitempty" toml:"areas"`
	Area    float64   `json:"area,omitempty" toml:"area"`
	Count   int       `json:"count,omitempty" toml:"count"`
	Density float64   `json:"density,omitempty" toml:"density"`
}

// NetworkOptions describe a branched network.
type NetworkOptions struct {
	Nodes          int     `json:"nodes,omitempty" toml:"nodes"`
	PerNode        int     `json:"per_node,omitempty" toml:"per_node"` // branches per node
	RadiusMean     float64 `json:"radius_mean,omitempty" toml:"radius_mean"`
	RadiusStd      float64 `json:"radius_std,omitempty" toml:"radius_std"`
	BranchMean     float64 `json:"branch_mean,omitempty" toml:"branch_mean"` // free length between node surfaces
	BranchStd      float64 `json:"branch_std,omitempty" toml:"branch_std"`
	CylinderRadius float64 `json:"cylinder_radius,omitempty" toml:"cylinder_radius"`
	Density        float64 `json:"density,omitempty" toml:"density"`

	Relax relax.Options `json:"relax" toml:"relax"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Scene     *scene.Scene
	Groups    []dump.Group
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Objects    int // particles or nodes
	Branches   int
	Points     int
	BuildTime  time.Duration
	SampleTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	SceneHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero-valued fields with the defaults of the selected kind.
func (o *Options) SetDefaults() {
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.BoxLength == 0 {
		o.BoxLength = defaultBox[o.Kind]
	}
	if o.Fraction == 0 {
		o.Fraction = defaultFraction[o.Kind]
	}
	if o.Strategy == "" {
		o.Strategy = placement.DefaultStrategy
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	switch o.Kind {
	case scene.KindSpheres:
		o.Spheres.setDefaults()
	case scene.KindOnions:
		o.Onions.setDefaults()
	case scene.KindPatchy:
		o.Onions.setDefaults()
		o.Patches.setDefaults()
	case scene.KindNetwork:
		o.Network.setDefaults(o.BoxLength, o.Logger)
	}
}

func (s *SpheresOptions) setDefaults() {
	if s.OuterMean == 0 {
		s.OuterMean = DefaultOuterMean
	}
	if s.OuterStd == 0 {
		s.OuterStd = DefaultOuterStd
	}
	if s.CoreMean == 0 {
		s.CoreMean = DefaultCoreMean
	}
	if s.CoreStd == 0 {
		s.CoreStd = DefaultCoreStd
	}
	if s.CoreDensity == 0 {
		s.CoreDensity = DefaultCoreDensity
	}
	if s.ShellDensity == 0 {
		s.ShellDensity = DefaultShellDensity
	}
}

func (o *OnionOptions) setDefaults() {
	if len(o.ThicknessMean) == 0 {
		o.ThicknessMean = DefaultThicknessMean
	}
	if len(o.ThicknessStd) == 0 {
		o.ThicknessStd = DefaultThicknessStd
	}
	if len(o.Density) == 0 {
		o.Density = DefaultShellDensities
	}
}

func (p *PatchOptions) setDefaults() {
	if len(p.Areas) == 0 && p.Area == 0 {
		p.Areas = DefaultPatchAreas
	}
	if len(p.Areas) > 0 {
		p.Count = len(p.Areas)
	}
	if p.Density == 0 {
		p.Density = DefaultPatchDensity
	}
}

func (n *NetworkOptions) setDefaults(box float64, logger *log.Logger) {
	if n.Nodes == 0 {
		n.Nodes = DefaultNodes
	}
	if n.PerNode == 0 {
		n.PerNode = DefaultPerNode
	}
	if n.RadiusMean == 0 {
		n.RadiusMean = DefaultRadiusMean
	}
	if n.RadiusStd == 0 {
		n.RadiusStd = DefaultRadiusStd
	}
	if n.BranchMean == 0 {
		n.BranchMean = DefaultBranchMean
	}
	if n.CylinderRadius == 0 {
		n.CylinderRadius = DefaultCylinderRadius
	}
	if n.Density == 0 {
		n.Density = DefaultNodeDensity
	}

	r := &n.Relax
	if r.Iterations == 0 {
		r.Iterations = DefaultNetworkIterations
	}
	if r.LearningRate == 0 {
		r.LearningRate = DefaultNetworkRate
	}
	if r.RepulsionStrength == 0 {
		r.RepulsionStrength = DefaultNetworkRepulsion
	}
	if r.CylinderRadius == 0 {
		r.CylinderRadius = n.CylinderRadius
	}
	if r.Logger == nil {
		r.Logger = logger
	}
	r.SetDefaults()
	if r.Variant == relax.Confined && r.BoxLength == 0 {
		r.BoxLength = box
	}
}

// Validate checks the options. Call SetDefaults first.
func (o *Options) Validate() error {
	if !o.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown kind %q (valid: spheres, onions, patchy, network)", o.Kind)
	}
	if !placement.IsValidName(o.Strategy) {
		_, err := placement.ByName(o.Strategy)
		return err
	}
	if err := errors.ValidatePositive("box length", o.BoxLength); err != nil {
		return err
	}

	switch o.Kind {
	case scene.KindSpheres:
		if err := errors.ValidateFraction("volume fraction", o.Fraction); err != nil {
			return err
		}
		return o.Spheres.validate()
	case scene.KindOnions:
		if err := errors.ValidateFraction("volume fraction", o.Fraction); err != nil {
			return err
		}
		return o.Onions.validate()
	case scene.KindPatchy:
		if err := errors.ValidateFraction("volume fraction", o.Fraction); err != nil {
			return err
		}
		if err := o.Onions.validate(); err != nil {
			return err
		}
		return o.Patches.validate()
	default:
		return o.Network.validate()
	}
}

func (s *SpheresOptions) validate() error {
	if s.CoreMean >= s.OuterMean {
		return errors.New(errors.ErrCodeInvalidConfig,
			"core radius mean (%v) must be below outer radius mean (%v)", s.CoreMean, s.OuterMean)
	}
	if s.CoreStd > s.OuterStd {
		return errors.New(errors.ErrCodeInvalidConfig,
			"core radius std (%v) must not exceed outer radius std (%v)", s.CoreStd, s.OuterStd)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"core radius mean", s.CoreMean},
		{"core density", s.CoreDensity},
		{"shell density", s.ShellDensity},
	} {
		if err := errors.ValidatePositive(v.name, v.val); err != nil {
			return err
		}
	}
	return errors.ValidateNonNegative("core radius std", s.CoreStd)
}

func (o *OnionOptions) validate() error {
	n := len(o.ThicknessMean)
	if len(o.ThicknessStd) != n || len(o.Density) != n {
		return errors.New(errors.ErrCodeInvalidConfig,
			"onion shells disagree: %d means, %d stds, %d densities", n, len(o.ThicknessStd), len(o.Density))
	}
	for i := range n {
		if err := errors.ValidatePositive("shell thickness mean", o.ThicknessMean[i]); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative("shell thickness std", o.ThicknessStd[i]); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative("shell density", o.Density[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *PatchOptions) validate() error {
	if p.Count < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "patch count must not be negative, got %d", p.Count)
	}
	if len(p.Areas) > 0 && len(p.Areas) != p.Count {
		return errors.New(errors.ErrCodeInvalidConfig, "got %d patch areas for %d patches", len(p.Areas), p.Count)
	}
	return errors.ValidateNonNegative("patch density", p.Density)
}

func (n *NetworkOptions) validate() error {
	if err := network.Validate(n.Nodes, n.PerNode); err != nil {
		return err
	}
	if err := errors.ValidatePositive("node radius mean", n.RadiusMean); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("node radius std", n.RadiusStd); err != nil {
		return err
	}
	if err := errors.ValidatePositive("branch length mean", n.BranchMean); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("branch length std", n.BranchStd); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("node density", n.Density); err != nil {
		return err
	}
	return n.Relax.Validate()
}

// SceneKeyOpts returns cache key options for the scene stage.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	k := cache.SceneKeyOpts{
		Seed:      o.Seed,
		BoxLength: o.BoxLength,
		Fraction:  o.Fraction,
		Strategy:  o.Strategy,
	}
	switch o.Kind {
	case scene.KindSpheres:
		k.Params = o.Spheres
	case scene.KindOnions:
		k.Params = o.Onions
	case scene.KindPatchy:
		k.Params = struct {
			Onions  OnionOptions `json:"onions"`
			Patches PatchOptions `json:"patches"`
		}{o.Onions, o.Patches}
	case scene.KindNetwork:
		k.Params = o.Network
	}
	if o.Strategy == placement.NameANN {
		k.Params = struct {
			Kind any           `json:"kind"`
			ANN  placement.ANN `json:"ann"`
		}{k.Params, o.ANN}
	}
	return k
}
