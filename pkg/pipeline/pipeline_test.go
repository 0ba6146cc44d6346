package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/pointpack/pkg/cache"
	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/placement"
	"github.com/matzehuels/pointpack/pkg/relax"
	"github.com/matzehuels/pointpack/pkg/scene"
)

func TestOptionsDefaults(t *testing.T) {
	tests := []struct {
		kind     scene.Kind
		box      float64
		fraction float64
	}{
		{"", 1000, 0.1},
		{scene.KindSpheres, 1000, 0.1},
		{scene.KindOnions, 800, 0.05},
		{scene.KindPatchy, 800, 0.05},
		{scene.KindNetwork, 200, 0},
	}
	for _, tt := range tests {
		opts := Options{Kind: tt.kind}
		opts.SetDefaults()
		if opts.BoxLength != tt.box {
			t.Errorf("%q: BoxLength = %v, want %v", tt.kind, opts.BoxLength, tt.box)
		}
		if opts.Fraction != tt.fraction {
			t.Errorf("%q: Fraction = %v, want %v", tt.kind, opts.Fraction, tt.fraction)
		}
		if opts.Seed != DefaultSeed {
			t.Errorf("%q: Seed = %d, want %d", tt.kind, opts.Seed, DefaultSeed)
		}
		if opts.Strategy != placement.DefaultStrategy {
			t.Errorf("%q: Strategy = %q, want %q", tt.kind, opts.Strategy, placement.DefaultStrategy)
		}
		if err := opts.Validate(); err != nil {
			t.Errorf("%q: defaults should validate: %v", tt.kind, err)
		}
	}
}

func TestPatchDefaults(t *testing.T) {
	opts := Options{Kind: scene.KindPatchy}
	opts.SetDefaults()
	if opts.Patches.Count != len(DefaultPatchAreas) {
		t.Errorf("Count = %d, want %d", opts.Patches.Count, len(DefaultPatchAreas))
	}

	scalar := Options{Kind: scene.KindPatchy, Patches: PatchOptions{Area: 50, Count: 4}}
	scalar.SetDefaults()
	if len(scalar.Patches.Areas) != 0 || scalar.Patches.Count != 4 {
		t.Errorf("scalar area should be kept: %+v", scalar.Patches)
	}
}

func TestNetworkDefaults(t *testing.T) {
	opts := Options{Kind: scene.KindNetwork}
	opts.SetDefaults()
	r := opts.Network.Relax
	if r.LearningRate != DefaultNetworkRate || r.RepulsionStrength != DefaultNetworkRepulsion {
		t.Errorf("relax defaults = %v/%v", r.LearningRate, r.RepulsionStrength)
	}
	if r.CylinderRadius != DefaultCylinderRadius {
		t.Errorf("relax cylinder radius = %v, want %v", r.CylinderRadius, DefaultCylinderRadius)
	}
	if r.Variant != relax.Spring {
		t.Errorf("Variant = %q, want spring", r.Variant)
	}

	for _, v := range []relax.Variant{relax.Confined, "Confined", "CONFINED"} {
		confined := Options{Kind: scene.KindNetwork, Network: NetworkOptions{Relax: relax.Options{Variant: v}}}
		confined.SetDefaults()
		if confined.Network.Relax.Variant != relax.Confined {
			t.Errorf("%q: Variant = %q, want confined", v, confined.Network.Relax.Variant)
		}
		if confined.Network.Relax.BoxLength != confined.BoxLength {
			t.Errorf("%q: confined box = %v, want %v", v, confined.Network.Relax.BoxLength, confined.BoxLength)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown kind", Options{Kind: "cubes"}, errors.ErrCodeInvalidConfig},
		{"unknown strategy", Options{Strategy: "octree"}, errors.ErrCodeInvalidStrategy},
		{"negative box", Options{BoxLength: -1}, errors.ErrCodeInvalidInput},
		{"fraction above one", Options{Fraction: 1.5}, errors.ErrCodeInvalidInput},
		{"core larger than outer", Options{Spheres: SpheresOptions{CoreMean: 40}}, errors.ErrCodeInvalidConfig},
		{"onion shells disagree", Options{Kind: scene.KindOnions, Onions: OnionOptions{ThicknessMean: []float64{1, 2}}}, errors.ErrCodeInvalidConfig},
		{"negative patch density", Options{Kind: scene.KindPatchy, Patches: PatchOptions{Density: -1}}, errors.ErrCodeInvalidInput},
		{"bad relax variant", Options{Kind: scene.KindNetwork, Network: NetworkOptions{Relax: relax.Options{Variant: "free"}}}, errors.ErrCodeInvalidConfig},
		{"odd degree sum", Options{Kind: scene.KindNetwork, Network: NetworkOptions{Nodes: 5, PerNode: 3}}, errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.SetDefaults()
			err := opts.Validate()
			if err == nil {
				t.Fatalf("Validate() should fail")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSceneKeyOpts(t *testing.T) {
	base := Options{Kind: scene.KindOnions}
	base.SetDefaults()
	k := base.SceneKeyOpts()
	if k.Seed != base.Seed || k.BoxLength != base.BoxLength || k.Strategy != base.Strategy {
		t.Errorf("SceneKeyOpts() = %+v", k)
	}

	ann := base
	ann.Strategy = placement.NameANN
	ann.ANN.Probes = 4
	keyer := cache.NewDefaultKeyer()
	if keyer.SceneKey("onions", ann.SceneKeyOpts()) == keyer.SceneKey("onions", k) {
		t.Error("ANN tuning should be part of the key")
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	config := `
kind = "patchy"
seed = 7
box_length = 300.0
strategy = "ann"

[ann]
probes = 2

[onions]
thickness_mean = [4.0, 3.0]
thickness_std = [0.5, 0.3]
density = [0.01, 0.02]

[patches]
areas = [50.0, 80.0]
density = 0.5

[network.relax]
variant = "confined"
iterations = 50
`
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.Kind != scene.KindPatchy || opts.Seed != 7 || opts.BoxLength != 300 {
		t.Errorf("top-level fields = %q/%d/%v", opts.Kind, opts.Seed, opts.BoxLength)
	}
	if opts.ANN.Probes != 2 {
		t.Errorf("ANN.Probes = %d, want 2", opts.ANN.Probes)
	}
	if !slices.Equal(opts.Patches.Areas, []float64{50, 80}) {
		t.Errorf("Patches.Areas = %v", opts.Patches.Areas)
	}
	if opts.Network.Relax.Variant != relax.Confined || opts.Network.Relax.Iterations != 50 {
		t.Errorf("Network.Relax = %+v", opts.Network.Relax)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadOptions(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("kind = \"onions\"\nbox_lenght = 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(unknown); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key error = %v, want INVALID_CONFIG", err)
	}

	malformed := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(malformed, []byte("kind = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(malformed); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("malformed error = %v, want INVALID_CONFIG", err)
	}
}
