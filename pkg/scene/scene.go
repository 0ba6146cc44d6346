// Package scene defines the serializable result of a layout run: where every
// particle or network node sits and how big it is.
//
// A Scene carries only geometry, never sampled points. The dense point
// clouds are regenerated from it by the pipeline, which keeps cached and
// exported scenes small.
//
// # Kinds
//
//   - spheres: core/shell spheres ([Particle.Layers] = core radius, shell thickness)
//   - onions:  multi-shell onions (one thickness per shell)
//   - patchy:  onions with patches on the outer surface
//   - network: nodes joined by cylindrical branches
//
// # Serialization
//
// Scenes are JSON. Use [Marshal]/[Unmarshal] for bytes and
// [WriteFile]/[ReadFile] for files.
package scene

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/network"
)

// Kind identifies what a scene describes.
type Kind string

const (
	KindSpheres Kind = "spheres"
	KindOnions  Kind = "onions"
	KindPatchy  Kind = "patchy"
	KindNetwork Kind = "network"
)

// Kinds lists every valid scene kind.
var Kinds = []Kind{KindSpheres, KindOnions, KindPatchy, KindNetwork}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Scene is a computed layout.
type Scene struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	BoxLength float64   `json:"box_length"`
	Seed      uint64    `json:"seed"`
	Strategy  string    `json:"strategy,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Particles []Particle       `json:"particles,omitempty"`
	Nodes     []Node           `json:"nodes,omitempty"`
	Branches  []network.Branch `json:"branches,omitempty"`
	Relax     *RelaxSummary    `json:"relax,omitempty"`
}

// Particle is a layered sphere. Layers holds shell thicknesses from the
// inside out; the outer radius is their sum.
type Particle struct {
	Center r3.Vec    `json:"center"`
	Layers []float64 `json:"layers"`
}

// Radius returns the outer radius of p.
func (p Particle) Radius() float64 {
	var r float64
	for _, l := range p.Layers {
		r += l
	}
	return r
}

// Node is a network junction.
type Node struct {
	Pos    r3.Vec  `json:"pos"`
	Radius float64 `json:"radius"`
}

// RelaxSummary records how a network layout was relaxed.
type RelaxSummary struct {
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	MaxForce   float64 `json:"max_force"`
	Fallbacks  int     `json:"seed_fallbacks"` // nodes seeded in a random direction
}

// New returns an empty scene with a fresh ID.
func New(kind Kind, boxLength float64, seed uint64) *Scene {
	return &Scene{
		ID:        uuid.New(),
		Kind:      kind,
		BoxLength: boxLength,
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
}

// Len returns the number of placed objects.
func (s *Scene) Len() int {
	if s.Kind == KindNetwork {
		return len(s.Nodes)
	}
	return len(s.Particles)
}
