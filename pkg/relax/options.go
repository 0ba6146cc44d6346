package relax

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointpack/pkg/errors"
)

// Variant selects which boundary term drives the layout.
type Variant string

const (
	// Spring pulls every branch toward its target length. Used for
	// network layouts.
	Spring Variant = "spring"

	// Confined pushes nodes away from the faces of a cubic box instead of
	// using springs. Used for free layouts.
	Confined Variant = "confined"
)

// Default values.
const (
	DefaultIterations         = 1000
	DefaultLearningRate       = 0.1
	DefaultRepulsionStrength  = 1.0
	DefaultForceStopThreshold = 1e-3
	DefaultCylinderRadius     = 1.0
	DefaultLogEvery           = 100
)

// Clearance is the extra gap added to every repulsion threshold.
const Clearance = 0.1

// WallRange is how close to a face a node must be to feel the wall.
const WallRange = 1.0

// Options configures a relaxation run.
//
// ForceStopThreshold bounds the largest per-iteration displacement, not the
// spring residual: a lone spring stops within thr*(1-lr)/lr of its target, so
// the residual is below thr itself only once LearningRate >= 0.5.
type Options struct {
	Variant            Variant `json:"variant" toml:"variant"`
	Iterations         int     `json:"iterations" toml:"iterations"` // 0 selects DefaultIterations
	LearningRate       float64 `json:"learning_rate" toml:"learning_rate"`
	RepulsionStrength  float64 `json:"repulsion_strength" toml:"repulsion_strength"`
	ForceStopThreshold float64 `json:"force_stop_threshold" toml:"force_stop_threshold"`
	CylinderRadius     float64 `json:"cylinder_radius" toml:"cylinder_radius"`
	BoxLength          float64 `json:"box_length,omitempty" toml:"box_length"` // Confined only
	LogEvery           int     `json:"-" toml:"log_every"`                     // iterations between debug lines

	Logger *log.Logger `json:"-" toml:"-"`
}

// SetDefaults fills zero-valued fields and folds the variant name to its
// canonical case. Unknown variants are left for Validate to reject.
func (o *Options) SetDefaults() {
	if v, err := ParseVariant(string(o.Variant)); err == nil {
		o.Variant = v
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.LearningRate == 0 {
		o.LearningRate = DefaultLearningRate
	}
	if o.RepulsionStrength == 0 {
		o.RepulsionStrength = DefaultRepulsionStrength
	}
	if o.ForceStopThreshold == 0 {
		o.ForceStopThreshold = DefaultForceStopThreshold
	}
	if o.CylinderRadius == 0 {
		o.CylinderRadius = DefaultCylinderRadius
	}
	if o.LogEvery == 0 {
		o.LogEvery = DefaultLogEvery
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after defaults have been applied.
func (o *Options) Validate() error {
	v, err := ParseVariant(string(o.Variant))
	if err != nil {
		return err
	}
	o.Variant = v
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must not be negative, got %d", o.Iterations)
	}
	if err := errors.ValidatePositive("learning rate", o.LearningRate); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("repulsion strength", o.RepulsionStrength); err != nil {
		return err
	}
	if err := errors.ValidatePositive("force stop threshold", o.ForceStopThreshold); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("cylinder radius", o.CylinderRadius); err != nil {
		return err
	}
	if o.Variant == Confined {
		if err := errors.ValidatePositive("box length", o.BoxLength); err != nil {
			return err
		}
	}
	return nil
}

// ParseVariant maps a name to a Variant. The empty string selects Spring.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(s)) {
	case Spring, "":
		return Spring, nil
	case Confined:
		return Confined, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown relax variant %q (valid: spring, confined)", s)
}
