package placement

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/observability"
)

// ANN defaults.
const (
	DefaultBatchSize   = 1024
	DefaultTrainFactor = 2000
	DefaultProbes      = 1
	MaxLists           = 400
	// samplesPerList caps training at this many points per centroid.
	samplesPerList = 256
)

// ANN places points in batches against an inverted-file index.
//
// The coarse quantizer is trained by k-means on TrainFactor*sqrt(Count)
// uniform samples (at most 256 per list) and looked up through a k-d tree.
// Each candidate is first tested against the Probes nearest lists; survivors
// are confirmed against every list whose covering sphere comes within reach,
// so the separation guarantee is exact. Accepted points are inserted at once,
// which makes later candidates of the same batch see them.
//
// Zero-valued fields select the defaults.
type ANN struct {
	BatchSize   int     `json:"batch_size,omitempty" toml:"batch_size"`     // candidates drawn per batch
	TrainFactor float64 `json:"train_factor,omitempty" toml:"train_factor"` // training samples per sqrt(Count)
	Lists       int     `json:"lists,omitempty" toml:"lists"`               // inverted lists; default ceil(sqrt(Count)) capped at MaxLists
	Probes      int     `json:"probes,omitempty" toml:"probes"`             // lists scanned by the approximate prefilter
}

// Name implements Strategy.
func (ANN) Name() string { return NameANN }

// withDefaults resolves zero fields for a request of count points.
func (a ANN) withDefaults(count int) ANN {
	if a.BatchSize <= 0 {
		a.BatchSize = DefaultBatchSize
	}
	if a.TrainFactor <= 0 {
		a.TrainFactor = DefaultTrainFactor
	}
	if a.Lists <= 0 {
		a.Lists = min(int(math.Ceil(math.Sqrt(float64(count)))), MaxLists)
	}
	a.Lists = max(a.Lists, 1)
	if a.Probes <= 0 {
		a.Probes = DefaultProbes
	}
	return a
}

// trainingSize returns the number of uniform samples used to fit the lists.
func (a ANN) trainingSize(count int) int {
	n := int(math.Ceil(a.TrainFactor * math.Sqrt(float64(count))))
	return max(min(n, samplesPerList*a.Lists), a.Lists)
}

// Place implements Strategy.
func (a ANN) Place(rng *rand.Rand, req Request) ([]r3.Vec, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Count == 0 {
		return []r3.Vec{}, nil
	}

	cfg := a.withDefaults(req.Count)
	start := time.Now()
	observability.Placement().OnPlacementStart(NameANN, req.Count)

	index := trainIVF(rng, req.Min, req.Max, cfg.Lists, cfg.trainingSize(req.Count), cfg.Probes)

	pts := make([]r3.Vec, 0, req.Count)
	batch := make([]r3.Vec, 0, cfg.BatchSize)
	attempts := 0
	for len(pts) < req.Count {
		batch = batch[:0]
		for range min(cfg.BatchSize, req.Count-len(pts)) {
			batch = append(batch, unitDraw(rng))
		}
		attempts += len(batch)

		for _, u := range batch {
			i := len(pts)
			p := req.candidate(u, i)
			if index.conflicts(p, i, req.Separation) {
				continue
			}
			index.add(p, i)
			pts = append(pts, p)
		}
	}

	observability.Placement().OnPlacementComplete(NameANN, req.Count, attempts, time.Since(start))
	return pts, nil
}
