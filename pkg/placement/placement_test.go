package placement

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/pointpack/pkg/errors"
	"github.com/matzehuels/pointpack/pkg/observability"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

var strategies = []Strategy{
	BruteForce{},
	Grid{},
	ANN{},
	ANN{BatchSize: 7, Lists: 3, Probes: 2, TrainFactor: 10},
}

func requireSeparated(t *testing.T, pts []r3.Vec, sep Separation) {
	t.Helper()
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			d := r3.Norm(r3.Sub(pts[i], pts[j]))
			require.Greater(t, d, sep.Between(i, j), "points %d and %d too close", i, j)
		}
	}
}

func requireInside(t *testing.T, pts []r3.Vec, req Request) {
	t.Helper()
	for i, p := range pts {
		m := req.Separation.Margin(i)
		for _, c := range []float64{p.X, p.Y, p.Z} {
			require.GreaterOrEqual(t, c, req.Min+m, "point %d outside domain", i)
			require.LessOrEqual(t, c, req.Max-m, "point %d outside domain", i)
		}
	}
}

func TestPlaceUniform(t *testing.T) {
	req := Request{Count: 50, Min: -100, Max: 100, Separation: Uniform(10)}

	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			pts, err := s.Place(newRNG(42), req)
			require.NoError(t, err)
			require.Len(t, pts, 50)
			requireSeparated(t, pts, req.Separation)
			requireInside(t, pts, req)
		})
	}
}

func TestPlacePerPoint(t *testing.T) {
	rng := newRNG(3)
	radii := make([]float64, 40)
	for i := range radii {
		radii[i] = 2 + 6*rng.Float64()
	}
	req := Request{Count: len(radii), Min: -50, Max: 50, Separation: PerPoint(radii)}

	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			pts, err := s.Place(newRNG(11), req)
			require.NoError(t, err)
			require.Len(t, pts, len(radii))
			requireSeparated(t, pts, req.Separation)
			requireInside(t, pts, req)
		})
	}
}

// A single batch covers the whole request, so every conflict is intra-batch.
func TestANNSingleBatchSeparation(t *testing.T) {
	req := Request{Count: 200, Min: 0, Max: 60, Separation: Uniform(4)}
	pts, err := ANN{BatchSize: 10_000}.Place(newRNG(5), req)
	require.NoError(t, err)
	require.Len(t, pts, 200)
	requireSeparated(t, pts, req.Separation)
}

func TestPlaceDeterministic(t *testing.T) {
	req := Request{Count: 30, Min: 0, Max: 40, Separation: Uniform(3)}
	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			a, err := s.Place(newRNG(9), req)
			require.NoError(t, err)
			b, err := s.Place(newRNG(9), req)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestPlaceEdgeCases(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			pts, err := s.Place(newRNG(1), Request{Count: 0, Min: 0, Max: 1, Separation: Uniform(5)})
			require.NoError(t, err)
			assert.NotNil(t, pts)
			assert.Empty(t, pts)

			// A separation wider than the domain still admits the first point.
			pts, err = s.Place(newRNG(1), Request{Count: 1, Min: 0, Max: 1, Separation: Uniform(5)})
			require.NoError(t, err)
			assert.Len(t, pts, 1)

			// Zero separation degenerates to uniform sampling.
			pts, err = s.Place(newRNG(1), Request{Count: 10, Min: 0, Max: 1})
			require.NoError(t, err)
			assert.Len(t, pts, 10)
		})
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		ok   bool
	}{
		{"valid uniform", Request{Count: 5, Min: 0, Max: 10, Separation: Uniform(1)}, true},
		{"valid per-point", Request{Count: 2, Min: 0, Max: 10, Separation: PerPoint([]float64{1, 2})}, true},
		{"negative count", Request{Count: -1, Min: 0, Max: 10}, false},
		{"empty domain", Request{Count: 1, Min: 10, Max: 10}, false},
		{"negative separation", Request{Count: 1, Min: 0, Max: 10, Separation: Uniform(-1)}, false},
		{"radii mismatch", Request{Count: 3, Min: 0, Max: 10, Separation: PerPoint([]float64{1, 2})}, false},
		{"negative radius", Request{Count: 1, Min: 0, Max: 10, Separation: PerPoint([]float64{-1})}, false},
		{"radius fills domain", Request{Count: 1, Min: 0, Max: 10, Separation: PerPoint([]float64{5})}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
		})
	}
}

func TestSeparation(t *testing.T) {
	u := Uniform(4)
	assert.False(t, u.IsPerPoint())
	assert.Equal(t, 4.0, u.Between(0, 7))
	assert.Equal(t, 0.0, u.Margin(3))
	assert.Equal(t, 4.0, u.Max())

	p := PerPoint([]float64{1, 3, 2})
	assert.True(t, p.IsPerPoint())
	assert.Equal(t, 5.0, p.Between(1, 2))
	assert.Equal(t, 3.0, p.Margin(1))
	assert.Equal(t, 6.0, p.Max())
	assert.Equal(t, 4.0, p.reach(0))
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", NameGrid},
		{"grid", NameGrid},
		{"brute", NameBrute},
		{"ANN", NameANN},
		{" ann ", NameANN},
	}
	for _, tt := range tests {
		s, err := ByName(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, s.Name())
	}

	_, err := ByName("faiss")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStrategy))
	assert.False(t, IsValidName("faiss"))
	assert.True(t, IsValidName("brute"))
}

func TestANNDefaults(t *testing.T) {
	a := ANN{}.withDefaults(50)
	assert.Equal(t, DefaultBatchSize, a.BatchSize)
	assert.Equal(t, 8, a.Lists)
	assert.Equal(t, DefaultProbes, a.Probes)
	assert.Equal(t, samplesPerList*8, a.trainingSize(50))

	big := ANN{}.withDefaults(1_000_000)
	assert.Equal(t, MaxLists, big.Lists)

	small := ANN{TrainFactor: 0.01, Lists: 4}.withDefaults(100)
	assert.Equal(t, 4, small.trainingSize(100), "training never drops below one sample per list")
}

type countingHooks struct {
	observability.NoopPlacementHooks
	starts   int
	attempts int
}

func (h *countingHooks) OnPlacementStart(string, int) { h.starts++ }
func (h *countingHooks) OnPlacementComplete(_ string, _ int, attempts int, _ time.Duration) {
	h.attempts = attempts
}

func TestPlacementHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetPlacementHooks(h)
	defer observability.Reset()

	_, err := Grid{}.Place(newRNG(2), Request{Count: 25, Min: 0, Max: 30, Separation: Uniform(3)})
	require.NoError(t, err)
	assert.Equal(t, 1, h.starts)
	assert.GreaterOrEqual(t, h.attempts, 25)
}

func ExampleGrid_Place() {
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
	pts, err := Grid{}.Place(rng, Request{
		Count:      50,
		Min:        -100,
		Max:        100,
		Separation: Uniform(10),
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(len(pts))
	// Output: 50
}
