package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pointpack/pkg/cache"
	"github.com/matzehuels/pointpack/pkg/dump"
	"github.com/matzehuels/pointpack/pkg/observability"
	"github.com/matzehuels/pointpack/pkg/scene"
)

// keyTypeScene labels scene entries in cache hooks.
const keyTypeScene = "scene"

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects DefaultKeyer, a nil cache
// disables caching and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// prepare applies the runner logger, defaults and validation.
func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// Execute builds the scene and samples it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	result := &Result{}

	start := time.Now()
	s, hit, err := r.buildScene(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Scene = s
	result.CacheInfo.SceneHit = hit
	result.Stats.BuildTime = time.Since(start)
	result.Stats.Objects = s.Len()
	result.Stats.Branches = len(s.Branches)

	r.Logger.Info("built scene",
		"kind", s.Kind,
		"objects", result.Stats.Objects,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	groups, err := Sample(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	result.Groups = groups
	result.Stats.SampleTime = time.Since(start)
	result.Stats.Points = dump.Count(groups)

	r.Logger.Info("sampled points",
		"groups", len(groups),
		"points", result.Stats.Points,
		"duration", result.Stats.SampleTime)

	return result, nil
}

// BuildScene computes a scene, reusing a cached one for identical options.
func (r *Runner) BuildScene(ctx context.Context, opts Options) (*scene.Scene, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, false, err
	}
	return r.buildScene(ctx, opts)
}

func (r *Runner) buildScene(ctx context.Context, opts Options) (*scene.Scene, bool, error) {
	key := r.Keyer.SceneKey(string(opts.Kind), opts.SceneKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		if err == nil && hit {
			if s, err := scene.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeScene)
				return s, true, nil
			}
			// Unreadable entry: fall through and recompute.
		}
		hooks.OnCacheMiss(ctx, keyTypeScene)
	}

	s, err := Build(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := scene.Marshal(s); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLScene); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeScene, len(data))
		}
	}
	return s, false, nil
}

// Sample fills a scene with points using the sampling parameters in opts.
func (r *Runner) Sample(ctx context.Context, s *scene.Scene, opts Options) ([]dump.Group, error) {
	opts.Kind = s.Kind
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	return Sample(ctx, s, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
