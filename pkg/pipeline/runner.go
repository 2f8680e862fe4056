package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hugojosefson/scatter-svg/pkg/cache"
	"github.com/hugojosefson/scatter-svg/pkg/dataset"
	"github.com/hugojosefson/scatter-svg/pkg/errors"
	"github.com/hugojosefson/scatter-svg/pkg/layout"
	"github.com/hugojosefson/scatter-svg/pkg/observability"
	"github.com/hugojosefson/scatter-svg/pkg/render"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDataset  = "dataset"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline against a cache. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer], and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads in, places labels, and renders every requested format.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}

	// Stage 1: Load
	loadStart := time.Now()
	ds, datasetKey, hit, err := r.LoadWithCacheInfo(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	res.Dataset = ds
	res.DatasetKey = datasetKey
	res.CacheHit.Dataset = hit
	res.Stats.Points = ds.Len()
	res.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded dataset",
		"source", sourceName(in.Name),
		"points", ds.Len(),
		"cached", hit,
		"duration", res.Stats.LoadTime)

	// Stages 2 and 3: Layout and Render
	renderStart := time.Now()
	allHit := true
	for i, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		art, hit, err := r.renderWithCache(ctx, ds, datasetKey, format, opts)
		if err != nil {
			return nil, err
		}
		res.Artifacts[format] = art.Data
		allHit = allHit && hit
		res.Stats.LayoutTime += art.LayoutTime
		if i == 0 {
			res.Layout = art.Layout
		}
	}
	res.CacheHit.Artifact = allHit
	res.Stats.RenderTime = time.Since(renderStart) - res.Stats.LayoutTime
	res.Stats.Labels = len(res.Layout.Boxes)
	res.Stats.Iterations = res.Layout.Iterations
	res.Stats.Settled = res.Layout.Settled

	if !res.Layout.Settled {
		r.Logger.Warn("labels did not settle; some may overlap",
			"labels", res.Stats.Labels,
			"iterations", res.Stats.Iterations)
	}
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"labels", res.Stats.Labels,
		"iterations", res.Stats.Iterations,
		"settled", res.Stats.Settled,
		"cached", allHit,
		"duration", time.Since(renderStart))

	return res, nil
}

// LoadWithCacheInfo reads and parses in, consulting the dataset cache. It
// returns the dataset, its cache key, and whether the cache hit.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, in Input, opts Options) (*dataset.Dataset, string, bool, error) {
	name := sourceName(in.Name)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	if in.Source == nil {
		err := errors.New(errors.ErrCodeInvalidInput, "no input source")
		hooks.OnLoadComplete(ctx, name, "", 0, time.Since(start), err)
		return nil, "", false, err
	}
	content, err := in.Source()
	if err != nil {
		err = errors.Wrap(errors.ErrCodeIO, err, "read %s", name)
		hooks.OnLoadComplete(ctx, name, "", 0, time.Since(start), err)
		return nil, "", false, err
	}

	format := dataset.Detect(in.Name, dataset.Bytes(content))
	key := r.Keyer.DatasetKey(cache.Hash(content), parseVariant(in.Name, format, content))

	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, keyTypeDataset, key); ok {
			var ds dataset.Dataset
			if err := json.Unmarshal(data, &ds); err == nil {
				hooks.OnLoadComplete(ctx, name, format.String(), ds.Len(), time.Since(start), nil)
				return &ds, key, true, nil
			}
			r.Logger.Debug("discarding undecodable cache entry", "key", key)
		}
	}

	ds, err := dataset.Parse(in.Name, format, content)
	hooks.OnLoadComplete(ctx, name, format.String(), datasetLen(ds), time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := json.Marshal(ds); err == nil {
		r.cacheSet(ctx, keyTypeDataset, key, data, opts.CacheTTL)
	}
	return ds, key, false, nil
}

// parseVariant names everything besides the content that [dataset.Parse]
// depends on. A tabular source also depends on its delimiter, which a .tsv
// name forces to tab.
func parseVariant(name string, format dataset.Format, content []byte) string {
	if format != dataset.FormatTabular {
		return format.String()
	}
	return fmt.Sprintf("%s-%U", format, dataset.Delimiter(name, content))
}

// Load is LoadWithCacheInfo without the key and hit flag.
func (r *Runner) Load(ctx context.Context, in Input, opts Options) (*dataset.Dataset, error) {
	ds, _, _, err := r.LoadWithCacheInfo(ctx, in, opts)
	return ds, err
}

// cachedArtifact is the cache form of a rendered artifact.
type cachedArtifact struct {
	Data   []byte        `json:"data"`
	Layout layout.Result `json:"layout"`
}

func (r *Runner) renderWithCache(ctx context.Context, ds *dataset.Dataset, datasetKey, format string, opts Options) (*render.Output, bool, error) {
	key := r.Keyer.ArtifactKey(datasetKey, opts.ArtifactKeyOpts(format))

	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, keyTypeArtifact, key); ok {
			var c cachedArtifact
			if err := json.Unmarshal(data, &c); err == nil {
				return &render.Output{Format: format, Data: c.Data, Layout: c.Layout}, true, nil
			}
			r.Logger.Debug("discarding undecodable cache entry", "key", key)
		}
	}

	hooks := observability.Pipeline()
	engine := layout.New(opts.Layout, layout.WithWorkers(opts.Workers), layout.WithLogger(r.Logger))

	start := time.Now()
	out, err := render.Render(ds, engine, opts.renderOptions(format)...)
	if err != nil {
		hooks.OnRenderComplete(ctx, format, 0, time.Since(start), err)
		return nil, false, fmt.Errorf("render %s: %w", format, err)
	}
	hooks.OnLayoutComplete(ctx, len(out.Layout.Boxes), out.Layout.Settled, out.Layout.Iterations, out.LayoutTime)
	hooks.OnRenderComplete(ctx, format, len(out.Data), time.Since(start), nil)

	if data, err := json.Marshal(cachedArtifact{Data: out.Data, Layout: out.Layout}); err == nil {
		r.cacheSet(ctx, keyTypeArtifact, key, data, opts.CacheTTL)
	}
	return out, false, nil
}

func (r *Runner) cacheGet(ctx context.Context, keyType, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		hooks.OnCacheError(ctx, keyType, err)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	hooks := observability.Cache()
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		hooks.OnCacheError(ctx, keyType, err)
		return
	}
	hooks.OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func sourceName(name string) string {
	if name == "" || name == "-" {
		return "stdin"
	}
	return name
}

func datasetLen(ds *dataset.Dataset) int {
	if ds == nil {
		return 0
	}
	return ds.Len()
}
