package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Nir-David-Duani/pp-linear/pkg/cache"
	"github.com/Nir-David-Duani/pp-linear/pkg/observability"
	"github.com/Nir-David-Duani/pp-linear/pkg/phylo"
)

// Cache key types reported to observability hooks.
const (
	keyTypeResult   = "result"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the analysis server use it.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the default entry lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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

// Execute runs the complete load → analyze → render pipeline with caching.
// The context is checked after every stage; a cancelled or expired context
// aborts the run with its error.
//
// A matrix without a perfect phylogeny is not an error: the result reports
// the conflict in its Summary, and tree formats are listed in Skipped.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()

	result := &Result{
		RunID:     opts.RunID,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	hooks.OnLoadStart(ctx, opts.Source)
	m, err := Parse(opts)
	var taxa, characters int
	if m != nil {
		taxa, characters = m.Rows(), m.Cols()
	}
	result.Stats.LoadTime = time.Since(loadStart)
	hooks.OnLoadComplete(ctx, opts.Source, taxa, characters, result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.MatrixHash, err = MatrixHash(m)
	if err != nil {
		return nil, fmt.Errorf("hash matrix: %w", err)
	}
	prepared := Prepare(m, opts)
	result.Matrix = prepared.Matrix

	r.Logger.Info("loaded matrix",
		"taxa", taxa,
		"characters", characters,
		"flipped", len(prepared.Flipped),
		"dropped", len(prepared.Dropped),
		"duration", result.Stats.LoadTime)

	resultKey := r.Keyer.ResultKey(result.MatrixHash, opts.ResultKeyOpts())
	resultHash := cache.Hash([]byte(resultKey))

	if !opts.Refresh {
		if ok := r.fromCache(ctx, result, resultKey, resultHash, opts); ok {
			r.Logger.Info("using cached analysis",
				"perfect", result.Summary.Perfect,
				"artifacts", len(result.Artifacts))
			return r.finish(result, opts)
		}
	}

	// Stage 2: Analyze
	analyzeStart := time.Now()
	hooks.OnAnalyzeStart(ctx, prepared.Matrix.Rows(), prepared.Matrix.Cols())
	res, err := Analyze(prepared)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	hooks.OnAnalyzeComplete(ctx, err == nil && res.Perfect(), result.Stats.AnalyzeTime, err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Analysis = res
	result.Summary = Summarize(res, prepared)
	if data, err := json.Marshal(result.Summary); err == nil {
		r.set(ctx, keyTypeResult, resultKey, data, r.ttl(cache.TTLResult))
	}

	r.Logger.Info("analyzed matrix",
		"perfect", result.Summary.Perfect,
		"witness", result.Summary.Witness,
		"nodes", result.Summary.Nodes,
		"edges", result.Summary.Edges,
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	formats, skipped := plan(opts.Formats, result.Summary.Perfect)
	result.Skipped = skipped
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, resultHash, formats, opts.Refresh)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", formats,
		"skipped", skipped,
		"duration", result.Stats.RenderTime)

	return r.finish(result, opts)
}

// fromCache fills result from the cache when the summary and every
// requested artifact are present.
func (r *Runner) fromCache(ctx context.Context, result *Result, resultKey, resultHash string, opts Options) bool {
	data, ok := r.get(ctx, keyTypeResult, resultKey)
	if !ok {
		return false
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		r.Logger.Debug("discarding unreadable cached summary", "err", err)
		return false
	}

	formats, skipped := plan(opts.Formats, s.Perfect)
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, ok := r.get(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(f)))
		if !ok {
			return false
		}
		artifacts[f] = data
	}

	result.Summary = s
	result.Artifacts = artifacts
	result.Skipped = skipped
	result.CacheInfo = CacheInfo{ResultHit: true, RenderHit: true}
	return true
}

// RenderWithCacheInfo renders formats for res, taking each artifact from the
// cache when present, and reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *phylo.Result, resultHash string, formats []string, refresh bool) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(formats))
	var missing []string
	for _, f := range formats {
		if !refresh {
			key := r.Keyer.ArtifactKey(resultHash, cache.ArtifactKeyOpts{Format: f})
			if data, ok := r.get(ctx, keyTypeArtifact, key); ok {
				artifacts[f] = data
				continue
			}
		}
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, res, missing)
	if err != nil {
		return nil, false, err
	}
	for _, f := range missing {
		artifacts[f] = rendered[f]
		key := r.Keyer.ArtifactKey(resultHash, cache.ArtifactKeyOpts{Format: f})
		r.set(ctx, keyTypeArtifact, key, rendered[f], r.ttl(cache.TTLArtifact))
	}
	return artifacts, false, nil
}

// finish attaches the manifest when requested. The manifest carries the run
// id, so it is never cached.
func (r *Runner) finish(result *Result, opts Options) (*Result, error) {
	if !slices.Contains(opts.Formats, FormatManifest) {
		return result, nil
	}
	data, err := buildManifest(result, opts.Source, time.Now())
	if err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}
	result.Artifacts[FormatManifest] = data
	return result, nil
}

// get reads key from the cache. Backend errors are logged and count as a
// miss.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
