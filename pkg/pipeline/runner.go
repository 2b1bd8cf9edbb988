package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dwestra/quill/pkg/cache"
	"github.com/dwestra/quill/pkg/decode"
	"github.com/dwestra/quill/pkg/jsontext"
	"github.com/dwestra/quill/pkg/observability"
	"github.com/dwestra/quill/pkg/value"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete decode → encode → render pipeline with caching.
// Stage logs go to opts.Logger, so a request-scoped logger set by the
// caller carries through every stage.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	format, err := r.resolveFormat(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Format:    format.Name(),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.InputBytes = len(data)

	// Stage 1: Decode
	decodeStart := time.Now()
	doc, err := r.decode(ctx, format, data, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Document = doc
	result.Stats.DecodeTime = time.Since(decodeStart)

	opts.Logger.Info("decoded document",
		"format", format.Name(),
		"source", opts.Source,
		"duration", result.Stats.DecodeTime)

	// Stage 2: Encode
	encodeStart := time.Now()
	jsonText, encodeHit, err := r.EncodeWithCacheInfo(ctx, doc, data, format.Name(), opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.JSON = jsonText
	result.DocumentHash = cache.Hash([]byte(jsonText))
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.Stats.OutputBytes = len(jsonText)
	result.CacheInfo.EncodeHit = encodeHit

	opts.Logger.Info("encoded document",
		"bytes", result.Stats.OutputBytes,
		"duration", result.Stats.EncodeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, jsonText, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Emit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Decode parses input data into a value using the resolved input format.
// Decoded values are not cached; decoding is a cheap local operation and
// the value model has no byte representation short of serializing it.
func (r *Runner) Decode(ctx context.Context, data []byte, opts Options) (value.Value, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForDecode(); err != nil {
		return value.Undefined(), err
	}

	format, err := r.resolveFormat(opts)
	if err != nil {
		return value.Undefined(), err
	}
	return r.decode(ctx, format, data, opts)
}

// decode runs the decode stage with observability hooks.
func (r *Runner) decode(ctx context.Context, format decode.Format, data []byte, opts Options) (value.Value, error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, format.Name(), opts.Source)
	start := time.Now()

	doc, err := format.Decode(data)
	hooks.OnDecodeComplete(ctx, format.Name(), opts.Source, time.Since(start), err)
	return doc, err
}

// EncodeWithCacheInfo serializes a value with caching and returns cache hit info.
// The cache key covers the source bytes and the input format, so identical
// documents shared between runs serialize once.
func (r *Runner) EncodeWithCacheInfo(ctx context.Context, doc value.Value, data []byte, formatName string, opts Options) (string, bool, error) {
	r.applyLogger(&opts)

	contentHash := cache.Hash(data)
	cacheKey := r.Keyer.DocumentKey(contentHash, opts.DocumentKeyOpts(formatName))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "document")
			return string(cached), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	// Encode
	hooks := observability.Pipeline()
	hooks.OnEncodeStart(ctx, opts.Source)
	start := time.Now()

	jsonText := jsontext.Serialize(doc)
	var err error
	if jsonText == "" {
		err = fmt.Errorf("serialization produced no output for %s", opts.Source)
	}
	hooks.OnEncodeComplete(ctx, opts.Source, len(jsonText), time.Since(start), err)
	if err != nil {
		return "", false, err
	}

	// Cache the result
	_ = r.Cache.Set(ctx, cacheKey, []byte(jsonText), cache.TTLDocument)
	observability.Cache().OnCacheSet(ctx, "document", len(jsonText))

	return jsonText, false, nil
}

// Encode is a convenience wrapper that calls EncodeWithCacheInfo and discards the cache hit info.
func (r *Runner) Encode(ctx context.Context, doc value.Value, data []byte, formatName string, opts Options) (string, error) {
	jsonText, _, err := r.EncodeWithCacheInfo(ctx, doc, data, formatName, opts)
	return jsonText, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The JSON artifact is derived directly from the serialized text; diagram
// artifacts are cached under keys derived from the serialized text's hash.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc value.Value, jsonText string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte)
	var diagrams []string
	for _, format := range opts.Emit {
		if format == FormatJSON {
			artifacts[FormatJSON] = []byte(jsonText)
			continue
		}
		diagrams = append(diagrams, format)
	}
	if len(diagrams) == 0 {
		return artifacts, false, nil
	}

	documentHash := cache.Hash([]byte(jsonText))

	// Try to get all diagram formats from cache (unless refresh requested)
	allCached := !opts.Refresh
	for _, format := range diagrams {
		if opts.Refresh {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(documentHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			allCached = false
			break
		}
	}

	if allCached {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all diagram formats
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, diagrams)
	start := time.Now()

	rendered, err := renderDiagrams(ctx, doc, diagrams, opts)
	hooks.OnRenderComplete(ctx, diagrams, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(documentHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		artifacts[format] = data
	}

	return artifacts, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc value.Value, jsonText string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, jsonText, opts)
	return artifacts, err
}

// resolveFormat picks the input format, preferring an explicit --from
// over filename detection.
func (r *Runner) resolveFormat(opts Options) (decode.Format, error) {
	if opts.From != "" {
		return decode.Find(opts.From, decode.All()...)
	}
	return decode.Detect(opts.Source, decode.All()...)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
