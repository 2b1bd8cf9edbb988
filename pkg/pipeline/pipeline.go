// Package pipeline provides the core conversion pipeline for quill.
//
// This package implements the complete decode → encode → render pipeline
// that can be used by CLI and server components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Parse an input document (TOML, YAML) into the value model
//  2. Encode: Serialize the value into JSON text
//  3. Render: Generate optional diagram artifacts (DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: "config.toml",
//	    Emit:   []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, data, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Decode only
//	doc, err := runner.Decode(ctx, data, opts)
//
//	// Encode with an existing value
//	jsonText, err := runner.Encode(ctx, doc, data, "toml", opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dwestra/quill/pkg/cache"
	"github.com/dwestra/quill/pkg/decode"
	"github.com/dwestra/quill/pkg/value"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Format constants for emitted artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the conversion pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Decode options
	Source  string `json:"source,omitempty"` // document name used for format detection and logs
	From    string `json:"from,omitempty"`   // input format name; empty means detect from Source
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Emit     []string `json:"emit,omitempty"` // artifact formats to produce
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the decoded value.
	Document value.Value

	// Format is the resolved input format name.
	Format string

	// JSON is the serialized document text.
	JSON string

	// DocumentHash is the content hash of the serialized text.
	DocumentHash string

	// Artifacts contains emitted outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputBytes  int
	OutputBytes int
	DecodeTime  time.Duration
	EncodeTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	EncodeHit bool // Whether the serialized document came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an artifact format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all artifact formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForDecode(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForDecode checks required fields for decoding.
func (o *Options) ValidateForDecode() error {
	if o.Source == "" {
		return fmt.Errorf("source is required")
	}
	if o.From != "" {
		if _, err := decode.Find(o.From, decode.All()...); err != nil {
			return err
		}
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Emit) == 0 {
		o.Emit = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Emit)
}

// Emits returns true if the given artifact format was requested.
func (o *Options) Emits(format string) bool {
	return slices.Contains(o.Emit, format)
}

// WantsDiagram returns true if any diagram artifact (DOT or SVG) was requested.
func (o *Options) WantsDiagram() bool {
	return o.Emits(FormatDOT) || o.Emits(FormatSVG)
}

// DocumentKeyOpts returns cache key options for the encode stage.
func (o *Options) DocumentKeyOpts(format string) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Format: format,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
