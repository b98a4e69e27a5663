// Package pipeline provides the core generation pipeline for mindgrid.
//
// This package implements the complete generate → parse → layout →
// synthesize → render pipeline shared by the CLI and the API server.
// Centralizing it keeps behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Generate: Obtain a mindmap tree (from the upstream AI service, or
//     supplied directly as JSON)
//  2. Parse: Normalize and clamp the tree to bounded depth and fan-out
//  3. Layout: Compute tidy left/right positions for every node
//  4. Render: Synthesize canvas elements and export artifacts
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Generator = genai.NewClient(baseURL, key, model, cache, nil)
//	opts := pipeline.Options{
//	    Prompt:  "the solar system",
//	    Theme:   "warm",
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/genai"
	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/scene"
	"github.com/matzehuels/mindgrid/pkg/synth"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTheme is the theme applied when none is requested.
	DefaultTheme = "default"

	// DefaultScale is the raster scale factor for PNG export.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"

	// FormatDOTSVG is the nodelink view: the DOT export rendered to SVG by
	// Graphviz, with Graphviz geometry instead of the tidy layout.
	FormatDOTSVG = "dot-svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatPNG:    true,
	FormatPDF:    true,
	FormatJSON:   true,
	FormatDOT:    true,
	FormatDOTSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options: exactly one of Prompt or TreeJSON must be set.
	// Prompt requires a Generator on the Runner; TreeJSON skips generation.
	Prompt   string `json:"prompt,omitempty"`
	TreeJSON string `json:"tree_json,omitempty"`
	Language string `json:"language,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Synthesis options
	Theme string `json:"theme,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Root is the clamped tree the layout was computed from.
	Root *mindmap.Node

	// TreeHash is the content hash of the clamped tree.
	TreeHash string

	// Nodes and Edges are the layout output.
	Nodes []mindmap.PositionedNode
	Edges []mindmap.Edge

	// Elements are the synthesized canvas elements with bindings applied.
	Elements []*scene.Element

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// RateLimit reports upstream quota when the tree was generated.
	RateLimit *genai.RateLimit

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TreeHit   bool // Whether the generated tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, dot-svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	_, err := synth.LookupTheme(theme)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Prompt == "" && o.TreeJSON == "" {
		return errors.New(errors.ErrCodeInvalidInput, "prompt or tree JSON is required")
	}

	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}
