package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindgrid/pkg/cache"
	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/genai"
	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/observability"
	"github.com/matzehuels/mindgrid/pkg/render"
	"github.com/matzehuels/mindgrid/pkg/scene"
	"github.com/matzehuels/mindgrid/pkg/synth"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Generator produces trees from prompts. Optional: runs that supply
	// TreeJSON directly never touch it.
	Generator genai.Generator

	// Binder attaches arrows to shapes during synthesis. Nil uses the
	// default binder.
	Binder scene.Binder
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
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

// Execute runs the complete generate → parse → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate (skipped when the tree is supplied directly)
	treeJSON := opts.TreeJSON
	if treeJSON == "" {
		genStart := time.Now()
		res, err := r.generate(ctx, opts)
		if err != nil {
			return nil, err
		}
		treeJSON = res.Generated
		result.RateLimit = &res.RateLimit
		result.CacheInfo.TreeHit = res.FromCache
		result.Stats.GenerateTime = time.Since(genStart)

		opts.Logger.Info("generated tree",
			"cached", res.FromCache,
			"duration", result.Stats.GenerateTime)
	}

	// Stage 2: Parse and clamp
	root, err := r.Parse(treeJSON)
	if err != nil {
		return nil, err
	}
	result.Root = root
	if data, merr := json.Marshal(root); merr == nil {
		result.TreeHash = cache.Hash(data)
	}

	// Stage 3: Layout
	layoutStart := time.Now()
	nodes, edges, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, root, result.TreeHash, opts)
	if err != nil {
		return nil, err
	}
	result.Nodes = nodes
	result.Edges = edges
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(nodes)
	result.Stats.EdgeCount = len(edges)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"nodes", len(nodes),
		"edges", len(edges),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Synthesize and render
	renderStart := time.Now()
	elements, err := r.Synthesize(nodes, edges, opts)
	if err != nil {
		return nil, err
	}
	result.Elements = elements

	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) generate(ctx context.Context, opts Options) (*genai.Result, error) {
	if r.Generator == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no generator configured: supply tree JSON instead of a prompt")
	}
	return r.Generator.GenerateMindmap(ctx, opts.Prompt, opts.Language, opts.Refresh)
}

// Parse decodes and clamps a tree JSON string. It is exposed separately so
// callers can validate input without running the full pipeline.
func (r *Runner) Parse(treeJSON string) (*mindmap.Node, error) {
	root, err := mindmap.ParseTree([]byte(treeJSON))
	if err != nil {
		return nil, err
	}
	return mindmap.Clamp(root, 0), nil
}

// layoutPayload is the cached layout representation.
type layoutPayload struct {
	Nodes []mindmap.PositionedNode `json:"nodes"`
	Edges []mindmap.Edge           `json:"edges"`
}

// ComputeLayoutWithCacheInfo computes (or loads) the layout for a clamped
// tree and reports whether it came from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, root *mindmap.Node, treeHash string, opts Options) ([]mindmap.PositionedNode, []mindmap.Edge, bool, error) {
	key := r.Keyer.LayoutKey(treeHash)

	if !opts.Refresh && treeHash != "" {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var p layoutPayload
			if json.Unmarshal(data, &p) == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return p.Nodes, p.Edges, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, mindmap.LeafCount(root))
	start := time.Now()
	nodes, edges := mindmap.ComputeLayout(root)
	observability.Pipeline().OnLayoutComplete(ctx, len(nodes), time.Since(start), nil)

	if treeHash != "" {
		if data, err := json.Marshal(layoutPayload{Nodes: nodes, Edges: edges}); err == nil {
			if r.Cache.Set(ctx, key, data, cache.TTLLayout) == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return nodes, edges, false, nil
}

// Synthesize turns layout output into bound canvas elements. Element IDs are
// regenerated on every call, so synthesis is never cached.
func (r *Runner) Synthesize(nodes []mindmap.PositionedNode, edges []mindmap.Edge, opts Options) ([]*scene.Element, error) {
	elements, err := synth.Synthesize(nodes, edges, opts.Theme, r.Binder)
	if err != nil {
		return nil, err
	}
	scene.BindArrows(scene.NewScene(elements))
	return elements, nil
}

// RenderWithCacheInfo produces the requested artifacts, serving them from
// cache where possible. The JSON artifact (raw elements) is always rendered
// fresh since element IDs differ per synthesis.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	var svg []byte

	renderErr := func() error {
		for _, format := range opts.Formats {
			if format == FormatJSON {
				data, err := json.Marshal(result.Elements)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode elements")
				}
				artifacts[format] = data
				allHit = false
				continue
			}

			key := r.Keyer.ArtifactKey(result.TreeHash, cache.ArtifactKeyOpts{
				Format: format,
				Theme:  opts.Theme,
				Scale:  opts.Scale,
			})
			if !opts.Refresh && result.TreeHash != "" {
				if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
					observability.Cache().OnCacheHit(ctx, "artifact")
					artifacts[format] = data
					continue
				}
				observability.Cache().OnCacheMiss(ctx, "artifact")
			}
			allHit = false

			if svg == nil {
				svg = render.ToSVG(result.Elements)
			}

			var data []byte
			var err error
			switch format {
			case FormatSVG:
				data = svg
			case FormatPNG:
				data, err = render.ToPNG(svg, opts.Scale)
			case FormatPDF:
				data, err = render.ToPDF(svg)
			case FormatDOT:
				data = []byte(render.ToDOT(result.Nodes, result.Edges))
			case FormatDOTSVG:
				data, err = render.DOTToSVG(ctx, render.ToDOT(result.Nodes, result.Edges))
			}
			if err != nil {
				return err
			}
			artifacts[format] = data

			if result.TreeHash != "" {
				if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
					observability.Cache().OnCacheSet(ctx, "artifact", len(data))
				}
			}
		}
		return nil
	}()

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, false, renderErr
	}
	return artifacts, allHit, nil
}

// applyLogger falls back to the runner's logger when options carry none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
