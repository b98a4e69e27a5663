package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mindgrid/pkg/cache"
	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/genai"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

const scenarioTree = `{"topic":"Root","children":[{"topic":"A"},{"topic":"B"},{"topic":"C"}]}`

// fakeGenerator returns a fixed tree and counts invocations.
type fakeGenerator struct {
	tree  string
	calls int
}

func (g *fakeGenerator) GenerateMindmap(_ context.Context, _, _ string, _ bool) (*genai.Result, error) {
	g.calls++
	return &genai.Result{Generated: g.tree, RateLimit: genai.RateLimit{Limit: 100, Remaining: 99}}, nil
}

func (g *fakeGenerator) GenerateDiagram(_ context.Context, _, _ string, _ bool) (*genai.Result, error) {
	g.calls++
	return &genai.Result{Generated: "graph TD; A-->B"}, nil
}

func TestExecuteFromTreeJSON(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)

	result, err := runner.Execute(context.Background(), Options{
		TreeJSON: scenarioTree,
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 3 {
		t.Errorf("stats = %d nodes / %d edges, want 4/3", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.Nodes[0].X != 0 || result.Nodes[0].Y != 0 {
		t.Errorf("root not at origin: %+v", result.Nodes[0])
	}
	for _, e := range result.Edges {
		if e.From != 0 {
			t.Errorf("edge should source from root: %+v", e)
		}
	}

	// 2 elements per node + 1 per edge
	if want := 2*4 + 3; len(result.Elements) != want {
		t.Errorf("element count = %d, want %d", len(result.Elements), want)
	}

	for _, format := range []string{FormatSVG, FormatJSON, FormatDOT} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact should contain an <svg> tag")
	}
	if result.RateLimit != nil {
		t.Error("direct tree input should not report a rate limit")
	}
}

func TestExecuteWithGenerator(t *testing.T) {
	gen := &fakeGenerator{tree: scenarioTree}
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	runner.Generator = gen

	result, err := runner.Execute(context.Background(), Options{Prompt: "anything"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d", gen.calls)
	}
	if result.RateLimit == nil || result.RateLimit.Remaining != 99 {
		t.Errorf("RateLimit = %+v", result.RateLimit)
	}
	if result.Root.Topic != "Root" {
		t.Errorf("root topic = %q", result.Root.Topic)
	}
}

func TestExecutePromptWithoutGenerator(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{Prompt: "x"})
	if errors.GetCode(err) != errors.ErrCodeUnsupported {
		t.Errorf("expected UNSUPPORTED, got %v", err)
	}
}

func TestExecuteLayoutCacheHit(t *testing.T) {
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(backend, nil, nil)
	opts := Options{TreeJSON: scenarioTree, Formats: []string{FormatSVG}}

	ctx := context.Background()
	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached SVG should match the first run")
	}

	// Refresh bypasses both caches
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteDOTSVGFormat(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)

	result, err := runner.Execute(context.Background(), Options{
		TreeJSON: scenarioTree,
		Formats:  []string{FormatDOTSVG},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	s := string(result.Artifacts[FormatDOTSVG])
	if !strings.Contains(s, "<svg") {
		t.Error("dot-svg artifact should be Graphviz-rendered SVG")
	}
	for _, topic := range []string{"Root", "A", "B", "C"} {
		if !strings.Contains(s, topic) {
			t.Errorf("dot-svg artifact missing node %q", topic)
		}
	}
}

func TestExecuteArrowsBound(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{TreeJSON: scenarioTree})
	if err != nil {
		t.Fatal(err)
	}

	s := scene.NewScene(result.Elements)
	for _, el := range result.Elements {
		if el.Type != scene.TypeArrow {
			continue
		}
		if el.StartBinding == nil || el.EndBinding == nil {
			t.Fatal("arrows should be bound on both ends")
		}
		if s.Lookup(el.StartBinding.ElementID) == nil || s.Lookup(el.EndBinding.ElementID) == nil {
			t.Error("bindings should reference elements present in the scene")
		}
	}
}

func TestExecuteInvalidInputs(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad theme", Options{TreeJSON: scenarioTree, Theme: "neon"}, errors.ErrCodeInvalidTheme},
		{"bad format", Options{TreeJSON: scenarioTree, Formats: []string{"bmp"}}, errors.ErrCodeInvalidFormat},
		{"malformed json", Options{TreeJSON: `{"topic":`}, errors.ErrCodeInvalidInput},
		{"missing topic", Options{TreeJSON: `{"children":[]}`}, errors.ErrCodeMissingTopic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runner.Execute(ctx, tc.opts)
			if errors.GetCode(err) != tc.code {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), tc.code, err)
			}
		})
	}
}

func TestExecuteClampsWideTrees(t *testing.T) {
	wide := `{"topic":"Root","children":[
		{"topic":"c0"},{"topic":"c1"},{"topic":"c2"},{"topic":"c3"},{"topic":"c4"},
		{"topic":"c5"},{"topic":"c6"},{"topic":"c7"},{"topic":"c8"},{"topic":"c9"}]}`

	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{TreeJSON: wide})
	if err != nil {
		t.Fatal(err)
	}
	// 10 children clamp to 6 before layout runs.
	if result.Stats.NodeCount != 7 {
		t.Errorf("node count = %d, want 7 (root + 6 clamped children)", result.Stats.NodeCount)
	}
	for _, n := range result.Nodes[1:] {
		if n.Topic == "c6" || n.Topic == "c9" {
			t.Errorf("child %s should have been clamped away", n.Topic)
		}
	}
}
