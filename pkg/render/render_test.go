package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/mindgrid/pkg/errors"
	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

func testElements() []*scene.Element {
	return []*scene.Element{
		{ID: "r", Type: scene.TypeRectangle, X: -74, Y: -36, Width: 148, Height: 72,
			BackgroundColor: "#a5d8ff", StrokeColor: "#1e1e1e", StrokeWidth: 2},
		{ID: "t", Type: scene.TypeText, X: -50, Y: -20, Width: 100, Height: 40,
			Text: `Root & "kids"`, FontSize: 20, StrokeColor: "#1e1e1e"},
		{ID: "a", Type: scene.TypeArrow, X: 74, Y: 0, Width: 112, Height: 0,
			Points: [][2]float64{{0, 0}, {112, 0}}, StrokeWidth: 2, EndArrowhead: "arrow"},
	}
}

func TestToSVG(t *testing.T) {
	svg := ToSVG(testElements())
	s := string(svg)

	for _, want := range []string{"<svg", "<rect", "<text", "<line", "marker-end", "</svg>"} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.Contains(s, "Root &amp; &quot;kids&quot;") {
		t.Error("text should be XML-escaped")
	}

	// Deterministic output
	if !bytes.Equal(svg, ToSVG(testElements())) {
		t.Error("ToSVG should be deterministic")
	}
}

func TestToSVGEmpty(t *testing.T) {
	svg := ToSVG(nil)
	if !strings.Contains(string(svg), "<svg") {
		t.Error("empty element list should still produce a valid SVG shell")
	}
}

func TestCheckRasterSize(t *testing.T) {
	small := []byte(`<svg xmlns="x" viewBox="0 0 10 10" width="800" height="600">`)
	if err := checkRasterSize(small, 2); err != nil {
		t.Errorf("small image should pass: %v", err)
	}

	huge := []byte(fmt.Sprintf(`<svg xmlns="x" viewBox="0 0 1 1" width="%d" height="%d">`, 100000, 100000))
	err := checkRasterSize(huge, 1)
	if errors.GetCode(err) != errors.ErrCodeTooBig {
		t.Errorf("oversized image should return TOO_BIG, got %v", err)
	}

	// Scale pushes a borderline image over the limit
	mid := []byte(`<svg xmlns="x" viewBox="0 0 1 1" width="5000" height="5000">`)
	if err := checkRasterSize(mid, 1); err != nil {
		t.Errorf("5000x5000 at 1x should pass: %v", err)
	}
	if err := checkRasterSize(mid, 4); errors.GetCode(err) != errors.ErrCodeTooBig {
		t.Error("5000x5000 at 4x should exceed the pixel limit")
	}

	// Unparseable dimensions pass through
	if err := checkRasterSize([]byte("<svg>"), 10); err != nil {
		t.Errorf("dimension-less SVG should pass: %v", err)
	}
}

func TestToDOT(t *testing.T) {
	nodes := []mindmap.PositionedNode{
		{Topic: "Root"}, {Topic: "A", Depth: 1}, {Topic: "B", Depth: 1},
	}
	edges := []mindmap.Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 0, To: 99}}

	dot := ToDOT(nodes, edges)
	for _, want := range []string{"digraph mindmap", `n0 [label="Root"]`, "n0 -> n1", "n0 -> n2"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n99") {
		t.Error("out-of-range edges should be skipped")
	}
}

func TestDOTToSVG(t *testing.T) {
	nodes := []mindmap.PositionedNode{
		{Topic: "Root"}, {Topic: "Child", Depth: 1},
	}
	edges := []mindmap.Edge{{From: 0, To: 1}}

	svg, err := DOTToSVG(context.Background(), ToDOT(nodes, edges))
	if err != nil {
		t.Fatal(err)
	}
	s := string(svg)
	if !strings.Contains(s, "<svg") {
		t.Error("Graphviz output should be SVG")
	}
	for _, label := range []string{"Root", "Child"} {
		if !strings.Contains(s, label) {
			t.Errorf("rendered SVG missing node label %q", label)
		}
	}
}

func TestDOTToSVGInvalidInput(t *testing.T) {
	_, err := DOTToSVG(context.Background(), "not a graph {{")
	if errors.GetCode(err) != errors.ErrCodeInternal {
		t.Errorf("malformed DOT should fail, got %v", err)
	}
}
