package synth

import (
	"math"

	"github.com/matzehuels/mindgrid/pkg/mindmap"
	"github.com/matzehuels/mindgrid/pkg/scene"
)

// Rectangle padding around the measured label size, per side.
const (
	PadX = 24.0
	PadY = 16.0
)

// Synthesize turns positioned nodes and edges into canvas elements.
// Each node becomes a rectangle+label pair sharing a group ID; each edge
// becomes an arrow anchored on both rectangles' boundaries with bindings
// set through binder. Elements are emitted rectangles-and-labels first,
// arrows last, so shapes always precede the arrows that reference them.
//
// Edges referencing a node index outside the rectangle list are skipped.
func Synthesize(nodes []mindmap.PositionedNode, edges []mindmap.Edge, themeName string, binder scene.Binder) ([]*scene.Element, error) {
	theme, err := LookupTheme(themeName)
	if err != nil {
		return nil, err
	}
	if binder == nil {
		binder = scene.DefaultBinder{}
	}

	elements := make([]*scene.Element, 0, 2*len(nodes)+len(edges))
	rects := make([]*scene.Element, len(nodes))

	for i, n := range nodes {
		style := theme.Tier(n.Depth)
		textW, textH := MeasureText(n.Topic, style.FontSize)

		group := scene.NewID()
		rect := &scene.Element{
			ID:              scene.NewID(),
			Type:            scene.TypeRectangle,
			X:               n.X - textW/2 - PadX,
			Y:               n.Y - textH/2 - PadY,
			Width:           textW + 2*PadX,
			Height:          textH + 2*PadY,
			StrokeColor:     style.Stroke,
			BackgroundColor: style.Background,
			FillStyle:       "solid",
			StrokeWidth:     style.StrokeWidth,
			Roundness:       &scene.Roundness{Type: 3},
			GroupIDs:        []string{group},
		}
		label := &scene.Element{
			ID:          scene.NewID(),
			Type:        scene.TypeText,
			X:           n.X - textW/2,
			Y:           n.Y - textH/2,
			Width:       textW,
			Height:      textH,
			Text:        n.Topic,
			FontSize:    style.FontSize,
			FontFamily:  1,
			StrokeColor: style.Stroke,
			GroupIDs:    []string{group},
		}
		rects[i] = rect
		elements = append(elements, rect, label)
	}

	for _, e := range edges {
		if e.From < 0 || e.From >= len(rects) || e.To < 0 || e.To >= len(rects) {
			continue
		}
		from, to := rects[e.From], rects[e.To]
		sx, sy := boundaryAnchor(from, to)
		ex, ey := boundaryAnchor(to, from)

		style := theme.Tier(nodes[e.To].Depth)
		arrow := &scene.Element{
			ID:           scene.NewID(),
			Type:         scene.TypeArrow,
			X:            sx,
			Y:            sy,
			Width:        math.Abs(ex - sx),
			Height:       math.Abs(ey - sy),
			StrokeColor:  style.Stroke,
			StrokeWidth:  2,
			Roundness:    &scene.Roundness{Type: 2},
			Points:       [][2]float64{{0, 0}, {ex - sx, ey - sy}},
			EndArrowhead: "arrow",
		}
		binder.Bind(arrow, from, to)
		elements = append(elements, arrow)
	}

	return elements, nil
}

// boundaryAnchor returns the point on rect's boundary where the line from
// its center toward the other rectangle's center exits the rectangle.
// Coincident centers anchor at the center itself.
func boundaryAnchor(rect, other *scene.Element) (float64, float64) {
	cx, cy := rect.Center()
	ox, oy := other.Center()
	dx, dy := ox-cx, oy-cy
	if dx == 0 && dy == 0 {
		return cx, cy
	}

	hw, hh := rect.Width/2, rect.Height/2
	t := math.Inf(1)
	if dx != 0 {
		t = hw / math.Abs(dx)
	}
	if dy != 0 {
		if ty := hh / math.Abs(dy); ty < t {
			t = ty
		}
	}
	return cx + t*dx, cy + t*dy
}
