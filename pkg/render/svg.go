// Package render serializes synthesized canvas elements into exportable
// artifacts: standalone SVG, rasterized PNG/PDF via librsvg, and Graphviz
// DOT for the tree structure itself.
package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/mindgrid/pkg/scene"
)

// Margin around the content bounding box in SVG units.
const svgMargin = 20.0

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// ToSVG serializes elements into a standalone SVG document sized to the
// content bounding box. Output is deterministic for a given element list.
// Unknown element types are skipped.
func ToSVG(elements []*scene.Element) []byte {
	minX, minY, maxX, maxY := bounds(elements)
	width, height := maxX-minX+2*svgMargin, maxY-minY+2*svgMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`,
		minX-svgMargin, minY-svgMargin, width, height, width, height)
	buf.WriteString("\n")
	buf.WriteString(`<defs><marker id="arrowhead" markerWidth="10" markerHeight="8" refX="9" refY="4" orient="auto"><path d="M0,0 L10,4 L0,8 z"/></marker></defs>` + "\n")

	for _, el := range elements {
		switch el.Type {
		case scene.TypeRectangle:
			fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="%s" stroke="%s" stroke-width="%.1f"/>`,
				el.X, el.Y, el.Width, el.Height, orDefault(el.BackgroundColor, "white"), orDefault(el.StrokeColor, "black"), el.StrokeWidth)
			buf.WriteString("\n")

		case scene.TypeText:
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`,
				el.X+el.Width/2, el.Y+el.Height/2, el.FontSize, orDefault(el.StrokeColor, "black"), xmlEscaper.Replace(el.Text))
			buf.WriteString("\n")

		case scene.TypeArrow, scene.TypeLine:
			if len(el.Points) < 2 {
				continue
			}
			last := el.Points[len(el.Points)-1]
			marker := ""
			if el.Type == scene.TypeArrow && el.EndArrowhead != "" {
				marker = ` marker-end="url(#arrowhead)"`
			}
			fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`,
				el.X, el.Y, el.X+last[0], el.Y+last[1], orDefault(el.StrokeColor, "black"), el.StrokeWidth, marker)
			buf.WriteString("\n")
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func bounds(elements []*scene.Element) (minX, minY, maxX, maxY float64) {
	if len(elements) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, el := range elements {
		x2, y2 := el.X+el.Width, el.Y+el.Height
		minX = math.Min(minX, math.Min(el.X, x2))
		minY = math.Min(minY, math.Min(el.Y, y2))
		maxX = math.Max(maxX, math.Max(el.X, x2))
		maxY = math.Max(maxY, math.Max(el.Y, y2))
	}
	return minX, minY, maxX, maxY
}
