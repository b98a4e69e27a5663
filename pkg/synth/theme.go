// Package synth turns positioned mindmap nodes and edges into canvas
// elements: a rectangle+label pair per node and a boundary-anchored arrow
// per edge, styled by theme and depth.
package synth

import "github.com/matzehuels/mindgrid/pkg/errors"

// Style is the visual treatment for one depth tier of a theme.
type Style struct {
	Stroke      string
	Background  string
	StrokeWidth float64
	FontSize    float64
}

// Theme defines three style tiers keyed by depth: 0, 1, and 2-or-deeper.
type Theme struct {
	Name  string
	Tiers [3]Style
}

// Tier returns the style for a node at the given depth. Depths beyond the
// last tier reuse the deepest tier's style.
func (t Theme) Tier(depth int) Style {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(t.Tiers) {
		depth = len(t.Tiers) - 1
	}
	return t.Tiers[depth]
}

var themes = map[string]Theme{
	"default": {
		Name: "default",
		Tiers: [3]Style{
			{Stroke: "#1e1e1e", Background: "#a5d8ff", StrokeWidth: 2, FontSize: 20},
			{Stroke: "#1e1e1e", Background: "#b2f2bb", StrokeWidth: 1, FontSize: 16},
			{Stroke: "#1e1e1e", Background: "#ffec99", StrokeWidth: 1, FontSize: 16},
		},
	},
	"warm": {
		Name: "warm",
		Tiers: [3]Style{
			{Stroke: "#e8590c", Background: "#ffd8a8", StrokeWidth: 2, FontSize: 20},
			{Stroke: "#e03131", Background: "#ffc9c9", StrokeWidth: 1, FontSize: 16},
			{Stroke: "#f08c00", Background: "#ffec99", StrokeWidth: 1, FontSize: 16},
		},
	},
	"cool": {
		Name: "cool",
		Tiers: [3]Style{
			{Stroke: "#1971c2", Background: "#a5d8ff", StrokeWidth: 2, FontSize: 20},
			{Stroke: "#0c8599", Background: "#99e9f2", StrokeWidth: 1, FontSize: 16},
			{Stroke: "#6741d9", Background: "#d0bfff", StrokeWidth: 1, FontSize: 16},
		},
	},
}

// ThemeNames lists the available themes in stable order.
func ThemeNames() []string { return []string{"default", "warm", "cool"} }

// LookupTheme resolves a theme by name.
func LookupTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme,
			"unknown theme %q (available: default, warm, cool)", name)
	}
	return t, nil
}
