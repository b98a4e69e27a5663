// Package scene models the canvas element graph produced by the synthesizer
// and imported from the text-to-diagram adapter.
//
// Elements follow the whiteboard wire format: flat JSON objects with a type
// discriminator, absolute coordinates, and optional binding metadata linking
// arrows to the shapes they connect.
package scene

import "github.com/google/uuid"

// Element types understood by the binder and renderers.
const (
	TypeRectangle = "rectangle"
	TypeEllipse   = "ellipse"
	TypeDiamond   = "diamond"
	TypeText      = "text"
	TypeArrow     = "arrow"
	TypeLine      = "line"
)

// Binding attaches an arrow endpoint to a shape element.
type Binding struct {
	ElementID string  `json:"elementId"`
	Focus     float64 `json:"focus"`
	Gap       float64 `json:"gap"`
}

// Roundness selects the corner style for shapes.
type Roundness struct {
	Type int `json:"type"`
}

// Element is a single canvas element. Fields not relevant to a given type
// are left at their zero value and omitted from JSON where possible.
type Element struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	Width           float64    `json:"width"`
	Height          float64    `json:"height"`
	Angle           float64    `json:"angle"`
	StrokeColor     string     `json:"strokeColor,omitempty"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	FillStyle       string     `json:"fillStyle,omitempty"`
	StrokeWidth     float64    `json:"strokeWidth,omitempty"`
	Roundness       *Roundness `json:"roundness,omitempty"`
	GroupIDs        []string   `json:"groupIds,omitempty"`
	Text            string     `json:"text,omitempty"`
	FontSize        float64    `json:"fontSize,omitempty"`
	FontFamily      int        `json:"fontFamily,omitempty"`
	ContainerID     string     `json:"containerId,omitempty"`

	// Arrow and line fields. Points are relative to (X, Y).
	Points        [][2]float64 `json:"points,omitempty"`
	StartBinding  *Binding     `json:"startBinding,omitempty"`
	EndBinding    *Binding     `json:"endBinding,omitempty"`
	StartArrowhead string      `json:"startArrowhead,omitempty"`
	EndArrowhead   string      `json:"endArrowhead,omitempty"`
}

// NewID returns a fresh element identifier.
func NewID() string { return uuid.NewString() }

// IsShape reports whether the element can serve as an arrow binding target.
func (e *Element) IsShape() bool {
	switch e.Type {
	case TypeRectangle, TypeEllipse, TypeDiamond:
		return true
	}
	return false
}

// Center returns the element's midpoint in absolute coordinates.
func (e *Element) Center() (float64, float64) {
	return e.X + e.Width/2, e.Y + e.Height/2
}

// Scene indexes elements by ID for binding and import operations.
type Scene struct {
	Elements []*Element
	byID     map[string]*Element
}

// NewScene builds a scene over the given elements.
func NewScene(elements []*Element) *Scene {
	s := &Scene{
		Elements: elements,
		byID:     make(map[string]*Element, len(elements)),
	}
	for _, el := range elements {
		s.byID[el.ID] = el
	}
	return s
}

// Lookup returns the element with the given ID, or nil.
func (s *Scene) Lookup(id string) *Element {
	return s.byID[id]
}
