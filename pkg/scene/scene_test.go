package scene

import "testing"

func rect(id string) *Element {
	return &Element{ID: id, Type: TypeRectangle, Width: 100, Height: 40}
}

func TestSceneLookup(t *testing.T) {
	a, b := rect("a"), rect("b")
	s := NewScene([]*Element{a, b})

	if s.Lookup("a") != a {
		t.Error("Lookup(a) should return element a")
	}
	if s.Lookup("missing") != nil {
		t.Error("Lookup of unknown ID should return nil")
	}
}

func TestDefaultBinder(t *testing.T) {
	from, to := rect("from"), rect("to")
	arrow := &Element{ID: "arr", Type: TypeArrow}

	DefaultBinder{}.Bind(arrow, from, to)

	if arrow.StartBinding == nil || arrow.StartBinding.ElementID != "from" {
		t.Fatalf("StartBinding = %+v", arrow.StartBinding)
	}
	if arrow.EndBinding == nil || arrow.EndBinding.ElementID != "to" {
		t.Fatalf("EndBinding = %+v", arrow.EndBinding)
	}
	if arrow.StartBinding.Gap != DefaultBindingGap {
		t.Errorf("Gap = %v, want %v", arrow.StartBinding.Gap, DefaultBindingGap)
	}

	// Non-arrows are ignored
	notArrow := rect("r")
	DefaultBinder{}.Bind(notArrow, from, to)
	if notArrow.StartBinding != nil {
		t.Error("Bind should ignore non-arrow elements")
	}
}

func TestBindArrowsDropsDanglingBindings(t *testing.T) {
	shape := rect("shape")
	label := &Element{ID: "label", Type: TypeText}
	arrow := &Element{
		ID:           "arr",
		Type:         TypeArrow,
		StartBinding: &Binding{ElementID: "shape"},
		EndBinding:   &Binding{ElementID: "gone"},
	}
	textBound := &Element{
		ID:           "arr2",
		Type:         TypeArrow,
		StartBinding: &Binding{ElementID: "label"},
	}

	s := NewScene([]*Element{shape, label, arrow, textBound})
	BindArrows(s)

	if arrow.StartBinding == nil {
		t.Error("binding to existing shape should survive")
	}
	if arrow.EndBinding != nil {
		t.Error("binding to missing element should be dropped")
	}
	if textBound.StartBinding != nil {
		t.Error("binding to a text element should be dropped")
	}
}

func TestImportForeignRegeneratesIDs(t *testing.T) {
	in := []*Element{
		{ID: "r1", Type: TypeRectangle, GroupIDs: []string{"g1"}},
		{ID: "r2", Type: TypeRectangle, GroupIDs: []string{"g1"}},
		{
			ID:           "a1",
			Type:         TypeArrow,
			Points:       [][2]float64{{0, 0}, {100, 0}},
			StartBinding: &Binding{ElementID: "r1", Gap: 4},
			EndBinding:   &Binding{ElementID: "external", Gap: 4},
		},
	}

	out := ImportForeign(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}

	for i, el := range out {
		if el.ID == in[i].ID {
			t.Errorf("element %d kept its foreign ID %s", i, el.ID)
		}
	}

	// Group membership preserved under new group ID
	if out[0].GroupIDs[0] != out[1].GroupIDs[0] {
		t.Error("shared group should map to the same new group ID")
	}
	if out[0].GroupIDs[0] == "g1" {
		t.Error("group ID should be regenerated")
	}

	// Binding remapped to the new rect ID; dangling binding dropped
	if out[2].StartBinding == nil || out[2].StartBinding.ElementID != out[0].ID {
		t.Errorf("StartBinding not remapped: %+v", out[2].StartBinding)
	}
	if out[2].EndBinding != nil {
		t.Error("binding to element outside the import set should be dropped")
	}

	// Input untouched
	if in[0].ID != "r1" || in[2].StartBinding.ElementID != "r1" {
		t.Error("ImportForeign must not mutate its input")
	}
}

func TestElementCenter(t *testing.T) {
	e := &Element{X: 10, Y: 20, Width: 100, Height: 40}
	cx, cy := e.Center()
	if cx != 60 || cy != 40 {
		t.Errorf("Center = (%v, %v), want (60, 40)", cx, cy)
	}
}
