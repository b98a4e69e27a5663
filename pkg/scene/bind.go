package scene

// DefaultBindingGap is the visual gap between an arrow endpoint and the
// boundary of the shape it binds to.
const DefaultBindingGap = 4.0

// Binder attaches arrows to the shapes they connect. The synthesizer calls
// the binder after emitting elements; alternative implementations can apply
// different focus or gap policies.
type Binder interface {
	// Bind links an arrow to its source and target shapes.
	Bind(arrow, from, to *Element)
}

// DefaultBinder binds arrows with centered focus and the default gap.
type DefaultBinder struct{}

// Bind sets the arrow's start and end bindings. Nil shapes leave the
// corresponding endpoint unbound.
func (DefaultBinder) Bind(arrow, from, to *Element) {
	if arrow == nil || arrow.Type != TypeArrow {
		return
	}
	if from != nil {
		arrow.StartBinding = &Binding{ElementID: from.ID, Focus: 0, Gap: DefaultBindingGap}
	}
	if to != nil {
		arrow.EndBinding = &Binding{ElementID: to.ID, Focus: 0, Gap: DefaultBindingGap}
	}
}

// BindArrows validates arrow bindings against the scene. Bindings that
// reference a missing element, or an element that is not a bindable shape,
// are removed so downstream consumers never see dangling references.
func BindArrows(s *Scene) {
	for _, el := range s.Elements {
		if el.Type != TypeArrow {
			continue
		}
		el.StartBinding = validBinding(s, el.StartBinding)
		el.EndBinding = validBinding(s, el.EndBinding)
	}
}

func validBinding(s *Scene, b *Binding) *Binding {
	if b == nil {
		return nil
	}
	target := s.Lookup(b.ElementID)
	if target == nil || !target.IsShape() {
		return nil
	}
	return b
}
