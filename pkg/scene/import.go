package scene

// ImportForeign prepares elements produced by an external tool for insertion
// into a local document. Every element receives a fresh ID so repeated
// imports never collide; group IDs and arrow bindings are remapped to the
// new IDs. Bindings and container references that point outside the imported
// set are dropped.
func ImportForeign(elements []*Element) []*Element {
	idMap := make(map[string]string, len(elements))
	groupMap := make(map[string]string)

	for _, el := range elements {
		idMap[el.ID] = NewID()
	}

	out := make([]*Element, 0, len(elements))
	for _, el := range elements {
		cp := *el
		cp.ID = idMap[el.ID]

		if len(el.GroupIDs) > 0 {
			cp.GroupIDs = make([]string, len(el.GroupIDs))
			for i, g := range el.GroupIDs {
				mapped, ok := groupMap[g]
				if !ok {
					mapped = NewID()
					groupMap[g] = mapped
				}
				cp.GroupIDs[i] = mapped
			}
		}

		cp.StartBinding = remapBinding(el.StartBinding, idMap)
		cp.EndBinding = remapBinding(el.EndBinding, idMap)
		if el.ContainerID != "" {
			cp.ContainerID = idMap[el.ContainerID]
		}
		if len(el.Points) > 0 {
			cp.Points = make([][2]float64, len(el.Points))
			copy(cp.Points, el.Points)
		}

		out = append(out, &cp)
	}
	return out
}

func remapBinding(b *Binding, idMap map[string]string) *Binding {
	if b == nil {
		return nil
	}
	mapped, ok := idMap[b.ElementID]
	if !ok {
		return nil
	}
	return &Binding{ElementID: mapped, Focus: b.Focus, Gap: b.Gap}
}
