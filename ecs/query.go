package ecs

func hasAll(e *Entity, kinds []ComponentID) bool {
	if e == nil {
		return false
	}
	for _, kind := range kinds {
		if !e.HasComponent(kind) {
			return false
		}
	}
	return true
}

// Filter returns the entities matching keep, preserving order.
func Filter(entities []*Entity, keep func(*Entity) bool) []*Entity {
	out := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entity carrying every kind.
func First(entities []*Entity, kinds ...ComponentID) (*Entity, bool) {
	for _, e := range entities {
		if hasAll(e, kinds) {
			return e, true
		}
	}
	return nil, false
}

// FirstTagged returns the first active entity carrying tag.
func FirstTagged(entities []*Entity, tag string) (*Entity, bool) {
	for _, e := range entities {
		if e.Active() && e.HasTag(tag) {
			return e, true
		}
	}
	return nil, false
}
