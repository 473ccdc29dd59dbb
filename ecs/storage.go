package ecs

// entityStore hands out entity ids, reusing freed slots with a bumped generation.
type entityStore struct {
	gen  []generation
	free []slotID
}

func (s *entityStore) create() EntityID {
	if s == nil {
		return 0
	}
	var slot slotID
	if len(s.free) > 0 {
		slot = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.gen = append(s.gen, 0)
		slot = slotID(len(s.gen))
	}
	return makeEntityID(slot, s.gen[slot-1])
}

func (s *entityStore) destroy(id EntityID) bool {
	if !s.isAlive(id) {
		return false
	}
	slot := id.slot()
	s.gen[slot-1]++
	s.free = append(s.free, slot)
	return true
}

func (s *entityStore) isAlive(id EntityID) bool {
	if s == nil {
		return false
	}
	slot := id.slot()
	if slot == 0 || int(slot) > len(s.gen) {
		return false
	}
	return s.gen[slot-1] == id.generation()
}

func (s *entityStore) reset() {
	if s == nil {
		return
	}
	s.gen = nil
	s.free = nil
}
