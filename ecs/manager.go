package ecs

import (
	"time"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// EntityManager owns the entity list and the system order.
type EntityManager struct {
	log *zap.Logger

	ids      entityStore
	entities []*Entity
	byID     *intmap.Map[EntityID, *Entity]
	systems  []System

	doomed   []*Entity
	doomedID map[EntityID]struct{}
}

// NewEntityManager creates an empty manager. A nil logger is replaced by a no-op one.
func NewEntityManager(log *zap.Logger) *EntityManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &EntityManager{
		log:      log,
		byID:     intmap.New[EntityID, *Entity](64),
		doomedID: make(map[EntityID]struct{}),
	}
}

// CreateEntity registers a new entity at (x, y).
func (m *EntityManager) CreateEntity(x, y float64) *Entity {
	return m.AddEntity(NewEntity(x, y))
}

// AddEntity registers an entity built elsewhere. Adding an entity twice is a no-op.
func (m *EntityManager) AddEntity(e *Entity) *Entity {
	if m == nil || e == nil {
		return e
	}
	if e.manager == m && m.ids.isAlive(e.id) {
		return e
	}
	e.id = m.ids.create()
	e.manager = m
	m.entities = append(m.entities, e)
	m.byID.Put(e.id, e)
	return e
}

// AddSystem appends a system to the update order.
func (m *EntityManager) AddSystem(s System) System {
	if m == nil || s == nil {
		return s
	}
	m.systems = append(m.systems, s)
	return s
}

// Systems returns the systems in update order.
func (m *EntityManager) Systems() []System {
	if m == nil {
		return nil
	}
	return append([]System(nil), m.systems...)
}

// Entities returns the live entity list. Callers must not modify it.
func (m *EntityManager) Entities() []*Entity {
	if m == nil {
		return nil
	}
	return m.entities
}

// Len returns the number of registered entities, including ones queued for destruction.
func (m *EntityManager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entities)
}

// EntityByID looks up a registered entity.
func (m *EntityManager) EntityByID(id EntityID) (*Entity, bool) {
	if m == nil {
		return nil, false
	}
	return m.byID.Get(id)
}

// IsAlive reports whether id refers to a registered, not yet destroyed entity.
func (m *EntityManager) IsAlive(id EntityID) bool {
	return m != nil && m.ids.isAlive(id)
}

// GetEntitiesByTag returns the entities carrying tag, in registration order.
func (m *EntityManager) GetEntitiesByTag(tag string) []*Entity {
	if m == nil {
		return nil
	}
	return Filter(m.entities, func(e *Entity) bool { return e.HasTag(tag) })
}

// GetEntitiesWithComponents returns the entities carrying every listed kind.
func (m *EntityManager) GetEntitiesWithComponents(kinds ...ComponentID) []*Entity {
	if m == nil {
		return nil
	}
	return Filter(m.entities, Requires(kinds...))
}

// DestroyEntity queues e for destruction at the end of the current update.
func (m *EntityManager) DestroyEntity(e *Entity) {
	if m == nil || e == nil || e.manager != m {
		return
	}
	if _, queued := m.doomedID[e.id]; queued {
		return
	}
	m.doomedID[e.id] = struct{}{}
	m.doomed = append(m.doomed, e)
}

// Update runs systems, then entity component updates, then applies queued
// destruction. Entities queued during this pass stay in the list until the
// pass completes.
func (m *EntityManager) Update(dt time.Duration) {
	if m == nil {
		return
	}
	for _, s := range m.systems {
		RunSystem(s, m.entities, dt)
	}
	for _, e := range m.entities {
		e.Update(dt)
	}
	m.flush()
}

func (m *EntityManager) flush() {
	if len(m.doomed) == 0 {
		return
	}
	doomed := m.doomed
	m.doomed = nil
	clear(m.doomedID)

	for _, e := range doomed {
		e.Destroy()
		m.byID.Del(e.id)
		m.ids.destroy(e.id)
		e.manager = nil
	}

	// compact in place, keeping registration order
	kept := m.entities[:0]
	for _, e := range m.entities {
		if e.manager == m {
			kept = append(kept, e)
		}
	}
	clear(m.entities[len(kept):])
	m.entities = kept

	m.log.Debug("entities destroyed", zap.Int("count", len(doomed)), zap.Int("remaining", len(kept)))
}

// Destroy tears down every entity, then every system.
func (m *EntityManager) Destroy() {
	if m == nil {
		return
	}
	for _, e := range m.entities {
		e.Destroy()
		e.manager = nil
	}
	m.entities = nil
	m.byID.Clear()
	m.ids.reset()
	m.doomed = nil
	clear(m.doomedID)

	for _, s := range m.systems {
		if d, ok := s.(Destroyer); ok {
			d.Destroy()
		}
	}
	m.systems = nil
}
