package ecs

import (
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// EntityID packs a storage slot and the slot's generation.
type EntityID uint64

type slotID uint32
type generation uint32

const slotIDBits = 32

func makeEntityID(slot slotID, gen generation) EntityID {
	return EntityID(uint64(gen)<<slotIDBits | uint64(slot))
}

func (id EntityID) slot() slotID {
	return slotID(uint32(id))
}

func (id EntityID) generation() generation {
	return generation(uint32(uint64(id) >> slotIDBits))
}

func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Valid reports whether the id was assigned by a manager.
func (id EntityID) Valid() bool {
	return id.slot() > 0
}

// Entity is an identity plus position holding at most one component per kind.
type Entity struct {
	X, Y float64

	id      EntityID
	manager *EntityManager
	active  bool

	components map[ComponentID]Component
	order      []ComponentID
	pending    []ComponentID
	ready      bool
	initErr    error

	tags map[string]struct{}
}

// NewEntity creates a detached entity. It receives an id when added to a manager.
func NewEntity(x, y float64) *Entity {
	return &Entity{
		X:          x,
		Y:          y,
		active:     true,
		components: make(map[ComponentID]Component),
		tags:       make(map[string]struct{}),
	}
}

// ID returns the entity id, zero while detached.
func (e *Entity) ID() EntityID {
	if e == nil {
		return 0
	}
	return e.id
}

// Manager returns the owning manager, if any.
func (e *Entity) Manager() *EntityManager {
	if e == nil {
		return nil
	}
	return e.manager
}

// Active reports whether the entity is updated each frame.
func (e *Entity) Active() bool {
	return e != nil && e.active
}

// SetActive toggles per-frame updates.
func (e *Entity) SetActive(active bool) {
	if e == nil {
		return
	}
	e.active = active
}

// Position returns the entity position.
func (e *Entity) Position() (float64, float64) {
	if e == nil {
		return 0, 0
	}
	return e.X, e.Y
}

// AddComponent stores c under its kind and binds it to e. A second component
// of the same kind replaces the first in place without destroying it.
func (e *Entity) AddComponent(c Component) *Entity {
	if e == nil || c == nil {
		return e
	}
	kind := c.Kind()
	if _, exists := e.components[kind]; !exists {
		e.order = append(e.order, kind)
	}
	e.components[kind] = c
	c.bind(e)

	if e.ready {
		e.reportInit(e.initComponent(c))
	} else if !containsKind(e.pending, kind) {
		e.pending = append(e.pending, kind)
	}
	return e
}

// GetComponent returns the component stored under kind.
func (e *Entity) GetComponent(kind ComponentID) (Component, bool) {
	if e == nil {
		return nil, false
	}
	c, ok := e.components[kind]
	return c, ok
}

// HasComponent reports whether a component of kind is attached.
func (e *Entity) HasComponent(kind ComponentID) bool {
	if e == nil {
		return false
	}
	_, ok := e.components[kind]
	return ok
}

// RemoveComponent destroys and detaches the component stored under kind.
func (e *Entity) RemoveComponent(kind ComponentID) *Entity {
	if e == nil {
		return e
	}
	c, ok := e.components[kind]
	if !ok {
		return e
	}
	if d, ok := c.(Destroyer); ok {
		d.Destroy()
	}
	delete(e.components, kind)
	e.order = removeKind(e.order, kind)
	e.pending = removeKind(e.pending, kind)
	return e
}

// Components returns the attached components in insertion order.
func (e *Entity) Components() []Component {
	if e == nil {
		return nil
	}
	out := make([]Component, 0, len(e.order))
	for _, kind := range e.order {
		out = append(out, e.components[kind])
	}
	return out
}

// AddTag labels the entity.
func (e *Entity) AddTag(tag string) *Entity {
	if e == nil {
		return e
	}
	e.tags[tag] = struct{}{}
	return e
}

// HasTag reports whether the entity carries tag.
func (e *Entity) HasTag(tag string) bool {
	if e == nil {
		return false
	}
	_, ok := e.tags[tag]
	return ok
}

// RemoveTag drops tag from the entity.
func (e *Entity) RemoveTag(tag string) {
	if e == nil {
		return
	}
	delete(e.tags, tag)
}

// Init runs Init on every component added since the last call. Components
// added afterwards are initialized immediately.
func (e *Entity) Init() error {
	if e == nil {
		return nil
	}
	e.ready = true
	pending := e.pending
	e.pending = nil

	var errs []error
	for _, kind := range pending {
		c, ok := e.components[kind]
		if !ok {
			continue
		}
		if err := e.initComponent(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Entity) initComponent(c Component) error {
	i, ok := c.(Initializer)
	if !ok {
		return nil
	}
	return i.Init()
}

// reportInit keeps init failures nobody was there to receive: late adds
// and the implicit Init in Update. They are logged through the manager.
func (e *Entity) reportInit(err error) {
	if err == nil {
		return
	}
	e.initErr = errors.Join(e.initErr, err)
	if e.manager != nil {
		e.manager.log.Warn("component init failed", zap.Stringer("entity", e.id), zap.Error(err))
	}
}

// InitErr returns the init failures of components added after Init or
// initialized by Update.
func (e *Entity) InitErr() error {
	if e == nil {
		return nil
	}
	return e.initErr
}

// Update advances every enabled component in insertion order.
func (e *Entity) Update(dt time.Duration) {
	if e == nil || !e.active {
		return
	}
	if len(e.pending) > 0 || !e.ready {
		e.reportInit(e.Init())
	}

	order := append([]ComponentID(nil), e.order...)
	for _, kind := range order {
		c, ok := e.components[kind]
		if !ok || !c.Enabled() {
			continue
		}
		if u, ok := c.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Destroy destroys every component in insertion order and deactivates e.
func (e *Entity) Destroy() {
	if e == nil {
		return
	}
	order := e.order
	e.order = nil
	e.pending = nil
	for _, kind := range order {
		c, ok := e.components[kind]
		if !ok {
			continue
		}
		if d, ok := c.(Destroyer); ok {
			d.Destroy()
		}
	}
	clear(e.components)
	e.active = false
}

func removeKind(kinds []ComponentID, kind ComponentID) []ComponentID {
	for i, k := range kinds {
		if k == kind {
			return append(kinds[:i], kinds[i+1:]...)
		}
	}
	return kinds
}

func containsKind(kinds []ComponentID, kind ComponentID) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
