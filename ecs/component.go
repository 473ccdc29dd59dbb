package ecs

import (
	"errors"
	"sync/atomic"
	"time"
)

var (
	ErrNilComponent = errors.New("ecs: component is nil")
	ErrNilEntity    = errors.New("ecs: entity is nil")
)

// ComponentID is the type key a component is stored under.
type ComponentID uint32

var nextComponentID atomic.Uint32

// Kind is a compile-time token for component type T. Declare one package
// level Kind per component type.
type Kind[T Component] struct {
	id ComponentID
}

// NewKind allocates a fresh component type key.
func NewKind[T Component]() Kind[T] {
	return Kind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k Kind[T]) ID() ComponentID {
	return k.id
}

func (k Kind[T]) Valid() bool {
	return k.id != 0
}

// Component is state attached to an entity. Embed Base to satisfy it.
type Component interface {
	Kind() ComponentID
	Entity() *Entity
	Enabled() bool
	bind(e *Entity)
}

// Initializer is implemented by components that need their siblings.
type Initializer interface {
	Init() error
}

// Updater is implemented by components that tick every frame.
type Updater interface {
	Update(dt time.Duration)
}

// Destroyer is implemented by components and systems holding resources.
type Destroyer interface {
	Destroy()
}

// Base holds the owner back-reference and enabled flag. The entity owns the
// component, never the other way around.
type Base struct {
	entity   *Entity
	disabled bool
}

func (b *Base) bind(e *Entity) {
	b.entity = e
}

// Entity returns the owning entity, nil while detached.
func (b *Base) Entity() *Entity {
	if b == nil {
		return nil
	}
	return b.entity
}

func (b *Base) Enabled() bool {
	return b != nil && !b.disabled
}

func (b *Base) SetEnabled(enabled bool) {
	if b == nil {
		return
	}
	b.disabled = !enabled
}
