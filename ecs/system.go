package ecs

import "time"

// System applies cross-entity logic to the entities it accepts.
type System interface {
	Enabled() bool
	Filter(e *Entity) bool
	UpdateEntity(e *Entity, dt time.Duration)
}

// FrameUpdater replaces the default per-entity iteration for systems that
// need the whole entity list or have work of their own each frame.
type FrameUpdater interface {
	Update(entities []*Entity, dt time.Duration)
}

// BaseSystem accepts every entity and does nothing with it. Embed it and
// override what the system needs.
type BaseSystem struct {
	disabled bool
}

func (b *BaseSystem) Enabled() bool {
	return b != nil && !b.disabled
}

func (b *BaseSystem) SetEnabled(enabled bool) {
	if b == nil {
		return
	}
	b.disabled = !enabled
}

func (b *BaseSystem) Filter(*Entity) bool { return true }

func (b *BaseSystem) UpdateEntity(*Entity, time.Duration) {}

// RunSystem updates s for one frame. Disabled systems are skipped entirely;
// otherwise only active entities passing Filter reach UpdateEntity.
func RunSystem(s System, entities []*Entity, dt time.Duration) {
	if s == nil || !s.Enabled() {
		return
	}
	if fu, ok := s.(FrameUpdater); ok {
		fu.Update(entities, dt)
		return
	}
	EachEntity(s, entities, dt)
}

// EachEntity is the default iteration. FrameUpdaters call it to keep the
// filter semantics around their own per-frame work.
func EachEntity(s System, entities []*Entity, dt time.Duration) {
	for _, e := range entities {
		if e.Active() && s.Filter(e) {
			s.UpdateEntity(e, dt)
		}
	}
}

// Requires returns a filter accepting entities that carry every kind.
func Requires(kinds ...ComponentID) func(*Entity) bool {
	required := append([]ComponentID(nil), kinds...)
	return func(e *Entity) bool {
		return hasAll(e, required)
	}
}
