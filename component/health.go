package component

import (
	"time"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

var HealthKind = ecs.NewKind[*Health]()

// Health tracks hit points and a post-hit invulnerability window.
// Current stays within [0, Max]; reaching 0 publishes entity:died once.
type Health struct {
	ecs.Base

	bus          *event.Bus
	max          float64
	current      float64
	invulnerable time.Duration
}

// NewHealth creates a Health component at full health.
func NewHealth(bus *event.Bus, max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{bus: bus, max: max, current: max}
}

func (h *Health) Kind() ecs.ComponentID { return HealthKind.ID() }

// TakeDamage subtracts amount and reports whether this hit killed the
// entity. Invulnerable or dead entities ignore damage, as do negative
// amounts. A zero hit still publishes health:changed.
func (h *Health) TakeDamage(amount float64) bool {
	if h == nil || amount < 0 || h.Invulnerable() || !h.IsAlive() {
		return false
	}

	h.current -= amount
	if h.current < 0 {
		h.current = 0
	}
	h.publishChanged()

	if h.current > 0 {
		return false
	}
	h.bus.Emit(event.EntityDied, event.Died{Entity: h.Entity().ID()})
	return true
}

// Heal restores up to Max. Dead entities stay dead.
func (h *Health) Heal(amount float64) {
	if h == nil || amount <= 0 || !h.IsAlive() {
		return
	}
	h.current = min(h.current+amount, h.max)
	h.publishChanged()
}

func (h *Health) MakeInvulnerable(d time.Duration) {
	if h == nil || d <= 0 {
		return
	}
	h.invulnerable = d
}

func (h *Health) Update(dt time.Duration) {
	if h.invulnerable <= 0 {
		return
	}
	h.invulnerable -= dt
	if h.invulnerable < 0 {
		h.invulnerable = 0
	}
}

func (h *Health) Invulnerable() bool {
	return h != nil && h.invulnerable > 0
}

func (h *Health) InvulnerableFor() time.Duration {
	if h == nil {
		return 0
	}
	return h.invulnerable
}

func (h *Health) IsAlive() bool {
	return h != nil && h.current > 0
}

// HealthPercent is Current/Max in [0, 1].
func (h *Health) HealthPercent() float64 {
	if h == nil {
		return 0
	}
	return h.current / h.max
}

func (h *Health) Current() float64 {
	if h == nil {
		return 0
	}
	return h.current
}

func (h *Health) Max() float64 {
	if h == nil {
		return 0
	}
	return h.max
}

func (h *Health) publishChanged() {
	h.bus.Emit(event.HealthChanged, event.HealthChange{
		Entity:  h.Entity().ID(),
		Current: h.current,
		Max:     h.max,
	})
}
