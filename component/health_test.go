package component

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

type healthEvents struct {
	changed []event.HealthChange
	died    []event.Died
}

func watchHealth(t *testing.T) (*event.Bus, *healthEvents) {
	t.Helper()
	bus := event.NewBus(zaptest.NewLogger(t))
	rec := &healthEvents{}
	event.Subscribe(bus, event.HealthChanged, func(c event.HealthChange) { rec.changed = append(rec.changed, c) })
	event.Subscribe(bus, event.EntityDied, func(d event.Died) { rec.died = append(rec.died, d) })
	return bus, rec
}

func TestHealthDamageSequence(t *testing.T) {
	bus, rec := watchHealth(t)
	h := NewHealth(bus, 100)

	assert.False(t, h.TakeDamage(30))
	assert.Equal(t, 70.0, h.Current())
	assert.False(t, h.TakeDamage(30))
	assert.Equal(t, 40.0, h.Current())

	require.Len(t, rec.changed, 2)
	assert.Equal(t, 70.0, rec.changed[0].Current)
	assert.Equal(t, 40.0, rec.changed[1].Current)
	assert.Equal(t, 100.0, rec.changed[1].Max)
	assert.Empty(t, rec.died)
	assert.InDelta(t, 0.4, h.HealthPercent(), 1e-9)
}

func TestHealthDiesOnce(t *testing.T) {
	bus, rec := watchHealth(t)
	mgr := ecs.NewEntityManager(zaptest.NewLogger(t))
	e := mgr.CreateEntity(0, 0)
	h := NewHealth(bus, 5)
	e.AddComponent(h)

	assert.True(t, h.TakeDamage(5))
	assert.Equal(t, 0.0, h.Current())
	assert.False(t, h.IsAlive())

	assert.False(t, h.TakeDamage(5))
	assert.False(t, h.TakeDamage(1))

	require.Len(t, rec.died, 1)
	assert.Equal(t, e.ID(), rec.died[0].Entity)
	assert.Len(t, rec.changed, 1)
}

func TestHealthStaysInRange(t *testing.T) {
	tests := []struct {
		name    string
		max     float64
		damages []float64
		want    float64
	}{
		{"overkill", 3, []float64{10}, 0},
		{"chip", 10, []float64{1, 2, 3}, 4},
		{"exact", 4, []float64{2, 2, 2}, 0},
		{"ignores negative", 4, []float64{-5, 0, 1}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealth(nil, tc.max)
			for _, d := range tc.damages {
				h.TakeDamage(d)
				assert.GreaterOrEqual(t, h.Current(), 0.0)
				assert.LessOrEqual(t, h.Current(), h.Max())
			}
			assert.Equal(t, tc.want, h.Current())
		})
	}
}

func TestHealthZeroDamagePublishes(t *testing.T) {
	bus, rec := watchHealth(t)
	h := NewHealth(bus, 3)

	assert.False(t, h.TakeDamage(0))
	assert.False(t, h.TakeDamage(-2))
	assert.Equal(t, 3.0, h.Current())
	require.Len(t, rec.changed, 1)
	assert.Equal(t, 3.0, rec.changed[0].Current)
	assert.Empty(t, rec.died)
}

func TestHealthInvulnerability(t *testing.T) {
	bus, rec := watchHealth(t)
	h := NewHealth(bus, 3)

	h.MakeInvulnerable(2 * time.Second)
	assert.True(t, h.Invulnerable())
	assert.False(t, h.TakeDamage(1))
	assert.Equal(t, 3.0, h.Current())
	assert.Empty(t, rec.changed)

	h.Update(1500 * time.Millisecond)
	assert.True(t, h.Invulnerable())
	h.Update(500 * time.Millisecond)
	assert.False(t, h.Invulnerable())

	assert.False(t, h.TakeDamage(1))
	assert.Equal(t, 2.0, h.Current())
}

func TestHealthHeal(t *testing.T) {
	bus, rec := watchHealth(t)
	h := NewHealth(bus, 10)

	h.TakeDamage(6)
	h.Heal(2)
	assert.Equal(t, 6.0, h.Current())
	h.Heal(100)
	assert.Equal(t, 10.0, h.Current())
	assert.Len(t, rec.changed, 3)

	h.TakeDamage(10)
	h.Heal(5)
	assert.False(t, h.IsAlive())
	assert.Equal(t, 0.0, h.Current())
}
