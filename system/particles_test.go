package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/prefabs"
)

func newParticles(w *world, pool int) *Particles {
	game := prefabs.DefaultGameSpec()
	game.ParticlePool = pool
	return NewParticles(w.bus, w.rng, game)
}

func TestParticlesReusePool(t *testing.T) {
	w := newWorld(t)
	ps := newParticles(w, 10)

	w.bus.Emit(event.ParticleSpawn, event.Particles{X: 10, Y: 20})
	require.Len(t, ps.Live(), 5)
	assert.Equal(t, common.PoolStats{Pooled: 5, Active: 5, Total: 10}, ps.Stats())
	for _, p := range ps.Live() {
		assert.Equal(t, uint32(0xFFFFFF), p.Color)
		assert.True(t, p.Gravity)
	}

	ps.Update(nil, 500*time.Millisecond)
	require.Len(t, ps.Live(), 5)
	for _, p := range ps.Live() {
		assert.InDelta(t, 0.5, p.Alpha, 1e-9)
		assert.InDelta(t, 0.75, p.Scale, 1e-9)
	}

	ps.Update(nil, 600*time.Millisecond)
	assert.Empty(t, ps.Live())
	assert.Equal(t, common.PoolStats{Pooled: 10, Active: 0, Total: 10}, ps.Stats())
}

func TestParticlesGrowPastPool(t *testing.T) {
	w := newWorld(t)
	ps := newParticles(w, 4)

	w.bus.Emit(event.ParticleExplosion, event.Particles{})
	assert.Len(t, ps.Live(), 20)
	assert.Equal(t, 20, ps.Stats().Active)
	for _, p := range ps.Live() {
		assert.Equal(t, uint32(0xFF5722), p.Color)
		assert.GreaterOrEqual(t, p.Radius, 4.0)
		assert.Less(t, p.Radius, 7.0)
	}
}

func TestParticlesSpreadFansOut(t *testing.T) {
	w := newWorld(t)
	ps := newParticles(w, 10)

	ps.Spawn(event.Particles{Count: 4, Spread: true, Color: 0xFFD700})
	live := ps.Live()
	require.Len(t, live, 4)
	assert.Greater(t, live[0].VX, 0.0, "first particle heads right")
	assert.Less(t, live[2].VX, 0.0, "opposite particle heads left")
}

func TestParticlesTrailIgnoresGravity(t *testing.T) {
	w := newWorld(t)
	ps := newParticles(w, 10)

	w.bus.Emit(event.ParticleTrail, event.Particles{X: 5, Y: 5})
	require.Len(t, ps.Live(), 3)
	for _, p := range ps.Live() {
		assert.False(t, p.Gravity)
		assert.Equal(t, 300*time.Millisecond, p.MaxLife)
		assert.Equal(t, uint32(0x2196F3), p.Color)
	}

	ps.Update(nil, 300*time.Millisecond)
	assert.Empty(t, ps.Live())
}

func TestParticlesDestroyStopsListening(t *testing.T) {
	w := newWorld(t)
	ps := newParticles(w, 10)
	ps.Destroy()

	w.bus.Emit(event.ParticleSpawn, event.Particles{})
	assert.Empty(t, ps.Live())
}
