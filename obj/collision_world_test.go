package obj

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/platformer/prefabs"
)

const frame = 16 * time.Millisecond

func box(size float64) prefabs.BodySpec {
	return prefabs.BodySpec{Width: size, Height: size, FixedAngle: true}
}

func stepN(cw *CollisionWorld, n int) {
	for range n {
		cw.Step(frame)
	}
}

func TestBodyLandsOnPlatform(t *testing.T) {
	cw := NewCollisionWorld(800, 0, 0)
	cw.AddPlatform(200, 200, 400, 20)
	b := cw.AddBody(200, 150, box(32))

	assert.False(t, b.Contacts().Down)
	stepN(cw, 90)

	_, y := b.Position()
	assert.InDelta(t, 174.0, y, 1.0)
	assert.True(t, b.Contacts().Down)
	assert.False(t, b.Contacts().Up)
	_, vy := b.Velocity()
	assert.InDelta(t, 0.0, vy, 1.0)
}

func TestBodyTouchesWall(t *testing.T) {
	cw := NewCollisionWorld(800, 0, 0)
	cw.AddPlatform(200, 200, 400, 20)
	cw.AddPlatform(300, 100, 20, 200)
	b := cw.AddBody(200, 174, box(32))

	for range 90 {
		b.SetVelocityX(200)
		cw.Step(frame)
	}

	x, _ := b.Position()
	assert.InDelta(t, 274.0, x, 1.0)
	assert.True(t, b.Contacts().Right)
	assert.False(t, b.Contacts().Left)
	assert.Equal(t, 1, b.Contacts().WallDirection())
}

func TestWorldBoundsHoldBodies(t *testing.T) {
	cw := NewCollisionWorld(800, 400, 300)
	b := cw.AddBody(200, 100, box(20))
	stepN(cw, 120)

	_, y := b.Position()
	assert.InDelta(t, 290.0, y, 2.0)
	assert.True(t, b.Contacts().Down)
}

func TestNoGravityBodyFloats(t *testing.T) {
	cw := NewCollisionWorld(800, 0, 0)
	spec := box(30)
	spec.NoGravity = true
	b := cw.AddBody(100, 100, spec)
	b.SetVelocity(50, 0)

	cw.Step(time.Second)
	x, y := b.Position()
	assert.InDelta(t, 150.0, x, 1e-6)
	assert.InDelta(t, 100.0, y, 1e-6)
}

func TestDragSlowsToRest(t *testing.T) {
	cw := NewCollisionWorld(0, 0, 0)
	b := cw.AddBody(0, 0, box(10))
	b.SetVelocity(800, 0)
	b.SetDragX(1000)

	stepN(cw, 25)
	vx, _ := b.Velocity()
	assert.InDelta(t, 400.0, vx, 1e-6)

	stepN(cw, 30)
	vx, _ = b.Velocity()
	assert.Zero(t, vx)

	b.SetDragX(0)
	b.SetVelocity(100, 0)
	cw.Step(frame)
	vx, _ = b.Velocity()
	assert.Equal(t, 100.0, vx)
}

func TestActorsPassThroughEachOther(t *testing.T) {
	cw := NewCollisionWorld(0, 0, 0)
	a := cw.AddBody(0, 0, box(20))
	b := cw.AddBody(30, 0, box(20))
	a.SetVelocity(100, 0)
	b.SetVelocity(-100, 0)

	stepN(cw, 30)
	ax, _ := a.Position()
	bx, _ := b.Position()
	assert.Greater(t, ax, bx)
	assert.Equal(t, 100.0, mustVX(t, a))
}

func mustVX(t *testing.T, b *Body) float64 {
	t.Helper()
	vx, _ := b.Velocity()
	return vx
}

func TestRemoveBody(t *testing.T) {
	cw := NewCollisionWorld(800, 0, 0)
	b := cw.AddBody(0, 0, box(20))
	require.Len(t, cw.Bodies(), 1)

	b.Remove()
	b.Remove()
	assert.Empty(t, cw.Bodies())
	assert.False(t, cw.Space().ContainsBody(b.body))
	assert.NotPanics(t, func() { cw.Step(frame) })
}
