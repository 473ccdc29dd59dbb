package component

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

const frame = 16 * time.Millisecond

type playerRig struct {
	bus    *event.Bus
	entity *ecs.Entity
	body   *PointBody
	input  *InputState
	player *Player
	sprite *Sprite
	jumps  []string
	dashes []int
	ended  int
}

func newPlayerRig(t *testing.T) *playerRig {
	t.Helper()
	r := &playerRig{
		bus:   event.NewBus(zaptest.NewLogger(t)),
		body:  &PointBody{},
		input: &InputState{},
	}
	r.sprite = NewSprite(32, 48, 0x4CAF50, 40)
	r.player = NewPlayer(r.bus, DefaultPlayerConfig(), rand.New(rand.NewPCG(1, 2)))
	r.entity = ecs.NewEntity(0, 0).
		AddComponent(r.sprite).
		AddComponent(NewPhysics(r.body)).
		AddComponent(NewInput(r.input)).
		AddComponent(r.player)
	require.NoError(t, r.entity.Init())

	event.Subscribe(r.bus, event.PlayerJump, func(j event.Jumped) { r.jumps = append(r.jumps, j.Type) })
	event.Subscribe(r.bus, event.PlayerDash, func(d event.Dashed) { r.dashes = append(r.dashes, d.Direction) })
	r.bus.On(event.ComboEnded, func(any) { r.ended++ })
	return r
}

// step runs one frame; a jump press lasts exactly one frame.
func (r *playerRig) step(dt time.Duration) {
	r.entity.Update(dt)
	r.input.Jump = false
}

func (r *playerRig) steps(n int) {
	for range n {
		r.step(frame)
	}
}

func TestPlayerInitNeedsSiblings(t *testing.T) {
	p := NewPlayer(nil, DefaultPlayerConfig(), nil)
	e := ecs.NewEntity(0, 0).AddComponent(p)
	err := e.Init()
	require.ErrorIs(t, err, ErrMissingCapability)

	// inert, not panicking
	e.Update(frame)
	assert.False(t, p.Grounded())
}

func TestPlayerGroundJump(t *testing.T) {
	r := newPlayerRig(t)
	r.body.Touch.Down = true
	r.step(frame)
	assert.Equal(t, 100*time.Millisecond, r.player.CoyoteTimer())

	r.input.Jump = true
	r.step(frame)
	assert.Equal(t, -550.0, r.body.VY)
	assert.Equal(t, []string{event.JumpNormal}, r.jumps)
	assert.Zero(t, r.player.JumpBufferTimer())
	assert.Zero(t, r.player.CoyoteTimer())
}

func TestPlayerCoyoteJump(t *testing.T) {
	r := newPlayerRig(t)
	r.body.Touch.Down = true
	r.step(frame)

	r.body.Touch.Down = false
	r.step(25 * time.Millisecond)
	r.step(25 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, r.player.CoyoteTimer())

	r.input.Jump = true
	r.step(time.Millisecond)
	assert.Equal(t, -550.0, r.body.VY)
	assert.Equal(t, []string{event.JumpNormal}, r.jumps)
}

func TestPlayerCoyoteExpires(t *testing.T) {
	r := newPlayerRig(t)
	r.body.Touch.Down = true
	r.step(frame)

	r.body.Touch.Down = false
	r.step(120 * time.Millisecond)
	r.input.Jump = true
	r.step(frame)
	assert.Empty(t, r.jumps)
	assert.Positive(t, r.player.JumpBufferTimer())
}

func TestPlayerBufferedJump(t *testing.T) {
	tests := []struct {
		name   string
		before int
		want   bool
	}{
		{"within buffer", 5, true},
		{"buffer lapsed", 7, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newPlayerRig(t)
			r.input.Jump = true
			r.step(frame)
			r.steps(tc.before)

			r.body.Touch.Down = true
			r.step(frame)
			if tc.want {
				assert.Equal(t, []string{event.JumpNormal}, r.jumps)
			} else {
				assert.Empty(t, r.jumps)
			}
		})
	}
}

func TestPlayerBufferConsumedOnce(t *testing.T) {
	r := newPlayerRig(t)
	r.player.AddPowerUp(PowerUpDoubleJump)
	r.body.Touch.Down = true
	r.input.Jump = true
	r.step(frame)

	r.body.Touch.Down = false
	r.steps(3)
	assert.Equal(t, []string{event.JumpNormal}, r.jumps)
	assert.False(t, r.player.DoubleJumped())
}

func TestPlayerWallSlideAndJump(t *testing.T) {
	r := newPlayerRig(t)
	r.body.Touch.Left = true
	r.body.VY = 400
	r.step(frame)
	assert.True(t, r.player.WallSliding())
	assert.Equal(t, 100.0, r.body.VY)

	r.input.Jump = true
	r.input.JumpDown = true
	r.step(frame)
	assert.Equal(t, []string{event.JumpWall}, r.jumps)
	assert.InDelta(t, -550*0.9, r.body.VY, 1e-9)
	assert.Equal(t, 400.0, r.body.VX)
}

func TestPlayerWallSlideNeedsWallJump(t *testing.T) {
	r := newPlayerRig(t)
	r.player.Config.WallJump = false
	r.body.Touch.Right = true
	r.body.VY = 400
	r.step(frame)
	assert.False(t, r.player.WallSliding())
	assert.Equal(t, 400.0, r.body.VY)
}

func TestPlayerDoubleJump(t *testing.T) {
	r := newPlayerRig(t)
	r.input.JumpDown = true
	r.input.Jump = true
	r.step(frame)
	assert.Empty(t, r.jumps, "no double jump without the power-up")

	r.steps(10)
	assert.True(t, r.player.AddPowerUp(PowerUpDoubleJump))
	r.input.Jump = true
	r.step(frame)
	assert.Equal(t, []string{event.JumpDouble}, r.jumps)
	assert.InDelta(t, -550*0.85, r.body.VY, 1e-9)
	assert.True(t, r.player.DoubleJumped())

	r.input.Jump = true
	r.step(frame)
	assert.Len(t, r.jumps, 1)

	r.body.Touch.Down = true
	r.step(frame)
	assert.False(t, r.player.DoubleJumped())
}

func TestPlayerJumpCut(t *testing.T) {
	r := newPlayerRig(t)
	r.body.VY = -400
	r.step(frame)
	assert.Equal(t, -200.0, r.body.VY)

	r.input.JumpDown = true
	r.step(frame)
	assert.Equal(t, -200.0, r.body.VY)
}

func TestPlayerHorizontalMovement(t *testing.T) {
	r := newPlayerRig(t)
	r.input.X = -1
	r.step(frame)
	assert.Equal(t, -300.0, r.body.VX)
	assert.True(t, r.sprite.FlipX)

	r.player.AddPowerUp(PowerUpSpeedBoost)
	r.input.X = 1
	r.step(frame)
	assert.Equal(t, 450.0, r.body.VX)
	assert.False(t, r.sprite.FlipX)

	r.input.X = 0
	r.step(frame)
	assert.Zero(t, r.body.VX)
	assert.False(t, r.sprite.FlipX)
}

func TestPlayerDash(t *testing.T) {
	r := newPlayerRig(t)
	r.input.X = 1
	r.input.Dash = true
	r.step(frame)
	assert.False(t, r.player.Dashing(), "dash needs the power-up")

	r.player.AddPowerUp(PowerUpDash)
	r.body.VY = 120
	r.step(frame)
	require.True(t, r.player.Dashing())
	assert.Equal(t, 800.0, r.body.VX)
	assert.Zero(t, r.body.VY)
	assert.Equal(t, []int{1}, r.dashes)
	assert.Equal(t, 500*time.Millisecond, r.player.DashCooldown())

	// horizontal input does not override the dash
	r.input.X = -1
	r.step(100 * time.Millisecond)
	assert.Equal(t, 800.0, r.body.VX)
	assert.Equal(t, 500*time.Millisecond, r.player.DashCooldown(), "cooldown waits for the dash to end")

	r.step(100 * time.Millisecond)
	assert.False(t, r.player.Dashing())
	assert.Equal(t, 1000.0, r.body.DragX)

	r.step(100 * time.Millisecond)
	assert.Zero(t, r.body.DragX)
	assert.Equal(t, 400*time.Millisecond, r.player.DashCooldown())
	assert.Len(t, r.dashes, 1, "cooldown blocks a second dash")

	r.step(400 * time.Millisecond)
	assert.Len(t, r.dashes, 2)
	assert.Equal(t, []int{1, -1}, r.dashes)
}

func TestPlayerDashOverridesWallSlide(t *testing.T) {
	r := newPlayerRig(t)
	r.player.AddPowerUp(PowerUpDash)
	r.body.Touch.Left = true
	r.body.VY = 400
	r.input.X = 1
	r.input.Dash = true

	r.step(frame)
	require.True(t, r.player.Dashing())
	assert.False(t, r.player.WallSliding())
	assert.Zero(t, r.body.VY)
	assert.Equal(t, 800.0, r.body.VX)

	// still dashing along the wall: no slide cap is applied
	r.body.VY = 300
	r.step(frame)
	require.True(t, r.player.Dashing())
	assert.False(t, r.player.WallSliding())
	assert.Equal(t, 300.0, r.body.VY)
}

func TestPlayerCombo(t *testing.T) {
	r := newPlayerRig(t)
	for range 4 {
		r.player.IncrementCombo()
		r.step(500 * time.Millisecond)
	}
	assert.Equal(t, 4, r.player.Combo())
	assert.InDelta(t, 1.4, r.player.ComboMultiplier(), 1e-9)

	r.step(1600 * time.Millisecond)
	assert.Zero(t, r.player.Combo())
	assert.Equal(t, 1, r.ended)
	assert.Equal(t, 1.0, r.player.ComboMultiplier())

	r.steps(10)
	assert.Equal(t, 1, r.ended)
}

func TestPlayerPowerUps(t *testing.T) {
	r := newPlayerRig(t)
	var acquired []string
	event.Subscribe(r.bus, event.PowerUpAcquired, func(p event.PowerUp) { acquired = append(acquired, p.Type) })

	assert.False(t, r.player.AddPowerUp("jetpack"))
	assert.True(t, r.player.AddPowerUp(PowerUpShield))
	assert.True(t, r.player.AddPowerUp(PowerUpDash))
	assert.Equal(t, []string{PowerUpShield, PowerUpDash}, acquired)
	assert.Equal(t, []string{PowerUpDash, PowerUpShield}, r.player.PowerUps())

	assert.True(t, r.player.ConsumeShield())
	assert.False(t, r.player.ConsumeShield())
	assert.False(t, r.player.HasPowerUp(PowerUpShield))
}

func TestPlayerKnockback(t *testing.T) {
	r := newPlayerRig(t)
	r.player.ApplyKnockback(-300, -200)
	assert.Equal(t, -300.0, r.body.VX)
	assert.Equal(t, -200.0, r.body.VY)
}
