package component

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

var PlayerKind = ecs.NewKind[*Player]()

const (
	PowerUpDoubleJump = "doubleJump"
	PowerUpSpeedBoost = "speedBoost"
	PowerUpShield     = "shield"
	PowerUpDash       = "dash"
)

const (
	wallJumpLift    = 0.9
	doubleJumpLift  = 0.85
	jumpCutFactor   = 0.5
	wallDustChance  = 0.3
	runDustChance   = 0.2
	comboMultiplier = 0.1
)

// PlayerConfig tunes the movement controller. Velocities are pixels per
// second with y pointing down, so JumpPower is negative.
type PlayerConfig struct {
	Speed            float64
	SpeedBoostFactor float64
	JumpPower        float64
	WallJump         bool
	WallSlideSpeed   float64
	WallJumpPush     float64
	DashSpeed        float64
	DashDuration     time.Duration
	DashCooldown     time.Duration
	DashBrakeDrag    float64
	DashBrakeTime    time.Duration
	CoyoteTime       time.Duration
	JumpBuffer       time.Duration
	ComboWindow      time.Duration
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Speed:            300,
		SpeedBoostFactor: 1.5,
		JumpPower:        -550,
		WallJump:         true,
		WallSlideSpeed:   100,
		WallJumpPush:     400,
		DashSpeed:        800,
		DashDuration:     200 * time.Millisecond,
		DashCooldown:     500 * time.Millisecond,
		DashBrakeDrag:    1000,
		DashBrakeTime:    100 * time.Millisecond,
		CoyoteTime:       100 * time.Millisecond,
		JumpBuffer:       100 * time.Millisecond,
		ComboWindow:      2 * time.Second,
	}
}

// Player is the movement controller. It needs Physics, Input and Sprite
// siblings, bound once in Init; without them it does nothing.
type Player struct {
	ecs.Base
	Config PlayerConfig

	bus *event.Bus
	rng *rand.Rand

	physics *Physics
	input   *Input
	sprite  *Sprite

	grounded     bool
	coyote       time.Duration
	jumpBuffer   time.Duration
	doubleJumped bool

	wallDir     int
	wallSliding bool

	dashing      bool
	dashTimer    time.Duration
	dashCooldown time.Duration
	brakeTimer   time.Duration

	powerUps map[string]bool

	combo      int
	comboTimer time.Duration
}

// NewPlayer creates a controller. rng drives cosmetic particles only; nil
// seeds one from the clock.
func NewPlayer(bus *event.Bus, cfg PlayerConfig, rng *rand.Rand) *Player {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &Player{
		Config: cfg,
		bus:    bus,
		rng:    rng,
		powerUps: map[string]bool{
			PowerUpDoubleJump: false,
			PowerUpSpeedBoost: false,
			PowerUpShield:     false,
			PowerUpDash:       false,
		},
	}
}

func (p *Player) Kind() ecs.ComponentID { return PlayerKind.ID() }

func (p *Player) Init() error {
	e := p.Entity()
	physics, okPhysics := ecs.Get(e, PhysicsKind)
	input, okInput := ecs.Get(e, InputKind)
	sprite, okSprite := ecs.Get(e, SpriteKind)
	if !okPhysics || !okInput || !okSprite {
		return fmt.Errorf("%w: player needs physics, input and sprite", ErrMissingCapability)
	}
	p.physics, p.input, p.sprite = physics, input, sprite
	return nil
}

func (p *Player) Update(dt time.Duration) {
	if p.physics == nil || p.physics.Body == nil || p.input == nil || p.sprite == nil {
		return
	}
	body := p.physics.Body
	cfg := p.Config
	contacts := body.Contacts()
	p.grounded = contacts.Down

	if p.grounded {
		p.coyote = cfg.CoyoteTime
		p.doubleJumped = false
	} else {
		p.coyote = countdown(p.coyote, dt)
	}
	p.jumpBuffer = countdown(p.jumpBuffer, dt)

	p.wallDir = contacts.WallDirection()
	p.wallSliding = false
	horizontal := p.input.Horizontal()

	if !p.dashing {
		if _, vy := body.Velocity(); p.wallDir != 0 && !p.grounded && vy > 0 && cfg.WallJump {
			p.wallSliding = true
			body.SetVelocityY(math.Min(vy, cfg.WallSlideSpeed))
			if p.chance(wallDustChance) {
				x, y := p.Entity().Position()
				p.bus.Emit(event.ParticleSpawn, event.Particles{
					X:     x + float64(p.wallDir)*20,
					Y:     y + p.rng.Float64()*30 - 15,
					Color: 0xCCCCCC,
					Count: 1,
				})
			}
		}

		body.SetVelocityX(float64(horizontal) * p.moveSpeed())
		if horizontal != 0 {
			p.sprite.FlipX = horizontal < 0
		}
	}

	if p.input.JumpPressed() {
		p.jumpBuffer = cfg.JumpBuffer
	}
	if p.jumpBuffer > 0 {
		switch {
		case p.coyote > 0:
			p.jump(body)
		case p.wallDir != 0 && cfg.WallJump && !p.grounded:
			p.wallJump(body)
		case !p.doubleJumped && p.powerUps[PowerUpDoubleJump] && !p.grounded:
			p.doubleJump(body)
		}
	}

	if p.dashing {
		p.dashTimer = countdown(p.dashTimer, dt)
		if p.dashTimer <= 0 {
			p.dashing = false
			body.SetDragX(cfg.DashBrakeDrag)
			p.brakeTimer = cfg.DashBrakeTime
		}
	} else {
		if p.brakeTimer > 0 {
			p.brakeTimer = countdown(p.brakeTimer, dt)
			if p.brakeTimer <= 0 {
				body.SetDragX(0)
			}
		}
		p.dashCooldown = countdown(p.dashCooldown, dt)
		if p.input.DashHeld() && p.dashCooldown <= 0 && p.powerUps[PowerUpDash] && horizontal != 0 {
			p.dash(body, horizontal)
		}
	}

	if p.combo > 0 {
		p.comboTimer = countdown(p.comboTimer, dt)
		if p.comboTimer <= 0 {
			p.combo = 0
			p.bus.Emit(event.ComboEnded, event.Combo{})
		}
	}

	if _, vy := body.Velocity(); vy < 0 && !p.input.JumpHeld() {
		body.SetVelocityY(vy * jumpCutFactor)
	}

	if p.grounded && horizontal != 0 && p.chance(runDustChance) {
		x, y := p.Entity().Position()
		p.bus.Emit(event.ParticleSpawn, event.Particles{
			X:         x,
			Y:         y + 25,
			Color:     0x8B4513,
			Count:     1,
			VelocityX: -float64(horizontal) * 50,
			VelocityY: -50,
		})
	}
}

func (p *Player) jump(body Body) {
	body.SetVelocityY(p.Config.JumpPower)
	p.coyote = 0
	p.jumpBuffer = 0

	x, y := p.Entity().Position()
	p.bus.Emit(event.PlayerJump, event.Jumped{Type: event.JumpNormal})
	p.bus.Emit(event.ParticleSpawn, event.Particles{X: x, Y: y + 30, Color: 0xCCCCCC, Count: 5})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "jump"})
}

func (p *Player) wallJump(body Body) {
	body.SetVelocityY(p.Config.JumpPower * wallJumpLift)
	body.SetVelocityX(-float64(p.wallDir) * p.Config.WallJumpPush)
	p.jumpBuffer = 0

	x, y := p.Entity().Position()
	p.bus.Emit(event.PlayerJump, event.Jumped{Type: event.JumpWall})
	p.bus.Emit(event.ParticleSpawn, event.Particles{
		X:         x + float64(p.wallDir)*20,
		Y:         y,
		Color:     0x4CAF50,
		Count:     8,
		VelocityX: float64(p.wallDir) * 100,
	})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "wallJump"})
	p.bus.Emit(event.CameraShake, event.Shake{Intensity: 2})
}

func (p *Player) doubleJump(body Body) {
	body.SetVelocityY(p.Config.JumpPower * doubleJumpLift)
	p.doubleJumped = true
	p.jumpBuffer = 0

	x, y := p.Entity().Position()
	p.bus.Emit(event.PlayerJump, event.Jumped{Type: event.JumpDouble})
	p.bus.Emit(event.ParticleSpawn, event.Particles{X: x, Y: y, Color: 0xFFD700, Count: 12, Spread: true})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "doubleJump"})
}

func (p *Player) dash(body Body, direction int) {
	p.dashing = true
	p.wallSliding = false
	p.dashTimer = p.Config.DashDuration
	p.dashCooldown = p.Config.DashCooldown
	p.brakeTimer = 0

	body.SetVelocity(float64(direction)*p.Config.DashSpeed, 0)
	body.SetDragX(0)

	x, y := p.Entity().Position()
	p.bus.Emit(event.PlayerDash, event.Dashed{Direction: direction})
	p.bus.Emit(event.ParticleSpawn, event.Particles{
		X:         x,
		Y:         y,
		Color:     0x2196F3,
		Count:     15,
		Trail:     true,
		VelocityX: -float64(direction) * 100,
	})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "dash"})
	p.bus.Emit(event.CameraShake, event.Shake{Intensity: 3})
}

func (p *Player) moveSpeed() float64 {
	if p.powerUps[PowerUpSpeedBoost] {
		return p.Config.Speed * p.Config.SpeedBoostFactor
	}
	return p.Config.Speed
}

func (p *Player) chance(prob float64) bool {
	return p.rng.Float64() < prob
}

// AddPowerUp grants a known power-up. Unknown names are ignored.
func (p *Player) AddPowerUp(name string) bool {
	if p == nil {
		return false
	}
	if _, ok := p.powerUps[name]; !ok {
		return false
	}
	p.powerUps[name] = true
	p.bus.Emit(event.PowerUpAcquired, event.PowerUp{Type: name})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "powerup"})
	return true
}

func (p *Player) HasPowerUp(name string) bool {
	return p != nil && p.powerUps[name]
}

// PowerUps lists the owned power-ups, sorted.
func (p *Player) PowerUps() []string {
	if p == nil {
		return nil
	}
	var owned []string
	for name, on := range p.powerUps {
		if on {
			owned = append(owned, name)
		}
	}
	sort.Strings(owned)
	return owned
}

// ConsumeShield spends the shield, reporting whether one was up.
func (p *Player) ConsumeShield() bool {
	if !p.HasPowerUp(PowerUpShield) {
		return false
	}
	p.powerUps[PowerUpShield] = false
	return true
}

func (p *Player) ApplyKnockback(vx, vy float64) {
	if p == nil || p.physics == nil {
		return
	}
	p.physics.SetVelocity(vx, vy)
}

// IncrementCombo extends the combo and restarts its window.
func (p *Player) IncrementCombo() int {
	if p == nil {
		return 0
	}
	p.combo++
	p.comboTimer = p.Config.ComboWindow
	p.bus.Emit(event.ComboIncrement, event.Combo{Combo: p.combo})
	return p.combo
}

func (p *Player) Combo() int {
	if p == nil {
		return 0
	}
	return p.combo
}

// ComboMultiplier is 1 + 0.1 per combo step, uncapped.
func (p *Player) ComboMultiplier() float64 {
	return 1 + float64(p.Combo())*comboMultiplier
}

func (p *Player) Grounded() bool                 { return p.grounded }
func (p *Player) Dashing() bool                  { return p.dashing }
func (p *Player) WallSliding() bool              { return p.wallSliding }
func (p *Player) DoubleJumped() bool             { return p.doubleJumped }
func (p *Player) CoyoteTimer() time.Duration     { return p.coyote }
func (p *Player) JumpBufferTimer() time.Duration { return p.jumpBuffer }
func (p *Player) DashCooldown() time.Duration    { return p.dashCooldown }

func countdown(v, dt time.Duration) time.Duration {
	if v <= 0 {
		return 0
	}
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}
