package system

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

const (
	bossParticleColor = 0x9C27B0
	bossHitFlash      = 200 * time.Millisecond
	bossFeet          = 60
	meteorHeight      = 100
	meteorSpread      = 600
	groundPoundLimit  = 3 * time.Second
)

// Boss runs the boss fight. It spawns the boss once its delay has passed,
// steps the boss through its phases as health falls and plays one attack at
// a time, walking toward the player in between.
type Boss struct {
	ecs.BaseSystem
	listeners

	log *zap.Logger
	rng *rand.Rand

	spawn  func() (*ecs.Entity, error)
	delay  time.Duration
	waited time.Duration
	boss   *ecs.Entity
}

func NewBoss(log *zap.Logger, bus *event.Bus, rng *rand.Rand) *Boss {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Boss{
		listeners: listeners{bus: bus},
		log:       log.Named("boss"),
		rng:       seeded(rng),
	}
	listen(&b.listeners, event.HealthChanged, b.onHealthChanged)
	return b
}

// Schedule calls spawn once delay has passed. Blocking is true from now on
// until the spawned boss dies.
func (b *Boss) Schedule(delay time.Duration, spawn func() (*ecs.Entity, error)) {
	b.spawn = spawn
	b.delay = delay
	b.waited = 0
}

// Blocking reports whether a boss is still to come or still alive.
func (b *Boss) Blocking() bool {
	return b.spawn != nil || b.alive()
}

// Entity returns the boss once it has spawned.
func (b *Boss) Entity() (*ecs.Entity, bool) {
	return b.boss, b.alive()
}

func (b *Boss) alive() bool {
	if b.boss == nil || b.boss.Manager() == nil {
		return false
	}
	health, ok := ecs.Get(b.boss, component.HealthKind)
	return ok && health.IsAlive()
}

func (b *Boss) Update(entities []*ecs.Entity, dt time.Duration) {
	if b.spawn != nil {
		b.waited += dt
		if b.waited >= b.delay {
			spawn := b.spawn
			b.spawn = nil
			e, err := spawn()
			if err != nil {
				b.log.Error("spawn boss", zap.Error(err))
			} else {
				b.adopt(e)
			}
		}
	}
	if e, ok := ecs.FirstTagged(entities, "boss"); ok && e != b.boss {
		b.adopt(e)
	}
	if !b.alive() {
		return
	}
	player, _ := ecs.FirstTagged(entities, "player")
	b.step(b.boss, player, dt)
}

func (b *Boss) adopt(e *ecs.Entity) {
	b.boss = e
	b.log.Info("boss spawned", zap.Stringer("entity", e.ID()), zap.Float64("x", e.X), zap.Float64("y", e.Y))
	b.bus.Emit(event.BossSpawned, event.Boss{Entity: e.ID(), X: e.X, Y: e.Y})
}

func (b *Boss) step(e, player *ecs.Entity, dt time.Duration) {
	boss, okBoss := ecs.Get(e, component.BossKind)
	health, okHealth := ecs.Get(e, component.HealthKind)
	physics, okPhysics := ecs.Get(e, component.PhysicsKind)
	if !okBoss || !okHealth || !okPhysics {
		return
	}

	for next := boss.NextPhase(health.HealthPercent()); boss.Phase < next; {
		boss.Phase++
		b.enterPhase(e, boss)
	}

	boss.AttackTimer += dt
	if player == nil {
		return
	}

	switch {
	case boss.Attacking():
		prev := boss.Elapsed
		boss.Elapsed += dt
		if b.attack(e, boss, physics, player, prev, boss.Elapsed) {
			boss.EndAttack()
		}
	case boss.AttackTimer >= boss.AttackInterval:
		phase := boss.CurrentPhase()
		if phase == nil || len(phase.Attacks) == 0 {
			return
		}
		boss.StartAttack(phase.Attacks[b.rng.IntN(len(phase.Attacks))])
		b.log.Debug("boss attack", zap.String("attack", boss.Attack), zap.Int("phase", boss.Phase+1))
		if b.attack(e, boss, physics, player, -1, 0) {
			boss.EndAttack()
		}
	default:
		b.follow(e, boss, physics, player, dt)
	}
}

func (b *Boss) enterPhase(e *ecs.Entity, boss *component.Boss) {
	phase := boss.CurrentPhase()
	if sprite, ok := ecs.Get(e, component.SpriteKind); ok && phase.Color != 0 {
		sprite.Color = phase.Color
	}
	if phase.Shake > 0 {
		b.bus.Emit(event.CameraShake, event.Shake{Intensity: phase.Shake, Duration: phase.ShakeFor})
	}
	if phase.BurstCount > 0 {
		b.bus.Emit(event.ParticleExplosion, event.Particles{X: e.X, Y: e.Y, Color: phase.BurstColor, Count: phase.BurstCount, Speed: phase.BurstSpeed})
	}
	b.log.Info("boss phase", zap.Int("phase", boss.Phase+1), zap.String("name", phase.Name))
	b.bus.Emit(event.BossPhase, event.Boss{Entity: e.ID(), X: e.X, Y: e.Y, Phase: boss.Phase + 1, Name: phase.Name})
}

// attack advances the running attack from prev to now and reports whether
// it has finished. A fresh attack is stepped with prev below zero.
func (b *Boss) attack(e *ecs.Entity, boss *component.Boss, physics *component.Physics, player *ecs.Entity, prev, now time.Duration) bool {
	at := func(t time.Duration) bool { return prev < t && now >= t }
	dir := float64(facing(e.X, player.X))

	switch boss.Attack {
	case component.AttackShoot:
		if at(0) {
			b.aim(e, boss, player, 250, 0)
		}
		return now >= 500*time.Millisecond

	case component.AttackTripleShoot:
		if at(0) {
			for _, spread := range []float64{-0.3, 0, 0.3} {
				b.aim(e, boss, player, 300, spread)
			}
		}
		return now >= 800*time.Millisecond

	case component.AttackBulletSpiral:
		for boss.Fired < 16 && now >= time.Duration(boss.Fired)*100*time.Millisecond {
			angle := float64(boss.Fired) * 2 * math.Pi / 8
			b.fire(e.X, e.Y, boss, math.Cos(angle)*200, math.Sin(angle)*200)
			boss.Fired++
		}
		return now >= 1800*time.Millisecond

	case component.AttackCharge:
		if at(0) {
			b.charge(physics, dir*500)
		}
		if now >= 800*time.Millisecond {
			setVX(physics, 0)
			return true
		}
		return false

	case component.AttackDashAttack:
		if at(0) {
			b.charge(physics, dir*500)
		}
		if at(800 * time.Millisecond) {
			setVX(physics, 0)
		}
		if now >= time.Second {
			b.aim(e, boss, player, 350, 0)
			return true
		}
		return false

	case component.AttackRapidDash:
		for boss.Fired < 4 && now >= time.Duration(boss.Fired)*600*time.Millisecond {
			setVX(physics, dir*600)
			boss.Fired++
		}
		for k := range 4 {
			if at(time.Duration(k)*600*time.Millisecond + 300*time.Millisecond) {
				setVX(physics, 0)
			}
		}
		return now >= 2800*time.Millisecond

	case component.AttackJump:
		if at(0) {
			vx, _ := physics.Velocity()
			physics.SetVelocity(vx, -600)
			b.bus.Emit(event.ParticleSpawn, event.Particles{X: e.X, Y: e.Y + bossFeet, Color: bossParticleColor, Count: 15, Spread: true})
		}
		return now >= time.Second

	case component.AttackGroundPound:
		return b.groundPound(e, boss, physics, prev, now)

	case component.AttackMeteorShower:
		for boss.Fired < 10 && now >= time.Duration(boss.Fired)*200*time.Millisecond {
			x := e.X + (b.rng.Float64()-0.5)*meteorSpread
			b.fire(x, meteorHeight, boss, 0, 400)
			boss.Fired++
		}
		return now >= 2500*time.Millisecond
	}

	b.log.Warn("unknown boss attack", zap.String("attack", boss.Attack))
	return true
}

// groundPound leaps, slams down at half a second and shakes the screen on
// landing. Fired counts the stages: 1 once slamming, 2 once landed.
func (b *Boss) groundPound(e *ecs.Entity, boss *component.Boss, physics *component.Physics, prev, now time.Duration) bool {
	slam := 500 * time.Millisecond
	if prev < 0 {
		vx, _ := physics.Velocity()
		physics.SetVelocity(vx, -700)
	}
	if prev < slam && now >= slam {
		vx, _ := physics.Velocity()
		physics.SetVelocity(vx, 1000)
		boss.Fired = 1
		return false
	}
	if boss.Fired == 1 && physics.Contacts().Down {
		boss.Fired = 2
		boss.LandedAt = now
		b.bus.Emit(event.CameraShake, event.Shake{Intensity: 12, Duration: 400 * time.Millisecond})
		b.bus.Emit(event.ParticleExplosion, event.Particles{X: e.X, Y: e.Y + bossFeet, Color: 0xE91E63, Count: 40, Speed: 400})
	}
	if boss.Fired == 2 {
		return now-boss.LandedAt >= 500*time.Millisecond
	}
	return now >= groundPoundLimit
}

func (b *Boss) charge(physics *component.Physics, vx float64) {
	setVX(physics, vx)
	b.bus.Emit(event.CameraShake, event.Shake{Intensity: 5, Duration: 200 * time.Millisecond})
}

func (b *Boss) follow(e *ecs.Entity, boss *component.Boss, physics *component.Physics, player *ecs.Entity, dt time.Duration) {
	boss.MoveTimer += dt
	if boss.MoveTimer < boss.MoveInterval {
		return
	}
	boss.MoveTimer = 0

	vx := 0.0
	if dx := player.X - e.X; math.Abs(dx) > boss.FollowDistance {
		vx = float64(facing(e.X, player.X)) * boss.MoveSpeed
	}
	setVX(physics, vx)
	if sprite, ok := ecs.Get(e, component.SpriteKind); ok && vx != 0 {
		sprite.FlipX = vx < 0
	}
}

func (b *Boss) aim(e *ecs.Entity, boss *component.Boss, player *ecs.Entity, speed, spread float64) {
	angle := math.Atan2(player.Y-e.Y, player.X-e.X) + spread
	b.fire(e.X, e.Y, boss, math.Cos(angle)*speed, math.Sin(angle)*speed)
}

func (b *Boss) fire(x, y float64, boss *component.Boss, vx, vy float64) {
	b.bus.Emit(event.ProjectileFire, event.Shot{X: x, Y: y, VX: vx, VY: vy, Color: boss.ShotColor, Life: boss.ShotLife})
}

func (b *Boss) onHealthChanged(h event.HealthChange) {
	if b.boss == nil || h.Entity != b.boss.ID() {
		return
	}
	if sprite, ok := ecs.Get(b.boss, component.SpriteKind); ok {
		sprite.Blink(bossHitFlash)
	}
	b.bus.Emit(event.ParticleSpawn, event.Particles{X: b.boss.X, Y: b.boss.Y, Color: bossParticleColor, Count: 10, Spread: true})
}

func (b *Boss) Destroy() {
	b.off()
	b.spawn = nil
	b.boss = nil
}

// facing is 1 when to is right of from, else -1.
func facing(from, to float64) int {
	if to < from {
		return -1
	}
	return 1
}

func setVX(physics *component.Physics, vx float64) {
	_, vy := physics.Velocity()
	physics.SetVelocity(vx, vy)
}
