package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/prefabs"
)

const (
	stompThreshold     = 15
	bossStompThreshold = 10
	stompGrace       = 200 * time.Millisecond
	defaultKillScore = 200
)

// Combat resolves contact between the player and enemies: stomps from
// above, hits otherwise. It also turns entity:died into kills and game over.
type Combat struct {
	ecs.BaseSystem
	listeners

	log     *zap.Logger
	manager *ecs.EntityManager
	score   *Scoreboard
	game    prefabs.GameSpec
	hitTime time.Duration

	grace time.Duration
	over  bool
}

// NewCombat wires combat to the bus. hitTime is the invulnerability a
// player gets after being hit.
func NewCombat(log *zap.Logger, bus *event.Bus, manager *ecs.EntityManager, score *Scoreboard, game prefabs.GameSpec, hitTime time.Duration) *Combat {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Combat{
		listeners: listeners{bus: bus},
		log:       log.Named("combat"),
		manager:   manager,
		score:     score,
		game:      game,
		hitTime:   hitTime,
	}
	listen(&c.listeners, event.EntityDied, c.onDied)
	listen(&c.listeners, event.PlayerHit, c.onPlayerHit)
	return c
}

func (c *Combat) GameOver() bool {
	return c.over
}

func (c *Combat) Update(entities []*ecs.Entity, dt time.Duration) {
	c.grace = max(c.grace-dt, 0)

	player, ok := ecs.FirstTagged(entities, "player")
	if !ok {
		return
	}
	health, okHealth := ecs.Get(player, component.HealthKind)
	sprite, okSprite := ecs.Get(player, component.SpriteKind)
	physics, okPhysics := ecs.Get(player, component.PhysicsKind)
	if !okHealth || !okSprite || !okPhysics || !health.IsAlive() {
		return
	}
	box := sprite.Bounds()

	for _, e := range entities {
		if !e.Active() || !e.HasTag("enemy") {
			continue
		}
		enemyHealth, ok := ecs.Get(e, component.HealthKind)
		if !ok || !enemyHealth.IsAlive() {
			continue
		}
		enemySprite, ok := ecs.Get(e, component.SpriteKind)
		if !ok {
			continue
		}
		enemyBox := enemySprite.Bounds()
		if !box.Intersects(enemyBox) {
			continue
		}

		threshold, shake := float64(stompThreshold), event.Shake{Intensity: 4, Duration: 100 * time.Millisecond}
		if e.HasTag("boss") {
			threshold, shake = bossStompThreshold, event.Shake{Intensity: 8, Duration: 200 * time.Millisecond}
		}
		if _, vy := physics.Velocity(); vy > 0 && box.Bottom()-threshold < enemyBox.Top() {
			c.stomp(physics, enemyHealth, shake)
			continue
		}
		c.hit(player, health, sprite, e.X)
		if !health.IsAlive() {
			return
		}
	}
}

func (c *Combat) stomp(physics *component.Physics, enemy *component.Health, shake event.Shake) {
	enemy.TakeDamage(1)
	vx, _ := physics.Velocity()
	physics.SetVelocity(vx, c.game.StompBounce)
	c.grace = stompGrace
	c.bus.Emit(event.CameraShake, shake)
	c.bus.Emit(event.SFXPlay, event.Sound{Type: "stomp"})
}

// onPlayerHit applies damage from outside contact, such as projectiles.
func (c *Combat) onPlayerHit(h event.Hit) {
	players := c.manager.GetEntitiesByTag("player")
	if len(players) == 0 {
		return
	}
	player := players[0]
	health, okHealth := ecs.Get(player, component.HealthKind)
	sprite, okSprite := ecs.Get(player, component.SpriteKind)
	if !okHealth || !okSprite || !health.IsAlive() {
		return
	}
	c.hit(player, health, sprite, h.X)
}

func (c *Combat) hit(player *ecs.Entity, health *component.Health, sprite *component.Sprite, fromX float64) {
	if health.Invulnerable() || c.grace > 0 {
		return
	}
	ctl, _ := ecs.Get(player, component.PlayerKind)

	if ctl.ConsumeShield() {
		health.MakeInvulnerable(c.hitTime)
		sprite.Blink(c.hitTime)
		c.bus.Emit(event.ParticleExplosion, event.Particles{X: player.X, Y: player.Y, Color: 0x4CAF50, Count: 30})
		c.bus.Emit(event.SFXPlay, event.Sound{Type: "shieldBreak"})
		return
	}

	health.TakeDamage(1)
	health.MakeInvulnerable(c.hitTime)
	sprite.Blink(c.hitTime)
	c.bus.Emit(event.CameraShake, event.Shake{Intensity: 5, Duration: 200 * time.Millisecond})
	c.bus.Emit(event.SFXPlay, event.Sound{Type: "hit"})

	kx := c.game.KnockbackX
	if player.X < fromX {
		kx = -kx
	}
	if ctl != nil {
		ctl.ApplyKnockback(kx, c.game.KnockbackY)
	} else if physics, ok := ecs.Get(player, component.PhysicsKind); ok {
		physics.SetVelocity(kx, c.game.KnockbackY)
	}
}

func (c *Combat) onDied(d event.Died) {
	e, ok := c.manager.EntityByID(d.Entity)
	if !ok {
		return
	}
	switch {
	case e.HasTag("player"):
		c.playerDied()
	case e.HasTag("boss"):
		c.bossDied(e)
	case e.HasTag("enemy"):
		c.enemyDied(e)
	}
}

func (c *Combat) playerDied() {
	if c.over {
		return
	}
	c.over = true
	c.bus.Emit(event.CameraShake, event.Shake{Intensity: 20, Duration: 500 * time.Millisecond})
	c.bus.Emit(event.SFXPlay, event.Sound{Type: "defeat"})
	c.bus.Emit(event.GameOver, event.Level{ID: c.score.Level, Score: c.score.Score()})
}

func (c *Combat) enemyDied(e *ecs.Entity) {
	multiplier := 1.0
	if players := c.manager.GetEntitiesByTag("player"); len(players) > 0 {
		if ctl, ok := ecs.Get(players[0], component.PlayerKind); ok {
			ctl.IncrementCombo()
			multiplier = ctl.ComboMultiplier()
		}
	}

	base := defaultKillScore
	if enemy, ok := ecs.Get(e, component.EnemyKind); ok && enemy.Score > 0 {
		base = enemy.Score
	}
	points := int(math.Floor(float64(base) * multiplier))
	c.score.Add(points)
	c.log.Debug("enemy killed", zap.Stringer("entity", e.ID()), zap.Int("points", points))

	c.bus.Emit(event.ParticleExplosion, event.Particles{X: e.X, Y: e.Y, Color: 0xFF5722, Count: 25, Speed: 250})
	c.bus.Emit(event.SFXPlay, event.Sound{Type: "enemyDeath"})
	c.manager.DestroyEntity(e)
}

// bossDied pays the boss score outright. It does not count toward combos.
func (c *Combat) bossDied(e *ecs.Entity) {
	points := defaultKillScore
	if boss, ok := ecs.Get(e, component.BossKind); ok && boss.Score > 0 {
		points = boss.Score
	}
	c.score.Add(points)
	c.log.Info("boss defeated", zap.Stringer("entity", e.ID()), zap.Int("points", points))

	c.bus.Emit(event.ParticleExplosion, event.Particles{X: e.X, Y: e.Y, Color: bossParticleColor, Count: 100, Speed: 500})
	c.bus.Emit(event.CameraShake, event.Shake{Intensity: 20, Duration: 500 * time.Millisecond})
	c.bus.Emit(event.SFXPlay, event.Sound{Type: "enemyDeath"})
	c.bus.Emit(event.BossDefeated, event.Boss{Entity: e.ID(), X: e.X, Y: e.Y})
	c.manager.DestroyEntity(e)
}

func (c *Combat) Destroy() {
	c.off()
}
