package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/prefabs"
)

const (
	coinColor    = 0xFFD700
	powerUpColor = 0x9C27B0
	exitBonus    = 100
)

// Pickups collects whatever the player touches: coins, health, power-ups
// and the level exit.
type Pickups struct {
	ecs.BaseSystem

	log      *zap.Logger
	bus      *event.Bus
	manager  *ecs.EntityManager
	score    *Scoreboard
	game     prefabs.GameSpec
	complete bool
	locks    []func() bool
}

func NewPickups(log *zap.Logger, bus *event.Bus, manager *ecs.EntityManager, score *Scoreboard, game prefabs.GameSpec) *Pickups {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pickups{
		log:     log.Named("pickups"),
		bus:     bus,
		manager: manager,
		score:   score,
		game:    game,
	}
}

// Complete reports whether the exit has been reached this level.
func (p *Pickups) Complete() bool {
	return p.complete
}

// LockExit keeps the exit shut while locked reports true.
func (p *Pickups) LockExit(locked func() bool) {
	p.locks = append(p.locks, locked)
}

// ExitLocked reports whether any lock still holds the exit.
func (p *Pickups) ExitLocked() bool {
	for _, locked := range p.locks {
		if locked() {
			return true
		}
	}
	return false
}

func (p *Pickups) Update(entities []*ecs.Entity, _ time.Duration) {
	player, ok := ecs.FirstTagged(entities, "player")
	if !ok {
		return
	}
	sprite, ok := ecs.Get(player, component.SpriteKind)
	if !ok {
		return
	}
	if health, ok := ecs.Get(player, component.HealthKind); ok && !health.IsAlive() {
		return
	}
	box := sprite.Bounds()

	for _, e := range entities {
		if !e.Active() {
			continue
		}
		pickup, ok := ecs.Get(e, component.PickupKind)
		if !ok || pickup.Collected {
			continue
		}
		ps, ok := ecs.Get(e, component.SpriteKind)
		if !ok || !box.Intersects(ps.Bounds()) {
			continue
		}
		p.collect(player, e, pickup)
	}
}

func (p *Pickups) collect(player, e *ecs.Entity, pickup *component.Pickup) {
	switch pickup.Type {
	case component.PickupCoin:
		p.coin(e, pickup)
	case component.PickupHealth:
		p.health(player, e, pickup)
	case component.PickupExit:
		p.exit(pickup)
		return
	default:
		p.powerUp(player, e, pickup)
	}
	pickup.Collected = true
	p.manager.DestroyEntity(e)
}

func (p *Pickups) coin(e *ecs.Entity, pickup *component.Pickup) {
	value := pickup.Value
	if value <= 0 {
		value = p.game.CoinScore
	}
	p.score.Coins++
	p.bus.Emit(event.CoinCollected, event.Coin{Value: value})
	p.score.Add(value)
	p.bus.Emit(event.ParticleSpawn, event.Particles{X: e.X, Y: e.Y, Color: coinColor, Count: 10, Spread: true})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "collect"})
}

func (p *Pickups) health(player, e *ecs.Entity, pickup *component.Pickup) {
	amount := float64(pickup.Value)
	if amount <= 0 {
		amount = 1
	}
	if h, ok := ecs.Get(player, component.HealthKind); ok {
		h.Heal(amount)
	}
	p.bus.Emit(event.ParticleSpawn, event.Particles{X: e.X, Y: e.Y, Color: 0x4CAF50, Count: 10, Spread: true})
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "collect"})
}

func (p *Pickups) powerUp(player, e *ecs.Entity, pickup *component.Pickup) {
	ctl, _ := ecs.Get(player, component.PlayerKind)
	if !ctl.AddPowerUp(pickup.Type) {
		p.log.Warn("unknown power-up", zap.String("type", pickup.Type))
	}
	p.bus.Emit(event.ParticleSpawn, event.Particles{X: e.X, Y: e.Y, Color: powerUpColor, Count: 20, Spread: true})
	p.bus.Emit(event.CameraFlash, event.Flash{Color: powerUpColor, Duration: 100 * time.Millisecond})
}

func (p *Pickups) exit(pickup *component.Pickup) {
	if p.complete || p.ExitLocked() {
		return
	}
	p.complete = true
	pickup.Collected = true

	p.score.Add(p.score.Coins * exitBonus)
	p.bus.Emit(event.SFXPlay, event.Sound{Type: "victory"})
	p.bus.Emit(event.CameraFlash, event.Flash{Color: coinColor, Duration: 500 * time.Millisecond})
	p.bus.Emit(event.LevelComplete, event.Level{ID: p.score.Level, Score: p.score.Score()})
}
