package system

import (
	"math"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

const (
	projectileLife   = 3 * time.Second
	projectileRadius = 6
	projectileReach  = 30
	projectileColor  = 0xFFFF00
)

// Projectile is an enemy shot. It ignores gravity and platforms.
type Projectile struct {
	X, Y   float64
	VX, VY float64
	Life   time.Duration
	Color  uint32
}

// Projectiles moves enemy shots and reports the ones that reach the player
// as player:hit.
type Projectiles struct {
	ecs.BaseSystem
	listeners

	pool *common.ObjectPool[*Projectile]
	live []*Projectile
}

func NewProjectiles(bus *event.Bus) *Projectiles {
	p := &Projectiles{
		listeners: listeners{bus: bus},
		pool: common.NewObjectPool(
			func() *Projectile { return &Projectile{} },
			func(p *Projectile) { *p = Projectile{} },
			16,
		),
	}
	listen(&p.listeners, event.ProjectileFire, p.Fire)
	return p
}

func (p *Projectiles) Fire(s event.Shot) {
	shot := p.pool.Get()
	shot.X, shot.Y = s.X, s.Y
	shot.VX, shot.VY = s.VX, s.VY
	shot.Life = s.Life
	if shot.Life <= 0 {
		shot.Life = projectileLife
	}
	shot.Color = s.Color
	if shot.Color == 0 {
		shot.Color = projectileColor
	}
	p.live = append(p.live, shot)
}

func (p *Projectiles) Update(entities []*ecs.Entity, dt time.Duration) {
	player, hasPlayer := ecs.FirstTagged(entities, "player")
	secs := dt.Seconds()

	kept := p.live[:0]
	for _, shot := range p.live {
		shot.X += shot.VX * secs
		shot.Y += shot.VY * secs
		shot.Life -= dt

		if hasPlayer && math.Hypot(shot.X-player.X, shot.Y-player.Y) < projectileReach {
			p.bus.Emit(event.PlayerHit, event.Hit{X: shot.X})
			p.pool.Release(shot)
			continue
		}
		if shot.Life <= 0 {
			p.pool.Release(shot)
			continue
		}
		kept = append(kept, shot)
	}
	clear(p.live[len(kept):])
	p.live = kept
}

func (p *Projectiles) Live() []*Projectile {
	return p.live
}

// Clear drops every shot in flight.
func (p *Projectiles) Clear() {
	p.pool.ReleaseAll()
	clear(p.live)
	p.live = p.live[:0]
}

func (p *Projectiles) Destroy() {
	p.off()
	p.live = nil
	p.pool.Clear()
}
