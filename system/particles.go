package system

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/prefabs"
)

const (
	particleDrag    = 0.98
	particleRadius  = 3
	trailLifetime   = 300 * time.Millisecond
	defaultParticle = 0xFFFFFF
)

// Particle is one pooled cosmetic dot. Alpha and Scale fade with its life.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Color   uint32
	Radius  float64
	Life    time.Duration
	MaxLife time.Duration
	Gravity bool
	Alpha   float64
	Scale   float64
}

func (p *Particle) reset() {
	*p = Particle{Alpha: 1, Scale: 1}
}

// Particles spawns particles for particle:spawn, particle:explosion and
// particle:trail and steps them each frame.
type Particles struct {
	ecs.BaseSystem
	listeners

	rng      *rand.Rand
	pool     *common.ObjectPool[*Particle]
	live     []*Particle
	gravity  float64
	lifetime time.Duration
}

func NewParticles(bus *event.Bus, rng *rand.Rand, game prefabs.GameSpec) *Particles {
	ps := &Particles{
		listeners: listeners{bus: bus},
		rng:       seeded(rng),
		gravity:   game.ParticleGravity,
		lifetime:  game.ParticleLifetime,
	}
	if ps.lifetime <= 0 {
		ps.lifetime = time.Second
	}
	ps.pool = common.NewObjectPool(
		func() *Particle { return &Particle{Alpha: 1, Scale: 1} },
		(*Particle).reset,
		game.ParticlePool,
	)
	listen(&ps.listeners, event.ParticleSpawn, ps.Spawn)
	listen(&ps.listeners, event.ParticleExplosion, ps.Explode)
	listen(&ps.listeners, event.ParticleTrail, ps.Trail)
	return ps
}

// Spawn emits Count particles at X, Y. Spread fans them evenly around a
// circle; otherwise they jitter around the requested velocity.
func (ps *Particles) Spawn(req event.Particles) {
	if req.Count <= 0 {
		req.Count = 5
	}
	if req.Color == 0 {
		req.Color = defaultParticle
	}
	life := ps.lifetime
	if req.Trail {
		life = trailLifetime
	}

	for i := range req.Count {
		vx, vy := req.VelocityX, req.VelocityY
		if req.Spread {
			angle := 2 * math.Pi * float64(i) / float64(req.Count)
			speed := 100 + ps.rng.Float64()*100
			vx, vy = math.Cos(angle)*speed, math.Sin(angle)*speed
		} else {
			vx += (ps.rng.Float64() - 0.5) * 100
			vy += (ps.rng.Float64() - 0.5) * 100
		}
		ps.emit(req.X, req.Y, vx, vy, req.Color, particleRadius, life, !req.Trail)
	}
}

// Explode throws Count particles outward at roughly Speed.
func (ps *Particles) Explode(req event.Particles) {
	if req.Count <= 0 {
		req.Count = 20
	}
	if req.Color == 0 {
		req.Color = 0xFF5722
	}
	if req.Speed <= 0 {
		req.Speed = 200
	}
	for i := range req.Count {
		angle := 2 * math.Pi * float64(i) / float64(req.Count)
		speed := req.Speed * (0.5 + ps.rng.Float64()*0.5)
		radius := 4 + ps.rng.Float64()*3
		life := 500*time.Millisecond + time.Duration(ps.rng.Float64()*float64(500*time.Millisecond))
		ps.emit(req.X, req.Y, math.Cos(angle)*speed, math.Sin(angle)*speed, req.Color, radius, life, true)
	}
}

// Trail leaves a few short lived, weightless particles behind a mover.
func (ps *Particles) Trail(req event.Particles) {
	if req.Count <= 0 {
		req.Count = 3
	}
	if req.Color == 0 {
		req.Color = 0x2196F3
	}
	for range req.Count {
		vx := (ps.rng.Float64() - 0.5) * 50
		vy := (ps.rng.Float64() - 0.5) * 50
		ps.emit(req.X, req.Y, vx, vy, req.Color, 2, trailLifetime, false)
	}
}

func (ps *Particles) emit(x, y, vx, vy float64, color uint32, radius float64, life time.Duration, gravity bool) {
	p := ps.pool.Get()
	p.X, p.Y = x, y
	p.VX, p.VY = vx, vy
	p.Color = color
	p.Radius = radius
	p.Life, p.MaxLife = life, life
	p.Gravity = gravity
	p.Alpha, p.Scale = 1, 1
	ps.live = append(ps.live, p)
}

func (ps *Particles) Update(_ []*ecs.Entity, dt time.Duration) {
	secs := dt.Seconds()
	kept := ps.live[:0]
	for _, p := range ps.live {
		p.X += p.VX * secs
		p.Y += p.VY * secs
		if p.Gravity {
			p.VY += ps.gravity * secs
		}
		p.VX *= particleDrag
		p.VY *= particleDrag

		p.Life -= dt
		if p.Life <= 0 {
			ps.pool.Release(p)
			continue
		}
		p.Alpha = float64(p.Life) / float64(p.MaxLife)
		p.Scale = 0.5 + p.Alpha*0.5
		kept = append(kept, p)
	}
	clear(ps.live[len(kept):])
	ps.live = kept
}

// Live returns the particles to draw this frame.
func (ps *Particles) Live() []*Particle {
	return ps.live
}

func (ps *Particles) Stats() common.PoolStats {
	return ps.pool.Stats()
}

func (ps *Particles) Destroy() {
	ps.off()
	ps.live = nil
	ps.pool.Clear()
}
