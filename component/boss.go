package component

import (
	"time"

	"github.com/milk9111/platformer/ecs"
)

var BossKind = ecs.NewKind[*Boss]()

// Boss attack names as written in boss.yaml.
const (
	AttackShoot        = "shoot"
	AttackJump         = "jump"
	AttackCharge       = "charge"
	AttackTripleShoot  = "tripleShoot"
	AttackDashAttack   = "dashAttack"
	AttackGroundPound  = "groundPound"
	AttackBulletSpiral = "bulletSpiral"
	AttackRapidDash    = "rapidDash"
	AttackMeteorShower = "meteorShower"
)

// BossPhase is one stage of the fight, entered when health drops to
// HPTrigger of max. Phases are ordered by falling HPTrigger.
type BossPhase struct {
	Name       string
	HPTrigger  float64
	Color      uint32
	Attacks    []string
	Shake      float64
	ShakeFor   time.Duration
	BurstColor uint32
	BurstCount int
	BurstSpeed float64
}

// Boss holds the phase table and the fight's runtime state. The boss
// system owns every field below the blank line.
type Boss struct {
	ecs.Base
	Phases         []BossPhase
	Score          int
	AttackInterval time.Duration
	MoveInterval   time.Duration
	MoveSpeed      float64
	FollowDistance float64
	ShotColor      uint32
	ShotLife       time.Duration

	Phase       int
	Attack      string
	Elapsed     time.Duration
	Fired       int
	LandedAt    time.Duration
	AttackTimer time.Duration
	MoveTimer   time.Duration
}

func NewBoss(phases []BossPhase) *Boss {
	return &Boss{Phases: phases}
}

func (b *Boss) Kind() ecs.ComponentID { return BossKind.ID() }

// CurrentPhase returns the active phase, or nil with no phases.
func (b *Boss) CurrentPhase() *BossPhase {
	if b == nil || b.Phase < 0 || b.Phase >= len(b.Phases) {
		return nil
	}
	return &b.Phases[b.Phase]
}

// NextPhase returns the index of the phase health should be in, never
// earlier than the current one.
func (b *Boss) NextPhase(healthPercent float64) int {
	next := b.Phase
	for next+1 < len(b.Phases) && healthPercent <= b.Phases[next+1].HPTrigger {
		next++
	}
	return next
}

// Attacking reports whether an attack is running.
func (b *Boss) Attacking() bool {
	return b != nil && b.Attack != ""
}

// StartAttack begins name from its first frame.
func (b *Boss) StartAttack(name string) {
	b.Attack = name
	b.Elapsed = 0
	b.Fired = 0
	b.LandedAt = 0
	b.AttackTimer = 0
}

func (b *Boss) EndAttack() {
	b.Attack = ""
	b.Elapsed = 0
	b.Fired = 0
	b.LandedAt = 0
}
