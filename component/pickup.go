package component

import (
	"math"
	"time"

	"github.com/milk9111/platformer/ecs"
)

var PickupKind = ecs.NewKind[*Pickup]()

const (
	PickupCoin   = "coin"
	PickupHealth = "health"
	PickupExit   = "exit"
)

const (
	bobHeight = 20
	bobPeriod = 3 * time.Second
)

// Pickup is something the player collects by touching it: a coin, a
// power-up (Type is the power-up name), a health refill or the level exit.
type Pickup struct {
	ecs.Base
	Type      string
	Value     int
	Collected bool

	phase time.Duration
}

func NewPickup(typ string, value int) *Pickup {
	return &Pickup{Type: typ, Value: value}
}

func (p *Pickup) Kind() ecs.ComponentID { return PickupKind.ID() }

func (p *Pickup) Update(dt time.Duration) {
	if p.Type == PickupExit {
		return
	}
	p.phase = (p.phase + dt) % bobPeriod
}

// Bob is the vertical draw offset of the floating animation, in [-20, 0].
func (p *Pickup) Bob() float64 {
	if p == nil {
		return 0
	}
	t := float64(p.phase) / float64(bobPeriod)
	return -bobHeight * (1 - math.Cos(2*math.Pi*t)) / 2
}
