package component

import (
	"time"

	"github.com/milk9111/platformer/ecs"
)

var EnemyKind = ecs.NewKind[*Enemy]()

// Enemy holds the tuning and per-entity state an AI script reads and
// writes. Timer counts up from the last ResetTimer.
type Enemy struct {
	ecs.Base
	Type        string
	Script      string
	Speed       float64
	JumpPower   float64
	ActionDelay time.Duration
	Score       int
	Direction   int

	timer time.Duration
}

func NewEnemy(typ, script string) *Enemy {
	return &Enemy{Type: typ, Script: script, Direction: 1}
}

func (e *Enemy) Kind() ecs.ComponentID { return EnemyKind.ID() }

func (e *Enemy) Update(dt time.Duration) {
	e.timer += dt
}

func (e *Enemy) Timer() time.Duration {
	if e == nil {
		return 0
	}
	return e.timer
}

func (e *Enemy) ResetTimer() {
	if e == nil {
		return
	}
	e.timer = 0
}

// SetDirection keeps Direction at -1 or 1.
func (e *Enemy) SetDirection(d int) {
	if e == nil || d == 0 {
		return
	}
	e.Direction = clampAxis(d)
}
